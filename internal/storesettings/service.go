package storesettings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastano/veloshop-backend/pkg/db/models"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

const defaultStoreName = "My Store"

// SettingsDTO is the transport shape for a vendor's storefront settings.
type SettingsDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreName string    `json:"store_name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service exposes vendor storefront configuration.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (SettingsDTO, error)
	Update(ctx context.Context, userID uuid.UUID, storeName string) (SettingsDTO, error)
}

// Repository encapsulates store settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a store settings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate loads the vendor's settings row, creating the default on first access.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	settings = models.StoreSettings{
		ID:        uuid.New(),
		UserID:    userID,
		StoreName: defaultStoreName,
	}
	if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateName renames the storefront.
func (r *Repository) UpdateName(ctx context.Context, userID uuid.UUID, storeName string) error {
	return r.db.WithContext(ctx).
		Model(&models.StoreSettings{}).
		Where("user_id = ?", userID).
		UpdateColumn("store_name", storeName).Error
}

type service struct {
	repo *Repository
}

// NewService builds a store settings service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store settings repo is required")
	}
	return &service{repo: repo}, nil
}

// Get returns the caller's settings, creating defaults on first access.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (SettingsDTO, error) {
	if userID == uuid.Nil {
		return SettingsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	settings, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return SettingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	return fromModel(settings), nil
}

// Update renames the caller's storefront.
func (s *service) Update(ctx context.Context, userID uuid.UUID, storeName string) (SettingsDTO, error) {
	if userID == uuid.Nil {
		return SettingsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	name := strings.TrimSpace(storeName)
	if name == "" {
		return SettingsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return SettingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	if err := s.repo.UpdateName(ctx, userID, name); err != nil {
		return SettingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store settings")
	}
	settings, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return SettingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload store settings")
	}
	return fromModel(settings), nil
}

func fromModel(m *models.StoreSettings) SettingsDTO {
	return SettingsDTO{
		ID:        m.ID,
		StoreName: m.StoreName,
		UpdatedAt: m.UpdatedAt,
	}
}
