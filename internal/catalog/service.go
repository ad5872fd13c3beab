package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
)

// Service exposes business rules for the product catalog.
type Service interface {
	ListProducts(ctx context.Context, query ListQuery) (ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (ProductSummary, error)
	CreateProduct(ctx context.Context, dto CreateProductDTO) (ProductSummary, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (ProductSummary, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DeleteProductImage(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, name, description string) (CategoryDTO, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	ProductRepo  *ProductRepository
	CategoryRepo *CategoryRepository
}

type service struct {
	products   *ProductRepository
	categories *CategoryRepository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.CategoryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category repo is required")
	}
	return &service{
		products:   params.ProductRepo,
		categories: params.CategoryRepo,
	}, nil
}

// ListProducts returns the filtered, paginated catalog of active products.
func (s *service) ListProducts(ctx context.Context, query ListQuery) (ProductPage, error) {
	page, err := s.products.List(ctx, query)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

// GetProduct returns a single product regardless of active state.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (ProductSummary, error) {
	if id == uuid.Nil {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return SummaryFromModel(product), nil
}

// CreateProduct validates and persists a new catalog listing.
func (s *service) CreateProduct(ctx context.Context, dto CreateProductDTO) (ProductSummary, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if dto.Price.LessThanOrEqual(decimal.Zero) {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if dto.Stock < 0 {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if _, err := s.categories.FindByID(ctx, dto.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	product, err := s.products.Create(ctx, dto)
	if err != nil {
		return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return SummaryFromModel(product), nil
}

// UpdateProduct applies the provided changes to an existing listing.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (ProductSummary, error) {
	if id == uuid.Nil {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if dto.Price != nil && dto.Price.LessThanOrEqual(decimal.Zero) {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if dto.Stock != nil && *dto.Stock < 0 {
		return ProductSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if dto.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *dto.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
			}
			return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product, err := s.products.Update(ctx, id, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return SummaryFromModel(product), nil
}

// DeleteProduct removes a listing outright.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// DeleteProductImage clears the stored image reference.
func (s *service) DeleteProductImage(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.products.ClearImage(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear product image")
	}
	return nil
}

// ListCategories returns every category.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	records, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, CategoryFromModel(&records[i]))
	}
	return dtos, nil
}

// CreateCategory validates and persists a new category.
func (s *service) CreateCategory(ctx context.Context, name, description string) (CategoryDTO, error) {
	if strings.TrimSpace(name) == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.categories.Create(ctx, strings.TrimSpace(name), description)
	if err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return CategoryFromModel(category), nil
}
