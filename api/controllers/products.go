package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/veloshop-backend/api/responses"
	"github.com/dcastano/veloshop-backend/api/validators"
	"github.com/dcastano/veloshop-backend/internal/catalog"
	pkgerrors "github.com/dcastano/veloshop-backend/pkg/errors"
	"github.com/dcastano/veloshop-backend/pkg/logger"
)

type createProductRequest struct {
	CategoryID  string  `json:"category_id" validate:"required,uuid4"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       string  `json:"price" validate:"required"`
	Stock       int     `json:"stock" validate:"min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type updateProductRequest struct {
	CategoryID  *string `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *string `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ProductsList serves the public catalog listing with filters and pagination.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := listQueryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ProductsGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := payload.toDTO()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductsUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := payload.toDTO()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductsDeleteImage clears the stored image reference for a product.
func ProductsDeleteImage(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProductImage(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "image removed"})
	}
}

func (p createProductRequest) toDTO() (catalog.CreateProductDTO, error) {
	categoryID, err := uuid.Parse(p.CategoryID)
	if err != nil {
		return catalog.CreateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}
	price, err := parsePrice(p.Price)
	if err != nil {
		return catalog.CreateProductDTO{}, err
	}
	return catalog.CreateProductDTO{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Price:       price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
	}, nil
}

func (p updateProductRequest) toDTO() (catalog.UpdateProductDTO, error) {
	dto := catalog.UpdateProductDTO{
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
	}
	if p.CategoryID != nil {
		categoryID, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return catalog.UpdateProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		dto.CategoryID = &categoryID
	}
	if p.Price != nil {
		price, err := parsePrice(*p.Price)
		if err != nil {
			return catalog.UpdateProductDTO{}, err
		}
		dto.Price = &price
	}
	return dto, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	return price, nil
}

func listQueryFromRequest(r *http.Request) (catalog.ListQuery, error) {
	query := catalog.ListQuery{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Ordering: strings.TrimSpace(r.URL.Query().Get("ordering")),
	}

	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return catalog.ListQuery{}, err
	}
	query.CategoryID = categoryID

	if raw := strings.TrimSpace(r.URL.Query().Get("min_price")); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return catalog.ListQuery{}, err
		}
		query.MinPrice = &price
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("max_price")); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return catalog.ListQuery{}, err
		}
		query.MaxPrice = &price
	}

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return catalog.ListQuery{}, err
	}
	query.Page = page

	limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
	if err != nil {
		return catalog.ListQuery{}, err
	}
	query.Limit = limit

	return query, nil
}
