package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	product "github.com/velvetrow/velvetrow-backend/internal/products"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// ProductList serves the public catalog with filters and cursor pagination.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := productFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), product.ListProductsInput{
			Filters:    filters,
			Pagination: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductDetail serves a single public catalog entry.
func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := urlUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type createProductRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=160"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category" validate:"required"`
	Tags               []string `json:"tags,omitempty"`
	Images             []string `json:"images,omitempty"`
	Sizes              []string `json:"sizes,omitempty"`
	Colors             []string `json:"colors,omitempty"`
	PriceKobo          int64    `json:"price_kobo" validate:"required,min=1"`
	CompareAtPriceKobo *int64   `json:"compare_at_price_kobo,omitempty"`
	StockQty           int      `json:"stock_qty" validate:"min=0"`
	IsFeatured         bool     `json:"is_featured"`
	IsActive           *bool    `json:"is_active,omitempty"`
}

// AdminProductCreate adds a product to the catalog.
func AdminProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(body.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		active := true
		if body.IsActive != nil {
			active = *body.IsActive
		}

		dto, err := svc.CreateProduct(r.Context(), product.CreateProductInput{
			Name:               validators.SanitizeString(body.Name, 160),
			Description:        body.Description,
			Category:           category,
			Tags:               body.Tags,
			Images:             body.Images,
			Sizes:              body.Sizes,
			Colors:             body.Colors,
			PriceKobo:          body.PriceKobo,
			CompareAtPriceKobo: body.CompareAtPriceKobo,
			StockQty:           body.StockQty,
			IsFeatured:         body.IsFeatured,
			IsActive:           active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

type updateProductRequest struct {
	Name               *string   `json:"name,omitempty"`
	Description        *string   `json:"description,omitempty"`
	Category           *string   `json:"category,omitempty"`
	Tags               *[]string `json:"tags,omitempty"`
	Images             *[]string `json:"images,omitempty"`
	Sizes              *[]string `json:"sizes,omitempty"`
	Colors             *[]string `json:"colors,omitempty"`
	PriceKobo          *int64    `json:"price_kobo,omitempty"`
	CompareAtPriceKobo *int64    `json:"compare_at_price_kobo,omitempty"`
	StockQty           *int      `json:"stock_qty,omitempty"`
	IsFeatured         *bool     `json:"is_featured,omitempty"`
	IsActive           *bool     `json:"is_active,omitempty"`
}

// AdminProductUpdate applies a partial update to a catalog entry.
func AdminProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := urlUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.UpdateProductInput{
			Name:               body.Name,
			Description:        body.Description,
			Tags:               body.Tags,
			Images:             body.Images,
			Sizes:              body.Sizes,
			Colors:             body.Colors,
			PriceKobo:          body.PriceKobo,
			CompareAtPriceKobo: body.CompareAtPriceKobo,
			StockQty:           body.StockQty,
			IsFeatured:         body.IsFeatured,
			IsActive:           body.IsActive,
		}
		if body.Category != nil {
			category, err := enums.ParseProductCategory(*body.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}

		dto, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminProductDelete removes a catalog entry.
func AdminProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := urlUUID(r, "productId")
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

type setStockRequest struct {
	StockQty int `json:"stock_qty" validate:"min=0"`
}

// AdminProductSetStock overwrites the on-hand quantity for a product.
func AdminProductSetStock(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := urlUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SetStock(r.Context(), id, body.StockQty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func productFiltersFromQuery(r *http.Request) (product.ProductListFilters, error) {
	filters := product.ProductListFilters{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return product.ProductListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		filters.Category = &category
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return product.ProductListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "featured must be a boolean")
		}
		filters.Featured = &value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("in_stock")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return product.ProductListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "in_stock must be a boolean")
		}
		filters.InStock = &value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("price_min_kobo")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			return product.ProductListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "price_min_kobo must be a non-negative integer")
		}
		filters.PriceMinKobo = &value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("price_max_kobo")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value < 0 {
			return product.ProductListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "price_max_kobo must be a non-negative integer")
		}
		filters.PriceMaxKobo = &value
	}
	return filters, nil
}
