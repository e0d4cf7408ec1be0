package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gestorecommerce/catalog-backend/api/responses"
	"github.com/gestorecommerce/catalog-backend/api/validators"
	"github.com/gestorecommerce/catalog-backend/internal/catalog"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

// CatalogList returns the unified ERP/storefront view of every item.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		result, err := svc.UnifiedCatalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type toggleRequest struct {
	Item   string `json:"item" validate:"required"`
	Active *bool  `json:"active" validate:"required"`
}

// CatalogToggle activates or deactivates one item on the storefront.
func CatalogToggle(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload toggleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ToggleActivation(r.Context(), strings.TrimSpace(payload.Item), *payload.Active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg := "product deactivated"
		if result.Active {
			msg = "product activated"
		}
		responses.WriteSuccessMessage(w, result, msg)
	}
}

// CatalogAdopt runs a full storefront scan and upserts every product into
// the mirror ledger.
func CatalogAdopt(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		report, err := svc.AdoptStorefrontProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// CatalogLiveCompare contrasts live ERP prices and stock against the
// storefront for one page of active products.
func CatalogLiveCompare(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.LiveComparisonInput{
			Sede:  validators.QueryString(r, "sede"),
			Page:  page,
			Limit: limit,
			Item:  validators.QueryString(r, "item"),
		}
		if input.Sede == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sede is required").WithDetails(map[string]any{"field": "sede"}))
			return
		}

		result, err := svc.LiveComparison(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type createProductRequest struct {
	SKU              string           `json:"sku" validate:"required"`
	Name             string           `json:"name" validate:"required"`
	Description      string           `json:"description,omitempty"`
	ShortDescription string           `json:"short_description,omitempty"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	ImageURL         string           `json:"image_url,omitempty"`
	Images           []string         `json:"images,omitempty"`
	Categories       []int64          `json:"categories,omitempty"`
	Tags             []int64          `json:"tags,omitempty"`
	Brands           []int64          `json:"brands,omitempty"`
}

// CatalogCreateProduct publishes a new storefront product seeded with live
// ERP price and stock when those are reachable.
func CatalogCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateStorefrontProduct(r.Context(), catalog.CreateProductInput{
			SKU:              payload.SKU,
			Name:             payload.Name,
			Description:      payload.Description,
			ShortDescription: payload.ShortDescription,
			Price:            payload.Price,
			ImageURL:         payload.ImageURL,
			Images:           payload.Images,
			Categories:       payload.Categories,
			Tags:             payload.Tags,
			Brands:           payload.Brands,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *float64         `json:"stock_quantity,omitempty"`
	Active        *bool            `json:"active,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	Images        []string         `json:"images,omitempty"`
	Categories    []int64          `json:"categories,omitempty"`
	Tags          []int64          `json:"tags,omitempty"`
	Brands        []int64          `json:"brands,omitempty"`
}

// CatalogUpdateProduct patches an existing storefront product. Only the
// fields present in the body are pushed.
func CatalogUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		rawID := chi.URLParam(r, "productId")
		wooID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || wooID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").WithDetails(map[string]any{"field": "productId"}))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UpdateStorefrontProduct(r.Context(), wooID, catalog.UpdateProductInput{
			Name:          payload.Name,
			Price:         payload.Price,
			StockQuantity: payload.StockQuantity,
			Active:        payload.Active,
			ImageURL:      payload.ImageURL,
			Images:        payload.Images,
			Categories:    payload.Categories,
			Tags:          payload.Tags,
			Brands:        payload.Brands,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, map[string]int64{"woo_product_id": wooID}, "product updated")
	}
}

// CatalogDebugSKU reports where one SKU stands across the ERP, the mirror
// and the storefront.
func CatalogDebugSKU(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sku := strings.TrimSpace(chi.URLParam(r, "sku"))
		if sku == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku is required").WithDetails(map[string]any{"field": "sku"}))
			return
		}

		report, err := svc.DebugSKU(r.Context(), sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
