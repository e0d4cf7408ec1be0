package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gestorecommerce/catalog-backend/api/responses"
	"github.com/gestorecommerce/catalog-backend/api/validators"
	"github.com/gestorecommerce/catalog-backend/internal/woo"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

// Storefront is the slice of the WooCommerce client the taxonomy and
// diagnostics endpoints need.
type Storefront interface {
	Ping(ctx context.Context) error
	Categories(ctx context.Context) ([]woo.Term, error)
	Tags(ctx context.Context) ([]woo.Term, error)
	Brands(ctx context.Context) ([]woo.Term, error)
	CreateCategory(ctx context.Context, input woo.TermInput) (*woo.Term, error)
	CreateTag(ctx context.Context, input woo.TermInput) (*woo.Term, error)
	DeleteTag(ctx context.Context, id int64) error
	Sales(ctx context.Context, period string) (*woo.SalesReport, error)
}

// WooTest verifies the storefront credentials with a cheap authenticated call.
func WooTest(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront client unavailable"))
			return
		}
		if err := client.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "connected"})
	}
}

func WooCategories(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return listTerms(client, logg, func(ctx context.Context, c Storefront) ([]woo.Term, error) {
		return c.Categories(ctx)
	})
}

func WooTags(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return listTerms(client, logg, func(ctx context.Context, c Storefront) ([]woo.Term, error) {
		return c.Tags(ctx)
	})
}

func WooBrands(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return listTerms(client, logg, func(ctx context.Context, c Storefront) ([]woo.Term, error) {
		return c.Brands(ctx)
	})
}

func listTerms(client Storefront, logg *logger.Logger, fetch func(context.Context, Storefront) ([]woo.Term, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront client unavailable"))
			return
		}
		terms, err := fetch(r.Context(), client)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if terms == nil {
			terms = []woo.Term{}
		}
		responses.WriteSuccess(w, terms)
	}
}

type termRequest struct {
	Name   string `json:"name" validate:"required"`
	Slug   string `json:"slug,omitempty"`
	Parent int64  `json:"parent,omitempty"`
}

func WooCreateCategory(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return createTerm(client, logg, func(ctx context.Context, c Storefront, input woo.TermInput) (*woo.Term, error) {
		return c.CreateCategory(ctx, input)
	})
}

func WooCreateTag(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return createTerm(client, logg, func(ctx context.Context, c Storefront, input woo.TermInput) (*woo.Term, error) {
		return c.CreateTag(ctx, input)
	})
}

func createTerm(client Storefront, logg *logger.Logger, create func(context.Context, Storefront, woo.TermInput) (*woo.Term, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront client unavailable"))
			return
		}
		var payload termRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		term, err := create(r.Context(), client, woo.TermInput{Name: payload.Name, Slug: payload.Slug, Parent: payload.Parent})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, term)
	}
}

func WooDeleteTag(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront client unavailable"))
			return
		}
		rawID := chi.URLParam(r, "tagId")
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid tag id").WithDetails(map[string]any{"field": "tagId"}))
			return
		}
		if err := client.DeleteTag(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, map[string]int64{"id": id}, "tag deleted")
	}
}

// WooSalesReport proxies the storefront's aggregated sales summary.
func WooSalesReport(client Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront client unavailable"))
			return
		}
		report, err := client.Sales(r.Context(), validators.QueryString(r, "period"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
