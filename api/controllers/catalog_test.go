package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gestorecommerce/catalog-backend/api/responses"
	"github.com/gestorecommerce/catalog-backend/internal/catalog"
	"github.com/gestorecommerce/catalog-backend/internal/woo"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubCatalogService struct {
	unified *catalog.UnifiedCatalog
	report  *catalog.AdoptionReport
	toggle  *catalog.ToggleResult
	compare *catalog.LiveComparisonResult
	created *woo.Product
	skuRep  *catalog.SKUReport
	err     error

	toggleItem   string
	toggleActive bool
	compareInput catalog.LiveComparisonInput
	createInput  catalog.CreateProductInput
	updateID     int64
	updateInput  catalog.UpdateProductInput
}

func (s *stubCatalogService) UnifiedCatalog(ctx context.Context) (*catalog.UnifiedCatalog, error) {
	return s.unified, s.err
}

func (s *stubCatalogService) AdoptStorefrontProducts(ctx context.Context) (*catalog.AdoptionReport, error) {
	return s.report, s.err
}

func (s *stubCatalogService) ToggleActivation(ctx context.Context, item string, active bool) (*catalog.ToggleResult, error) {
	s.toggleItem = item
	s.toggleActive = active
	return s.toggle, s.err
}

func (s *stubCatalogService) LiveComparison(ctx context.Context, input catalog.LiveComparisonInput) (*catalog.LiveComparisonResult, error) {
	s.compareInput = input
	return s.compare, s.err
}

func (s *stubCatalogService) CreateStorefrontProduct(ctx context.Context, input catalog.CreateProductInput) (*woo.Product, error) {
	s.createInput = input
	return s.created, s.err
}

func (s *stubCatalogService) UpdateStorefrontProduct(ctx context.Context, wooID int64, input catalog.UpdateProductInput) error {
	s.updateID = wooID
	s.updateInput = input
	return s.err
}

func (s *stubCatalogService) DebugSKU(ctx context.Context, rawSKU string) (*catalog.SKUReport, error) {
	return s.skuRep, s.err
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responses.Envelope {
	t.Helper()
	var body responses.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return body
}

func TestCatalogList(t *testing.T) {
	stub := &stubCatalogService{unified: &catalog.UnifiedCatalog{Total: 2, Entries: []catalog.UnifiedEntry{{Item: "A1"}, {Item: "B2"}}}}
	rec := httptest.NewRecorder()
	CatalogList(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if !body.OK {
		t.Fatalf("expected ok envelope")
	}
	data := body.Data.(map[string]any)
	if data["total"].(float64) != 2 {
		t.Fatalf("unexpected total %v", data["total"])
	}
}

func TestCatalogListServiceError(t *testing.T) {
	stub := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeDependency, "mirror unreachable")}
	rec := httptest.NewRecorder()
	CatalogList(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body.OK {
		t.Fatalf("expected ok=false")
	}
	if body.Message != "mirror unreachable" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestCatalogToggle(t *testing.T) {
	t.Run("missing item", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/toggle", strings.NewReader(`{"active":true}`))
		CatalogToggle(&stubCatalogService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 when item missing, got %d", rec.Code)
		}
	})

	t.Run("missing active flag", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/toggle", strings.NewReader(`{"item":"A1"}`))
		CatalogToggle(&stubCatalogService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 when active missing, got %d", rec.Code)
		}
	})

	t.Run("activates and trims", func(t *testing.T) {
		stub := &stubCatalogService{toggle: &catalog.ToggleResult{Active: true, WooProductID: 77}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/toggle", strings.NewReader(`{"item":" A1 ","active":true}`))
		CatalogToggle(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.toggleItem != "A1" || !stub.toggleActive {
			t.Fatalf("unexpected service input %q active=%v", stub.toggleItem, stub.toggleActive)
		}
		body := decodeEnvelope(t, rec)
		if body.Message != "product activated" {
			t.Fatalf("unexpected message %q", body.Message)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		stub := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "item not found")}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/toggle", strings.NewReader(`{"item":"ZZ","active":false}`))
		CatalogToggle(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestCatalogAdopt(t *testing.T) {
	stub := &stubCatalogService{report: &catalog.AdoptionReport{Processed: 150, Pages: 2, MissingSKU: 3}}
	rec := httptest.NewRecorder()
	CatalogAdopt(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/adopt-woo", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data := body.Data.(map[string]any)
	if data["processed"].(float64) != 150 {
		t.Fatalf("unexpected report %v", data)
	}
}

func TestCatalogLiveCompare(t *testing.T) {
	t.Run("missing sede", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/live-compare?page=1", nil)
		CatalogLiveCompare(&stubCatalogService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 when sede missing, got %d", rec.Code)
		}
	})

	t.Run("non numeric page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/live-compare?sede=PV001&page=abc", nil)
		CatalogLiveCompare(&stubCatalogService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad page, got %d", rec.Code)
		}
	})

	t.Run("passes parsed input", func(t *testing.T) {
		stub := &stubCatalogService{compare: &catalog.LiveComparisonResult{Total: 0, Rows: []catalog.LiveComparisonRow{}}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/live-compare?sede=00301&page=2&limit=50&item=A1", nil)
		CatalogLiveCompare(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		want := catalog.LiveComparisonInput{Sede: "00301", Page: 2, Limit: 50, Item: "A1"}
		if stub.compareInput != want {
			t.Fatalf("unexpected input %+v", stub.compareInput)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		stub := &stubCatalogService{compare: &catalog.LiveComparisonResult{}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/live-compare?sede=PV001", nil)
		CatalogLiveCompare(stub, testLogger()).ServeHTTP(rec, req)

		if stub.compareInput.Page != 1 || stub.compareInput.Limit != 20 {
			t.Fatalf("unexpected defaults %+v", stub.compareInput)
		}
	})
}

func TestCatalogCreateProduct(t *testing.T) {
	t.Run("missing sku", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/product", strings.NewReader(`{"name":"Aceite"}`))
		CatalogCreateProduct(&stubCatalogService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 when sku missing, got %d", rec.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		stub := &stubCatalogService{created: &woo.Product{ID: 901, SKU: "A1"}}
		rec := httptest.NewRecorder()
		body := `{"sku":"A1","name":"Aceite","price":"1500.50","categories":[4,7]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/product", strings.NewReader(body))
		CatalogCreateProduct(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if stub.createInput.SKU != "A1" || stub.createInput.Name != "Aceite" {
			t.Fatalf("unexpected input %+v", stub.createInput)
		}
		if stub.createInput.Price == nil || !stub.createInput.Price.Equal(decimal.RequireFromString("1500.50")) {
			t.Fatalf("unexpected price %v", stub.createInput.Price)
		}
		if len(stub.createInput.Categories) != 2 {
			t.Fatalf("unexpected categories %v", stub.createInput.Categories)
		}
	})
}

func TestCatalogUpdateProduct(t *testing.T) {
	withProductID := func(req *http.Request, id string) *http.Request {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("productId", id)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withProductID(httptest.NewRequest(http.MethodPut, "/api/v1/catalog/product/abc", strings.NewReader(`{}`)), "abc")
		CatalogUpdateProduct(&stubCatalogService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad id, got %d", rec.Code)
		}
	})

	t.Run("updates", func(t *testing.T) {
		stub := &stubCatalogService{}
		rec := httptest.NewRecorder()
		body := `{"name":"Nuevo","stock_quantity":12,"active":false}`
		req := withProductID(httptest.NewRequest(http.MethodPut, "/api/v1/catalog/product/901", strings.NewReader(body)), "901")
		CatalogUpdateProduct(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.updateID != 901 {
			t.Fatalf("unexpected id %d", stub.updateID)
		}
		if stub.updateInput.Name == nil || *stub.updateInput.Name != "Nuevo" {
			t.Fatalf("unexpected name %v", stub.updateInput.Name)
		}
		if stub.updateInput.StockQuantity == nil || *stub.updateInput.StockQuantity != 12 {
			t.Fatalf("unexpected stock %v", stub.updateInput.StockQuantity)
		}
		if stub.updateInput.Active == nil || *stub.updateInput.Active {
			t.Fatalf("unexpected active %v", stub.updateInput.Active)
		}
	})

	t.Run("storefront rejection surfaces", func(t *testing.T) {
		stub := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeDependency, "woocommerce rejected the update")}
		rec := httptest.NewRecorder()
		req := withProductID(httptest.NewRequest(http.MethodPut, "/api/v1/catalog/product/901", strings.NewReader(`{"name":"X"}`)), "901")
		CatalogUpdateProduct(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestCatalogDebugSKU(t *testing.T) {
	stub := &stubCatalogService{skuRep: &catalog.SKUReport{CheckedSKU: "A1"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/debug/A1", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("sku", "A1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	CatalogDebugSKU(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data := body.Data.(map[string]any)
	if data["checked_sku"] != "A1" {
		t.Fatalf("unexpected report %v", data)
	}
}
