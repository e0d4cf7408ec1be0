package woo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
)

// ListProductsParams narrows a product listing. Fields trims the response to
// the named attributes; PerPage is capped at the API maximum of 100.
type ListProductsParams struct {
	Page    int
	PerPage int
	Fields  []string
	Status  string
}

// ListProducts fetches one page of products, any status included.
func (c *Client) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 || params.PerPage > maxPerPage {
		params.PerPage = maxPerPage
	}

	query := map[string]string{
		"page":     strconv.Itoa(params.Page),
		"per_page": strconv.Itoa(params.PerPage),
	}
	if len(params.Fields) > 0 {
		query["_fields"] = strings.Join(params.Fields, ",")
	}
	if params.Status != "" {
		query["status"] = params.Status
	}

	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&products).
		Get("/products")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing storefront products failed")
	}
	if resp.IsError() {
		return nil, apiError(resp, "listing storefront products")
	}
	return products, nil
}

// PricesByIDs fetches price and stock for a set of products in one request.
// Duplicate and zero IDs are dropped; an empty set returns an empty map
// without touching the network. Missing IDs are simply absent from the
// result.
func (c *Client) PricesByIDs(ctx context.Context, ids []int64) (map[int64]PriceInfo, error) {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, strconv.FormatInt(id, 10))
	}
	if len(unique) == 0 {
		return map[int64]PriceInfo{}, nil
	}

	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"include":  strings.Join(unique, ","),
			"per_page": strconv.Itoa(maxPerPage),
			"_fields":  "id,price,regular_price,stock_quantity,manage_stock",
		}).
		SetResult(&products).
		Get("/products")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "batch price lookup failed")
	}
	if resp.IsError() {
		return nil, apiError(resp, "batch price lookup")
	}

	infos := make(map[int64]PriceInfo, len(products))
	for _, p := range products {
		info := PriceInfo{Price: p.EffectivePrice()}
		if p.ManageStock {
			var stock float64
			if p.StockQuantity != nil {
				stock = *p.StockQuantity
			}
			info.Stock = &stock
		}
		infos[p.ID] = info
	}
	return infos, nil
}

// SearchBySKU looks a product up by exact SKU. A miss returns nil, not an
// error.
func (c *Client) SearchBySKU(ctx context.Context, sku string) (*Product, error) {
	var products []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("sku", sku).
		SetResult(&products).
		Get("/products")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("searching storefront for sku %s failed", sku))
	}
	if resp.IsError() {
		return nil, apiError(resp, fmt.Sprintf("searching storefront for sku %s", sku))
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// GetProduct fetches a single product by storefront ID.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("/products/%d", id))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("fetching product %d failed", id))
	}
	if resp.IsError() {
		return nil, apiError(resp, fmt.Sprintf("fetching product %d", id))
	}
	return &product, nil
}

// CreateProduct creates a product and returns the stored representation.
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&product).
		Post("/products")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating storefront product failed")
	}
	if resp.IsError() {
		return nil, apiError(resp, "creating storefront product")
	}
	return &product, nil
}

// UpdateProduct applies a partial update to an existing product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, payload ProductPayload) (*Product, error) {
	var product Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&product).
		Put(fmt.Sprintf("/products/%d", id))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("updating product %d failed", id))
	}
	if resp.IsError() {
		return nil, apiError(resp, fmt.Sprintf("updating product %d", id))
	}
	return &product, nil
}
