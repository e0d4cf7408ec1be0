package woo

import (
	"context"
	"fmt"
	"strconv"

	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
)

// fetchAllTerms pages through a taxonomy endpoint until a short page.
func (c *Client) fetchAllTerms(ctx context.Context, endpoint string) ([]Term, error) {
	var all []Term
	for page := 1; ; page++ {
		var terms []Term
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"per_page": strconv.Itoa(maxPerPage),
				"page":     strconv.Itoa(page),
			}).
			SetResult(&terms).
			Get(endpoint)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("listing %s failed", endpoint))
		}
		if resp.IsError() {
			return nil, apiError(resp, fmt.Sprintf("listing %s", endpoint))
		}

		all = append(all, terms...)
		if len(terms) < maxPerPage {
			return all, nil
		}
	}
}

// Categories returns every product category.
func (c *Client) Categories(ctx context.Context) ([]Term, error) {
	return c.fetchAllTerms(ctx, "/products/categories")
}

// Tags returns every product tag.
func (c *Client) Tags(ctx context.Context) ([]Term, error) {
	return c.fetchAllTerms(ctx, "/products/tags")
}

// Brands returns every brand term. Stores without the brands plugin lack the
// endpoint entirely, so any failure here degrades to an empty list.
func (c *Client) Brands(ctx context.Context) ([]Term, error) {
	terms, err := c.fetchAllTerms(ctx, "/products/brands")
	if err != nil {
		c.logger.Warn(ctx, "brands endpoint unavailable, continuing without brands")
		return []Term{}, nil
	}
	return terms, nil
}

// CreateCategory creates a product category.
func (c *Client) CreateCategory(ctx context.Context, input TermInput) (*Term, error) {
	return c.createTerm(ctx, "/products/categories", input)
}

// CreateTag creates a product tag.
func (c *Client) CreateTag(ctx context.Context, input TermInput) (*Term, error) {
	return c.createTerm(ctx, "/products/tags", input)
}

func (c *Client) createTerm(ctx context.Context, endpoint string, input TermInput) (*Term, error) {
	var term Term
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&term).
		Post(endpoint)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("creating term on %s failed", endpoint))
	}
	if resp.IsError() {
		return nil, apiError(resp, fmt.Sprintf("creating term on %s", endpoint))
	}
	return &term, nil
}

// DeleteTag permanently removes a tag. Taxonomy terms do not support a trash
// state, so the delete is forced.
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("force", "true").
		Delete(fmt.Sprintf("/products/tags/%d", id))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("deleting tag %d failed", id))
	}
	if resp.IsError() {
		return apiError(resp, fmt.Sprintf("deleting tag %d", id))
	}
	return nil
}
