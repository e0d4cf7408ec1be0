package woo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/gestorecommerce/catalog-backend/pkg/config"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

const (
	apiBasePath = "/wp-json/wc/v3"
	maxPerPage  = 100
	userAgent   = "GestorEcommerce-App/1.0"
)

var (
	errStoreURLRequired    = errors.New("woocommerce store url is required")
	errCredentialsRequired = errors.New("woocommerce consumer key and secret are required")
	errLoggerRequired      = errors.New("woocommerce logger is required")
)

// Client wraps the WooCommerce REST API with basic auth and error mapping.
type Client struct {
	http   *resty.Client
	logger *logger.Logger
}

// NewClient validates credentials and builds the HTTP client.
func NewClient(cfg config.WooConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	storeURL := strings.TrimRight(strings.TrimSpace(cfg.StoreURL), "/")
	if storeURL == "" {
		return nil, errStoreURLRequired
	}
	key := strings.TrimSpace(cfg.ConsumerKey)
	secret := strings.TrimSpace(cfg.ConsumerSecret)
	if key == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	httpClient := resty.New().
		SetBaseURL(storeURL + apiBasePath).
		SetBasicAuth(key, secret).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)

	return &Client{http: httpClient, logger: logg}, nil
}

// Ping checks connectivity by fetching a single product.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", "1").
		Get("/products")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "woocommerce connection check failed")
	}
	if resp.IsError() {
		return apiError(resp, "woocommerce connection check")
	}
	return nil
}

// apiError surfaces the storefront's own error message when it sent one.
func apiError(resp *resty.Response, operation string) error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	msg := fmt.Sprintf("%s returned status %d", operation, resp.StatusCode())
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		msg = fmt.Sprintf("%s rejected: %s", operation, body.Message)
	}

	code := pkgerrors.CodeDependency
	switch resp.StatusCode() {
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusTooManyRequests:
		code = pkgerrors.CodeRateLimit
	}
	return pkgerrors.New(code, msg)
}
