package siesa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gestorecommerce/catalog-backend/pkg/config"
	pkgerrors "github.com/gestorecommerce/catalog-backend/pkg/errors"
	"github.com/gestorecommerce/catalog-backend/pkg/logger"
)

const (
	queryPath = "/api/siesa/v3/ejecutarconsultaestandar"
	pageSize  = 100

	maxAttempts = 5
)

var (
	retryBaseWait = 2 * time.Second
	retryJitter   = 500 * time.Millisecond
)

var (
	errBaseURLRequired = errors.New("siesa base url is required")
	errKeyRequired     = errors.New("siesa key is required")
	errTokenRequired   = errors.New("siesa token is required")
	errLoggerRequired  = errors.New("siesa logger is required")

	noRecordsMarker = []byte("No se encontraron registros")
)

// Client wraps the ERP generic query-execution endpoint with auth headers,
// retry handling, and envelope normalization.
type Client struct {
	http      *resty.Client
	companyID string
	logger    *logger.Logger
}

// NewClient validates credentials and builds the HTTP client. Retries cover
// 429 responses and timeouts only; every other failure surfaces immediately.
func NewClient(cfg config.SiesaConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, errKeyRequired
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errTokenRequired
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("conniKey", cfg.Key).
		SetHeader("conniToken", cfg.Token).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(maxAttempts - 1).
		SetRetryAfter(backoffWithJitter).
		AddRetryCondition(shouldRetry)

	return &Client{
		http:      httpClient,
		companyID: cfg.CompanyID,
		logger:    logg,
	}, nil
}

func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true
		}
		return errors.Is(err, context.DeadlineExceeded)
	}
	return resp.StatusCode() == http.StatusTooManyRequests
}

// backoffWithJitter waits 2s, 4s, 6s... plus up to 500ms of jitter so
// concurrent workers do not retry in lockstep.
func backoffWithJitter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	attempt := 1
	if resp != nil && resp.Request != nil && resp.Request.Attempt > 0 {
		attempt = resp.Request.Attempt
	}
	jitter := time.Duration(rand.Int63n(int64(retryJitter)))
	return time.Duration(attempt)*retryBaseWait + jitter, nil
}

// ExecuteQuery runs a named ERP query and decodes the row set into out, a
// pointer to a slice. The ERP answers in three shapes: a bare JSON array, an
// envelope with codigo/detalle, or a 400 carrying a "no records" message.
// All three normalize to a plain row set; "no records" leaves out empty.
func (c *Client) ExecuteQuery(ctx context.Context, descripcion, parametros string, page int, out any) error {
	if page < 1 {
		page = 1
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"idCompania":  c.companyID,
			"descripcion": descripcion,
			"parametros":  parametros,
			"paginacion":  fmt.Sprintf("numPag=%d|tamPag=%d", page, pageSize),
		}).
		Get(queryPath)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("siesa query %s failed", descripcion))
	}

	if resp.StatusCode() == http.StatusBadRequest && bytes.Contains(resp.Body(), noRecordsMarker) {
		return nil
	}
	if resp.IsError() {
		c.logger.Warn(ctx, fmt.Sprintf("siesa query %s returned status %d", descripcion, resp.StatusCode()))
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("siesa query %s returned status %d", descripcion, resp.StatusCode()))
	}

	if err := decodeRows(resp.Body(), out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("siesa query %s returned an unreadable payload", descripcion))
	}
	return nil
}

type queryEnvelope struct {
	Codigo  int `json:"codigo"`
	Detalle struct {
		Datos json.RawMessage `json:"Datos"`
		Table json.RawMessage `json:"Table"`
	} `json:"detalle"`
}

func decodeRows(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope queryEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	if envelope.Codigo != 0 {
		return nil
	}

	rows := envelope.Detalle.Datos
	if len(rows) == 0 {
		rows = envelope.Detalle.Table
	}
	if len(rows) == 0 || bytes.Equal(bytes.TrimSpace(rows), []byte("null")) {
		return nil
	}
	return json.Unmarshal(rows, out)
}
