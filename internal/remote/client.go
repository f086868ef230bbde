package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/ZdruzenieSTROM/faktury/internal/builder"
	"github.com/ZdruzenieSTROM/faktury/internal/logger"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

const (
	DefaultBaseURL = "https://www.faktury-online.com"
	DefaultTimeout = 30 * time.Second
)

var errMalformed = errors.New("malformed response")

// Config holds the credentials of a session. Debug switches the service
// to test mode (apitest=1) for every call.
type Config struct {
	BaseURL string
	APIKey  string
	Email   string
	Debug   bool
	Timeout time.Duration
}

// Option configures the session
type Option func(*Session)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		s.httpClient = c
	}
}

// WithLogger sets the session logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// Session is an authenticated session against faktury-online.com. It is
// safe for concurrent use.
type Session struct {
	cfg        Config
	client     *resty.Client
	httpClient *http.Client
	log        zerolog.Logger
}

// NewSession opens a session by calling "init"
func NewSession(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Session{
		cfg: cfg,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient != nil {
		s.client = resty.NewWithClient(s.httpClient)
	} else {
		s.client = resty.New()
	}
	s.client.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	if _, err := s.call(ctx, MethodInit, nil); err != nil {
		return nil, model.NewAuthError(cfg.Email, err)
	}

	s.log.Debug().Bool("apitest", cfg.Debug).Msg("session opened")
	return s, nil
}

// CreateInvoice issues a new invoice
func (s *Session) CreateInvoice(ctx context.Context, payload builder.Payload) (*Created, error) {
	body, err := s.call(ctx, MethodCreate, map[string]any{
		"d": payload.Destination,
		"o": payload.Party,
		"f": payload.Invoice,
		"p": payload.Lines,
	})
	if err != nil {
		return nil, err
	}

	var created Created
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, model.NewRemoteError(MethodCreate, http.StatusOK, string(body), err)
	}
	if created.Code.String() == "" || created.Number.String() == "" {
		return nil, model.NewRemoteError(MethodCreate, http.StatusOK, string(body), errMalformed)
	}

	s.log.Debug().Str("number", created.Number.String()).Str("code", created.Code.String()).Msg("invoice created")
	return &created, nil
}

// MarkPaid records the payment date of an invoice
func (s *Session) MarkPaid(ctx context.Context, code, date string) error {
	_, err := s.call(ctx, MethodMarkPaid, map[string]any{
		"code":      code,
		"date_paid": date,
	})
	return err
}

// DownloadDocument fetches the rendered invoice document
func (s *Session) DownloadDocument(ctx context.Context, code string) ([]byte, error) {
	return s.call(ctx, MethodDownload, map[string]any{"f": code})
}

// DocumentURL returns the public URL of the invoice document
func (s *Session) DocumentURL(ctx context.Context, code string) (string, error) {
	body, err := s.call(ctx, MethodURL, map[string]any{"code": code})
	if err != nil {
		return "", err
	}

	var resp urlResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.URL == "" {
		return "", model.NewRemoteError(MethodURL, http.StatusOK, string(body), errMalformed)
	}
	return resp.URL, nil
}

// FetchDocument downloads the document behind the public URL of an invoice
func (s *Session) FetchDocument(ctx context.Context, code string) ([]byte, error) {
	url, err := s.DocumentURL(ctx, code)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, model.NewRemoteError(MethodURL, 0, "", err)
	}
	if !resp.IsSuccess() {
		return nil, model.NewRemoteError(MethodURL, resp.StatusCode(), resp.String(), nil)
	}
	return resp.Body(), nil
}

// InvoiceDetail fetches address and payment detail of an invoice
func (s *Session) InvoiceDetail(ctx context.Context, code string) (*Detail, error) {
	body, err := s.call(ctx, MethodStatus, map[string]any{"code": code})
	if err != nil {
		return nil, err
	}

	var detail Detail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, model.NewRemoteError(MethodStatus, http.StatusOK, string(body), err)
	}
	return &detail, nil
}

// ListInvoices lists invoices issued between from and to
func (s *Session) ListInvoices(ctx context.Context, from, to string) ([]Summary, error) {
	body, err := s.call(ctx, MethodList, map[string]any{
		"from": from,
		"to":   to,
	})
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, model.NewRemoteError(MethodList, http.StatusOK, string(body), err)
	}
	return resp.Invoices, nil
}

// call sends GET /api/<method>?data=<json> and returns the body of a 2xx
// response
func (s *Session) call(ctx context.Context, method string, fields map[string]any) ([]byte, error) {
	data, err := s.encode(fields)
	if err != nil {
		return nil, model.NewRemoteError(method, 0, "", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("data", data).
		Get("/api/" + method)
	if err != nil {
		s.log.Warn().Err(err).Str("method", method).Msg("remote call failed")
		return nil, model.NewRemoteError(method, 0, "", err)
	}

	s.log.Debug().
		Str("method", method).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("remote call")

	if !resp.IsSuccess() {
		return nil, model.NewRemoteError(method, resp.StatusCode(), resp.String(), nil)
	}
	return resp.Body(), nil
}

func (s *Session) encode(fields map[string]any) (string, error) {
	apitest := 0
	if s.cfg.Debug {
		apitest = 1
	}

	data := map[string]any{
		"key":     s.cfg.APIKey,
		"email":   s.cfg.Email,
		"apitest": apitest,
	}
	for k, v := range fields {
		if _, reserved := data[k]; reserved {
			return "", fmt.Errorf("field %q is reserved", k)
		}
		data[k] = v
	}

	out, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
