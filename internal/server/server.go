package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ZdruzenieSTROM/faktury/internal/batch"
	"github.com/ZdruzenieSTROM/faktury/internal/builder"
	"github.com/ZdruzenieSTROM/faktury/internal/decimal"
	"github.com/ZdruzenieSTROM/faktury/internal/logger"
	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

const shutdownTimeout = 10 * time.Second

// Config holds server configuration
type Config struct {
	Address       string
	DestinationID string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Debug         bool
}

// Server exposes batch validation and invoice preview over HTTP. It never
// calls the invoicing service.
type Server struct {
	config *Config
	router *gin.Engine
	log    zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config: config,
		router: router,
		log:    logger.WithComponent("server"),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/validate", s.handleValidate)
		v1.POST("/preview", s.handlePreview)
		v1.GET("/number/:number", s.handleNumber)
	}
}

// Run serves until ctx is done, then shuts down letting requests in flight
// finish
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.config.Address).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) bindBatch(c *gin.Context) (*model.Batch, bool) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return nil, false
	}
	if req.Config.InvoiceType == "" {
		req.Config.InvoiceType = model.InvoiceTypeInvoice
	}
	if _, err := model.ParseInvoiceType(string(req.Config.InvoiceType)); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return batch.New("api", req.Config, req.Customers), true
}

func (s *Server) handleValidate(c *gin.Context) {
	b, ok := s.bindBatch(c)
	if !ok {
		return
	}

	if err := batch.Validate(b); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
			Valid:  false,
			Errors: []string{err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{Valid: true})
}

func (s *Server) handlePreview(c *gin.Context) {
	b, ok := s.bindBatch(c)
	if !ok {
		return
	}

	if err := batch.Validate(b); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
			Valid:  false,
			Errors: []string{err.Error()},
		})
		return
	}

	resp := PreviewResponse{
		Invoices: make([]PreviewInvoice, 0, len(b.Customers)),
		Total:    decimal.Zero,
	}
	for _, customer := range b.Customers {
		inv := PreviewInvoice{Customer: customer.Name(), Total: decimal.Zero}

		req, err := builder.Build(customer, b.Config, s.config.DestinationID)
		if err != nil {
			inv.Error = err.Error()
		} else {
			inv.Payload = &req.Payload
			inv.Total = req.Total
			inv.Subject = req.Subject
			resp.Total = resp.Total.Add(req.Total)
		}
		resp.Invoices = append(resp.Invoices, inv)
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleNumber(c *gin.Context) {
	number := c.Param("number")

	typ, seq, err := model.ParseInvoiceNumber(number)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, NumberResponse{
		Number:   number,
		Type:     typ,
		Sequence: seq,
	})
}
