// Package remotetest runs an in-process fake of the faktury-online.com API
// for tests.
package remotetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// PDF is a minimal document body returned by the download endpoints
var PDF = []byte("%PDF-1.4\n%fake\n")

// Call is one request received by the fake
type Call struct {
	Method string
	Data   map[string]any
}

// Server fakes the invoicing service
type Server struct {
	apiKey string

	mu       sync.Mutex
	fail     map[string]int
	raw      map[string]string
	delay    time.Duration
	invoices []map[string]any
	details  map[string]map[string]any
	calls    []Call
	next     int
	server   *httptest.Server
}

// NewServer starts a fake accepting apiKey
func NewServer(apiKey string) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		apiKey:  apiKey,
		fail:    map[string]int{},
		raw:     map[string]string{},
		details: map[string]map[string]any{},
		next:    1,
	}

	router := gin.New()
	router.GET("/api/*method", s.handle)
	router.GET("/files/:code", s.handleFile)

	s.server = httptest.NewServer(router)
	return s
}

// URL returns the base URL of the fake
func (s *Server) URL() string {
	return s.server.URL
}

// Close stops the fake
func (s *Server) Close() {
	s.server.Close()
}

// Fail makes method answer with status
func (s *Server) Fail(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = status
}

// Respond makes method answer 200 with a literal body
func (s *Server) Respond(method, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[method] = body
}

// SetDelay delays every answer
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// AddInvoice adds an issued invoice to the listing together with its detail
func (s *Server) AddInvoice(summary, detail map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, summary)
	if code, ok := summary["code"].(string); ok && detail != nil {
		s.details[code] = detail
	}
}

// Calls returns a copy of the received calls
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the received calls of one method
func (s *Server) CallsTo(method string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handle(c *gin.Context) {
	method := strings.TrimPrefix(c.Param("method"), "/")

	var data map[string]any
	if err := json.Unmarshal([]byte(c.Query("data")), &data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data"})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: method, Data: data})
	status, fail := s.fail[method]
	raw, hasRaw := s.raw[method]
	delay := s.delay
	invoices := append([]map[string]any(nil), s.invoices...)
	code, _ := data["code"].(string)
	detail, hasDetail := s.details[code]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if data["key"] != s.apiKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid key"})
		return
	}
	if fail {
		c.String(status, "failure of "+method)
		return
	}
	if hasRaw {
		c.Data(http.StatusOK, "application/json", []byte(raw))
		return
	}

	switch method {
	case "init", "uf":
		c.JSON(http.StatusOK, gin.H{"status": 1})
	case "nf":
		s.mu.Lock()
		n := s.next
		s.next++
		s.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{
			"code":   fmt.Sprintf("code-%d", n),
			"number": fmt.Sprintf("%03d2024", n),
		})
	case "detail-subor":
		c.Data(http.StatusOK, "application/pdf", PDF)
	case "zf":
		c.JSON(http.StatusOK, gin.H{"url": "http://" + c.Request.Host + "/files/" + code})
	case "status":
		if !hasDetail {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown invoice"})
			return
		}
		c.JSON(http.StatusOK, detail)
	case "list/issued":
		c.JSON(http.StatusOK, gin.H{"invoices": invoices})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown method"})
	}
}

func (s *Server) handleFile(c *gin.Context) {
	c.Data(http.StatusOK, "application/pdf", PDF)
}
