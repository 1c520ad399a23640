package web

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/reportmap/internal/config"
	"github.com/JonMunkholm/reportmap/internal/core"
	"github.com/JonMunkholm/reportmap/internal/logging"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 10 * time.Second},
		Upload: config.UploadConfig{MaxMemory: 1 << 20, MaxConcurrent: 2, MaxWaitTime: time.Second},
		Rate:   config.RateLimitConfig{Enabled: false},
		Security: config.SecurityConfig{
			EnableCSP: true,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	logger := logging.Discard()
	svc := core.NewService(logger, core.OptionsFromConfig(cfg))
	s := NewServer(cfg, svc, logger)
	t.Cleanup(func() {
		if s.limiter != nil {
			s.limiter.stop()
		}
	})
	return s
}

type upload struct {
	name    string
	content string
}

func multipartBody(t *testing.T, uploads ...upload) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := mw.CreateFormFile(formField, u.name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		io.WriteString(part, u.content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadPage(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="files"`) {
		t.Error("upload page has no files input")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
}

func TestAnalyzeGoodAndBadFile(t *testing.T) {
	s := newTestServer(t, testConfig())

	body, contentType := multipartBody(t,
		upload{"extrato.csv", "data;historico;valor\n2024-01-02;PIX;10\n2024-01-03;TED;\n2024-01-04;PIX;30\n"},
		upload{"scan.pdf", "%PDF-1.4"},
	)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}

	out := rec.Body.String()
	for _, want := range []string{
		"extrato.csv (3 rows)",
		"historico",
		"Null values: 1",
		"Examples: 10, 30",
		"Error processing scan.pdf",
		"FILE001",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("response missing %q", want)
		}
	}
	if got := strings.Count(out, "<details"); got != 1 {
		t.Errorf("report sections = %d, want 1", got)
	}
}

func TestAnalyzeWithoutFiles(t *testing.T) {
	s := newTestServer(t, testConfig())

	body, contentType := multipartBody(t)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FILE004") {
		t.Errorf("body = %s, want FILE004", rec.Body.String())
	}
}

func TestAnalyzeRequestTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxRequestSize = 64
	s := newTestServer(t, cfg)

	body, contentType := multipartBody(t, upload{"big.csv", strings.Repeat("a,b\n", 100)})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FILE007") {
		t.Errorf("body = %s, want FILE007", rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	s := newTestServer(t, cfg)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		s.Router().ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", last.Header().Get("Retry-After"))
	}
	if !strings.Contains(last.Body.String(), "RATE001") {
		t.Errorf("body = %s, want RATE001", last.Body.String())
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(1, 20*time.Millisecond)
	defer rl.stop()

	if !rl.allow("a") {
		t.Fatal("first request rejected")
	}
	if rl.allow("a") {
		t.Fatal("second request allowed within window")
	}
	if !rl.allow("b") {
		t.Error("other client rejected")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.allow("a") {
		t.Error("request rejected after window reset")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "available_slots 2") {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	s := newTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() after Shutdown error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() kept running after Shutdown")
	}
}
