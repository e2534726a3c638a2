package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// fakeClassifier scripts the pipeline behind the HTTP layer.
type fakeClassifier struct {
	result  core.ClassificationResult
	err     error
	learned map[string]core.ClassificationResult
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (core.ClassificationResult, error) {
	return f.result, f.err
}

func (f *fakeClassifier) LookupKeyword(keyword string) (core.ClassificationResult, bool) {
	result, ok := f.learned[strings.ToUpper(keyword)]
	return result, ok
}

func newTestRouter(c *fakeClassifier) http.Handler {
	h := NewHandler(c, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/analyze", h.Analyze)
	r.Get("/health", h.Health)
	r.Get("/cache/{keyword}", h.CacheLookup)
	return r
}

func TestAnalyze_Success(t *testing.T) {
	router := newTestRouter(&fakeClassifier{
		result: core.ClassificationResult{IsSpam: true, Keyword: "KYT4D", Confidence: 0.95},
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"comment":"menang di KYT4D"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != "1,KYT4D,0.95" {
		t.Fatalf("expected triplet body, got %q", body)
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	router := newTestRouter(&fakeClassifier{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "empty input",
			err:        &core.ValidationError{Err: core.ErrEmptyInput},
			wantStatus: http.StatusBadRequest,
			wantKind:   "empty_input",
		},
		{
			name:       "input too long",
			err:        &core.ValidationError{Err: core.ErrInputTooLong, Length: 5000},
			wantStatus: http.StatusBadRequest,
			wantKind:   "input_too_long",
		},
		{
			name:       "parse error",
			err:        &core.ParseError{Kind: core.ParseInvalidSpamFlag, Raw: "yes,KYT4D,0.95"},
			wantStatus: http.StatusBadGateway,
			wantKind:   "malformed_provider_response",
		},
		{
			name:       "provider exhausted",
			err:        &core.ProviderExhaustedError{Attempts: 4},
			wantStatus: http.StatusBadGateway,
			wantKind:   "provider_exhausted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeClassifier{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"comment":"x"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantKind) {
				t.Fatalf("expected kind %q in body %q", tt.wantKind, rec.Body.String())
			}
		})
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeClassifier{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCacheLookup(t *testing.T) {
	router := newTestRouter(&fakeClassifier{
		learned: map[string]core.ClassificationResult{
			"KYT4D": {IsSpam: true, Keyword: "KYT4D", Confidence: 0.95},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/cache/KYT4D", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"keyword":"KYT4D"`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/cache/UNKNOWN", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	router := chi.NewRouter()
	router.Use(cors("https://www.youtube.com"))
	router.Get("/health", NewHandler(&fakeClassifier{}, zap.NewNop()).Health)

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://www.youtube.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
}
