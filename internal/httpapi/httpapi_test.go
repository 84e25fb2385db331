package httpapi

import (
	"bytes"
	"database/sql"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"surfsup-server/internal/config"
	"surfsup-server/internal/modules/climate/climatetest"
)

func TestHealthz_OK(t *testing.T) {
	mux := NewMux(climatetest.OpenDB(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
}

func TestHealthz_MissingTables(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	mux := NewMux(db)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "failed to check database connectivity") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHealthz_ClosedDB(t *testing.T) {
	db := climatetest.OpenDB(t)
	mux := NewMux(db)
	_ = db.Close()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
}

func newTestServer(origins []string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1.0/stations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return NewServer(config.Config{HTTPAddr: ":0", CORSAllowedOrigins: origins}, mux)
}

func TestNewServer_CORS(t *testing.T) {
	t.Run("wildcard origin", func(t *testing.T) {
		srv := newTestServer([]string{"*"})
		req := httptest.NewRequest(http.MethodGet, "/api/v1.0/stations", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		rec := httptest.NewRecorder()

		srv.Handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q; want *", got)
		}
	})

	t.Run("origin not allowed", func(t *testing.T) {
		srv := newTestServer([]string{"https://allowed.example"})
		req := httptest.NewRequest(http.MethodGet, "/api/v1.0/stations", nil)
		req.Header.Set("Origin", "https://other.example")
		rec := httptest.NewRecorder()

		srv.Handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q; want empty", got)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d; CORS must not block the response itself", rec.Code)
		}
	})

	t.Run("preflight rejects writes", func(t *testing.T) {
		srv := newTestServer([]string{"*"})
		req := httptest.NewRequest(http.MethodOptions, "/api/v1.0/stations", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
		rec := httptest.NewRecorder()

		srv.Handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Methods"); strings.Contains(got, http.MethodDelete) {
			t.Errorf("Access-Control-Allow-Methods = %q; must not allow DELETE", got)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1.0/tobs", nil))

	out := buf.String()
	for _, want := range []string{"http request", "method=GET", "path=/api/v1.0/tobs", "status=418"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
