package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LennynMH/onecore.mx/internal/config"
)

func TestAuthDisabledWithoutToken(t *testing.T) {
	handler, _ := newTestRouter(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 without configured token, got %d", res.Code)
	}
}

func TestAuthRejectsMissingAndWrongToken(t *testing.T) {
	handler, _ := newTestRouter(config.Config{APIAuthToken: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", res.Code)
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	handler, _ := newTestRouter(config.Config{APIAuthToken: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", res.Code)
	}
}

func TestAuthSkipsHealthz(t *testing.T) {
	handler, _ := newTestRouter(config.Config{APIAuthToken: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected open health endpoint, got %d", res.Code)
	}
}
