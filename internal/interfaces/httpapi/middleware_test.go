package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plated-dev/chef-league/internal/domain/user"
	"github.com/plated-dev/chef-league/internal/usecase"
)

type staticVerifier struct {
	token     string
	principal user.Principal
}

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != v.token {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return v.principal, nil
}

func TestRequireAuth_AttachesPrincipal(t *testing.T) {
	verifier := staticVerifier{token: "good-token", principal: user.Principal{UserID: "user-1"}}
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFromContext(r.Context())
		if !ok {
			t.Fatal("principal missing from context")
		}
		gotUserID = principal.UserID
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Fatalf("unexpected user id: %s", gotUserID)
	}
}

func TestRequireAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	verifier := staticVerifier{token: "good-token"}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run")
	})

	for _, header := range []string{"", "Token abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		RequireAuth(verifier, next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected status 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("accepts matching token", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/scoring/weeks", nil)
		req.Header.Set("X-Internal-Job-Token", "job-secret")
		rec := httptest.NewRecorder()

		RequireInternalJobToken("job-secret", next).ServeHTTP(rec, req)

		if !called || rec.Code != http.StatusOK {
			t.Fatalf("expected handler to run with status 200, called=%v code=%d", called, rec.Code)
		}
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/scoring/weeks", nil)
		req.Header.Set("X-Internal-Job-Token", "wrong")
		rec := httptest.NewRecorder()

		RequireInternalJobToken("job-secret", next).ServeHTTP(rec, req)

		if called || rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without running handler, called=%v code=%d", called, rec.Code)
		}
	})

	t.Run("unconfigured token disables route", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/scoring/weeks", nil)
		req.Header.Set("X-Internal-Job-Token", "anything")
		rec := httptest.NewRecorder()

		RequireInternalJobToken("", next).ServeHTTP(rec, req)

		if called || rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 without running handler, called=%v code=%d", called, rec.Code)
		}
	})
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://chef-league.example.com"}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set("Origin", "https://chef-league.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://chef-league.example.com" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
}

func TestCORS_OptionsPreflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"*"}, next)

	req := httptest.NewRequest(http.MethodOptions, "/v1/leagues", nil)
	req.Header.Set("Origin", "https://chef-league.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
}

func TestCORS_DisallowsUnconfiguredOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://allowed.example.com"}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set("Origin", "https://not-allowed.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
	}
}
