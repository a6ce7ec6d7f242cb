package federated

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func tokeninfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") == "" {
			t.Error("id_token query parameter missing")
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusOK,
		`{"sub":"sub-123","email":"jane@example.com","email_verified":"true","name":"Jane Perera","aud":"client-1"}`)

	v := New(srv.URL, "client-1")
	id, err := v.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "sub-123" || id.Email != "jane@example.com" || id.Name != "Jane Perera" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusOK,
		`{"sub":"sub-123","email":"jane@example.com","email_verified":"true","aud":"other-client"}`)

	v := New(srv.URL, "client-1")
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrAudienceMismatch) {
		t.Fatalf("expected ErrAudienceMismatch, got %v", err)
	}
}

func TestVerifyRejectsProviderError(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusBadRequest, `{"error":"invalid_token"}`)

	v := New(srv.URL, "")
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsUnverifiedEmail(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusOK,
		`{"sub":"sub-123","email":"jane@example.com","email_verified":"false"}`)

	v := New(srv.URL, "")
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
