package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	authsvc "github.com/lumamart/storefront-backend/internal/auth"
	"github.com/lumamart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/lumamart/storefront-backend/pkg/errors"
)

type stubAuthService struct {
	registered bool
	loginErr   error
}

func (s *stubAuthService) Register(_ context.Context, input authsvc.RegisterInput) (*authsvc.Session, error) {
	s.registered = true
	return &authsvc.Session{
		AccessToken: "token",
		Profile:     &models.Profile{ID: uuid.New(), Email: input.Email},
	}, nil
}

func (s *stubAuthService) Login(_ context.Context, _ authsvc.LoginInput) (*authsvc.Session, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &authsvc.Session{AccessToken: "token"}, nil
}

func TestRegister(t *testing.T) {
	logg := testLogger()

	post := func(body string, stub *stubAuthService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		Register(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("invalid email", func(t *testing.T) {
		rec := post(`{"email":"not-an-email","password":"long-enough-pw"}`, &stubAuthService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad email, got %d", rec.Code)
		}
	})

	t.Run("short password", func(t *testing.T) {
		rec := post(`{"email":"a@b.com","password":"short"}`, &stubAuthService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for short password, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubAuthService{}
		rec := post(`{"email":"a@b.com","password":"long-enough-pw"}`, stub)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.registered {
			t.Fatalf("expected Register to be invoked")
		}
	})
}

func TestLoginErrorPassthrough(t *testing.T) {
	logg := testLogger()
	stub := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"whatever"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	Login(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
