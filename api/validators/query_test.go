package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/blog?limit=40", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value != 40 {
		t.Errorf("expected 40 got %d", value)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/blog", nil)
	value, err = ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || value != 25 {
		t.Errorf("absent parameter should fall back, got %d err %v", value, err)
	}
}

func TestParseQueryIntRejectsBadValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/blog?limit=lots", nil)
	_, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(typed.Error(), "limit") {
		t.Errorf("message should name the parameter, got %q", typed.Error())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/blog?limit=5000", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}
