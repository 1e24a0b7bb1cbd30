package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/unimove/unimove/internal/app/system/paging"
)

func TestParse_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/activities", nil)
	p := paging.Parse(req)
	if p.Number != 1 || p.Limit != paging.DefaultLimit {
		t.Errorf("got page=%d limit=%d, want 1/%d", p.Number, p.Limit, paging.DefaultLimit)
	}
}

func TestParse_Explicit(t *testing.T) {
	req := httptest.NewRequest("GET", "/activities?page=3&limit=25", nil)
	p := paging.Parse(req)
	if p.Number != 3 || p.Limit != 25 {
		t.Errorf("got page=%d limit=%d, want 3/25", p.Number, p.Limit)
	}
	if p.Skip() != 50 {
		t.Errorf("Skip: got %d, want 50", p.Skip())
	}
}

func TestParse_ClampsLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/activities?limit=5000", nil)
	p := paging.Parse(req)
	if p.Limit != paging.MaxLimit {
		t.Errorf("limit: got %d, want %d", p.Limit, paging.MaxLimit)
	}
}

func TestParse_IgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/activities?page=zero&limit=-4", nil)
	p := paging.Parse(req)
	if p.Number != 1 || p.Limit != paging.DefaultLimit {
		t.Errorf("got page=%d limit=%d, want defaults", p.Number, p.Limit)
	}
}
