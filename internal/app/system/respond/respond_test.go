package respond_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unimove/unimove/internal/app/system/respond"
)

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.OK(rec, "done", map[string]any{"value": 42})

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var env respond.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse envelope: %v", err)
	}
	if !env.Success {
		t.Error("success: got false, want true")
	}
	if env.Message != "done" {
		t.Errorf("message: got %q, want %q", env.Message, "done")
	}
}

func TestBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.BadRequest(rec, "nope")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var env respond.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse envelope: %v", err)
	}
	if env.Success {
		t.Error("success: got true, want false")
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit int
		count       int64
		wantTotal   int
	}{
		{1, 10, 0, 0},
		{1, 10, 1, 1},
		{1, 10, 10, 1},
		{1, 10, 11, 2},
		{2, 25, 101, 5},
	}
	for _, c := range cases {
		p := respond.NewPagination(c.page, c.limit, c.count)
		if p.Total != c.wantTotal {
			t.Errorf("NewPagination(%d,%d,%d).Total = %d, want %d",
				c.page, c.limit, c.count, p.Total, c.wantTotal)
		}
		if p.Current != c.page || p.Count != c.count {
			t.Errorf("NewPagination(%d,%d,%d) = %+v", c.page, c.limit, c.count, p)
		}
	}
}
