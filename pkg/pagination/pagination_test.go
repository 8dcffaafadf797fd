package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultPage, DefaultLimit, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0&limit=0", DefaultPage, DefaultLimit, 0},
		{"page=-5&limit=-1", DefaultPage, DefaultLimit, 0},
		{"page=2&limit=1000", 2, MaxLimit, MaxLimit},
		{"page=abc&limit=xyz", DefaultPage, DefaultLimit, 0},
	}

	for _, tt := range tests {
		got := paramsFor(t, tt.query)
		if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
			t.Errorf("Parse(%q) = %+v, want page=%d limit=%d offset=%d",
				tt.query, got, tt.wantPage, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestMeta(t *testing.T) {
	tests := []struct {
		params    Params
		total     int64
		wantPages int
	}{
		{Params{Page: 1, Limit: 20}, 0, 0},
		{Params{Page: 1, Limit: 20}, 20, 1},
		{Params{Page: 2, Limit: 20}, 21, 2}, // partial last page rounds up
		{Params{Page: 1, Limit: 10}, 95, 10},
	}

	for _, tt := range tests {
		meta := tt.params.Meta(tt.total)
		if meta.Page != tt.params.Page || meta.Limit != tt.params.Limit {
			t.Errorf("Meta(%d) lost the window: %+v", tt.total, meta)
		}
		if meta.Total != tt.total || meta.TotalPages != tt.wantPages {
			t.Errorf("Meta(%d) with limit %d = %+v, want %d pages",
				tt.total, tt.params.Limit, meta, tt.wantPages)
		}
	}
}
