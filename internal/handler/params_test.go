package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-reviews/internal/filter"
	"github.com/user/moovie-reviews/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func contextFor(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    service.Page
		wantErr bool
	}{
		{"defaults", "/", service.Page{Skip: 0, Limit: 10}, false},
		{"explicit", "/?skip=20&limit=5", service.Page{Skip: 20, Limit: 5}, false},
		{"blank keeps default", "/?limit=", service.Page{Skip: 0, Limit: 10}, false},
		{"fraction parsed", "/?skip=2.5", service.Page{Skip: 2.5, Limit: 10}, false},
		{"not a number", "/?skip=abc", service.Page{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pageFromQuery(contextFor(tt.target))
			if tt.wantErr {
				var svcErr *service.Error
				if !errors.As(err, &svcErr) || svcErr.Message != service.MsgSkipLimitInteger {
					t.Fatalf("err = %v, want %q", err, service.MsgSkipLimitInteger)
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if got != tt.want {
				t.Errorf("page = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestListQueryFromQuery(t *testing.T) {
	c := contextFor("/?genre=Drama&genre=Comedy&rating=4&decade=1990s&status=Released&runtime=Under+1+hour&sort=Best+rated&search=toy")
	q, err := listQueryFromQuery(c)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if q.SortOption != filter.SortBestRated || q.Search != "toy" {
		t.Errorf("sort/search = %q/%q", q.SortOption, q.Search)
	}
	f := q.Filters
	if len(f.Genre) != 2 || f.Genre[0] != "Drama" || f.Genre[1] != "Comedy" {
		t.Errorf("genre = %v", f.Genre)
	}
	if len(f.Rating) != 1 || len(f.Decade) != 1 || len(f.Status) != 1 || len(f.Runtime) != 1 {
		t.Errorf("filters = %+v", f)
	}
}
