package filter

import (
	"reflect"
	"testing"

	"github.com/user/moovie-reviews/internal/model"
)

func TestComposeMatchAll(t *testing.T) {
	tests := []struct {
		name    string
		filters *Filters
		search  string
	}{
		{"nil filters and search", nil, ""},
		{"empty filters", &Filters{}, ""},
		{"empty slices", &Filters{Genre: []string{}, Rating: []string{}, Decade: []string{}, Status: []string{}, Runtime: []string{}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.filters, tt.search)
			if len(got) != 0 {
				t.Fatalf("Compose() = %#v, want empty And", got)
			}
			if got.Expression() != nil {
				t.Errorf("Compose().Expression() = %#v, want nil", got.Expression())
			}
			if !got.Match(&model.Movie{}) {
				t.Error("match-all predicate rejected a movie")
			}
		})
	}
}

func TestComposeOrderAndSkipping(t *testing.T) {
	filters := &Filters{
		Genre:   []string{"Adventure"},
		Decade:  []string{"2020s"},
		Runtime: []string{"2 - 3 hours"},
	}
	got := Compose(filters, "the")
	want := And{
		ForGenres(filters.Genre),
		ForDecade(filters.Decade),
		ForRuntime(filters.Runtime),
		ForSearch("the"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compose() = %#v, want %#v", got, want)
	}
}

func TestComposeFacetIndependence(t *testing.T) {
	base := &Filters{Genre: []string{"Drama"}, Status: []string{"Released"}}
	before := Compose(base, "")

	extended := base.With(FacetRating, []string{"3"})
	after := Compose(extended, "")

	if len(after) != 3 {
		t.Fatalf("Compose() = %#v, want 3 fragments", after)
	}
	if !reflect.DeepEqual(before[0], after[0]) || !reflect.DeepEqual(before[1], after[2]) {
		t.Errorf("adding a rating changed other fragments: %#v -> %#v", before, after)
	}
	if len(base.Rating) != 0 {
		t.Errorf("With mutated the receiver: %v", base.Rating)
	}
}

func TestComposeNarrowFilters(t *testing.T) {
	p := Compose(&Filters{
		Genre:  []string{"Adventure", "Science Fiction"},
		Rating: []string{"4"},
		Decade: []string{"2020s"},
		Status: []string{"Released"},
	}, "")

	match := &model.Movie{
		Genres:      []string{"Action", "Adventure", "Science Fiction"},
		VoteAverage: 7.1,
		Decade:      2020,
		Status:      "Released",
	}
	if !p.Match(match) {
		t.Error("expected movie satisfying every facet to match")
	}

	miss := *match
	miss.VoteAverage = 9.0
	if p.Match(&miss) {
		t.Error("expected movie outside the rating bucket to be rejected")
	}
}

func TestComposeUnknownRuntimeIsUnconstrained(t *testing.T) {
	p := Compose(&Filters{Runtime: []string{"Invalid runtime"}}, "")
	if len(p) != 1 {
		t.Fatalf("expected the runtime fragment to be kept, got %#v", p)
	}
	if p.Expression() != nil {
		t.Errorf("expected no SQL constraint, got %#v", p.Expression())
	}
	if !p.Match(&model.Movie{Runtime: 500}) {
		t.Error("expected unknown runtime bucket to match everything")
	}
}
