package filter

import (
	"strings"

	"github.com/user/moovie-reviews/internal/model"
	"gorm.io/gorm/clause"
)

// SortOption 排序方式
type SortOption string

const (
	SortNewestFirst     SortOption = "Newest first"
	SortOldestFirst     SortOption = "Oldest first"
	SortTitleAsc        SortOption = "Title A-Z"
	SortTitleDesc       SortOption = "Title Z-A"
	SortBestRated       SortOption = "Best rated"
	SortWorstRated      SortOption = "Worst rated"
	SortLongestRuntime  SortOption = "Longest runtime"
	SortShortestRuntime SortOption = "Shortest runtime"
	SortMostPopular     SortOption = "Most popular"
)

// DefaultSort 默认排序
const DefaultSort = SortNewestFirst

type sortKey struct {
	column string
	desc   bool
}

var sortKeys = map[SortOption]sortKey{
	SortNewestFirst:     {"release_date", true},
	SortOldestFirst:     {"release_date", false},
	SortTitleAsc:        {"title", false},
	SortTitleDesc:       {"title", true},
	SortBestRated:       {"vote_average", true},
	SortWorstRated:      {"vote_average", false},
	SortLongestRuntime:  {"runtime", true},
	SortShortestRuntime: {"runtime", false},
	SortMostPopular:     {"popularity", true},
}

// Valid 是否为已知排序方式
func (s SortOption) Valid() bool {
	_, ok := sortKeys[s]
	return ok
}

// OrderBy 排序子句；未知排序方式只按 id 升序
func (s SortOption) OrderBy() clause.OrderBy {
	var columns []clause.OrderByColumn
	if key, ok := sortKeys[s]; ok {
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: key.column}, Desc: key.desc})
	}
	// id 作为最终排序键，保证分页结果稳定
	columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	return clause.OrderBy{Columns: columns}
}

// Less 内存排序比较函数，与 OrderBy 语义一致
func (s SortOption) Less(a, b *model.Movie) bool {
	if key, ok := sortKeys[s]; ok {
		if c := compareColumn(a, b, key.column); c != 0 {
			if key.desc {
				return c > 0
			}
			return c < 0
		}
	}
	return a.ID < b.ID
}

func compareColumn(a, b *model.Movie, column string) int {
	switch column {
	case "release_date":
		return a.ReleaseDate.Compare(b.ReleaseDate)
	case "title":
		return strings.Compare(a.Title, b.Title)
	}
	av, _ := numberField(a, column)
	bv, _ := numberField(b, column)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}
