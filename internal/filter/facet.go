package filter

import "fmt"

// Facet 可筛选维度
type Facet int

const (
	FacetGenre Facet = iota
	FacetRating
	FacetDecade
	FacetStatus
	FacetRuntime

	facetCount
)

// Facets 全部筛选维度，顺序即组合查询时的拼接顺序
var Facets = [facetCount]Facet{FacetGenre, FacetRating, FacetDecade, FacetStatus, FacetRuntime}

var facetNames = [facetCount]string{
	FacetGenre:   "Genre",
	FacetRating:  "Rating",
	FacetDecade:  "Decade",
	FacetStatus:  "Status",
	FacetRuntime: "Runtime",
}

func (f Facet) String() string {
	if f < 0 || f >= facetCount {
		return fmt.Sprintf("Facet(%d)", int(f))
	}
	return facetNames[f]
}

// 运行时长分档
const (
	RuntimeUnderOneHour  = "Less than 1 hour"
	RuntimeOneToTwoHours = "1 - 2 hours"
	RuntimeTwoToThree    = "2 - 3 hours"
	RuntimeThreePlus     = "3 hours or more"
)

// RuntimeBuckets 运行时长分档（展示顺序）
var RuntimeBuckets = []string{RuntimeUnderOneHour, RuntimeOneToTwoHours, RuntimeTwoToThree, RuntimeThreePlus}

// RatingBuckets 评分分档，从高到低
var RatingBuckets = []string{"5", "4", "3", "2", "1", "0"}

// Filters 各维度已选中的值，空切片表示该维度不限
type Filters struct {
	Genre   []string `json:"Genre" form:"genre"`
	Rating  []string `json:"Rating" form:"rating"`
	Decade  []string `json:"Decade" form:"decade"`
	Status  []string `json:"Status" form:"status"`
	Runtime []string `json:"Runtime" form:"runtime"`
}

// Get 获取某一维度的已选值
func (f *Filters) Get(facet Facet) []string {
	if f == nil {
		return nil
	}
	switch facet {
	case FacetGenre:
		return f.Genre
	case FacetRating:
		return f.Rating
	case FacetDecade:
		return f.Decade
	case FacetStatus:
		return f.Status
	case FacetRuntime:
		return f.Runtime
	}
	panic(fmt.Sprintf("filter: unknown facet %d", int(facet)))
}

// With 返回替换了某一维度选值的副本，原值不变
func (f *Filters) With(facet Facet, values []string) *Filters {
	next := f.Clone()
	switch facet {
	case FacetGenre:
		next.Genre = values
	case FacetRating:
		next.Rating = values
	case FacetDecade:
		next.Decade = values
	case FacetStatus:
		next.Status = values
	case FacetRuntime:
		next.Runtime = values
	default:
		panic(fmt.Sprintf("filter: unknown facet %d", int(facet)))
	}
	return next
}

// Clone 深拷贝；nil 返回空筛选
func (f *Filters) Clone() *Filters {
	if f == nil {
		return &Filters{}
	}
	return &Filters{
		Genre:   append([]string(nil), f.Genre...),
		Rating:  append([]string(nil), f.Rating...),
		Decade:  append([]string(nil), f.Decade...),
		Status:  append([]string(nil), f.Status...),
		Runtime: append([]string(nil), f.Runtime...),
	}
}

// Hit 某个候选值及其命中数
type Hit struct {
	Name string `json:"name"`
	Hits int64  `json:"hits"`
}

// Counts 各维度候选值的命中数
type Counts struct {
	Genre   []Hit `json:"Genre"`
	Rating  []Hit `json:"Rating"`
	Decade  []Hit `json:"Decade"`
	Status  []Hit `json:"Status"`
	Runtime []Hit `json:"Runtime"`
}

// Set 写入某一维度的命中列表
func (c *Counts) Set(facet Facet, hits []Hit) {
	switch facet {
	case FacetGenre:
		c.Genre = hits
	case FacetRating:
		c.Rating = hits
	case FacetDecade:
		c.Decade = hits
	case FacetStatus:
		c.Status = hits
	case FacetRuntime:
		c.Runtime = hits
	default:
		panic(fmt.Sprintf("filter: unknown facet %d", int(facet)))
	}
}
