package filter

import (
	"strconv"
	"strings"
)

// Builder 把某一维度的选值转换为条件片段
type Builder func(selected []string) Predicate

// builders 维度 -> 构造函数
var builders = [facetCount]Builder{
	FacetGenre:   ForGenres,
	FacetRating:  ForRating,
	FacetDecade:  ForDecade,
	FacetStatus:  ForStatus,
	FacetRuntime: ForRuntime,
}

// BuilderFor 获取维度对应的构造函数
func BuilderFor(facet Facet) Builder {
	return builders[facet]
}

// ForGenres 电影必须同时带有所有选中的类型
func ForGenres(selected []string) Predicate {
	if len(selected) == 0 {
		return All{}
	}
	return ContainsAll{Column: "genres", Values: append([]string(nil), selected...)}
}

// ForRating 评分分档 b 对应 vote_average 的 [2b-1, 2b+1)，多个分档取并集
//
// 分档 "0" 的下界是 -1，保持原样不做截断。无法解析的分档被忽略。
func ForRating(selected []string) Predicate {
	if len(selected) == 0 {
		return All{}
	}
	ranges := make(Or, 0, len(selected))
	for _, s := range selected {
		b, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		scaled := float64(b * 2)
		ranges = append(ranges, Range{
			Column: "vote_average",
			Gte:    float64Ptr(scaled - 1),
			Lt:     float64Ptr(scaled + 1),
		})
	}
	return ranges
}

// ForDecade 年代格式为 "1990s"，取前 4 位作为年代起始年份
func ForDecade(selected []string) Predicate {
	if len(selected) == 0 {
		return All{}
	}
	decades := make([]any, 0, len(selected))
	for _, s := range selected {
		if d, ok := ParseDecade(s); ok {
			decades = append(decades, d)
		}
	}
	return In{Column: "decade", Values: decades}
}

// ParseDecade 解析 "1990s" -> 1990，只看前 4 个字符中开头的数字
func ParseDecade(s string) (int, bool) {
	if len(s) > 4 {
		s = s[:4]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	d, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return d, true
}

// FormatDecade 1990 -> "1990s"
func FormatDecade(decade int) string {
	return strconv.Itoa(decade) + "s"
}

// ForStatus 上映状态属于选中集合
func ForStatus(selected []string) Predicate {
	if len(selected) == 0 {
		return All{}
	}
	statuses := make([]any, len(selected))
	for i, s := range selected {
		statuses[i] = s
	}
	return In{Column: "status", Values: statuses}
}

// ForRuntime 运行时长分档取并集，未知分档不加限制
func ForRuntime(selected []string) Predicate {
	if len(selected) == 0 {
		return All{}
	}
	ranges := make(Or, len(selected))
	for i, s := range selected {
		switch s {
		case RuntimeUnderOneHour:
			ranges[i] = Range{Column: "runtime", Lt: float64Ptr(60)}
		case RuntimeOneToTwoHours:
			ranges[i] = Range{Column: "runtime", Gte: float64Ptr(60), Lt: float64Ptr(120)}
		case RuntimeTwoToThree:
			ranges[i] = Range{Column: "runtime", Gte: float64Ptr(120), Lt: float64Ptr(180)}
		case RuntimeThreePlus:
			ranges[i] = Range{Column: "runtime", Gte: float64Ptr(180)}
		default:
			ranges[i] = All{}
		}
	}
	return ranges
}

// ForSearch 标题包含搜索词（不区分大小写），空搜索不加限制
func ForSearch(search string) Predicate {
	if search == "" {
		return All{}
	}
	return Contains{Column: "title", Substring: search}
}

func float64Ptr(v float64) *float64 {
	return &v
}
