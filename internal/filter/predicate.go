package filter

import (
	"strings"

	"github.com/lib/pq"
	"github.com/user/moovie-reviews/internal/model"
	"gorm.io/gorm/clause"
)

// Predicate 查询条件片段
//
// 同一个条件既可以渲染成 SQL 表达式交给数据库执行，也可以直接在内存中匹配电影，
// 两种方式的语义保持一致。Expression 返回 nil 表示不加限制。
type Predicate interface {
	Expression() clause.Expression
	Match(m *model.Movie) bool
}

// All 空条件，匹配全部
type All struct{}

// And 所有子条件都满足
type And []Predicate

// Or 任一子条件满足
type Or []Predicate

// ContainsAll 数组列包含全部给定值
type ContainsAll struct {
	Column string
	Values []string
}

// Range 数值列落在 [Gte, Lt) 区间内，nil 表示该侧不限
type Range struct {
	Column string
	Gte    *float64
	Lt     *float64
}

// In 列值属于给定集合
type In struct {
	Column string
	Values []any
}

// Contains 文本列包含子串（不区分大小写）
type Contains struct {
	Column    string
	Substring string
}

// IsEmpty 是否为空条件
func IsEmpty(p Predicate) bool {
	if p == nil {
		return true
	}
	_, ok := p.(All)
	return ok
}

func (All) Expression() clause.Expression { return nil }

func (All) Match(*model.Movie) bool { return true }

func (a And) Expression() clause.Expression {
	exprs := make([]clause.Expression, 0, len(a))
	for _, p := range a {
		if e := p.Expression(); e != nil {
			exprs = append(exprs, e)
		}
	}
	if len(exprs) == 0 {
		return nil
	}
	return clause.And(exprs...)
}

func (a And) Match(m *model.Movie) bool {
	for _, p := range a {
		if !p.Match(m) {
			return false
		}
	}
	return true
}

func (o Or) Expression() clause.Expression {
	if len(o) == 0 {
		return clause.Expr{SQL: "1 = 0"}
	}
	exprs := make([]clause.Expression, 0, len(o))
	for _, p := range o {
		e := p.Expression()
		if e == nil {
			// 任一分支不加限制，整个 OR 恒真
			return nil
		}
		exprs = append(exprs, e)
	}
	// 单个 OrConditions 会被 gorm 用 OR 接到前一个条件上，因此单分支直接返回，
	// 多分支外面再包一层 AND，拼接时总是按 AND 处理
	if len(exprs) == 1 {
		return exprs[0]
	}
	return clause.AndConditions{Exprs: []clause.Expression{clause.Or(exprs...)}}
}

func (o Or) Match(m *model.Movie) bool {
	for _, p := range o {
		if p.Match(m) {
			return true
		}
	}
	return false
}

func (c ContainsAll) Expression() clause.Expression {
	return clause.Expr{
		SQL:  "? @> ?::text[]",
		Vars: []any{clause.Column{Name: c.Column}, pq.StringArray(c.Values)},
	}
}

func (c ContainsAll) Match(m *model.Movie) bool {
	have := stringsField(m, c.Column)
	for _, want := range c.Values {
		found := false
		for _, v := range have {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r Range) Expression() clause.Expression {
	col := clause.Column{Name: r.Column}
	var exprs []clause.Expression
	if r.Gte != nil {
		exprs = append(exprs, clause.Gte{Column: col, Value: *r.Gte})
	}
	if r.Lt != nil {
		exprs = append(exprs, clause.Lt{Column: col, Value: *r.Lt})
	}
	if len(exprs) == 0 {
		return nil
	}
	return clause.And(exprs...)
}

func (r Range) Match(m *model.Movie) bool {
	v, ok := numberField(m, r.Column)
	if !ok {
		return false
	}
	if r.Gte != nil && v < *r.Gte {
		return false
	}
	if r.Lt != nil && v >= *r.Lt {
		return false
	}
	return true
}

func (in In) Expression() clause.Expression {
	return clause.IN{Column: clause.Column{Name: in.Column}, Values: in.Values}
}

func (in In) Match(m *model.Movie) bool {
	v := scalarField(m, in.Column)
	if v == nil {
		return false
	}
	for _, want := range in.Values {
		if want == v {
			return true
		}
	}
	return false
}

func (c Contains) Expression() clause.Expression {
	return clause.Expr{
		SQL:  "? ILIKE ?",
		Vars: []any{clause.Column{Name: c.Column}, "%" + escapeLike(c.Substring) + "%"},
	}
}

func (c Contains) Match(m *model.Movie) bool {
	s, ok := scalarField(m, c.Column).(string)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(c.Substring))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，搜索词按字面子串匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func numberField(m *model.Movie, column string) (float64, bool) {
	switch column {
	case "vote_average":
		return m.VoteAverage, true
	case "runtime":
		return float64(m.Runtime), true
	case "popularity":
		return m.Popularity, true
	}
	return 0, false
}

func scalarField(m *model.Movie, column string) any {
	switch column {
	case "title":
		return m.Title
	case "status":
		return m.Status
	case "decade":
		return m.Decade
	}
	return nil
}

func stringsField(m *model.Movie, column string) []string {
	if column == "genres" {
		return m.Genres
	}
	return nil
}
