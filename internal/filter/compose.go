package filter

// Compose 组合各维度筛选与标题搜索
//
// 片段按 Genre、Rating、Decade、Status、Runtime、搜索 的顺序拼接，空片段直接跳过。
// 全部为空时返回空的 And，匹配全部电影。
func Compose(filters *Filters, search string) And {
	conditions := make(And, 0, len(Facets)+1)
	if filters != nil {
		for _, facet := range Facets {
			if p := BuilderFor(facet)(filters.Get(facet)); !IsEmpty(p) {
				conditions = append(conditions, p)
			}
		}
	}
	if p := ForSearch(search); !IsEmpty(p) {
		conditions = append(conditions, p)
	}
	return conditions
}
