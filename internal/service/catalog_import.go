package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/user/moovie-reviews/internal/logging"
	"github.com/user/moovie-reviews/internal/model"
	"github.com/user/moovie-reviews/internal/repository"
)

// importDate 兼容 "1994-09-23"、RFC3339 以及 {"$date": "..."} 三种写法
type importDate struct {
	time.Time
}

func (d *importDate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if len(b) > 0 && b[0] == '{' {
		var wrapped struct {
			Date string `json:"$date"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return err
		}
		raw = wrapped.Date
	} else if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("无法解析日期 %q", raw)
}

// importRecord 导入文件中的一条电影（TMDB 导出格式）
type importRecord struct {
	ID                  int        `json:"id"`
	LegacyID            int        `json:"_id"`
	Title               string     `json:"title"`
	VoteAverage         float64    `json:"vote_average"`
	VoteCount           int        `json:"vote_count"`
	Status              string     `json:"status"`
	ReleaseDate         importDate `json:"release_date"`
	Runtime             int        `json:"runtime"`
	Genres              []string   `json:"genres"`
	Revenue             float64    `json:"revenue"`
	Budget              int64      `json:"budget"`
	Adult               bool       `json:"adult"`
	BackdropPath        string     `json:"backdrop_path"`
	PosterPath          string     `json:"poster_path"`
	Homepage            string     `json:"homepage"`
	IMDbID              string     `json:"imdb_id"`
	OriginalLanguage    string     `json:"original_language"`
	OriginalTitle       string     `json:"original_title"`
	Overview            string     `json:"overview"`
	Popularity          float64    `json:"popularity"`
	Tagline             string     `json:"tagline"`
	ProductionCompanies []string   `json:"production_companies"`
	ProductionCountries []string   `json:"production_countries"`
	SpokenLanguages     []string   `json:"spoken_languages"`
	Keywords            []string   `json:"keywords"`
}

func (r *importRecord) movie() *model.Movie {
	id := r.ID
	if id == 0 {
		id = r.LegacyID
	}
	return &model.Movie{
		ID:                  id,
		Title:               r.Title,
		VoteAverage:         r.VoteAverage,
		VoteCount:           r.VoteCount,
		Status:              r.Status,
		ReleaseDate:         r.ReleaseDate.Time,
		Runtime:             r.Runtime,
		Genres:              r.Genres,
		Revenue:             r.Revenue,
		Budget:              r.Budget,
		Adult:               r.Adult,
		BackdropPath:        r.BackdropPath,
		PosterPath:          r.PosterPath,
		Homepage:            r.Homepage,
		IMDbID:              r.IMDbID,
		OriginalLanguage:    r.OriginalLanguage,
		OriginalTitle:       r.OriginalTitle,
		Overview:            r.Overview,
		Popularity:          r.Popularity,
		Tagline:             r.Tagline,
		ProductionCompanies: r.ProductionCompanies,
		ProductionCountries: r.ProductionCountries,
		SpokenLanguages:     r.SpokenLanguages,
		Keywords:            r.Keywords,
		ReviewIDs:           []string{},
	}
}

// ImportCatalog 从 JSON 数组导入电影，按 id 插入或更新
//
// 已存在的电影只更新描述信息，评分聚合与评论引用保持不变。返回导入条数。
func ImportCatalog(ctx context.Context, store repository.Store, r io.Reader) (int, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("读取导入文件失败: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, fmt.Errorf("导入文件必须是 JSON 数组")
	}

	n := 0
	for dec.More() {
		var rec importRecord
		if err := dec.Decode(&rec); err != nil {
			return n, fmt.Errorf("解析第 %d 条记录失败: %w", n+1, err)
		}
		movie := rec.movie()
		if movie.ID == 0 {
			logging.Warn().Str("title", movie.Title).Msg("跳过没有 id 的电影")
			continue
		}
		if err := store.Movies().Upsert(ctx, movie); err != nil {
			return n, fmt.Errorf("导入电影 %d 失败: %w", movie.ID, err)
		}
		n++
	}
	if _, err := dec.Token(); err != nil {
		return n, fmt.Errorf("读取导入文件失败: %w", err)
	}
	return n, nil
}
