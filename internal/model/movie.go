package model

import (
	"time"

	"github.com/lib/pq"
)

// 电影上映状态
const (
	StatusReleased       = "Released"
	StatusInProduction   = "In Production"
	StatusPostProduction = "Post Production"
	StatusPlanned        = "Planned"
)

// Statuses 全部上映状态（按筛选面板展示顺序）
var Statuses = []string{StatusReleased, StatusInProduction, StatusPostProduction, StatusPlanned}

// Movie 电影模型（TMDB 信息 + 评分聚合）
type Movie struct {
	ID                  int            `json:"_id" db:"id" gorm:"primaryKey;autoIncrement:false"`
	Title               string         `json:"title" db:"title" gorm:"index"`
	VoteAverage         float64        `json:"vote_average" db:"vote_average" gorm:"not null;default:0;index"`
	VoteCount           int            `json:"vote_count" db:"vote_count" gorm:"not null;default:0"`
	Status              string         `json:"status" db:"status" gorm:"index"`
	ReleaseDate         time.Time      `json:"release_date" db:"release_date" gorm:"type:date;index"`
	Decade              int            `json:"decade" db:"decade" gorm:"index"` // 冗余字段，用于按年代筛选
	Runtime             int            `json:"runtime" db:"runtime" gorm:"index"`
	Genres              pq.StringArray `json:"genres" db:"genres" gorm:"type:text[]"`
	Revenue             float64        `json:"revenue" db:"revenue"`
	Budget              int64          `json:"budget" db:"budget"`
	Adult               bool           `json:"adult" db:"adult"`
	BackdropPath        string         `json:"backdrop_path" db:"backdrop_path"`
	PosterPath          string         `json:"poster_path" db:"poster_path"`
	Homepage            string         `json:"homepage" db:"homepage"`
	IMDbID              string         `json:"imdb_id" db:"imdb_id"`
	OriginalLanguage    string         `json:"original_language" db:"original_language"`
	OriginalTitle       string         `json:"original_title" db:"original_title"`
	Overview            string         `json:"overview" db:"overview"`
	Popularity          float64        `json:"popularity" db:"popularity"`
	Tagline             string         `json:"tagline" db:"tagline"`
	ProductionCompanies pq.StringArray `json:"production_companies" db:"production_companies" gorm:"type:text[]"`
	ProductionCountries pq.StringArray `json:"production_countries" db:"production_countries" gorm:"type:text[]"`
	SpokenLanguages     pq.StringArray `json:"spoken_languages" db:"spoken_languages" gorm:"type:text[]"`
	Keywords            pq.StringArray `json:"keywords" db:"keywords" gorm:"type:text[]"`
	ReviewIDs           pq.StringArray `json:"-" db:"reviews" gorm:"column:reviews;type:text[]"` // 评论引用列表，最新的在前
	Reviews             []*Review      `json:"reviews,omitempty" gorm:"-"`                        // 关联查询时填充
}

// TableName 表名
func (Movie) TableName() string {
	return "movies"
}

// DecadeOf 计算上映日期所在年代，例如 1994 -> 1990
func DecadeOf(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return t.Year() / 10 * 10
}
