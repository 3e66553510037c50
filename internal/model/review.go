package model

import (
	"time"
)

// Review 用户评论
type Review struct {
	ID       string    `json:"_id" db:"id" gorm:"primaryKey;type:text"`
	MovieID  int       `json:"movie_id" db:"movie_id" gorm:"not null;index"`
	Username string    `json:"username" db:"username" gorm:"not null;index"`
	Rating   int       `json:"rating" db:"rating" gorm:"not null"` // 1-5 星
	Comment  string    `json:"comment" db:"comment"`
	Date     time.Time `json:"date" db:"date" gorm:"not null;index"`
	Movie    *Movie    `json:"movie,omitempty" gorm:"-"` // 关联查询时填充
}

// TableName 表名
func (Review) TableName() string {
	return "reviews"
}

