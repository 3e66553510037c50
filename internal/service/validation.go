package service

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// 默认分页
const (
	DefaultSkip  = 0
	DefaultLimit = 10
)

// Page 分页参数，保留浮点以便识别非整数输入
type Page struct {
	Skip  float64 `json:"skip" form:"skip"`
	Limit float64 `json:"limit" form:"limit"`
}

// DefaultPage skip=0, limit=10
func DefaultPage() Page {
	return Page{Skip: DefaultSkip, Limit: DefaultLimit}
}

// Ints 校验通过后转换为整数
func (p Page) Ints() (skip, limit int, err error) {
	if err := ValidateSkipLimit(p.Skip, p.Limit); err != nil {
		return 0, 0, err
	}
	// 超出 int 范围的 skip 转换会溢出，结果反正为空，截断即可
	skip = math.MaxInt32
	if p.Skip < math.MaxInt32 {
		skip = int(p.Skip)
	}
	return skip, int(p.Limit), nil
}

// ValidateSkipLimit 按顺序校验，第一个失败的规则生效
func ValidateSkipLimit(skip, limit float64) error {
	if validate.Var(limit, "gte=1") != nil {
		return BadUserInput(MsgLimitTooSmall)
	}
	if validate.Var(limit, "lte=100") != nil {
		return BadUserInput(MsgLimitTooLarge)
	}
	if validate.Var(skip, "gte=0") != nil {
		return BadUserInput(MsgSkipNegative)
	}
	if !isInteger(skip) || !isInteger(limit) {
		return BadUserInput(MsgSkipLimitInteger)
	}
	return nil
}

// ValidateUsername 去掉首尾空白后长度 3-20（按字符计）
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if validate.Var(username, "min=3") != nil {
		return BadUserInput(MsgUsernameTooShort)
	}
	if validate.Var(username, "max=20") != nil {
		return BadUserInput(MsgUsernameTooLong)
	}
	return nil
}

// ValidateComment 去掉首尾空白后不超过 1500 字符，可以为空
func ValidateComment(comment string) error {
	if validate.Var(strings.TrimSpace(comment), "max=1500") != nil {
		return BadUserInput(MsgCommentTooLong)
	}
	return nil
}

// ValidateRating 评分为 1-5 的整数
func ValidateRating(rating float64) error {
	if validate.Var(rating, "gte=1,lte=5") != nil || !isInteger(rating) {
		return BadUserInput(MsgRatingOutOfRange)
	}
	return nil
}

func isInteger(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v)
}
