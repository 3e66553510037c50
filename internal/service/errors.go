package service

// Code 错误类别
type Code string

const (
	CodeBadUserInput Code = "BAD_USER_INPUT"
	CodeInternal     Code = "INTERNAL_SERVER_ERROR"
)

// 返回给调用方的错误信息
const (
	MsgLimitTooSmall      = "Limit must be an integer of size at least 1."
	MsgLimitTooLarge      = "Limit must be an integer of size at most 100."
	MsgSkipNegative       = "Skip must be an integer of size at least 0."
	MsgSkipLimitInteger   = "Skip and limit must be integers."
	MsgUsernameTooShort   = "Username must be at least 3 characters long."
	MsgUsernameTooLong    = "Username must be at most 20 characters long."
	MsgCommentTooLong     = "Review must be at most 1500 characters."
	MsgRatingOutOfRange   = "Rating must be an integer between 1 and 5."
	MsgMovieNotFound      = "Movie not found."
	MsgReviewNotFound     = "Review not found."
	MsgAddReviewFailed    = "Failed to add review."
	MsgDeleteReviewFailed = "Failed to delete review."
)

// Error 业务错误，Message 可以直接展示给用户
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// BadUserInput 用户输入错误
func BadUserInput(msg string) *Error {
	return &Error{Code: CodeBadUserInput, Message: msg}
}

// Internal 内部错误，原因只写日志
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}
