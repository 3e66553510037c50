package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一API响应结构
type Response struct {
	Code      int         `json:"code"`                 // 状态码
	Message   string      `json:"message"`              // 消息
	Data      interface{} `json:"data"`                 // 数据
	Success   bool        `json:"success"`              // 是否成功
	ErrorCode string      `json:"error_code,omitempty"` // 错误类别，如 BAD_USER_INPUT
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
		Success: true,
	})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, errorCode, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Data:      nil,
		Success:   false,
		ErrorCode: errorCode,
	})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_USER_INPUT", message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error."
	}
	Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not found."
	}
	Error(c, http.StatusNotFound, "NOT_FOUND", message)
}
