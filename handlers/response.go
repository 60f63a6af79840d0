package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkspot/services"
)

// APIResponse 定義統一的 API 回應結構
type APIResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"` // omitempty 表示如果為空則不顯示
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse 返回成功的回應
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 返回失敗的回應
func ErrorResponse(c *gin.Context, statusCode int, message string, err string, code string) {
	c.JSON(statusCode, APIResponse{
		Status:  false,
		Message: message,
		Error:   err,
		Code:    code,
	})
}

// ServiceErrorResponse 依 service 層錯誤代碼對應 HTTP 狀態
func ServiceErrorResponse(c *gin.Context, message string, err error) {
	code := services.ErrorCode(err)

	statusCode := http.StatusInternalServerError
	switch code {
	case services.CodeNotFound:
		statusCode = http.StatusNotFound
	case services.CodeDuplicate:
		statusCode = http.StatusConflict
	case services.CodeInvalidOperation:
		statusCode = http.StatusUnprocessableEntity
	case services.CodeValidation:
		statusCode = http.StatusBadRequest
	}

	ErrorResponse(c, statusCode, message, err.Error(), code)
}
