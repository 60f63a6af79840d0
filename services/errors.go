package services

import (
	"errors"
	"fmt"
)

// 錯誤代碼，handlers 依代碼對應 HTTP 狀態
const (
	CodeNotFound         = "ERR_NOT_FOUND"         // 車位/紀錄/預約/車輛/會員不存在
	CodeDuplicate        = "ERR_DUPLICATE"         // 車位編號、車牌、email 重複
	CodeInvalidOperation = "ERR_INVALID_OPERATION" // 違反業務規則
	CodeValidation       = "ERR_VALIDATION"        // 輸入格式錯誤
)

// ServiceError 帶代碼的業務錯誤，所有 service 層的失敗都以這個型別回傳
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NotFoundError 資源不存在
func NotFoundError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// DuplicateError 唯一性衝突
func DuplicateError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeDuplicate, Message: fmt.Sprintf(format, args...)}
}

// InvalidOperationError 違反業務規則
func InvalidOperationError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

// ValidationError 輸入不合法
func ValidationError(format string, args ...interface{}) error {
	return &ServiceError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func errorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

// IsNotFound 判斷是否為資源不存在錯誤
func IsNotFound(err error) bool {
	return errorCode(err) == CodeNotFound
}

// IsDuplicate 判斷是否為唯一性衝突錯誤
func IsDuplicate(err error) bool {
	return errorCode(err) == CodeDuplicate
}

// IsInvalidOperation 判斷是否為業務規則錯誤
func IsInvalidOperation(err error) bool {
	return errorCode(err) == CodeInvalidOperation
}

// IsValidation 判斷是否為輸入驗證錯誤
func IsValidation(err error) bool {
	return errorCode(err) == CodeValidation
}

// ErrorCode 取出錯誤代碼，非業務錯誤回傳 ERR_INTERNAL
func ErrorCode(err error) string {
	if code := errorCode(err); code != "" {
		return code
	}
	return "ERR_INTERNAL"
}
