package apperrors

import "fmt"

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 向量索引错误
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeQueryFailed      ErrorCode = "QUERY_FAILED"
	ErrCodeUpdateFailed     ErrorCode = "UPDATE_FAILED"
	ErrCodeResetForbidden   ErrorCode = "RESET_FORBIDDEN"

	// 事件校验错误
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingRequired  ErrorCode = "MISSING_REQUIRED"

	// 外部服务错误
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED"
)

// AppError 应用错误结构体
type AppError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Cause   error       `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause 添加错误原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New 创建应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf 创建带格式化消息的应用错误
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// CodeOf 提取错误码，非AppError返回空
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ""
}
