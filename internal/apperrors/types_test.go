package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeConnectionFailed, "连接向量存储失败", cause)

	assert.Equal(t, "连接向量存储失败: connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithoutCause(t *testing.T) {
	err := New(ErrCodeQueryFailed, "查询失败")
	assert.Equal(t, "查询失败", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeUpdateFailed, "记录 %s 不存在", "v1")
	assert.Equal(t, "记录 v1 不存在", err.Message)
	assert.Equal(t, ErrCodeUpdateFailed, err.Code)
}

func TestWithCause(t *testing.T) {
	cause := errors.New("boom")
	err := New(ErrCodeExternalService, "外部服务错误").WithCause(cause)
	assert.Equal(t, cause, err.Cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeResetForbidden, CodeOf(New(ErrCodeResetForbidden, "x")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
