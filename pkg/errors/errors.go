// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
)

// Code 错误码
type Code string

const (
	// 通用错误码
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// 输入校验相关
	CodeInvalidDateFormat Code = "INVALID_DATE_FORMAT"
	CodeDuplicateOrder    Code = "DUPLICATE_ORDER"
	CodeMissingCycleTime  Code = "MISSING_CYCLE_TIME"
	CodeValidationFail    Code = "VALIDATION_FAILED"

	// 求解相关
	CodeModelInfeasible Code = "MODEL_INFEASIBLE"
	CodeModelUnbounded  Code = "MODEL_UNBOUNDED"
	CodeSolverTimeout   Code = "SOLVER_TIMEOUT"
	CodeSolverFailure   Code = "SOLVER_FAILURE"

	// 数据相关
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is 检查错误是否为特定错误码
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode 获取错误码
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// 预定义错误
var (
	ErrInvalidInput    = New(CodeInvalidInput, "输入参数无效")
	ErrInternal        = New(CodeInternal, "内部错误")
	ErrTimeout         = New(CodeTimeout, "操作超时")
	ErrModelInfeasible = New(CodeModelInfeasible, "模型无可行解")
	ErrModelUnbounded  = New(CodeModelUnbounded, "模型无界")
)

// InvalidDateFormat 创建日期格式错误
func InvalidDateFormat(date string) *AppError {
	return New(CodeInvalidDateFormat, fmt.Sprintf("日期 '%s' 格式无效，应为 Y/M/D", date))
}

// DuplicateOrder 创建重复订单错误
func DuplicateOrder(orderID string) *AppError {
	return New(CodeDuplicateOrder, fmt.Sprintf("订单 '%s' 重复，请检查需求数据", orderID))
}

// MissingCycleTime 创建缺失节拍时间错误
func MissingCycleTime(orderID, line string) *AppError {
	return New(CodeMissingCycleTime, fmt.Sprintf("订单 '%s' 在产线 '%s' 上没有节拍时间", orderID, line))
}

// ModelInfeasible 创建无可行解错误
func ModelInfeasible(reason string) *AppError {
	return New(CodeModelInfeasible, reason)
}

// SolverFailure 创建求解器失败错误
func SolverFailure(reason string) *AppError {
	return New(CodeSolverFailure, reason)
}

// ValidationErrors 验证错误集合
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ValidationError 单个验证错误
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "验证失败"
	}
	return fmt.Sprintf("验证失败: %s - %s", ve.Errors[0].Field, ve.Errors[0].Message)
}

// Add 添加验证错误
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// HasErrors 检查是否有错误
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToAppError 转换为 AppError
func (ve *ValidationErrors) ToAppError() *AppError {
	err := New(CodeValidationFail, "验证失败")
	err.Fields = make(map[string]interface{})
	for _, e := range ve.Errors {
		err.Fields[e.Field] = e.Message
	}
	return err
}
