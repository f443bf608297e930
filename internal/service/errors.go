package service

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound 任务不存在
var ErrTaskNotFound = errors.New("task not found")

// NotFoundError 指定 ID 的任务不存在
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with ID %d not found", e.ID)
}

// Is 使 errors.Is(err, ErrTaskNotFound) 成立
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError 请求校验错误
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s %s", e.Message, e.Fields[0].Field, e.Fields[0].Message)
}

// NewValidationError 创建单字段校验错误
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{
		Message: "request validation failed",
		Fields:  []FieldError{{Field: field, Rule: rule, Message: message}},
	}
}

// StoreError 持久化层错误
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
