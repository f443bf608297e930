package utils

import (
	"errors"
	"strconv"
	"strings"
)

// ParseTaskID 解析路径中的任务 ID,必须是正整数
func ParseTaskID(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, ErrEmptyID
	}

	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, ErrInvalidIDFormat
	}
	if id <= 0 {
		return 0, ErrNonPositiveID
	}

	return id, nil
}

// ParseNonNegativeInt 解析非负整数查询参数,为空时返回默认值
func ParseNonNegativeInt(raw string, def int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return def, nil
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, ErrInvalidInteger
	}
	if n < 0 {
		return 0, ErrNegativeInteger
	}
	return n, nil
}

// 错误定义
var (
	ErrEmptyID         = &ValidationError{Rule: "required", Message: "id cannot be empty"}
	ErrInvalidIDFormat = &ValidationError{Rule: "integer", Message: "id must be an integer"}
	ErrNonPositiveID   = &ValidationError{Rule: "gt", Message: "id must be greater than zero"}
	ErrInvalidInteger  = &ValidationError{Rule: "integer", Message: "value must be an integer"}
	ErrNegativeInteger = &ValidationError{Rule: "gte", Message: "value must not be negative"}
)

// ValidationError 验证错误
// Rule 与请求校验的规则名一致,作为字段错误的 rule 返回
type ValidationError struct {
	Rule    string
	Message string
}

// RuleOf 返回错误对应的校验规则,非 ValidationError 时返回 "invalid"
func RuleOf(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Rule
	}
	return "invalid"
}

func (e *ValidationError) Error() string {
	return e.Message
}
