package utils_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Nikhil88689/Showbay/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseTaskID 测试任务 ID 解析
func TestParseTaskID(t *testing.T) {
	id, err := utils.ParseTaskID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = utils.ParseTaskID("")
	assert.ErrorIs(t, err, utils.ErrEmptyID)

	_, err = utils.ParseTaskID("abc")
	assert.ErrorIs(t, err, utils.ErrInvalidIDFormat)

	_, err = utils.ParseTaskID("1; DROP TABLE tasks")
	assert.ErrorIs(t, err, utils.ErrInvalidIDFormat)

	_, err = utils.ParseTaskID("0")
	assert.ErrorIs(t, err, utils.ErrNonPositiveID)

	_, err = utils.ParseTaskID("-5")
	assert.ErrorIs(t, err, utils.ErrNonPositiveID)
	assert.Equal(t, "gt", utils.RuleOf(err))
}

// TestRuleOf 测试校验规则提取
func TestRuleOf(t *testing.T) {
	assert.Equal(t, "integer", utils.RuleOf(utils.ErrInvalidIDFormat))
	assert.Equal(t, "gte", utils.RuleOf(fmt.Errorf("skip: %w", utils.ErrNegativeInteger)))
	assert.Equal(t, "invalid", utils.RuleOf(errors.New("other")))
}

// TestParseNonNegativeInt 测试非负整数解析
func TestParseNonNegativeInt(t *testing.T) {
	n, err := utils.ParseNonNegativeInt("", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = utils.ParseNonNegativeInt("0", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = utils.ParseNonNegativeInt("-1", 10)
	assert.ErrorIs(t, err, utils.ErrNegativeInteger)

	_, err = utils.ParseNonNegativeInt("ten", 10)
	assert.ErrorIs(t, err, utils.ErrInvalidInteger)
}

// TestValidateSortField 测试排序字段白名单
func TestValidateSortField(t *testing.T) {
	allowed := []string{"id", "created_at"}

	assert.NoError(t, utils.ValidateSortField("created_at", allowed))
	assert.Error(t, utils.ValidateSortField("", allowed))
	assert.Error(t, utils.ValidateSortField("title", allowed))
	assert.Error(t, utils.ValidateSortField("id; DROP TABLE tasks", allowed))
	assert.Error(t, utils.ValidateSortField("ID", allowed))
}

// TestSortOrder 测试排序方向
func TestSortOrder(t *testing.T) {
	assert.NoError(t, utils.ValidateSortOrder("asc"))
	assert.NoError(t, utils.ValidateSortOrder(" DESC "))
	assert.Error(t, utils.ValidateSortOrder("sideways"))

	assert.Equal(t, "ASC", utils.SanitizeSortOrder("asc"))
	assert.Equal(t, "DESC", utils.SanitizeSortOrder("bogus"))
}
