package model

import (
	"errors"
	"time"
	"unicode/utf8"
)

// 任务状态
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// 任务优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// 字段长度限制（按字符计）
const (
	TitleMaxLen       = 255
	DescriptionMaxLen = 1000
	UserIDMaxLen      = 100
)

// Statuses 所有合法的任务状态
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// Priorities 所有合法的任务优先级
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// TaskModel 任务数据模型
// 时间戳由服务层统一设置,关闭 GORM 的自动时间追踪
type TaskModel struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title           string     `gorm:"column:title;type:varchar(255);not null"`
	Description     *string    `gorm:"column:description;type:varchar(1000)"`
	Status          string     `gorm:"column:status;type:varchar(50);not null;default:pending;index"`
	Priority        string     `gorm:"column:priority;type:varchar(20);not null;default:medium;index"`
	ExternalID      *int64     `gorm:"column:external_id;index"`
	UserID          *string    `gorm:"column:user_id;type:varchar(100);index"`
	ExternalAPIData *string    `gorm:"column:external_api_data;type:text"` // 外部 API 返回的 JSON
	CreatedAt       time.Time  `gorm:"column:created_at;not null;index;autoCreateTime:false"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;not null;index;autoUpdateTime:false"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// IsValidStatus 判断状态是否合法
func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPriority 判断优先级是否合法
func IsValidPriority(priority string) bool {
	for _, p := range Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// ApplyStatus 设置状态并维护 completed_at
// 进入 completed 且 completed_at 未设置时记录完成时间,离开 completed 时清空
func (tm *TaskModel) ApplyStatus(status string, now time.Time) {
	tm.Status = status
	if status == StatusCompleted {
		if tm.CompletedAt == nil {
			completedAt := now
			tm.CompletedAt = &completedAt
		}
		return
	}
	tm.CompletedAt = nil
}

// Validate 验证任务模型
func (tm *TaskModel) Validate() error {
	if tm.Title == "" {
		return errors.New("task title is required")
	}
	if utf8.RuneCountInString(tm.Title) > TitleMaxLen {
		return errors.New("task title exceeds maximum length")
	}
	if tm.Description != nil && utf8.RuneCountInString(*tm.Description) > DescriptionMaxLen {
		return errors.New("task description exceeds maximum length")
	}
	if tm.UserID != nil && utf8.RuneCountInString(*tm.UserID) > UserIDMaxLen {
		return errors.New("task user ID exceeds maximum length")
	}
	if !IsValidStatus(tm.Status) {
		return errors.New("task status is invalid")
	}
	if !IsValidPriority(tm.Priority) {
		return errors.New("task priority is invalid")
	}
	if tm.UpdatedAt.Before(tm.CreatedAt) {
		return errors.New("task updated_at is before created_at")
	}
	if (tm.CompletedAt != nil) != (tm.Status == StatusCompleted) {
		return errors.New("task completed_at does not match status")
	}
	return nil
}
