package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nikhil88689/Showbay/internal/model"
	"github.com/Nikhil88689/Showbay/internal/utils"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// ErrInvalidTask 任务不满足模型约束,不写入数据库
var ErrInvalidTask = errors.New("invalid task")

// SortableFields 允许排序的列
var SortableFields = []string{"id", "created_at", "updated_at", "priority", "status", "title"}

// rankedColumns 按业务顺序而非字典序排序的列
var rankedColumns = map[string]string{
	"priority": "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END",
	"status":   "CASE status WHEN 'pending' THEN 1 WHEN 'in_progress' THEN 2 WHEN 'completed' THEN 3 ELSE 0 END",
}

// mutableColumns 更新时写入的列（包括 NULL 值）
var mutableColumns = []string{
	"title",
	"description",
	"status",
	"priority",
	"external_id",
	"user_id",
	"external_api_data",
	"updated_at",
	"completed_at",
}

// TaskRepository 任务仓储接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.TaskModel) error
	FindByID(ctx context.Context, id int64) (*model.TaskModel, error)
	List(ctx context.Context, filter *TaskFilter) ([]*model.TaskModel, int64, error)
	Update(ctx context.Context, task *model.TaskModel) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByPriority(ctx context.Context) (map[string]int64, error)
}

// TaskFilter 任务查询过滤器
// 所有条件之间为 AND 关系
type TaskFilter struct {
	Status   *string
	Priority *string
	UserID   *string
	Skip     int
	Limit    int
	SortBy   string
	Order    string
}

// taskRepository 任务仓储实现
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create 保存新任务,由数据库分配 ID
func (r *taskRepository) Create(ctx context.Context, task *model.TaskModel) error {
	if err := checkTask(task); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID 根据 ID 查找任务
func (r *taskRepository) FindByID(ctx context.Context, id int64) (*model.TaskModel, error) {
	var task model.TaskModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// List 根据过滤器分页查找任务,同时返回符合条件的总数
func (r *taskRepository) List(ctx context.Context, filter *TaskFilter) ([]*model.TaskModel, int64, error) {
	if filter == nil {
		filter = &TaskFilter{}
	}

	query := r.db.WithContext(ctx).Model(&model.TaskModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	// 计数与分页查询共享过滤条件
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	if err := utils.ValidateSortField(sortBy, SortableFields); err != nil {
		return nil, 0, fmt.Errorf("invalid sort field: %w", err)
	}
	order := "ASC"
	if filter.Order != "" {
		if err := utils.ValidateSortOrder(filter.Order); err != nil {
			return nil, 0, fmt.Errorf("invalid sort order: %w", err)
		}
		order = utils.SanitizeSortOrder(filter.Order)
	}

	sortExpr := sortBy
	if ranked, ok := rankedColumns[sortBy]; ok {
		sortExpr = ranked
	}
	query = query.Order(fmt.Sprintf("%s %s", sortExpr, order))
	if sortBy != "id" {
		query = query.Order("id ASC")
	}
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var tasks []*model.TaskModel
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// Update 写入任务的全部可变字段
func (r *taskRepository) Update(ctx context.Context, task *model.TaskModel) error {
	if err := checkTask(task); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("id = ?", task.ID).
		Select(mutableColumns).
		Updates(task)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 物理删除任务
func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TaskModel{})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus 按状态统计任务数
func (r *taskRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts, err := r.countGroupedBy(ctx, "status")
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	return counts, nil
}

// CountByPriority 按优先级统计任务数
func (r *taskRepository) CountByPriority(ctx context.Context) (map[string]int64, error) {
	counts, err := r.countGroupedBy(ctx, "priority")
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	return counts, nil
}

// countGroupedBy 按指定列分组计数,column 只能是内部常量
func (r *taskRepository) countGroupedBy(ctx context.Context, column string) (map[string]int64, error) {
	var results []struct {
		GroupValue string
		Count      int64
	}

	err := r.db.WithContext(ctx).Model(&model.TaskModel{}).
		Select(column + " AS group_value, COUNT(*) AS count").
		Group(column).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.GroupValue] = res.Count
	}
	return counts, nil
}

// checkTask 写入前校验模型约束(completed_at 与状态一致、updated_at 不早于 created_at)
func checkTask(task *model.TaskModel) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}
