package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Nikhil88689/Showbay/internal/enrichment"
	"github.com/Nikhil88689/Showbay/internal/metrics"
	"github.com/Nikhil88689/Showbay/internal/model"
	"github.com/Nikhil88689/Showbay/internal/repository"
	"github.com/sirupsen/logrus"
)

// 分页参数
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TaskService 任务服务接口
type TaskService interface {
	Create(ctx context.Context, req *CreateTaskRequest) (*CreateResult, error)
	Get(ctx context.Context, id int64) (*TaskResponse, error)
	List(ctx context.Context, req *ListTasksRequest) (*TaskListResponse, error)
	Update(ctx context.Context, id int64, req *UpdateTaskRequest) (*TaskResponse, error)
	Delete(ctx context.Context, id int64) error
	Enrich(ctx context.Context, id int64) (*TaskResponse, error)
	Statistics(ctx context.Context) (*StatisticsResponse, error)
}

// CreateTaskRequest 创建任务请求
// @Description 创建任务的请求参数
type CreateTaskRequest struct {
	Title       string  `json:"title" example:"Sample Task" validate:"required,max=255"`                                 // 任务标题
	Description *string `json:"description" example:"Write the quarterly report" validate:"omitnil,max=1000"`           // 任务描述
	Status      string  `json:"status" example:"pending" validate:"omitempty,oneof=pending in_progress completed"`     // 任务状态,默认 pending
	Priority    string  `json:"priority" example:"medium" validate:"omitempty,oneof=low medium high"`                  // 优先级,默认 medium
	ExternalID  *int64  `json:"external_id" example:"1"`                                                               // 外部数据 ID
	UserID      *string `json:"user_id" example:"user123" validate:"omitnil,max=100"`                                  // 所属用户
}

// UpdateTaskRequest 更新任务请求
// @Description 部分更新任务,未提供或为 null 的字段保持不变
type UpdateTaskRequest struct {
	Title       *string `json:"title" example:"Updated Task" validate:"omitnil,min=1,max=255"`                        // 任务标题
	Description *string `json:"description" example:"Updated description" validate:"omitnil,max=1000"`              // 任务描述
	Status      *string `json:"status" example:"completed" validate:"omitnil,oneof=pending in_progress completed"`  // 任务状态
	Priority    *string `json:"priority" example:"high" validate:"omitnil,oneof=low medium high"`                   // 优先级
	UserID      *string `json:"user_id" example:"user123" validate:"omitnil,max=100"`                               // 所属用户
}

// ListTasksRequest 任务列表查询参数
type ListTasksRequest struct {
	Status   *string `form:"status" validate:"omitnil,oneof=pending in_progress completed"`
	Priority *string `form:"priority" validate:"omitnil,oneof=low medium high"`
	UserID   *string `form:"user_id" validate:"omitnil,max=100"`
	Skip     int     `form:"skip" validate:"gte=0"`
	Limit    int     `form:"limit" validate:"gte=1,lte=100"`
	SortBy   string  `form:"sort_by" validate:"omitempty,oneof=id created_at updated_at priority status title"`
	Order    string  `form:"order" validate:"omitempty,oneof=asc desc"`
}

// TaskResponse 任务响应
// @Description 任务详情
type TaskResponse struct {
	ID              int64           `json:"id" example:"1"`
	Title           string          `json:"title" example:"Sample Task"`
	Description     *string         `json:"description" example:"Write the quarterly report"`
	Status          string          `json:"status" example:"pending"`
	Priority        string          `json:"priority" example:"medium"`
	ExternalID      *int64          `json:"external_id" example:"1"`
	UserID          *string         `json:"user_id" example:"user123"`
	ExternalAPIData json.RawMessage `json:"external_api_data" swaggertype:"object"` // 外部 API 返回的数据
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CompletedAt     *time.Time      `json:"completed_at"`
}

// TaskListResponse 任务列表响应
// @Description 分页任务列表
type TaskListResponse struct {
	Tasks []*TaskResponse `json:"tasks"`
	Total int64           `json:"total" example:"42"`
	Page  int             `json:"page" example:"1"`
	Size  int             `json:"size" example:"10"`
}

// StatisticsResponse 任务统计响应
// @Description 按状态和优先级统计的任务数量
type StatisticsResponse struct {
	Total      int64            `json:"total" example:"42"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
}

// CreateResult 创建结果
// EnrichmentWarning 非空表示外部数据获取失败,任务仍已创建
type CreateResult struct {
	Task              *TaskResponse
	EnrichmentWarning string
}

// Option 任务服务选项
type Option func(*taskService)

// WithClock 指定时间来源
func WithClock(now func() time.Time) Option {
	return func(s *taskService) {
		s.now = now
	}
}

type taskService struct {
	repo    repository.TaskRepository
	fetcher enrichment.Fetcher
	logger  logrus.FieldLogger
	now     func() time.Time
}

// NewTaskService 创建任务服务
// fetcher 为 nil 时不进行外部数据获取
func NewTaskService(repo repository.TaskRepository, fetcher enrichment.Fetcher, logger logrus.FieldLogger, opts ...Option) TaskService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &taskService{
		repo:    repo,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create 创建任务
// 外部数据获取失败不影响任务创建
func (s *taskService) Create(ctx context.Context, req *CreateTaskRequest) (*CreateResult, error) {
	if req == nil {
		return nil, NewValidationError("body", "required", "request body is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := s.timestamp()
	task := &model.TaskModel{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		ExternalID:  req.ExternalID,
		UserID:      req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.ApplyStatus(status, now)

	result := &CreateResult{}
	if s.shouldEnrich(task.ExternalID) {
		payload, err := s.fetcher.Fetch(ctx, *task.ExternalID)
		if err != nil {
			s.logEnrichmentFailure(*task.ExternalID, err)
			result.EnrichmentWarning = enrichmentWarning(err)
		} else {
			data := string(payload)
			task.ExternalAPIData = &data
		}
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}

	metrics.RecordTaskCreated()
	s.logger.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"status":   task.Status,
		"enriched": task.ExternalAPIData != nil,
	}).Info("Task created")

	result.Task = toTaskResponse(task)
	return result, nil
}

// Get 获取任务详情
func (s *taskService) Get(ctx context.Context, id int64) (*TaskResponse, error) {
	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// List 分页查询任务,过滤条件为 AND 组合
func (s *taskService) List(ctx context.Context, req *ListTasksRequest) (*TaskListResponse, error) {
	if req == nil {
		req = &ListTasksRequest{Limit: DefaultPageSize}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	tasks, total, err := s.repo.List(ctx, &repository.TaskFilter{
		Status:   req.Status,
		Priority: req.Priority,
		UserID:   req.UserID,
		Skip:     req.Skip,
		Limit:    req.Limit,
		SortBy:   req.SortBy,
		Order:    req.Order,
	})
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	items := make([]*TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, toTaskResponse(task))
	}

	return &TaskListResponse{
		Tasks: items,
		Total: total,
		Page:  req.Skip/req.Limit + 1,
		Size:  req.Limit,
	}, nil
}

// Update 部分更新任务
func (s *taskService) Update(ctx context.Context, id int64, req *UpdateTaskRequest) (*TaskResponse, error) {
	if req == nil {
		return nil, NewValidationError("body", "required", "request body is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.UserID != nil {
		task.UserID = req.UserID
	}
	if req.Status != nil {
		task.ApplyStatus(*req.Status, now)
	}
	s.touch(task, now)

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	metrics.RecordTaskOperation("update")
	s.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"status":  task.Status,
	}).Info("Task updated")

	return toTaskResponse(task), nil
}

// Delete 删除任务
func (s *taskService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		return &StoreError{Op: "delete", Err: err}
	}

	metrics.RecordTaskOperation("delete")
	s.logger.WithField("task_id", id).Info("Task deleted")
	return nil
}

// Enrich 重新获取任务的外部数据
// 与创建不同,外部调用失败直接返回给调用方
func (s *taskService) Enrich(ctx context.Context, id int64) (*TaskResponse, error) {
	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.shouldEnrich(task.ExternalID) {
		if task.ExternalID == nil || *task.ExternalID == 0 {
			return nil, NewValidationError("external_id", "required", "task has no external_id to enrich from")
		}
		return nil, &enrichment.Error{
			Kind:       enrichment.KindUpstream,
			ExternalID: *task.ExternalID,
			Err:        errors.New("external API is not configured"),
		}
	}

	payload, err := s.fetcher.Fetch(ctx, *task.ExternalID)
	if err != nil {
		s.logEnrichmentFailure(*task.ExternalID, err)
		return nil, err
	}

	data := string(payload)
	task.ExternalAPIData = &data
	s.touch(task, s.timestamp())

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}

	metrics.RecordTaskOperation("enrich")
	s.logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"external_id": *task.ExternalID,
	}).Info("Task enriched")

	return toTaskResponse(task), nil
}

// Statistics 按状态和优先级统计任务
func (s *taskService) Statistics(ctx context.Context) (*StatisticsResponse, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, &StoreError{Op: "statistics", Err: err}
	}
	byPriority, err := s.repo.CountByPriority(ctx)
	if err != nil {
		return nil, &StoreError{Op: "statistics", Err: err}
	}

	stats := &StatisticsResponse{
		ByStatus:   make(map[string]int64, len(model.Statuses)),
		ByPriority: make(map[string]int64, len(model.Priorities)),
	}
	for _, status := range model.Statuses {
		stats.ByStatus[status] = byStatus[status]
		stats.Total += byStatus[status]
		metrics.UpdateTasksByStatus(status, float64(byStatus[status]))
	}
	for _, priority := range model.Priorities {
		stats.ByPriority[priority] = byPriority[priority]
	}

	return stats, nil
}

func (s *taskService) find(ctx context.Context, id int64) (*model.TaskModel, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &StoreError{Op: "get", Err: err}
	}
	return task, nil
}

func (s *taskService) save(ctx context.Context, task *model.TaskModel) error {
	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{ID: task.ID}
		}
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

// touch 刷新 updated_at,保证不早于 created_at
func (s *taskService) touch(task *model.TaskModel, now time.Time) {
	if now.Before(task.CreatedAt) {
		now = task.CreatedAt
	}
	task.UpdatedAt = now
}

func (s *taskService) timestamp() time.Time {
	return s.now().UTC()
}

// shouldEnrich external_id 为空或 0 时不调用外部 API
func (s *taskService) shouldEnrich(externalID *int64) bool {
	return s.fetcher != nil && externalID != nil && *externalID != 0
}

// enrichmentWarning 返回可以写入响应头的失败描述
func enrichmentWarning(err error) string {
	var enrichErr *enrichment.Error
	if errors.As(err, &enrichErr) {
		return enrichErr.ClientMessage()
	}
	return "failed to fetch external API data"
}

func (s *taskService) logEnrichmentFailure(externalID int64, err error) {
	fields := logrus.Fields{
		"external_id": externalID,
		"error":       err.Error(),
	}
	var enrichErr *enrichment.Error
	if errors.As(err, &enrichErr) {
		fields["kind"] = string(enrichErr.Kind)
		if enrichErr.StatusCode != 0 {
			fields["status_code"] = enrichErr.StatusCode
		}
	}
	s.logger.WithFields(fields).Warn("Failed to fetch external API data")
}

// toTaskResponse 转换为响应结构
func toTaskResponse(task *model.TaskModel) *TaskResponse {
	resp := &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		ExternalID:  task.ExternalID,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
	}
	if task.ExternalAPIData != nil {
		raw := []byte(*task.ExternalAPIData)
		if !json.Valid(raw) {
			// 非 JSON 内容按字符串输出
			raw, _ = json.Marshal(*task.ExternalAPIData)
		}
		resp.ExternalAPIData = json.RawMessage(raw)
	}
	return resp
}
