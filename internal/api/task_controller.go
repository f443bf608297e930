package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Nikhil88689/Showbay/internal/service"
	"github.com/Nikhil88689/Showbay/internal/utils"
	"github.com/gin-gonic/gin"
)

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// TaskController 任务控制器
type TaskController struct {
	taskService service.TaskService
}

// NewTaskController 创建任务控制器
func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// Create 创建任务
// @Summary      创建任务
// @Description  创建新任务;提供 external_id 时同步获取外部数据,获取失败不影响创建,失败原因写入 X-Enrichment-Warning 响应头
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateTaskRequest true "任务信息"
// @Success      201  {object}  service.TaskResponse
// @Failure      422  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/tasks [post]
func (c *TaskController) Create(ctx *gin.Context) {
	var req service.CreateTaskRequest
	if err := bindJSON(ctx, &req); err != nil {
		_ = ctx.Error(err)
		return
	}

	result, err := c.taskService.Create(ctx.Request.Context(), &req)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	if result.EnrichmentWarning != "" {
		ctx.Header(EnrichmentWarningHeader, headerSanitizer.Replace(result.EnrichmentWarning))
	}
	Created(ctx, result.Task)
}

// List 查询任务列表
// @Summary      查询任务列表
// @Description  分页查询任务,过滤条件之间为 AND 关系
// @Tags         任务管理
// @Produce      json
// @Param        status    query  string  false  "任务状态"  Enums(pending, in_progress, completed)
// @Param        priority  query  string  false  "优先级"  Enums(low, medium, high)
// @Param        user_id   query  string  false  "所属用户"
// @Param        skip      query  int     false  "跳过条数"  default(0)
// @Param        limit     query  int     false  "每页数量"  default(10)  minimum(1)  maximum(100)
// @Param        sort_by   query  string  false  "排序字段"  Enums(id, created_at, updated_at, priority, status, title)
// @Param        order     query  string  false  "排序方向"  Enums(asc, desc)
// @Success      200  {object}  service.TaskListResponse
// @Failure      422  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/tasks [get]
func (c *TaskController) List(ctx *gin.Context) {
	req, err := parseListQuery(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	resp, err := c.taskService.List(ctx.Request.Context(), req)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	OK(ctx, resp)
}

// Statistics 任务统计
// @Summary      任务统计
// @Description  按状态和优先级统计任务数量
// @Tags         任务管理
// @Produce      json
// @Success      200  {object}  service.StatisticsResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/tasks/statistics [get]
func (c *TaskController) Statistics(ctx *gin.Context) {
	stats, err := c.taskService.Statistics(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	OK(ctx, stats)
}

// Get 获取任务
// @Summary      获取任务详情
// @Tags         任务管理
// @Produce      json
// @Param        id path int true "任务 ID"
// @Success      200  {object}  service.TaskResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /api/v1/tasks/{id} [get]
func (c *TaskController) Get(ctx *gin.Context) {
	id, err := parseTaskID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	task, err := c.taskService.Get(ctx.Request.Context(), id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	OK(ctx, task)
}

// Update 更新任务
// @Summary      更新任务
// @Description  部分更新任务;状态变为 completed 时记录完成时间,离开 completed 时清空
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        id path int true "任务 ID"
// @Param        request body service.UpdateTaskRequest true "更新内容"
// @Success      200  {object}  service.TaskResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /api/v1/tasks/{id} [put]
func (c *TaskController) Update(ctx *gin.Context) {
	id, err := parseTaskID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	var req service.UpdateTaskRequest
	if err := bindJSON(ctx, &req); err != nil {
		_ = ctx.Error(err)
		return
	}

	task, err := c.taskService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	OK(ctx, task)
}

// Delete 删除任务
// @Summary      删除任务
// @Tags         任务管理
// @Param        id path int true "任务 ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /api/v1/tasks/{id} [delete]
func (c *TaskController) Delete(ctx *gin.Context) {
	id, err := parseTaskID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	if err := c.taskService.Delete(ctx.Request.Context(), id); err != nil {
		_ = ctx.Error(err)
		return
	}

	NoContent(ctx)
}

// Enrich 重新获取外部数据
// @Summary      重新获取外部数据
// @Description  按任务的 external_id 重新请求外部 API;失败时直接返回 408 或 502
// @Tags         任务管理
// @Produce      json
// @Param        id path int true "任务 ID"
// @Success      200  {object}  service.TaskResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      408  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /api/v1/tasks/{id}/enrich [post]
func (c *TaskController) Enrich(ctx *gin.Context) {
	id, err := parseTaskID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	task, err := c.taskService.Enrich(ctx.Request.Context(), id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	OK(ctx, task)
}

// parseTaskID 解析路径中的任务 ID
func parseTaskID(ctx *gin.Context) (int64, error) {
	id, err := utils.ParseTaskID(ctx.Param("id"))
	if err != nil {
		return 0, service.NewValidationError("id", utils.RuleOf(err), err.Error())
	}
	return id, nil
}

// bindJSON 解析请求体,解析失败转换为校验错误
func bindJSON(ctx *gin.Context, obj interface{}) error {
	err := ctx.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return service.NewValidationError(typeErr.Field, "type", fmt.Sprintf("must be of type %s", typeErr.Type))
	}
	if errors.Is(err, io.EOF) {
		return service.NewValidationError("body", "required", "request body is required")
	}
	return service.NewValidationError("body", "json", "malformed JSON: "+err.Error())
}

// parseListQuery 解析列表查询参数
// status_filter 和 priority_filter 作为旧参数名继续支持
func parseListQuery(ctx *gin.Context) (*service.ListTasksRequest, error) {
	skip, err := utils.ParseNonNegativeInt(ctx.Query("skip"), 0)
	if err != nil {
		return nil, service.NewValidationError("skip", utils.RuleOf(err), err.Error())
	}
	limit, err := utils.ParseNonNegativeInt(ctx.Query("limit"), service.DefaultPageSize)
	if err != nil {
		return nil, service.NewValidationError("limit", utils.RuleOf(err), err.Error())
	}

	return &service.ListTasksRequest{
		Status:   optionalQuery(ctx, "status", "status_filter"),
		Priority: optionalQuery(ctx, "priority", "priority_filter"),
		UserID:   optionalQuery(ctx, "user_id"),
		Skip:     skip,
		Limit:    limit,
		SortBy:   ctx.Query("sort_by"),
		Order:    strings.ToLower(ctx.Query("order")),
	}, nil
}

func optionalQuery(ctx *gin.Context, keys ...string) *string {
	for _, key := range keys {
		if value := ctx.Query(key); value != "" {
			return &value
		}
	}
	return nil
}
