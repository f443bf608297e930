package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Nikhil88689/Showbay/internal/enrichment"
	"github.com/Nikhil88689/Showbay/internal/model"
	"github.com/Nikhil88689/Showbay/internal/repository"
	"github.com/Nikhil88689/Showbay/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeFetcher 模拟外部 API
type fakeFetcher struct {
	mu      sync.Mutex
	payload json.RawMessage
	err     error
	calls   []int64
}

func (f *fakeFetcher) Fetch(ctx context.Context, externalID int64) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, externalID)
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

// fakeClock 可控时钟
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	db      *gorm.DB
	svc     service.TaskService
	fetcher *fakeFetcher
	clock   *fakeClock
	logs    *test.Hook
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TaskModel{}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hook := test.NewLocal(logger)

	fetcher := &fakeFetcher{payload: json.RawMessage(`{"id":1,"title":"remote"}`)}
	clock := &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	svc := service.NewTaskService(repository.NewTaskRepository(db), fetcher, logger, service.WithClock(clock.Now))
	return &fixture{db: db, svc: svc, fetcher: fetcher, clock: clock, logs: hook}
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func countRows(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&model.TaskModel{}).Count(&count).Error)
	return count
}

// TestTaskService_Create 测试创建任务
func TestTaskService_Create(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	result, err := f.svc.Create(ctx, &service.CreateTaskRequest{
		Title:       "Sample Task",
		Description: strPtr("details"),
		UserID:      strPtr("user123"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Task)

	task := result.Task
	assert.NotZero(t, task.ID)
	assert.Equal(t, "Sample Task", task.Title)
	assert.Equal(t, "details", *task.Description)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, "user123", *task.UserID)
	assert.True(t, task.CreatedAt.Equal(task.UpdatedAt))
	assert.True(t, task.CreatedAt.Equal(f.clock.now))
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.ExternalAPIData)
	assert.Empty(t, result.EnrichmentWarning)
	assert.Empty(t, f.fetcher.calls)

	second, err := f.svc.Create(ctx, &service.CreateTaskRequest{Title: "Another"})
	require.NoError(t, err)
	assert.NotEqual(t, task.ID, second.Task.ID)
}

// TestTaskService_Create_Completed 测试直接创建已完成任务
func TestTaskService_Create_Completed(t *testing.T) {
	f := setupService(t)

	result, err := f.svc.Create(context.Background(), &service.CreateTaskRequest{
		Title:  "done already",
		Status: model.StatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Task.CompletedAt)
	assert.True(t, result.Task.CompletedAt.Equal(f.clock.now))
}

// TestTaskService_Create_Validation 测试创建参数校验
func TestTaskService_Create_Validation(t *testing.T) {
	cases := []struct {
		name  string
		req   *service.CreateTaskRequest
		field string
		rule  string
	}{
		{"missing title", &service.CreateTaskRequest{}, "title", "required"},
		{"title too long", &service.CreateTaskRequest{Title: strings.Repeat("a", 256)}, "title", "max"},
		{"description too long", &service.CreateTaskRequest{Title: "t", Description: strPtr(strings.Repeat("d", 1001))}, "description", "max"},
		{"user id too long", &service.CreateTaskRequest{Title: "t", UserID: strPtr(strings.Repeat("u", 101))}, "user_id", "max"},
		{"invalid status", &service.CreateTaskRequest{Title: "t", Status: "done"}, "status", "oneof"},
		{"invalid priority", &service.CreateTaskRequest{Title: "t", Priority: "urgent"}, "priority", "oneof"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupService(t)

			_, err := f.svc.Create(context.Background(), tc.req)
			require.Error(t, err)

			var verr *service.ValidationError
			require.True(t, errors.As(err, &verr))
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
			assert.Equal(t, tc.rule, verr.Fields[0].Rule)
			assert.NotEmpty(t, verr.Fields[0].Message)

			assert.Equal(t, int64(0), countRows(t, f.db))
		})
	}
}

// TestTaskService_Create_CountsCharacters 测试长度按字符计算
func TestTaskService_Create_CountsCharacters(t *testing.T) {
	f := setupService(t)

	// 255 个多字节字符合法
	_, err := f.svc.Create(context.Background(), &service.CreateTaskRequest{Title: strings.Repeat("任", 255)})
	assert.NoError(t, err)
}

// TestTaskService_Create_Enrichment 测试创建时获取外部数据
func TestTaskService_Create_Enrichment(t *testing.T) {
	f := setupService(t)

	result, err := f.svc.Create(context.Background(), &service.CreateTaskRequest{
		Title:      "with external",
		ExternalID: int64Ptr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, f.fetcher.calls)
	assert.JSONEq(t, `{"id":1,"title":"remote"}`, string(result.Task.ExternalAPIData))
	assert.Empty(t, result.EnrichmentWarning)

	// 持久化的数据与响应一致
	stored, err := f.svc.Get(context.Background(), result.Task.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"remote"}`, string(stored.ExternalAPIData))
}

// TestTaskService_Create_EnrichmentFailure 测试外部调用失败不影响创建
func TestTaskService_Create_EnrichmentFailure(t *testing.T) {
	failures := map[string]*enrichment.Error{
		"timeout":  &enrichment.Error{Kind: enrichment.KindTimeout, ExternalID: 7, Timeout: 10 * time.Second},
		"upstream": &enrichment.Error{Kind: enrichment.KindUpstream, ExternalID: 7, StatusCode: 404},
		"format":   &enrichment.Error{Kind: enrichment.KindFormat, ExternalID: 7, Err: errors.New("bad body")},
	}

	for name, failure := range failures {
		failure := failure
		t.Run(name, func(t *testing.T) {
			f := setupService(t)
			f.fetcher.err = failure

			result, err := f.svc.Create(context.Background(), &service.CreateTaskRequest{
				Title:      "degraded",
				ExternalID: int64Ptr(7),
			})
			require.NoError(t, err)
			assert.Nil(t, result.Task.ExternalAPIData)
			assert.Equal(t, failure.ClientMessage(), result.EnrichmentWarning)
			assert.Equal(t, int64(1), countRows(t, f.db))

			var warned bool
			for _, e := range f.logs.AllEntries() {
				if e.Level == logrus.WarnLevel {
					warned = true
					assert.Equal(t, int64(7), e.Data["external_id"])
				}
			}
			assert.True(t, warned)
		})
	}
}

// TestTaskService_Create_UnreachableWarning 测试网络错误不把连接细节写入警告
func TestTaskService_Create_UnreachableWarning(t *testing.T) {
	f := setupService(t)
	dialErr := errors.New("dial tcp 10.0.0.5:443: connect: connection refused")
	f.fetcher.err = &enrichment.Error{Kind: enrichment.KindUpstream, ExternalID: 7, Err: dialErr}

	result, err := f.svc.Create(context.Background(), &service.CreateTaskRequest{
		Title:      "offline upstream",
		ExternalID: int64Ptr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "external API is unreachable", result.EnrichmentWarning)
	assert.NotContains(t, result.EnrichmentWarning, "10.0.0.5")

	var logged string
	for _, e := range f.logs.AllEntries() {
		if e.Level == logrus.WarnLevel {
			logged, _ = e.Data["error"].(string)
		}
	}
	assert.Contains(t, logged, "10.0.0.5:443")

	// 非 enrichment 错误使用通用描述
	f.fetcher.err = fmt.Errorf("resolver: %w", dialErr)
	result, err = f.svc.Create(context.Background(), &service.CreateTaskRequest{
		Title:      "unknown failure",
		ExternalID: int64Ptr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, "failed to fetch external API data", result.EnrichmentWarning)
}

// TestTaskService_Create_ZeroExternalID 测试 external_id 为 0 时不调用外部 API
func TestTaskService_Create_ZeroExternalID(t *testing.T) {
	f := setupService(t)

	result, err := f.svc.Create(context.Background(), &service.CreateTaskRequest{
		Title:      "zero",
		ExternalID: int64Ptr(0),
	})
	require.NoError(t, err)
	assert.Empty(t, f.fetcher.calls)
	require.NotNil(t, result.Task.ExternalID)
	assert.Equal(t, int64(0), *result.Task.ExternalID)
}

// TestTaskService_Create_NoFetcher 测试未配置外部 API
func TestTaskService_Create_NoFetcher(t *testing.T) {
	f := setupService(t)
	svc := service.NewTaskService(repository.NewTaskRepository(f.db), nil, nil)

	result, err := svc.Create(context.Background(), &service.CreateTaskRequest{
		Title:      "no fetcher",
		ExternalID: int64Ptr(3),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Task.ExternalAPIData)
	assert.Empty(t, result.EnrichmentWarning)
}

// TestTaskService_Get_NotFound 测试获取不存在的任务
func TestTaskService_Get_NotFound(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.Equal(t, "task with ID 404 not found", err.Error())
}

// TestTaskService_Update_StatusTransitions 测试状态变更维护 completed_at
func TestTaskService_Update_StatusTransitions(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &service.CreateTaskRequest{Title: "lifecycle"})
	require.NoError(t, err)
	id := created.Task.ID

	f.clock.Advance(time.Minute)
	task, err := f.svc.Update(ctx, id, &service.UpdateTaskRequest{Status: strPtr(model.StatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)
	assert.True(t, task.UpdatedAt.After(task.CreatedAt))

	f.clock.Advance(time.Minute)
	completedAt := f.clock.now
	task, err = f.svc.Update(ctx, id, &service.UpdateTaskRequest{Status: strPtr(model.StatusCompleted)})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(completedAt))

	// 已完成任务再次设为 completed 不改变完成时间
	f.clock.Advance(time.Minute)
	task, err = f.svc.Update(ctx, id, &service.UpdateTaskRequest{Status: strPtr(model.StatusCompleted)})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(completedAt))

	// 重新打开清空完成时间
	f.clock.Advance(time.Minute)
	task, err = f.svc.Update(ctx, id, &service.UpdateTaskRequest{Status: strPtr(model.StatusPending)})
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)

	stored, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt)
	assert.True(t, stored.UpdatedAt.Equal(f.clock.now))
	assert.True(t, stored.CreatedAt.Equal(created.Task.CreatedAt))
}

// TestTaskService_Update_Partial 测试部分更新
func TestTaskService_Update_Partial(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &service.CreateTaskRequest{
		Title:       "original",
		Description: strPtr("keep me"),
		Priority:    model.PriorityLow,
		UserID:      strPtr("alice"),
	})
	require.NoError(t, err)

	task, err := f.svc.Update(ctx, created.Task.ID, &service.UpdateTaskRequest{
		Title:    strPtr("renamed"),
		Priority: strPtr(model.PriorityHigh),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", task.Title)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, "keep me", *task.Description)
	assert.Equal(t, "alice", *task.UserID)
	assert.Equal(t, model.StatusPending, task.Status)
}

// TestTaskService_Update_Validation 测试更新参数校验
func TestTaskService_Update_Validation(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &service.CreateTaskRequest{Title: "original"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.Task.ID, &service.UpdateTaskRequest{Title: strPtr("")})
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Fields[0].Field)
	assert.Equal(t, "min", verr.Fields[0].Rule)

	_, err = f.svc.Update(ctx, created.Task.ID, &service.UpdateTaskRequest{Status: strPtr("archived")})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "status", verr.Fields[0].Field)

	stored, err := f.svc.Get(ctx, created.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Title)
	assert.True(t, stored.UpdatedAt.Equal(stored.CreatedAt))
}

// TestTaskService_Update_NotFound 测试更新不存在的任务
func TestTaskService_Update_NotFound(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.Update(context.Background(), 99, &service.UpdateTaskRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.Equal(t, int64(0), countRows(t, f.db))
}

// TestTaskService_Delete 测试删除任务
func TestTaskService_Delete(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &service.CreateTaskRequest{Title: "bye"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.Task.ID))
	_, err = f.svc.Get(ctx, created.Task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)

	err = f.svc.Delete(ctx, created.Task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

// TestTaskService_List 测试列表查询
func TestTaskService_List(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		status := model.StatusPending
		if i%3 == 0 {
			status = model.StatusCompleted
		}
		user := "alice"
		if i%2 == 0 {
			user = "bob"
		}
		_, err := f.svc.Create(ctx, &service.CreateTaskRequest{
			Title:  fmt.Sprintf("task %d", i),
			Status: status,
			UserID: strPtr(user),
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.List(ctx, &service.ListTasksRequest{Limit: service.DefaultPageSize})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Total)
	assert.Len(t, resp.Tasks, 10)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Size)

	resp, err = f.svc.List(ctx, &service.ListTasksRequest{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 2)
	assert.Equal(t, 3, resp.Page)

	// i = 0, 6 是 bob 且 completed
	resp, err = f.svc.List(ctx, &service.ListTasksRequest{
		Status: strPtr(model.StatusCompleted),
		UserID: strPtr("bob"),
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	for _, task := range resp.Tasks {
		assert.Equal(t, model.StatusCompleted, task.Status)
		assert.Equal(t, "bob", *task.UserID)
	}
}

// TestTaskService_List_Validation 测试列表参数校验
func TestTaskService_List_Validation(t *testing.T) {
	f := setupService(t)

	cases := []struct {
		req   *service.ListTasksRequest
		field string
	}{
		{&service.ListTasksRequest{Limit: 0}, "limit"},
		{&service.ListTasksRequest{Limit: 101}, "limit"},
		{&service.ListTasksRequest{Limit: 10, Skip: -1}, "skip"},
		{&service.ListTasksRequest{Limit: 10, Status: strPtr("unknown")}, "status"},
		{&service.ListTasksRequest{Limit: 10, SortBy: "password"}, "sort_by"},
		{&service.ListTasksRequest{Limit: 10, Order: "sideways"}, "order"},
	}

	for _, tc := range cases {
		_, err := f.svc.List(context.Background(), tc.req)
		var verr *service.ValidationError
		require.True(t, errors.As(err, &verr), "field %s", tc.field)
		assert.Equal(t, tc.field, verr.Fields[0].Field)
	}
}

// TestTaskService_Enrich 测试重新获取外部数据
func TestTaskService_Enrich(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	f.fetcher.err = &enrichment.Error{Kind: enrichment.KindTimeout, ExternalID: 5, Timeout: time.Second}
	created, err := f.svc.Create(ctx, &service.CreateTaskRequest{Title: "later", ExternalID: int64Ptr(5)})
	require.NoError(t, err)
	require.Nil(t, created.Task.ExternalAPIData)

	// 外部调用仍然失败时直接返回错误
	_, err = f.svc.Enrich(ctx, created.Task.ID)
	var enrichErr *enrichment.Error
	require.True(t, errors.As(err, &enrichErr))
	assert.Equal(t, enrichment.KindTimeout, enrichErr.Kind)

	f.fetcher.err = nil
	f.clock.Advance(time.Minute)
	task, err := f.svc.Enrich(ctx, created.Task.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"remote"}`, string(task.ExternalAPIData))
	assert.True(t, task.UpdatedAt.Equal(f.clock.now))
}

// TestTaskService_Enrich_WithoutExternalID 测试没有 external_id 的任务
func TestTaskService_Enrich_WithoutExternalID(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &service.CreateTaskRequest{Title: "plain"})
	require.NoError(t, err)

	_, err = f.svc.Enrich(ctx, created.Task.ID)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "external_id", verr.Fields[0].Field)

	_, err = f.svc.Enrich(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

// TestTaskService_Statistics 测试统计
func TestTaskService_Statistics(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	for _, req := range []*service.CreateTaskRequest{
		{Title: "a", Priority: model.PriorityHigh},
		{Title: "b", Status: model.StatusInProgress},
		{Title: "c", Status: model.StatusCompleted, Priority: model.PriorityHigh},
	} {
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	}

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, map[string]int64{
		model.StatusPending:    1,
		model.StatusInProgress: 1,
		model.StatusCompleted:  1,
	}, stats.ByStatus)
	assert.Equal(t, map[string]int64{
		model.PriorityLow:    0,
		model.PriorityMedium: 1,
		model.PriorityHigh:   2,
	}, stats.ByPriority)
}

// TestTaskService_StoreError 测试持久化失败
func TestTaskService_StoreError(t *testing.T) {
	f := setupService(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.svc.Create(context.Background(), &service.CreateTaskRequest{Title: "x"})
	var storeErr *service.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "create", storeErr.Op)

	_, err = f.svc.Get(context.Background(), 1)
	require.True(t, errors.As(err, &storeErr))
	assert.NotErrorIs(t, err, service.ErrTaskNotFound)
}
