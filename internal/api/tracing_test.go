package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Nikhil88689/Showbay/internal/api"
	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/repository"
	"github.com/Nikhil88689/Showbay/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracing_NilShutdown(t *testing.T) {
	var tracing *api.Tracing
	assert.NoError(t, tracing.Shutdown(context.Background()))
}

func TestSetupRoutes_WithTracing(t *testing.T) {
	cfg := config.Default()
	cfg.Tracing.Enabled = true
	cfg.Tracing.JaegerEndpoint = "http://127.0.0.1:1/api/traces"

	tracing, err := api.InitTracing(cfg.Tracing)
	require.NoError(t, err)

	db := setupTestDB(t)
	svc := service.NewTaskService(repository.NewTaskRepository(db), nil, api.GetLogger())
	router := api.SetupRoutes(cfg, db, svc)

	w := doJSON(router, http.MethodPost, "/api/v1/tasks", map[string]interface{}{"title": "traced"})
	assert.Equal(t, http.StatusCreated, w.Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tracing.Shutdown(ctx)
}
