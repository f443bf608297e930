package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Nikhil88689/Showbay/internal/api"
	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/database"
	"github.com/Nikhil88689/Showbay/internal/enrichment"
	"github.com/Nikhil88689/Showbay/internal/repository"
	"github.com/Nikhil88689/Showbay/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	api.SetLoggerOutput(io.Discard)
	os.Exit(m.Run())
}

// setupTestDB 创建内存测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// setupRouter 创建完整路由,fetcher 为 nil 时不获取外部数据
func setupRouter(t *testing.T, fetcher enrichment.Fetcher) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := service.NewTaskService(repository.NewTaskRepository(db), fetcher, api.GetLogger())
	return api.SetupRoutes(config.Default(), db, svc), db
}

// newExternalAPI 模拟外部 API
func newExternalAPI(t *testing.T, handler http.HandlerFunc) *enrichment.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return enrichment.NewClient(enrichment.Config{BaseURL: server.URL, Timeout: 200 * time.Millisecond})
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
