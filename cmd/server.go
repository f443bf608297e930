/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nikhil88689/Showbay/internal/api"
	"github.com/Nikhil88689/Showbay/internal/config"
	"github.com/Nikhil88689/Showbay/internal/container"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Showbay API server.
The server will listen on the configured host and port,
and provide REST API interfaces for task management.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := LoadConfig(cmd, configPath)
		if err != nil {
			return err
		}

		// 2. 初始化日志
		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		api.SetLogger(logger)

		gin.SetMode(GinMode(cfg))

		// 3. 初始化追踪
		var tracing *api.Tracing
		if cfg.Tracing.Enabled {
			tracing, err = api.InitTracing(cfg.Tracing)
			if err != nil {
				logger.WithError(err).Warn("Failed to initialize tracing, continuing without it")
				cfg.Tracing.Enabled = false
			}
		}

		// 4. 初始化容器
		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 5. 配置文件变更时调整日志级别
		if configPath != "" {
			watcher := config.NewConfigWatcher(cfg, configPath)
			watcher.OnConfigChange(func(newCfg *config.Config) {
				if api.ApplyLogLevel(logger, newCfg.Log.Level) {
					logger.WithField("level", newCfg.Log.Level).Info("Log level reloaded")
				}
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("Failed to watch config file")
			} else {
				defer watcher.Stop()
			}
		}

		// 6. 设置路由
		router := api.SetupRoutes(cfg, ctr.DB(), ctr.TaskService())

		// 7. 启动服务器
		addr := cfg.Server.Address()
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.WithFields(logrus.Fields{
				"addr":         addr,
				"external_api": cfg.ExternalAPI.BaseURL,
				"enrichment":   ctr.Fetcher() != nil,
				"mode":         gin.Mode(),
			}).Info("Server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err, ok := <-serveErr:
			if ok {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		case <-quit:
		}

		logger.Info("Shutting down server...")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		if err := tracing.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}

		logger.Info("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志,未指定时使用配置文件或环境变量
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8000, "Server port")
}

// LoadConfig 加载配置,命令行显式指定的 host 和 port 优先
func LoadConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GinMode 调试模式仅在非生产环境生效
func GinMode(cfg *config.Config) string {
	if cfg.Debug && !config.IsProduction(cfg) {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
