// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linglong-go/internal/config"
	"linglong-go/internal/handler"
	"linglong-go/internal/middleware"
	"linglong-go/internal/ratelimit"
	"linglong-go/internal/repository"
	"linglong-go/internal/service"
	"linglong-go/pkg/database"
	"linglong-go/pkg/llm"
	"linglong-go/pkg/log"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	if cfg.LLM.APIKey == "" {
		// 不阻止启动：密钥缺失会导致每次模型调用立即失败
		log.Warnf("DEEPSEEK_API_KEY 未配置，模型调用将全部失败")
	}

	// 3. 初始化限流器与 LLM 客户端
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	llmClient := llm.NewClient(cfg.LLM)

	// 4. 初始化 Service (依赖注入)
	divinationService := service.NewDivinationService(llmClient)
	analyzeHandler := handler.NewAnalyzeHandler(divinationService)
	mingPanHandler := handler.NewMingPanHandler()

	// 5. 可选：初始化 Redis 与会话快照存储
	var sessionHandler *handler.SessionHandler
	if cfg.Redis.Enabled {
		if err := database.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Error("Redis 初始化失败，会话恢复功能不可用", err)
		} else {
			sessionRepo := repository.NewSessionRepository(database.RDB, time.Duration(cfg.Session.TTLHours)*time.Hour)
			sessionHandler = handler.NewSessionHandler(sessionRepo)
		}
	}

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 7. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/shichen", mingPanHandler.ShiChenList)
		apiV1.POST("/mingpan", mingPanHandler.Calculate)

		// 分析入口在限流闸门之后：超额请求在任何解析和网络调用前被拒绝
		analyze := apiV1.Group("/")
		analyze.Use(middleware.RateLimit(limiter))
		{
			analyze.POST("/analyze", analyzeHandler.Analyze)
		}

		if sessionHandler != nil {
			session := apiV1.Group("/session")
			{
				session.POST("", sessionHandler.Save)
				session.GET("", sessionHandler.Load)
				session.DELETE("", sessionHandler.Delete)
			}
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
