// Package main 是应用程序的入口。
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nichestudioai/aibnb-superhost/internal/config"
	"github.com/nichestudioai/aibnb-superhost/internal/handler"
	"github.com/nichestudioai/aibnb-superhost/internal/middleware"
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/internal/pipeline"
	"github.com/nichestudioai/aibnb-superhost/internal/repository"
	"github.com/nichestudioai/aibnb-superhost/internal/service"
	"github.com/nichestudioai/aibnb-superhost/pkg/database"
	"github.com/nichestudioai/aibnb-superhost/pkg/kafka"
	"github.com/nichestudioai/aibnb-superhost/pkg/llm"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
	"github.com/nichestudioai/aibnb-superhost/pkg/storage"
	"github.com/nichestudioai/aibnb-superhost/pkg/token"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 初始化配置和日志
	config.Init(*configPath)
	log.Init(config.Conf.Log.Level, config.Conf.Log.Format, config.Conf.Log.OutputPath)
	defer log.Sync()

	// 2. 初始化基础设施
	database.InitMySQL(config.Conf.Database.MySQL.DSN)
	database.InitRedis(config.Conf.Database.Redis.Addr, config.Conf.Database.Redis.Password, config.Conf.Database.Redis.DB)
	storage.InitMinIO(config.Conf.MinIO)
	kafka.InitProducer(config.Conf.Kafka)

	// 3. 自动迁移数据库表结构
	err := database.DB.AutoMigrate(
		&model.Host{},
		&model.Property{},
		&model.PropertyPhoto{},
		&model.FAQ{},
		&model.Conversation{},
		&model.ChatMessage{},
		&model.RetrievalEvent{},
	)
	if err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 4. 依赖注入：repository -> service -> handler
	hostRepo := repository.NewHostRepository(database.DB)
	propertyRepo := repository.NewPropertyRepository(database.DB)
	faqRepo := repository.NewFAQRepository(database.DB)
	convRepo := repository.NewConversationRepository(database.DB)
	eventRepo := repository.NewRetrievalEventRepository(database.DB)

	jwtManager := token.NewJWTManager(
		config.Conf.JWT.Secret,
		config.Conf.JWT.AccessTokenExpireHours,
		config.Conf.JWT.RefreshTokenExpireDays,
	)
	llmClient, err := llm.NewClient(config.Conf.LLM)
	if err != nil {
		log.Fatalf("初始化答案生成客户端失败: %v", err)
	}

	hostService := service.NewHostService(hostRepo, jwtManager, database.RDB)
	propertyService := service.NewPropertyService(propertyRepo, eventRepo)
	faqService := service.NewFAQService(faqRepo, propertyRepo, database.RDB)
	retrievalService := service.NewRetrievalService(faqRepo, database.RDB, kafka.Sink{})
	convService := service.NewConversationService(convRepo, propertyRepo)
	chatService := service.NewChatService(retrievalService, convService, llmClient,
		time.Duration(config.Conf.LLM.TimeoutSeconds)*time.Second)

	hostHandler := handler.NewHostHandler(hostService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	faqHandler := handler.NewFAQHandler(faqService)
	chatHandler := handler.NewChatHandler(chatService, propertyService, convService)
	convHandler := handler.NewConversationHandler(convService)

	// 5. 启动 Kafka 消费者，异步落库检索诊断记录
	go kafka.StartConsumer(config.Conf.Kafka, pipeline.NewProcessor(eventRepo))

	// 6. 注册路由
	gin.SetMode(config.Conf.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	apiV1 := router.Group("/api/v1")
	{
		// 公开接口：注册/登录/刷新令牌
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", hostHandler.Register)
			auth.POST("/login", hostHandler.Login)
			auth.POST("/refresh", hostHandler.RefreshToken)
		}

		// 公开接口：访客侧房源页面与聊天
		sites := apiV1.Group("/sites/:subdomain")
		{
			sites.GET("", propertyHandler.GetBySubdomain)
			sites.POST("/chat", chatHandler.Ask)
			sites.GET("/chat/history", chatHandler.History)
		}

		// 房东侧接口，需要登录
		authed := apiV1.Group("")
		authed.Use(middleware.JWTAuth(jwtManager, database.RDB))
		{
			authed.POST("/auth/logout", hostHandler.Logout)
			authed.GET("/profile", hostHandler.GetProfile)
			authed.PUT("/profile", hostHandler.UpdateProfile)

			properties := authed.Group("/properties")
			{
				properties.POST("", propertyHandler.Create)
				properties.GET("", propertyHandler.List)
				properties.GET("/:id", propertyHandler.Get)
				properties.PUT("/:id", propertyHandler.Update)
				properties.DELETE("/:id", propertyHandler.Delete)

				properties.POST("/:id/photos", propertyHandler.UploadPhoto)
				properties.GET("/:id/photos", propertyHandler.ListPhotos)

				properties.POST("/:id/faqs", faqHandler.Create)
				properties.GET("/:id/faqs", faqHandler.List)
				properties.PUT("/:id/faqs/:faqId", faqHandler.Update)
				properties.DELETE("/:id/faqs/:faqId", faqHandler.Delete)

				properties.GET("/:id/conversations", convHandler.List)
				properties.GET("/:id/conversations/:conversationId", convHandler.Transcript)

				properties.GET("/:id/retrieval-events", propertyHandler.ListRetrievalEvents)
			}
		}
	}

	// 7. 启动 HTTP 服务器并处理优雅关闭
	srv := &http.Server{
		Addr:    ":" + config.Conf.Server.Port,
		Handler: router,
	}

	go func() {
		log.Infof("服务器正在监听端口 %s", config.Conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到关闭信号，正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v", err)
	}
	log.Info("服务器已退出")
}
