package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salestrack/config"
	"salestrack/internal/handler"
	"salestrack/internal/middleware"
	"salestrack/internal/services"
	"salestrack/internal/transport/httpdto"
	"salestrack/internal/websocket"
	"salestrack/pkg/database"
	"salestrack/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Sale   *handler.SaleHandler
	Report *handler.ReportHandler
	Chat   *handler.ChatHandler
	Upload *handler.UploadHandler
	User   *handler.UserHandler
	Admin  *handler.AdminHandler
	WS     *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:          12 * time.Hour,
	}))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "unhealthy"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	requireAuth := middleware.AuthMiddleware(authService)
	requireAdmin := middleware.AdminMiddleware(authService)

	auth := s.engine.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", requireAuth, handlers.Auth.Logout)
		auth.POST("/logout-all", requireAuth, handlers.Auth.LogoutAll)
		auth.GET("/me", requireAuth, handlers.Auth.Me)
		auth.POST("/password/forgot", handlers.Auth.PasswordForgot)
		auth.POST("/password/reset", handlers.Auth.PasswordReset)
	}

	sales := s.engine.Group("/v1/sales", requireAuth)
	{
		sales.POST("", handlers.Sale.Create)
		sales.PUT("/:id", handlers.Sale.Update)
		sales.DELETE("/:id", handlers.Sale.Delete)
		sales.GET("/mine", handlers.Sale.Mine)
	}

	reports := s.engine.Group("/v1/reports", requireAuth)
	{
		reports.GET("/me", handlers.Report.MySummary)
		reports.GET("/ranking", handlers.Report.Ranking)
	}

	users := s.engine.Group("/v1/users", requireAuth)
	{
		users.GET("/colleagues", handlers.User.Colleagues)
		users.GET("/scripts", handlers.User.Scripts)
		users.POST("/scripts", handlers.User.AddScript)
		users.DELETE("/scripts/:id", handlers.User.DeleteScript)
	}

	chat := s.engine.Group("/v1/chat", requireAuth)
	{
		chat.GET("/conversations", handlers.Chat.Conversations)
		chat.GET("/direct/:userId", handlers.Chat.DirectMessages)
		chat.POST("/direct", handlers.Chat.SendDirect)
		chat.GET("/group", handlers.Chat.GroupMessages)
		chat.POST("/group", handlers.Chat.SendGroup)
		chat.POST("/rooms/:roomId/read", handlers.Chat.MarkRead)
	}

	uploads := s.engine.Group("/v1/uploads", requireAuth)
	{
		uploads.POST("/presign", handlers.Upload.Presign)
	}

	admin := s.engine.Group("/v1/admin", requireAuth, requireAdmin)
	{
		admin.GET("/overview", handlers.Report.Overview)
		admin.GET("/team", handlers.Report.Team)
		admin.GET("/sales", handlers.Sale.Table)
		admin.GET("/sales/export", handlers.Sale.Export)
		admin.GET("/users", handlers.User.List)
		admin.GET("/users/:id", handlers.User.Get)
		admin.PATCH("/users/:id/goal", handlers.User.UpdateGoal)
		admin.POST("/users/:id/approve", handlers.Admin.ApproveUser)
		admin.POST("/users/:id/reject", handlers.Admin.RejectUser)
		admin.DELETE("/users/:id", handlers.Admin.DeleteUser)
		admin.POST("/password-reset", handlers.Admin.SendPasswordReset)
		admin.DELETE("/chat/group", handlers.Chat.ClearGroup)
	}

	s.engine.GET("/ws", handlers.WS.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
