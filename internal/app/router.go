package app

import (
	"mquest_backend/docs"
	"mquest_backend/internal/config"
	"mquest_backend/internal/middleware"
	"mquest_backend/internal/model"
	"mquest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公開ルート（ログイン不要）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// クエストの閲覧・挑戦・提出は未ログインでも可。
		// ログイン中なら履歴が重なり、提出が記録される
		browse := public.Group("/", middleware.TryAuthMiddleware(cfg))
		{
			browse.GET("/subjects", c.quest.ListSubjects)
			browse.GET("/subjects/:subject/levels", c.quest.ListLevels)
			browse.GET("/subjects/:subject/levels/:level/quests", c.quest.ListQuests)
			browse.GET("/quests/:id/run", c.quest.GetRunQuest)
			browse.POST("/quests/:id/submissions", c.submission.Submit)
		}
	}

	// 認証必須ルート
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/me", c.auth.Me)
		authGroup.PUT("/auth/password", c.auth.ChangePassword)

		authGroup.GET("/users/profile", c.user.GetProfile)
		authGroup.PUT("/users/nickname", c.user.UpdateNickname)
		authGroup.POST("/users/avatar", c.user.UploadAvatar)

		// 生徒向けダッシュボード
		student := authGroup.Group("/progress", middleware.RoleMiddleware(model.Student))
		{
			student.GET("/conquered", c.progress.ConqueredQuests)
			student.GET("/medals", c.progress.Medals)
			student.GET("/overview", c.progress.Overview)
		}

		// 保護者向け
		parent := authGroup.Group("/parent", middleware.RoleMiddleware(model.Parent))
		{
			parent.GET("/children", c.parent.ListChildren)
		}
	}

	// 管理者向け
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/quests", c.admin.CreateQuest)
		admin.PUT("/quests/:id", c.admin.UpdateQuest)
		admin.DELETE("/quests/:id", c.admin.DeleteQuest)
		admin.GET("/quests/:id/questions", c.admin.ListQuestions)
		admin.POST("/quests/:id/questions", c.admin.AddQuestion)
		admin.PUT("/questions/:id", c.admin.UpdateQuestion)
		admin.DELETE("/questions/:id", c.admin.DeleteQuestion)
		admin.GET("/students", c.admin.ListStudents)
	}
}
