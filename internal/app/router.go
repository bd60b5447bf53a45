package app

import (
	"mapmyroute_backend/docs"
	"mapmyroute_backend/internal/middleware"
	"mapmyroute_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	requireAuth := middleware.AuthMiddleware(s.auth)
	tryAuth := middleware.TryAuthMiddleware(s.auth)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, tryAuth)

	// 2. 需要授权的路由
	authorized := router.Group("/")
	authorized.Use(requireAuth)
	{
		a.registerAccountRoutes(authorized, c)
		a.registerSkillPathRoutes(authorized, c)
		a.registerPlannerRoutes(authorized, c)
		a.registerInsightRoutes(authorized, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, tryAuth gin.HandlerFunc) {
	router.GET("/", c.health.Root)

	auth := router.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.POST("/firebase", c.auth.Firebase)
	}

	// 游客可用，登录用户额外记录生成历史
	router.POST("/roadmap/generate", tryAuth, c.roadmap.Generate)
	router.GET("/resources", tryAuth, c.resource.List)

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/update-roadmap", tryAuth, c.roadmap.Update)
		api.POST("/get-resources", tryAuth, c.resource.Categorized)

		api.GET("/job-categories", c.career.Categories)
		api.GET("/job-postings", c.career.Postings)
		api.GET("/skill-relevance", c.career.SkillRelevance)
		api.GET("/salary-benchmark", c.career.SalaryBenchmark)
	}
}

func (a *App) registerAccountRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/profile", c.auth.Profile)
	r.DELETE("/user/delete", c.auth.DeleteAccount)

	r.GET("/api/history", c.history.List)
	r.GET("/api/history/export", c.history.Export)
	r.DELETE("/api/history", c.history.Clear)
}

func (a *App) registerSkillPathRoutes(r *gin.RouterGroup, c *controllers) {
	paths := r.Group("/skill-paths")
	{
		paths.GET("", c.skillPath.List)
		paths.POST("", c.skillPath.Create)
		paths.GET("/:id", c.skillPath.Get)
		paths.PUT("/:id", c.skillPath.Update)
		paths.DELETE("/:id", c.skillPath.Delete)
	}

	r.GET("/export", c.export.Export)
}

func (a *App) registerPlannerRoutes(r *gin.RouterGroup, c *controllers) {
	planner := r.Group("/planner")
	{
		planner.GET("", c.planner.List)
		planner.POST("", c.planner.Create)
		planner.GET("/week", c.planner.Week)
		planner.GET("/calendar", c.planner.Calendar)
		planner.PATCH("/:id", c.planner.Patch)
		planner.DELETE("/:id", c.planner.Delete)
		planner.POST("/shift_pending", c.planner.ShiftPending)
		planner.POST("/generate-from-skill-path/:id", c.planner.GenerateFromSkillPath)
		planner.POST("/regenerate_week", c.planner.RegenerateWeek)
	}
}

func (a *App) registerInsightRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/analytics", c.analytics.Stats)
	r.GET("/analytics/suggestions", c.analytics.Suggestions)
	r.GET("/api/dashboard", c.analytics.Dashboard)

	quiz := r.Group("/quiz")
	{
		quiz.GET("/personalized/:user_id", c.quiz.Personalized)
		quiz.POST("/attempt", c.quiz.Attempt)
		quiz.GET("/history/:user_id", c.quiz.History)
	}

	r.GET("/api/user-skills/:user_id", c.career.UserSkills)

	tracking := r.Group("/api/time-tracking")
	{
		tracking.POST("/start", c.tracking.Start)
		tracking.PUT("/:id/end", c.tracking.End)
		tracking.GET("/:user_id", c.tracking.List)
	}
	r.POST("/api/progress-entry", c.progress.Add)
	r.GET("/api/progress/:user_id/:skill_path_id", c.progress.List)
}
