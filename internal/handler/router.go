package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wartakota/newsroom-api/internal/middleware"
	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/internal/service"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	News        *NewsHandler
	Media       *MediaHandler
	Comments    *CommentHandler
	Categories  *CategoryHandler
	Assignments *AssignmentHandler
	Users       *UserHandler
	Vacancies   *VacancyHandler
	Internships *InternshipHandler
	Activity    *ActivityHandler
	Exports     *ExportHandler
	Metrics     *MetricsHandler
}

// Register mounts all routes under the given API prefix. Public routes sit
// under <prefix>/public and require no token; staff routes require a valid
// JWT and, where noted, the ADMIN role.
func Register(r *gin.Engine, prefix string, h Handlers, authSvc *service.AuthService, metricsSvc *service.MetricsService) {
	r.GET("/metrics", h.Metrics.Prometheus)
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)

	api := r.Group(prefix)
	api.Use(middleware.Metrics(metricsSvc), middleware.Audit())

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleWriter)

	public := api.Group("/public")
	{
		public.GET("/news", h.News.ListPublished)
		public.GET("/news/slug/:slug", h.News.GetBySlug)
		public.GET("/news/:id/comments", h.Comments.ListPublic)
		public.POST("/news/:id/comments", middleware.OptionalJWT(authSvc), h.Comments.Create)

		public.GET("/vacancies", h.Vacancies.ListOpen)
		public.POST("/vacancies/:id/apply", h.Vacancies.Apply)
		public.POST("/internships", h.Internships.Apply)

		public.GET("/media/download", h.Media.Download)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		authed := auth.Group("", middleware.JWT(authSvc))
		authed.POST("/logout", h.Auth.Logout)
		authed.POST("/change-password", h.Auth.ChangePassword)
		authed.GET("/me", h.Auth.Me)
	}

	news := api.Group("/news", middleware.JWT(authSvc), staff)
	{
		news.POST("", h.News.Create)
		news.GET("", h.News.List)
		news.GET("/:id", h.News.Get)
		news.PUT("/:id", h.News.Update)
		news.DELETE("/:id", h.News.Delete)
		news.POST("/:id/submit", h.News.Submit)
		news.POST("/:id/approve", adminOnly, h.News.Approve)
		news.POST("/:id/reject", adminOnly, h.News.Reject)
		news.POST("/:id/publish", adminOnly, h.News.Publish)
		news.POST("/:id/unpublish", adminOnly, h.News.Unpublish)
		news.POST("/:id/schedule", adminOnly, h.News.Schedule)
		news.POST("/:id/restore", adminOnly, h.News.Restore)
	}

	media := api.Group("/media", middleware.JWT(authSvc), staff)
	{
		media.POST("", h.Media.Upload)
		media.GET("", h.Media.List)
		media.GET("/:id", h.Media.Get)
		media.DELETE("/:id", h.Media.Delete)
		media.POST("/:id/approve", adminOnly, h.Media.Approve)
		media.POST("/:id/reject", adminOnly, h.Media.Reject)
	}

	comments := api.Group("/comments", middleware.JWT(authSvc), adminOnly)
	{
		comments.GET("", h.Comments.List)
		comments.POST("/:id/approve", h.Comments.Approve)
		comments.POST("/:id/spam", h.Comments.MarkSpam)
		comments.DELETE("/:id", h.Comments.Delete)
	}

	categories := api.Group("/categories", middleware.JWT(authSvc), staff)
	{
		categories.GET("", h.Categories.List)
		categories.GET("/:id", h.Categories.Get)
		categories.POST("", adminOnly, h.Categories.Create)
		categories.PUT("/:id", adminOnly, h.Categories.Update)
		categories.DELETE("/:id", adminOnly, h.Categories.Delete)
	}

	assignments := api.Group("/assignments", middleware.JWT(authSvc), staff)
	{
		assignments.POST("", adminOnly, h.Assignments.Create)
		assignments.GET("", h.Assignments.List)
		assignments.GET("/:id", h.Assignments.Get)
		assignments.PUT("/:id", adminOnly, h.Assignments.Update)
		assignments.POST("/:id/transition", h.Assignments.Transition)
		assignments.DELETE("/:id", adminOnly, h.Assignments.Delete)
	}

	users := api.Group("/users", middleware.JWT(authSvc), adminOnly)
	{
		users.POST("", h.Users.Create)
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Deactivate)
	}

	vacancies := api.Group("/vacancies", middleware.JWT(authSvc), adminOnly)
	{
		vacancies.POST("", h.Vacancies.Create)
		vacancies.GET("", h.Vacancies.List)
		vacancies.GET("/:id", h.Vacancies.Get)
		vacancies.PUT("/:id", h.Vacancies.Update)
	}

	candidates := api.Group("/candidates", middleware.JWT(authSvc), adminOnly)
	{
		candidates.GET("", h.Vacancies.ListCandidates)
		candidates.PUT("/:id/status", h.Vacancies.ReviewCandidate)
	}

	internships := api.Group("/internships", middleware.JWT(authSvc), adminOnly)
	{
		internships.GET("", h.Internships.List)
		internships.GET("/:id", h.Internships.Get)
		internships.POST("/:id/review", h.Internships.Review)
	}

	activity := api.Group("/activity", middleware.JWT(authSvc), adminOnly)
	{
		activity.GET("", h.Activity.List)
	}

	exports := api.Group("/exports", middleware.JWT(authSvc), adminOnly)
	{
		exports.GET("/candidates", h.Exports.Candidates)
		exports.GET("/internships", h.Exports.Internships)
	}

	api.GET("/metrics/dashboard", middleware.JWT(authSvc), adminOnly, h.Metrics.Dashboard)
}
