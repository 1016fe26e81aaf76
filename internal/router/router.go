package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskhive/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Profile      *apiHandler.ProfileHandler
	User         *apiHandler.UserHandler
	Task         *apiHandler.TaskHandler
	Category     *apiHandler.CategoryHandler
	Project      *apiHandler.ProjectHandler
	Comment      *apiHandler.CommentHandler
	Attachment   *apiHandler.AttachmentHandler
	Notification *apiHandler.NotificationHandler
	Dashboard    *apiHandler.DashboardHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, uploadDir string, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/auth/register", handlers.Auth.Register)
	r.POST("/api/auth/login", handlers.Auth.Login)
	r.POST("/api/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/auth/logout", handlers.Auth.Logout)

	// Protected routes
	r.GET("/api/profile", authMiddleware(handlers.Profile.Get))
	r.PUT("/api/profile", authMiddleware(handlers.Profile.Update))
	r.PUT("/api/profile/password", authMiddleware(handlers.Profile.ChangePassword))

	r.GET("/api/users", authMiddleware(handlers.User.List))

	r.GET("/api/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/api/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.GET("/api/tasks/{id}/activity", authMiddleware(handlers.Task.Activity))

	r.GET("/api/tasks/{id}/comments", authMiddleware(handlers.Comment.List))
	r.POST("/api/tasks/{id}/comments", authMiddleware(handlers.Comment.Create))
	r.DELETE("/api/comments/{commentId}", authMiddleware(handlers.Comment.Delete))

	r.GET("/api/tasks/{id}/attachments", authMiddleware(handlers.Attachment.List))
	r.POST("/api/tasks/{id}/attachments", authMiddleware(handlers.Attachment.Upload))
	r.DELETE("/api/attachments/{attachmentId}", authMiddleware(handlers.Attachment.Delete))

	r.GET("/api/categories", authMiddleware(handlers.Category.List))
	r.POST("/api/categories", authMiddleware(handlers.Category.Create))
	r.DELETE("/api/categories/{id}", authMiddleware(handlers.Category.Delete))

	r.GET("/api/projects", authMiddleware(handlers.Project.List))
	r.POST("/api/projects", authMiddleware(handlers.Project.Create))
	r.PUT("/api/projects/{id}", authMiddleware(handlers.Project.Update))
	r.DELETE("/api/projects/{id}", authMiddleware(handlers.Project.Delete))

	r.GET("/api/dashboard", authMiddleware(handlers.Dashboard.Summary))

	r.GET("/api/notifications", authMiddleware(handlers.Notification.List))
	r.PUT("/api/notifications/{id}/read", authMiddleware(handlers.Notification.MarkRead))
	r.PUT("/api/notifications/read-all", authMiddleware(handlers.Notification.MarkAllRead))

	// Uploaded files are served as-is from the upload directory.
	r.ServeFiles("/uploads/{filepath:*}", uploadDir)

	return r
}
