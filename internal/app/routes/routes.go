package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/applytrack/applytrack/internal/app/controllers"
	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	profileController *controllers.ProfileController,
	applicationController *controllers.ApplicationController,
	universityController *controllers.UniversityController,
	parentController *controllers.ParentController,
	authMiddleware *middleware.AuthMiddleware,
	pool *pgxpool.Pool,
) {
	// Health endpoint with a database ping
	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/session", authController.GetSession)

		// Profile routes
		profiles := authenticated.Group("/profiles")
		{
			profiles.GET("/me", profileController.GetProfile)
			profiles.PUT("/me", profileController.UpdateProfile)
			profiles.POST("/me/avatar", profileController.UploadAvatar)
		}

		// University catalog; creation is admin only
		universities := authenticated.Group("/universities")
		{
			universities.GET("", universityController.SearchUniversities)
			universities.GET("/:id", universityController.GetUniversity)

			universitiesAdminProtected := universities.Group("")
			universitiesAdminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				universitiesAdminProtected.POST("", universityController.CreateUniversity)
			}
		}

		// Application routes; mutations are student only, reads include
		// linked parents
		applications := authenticated.Group("/applications")
		{
			applications.GET("", applicationController.ListApplications)
			applications.GET("/:id", applicationController.GetApplication)
			applications.GET("/:id/requirements", applicationController.ListRequirements)
			applications.GET("/:id/notes", parentController.ListNotes)

			applicationsStudentProtected := applications.Group("")
			applicationsStudentProtected.Use(authMiddleware.RoleRequired(models.RoleStudent))
			{
				applicationsStudentProtected.POST("", applicationController.CreateApplication)
				applicationsStudentProtected.PUT("/:id", applicationController.UpdateApplication)
				applicationsStudentProtected.DELETE("/:id", applicationController.DeleteApplication)
				applicationsStudentProtected.POST("/:id/requirements", applicationController.AddRequirement)
				applicationsStudentProtected.PUT("/:id/requirements/:requirementId", applicationController.UpdateRequirement)
				applicationsStudentProtected.DELETE("/:id/requirements/:requirementId", applicationController.DeleteRequirement)
			}
		}

		// Activity feed
		authenticated.GET("/activity", applicationController.ListActivity)

		// Parent links and notes
		parents := authenticated.Group("/parents")
		{
			parents.GET("/links", parentController.ListLinks)

			parentsStudentProtected := parents.Group("")
			parentsStudentProtected.Use(authMiddleware.RoleRequired(models.RoleStudent))
			{
				parentsStudentProtected.POST("/links", parentController.LinkParent)
			}

			parentsParentProtected := parents.Group("")
			parentsParentProtected.Use(authMiddleware.RoleRequired(models.RoleParent))
			{
				parentsParentProtected.POST("/notes", parentController.CreateNote)
				parentsParentProtected.DELETE("/notes/:noteId", parentController.DeleteNote)
			}
		}
	}
}
