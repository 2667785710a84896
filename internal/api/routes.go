package api

import (
	"alcyxob/workout-tracker/internal/app"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies collects what the HTTP layer needs.
type Dependencies struct {
	AuthService   service.AuthService
	ExportService service.ExportService
	Registry      *app.Registry
	Metrics       *metrics.Manager
	Gatherer      prometheus.Gatherer
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.AuthService)
	exerciseHandler := NewExerciseHandler()
	draftHandler := NewDraftHandler()
	profileHandler := NewProfileHandler()
	stateHandler := NewStateHandler(deps.ExportService)

	router.Use(RequestLogger(), RequestMetrics(deps.Metrics))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/oauth/:provider", authHandler.OAuthStart)
			authGroup.GET("/oauth/:provider/callback", authHandler.OAuthCallback)
		}
		apiV1.GET("/muscle-groups", exerciseHandler.ListMuscleGroups)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(deps.AuthService))
	protected.GET("/me", authHandler.Me)

	workflow := protected.Group("")
	workflow.Use(ControllerMiddleware(deps.Registry))
	{
		workflow.GET("/state", stateHandler.GetState)
		workflow.POST("/navigate", stateHandler.Navigate)
		workflow.GET("/home", stateHandler.Home)
		workflow.GET("/history", stateHandler.History)
		workflow.GET("/stats", stateHandler.Stats)
		workflow.POST("/history/export", stateHandler.ExportHistory)

		workflow.GET("/profile", profileHandler.GetProfile)
		workflow.PUT("/profile", profileHandler.UpdateProfile)

		workflow.GET("/exercises", exerciseHandler.ListExercises)
		workflow.POST("/exercises", exerciseHandler.CreateExercise)

		draftGroup := workflow.Group("/draft")
		{
			draftGroup.GET("", draftHandler.GetDraft)
			draftGroup.POST("", draftHandler.StartDraft)
			draftGroup.DELETE("", draftHandler.CancelDraft)
			draftGroup.POST("/exercise", draftHandler.SelectExercise)
			draftGroup.POST("/exercise/new", draftHandler.CreateExercise)
			draftGroup.POST("/sets", draftHandler.AddSet)
			draftGroup.PATCH("/sets/:setId", draftHandler.UpdateSet)
			draftGroup.DELETE("/sets/:setId", draftHandler.RemoveSet)
			draftGroup.POST("/finish", draftHandler.Finish)
		}
	}
}
