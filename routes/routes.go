package routes

import (
	"net/http"

	"github.com/Zalotleh/wellness-hub-sub005/controllers"
	"github.com/Zalotleh/wellness-hub-sub005/middlewares"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers bundles every handler the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	User          *controllers.UserController
	Consumption   *controllers.ConsumptionController
	Progress      *controllers.ProgressController
	Recommend     *controllers.RecommendationController
	Recipe        *controllers.RecipeController
	Trend         *controllers.TrendController
	Device        *controllers.DeviceController
	Notifications *controllers.NotificationController
	Realtime      *controllers.RealtimeController
}

func SetupRouter(db *gorm.DB, ctl Controllers) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
		auth.POST("/forgot-password", ctl.Auth.ForgotPassword)
		auth.POST("/reset-password", ctl.Auth.ResetPassword)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(db))
	{
		api.GET("/user/profile", ctl.User.GetProfile)
		api.PUT("/user/profile", ctl.User.UpdateProfile)

		api.POST("/consumptions", ctl.Consumption.Log)
		api.GET("/consumptions", ctl.Consumption.ListByDate)
		api.DELETE("/consumptions/:id", ctl.Consumption.Delete)

		api.GET("/progress/score", ctl.Progress.GetScore)
		api.GET("/progress/breakdown", ctl.Progress.GetBreakdown)
		api.POST("/progress/recompute", ctl.Progress.Recompute)
		api.GET("/progress/history", ctl.Progress.History)
		api.GET("/progress/weekly", ctl.Trend.GetWeekly)

		api.POST("/recommendations/generate", ctl.Recommend.Generate)
		api.GET("/recommendations", ctl.Recommend.ListActive)
		api.PATCH("/recommendations/:id/act", ctl.Recommend.MarkActedOn)
		api.PATCH("/recommendations/:id/complete", ctl.Recommend.MarkCompleted)
		api.PATCH("/recommendations/:id/reset", ctl.Recommend.Reset)

		api.POST("/recipes", ctl.Recipe.Create)
		api.GET("/recipes", ctl.Recipe.List)
		api.GET("/recipes/:id", ctl.Recipe.Get)
		api.PUT("/recipes/:id", ctl.Recipe.Update)
		api.DELETE("/recipes/:id", ctl.Recipe.Delete)
		api.POST("/recipes/:id/log", ctl.Recipe.LogMeal)

		api.POST("/devices", ctl.Device.Register)
		api.GET("/notifications", ctl.Notifications.List)
		api.PATCH("/notifications/:id/read", ctl.Notifications.MarkRead)
		api.GET("/ws/alerts", ctl.Realtime.AlertsWS)
	}

	return r
}
