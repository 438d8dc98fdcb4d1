package main

import (
	"log"
	"os"

	"github.com/Zalotleh/wellness-hub-sub005/config"
	"github.com/Zalotleh/wellness-hub-sub005/controllers"
	"github.com/Zalotleh/wellness-hub-sub005/routes"
	"github.com/Zalotleh/wellness-hub-sub005/services"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	db, err := config.Connect()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	utils.InitMailer()
	utils.InitS3()

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(db)
	if err != nil {
		log.Printf("push notifications disabled: %v", err)
		push = nil
	}
	alerts := services.NewAlertBus(db, hub, push)

	scores := services.NewScoreService(db)
	recs := services.NewRecommendationService(db, scores, alerts)
	consumptions := services.NewConsumptionService(db, scores, recs)
	recipes := services.NewRecipeService(db, consumptions)
	trends := services.NewTrendService(db, scores)
	auth := services.NewAuthService(db)
	users := services.NewUserService(db)

	r := routes.SetupRouter(db, routes.Controllers{
		Auth:          controllers.NewAuthController(auth),
		User:          controllers.NewUserController(users),
		Consumption:   controllers.NewConsumptionController(consumptions),
		Progress:      controllers.NewProgressController(scores),
		Recommend:     controllers.NewRecommendationController(recs),
		Recipe:        controllers.NewRecipeController(recipes),
		Trend:         controllers.NewTrendController(trends),
		Device:        controllers.NewDeviceController(push),
		Notifications: controllers.NewNotificationController(alerts),
		Realtime:      controllers.NewRealtimeController(hub),
	})

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
