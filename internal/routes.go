package internal

import (
	"net/http"

	"chd/internal/controllers"
	"chd/internal/providers"
	"chd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, webhookController *controllers.WebhookController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/webhook", http.HandlerFunc(webhookController.Receive))
	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Get("/user", http.HandlerFunc(apiController.GetUser))
	routers.Get("/activities", http.HandlerFunc(apiController.GetActivities))
	routers.Get("/history", http.HandlerFunc(apiController.GetHistory))
	routers.Get("/badges", http.HandlerFunc(apiController.GetBadges))
	routers.Post("/users", http.HandlerFunc(apiController.CreateUser))
	routers.Post("/accounts", http.HandlerFunc(apiController.LinkAccount))
	return routers
}
