package internal

import (
	"emd/internal/controllers"
	"emd/internal/providers"
	"emd/internal/structures"
	"net/http"
)

func InitRoutes(dashboardController *controllers.DashboardController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/snapshot", http.HandlerFunc(dashboardController.GetSnapshot))
	routers.Post("/window", http.HandlerFunc(dashboardController.CommitWindow))
	routers.Post("/window/unit", http.HandlerFunc(dashboardController.ChangeWindowUnit))
	routers.Post("/refresh", http.HandlerFunc(dashboardController.RefreshNow))
	routers.Get("/search", http.HandlerFunc(dashboardController.Search))
	routers.Get("/accounts", http.HandlerFunc(dashboardController.GetAccounts))
	routers.Post("/select-account", http.HandlerFunc(dashboardController.SelectAccount))
	return routers
}
