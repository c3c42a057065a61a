package internal

import (
	"net/http"

	"guildstore/internal/controllers"
	"guildstore/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/intel", http.HandlerFunc(apiController.ListIntel))
	routers.Post("/intel", http.HandlerFunc(apiController.ReportIntel))
	routers.Delete("/intel", http.HandlerFunc(apiController.DeleteIntel))
	routers.Post("/intel/import", http.HandlerFunc(apiController.ImportIntel))
	routers.Get("/types", http.HandlerFunc(apiController.GetTypes))
	return routers
}
