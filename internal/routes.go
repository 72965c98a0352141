package internal

import (
	"net/http"

	"brs/internal/controllers"
	"brs/internal/providers"
)

func InitRoutes(billingController *controllers.BillingController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/billing/records", http.HandlerFunc(billingController.CreateRecord))
	routers.Get("/billing/records", http.HandlerFunc(billingController.ListRecords))
	routers.Post("/billing/records/batch", http.HandlerFunc(billingController.BatchGetRecords))
	routers.Get("/billing/records/{id}", http.HandlerFunc(billingController.GetRecord))
	routers.Put("/billing/records/{id}", http.HandlerFunc(billingController.UpdateRecord))
	routers.Delete("/billing/records/{id}", http.HandlerFunc(billingController.DeleteRecord))
	routers.Get("/billing/archive/stats", http.HandlerFunc(billingController.ArchiveStats))
	return routers
}
