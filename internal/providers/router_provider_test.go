package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubHandler(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(name))
	})
}

func TestRouterProvider_SharedPatternDispatchesByMethod(t *testing.T) {
	router := NewRouterProvider()
	router.Get("/billing/records/{id}", stubHandler("get"))
	router.Put("/billing/records/{id}", stubHandler("put"))
	router.Delete("/billing/records/{id}", stubHandler("delete"))

	routes := router.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/billing/records/{id}", routes[0].Url)

	for method, want := range map[string]string{
		http.MethodGet:    "get",
		http.MethodPut:    "put",
		http.MethodDelete: "delete",
	} {
		req := httptest.NewRequest(method, "/billing/records/r1", nil)
		rec := httptest.NewRecorder()
		routes[0].Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Body.String())
	}
}

func TestRouterProvider_UnregisteredMethodIs405(t *testing.T) {
	router := NewRouterProvider()
	router.Get("/billing/records", stubHandler("get"))

	routes := router.GetRoutes()
	require.Len(t, routes, 1)

	req := httptest.NewRequest(http.MethodDelete, "/billing/records", nil)
	rec := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterProvider_PreservesRegistrationOrder(t *testing.T) {
	router := NewRouterProvider()
	router.Post("/billing/records", stubHandler("create"))
	router.Get("/billing/records", stubHandler("list"))
	router.Post("/billing/records/batch", stubHandler("batch"))
	router.Get("/billing/archive/stats", stubHandler("stats"))

	routes := router.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/billing/records", routes[0].Url)
	assert.Equal(t, "/billing/records/batch", routes[1].Url)
	assert.Equal(t, "/billing/archive/stats", routes[2].Url)
}
