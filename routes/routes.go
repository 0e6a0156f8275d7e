package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-relieflink/handlers"
	"go-relieflink/types"
)

// SetupRouter wires every endpoint. authenticate must verify the caller and
// store their identity for auth.RequireRole.
func SetupRouter(h *handlers.Handlers, authenticate gin.HandlerFunc, requireRole func(...types.Role) gin.HandlerFunc, clientURL string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery(), cors(clientURL))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// public api routes
	api := r.Group("/api")
	{
		api.GET("/alerts", h.ListAlerts)
		api.GET("/alerts/latest", h.LatestAlert)
		api.GET("/settings/disaster", h.GetDisaster)
		api.GET("/items", h.ListItems)
	}

	signedIn := api.Group("", authenticate)
	{
		signedIn.GET("/me", h.Me)
		signedIn.POST("/profile", h.RegisterProfile)
		signedIn.GET("/requests/:id/qr", h.RequestQR)
		signedIn.GET("/shelters", h.ListShelters)
		signedIn.GET("/shelters/nearby", h.NearbyShelters)
		signedIn.GET("/shelters/:id", h.GetShelter)
		signedIn.POST("/chat", h.Chat)

		signedIn.POST("/requests", requireRole(types.RoleVictim, types.RoleAdmin), h.CreateRequest)
		signedIn.GET("/requests/mine", requireRole(types.RoleVictim), h.MyRequests)
		signedIn.GET("/tasks", requireRole(types.RoleVolunteer), h.MyTasks)
		signedIn.POST("/requests/:id/deliver", requireRole(types.RoleVolunteer, types.RoleAdmin), h.ConfirmDelivery)
	}

	admin := signedIn.Group("", requireRole(types.RoleAdmin))
	{
		admin.GET("/requests", h.ListRequests)
		admin.POST("/requests/:id/assign", h.AssignVolunteer)
		admin.GET("/volunteers", h.ListVolunteers)
		admin.POST("/alerts", h.BroadcastAlert)
		admin.PUT("/settings/disaster", h.SetDisaster)
		admin.POST("/shelters", h.CreateShelter)
		admin.PUT("/shelters/:id/occupancy", h.UpdateOccupancy)
		admin.GET("/inventory", h.ListInventory)
		admin.GET("/inventory/estimate", h.EstimateInventory)
		admin.GET("/inventory/distribution", h.DemandDistribution)
		admin.PUT("/inventory/:kind", h.SetStock)
		admin.POST("/inventory/:kind/adjust", h.AdjustStock)
	}

	return r
}
