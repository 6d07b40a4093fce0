package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/Ex1s9/game-catalog/api/handler"
)

type Handlers struct {
	Game   *apiHandler.GameHandler
	Admin  *apiHandler.AdminHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public catalog reads and the anonymous aggregate writes.
	r.GET("/api/v1/games", handlers.Game.ListGames)
	r.GET("/api/v1/games/{id}", handlers.Game.GetGame)
	r.POST("/api/v1/games/{id}/rating", handlers.Game.RateGame)
	r.POST("/api/v1/games/{id}/purchase", handlers.Game.PurchaseGame)

	// Developer-scoped mutations.
	r.POST("/api/v1/games", authMiddleware(handlers.Game.CreateGame))
	r.PATCH("/api/v1/games/{id}", authMiddleware(handlers.Game.UpdateGame))
	r.DELETE("/api/v1/games/{id}", authMiddleware(handlers.Game.DeleteGame))
	r.POST("/api/v1/games/{id}/screenshots", authMiddleware(handlers.Game.AddScreenshot))
	r.DELETE("/api/v1/games/{id}/screenshots", authMiddleware(handlers.Game.RemoveScreenshot))

	r.GET("/api/v1/admin/changes", authMiddleware(handlers.Admin.RecentChanges))

	return r
}
