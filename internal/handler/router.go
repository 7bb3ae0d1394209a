package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swapmarket/internal/handler/api"
	"swapmarket/internal/handler/middleware"
	"swapmarket/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, negotiationHandler *api.NegotiationHandler, messageHandler *api.MessageHandler, productHandler *api.ProductHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, negotiationHandler, messageHandler, productHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, negotiationHandler *api.NegotiationHandler, messageHandler *api.MessageHandler, productHandler *api.ProductHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		products := apiGroup.Group("/products")
		{
			addRoutes(products, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: productHandler.Get},
			})
		}

		negotiations := apiGroup.Group("/negotiations")
		negotiations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(negotiations, []route{
				{Method: http.MethodPost, Path: "", Handler: negotiationHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: negotiationHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: negotiationHandler.Get},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: negotiationHandler.Confirm},
				{Method: http.MethodPut, Path: "/:id/accept", Handler: negotiationHandler.Accept},
				{Method: http.MethodPut, Path: "/:id/reject", Handler: negotiationHandler.Reject},
				{Method: http.MethodDelete, Path: "/:id", Handler: negotiationHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/messages", Handler: messageHandler.Send},
				{Method: http.MethodGet, Path: "/:id/messages", Handler: messageHandler.List},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
