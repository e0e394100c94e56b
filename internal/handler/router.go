package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"marketplace-checkout/internal/handler/api"
	"marketplace-checkout/internal/handler/middleware"
	"marketplace-checkout/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups everything the router mounts.
type Handlers struct {
	fx.In

	Checkout *api.CheckoutHandler
	Payment  *api.PaymentHandler
	Order    *api.OrderHandler
	Auth     *middleware.AuthMiddleware
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		sessions := apiGroup.Group("/checkout/sessions")
		sessions.Use(h.Auth.RequireAuth())
		{
			addRoutes(sessions, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Checkout.Create},
				{Method: http.MethodGet, Path: "/active", Handler: h.Checkout.GetActive},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Checkout.Get},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Checkout.Update},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: h.Checkout.StartPayment},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Checkout.Cancel},
			})
		}

		// Authenticated by the gateway signature, not a bearer token.
		addRoutes(apiGroup.Group("/payments"), []route{
			{Method: http.MethodPost, Path: "/webhook", Handler: h.Payment.Webhook},
		})

		orders := apiGroup.Group("/orders")
		orders.Use(h.Auth.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Order.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Order.Get},
				{Method: http.MethodGet, Path: "/:id/status", Handler: h.Order.GetStatus},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Order.UpdateStatus},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "marketplace-checkout",
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
