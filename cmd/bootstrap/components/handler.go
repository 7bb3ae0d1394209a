package components

import (
	"swapmarket/internal/handler"
	"swapmarket/internal/handler/api"
	"swapmarket/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewNegotiationHandler,
		api.NewMessageHandler,
		api.NewProductHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
