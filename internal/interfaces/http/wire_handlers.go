package http

import (
	lifecycleHandlers "github.com/leadhub/leadhub/internal/interfaces/http/handlers/lifecycle"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	// Subscription lifecycle
	lifecycleHandler *lifecycleHandlers.Handler
}

// ============================================================
// Section 4: Handlers
// ============================================================

func (c *Container) initHandlers() {
	c.hdlrs = &allHandlers{
		lifecycleHandler: lifecycleHandlers.NewHandler(c.lifecycleService, c.log),
	}
}
