package router

import (
	"github.com/go-chi/chi/v5"

	"mesa/internal/handlers/health"
	"mesa/internal/handlers/reservation"
	"mesa/internal/handlers/table"
)

type DomainHandlers struct {
	Health      health.Handler
	Reservation reservation.Handler
	Table       table.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Table.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
