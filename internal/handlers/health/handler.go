package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"mesa/infras/postgres"
	"mesa/shared/failure"
	"mesa/transport/http/response"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	db *postgres.Connection
}

func New(db *postgres.Connection) Handler {
	return Handler{
		db: db,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports liveness of the service and its storage connections.
func (handler *Handler) Health(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), pingTimeout)
	defer cancel()

	if err := handler.db.Read.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("read database ping failed")

		response.WithError(writer, failure.StorageUnavailable(err))

		return
	}

	if err := handler.db.Write.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("write database ping failed")

		response.WithError(writer, failure.StorageUnavailable(err))

		return
	}

	response.WithMessage(writer, http.StatusOK, "OK")
}
