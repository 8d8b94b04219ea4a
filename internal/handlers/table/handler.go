package table

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"mesa/infras/otel"
	"mesa/internal/domains/table/model"
	"mesa/internal/domains/table/model/dto"
	"mesa/internal/domains/table/service"
	"mesa/shared"
	"mesa/shared/constant"
	gDto "mesa/shared/dto"
	"mesa/shared/validator"
	"mesa/transport/http/middleware"
	"mesa/transport/http/response"
)

// Handler exposes the table catalog to the admin dashboard. Every route is
// behind the admin token check.
type Handler struct {
	service service.Table
	admin   middleware.Admin
	otel    otel.Otel
}

func New(service service.Table, admin middleware.Admin, otel otel.Otel) Handler {
	return Handler{
		service: service,
		admin:   admin,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tables", func(routerGroup chi.Router) {
		routerGroup.Use(handler.admin.Auth)

		routerGroup.Post("/", handler.CreateTable)
		routerGroup.Get("/", handler.GetTables)
		routerGroup.Get("/{id}", handler.GetTableByID)
		routerGroup.Patch("/{id}", handler.UpdateTable)
	})
}

// CreateTable registers a new physical table in the catalog.
func (handler *Handler) CreateTable(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTable")
	defer scope.End()

	req := dto.CreateTableRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create table")

		response.WithError(writer, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyAdminSubject).(string)
	scope.AddEvent("Table created successfully by " + admin)

	response.WithMessage(writer, http.StatusCreated, "Table created successfully")
}

// GetTables lists catalog tables with optional area and active filters.
func (handler *Handler) GetTables(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTables")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	area := request.URL.Query().Get(constant.RequestParamArea)
	active := shared.ConvertStringToBool(request.URL.Query().Get(constant.RequestParamActive))

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if area != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldArea,
			Operator: gDto.FilterOperatorEq,
			Value:    area,
			Table:    model.TableName,
		})
	}

	if active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	tables, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tables")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Tables retrieved successfully")

	response.WithJSON(writer, http.StatusOK, tables)
}

// GetTableByID retrieves one table from the catalog.
func (handler *Handler) GetTableByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTableByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	table, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get table by ID")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Table retrieved successfully")

	response.WithJSON(writer, http.StatusOK, table)
}

// UpdateTable edits capacity, area or active state. Deactivating a table
// keeps its reservation history but removes it from allocation.
func (handler *Handler) UpdateTable(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTable")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateTableRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update table")

		response.WithError(writer, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyAdminSubject).(string)
	scope.AddEvent("Table updated successfully by " + admin)

	response.WithMessage(writer, http.StatusOK, "Table updated successfully")
}
