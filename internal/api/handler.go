package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/yakoovad/football-roster/internal/model"
	"github.com/yakoovad/football-roster/internal/service"
	"github.com/yakoovad/football-roster/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	roster *service.RosterService

	healthChecker HealthChecker

	logger *zap.Logger
}

// rosterPage is the data of the "teams" template.
type rosterPage struct {
	service.RosterState
	Invalid map[string]string
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithRosterService(roster *service.RosterService) *Handler {
	h.roster = roster
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Renderer = MustNewTemplateRenderer()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	e.GET("/", h.Landing)
	e.GET("/teams", h.MountRoster)

	e.POST("/teams/form", h.OpenForm)
	e.POST("/teams/form/cancel", h.CancelForm)
	e.POST("/teams/form/field", h.ChangeField)
	e.POST("/teams/submit", h.SubmitForm)
	e.POST("/teams/:id/edit", h.StartEdit)
	e.POST("/teams/:id/delete", h.RequestDelete)
	e.POST("/teams/delete/confirm", h.ConfirmDelete)
	e.POST("/teams/delete/decline", h.DeclineDelete)

	e.GET("/api/roster", h.GetRoster)
}

func (h *Handler) Landing(e echo.Context) error {
	return e.Render(http.StatusOK, "landing", nil)
}

// MountRoster initializes the store client on first use and reloads every team.
func (h *Handler) MountRoster(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	if err := h.roster.Mount(e.Request().Context()); err != nil {
		l.Warn("roster mounted with error", zap.String("code", string(err.Code)))
	}

	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) OpenForm(e echo.Context) error {
	h.roster.OpenForm()
	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) CancelForm(e echo.Context) error {
	h.roster.Cancel()
	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) ChangeField(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Name  string `form:"name" json:"name" validate:"required"`
		Value string `form:"value" json:"value"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.roster.ChangeField(req.Name, req.Value); err != nil {
		l.Warn("failed to change form field", zap.String("field", req.Name), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, h.roster.Snapshot().Form)
}

// SubmitForm copies the posted fields into the form and saves it. Missing
// required fields stop it before the store is called.
func (h *Handler) SubmitForm(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	form := model.TeamForm{}

	err := ProcessRequest(e, &form, bindForm, h.applyForm, validateForm)

	var invalid validator.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		l.Info("team form rejected", zap.Error(err))
		return h.renderRoster(e, http.StatusUnprocessableEntity, invalidFields(invalid))
	case err != nil:
		l.Error("invalid request", zap.Error(err))
		return h.renderRoster(e, http.StatusBadRequest, nil)
	}

	if serr := h.roster.Submit(e.Request().Context()); serr != nil {
		l.Warn("team form not saved", zap.String("code", string(serr.Code)))
	}

	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) StartEdit(e echo.Context) error {
	id := e.Param("id")

	if !h.roster.StartEdit(id) {
		logger.FromContext(e.Request().Context()).Warn("team not in roster", zap.String("team_id", id))
		return h.renderRoster(e, http.StatusNotFound, nil)
	}

	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) RequestDelete(e echo.Context) error {
	h.roster.RequestDelete(e.Param("id"))
	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) ConfirmDelete(e echo.Context) error {
	if err := h.roster.ConfirmDelete(e.Request().Context()); err != nil {
		logger.FromContext(e.Request().Context()).Warn("team not deleted", zap.String("code", string(err.Code)))
	}
	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) DeclineDelete(e echo.Context) error {
	h.roster.DeclineDelete()
	return h.renderRoster(e, http.StatusOK, nil)
}

func (h *Handler) GetRoster(e echo.Context) error {
	return e.JSON(http.StatusOK, h.roster.Snapshot())
}

func (h *Handler) renderRoster(e echo.Context, status int, invalid map[string]string) error {
	return e.Render(status, "teams", rosterPage{
		RosterState: h.roster.Snapshot(),
		Invalid:     invalid,
	})
}

func bindForm(e echo.Context, form *model.TeamForm) error {
	if err := e.Bind(form); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}
	return nil
}

func (h *Handler) applyForm(_ echo.Context, form *model.TeamForm) error {
	for _, f := range form.Fields() {
		if err := h.roster.ChangeField(f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

func validateForm(e echo.Context, form *model.TeamForm) error {
	return e.Validate(form)
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeInvalidBody, service.ErrorCodeUnknownField:
		return e.JSON(http.StatusBadRequest, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
