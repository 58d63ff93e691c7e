// AngelaMos | 2026
// handler.go

package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/middleware"
	"github.com/proofofhustle/api/internal/role"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/projects", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{projectID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(role.Premium))
			r.Post("/", h.Submit)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/projects", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/{projectID}/review", h.Review)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	submitterID := middleware.GetUserID(r.Context())

	project, err := h.service.Submit(r.Context(), req, submitterID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	view := ToProjectView(project, role.Inner)
	view.Access = AccessFull

	core.Created(w, view)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserRole(r.Context())

	params := ListProjectsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}

	views, total, err := h.service.List(r.Context(), viewer, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, views, params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	viewer := middleware.GetUserRole(r.Context())
	viewerID := middleware.GetUserID(r.Context())

	view, err := h.service.Get(r.Context(), id, viewer, viewerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "project")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, view)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	var req ReviewProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	actorID := middleware.GetUserID(r.Context())

	project, err := h.service.Review(
		r.Context(),
		id,
		req.Decision,
		req.Category,
		actorID,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "project")
			return
		}
		if errors.Is(err, core.ErrInvalidState) {
			core.Conflict(w, "project has already been reviewed")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid review payload")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProjectView(project, role.Admin))
}

func parseIDParam(
	w http.ResponseWriter,
	r *http.Request,
	name string,
) (int64, bool) {
	raw := chi.URLParam(r, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid id")
		return 0, false
	}

	return id, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
