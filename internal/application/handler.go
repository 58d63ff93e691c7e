// AngelaMos | 2026
// handler.go

package application

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/middleware"
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

// RegisterRoutes mounts the public submission endpoint. Review and
// listing live under the admin routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/applications", h.Submit)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/applications", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Get("/{applicationID}", h.Get)
		r.Post("/{applicationID}/review", h.Review)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	app, err := h.service.Submit(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToApplicationResponse(app))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListApplicationsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
	}

	apps, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToApplicationResponseList(apps),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "applicationID")
	if !ok {
		return
	}

	app, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToApplicationResponse(app))
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "applicationID")
	if !ok {
		return
	}

	var req ReviewApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	actorID := middleware.GetUserID(r.Context())

	app, err := h.service.Review(r.Context(), id, req.Decision, actorID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "application")
			return
		}
		if errors.Is(err, core.ErrInvalidState) {
			core.Conflict(w, "application has already been reviewed")
			return
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "a member with this email already exists")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid review decision")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToApplicationResponse(app))
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
