// AngelaMos | 2026
// handler.go

package payment

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Initiate)
		r.Get("/", h.ListMine)
		r.Get("/{paymentID}", h.Get)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/payments", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Post("/{paymentID}/confirm", h.Confirm)
		r.Post("/{paymentID}/fail", h.Fail)
	})
}

func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	payment, err := h.service.Initiate(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToPaymentResponse(payment))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	params := ListPaymentsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}

	payments, total, err := h.service.ListForUser(r.Context(), userID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToPaymentResponseList(payments),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "paymentID")
	if !ok {
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	viewerIsAdmin := middleware.GetUserRole(r.Context()).IsAdmin()

	payment, err := h.service.Get(r.Context(), id, viewerID, viewerIsAdmin)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "payment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPaymentResponse(payment))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListPaymentsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
	}

	payments, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToPaymentResponseList(payments),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "paymentID")
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	payment, err := h.service.Confirm(r.Context(), id, req.TransactionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "payment")
			return
		}
		if errors.Is(err, core.ErrInvalidState) {
			core.Conflict(w, "payment has already been settled")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPaymentResponse(payment))
}

func (h *Handler) Fail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "paymentID")
	if !ok {
		return
	}

	payment, err := h.service.Fail(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "payment")
			return
		}
		if errors.Is(err, core.ErrInvalidState) {
			core.Conflict(w, "payment has already been settled")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPaymentResponse(payment))
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
