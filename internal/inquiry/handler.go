// AngelaMos | 2026
// handler.go

package inquiry

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/alwaysdemon/storefront/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/inquiries", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Get("/", h.List)
			r.Delete("/", h.Clear)
			r.Delete("/{inquiryID}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	inq, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	core.Created(w, inq)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, inquiries)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "inquiryID")); err != nil {
		handleError(w, err)
		return
	}

	core.OK(w, MessageResponse{Message: "Inquiry deleted successfully!"})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.Clear(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, MessageResponse{
		Message: "All inquiries cleared!",
		Removed: removed,
	})
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "inquiry")
	case errors.Is(err, ErrInvalidPlatform):
		core.BadRequest(w, "Invalid platform. Must be whatsapp, instagram, or telegram.")
	case errors.Is(err, ErrProductRequired):
		core.BadRequest(w, "Product and platform are required.")
	case errors.Is(err, ErrUnknownProduct):
		core.BadRequest(w, "Unknown product.")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid inquiry")
	default:
		core.InternalServerError(w, err)
	}
}
