package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/furniq/furniq-admin/internal/platform/httpx"
	"github.com/furniq/furniq-admin/internal/shared"
)

// Handler exposes the products REST surface.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.archive)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))

	items, total, err := h.service.List(r.Context(), ListFilters{
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("list products failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	// Clients consume the bare array; paging metadata rides in headers so
	// unpaged callers can ignore it.
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	if perPage > 0 {
		meta := shared.NewPagination(page, perPage, total)
		w.Header().Set("X-Page", strconv.Itoa(meta.Page))
		w.Header().Set("X-Per-Page", strconv.Itoa(meta.PerPage))
		w.Header().Set("X-Total-Pages", strconv.Itoa(meta.TotalPages))
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), input, shared.ActorFromContext(r.Context()))
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicate) {
			h.logger.Error("create product failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var patch Patch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch, shared.ActorFromContext(r.Context()))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("update product failed", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}

	archived, err := h.service.Archive(r.Context(), id, shared.ActorFromContext(r.Context()))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("archive product failed", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Product archived", "product": archived})
}
