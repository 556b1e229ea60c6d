package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/furniq/furniq-admin/internal/platform/httpx"
	"github.com/furniq/furniq-admin/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *shared.TokenManager
	mw        Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *shared.TokenManager, mw Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		mw:        mw,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require)
		r.Get("/me", h.handleMe)
		r.Post("/logout", h.handleLogout)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(r.Context(), account.ID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, User: ProfileOf(account)})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	account, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicate) {
			h.logger.Error("register account", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, registerResponse{Message: "registered", User: ProfileOf(account)})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actorID := shared.ActorFromContext(r.Context())
	account, err := h.service.AccountByID(r.Context(), actorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Token outlived the account; treat as a dead session.
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized", "account no longer exists")
			return
		}
		h.logger.Error("load account", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ProfileOf(account))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Revoke(r.Context(), BearerToken(r)); err != nil {
		h.logger.Warn("revoke token", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Error()
	}
	return err.Error()
}
