package book

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mehmetcc/shelfguard/internal/exec"
	"github.com/mehmetcc/shelfguard/internal/gateway"
	"github.com/mehmetcc/shelfguard/internal/httpx"
	"github.com/mehmetcc/shelfguard/internal/policy"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type BookHandler interface {
	Routes() chi.Router
}

type bookHandler struct {
	logger    *zap.Logger
	repo      BookRepo
	gate      *gateway.Gateway
	validator *validator.Validate
	budget    time.Duration
}

func NewBookHandler(repo BookRepo, gate *gateway.Gateway, budget time.Duration, l *zap.Logger) BookHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &bookHandler{
		logger:    l,
		repo:      repo,
		gate:      gate,
		validator: v,
		budget:    budget,
	}
}

func (h *bookHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(h.gate.Require(policy.OpReadList)).Get("/", h.List)
	r.With(h.gate.Require(policy.OpReadOne)).Get("/{id}", h.Get)
	r.With(h.gate.Require(policy.OpCreate)).Post("/", h.Create)
	r.With(h.gate.Require(policy.OpUpdate)).Put("/{id}", h.Update)
	r.With(h.gate.Require(policy.OpDelete)).Delete("/{id}", h.Delete)
	return r
}

func (h *bookHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxListLimit {
			httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
				Code:    httpx.ErrValidationFailed,
				Message: "limit must be an integer between 1 and 200",
			})
			return
		}
		limit = parsed
	}

	out := exec.Run(r.Context(), h.budget, func(ctx context.Context) ([]Book, error) {
		return h.repo.List(ctx, limit)
	})
	if !h.checkOutcome(w, out.TimedOut, out.Err) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out.Value)
}

func (h *bookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	out := exec.Run(r.Context(), h.budget, func(ctx context.Context) (*Book, error) {
		return h.repo.GetByID(ctx, id)
	})
	if !h.checkOutcome(w, out.TimedOut, out.Err) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out.Value)
}

func (h *bookHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	claims := gateway.ClaimsFrom(r.Context())
	h.logger.Info("create book requested",
		zap.String("subject", claims.Sub),
		zap.String("title", req.Title),
	)

	out := exec.Run(r.Context(), h.budget, func(ctx context.Context) (*Book, error) {
		return h.repo.Create(ctx, &BookDTO{Title: req.Title, Author: req.Author, Year: req.Year})
	})
	if !h.checkOutcome(w, out.TimedOut, out.Err) {
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, out.Value)
}

func (h *bookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	out := exec.Run(r.Context(), h.budget, func(ctx context.Context) (*Book, error) {
		return h.repo.Update(ctx, id, &BookDTO{Title: req.Title, Author: req.Author, Year: req.Year})
	})
	if !h.checkOutcome(w, out.TimedOut, out.Err) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out.Value)
}

func (h *bookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	out := exec.Run(r.Context(), h.budget, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.repo.Delete(ctx, id)
	})
	if !h.checkOutcome(w, out.TimedOut, out.Err) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *bookHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
			Code:    httpx.ErrNotFound,
			Message: "book not found",
		})
		return uuid.Nil, false
	}
	return id, true
}

// checkOutcome maps a bounded-call outcome to a response. A timed-out call
// answers promptly with 503 instead of hanging until the server timeout.
func (h *bookHandler) checkOutcome(w http.ResponseWriter, timedOut bool, err error) bool {
	if timedOut {
		h.logger.Warn("downstream call exceeded budget", zap.Duration("budget", h.budget))
		httpx.WriteError(w, http.StatusServiceUnavailable, httpx.ErrorResponse[any]{
			Code:    httpx.ErrUnavailable,
			Message: "service temporarily unavailable",
		})
		return false
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
				Code:    httpx.ErrNotFound,
				Message: "book not found",
			})
		case errors.Is(err, ErrDuplicateTitle):
			httpx.WriteError(w, http.StatusConflict, httpx.ErrorResponse[any]{
				Code:    httpx.ErrConflict,
				Message: "title already exists",
			})
		default:
			h.logger.Error("internal server error", zap.Error(err))
			httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
				Code:    httpx.ErrInternal,
				Message: "internal server error",
			})
		}
		return false
	}
	return true
}

func (h *bookHandler) decodeBody(w http.ResponseWriter, r *http.Request) (*bookRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		httpx.WriteError(w, http.StatusUnsupportedMediaType, httpx.ErrorResponse[any]{
			Code:    httpx.ErrUnsupportedMedia,
			Message: "Content-Type must be application/json",
		})
		return nil, false
	}

	var req bookRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Warn("failed to decode book request body", zap.Error(err))
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInvalidJSON,
			Message: "invalid request body",
		})
		return nil, false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF { // check if there's any trailing data
		h.logger.Warn("trailing data after JSON body", zap.Error(err))
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInvalidJSON,
			Message: "request body must contain a single JSON object",
		})
		return nil, false
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("book validation failed", zap.Error(err))
		fields := httpx.ValidationDetails(err)
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: fields,
		})
		return nil, false
	}

	return &req, true
}

type bookRequest struct {
	Title  string `json:"title"  validate:"required,min=1,max=256"`
	Author string `json:"author" validate:"required,min=1,max=128"`
	Year   int    `json:"year"   validate:"omitempty,gte=0,lte=2100"`
}
