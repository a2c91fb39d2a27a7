package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/model"
)

// EntryService is the owner-scoped CRUD surface of one log kind.
// *service.Logbook implements it.
type EntryService[E model.Entry, D model.Draft[E], P any] interface {
	Kind() string
	Create(ctx context.Context, owner model.Identity, draft D) (E, error)
	List(ctx context.Context, owner model.Identity) ([]E, error)
	Update(ctx context.Context, owner model.Identity, id string, patch P) (E, error)
	Delete(ctx context.Context, owner model.Identity, id string) error
}

// EntryHandler serves the REST routes of one log kind. Request bodies are
// decoded into DTOs and converted to the draft and patch types.
type EntryHandler[E model.Entry, D model.Draft[E], P any] struct {
	svc       EntryService[E, D, P]
	logger    *slog.Logger
	readDraft func(w http.ResponseWriter, r *http.Request) (D, bool)
	readPatch func(w http.ResponseWriter, r *http.Request) (P, bool)
}

// FoodHandler serves /food.
type FoodHandler = EntryHandler[*model.FoodLog, model.FoodLogDraft, model.FoodLogPatch]

// WorkoutHandler serves /workout.
type WorkoutHandler = EntryHandler[*model.WorkoutLog, model.WorkoutLogDraft, model.WorkoutLogPatch]

// NewFoodHandler creates the handler for /food.
func NewFoodHandler(svc EntryService[*model.FoodLog, model.FoodLogDraft, model.FoodLogPatch], logger *slog.Logger) *FoodHandler {
	return &FoodHandler{
		svc:       svc,
		logger:    logger,
		readDraft: bodyReader(dto.FoodLogRequest.ToModel),
		readPatch: bodyReader(dto.FoodLogPatchRequest.ToModel),
	}
}

// NewWorkoutHandler creates the handler for /workout.
func NewWorkoutHandler(svc EntryService[*model.WorkoutLog, model.WorkoutLogDraft, model.WorkoutLogPatch], logger *slog.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		svc:       svc,
		logger:    logger,
		readDraft: bodyReader(dto.WorkoutLogRequest.ToModel),
		readPatch: bodyReader(dto.WorkoutLogPatchRequest.ToModel),
	}
}

// bodyReader decodes a request body of type B and converts it with conv.
func bodyReader[B, T any](conv func(B) T) func(http.ResponseWriter, *http.Request) (T, bool) {
	return func(w http.ResponseWriter, r *http.Request) (T, bool) {
		var body B
		if !decodeJSON(w, r, &body) {
			var zero T
			return zero, false
		}
		return conv(body), true
	}
}

// Routes mounts the handler's endpoints on r.
func (h *EntryHandler[E, D, P]) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Create handles POST /api/{kind}.
func (h *EntryHandler[E, D, P]) Create(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.readDraft(w, r)
	if !ok {
		return
	}

	owner := auth.MustIdentityFromContext(r.Context())
	created, err := h.svc.Create(r.Context(), owner, draft)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("entry_created",
		"kind", h.svc.Kind(),
		"entry_id", created.EntryID(),
	)
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/{kind}.
func (h *EntryHandler[E, D, P]) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustIdentityFromContext(r.Context())

	entries, err := h.svc.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if entries == nil {
		entries = []E{}
	}

	writeJSON(w, http.StatusOK, entries)
}

// Update handles PUT /api/{kind}/{id}.
func (h *EntryHandler[E, D, P]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patch, ok := h.readPatch(w, r)
	if !ok {
		return
	}

	owner := auth.MustIdentityFromContext(r.Context())
	updated, err := h.svc.Update(r.Context(), owner, id, patch)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("entry_updated",
		"kind", h.svc.Kind(),
		"entry_id", id,
	)
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/{kind}/{id}.
func (h *EntryHandler[E, D, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	owner := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("entry_deleted",
		"kind", h.svc.Kind(),
		"entry_id", id,
	)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Entry deleted."})
}
