package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gate"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/recipe"
)

// RecipesHandler serves the gated recipe-generation endpoint. A request
// blocks until the caller clears the gesture challenge (or fails it), then
// forwards to the recipe backend.
type RecipesHandler struct {
	coordinator *gate.Coordinator
	recipes     *recipe.Client
}

// NewRecipesHandler creates a new RecipesHandler.
func NewRecipesHandler(c *gate.Coordinator, r *recipe.Client) *RecipesHandler {
	return &RecipesHandler{coordinator: c, recipes: r}
}

// ServeHTTP handles POST requests to /api/recipes.
func (h *RecipesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req recipe.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Ingredients) == 0 {
		http.Error(w, "At least one ingredient is required", http.StatusBadRequest)
		return
	}

	result, err := h.coordinator.Protect(r.Context(), func(ctx context.Context) (any, error) {
		return h.recipes.Generate(ctx, req)
	})
	if err != nil {
		switch {
		case errors.Is(err, gate.ErrBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, gate.ErrCancelled):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, gate.ErrFailed):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
