package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/icco/lateshow/lib/store"
	"github.com/icco/lateshow/lib/validation"
	"github.com/icco/lateshow/models"
)

const maxBodyBytes = 1 << 20

// integrityMessage is the only detail clients get for a dangling reference.
const integrityMessage = "validation errors"

// HandleHome serves the landing page.
func HandleHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := io.WriteString(w, "<h1>Late Show API</h1>"); err != nil {
			slog.Error("Failed to write home page", slog.Any("error", err))
		}
	}
}

// HandleStats serves aggregate counts and the rating distribution.
func HandleStats(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Stats(r.Context())
		if err != nil {
			internalError(w, "Failed to get stats", err)
			return
		}
		validation.WriteJSON(w, stats, http.StatusOK)
	}
}

func HandleListEpisodes(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		episodes, err := s.ListEpisodes(r.Context())
		if err != nil {
			internalError(w, "Failed to list episodes", err)
			return
		}
		validation.WriteJSON(w, models.FlatEpisodes(episodes), http.StatusOK)
	}
}

func HandleGetEpisode(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := validation.ParseID(chi.URLParam(r, "id"))
		if !ok {
			validation.WriteError(w, "Episode not found", http.StatusNotFound)
			return
		}

		ep, err := s.GetEpisode(r.Context(), id)
		if err != nil {
			writeStoreError(w, "Episode not found", err)
			return
		}
		validation.WriteJSON(w, ep.Nested(), http.StatusOK)
	}
}

func HandleDeleteEpisode(s *store.Store) http.HandlerFunc {
	return handleDelete("Episode not found", s.DeleteEpisode)
}

func HandleListGuests(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, err := s.ListGuests(r.Context())
		if err != nil {
			internalError(w, "Failed to list guests", err)
			return
		}
		validation.WriteJSON(w, models.FlatGuests(guests), http.StatusOK)
	}
}

func HandleGetGuest(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := validation.ParseID(chi.URLParam(r, "id"))
		if !ok {
			validation.WriteError(w, "Guest not found", http.StatusNotFound)
			return
		}

		g, err := s.GetGuest(r.Context(), id)
		if err != nil {
			writeStoreError(w, "Guest not found", err)
			return
		}
		validation.WriteJSON(w, g.Nested(), http.StatusOK)
	}
}

func HandleDeleteGuest(s *store.Store) http.HandlerFunc {
	return handleDelete("Guest not found", s.DeleteGuest)
}

// HandleCreateAppearance books a guest on an episode from a JSON body of
// rating, episode_id and guest_id.
func HandleCreateAppearance(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			validation.WriteErrors(w, []string{"failed to read request body"}, http.StatusBadRequest)
			return
		}

		req, err := validation.ParseAppearanceRequest(body)
		if err != nil {
			var serr *validation.SchemaError
			if errors.As(err, &serr) {
				validation.WriteErrors(w, serr.Problems, http.StatusBadRequest)
				return
			}
			internalError(w, "Failed to parse appearance request", err)
			return
		}

		a, err := s.CreateAppearance(r.Context(), req.Rating, req.EpisodeID, req.GuestID)
		if err != nil {
			writeStoreError(w, "Appearance not found", err)
			return
		}
		validation.WriteJSON(w, a.Nested(), http.StatusCreated)
	}
}

func HandleGetAppearance(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := validation.ParseID(chi.URLParam(r, "id"))
		if !ok {
			validation.WriteError(w, "Appearance not found", http.StatusNotFound)
			return
		}

		a, err := s.GetAppearance(r.Context(), id)
		if err != nil {
			writeStoreError(w, "Appearance not found", err)
			return
		}
		validation.WriteJSON(w, a.Nested(), http.StatusOK)
	}
}

func HandleDeleteAppearance(s *store.Store) http.HandlerFunc {
	return handleDelete("Appearance not found", s.DeleteAppearance)
}

// HandleNotFound answers every route the router does not know.
func HandleNotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		validation.WriteError(w, "Not Found", http.StatusNotFound)
	}
}

// HandleMethodNotAllowed answers known paths hit with the wrong method.
func HandleMethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		validation.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func handleDelete(missing string, del func(ctx context.Context, id uint) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := validation.ParseID(chi.URLParam(r, "id"))
		if !ok {
			validation.WriteError(w, missing, http.StatusNotFound)
			return
		}

		if err := del(r.Context(), id); err != nil {
			writeStoreError(w, missing, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeStoreError maps access layer errors onto responses.
func writeStoreError(w http.ResponseWriter, missing string, err error) {
	var (
		verr *models.ValidationError
		ierr *store.IntegrityError
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		validation.WriteError(w, missing, http.StatusNotFound)
	case errors.As(err, &verr):
		validation.WriteErrors(w, []string{verr.Message}, http.StatusBadRequest)
	case errors.As(err, &ierr):
		validation.WriteErrors(w, []string{integrityMessage}, http.StatusBadRequest)
	default:
		internalError(w, "Request failed", err)
	}
}

func internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, slog.Any("error", err))
	validation.WriteError(w, "Internal server error", http.StatusInternalServerError)
}
