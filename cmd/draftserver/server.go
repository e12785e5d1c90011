package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/draftroomhq/draftroom/internal/apperr"
	"github.com/draftroomhq/draftroom/internal/config"
	"github.com/draftroomhq/draftroom/internal/events"
	"github.com/draftroomhq/draftroom/internal/gateway"
	"github.com/draftroomhq/draftroom/internal/models"
	"github.com/draftroomhq/draftroom/internal/repository"
	"github.com/draftroomhq/draftroom/internal/session"
	"github.com/draftroomhq/draftroom/internal/trade"
	"github.com/draftroomhq/draftroom/internal/valuechart"
)

func setupServer(cfg *config.Config, repo *repository.Repository, engine *trade.Engine, manager *gateway.ConnectionManager, hub *session.Hub) *http.Server {
	mux := http.NewServeMux()

	// WebSocket transport
	wsHandler := gateway.NewWebSocketHandler(manager, hub, gateway.DefaultConnectionConfig())
	wsHandler.RegisterRoutes(mux)

	// Thin management surface for driving session lifecycle and trade
	// responses; everything funnels into the per-session coordinator.
	mux.HandleFunc("POST /api/sessions", createSession(repo))
	mux.HandleFunc("POST /api/sessions/{id}/start", sessionOp(hub, (*session.Coordinator).Start))
	mux.HandleFunc("POST /api/sessions/{id}/pause", sessionOp(hub, (*session.Coordinator).Pause))
	mux.HandleFunc("POST /api/sessions/{id}/resume", sessionOp(hub, (*session.Coordinator).Resume))
	mux.HandleFunc("POST /api/sessions/{id}/complete", sessionOp(hub, (*session.Coordinator).Complete))
	mux.HandleFunc("POST /api/sessions/{id}/clock/add-time", addTimeOp(hub))
	mux.HandleFunc("POST /api/sessions/{id}/trades/{trade_id}/accept", tradeOp(hub, true))
	mux.HandleFunc("POST /api/sessions/{id}/trades/{trade_id}/reject", tradeOp(hub, false))

	// Read surface: session row, audit log, open trades.
	mux.HandleFunc("GET /api/sessions/{id}", getSession(repo))
	mux.HandleFunc("GET /api/sessions/{id}/events", listEvents(repo))
	mux.HandleFunc("GET /api/teams/{id}/trades", listPendingTrades(engine))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet, http.MethodPost},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(mux)

	return &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}

func createSession(repo *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DraftID            uuid.UUID        `json:"draft_id"`
			TimePerPickSeconds int              `json:"time_per_pick_seconds"`
			AutoPickEnabled    bool             `json:"auto_pick_enabled"`
			ChartType          models.ChartType `json:"chart_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.DraftID == uuid.Nil {
			writeJSONError(w, http.StatusBadRequest, "draft_id is required")
			return
		}
		if body.ChartType != "" {
			if _, err := valuechart.Resolve(body.ChartType); err != nil {
				writeAppError(w, err)
				return
			}
		}

		now := time.Now()
		sess, err := models.NewDraftSession(body.DraftID, body.TimePerPickSeconds, body.AutoPickEnabled, body.ChartType, now)
		if err != nil {
			writeAppError(w, err)
			return
		}
		event, err := events.NewSessionCreated(sess, now)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if err := repo.CreateSession(r.Context(), sess, event); err != nil {
			writeAppError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, sess)
	}
}

func sessionOp(hub *session.Hub, op func(*session.Coordinator, context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid session id")
			return
		}
		coord, err := hub.Coordinator(r.Context(), sessionID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if err := op(coord, r.Context()); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addTimeOp(hub *session.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid session id")
			return
		}
		var body struct {
			Seconds int `json:"seconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Seconds == 0 {
			writeJSONError(w, http.StatusBadRequest, "seconds must be non-zero")
			return
		}

		coord, err := hub.Coordinator(r.Context(), sessionID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if err := coord.AddTime(r.Context(), body.Seconds); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func tradeOp(hub *session.Hub, accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid session id")
			return
		}
		tradeID, err := uuid.Parse(r.PathValue("trade_id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid trade id")
			return
		}
		var body struct {
			TeamID uuid.UUID `json:"team_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		coord, err := hub.Coordinator(r.Context(), sessionID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if err := coord.RespondTrade(r.Context(), tradeID, body.TeamID, accept); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getSession(repo *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid session id")
			return
		}
		sess, err := repo.GetSession(r.Context(), sessionID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func listEvents(repo *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid session id")
			return
		}

		var eventList []models.DraftEvent
		if typ := r.URL.Query().Get("type"); typ != "" {
			eventList, err = repo.ListBySessionAndType(r.Context(), sessionID, models.EventType(typ))
		} else {
			eventList, err = repo.ListBySession(r.Context(), sessionID)
		}
		if err != nil {
			writeAppError(w, err)
			return
		}
		total, err := repo.CountBySession(r.Context(), sessionID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count":  len(eventList),
			"total":  total,
			"events": eventList,
		})
	}
}

func listPendingTrades(engine *trade.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid team id")
			return
		}
		trades, err := engine.GetPendingTrades(r.Context(), teamID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count":  len(trades),
			"trades": trades,
		})
	}
}

func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case apperr.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case apperr.IsInvalidState(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
