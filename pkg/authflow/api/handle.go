package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/authflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

// Controller is the part of authflow.Controller the handlers drive
type Controller interface {
	State() authflow.State
	SetField(f authflow.Field, value string) authflow.State
	SwitchMode() authflow.State
	Submit(ctx context.Context) authflow.State
	SignOut(ctx context.Context) authflow.State
	DeleteAccount(ctx context.Context) authflow.State
	Subscribe(buffer int) (<-chan authflow.State, func())
}

// Handle serves the session over HTTP
type Handle struct {
	ctrl         Controller
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	writeTimeout time.Duration
}

// Option configures a Handle
type Option func(*Handle)

// WithCheckOrigin sets the origin check for stream connections
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(h *Handle) {
		h.upgrader.CheckOrigin = check
	}
}

// WithPingInterval sets how often idle stream connections are pinged
func WithPingInterval(d time.Duration) Option {
	return func(h *Handle) {
		h.pingInterval = d
	}
}

// NewHandle creates the session handlers
func NewHandle(ctrl Controller, opts ...Option) *Handle {
	h := &Handle{
		ctrl: ctrl,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingInterval: 30 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers the session routes
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Put("/fields", h.UpdateFields)
		r.Post("/mode", h.SwitchMode)
		r.Post("/submit", h.Submit)
		r.Post("/signout", h.SignOut)
		r.Delete("/account", h.DeleteAccount)
		r.Get("/stream", h.Stream)
	})
}

// GetSession handles GET /session
func (h *Handle) GetSession(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, NewSessionResponse(h.ctrl.State()))
}

// UpdateFields handles PUT /session/fields
func (h *Handle) UpdateFields(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	for name := range req {
		if !authflow.Field(name).Valid() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: fmt.Sprintf("Unknown field: %s", name)})
			return
		}
	}

	state := h.ctrl.State()
	for name, value := range req {
		state = h.ctrl.SetField(authflow.Field(name), value)
	}
	render.JSON(w, r, NewSessionResponse(state))
}

// SwitchMode handles POST /session/mode
func (h *Handle) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	state := h.ctrl.State()
	if req.Mode == "" {
		state = h.ctrl.SwitchMode()
	} else {
		mode, err := authflow.ParseMode(req.Mode)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Mode must be login or register"})
			return
		}
		if state.Mode != mode {
			state = h.ctrl.SwitchMode()
		}
	}
	render.JSON(w, r, NewSessionResponse(state))
}

// Submit handles POST /session/submit
func (h *Handle) Submit(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.ctrl.Submit(r.Context()))
}

// SignOut handles POST /session/signout
func (h *Handle) SignOut(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.ctrl.SignOut(r.Context()))
}

// DeleteAccount handles DELETE /session/account
func (h *Handle) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.ctrl.DeleteAccount(r.Context()))
}

func (h *Handle) respond(w http.ResponseWriter, r *http.Request, state authflow.State) {
	render.Status(r, statusFor(state))
	render.JSON(w, r, NewSessionResponse(state))
}

// Stream handles GET /session/stream. Every snapshot is pushed as a JSON
// text message, starting with the current one.
func (h *Handle) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.ctrl.Subscribe(16)
	defer cancel()

	// Incoming messages are ignored; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteJSON(NewSessionResponse(state)); err != nil {
				slog.Warn("Stream write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
				return
			}
		}
	}
}
