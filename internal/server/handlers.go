package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"jyokai/internal/scenes"
	"jyokai/internal/session"
	"jyokai/internal/wshub"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sessionCookie = "session_id"

type Server struct {
	Sessions  *session.Store
	Log       zerolog.Logger
	StaticDir string
}

// getSession resolves the current session from the session_id cookie.
func (s *Server) getSession(r *http.Request) *session.Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	return s.Sessions.Get(cookie.Value)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeResult reports the outcome of a session call.
func (s *Server) writeResult(w http.ResponseWriter, st session.State, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, st)
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusGone, "session closed")
	default:
		s.Log.Error().Err(err).Msg("session call")
		writeError(w, http.StatusServiceUnavailable, "session busy")
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Create()
	if err != nil {
		s.Log.Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	st, err := sess.Snapshot(r.Context())
	if err != nil {
		s.writeResult(w, st, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// withSession rejects requests that carry no live session.
func (s *Server) withSession(fn func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.getSession(r)
		if sess == nil {
			writeError(w, http.StatusNotFound, session.ErrNotFound.Error())
			return
		}
		fn(w, r, sess)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	st, err := sess.Snapshot(r.Context())
	s.writeResult(w, st, err)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	st, err := sess.Input(r.Context(), scenes.Input{Kind: scenes.InputStart})
	s.writeResult(w, st, err)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	st, err := sess.Restart(r.Context())
	s.writeResult(w, st, err)
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}
	st, err := sess.Input(r.Context(), scenes.Input{Kind: scenes.InputCard, Index: id})
	s.writeResult(w, st, err)
}

func (s *Server) handleBubble(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bubble index")
		return
	}
	st, err := sess.Input(r.Context(), scenes.Input{Kind: scenes.InputBubble, Index: index})
	s.writeResult(w, st, err)
}

type guessReq struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// parseGuess accepts either a JSON body or form values x and y.
func parseGuess(r *http.Request) (guessReq, error) {
	var req guessReq
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("decode guess: %w", err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("parse form: %w", err)
	}
	x, err := strconv.ParseFloat(r.FormValue("x"), 64)
	if err != nil {
		return req, fmt.Errorf("parse x: %w", err)
	}
	y, err := strconv.ParseFloat(r.FormValue("y"), 64)
	if err != nil {
		return req, fmt.Errorf("parse y: %w", err)
	}
	req.X, req.Y = x, y
	return req, nil
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	req, err := parseGuess(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := sess.Input(r.Context(), scenes.Input{Kind: scenes.InputPointer, X: req.X, Y: req.Y})
	s.writeResult(w, st, err)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(msg.Msg, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

// handleWS carries inputs in and bus events out over one websocket.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.Log.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	client := &wshub.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)
	go client.WritePump(ctx)

	log := s.Log.With().Str("session", sess.ID).Str("client", client.ID).Logger()
	log.Debug().Msg("websocket connected")

	for {
		var msg wshub.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				log.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		if msg.Type == wshub.TypeRestart {
			_, err = sess.Restart(ctx)
		} else if in, ok := msg.Input(); ok {
			_, err = sess.Input(ctx, in)
		} else {
			log.Debug().Str("type", msg.Type).Msg("unknown message type")
			continue
		}
		if errors.Is(err, session.ErrClosed) {
			conn.Close(websocket.StatusGoingAway, "session closed")
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": len(s.Sessions.List()),
	})
}
