package server

import (
	"net/http"
	"time"

	"jyokai/internal/config"
	"jyokai/internal/levels"
	"jyokai/internal/metrics"
	"jyokai/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Routes builds the HTTP handler. Streaming endpoints sit outside the
// request timeout.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/session", s.withSession(s.handleSnapshot))
		r.Post("/session/start", s.withSession(s.handleStart))
		r.Post("/session/restart", s.withSession(s.handleRestart))
		r.Post("/session/cards/{id}", s.withSession(s.handleCard))
		r.Post("/session/bubbles/{index}", s.withSession(s.handleBubble))
		r.Post("/session/guess", s.withSession(s.handleGuess))
	})

	r.Get("/session/events", s.withSession(s.handleEvents))
	r.Get("/session/ws", s.withSession(s.handleWS))

	if s.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	}
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

func Run() error {
	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(appCfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", appCfg.LogLevel).Msg("unknown log level, keeping default")
	}

	store := session.NewStore(levels.DefaultConfig(), appCfg.SessionTTL, appCfg.SweepInterval,
		log.With().Str("component", "session").Logger())
	defer store.Close()

	srv := &Server{
		Sessions:  store,
		Log:       log.With().Str("component", "http").Logger(),
		StaticDir: appCfg.StaticDir,
	}

	addr := "0.0.0.0:" + appCfg.Port
	log.Info().Str("port", appCfg.Port).Msg("server listening")
	return http.ListenAndServe(addr, srv.Routes())
}
