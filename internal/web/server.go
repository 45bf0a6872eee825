package web

import (
	"context"
	"embed"
	"encoding/gob"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"cueplay/internal/media"
	"cueplay/internal/schedule"
)

//go:embed templates/index.html
var templateFS embed.FS

const sessionName = "cueplay"

// flashMessage is one user-visible notice carried across the
// post/redirect/get cycle.
type flashMessage struct {
	Category string
	Text     string
}

func init() {
	gob.Register(flashMessage{})
}

// JobStore lists and cancels pending jobs. *schedule.Registry satisfies
// it; tests inject fakes.
type JobStore interface {
	List(ctx context.Context) ([]schedule.JobRecord, string)
	Remove(ctx context.Context, id string) (bool, string)
}

// Deps are the server's collaborators. Service may be nil; the form then
// renders without a device list and with a warning banner.
type Deps struct {
	Service   media.Service
	Jobs      JobStore
	Scheduler schedule.Scheduler
	Log       zerolog.Logger
}

// Server serves the scheduling form and the job management actions.
type Server struct {
	cfg      *Config
	svc      media.Service
	jobs     JobStore
	sched    schedule.Scheduler
	log      zerolog.Logger
	store    *sessions.CookieStore
	tmpl     *template.Template
	router   *mux.Router
	now      func() time.Time
}

// NewServer wires the router, session store, and templates.
func NewServer(cfg *Config, deps Deps) *Server {
	s := &Server{
		cfg:   cfg,
		svc:   deps.Service,
		jobs:  deps.Jobs,
		sched: deps.Scheduler,
		log:   deps.Log,
		store: sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		tmpl:  template.Must(template.ParseFS(templateFS, "templates/index.html")),
		now:   time.Now,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/schedule", s.handleSchedule).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/remove", s.handleRemove).Methods(http.MethodPost)
	s.router = r

	return s
}

// Handler returns the HTTP handler, with request logging when enabled.
func (s *Server) Handler() http.Handler {
	if !s.cfg.LogRequests {
		return s.router
	}
	return s.logRequests(s.router)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("web server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) flash(w http.ResponseWriter, r *http.Request, category, text string) {
	session, _ := s.store.Get(r, sessionName)
	session.AddFlash(flashMessage{Category: category, Text: text})
	_ = session.Save(r, w)
}

func (s *Server) takeFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	session, _ := s.store.Get(r, sessionName)
	raw := session.Flashes()
	_ = session.Save(r, w)

	messages := make([]flashMessage, 0, len(raw))
	for _, v := range raw {
		if msg, ok := v.(flashMessage); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
