package server

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"cyberforum/internal/forum"
	"cyberforum/internal/logger"
	"cyberforum/internal/models"
	"cyberforum/internal/session"
)

type Server struct {
	Forum    *forum.Service
	Sessions *session.Manager

	tmpl   map[string]*template.Template
	router http.Handler
}

// New parses every page in templateDir against layout.html and builds the
// router. Files under staticDir are served at /static/.
func New(svc *forum.Service, sessions *session.Manager, templateDir, staticDir string) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		t, err := template.New(name).Funcs(templateFuncs).ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		templates[name] = t
	}
	s := &Server{Forum: svc, Sessions: sessions, tmpl: templates}
	s.router = s.routes(staticDir)
	return s, nil
}

func (s *Server) routes(staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	r.Group(func(r chi.Router) {
		r.Use(s.Sessions.Middleware)
		r.NotFound(s.notFound)

		r.Get("/", s.handleIndex)
		r.Get("/{id:[0-9]+}", s.handlePost)
		r.Get("/search", s.handleSearch)

		r.Get("/create", s.requireAuth(s.handleCreateForm))
		r.Post("/create", s.requireAuth(s.handleCreate))
		r.Get("/edit/{id:[0-9]+}", s.requireAuth(s.handleEditForm))
		r.Post("/edit/{id:[0-9]+}", s.requireAuth(s.handleEdit))
		r.Post("/{id:[0-9]+}/delete", s.requireAuth(s.handleDelete))
		r.Post("/add_comment/{id:[0-9]+}", s.requireAuth(s.handleAddComment))
		r.Get("/profile", s.requireAuth(s.handleProfile))

		r.Get("/login", s.handleLoginForm)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Get("/register", s.handleRegisterForm)
		r.Post("/register", s.handleRegister)

		r.Get("/contactus", s.handleContactForm)
		r.Post("/contactus", s.handleContact)
		r.Post("/subscribe", s.handleSubscribe)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// render executes page into a buffer so template errors never leave a half
// written response. messages are shown after any queued flashes.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any, messages ...string) {
	t, ok := s.tmpl[name]
	if !ok {
		logger.Errorf("template %s not found", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	who := session.FromContext(r.Context())
	data["User"] = who
	data["LoggedIn"] = !who.IsZero()
	data["IsAdmin"] = forum.IsAdmin(who)
	data["Flashes"] = append(s.Sessions.Flashes(w, r), messages...)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Errorf("render %s: %v", name, err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, url string, flash string) {
	if flash != "" {
		s.Sessions.AddFlash(w, r, flash)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404", nil)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// middleware
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, models.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who := session.FromContext(r.Context())
		if who.IsZero() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, who)
	}
}
