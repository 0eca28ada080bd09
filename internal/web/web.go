package web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/server"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Authorizer starts a login and later exchanges its code.
type Authorizer interface {
	services.TokenProvider
	AuthURL(clientID, state string) string
}

// Options configures an [App].
type Options struct {
	ClientID      string
	API           services.API
	NewAuthorizer func() Authorizer
	Recorder      session.Recorder // optional
	Logger        *log.Logger
	Limiter       *rate.Limiter // optional
}

// App is the web view shell. It implements [server.Handler].
type App struct {
	opts     Options
	logger   *log.Logger
	store    *Store
	tmpl     *template.Template
	router   *server.BasicRouter
	recorder session.Recorder
}

var _ server.Handler = (*App)(nil)

// NewApp parses the templates and registers the routes.
func NewApp(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	tmpl, err := template.New("page.html").Funcs(template.FuncMap{
		"path": url.PathEscape,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	app := &App{
		opts:     opts,
		logger:   shared.WithLogger(logger, "component", "web"),
		tmpl:     tmpl,
		router:   server.NewBasicRouter(),
		recorder: opts.Recorder,
	}
	app.store = NewStore(app.newSession)

	app.router.Use(server.Logging(app.logger), server.RateLimit(opts.Limiter))
	app.router.HandleFunc(http.MethodGet, "/{$}", app.index)
	app.router.HandleFunc(http.MethodGet, "/login", app.login)
	app.router.HandleFunc(http.MethodGet, "/playlists/{id}", app.selectPlaylist)
	app.router.HandleFunc(http.MethodGet, "/tracks/{uri}", app.selectTrack)
	app.router.HandleFunc(http.MethodGet, "/healthz", app.healthz)

	return app, nil
}

// Routes returns the path patterns the app serves.
func (a *App) Routes() []string {
	return []string{"/"}
}

// ServeHTTP implements [http.Handler].
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Sessions exposes the session store.
func (a *App) Sessions() *Store { return a.store }

func (a *App) newSession(id string) *Session {
	authorizer := a.opts.NewAuthorizer()
	return &Session{
		ID:         id,
		Authorizer: authorizer,
		Controller: session.NewController(session.ControllerOpts{
			ID:       id,
			ClientID: a.opts.ClientID,
			Tokens:   authorizer,
			API:      a.opts.API,
			Recorder: a.recorder,
			Logger:   a.logger,
		}),
	}
}

// index consumes an authorization redirect once, then renders the composed screen.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	sess := a.store.Load(w, r)
	query := r.URL.Query()

	if reason := query.Get("error"); reason != "" {
		sess.TakeState()
		a.logger.Warn("authorization denied", "session", sess.ID, "error", reason)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if code := query.Get("code"); code != "" {
		pending := sess.TakeState()
		if pending != "" && query.Get("state") != pending {
			a.logger.Warn("authorization state mismatch", "session", sess.ID)
		} else {
			sess.Controller.Start(r.Context(), code)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.render(w, session.Compose(sess.Controller.State()))
}

// login redirects to the authorize URL with a fresh state token.
func (a *App) login(w http.ResponseWriter, r *http.Request) {
	sess := a.store.Load(w, r)

	if sess.Controller.Phase() == session.Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	state, err := shared.GenerateState()
	if err != nil {
		a.logger.Error("failed to generate state", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sess.SetState(state)

	http.Redirect(w, r, sess.Authorizer.AuthURL(a.opts.ClientID, state), http.StatusFound)
}

func (a *App) selectPlaylist(w http.ResponseWriter, r *http.Request) {
	sess := a.store.Load(w, r)
	sess.Controller.SelectPlaylist(r.Context(), r.PathValue("id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) selectTrack(w http.ResponseWriter, r *http.Request) {
	sess := a.store.Load(w, r)
	sess.Controller.SelectTrack(r.Context(), r.PathValue("uri"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (a *App) render(w http.ResponseWriter, screen session.Screen) {
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "page.html", screen); err != nil {
		a.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}
