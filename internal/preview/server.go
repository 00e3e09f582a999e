// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview serves the site directory on localhost and reloads open
// pages when a watched file changes. HTML responses get a small script
// that listens on a websocket for reload messages.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/pdiddy/researchmap-site/internal/logging"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

const (
	// ReloadPath is the websocket endpoint.
	ReloadPath = "/livereload"
	// ScriptPath serves the client script.
	ScriptPath = "/livereload.js"

	shutdownTimeout = 5 * time.Second
)

// ScriptTag is inserted into every HTML response.
const ScriptTag = `<script src="` + ScriptPath + `"></script>`

const reloadScript = `(function () {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  function connect() {
    var ws = new WebSocket(scheme + location.host + "` + ReloadPath + `");
    ws.onmessage = function (e) {
      if (e.data === "` + ReloadMessage + `") {
        location.reload();
      }
    };
    ws.onclose = function () {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
`

// Server is the live-reload preview server.
type Server struct {
	cfg     types.PreviewConfig
	root    string
	hub     *Hub
	watcher *Watcher
	files   http.Handler
	opener  Opener
	out     io.Writer
	logger  *zap.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithOpener replaces the system browser.
func WithOpener(o Opener) Option {
	return func(s *Server) { s.opener = o }
}

// WithDebounce sets the watcher's quiet period.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.watcher.debounce = d }
}

// New builds a server for cfg. Progress lines go to out.
func New(cfg types.PreviewConfig, out io.Writer, logger *zap.Logger, opts ...Option) *Server {
	logger = logging.OrNop(logger)
	if out == nil {
		out = io.Discard
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	s := &Server{
		cfg:     cfg,
		root:    root,
		hub:     NewHub(logger),
		watcher: NewWatcher(root, cfg.Watch, DefaultDebounce, logger),
		files:   http.FileServer(http.Dir(root)),
		opener:  SystemBrowser(),
		out:     out,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("localhost:%d", s.cfg.Port)
}

// Hub returns the server's live-reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes: the reload endpoints and the site files.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.noCacheMiddleware)
	r.Use(s.loggingMiddleware)

	r.Handle(ReloadPath, s.hub).Methods(http.MethodGet)
	r.HandleFunc(ScriptPath, s.scriptHandler).Methods(http.MethodGet)
	r.PathPrefix("/").HandlerFunc(s.fileHandler).Methods(http.MethodGet, http.MethodHead)
	return r
}

// Run listens on Addr, opens a browser if configured, and serves until ctx
// is done. The HTTP server and the file watcher run in one pool; the first
// failure stops both.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Addr(), err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	url := "http://" + ln.Addr().String() + "/"

	fmt.Fprintf(s.out, "serving: %s\n", url)
	s.logger.Info("preview server listening", zap.String("url", url), zap.String("root", s.root))

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	p.Go(func(ctx context.Context) error {
		return s.watcher.Run(ctx, s.reload)
	})

	if s.cfg.OpenBrowser {
		if err := s.opener.Open(url); err != nil {
			s.logger.Warn("could not open browser", zap.Error(err))
		}
	}

	err = p.Wait()
	fmt.Fprintln(s.out, "stopped")
	return err
}

func (s *Server) reload(paths []string) {
	for _, p := range paths {
		fmt.Fprintf(s.out, "changed: %s\n", p)
	}
	n := s.hub.Broadcast()
	s.logger.Info("reloading pages", zap.Strings("paths", paths), zap.Int("clients", n))
}

func (s *Server) scriptHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	io.WriteString(w, reloadScript)
}

// fileHandler injects the reload script into HTML files and hands
// everything else to the file server.
func (s *Server) fileHandler(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	fsPath := filepath.Join(s.root, filepath.FromSlash(name))
	if info, err := os.Stat(fsPath); err == nil && info.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			s.files.ServeHTTP(w, r)
			return
		}
		fsPath = filepath.Join(fsPath, "index.html")
	}
	if filepath.Ext(fsPath) != ".html" {
		s.files.ServeHTTP(w, r)
		return
	}

	data, err := os.ReadFile(fsPath)
	if err != nil {
		s.files.ServeHTTP(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method == http.MethodHead {
		return
	}
	w.Write(InjectScript(data))
}

// InjectScript inserts ScriptTag before the last </body>, or appends it
// when the document has none.
func InjectScript(html []byte) []byte {
	tag := []byte(ScriptTag + "\n")
	i := bytes.LastIndex(bytes.ToLower(html), []byte("</body>"))
	if i < 0 {
		return append(append([]byte{}, html...), tag...)
	}
	out := make([]byte, 0, len(html)+len(tag))
	out = append(out, html[:i]...)
	out = append(out, tag...)
	return append(out, html[i:]...)
}

func (s *Server) noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}
