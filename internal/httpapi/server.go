package httpapi

import (
	"context"
	"embed"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkotlarz/streampulse/internal/service"
)

//go:embed static
var embeddedUI embed.FS

type Server struct {
	svc *service.Service

	topDefault    int
	holidayDates  []time.Time
	holidayWindow int

	uiEnabled   bool
	uiStaticDir string

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

// WithUI enables the single-page UI. A non-empty staticDir overrides the
// embedded assets.
func WithUI(staticDir string, enabled bool) Option {
	return func(s *Server) {
		s.uiStaticDir = staticDir
		s.uiEnabled = enabled
	}
}

// WithTopTitlesDefault sets the default N for /api/titles/top.
func WithTopTitlesDefault(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.topDefault = n
		}
	}
}

// WithHolidayDefaults sets the fallback dates and window for /api/holidays.
func WithHolidayDefaults(dates []time.Time, window int) Option {
	return func(s *Server) {
		s.holidayDates = dates
		if window >= 0 {
			s.holidayWindow = window
		}
	}
}

func NewServer(svc *service.Service, opts ...Option) *Server {
	s := &Server{
		svc:           svc,
		topDefault:    10,
		holidayWindow: 3,
		uiEnabled:     false,
		mux:           http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/meta", s.handleMeta)
	s.mux.HandleFunc("/api/filters", s.handleFilterOptions)
	s.mux.HandleFunc("/api/summary", s.handleSummary)
	s.mux.HandleFunc("/api/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/api/charts/", s.handleChart)
	s.mux.HandleFunc("/api/titles/top", s.handleTopTitles)
	s.mux.HandleFunc("/api/holidays", s.handleHolidays)
	s.mux.HandleFunc("/api/dataset", s.handleUpload)
	s.mux.HandleFunc("/api/datasets", s.handleListDatasets)
	s.mux.HandleFunc("/api/datasets/", s.handleActivateDataset)
	s.mux.HandleFunc("/api/presets", s.handlePresets)
	s.mux.HandleFunc("/api/stream", s.handleStream)
	s.mux.HandleFunc("/", s.handleStatic)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if !s.uiEnabled {
		http.NotFound(w, r)
		return
	}

	rel := strings.TrimPrefix(path.Clean(r.URL.Path), "/")

	// Directory override for UI development.
	if s.uiStaticDir != "" {
		indexPath := filepath.Join(s.uiStaticDir, "index.html")
		if rel == "" || !strings.Contains(filepath.Base(rel), ".") {
			http.ServeFile(w, r, indexPath)
			return
		}
		filePath := filepath.Join(s.uiStaticDir, rel)
		if _, err := os.Stat(filePath); err != nil {
			// SPA fallback: non-existing static file path returns index
			http.ServeFile(w, r, indexPath)
			return
		}
		http.ServeFile(w, r, filePath)
		return
	}

	sub, err := fs.Sub(embeddedUI, "static")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if rel == "" || !strings.Contains(filepath.Base(rel), ".") {
		rel = "index.html"
	}
	if _, err := fs.Stat(sub, rel); err != nil {
		rel = "index.html"
	}
	f, err := sub.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, rel, st.ModTime(), rs)
}
