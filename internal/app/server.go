package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"blogstats/internal/blog"
	"blogstats/internal/fetch"
)

// Server is the application server.
type Server struct {
	cfg         *Config
	log         *zap.Logger
	metrics     *Metrics
	fetchCache  *FetchCache
	searchCache *SearchCache
	feedHandler *FeedHandler
	api         *http.ServeMux
	mux         *http.ServeMux
}

// NewServer creates a new Server that reads blogs from cfg.UpstreamURL.
func NewServer(cfg *Config, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	hc := fetch.NewClient(fetch.ClientOptions{
		Timeout:   cfg.RequestTimeout,
		UserAgent: cfg.UserAgent,
		RetryMax:  cfg.UpstreamRetries,
		Logger:    log.Named("upstream"),
	})
	return newServer(cfg, log, blog.NewClient(hc, cfg.UpstreamURL, cfg.AdminSecret), time.Now)
}

func newServer(cfg *Config, log *zap.Logger, f Fetcher, clock Clock) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := NewMetrics()
	fc := NewFetchCache(f, FetchCacheOptions{
		TTL:      cfg.FetchTTL,
		Coalesce: cfg.CoalesceFetches,
		Clock:    clock,
		Metrics:  m,
		Logger:   log.Named("fetch-cache"),
	})
	sc := NewSearchCache(SearchCacheOptions{
		TTL:     cfg.SearchTTL,
		Clock:   clock,
		Metrics: m,
	})

	s := &Server{
		cfg:         cfg,
		log:         log,
		metrics:     m,
		fetchCache:  fc,
		searchCache: sc,
		feedHandler: NewFeedHandler(sc, cfg.UpstreamURL, log.Named("feed")),
		api:         http.NewServeMux(),
		mux:         http.NewServeMux(),
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.api.HandleFunc("GET /api/blog-stats", s.handleStats)
	s.api.HandleFunc("GET /api/blog-search", s.handleSearch)
	s.api.Handle("GET /api/blog-feed", s.feedHandler)

	// operational endpoints stay reachable while upstream is failing
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.mux.Handle("/", s.withDataset(s.api))
}

// Handler returns the full middleware chain around the routes.
func (s *Server) Handler() http.Handler {
	return s.withCommonHeaders(s.withRequestLogging(s.mux))
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if s.cfg.SearchSweepInterval > 0 {
		go s.cacheCleanerLoop(ctx, s.cfg.SearchSweepInterval)
	}

	h := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", zap.String("addr", addr))
		errCh <- h.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.Shutdown(shutdownCtx)
	}
}

// handleHealth returns JSON health information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":            "ok",
		"service":           "blogstats",
		"dataset_cached":    false,
		"search_cache_size": s.searchCache.Size(),
		"timestamp":         time.Now().Format(time.RFC3339),
	}
	if at, ok := s.fetchCache.State(); ok {
		health["dataset_cached"] = true
		health["dataset_age"] = s.fetchCache.now().Sub(at).Round(time.Second).String()
	}
	writeJSON(w, http.StatusOK, health)
}

// cacheCleanerLoop periodically drops stale search entries.
func (s *Server) cacheCleanerLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.searchCache.Cleanup(); n > 0 {
				s.log.Debug("Search cache swept", zap.Int("removed", n), zap.Int("size", s.searchCache.Size()))
			}
		case <-ctx.Done():
			return
		}
	}
}
