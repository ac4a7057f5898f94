package app

import (
	"net/http"

	"go.uber.org/zap"

	"blogstats/internal/blog"
)

// handleStats serves aggregate statistics over the attached dataset.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := blog.ComputeStats(blog.FromContext(r.Context()))
	if err != nil {
		s.log.Warn("Stats on invalid dataset", zap.Error(err), zap.String("request_id", RequestIDFromContext(r.Context())))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid data structure"})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleSearch serves the titles matching ?query= through the search cache.
// Failure details are logged, never returned.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	titles, err := s.searchCache.Get(blog.FromContext(r.Context()), query)
	if err != nil {
		s.log.Error("Search failed", zap.Error(err), zap.String("query", query), zap.String("request_id", RequestIDFromContext(r.Context())))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching search results."})
		return
	}
	writeJSON(w, http.StatusOK, titles)
}
