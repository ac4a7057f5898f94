package app

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"blogstats/internal/blog"
)

// FeedHandler renders the attached dataset as an RSS 2.0 feed. With ?query=
// the items are limited to the search cache's titles for that query.
type FeedHandler struct {
	Search *SearchCache
	// Link is the channel link, normally the upstream URL.
	Link string
	Log  *zap.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(search *SearchCache, link string, log *zap.Logger) *FeedHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedHandler{Search: search, Link: link, Log: log}
}

func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ds := blog.FromContext(r.Context())
	if err := ds.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid data structure"})
		return
	}

	records := ds.Blogs
	query, filtered := r.URL.Query()["query"]
	if filtered {
		titles, err := h.Search.Get(ds, query[0])
		if err != nil {
			h.Log.Error("Feed search failed", zap.Error(err), zap.String("query", query[0]))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error fetching search results."})
			return
		}
		records = recordsFor(ds, titles)
	}

	rss, err := h.buildFeed(records).ToRss()
	if err != nil {
		h.Log.Error("Failed to generate RSS", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate RSS"})
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rss))
}

func (h *FeedHandler) buildFeed(records []blog.Record) *feeds.Feed {
	out := &feeds.Feed{
		Title:       "Blogs",
		Link:        &feeds.Link{Href: h.Link},
		Description: "Blog titles from the upstream collection",
		Created:     time.Now(),
	}
	for _, rec := range records {
		item := &feeds.Item{
			Id:    recordID(rec),
			Title: rec.Title,
			Link:  &feeds.Link{Href: h.Link},
		}
		var link string
		if rec.Field("url", &link) && link != "" {
			item.Link = &feeds.Link{Href: link}
		}
		var image string
		if rec.Field("image_url", &image) && image != "" {
			// size is unknown; the encoder drops enclosures without a length
			item.Enclosure = &feeds.Enclosure{Url: image, Type: "image/jpeg", Length: "0"}
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// recordsFor maps search titles back onto records of ds. The search cache may
// hold titles from an earlier dataset; those become title-only records.
func recordsFor(ds *blog.Dataset, titles []string) []blog.Record {
	byTitle := make(map[string]blog.Record, len(ds.Blogs))
	for _, rec := range ds.Blogs {
		if _, ok := byTitle[rec.Title]; !ok {
			byTitle[rec.Title] = rec
		}
	}
	out := make([]blog.Record, 0, len(titles))
	for _, t := range titles {
		rec, ok := byTitle[t]
		if !ok {
			rec = blog.Record{Title: t}
		}
		out = append(out, rec)
	}
	return out
}

// recordID uses the upstream id when there is one, else a GUID derived from
// the title.
func recordID(rec blog.Record) string {
	var s string
	if rec.Field("id", &s) && s != "" {
		return s
	}
	var n float64
	if rec.Field("id", &n) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	hash := sha256.Sum256([]byte(rec.Title))
	return hex.EncodeToString(hash[:])
}
