package blog

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Stats is the aggregate view served by /api/blog-stats.
type Stats struct {
	Total        int
	Longest      *Record
	PrivacyCount int
	UniqueTitles []string
}

// ComputeStats aggregates over every blog in ds.
func ComputeStats(ds *Dataset) (Stats, error) {
	if err := ds.Validate(); err != nil {
		return Stats{}, err
	}

	st := Stats{
		Total:        len(ds.Blogs),
		UniqueTitles: make([]string, 0, len(ds.Blogs)),
	}
	seen := make(map[string]struct{}, len(ds.Blogs))
	longest := -1

	for i := range ds.Blogs {
		title := ds.Blogs[i].Title
		lower := strings.ToLower(title)

		// strictly greater: the first of equally long titles wins
		if n := utf8.RuneCountInString(title); n > longest {
			longest = n
			st.Longest = &ds.Blogs[i]
		}
		if strings.HasPrefix(lower, "privacy") {
			st.PrivacyCount++
		}
		if _, dup := seen[lower]; !dup {
			seen[lower] = struct{}{}
			st.UniqueTitles = append(st.UniqueTitles, title)
		}
	}
	return st, nil
}

// MarshalJSON writes the response keys in a fixed order.
func (s Stats) MarshalJSON() ([]byte, error) {
	fields := []struct {
		key string
		val any
	}{
		{"Total number of blogs", s.Total},
		{"The title of the longest blog", s.Longest},
		{"Number of blogs with 'privacy' in the title", s.PrivacyCount},
		{"An array of unique blog titles", s.UniqueTitles},
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
