package blog

import "strings"

// MatchTitles returns, in dataset order, the titles that contain query as a
// whole whitespace-separated word, ignoring case. Substrings do not match and
// an empty query matches nothing.
func MatchTitles(ds *Dataset, query string) ([]string, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	out := make([]string, 0)
	for _, b := range ds.Blogs {
		if hasToken(b.Title, q) {
			out = append(out, b.Title)
		}
	}
	return out, nil
}

func hasToken(title, lowerQuery string) bool {
	for _, tok := range strings.Fields(strings.ToLower(title)) {
		if tok == lowerQuery {
			return true
		}
	}
	return false
}
