// Package blog holds the upstream blog dataset and the pure computations the
// service derives from it.
package blog

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrInvalidShape means the upstream body decoded but is not {"blogs": [{"title": "..."}, ...]}.
	ErrInvalidShape = errors.New("blog: invalid data structure")

	// ErrNoDataset means no dataset was available to compute against.
	ErrNoDataset = errors.New("blog: no dataset")
)

// Record is one upstream blog entry. Only the title is interpreted; the
// original JSON object is kept and written back out unchanged.
type Record struct {
	Title string
	raw   jsoniter.RawMessage
}

// Field decodes the named top-level field of the original object into v.
// It reports false when the field is absent or does not fit v.
func (r Record) Field(name string, v any) bool {
	if len(r.raw) == 0 {
		return false
	}
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(r.raw, &fields); err != nil {
		return false
	}
	f, ok := fields[name]
	if !ok {
		return false
	}
	return json.Unmarshal(f, v) == nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return json.Marshal(map[string]string{"title": r.Title})
	}
	return r.raw, nil
}

// Dataset is the result of one upstream fetch. It is never mutated after
// Decode returns it.
type Dataset struct {
	Blogs []Record

	shapeErr error
}

// Validate reports whether the dataset has the expected shape.
func (d *Dataset) Validate() error {
	if d == nil {
		return ErrNoDataset
	}
	return d.shapeErr
}

// Decode parses an upstream response body. Malformed JSON is an error; JSON
// of the wrong shape still yields a Dataset whose Validate fails, so the
// decision about how to report it stays with the caller.
func Decode(body []byte) (*Dataset, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode blogs: body is not valid JSON")
	}

	var top map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return invalid("body is not an object"), nil
	}
	raw, ok := top["blogs"]
	if !ok || string(raw) == "null" {
		return invalid("missing blogs"), nil
	}

	var items []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return invalid("blogs is not an array"), nil
	}

	blogs := make([]Record, 0, len(items))
	for i, item := range items {
		var probe struct {
			Title *string `json:"title"`
		}
		if err := json.Unmarshal(item, &probe); err != nil || probe.Title == nil {
			return invalid(fmt.Sprintf("blogs[%d] has no string title", i)), nil
		}
		blogs = append(blogs, Record{
			Title: *probe.Title,
			raw:   append(jsoniter.RawMessage(nil), item...),
		})
	}
	return &Dataset{Blogs: blogs}, nil
}

func invalid(reason string) *Dataset {
	return &Dataset{shapeErr: fmt.Errorf("%w: %s", ErrInvalidShape, reason)}
}
