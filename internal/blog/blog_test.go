package blog

import (
	"context"
	"errors"
	"testing"
)

func mustDecode(t *testing.T, body string) *Dataset {
	t.Helper()
	ds, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return ds
}

func TestDecode_ValidShape(t *testing.T) {
	ds := mustDecode(t, `{"blogs":[{"id":"a1","title":"Hello World","image_url":"https://x/1.png"},{"title":"Second"}]}`)

	if err := ds.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(ds.Blogs) != 2 {
		t.Fatalf("len(Blogs) = %d, want 2", len(ds.Blogs))
	}
	if ds.Blogs[0].Title != "Hello World" || ds.Blogs[1].Title != "Second" {
		t.Errorf("titles = %q, %q", ds.Blogs[0].Title, ds.Blogs[1].Title)
	}

	var id string
	if !ds.Blogs[0].Field("id", &id) || id != "a1" {
		t.Errorf("Field(id) = %q, want %q", id, "a1")
	}
	if ds.Blogs[1].Field("id", &id) {
		t.Error("Field(id) on record without id should report false")
	}
}

func TestDecode_RecordRoundTripsUnknownFields(t *testing.T) {
	ds := mustDecode(t, `{"blogs":[{"id":"a1","title":"T","image_url":"u"}]}`)

	out, err := json.Marshal(ds.Blogs[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["id"] != "a1" || got["title"] != "T" || got["image_url"] != "u" {
		t.Errorf("round trip = %v", got)
	}
}

func TestDecode_InvalidShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array body", `[1,2,3]`},
		{"null body", `null`},
		{"missing blogs", `{"posts":[]}`},
		{"null blogs", `{"blogs":null}`},
		{"blogs object", `{"blogs":{"title":"x"}}`},
		{"blogs string", `{"blogs":"nope"}`},
		{"element not object", `{"blogs":["x"]}`},
		{"missing title", `{"blogs":[{"id":1}]}`},
		{"numeric title", `{"blogs":[{"title":7}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := mustDecode(t, tt.body)
			if err := ds.Validate(); !errors.Is(err, ErrInvalidShape) {
				t.Errorf("Validate() = %v, want ErrInvalidShape", err)
			}
		})
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"blogs":[`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidate_NilDataset(t *testing.T) {
	var ds *Dataset
	if err := ds.Validate(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Validate() = %v, want ErrNoDataset", err)
	}
}

func TestContext(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext(empty) = %v, want nil", got)
	}

	ds := mustDecode(t, `{"blogs":[]}`)
	ctx := NewContext(context.Background(), ds)
	if got := FromContext(ctx); got != ds {
		t.Errorf("FromContext() = %p, want %p", got, ds)
	}
}
