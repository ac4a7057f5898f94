package blog

import (
	"errors"
	"reflect"
	"testing"
)

func TestComputeStats(t *testing.T) {
	ds := mustDecode(t, `{"blogs":[{"title":"Privacy Policy"},{"title":"Hello World"},{"title":"hello world"}]}`)

	st, err := ComputeStats(ds)
	if err != nil {
		t.Fatalf("ComputeStats() error = %v", err)
	}
	if st.Total != 3 {
		t.Errorf("Total = %d, want 3", st.Total)
	}
	if st.PrivacyCount != 1 {
		t.Errorf("PrivacyCount = %d, want 1", st.PrivacyCount)
	}
	if want := []string{"Privacy Policy", "Hello World"}; !reflect.DeepEqual(st.UniqueTitles, want) {
		t.Errorf("UniqueTitles = %q, want %q", st.UniqueTitles, want)
	}
	if st.Longest == nil || st.Longest.Title != "Privacy Policy" {
		t.Errorf("Longest = %v, want Privacy Policy", st.Longest)
	}
}

func TestComputeStats_LongestTieKeepsFirst(t *testing.T) {
	ds := mustDecode(t, `{"blogs":[{"title":"abc"},{"title":"xyz"},{"title":"ab"}]}`)

	st, err := ComputeStats(ds)
	if err != nil {
		t.Fatalf("ComputeStats() error = %v", err)
	}
	if st.Longest.Title != "abc" {
		t.Errorf("Longest = %q, want %q", st.Longest.Title, "abc")
	}
}

func TestComputeStats_LengthCountsCharacters(t *testing.T) {
	// "ééé" is 6 bytes but 3 characters
	ds := mustDecode(t, `{"blogs":[{"title":"ééé"},{"title":"abcd"}]}`)

	st, err := ComputeStats(ds)
	if err != nil {
		t.Fatalf("ComputeStats() error = %v", err)
	}
	if st.Longest.Title != "abcd" {
		t.Errorf("Longest = %q, want %q", st.Longest.Title, "abcd")
	}
}

func TestComputeStats_PrivacyIsPrefixOnly(t *testing.T) {
	ds := mustDecode(t, `{"blogs":[{"title":"PRIVACY matters"},{"title":"Data Privacy"},{"title":"privacyfirst"}]}`)

	st, err := ComputeStats(ds)
	if err != nil {
		t.Fatalf("ComputeStats() error = %v", err)
	}
	if st.PrivacyCount != 2 {
		t.Errorf("PrivacyCount = %d, want 2", st.PrivacyCount)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	st, err := ComputeStats(mustDecode(t, `{"blogs":[]}`))
	if err != nil {
		t.Fatalf("ComputeStats() error = %v", err)
	}
	if st.Total != 0 || st.Longest != nil || st.PrivacyCount != 0 || len(st.UniqueTitles) != 0 {
		t.Errorf("unexpected stats for empty dataset: %+v", st)
	}

	out, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"Total number of blogs":0,"The title of the longest blog":null,"Number of blogs with 'privacy' in the title":0,"An array of unique blog titles":[]}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestComputeStats_InvalidShape(t *testing.T) {
	if _, err := ComputeStats(mustDecode(t, `{"blogs":"x"}`)); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("ComputeStats() error = %v, want ErrInvalidShape", err)
	}
	if _, err := ComputeStats(nil); !errors.Is(err, ErrNoDataset) {
		t.Errorf("ComputeStats(nil) error = %v, want ErrNoDataset", err)
	}
}

func TestStatsMarshalJSON_KeyOrderAndRecord(t *testing.T) {
	ds := mustDecode(t, `{"blogs":[{"id":"7","title":"Longest title here"},{"title":"short"}]}`)
	st, err := ComputeStats(ds)
	if err != nil {
		t.Fatalf("ComputeStats() error = %v", err)
	}

	out, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"Total number of blogs":2,"The title of the longest blog":{"id":"7","title":"Longest title here"},"Number of blogs with 'privacy' in the title":0,"An array of unique blog titles":["Longest title here","short"]}`
	if string(out) != want {
		t.Errorf("Marshal() = %s\nwant %s", out, want)
	}
}
