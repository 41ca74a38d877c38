package match

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/namedrop/contact"
	"github.com/codeGROOVE-dev/namedrop/corpus"
)

func scanCounts(t *testing.T, name, text string) int {
	t.Helper()
	engine := New([]contact.Contact{{Name: name}})
	recs := engine.Scan(corpus.Document{ID: "doc", Text: text})
	if len(recs) == 0 {
		return 0
	}
	if len(recs) != 1 {
		t.Fatalf("expected at most one record, got %d", len(recs))
	}
	return recs[0].Count
}

func TestScanPhraseMatching(t *testing.T) {
	tests := []struct {
		name    string
		contact string
		text    string
		want    int
	}{
		{"simple_hit", "John Smith", "...said John Smith today...", 1},
		{"case_insensitive", "John Smith", "JOHN SMITH spoke. john smith left.", 2},
		{"no_partial_words", "John Smith", "Johnson Smithson attended.", 0},
		{"no_reordering", "John Smith", "Smith John attended.", 0},
		{"repeated_non_overlapping", "Jane Doe", "Jane Doe met with Jane Doe's lawyer.", 2},
		{"hyphen_blocks_boundary", "Anne", "Anne-Marie discussed the case.", 0},
		{"apostrophe_is_boundary", "Jane Doe", "That is Jane Doe's statement.", 1},
		{"apostrophe_inside_name", "Pat O'Brien", "Witness Pat O'Brien testified.", 1},
		{"hyphenated_name", "Mary Smith-Jones", "Deponent Mary Smith-Jones appeared.", 1},
		{"hyphenated_name_partial", "Mary Smith", "Deponent Mary Smith-Jones appeared.", 0},
		{"start_of_text", "Jane Doe", "Jane Doe was present.", 1},
		{"end_of_text", "Jane Doe", "The witness was Jane Doe", 1},
		{"digit_boundary", "Jane Doe", "Exhibit Jane Doe2 was filed.", 0},
		{"empty_text", "Jane Doe", "", 0},
		{"whitespace_run_between_words", "Jane Doe", "Jane  Doe appeared.", 1},
		{"newline_between_words", "Jane Doe", "Deposition of Jane\nDoe continued.", 1},
		{"unicode_name", "José Silva", "Deposition of josé silva continued.", 1},
		{"greek_final_sigma", "Νίκος Παππάς", "Witness ΝΊΚΟΣ ΠΑΠΠΆΣ appeared.", 1},
		{"long_s", "Ross Geller", "Then Roſs Geller spoke.", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scanCounts(t, tt.contact, tt.text); got != tt.want {
				t.Errorf("count for %q in %q = %d, want %d", tt.contact, tt.text, got, tt.want)
			}
		})
	}
}

func TestScanSparseOutput(t *testing.T) {
	engine := New([]contact.Contact{
		{Name: "John Smith"},
		{Name: "Jane Doe"},
	})

	recs := engine.Scan(corpus.Document{ID: "d1", SourceURL: "https://example.com/d1", Text: "Jane Doe attended."})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Contact.Name != "Jane Doe" {
		t.Errorf("record contact = %q, want Jane Doe", recs[0].Contact.Name)
	}
	if recs[0].DocID != "d1" || recs[0].SourceURL != "https://example.com/d1" {
		t.Errorf("record document refs wrong: %+v", recs[0])
	}
}

func TestScanExcerpts(t *testing.T) {
	engine := New([]contact.Contact{{Name: "Jane Doe"}}, WithWindow(10))

	recs := engine.Scan(corpus.Document{ID: "d", Text: "On Monday, Jane Doe met with Jane Doe's lawyer downtown."})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]

	if rec.Count != 2 {
		t.Errorf("Count = %d, want 2", rec.Count)
	}
	if len(rec.Excerpts) != 2 {
		t.Fatalf("len(Excerpts) = %d, want 2", len(rec.Excerpts))
	}
	for i, ex := range rec.Excerpts {
		if !strings.Contains(ex, "Jane Doe") {
			t.Errorf("excerpt %d %q does not contain the match", i, ex)
		}
	}
	if rec.Excerpts[0] == rec.Excerpts[1] {
		t.Error("excerpts for distinct occurrences should differ with a small window")
	}
}

func TestScanExcerptCap(t *testing.T) {
	engine := New([]contact.Contact{{Name: "Jane Doe"}}, WithMaxExcerpts(3))

	text := strings.Repeat("Jane Doe spoke. ", 12)
	recs := engine.Scan(corpus.Document{ID: "d", Text: text})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Count != 12 {
		t.Errorf("Count = %d, want 12 (count keeps going past the excerpt cap)", recs[0].Count)
	}
	if len(recs[0].Excerpts) != 3 {
		t.Errorf("len(Excerpts) = %d, want 3", len(recs[0].Excerpts))
	}
}

func TestScanExcerptCollapsesWhitespace(t *testing.T) {
	engine := New([]contact.Contact{{Name: "Jane Doe"}}, WithWindow(20))

	recs := engine.Scan(corpus.Document{ID: "d", Text: "line one\nJane Doe\n\tline two"})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := "line one Jane Doe line two"
	if recs[0].Excerpts[0] != want {
		t.Errorf("excerpt = %q, want %q", recs[0].Excerpts[0], want)
	}
}

func TestScanDeterministic(t *testing.T) {
	engine := New([]contact.Contact{{Name: "Jane Doe"}, {Name: "John Smith"}})
	doc := corpus.Document{ID: "d", Text: "Jane Doe and John Smith met. John Smith left."}

	first := engine.Scan(doc)
	for range 5 {
		if diff := cmp.Diff(first, engine.Scan(doc)); diff != "" {
			t.Fatalf("repeated scan differs (-first +again):\n%s", diff)
		}
	}
}
