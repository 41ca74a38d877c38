package linkedin

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/namedrop/contact"
)

const sampleExport = `Notes:
"When exporting your connection data, you may be missing information."

First Name,Last Name,URL,Email Address,Company,Position,Connected On
Jane,Doe,https://linkedin.com/in/janedoe,,Acme Corp,Attorney,01 Jan 2020
John,"Smith, MBA",https://linkedin.com/in/jsmith,,Widgets Inc,CEO,02 Feb 2021
OnlyFirst,,,,,NoLastName,03 Mar 2022
Pat,O'Brien,,,,Witness,04 Apr 2023
`

func TestParse(t *testing.T) {
	contacts, skipped, err := Parse(strings.NewReader(sampleExport), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []contact.Contact{
		{Name: "Jane Doe", Company: "Acme Corp", Position: "Attorney", Source: contact.SourceLinkedIn},
		{Name: "John Smith", Company: "Widgets Inc", Position: "CEO", Source: contact.SourceLinkedIn},
		{Name: "Pat O'Brien", Position: "Witness", Source: contact.SourceLinkedIn},
	}
	if diff := cmp.Diff(want, contacts); diff != "" {
		t.Errorf("contacts mismatch (-want +got):\n%s", diff)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1 (row with no last name)", skipped)
	}
}

func TestParseBOM(t *testing.T) {
	input := "\uFEFFFirst Name,Last Name,Company,Position\nJane,Doe,Acme,Attorney\n"

	contacts, _, err := Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Name != "Jane Doe" {
		t.Errorf("contacts = %+v, want single Jane Doe", contacts)
	}
}

func TestParseCredentialStripping(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{"plain", "Doe", "Jane Doe"},
		{"mba", `"Doe, MBA"`, "Jane Doe"},
		{"multiple", `"Doe, PhD, Esq."`, "Jane Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "First Name,Last Name\nJane," + tt.last + "\n"
			contacts, _, err := Parse(strings.NewReader(input), nil)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(contacts) != 1 {
				t.Fatalf("len(contacts) = %d, want 1", len(contacts))
			}
			if contacts[0].Name != tt.want {
				t.Errorf("Name = %q, want %q", contacts[0].Name, tt.want)
			}
		})
	}
}

func TestParseNoHeader(t *testing.T) {
	if _, _, err := Parse(strings.NewReader("totally,unrelated,csv\n1,2,3\n"), nil); err == nil {
		t.Error("expected an error for a file without the export header")
	}
}

func TestParseMissingOptionalColumns(t *testing.T) {
	input := "First Name,Last Name\nJane,Doe\n"

	contacts, _, err := Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	if contacts[0].Company != "" || contacts[0].Position != "" {
		t.Errorf("optional fields should be empty, got %+v", contacts[0])
	}
}

func TestParseShortRows(t *testing.T) {
	input := "First Name,Last Name,Company,Position\nJane,Doe\nJohn\n"

	contacts, skipped, err := Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(contacts) != 1 {
		t.Errorf("len(contacts) = %d, want 1", len(contacts))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}
