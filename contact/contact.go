// Package contact defines the common types for contact-export processing.
package contact

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Common errors returned by the pipeline.
var (
	ErrNoCredentials = errors.New("no bearer credentials available")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrRateLimited   = errors.New("rate limited")
)

// Source identifies which export a contact came from.
type Source string

// Known contact sources.
const (
	SourceLinkedIn Source = "linkedin"
	SourceTwitter  Source = "twitter"
)

// Contact represents a single person from a contact export.
// Name holds the canonical search name produced by Normalize.
type Contact struct {
	Name     string // Normalized full name used for matching
	Position string // Job title or @handle
	Company  string // Employer, when the export carries one
	Source   Source // Which export the contact came from
}

// Normalize produces the canonical search name: NFC-normalized, with
// leading/trailing whitespace stripped and internal whitespace runs
// collapsed to single spaces. Returns "" when nothing usable remains.
func Normalize(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// Key returns the case-folded identity of a name, used to group and
// deduplicate contacts across sources.
func Key(name string) string {
	return cases.Fold().String(Normalize(name))
}

// Dedupe merges contacts that share a Key, keeping the first occurrence.
// Contacts whose normalized name is empty are dropped.
// Input order is otherwise preserved and the input is not mutated.
func Dedupe(contacts []Contact) []Contact {
	seen := make(map[string]bool, len(contacts))
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		k := Key(c.Name)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}
