// Package report aggregates match records into per-contact summaries
// and renders the final HTML report.
package report

import (
	"sort"

	"github.com/codeGROOVE-dev/namedrop/contact"
	"github.com/codeGROOVE-dev/namedrop/match"
)

// ContactReport is the per-contact aggregation of all mention data.
type ContactReport struct {
	Contact       contact.Contact
	TotalMentions int            // Sum of Count across Matches
	Matches       []match.Record // Ordered by document ID
}

// Summary carries the run-level counters surfaced in the report.
type Summary struct {
	ContactsSearched     int
	ContactsWithMentions int
	SkippedRows          int // Malformed contact-export rows
	Unresolved           int // X/Twitter IDs the resolver could not name
	SkippedDocs          int // Corpus documents that failed to load
}

// Aggregate groups records by contact identity, sums mention counts,
// and orders the result by total mentions descending, ties broken by
// name ascending. The output is deterministic regardless of the order
// records arrive in, and the input is not mutated.
func Aggregate(records []match.Record) []ContactReport {
	byKey := make(map[string]*ContactReport)
	for _, rec := range records {
		key := contact.Key(rec.Contact.Name)
		cr, ok := byKey[key]
		if !ok {
			cr = &ContactReport{Contact: rec.Contact}
			byKey[key] = cr
		}
		cr.TotalMentions += rec.Count
		cr.Matches = append(cr.Matches, rec)
	}

	reports := make([]ContactReport, 0, len(byKey))
	for _, cr := range byKey {
		sort.Slice(cr.Matches, func(i, j int) bool {
			return cr.Matches[i].DocID < cr.Matches[j].DocID
		})
		reports = append(reports, *cr)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].TotalMentions != reports[j].TotalMentions {
			return reports[i].TotalMentions > reports[j].TotalMentions
		}
		return reports[i].Contact.Name < reports[j].Contact.Name
	})
	return reports
}
