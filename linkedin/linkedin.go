// Package linkedin parses LinkedIn Connections.csv exports.
//
// LinkedIn prepends a free-text "Notes" section to the export, so the
// parser scans for the header row before handing the rest to the CSV
// reader. Rows missing a first or last name are skipped and counted
// rather than failing the run.
package linkedin

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/codeGROOVE-dev/namedrop/contact"
)

// Column headers the export is expected to carry.
const (
	colFirstName = "First Name"
	colLastName  = "Last Name"
	colCompany   = "Company"
	colPosition  = "Position"
)

// Parse reads a Connections.csv export and returns the contacts plus
// the number of rows skipped for missing or malformed fields.
func Parse(r io.Reader, logger *slog.Logger) (contacts []contact.Contact, skipped int, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	br := bufio.NewReader(r)

	// Skip the notes preamble: everything before the header row.
	var header string
	for {
		line, err := br.ReadString('\n')
		if strings.Contains(line, colFirstName) && strings.Contains(line, colLastName) {
			header = line
			break
		}
		if err != nil {
			return nil, 0, errors.New("no header row found: not a LinkedIn connections export")
		}
	}
	header = strings.TrimPrefix(header, "\ufeff")

	cr := csv.NewReader(io.MultiReader(strings.NewReader(header), br))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headerRow, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header row: %w", err)
	}
	cols := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		cols[strings.TrimSpace(name)] = i
	}
	firstIdx, ok := cols[colFirstName]
	if !ok {
		return nil, 0, errors.New("export has no First Name column")
	}
	lastIdx, ok := cols[colLastName]
	if !ok {
		return nil, 0, errors.New("export has no Last Name column")
	}
	companyIdx := colIndex(cols, colCompany)
	positionIdx := colIndex(cols, colPosition)

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				logger.Debug("skipping malformed row", "line", parseErr.Line, "error", err)
				continue
			}
			return nil, skipped, fmt.Errorf("reading export: %w", err)
		}

		first := field(row, firstIdx)
		last := field(row, lastIdx)

		// Strip credentials after the last name: "Jane Doe, MBA".
		if i := strings.Index(last, ","); i >= 0 {
			last = strings.TrimSpace(last[:i])
		}

		// Single-token names would match almost anything downstream.
		if first == "" || last == "" {
			skipped++
			continue
		}

		name := contact.Normalize(first + " " + last)
		if name == "" {
			skipped++
			continue
		}

		contacts = append(contacts, contact.Contact{
			Name:     name,
			Company:  field(row, companyIdx),
			Position: field(row, positionIdx),
			Source:   contact.SourceLinkedIn,
		})
	}

	return contacts, skipped, nil
}

// ParseFile reads contacts from a Connections.csv file.
func ParseFile(path string, logger *slog.Logger) ([]contact.Contact, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening connections export: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return Parse(f, logger)
}

func colIndex(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
