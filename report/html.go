package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
)

// WriteHTML renders the self-contained report. Contacts without
// mentions are omitted from the cards but counted in the summary.
func WriteHTML(w io.Writer, summary Summary, reports []ContactReport) error {
	withMentions := make([]ContactReport, 0, len(reports))
	for _, r := range reports {
		if r.TotalMentions > 0 {
			withMentions = append(withMentions, r)
		}
	}

	data := struct {
		Summary Summary
		Reports []ContactReport
	}{summary, withMentions}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// WriteHTMLFile renders the report to the given path.
func WriteHTMLFile(path string, summary Summary, reports []ContactReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := WriteHTML(f, summary, reports); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>namedrop: contact mentions report</title>
<style>
* { box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; max-width: 1200px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
h1 { text-align: center; }
.summary { background: #fff; padding: 20px; border-radius: 8px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.contact { background: #fff; padding: 20px; margin-bottom: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.contact-header { display: flex; justify-content: space-between; align-items: center; border-bottom: 1px solid #eee; padding-bottom: 10px; margin-bottom: 15px; }
.contact-name { font-size: 1.4em; font-weight: bold; color: #333; }
.contact-info { color: #666; font-size: 0.9em; }
.hit-count { background: #e74c3c; color: #fff; padding: 5px 15px; border-radius: 20px; font-weight: bold; }
.hit { background: #f9f9f9; padding: 15px; margin-bottom: 10px; border-radius: 4px; border-left: 3px solid #3498db; }
.hit-excerpt { color: #444; margin-bottom: 10px; font-size: 0.95em; }
.hit-link { display: inline-block; color: #3498db; text-decoration: none; font-size: 0.85em; }
.hit-link:hover { text-decoration: underline; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #ddd; text-align: center; color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>namedrop</h1>

<div class="summary">
<strong>Total contacts searched:</strong> {{.Summary.ContactsSearched}}<br>
<strong>Contacts with mentions:</strong> {{.Summary.ContactsWithMentions}}{{if .Summary.SkippedRows}}<br>
<strong>Skipped export rows:</strong> {{.Summary.SkippedRows}}{{end}}{{if .Summary.Unresolved}}<br>
<strong>Unresolved accounts:</strong> {{.Summary.Unresolved}}{{end}}{{if .Summary.SkippedDocs}}<br>
<strong>Skipped documents:</strong> {{.Summary.SkippedDocs}}{{end}}
</div>

{{range .Reports}}
<div class="contact">
<div class="contact-header">
<div>
<div class="contact-name">{{.Contact.Name}}</div>
<div class="contact-info">{{.Contact.Position}}{{if and .Contact.Position .Contact.Company}} at {{end}}{{.Contact.Company}}</div>
</div>
<div class="hit-count">{{.TotalMentions}} mentions</div>
</div>
{{range .Matches}}{{$url := .SourceURL}}{{$doc := .DocID}}
{{range .Excerpts}}
<div class="hit">
<div class="hit-excerpt">{{.}}</div>
<a class="hit-link" href="{{$url}}" target="_blank">View source: {{$doc}}</a>
</div>
{{end}}
{{end}}
</div>
{{end}}

<div class="footer">Generated by namedrop</div>
</body>
</html>
`))
