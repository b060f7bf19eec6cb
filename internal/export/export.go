// Package export builds the data snapshot an employee can take off the
// device: every completed entry plus the profile, as one JSON document.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"timesheet-service/internal/email"
	"timesheet-service/internal/profile"
	"timesheet-service/internal/timecalc"
	"timesheet-service/internal/timesheet"
)

// Snapshot is the exported document.
type Snapshot struct {
	Entries    []timesheet.TimeEntry `json:"entries"`
	Employee   profile.Employee      `json:"employee"`
	ExportDate string                `json:"exportDate"`
}

var emailBody = template.Must(template.New("export").Parse(`<html><body>
<p>Hi {{.Employee.Name}},</p>
<p>Attached below is your timesheet export from {{.ExportDate}}.</p>
<table border="1">
<tr><th>Date</th><th>Client</th><th>Duration</th></tr>
{{range .Entries}}<tr><td>{{.Date}}</td><td>{{.ClientName}}</td><td>{{.DurationLabel}}</td></tr>
{{end}}</table>
<pre>{{.JSON}}</pre>
</body></html>`))

// Build assembles the snapshot from the stores.
func Build(ctx context.Context, entries *timesheet.Store, profiles *profile.Store) Snapshot {
	return Snapshot{
		Entries:    entries.AllEntries(ctx),
		Employee:   profiles.Employee(ctx),
		ExportDate: time.Now().UTC().Format(time.RFC3339),
	}
}

// JSON renders the snapshot indented.
func (s Snapshot) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Log writes the snapshot to the structured log, which is all the original
// export did; callers decide whether to also return or mail it.
func (s Snapshot) Log() {
	data, err := s.JSON()
	if err != nil {
		slog.Error("Failed to marshal export snapshot", "error", err)
		return
	}
	slog.Info("Export snapshot", "export_date", s.ExportDate, "entries", len(s.Entries), "data", string(data))
}

type emailEntry struct {
	Date          string
	ClientName    string
	DurationLabel string
}

type emailData struct {
	Employee   profile.Employee
	ExportDate string
	Entries    []emailEntry
	JSON       string
}

// Email sends the snapshot to the given address.
func (s Snapshot) Email(client *email.Client, to string) error {
	data, err := s.JSON()
	if err != nil {
		return err
	}

	body := emailData{
		Employee:   s.Employee,
		ExportDate: s.ExportDate,
		JSON:       string(data),
	}
	for _, entry := range s.Entries {
		body.Entries = append(body.Entries, emailEntry{
			Date:          entry.Date,
			ClientName:    entry.ClientName,
			DurationLabel: timecalc.FormatMinutes(entry.Duration),
		})
	}

	var buf bytes.Buffer
	if err := emailBody.Execute(&buf, body); err != nil {
		return fmt.Errorf("failed to render export email: %w", err)
	}

	return client.Send(&email.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Timesheet export %s", s.ExportDate),
		HTML:    buf.String(),
	})
}
