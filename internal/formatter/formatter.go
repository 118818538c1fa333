// package formatter provides functions to export queue snapshots to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/encorelive/encore/internal/models"
)

// Snapshot is one export of the live queue, captioned with the venue and
// the capture time.
type Snapshot struct {
	VenueName string              `json:"venue_name"`
	TakenAt   time.Time           `json:"taken_at"`
	Entries   []models.QueueEntry `json:"entries"`
}

// NewSnapshot captions a queue fetch for export.
func NewSnapshot(venueName string, entries []models.QueueEntry) *Snapshot {
	return &Snapshot{
		VenueName: venueName,
		TakenAt:   time.Now(),
		Entries:   entries,
	}
}

// ExportToCSV converts a queue snapshot to CSV with columns: Position, Title, Author, Requesters, Requested At
func ExportToCSV(snapshot *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Author", "Requesters", "Requested At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, entry := range snapshot.Entries {
		record := []string{
			fmt.Sprintf("%d", i+1),
			entry.Title,
			entry.Author,
			strings.Join(entry.Requesters, "; "),
			entry.RequestTime,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a queue snapshot to Markdown.
func ExportToMarkdown(snapshot *Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	title := snapshot.VenueName
	if title == "" {
		title = "Request Queue"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Taken**: %s\n", snapshot.TakenAt.Format(time.RFC1123)))
	buf.WriteString(fmt.Sprintf("**Requests**: %d\n\n", len(snapshot.Entries)))

	buf.WriteString("## Queue\n\n")
	for i, entry := range snapshot.Entries {
		requesterPart := ""
		if len(entry.Requesters) > 0 {
			requesterPart = fmt.Sprintf(" (for %s)", strings.Join(entry.Requesters, ", "))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, entry.Author, entry.Title, requesterPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a queue snapshot to plain text.
func ExportToText(snapshot *Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	if snapshot.VenueName != "" {
		buf.WriteString(fmt.Sprintf("Venue: %s\n", snapshot.VenueName))
	}
	buf.WriteString(fmt.Sprintf("Requests: %d\n\n", len(snapshot.Entries)))

	for i, entry := range snapshot.Entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, entry.Author, entry.Title))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a queue snapshot to indented JSON.
func ExportToJSON(snapshot *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Export renders the snapshot in the named format: csv, markdown (md),
// text (txt), or json.
func Export(snapshot *Snapshot, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "csv":
		return ExportToCSV(snapshot)
	case "markdown", "md":
		return ExportToMarkdown(snapshot)
	case "text", "txt":
		return ExportToText(snapshot)
	case "json":
		return ExportToJSON(snapshot)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteExport renders the snapshot and writes it to path.
func WriteExport(snapshot *Snapshot, format, path string) error {
	data, err := Export(snapshot, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
