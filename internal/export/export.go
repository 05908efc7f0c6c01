// Package export renders a rubric instance to downloadable documents. All
// formats share the same fixed column layout; the trailing declaration
// columns stay blank for students to fill in by hand.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rubricware/rubrichub/internal/rubric"
)

// Format identifies a supported export document format.
type Format string

// Supported export formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format query value. An empty value defaults to xlsx.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatXLSX):
		return FormatXLSX, nil
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", value)
	}
}

// Rubric table columns, in display order: the five editable fields followed
// by the student declaration columns, left blank in every data row.
var columns = []string{
	"Task",
	"AI Use Level",
	"Instructions to Students",
	"Examples",
	"AI Use Acknowledgement",
	"AI Tools Used",
	"Purpose and Usage",
	"Key Prompts Used",
}

// Write renders the instance to w in the requested format.
func Write(w io.Writer, format Format, in *rubric.Instance) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, in)
	case FormatCSV:
		return writeCSV(w, in)
	case FormatJSON:
		return writeJSON(w, in)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

// ContentType returns the MIME type for a format.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Filename builds a download filename from the rubric name.
func Filename(in *rubric.Instance, format Format) string {
	slug := strings.TrimSpace(in.Name)
	if slug == "" {
		slug = "rubric"
	}
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", "\"", "", "'", "")
	slug = replacer.Replace(strings.ToLower(slug))
	return fmt.Sprintf("%s.%s", slug, format)
}

// rowValues lays a row out under columns: its five fields, then one blank
// cell per declaration column.
func rowValues(row rubric.Row) []string {
	return []string{row.Task, row.AIUseLevel, row.Instructions, row.Examples, row.Acknowledgement, "", "", ""}
}

func writeCSV(w io.Writer, in *rubric.Instance) error {
	cw := csv.NewWriter(w)
	if errHeader := cw.Write(columns); errHeader != nil {
		return fmt.Errorf("export: write csv header: %w", errHeader)
	}
	for _, row := range in.Rows {
		if errRow := cw.Write(rowValues(row)); errRow != nil {
			return fmt.Errorf("export: write csv row: %w", errRow)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, in *rubric.Instance) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if errEncode := enc.Encode(in); errEncode != nil {
		return fmt.Errorf("export: write json: %w", errEncode)
	}
	return nil
}
