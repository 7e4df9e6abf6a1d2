package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nshaw/adminapi/internal/domain"
)

// Format enumerates the supported download formats.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for a format outside the enum.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat maps a raw format name onto the enum.
func ParseFormat(raw string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch format {
	case FormatCSV, FormatJSON, FormatXLSX:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// Result holds a serialized record set ready for download.
type Result struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
	Filename string `json:"filename"`
}

// Write serializes the record set. For tabular formats the column list fixes
// the header order; when omitted, the sorted union of all top-level keys
// across records is used. The filename embeds the resource and export date.
func Write(resource string, records []domain.Record, format Format, columns []string, now time.Time) (Result, error) {
	var (
		data []byte
		mime string
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = writeCSV(records, columns)
		mime = "text/csv"
	case FormatJSON:
		data, err = writeJSON(records)
		mime = "application/json"
	case FormatXLSX:
		data, err = writeXLSX(records, columns)
		mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{
		Data:     data,
		MimeType: mime,
		Filename: fmt.Sprintf("%s-%s.%s", sanitizeFileComponent(resource), now.UTC().Format("2006-01-02"), format),
	}, nil
}

func writeCSV(records []domain.Record, columns []string) ([]byte, error) {
	headers := resolveColumns(records, columns)
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	row := make([]string, len(headers))
	for _, record := range records {
		for i, column := range headers {
			value, _ := record.Resolve(column)
			row[i] = formatValue(value)
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush rows: %w", err)
	}
	return buffer.Bytes(), nil
}

func writeJSON(records []domain.Record) ([]byte, error) {
	if records == nil {
		records = []domain.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}

func writeXLSX(records []domain.Record, columns []string) ([]byte, error) {
	headers := resolveColumns(records, columns)
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Sheet1"
	headerRow := make([]any, len(headers))
	for i, header := range headers {
		headerRow[i] = header
	}
	if len(headerRow) > 0 {
		if err := file.SetSheetRow(sheet, "A1", &headerRow); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for rowIndex, record := range records {
		row := make([]any, len(headers))
		for i, column := range headers {
			value, _ := record.Resolve(column)
			row[i] = formatValue(value)
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return nil, fmt.Errorf("resolve cell: %w", err)
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("flush workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

// resolveColumns returns the explicit column list, or the sorted union of all
// top-level keys across records when none was given.
func resolveColumns(records []domain.Record, columns []string) []string {
	if len(columns) > 0 {
		return columns
	}
	seen := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			seen[key] = struct{}{}
		}
	}
	union := make([]string, 0, len(seen))
	for key := range seen {
		union = append(union, key)
	}
	sort.Strings(union)
	return union
}

func formatValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case json.Number:
		return v.String()
	case float32, float64, int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%v", v)
	case []byte:
		return string(v)
	case map[string]any, domain.Record, []any, []string:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "export"
	}
	builder := strings.Builder{}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r)
		case r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '-' || r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	result := strings.Trim(builder.String(), "-")
	if result == "" {
		return "export"
	}
	return result
}
