package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RiderRow is one rider read from an export. Category is validated by the
// caller.
type RiderRow struct {
	Line     int
	ID       int64
	Name     string
	Category string
	Email    string
	FTP      *int
	Country  string
}

var ErrNoRows = errors.New("file has no rider rows")

// headerAliases maps accepted header spellings onto field keys.
var headerAliases = map[string]string{
	"id":             "id",
	"rider_id":       "id",
	"zwift_power_id": "id",
	"zwid":           "id",
	"name":           "name",
	"category":       "category",
	"cat":            "category",
	"email":          "email",
	"ftp":            "ftp",
	"country":        "country",
}

type columns map[string]int

func (c columns) get(record []string, key string) string {
	i, ok := c[key]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func mapHeader(header []string) (columns, error) {
	cols := columns{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if field, ok := headerAliases[key]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	for _, required := range []string{"id", "name", "category"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}
	return cols, nil
}

// toRows converts a header row plus data rows. lines holds the 1-based source
// line of each record.
func toRows(records [][]string, lines []int) ([]RiderRow, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	var out []RiderRow
	for i, record := range records[1:] {
		line := lines[i+1]
		if isBlank(record) {
			continue
		}
		row, err := toRow(cols, record, line)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func toRow(cols columns, record []string, line int) (RiderRow, error) {
	row := RiderRow{
		Line:     line,
		Name:     cols.get(record, "name"),
		Category: cols.get(record, "category"),
		Email:    cols.get(record, "email"),
		Country:  cols.get(record, "country"),
	}

	id, err := strconv.ParseInt(cols.get(record, "id"), 10, 64)
	if err != nil || id <= 0 {
		return RiderRow{}, fmt.Errorf("line %d: invalid rider id %q", line, cols.get(record, "id"))
	}
	row.ID = id

	if row.Name == "" {
		return RiderRow{}, fmt.Errorf("line %d: missing name", line)
	}

	if raw := cols.get(record, "ftp"); raw != "" {
		f, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return RiderRow{}, fmt.Errorf("line %d: invalid ftp %q", line, raw)
		}
		ftp := int(f + 0.5)
		row.FTP = &ftp
	}
	return row, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
