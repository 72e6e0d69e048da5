package reportservice

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetUnits = 31
)

var lineupHeader = []any{"Rider ID", "Name", "Category", "Captain"}

// BuildLineupWorkbook writes one sheet per team, in report order. A report
// without teams yields a single sheet saying so.
func BuildLineupWorkbook(report *LineupReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if len(report.Teams) == 0 {
		if err := f.SetSheetName(defaultSheet, "Lineups"); err != nil {
			return nil, err
		}
		if err := f.SetCellValue("Lineups", "A1", "No lineups for "+report.EventDate.Format(time.DateOnly)); err != nil {
			return nil, err
		}
		return writeWorkbook(f)
	}

	used := map[string]bool{}
	for i, team := range report.Teams {
		sheet := sheetName(team.Name, used)
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to add sheet for team %d: %w", team.TeamID, err)
		}
		if err := writeTeamSheet(f, sheet, report.EventDate, team, bold); err != nil {
			return nil, fmt.Errorf("failed to fill sheet for team %d: %w", team.TeamID, err)
		}
	}
	f.SetActiveSheet(0)
	return writeWorkbook(f)
}

func writeTeamSheet(f *excelize.File, sheet string, date time.Time, team TeamLineup, headerStyle int) error {
	title := fmt.Sprintf("%s (%s) %s", team.Name, team.Category, date.Format(time.DateOnly))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A3", &lineupHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 3, 3, headerStyle); err != nil {
		return err
	}
	for i, r := range team.Riders {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		captain := ""
		if r.Captain {
			captain = "yes"
		}
		row := []any{r.RiderID, r.Name, r.Category, captain}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "B", 28)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName turns a team name into a valid, unused sheet name.
func sheetName(team string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(team))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Team"
	}

	name := truncateUnits(base, maxSheetUnits)
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateUnits(base, maxSheetUnits-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

// truncateUnits cuts s to at most limit UTF-16 code units, the unit Excel
// counts sheet names in.
func truncateUnits(s string, limit int) string {
	units := 0
	for i, r := range s {
		units += len(utf16.Encode([]rune{r}))
		if units > limit {
			return strings.TrimRight(s[:i], "'")
		}
	}
	return s
}
