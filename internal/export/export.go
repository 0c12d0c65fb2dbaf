package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vetpharma/backend/internal/accounting"
	"github.com/vetpharma/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	RosterSheet    = "Dienstplan"
	InventorySheet = "Inventar"

	// 表头中日期的格式，例如 "Mon, 10.03."
	dayHeaderLayout = "Mon, 02.01."
	dateLayout      = "02.01.2006"
)

var inventoryHeader = []any{
	"Artikelnummer", "Bezeichnung", "Kategorie", "Bestand", "Mindestbestand",
	"Einheit", "Lieferant", "Letzte Bestellung", "Bemerkungen", "Ablaufdatum",
}

// WriteRoster 把一周的排班表写成 xlsx
// 每个员工一行，依次是姓名、7 天的班次和本周总工时
func WriteRoster(w io.Writer, days []string, weeks []domain.EmployeeWeek, rules []domain.DoubleTimeRule) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RosterSheet); err != nil {
		return err
	}

	header := make([]any, 0, len(days)+2)
	header = append(header, "Mitarbeiter")
	for _, day := range days {
		header = append(header, dayHeader(day))
	}
	header = append(header, "Stunden")

	if err := f.SetSheetRow(RosterSheet, "A1", &header); err != nil {
		return err
	}

	for i, week := range weeks {
		row := make([]any, 0, len(days)+2)
		row = append(row, week.EmployeeName)
		for _, day := range days {
			row = append(row, shiftCell(week.Shifts[day]))
		}
		row = append(row, accounting.FormatHours(accounting.TotalWeeklyHours(week, rules)))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RosterSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(RosterSheet, "A", "I", 18); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteInventory 把库存列表写成 xlsx，列与打印视图一致
func WriteInventory(w io.Writer, items []*domain.InventoryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), InventorySheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(InventorySheet, "A1", &inventoryHeader); err != nil {
		return err
	}

	for i, item := range items {
		row := []any{
			item.ArticleNumber,
			item.Name,
			item.Category,
			item.Stock,
			optional(item.MinStock),
			item.Unit,
			optional(item.Supplier),
			optionalDate(item.LastOrderedAt),
			optional(item.Remarks),
			optionalDate(item.ExpiresAt),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(InventorySheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func dayHeader(day string) string {
	date, err := time.Parse(domain.DateKeyLayout, day)
	if err != nil {
		return day
	}
	return date.Format(dayHeaderLayout)
}

func shiftCell(shift domain.Shift) string {
	var parts []string
	if shift.HasTimes() {
		parts = append(parts, fmt.Sprintf("%s-%s", shift.StartTime, shift.EndTime))
		for _, b := range shift.Breaks {
			parts = append(parts, fmt.Sprintf("Pause %s-%s", b.StartTime, b.EndTime))
		}
	}
	if shift.Notes != "" {
		parts = append(parts, shift.Notes)
	}
	return strings.Join(parts, "\n")
}

func optional[T any](v *T) any {
	if v == nil {
		return ""
	}
	return *v
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
