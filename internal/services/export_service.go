package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Contributors"

var exportHeader = []interface{}{"Name", "Username", "Team", "Role", "Contributions", "Pull Requests", "Issues"}

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteWorkbook writes cards as a single-sheet xlsx workbook, in card order.
// Unknown stats are written as "-" so they stay distinguishable from zero.
func (s *ExportService) WriteWorkbook(w io.Writer, cards []Card) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, card := range cards {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			card.Member.DisplayName(),
			card.Member.Username,
			card.Member.Team,
			card.Member.Role,
			statCell(card, SortByContributions),
			statCell(card, SortByPRs),
			statCell(card, SortByIssues),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", card.Member.Username, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "D", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "E", "G", 15); err != nil {
		return err
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return f.Write(w)
}

func statCell(card Card, key SortKey) interface{} {
	if card.Stats == nil {
		return UnknownStat
	}
	switch key {
	case SortByContributions:
		return card.Stats.Contributions
	case SortByPRs:
		return card.Stats.PRs
	default:
		return card.Stats.Issues
	}
}
