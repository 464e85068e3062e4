package sheets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	headerBackground = "4A86E8"
	headerText       = "FFFFFF"
)

// StyleHeader makes row 1 bold and centered on a colored fill, and freezes it.
func (w *Workbook) StyleHeader(name string, cols int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(name) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if cols < 1 {
		return nil
	}

	styleID, err := w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerText},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerBackground}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(name, "A1", CellName(cols-1, 1), styleID); err != nil {
		return err
	}
	return w.f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// SetColumnWidths applies one width to the first cols columns.
func (w *Workbook) SetColumnWidths(name string, cols int, width float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(name) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if cols < 1 {
		return nil
	}
	return w.f.SetColWidth(name, "A", ColName(cols-1), width)
}

// HighlightThresholds colors a value column green at or above positiveMin and
// red at or below negativeMax. Existing rules on the column are replaced and
// their styles reused, so rewriting a sheet does not grow the style table.
func (w *Workbook) HighlightThresholds(name string, colZeroBased int, positiveMin, negativeMax int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(name) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}

	col := ColName(colZeroBased)
	rangeRef := fmt.Sprintf("%s2:%s%d", col, col, excelize.TotalRows)
	positive, negative, err := w.thresholdStyles(name, rangeRef)
	if err != nil {
		return err
	}
	if err := w.f.UnsetConditionalFormat(name, rangeRef); err != nil {
		return err
	}
	return w.f.SetConditionalFormat(name, rangeRef, []excelize.ConditionalFormatOptions{
		{Type: "cell", Criteria: ">=", Format: &positive, Value: strconv.Itoa(positiveMin)},
		{Type: "cell", Criteria: "<=", Format: &negative, Value: strconv.Itoa(negativeMax)},
	})
}

// thresholdStyles returns the positive and negative conditional style ids.
// Ids already bound to rangeRef come first, then ids created earlier on this
// file; new styles are registered only when neither exists.
func (w *Workbook) thresholdStyles(name, rangeRef string) (int, int, error) {
	formats, err := w.f.GetConditionalFormats(name)
	if err != nil {
		return 0, 0, err
	}
	if rules := formats[rangeRef]; len(rules) == 2 && rules[0].Format != nil && rules[1].Format != nil {
		w.highlight = &[2]int{*rules[0].Format, *rules[1].Format}
	}
	if w.highlight != nil {
		return w.highlight[0], w.highlight[1], nil
	}

	positive, err := w.f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "38761D"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9EAD3"}, Pattern: 1},
	})
	if err != nil {
		return 0, 0, err
	}
	negative, err := w.f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "CC0000"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F4CCCC"}, Pattern: 1},
	})
	if err != nil {
		return 0, 0, err
	}
	w.highlight = &[2]int{positive, negative}
	return positive, negative, nil
}

// thousandsRe matches comma digit grouping such as "1,234" or "-12,345.5".
var thousandsRe = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseNumber reads a numeric cell. Rows returns raw values, so separators
// only show up in cells typed as text: comma digit groups of three are
// thousands separators, any other lone comma is a decimal separator. Percent
// suffixes are accepted.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	isPct := strings.HasSuffix(s, "%")
	if isPct {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	switch {
	case thousandsRe.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1 && !strings.Contains(s, "."):
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if isPct {
		v /= 100.0
	}
	return v, true
}

// Cell returns row[idx] trimmed, or "" when the row is shorter.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
