package sheets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a named sheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// Store is the tabular store the chemistry tools read from and write to.
// Rows and columns are 1-based, like the spreadsheet they model.
type Store interface {
	HasSheet(name string) bool
	EnsureSheet(name string) (created bool, err error)
	Rows(name string) ([][]string, error)
	LastRow(name string) (int, error)
	WriteRows(name string, startRow int, rows [][]any) error
	ClearRows(name string, startRow int, cols int) error
	AppendRow(name string, row []any) error
	SetNote(name string, cell string, text string) error
	StyleHeader(name string, cols int) error
	SetColumnWidths(name string, cols int, width float64) error
	HighlightThresholds(name string, colZeroBased int, positiveMin, negativeMax int) error
	Save() error
}

// Workbook is an xlsx-file backed Store. All access is serialised; Save writes
// a temp file and renames it over the target.
type Workbook struct {
	path string

	mu sync.Mutex
	f  *excelize.File
	// placeholder is set while the default "Sheet1" of a new file still exists.
	placeholder bool
	// highlight holds the positive and negative threshold style ids.
	highlight *[2]int
}

var _ Store = (*Workbook)(nil)

// Open loads the workbook at path, or starts an empty one if the file does not exist yet.
func Open(path string) (*Workbook, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return &Workbook{path: path, f: excelize.NewFile(), placeholder: true}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx open %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

func (w *Workbook) Path() string { return w.path }

func (w *Workbook) HasSheet(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasSheet(name)
}

func (w *Workbook) hasSheet(name string) bool {
	if w.placeholder && name == "Sheet1" {
		return false
	}
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx != -1
}

func (w *Workbook) EnsureSheet(name string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return false, errors.New("xlsx: empty sheet name")
	}
	if w.hasSheet(name) {
		return false, nil
	}
	if w.placeholder && name == "Sheet1" {
		w.placeholder = false
		return true, nil
	}
	idx, err := w.f.NewSheet(name)
	if err != nil {
		return false, fmt.Errorf("xlsx new sheet %q: %w", name, err)
	}
	if w.placeholder {
		w.f.SetActiveSheet(idx)
		_ = w.f.DeleteSheet("Sheet1")
		w.placeholder = false
	}
	return true, nil
}

func (w *Workbook) Rows(name string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(name) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx read %s: %w", name, err)
	}
	return rows, nil
}

func (w *Workbook) LastRow(name string) (int, error) {
	rows, err := w.Rows(name)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (w *Workbook) WriteRows(name string, startRow int, rows [][]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(name) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if startRow < 1 {
		return fmt.Errorf("xlsx write %s: invalid start row %d", name, startRow)
	}
	for i, row := range rows {
		r := row
		if err := w.f.SetSheetRow(name, CellName(0, startRow+i), &r); err != nil {
			return fmt.Errorf("xlsx write %s row %d: %w", name, startRow+i, err)
		}
	}
	return nil
}

// ClearRows blanks the first cols columns of every row from startRow down.
// Cell styles are kept.
func (w *Workbook) ClearRows(name string, startRow int, cols int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(name) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("xlsx read %s: %w", name, err)
	}
	for r := startRow; r <= len(rows); r++ {
		width := min(cols, len(rows[r-1]))
		for c := 0; c < width; c++ {
			if err := w.f.SetCellValue(name, CellName(c, r), nil); err != nil {
				return fmt.Errorf("xlsx clear %s: %w", name, err)
			}
		}
	}
	return nil
}

func (w *Workbook) AppendRow(name string, row []any) error {
	last, err := w.LastRow(name)
	if err != nil {
		return err
	}
	return w.WriteRows(name, last+1, [][]any{row})
}

func (w *Workbook) SetNote(name string, cell string, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(name) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return w.f.AddComment(name, excelize.Comment{Cell: cell, Author: "CLB Tools", Text: text})
}

// Save writes the workbook next to its target and renames it into place.
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	// excelize determines format by extension; keep .xlsx for temp files.
	tmp := w.path + ".tmp.xlsx"
	if err := w.f.SaveAs(tmp); err != nil {
		return fmt.Errorf("xlsx save temp: %w", err)
	}
	// On Windows, rename cannot overwrite an existing file.
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(tmp)
		return fmt.Errorf("xlsx remove old: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("xlsx rename: %w", err)
	}
	w.f.Path = w.path
	return nil
}

func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// CellName converts a zero-based column and one-based row into "A1" notation.
func CellName(colZeroBased int, rowOneBased int) string {
	return fmt.Sprintf("%s%d", ColName(colZeroBased), rowOneBased)
}

// ColName converts a zero-based column index to its letters: 0 -> A, 26 -> AA.
func ColName(colZeroBased int) string {
	col := colZeroBased + 1
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return name
}
