package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Sheet is the active worksheet of a workbook: one header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ListSources returns the spreadsheets in dir in file-name order. That order
// decides which duplicate wins, so it must stay deterministic.
func ListSources(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read source directory")
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// office lock files
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !hasExt(name, exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadSheet loads the active worksheet using raw cell values, so numeric
// cells keep their stored form instead of the display format.
func ReadSheet(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", filepath.Base(path))
	}
	defer f.Close()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q of %s", name, filepath.Base(path))
	}

	sheet := &Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}
	sheet.Header = rows[0]
	sheet.Rows = rows[1:]
	return sheet, nil
}
