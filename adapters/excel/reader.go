package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tablechat/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// DataReader reads Excel and CSV files into a dataset. Excel workbooks keep
// their sheet names and workbook sheet order; a CSV file becomes a single
// sheet named after the file.
type DataReader struct {
	fileType string // "xlsx" or "csv"
	name     string
}

// NewDataReader creates a reader for the given filename. The extension picks
// the format; anything that is not .csv is treated as xlsx.
func NewDataReader(filename string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filename))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" {
		base = "Sheet1"
	}
	return &DataReader{fileType: fileType, name: base}
}

// ReadFile reads a dataset from a file on disk.
func (r *DataReader) ReadFile(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s file: %w", r.fileType, err)
	}
	defer f.Close()
	return r.Read(f)
}

// Read reads a dataset from a stream, typically a multipart upload.
func (r *DataReader) Read(src io.Reader) (*dataset.Dataset, error) {
	switch r.fileType {
	case "csv":
		return r.readCSV(src)
	case "xlsx":
		return r.readExcel(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcel reads every sheet of a workbook in workbook order.
func (r *DataReader) readExcel(src io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	ds := &dataset.Dataset{}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}
		sheet, err := buildSheet(sheetName, rows)
		if err != nil {
			// A sheet without data rows is skipped, not fatal; the workbook
			// may still carry usable sheets.
			log.Printf("[DataReader] Skipping sheet %s: %v", sheetName, err)
			continue
		}
		ds.AddSheet(sheet)
		log.Printf("[DataReader] Sheet %s read (%d columns, %d rows)",
			sheetName, len(sheet.Columns), len(sheet.Rows))
	}
	if len(ds.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheet with a header row and at least one data row")
	}
	return ds, nil
}

// readCSV reads a CSV stream into a single sheet named after the file.
func (r *DataReader) readCSV(src io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	sheet, err := buildSheet(r.name, rows)
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] CSV file processed (%d columns, %d rows)",
		len(sheet.Columns), len(sheet.Rows))
	return &dataset.Dataset{Sheets: []dataset.Sheet{sheet}}, nil
}

// buildSheet converts raw string rows (header first) into a typed sheet.
func buildSheet(name string, rows [][]string) (dataset.Sheet, error) {
	if len(rows) < 2 {
		return dataset.Sheet{}, fmt.Errorf("sheet must have at least a header row and one data row")
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	sheet := dataset.Sheet{Name: name, Columns: headers}
	for i := 1; i < len(rows); i++ {
		row := make(dataset.Row)
		for j, cell := range rows[i] {
			if j >= len(headers) {
				break
			}
			if v := dataset.CoerceScalar(cell); v != nil {
				row[headers[j]] = v
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
