package datagrid

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"time"

	"github.com/xuri/excelize/v2"
)

// Export serialization. Both writers materialize the whole filtered
// collection in memory before encoding; that is the documented behavior for
// file exports, not an accident to optimize away.

// SerializeCSV renders the full filtered collection as UTF-8 CSV: the
// description preamble, the header labels, then one row per record.
func (s *Storage) SerializeCSV(ctx context.Context, params url.Values, sort *Sort) ([]byte, error) {
	qs, err := s.FilterAndSort(params, sort)
	if err != nil {
		return nil, err
	}
	descriptions, err := s.DescribeExportData(params)
	if err != nil {
		return nil, err
	}
	records, err := qs.All(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, d := range descriptions {
		if err := w.Write([]string{d.Label, exportValue(d.Value)}); err != nil {
			return nil, err
		}
	}
	if err := w.Write(s.Header()); err != nil {
		return nil, err
	}
	for _, record := range records {
		row := make([]string, len(s.columns))
		for i, col := range s.columns {
			row[i] = col.Serializer().Serialize(record, FormatCSV)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeSheet renders the full filtered collection as a spreadsheet
// workbook with one sheet named after the storage title. The preamble is
// separated from the header row by one blank row.
func (s *Storage) SerializeSheet(ctx context.Context, params url.Values, sort *Sort) ([]byte, error) {
	qs, err := s.FilterAndSort(params, sort)
	if err != nil {
		return nil, err
	}
	descriptions, err := s.DescribeExportData(params)
	if err != nil {
		return nil, err
	}
	records, err := qs.All(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", s.title); err != nil {
		return nil, err
	}

	row := 1
	for _, d := range descriptions {
		if err := setSheetRow(f, s.title, row, []string{d.Label, exportValue(d.Value)}); err != nil {
			return nil, err
		}
		row++
	}
	row++ // blank separator

	if err := setSheetRow(f, s.title, row, s.Header()); err != nil {
		return nil, err
	}
	row++

	for _, record := range records {
		cells := make([]string, len(s.columns))
		for i, col := range s.columns {
			cells[i] = col.Serializer().Serialize(record, FormatSheet)
		}
		if err := setSheetRow(f, s.title, row, cells); err != nil {
			return nil, err
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setSheetRow(f *excelize.File, sheet string, row int, cells []string) error {
	for i, cell := range cells {
		name, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, cell); err != nil {
			return err
		}
	}
	return nil
}

// exportValue renders a decoded description value for a preamble cell. A
// midnight instant came from a date-only widget and prints without its time
// part.
func exportValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(value)
}
