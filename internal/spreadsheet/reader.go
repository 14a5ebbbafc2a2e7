package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet as rows of raw cell text. Rows[0] is the header.
type Sheet struct {
	Name string
	Rows [][]string
}

type Workbook struct {
	Sheets []Sheet
}

// Open resolves the MIME type of data and reads it as a workbook.
func Open(data []byte, declaredMIME string) (*Workbook, string, error) {
	mimeType, err := ResolveMIME(declaredMIME, data)
	if err != nil {
		return nil, "", err
	}
	wb, err := ReadWorkbook(data, mimeType)
	if err != nil {
		return nil, mimeType, err
	}
	return wb, mimeType, nil
}

func ReadWorkbook(data []byte, mimeType string) (*Workbook, error) {
	switch normalizeMIME(mimeType) {
	case MimeXLSX:
		return readXLSX(data)
	case MimeXLS, MimeXExcel, MimeExcel:
		return readXLS(data)
	}
	return nil, &UnsupportedTypeError{MimeType: mimeType}
}

func readXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("failed to open xlsx: %w", err)}
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, &ReadError{Err: fmt.Errorf("failed to read sheet %q: %w", name, err)}
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

func readXLS(data []byte) (*Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("failed to open xls: %w", err)}
	}

	wb := &Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			last := row.LastCol()
			if last < 0 {
				last = 0
			}
			cells := make([]string, last)
			for c := max(row.FirstCol(), 0); c < last; c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: ws.Name, Rows: rows})
	}
	return wb, nil
}
