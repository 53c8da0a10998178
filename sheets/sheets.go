/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// package sheets reads the run tracking spreadsheet from Google docs. The
// first row of a sheet is treated as column headers, and cells are addressed
// by header name, so columns can be reordered in the spreadsheet without
// breaking us.

package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	googleSheets "google.golang.org/api/sheets/v4"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingColumn = Error("column header not found in sheet")
	ErrNoData        = Error("no data found in sheet")
)

// Sheets allows the retrieval of sheets from Google docs.
type Sheets struct {
	srv *googleSheets.Service
}

// New returns a Sheets that you can Read() sheets from Google docs with,
// authenticated as the service account in the given credentials.
func New(sc *ServiceCredentials) (*Sheets, error) {
	ctx := context.Background()

	srv, err := googleSheets.NewService(ctx,
		option.WithHTTPClient(sc.toJWTConfig().Client(ctx)))
	if err != nil {
		return nil, err
	}

	return &Sheets{srv: srv}, nil
}

// Sheet contains the retrieved cells of a Google sheet: the header row, and
// the data rows below it.
type Sheet struct {
	ColumnHeaders []string
	Rows          [][]string
}

// Read retrieves the contents of the named sheet within the given document.
// The id of a Google document is the long string of characters in the URL
// when viewing it.
//
// Returns an ErrNoData error if the sheet has no header row.
func (s *Sheets) Read(docID, sheetName string) (*Sheet, error) {
	valRange, err := s.srv.Spreadsheets.Values.Get(docID, sheetName).Do()
	if err != nil {
		return nil, err
	}

	if len(valRange.Values) == 0 {
		return nil, fmt.Errorf("%s: %w", sheetName, ErrNoData)
	}

	sheet := &Sheet{ColumnHeaders: cellsToStrings(valRange.Values[0])}

	for _, row := range valRange.Values[1:] {
		sheet.Rows = append(sheet.Rows, cellsToStrings(row))
	}

	return sheet, nil
}

// cellsToStrings converts a row of arbitrary cell values to trimmed strings.
func cellsToStrings(cells []any) []string {
	row := make([]string, len(cells))

	for i, cell := range cells {
		row[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	return row
}

// Columns returns the cells of the named columns for each row, in the given
// order. Rows too short to have a cell in a named column get a blank value
// for it. Returns an ErrMissingColumn error if a name isn't amongst
// ColumnHeaders. Header matching ignores case, since the spreadsheet is
// edited by hand.
func (s *Sheet) Columns(names ...string) ([][]string, error) {
	indexes := make([]int, len(names))

	for i, name := range names {
		index, err := s.columnIndex(name)
		if err != nil {
			return nil, err
		}

		indexes[i] = index
	}

	result := make([][]string, len(s.Rows))

	for r, row := range s.Rows {
		cells := make([]string, len(indexes))

		for c, index := range indexes {
			if index < len(row) {
				cells[c] = row[index]
			}
		}

		result[r] = cells
	}

	return result, nil
}

func (s *Sheet) columnIndex(name string) (int, error) {
	for i, header := range s.ColumnHeaders {
		if strings.EqualFold(header, name) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%q: %w", name, ErrMissingColumn)
}
