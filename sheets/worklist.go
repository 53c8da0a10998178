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

package sheets

import (
	"fmt"

	"github.com/wtsi-hgi/sra-assembly-automation/types"
)

const (
	// WorklistSheetName is the sheet within the tracking spreadsheet that
	// queues runs for assembly.
	WorklistSheetName = "runs"

	colAccession  = "run_accession"
	colGenomeSize = "genome_size"
	colOrganism   = "organism"
	colNotes      = "notes"
)

// Worklist reads the "runs" sheet from the spreadsheet with the given id and
// extracts the queued run requests. Rows with a blank accession are skipped.
func (s *Sheets) Worklist(sheetID string) (types.RunRequests, error) {
	sheet, err := s.Read(sheetID, WorklistSheetName)
	if err != nil {
		return nil, err
	}

	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("%s: %w", WorklistSheetName, ErrNoData)
	}

	return sheetToRunRequests(sheet)
}

func sheetToRunRequests(sheet *Sheet) (types.RunRequests, error) {
	rows, err := sheet.Columns(colAccession, colGenomeSize, colOrganism, colNotes)
	if err != nil {
		return nil, err
	}

	requests := make(types.RunRequests, 0, len(rows))

	for _, row := range rows {
		if row[0] == "" {
			continue
		}

		requests = append(requests, types.RunRequest{
			Accession:  row[0],
			GenomeSize: row[1],
			Organism:   row[2],
			Notes:      row[3],
		})
	}

	return requests, nil
}
