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

package types

type Error string

func (e Error) Error() string { return string(e) }

const ErrNoAccession = Error("run request has no accession")

// RunRequest is a request to assemble a single sequencing run, as queued in
// the tracking spreadsheet.
type RunRequest struct {
	// Accession is the NCBI run accession, eg. "SRR1234567".
	Accession string

	// GenomeSize is the estimated genome size to pass to the assembler, eg.
	// "3.2M". Blank means let the assembler autodetect.
	GenomeSize string

	Organism string
	Notes    string
}

// Validate checks that the request has an accession set.
func (r *RunRequest) Validate() error {
	if r.Accession == "" {
		return ErrNoAccession
	}

	return nil
}

// RunRequests is a slice of RunRequest, from which you can get the subset not
// yet assembled.
type RunRequests []RunRequest

// Pending returns the requests whose accessions are not in the given done
// set, preserving order and dropping duplicate accessions.
func (rs RunRequests) Pending(done map[string]bool) RunRequests {
	pending := make(RunRequests, 0, len(rs))
	seen := make(map[string]bool, len(rs))

	for _, r := range rs {
		if done[r.Accession] || seen[r.Accession] {
			continue
		}

		seen[r.Accession] = true

		pending = append(pending, r)
	}

	return pending
}
