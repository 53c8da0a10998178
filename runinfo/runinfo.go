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

// package runinfo looks up run metadata in NCBI's SRA database via the Entrez
// E-utilities. NCBI asks that a tool name and contact email accompany every
// request.

package runinfo

import (
	"fmt"
	"io"

	"github.com/biogo/ncbi/entrez"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNotFound = Error("accession not found in the SRA database")

	db          = "sra"
	defaultTool = "sra-assembly-automation"
)

// Client queries NCBI Entrez.
type Client struct {
	Tool  string
	Email string
}

// New returns a Client that will identify itself to NCBI with the given
// contact email address.
func New(email string) *Client {
	return &Client{
		Tool:  defaultTool,
		Email: email,
	}
}

// Exists says if the given run accession is known to the SRA database.
func (c *Client) Exists(accession string) (bool, error) {
	s, err := entrez.DoSearch(db, accessionQuery(accession), nil, nil, c.Tool, c.Email)
	if err != nil {
		return false, err
	}

	return s.Count > 0, nil
}

// WriteDocument streams the full Entrez XML metadata document for the given
// run accession to w, returning the number of bytes written. Returns
// ErrNotFound if the accession isn't in the SRA database.
func (c *Client) WriteDocument(accession string, w io.Writer) (int64, error) {
	h := &entrez.History{}

	s, err := entrez.DoSearch(db, accessionQuery(accession), nil, h, c.Tool, c.Email)
	if err != nil {
		return 0, err
	}

	if s.Count == 0 {
		return 0, fmt.Errorf("%s: %w", accession, ErrNotFound)
	}

	p := &entrez.Parameters{RetMax: s.Count, RetMode: "xml"}

	r, err := entrez.Fetch(db, p, c.Tool, c.Email, h)
	if err != nil {
		return 0, err
	}

	defer r.Close()

	return io.Copy(w, r)
}

// accessionQuery restricts an Entrez search to the accession field, so eg.
// free text in other fields can't match.
func accessionQuery(accession string) string {
	return accession + "[ACCN]"
}
