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

package trim

import "fmt"

const (
	DefaultLengthRequired     = 36
	DefaultCutFront           = 3
	DefaultCutTail            = 3
	DefaultThreads            = 8
	DefaultDetectAdapterForPE = true

	devNull = "/dev/null"
)

// Fastp represents the parameters for running fastp on a pair of fastq files.
// All parameters are required, but using New() will default many of them to
// usually fixed values.
type Fastp struct {
	// Required parameters
	Reads1 string
	Reads2 string
	Out1   string
	Out2   string

	// Optional parameters
	LengthRequired     int
	CutFront           int
	CutTail            int
	Threads            int
	DetectAdapterForPE bool

	// JSONReport and HTMLReport are where fastp writes its reports; blank
	// means discard them.
	JSONReport string
	HTMLReport string
}

// New creates a new Fastp instance with default values for the properties not
// supplied.
func New(reads1, reads2, out1, out2 string, threads int) Fastp {
	if threads <= 0 {
		threads = DefaultThreads
	}

	return Fastp{
		Reads1: reads1,
		Reads2: reads2,
		Out1:   out1,
		Out2:   out2,

		LengthRequired:     DefaultLengthRequired,
		CutFront:           DefaultCutFront,
		CutTail:            DefaultCutTail,
		Threads:            threads,
		DetectAdapterForPE: DefaultDetectAdapterForPE,
	}
}

// Command generates the fastp command to execute.
func (f *Fastp) Command() string {
	cmd := fmt.Sprintf("fastp -i %s -I %s -o %s -O %s --length_required %d "+
		"--cut_front %d --cut_tail %d --thread %d",
		f.Reads1, f.Reads2, f.Out1, f.Out2, f.LengthRequired,
		f.CutFront, f.CutTail, f.Threads,
	)

	if f.DetectAdapterForPE {
		cmd += " --detect_adapter_for_pe"
	}

	cmd += fmt.Sprintf(" -j %s -h %s", f.jsonReport(), f.htmlReport())

	return cmd
}

func (f *Fastp) jsonReport() string {
	return orDevNull(f.JSONReport)
}

func (f *Fastp) htmlReport() string {
	return orDevNull(f.HTMLReport)
}

func orDevNull(path string) string {
	if path == "" {
		return devNull
	}

	return path
}
