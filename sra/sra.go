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

// package sra knows about NCBI Sequence Read Archive runs: validating run
// accessions, building the sra-stat and fastq-dump command lines for them, and
// parsing the sra-stat quality statistics report.

package sra

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidSource = Error("not a run accession or archive file")

	// FastqPair1Suffix and FastqPair2Suffix are the suffixes fastq-dump
	// --split-e gives the two files of a paired-end run.
	FastqPair1Suffix = "_1.fastq"
	FastqPair2Suffix = "_2.fastq"

	archiveExtension = ".sra"
)

// run accessions look like SRR1234567, ERR1234567 or DRR1234567.
var accessionRegexp = regexp.MustCompile(`^[DES]RR[0-9]+$`)

// ValidAccession says if the given string is a well-formed run accession.
func ValidAccession(accession string) bool {
	return accessionRegexp.MatchString(accession)
}

// Source identifies the sequencing reads to operate on: either a run
// accession that the SRA toolkit will resolve remotely, or a path to a local
// .sra archive file.
type Source struct {
	accession string
	path      string
}

// NewSource interprets the given string as a run accession if it is
// well-formed, or otherwise as the path to an existing local .sra archive
// file. Anything else is an ErrInvalidSource error.
func NewSource(s string) (*Source, error) {
	if ValidAccession(s) {
		return &Source{accession: s}, nil
	}

	if strings.HasSuffix(s, archiveExtension) {
		if _, err := os.Stat(s); err == nil {
			return &Source{path: s}, nil
		}
	}

	return nil, fmt.Errorf("%q: %w", s, ErrInvalidSource)
}

// IsLocal says if this source is a local archive file rather than an
// accession.
func (s *Source) IsLocal() bool {
	return s.path != ""
}

// Name returns the accession, or for a local archive the file's basename
// without the .sra extension. The SRA toolkit names dumped fastq files after
// this.
func (s *Source) Name() string {
	if s.IsLocal() {
		return strings.TrimSuffix(filepath.Base(s.path), archiveExtension)
	}

	return s.accession
}

// String returns what should appear on sra-stat and fastq-dump command lines
// for this source.
func (s *Source) String() string {
	if s.IsLocal() {
		return s.path
	}

	return s.accession
}

// StatsCommand returns the sra-stat command line that produces the XML
// quality statistics report for this source, parseable with
// ParseStatistics().
func (s *Source) StatsCommand() string {
	return fmt.Sprintf("sra-stat -xse 2 %s", s)
}

// DumpCommand returns the fastq-dump command line that dumps this source's
// reads to fastq files in the given directory, splitting paired-end runs in
// to _1 and _2 files.
func (s *Source) DumpCommand(outdir string) string {
	return fmt.Sprintf("fastq-dump --split-e --outdir %s %s", outdir, s)
}

// FastqPaths returns the paths of the pair 1 and 2 fastq files that
// DumpCommand's command will create for a paired-end run in the given
// directory.
func (s *Source) FastqPaths(dir string) (string, string) {
	return filepath.Join(dir, s.Name()+FastqPair1Suffix),
		filepath.Join(dir, s.Name()+FastqPair2Suffix)
}
