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

// package qc computes basic quality statistics of local fastq files, so the
// pipeline can report on what actually went in to the assembler.

package qc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrTruncated  = Error("truncated fastq record")
	ErrBadRecord  = Error("malformed fastq record")
	phredOffset   = 33
	gzipExtension = ".gz"

	// scanner buffer big enough for long-read data
	maxLineBytes = 4 * 1024 * 1024
)

// Stats are cumulative counts over fastq records.
type Stats struct {
	Reads  int64
	Bases  int64
	NBases int64
	GC     int64
	Q20    int64
	Q30    int64
}

// PercentQ20 returns the percentage of bases with a quality score of at least
// 20. Returns 0 if there are no bases.
func (s *Stats) PercentQ20() float64 {
	return s.percent(s.Q20)
}

// PercentQ30 returns the percentage of bases with a quality score of at least
// 30. Returns 0 if there are no bases.
func (s *Stats) PercentQ30() float64 {
	return s.percent(s.Q30)
}

// PercentGC returns the GC content percentage. Returns 0 if there are no
// bases.
func (s *Stats) PercentGC() float64 {
	return s.percent(s.GC)
}

func (s *Stats) percent(n int64) float64 {
	if s.Bases == 0 {
		return 0
	}

	return float64(n) / float64(s.Bases) * 100
}

// Add adds the other counts to ours, for combining the stats of read pair
// files.
func (s *Stats) Add(other *Stats) {
	s.Reads += other.Reads
	s.Bases += other.Bases
	s.NBases += other.NBases
	s.GC += other.GC
	s.Q20 += other.Q20
	s.Q30 += other.Q30
}

// String summarises the stats on one line.
func (s *Stats) String() string {
	return fmt.Sprintf("reads=%d bases=%d n=%d q20=%.2f%% q30=%.2f%% gc=%.2f%%",
		s.Reads, s.Bases, s.NBases, s.PercentQ20(), s.PercentQ30(), s.PercentGC())
}

// CountFile counts the fastq records in the given file, decompressing if the
// path ends in .gz.
func CountFile(path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	var r io.Reader = f

	if strings.HasSuffix(path, gzipExtension) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}

		defer gz.Close()

		r = gz
	}

	return Count(r)
}

// CountFiles counts the fastq records in all the given files and returns the
// combined stats, eg. for the two files of a read pair.
func CountFiles(paths ...string) (*Stats, error) {
	combined := &Stats{}

	for _, path := range paths {
		stats, err := CountFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		combined.Add(stats)
	}

	return combined, nil
}

// Count counts the fastq records readable from r, assuming phred+33 quality
// encoding.
func Count(r io.Reader) (*Stats, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	stats := &Stats{}

	for scanner.Scan() {
		header := scanner.Text()
		if !strings.HasPrefix(header, "@") {
			return nil, ErrBadRecord
		}

		seq, qual, err := scanRecordBody(scanner)
		if err != nil {
			return nil, err
		}

		stats.Reads++
		stats.Bases += int64(len(seq))
		stats.NBases += int64(strings.Count(seq, "N"))
		stats.GC += int64(strings.Count(seq, "G") + strings.Count(seq, "C"))

		countQualities(qual, stats)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// scanRecordBody reads the sequence, separator and quality lines that follow
// a fastq header line.
func scanRecordBody(scanner *bufio.Scanner) (string, string, error) {
	if !scanner.Scan() {
		return "", "", ErrTruncated
	}

	seq := scanner.Text()

	if !scanner.Scan() {
		return "", "", ErrTruncated
	}

	if !strings.HasPrefix(scanner.Text(), "+") {
		return "", "", ErrBadRecord
	}

	if !scanner.Scan() {
		return "", "", ErrTruncated
	}

	qual := scanner.Text()

	if len(qual) != len(seq) {
		return "", "", ErrBadRecord
	}

	return seq, qual, nil
}

func countQualities(qual string, stats *Stats) {
	for _, q := range []byte(qual) {
		score := int(q) - phredOffset

		if score < 20 {
			continue
		}

		stats.Q20++

		if score >= 30 {
			stats.Q30++
		}
	}
}
