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

package sra

import "encoding/xml"

const (
	ErrNoBases = Error("statistics report contains no bases")

	// PairedNReads is the Statistics nreads value of a paired-end run.
	PairedNReads = "2"

	// DefaultQualityThreshold is the quality score above which bases are
	// considered high quality; Q30 is ~99.9% base-call accuracy.
	DefaultQualityThreshold = 30
)

// statsReport maps the parts of the sra-stat XML report we care about.
type statsReport struct {
	XMLName    xml.Name
	Statistics struct {
		NReads string     `xml:"nreads,attr"`
		Reads  []readStat `xml:"Read"`
	} `xml:"Statistics"`
	QualityCount struct {
		Qualities []qualityCount `xml:"Quality"`
	} `xml:"QualityCount"`
}

type readStat struct {
	Index   int     `xml:"index,attr"`
	Count   int64   `xml:"count,attr"`
	Average float64 `xml:"average,attr"`
}

type qualityCount struct {
	Value int   `xml:"value,attr"`
	Count int64 `xml:"count,attr"`
}

// Statistics are the aggregate quality metrics of a run, derived from the XML
// report produced by the command from Source.StatsCommand().
type Statistics struct {
	report statsReport
}

// ParseStatistics parses the XML report that sra-stat writes to stdout.
func ParseStatistics(data []byte) (*Statistics, error) {
	s := &Statistics{}

	if err := xml.Unmarshal(data, &s.report); err != nil {
		return nil, err
	}

	return s, nil
}

// Count returns the number of bases with a quality score of at least
// minScore. Count(0) is the total number of bases in the run.
func (s *Statistics) Count(minScore int) int64 {
	var c int64

	for _, q := range s.report.QualityCount.Qualities {
		if q.Value >= minScore {
			c += q.Count
		}
	}

	return c
}

// TotalBases returns the total number of bases in the run.
func (s *Statistics) TotalBases() int64 {
	return s.Count(0)
}

// NReads returns the number of reads per spot as reported by sra-stat, eg.
// "2" for a paired-end run.
func (s *Statistics) NReads() string {
	return s.report.Statistics.NReads
}

// Paired says if the run has a paired-end layout.
func (s *Statistics) Paired() bool {
	return s.NReads() == PairedNReads
}

// HighQualityPercent returns the percentage of bases with a quality score of
// at least minScore. Returns ErrNoBases if the report contains no bases.
func (s *Statistics) HighQualityPercent(minScore int) (float64, error) {
	total := s.Count(0)
	if total == 0 {
		return 0, ErrNoBases
	}

	return float64(s.Count(minScore)) / float64(total) * 100, nil
}

// ReadLengths returns the average length of each read of a spot, in read
// index order.
func (s *Statistics) ReadLengths() []int {
	lengths := make([]int, len(s.report.Statistics.Reads))

	for i, r := range s.report.Statistics.Reads {
		lengths[i] = int(r.Average)
	}

	return lengths
}
