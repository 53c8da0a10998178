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

// package pipeline chains the external tools together: get run statistics,
// gate on quality and layout, dump reads to fastq, trim, assemble, clean up.
// The first stage to fail aborts the run.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/sra-assembly-automation/assembly"
	"github.com/wtsi-hgi/sra-assembly-automation/qc"
	"github.com/wtsi-hgi/sra-assembly-automation/runner"
	"github.com/wtsi-hgi/sra-assembly-automation/sra"
	"github.com/wtsi-hgi/sra-assembly-automation/trim"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNotPairedEnd     = Error("run does not have a paired-end layout")
	ErrLowQuality       = Error("high quality bases below threshold")
	ErrMissingFastqFile = Error("one fastq file for the run already exists, but not the other")
	ErrNoFastqFiles     = Error("dump did not produce the expected pair of fastq files")
	ErrNoContigs        = Error("assembler did not produce a contigs file")

	// DefaultMinQ30Percent is the minimum percentage of Q30 bases a run must
	// have to be worth assembling.
	DefaultMinQ30Percent = 80.0

	DefaultThreads = 8

	// TrimmedPair1Name and TrimmedPair2Name are the names fastp output files
	// are given in the fastq working directory.
	TrimmedPair1Name = "R1.fastq"
	TrimmedPair2Name = "R2.fastq"

	fastqSubDir = "fastq"
	dirPerm     = 0755
)

// Executor runs external tool command lines, capturing their output. Satisfied
// by *runner.Runner.
type Executor interface {
	Run(cmdline string) (*runner.Result, error)
}

// Pipeline assembles a genome from a sequencing run by driving the external
// toolchain.
type Pipeline struct {
	// Required parameters
	Exec   Executor
	Logger log15.Logger
	OutDir string

	// Optional parameters
	TmpDir        string
	Threads       int
	GenomeSize    string
	MinQ30Percent float64

	// KeepFastq stops the fastq working directory being deleted after a
	// successful assembly.
	KeepFastq bool
}

// New creates a new Pipeline that will run external tools with the given
// Executor, log progress with the given logger, and put the assembly in
// outDir. The other properties get default values.
func New(exec Executor, logger log15.Logger, outDir string) *Pipeline {
	return &Pipeline{
		Exec:   exec,
		Logger: logger,
		OutDir: outDir,

		TmpDir:        assembly.DefaultTmpDir,
		Threads:       DefaultThreads,
		MinQ30Percent: DefaultMinQ30Percent,
	}
}

// Report records what a pipeline run measured and produced. On failure, the
// fields filled in before the failing stage are still set.
type Report struct {
	Name        string
	TotalBases  int64
	Q30Percent  float64
	ReadLengths []int

	// TrimmedStats are the counts of the trimmed reads given to the
	// assembler, or nil if the run failed before trimming completed.
	TrimmedStats *qc.Stats

	// TrimmedPair1Path and TrimmedPair2Path are the final locations of the
	// trimmed reads, set on success.
	TrimmedPair1Path string
	TrimmedPair2Path string

	// ContigsPath is the final assembly, set on success.
	ContigsPath string
}

// Run assembles the given source, returning an error naming the failing stage
// if any stage fails. A Report is always returned.
func (p *Pipeline) Run(source *sra.Source) (*Report, error) {
	report := &Report{Name: source.Name()}

	stats, err := p.statistics(source, report)
	if err != nil {
		return report, fmt.Errorf("statistics: %w", err)
	}

	if err := p.validate(stats, report); err != nil {
		return report, err
	}

	fastqDir := filepath.Join(p.OutDir, fastqSubDir)

	pair1, pair2, err := p.dump(source, fastqDir)
	if err != nil {
		return report, fmt.Errorf("dump fastq: %w", err)
	}

	trim1, trim2, err := p.trimReads(pair1, pair2, fastqDir, report)
	if err != nil {
		return report, fmt.Errorf("trim reads: %w", err)
	}

	if err := p.assemble(trim1, trim2, report); err != nil {
		return report, fmt.Errorf("assembly: %w", err)
	}

	if err := p.cleanup(trim1, trim2, fastqDir, report); err != nil {
		return report, fmt.Errorf("cleanup: %w", err)
	}

	p.Logger.Info("done", "name", report.Name, "contigs", report.ContigsPath)

	return report, nil
}

func (p *Pipeline) statistics(source *sra.Source, report *Report) (*sra.Statistics, error) {
	p.Logger.Info("getting run statistics", "source", source.String())

	result, err := p.Exec.Run(source.StatsCommand())
	if err != nil {
		return nil, err
	}

	stats, err := sra.ParseStatistics(result.Stdout)
	if err != nil {
		return nil, err
	}

	report.TotalBases = stats.TotalBases()
	report.ReadLengths = stats.ReadLengths()

	return stats, nil
}

// validate gates the run on its layout and quality before we spend time
// downloading it.
func (p *Pipeline) validate(stats *sra.Statistics, report *Report) error {
	if !stats.Paired() {
		p.Logger.Debug("layout is not paired-end", "nreads", stats.NReads())

		return ErrNotPairedEnd
	}

	percent, err := stats.HighQualityPercent(sra.DefaultQualityThreshold)
	if err != nil {
		return err
	}

	report.Q30Percent = percent

	if percent < p.MinQ30Percent {
		p.Logger.Debug("too few high quality bases", "q30", percent, "min", p.MinQ30Percent)

		return fmt.Errorf("%w: %.2f%% < %.2f%%", ErrLowQuality, percent, p.MinQ30Percent)
	}

	p.Logger.Info("run passed quality gates",
		"bases", report.TotalBases, "q30", percent, "lengths", report.ReadLengths)

	return nil
}

// dump runs fastq-dump, unless both fastq files already exist from a previous
// attempt, in which case it does nothing. If only one of the pair exists,
// that's an ErrMissingFastqFile error.
func (p *Pipeline) dump(source *sra.Source, fastqDir string) (string, string, error) {
	pair1, pair2 := source.FastqPaths(fastqDir)

	found, err := checkFastqFiles(pair1, pair2)
	if err != nil {
		return "", "", err
	}

	if found {
		p.Logger.Info("fastq files already dumped", "dir", fastqDir)

		return pair1, pair2, nil
	}

	if err := os.MkdirAll(fastqDir, dirPerm); err != nil {
		return "", "", err
	}

	p.Logger.Info("dumping fastq from SRA", "dir", fastqDir)

	if _, err := p.Exec.Run(source.DumpCommand(fastqDir)); err != nil {
		return "", "", err
	}

	if found, err = checkFastqFiles(pair1, pair2); err == nil && !found {
		err = ErrNoFastqFiles
	}

	return pair1, pair2, err
}

// checkFastqFiles returns true if both files exist, false if neither does,
// and an error if only one does.
func checkFastqFiles(pair1, pair2 string) (bool, error) {
	if fileExists(pair1) && fileExists(pair2) {
		return true, nil
	}

	if fileExists(pair1) || fileExists(pair2) {
		return true, ErrMissingFastqFile
	}

	return false, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func (p *Pipeline) trimReads(pair1, pair2, fastqDir string, report *Report) (string, string, error) {
	trim1 := filepath.Join(fastqDir, TrimmedPair1Name)
	trim2 := filepath.Join(fastqDir, TrimmedPair2Name)

	p.Logger.Info("trimming reads")

	fastp := trim.New(pair1, pair2, trim1, trim2, p.Threads)

	if _, err := p.Exec.Run(fastp.Command()); err != nil {
		return "", "", err
	}

	stats, err := qc.CountFiles(trim1, trim2)
	if err != nil {
		return "", "", err
	}

	report.TrimmedStats = stats

	p.Logger.Info("trimmed reads", "stats", stats.String())

	return trim1, trim2, nil
}

func (p *Pipeline) assemble(trim1, trim2 string, report *Report) error {
	p.Logger.Info("assembling", "outdir", p.OutDir)

	shovill := assembly.New(trim1, trim2, p.OutDir, p.TmpDir, p.Threads)
	shovill.GenomeSize = p.GenomeSize

	if _, err := p.Exec.Run(shovill.Command()); err != nil {
		return err
	}

	contigsPath := filepath.Join(p.OutDir, assembly.ContigsFile)
	if !fileExists(contigsPath) {
		return ErrNoContigs
	}

	report.ContigsPath = contigsPath

	return nil
}

// cleanup moves the trimmed reads out of the fastq working directory and then
// deletes it, unless KeepFastq is set.
func (p *Pipeline) cleanup(trim1, trim2, fastqDir string, report *Report) error {
	final1, final2, err := p.preserveTrimmed(trim1, trim2)
	if err != nil {
		return err
	}

	report.TrimmedPair1Path = final1
	report.TrimmedPair2Path = final2

	if p.KeepFastq {
		return nil
	}

	p.Logger.Info("removing fastq working directory", "dir", fastqDir)

	return os.RemoveAll(fastqDir)
}
