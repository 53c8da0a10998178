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

package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inconshreveable/log15"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/sra-assembly-automation/runner"
	"github.com/wtsi-hgi/sra-assembly-automation/sra"
)

const (
	accession = "SRR1234567"
	filePerm  = 0600

	goodStatsXML = `<Run accession="SRR1234567">
  <Statistics nreads="2" nspots="100">
    <Read index="0" count="100" average="150"/>
    <Read index="1" count="100" average="150"/>
  </Statistics>
  <QualityCount>
    <Quality value="20" count="100"/>
    <Quality value="35" count="900"/>
  </QualityCount>
</Run>`

	lowQualStatsXML = `<Run accession="SRR1234567">
  <Statistics nreads="2"/>
  <QualityCount>
    <Quality value="20" count="500"/>
    <Quality value="35" count="500"/>
  </QualityCount>
</Run>`

	singleEndStatsXML = `<Run accession="SRR1234567">
  <Statistics nreads="1"/>
  <QualityCount><Quality value="35" count="100"/></QualityCount>
</Run>`

	fakeFastq = "@r1\nACGT\n+\nIIII\n"
)

// mockExecutor pretends to be the external toolchain, creating the files each
// tool would create.
type mockExecutor struct {
	cmds      []string
	statsXML  string
	failOn    string
	dumpFiles []string
	noContigs bool
}

func (m *mockExecutor) Run(cmdline string) (*runner.Result, error) {
	m.cmds = append(m.cmds, cmdline)

	result := &runner.Result{Cmd: cmdline}

	if m.failOn != "" && strings.HasPrefix(cmdline, m.failOn) {
		return result, &runner.ExitError{Cmd: cmdline, ExitCode: 1, Stderr: "mock failure"}
	}

	switch {
	case strings.HasPrefix(cmdline, "sra-stat"):
		result.Stdout = []byte(m.statsXML)
	case strings.HasPrefix(cmdline, "fastq-dump"):
		return result, m.createFiles(m.dumpFiles...)
	case strings.HasPrefix(cmdline, "fastp"):
		return result, m.createFiles(flagValue(cmdline, "-o"), flagValue(cmdline, "-O"))
	case strings.HasPrefix(cmdline, "shovill"):
		if !m.noContigs {
			return result, m.createFiles(filepath.Join(flagValue(cmdline, "--outdir"), "contigs.fa"))
		}
	}

	return result, nil
}

func (m *mockExecutor) createFiles(paths ...string) error {
	for _, path := range paths {
		if err := os.WriteFile(path, []byte(fakeFastq), filePerm); err != nil {
			return err
		}
	}

	return nil
}

func flagValue(cmdline, flag string) string {
	fields := strings.Fields(cmdline)

	for i, field := range fields {
		if field == flag && i+1 < len(fields) {
			return fields[i+1]
		}
	}

	return ""
}

func newTestPipeline(t *testing.T, statsXML string) (*Pipeline, *mockExecutor, string) {
	t.Helper()

	outDir := t.TempDir()
	fastqDir := filepath.Join(outDir, fastqSubDir)

	exec := &mockExecutor{
		statsXML: statsXML,
		dumpFiles: []string{
			filepath.Join(fastqDir, accession+sra.FastqPair1Suffix),
			filepath.Join(fastqDir, accession+sra.FastqPair2Suffix),
		},
	}

	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())

	return New(exec, logger, outDir), exec, fastqDir
}

func TestPipeline(t *testing.T) {
	source, err := sra.NewSource(accession)
	if err != nil {
		t.Fatal(err)
	}

	Convey("Given a good run, the pipeline executes every stage in order", t, func() {
		p, exec, fastqDir := newTestPipeline(t, goodStatsXML)
		p.GenomeSize = "3.2M"

		report, err := p.Run(source)
		So(err, ShouldBeNil)

		So(len(exec.cmds), ShouldEqual, 4)
		So(exec.cmds[0], ShouldEqual, "sra-stat -xse 2 "+accession)
		So(exec.cmds[1], ShouldEqual, "fastq-dump --split-e --outdir "+fastqDir+" "+accession)
		So(exec.cmds[2], ShouldStartWith, "fastp -i "+filepath.Join(fastqDir, accession+"_1.fastq"))
		So(exec.cmds[3], ShouldStartWith, "shovill --R1 "+filepath.Join(fastqDir, TrimmedPair1Name))
		So(exec.cmds[3], ShouldEndWith, "--gsize 3.2M")

		So(report.Name, ShouldEqual, accession)
		So(report.TotalBases, ShouldEqual, 1000)
		So(report.Q30Percent, ShouldEqual, 90)
		So(report.ReadLengths, ShouldResemble, []int{150, 150})
		So(report.TrimmedStats, ShouldNotBeNil)
		So(report.TrimmedStats.Reads, ShouldEqual, 2)
		So(report.ContigsPath, ShouldEqual, filepath.Join(p.OutDir, "contigs.fa"))

		Convey("And the trimmed reads are moved to the output directory", func() {
			So(report.TrimmedPair1Path, ShouldEqual, filepath.Join(p.OutDir, TrimmedPair1Name))
			So(report.TrimmedPair2Path, ShouldEqual, filepath.Join(p.OutDir, TrimmedPair2Name))

			_, err := os.Stat(report.TrimmedPair1Path)
			So(err, ShouldBeNil)
			_, err = os.Stat(report.TrimmedPair2Path)
			So(err, ShouldBeNil)
		})

		Convey("And the fastq working directory is removed", func() {
			_, err := os.Stat(fastqDir)
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})

	Convey("KeepFastq preserves the fastq working directory", t, func() {
		p, _, fastqDir := newTestPipeline(t, goodStatsXML)
		p.KeepFastq = true

		report, err := p.Run(source)
		So(err, ShouldBeNil)

		_, err = os.Stat(fastqDir)
		So(err, ShouldBeNil)

		_, err = os.Stat(report.TrimmedPair1Path)
		So(err, ShouldBeNil)
	})

	Convey("An existing trimmed file with the same size is left alone", t, func() {
		p, _, _ := newTestPipeline(t, goodStatsXML)

		final1 := filepath.Join(p.OutDir, TrimmedPair1Name)
		So(os.WriteFile(final1, []byte(fakeFastq), filePerm), ShouldBeNil)

		_, err := p.Run(source)
		So(err, ShouldBeNil)

		Convey("But one with a different size is an error", func() {
			p, _, _ := newTestPipeline(t, goodStatsXML)

			final2 := filepath.Join(p.OutDir, TrimmedPair2Name)
			So(os.WriteFile(final2, []byte("different length content"), filePerm), ShouldBeNil)

			_, err := p.Run(source)
			So(errors.Is(err, ErrTrimmedExistsDiffSize), ShouldBeTrue)
		})
	})

	Convey("A single-end run is rejected before any download", t, func() {
		p, exec, _ := newTestPipeline(t, singleEndStatsXML)

		_, err := p.Run(source)
		So(errors.Is(err, ErrNotPairedEnd), ShouldBeTrue)
		So(len(exec.cmds), ShouldEqual, 1)
	})

	Convey("A low quality run is rejected before any download", t, func() {
		p, exec, _ := newTestPipeline(t, lowQualStatsXML)

		report, err := p.Run(source)
		So(errors.Is(err, ErrLowQuality), ShouldBeTrue)
		So(report.Q30Percent, ShouldEqual, 50)
		So(len(exec.cmds), ShouldEqual, 1)

		Convey("Unless the threshold is lowered", func() {
			p, _, _ := newTestPipeline(t, lowQualStatsXML)
			p.MinQ30Percent = 40

			_, err := p.Run(source)
			So(err, ShouldBeNil)
		})
	})

	Convey("A failing stage aborts the pipeline with a stage-naming error", t, func() {
		p, exec, _ := newTestPipeline(t, goodStatsXML)
		exec.failOn = "fastq-dump"

		_, err := p.Run(source)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldStartWith, "dump fastq: ")
		So(len(exec.cmds), ShouldEqual, 2)

		var ee *runner.ExitError
		So(errors.As(err, &ee), ShouldBeTrue)
		So(ee.ExitCode, ShouldEqual, 1)
	})

	Convey("Already-dumped fastq files are not dumped again", t, func() {
		p, exec, fastqDir := newTestPipeline(t, goodStatsXML)

		So(os.MkdirAll(fastqDir, dirPerm), ShouldBeNil)
		So(exec.createFiles(exec.dumpFiles...), ShouldBeNil)

		_, err := p.Run(source)
		So(err, ShouldBeNil)
		So(len(exec.cmds), ShouldEqual, 3)
		So(exec.cmds[1], ShouldStartWith, "fastp")
	})

	Convey("A lone fastq file from a previous attempt is an error", t, func() {
		p, exec, fastqDir := newTestPipeline(t, goodStatsXML)

		So(os.MkdirAll(fastqDir, dirPerm), ShouldBeNil)
		So(exec.createFiles(exec.dumpFiles[0]), ShouldBeNil)

		_, err := p.Run(source)
		So(errors.Is(err, ErrMissingFastqFile), ShouldBeTrue)
	})

	Convey("A dump that produces no fastq files is an error", t, func() {
		p, exec, _ := newTestPipeline(t, goodStatsXML)
		exec.dumpFiles = nil

		_, err := p.Run(source)
		So(errors.Is(err, ErrNoFastqFiles), ShouldBeTrue)
	})

	Convey("An assembler that produces no contigs is an error", t, func() {
		p, exec, _ := newTestPipeline(t, goodStatsXML)
		exec.noContigs = true

		_, err := p.Run(source)
		So(errors.Is(err, ErrNoContigs), ShouldBeTrue)
	})
}
