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

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/sra-assembly-automation/assembly"
	"github.com/wtsi-hgi/sra-assembly-automation/pipeline"
	"github.com/wtsi-hgi/sra-assembly-automation/runner"
	"github.com/wtsi-hgi/sra-assembly-automation/sra"
)

// options for this cmd.
var (
	runOutputDir string
	runTmpDir    string
	runGsize     string
	runThreads   int
	runMinQ30    float64
	runKeepFastq bool
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assemble a single SRA run",
	Long: `Assemble a single SRA run.

Supply a run accession (eg. SRR1234567), or the path to a local .sra archive
file you've already downloaded.

The run must be paired-end and at least --min-q30 percent of its bases must
have a quality score of 30 or more, or nothing will be downloaded and the
command will fail.

The reads are dumped with fastq-dump, trimmed with fastp, and assembled with
shovill; those tools and sra-stat must be in your PATH. Results go in the
--outdir directory: the assembly in its shovill sub-directory (contigs in
contigs.fa), the trimmed reads in R1.fastq and R2.fastq, and a log of what
happened in runner.log. The raw dumped fastq files are deleted on success,
unless you supply --keep-fastq.

If you know the genome size of the organism, supplying it with --gsize (eg.
4.1M) speeds up the assembly.
`,
	Run: func(_ *cobra.Command, args []string) {
		if len(args) != 1 {
			die("you must supply a run accession or .sra file path")
		}

		source, err := sra.NewSource(args[0])
		dieOnError(err)

		dieOnError(createOutputDir(runOutputDir))
		dieOnError(logToFileAndStderr(logFilePath(runOutputDir)))

		report, err := runPipeline(source)
		dieOnError(err)

		printReport(report)
	},
}

func init() {
	RootCmd.AddCommand(runCmd)

	// flags specific to this sub-command
	runCmd.Flags().StringVarP(&runOutputDir, outputFlag, "o", "",
		"output directory for the assembly (required)")
	runCmd.Flags().StringVar(&runTmpDir, "tmpdir", assembly.DefaultTmpDir,
		"fast temporary directory for the assembler")
	runCmd.Flags().StringVarP(&runGsize, "gsize", "g", "",
		"estimated genome size, eg. 4.1M (optional)")
	runCmd.Flags().IntVarP(&runThreads, "threads", "t", assembly.DefaultCPUs,
		"number of threads for trimming and assembly")
	runCmd.Flags().Float64Var(&runMinQ30, "min-q30", pipeline.DefaultMinQ30Percent,
		"minimum percentage of bases at Q30 or above")
	runCmd.Flags().BoolVar(&runKeepFastq, "keep-fastq", false,
		"don't delete the raw dumped fastq files on success")

	markFlagRequired(runCmd, outputFlag)
}

// runPipeline runs the whole assembly pipeline for the given source,
// configured from our command line flags.
func runPipeline(source *sra.Source) (*pipeline.Report, error) {
	p := pipeline.New(&runner.Runner{}, appLogger, runOutputDir)
	p.TmpDir = runTmpDir
	p.GenomeSize = runGsize
	p.Threads = runThreads
	p.MinQ30Percent = runMinQ30
	p.KeepFastq = runKeepFastq

	return p.Run(source)
}

// printReport summarises a successful pipeline run on STDOUT.
func printReport(report *pipeline.Report) {
	cliPrintf("%s assembled\n", report.Name)
	cliPrintf("raw bases: %d (%.2f%% >= Q30)\n", report.TotalBases, report.Q30Percent)

	if report.TrimmedStats != nil {
		cliPrintf("trimmed reads: %s\n", report.TrimmedStats)
	}

	cliPrintf("contigs: %s\n", report.ContigsPath)
}
