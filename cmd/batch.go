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
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/sra-assembly-automation/assembly"
	"github.com/wtsi-hgi/sra-assembly-automation/config"
	"github.com/wtsi-hgi/sra-assembly-automation/pipeline"
	"github.com/wtsi-hgi/sra-assembly-automation/runner"
	"github.com/wtsi-hgi/sra-assembly-automation/sheets"
	"github.com/wtsi-hgi/sra-assembly-automation/sra"
	"github.com/wtsi-hgi/sra-assembly-automation/tracker"
	"github.com/wtsi-hgi/sra-assembly-automation/types"
	"github.com/wtsi-hgi/sra-assembly-automation/worklist"
)

// options for this cmd.
var (
	batchOutputDir string
	batchTmpDir    string
	batchThreads   int
	batchMinQ30    float64
	batchKeepFastq bool
	batchPoll      time.Duration
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assemble the runs queued in the tracking spreadsheet",
	Long: `Assemble the runs queued in the tracking spreadsheet.

This reads the run requests from the "` + sheets.WorklistSheetName + `" sheet
of the tracking spreadsheet, skips the accessions the tracking database says
have already been assembled, and assembles each of the rest as the "run"
sub-command would, putting each assembly in an accession-named sub-directory
of --outdir. Every attempt is recorded in the tracking database, so a failing
run will be retried the next time this is run, but a completed one won't be
redone.

With --poll set to a duration (eg. 1h), keeps checking the spreadsheet for
new requests that often instead of exiting once the queue is empty.

You'll need the SRA_ASSEMBLY_* environment variables set, possibly in a .env
file, as per the config package.
`,
	Run: func(_ *cobra.Command, _ []string) {
		c, err := config.FromEnv()
		dieOnError(err)

		dieOnError(createOutputDir(batchOutputDir))
		dieOnError(logToFileAndStderr(logFilePath(batchOutputDir)))

		wl, db := connect(c)
		defer wl.Close()

		for {
			processPending(wl, db)

			if batchPoll <= 0 {
				break
			}

			if err := wl.Err(); err != nil {
				warn("worklist prefetch failed: %s", err)
			}

			time.Sleep(batchPoll)
		}
	},
}

func init() {
	RootCmd.AddCommand(batchCmd)

	// flags specific to this sub-command
	batchCmd.Flags().StringVarP(&batchOutputDir, outputFlag, "o", "",
		"parent directory for the assemblies (required)")
	batchCmd.Flags().StringVar(&batchTmpDir, "tmpdir", assembly.DefaultTmpDir,
		"fast temporary directory for the assembler")
	batchCmd.Flags().IntVarP(&batchThreads, "threads", "t", assembly.DefaultCPUs,
		"number of threads for trimming and assembly")
	batchCmd.Flags().Float64Var(&batchMinQ30, "min-q30", pipeline.DefaultMinQ30Percent,
		"minimum percentage of bases at Q30 or above")
	batchCmd.Flags().BoolVar(&batchKeepFastq, "keep-fastq", false,
		"don't delete the raw dumped fastq files on success")
	batchCmd.Flags().DurationVar(&batchPoll, "poll", 0,
		"keep checking the spreadsheet for new requests this often")

	markFlagRequired(batchCmd, outputFlag)
}

// connect connects to the tracking database and spreadsheet, and returns a
// worklist client for them, plus the tracker for recording our attempts. Dies
// on any failure.
func connect(c *config.Config) (*worklist.Client, *tracker.Tracker) {
	db, err := tracker.New(tracker.MySQLConfigFromConfig(c))
	dieOnError(err)

	dieOnError(db.Initialise())

	creds, err := sheets.ServiceCredentialsFromConfig(c)
	dieOnError(err)

	sc, err := sheets.New(creds)
	dieOnError(err)

	wl := worklist.New(db, sc, worklist.ClientOptions{
		SheetID:       c.SheetID,
		CacheLifetime: batchPoll,
		Prefetch:      batchPoll > 0,
	})

	return wl, db
}

// processPending assembles each currently pending run request in turn,
// recording each attempt's outcome in the tracking database. Failures are
// logged and don't stop the remaining requests being processed.
func processPending(wl *worklist.Client, db *tracker.Tracker) {
	requests, err := wl.Pending()
	if err != nil {
		warn("getting pending run requests failed: %s", err)

		return
	}

	info("%d run requests pending", len(requests))

	for _, request := range requests {
		if err := processRequest(db, request); err != nil {
			warn("%s failed: %s", request.Accession, err)
		}
	}
}

// processRequest assembles a single run request and records its outcome.
func processRequest(db *tracker.Tracker, request types.RunRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	outputDir := filepath.Join(batchOutputDir, request.Accession)
	if err := createOutputDir(outputDir); err != nil {
		return err
	}

	id, err := db.RecordStart(request.Accession, outputDir)
	if err != nil {
		return err
	}

	report, err := assembleRequest(request, outputDir)
	if err != nil {
		if errRecord := db.RecordResult(id, tracker.StatusFailed, 0, 0,
			err.Error()); errRecord != nil {
			warn("recording failure of %s failed: %s", request.Accession, errRecord)
		}

		return err
	}

	info("%s assembled, contigs in %s", request.Accession, report.ContigsPath)

	return db.RecordResult(id, tracker.StatusCompleted, report.Q30Percent,
		report.TotalBases, "")
}

// assembleRequest runs the whole assembly pipeline for the request, in to the
// given directory.
func assembleRequest(request types.RunRequest, outputDir string) (*pipeline.Report, error) {
	source, err := sra.NewSource(request.Accession)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(&runner.Runner{}, appLogger, outputDir)
	p.TmpDir = batchTmpDir
	p.GenomeSize = request.GenomeSize
	p.Threads = batchThreads
	p.MinQ30Percent = batchMinQ30
	p.KeepFastq = batchKeepFastq

	return p.Run(source)
}
