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

// package cmd is the cobra file that enables subcommands and handles
// command-line args.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
)

const (
	dirPerm     = 0755
	logFileName = "runner.log"
	outputFlag  = "outdir"
)

// appLogger is used for logging events in our commands.
var appLogger = log15.New()

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "sra-assembly-automation",
	Short: "sra-assembly-automation assembles genomes from SRA runs",
	Long: `sra-assembly-automation assembles genomes from SRA runs.

Given an NCBI run accession (or a local .sra archive file), it checks the
run's quality statistics, downloads and trims the reads, and assembles them,
using the sra-stat, fastq-dump, fastp and shovill external tools, which must
be in your PATH.

Use the "info" sub-command to see run statistics and metadata before
committing to an assembly, the "run" sub-command to assemble a single run,
and the "batch" sub-command to work through the runs queued in the tracking
spreadsheet.
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		die("%s", err.Error())
	}
}

func init() {
	// set up logging to stderr
	appLogger.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StderrHandler))
}

// logToFileAndStderr makes appLogger additionally log everything to the
// given file, for a permanent record of a pipeline's progress.
func logToFileAndStderr(path string) error {
	fh, err := log15.FileHandler(path, log15.LogfmtFormat())
	if err != nil {
		return err
	}

	appLogger.SetHandler(log15.MultiHandler(
		log15.LvlFilterHandler(log15.LvlInfo, log15.StderrHandler),
		fh,
	))

	return nil
}

// createOutputDir makes the given directory (and parents) if it doesn't
// already exist.
func createOutputDir(dir string) error {
	return os.MkdirAll(dir, dirPerm)
}

// logFilePath is where a pipeline run writing to the given output directory
// keeps its log.
func logFilePath(outputDir string) string {
	return filepath.Join(outputDir, logFileName)
}

// cliPrint outputs the message to STDOUT.
func cliPrint(msg string) {
	fmt.Fprint(os.Stdout, msg)
}

// cliPrintf is like cliPrint, but interprets placeholders in msg.
func cliPrintf(msg string, a ...interface{}) {
	fmt.Fprintf(os.Stdout, msg, a...)
}

// info is a convenience to log a message at the Info level.
func info(msg string, a ...interface{}) {
	appLogger.Info(fmt.Sprintf(msg, a...))
}

// warn is a convenience to log a message at the Warn level.
func warn(msg string, a ...interface{}) {
	appLogger.Warn(fmt.Sprintf(msg, a...))
}

// die is a convenience to log a message at the Error level and exit non zero.
func die(msg string, a ...interface{}) {
	appLogger.Error(fmt.Sprintf(msg, a...))
	os.Exit(1)
}

// dieOnError dies with the error's message if err is set.
func dieOnError(err error) {
	if err != nil {
		die("%s", err.Error())
	}
}

func markFlagRequired(cmd *cobra.Command, flagName string) {
	if err := cmd.MarkFlagRequired(flagName); err != nil {
		die("%s", err.Error())
	}
}
