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
	"os"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/sra-assembly-automation/config"
	"github.com/wtsi-hgi/sra-assembly-automation/runinfo"
	"github.com/wtsi-hgi/sra-assembly-automation/runner"
	"github.com/wtsi-hgi/sra-assembly-automation/sra"
)

// options for this cmd.
var infoFull bool

// infoCmd represents the info command.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show quality statistics and metadata for an SRA run",
	Long: `Show quality statistics and metadata for an SRA run.

Supply a run accession (eg. SRR1234567), or the path to a local .sra archive
file. The sra-stat external tool must be in your PATH; it reports the run's
statistics without downloading any reads, so you can decide if the run is
worth assembling.

For accessions, if you've set ` + config.EnvVarEmail + ` (possibly in a .env
file), the run is also looked up at NCBI, and --full prints the run's full
metadata document as XML on STDOUT.
`,
	Run: func(_ *cobra.Command, args []string) {
		if len(args) != 1 {
			die("you must supply a run accession or .sra file path")
		}

		source, err := sra.NewSource(args[0])
		dieOnError(err)

		dieOnError(printStatistics(source))

		if source.IsLocal() {
			return
		}

		email := os.Getenv(config.EnvVarEmail)
		if email == "" {
			warn("set %s to also query NCBI for run metadata", config.EnvVarEmail)

			return
		}

		dieOnError(printNCBIMetadata(source.Name(), email))
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)

	// flags specific to this sub-command
	infoCmd.Flags().BoolVar(&infoFull, "full", false,
		"print the run's full NCBI metadata document as XML")
}

// printStatistics runs sra-stat for the source and summarises the result on
// STDOUT.
func printStatistics(source *sra.Source) error {
	r := &runner.Runner{}

	result, err := r.Run(source.StatsCommand())
	if err != nil {
		return err
	}

	stats, err := sra.ParseStatistics(result.Stdout)
	if err != nil {
		return err
	}

	layout := "single-end"
	if stats.Paired() {
		layout = "paired-end"
	}

	cliPrintf("%s: %s\n", source.Name(), layout)
	cliPrintf("total bases: %d\n", stats.TotalBases())
	cliPrintf("read lengths: %v\n", stats.ReadLengths())

	q30, err := stats.HighQualityPercent(sra.DefaultQualityThreshold)
	if err != nil {
		return err
	}

	cliPrintf("bases >= Q30: %.2f%%\n", q30)

	return nil
}

// printNCBIMetadata looks the accession up at NCBI, and with --full also
// writes its full metadata document to STDOUT.
func printNCBIMetadata(accession, email string) error {
	client := runinfo.New(email)

	exists, err := client.Exists(accession)
	if err != nil {
		return err
	}

	if !exists {
		warn("%s was not found at NCBI", accession)

		return nil
	}

	cliPrintf("%s exists at NCBI\n", accession)

	if !infoFull {
		return nil
	}

	_, err = client.WriteDocument(accession, os.Stdout)

	return err
}
