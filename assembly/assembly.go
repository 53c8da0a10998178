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

// package assembly generates the command lines for running the external
// genome assembler on trimmed reads. The assembly itself stays an opaque
// collaborator; we only drive it.

package assembly

import "fmt"

const (
	DefaultDepth      = 80
	DefaultTmpDir     = "/tmp"
	DefaultCPUs       = 8
	DefaultForce      = true
	DefaultNoReadCorr = true
	DefaultNoStitch   = true

	// ContigsFile is the final assembly file shovill writes in its output
	// directory.
	ContigsFile = "contigs.fa"
)

// Shovill represents the parameters for running the shovill assembler. All
// parameters are required, but using New() will default many of them to
// usually fixed values.
type Shovill struct {
	// Required parameters
	Reads1 string
	Reads2 string
	OutDir string

	// Optional parameters
	Depth  int
	TmpDir string
	CPUs   int

	// GenomeSize is the estimated genome size, eg. "3.2M". Blank lets
	// shovill autodetect it.
	GenomeSize string

	// Force overwrites the output directory if it exists. We default this on
	// since we create and manage the output directory ourselves.
	Force bool

	// NoReadCorr and NoStitch disable shovill's read correction and read
	// stitching; fastp has already cleaned the reads by the time we
	// assemble.
	NoReadCorr bool
	NoStitch   bool
}

// New creates a new Shovill instance with default values for the properties
// not supplied.
func New(reads1, reads2, outDir, tmpDir string, cpus int) Shovill {
	if tmpDir == "" {
		tmpDir = DefaultTmpDir
	}

	if cpus <= 0 {
		cpus = DefaultCPUs
	}

	return Shovill{
		Reads1: reads1,
		Reads2: reads2,
		OutDir: outDir,

		Depth:      DefaultDepth,
		TmpDir:     tmpDir,
		CPUs:       cpus,
		Force:      DefaultForce,
		NoReadCorr: DefaultNoReadCorr,
		NoStitch:   DefaultNoStitch,
	}
}

// Command generates the shovill command to execute.
func (s *Shovill) Command() string {
	cmd := fmt.Sprintf("shovill --R1 %s --R2 %s --outdir %s --depth %d --tmpdir %s --cpus %d",
		s.Reads1, s.Reads2, s.OutDir, s.Depth, s.TmpDir, s.CPUs)

	if s.Force {
		cmd += " --force"
	}

	if s.NoReadCorr {
		cmd += " --noreadcorr"
	}

	if s.NoStitch {
		cmd += " --nostitch"
	}

	if s.GenomeSize != "" {
		cmd += fmt.Sprintf(" --gsize %s", s.GenomeSize)
	}

	return cmd
}
