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

package assembly

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestShovill(t *testing.T) {
	Convey("Given trimmed reads, you can generate a shovill command line", t, func() {
		shovill := New("R1.fastq", "R2.fastq", "/out", "/scratch", 8)

		So(shovill.Command(), ShouldEqual,
			"shovill --R1 R1.fastq --R2 R2.fastq --outdir /out --depth 80 "+
				"--tmpdir /scratch --cpus 8 --force --noreadcorr --nostitch")

		Convey("A genome size estimate is passed through when set", func() {
			shovill.GenomeSize = "3.2M"

			So(shovill.Command(), ShouldEndWith, " --gsize 3.2M")
		})

		Convey("Blank tmpdir and zero cpus get defaults", func() {
			shovill := New("R1.fastq", "R2.fastq", "/out", "", 0)
			So(shovill.TmpDir, ShouldEqual, DefaultTmpDir)
			So(shovill.CPUs, ShouldEqual, DefaultCPUs)
		})

		Convey("The boolean flags can be turned off", func() {
			shovill.Force = false
			shovill.NoReadCorr = false
			shovill.NoStitch = false

			cmd := shovill.Command()
			So(cmd, ShouldNotContainSubstring, "--force")
			So(cmd, ShouldNotContainSubstring, "--noreadcorr")
			So(cmd, ShouldNotContainSubstring, "--nostitch")
		})
	})
}
