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

package sheets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/sra-assembly-automation/config"
	"github.com/wtsi-hgi/sra-assembly-automation/types"
)

func TestColumns(t *testing.T) {
	Convey("Given a retrieved Sheet", t, func() {
		sheet := &Sheet{
			ColumnHeaders: []string{"run_accession", "genome_size", "organism", "notes"},
			Rows: [][]string{
				{"SRR1234567", "3.2M", "E. coli", "urgent"},
				{"ERR7654321", "", "S. aureus"},
				{"", "", ""},
			},
		}

		Convey("You can extract named columns in any order", func() {
			rows, err := sheet.Columns("organism", "run_accession")
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, [][]string{
				{"E. coli", "SRR1234567"},
				{"S. aureus", "ERR7654321"},
				{"", ""},
			})
		})

		Convey("Short rows get blank cells", func() {
			rows, err := sheet.Columns("notes")
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, [][]string{{"urgent"}, {""}, {""}})
		})

		Convey("Header matching ignores case", func() {
			rows, err := sheet.Columns("Run_Accession")
			So(err, ShouldBeNil)
			So(rows[0], ShouldResemble, []string{"SRR1234567"})
		})

		Convey("Unknown column names are an error", func() {
			_, err := sheet.Columns("run_accession", "bogus")
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "bogus")
		})

		Convey("The sheet converts to run requests, skipping blank rows", func() {
			requests, err := sheetToRunRequests(sheet)
			So(err, ShouldBeNil)
			So(requests, ShouldResemble, types.RunRequests{
				{Accession: "SRR1234567", GenomeSize: "3.2M", Organism: "E. coli", Notes: "urgent"},
				{Accession: "ERR7654321", Organism: "S. aureus"},
			})
		})
	})
}

func TestServiceCredentials(t *testing.T) {
	Convey("Loading service credentials validates them", t, func() {
		dir := t.TempDir()

		path := filepath.Join(dir, "credentials.json")
		err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0600)
		So(err, ShouldBeNil)

		_, err = ServiceCredentialsFromFile(path)
		So(errors.Is(err, ErrBadCredentials), ShouldBeTrue)

		err = os.WriteFile(path, []byte(
			`{"client_email":"a@b.com","private_key":"key","token_uri":"uri"}`), 0600)
		So(err, ShouldBeNil)

		sc, err := ServiceCredentialsFromFile(path)
		So(err, ShouldBeNil)
		So(sc.ClientEmail, ShouldEqual, "a@b.com")

		jc := sc.toJWTConfig()
		So(jc.TokenURL, ShouldEqual, "uri")
		So(jc.Scopes, ShouldResemble, []string{scopeReadOnly})

		Convey("Invalid JSON and missing files are errors", func() {
			err = os.WriteFile(path, []byte("{"), 0600)
			So(err, ShouldBeNil)

			_, err = ServiceCredentialsFromFile(path)
			So(err, ShouldNotBeNil)

			_, err = ServiceCredentialsFromFile(filepath.Join(dir, "missing.json"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSheets(t *testing.T) {
	c, err := config.FromEnv("..")
	if err != nil {
		SkipConvey("skipping sheet tests without SRA_ASSEMBLY_* set", t, func() {})

		return
	}

	sc, err := ServiceCredentialsFromConfig(c)
	if err != nil {
		SkipConvey("skipping sheet tests without valid credentials file", t, func() {})

		return
	}

	Convey("Given real service credentials, you can make a Sheets", t, func() {
		sheets, err := New(sc)
		So(err, ShouldBeNil)
		So(sheets, ShouldNotBeNil)

		Convey("Which you can use to read the run worklist", func() {
			requests, err := sheets.Worklist(c.SheetID)
			So(err, ShouldBeNil)
			So(len(requests), ShouldBeGreaterThan, 0)
			So(requests[0].Accession, ShouldNotBeBlank)

			_, err = sheets.Read(c.SheetID, "~invalid")
			So(err, ShouldNotBeNil)
		})
	})
}
