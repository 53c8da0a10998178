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
	"io"
	"os"
	"path/filepath"
)

const ErrTrimmedExistsDiffSize = Error("trimmed fastq file already exists with a different size")

// preserveTrimmed moves the trimmed fastq pair out of the fastq working
// directory and in to the output directory, so that deleting the working
// directory doesn't lose them. Returns the final paths of the pair.
//
// If the destination files already exist and have the same size, nothing is
// done. If they have different sizes, an error is returned.
func (p *Pipeline) preserveTrimmed(trim1, trim2 string) (string, string, error) {
	final1 := filepath.Join(p.OutDir, TrimmedPair1Name)
	final2 := filepath.Join(p.OutDir, TrimmedPair2Name)

	if err := moveFile(trim1, final1); err != nil {
		return "", "", err
	}

	if err := moveFile(trim2, final2); err != nil {
		return "", "", err
	}

	return final1, final2, nil
}

// moveFile moves a file from src to dst. If the destination file already
// exists and has the same size, nothing is done. If it exists with a different
// size, an error is returned. If it doesn't exist, a rename is attempted. If
// that fails, a copy is attempted. If that fails, an error is returned.
func moveFile(src, dst string) error {
	done, err := checkExistingFile(src, dst)
	if err != nil || done {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return err
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	return copyAndRemove(src, dst)
}

// checkExistingFile checks if the destination file exists and compares sizes
// with the source.
func checkExistingFile(src, dst string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}

	if srcInfo.Size() == dstInfo.Size() {
		return true, nil
	}

	return false, ErrTrimmedExistsDiffSize
}

// copyAndRemove copies src to dst and removes src if successful.
func copyAndRemove(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer dstFile.Close()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	if err = dstFile.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
