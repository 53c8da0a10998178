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

// package runner executes the external tools in our pipeline via the shell,
// turning non-zero exits in to structured errors.

package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const shell = "bash"

// ExitError is returned when a command exits non-zero. It records the command
// line, the exit code and whatever the command wrote to stderr.
type ExitError struct {
	Cmd      string
	ExitCode int
	Stderr   string
}

// Error formats the failure using the first line of stderr, if any.
func (e *ExitError) Error() string {
	msg := e.Stderr

	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}

	msg = strings.TrimSpace(msg)

	if msg == "" {
		return fmt.Sprintf("non-zero return code %d from %q", e.ExitCode, e.Cmd)
	}

	return fmt.Sprintf("non-zero return code %d from %q, message %q", e.ExitCode, e.Cmd, msg)
}

// Result holds the captured output of a successful command.
type Result struct {
	Cmd    string
	Stdout []byte
	Stderr []byte
}

// Runner runs shell command lines synchronously. The zero value runs commands
// in the current working directory with the current environment.
type Runner struct {
	// Dir is the working directory to run commands from. Blank means the
	// current directory.
	Dir string

	// Env is extra environment entries of the form "key=value", appended to
	// the current process environment.
	Env []string
}

// Run executes the given command line via `bash -c` with pipefail set, waits
// for it to finish, and returns its captured stdout and stderr.
//
// If the command exits non-zero, the returned error will be an *ExitError
// holding the exit code and stderr; the Result is still returned so callers
// can inspect partial output.
func (r *Runner) Run(cmdline string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	err := r.run(cmdline, &stdout, &stderr)

	result := &Result{
		Cmd:    cmdline,
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return result, &ExitError{
			Cmd:      cmdline,
			ExitCode: ee.ExitCode(),
			Stderr:   stderr.String(),
		}
	}

	return result, err
}

// RunStream is like Run, but sends the command's output to the given writers
// as it is produced, instead of capturing it. Nil writers default to our own
// stdout and stderr.
//
// Since stderr is not captured, an *ExitError from this method has only the
// exit code and command line set.
func (r *Runner) RunStream(cmdline string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	err := r.run(cmdline, stdout, stderr)

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{
			Cmd:      cmdline,
			ExitCode: ee.ExitCode(),
		}
	}

	return err
}

func (r *Runner) run(cmdline string, stdout, stderr io.Writer) error {
	execCmd := exec.Command(shell, "-c", "set -o pipefail; "+cmdline)
	execCmd.Dir = r.Dir
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr

	if len(r.Env) > 0 {
		execCmd.Env = append(os.Environ(), r.Env...)
	}

	return execCmd.Run()
}
