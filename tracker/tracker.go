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

// package tracker records pipeline runs in a shared MySQL database, so that
// batch mode can skip accessions already assembled, and so there's an audit
// trail of what was assembled when and why runs were rejected.

package tracker

import (
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/wtsi-hgi/sra-assembly-automation/config"
)

const (
	sqlDriverName   = "mysql"
	sqlNetwork      = "tcp"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

// Status of a recorded pipeline run.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Tracker is a connection to the run tracking database.
type Tracker struct {
	pool *sql.DB
}

// MySQLConfigFromConfig converts our environment config in to the driver's
// connection config.
func MySQLConfigFromConfig(c *config.Config) *mysql.Config {
	conf := mysql.NewConfig()
	conf.User = c.User
	conf.Passwd = c.Password
	conf.Net = sqlNetwork
	conf.Addr = c.Host + ":" + c.Port
	conf.DBName = c.DBName
	conf.ParseTime = true

	return conf
}

// New returns a new Tracker connection using mysql.Config that you can get
// from MySQLConfigFromConfig(config.FromEnv()).
func New(c *mysql.Config) (*Tracker, error) {
	pool, err := sql.Open(sqlDriverName, c.FormatDSN())
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)

	return &Tracker{pool: pool}, pool.Ping()
}

const createTable = `
CREATE TABLE IF NOT EXISTS assembly_runs (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  accession VARCHAR(32) NOT NULL,
  status VARCHAR(16) NOT NULL,
  q30_percent DOUBLE NOT NULL DEFAULT 0,
  total_bases BIGINT NOT NULL DEFAULT 0,
  output_dir VARCHAR(1024) NOT NULL DEFAULT '',
  error TEXT,
  started_at DATETIME NOT NULL,
  finished_at DATETIME,
  INDEX idx_accession (accession)
)
`

// Initialise creates the tracking table if it doesn't already exist.
func (t *Tracker) Initialise() error {
	_, err := t.pool.Exec(createTable)

	return err
}

// Run represents one recorded invocation of the pipeline.
type Run struct {
	ID         int64
	Accession  string
	Status     Status
	Q30Percent float64
	TotalBases int64
	OutputDir  string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

const insertRun = `
INSERT INTO assembly_runs (accession, status, output_dir, started_at)
VALUES (?, ?, ?, NOW())
`

// RecordStart records that the pipeline has started on the given accession,
// returning the id to later RecordResult() against.
func (t *Tracker) RecordStart(accession, outputDir string) (int64, error) {
	result, err := t.pool.Exec(insertRun, accession, StatusStarted, outputDir)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

const updateRun = `
UPDATE assembly_runs
SET status = ?, q30_percent = ?, total_bases = ?, error = ?, finished_at = NOW()
WHERE id = ?
`

// RecordResult records how the pipeline run with the given id finished.
// errMsg should be blank for a completed run.
func (t *Tracker) RecordResult(id int64, status Status, q30Percent float64,
	totalBases int64, errMsg string) error {
	_, err := t.pool.Exec(updateRun, status, q30Percent, totalBases, errMsg, id)

	return err
}

const getCompleted = `
SELECT DISTINCT accession FROM assembly_runs WHERE status = ?
`

// CompletedAccessions returns the set of accessions that have at least one
// completed pipeline run.
func (t *Tracker) CompletedAccessions() (map[string]bool, error) {
	rows, err := t.pool.Query(getCompleted, StatusCompleted)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	completed := make(map[string]bool)

	for rows.Next() {
		var accession string

		if err := rows.Scan(&accession); err != nil {
			return nil, err
		}

		completed[accession] = true
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return completed, nil
}

const getRuns = `
SELECT id, accession, status, q30_percent, total_bases, output_dir,
COALESCE(error, ''), started_at, COALESCE(finished_at, started_at)
FROM assembly_runs WHERE accession = ? ORDER BY started_at
`

// RunsForAccession returns every recorded pipeline run for the given
// accession, oldest first.
func (t *Tracker) RunsForAccession(accession string) ([]Run, error) {
	rows, err := t.pool.Query(getRuns, accession)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var run Run

		if err := rows.Scan(
			&run.ID,
			&run.Accession,
			&run.Status,
			&run.Q30Percent,
			&run.TotalBases,
			&run.OutputDir,
			&run.Error,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Close closes the connection to the tracking database.
func (t *Tracker) Close() error {
	return t.pool.Close()
}
