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

package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvVarCreds  = "SRA_ASSEMBLY_CREDENTIALS_FILE"
	EnvVarSheet  = "SRA_ASSEMBLY_SPREADSHEET_ID"
	EnvVarEmail  = "SRA_ASSEMBLY_NCBI_EMAIL"
	EnvVarUser   = "SRA_ASSEMBLY_SQL_USER"
	EnvVarPass   = "SRA_ASSEMBLY_SQL_PASS"
	EnvVarHost   = "SRA_ASSEMBLY_SQL_HOST"
	EnvVarPort   = "SRA_ASSEMBLY_SQL_PORT"
	EnvVarDBName = "SRA_ASSEMBLY_SQL_DB"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrMissingEnvs = Error("missing required environment variables")

type Config struct {
	CredentialsPath string
	SheetID         string
	Email           string
	User            string
	Password        string
	Host            string
	Port            string
	DBName          string
}

// FromEnv returns a new Config with properties populated from environment
// variables SRA_ASSEMBLY_*, where * is amongst: CREDENTIALS_FILE,
// SPREADSHEET_ID, NCBI_EMAIL, SQL_USER, SQL_PASS, SQL_HOST, SQL_PORT, and
// SQL_DB.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) (*Config, error) {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env")

	c := &Config{}

	complete := true

	for _, envVar := range []struct {
		name string
		dest *string
	}{
		{EnvVarCreds, &c.CredentialsPath},
		{EnvVarSheet, &c.SheetID},
		{EnvVarEmail, &c.Email},
		{EnvVarUser, &c.User},
		{EnvVarPass, &c.Password},
		{EnvVarHost, &c.Host},
		{EnvVarPort, &c.Port},
		{EnvVarDBName, &c.DBName},
	} {
		if *envVar.dest = os.Getenv(envVar.name); *envVar.dest == "" {
			complete = false
		}
	}

	if !complete {
		return nil, ErrMissingEnvs
	}

	return c, nil
}
