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

// package worklist combines the run requests queued in the tracking
// spreadsheet with the assembly history in the tracking database, to say
// which runs still need assembling.

package worklist

import (
	"sync"
	"time"

	"github.com/wtsi-hgi/sra-assembly-automation/types"
)

type Error string

func (e Error) Error() string { return string(e) }

// TrackerClient is our view of the tracking database.
type TrackerClient interface {
	// CompletedAccessions returns the set of accessions with at least one
	// completed pipeline run.
	CompletedAccessions() (map[string]bool, error)

	// Close closes the connection to the tracking database.
	Close() error
}

// SheetsClient is our view of the tracking spreadsheet.
type SheetsClient interface {
	// Worklist reads the "runs" sheet from the sheet with the given id and
	// returns the queued run requests.
	Worklist(sheetID string) (types.RunRequests, error)
}

type cache struct {
	requests   types.RunRequests
	lastUpdate time.Time
	lifetime   time.Duration
	mu         sync.RWMutex
}

func newCache(lifetime time.Duration) *cache {
	return &cache{lifetime: lifetime}
}

func (c *cache) getData() (bool, types.RunRequests) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached := c.lastUpdate.Add(c.lifetime).After(time.Now())

	return cached, c.requests
}

func (c *cache) storeData(requests types.RunRequests) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = requests
	c.lastUpdate = time.Now()
}

func (c *cache) lastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastUpdate
}

// Client can connect to the tracking database and spreadsheet to get the
// pending run requests.
type Client struct {
	tc      TrackerClient
	sc      SheetsClient
	sheetID string
	cache   *cache

	stopCh chan struct{}
	stopMu sync.RWMutex

	err   error
	errMu sync.RWMutex
}

// ClientOptions are options for creating a new Client.
type ClientOptions struct {
	// SheetID is the id of the google sheet to get the worklist from.
	SheetID string

	// CacheLifetime is the maximum age of cached results.
	CacheLifetime time.Duration

	// Prefetch fetches Pending() results every CacheLifetime so that you
	// never have to wait for a query and they're as fresh as possible.
	// Errors are not returned, but can be checked with Err().
	Prefetch bool
}

// New returns a new Client that can connect to the tracking database and the
// google sheet with the given id to retrieve pending run requests.
func New(tc TrackerClient, sc SheetsClient, opts ClientOptions) *Client {
	c := &Client{
		tc:      tc,
		sc:      sc,
		sheetID: opts.SheetID,
		cache:   newCache(opts.CacheLifetime),
	}

	if opts.Prefetch && opts.CacheLifetime > 0 {
		c.asyncPending()
		go c.prefetch(opts.CacheLifetime)
	}

	return c
}

func (c *Client) asyncPending() {
	result, err := c.freshPendingQuery()

	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()

	if err != nil {
		return
	}

	c.cache.storeData(result)
}

func (c *Client) prefetch(sleepTime time.Duration) {
	c.stopMu.Lock()
	stopCh := make(chan struct{})
	c.stopCh = stopCh
	c.stopMu.Unlock()

	ticker := time.NewTicker(sleepTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.asyncPending()
		case <-stopCh:
			return
		}
	}
}

// Err returns the last error that occurred during prefetching (ie. errors
// from calling Pending() in the background). Successful prefetches clear the
// error.
func (c *Client) Err() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.err
}

// LastPrefetchSuccess returns the time of the last successful prefetch. If no
// prefetch has succeeded yet, the zero time is returned.
func (c *Client) LastPrefetchSuccess() time.Time {
	return c.cache.lastUpdated()
}

// Pending returns the queued run requests whose accessions have not yet been
// successfully assembled. It caches queries, so results can be up to
// CacheLifetime old.
//
// If you have prefetching enabled, this always returns immediately with the
// result of the last successful prefetch, which might have been longer than
// CacheLifetime ago, if the last actual prefetch failed (see Err()).
func (c *Client) Pending() (types.RunRequests, error) {
	cached, result := c.cache.getData()

	c.stopMu.RLock()
	stopCh := c.stopCh
	c.stopMu.RUnlock()

	if !cached && stopCh == nil {
		var err error

		result, err = c.freshPendingQuery()
		if err != nil {
			return nil, err
		}

		c.cache.storeData(result)
	}

	return result, nil
}

func (c *Client) freshPendingQuery() (types.RunRequests, error) {
	requests, err := c.sc.Worklist(c.sheetID)
	if err != nil {
		return nil, err
	}

	completed, err := c.tc.CompletedAccessions()
	if err != nil {
		return nil, err
	}

	return requests.Pending(completed), nil
}

// Close stops any prefetching and closes the tracking database connection.
func (c *Client) Close() error {
	c.stopMu.Lock()

	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}

	c.stopMu.Unlock()

	return c.tc.Close()
}
