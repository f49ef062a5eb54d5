// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linkedin

import "sync"

// VersionCache remembers the last version token the API accepted so new
// clients can lead with a known-good guess instead of re-probing from the
// current month.
//
// The cache is an optimization, not a correctness requirement: a stale or
// wrong value is simply one more candidate that fails and falls through.
// Concurrent writers are resolved last-write-wins.
type VersionCache struct {
	mu    sync.RWMutex
	token string
}

// NewVersionCache creates an empty cache.
func NewVersionCache() *VersionCache {
	return &VersionCache{}
}

// Get returns the cached token, or "" when nothing has succeeded yet.
func (c *VersionCache) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Put records a token that just succeeded. Last write wins.
func (c *VersionCache) Put(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// sharedCache is the default process-wide cache used when a Config does not
// inject its own. Sharing across clients is the point: the first client to
// discover the accepted month spares every later client the probe.
var sharedCache = NewVersionCache()

// SharedVersionCache returns the process-wide default cache. Tests and
// callers that want isolation should inject their own via Config.Cache.
func SharedVersionCache() *VersionCache {
	return sharedCache
}
