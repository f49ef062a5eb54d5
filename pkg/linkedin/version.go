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

import (
	"time"

	"github.com/tombee/linkpost/pkg/errors"
)

// versionFormat is the time layout for a LinkedIn-Version month token.
const versionFormat = "200601"

// DefaultLookback is how many months below the starting month are probed
// when no explicit version lock is configured.
const DefaultLookback = 3

// parseVersionToken validates a YYYYMM token and returns its month.
func parseVersionToken(token string) (time.Time, error) {
	t, err := time.Parse(versionFormat, token)
	if err != nil {
		return time.Time{}, &errors.ConfigError{
			Key:    "version",
			Reason: "must be a YYYYMM month token, got " + token,
			Cause:  err,
		}
	}
	return t, nil
}

// buildCandidates computes the ordered list of version tokens to probe.
//
// An explicit lock short-circuits to a single-element list. Otherwise the
// list is the starting month and `lookback` months below it, most recent
// first, using calendar month arithmetic (202501 minus 2 months is 202411).
// A cached token from a previous success is prepended as the highest
// confidence guess. Duplicates are removed, first occurrence wins.
func buildCandidates(lock, startMonth string, lookback int, cached string) ([]string, error) {
	if lock != "" {
		if _, err := parseVersionToken(lock); err != nil {
			return nil, err
		}
		return []string{lock}, nil
	}

	start := time.Now().UTC()
	if startMonth != "" {
		parsed, err := parseVersionToken(startMonth)
		if err != nil {
			return nil, err
		}
		start = parsed
	}
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	candidates := make([]string, 0, lookback+2)
	if cached != "" {
		candidates = append(candidates, cached)
	}

	// Normalize to the first of the month so subtraction never rolls over
	// day-of-month boundaries (e.g. March 31 minus one month).
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= lookback; i++ {
		candidates = append(candidates, first.AddDate(0, -i, 0).Format(versionFormat))
	}

	return dedupe(candidates), nil
}

// dedupe removes duplicate tokens preserving first occurrence order.
func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
