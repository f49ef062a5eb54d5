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
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tombee/linkpost/pkg/errors"
)

// FeedEntry is one post from the author's feed. LinkedIn's post schema is
// wide and version-dependent; entries are kept as raw objects with typed
// access to the commonly used fields.
type FeedEntry map[string]any

// ID returns the post URN, or "".
func (e FeedEntry) ID() string {
	id, _ := e["id"].(string)
	return id
}

// Commentary returns the post text, or "".
func (e FeedEntry) Commentary() string {
	text, _ := e["commentary"].(string)
	return text
}

// feedResponse is the Posts API list envelope.
type feedResponse struct {
	Elements []FeedEntry `json:"elements"`
}

// ReadLatest fetches the author's most recent posts, newest modified first.
//
// Reading the member feed needs a scope (r_member_social) many tokens lack,
// so a 403 is an expected outcome rather than a failure: it returns a nil
// slice and no error. Other non-2xx statuses are errors.
func (c *Client) ReadLatest(ctx context.Context, count int) ([]FeedEntry, error) {
	if count <= 0 {
		count = 1
	}

	query := url.Values{}
	query.Set("q", "author")
	query.Set("author", c.profile.AuthorURN())
	query.Set("count", strconv.Itoa(count))
	query.Set("sortBy", "LAST_MODIFIED")

	resp, err := c.execute(ctx, "GET", c.postsURL, requestOptions{
		query: query,
		// GET with no body: the gateway rejects a Content-Type here.
		omitHeaders: []string{"Content-Type"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading feed")
	}

	if resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("feed read forbidden, token lacks read scope")
		return nil, nil
	}
	if err := resp.Err(); err != nil {
		return nil, errors.Wrap(err, "reading feed")
	}

	var feed feedResponse
	if err := resp.JSON(&feed); err != nil {
		return nil, errors.Wrap(err, "decoding feed response")
	}

	return feed.Elements, nil
}
