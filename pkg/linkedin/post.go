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
	"encoding/json"
	"strings"

	"github.com/tombee/linkpost/pkg/errors"
)

// DryRunResult is returned by Post when PostOptions.DryRun is set.
const DryRunResult = "dry_run"

// restliIDHeader carries the created entity's identifier on a successful
// publish. Header name is a fixed contract with the Rest.li gateway.
const restliIDHeader = "x-restli-id"

// PostDraft is the Posts API request body. The shape is a bit-exact contract
// with the remote API; field names and the static distribution block must
// not change.
type PostDraft struct {
	Author                    string       `json:"author"`
	Commentary                string       `json:"commentary"`
	Visibility                string       `json:"visibility"`
	Distribution              Distribution `json:"distribution"`
	LifecycleState            string       `json:"lifecycleState"`
	IsReshareDisabledByAuthor bool         `json:"isReshareDisabledByAuthor"`
}

// Distribution is the static feed distribution block: main feed, no
// targeting, no third-party channels.
type Distribution struct {
	FeedDistribution               string   `json:"feedDistribution"`
	TargetEntities                 []string `json:"targetEntities"`
	ThirdPartyDistributionChannels []string `json:"thirdPartyDistributionChannels"`
}

// PostOptions configures a publish call.
type PostOptions struct {
	// Visibility of the post. Default: DefaultVisibility ("PUBLIC").
	Visibility string

	// DryRun previews the composed payload without any network call and
	// makes Post return DryRunResult.
	DryRun bool
}

// Draft composes the publish payload for the given text and visibility
// without sending it. Exposed so callers can inspect exactly what a publish
// would submit.
func (c *Client) Draft(text, visibility string) PostDraft {
	if visibility == "" {
		visibility = DefaultVisibility
	}
	return PostDraft{
		Author:     c.profile.AuthorURN(),
		Commentary: text,
		Visibility: visibility,
		Distribution: Distribution{
			FeedDistribution:               "MAIN_FEED",
			TargetEntities:                 []string{},
			ThirdPartyDistributionChannels: []string{},
		},
		LifecycleState:            "PUBLISHED",
		IsReshareDisabledByAuthor: false,
	}
}

// Preview logs a human-readable preview of the post text.
func (c *Client) Preview(text string) {
	bar := strings.Repeat("-", 40)
	c.logger.Info("linkedin post preview\n" + bar + "\n" + text + "\n" + bar)
}

// Post publishes a text post and returns the created post identifier from
// the x-restli-id response header. With opts.DryRun set it performs zero
// network calls, logs the composed payload, and returns DryRunResult.
//
// Posting is not idempotent: the API creates a new post on every successful
// call. Callers that might repeat themselves (agents, retry loops) should
// suppress immediate identical re-posts on their side.
func (c *Client) Post(ctx context.Context, text string, opts PostOptions) (string, error) {
	draft := c.Draft(text, opts.Visibility)

	payload, err := json.Marshal(draft)
	if err != nil {
		return "", errors.Wrap(err, "encoding post payload")
	}

	if opts.DryRun {
		pretty, _ := json.MarshalIndent(draft, "", "  ")
		c.logger.Info("dry run, not posting", "payload", string(pretty))
		return DryRunResult, nil
	}

	resp, err := c.execute(ctx, "POST", c.postsURL, requestOptions{body: payload})
	if err != nil {
		return "", errors.Wrap(err, "publishing post")
	}
	if err := resp.Err(); err != nil {
		return "", errors.Wrap(err, "publishing post")
	}

	id := resp.Header.Get(restliIDHeader)
	if id == "" {
		return "", &errors.RemoteAPIError{
			StatusCode: resp.StatusCode,
			Endpoint:   c.postsURL,
			Body:       "response missing " + restliIDHeader + " header",
		}
	}

	c.logger.Info("post published", "post_id", id, "visibility", draft.Visibility)
	return id, nil
}
