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

	"github.com/tombee/linkpost/pkg/errors"
)

// Profile is the member identity resolved from the userinfo endpoint.
type Profile struct {
	// Sub is the OpenID subject identifier for the member.
	Sub string `json:"sub"`

	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// AuthorURN returns the member URN used as the author of posts.
func (p Profile) AuthorURN() string {
	return "urn:li:person:" + p.Sub
}

// DisplayName returns "Given Family", tolerating either part being absent.
func (p Profile) DisplayName() string {
	switch {
	case p.GivenName == "":
		return p.FamilyName
	case p.FamilyName == "":
		return p.GivenName
	default:
		return p.GivenName + " " + p.FamilyName
	}
}

// resolveProfile fetches the member identity. Any failure here is fatal for
// client construction: without a subject id there is no author URN and no
// usable session.
func (c *Client) resolveProfile(ctx context.Context) error {
	resp, err := c.execute(ctx, "GET", c.userinfoURL, requestOptions{})
	if err != nil {
		return errors.Wrap(err, "resolving profile")
	}
	if err := resp.Err(); err != nil {
		return errors.Wrap(err, "resolving profile")
	}

	var profile Profile
	if err := resp.JSON(&profile); err != nil {
		return errors.Wrap(err, "decoding userinfo response")
	}
	if profile.Sub == "" {
		return &errors.RemoteAPIError{
			StatusCode: resp.StatusCode,
			Endpoint:   c.userinfoURL,
			Body:       "userinfo response missing subject identifier",
		}
	}

	c.profile = profile
	return nil
}
