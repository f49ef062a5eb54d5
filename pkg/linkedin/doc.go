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

// Package linkedin implements a client for the LinkedIn Posts API that
// negotiates the LinkedIn-Version header automatically.
//
// LinkedIn retires API version months on a rolling, undocumented schedule.
// Rather than hardcoding a month and breaking when it is deprecated, the
// client builds an ordered list of YYYYMM candidates (current UTC month and a
// few months back), probes downward on version-related rejections, and pins
// the first month the server accepts. The accepted month is also published to
// a process-wide cache so later clients start from a known-good value.
//
// Construction resolves the caller's profile through the userinfo endpoint,
// which both validates the bearer token and discovers the author URN used in
// post payloads:
//
//	client, err := linkedin.New(ctx, linkedin.Config{AccessToken: token})
//	if err != nil {
//	    return err
//	}
//	id, err := client.Post(ctx, "Hello from Go!", linkedin.PostOptions{})
//
// Errors are typed (see pkg/errors): an expired token surfaces as
// *errors.AuthExpiredError and stops probing immediately, exhausting every
// candidate surfaces as *errors.VersionExhaustedError with the full attempt
// list, and ordinary API failures surface as *errors.RemoteAPIError.
package linkedin
