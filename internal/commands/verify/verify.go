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

// Package verify implements the credential check command.
package verify

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/tombee/linkpost/internal/commands/shared"
	"github.com/tombee/linkpost/internal/log"
)

// result is the verification output.
type result struct {
	Name       string `json:"name"`
	AuthorURN  string `json:"author_urn"`
	APIVersion string `json:"api_version"`
}

// NewCommand creates the verify command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check credentials and API version",
		Long: `Verify the stored access token by resolving your member profile and
negotiating a working LinkedIn-Version. Makes no changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(log.FromEnv())

			client, _, err := shared.NewClient(cmd.Context(), logger)
			if err != nil {
				return err
			}

			profile := client.Profile()
			res := result{
				Name:       profile.DisplayName(),
				AuthorURN:  profile.AuthorURN(),
				APIVersion: client.Version(),
			}

			if shared.GetJSON() {
				out, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return shared.ClassifyError(err)
				}
				cmd.Println(string(out))
				return nil
			}

			cmd.Printf("Authenticated as %s\n", res.Name)
			cmd.Printf("  author:      %s\n", res.AuthorURN)
			cmd.Printf("  api version: %s\n", res.APIVersion)
			return nil
		},
	}
}
