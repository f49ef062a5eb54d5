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

// Package feed implements the feed read command.
package feed

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/linkpost/internal/commands/shared"
	"github.com/tombee/linkpost/internal/log"
)

// NewCommand creates the feed command.
func NewCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show your most recent posts",
		Long: `Read back your most recent posts, newest modified first.

Reading the feed needs a token with a member read scope; tokens without it
get an empty result rather than an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(log.FromEnv())
			ctx := cmd.Context()

			client, _, err := shared.NewClient(ctx, logger)
			if err != nil {
				return err
			}

			entries, err := client.ReadLatest(ctx, count)
			if err != nil {
				return shared.ClassifyError(err)
			}

			if shared.GetJSON() {
				out, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return shared.ClassifyError(err)
				}
				cmd.Println(string(out))
				return nil
			}

			if len(entries) == 0 {
				cmd.Println("No posts available (the token may lack a read scope).")
				return nil
			}

			for _, entry := range entries {
				cmd.Printf("%s\n", entry.ID())
				text := strings.TrimSpace(entry.Commentary())
				if text != "" {
					cmd.Printf("  %s\n", text)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 3, "Number of posts to fetch")

	return cmd
}
