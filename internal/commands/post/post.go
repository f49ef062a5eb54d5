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

// Package post implements the publish command.
package post

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/linkpost/internal/commands/shared"
	"github.com/tombee/linkpost/internal/log"
	"github.com/tombee/linkpost/pkg/linkedin"
)

// NewCommand creates the post command.
func NewCommand() *cobra.Command {
	var (
		dryRun     bool
		force      bool
		visibility string
	)

	cmd := &cobra.Command{
		Use:   "post [text]",
		Short: "Publish a text post",
		Long: `Publish a text post to your LinkedIn feed.

The text comes from the argument, or from stdin when no argument is given.
Posting is not idempotent: every accepted request creates a new post, so
linkpost asks for confirmation and refuses to repeat your most recent post
verbatim unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := postText(cmd, args)
			if err != nil {
				return err
			}

			logger := log.New(log.FromEnv())
			ctx := cmd.Context()

			client, cfg, err := shared.NewClient(ctx, logger)
			if err != nil {
				return err
			}

			if visibility == "" {
				visibility = cfg.LinkedIn.Visibility
			}

			if dryRun {
				client.Preview(text)
				result, err := client.Post(ctx, text, linkedin.PostOptions{
					Visibility: visibility,
					DryRun:     true,
				})
				if err != nil {
					return shared.ClassifyError(err)
				}
				cmd.Println(result)
				return nil
			}

			if !force {
				if err := checkDuplicate(cmd, client, text); err != nil {
					return err
				}
			}

			client.Preview(text)
			ok, err := shared.Confirm(fmt.Sprintf("Publish this post as %s?", client.Profile().DisplayName()))
			if err != nil {
				return shared.ClassifyError(err)
			}
			if !ok {
				return shared.NewCancelledError("post cancelled")
			}

			id, err := client.Post(ctx, text, linkedin.PostOptions{Visibility: visibility})
			if err != nil {
				return shared.ClassifyError(err)
			}

			if shared.GetJSON() {
				out, _ := json.MarshalIndent(map[string]string{"post_id": id}, "", "  ")
				cmd.Println(string(out))
				return nil
			}

			cmd.Printf("Published: %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the payload without posting")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the duplicate-post check")
	cmd.Flags().StringVar(&visibility, "visibility", "", "Post visibility (PUBLIC or CONNECTIONS)")

	return cmd
}

// postText resolves the post body from the argument or stdin.
func postText(cmd *cobra.Command, args []string) (string, error) {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", shared.ClassifyError(err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", shared.NewConfigError("nothing to post: provide text as an argument or on stdin", nil)
	}
	return text, nil
}

// checkDuplicate refuses to repeat the most recent post verbatim. A feed
// read that is forbidden for this token yields no entries and the check
// passes; publishing should not require a read scope.
func checkDuplicate(cmd *cobra.Command, client *linkedin.Client, text string) error {
	entries, err := client.ReadLatest(cmd.Context(), 1)
	if err != nil {
		return shared.ClassifyError(err)
	}
	if len(entries) > 0 && strings.TrimSpace(entries[0].Commentary()) == text {
		return shared.NewCancelledError("identical to your most recent post; use --force to post anyway")
	}
	return nil
}
