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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/linkpost/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for linkpost
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkpost",
		Short: "linkpost - publish to LinkedIn from the command line",
		Long: `linkpost publishes text posts to LinkedIn and reads back your recent
posts, negotiating a working LinkedIn-Version automatically.

Run 'linkpost auth set-token' to store your access token.
Run 'linkpost verify' to check credentials and API version.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	// Get flag pointers from shared package
	yes, json, config, apiVersion := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(yes, "yes", "y", false, "Assume yes for confirmation prompts")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (default: ~/.config/linkpost/config.yaml)")
	cmd.PersistentFlags().StringVar(apiVersion, "api-version", "", "Pin a LinkedIn API version (YYYYMM) and skip negotiation")

	return cmd
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
