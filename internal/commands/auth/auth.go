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

// Package auth manages the stored LinkedIn access token.
package auth

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/linkpost/internal/commands/shared"
	"github.com/tombee/linkpost/internal/log"
	"github.com/tombee/linkpost/internal/secrets"
)

// NewCommand creates the auth command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage LinkedIn credentials",
		Long:  `Store, inspect, and remove the LinkedIn access token in the system keychain.`,
	}

	cmd.AddCommand(newSetTokenCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newClearCommand())

	return cmd
}

func newSetTokenCommand() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store an access token in the system keychain",
		Long: `Store a LinkedIn access token in the system keychain.

The token is read from an interactive hidden prompt by default, or from
stdin with --stdin for scripted use. Tokens come from the LinkedIn
developer portal and need the w_member_social, openid, and profile scopes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			var err error

			if fromStdin {
				token, err = readLine(cmd)
			} else {
				token, err = shared.ReadHiddenLine("Access token: ")
			}
			if err != nil {
				return shared.NewAuthError("reading token", err)
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return shared.NewAuthError("empty token", nil)
			}

			if err := secrets.SetToken(token); err != nil {
				return shared.NewAuthError("storing token in keychain", err)
			}

			cmd.Printf("Stored token %s in keychain\n", log.SanitizeToken(token))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the token from stdin instead of prompting")

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show whether a token is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := secrets.GetToken()
			if err != nil {
				if errors.Is(err, secrets.ErrNotFound) {
					cmd.Println("No token stored. Run 'linkpost auth set-token'.")
					return nil
				}
				return shared.NewAuthError("reading keychain", err)
			}

			cmd.Printf("Token stored: %s\n", log.SanitizeToken(token))
			return nil
		},
	}
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.DeleteToken(); err != nil {
				return shared.NewAuthError("removing token from keychain", err)
			}
			cmd.Println("Token removed.")
			return nil
		},
	}
}

// readLine reads a single line from the command's stdin.
func readLine(cmd *cobra.Command) (string, error) {
	buf := make([]byte, 4096)
	n, err := cmd.InOrStdin().Read(buf)
	if n == 0 && err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
