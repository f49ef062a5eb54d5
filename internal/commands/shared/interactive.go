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

package shared

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks the user a yes/no question. The --yes flag pre-approves it;
// a non-interactive session without --yes refuses rather than guessing.
func Confirm(message string) (bool, error) {
	if GetYes() {
		return true, nil
	}
	if !IsInteractive() {
		return false, fmt.Errorf("cannot confirm %q in non-interactive mode (use --yes)", message)
	}

	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

// ReadHiddenLine reads a line from the terminal with echo disabled,
// for entering credentials.
func ReadHiddenLine(promptText string) (string, error) {
	if !IsInteractive() {
		return "", fmt.Errorf("cannot prompt for secrets in non-interactive mode")
	}

	fmt.Fprint(os.Stderr, promptText)
	line, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(line), nil
}
