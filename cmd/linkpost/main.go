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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tombee/linkpost/internal/cli"
	"github.com/tombee/linkpost/internal/commands/auth"
	"github.com/tombee/linkpost/internal/commands/feed"
	"github.com/tombee/linkpost/internal/commands/post"
	"github.com/tombee/linkpost/internal/commands/verify"
	versioncmd "github.com/tombee/linkpost/internal/commands/version"
	"github.com/tombee/linkpost/internal/tracing"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Setup("linkpost", version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tracing disabled: %v\n", err)
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	rootCmd := cli.NewRootCommand()
	rootCmd.AddCommand(auth.NewCommand())
	rootCmd.AddCommand(post.NewCommand())
	rootCmd.AddCommand(feed.NewCommand())
	rootCmd.AddCommand(verify.NewCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.HandleExitError(err)
	}
}
