// Copyright (c) 2025 Reza Arani
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	lethu "github.com/gamecoded/lethu/controller"
)

var (
	configPath string
	debug      bool
)

// RootCmd runs the interactive tutor.
var RootCmd = &cobra.Command{
	Use:          "lethu",
	Short:        "Lethu is a coding tutor for Python, HTML, CSS and JavaScript",
	Long:         `Lethu answers coding questions about Python, HTML, CSS and JavaScript using a local language model and a small reference knowledge base.`,
	SilenceUsage: true,
	RunE:         runTutor,
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
// After the first signal the default handling is restored, so a second Ctrl-C
// kills the process.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default lethu.yaml when present)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print recoverable errors and debug logs to stderr")

	RootCmd.AddCommand(
		indexCommand(),
		searchCommand(),
	)
}

func runTutor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.loadRecords(ctx)
	if err != nil {
		return err
	}

	if a.backend != nil {
		if _, err := lethu.NewIndexer(a.cfg.Store.Dir, a.backend, a.log).EnsureIndexed(ctx, records); err != nil {
			a.log.Warn("cmd", "indexing failed, answering without reference context", map[string]interface{}{"error": err.Error()})
		}
	}

	tutor, err := a.newTutor()
	if err != nil {
		return err
	}

	console := lethu.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	console.Markdown = a.cfg.Console.Markdown

	session := lethu.NewSession(console, a.searcher(), tutor, lethu.SessionConfig{
		K:         a.cfg.Retrieval.K,
		AskLevel:  a.cfg.Tutor.AskLevel,
		FollowUps: a.cfg.Tutor.FollowUps,
	}, a.log)
	if tutor.CanStream() {
		session.Streamer = tutor
	}

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
