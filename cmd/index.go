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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	lethu "github.com/gamecoded/lethu/controller"
)

func indexCommand() *cobra.Command {
	var rebuild bool

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector store from the knowledge file",
		Long: `Build the vector store from the knowledge file.

Nothing is done when the store directory already exists. Use --rebuild after
editing the knowledge file to discard the store and index it again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.backend == nil {
				return errors.New("vector store unavailable, run with --debug for details")
			}

			records, err := a.loadRecords(ctx)
			if err != nil {
				return err
			}

			indexer := lethu.NewIndexer(a.cfg.Store.Dir, a.backend, a.log)
			run := indexer.EnsureIndexed
			if rebuild {
				run = indexer.Rebuild
			}

			indexed, err := run(ctx, records)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !indexed {
				fmt.Fprintf(out, "Store %s already exists, nothing to do (use --rebuild to index again).\n", a.cfg.Store.Dir)
				return nil
			}
			fmt.Fprintf(out, "Indexed %d records into %s (%s backend).\n", len(records), a.cfg.Store.Dir, a.backend.Name)
			return nil
		},
	}

	indexCmd.Flags().BoolVar(&rebuild, "rebuild", false, "discard the existing store and index again")
	return indexCmd
}
