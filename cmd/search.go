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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	lethu "github.com/gamecoded/lethu/controller"
)

func searchCommand() *cobra.Command {
	var (
		language string
		k        int
	)

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Show the reference snippets retrieved for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if k <= 0 {
				k = a.cfg.Retrieval.K
			}

			snippets := a.searcher().Search(ctx, query, k)
			if language != "" {
				lang, ok := lethu.ParseLanguage(language)
				if !ok {
					return fmt.Errorf("unknown language %q", language)
				}
				snippets = lethu.FilterByLanguage(snippets, lang)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Top %d snippets:\n", len(snippets))
			for i, s := range snippets {
				tag := s.Tag
				if tag == "" {
					tag = "-"
				}
				fmt.Fprintf(out, "%d. [%s] %s\n", i+1, tag, s.Text)
			}
			return nil
		},
	}

	searchCmd.Flags().StringVarP(&language, "language", "l", "", "keep only snippets for this language")
	searchCmd.Flags().IntVarP(&k, "k", "k", 0, "number of snippets to retrieve (default retrieval.k)")
	return searchCmd
}
