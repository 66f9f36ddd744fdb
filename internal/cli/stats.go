// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// statsCmd prints pool-wide counters.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show account pool statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := engine.Stats()
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Total:\t%d\n", stats.Total)
		fmt.Fprintf(w, "Active:\t%s\n", activeBadge.Render(fmt.Sprintf("%d", stats.Active)))
		fmt.Fprintf(w, "Banned:\t%s\n", bannedBadge.Render(fmt.Sprintf("%d", stats.Banned)))
		return w.Flush()
	},
}
