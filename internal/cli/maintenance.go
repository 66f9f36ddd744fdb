// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warpkeeper/warpkeeper/internal/db"
	"github.com/warpkeeper/warpkeeper/internal/i18n"
)

// dbMaintainCmd runs backend-specific database maintenance.
var dbMaintainCmd = &cobra.Command{
	Use:   "db-maintain",
	Short: "Run database maintenance (VACUUM, optimize, integrity check)",
	Long: `Runs backend-specific maintenance against the configured database:
SQLite gets PRAGMA optimize, VACUUM, a WAL checkpoint and an integrity
check; PostgreSQL gets VACUUM ANALYZE; MySQL gets OPTIMIZE TABLE.

The maintenance runs on a dedicated connection, so the regular pool is
unaffected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.RunDBMaintenance(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return fmt.Errorf("maintenance failed: %w", err)
		}
		fmt.Println(i18n.T("cli.maintenance_done"))
		return nil
	},
}
