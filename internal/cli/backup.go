// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/warpkeeper/warpkeeper/internal/i18n"
	"github.com/warpkeeper/warpkeeper/internal/model"
)

// backupCmd dumps all accounts into a zstd-compressed JSON file.
var backupCmd = &cobra.Command{
	Use:   "backup [output-file]",
	Short: "Create a compressed (zstd) JSON backup of the account pool",
	Long: `Dumps the entire account pool, including tokens and status flags,
into a single Zstandard-compressed JSON file.

If an output file is specified, '.zst' is appended when missing. With no
argument a default name 'warpkeeper-backup-YYYY-MM-DD.json.zst' is used.

The file can be used for disaster recovery or for migrating the pool to
a different database backend.

Examples:
  warpkeeper backup
  warpkeeper backup my-backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("warpkeeper-backup-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}

		data, err := store.ExportData()
		if err != nil {
			return fmt.Errorf("could not export accounts: %w", err)
		}
		if err := writeCompressedBackup(outputFile, data); err != nil {
			return err
		}
		fmt.Println(i18n.Td("cli.backup_written", map[string]any{"Path": outputFile}))
		return nil
	},
}

// restoreCmd replaces the whole pool with the contents of a backup file.
var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file.zst>",
	Short: "Restore the account pool from a compressed JSON backup",
	Long: `Restores the account pool from a Zstandard-compressed JSON backup
file created by 'warpkeeper backup'.

This is a destructive operation: all existing accounts are wiped and
replaced by the backup contents in one transaction.

Examples:
  warpkeeper restore ./warpkeeper-backup-2026-08-31.json.zst
  warpkeeper restore -y ./warpkeeper-backup-2026-08-31.json.zst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readCompressedBackup(args[0])
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Printf("This will replace all existing accounts with %d accounts from the backup. Continue? [y/N] ", len(data.Accounts))
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := store.ImportData(data); err != nil {
			return fmt.Errorf("could not import accounts: %w", err)
		}
		fmt.Println(i18n.Td("cli.backup_restored", map[string]any{
			"Count": len(data.Accounts),
			"Path":  args[0],
		}))
		return nil
	},
}

// writeCompressedBackup streams the JSON encoding directly into the zstd
// writer.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return zstdWriter.Close()
}

// readCompressedBackup reads and decodes a zstd-compressed JSON backup file.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open backup file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &backupData, nil
}
