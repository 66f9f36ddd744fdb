// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/warpkeeper/warpkeeper/internal/model"
)

// Store defines the interface for all database operations in Warpkeeper.
// This allows for multiple database backends to be implemented.
//
// Every mutating method commits as a single transaction; at every committed
// state at most one account row is active and no banned row is active.
type Store interface {
	// Read methods
	GetAllAccounts() ([]model.AccountSummary, error)
	GetActiveAccount() (*model.Account, error)
	GetAccount(email string) (*model.Account, error)
	GetStats() (model.Stats, error)

	// Mutation methods
	UpsertAccount(email, token string) (created bool, err error)
	DeleteAccount(email string) (removed int64, err error)
	BanAccount(email string) error
	ClearAllActive() error
	ActivateAccount(email string) (updated bool, err error)

	// Composite transactional methods
	SwitchActiveAccount() (*model.Account, error)
	ActivateAccountExclusive(email string) (*model.Account, error)

	// Backup methods
	ExportData() (*model.BackupData, error)
	ImportData(backup *model.BackupData) error

	Close() error
}
