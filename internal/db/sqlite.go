// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides the data access layer for Warpkeeper.
// This file contains the SQLite implementation of the database store.
package db

import (
	"github.com/uptrace/bun"
	"github.com/warpkeeper/warpkeeper/internal/model"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SqliteStore is the SQLite implementation of the Store interface. It is the
// default backend: a single file under the user data directory, created on
// first startup.
type SqliteStore struct {
	bun *bun.DB
}

// GetAllAccounts retrieves summaries for all accounts, active first.
func (s *SqliteStore) GetAllAccounts() ([]model.AccountSummary, error) {
	return GetAllAccountsBun(s.bun)
}

// GetActiveAccount retrieves the active, unbanned account, or nil when none.
func (s *SqliteStore) GetActiveAccount() (*model.Account, error) {
	return GetActiveAccountBun(s.bun)
}

// GetAccount retrieves a single account by email, or nil when absent.
func (s *SqliteStore) GetAccount(email string) (*model.Account, error) {
	return GetAccountBun(s.bun, email)
}

// GetStats returns table-wide counters.
func (s *SqliteStore) GetStats() (model.Stats, error) {
	return GetStatsBun(s.bun)
}

// UpsertAccount inserts a fresh account or refreshes the token on an
// existing one.
func (s *SqliteStore) UpsertAccount(email, token string) (bool, error) {
	return UpsertAccountBun(s.bun, email, token)
}

// DeleteAccount removes an account by email. Idempotent.
func (s *SqliteStore) DeleteAccount(email string) (int64, error) {
	return DeleteAccountBun(s.bun, email)
}

// BanAccount marks an account banned and inactive. Idempotent.
func (s *SqliteStore) BanAccount(email string) error {
	return BanAccountBun(s.bun, email)
}

// ClearAllActive deactivates every account.
func (s *SqliteStore) ClearAllActive() error {
	return ClearAllActiveBun(s.bun)
}

// ActivateAccount activates a single unbanned account and reports whether a
// row was updated.
func (s *SqliteStore) ActivateAccount(email string) (bool, error) {
	return ActivateAccountBun(s.bun, email)
}

// SwitchActiveAccount rotates to the least-recently-used other account.
func (s *SqliteStore) SwitchActiveAccount() (*model.Account, error) {
	return SwitchActiveAccountBun(s.bun)
}

// ActivateAccountExclusive clears all active flags and activates the named
// account in one transaction.
func (s *SqliteStore) ActivateAccountExclusive(email string) (*model.Account, error) {
	return ActivateAccountExclusiveBun(s.bun, email)
}

// ExportData exports all accounts for a backup.
func (s *SqliteStore) ExportData() (*model.BackupData, error) {
	return ExportDataBun(s.bun)
}

// ImportData restores accounts from a backup, replacing existing data.
func (s *SqliteStore) ImportData(backup *model.BackupData) error {
	return ImportDataBun(s.bun, backup)
}

// Close releases the underlying database handle.
func (s *SqliteStore) Close() error {
	return s.bun.Close()
}
