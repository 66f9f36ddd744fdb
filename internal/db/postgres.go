// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides the data access layer for Warpkeeper.
// This file contains the PostgreSQL implementation of the database store.
// Note: This implementation is considered experimental.
package db

import (
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/uptrace/bun"
	"github.com/warpkeeper/warpkeeper/internal/model"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
// All operations are delegated to the dialect-agnostic Bun helpers.
type PostgresStore struct {
	bun *bun.DB
}

func (s *PostgresStore) GetAllAccounts() ([]model.AccountSummary, error) {
	return GetAllAccountsBun(s.bun)
}

func (s *PostgresStore) GetActiveAccount() (*model.Account, error) {
	return GetActiveAccountBun(s.bun)
}

func (s *PostgresStore) GetAccount(email string) (*model.Account, error) {
	return GetAccountBun(s.bun, email)
}

func (s *PostgresStore) GetStats() (model.Stats, error) {
	return GetStatsBun(s.bun)
}

func (s *PostgresStore) UpsertAccount(email, token string) (bool, error) {
	return UpsertAccountBun(s.bun, email, token)
}

func (s *PostgresStore) DeleteAccount(email string) (int64, error) {
	return DeleteAccountBun(s.bun, email)
}

func (s *PostgresStore) BanAccount(email string) error {
	return BanAccountBun(s.bun, email)
}

func (s *PostgresStore) ClearAllActive() error {
	return ClearAllActiveBun(s.bun)
}

func (s *PostgresStore) ActivateAccount(email string) (bool, error) {
	return ActivateAccountBun(s.bun, email)
}

func (s *PostgresStore) SwitchActiveAccount() (*model.Account, error) {
	return SwitchActiveAccountBun(s.bun)
}

func (s *PostgresStore) ActivateAccountExclusive(email string) (*model.Account, error) {
	return ActivateAccountExclusiveBun(s.bun, email)
}

func (s *PostgresStore) ExportData() (*model.BackupData, error) {
	return ExportDataBun(s.bun)
}

func (s *PostgresStore) ImportData(backup *model.BackupData) error {
	return ImportDataBun(s.bun, backup)
}

func (s *PostgresStore) Close() error {
	return s.bun.Close()
}
