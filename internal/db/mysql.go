// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides the data access layer for Warpkeeper.
// This file contains the MySQL implementation of the database store.
// Note: This implementation is considered experimental.
package db

import (
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/uptrace/bun"
	"github.com/warpkeeper/warpkeeper/internal/model"
)

// MySQLStore is the MySQL implementation of the Store interface.
// All operations are delegated to the dialect-agnostic Bun helpers.
type MySQLStore struct {
	bun *bun.DB
}

func (s *MySQLStore) GetAllAccounts() ([]model.AccountSummary, error) {
	return GetAllAccountsBun(s.bun)
}

func (s *MySQLStore) GetActiveAccount() (*model.Account, error) {
	return GetActiveAccountBun(s.bun)
}

func (s *MySQLStore) GetAccount(email string) (*model.Account, error) {
	return GetAccountBun(s.bun, email)
}

func (s *MySQLStore) GetStats() (model.Stats, error) {
	return GetStatsBun(s.bun)
}

func (s *MySQLStore) UpsertAccount(email, token string) (bool, error) {
	return UpsertAccountBun(s.bun, email, token)
}

func (s *MySQLStore) DeleteAccount(email string) (int64, error) {
	return DeleteAccountBun(s.bun, email)
}

func (s *MySQLStore) BanAccount(email string) error {
	return BanAccountBun(s.bun, email)
}

func (s *MySQLStore) ClearAllActive() error {
	return ClearAllActiveBun(s.bun)
}

func (s *MySQLStore) ActivateAccount(email string) (bool, error) {
	return ActivateAccountBun(s.bun, email)
}

func (s *MySQLStore) SwitchActiveAccount() (*model.Account, error) {
	return SwitchActiveAccountBun(s.bun)
}

func (s *MySQLStore) ActivateAccountExclusive(email string) (*model.Account, error) {
	return ActivateAccountExclusiveBun(s.bun, email)
}

func (s *MySQLStore) ExportData() (*model.BackupData, error) {
	return ExportDataBun(s.bun)
}

func (s *MySQLStore) ImportData(backup *model.BackupData) error {
	return ImportDataBun(s.bun, backup)
}

func (s *MySQLStore) Close() error {
	return s.bun.Close()
}
