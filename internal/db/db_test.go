// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	s, err := New("sqlite", dsn)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// checkInvariants asserts that at most one account is active and that no
// banned account is active.
func checkInvariants(t *testing.T, s Store) {
	t.Helper()
	accounts, err := s.GetAllAccounts()
	if err != nil {
		t.Fatalf("GetAllAccounts failed: %v", err)
	}
	activeCount := 0
	for _, a := range accounts {
		if a.IsActive {
			activeCount++
		}
		if a.IsBanned && a.IsActive {
			t.Fatalf("account %s is both banned and active", a.Email)
		}
	}
	if activeCount > 1 {
		t.Fatalf("expected at most one active account, found %d", activeCount)
	}
}

func TestMigrations_Applied(t *testing.T) {
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	s, err := New("sqlite", dsn)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB for inspection: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	var version string
	if err := sqlDB.QueryRow("SELECT version FROM schema_migrations ORDER BY version LIMIT 1").Scan(&version); err != nil {
		t.Fatalf("failed to read schema_migrations: %v", err)
	}
	if version != "0001_create_accounts" {
		t.Fatalf("unexpected first migration version: %s", version)
	}
}

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New("oracle", "whatever"); err == nil {
		t.Fatalf("expected error for unsupported db type")
	}
}

func TestEmptyStore(t *testing.T) {
	s := newTestStore(t)

	active, err := s.GetActiveAccount()
	if err != nil {
		t.Fatalf("GetActiveAccount failed: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active account in empty store, got %v", active)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 0 || stats.Active != 0 || stats.Banned != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestUpsertAccount_InsertThenUpdate(t *testing.T) {
	s := newTestStore(t)

	created, err := s.UpsertAccount("a@example.com", "tok-1")
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !created {
		t.Fatalf("expected first upsert to create a row")
	}

	created, err = s.UpsertAccount("a@example.com", "tok-2")
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created {
		t.Fatalf("expected second upsert to update, not create")
	}

	acc, err := s.GetAccount("a@example.com")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if acc == nil {
		t.Fatalf("expected account to exist")
	}
	if acc.Token != "tok-2" {
		t.Fatalf("expected token to be refreshed to tok-2, got %s", acc.Token)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 1 {
		t.Fatalf("expected exactly one row after re-adding same email, got %d", stats.Total)
	}
}

func TestUpsertAccount_PreservesFlags(t *testing.T) {
	s := newTestStore(t)

	mustUpsert(t, s, "a@example.com", "tok-1")
	if _, err := s.ActivateAccount("a@example.com"); err != nil {
		t.Fatalf("activate failed: %v", err)
	}

	// Re-adding must not touch the active flag.
	mustUpsert(t, s, "a@example.com", "tok-2")
	acc, err := s.GetAccount("a@example.com")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !acc.IsActive {
		t.Fatalf("expected upsert to leave active flag untouched")
	}

	mustUpsert(t, s, "b@example.com", "tok-b")
	if err := s.BanAccount("b@example.com"); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	mustUpsert(t, s, "b@example.com", "tok-b2")
	acc, err = s.GetAccount("b@example.com")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !acc.IsBanned {
		t.Fatalf("expected upsert to leave banned flag untouched")
	}
}

func TestDeleteAccount_Idempotent(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, "a@example.com", "tok")

	removed, err := s.DeleteAccount("a@example.com")
	if err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed row, got %d", removed)
	}

	removed, err = s.DeleteAccount("a@example.com")
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed rows on second delete, got %d", removed)
	}
}

func TestBanAccount_ClearsActiveAndIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, "a@example.com", "tok")
	if _, err := s.ActivateAccount("a@example.com"); err != nil {
		t.Fatalf("activate failed: %v", err)
	}

	if err := s.BanAccount("a@example.com"); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	checkInvariants(t, s)

	acc, err := s.GetAccount("a@example.com")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !acc.IsBanned || acc.IsActive {
		t.Fatalf("expected banned and inactive, got banned=%t active=%t", acc.IsBanned, acc.IsActive)
	}

	// Banning again leaves state unchanged.
	if err := s.BanAccount("a@example.com"); err != nil {
		t.Fatalf("second ban failed: %v", err)
	}
	acc2, err := s.GetAccount("a@example.com")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if *acc2 != *acc {
		t.Fatalf("expected state unchanged after repeated ban")
	}

	// Banning an unknown email succeeds.
	if err := s.BanAccount("ghost@example.com"); err != nil {
		t.Fatalf("ban of unknown email failed: %v", err)
	}
}

func TestActivateAccount_RejectsBanned(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, "a@example.com", "tok")
	if err := s.BanAccount("a@example.com"); err != nil {
		t.Fatalf("ban failed: %v", err)
	}

	updated, err := s.ActivateAccount("a@example.com")
	if err != nil {
		t.Fatalf("ActivateAccount failed: %v", err)
	}
	if updated {
		t.Fatalf("expected activation of banned account to update zero rows")
	}
	checkInvariants(t, s)
}

func TestActivateAccountExclusive(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, "a@example.com", "tok-a")
	mustUpsert(t, s, "b@example.com", "tok-b")

	acc, err := s.ActivateAccountExclusive("a@example.com")
	if err != nil {
		t.Fatalf("ActivateAccountExclusive failed: %v", err)
	}
	if acc.Email != "a@example.com" || !acc.IsActive {
		t.Fatalf("unexpected activation result: %+v", acc)
	}
	checkInvariants(t, s)

	// Switching the exclusive activation moves the flag, never duplicates it.
	if _, err := s.ActivateAccountExclusive("b@example.com"); err != nil {
		t.Fatalf("second ActivateAccountExclusive failed: %v", err)
	}
	checkInvariants(t, s)
	active, err := s.GetActiveAccount()
	if err != nil {
		t.Fatalf("GetActiveAccount failed: %v", err)
	}
	if active == nil || active.Email != "b@example.com" {
		t.Fatalf("expected b@example.com active, got %v", active)
	}
}

func TestActivateAccountExclusive_NotFoundLeavesNoActive(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, "a@example.com", "tok-a")
	mustUpsert(t, s, "banned@example.com", "tok-b")
	if err := s.BanAccount("banned@example.com"); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	if _, err := s.ActivateAccountExclusive("a@example.com"); err != nil {
		t.Fatalf("activation failed: %v", err)
	}

	// Activating a banned account fails and leaves the table with no active
	// account: not the banned one, not the previous one.
	_, err := s.ActivateAccountExclusive("banned@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	active, err := s.GetActiveAccount()
	if err != nil {
		t.Fatalf("GetActiveAccount failed: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active account after rejected activation, got %v", active)
	}

	// Unknown email behaves the same.
	_, err = s.ActivateAccountExclusive("ghost@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown email, got %v", err)
	}
	checkInvariants(t, s)
}

func TestGetAllAccounts_OrderingAndTokenWithheld(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, "old@example.com", "tok-1")
	mustUpsert(t, s, "new@example.com", "tok-2")
	if _, err := s.ActivateAccountExclusive("old@example.com"); err != nil {
		t.Fatalf("activation failed: %v", err)
	}

	accounts, err := s.GetAllAccounts()
	if err != nil {
		t.Fatalf("GetAllAccounts failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	// Active account sorts first even though it is not the most recently added.
	if accounts[0].Email != "old@example.com" || !accounts[0].IsActive {
		t.Fatalf("expected active account first, got %+v", accounts[0])
	}
	for _, a := range accounts {
		if !a.HasToken {
			t.Fatalf("expected HasToken for %s", a.Email)
		}
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	mustUpsert(t, s, "a@example.com", "tok-a")
	mustUpsert(t, s, "b@example.com", "tok-b")
	mustUpsert(t, s, "c@example.com", "tok-c")
	if _, err := s.ActivateAccountExclusive("a@example.com"); err != nil {
		t.Fatalf("activation failed: %v", err)
	}
	if err := s.BanAccount("c@example.com"); err != nil {
		t.Fatalf("ban failed: %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 3 || stats.Active != 1 || stats.Banned != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func mustUpsert(t *testing.T, s Store, email, token string) {
	t.Helper()
	if _, err := s.UpsertAccount(email, token); err != nil {
		t.Fatalf("upsert %s failed: %v", email, err)
	}
}
