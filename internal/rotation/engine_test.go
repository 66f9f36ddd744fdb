// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package rotation

import (
	"errors"
	"testing"

	"github.com/warpkeeper/warpkeeper/internal/db"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dsn := "file:test_rotation_" + t.Name() + "?mode=memory&cache=shared"
	s, err := db.New("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewEngine(s)
}

func TestEngine_AddListRemove(t *testing.T) {
	e := newTestEngine(t)

	created, err := e.AddAccount("a@example.com", "tok-a")
	if err != nil {
		t.Fatalf("AddAccount failed: %v", err)
	}
	if !created {
		t.Fatalf("expected account to be created")
	}

	created, err = e.AddAccount("a@example.com", "tok-a2")
	if err != nil {
		t.Fatalf("second AddAccount failed: %v", err)
	}
	if created {
		t.Fatalf("expected token refresh, not creation")
	}

	accounts, err := e.ListAccounts()
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Email != "a@example.com" {
		t.Fatalf("unexpected listing: %+v", accounts)
	}

	removed, err := e.RemoveAccount("a@example.com")
	if err != nil {
		t.Fatalf("RemoveAccount failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	// Removal is idempotent.
	removed, err = e.RemoveAccount("a@example.com")
	if err != nil {
		t.Fatalf("second RemoveAccount failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed on repeat, got %d", removed)
	}
}

func TestEngine_ActiveAccount_NotFoundWhenEmpty(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.ActiveAccount(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := e.GetAccount("ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown email, got %v", err)
	}
}

func TestEngine_SwitchAccount_Cycle(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "a@example.com", "tok-a")
	mustAdd(t, e, "b@example.com", "tok-b")

	first, err := e.SwitchAccount()
	if err != nil {
		t.Fatalf("first switch failed: %v", err)
	}
	second, err := e.SwitchAccount()
	if err != nil {
		t.Fatalf("second switch failed: %v", err)
	}
	if first.Email == second.Email {
		t.Fatalf("rotation re-selected the previous account %s", first.Email)
	}

	active, err := e.ActiveAccount()
	if err != nil {
		t.Fatalf("ActiveAccount failed: %v", err)
	}
	if active.Email != second.Email {
		t.Fatalf("expected %s active, got %s", second.Email, active.Email)
	}
	if active.Token == "" {
		t.Fatalf("expected active account to include its token")
	}
}

func TestEngine_SwitchAccount_Exhaustion(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "solo@example.com", "tok")
	if _, err := e.SwitchAccount(); err != nil {
		t.Fatalf("initial switch failed: %v", err)
	}

	// The sole unbanned account is current; rotation has nowhere to go.
	if _, err := e.SwitchAccount(); !errors.Is(err, ErrNoAccountsAvailable) {
		t.Fatalf("expected ErrNoAccountsAvailable, got %v", err)
	}
}

func TestEngine_BannedIsTerminal(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "a@example.com", "tok-a")
	mustAdd(t, e, "b@example.com", "tok-b")

	if err := e.BanAccount("b@example.com"); err != nil {
		t.Fatalf("BanAccount failed: %v", err)
	}
	// Banning again still succeeds.
	if err := e.BanAccount("b@example.com"); err != nil {
		t.Fatalf("repeated BanAccount failed: %v", err)
	}
	// Banning an unknown email reports success too.
	if err := e.BanAccount("ghost@example.com"); err != nil {
		t.Fatalf("BanAccount of unknown email failed: %v", err)
	}

	// No operation resurrects a banned account to active.
	if _, err := e.ActivateAccount("b@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound activating banned account, got %v", err)
	}
	acc, err := e.SwitchAccount()
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if acc.Email != "a@example.com" {
		t.Fatalf("rotation selected banned account: %s", acc.Email)
	}

	// A banned account can only be removed.
	removed, err := e.RemoveAccount("b@example.com")
	if err != nil {
		t.Fatalf("RemoveAccount failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected banned account to be removable")
	}
}

func TestEngine_ActivateAccount(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "a@example.com", "tok-a")
	mustAdd(t, e, "b@example.com", "tok-b")

	acc, err := e.ActivateAccount("b@example.com")
	if err != nil {
		t.Fatalf("ActivateAccount failed: %v", err)
	}
	if acc.Email != "b@example.com" || acc.Token != "tok-b" {
		t.Fatalf("unexpected activation result: %+v", acc)
	}

	stats, err := e.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 2 || stats.Active != 1 || stats.Banned != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func mustAdd(t *testing.T, e *Engine, email, token string) {
	t.Helper()
	if _, err := e.AddAccount(email, token); err != nil {
		t.Fatalf("AddAccount %s failed: %v", email, err)
	}
}
