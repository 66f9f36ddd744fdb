// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package rotation implements the account lifecycle on top of the store:
// least-recently-used rotation, explicit activation, banning, and removal.
// Each operation is one atomic unit of work against the store; the engine
// holds no account state of its own between calls.
package rotation

import (
	"errors"
	"fmt"

	"github.com/warpkeeper/warpkeeper/internal/db"
	"github.com/warpkeeper/warpkeeper/internal/model"
)

// ErrNotFound is returned when a requested account is absent or banned.
var ErrNotFound = errors.New("account not found or banned")

// ErrNoAccountsAvailable is returned when rotation finds no eligible candidate.
var ErrNoAccountsAvailable = errors.New("no accounts available")

// Engine exposes the account lifecycle as atomic operations. It is
// constructed once with a store handle and shared by all callers.
type Engine struct {
	store db.Store
}

// NewEngine builds an Engine backed by the given store.
func NewEngine(store db.Store) *Engine {
	return &Engine{store: store}
}

// SwitchAccount deactivates the current account and activates the
// least-recently-used unbanned account other than the current one. The
// previous account is never re-selected when an alternative exists.
func (e *Engine) SwitchAccount() (*model.Account, error) {
	acc, err := e.store.SwitchActiveAccount()
	if err != nil {
		if errors.Is(err, db.ErrNoCandidate) {
			return nil, ErrNoAccountsAvailable
		}
		return nil, fmt.Errorf("switch account: %w", err)
	}
	return acc, nil
}

// ActivateAccount makes the named account the single active one. A banned
// account can never be activated; in that case (or when the email is
// unknown) no account remains active and ErrNotFound is returned.
func (e *Engine) ActivateAccount(email string) (*model.Account, error) {
	acc, err := e.store.ActivateAccountExclusive(email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("activate account %s: %w", email, err)
	}
	return acc, nil
}

// BanAccount marks the account banned and inactive. Best-effort: banning an
// unknown email reports success.
func (e *Engine) BanAccount(email string) error {
	if err := e.store.BanAccount(email); err != nil {
		return fmt.Errorf("ban account %s: %w", email, err)
	}
	return nil
}

// AddAccount inserts a new account or refreshes the token of an existing
// one. The returned bool reports whether the account was newly created.
func (e *Engine) AddAccount(email, token string) (bool, error) {
	created, err := e.store.UpsertAccount(email, token)
	if err != nil {
		return false, fmt.Errorf("add account %s: %w", email, err)
	}
	return created, nil
}

// RemoveAccount deletes the account. Idempotent; removing an unknown email
// reports zero removed rows, not an error.
func (e *Engine) RemoveAccount(email string) (int64, error) {
	removed, err := e.store.DeleteAccount(email)
	if err != nil {
		return 0, fmt.Errorf("remove account %s: %w", email, err)
	}
	return removed, nil
}

// ListAccounts returns summaries for all accounts, active first, then by
// most recent use.
func (e *Engine) ListAccounts() ([]model.AccountSummary, error) {
	return e.store.GetAllAccounts()
}

// ActiveAccount returns the single active, unbanned account including its
// token, or ErrNotFound when no such account exists.
func (e *Engine) ActiveAccount() (*model.Account, error) {
	acc, err := e.store.GetActiveAccount()
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrNotFound
	}
	return acc, nil
}

// GetAccount returns the full record for one email, or ErrNotFound.
func (e *Engine) GetAccount(email string) (*model.Account, error) {
	acc, err := e.store.GetAccount(email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrNotFound
	}
	return acc, nil
}

// Stats returns table-wide counters.
func (e *Engine) Stats() (model.Stats, error) {
	return e.store.GetStats()
}
