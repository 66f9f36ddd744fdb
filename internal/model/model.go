// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the domain entities shared across Warpkeeper.
package model

import "time"

// Account is a stored authentication account, keyed by email.
// At most one account is active at any time, and a banned account
// is never active.
type Account struct {
	Email    string    `json:"email"`
	Token    string    `json:"token"`
	IsActive bool      `json:"is_active"`
	IsBanned bool      `json:"is_banned"`
	AddedAt  time.Time `json:"added_at"`
	LastUsed time.Time `json:"last_used"`
}

// HasToken reports whether the account carries a credential.
func (a Account) HasToken() bool {
	return a.Token != ""
}

// Summary projects the account into its listing view, withholding the token.
func (a Account) Summary() AccountSummary {
	return AccountSummary{
		Email:    a.Email,
		IsActive: a.IsActive,
		IsBanned: a.IsBanned,
		LastUsed: a.LastUsed,
		HasToken: a.HasToken(),
	}
}

// AccountSummary is the listing view of an account. The token itself is
// withheld; only its presence is reported.
type AccountSummary struct {
	Email    string
	IsActive bool
	IsBanned bool
	LastUsed time.Time
	HasToken bool
}

// Stats aggregates table-wide counters.
type Stats struct {
	Total  int
	Active int
	Banned int
}

// BackupData is the serialized form of a full database export.
type BackupData struct {
	SchemaVersion int       `json:"schema_version"`
	ExportedAt    time.Time `json:"exported_at"`
	Accounts      []Account `json:"accounts"`
}
