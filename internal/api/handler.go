// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package api exposes the rotation engine over a local HTTP interface with
// JSON bodies. It owns no domain state: every route translates into one
// engine call and serializes the result.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warpkeeper/warpkeeper/internal/i18n"
	"github.com/warpkeeper/warpkeeper/internal/logging"
	"github.com/warpkeeper/warpkeeper/internal/rotation"
)

// Handler translates HTTP routes into rotation engine calls.
type Handler struct {
	engine *rotation.Engine
}

// NewHandler builds a Handler around the given engine.
func NewHandler(engine *rotation.Engine) *Handler {
	return &Handler{engine: engine}
}

// MountRoutes registers all account routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.listAccounts)
	r.Get("/active-account", h.activeAccount)
	r.Get("/account/{email}", h.getAccount)
	r.Get("/stats", h.stats)
	r.Get("/health", h.health)
	r.Post("/switch-account", h.switchAccount)
	r.Post("/activate-account", h.activateAccount)
	r.Post("/ban-account", h.banAccount)
	r.Post("/add-account", h.addAccount)
	r.Post("/delete-account", h.deleteAccount)
}

type accountSummaryJSON struct {
	Email    string    `json:"email"`
	IsActive bool      `json:"is_active"`
	IsBanned bool      `json:"is_banned"`
	LastUsed time.Time `json:"last_used"`
	HasToken bool      `json:"has_token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type addAccountRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.engine.ListAccounts()
	if err != nil {
		logging.Errorf("list accounts failed: %v", err)
		respondStorageError(w, err)
		return
	}
	out := make([]accountSummaryJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountSummaryJSON{
			Email:    a.Email,
			IsActive: a.IsActive,
			IsBanned: a.IsBanned,
			LastUsed: a.LastUsed,
			HasToken: a.HasToken,
		})
	}
	respondJSON(w, http.StatusOK, struct {
		Accounts []accountSummaryJSON `json:"accounts"`
		Success  bool                 `json:"success"`
	}{Accounts: out, Success: true})
}

func (h *Handler) activeAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.engine.ActiveAccount()
	if err != nil {
		if errors.Is(err, rotation.ErrNotFound) {
			respondError(w, http.StatusNotFound, i18n.T("api.error.no_active_account"))
			return
		}
		logging.Errorf("active account lookup failed: %v", err)
		respondStorageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Email    string    `json:"email"`
		Token    string    `json:"token"`
		LastUsed time.Time `json:"last_used"`
		Success  bool      `json:"success"`
	}{Email: acc.Email, Token: acc.Token, LastUsed: acc.LastUsed, Success: true})
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	acc, err := h.engine.GetAccount(email)
	if err != nil {
		if errors.Is(err, rotation.ErrNotFound) {
			respondError(w, http.StatusNotFound, i18n.T("api.error.account_not_found"))
			return
		}
		logging.Errorf("account lookup failed: %v", err)
		respondStorageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Email    string    `json:"email"`
		Token    string    `json:"token"`
		IsActive bool      `json:"is_active"`
		IsBanned bool      `json:"is_banned"`
		LastUsed time.Time `json:"last_used"`
		AddedAt  time.Time `json:"added_at"`
		Success  bool      `json:"success"`
	}{
		Email:    acc.Email,
		Token:    acc.Token,
		IsActive: acc.IsActive,
		IsBanned: acc.IsBanned,
		LastUsed: acc.LastUsed,
		AddedAt:  acc.AddedAt,
		Success:  true,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats()
	if err != nil {
		logging.Errorf("stats failed: %v", err)
		respondStorageError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Total   int  `json:"total"`
		Active  int  `json:"active"`
		Banned  int  `json:"banned"`
		Success bool `json:"success"`
	}{Total: stats.Total, Active: stats.Active, Banned: stats.Banned, Success: true})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Success bool   `json:"success"`
	}{Status: "ok", Success: true})
}

func (h *Handler) switchAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.engine.SwitchAccount()
	if err != nil {
		if errors.Is(err, rotation.ErrNoAccountsAvailable) {
			respondError(w, http.StatusNotFound, i18n.T("api.error.no_accounts_available"))
			return
		}
		logging.Errorf("switch account failed: %v", err)
		respondStorageError(w, err)
		return
	}
	logging.Infof("switched active account to %s", acc.Email)
	respondJSON(w, http.StatusOK, struct {
		Email   string `json:"email"`
		Token   string `json:"token"`
		Message string `json:"message"`
		Success bool   `json:"success"`
	}{
		Email:   acc.Email,
		Token:   acc.Token,
		Message: i18n.Td("api.switched", map[string]any{"Email": acc.Email}),
		Success: true,
	})
}

func (h *Handler) activateAccount(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.invalid_json"))
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.missing_email"))
		return
	}

	acc, err := h.engine.ActivateAccount(req.Email)
	if err != nil {
		if errors.Is(err, rotation.ErrNotFound) {
			respondError(w, http.StatusNotFound, i18n.T("api.error.account_missing_or_banned"))
			return
		}
		logging.Errorf("activate account failed: %v", err)
		respondStorageError(w, err)
		return
	}
	logging.Infof("activated account %s", acc.Email)
	respondJSON(w, http.StatusOK, struct {
		Email   string `json:"email"`
		Token   string `json:"token"`
		Message string `json:"message"`
		Success bool   `json:"success"`
	}{
		Email:   acc.Email,
		Token:   acc.Token,
		Message: i18n.Td("api.activated", map[string]any{"Email": acc.Email}),
		Success: true,
	})
}

func (h *Handler) banAccount(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.invalid_json"))
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.missing_email"))
		return
	}

	if err := h.engine.BanAccount(req.Email); err != nil {
		logging.Errorf("ban account failed: %v", err)
		respondStorageError(w, err)
		return
	}
	logging.Infof("banned account %s", req.Email)
	respondJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}{Message: i18n.Td("api.banned", map[string]any{"Email": req.Email}), Success: true})
}

func (h *Handler) addAccount(w http.ResponseWriter, r *http.Request) {
	var req addAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.invalid_json"))
		return
	}
	if req.Email == "" || req.Token == "" {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.missing_email_or_token"))
		return
	}

	created, err := h.engine.AddAccount(req.Email, req.Token)
	if err != nil {
		logging.Errorf("add account failed: %v", err)
		respondStorageError(w, err)
		return
	}
	msgID := "api.token_updated"
	if created {
		msgID = "api.added"
	}
	logging.Infof("added account %s (created=%t)", req.Email, created)
	respondJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}{Message: i18n.Td(msgID, map[string]any{"Email": req.Email}), Success: true})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.invalid_json"))
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, i18n.T("api.error.missing_email"))
		return
	}

	if _, err := h.engine.RemoveAccount(req.Email); err != nil {
		logging.Errorf("delete account failed: %v", err)
		respondStorageError(w, err)
		return
	}
	logging.Infof("deleted account %s", req.Email)
	respondJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}{Message: i18n.Td("api.deleted", map[string]any{"Email": req.Email}), Success: true})
}
