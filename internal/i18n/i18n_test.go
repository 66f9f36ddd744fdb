// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestT_English(t *testing.T) {
	Init("en")
	if got := T("api.error.no_active_account"); got != "No active account found" {
		t.Errorf("unexpected translation: %q", got)
	}
}

func TestT_Chinese(t *testing.T) {
	Init("zh-Hans")
	if got := T("api.error.no_active_account"); got != "没有找到活跃账号" {
		t.Errorf("unexpected translation: %q", got)
	}
	SetLang("en")
}

func TestT_UnknownIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("no.such.message"); got != "no.such.message" {
		t.Errorf("expected message ID fallback, got %q", got)
	}
}

func TestTd_TemplateData(t *testing.T) {
	Init("en")
	got := Td("api.switched", map[string]any{"Email": "a@example.com"})
	if !strings.Contains(got, "a@example.com") {
		t.Errorf("expected templated email in %q", got)
	}
}
