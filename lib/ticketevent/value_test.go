// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  string
	}{
		{"null", "title", nil, "vazio"},
		{"empty string", "title", "", "vazio"},
		{"assignee id", "assigned_to", json.Number("42"), "ID 42"},
		{"assignee null", "assigned_to", nil, "vazio"},
		{"by suffix", "closed_by", json.Number("7"), "ID 7"},
		{"id suffix", "ticket_id", 9, "ID 9"},
		{"plain number", "attempts", json.Number("3"), "3"},
		{"float", "score", 0.75, "0.75"},
		{"date", "closed_at", "2026-02-12T10:04:00Z", "10:04 - 12/02/2026"},
		{"date with fraction", "closed_at", "2026-02-12T10:04:00.000000Z", "10:04 - 12/02/2026"},
		{"unparsable date", "closed_at", "amanhã", "amanhã"},
		{"number on date field", "closed_at", json.Number("5"), "5"},
		{"status", "status", "in_progress", "Em progresso"},
		{"unknown status", "status", "archived", "archived"},
		{"priority", "priority", "medium", "Media"},
		{"unknown priority", "priority", "urgent", "urgent"},
		{"true", "is_public", true, "sim"},
		{"false", "is_public", false, "nao"},
		{"string", "title", "VPN caiu", "VPN caiu"},
		{"status on other field", "previous", "open", "open"},
		{"array", "tags", []any{"rede", json.Number("2")}, `["rede",2]`},
		{"object", "extra", ticket.NewMeta().Set("b", "x").Set("a", true), `{"b":"x","a":true}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := utcRenderer.FormatValue(test.field, test.value); got != test.want {
				t.Errorf("FormatValue(%q, %#v) = %q, want %q", test.field, test.value, got, test.want)
			}
		})
	}
}

func TestFormatValueUsesRendererZone(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	renderer := Renderer{Location: saoPaulo}
	if got := renderer.FormatValue("closed_at", "2026-02-12T10:04:00Z"); got != "07:04 - 12/02/2026" {
		t.Errorf("FormatValue = %q, want local time 07:04", got)
	}
}

func TestHumanizeKey(t *testing.T) {
	tests := map[string]string{
		"due_date":        "Due date",
		"reason":          "Reason",
		"sla_breach_flag": "Sla breach flag",
		"élan":            "Élan",
		"":                "",
		"_leading":        " leading",
	}
	for input, want := range tests {
		if got := HumanizeKey(input); got != want {
			t.Errorf("HumanizeKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFieldLabel(t *testing.T) {
	if got := FieldLabel("assigned_to"); got != "Responsavel" {
		t.Errorf("FieldLabel(assigned_to) = %q", got)
	}
	if got := FieldLabel("due_date"); got != "Due date" {
		t.Errorf("FieldLabel(due_date) = %q", got)
	}
}

func TestBadgeLabels(t *testing.T) {
	if got := StatusLabel(ticket.StatusInProgress); got != "Em Progresso" {
		t.Errorf("StatusLabel = %q", got)
	}
	if got := PriorityLabel(ticket.PriorityMedium); got != "Média" {
		t.Errorf("PriorityLabel(medium) = %q", got)
	}
	if got := PriorityLabel(""); got != NoPriority {
		t.Errorf("PriorityLabel(empty) = %q", got)
	}
	if got := StatusLabel("archived"); got != "archived" {
		t.Errorf("StatusLabel(unknown) = %q", got)
	}
}
