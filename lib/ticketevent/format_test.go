// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import (
	"encoding/json"
	"testing"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

func statusMeta(before, after any) *ticket.Meta {
	meta := ticket.NewMeta()
	if before != nil {
		meta.Set("before", before)
	}
	if after != nil {
		meta.Set("after", after)
	}
	return meta
}

func TestFormatStatusChange(t *testing.T) {
	tests := []struct {
		name         string
		before       any
		after        any
		wantCategory Category
		wantDetails  string
	}{
		{"close", "open", "closed", CategoryClosed, "Aberto → Fechado"},
		{"reopen", "closed", "open", CategoryReopened, "Fechado → Aberto"},
		{"forward", "open", "in_progress", CategoryForward, "Aberto → Em Progresso"},
		{"backward", "resolved", "waiting", CategoryBackward, "Resolvido → Aguardando"},
		{"same status", "waiting", "waiting", CategoryEdit, "Aguardando → Aguardando"},
		{"close from closed", "closed", "closed", CategoryClosed, "Fechado → Fechado"},
		{"unknown code", "open", "archived", CategoryEdit, "Aberto → archived"},
		{"missing before", nil, "resolved", CategoryEdit, "? → Resolvido"},
		{"missing both", nil, nil, CategoryEdit, "? → ?"},
		{"empty string", "", "open", CategoryEdit, "? → Aberto"},
		{"numeric code", json.Number("3"), "open", CategoryEdit, "3 → Aberto"},
		{"reopen to unknown", "closed", "limbo", CategoryReopened, "Fechado → limbo"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Format(ticket.EventStatusChanged, statusMeta(test.before, test.after))
			if got.Label != "Status alterado" {
				t.Errorf("Label = %q", got.Label)
			}
			if got.Category != test.wantCategory {
				t.Errorf("Category = %v, want %v", got.Category, test.wantCategory)
			}
			if got.Details != test.wantDetails {
				t.Errorf("Details = %q, want %q", got.Details, test.wantDetails)
			}
			if got.ColorClass != test.wantCategory.ColorClass() {
				t.Errorf("ColorClass = %q, want %q", got.ColorClass, test.wantCategory.ColorClass())
			}
			if got.IsAI {
				t.Error("status change should not be AI")
			}
		})
	}
}

func TestFormatStatusChangeNilMeta(t *testing.T) {
	got := Format(ticket.EventStatusChanged, nil)
	if got.Details != "? → ?" || got.Category != CategoryEdit {
		t.Errorf("Format(nil meta) = %+v", got)
	}
}

func TestFormatEventTypes(t *testing.T) {
	tests := []struct {
		eventType    ticket.EventType
		wantLabel    string
		wantCategory Category
		wantAI       bool
	}{
		{ticket.EventCreated, "Ticket criado", CategoryCreated, false},
		{ticket.EventUpdated, "Ticket atualizado", CategoryEdit, false},
		{ticket.EventDeleted, "Ticket excluído", CategoryDeleted, false},
		{ticket.EventRestored, "Ticket restaurado", CategoryRestored, false},
		{ticket.EventAISummaryDone, "Resumo", CategorySummary, true},
		{ticket.EventAIReplyDone, "AI: sugestão de resposta gerada", CategoryReply, true},
		{ticket.EventAIPriorityDone, "AI: prioridade classificada", CategoryPriority, true},
		{"merged", "Evento", CategoryEdit, false},
		{"", "Evento", CategoryEdit, false},
	}
	for _, test := range tests {
		t.Run(string(test.eventType), func(t *testing.T) {
			got := Format(test.eventType, ticket.NewMeta().Set("anything", json.Number("1")))
			if got.Label != test.wantLabel || got.Category != test.wantCategory || got.IsAI != test.wantAI {
				t.Errorf("Format(%q) = %+v, want label %q category %v ai %v",
					test.eventType, got, test.wantLabel, test.wantCategory, test.wantAI)
			}
			if got.Details != "" {
				t.Errorf("Details = %q, want empty", got.Details)
			}
		})
	}
}

func TestFormatSummaryDetails(t *testing.T) {
	withSummary := Format(ticket.EventAISummaryDone, ticket.NewMeta().Set("summary", "Usuário sem acesso à VPN."))
	if withSummary.Details != "Usuário sem acesso à VPN." {
		t.Errorf("Details = %q, want the summary", withSummary.Details)
	}

	nonString := Format(ticket.EventAISummaryDone, ticket.NewMeta().Set("summary", json.Number("5")))
	if nonString.Details != "" {
		t.Errorf("non-string summary Details = %q, want empty", nonString.Details)
	}
}

func TestFormatIsPure(t *testing.T) {
	meta := statusMeta("open", "closed")
	first := Format(ticket.EventStatusChanged, meta)
	second := Format(ticket.EventStatusChanged, meta)
	if first != second {
		t.Errorf("Format not idempotent: %+v != %+v", first, second)
	}
	if meta.Len() != 2 {
		t.Errorf("Format modified its input: %d keys", meta.Len())
	}
}

func TestCategoryStyles(t *testing.T) {
	if got := CategoryCreated.ColorClass(); got != "bg-emerald-500/10 text-emerald-500 border-emerald-500/30" {
		t.Errorf("created ColorClass = %q", got)
	}
	if CategoryClosed.Icon() != "CheckCircle2" || CategoryClosed.String() != "closed" {
		t.Errorf("closed: icon %q name %q", CategoryClosed.Icon(), CategoryClosed.String())
	}
	unknown := Category(99)
	if unknown.Icon() != CategoryEdit.Icon() || unknown.Color() != CategoryEdit.Color() {
		t.Error("unknown category should style as edit")
	}
	data, err := json.Marshal(Format(ticket.EventRestored, nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"label":"Ticket restaurado","category":"restored","is_ai":false,"color_class":"bg-orange-500/10 text-orange-500 border-orange-500/30"}`
	if string(data) != want {
		t.Errorf("Marshal = %s\nwant %s", data, want)
	}
}

func TestFormatActivity(t *testing.T) {
	tests := []struct {
		entry     ticket.ActivityEntry
		wantLabel string
	}{
		{ticket.ActivityEntry{Type: ticket.ActivityCreated}, "Ticket criado"},
		{ticket.ActivityEntry{Type: ticket.ActivityStatusChanged, Subtype: "closed"}, "Ticket fechado"},
		{ticket.ActivityEntry{Type: ticket.ActivityStatusChanged, Subtype: "reopened"}, "Ticket reaberto"},
		{ticket.ActivityEntry{Type: ticket.ActivityAIDone, AIType: ticket.JobReply}, "Resposta AI"},
		{ticket.ActivityEntry{Type: ticket.ActivityAIDone}, "AI concluído"},
		{ticket.ActivityEntry{Type: "merged"}, "Evento"},
	}
	for _, test := range tests {
		if got := FormatActivity(test.entry).Label; got != test.wantLabel {
			t.Errorf("FormatActivity(%+v).Label = %q, want %q", test.entry, got, test.wantLabel)
		}
	}
}
