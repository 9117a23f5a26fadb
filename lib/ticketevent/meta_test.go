// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import (
	"reflect"
	"testing"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

var utcRenderer = Renderer{Location: time.UTC}

func mustMeta(t *testing.T, data string) *ticket.Meta {
	t.Helper()
	meta, err := ticket.ParseMeta([]byte(data))
	if err != nil {
		t.Fatalf("ParseMeta(%s): %v", data, err)
	}
	return meta
}

func TestRenderMetaUpdatedSuppressesReopenNoise(t *testing.T) {
	meta := mustMeta(t, `{"changed_fields":{"priority":{"before":"low","after":"high"}},"reopened_by":3}`)

	block := utcRenderer.RenderMeta(meta, ticket.EventUpdated)
	if block == nil {
		t.Fatal("RenderMeta returned nil for a priority change")
	}
	wantChanges := []Change{{Field: "priority", Label: "Prioridade", Before: "Baixa", After: "Alta"}}
	if !reflect.DeepEqual(block.Changes, wantChanges) {
		t.Errorf("Changes = %+v, want %+v", block.Changes, wantChanges)
	}
	if len(block.Extras) != 0 {
		t.Errorf("Extras = %+v, want reopened_by suppressed for updated", block.Extras)
	}

	statusBlock := utcRenderer.RenderMeta(meta, ticket.EventStatusChanged)
	wantExtras := []Extra{{Field: "reopened_by", Label: "Reaberto por", Value: "ID 3"}}
	if statusBlock == nil || !reflect.DeepEqual(statusBlock.Extras, wantExtras) {
		t.Errorf("status_changed Extras = %+v, want %+v", statusBlock, wantExtras)
	}
}

func TestRenderMetaUpdatedSuppressesChangedFields(t *testing.T) {
	meta := mustMeta(t, `{"changed_fields":{
		"status":{"before":"closed","after":"open"},
		"reopened_by":{"before":null,"after":3},
		"closed_at":{"before":"2026-02-10T09:05:00Z","after":null}
	}}`)

	updated := utcRenderer.RenderMeta(meta, ticket.EventUpdated)
	if updated == nil || len(updated.Changes) != 1 || updated.Changes[0].Field != "status" {
		t.Fatalf("updated Changes = %+v, want only status", updated)
	}
	if updated.Changes[0].Before != "Fechado" || updated.Changes[0].After != "Aberto" {
		t.Errorf("status row = %+v", updated.Changes[0])
	}

	statusChanged := utcRenderer.RenderMeta(meta, ticket.EventStatusChanged)
	want := []Change{
		{Field: "status", Label: "Status", Before: "Fechado", After: "Aberto"},
		{Field: "reopened_by", Label: "Reaberto por", Before: EmptyValue, After: "ID 3"},
		{Field: "closed_at", Label: "Fechado em", Before: "09:05 - 10/02/2026", After: EmptyValue},
	}
	if statusChanged == nil || !reflect.DeepEqual(statusChanged.Changes, want) {
		t.Errorf("status_changed Changes = %+v, want %+v", statusChanged, want)
	}
}

func TestRenderMetaStripsBeforeAfter(t *testing.T) {
	meta := mustMeta(t, `{"before":"open","after":"closed"}`)
	if block := RenderMeta(meta, ticket.EventStatusChanged); block != nil {
		t.Errorf("RenderMeta = %+v, want nil when only before/after are present", block)
	}

	withReason := mustMeta(t, `{"before":"open","after":"closed","reason":"duplicado"}`)
	block := RenderMeta(withReason, ticket.EventStatusChanged)
	want := []Extra{{Field: "reason", Label: "Reason", Value: "duplicado"}}
	if block == nil || !reflect.DeepEqual(block.Extras, want) {
		t.Errorf("Extras = %+v, want %+v", block, want)
	}
}

func TestRenderMetaEmpty(t *testing.T) {
	for _, data := range []string{`{}`, `{"changed_fields":{}}`} {
		if block := RenderMeta(mustMeta(t, data), ticket.EventUpdated); block != nil {
			t.Errorf("RenderMeta(%s) = %+v, want nil", data, block)
		}
	}
	if block := RenderMeta(nil, ticket.EventUpdated); block != nil {
		t.Errorf("RenderMeta(nil) = %+v, want nil", block)
	}
}

func TestRenderMetaSummaryDoneRendersNothing(t *testing.T) {
	meta := mustMeta(t, `{"summary":"Resumo do ticket","model":"gpt"}`)
	if block := RenderMeta(meta, ticket.EventAISummaryDone); block != nil {
		t.Errorf("RenderMeta = %+v, want nil for ai_summary_done", block)
	}
}

func TestRenderMetaChangedFieldsNotObject(t *testing.T) {
	meta := mustMeta(t, `{"changed_fields":"title"}`)
	block := RenderMeta(meta, ticket.EventUpdated)
	want := []Extra{{Field: "changed_fields", Label: "Changed fields", Value: "title"}}
	if block == nil || len(block.Changes) != 0 || !reflect.DeepEqual(block.Extras, want) {
		t.Errorf("RenderMeta = %+v, want changed_fields as an extra", block)
	}
}

func TestRenderMetaMalformedChange(t *testing.T) {
	meta := mustMeta(t, `{"changed_fields":{"title":"new title","assigned_to":{"after":42}}}`)
	block := RenderMeta(meta, ticket.EventUpdated)
	want := []Change{
		{Field: "title", Label: "Titulo", Before: EmptyValue, After: EmptyValue},
		{Field: "assigned_to", Label: "Responsavel", Before: EmptyValue, After: "ID 42"},
	}
	if block == nil || !reflect.DeepEqual(block.Changes, want) {
		t.Errorf("Changes = %+v, want %+v", block, want)
	}
}

func TestRenderMetaKeepsServerOrder(t *testing.T) {
	meta := mustMeta(t, `{"zeta":"z","alpha":"a","mid":"m"}`)
	block := RenderMeta(meta, ticket.EventCreated)
	var fields []string
	for _, extra := range block.Extras {
		fields = append(fields, extra.Field)
	}
	if !reflect.DeepEqual(fields, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("extra order = %v, want server order", fields)
	}
}
