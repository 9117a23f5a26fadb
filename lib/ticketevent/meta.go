// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import "github.com/ticketdesk/ticketdesk/lib/schema/ticket"

// MetaBlock is the rendered metadata of one event: a field-by-field
// before/after table and a flat list of any other keys. Both keep the
// server's key order.
type MetaBlock struct {
	Changes []Change `json:"changes,omitempty"`
	Extras  []Extra  `json:"extras,omitempty"`
}

// Change is one row of the changed-fields table.
type Change struct {
	Field  string `json:"field"`
	Label  string `json:"label"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Extra is one metadata key outside the changed-fields table.
type Extra struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table headers of the changed-fields table, and the label of the
// control that reveals a MetaBlock.
const (
	HeaderField  = "Campo"
	HeaderBefore = "Antes"
	HeaderAfter  = "Depois"
	ToggleLabel  = "Ver detalhes"
)

// Keys with a dedicated meaning, excluded from the extras list.
const (
	keyBefore        = "before"
	keyAfter         = "after"
	keyChangedFields = "changed_fields"
)

// updateNoise lists fields hidden from "updated" events. Generic
// updates echo the reopen bookkeeping that status changes already
// show.
var updateNoise = map[string]bool{
	"reopened_by": true,
	"closed_at":   true,
}

// RenderMeta renders an event's metadata with the default Renderer.
func RenderMeta(meta *ticket.Meta, eventType ticket.EventType) *MetaBlock {
	return defaultRenderer.RenderMeta(meta, eventType)
}

// RenderMeta renders an event's metadata. It returns nil when there
// is nothing to show, so callers never display an empty disclosure.
//
// Top-level "before" and "after" are always dropped; Format shows
// them as the status-change details. A "changed_fields" object
// becomes the Changes table (an entry whose value is not an object
// renders with both sides empty). Every remaining key becomes an
// Extra. For "updated" events, reopened_by and closed_at are left out
// of both lists. Completed-summary events render nothing, since
// Format already surfaces the summary.
func (r Renderer) RenderMeta(meta *ticket.Meta, eventType ticket.EventType) *MetaBlock {
	if eventType == ticket.EventAISummaryDone || meta.Len() == 0 {
		return nil
	}

	hidden := func(field string) bool {
		return eventType == ticket.EventUpdated && updateNoise[field]
	}

	display := meta.Without(keyBefore, keyAfter)
	block := &MetaBlock{}

	if changed, ok := display.Object(keyChangedFields); ok {
		display = display.Without(keyChangedFields)
		for _, field := range changed.Keys() {
			if hidden(field) {
				continue
			}
			change, _ := changed.Object(field)
			before, _ := change.Get(keyBefore)
			after, _ := change.Get(keyAfter)
			block.Changes = append(block.Changes, Change{
				Field:  field,
				Label:  FieldLabel(field),
				Before: r.FormatValue(field, before),
				After:  r.FormatValue(field, after),
			})
		}
	}

	for _, field := range display.Keys() {
		if hidden(field) {
			continue
		}
		value, _ := display.Get(field)
		block.Extras = append(block.Extras, Extra{
			Field: field,
			Label: FieldLabel(field),
			Value: r.FormatValue(field, value),
		})
	}

	if len(block.Changes) == 0 && len(block.Extras) == 0 {
		return nil
	}
	return block
}
