// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import (
	"encoding/json"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// Formatted is the display record for one event.
type Formatted struct {
	Label      string   `json:"label"`
	Category   Category `json:"category"`
	IsAI       bool     `json:"is_ai"`
	ColorClass string   `json:"color_class"`

	// Details is a one-line elaboration: "Aberto → Fechado" for
	// status changes, the summary text for completed summaries.
	// Empty when there is nothing to add.
	Details string `json:"details,omitempty"`
}

// Format classifies an event. Unknown types produce the generic
// "Evento" record in the edit category. The result depends only on
// the arguments.
func Format(eventType ticket.EventType, meta *ticket.Meta) Formatted {
	switch eventType {
	case ticket.EventCreated:
		return formatted("Ticket criado", CategoryCreated, false, "")
	case ticket.EventUpdated:
		return formatted("Ticket atualizado", CategoryEdit, false, "")
	case ticket.EventStatusChanged:
		return formatStatusChange(meta)
	case ticket.EventDeleted:
		return formatted("Ticket excluído", CategoryDeleted, false, "")
	case ticket.EventRestored:
		return formatted("Ticket restaurado", CategoryRestored, false, "")
	case ticket.EventAISummaryDone:
		summary, _ := meta.String("summary")
		return formatted("Resumo", CategorySummary, true, summary)
	case ticket.EventAIReplyDone:
		return formatted("AI: sugestão de resposta gerada", CategoryReply, true, "")
	case ticket.EventAIPriorityDone:
		return formatted("AI: prioridade classificada", CategoryPriority, true, "")
	default:
		return formatted("Evento", CategoryEdit, false, "")
	}
}

func formatted(label string, category Category, isAI bool, details string) Formatted {
	return Formatted{
		Label:      label,
		Category:   category,
		IsAI:       isAI,
		ColorClass: category.ColorClass(),
		Details:    details,
	}
}

// formatStatusChange classifies a status transition. A move to closed
// is always Closed and a move out of closed is always Reopened;
// otherwise the lifecycle order decides Forward or Backward, and
// anything unorderable is a plain edit.
func formatStatusChange(meta *ticket.Meta) Formatted {
	before, _ := meta.Get("before")
	after, _ := meta.Get("after")
	beforeCode, _ := before.(string)
	afterCode, _ := after.(string)

	closed := string(ticket.StatusClosed)
	category := CategoryEdit
	switch {
	case afterCode == closed:
		category = CategoryClosed
	case beforeCode == closed:
		category = CategoryReopened
	default:
		beforeOrder := ticket.Status(beforeCode).Order()
		afterOrder := ticket.Status(afterCode).Order()
		if beforeOrder >= 0 && afterOrder >= 0 {
			if afterOrder > beforeOrder {
				category = CategoryForward
			} else if afterOrder < beforeOrder {
				category = CategoryBackward
			}
		}
	}

	details := statusSide(before) + " → " + statusSide(after)
	return formatted("Status alterado", category, false, details)
}

// statusSide renders one side of a status change: the status label
// for a known code, the raw value for anything else present, and
// UnknownStatus when the side is missing, null, empty, or false.
func statusSide(value any) string {
	switch typed := value.(type) {
	case string:
		if typed == "" {
			return UnknownStatus
		}
		return StatusLabel(ticket.Status(typed))
	case json.Number:
		if typed == "0" {
			return UnknownStatus
		}
		return typed.String()
	case bool:
		if !typed {
			return UnknownStatus
		}
		return "true"
	default:
		if text, ok := numberText(value); ok && text != "0" {
			return text
		}
		return UnknownStatus
	}
}
