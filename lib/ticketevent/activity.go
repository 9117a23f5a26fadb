// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import "github.com/ticketdesk/ticketdesk/lib/schema/ticket"

var aiActivityLabels = map[ticket.Job]string{
	ticket.JobSummary:  "Resumo AI",
	ticket.JobReply:    "Resposta AI",
	ticket.JobPriority: "Prioridade AI",
}

// FormatActivity classifies an entry of the global activity feed. The
// feed is coarser than per-ticket events, so it has its own label set:
// status changes are either closes or reopens, and AI completions
// are named by job.
func FormatActivity(entry ticket.ActivityEntry) Formatted {
	switch entry.Type {
	case ticket.ActivityCreated:
		return formatted("Ticket criado", CategoryCreated, false, "")
	case ticket.ActivityUpdated:
		return formatted("Ticket atualizado", CategoryEdit, false, "")
	case ticket.ActivityStatusChanged:
		if entry.Subtype == "closed" {
			return formatted("Ticket fechado", CategoryClosed, false, "")
		}
		return formatted("Ticket reaberto", CategoryReopened, false, "")
	case ticket.ActivityAIDone:
		label, ok := aiActivityLabels[entry.AIType]
		if !ok {
			label = "AI concluído"
		}
		return formatted(label, CategorySummary, true, "")
	default:
		return formatted("Evento", CategoryEdit, false, "")
	}
}
