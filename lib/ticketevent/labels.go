// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import "github.com/ticketdesk/ticketdesk/lib/schema/ticket"

// Status labels for badges and status-change details.
var statusLabels = map[ticket.Status]string{
	ticket.StatusOpen:       "Aberto",
	ticket.StatusInProgress: "Em Progresso",
	ticket.StatusWaiting:    "Aguardando",
	ticket.StatusResolved:   "Resolvido",
	ticket.StatusClosed:     "Fechado",
}

// Status labels inside the metadata table, which spells in_progress
// in sentence case.
var metaStatusLabels = map[string]string{
	"open":        "Aberto",
	"in_progress": "Em progresso",
	"waiting":     "Aguardando",
	"resolved":    "Resolvido",
	"closed":      "Fechado",
}

// Priority labels inside the metadata table.
var metaPriorityLabels = map[string]string{
	"low":    "Baixa",
	"medium": "Media",
	"high":   "Alta",
}

// Priority labels for badges.
var priorityLabels = map[ticket.Priority]string{
	ticket.PriorityLow:    "Baixa",
	ticket.PriorityMedium: "Média",
	ticket.PriorityHigh:   "Alta",
}

var fieldLabels = map[string]string{
	"title":       "Titulo",
	"description": "Descricao",
	"priority":    "Prioridade",
	"status":      "Status",
	"assigned_to": "Responsavel",
	"created_by":  "Criado por",
	"updated_by":  "Atualizado por",
	"closed_by":   "Fechado por",
	"reopened_by": "Reaberto por",
	"closed_at":   "Fechado em",
}

const (
	// EmptyValue replaces null and empty-string values.
	EmptyValue = "vazio"

	// UnknownStatus stands in for a missing side of a status change.
	UnknownStatus = "?"

	// NoPriority labels a ticket that has not been prioritized.
	NoPriority = "Sem prioridade"

	// SystemAuthor is shown for events without an acting user.
	SystemAuthor = "Sistema"

	yes = "sim"
	no  = "nao"
)

// StatusLabel returns the display label of a status, or the raw code
// if it is not a known status.
func StatusLabel(status ticket.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// PriorityLabel returns the display label of a priority. The empty
// priority reads as NoPriority; unknown codes are returned raw.
func PriorityLabel(priority ticket.Priority) string {
	if priority == "" {
		return NoPriority
	}
	if label, ok := priorityLabels[priority]; ok {
		return label
	}
	return string(priority)
}

// FieldLabel returns the display label of a metadata field name.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return HumanizeKey(field)
}
