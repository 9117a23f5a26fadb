// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the dashboard. Several keys are
// context-sensitive: navigation moves the list cursor or scrolls the
// detail pane depending on focus, and page keys page the list or the
// timeline.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Open        key.Binding // Open the selected ticket in the detail pane.
	Back        key.Binding // Leave the detail pane, clear a filter, cancel.
	FocusToggle key.Binding

	TabTickets key.Binding
	TabTrash   key.Binding
	TabStats   key.Binding

	// Local fuzzy narrowing of the loaded page.
	Filter key.Binding
	// Server-side text search (q).
	Search key.Binding

	CycleStatusFilter   key.Binding
	CyclePriorityFilter key.Binding
	CycleSort           key.Binding
	NextPage            key.Binding
	PreviousPage        key.Binding
	Refresh             key.Binding

	// Mutations.
	CycleStatus   key.Binding
	CyclePriority key.Binding
	Delete        key.Binding
	Restore       key.Binding
	Purge         key.Binding

	// AI jobs.
	GenerateSummary  key.Binding
	GenerateReply    key.Binding
	ClassifyPriority key.Binding

	// Timeline.
	EventUp       key.Binding
	EventDown     key.Binding
	ToggleDetails key.Binding
	ToggleSort    key.Binding

	Confirm key.Binding
	Quit    key.Binding
}

// DefaultKeyMap uses vim-style navigation alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "subir")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "descer")),
	PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("C-u", "página acima")),
	PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("C-d", "página abaixo")),
	Home:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "topo")),
	End:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "fim")),

	Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "abrir")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "voltar")),
	FocusToggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "alternar painel")),

	TabTickets: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tickets")),
	TabTrash:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "lixeira")),
	TabStats:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "estatísticas")),

	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filtrar")),
	Search: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "buscar")),

	CycleStatusFilter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status")),
	CyclePriorityFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "prioridade")),
	CycleSort:           key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "ordem")),
	NextPage:            key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "próxima página")),
	PreviousPage:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "página anterior")),
	Refresh:             key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recarregar")),

	CycleStatus:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "mudar status")),
	CyclePriority: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "mudar prioridade")),
	Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "excluir")),
	Restore:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "restaurar")),
	Purge:         key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "excluir permanentemente")),

	GenerateSummary:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "gerar resumo")),
	GenerateReply:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "sugerir resposta")),
	ClassifyPriority: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "classificar prioridade")),

	EventUp:       key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "evento anterior")),
	EventDown:     key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "próximo evento")),
	ToggleDetails: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "ver detalhes")),
	ToggleSort:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "ordenar atividades")),

	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirmar")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "sair")),
}
