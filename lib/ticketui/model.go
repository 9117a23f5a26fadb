// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketdesk/ticketdesk/lib/aistatus"
	"github.com/ticketdesk/ticketdesk/lib/clock"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketapi"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
	"github.com/ticketdesk/ticketdesk/lib/timeline"
	"github.com/ticketdesk/ticketdesk/lib/tui"
)

// Tab identifies which data view is active.
type Tab int

const (
	// TabTickets lists active tickets with the server-side filters.
	TabTickets Tab = iota
	// TabTrash lists soft-deleted tickets.
	TabTrash
	// TabStats shows the summary, backlog, and activity feed.
	TabStats
)

// FocusRegion identifies which pane receives keystrokes.
type FocusRegion int

const (
	FocusList FocusRegion = iota
	FocusDetail
	// FocusFilter routes keystrokes to the local fuzzy filter.
	FocusFilter
	// FocusSearch routes keystrokes to the server-side search input.
	FocusSearch
	// FocusConfirm waits for y to run a destructive action; any other
	// key cancels it.
	FocusConfirm
)

const (
	// DefaultPageSize is the number of tickets per list page.
	DefaultPageSize = 15

	listSplitRatio = 0.45
	noticeDuration = 4 * time.Second
)

var sortLabels = map[string]string{
	ticket.SortNewest:       "mais recentes",
	ticket.SortOldest:       "mais antigos",
	ticket.SortPriorityDesc: "prioridade ↓",
	ticket.SortPriorityAsc:  "prioridade ↑",
	ticket.SortStatus:       "status",
}

var tabDefs = []struct {
	label string
	tab   Tab
}{
	{"1:Tickets", TabTickets},
	{"2:Lixeira", TabTrash},
	{"3:Estatísticas", TabStats},
}

// Messages delivered by the commands the model issues.
type (
	listLoadedMsg struct {
		tab      Tab
		sequence uint64
		page     *ticket.Page[ticket.Ticket]
		err      error
	}
	ticketLoadedMsg struct {
		ticketID int64
		ticket   *ticket.Ticket
		err      error
	}
	eventsLoadedMsg struct {
		query timeline.Query
		page  *ticket.Page[ticket.Event]
		err   error
	}
	statsLoadedMsg struct {
		data *statsData
	}
	userLoadedMsg struct {
		user *ticket.User
		err  error
	}
	// mutationResultMsg reports a finished mutation. ticket is the
	// server's copy after the change, nil for deletions.
	mutationResultMsg struct {
		ticketID int64
		ticket   *ticket.Ticket
		removed  bool
		notice   string
		err      error
	}
	noticeFadeMsg struct {
		sequence uint64
	}
)

// listState is the per-tab list: the server filters, the loaded page,
// and the cursor over the rows that survive the local filter.
type listState struct {
	filters  ticket.Filters
	page     *ticket.Page[ticket.Ticket]
	err      error
	loading  bool
	sequence uint64

	results    []FilterResult
	cursor     int
	offset     int
	selectedID int64
}

// confirmation is a pending destructive action.
type confirmation struct {
	title    string
	question string
	action   tea.Cmd
}

// notice is the transient message in the help line.
type notice struct {
	text     string
	isError  bool
	sequence uint64
}

// Config configures a Model.
type Config struct {
	// Source provides the data. Required.
	Source Source

	// Clock drives relative times, notices, and AI status polling.
	// Nil uses the real clock.
	Clock clock.Clock

	Theme tui.Theme

	// PageSize is the number of tickets per list page. Zero means
	// DefaultPageSize.
	PageSize int

	// ActivityLimit bounds the statistics activity feed. Zero means
	// the API default.
	ActivityLimit int

	// Location is the time zone of displayed timestamps. Nil means
	// local time.
	Location *time.Location

	Logger *slog.Logger

	// Context bounds every request the model issues. Nil means
	// context.Background().
	Context context.Context
}

// Model is the top-level bubbletea model of the dashboard. It is a
// value type; the parts that must survive copies (list states, the
// timeline controller, the poller) are pointers.
type Model struct {
	source   Source
	clock    clock.Clock
	theme    tui.Theme
	keys     KeyMap
	renderer ticketevent.Renderer
	logger   *slog.Logger
	ctx      context.Context

	activityLimit int

	width  int
	height int
	ready  bool

	activeTab  Tab
	focus      FocusRegion
	priorFocus FocusRegion

	lists       map[Tab]*listState
	filter      FilterModel
	searchInput string

	detailPane DetailPane
	statsPane  StatsPane
	timeline   *timeline.Controller

	poller      *aistatus.Poller
	pollResults chan pollResultMsg

	user    *ticket.User
	userErr error

	confirm *confirmation
	notice  *notice
}

// NewModel creates a Model showing the first page of tickets.
func NewModel(config Config) Model {
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	theme := config.Theme
	if theme == (tui.Theme{}) {
		theme = tui.DefaultTheme
	}
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	activityLimit := config.ActivityLimit
	if activityLimit <= 0 {
		activityLimit = ticketapi.DefaultActivityLimit
	}
	renderer := ticketevent.Renderer{Location: config.Location}

	poller, results := newPollBridge(config.Source, clk, logger)
	return Model{
		source:        config.Source,
		clock:         clk,
		theme:         theme,
		keys:          DefaultKeyMap,
		renderer:      renderer,
		logger:        logger,
		ctx:           ctx,
		activityLimit: activityLimit,
		activeTab:     TabTickets,
		lists: map[Tab]*listState{
			TabTickets: {filters: ticket.Filters{PerPage: pageSize, Sort: ticket.SortNewest}},
			TabTrash:   {filters: ticket.Filters{PerPage: pageSize}},
		},
		detailPane:  NewDetailPane(theme, renderer),
		statsPane:   NewStatsPane(theme, renderer),
		timeline:    timeline.New(0, timeline.Options{Renderer: renderer}),
		poller:      poller,
		pollResults: results,
	}
}

// Close stops AI status polling. Call it after the program exits.
func (model Model) Close() {
	model.poller.Stop()
}

// Init implements tea.Model: loads the first page and the signed-in
// user, and starts listening for poll results.
func (model Model) Init() tea.Cmd {
	return tea.Batch(
		model.loadList(TabTickets),
		model.loadUser(),
		waitForPoll(model.pollResults),
	)
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)

	case listLoadedMsg:
		state := model.lists[message.tab]
		if state == nil || message.sequence != state.sequence {
			return model, nil
		}
		state.loading = false
		if message.err != nil {
			state.err = message.err
			return model, model.setNotice("Erro ao carregar tickets: "+message.err.Error(), true)
		}
		state.err = nil
		state.page = message.page
		model.applyFilter(message.tab)
		return model, nil

	case ticketLoadedMsg:
		current := model.detailPane.Ticket()
		if current == nil || current.ID != message.ticketID {
			return model, nil
		}
		if message.err != nil {
			if ticketapi.IsNotFound(message.err) {
				model.closeDetail()
				return model, model.setNotice(fmt.Sprintf("Ticket #%d não encontrado", message.ticketID), true)
			}
			return model, model.setNotice("Erro ao carregar ticket: "+message.err.Error(), true)
		}
		model.showTicket(message.ticket)
		return model, nil

	case eventsLoadedMsg:
		if model.timeline.Resolve(message.query, message.page, message.err) {
			model.detailPane.Refresh(model.clock.Now())
		}
		return model, nil

	case statsLoadedMsg:
		model.statsPane.SetData(message.data, model.clock.Now())
		return model, nil

	case userLoadedMsg:
		if message.err != nil {
			model.userErr = message.err
			return model, model.setNotice("Não autenticado: "+message.err.Error(), true)
		}
		model.user = message.user
		model.userErr = nil
		model.detailPane.viewer = message.user
		model.detailPane.Refresh(model.clock.Now())
		return model, nil

	case pollResultMsg:
		return model.handlePollResult(message)

	case mutationResultMsg:
		return model.handleMutationResult(message)

	case noticeFadeMsg:
		if model.notice != nil && model.notice.sequence == message.sequence {
			model.notice = nil
		}
		return model, nil

	case logRecordMsg:
		if message.Level >= slog.LevelWarn {
			return model, model.setNotice(message.Summary, message.Level >= slog.LevelError)
		}
		return model, nil
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.focus {
	case FocusConfirm:
		return model.handleConfirmKeys(message)
	case FocusFilter:
		return model.handleFilterKeys(message)
	case FocusSearch:
		return model.handleSearchKeys(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		model.poller.Stop()
		return model, tea.Quit

	case key.Matches(message, model.keys.TabTickets):
		return model, model.switchTab(TabTickets)
	case key.Matches(message, model.keys.TabTrash):
		return model, model.switchTab(TabTrash)
	case key.Matches(message, model.keys.TabStats):
		return model, model.switchTab(TabStats)
	}

	if model.activeTab == TabStats {
		return model.handleStatsKeys(message)
	}

	switch {
	case key.Matches(message, model.keys.FocusToggle):
		if model.focus == FocusList && model.detailPane.Ticket() != nil {
			model.focus = FocusDetail
		} else {
			model.focus = FocusList
		}
		return model, nil

	case key.Matches(message, model.keys.Filter):
		model.priorFocus = model.focus
		model.focus = FocusFilter
		model.filter.Active = true
		return model, nil

	case key.Matches(message, model.keys.Search):
		model.priorFocus = model.focus
		model.focus = FocusSearch
		model.searchInput = model.lists[model.activeTab].filters.Query
		return model, nil
	}

	if model.focus == FocusDetail {
		return model.handleDetailKeys(message)
	}
	return model.handleListKeys(message)
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := model.lists[model.activeTab]
	switch {
	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-max(model.visibleHeight()/2, 1))
	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(max(model.visibleHeight()/2, 1))
	case key.Matches(message, model.keys.Home):
		model.moveCursor(-len(state.results))
	case key.Matches(message, model.keys.End):
		model.moveCursor(len(state.results))

	case key.Matches(message, model.keys.Open):
		selected := model.selectedTicket()
		if selected == nil {
			return model, nil
		}
		return model, model.openTicket(*selected)

	case key.Matches(message, model.keys.Back):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter(model.activeTab)
		}

	case key.Matches(message, model.keys.Refresh):
		return model, model.loadList(model.activeTab)

	case key.Matches(message, model.keys.CycleStatusFilter):
		state.filters.Status = cycle(append([]ticket.Status{""}, ticket.Statuses...), state.filters.Status)
		state.filters.Page = 0
		return model, model.loadList(model.activeTab)

	case key.Matches(message, model.keys.CyclePriorityFilter):
		state.filters.Priority = cycle(append([]ticket.Priority{""}, ticket.Priorities...), state.filters.Priority)
		state.filters.Page = 0
		return model, model.loadList(model.activeTab)

	case key.Matches(message, model.keys.CycleSort):
		state.filters.Sort = cycle(ticket.SortOrders, state.filters.Sort)
		state.filters.Page = 0
		return model, model.loadList(model.activeTab)

	case key.Matches(message, model.keys.NextPage):
		if state.page != nil && state.page.Meta.HasNext() {
			state.filters.Page = state.page.Meta.CurrentPage + 1
			return model, model.loadList(model.activeTab)
		}

	case key.Matches(message, model.keys.PreviousPage):
		if state.page != nil && state.page.Meta.HasPrevious() {
			state.filters.Page = state.page.Meta.CurrentPage - 1
			return model, model.loadList(model.activeTab)
		}

	default:
		return model.handleMutationKeys(message, model.selectedTicket())
	}
	return model, nil
}

func (model Model) handleDetailKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := model.clock.Now()
	switch {
	case key.Matches(message, model.keys.Up):
		model.detailPane.viewport.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.detailPane.viewport.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.detailPane.ScrollUp()
	case key.Matches(message, model.keys.PageDown):
		model.detailPane.ScrollDown()
	case key.Matches(message, model.keys.Home):
		model.detailPane.viewport.GotoTop()
	case key.Matches(message, model.keys.End):
		model.detailPane.viewport.GotoBottom()

	case key.Matches(message, model.keys.Back):
		model.focus = FocusList

	case key.Matches(message, model.keys.EventUp):
		model.detailPane.MoveEvent(-1)
	case key.Matches(message, model.keys.EventDown):
		model.detailPane.MoveEvent(1)
	case key.Matches(message, model.keys.ToggleDetails):
		model.detailPane.ToggleDetails()
	case key.Matches(message, model.keys.ToggleSort):
		model.timeline.ToggleSort()
		model.detailPane.ResetEventCursor()
		model.detailPane.Refresh(now)

	case key.Matches(message, model.keys.NextPage):
		if query, ok := model.timeline.NextPage(); ok {
			model.detailPane.ResetEventCursor()
			model.detailPane.Refresh(now)
			return model, model.fetchEvents(query)
		}
	case key.Matches(message, model.keys.PreviousPage):
		if query, ok := model.timeline.PreviousPage(); ok {
			model.detailPane.ResetEventCursor()
			model.detailPane.Refresh(now)
			return model, model.fetchEvents(query)
		}

	case key.Matches(message, model.keys.Refresh):
		current := model.detailPane.Ticket()
		if current == nil {
			return model, nil
		}
		var cmds []tea.Cmd
		if !current.Trashed() {
			cmds = append(cmds, model.fetchTicket(current.ID))
		}
		if query, ok := model.timeline.Retry(); ok {
			cmds = append(cmds, model.fetchEvents(query))
		}
		model.detailPane.Refresh(now)
		return model, tea.Batch(cmds...)

	default:
		return model.handleMutationKeys(message, model.detailPane.Ticket())
	}
	return model, nil
}

func (model Model) handleStatsKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.statsPane.viewport.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.statsPane.viewport.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.statsPane.ScrollUp()
	case key.Matches(message, model.keys.PageDown):
		model.statsPane.ScrollDown()
	case key.Matches(message, model.keys.Home):
		model.statsPane.viewport.GotoTop()
	case key.Matches(message, model.keys.End):
		model.statsPane.viewport.GotoBottom()
	case key.Matches(message, model.keys.Refresh):
		return model, model.loadStats()
	}
	return model, nil
}

// handleMutationKeys runs the mutation and AI keys against target.
// Mutations are refused for tickets the signed-in user may not edit.
func (model Model) handleMutationKeys(message tea.KeyMsg, target *ticket.Ticket) (tea.Model, tea.Cmd) {
	if target == nil {
		return model, nil
	}
	var job ticket.Job
	switch {
	case key.Matches(message, model.keys.GenerateSummary):
		job = ticket.JobSummary
	case key.Matches(message, model.keys.GenerateReply):
		job = ticket.JobReply
	case key.Matches(message, model.keys.ClassifyPriority):
		job = ticket.JobPriority
	case key.Matches(message, model.keys.CycleStatus),
		key.Matches(message, model.keys.CyclePriority),
		key.Matches(message, model.keys.Delete),
		key.Matches(message, model.keys.Restore),
		key.Matches(message, model.keys.Purge):
	default:
		return model, nil
	}

	if !target.EditableBy(model.user) {
		return model, model.setNotice(fmt.Sprintf("Sem permissão para alterar o ticket #%d", target.ID), true)
	}

	if job != "" {
		if target.Trashed() {
			return model, nil
		}
		if !aistatus.CanEnqueue(target.JobStatus(job)) {
			return model, model.setNotice(jobLabels[job]+" já está em processamento", false)
		}
		return model, model.enqueueAI(target.ID, job)
	}

	id := target.ID
	switch {
	case key.Matches(message, model.keys.CycleStatus) && !target.Trashed():
		next := cycle(ticket.Statuses, target.Status)
		return model, model.mutate(id, "Status alterado para "+ticketevent.StatusLabel(next), func(ctx context.Context) (*ticket.Ticket, error) {
			return model.source.UpdateTicket(ctx, id, ticket.UpdateRequest{Status: &next})
		})

	case key.Matches(message, model.keys.CyclePriority) && !target.Trashed():
		next := cycle(ticket.Priorities, target.Priority)
		return model, model.mutate(id, "Prioridade alterada para "+ticketevent.PriorityLabel(next), func(ctx context.Context) (*ticket.Ticket, error) {
			return model.source.UpdateTicket(ctx, id, ticket.UpdateRequest{Priority: &next})
		})

	case key.Matches(message, model.keys.Delete) && !target.Trashed():
		model.askConfirmation("Excluir ticket",
			fmt.Sprintf("Mover #%d %q para a lixeira?", id, target.Title),
			model.mutate(id, fmt.Sprintf("Ticket #%d movido para a lixeira", id), func(ctx context.Context) (*ticket.Ticket, error) {
				return nil, model.source.DeleteTicket(ctx, id)
			}))

	case key.Matches(message, model.keys.Restore) && target.Trashed():
		return model, model.mutate(id, fmt.Sprintf("Ticket #%d restaurado", id), func(ctx context.Context) (*ticket.Ticket, error) {
			return model.source.RestoreTicket(ctx, id)
		})

	case key.Matches(message, model.keys.Purge) && target.Trashed():
		model.askConfirmation("Excluir permanentemente",
			fmt.Sprintf("Excluir #%d %q para sempre? Esta ação não pode ser desfeita.", id, target.Title),
			model.mutate(id, fmt.Sprintf("Ticket #%d excluído permanentemente", id), func(ctx context.Context) (*ticket.Ticket, error) {
				return nil, model.source.ForceDeleteTicket(ctx, id)
			}))
	}
	return model, nil
}

func (model *Model) askConfirmation(title, question string, action tea.Cmd) {
	model.confirm = &confirmation{title: title, question: question, action: action}
	model.priorFocus = model.focus
	model.focus = FocusConfirm
}

func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := model.confirm
	model.confirm = nil
	model.focus = model.priorFocus
	if pending != nil && key.Matches(message, model.keys.Confirm) {
		return model, pending.action
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.filter.Clear()
		model.focus = model.priorFocus
	case tea.KeyEnter:
		model.filter.Active = false
		model.focus = FocusList
	case tea.KeyBackspace:
		model.filter.HandleBackspace()
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
	default:
		return model, nil
	}
	model.applyFilter(model.activeTab)
	return model, nil
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.searchInput = ""
		model.focus = model.priorFocus
	case tea.KeyEnter:
		state := model.lists[model.activeTab]
		state.filters.Query = strings.TrimSpace(model.searchInput)
		state.filters.Page = 0
		model.searchInput = ""
		model.focus = FocusList
		return model, model.loadList(model.activeTab)
	case tea.KeyBackspace:
		if runes := []rune(model.searchInput); len(runes) > 0 {
			model.searchInput = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		model.searchInput += string(message.Runes)
	}
	return model, nil
}

func (model Model) handlePollResult(message pollResultMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForPoll(model.pollResults)}
	current := model.detailPane.Ticket()
	if current == nil || current.ID != message.ticketID || message.ticket == nil {
		return model, tea.Batch(cmds...)
	}
	model.showTicket(message.ticket)
	if message.changed {
		if query, ok := model.timeline.Request(); ok {
			cmds = append(cmds, model.fetchEvents(query))
		}
		model.detailPane.Refresh(model.clock.Now())
		cmds = append(cmds, model.loadList(TabTickets))
	}
	return model, tea.Batch(cmds...)
}

func (model Model) handleMutationResult(message mutationResultMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		model.logger.Warn("ticket mutation failed", "ticket_id", message.ticketID, "error", message.err)
		return model, model.setNotice(mutationErrorText(message.err), true)
	}
	cmds := []tea.Cmd{model.setNotice(message.notice, false), model.loadList(model.activeTab)}

	current := model.detailPane.Ticket()
	if current != nil && current.ID == message.ticketID {
		switch {
		case message.removed:
			model.closeDetail()
		case message.ticket != nil:
			model.showTicket(message.ticket)
			if query, ok := model.timeline.Request(); ok {
				cmds = append(cmds, model.fetchEvents(query))
			}
			model.detailPane.Refresh(model.clock.Now())
		}
	}
	return model, tea.Batch(cmds...)
}

// mutationErrorText turns API errors into user-facing text.
func mutationErrorText(err error) string {
	switch {
	case ticketapi.IsForbidden(err):
		return "Sem permissão para esta ação"
	case ticketapi.IsNotFound(err):
		return "Ticket não encontrado"
	case ticketapi.IsConflict(err):
		return "Conflito: " + err.Error()
	case ticketapi.IsValidation(err):
		return "Dados inválidos: " + err.Error()
	}
	return "Erro: " + err.Error()
}

// openTicket shows selected in the detail pane and fetches its fresh
// state and first timeline page. Trashed tickets are shown from the
// list row because the single-ticket endpoint excludes them.
func (model *Model) openTicket(selected ticket.Ticket) tea.Cmd {
	model.logger.Debug("opening ticket", "ticket_id", selected.ID)
	model.timeline.SetTicket(selected.ID)
	model.showTicket(&selected)
	model.focus = FocusDetail

	var cmds []tea.Cmd
	if !selected.Trashed() {
		cmds = append(cmds, model.fetchTicket(selected.ID))
	}
	if query, ok := model.timeline.Request(); ok {
		cmds = append(cmds, model.fetchEvents(query))
	}
	model.detailPane.Refresh(model.clock.Now())
	return tea.Batch(cmds...)
}

// showTicket displays current and reconciles polling with its AI
// state.
func (model *Model) showTicket(current *ticket.Ticket) {
	model.detailPane.SetTicket(current, model.user, model.timeline, model.clock.Now())
	model.poller.Sync(current.ID, !current.Trashed() && aistatus.TicketProcessing(current))
}

func (model *Model) closeDetail() {
	model.poller.Stop()
	model.timeline.SetTicket(0)
	model.detailPane.Clear()
	if model.focus == FocusDetail {
		model.focus = FocusList
	}
}

func (model *Model) switchTab(tab Tab) tea.Cmd {
	if tab == model.activeTab {
		return nil
	}
	model.activeTab = tab
	model.filter.Clear()
	if model.focus != FocusDetail || tab == TabStats {
		model.focus = FocusList
	}
	if tab == TabStats {
		return model.loadStats()
	}
	model.applyFilter(tab)
	return model.loadList(tab)
}

// applyFilter recomputes the visible rows of tab, keeping the selected
// ticket under the cursor when it survives.
func (model *Model) applyFilter(tab Tab) {
	state := model.lists[tab]
	if state == nil {
		return
	}
	var tickets []ticket.Ticket
	if state.page != nil {
		tickets = state.page.Data
	}
	state.results = model.filter.ApplyFuzzy(tickets)

	state.cursor = 0
	for index, result := range state.results {
		if result.Ticket.ID == state.selectedID {
			state.cursor = index
			break
		}
	}
	if len(state.results) > 0 {
		state.selectedID = state.results[state.cursor].Ticket.ID
	}
	model.ensureCursorVisible(state)
}

func (model *Model) moveCursor(delta int) {
	state := model.lists[model.activeTab]
	if len(state.results) == 0 {
		return
	}
	state.cursor = min(max(state.cursor+delta, 0), len(state.results)-1)
	state.selectedID = state.results[state.cursor].Ticket.ID
	model.ensureCursorVisible(state)
}

func (model *Model) ensureCursorVisible(state *listState) {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	state.offset = min(state.offset, max(len(state.results)-visible, 0))
	if state.cursor < state.offset {
		state.offset = state.cursor
	}
	if state.cursor >= state.offset+visible {
		state.offset = state.cursor - visible + 1
	}
}

func (model Model) selectedTicket() *ticket.Ticket {
	state := model.lists[model.activeTab]
	if state == nil || state.cursor < 0 || state.cursor >= len(state.results) {
		return nil
	}
	selected := state.results[state.cursor].Ticket
	return &selected
}

// --- Commands ---

func (model *Model) loadList(tab Tab) tea.Cmd {
	state := model.lists[tab]
	state.sequence++
	state.loading = true
	sequence, filters := state.sequence, state.filters
	source, ctx := model.source, model.ctx
	return func() tea.Msg {
		var page *ticket.Page[ticket.Ticket]
		var err error
		if tab == TabTrash {
			page, err = source.ListTrashed(ctx, filters)
		} else {
			page, err = source.ListTickets(ctx, filters)
		}
		return listLoadedMsg{tab: tab, sequence: sequence, page: page, err: err}
	}
}

func (model Model) fetchTicket(id int64) tea.Cmd {
	source, ctx := model.source, model.ctx
	return func() tea.Msg {
		current, err := source.GetTicket(ctx, id)
		return ticketLoadedMsg{ticketID: id, ticket: current, err: err}
	}
}

func (model Model) fetchEvents(query timeline.Query) tea.Cmd {
	source, ctx := model.source, model.ctx
	return func() tea.Msg {
		page, err := source.TicketEvents(ctx, query.TicketID, query.Page, query.PerPage)
		return eventsLoadedMsg{query: query, page: page, err: err}
	}
}

func (model *Model) loadStats() tea.Cmd {
	model.statsPane.SetLoading()
	source, ctx, limit := model.source, model.ctx, model.activityLimit
	return func() tea.Msg {
		data := &statsData{}
		data.summary, data.summaryErr = source.Summary(ctx)
		data.backlog, data.backlogErr = source.Backlog(ctx)
		data.activity, data.activityErr = source.Activity(ctx, limit)
		return statsLoadedMsg{data: data}
	}
}

func (model Model) loadUser() tea.Cmd {
	source, ctx := model.source, model.ctx
	return func() tea.Msg {
		user, err := source.Me(ctx)
		return userLoadedMsg{user: user, err: err}
	}
}

func (model Model) mutate(id int64, successNotice string, run func(ctx context.Context) (*ticket.Ticket, error)) tea.Cmd {
	ctx := model.ctx
	return func() tea.Msg {
		updated, err := run(ctx)
		return mutationResultMsg{ticketID: id, ticket: updated, removed: err == nil && updated == nil, notice: successNotice, err: err}
	}
}

func (model Model) enqueueAI(id int64, job ticket.Job) tea.Cmd {
	source, ctx := model.source, model.ctx
	return func() tea.Msg {
		response, err := source.EnqueueAI(ctx, id, job)
		if err != nil {
			return mutationResultMsg{ticketID: id, err: err}
		}
		return mutationResultMsg{ticketID: id, ticket: &response.Data, notice: jobLabels[job] + ": na fila"}
	}
}

// setNotice shows text in the help line until it fades.
func (model *Model) setNotice(text string, isError bool) tea.Cmd {
	sequence := uint64(1)
	if model.notice != nil {
		sequence = model.notice.sequence + 1
	}
	model.notice = &notice{text: text, isError: isError, sequence: sequence}
	clk := model.clock
	return func() tea.Msg {
		<-clk.After(noticeDuration)
		return noticeFadeMsg{sequence: sequence}
	}
}

// cycle returns the value after current in values, wrapping around.
// An unknown current yields the first value.
func cycle[T comparable](values []T, current T) T {
	index := slices.Index(values, current)
	return values[(index+1)%len(values)]
}

// --- Layout ---

func (model *Model) updatePaneSizes() {
	height := model.visibleHeight()
	detailWidth := max(model.width-model.listWidth()-1, 10)
	model.detailPane.SetSize(detailWidth, height)
	model.statsPane.SetSize(model.width, height)
	for _, state := range model.lists {
		model.ensureCursorVisible(state)
	}
}

func (model Model) listWidth() int {
	return int(float64(model.width) * listSplitRatio)
}

// visibleHeight is the content height between the header line and the
// separator and help lines.
func (model Model) visibleHeight() int {
	return model.height - 3
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Carregando..."
	}

	var sections []string
	switch {
	case model.focus == FocusSearch || (model.focus == FocusConfirm && model.priorFocus == FocusSearch):
		sections = append(sections, model.renderSearchBar())
	case model.filter.View(model.theme, model.width) != "":
		sections = append(sections, model.filter.View(model.theme, model.width))
	default:
		sections = append(sections, model.renderHeader())
	}

	if model.activeTab == TabStats {
		sections = append(sections, model.statsPane.View(true))
	} else {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			model.renderListPane(),
			model.renderDivider(),
			model.detailPane.View(model.focus == FocusDetail),
		))
	}

	sections = append(sections,
		lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", model.width)),
		model.renderHelp(),
	)
	output := strings.Join(sections, "\n")

	if model.confirm != nil {
		box := tui.ConfirmBox(model.theme, model.confirm.title, model.confirm.question, "y confirmar · qualquer outra tecla cancela")
		output = tui.Center(output, box, model.width, model.height)
	}
	return output
}

func (model Model) renderListPane() string {
	state := model.lists[model.activeTab]
	listWidth := model.listWidth()
	rowWidth := listWidth - 1
	visible := max(model.visibleHeight(), 0)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var rows []string
	switch {
	case state.page == nil && state.err != nil:
		rows = append(rows,
			lipgloss.NewStyle().Foreground(model.theme.ErrorForeground).Width(rowWidth).Render(" Erro ao carregar tickets: "+state.err.Error()),
			faint.Render(" r: "+timeline.RetryLabel))
	case state.page == nil:
		rows = append(rows, faint.Render(" Carregando tickets…"))
	case len(state.results) == 0:
		renderer := NewListRenderer(model.theme, rowWidth, model.clock.Now(), model.renderer)
		rows = append(rows, "", renderer.RenderEmpty(model.filter.Input != ""))
	default:
		renderer := NewListRenderer(model.theme, rowWidth, model.clock.Now(), model.renderer)
		for index := state.offset; index < state.offset+visible && index < len(state.results); index++ {
			result := state.results[index]
			rows = append(rows, renderer.RenderRow(result.Ticket, index == state.cursor, result.TitlePositions))
		}
	}
	if len(rows) > visible {
		rows = rows[:visible]
	}

	scrollbar := tui.RenderScrollbar(model.theme, visible, len(state.results), visible, state.offset, model.focus == FocusList)
	content := lipgloss.NewStyle().Width(rowWidth).Height(visible).Render(strings.Join(rows, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

func (model Model) renderDivider() string {
	visible := max(model.visibleHeight(), 0)
	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}
	return lipgloss.NewStyle().Foreground(model.theme.BorderColor).Width(1).Height(visible).Render(strings.Join(lines, "\n"))
}

// renderHeader embeds the tab labels in a rule, with the list status
// and signed-in user on the right:
//
//	─── 1:Tickets ─── 2:Lixeira ─── 3:Estatísticas ──── Página 1 de 3 · 42 · Ana ─
func (model Model) renderHeader() string {
	sep := lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render("─")
	active := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	inactive := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	left := strings.Repeat(sep, 3)
	for index, tabDef := range tabDefs {
		style := inactive
		if tabDef.tab == model.activeTab {
			style = active
		}
		left += " " + style.Render(tabDef.label) + " "
		if index < len(tabDefs)-1 {
			left += strings.Repeat(sep, 3)
		} else {
			left += sep
		}
	}

	status := model.headerStatus()
	right := " " + inactive.Render(status) + " " + sep
	fill := max(model.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(sep, fill) + right
}

func (model Model) headerStatus() string {
	var parts []string
	if state, ok := model.lists[model.activeTab]; ok {
		if state.loading {
			parts = append(parts, "carregando…")
		}
		if state.page != nil {
			meta := state.page.Meta
			parts = append(parts, fmt.Sprintf("Página %d de %d", max(meta.CurrentPage, 1), max(meta.LastPage, 1)), strconv.Itoa(meta.Total)+" tickets")
		}
		if state.filters.Status != "" {
			parts = append(parts, "status: "+ticketevent.StatusLabel(state.filters.Status))
		}
		if state.filters.Priority != "" {
			parts = append(parts, "prioridade: "+ticketevent.PriorityLabel(state.filters.Priority))
		}
		if label, ok := sortLabels[state.filters.Sort]; ok && state.filters.Sort != ticket.SortNewest {
			parts = append(parts, "ordem: "+label)
		}
		if state.filters.Query != "" {
			parts = append(parts, "busca: "+state.filters.Query)
		}
	}
	switch {
	case model.user != nil:
		name := model.user.Name
		if model.user.IsAdmin {
			name += " (admin)"
		}
		parts = append(parts, name)
	case model.userErr != nil:
		parts = append(parts, "não autenticado")
	}
	return strings.Join(parts, " · ")
}

func (model Model) renderSearchBar() string {
	cursor := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).Render("▎")
	return lipgloss.NewStyle().Foreground(model.theme.NormalText).Width(model.width).Render(" buscar: " + model.searchInput + cursor)
}

func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	indicator := "LISTA"
	var hints []key.Binding
	switch {
	case model.activeTab == TabStats:
		indicator = "ESTATÍSTICAS"
		hints = []key.Binding{model.keys.Up, model.keys.Down, model.keys.Refresh, model.keys.TabTickets, model.keys.Quit}
	case model.focus == FocusFilter:
		indicator = "FILTRO"
	case model.focus == FocusSearch:
		indicator = "BUSCA"
	case model.focus == FocusConfirm:
		indicator = "CONFIRMAR"
	case model.focus == FocusDetail:
		indicator = "DETALHE"
		hints = []key.Binding{model.keys.EventDown, model.keys.ToggleDetails, model.keys.ToggleSort, model.keys.NextPage, model.keys.CycleStatus, model.keys.GenerateSummary, model.keys.Back}
	case model.activeTab == TabTrash:
		hints = []key.Binding{model.keys.Open, model.keys.Restore, model.keys.Purge, model.keys.Filter, model.keys.Search, model.keys.Quit}
	default:
		hints = []key.Binding{model.keys.Open, model.keys.Filter, model.keys.Search, model.keys.CycleStatusFilter, model.keys.CycleSort, model.keys.NextPage, model.keys.Delete, model.keys.Quit}
	}

	var help strings.Builder
	help.WriteString(" [" + indicator + "]")
	for _, binding := range hints {
		help.WriteString("  " + binding.Help().Key + " " + binding.Help().Desc)
	}
	line := style.Render(help.String())

	if model.notice != nil {
		color := model.theme.NoticeForeground
		if model.notice.isError {
			color = model.theme.ErrorForeground
		}
		line += "  " + lipgloss.NewStyle().Foreground(color).Bold(true).Render(model.notice.text)
	}
	return lipgloss.NewStyle().MaxWidth(model.width).Render(line)
}
