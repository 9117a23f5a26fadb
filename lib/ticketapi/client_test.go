// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// newTestClient creates a Client backed by the given httptest.Server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func writeJSON(t *testing.T, writer http.ResponseWriter, status int, body string) {
	t.Helper()
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if _, err := io.WriteString(writer, body); err != nil {
		t.Errorf("writing response: %v", err)
	}
}

const ticketSevenJSON = `{"id":7,"title":"VPN caiu","description":"","status":"open","priority":"high",
	"ai_summary_status":"idle","ai_reply_status":"idle","ai_priority_status":"idle",
	"created_at":"2026-02-12T10:00:00.000000Z","updated_at":"2026-02-12T10:00:00.000000Z"}`

func TestNewClientValidatesBaseURL(t *testing.T) {
	tests := []struct {
		baseURL string
		wantErr string
	}{
		{"ftp://tickets.example.com", "must be http or https"},
		{"https://", "has no host"},
		{"://broken", "invalid base URL"},
	}
	for _, test := range tests {
		_, err := NewClient(Config{BaseURL: test.baseURL})
		if err == nil || !strings.Contains(err.Error(), test.wantErr) {
			t.Errorf("NewClient(%q) = %v, want error containing %q", test.baseURL, err, test.wantErr)
		}
	}

	client, err := NewClient(Config{BaseURL: "https://tickets.example.com/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "https://tickets.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", client.BaseURL())
	}

	defaulted, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient with defaults: %v", err)
	}
	if defaulted.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", defaulted.BaseURL(), DefaultBaseURL)
	}
}

func TestRequestHeaders(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		captured = request.Header.Clone()
		writeJSON(t, writer, http.StatusOK, `{"data":`+ticketSevenJSON+`}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.GetTicket(context.Background(), 7); err != nil {
		t.Fatalf("GetTicket: %v", err)
	}

	if got := captured.Get("Authorization"); got != "Bearer test-token" {
		t.Errorf("Authorization = %q", got)
	}
	if got := captured.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
	if _, err := uuid.Parse(captured.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID: %v", captured.Get("X-Request-ID"), err)
	}
	if !strings.HasPrefix(captured.Get("User-Agent"), "ticketdesk/") {
		t.Errorf("User-Agent = %q", captured.Get("User-Agent"))
	}
	if !strings.Contains(captured.Get("Accept-Encoding"), "gzip") {
		t.Errorf("Accept-Encoding = %q, want gzip negotiated", captured.Get("Accept-Encoding"))
	}
	if captured.Get("Content-Type") != "" {
		t.Error("GET without body should not send Content-Type")
	}
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "" {
			t.Error("Authorization sent without a token")
		}
		writeJSON(t, writer, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Errorf("Me error = %v, want 401", err)
	}
}

func TestListTicketsSendsFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/tickets" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if got := request.URL.RawQuery; got != "page=2&per_page=15&priority=high&q=vpn&sort=-priority&status=open" {
			t.Errorf("query = %q", got)
		}
		writeJSON(t, writer, http.StatusOK, `{"data":[`+ticketSevenJSON+`],
			"links":{"first":"/api/tickets?page=1","last":"/api/tickets?page=3","prev":"/api/tickets?page=1","next":"/api/tickets?page=3"},
			"meta":{"current_page":2,"last_page":3,"per_page":15,"total":31,"from":16,"to":30}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.ListTickets(context.Background(), ticket.Filters{
		Page: 2, PerPage: 15, Status: ticket.StatusOpen, Priority: ticket.PriorityHigh,
		Query: "vpn", Sort: ticket.SortPriorityDesc,
	})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Title != "VPN caiu" {
		t.Errorf("Data = %+v", page.Data)
	}
	if page.Meta.Total != 31 || !page.Meta.HasNext() || !page.Meta.HasPrevious() {
		t.Errorf("Meta = %+v", page.Meta)
	}
}

func TestListTicketsRejectsBadFilters(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	for _, filters := range []ticket.Filters{
		{Status: "archived"},
		{Priority: "urgent"},
		{Sort: "title"},
		{Page: -1},
	} {
		if _, err := client.ListTickets(context.Background(), filters); err == nil {
			t.Errorf("ListTickets(%+v) should fail", filters)
		}
	}
	if requests.Load() != 0 {
		t.Errorf("%d requests sent for invalid filters", requests.Load())
	}
}

func TestListTrashedDropsStatusAndPriority(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/tickets/trashed" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if got := request.URL.RawQuery; got != "q=impressora" {
			t.Errorf("query = %q, want only q", got)
		}
		writeJSON(t, writer, http.StatusOK, `{"data":[],"links":{},"meta":{"current_page":1,"last_page":1,"per_page":15,"total":0}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.ListTrashed(context.Background(), ticket.Filters{Status: ticket.StatusOpen, Priority: ticket.PriorityLow, Query: "impressora"})
	if err != nil {
		t.Fatalf("ListTrashed: %v", err)
	}
	if len(page.Data) != 0 {
		t.Errorf("Data = %+v, want empty", page.Data)
	}
}

func TestCreateTicketValidatesLocally(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.CreateTicket(context.Background(), ticket.CreateRequest{Title: "  "}); err == nil {
		t.Error("blank title should fail")
	}
	if requests.Load() != 0 {
		t.Error("invalid request reached the server")
	}
}

func TestCreateTicketSendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost || request.URL.Path != "/api/tickets" {
			t.Errorf("%s %s", request.Method, request.URL.Path)
		}
		if request.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", request.Header.Get("Content-Type"))
		}
		var body map[string]any
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["title"] != "VPN caiu" || body["priority"] != "high" {
			t.Errorf("body = %v", body)
		}
		writeJSON(t, writer, http.StatusCreated, `{"data":`+ticketSevenJSON+`}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	created, err := client.CreateTicket(context.Background(), ticket.CreateRequest{Title: "VPN caiu", Priority: ticket.PriorityHigh})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if created.ID != 7 {
		t.Errorf("ID = %d, want 7", created.ID)
	}
}

func TestValidationErrorIsParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, http.StatusUnprocessableEntity, `{"message":"The title field is required. (and 1 more error)",
			"errors":{"title":["The title field is required."],"priority":["The selected priority is invalid."]}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	title := "x"
	_, err := client.UpdateTicket(context.Background(), 7, ticket.UpdateRequest{Title: &title})

	var apiError *APIError
	if !errors.As(err, &apiError) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if !IsValidation(err) || IsNotFound(err) {
		t.Errorf("classification wrong for %v", err)
	}
	if fields := apiError.Fields(); len(fields) != 2 || fields[0] != "priority" || fields[1] != "title" {
		t.Errorf("Fields = %v, want [priority title]", fields)
	}
	if apiError.RequestID == "" {
		t.Error("RequestID should be recorded")
	}
	want := "ticketapi: HTTP 422: The title field is required. (and 1 more error); priority: The selected priority is invalid.; title: The title field is required."
	if err.Error() != want {
		t.Errorf("Error() = %q\nwant      %q", err.Error(), want)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		io.WriteString(writer, "<html>Bad Gateway</html>\n")
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Summary(context.Background())
	if !IsTransient(err) {
		t.Errorf("502 should be transient: %v", err)
	}
	if !strings.Contains(err.Error(), "HTTP 502: <html>Bad Gateway</html>") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestEmptyErrorBodyUsesStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.DeleteTicket(context.Background(), 7)
	if !IsForbidden(err) {
		t.Fatalf("error = %v, want 403", err)
	}
	if !strings.HasSuffix(err.Error(), "Forbidden") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestDeleteAndForceDelete(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodDelete {
			t.Errorf("method = %s", request.Method)
		}
		paths = append(paths, request.URL.Path)
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()
	if err := client.DeleteTicket(ctx, 7); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
	if err := client.ForceDeleteTicket(ctx, 7); err != nil {
		t.Fatalf("ForceDeleteTicket: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/api/tickets/7" || paths[1] != "/api/tickets/7/force" {
		t.Errorf("paths = %v", paths)
	}
}

func TestInvalidIDSendsNothing(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()
	if _, err := client.GetTicket(ctx, 0); !errors.Is(err, ErrInvalidID) {
		t.Errorf("GetTicket(0) = %v", err)
	}
	if err := client.DeleteTicket(ctx, -3); !errors.Is(err, ErrInvalidID) {
		t.Errorf("DeleteTicket(-3) = %v", err)
	}
	if _, err := client.TicketEvents(ctx, 0, 1, 20); !errors.Is(err, ErrInvalidID) {
		t.Errorf("TicketEvents(0) = %v", err)
	}
}

func TestEnqueueAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost || request.URL.Path != "/api/tickets/7/ai-reply" {
			t.Errorf("%s %s", request.Method, request.URL.Path)
		}
		body := strings.Replace(ticketSevenJSON, `"ai_reply_status":"idle"`, `"ai_reply_status":"queued"`, 1)
		writeJSON(t, writer, http.StatusAccepted, `{"data":`+body+`,"meta":{"status":"queued","job":"reply"}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	response, err := client.EnqueueAI(context.Background(), 7, ticket.JobReply)
	if err != nil {
		t.Fatalf("EnqueueAI: %v", err)
	}
	if response.Meta.Job != ticket.JobReply || response.Meta.Status != ticket.JobStatusQueued {
		t.Errorf("Meta = %+v", response.Meta)
	}
	if response.Data.JobStatus(ticket.JobReply) != ticket.JobStatusQueued {
		t.Errorf("reply status = %q", response.Data.JobStatus(ticket.JobReply))
	}

	if _, err := client.EnqueueAI(context.Background(), 7, ticket.Job("translate")); err == nil {
		t.Error("unknown job should fail")
	}
}

func TestTicketEventsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/tickets/7/activity" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if got := request.URL.RawQuery; got != "page=2&per_page=20" {
			t.Errorf("query = %q", got)
		}
		writeJSON(t, writer, http.StatusOK, `{"data":[
			{"id":3,"ticket_id":7,"type":"status_changed","meta":{"before":"open","after":"closed"},"user":{"id":1,"name":"Ana"},"created_at":"2026-02-12T11:00:00Z"},
			{"id":2,"ticket_id":7,"type":"updated","meta":null,"created_at":"2026-02-12T10:30:00Z"}],
			"links":{},"meta":{"current_page":2,"last_page":2,"per_page":20,"total":22}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.TicketEvents(context.Background(), 7, 2, 20)
	if err != nil {
		t.Fatalf("TicketEvents: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("got %d events, want 2", len(page.Data))
	}
	if after, _ := page.Data[0].Meta.String("after"); after != "closed" {
		t.Errorf("meta.after = %q", after)
	}
	if page.Data[1].Meta != nil {
		t.Errorf("null meta decoded as %v", page.Data[1].Meta)
	}
	if page.Meta.HasNext() {
		t.Error("last page should have no next")
	}
}

func TestMeBypassesCaches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/auth/me" {
			t.Errorf("path = %q", request.URL.Path)
		}
		if !strings.Contains(request.Header.Get("Cache-Control"), "no-store") || request.Header.Get("Pragma") != "no-cache" {
			t.Errorf("cache headers = %q / %q", request.Header.Get("Cache-Control"), request.Header.Get("Pragma"))
		}
		writeJSON(t, writer, http.StatusOK, `{"data":{"id":3,"name":"Ana","email":"ana@example.com","is_admin":true}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.ID != 3 || !user.IsAdmin {
		t.Errorf("user = %+v", user)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/tickets/summary":
			writeJSON(t, writer, http.StatusOK, `{"data":{"by_status":{"open":4,"closed":2},"by_priority":{"high":1},
				"total_active":4,"closed":{"today":1,"last_7_days":2,"last_30_days":2},"average_time_to_close_hours":null}}`)
		case "/api/tickets/backlog":
			writeJSON(t, writer, http.StatusOK, `{"data":{"counts":{"older_than_2_days":3,"older_than_7_days":1,"older_than_14_days":0},"oldest_open":[`+ticketSevenJSON+`]}}`)
		case "/api/tickets/activity":
			if got := request.URL.Query().Get("per_page"); got != "50" {
				t.Errorf("per_page = %q, want default 50", got)
			}
			writeJSON(t, writer, http.StatusOK, `{"data":[{"ticket_id":7,"ticket_title":"VPN caiu","type":"ai_done","ai_type":"summary","timestamp":"2026-02-12T10:00:00Z"}]}`)
		default:
			t.Errorf("unexpected path %q", request.URL.Path)
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	summary, err := client.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.ByStatus[ticket.StatusOpen] != 4 || summary.AverageTimeToCloseHours != nil {
		t.Errorf("summary = %+v", summary)
	}

	backlog, err := client.Backlog(ctx)
	if err != nil {
		t.Fatalf("Backlog: %v", err)
	}
	if backlog.Counts.OlderThan2Days != 3 || len(backlog.OldestOpen) != 1 {
		t.Errorf("backlog = %+v", backlog)
	}

	entries, err := client.Activity(ctx, 0)
	if err != nil {
		t.Fatalf("Activity: %v", err)
	}
	if len(entries) != 1 || entries[0].AIType != ticket.JobSummary {
		t.Errorf("entries = %+v", entries)
	}
}

func TestCompressedResponsesAreDecoded(t *testing.T) {
	var tickets []string
	for index := 1; index <= 40; index++ {
		tickets = append(tickets, fmt.Sprintf(`{"id":%d,"title":"Ticket %d","description":%q,"status":"open"}`,
			index, index, strings.Repeat("Sem acesso à VPN. ", 8)))
	}
	body := `{"data":[` + strings.Join(tickets, ",") + `],"links":{},"meta":{"current_page":1,"last_page":1,"per_page":40,"total":40}}`

	var encoded atomic.Bool
	handler := gzhttp.GzipHandler(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		io.WriteString(writer, body)
	}))
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		encoded.Store(strings.Contains(request.Header.Get("Accept-Encoding"), "gzip"))
		handler.ServeHTTP(writer, request)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.ListTickets(context.Background(), ticket.Filters{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if !encoded.Load() {
		t.Error("client did not offer gzip")
	}
	if len(page.Data) != 40 || page.Data[39].Title != "Ticket 40" {
		t.Errorf("decoded %d tickets", len(page.Data))
	}
}
