// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ticketdesk/ticketdesk/lib/tui"
)

func renderPlain(t *testing.T, input string, width int) string {
	t.Helper()
	return ansi.Strip(renderMarkdown(input, tui.DefaultTheme, width))
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := renderMarkdown("  \n", tui.DefaultTheme, 40); got != "" {
		t.Errorf("renderMarkdown(blank) = %q, want empty", got)
	}
}

func TestRenderMarkdownReflowsParagraphs(t *testing.T) {
	got := renderPlain(t, "O usuário relata que\na VPN cai a cada\ncinco minutos.", 80)
	if got != "O usuário relata que a VPN cai a cada cinco minutos." {
		t.Errorf("paragraph = %q, want soft breaks joined", got)
	}
}

func TestRenderMarkdownWrapsToWidth(t *testing.T) {
	got := renderMarkdown(strings.Repeat("palavra ", 20), tui.DefaultTheme, 30)
	for _, line := range strings.Split(got, "\n") {
		if width := lipgloss.Width(line); width > 30 {
			t.Errorf("line %q is %d cells wide, want at most 30", ansi.Strip(line), width)
		}
	}
}

func TestRenderMarkdownStylesText(t *testing.T) {
	got := renderMarkdown("**urgente** e *importante*", tui.DefaultTheme, 40)
	if got == ansi.Strip(got) {
		t.Error("expected ANSI styling in the output")
	}
	if plain := ansi.Strip(got); plain != "urgente e importante" {
		t.Errorf("plain text = %q", plain)
	}
}

func TestRenderMarkdownBlocks(t *testing.T) {
	input := strings.Join([]string{
		"# Resumo",
		"",
		"- reiniciar o roteador",
		"- trocar a senha",
		"",
		"1. primeiro",
		"2. segundo",
		"",
		"> citação do cliente",
		"",
		"```go",
		"fmt.Println(\"oi\")",
		"```",
		"",
		"Veja [o painel](https://example.com).",
	}, "\n")
	got := renderPlain(t, input, 60)

	for _, want := range []string{
		"Resumo",
		"• reiniciar o roteador\n• trocar a senha",
		"1. primeiro\n2. segundo",
		"│ citação do cliente",
		"  fmt.Println(\"oi\")",
		"o painel (https://example.com)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "# Resumo") || strings.Contains(got, "```") {
		t.Errorf("markdown syntax leaked into output:\n%s", got)
	}
}

func TestRenderMarkdownNestedList(t *testing.T) {
	got := renderPlain(t, "- pai\n  - filho\n- irmão", 40)
	if !strings.Contains(got, "• pai\n  • filho\n• irmão") {
		t.Errorf("nested list = %q", got)
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	got := renderPlain(t, "| Campo | Valor |\n|---|--:|\n| status | aberto |\n", 60)
	for _, want := range []string{"Campo", "Valor", "status", "aberto", "─"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestStripHTMLTags(t *testing.T) {
	if got := stripHTMLTags("<b>oi</b> <br/>mundo"); got != "oi mundo" {
		t.Errorf("stripHTMLTags = %q", got)
	}
}
