// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ticketdesk/ticketdesk/lib/tui"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// renderMarkdown renders ticket descriptions and AI text for the
// terminal. Soft line breaks reflow, so text typed in a web form
// wraps at the pane width.
func renderMarkdown(input string, theme tui.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// The output always goes to the TUI, so skip profile detection,
	// which yields plain text when there is no TTY.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{source: source, theme: theme, lipRenderer: lipRenderer}
	return strings.Join(renderer.blocks(document, max(width, 10)), "\n\n")
}

// markdownRenderer turns block nodes into lists of rendered lines.
// Each block renders at a width; containers shrink the width for
// their children and prefix the lines that come back.
type markdownRenderer struct {
	source      []byte
	theme       tui.Theme
	lipRenderer *lipgloss.Renderer
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

// blocks renders every child block of parent. Each element is one
// block, possibly spanning several lines.
func (renderer *markdownRenderer) blocks(parent ast.Node, width int) []string {
	var rendered []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if block := renderer.block(child, width); block != "" {
			rendered = append(rendered, block)
		}
	}
	return rendered
}

func (renderer *markdownRenderer) block(node ast.Node, width int) string {
	switch node := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return ansi.Wrap(renderer.inline(node), width, "")

	case *ast.Heading:
		style := renderer.newStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)
		if node.Level > 1 {
			style = style.Foreground(renderer.theme.NormalText)
		}
		return ansi.Wrap(style.Render(renderer.plainText(node)), width, "")

	case *ast.Blockquote:
		bar := renderer.newStyle().Foreground(renderer.theme.BorderColor).Render("│ ")
		inner := strings.Join(renderer.blocks(node, width-2), "\n\n")
		return prefixLines(inner, bar, bar)

	case *ast.List:
		return renderer.list(node, width)

	case *ast.FencedCodeBlock:
		return renderer.code(renderer.lines(node), string(node.Language(renderer.source)))

	case *ast.CodeBlock:
		return renderer.code(renderer.lines(node), "")

	case *ast.ThematicBreak:
		return renderer.newStyle().Foreground(renderer.theme.BorderColor).Render(strings.Repeat("─", width))

	case *ast.HTMLBlock:
		return renderer.newStyle().Foreground(renderer.theme.FaintText).Render(stripHTMLTags(renderer.lines(node)))

	case *extast.Table:
		return renderer.table(node, width)
	}
	return ansi.Wrap(renderer.inline(node), width, "")
}

// list renders bullets or numbers with children indented under the
// marker. Tight lists keep items on consecutive lines.
func (renderer *markdownRenderer) list(list *ast.List, width int) string {
	number := list.Start
	if number == 0 {
		number = 1
	}
	markerStyle := renderer.newStyle().Foreground(renderer.theme.FaintText)

	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		indent := strings.Repeat(" ", lipgloss.Width(marker))
		separator := "\n\n"
		if list.IsTight {
			separator = "\n"
		}
		content := strings.Join(renderer.blocks(item, width-len(indent)), separator)
		items = append(items, prefixLines(content, markerStyle.Render(marker), indent))
	}
	if list.IsTight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "\n\n")
}

// code highlights with chroma when the language is known and falls
// back to faint text otherwise. Long lines are left to the viewport.
func (renderer *markdownRenderer) code(source, language string) string {
	source = strings.TrimRight(source, "\n")
	fallback := renderer.newStyle().Foreground(renderer.theme.FaintText)
	var rendered string
	if language == "" {
		rendered = fallback.Render(source)
	} else {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, source, language, "terminal256", "monokai"); err != nil {
			rendered = fallback.Render(source)
		} else {
			rendered = strings.TrimRight(buffer.String(), "\n")
		}
	}
	return prefixLines(rendered, "  ", "  ")
}

func (renderer *markdownRenderer) table(node *extast.Table, width int) string {
	var headers []string
	var rows [][]string
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, renderer.inline(cell))
		}
		if child.Kind() == extast.KindTableHeader {
			headers = cells
		} else {
			rows = append(rows, cells)
		}
	}

	border := renderer.newStyle().Foreground(renderer.theme.BorderColor)
	header := renderer.newStyle().Bold(true).Padding(0, 1)
	cell := renderer.newStyle().Padding(0, 1)
	rendered := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, column int) lipgloss.Style {
			style := cell
			if row == table.HeaderRow {
				style = header
			}
			if column < len(node.Alignments) {
				switch node.Alignments[column] {
				case extast.AlignRight:
					style = style.Align(lipgloss.Right)
				case extast.AlignCenter:
					style = style.Align(lipgloss.Center)
				}
			}
			return style
		})
	output := rendered.String()
	if lipgloss.Width(output) > width {
		output = rendered.Width(width).String()
	}
	return output
}

// inline renders the inline children of node into one styled string.
// Soft breaks become spaces; hard breaks stay newlines.
func (renderer *markdownRenderer) inline(node ast.Node) string {
	var builder strings.Builder
	renderer.inlineInto(&builder, node, renderer.newStyle().Foreground(renderer.theme.NormalText))
	return builder.String()
}

func (renderer *markdownRenderer) inlineInto(builder *strings.Builder, parent ast.Node, style lipgloss.Style) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			builder.WriteString(style.Render(string(node.Segment.Value(renderer.source))))
			switch {
			case node.HardLineBreak():
				builder.WriteString("\n")
			case node.SoftLineBreak():
				builder.WriteString(" ")
			}
		case *ast.String:
			builder.WriteString(style.Render(string(node.Value)))
		case *ast.Emphasis:
			if node.Level >= 2 {
				renderer.inlineInto(builder, node, style.Bold(true))
			} else {
				renderer.inlineInto(builder, node, style.Italic(true))
			}
		case *extast.Strikethrough:
			renderer.inlineInto(builder, node, style.Strikethrough(true))
		case *ast.CodeSpan:
			code := renderer.newStyle().Foreground(renderer.theme.AIAccent)
			builder.WriteString(code.Render(renderer.plainText(node)))
		case *ast.Link:
			renderer.inlineInto(builder, node, style.Underline(true))
			builder.WriteString(renderer.newStyle().Foreground(renderer.theme.FaintText).Render(" (" + string(node.Destination) + ")"))
		case *ast.AutoLink:
			builder.WriteString(style.Underline(true).Render(string(node.URL(renderer.source))))
		case *ast.Image:
			builder.WriteString(renderer.newStyle().Foreground(renderer.theme.FaintText).Render("[imagem: " + renderer.plainText(node) + "]"))
		case *ast.RawHTML:
			var raw strings.Builder
			for index := 0; index < node.Segments.Len(); index++ {
				segment := node.Segments.At(index)
				raw.Write(segment.Value(renderer.source))
			}
			if stripped := stripHTMLTags(raw.String()); stripped != "" {
				builder.WriteString(style.Render(stripped))
			}
		case *extast.TaskCheckBox:
			box := "☐ "
			if node.IsChecked {
				box = "☑ "
			}
			builder.WriteString(style.Render(box))
		default:
			renderer.inlineInto(builder, node, style)
		}
	}
}

// plainText concatenates the text under node without styling.
func (renderer *markdownRenderer) plainText(node ast.Node) string {
	var builder strings.Builder
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch child := child.(type) {
		case *ast.Text:
			builder.Write(child.Segment.Value(renderer.source))
			if child.SoftLineBreak() {
				builder.WriteByte(' ')
			}
		case *ast.String:
			builder.Write(child.Value)
		}
		return ast.WalkContinue, nil
	})
	return builder.String()
}

// lines returns the raw source lines of a code or HTML block.
func (renderer *markdownRenderer) lines(node ast.Node) string {
	var builder strings.Builder
	segments := node.Lines()
	for index := 0; index < segments.Len(); index++ {
		segment := segments.At(index)
		builder.Write(segment.Value(renderer.source))
	}
	return builder.String()
}

// prefixLines puts first before the first line of content and rest
// before every following line.
func prefixLines(content, first, rest string) string {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if index == 0 {
			lines[index] = first + line
		} else {
			lines[index] = rest + line
		}
	}
	return strings.Join(lines, "\n")
}

// stripHTMLTags drops anything between angle brackets.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
