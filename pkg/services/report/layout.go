package report

import (
	"fmt"
	"strings"
)

// Layout fixes the page geometry of the rendered document. Dimensions are
// in characters and lines; the footer occupies the bottom margin.
type Layout struct {
	PageWidth int
	PageLines int
	Margin    int
}

func DefaultLayout() Layout {
	return Layout{
		PageWidth: 96,
		PageLines: 56,
		Margin:    2,
	}
}

func (l Layout) usableLines() int {
	return l.PageLines - 2*l.Margin
}

// Document is the paginated result. Pages hold exactly Layout.PageLines
// lines each once finalized; Warnings collects non-fatal render problems
// such as blocks taller than a page.
type Document struct {
	Pages    [][]string
	Warnings []string
}

// Bytes serializes the document, pages separated by form feeds.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	for i, page := range d.Pages {
		if i > 0 {
			b.WriteString("\f\n")
		}
		for _, line := range page {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}

func (d *Document) PageCount() int {
	return len(d.Pages)
}

// builder tracks a running line cursor per page. Every export invocation
// owns its own builder; nothing here is shared between concurrent report
// generations.
type builder struct {
	layout   Layout
	pages    [][]string
	current  []string
	warnings []string
}

func newBuilder(layout Layout) *builder {
	return &builder{layout: layout}
}

func (b *builder) remaining() int {
	return b.layout.usableLines() - len(b.current)
}

func (b *builder) pageBreak() {
	b.pages = append(b.pages, b.current)
	b.current = nil
}

// writeBlock places an undividable block of lines, breaking to a fresh
// page exactly once when the block does not fit the remaining space. A
// block taller than a whole page is recorded as an overflow warning and
// spills over following pages instead of failing the document.
func (b *builder) writeBlock(lines []string) {
	if len(lines) == 0 {
		return
	}
	if len(lines) > b.remaining() {
		if len(b.current) > 0 {
			b.pageBreak()
		}
		if len(lines) > b.layout.usableLines() {
			b.warnings = append(b.warnings,
				fmt.Sprintf("block of %d lines exceeds page capacity of %d", len(lines), b.layout.usableLines()))
		}
	}
	for _, line := range lines {
		if b.remaining() == 0 {
			b.pageBreak()
		}
		b.current = append(b.current, line)
	}
}

// writeTable places a table, splitting rows across page breaks and
// repeating the header as a continuation header on every new page.
func (b *builder) writeTable(t Table) {
	header := t.headerLines()
	// A header plus at least one row must fit; otherwise start fresh.
	if b.remaining() < len(header)+2 && len(b.current) > 0 {
		b.pageBreak()
	}
	b.writeBlock(header)
	for _, row := range t.Rows {
		// Keep room for the row plus the closing separator.
		if b.remaining() < 2 {
			if b.remaining() > 0 {
				b.current = append(b.current, t.separator())
			}
			b.pageBreak()
			b.writeBlock(header)
		}
		b.current = append(b.current, t.rowLine(row))
	}
	b.current = append(b.current, t.separator())
}

func (b *builder) blank(n int) {
	for i := 0; i < n && b.remaining() > 0; i++ {
		b.current = append(b.current, "")
	}
}

// finalize pads every page to full height and stamps the deferred footer,
// which is only possible once the total page count is known.
func (b *builder) finalize(footerLeft string) *Document {
	if len(b.current) > 0 || len(b.pages) == 0 {
		b.pageBreak()
	}
	total := len(b.pages)
	doc := &Document{Warnings: b.warnings}
	for i, body := range b.pages {
		page := make([]string, 0, b.layout.PageLines)
		for j := 0; j < b.layout.Margin; j++ {
			page = append(page, "")
		}
		page = append(page, body...)
		for len(page) < b.layout.PageLines-b.layout.Margin {
			page = append(page, "")
		}
		footer := fmt.Sprintf("Page %d of %d", i+1, total)
		page = append(page, footerLine(b.layout.PageWidth, footerLeft, footer))
		for len(page) < b.layout.PageLines {
			page = append(page, "")
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}

func footerLine(width int, left, right string) string {
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func centered(width int, text string) string {
	if len(text) >= width {
		return text
	}
	pad := (width - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}

// wrap breaks text on word boundaries to the given width. Words longer
// than the width are emitted on their own line untouched.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
