package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/binfinder/binfinder/internal/cli/output"
)

// MarkdownWriter builds a markdown page on top of the CLI renderer in
// markdown mode, so tables and headers match what `-o markdown` prints.
type MarkdownWriter struct {
	buf bytes.Buffer
	r   *output.Renderer
}

// NewMarkdownWriter creates an empty page.
func NewMarkdownWriter() *MarkdownWriter {
	w := &MarkdownWriter{}
	w.r = output.NewRendererWithTTY(&w.buf, io.Discard, false, output.ModeMarkdown)
	return w
}

// Frontmatter writes a YAML frontmatter block.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.r.Println("---")
	w.r.Printf("title: %q\n", title)
	w.r.Printf("description: %q\n", description)
	w.r.Println("---")
	w.r.Println("")
}

// GeneratedMarker notes that the page must not be edited by hand.
func (w *MarkdownWriter) GeneratedMarker() {
	w.r.Println("<!-- Generated by scripts/gendocs. DO NOT EDIT. -->")
	w.r.Println("")
}

// Header writes a heading.
func (w *MarkdownWriter) Header(level int, text string) {
	w.r.Header(level, text)
}

// Paragraph writes a block of text.
func (w *MarkdownWriter) Paragraph(text string) {
	w.r.Println(strings.TrimSpace(text))
	w.r.Println("")
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	w.r.Println("```" + lang)
	w.r.Println(strings.TrimRight(code, "\n"))
	w.r.Println("```")
	w.r.Println("")
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.r.Println("- " + item)
	}
	w.r.Println("")
}

// Table writes a pipe table.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.r.Table(headers, rows)
	w.r.Println("")
}

// Bytes returns the page.
func (w *MarkdownWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription collapses a help string to one line without a trailing period.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSuffix(s, ".")
}
