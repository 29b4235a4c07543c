// Package report renders batch results.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

const (
	// MaxDescriptionRunes is the longest description written verbatim.
	MaxDescriptionRunes = 100

	tableHeader    = "| Thumbnail URL | Video Name | Video Description |"
	tableSeparator = "|---|---|---|"
	ellipsis       = "..."
)

var cellReplacer = strings.NewReplacer(
	"|", `\|`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// Markdown writes records as a three-column markdown table.
func Markdown(w io.Writer, records []domain.BatchRecord) error {
	if _, err := fmt.Fprintln(w, tableHeader); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, tableSeparator); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s |\n",
			EscapeCell(rec.ThumbnailURL),
			EscapeCell(rec.Title),
			EscapeCell(TruncateDescription(rec.Description)),
		); err != nil {
			return err
		}
	}
	return nil
}

// MarkdownString is Markdown into a string.
func MarkdownString(records []domain.BatchRecord) string {
	var b strings.Builder
	Markdown(&b, records)
	return b.String()
}

// EscapeCell makes s safe inside a table cell.
func EscapeCell(s string) string {
	return cellReplacer.Replace(s)
}

// TruncateDescription shortens descriptions longer than MaxDescriptionRunes.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxDescriptionRunes {
		return s
	}
	return string(runes[:MaxDescriptionRunes-len(ellipsis)]) + ellipsis
}
