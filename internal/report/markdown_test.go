package report

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

func TestMarkdown_TwoRecords(t *testing.T) {
	records := []domain.BatchRecord{
		{
			ThumbnailURL: "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
			Title:        "Never Gonna Give You Up",
			Description:  "Official video",
		},
		{
			ThumbnailURL: "https://img.youtube.com/vi/jNQXAC9IVRw/maxresdefault.jpg",
			Title:        "Me at the zoo",
			Description:  "The first video",
		},
	}

	got := MarkdownString(records)
	want := "| Thumbnail URL | Video Name | Video Description |\n" +
		"|---|---|---|\n" +
		"| https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg | Never Gonna Give You Up | Official video |\n" +
		"| https://img.youtube.com/vi/jNQXAC9IVRw/maxresdefault.jpg | Me at the zoo | The first video |\n"

	if got != want {
		t.Errorf("Markdown() =\n%s\nwant\n%s", got, want)
	}
}

func TestMarkdown_NoRecords(t *testing.T) {
	got := MarkdownString(nil)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and separator only", len(lines))
	}
}

func TestMarkdown_EmptyMetadata(t *testing.T) {
	got := MarkdownString([]domain.BatchRecord{{ThumbnailURL: "u"}})
	if !strings.HasSuffix(got, "| u |  |  |\n") {
		t.Errorf("row = %q", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestMarkdown_WriteError(t *testing.T) {
	if err := Markdown(failingWriter{}, nil); err == nil {
		t.Error("expected write error")
	}
}

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"pipe", "a | b", `a \| b`},
		{"newline", "line1\nline2", "line1 line2"},
		{"crlf", "line1\r\nline2", "line1 line2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCell(tt.in); got != tt.want {
				t.Errorf("EscapeCell(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateDescription(t *testing.T) {
	exact := strings.Repeat("a", 100)
	long := strings.Repeat("b", 150)

	if got := TruncateDescription(exact); got != exact {
		t.Error("100-rune description should be unchanged")
	}

	got := TruncateDescription(long)
	if utf8.RuneCountInString(got) != 100 {
		t.Errorf("truncated length = %d, want 100", utf8.RuneCountInString(got))
	}
	if got != strings.Repeat("b", 97)+"..." {
		t.Errorf("TruncateDescription() = %q", got)
	}
}

func TestTruncateDescription_Multibyte(t *testing.T) {
	long := strings.Repeat("日", 120)
	got := TruncateDescription(long)

	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
	if got != strings.Repeat("日", 97)+"..." {
		t.Errorf("TruncateDescription() = %q", got)
	}
}

func TestMarkdown_EscapesAndTruncates(t *testing.T) {
	rec := domain.BatchRecord{
		ThumbnailURL: "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		Title:        "A | B",
		Description:  strings.Repeat("x", 120),
	}

	got := MarkdownString([]domain.BatchRecord{rec})
	if !strings.Contains(got, `| A \| B |`) {
		t.Errorf("title pipe not escaped: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("x", 97)+"... |") {
		t.Errorf("description not truncated: %q", got)
	}
}
