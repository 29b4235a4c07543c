package youtube

import (
	"regexp"
	"strings"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

// URL shapes, in the order they are tried. Each captures the full run of
// video ID characters after its prefix so over-long IDs are rejected rather
// than truncated.
var idPatterns = []*regexp.Regexp{
	// [scheme://][www.|m.]youtube.com/watch?[...&]v=ID
	regexp.MustCompile(`(?:^|//|\.)(?i:youtube\.com)/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]*)`),
	// [scheme://]youtu.be/ID
	regexp.MustCompile(`(?:^|//|\.)(?i:youtu\.be)/([A-Za-z0-9_-]*)`),
	// [scheme://][www.]youtube.com/embed/ID
	regexp.MustCompile(`(?:^|//|\.)(?i:youtube\.com)/embed/([A-Za-z0-9_-]*)`),
}

// ExtractVideoID returns the video ID carried by a watch, short or embed URL,
// or by a bare ID. It returns domain.ErrInvalidURL when nothing matches.
func ExtractVideoID(input string) (domain.VideoID, error) {
	s := strings.TrimSpace(input)

	for _, re := range idPatterns {
		match := re.FindStringSubmatch(s)
		if len(match) < 2 {
			continue
		}
		if id, err := domain.ParseVideoID(match[1]); err == nil {
			return id, nil
		}
	}

	// Plain video id
	return domain.ParseVideoID(s)
}

// SupportedFormats lists the URL shapes ExtractVideoID understands, for help output.
func SupportedFormats() []string {
	return []string{
		"https://www.youtube.com/watch?v=VIDEO_ID",
		"https://youtu.be/VIDEO_ID",
		"https://www.youtube.com/embed/VIDEO_ID",
		"VIDEO_ID",
	}
}
