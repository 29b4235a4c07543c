package youtube

import (
	"fmt"
	"strings"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

// DefaultImageBaseURL is the public thumbnail host.
const DefaultImageBaseURL = "https://img.youtube.com/vi"

// ImageHost builds thumbnail URLs of the form <base>/<id>/<tier>.jpg.
type ImageHost struct {
	baseURL string
}

// NewImageHost creates an ImageHost rooted at baseURL.
// An empty baseURL selects DefaultImageBaseURL.
func NewImageHost(baseURL string) *ImageHost {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	return &ImageHost{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the image URL of one tier.
func (h *ImageHost) URL(id domain.VideoID, tier domain.Tier) string {
	return fmt.Sprintf("%s/%s/%s.jpg", h.baseURL, id, tier)
}

// Candidates returns the fallback chain for a video, most preferred first.
func (h *ImageHost) Candidates(id domain.VideoID) []domain.ThumbnailCandidate {
	tiers := domain.FallbackChain()
	candidates := make([]domain.ThumbnailCandidate, 0, len(tiers))
	for _, tier := range tiers {
		candidates = append(candidates, domain.ThumbnailCandidate{
			Tier: tier,
			URL:  h.URL(id, tier),
		})
	}
	return candidates
}

// ThumbnailURL returns the image URL of one tier on the public host.
func ThumbnailURL(id domain.VideoID, tier domain.Tier) string {
	return NewImageHost("").URL(id, tier)
}
