package domain

// Tier is a named thumbnail resolution preset on the image host.
type Tier string

const (
	// TierMaxRes is the 1280x720 preset. It does not exist for every video.
	TierMaxRes Tier = "maxresdefault"
	// TierHQ is the 480x360 preset, present for every video.
	TierHQ Tier = "hqdefault"
)

// String returns the string representation of the Tier.
func (t Tier) String() string {
	return string(t)
}

// FallbackChain returns the tiers to try, most preferred first.
func FallbackChain() []Tier {
	return []Tier{TierMaxRes, TierHQ}
}

// ThumbnailCandidate pairs a tier with its image URL.
type ThumbnailCandidate struct {
	Tier Tier   `json:"tier"`
	URL  string `json:"url"`
}

// BatchRecord is one row of a batch report.
type BatchRecord struct {
	Line         int
	Input        string
	VideoID      VideoID
	ThumbnailURL string
	Title        string
	Description  string
}

// LineError records a batch line that could not be processed.
type LineError struct {
	Line  int
	Input string
	Err   error
}

func (e *LineError) Error() string {
	return e.Input + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error {
	return e.Err
}
