package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/iconidentify/ytthumbs/internal/config"
	"github.com/iconidentify/ytthumbs/internal/domain"
)

// maxPageBytes bounds how much of a watch page is read looking for <head> tags.
const maxPageBytes = 4 << 20

// MetadataClient looks up video titles and descriptions from the watch page.
type MetadataClient struct {
	httpClient     *http.Client
	watchBaseURL   string
	userAgent      string
	acceptLanguage string
}

// NewMetadataClient creates a new metadata client.
func NewMetadataClient(cfg config.MetadataConfig) *MetadataClient {
	return &MetadataClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		watchBaseURL:   cfg.WatchBaseURL,
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
	}
}

// WatchURL returns the watch page URL of a video.
func (c *MetadataClient) WatchURL(id domain.VideoID) string {
	return c.watchBaseURL + "?v=" + url.QueryEscape(id.String())
}

// FetchMetadata retrieves og:title and og:description for a video.
// Missing tags yield empty fields, not an error.
func (c *MetadataClient) FetchMetadata(ctx context.Context, id domain.VideoID) (*domain.VideoMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.WatchURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMetadataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrMetadataUnavailable, resp.StatusCode)
	}

	return parseOpenGraph(io.LimitReader(resp.Body, maxPageBytes))
}

// parseOpenGraph scans the document head for og:title and og:description.
func parseOpenGraph(r io.Reader) (*domain.VideoMetadata, error) {
	meta := &domain.VideoMetadata{}
	var haveTitle, haveDescription bool

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return meta, nil
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrMetadataUnavailable, z.Err())

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "head" {
				return meta, nil
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}

			var property, content string
			var hasContent bool
			for {
				key, val, more := z.TagAttr()
				switch strings.ToLower(string(key)) {
				case "property", "name":
					property = strings.ToLower(string(val))
				case "content":
					content = string(val)
					hasContent = true
				}
				if !more {
					break
				}
			}
			if !hasContent {
				continue
			}

			switch property {
			case "og:title":
				if !haveTitle {
					meta.Title = content
					haveTitle = true
				}
			case "og:description":
				if !haveDescription {
					meta.Description = content
					haveDescription = true
				}
			}
			if haveTitle && haveDescription {
				return meta, nil
			}
		}
	}
}
