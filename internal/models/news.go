package models

import "time"

// NewsArticle represents an archived news article for a stock.
//
// The source URL is the dedupe key within a stock; articles without a URL
// (manually entered) are exempt from dedupe. The attribution fields are set
// when the image came from the fallback image provider rather than the news
// provider, as required by the Unsplash API guidelines.
type NewsArticle struct {
	ID          int64
	StockID     int64
	Title       string
	Description string
	URL         string
	ImageURL    string
	Source      string
	PublishedAt *time.Time // provider-supplied, may be absent
	FetchedAt   time.Time

	PhotographerName     string
	PhotographerUsername string
	PhotographerURL      string
	DownloadLocation     string
}

// HasAttribution reports whether the article's image requires photographer
// attribution.
func (n *NewsArticle) HasAttribution() bool {
	return n.PhotographerName != ""
}
