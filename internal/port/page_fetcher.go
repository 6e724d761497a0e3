package port

import "context"

// PageFetcher downloads a web page and returns its visible text.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}
