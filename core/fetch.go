package core

import (
	"context"
)

// Fetcher defines the interface for downloading remote sources
type Fetcher interface {
	// Fetch streams the resource at url into the file at dest
	Fetch(ctx context.Context, url, dest string) error
}
