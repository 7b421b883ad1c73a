package search

import (
	"context"

	"github.com/kailas-cloud/dnamatch/internal/domain/search/request"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/result"
)

// Matcher sends a validated request to the matching service.
type Matcher interface {
	Search(ctx context.Context, req request.Request) (result.Response, error)
}
