package terminals

import (
	"context"
	"time"

	httpclient "github.com/neckchi/vesseleta/internal/http"
	"github.com/neckchi/vesseleta/internal/schema"
)

// DocumentFetcher retrieves the raw schedule document of a static_http terminal.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, profile schema.TerminalProfile) (schema.ScheduleDocument, error)
}

type HTTPFetcher struct {
	Client *httpclient.HttpClient
}

func NewHTTPFetcher(c *httpclient.HttpClient) *HTTPFetcher {
	return &HTTPFetcher{Client: c}
}

// FetchDocument does one GET per call; failures are *exceptions.FetchError.
func (f *HTTPFetcher) FetchDocument(ctx context.Context, profile schema.TerminalProfile) (schema.ScheduleDocument, error) {
	body, err := f.Client.Fetch(ctx, string(profile.Code), profile.Endpoint, nil, profile.Timeout)
	if err != nil {
		return schema.ScheduleDocument{}, err
	}
	return schema.ScheduleDocument{TerminalCode: profile.Code, RawContent: string(body), FetchedAt: time.Now().UTC()}, nil
}
