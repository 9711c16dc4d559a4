package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/neckchi/vesseleta/internal/exceptions"
	log "github.com/sirupsen/logrus"
)

func (hc *HttpClientWrapper) newRequest(ctx context.Context, urlString string, params map[string]string) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, urlString, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GET request: %w", err)
	}
	if len(params) > 0 {
		q := request.URL.Query()
		for k, v := range params {
			q.Add(k, v)
		}
		request.URL.RawQuery = q.Encode()
	}
	for k, v := range hc.headers {
		request.Header.Set(k, v)
	}
	return request, nil
}

// Timeout returns the default per-request timeout.
func (hc *HttpClientWrapper) Timeout() time.Duration {
	return hc.contextTimeout
}

// Fetch performs a single GET. Any transport error or non-2xx status comes back as an
// *exceptions.FetchError; there is no retry, a failed terminal is reported as failed.
// A zero timeout uses the client default.
func (hc *HttpClientWrapper) Fetch(ctx context.Context, terminal, urlString string, params map[string]string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = hc.contextTimeout
	}
	childCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	request, err := hc.newRequest(childCtx, urlString, params)
	if err != nil {
		return nil, &exceptions.FetchError{Terminal: terminal, Err: err}
	}

	start := time.Now()
	resp, err := hc.client.Do(request)
	if err != nil {
		if errors.Is(childCtx.Err(), context.DeadlineExceeded) {
			log.Warnf("Request: %s %s timed out after %.3fs", request.Method, request.URL, time.Since(start).Seconds())
			return nil, &exceptions.FetchError{Terminal: terminal, Err: fmt.Errorf("timed out after %s: %w", timeout, err)}
		}
		log.Errorf("Request: %s %s failed: %v", request.Method, request.URL, err)
		return nil, &exceptions.FetchError{Terminal: terminal, Err: err}
	}
	defer resp.Body.Close()
	log.Infof("Request: %s %s %s %.3fs", request.Method, request.URL.String(), resp.Status, time.Since(start).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &exceptions.FetchError{Terminal: terminal, Status: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, hc.maxBodyBytes))
	if err != nil {
		return nil, &exceptions.FetchError{Terminal: terminal, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return body, nil
}
