package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainerrors "github.com/tracewire/tracewire/pkg/instrument/errors"
)

// FilterName is the subscription filter name owned by tracewire.
const FilterName = "tracewire-forwarder"

// Binder wires one function's log group to the forwarder target. It
// resolves with success or a descriptive per-function failure; it never
// aborts a batch.
type Binder interface {
	Subscribe(ctx context.Context, logGroup, target string) error
}

// Failure records one function whose subscription could not be wired.
type Failure struct {
	Function string
	LogGroup string
	Err      error
}

// Result collects per-function outcomes of a subscription pass. The
// pass continues past individual failures; callers inspect the result
// after the whole batch completes.
type Result struct {
	Subscribed []string
	Failures   []Failure
}

// Failed reports whether any subscription in the batch failed.
func (r *Result) Failed() bool {
	return len(r.Failures) > 0
}

// Errs returns the collected failures as errors, one per function.
func (r *Result) Errs() []error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, domainerrors.Wrap(domainerrors.DomainForwarder,
			domainerrors.CodeSubscriptionFailed,
			fmt.Sprintf("failed to subscribe %s", f.LogGroup), f.Err).WithFunction(f.Function))
	}
	return errs
}

// subscriptionRequest is the PutSubscriptionFilter payload.
type subscriptionRequest struct {
	LogGroupName   string `json:"logGroupName"`
	FilterName     string `json:"filterName"`
	FilterPattern  string `json:"filterPattern"`
	DestinationArn string `json:"destinationArn"`
}

// HTTPBinder performs subscriptions against the regional logs API.
type HTTPBinder struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPBinder creates a binder for the given region. endpoint
// overrides the regional default when non-empty.
func NewHTTPBinder(region, endpoint string, timeout time.Duration) *HTTPBinder {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://logs.%s.amazonaws.com/", region)
	}
	return &HTTPBinder{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Subscribe wires logGroup to the target via PutSubscriptionFilter.
func (b *HTTPBinder) Subscribe(ctx context.Context, logGroup, target string) error {
	body, err := json.Marshal(subscriptionRequest{
		LogGroupName:   logGroup,
		FilterName:     FilterName,
		FilterPattern:  "",
		DestinationArn: target,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("X-Amz-Target", "Logs_20140328.PutSubscriptionFilter")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return domainerrors.Wrap(domainerrors.DomainForwarder, domainerrors.CodeTransportError,
			"subscription request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("subscription rejected with status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
