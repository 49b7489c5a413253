// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package invoker executes resolved UAP actions over HTTP and
// normalizes the response into structured JSON or raw text, so a
// downstream natural-language agent can render either without guessing
// the content type ahead of time.
//
// The invoker never checks the confirmation gate itself. The invariant
// that an action with confirm "user" is only invoked after an explicit
// affirmative signal from the initiating human is enforced by the
// orchestrating caller (see pkg/agent).
package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	uaperrors "github.com/jllopis/uap/pkg/errors"
)

// DefaultTimeout bounds every invocation.
const DefaultTimeout = 10 * time.Second

// Invoker performs single HTTP invocations of discovered actions. It
// holds no per-request state; independent invocations may run
// concurrently.
type Invoker struct {
	httpClient *http.Client
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithHTTPClient sets a custom HTTP client. The client is copied so a
// later WithTimeout never mutates the caller's instance.
func WithHTTPClient(hc *http.Client) Option {
	return func(i *Invoker) {
		if hc != nil {
			clone := *hc
			i.httpClient = &clone
		}
	}
}

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(i *Invoker) {
		if d > 0 {
			i.httpClient.Timeout = d
		}
	}
}

// New creates an Invoker with a bounded default timeout.
func New(opts ...Option) *Invoker {
	inv := &Invoker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Request describes one action invocation. Method and URL are required.
// JSONBody, when present, is serialized as the request body with a JSON
// content type. Params are merged into the URL query.
type Request struct {
	Method   string
	URL      string
	JSONBody map[string]interface{}
	Params   map[string]string
}

// Response is a normalized invocation result. When the response content
// type indicates JSON, JSON holds the parsed value and IsJSON is true;
// otherwise Text holds the raw body.
type Response struct {
	Status      int
	ContentType string
	IsJSON      bool
	JSON        interface{}
	Text        string
}

// Value returns the parsed JSON value or the raw text.
func (r *Response) Value() interface{} {
	if r.IsJSON {
		return r.JSON
	}
	return r.Text
}

// Render returns a display form of the result: indented JSON or the
// raw text verbatim.
func (r *Response) Render() string {
	if r.IsJSON {
		out, err := json.MarshalIndent(r.JSON, "", "  ")
		if err == nil {
			return string(out)
		}
	}
	return r.Text
}

// Invoke performs exactly one HTTP request for the resolved action. The
// method is case-normalized before dispatch, so "get" and "GET" are
// equivalent. An error status yields a typed HTTP error carrying status
// and body, with no partial result. The core never retries; the caller
// decides whether a failure is terminal.
func (i *Invoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" || strings.TrimSpace(req.URL) == "" {
		return nil, uaperrors.New(uaperrors.CodeInvalidInput, "method and url are required", nil)
	}

	target, err := buildURL(req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if req.JSONBody != nil {
		payload, err := json.Marshal(req.JSONBody)
		if err != nil {
			return nil, uaperrors.New(uaperrors.CodeInvalidInput, "json body is not serializable", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, uaperrors.New(uaperrors.CodeInvalidInput, "invalid request", err).
			WithContext("method", method).
			WithContext("url", target)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.JSONBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := i.httpClient.Do(httpReq)
	if err != nil {
		return nil, invokeTransportError(err).
			WithContext("method", method).
			WithContext("url", target)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, invokeTransportError(err).WithContext("url", target)
	}

	if resp.StatusCode >= 400 {
		return nil, uaperrors.New(uaperrors.CodeHTTP, "action endpoint returned error status", nil).
			WithStatusCode(resp.StatusCode).
			WithContext("status", resp.StatusCode).
			WithContext("body", string(body)).
			WithContext("method", method).
			WithContext("url", target)
	}

	out := &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if isJSONContentType(out.ContentType) {
		var value interface{}
		if err := json.Unmarshal(body, &value); err != nil {
			return nil, uaperrors.New(uaperrors.CodeProtocol, "response declared JSON but did not parse", err).
				WithContext("url", target)
		}
		out.IsJSON = true
		out.JSON = value
		return out, nil
	}
	out.Text = string(body)
	return out, nil
}

// buildURL merges query params into the target URL. A URL still
// carrying an unexpanded placeholder is rejected: substitution is an
// explicit step (see ExpandHref), never silent interpolation.
func buildURL(rawURL string, params map[string]string) (string, error) {
	if name, ok := unresolvedPlaceholder(rawURL); ok {
		return "", uaperrors.New(uaperrors.CodeInvalidInput,
			"unresolved placeholder {"+name+"} in url", nil).
			WithContext("url", rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", uaperrors.New(uaperrors.CodeInvalidInput, "invalid url", err).
			WithContext("url", rawURL)
	}
	if len(params) > 0 {
		query := u.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func invokeTransportError(err error) *uaperrors.UAPError {
	var netErr net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	if timedOut {
		return uaperrors.New(uaperrors.CodeTimeout, "invocation timed out", err).
			WithRecoverable(true)
	}
	return uaperrors.New(uaperrors.CodeNetwork, "invocation failed", err).
		WithRecoverable(true)
}

func isJSONContentType(contentType string) bool {
	mediaType := contentType
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
