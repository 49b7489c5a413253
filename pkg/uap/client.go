// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package uap

import (
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

// DefaultTimeout bounds every discovery fetch. A fetch past the bound
// fails with a TIMEOUT error; the client never hangs.
const DefaultTimeout = 10 * time.Second

// Client fetches and resolves UAP discovery documents. Documents are
// fetched fresh per call and returned as immutable values; the client
// holds no state between resolutions, so independent discoveries may
// run concurrently.
type Client struct {
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. The client is copied so a
// later WithTimeout never mutates the caller's instance.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.httpClient = &clone
		}
	}
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a discovery client with a bounded default timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of one discovery resolution. When the requested
// module id was not present in the root document, MissingModule holds
// the id and AvailableModules the ids that do exist: a lookup miss is a
// recoverable result, not a transport failure, so an LLM-driven caller
// can retry with a corrected id.
type Result struct {
	Root             *RootDocument
	Module           *ModuleDocument
	ModuleHref       string
	MissingModule    string
	AvailableModules []string
}

// ModuleFound reports whether the requested module was resolved.
func (r *Result) ModuleFound() bool {
	return r != nil && r.Module != nil
}

// Discover fetches the root document for baseURL and, when moduleID is
// non-empty, the referenced module document. The trailing slash on
// baseURL is stripped before composing the well-known path. Root fetch
// and module fetch are sequential: the module href is only known after
// the root document parses. A single attempt is made per document.
func (c *Client) Discover(ctx context.Context, baseURL, moduleID string) (*Result, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, uaperrors.New(uaperrors.CodeInvalidInput, "base_url is required", nil)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	rootURL := baseURL + WellKnownPath

	var root RootDocument
	if err := c.fetchJSON(ctx, rootURL, &root); err != nil {
		return nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, uaperrors.AsUAPError(err).WithContext("url", rootURL)
	}

	if moduleID == "" {
		return &Result{Root: &root}, nil
	}

	ref, ok := root.FindModule(moduleID)
	if !ok {
		return &Result{
			Root:             &root,
			MissingModule:    moduleID,
			AvailableModules: root.ModuleIDs(),
		}, nil
	}

	moduleURL, err := resolveHref(rootURL, ref.Href)
	if err != nil {
		return nil, err
	}

	var module ModuleDocument
	if err := c.fetchJSON(ctx, moduleURL, &module); err != nil {
		return nil, err
	}
	if err := module.Validate(); err != nil {
		return nil, uaperrors.AsUAPError(err).WithContext("url", moduleURL)
	}

	return &Result{Root: &root, Module: &module, ModuleHref: moduleURL}, nil
}

// resolveHref resolves a module href against the URL the root document
// was fetched from. Absolute hrefs pass through untouched.
func resolveHref(rootURL, href string) (string, error) {
	base, err := url.Parse(rootURL)
	if err != nil {
		return "", uaperrors.New(uaperrors.CodeInvalidInput, "invalid base url", err).
			WithContext("url", rootURL)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", uaperrors.New(uaperrors.CodeProtocol, "invalid module href", err).
			WithContext("href", href)
	}
	return base.ResolveReference(ref).String(), nil
}

// fetchJSON performs one GET and decodes the body into out. The
// connection is scoped to the call and released on completion whether
// the fetch succeeds or not.
func (c *Client) fetchJSON(ctx context.Context, fetchURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return uaperrors.New(uaperrors.CodeInvalidInput, "invalid request url", err).
			WithContext("url", fetchURL)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err).WithContext("url", fetchURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err).WithContext("url", fetchURL)
	}

	if resp.StatusCode >= 400 {
		return uaperrors.New(uaperrors.CodeHTTP, "discovery endpoint returned error status", nil).
			WithStatusCode(resp.StatusCode).
			WithContext("status", resp.StatusCode).
			WithContext("body", string(body)).
			WithContext("url", fetchURL)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return uaperrors.New(uaperrors.CodeProtocol, "response is not a valid discovery document", err).
			WithContext("url", fetchURL)
	}
	return nil
}

// transportError classifies a transport failure as TIMEOUT or NETWORK.
func transportError(err error) *uaperrors.UAPError {
	var netErr net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	if timedOut {
		return uaperrors.New(uaperrors.CodeTimeout, "fetch timed out", err).
			WithRecoverable(true)
	}
	return uaperrors.New(uaperrors.CodeNetwork, "fetch failed", err).
		WithRecoverable(true)
}
