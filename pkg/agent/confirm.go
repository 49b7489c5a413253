// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jllopis/uap/pkg/uap"
)

// Confirmer obtains explicit affirmative user intent before a gated
// action is invoked. How the intent is gathered (prompt, UI dialog,
// CLI) is the implementation's business; returning false or an error
// refuses the invocation.
type Confirmer interface {
	Confirm(ctx context.Context, action uap.Action, method, url string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, action uap.Action, method, url string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, action uap.Action, method, url string) (bool, error) {
	return f(ctx, action, method, url)
}

// DenyAll refuses every gated invocation. It is the default policy:
// without a way to reach the user there is no affirmative intent.
type DenyAll struct{}

// Confirm implements Confirmer.
func (DenyAll) Confirm(ctx context.Context, action uap.Action, method, url string) (bool, error) {
	return false, nil
}

// AllowAll approves every gated invocation. Only for callers that have
// already collected consent out of band, and for tests.
type AllowAll struct{}

// Confirm implements Confirmer.
func (AllowAll) Confirm(ctx context.Context, action uap.Action, method, url string) (bool, error) {
	return true, nil
}

// PromptConfirmer asks on a terminal-style reader/writer pair and
// accepts "y" or "yes" (case-insensitive) as affirmative. The reader
// is buffered once so input read ahead of one prompt is still there
// for the next.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// Confirm implements Confirmer.
func (p *PromptConfirmer) Confirm(ctx context.Context, action uap.Action, method, url string) (bool, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	fmt.Fprintf(p.Out, "Action %q (%s %s) requires confirmation. Proceed? [y/N] ",
		action.ID, strings.ToUpper(method), url)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
