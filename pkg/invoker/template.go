// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package invoker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	uaperrors "github.com/jllopis/uap/pkg/errors"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ExpandHref substitutes {name} placeholders in an action href with the
// matching params (RFC 6570 expansion). Params consumed by the template
// are removed from the returned map so the remainder can travel as
// query parameters. A placeholder with no matching param is an
// INVALID_INPUT error; hrefs are never interpolated silently.
func ExpandHref(href string, params map[string]string) (string, map[string]string, error) {
	leftover := make(map[string]string, len(params))
	for key, value := range params {
		leftover[key] = value
	}
	if !strings.Contains(href, "{") {
		return href, leftover, nil
	}

	tmpl, err := uritemplate.New(href)
	if err != nil {
		return "", nil, uaperrors.New(uaperrors.CodeInvalidInput, "invalid href template", err).
			WithContext("href", href)
	}

	values := uritemplate.Values{}
	for _, name := range tmpl.Varnames() {
		value, ok := leftover[name]
		if !ok {
			return "", nil, uaperrors.New(uaperrors.CodeInvalidInput,
				fmt.Sprintf("unresolved placeholder {%s} in href", name), nil).
				WithContext("href", href)
		}
		values[name] = uritemplate.String(value)
		delete(leftover, name)
	}

	expanded, err := tmpl.Expand(values)
	if err != nil {
		return "", nil, uaperrors.New(uaperrors.CodeInvalidInput, "href expansion failed", err).
			WithContext("href", href)
	}
	return expanded, leftover, nil
}

// unresolvedPlaceholder reports the first {name} left in a URL.
func unresolvedPlaceholder(rawURL string) (string, bool) {
	match := placeholderPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}
