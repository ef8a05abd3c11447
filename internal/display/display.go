// Package display formats server-authored text: operator-configurable
// message templates and width-wrapped notification bodies.
package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/muesli/reflow/wordwrap"
)

// NotificationWidth is the wrap width for popup and infobox text.
const NotificationWidth = 60

// templateFuncs provides utility functions for message templates.
var templateFuncs = sprig.TxtFuncMap()

// Wrap word-wraps notification text to NotificationWidth.
func Wrap(text string) string {
	return wordwrap.String(text, NotificationWidth)
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ExpandTemplate expands a configured message template. The data can be any
// struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr, nil
	}

	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
