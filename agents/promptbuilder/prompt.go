/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"unicode"
)

// renderFunc produces the final text for a bound placeholder.
type renderFunc func() (string, error)

// Prompt is a template with {{name}} placeholders. Prompts are immutable:
// each Bind* call returns a new Prompt with the binding applied.
type Prompt struct {
	template string
	bindings map[string]renderFunc // nil value = declared but unbound
}

// New parses a template and collects its placeholder names.
func New(template string) (*Prompt, error) {
	bindings := make(map[string]renderFunc)
	if err := walk(template, func(name string) error {
		bindings[name] = nil
		return nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: template, bindings: bindings}, nil
}

// MustNew is New for package-level template variables; it panics on a
// malformed template.
func MustNew(template string) *Prompt {
	p, err := New(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Names returns the set of placeholder names declared by the template.
func (p *Prompt) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// BindText binds a plain string value to a placeholder.
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.bind(name, func() (string, error) { return value, nil })
}

// BindInt binds an integer value to a placeholder.
func (p *Prompt) BindInt(name string, value int) (*Prompt, error) {
	return p.bind(name, func() (string, error) { return strconv.Itoa(value), nil })
}

// BindJSON binds structured data to a placeholder by marshaling it as
// indented JSON at Build time.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling binding %q: %w", name, err)
		}
		return string(b), nil
	})
}

func (p *Prompt) bind(name string, render renderFunc) (*Prompt, error) {
	existing, declared := p.bindings[name]
	if !declared {
		return nil, fmt.Errorf("binding %q not declared in template", name)
	}
	if existing != nil {
		return nil, fmt.Errorf("binding %q is already bound", name)
	}
	next := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	next.bindings[name] = render
	return next, nil
}

// Build renders the template, failing if any placeholder is still unbound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, render := range p.bindings {
		if render == nil {
			return "", fmt.Errorf("binding %q is unbound", name)
		}
		v, err := render()
		if err != nil {
			return "", err
		}
		values[name] = v
	}

	var out strings.Builder
	rest := p.template
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:start])
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			// walk already rejected this in New; keep the check for safety
			return "", fmt.Errorf("unclosed placeholder near %q", rest[start:min(start+20, len(rest))])
		}
		name := strings.TrimSpace(rest[start+2 : start+end])
		out.WriteString(values[name])
		rest = rest[start+end+2:]
	}
}

// walk tokenizes the template and calls visit for each placeholder name.
func walk(template string, visit func(name string) error) error {
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			return nil
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			return fmt.Errorf("unclosed placeholder: missing '}}'")
		}
		name := strings.TrimSpace(rest[start+2 : start+end])
		if !validName(name) {
			return fmt.Errorf("invalid placeholder name %q", name)
		}
		if err := visit(name); err != nil {
			return err
		}
		rest = rest[start+end+2:]
	}
}

// validName reports whether s is a legal placeholder identifier:
// a letter followed by letters, digits, or underscores.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
