// Package redirect builds deep links into provider hosted flows.
package redirect

import (
	"net/url"
	"strconv"
	"strings"
)

type param struct {
	key   string
	value string
	bare  bool
}

// Params is an ordered query string. Providers that sign their redirect
// parameters sign them in a fixed order, so url.Values cannot be used.
type Params struct {
	items []param
}

// Add appends key=value.
func (p *Params) Add(key, value string) *Params {
	p.items = append(p.items, param{key: key, value: value})
	return p
}

// AddIf appends key=value when value is not empty.
func (p *Params) AddIf(key, value string) *Params {
	if value == "" {
		return p
	}
	return p.Add(key, value)
}

// AddFloat appends a number in its shortest decimal form.
func (p *Params) AddFloat(key string, v float64) *Params {
	return p.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
}

// Flag appends a key without a value.
func (p *Params) Flag(key string) *Params {
	p.items = append(p.items, param{key: key, bare: true})
	return p
}

// Raw renders the parameters unescaped. It is the string providers sign.
func (p *Params) Raw() string {
	return p.render(func(s string) string { return s })
}

// Encode renders the parameters with values query-escaped.
func (p *Params) Encode() string {
	return p.render(url.QueryEscape)
}

func (p *Params) render(escape func(string) string) string {
	var sb strings.Builder
	for i, it := range p.items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(it.key)
		if !it.bare {
			sb.WriteByte('=')
			sb.WriteString(escape(it.value))
		}
	}
	return sb.String()
}

// URL joins base and the encoded parameters.
func (p *Params) URL(base string) string {
	if len(p.items) == 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + p.Encode()
}
