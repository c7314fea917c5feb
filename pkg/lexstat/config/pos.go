package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// POSAliases maps a canonical part-of-speech name to the tags that mean it.
type POSAliases struct {
	Aliases map[string][]string `yaml:"aliases"`

	index map[string]string
}

// LoadPOSAliases loads a tag alias table from a YAML file of the form
//
//	aliases:
//	  noun: [n, NN, subst]
//	  verb: [v, VB]
func LoadPOSAliases(path string) (*POSAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pa POSAliases
	if err := yaml.Unmarshal(data, &pa); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	pa.build()
	return &pa, nil
}

// NewPOSAliases builds a table from an in-memory map.
func NewPOSAliases(aliases map[string][]string) *POSAliases {
	pa := &POSAliases{Aliases: aliases}
	pa.build()
	return pa
}

func (p *POSAliases) build() {
	p.index = make(map[string]string)
	for canon, tags := range p.Aliases {
		c := fold(canon)
		p.index[c] = c
		for _, t := range tags {
			p.index[fold(t)] = c
		}
	}
}

// Canonical returns the canonical name of tag, or the folded tag itself when
// it has no alias.
func (p *POSAliases) Canonical(tag string) string {
	f := fold(tag)
	if p == nil {
		return f
	}
	if c, ok := p.index[f]; ok {
		return c
	}
	return f
}

// Matcher returns a predicate accepting tags with the same canonical name as
// target. An absent tag never matches a non-empty target.
func (p *POSAliases) Matcher(target string) func(string) bool {
	want := p.Canonical(target)
	return func(pos string) bool {
		if pos == "" && want != "" {
			return false
		}
		return p.Canonical(pos) == want
	}
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
