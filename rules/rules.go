// Package rules holds the reference data the audit runs against: skip lists,
// boolean vocabularies, the cellLocalId table, node-name overrides and the
// telecom key prefixes stripped before fuzzy key matching.
//
// The data is decoded from TOML into a Config and compiled into an immutable
// Set that is handed to the matcher at construction time.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jalad-shrimali/nrcell-audit/cellvalue"
)

//go:embed default.toml
var defaultTOML []byte

type Config struct {
	Values      cellvalue.Vocabulary `toml:"values"`
	Parameters  ParameterConfig      `toml:"parameters"`
	CellLocalID map[string]string    `toml:"cell_local_id"`
	Cells       CellConfig           `toml:"cells"`
	Nodes       NodeConfig           `toml:"nodes"`
	Keys        KeyConfig            `toml:"keys"`
	Patterns    PatternConfig        `toml:"patterns"`
}

type ParameterConfig struct {
	SkipSubstrings       []string `toml:"skip_substrings"`
	Excluded             []string `toml:"excluded"`
	ReadOnlyMarker       string   `toml:"read_only_marker"`
	CellLocalIDSubstring string   `toml:"cell_local_id_substring"`
}

type CellConfig struct {
	TDDPrefixes string `toml:"tdd_prefixes"`
	FDDPrefixes string `toml:"fdd_prefixes"`
	BYTSuffixes string `toml:"byt_suffixes"`
	SFRSuffixes string `toml:"sfr_suffixes"`
}

type NodeConfig struct {
	LegacyGeneration string         `toml:"legacy_generation"`
	DefaultCategory  string         `toml:"default_category"`
	Overrides        []NodeOverride `toml:"override"`
}

type NodeOverride struct {
	Category string   `toml:"category"`
	Names    []string `toml:"names"`
}

type KeyConfig struct {
	StripPrefixes []string `toml:"strip_prefixes"`
}

type PatternConfig struct {
	NodeTags        []string `toml:"node_tags"`
	PartialKeywords []string `toml:"partial_keywords"`
}

// DefaultConfig decodes the embedded reference data.
func DefaultConfig() (Config, error) {
	return Decode(defaultTOML)
}

// Decode parses TOML rule data.
func Decode(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode rules: %w", err)
	}
	return cfg, nil
}

// Load compiles the rule file at path, or the embedded defaults when path is empty.
func Load(path string) (*Set, error) {
	data := defaultTOML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules %s: %w", path, err)
		}
		data = b
	}
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Compile(cfg)
}

// Default returns the compiled embedded rule set. The embedded file is part
// of the binary, so a failure here is a build defect.
func Default() *Set {
	s, err := Load("")
	if err != nil {
		panic(err)
	}
	return s
}

/* ──────────── compiled set ──────────── */

// Set is the compiled, read-only form of Config.
type Set struct {
	normalizer      *cellvalue.Normalizer
	skipSubstrings  []string
	excluded        map[string]struct{}
	readOnly        string
	cellLocalIDKey  string
	cellLocalID     map[string]string
	tdd, fdd        string
	byt, sfr        string
	legacyGen       string
	defaultCategory string
	overrides       []NodeOverride
	stripPrefixes   []string
	nodeTags        []string
	partialKeywords []string
}

// Compile validates cfg and freezes it into a Set.
func Compile(cfg Config) (*Set, error) {
	s := &Set{
		normalizer:      cellvalue.NewNormalizer(cfg.Values),
		excluded:        map[string]struct{}{},
		readOnly:        strings.ToLower(strings.TrimSpace(cfg.Parameters.ReadOnlyMarker)),
		cellLocalIDKey:  strings.ToLower(strings.TrimSpace(cfg.Parameters.CellLocalIDSubstring)),
		cellLocalID:     map[string]string{},
		tdd:             strings.ToUpper(cfg.Cells.TDDPrefixes),
		fdd:             strings.ToUpper(cfg.Cells.FDDPrefixes),
		byt:             strings.ToUpper(cfg.Cells.BYTSuffixes),
		sfr:             strings.ToUpper(cfg.Cells.SFRSuffixes),
		legacyGen:       strings.ToLower(strings.TrimSpace(cfg.Nodes.LegacyGeneration)),
		defaultCategory: strings.TrimSpace(cfg.Nodes.DefaultCategory),
	}
	for _, v := range cfg.Parameters.SkipSubstrings {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			s.skipSubstrings = append(s.skipSubstrings, v)
		}
	}
	for _, v := range cfg.Parameters.Excluded {
		s.excluded[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	for k, v := range cfg.CellLocalID {
		k = strings.ToUpper(strings.TrimSpace(k))
		if len(k) != 2 {
			return nil, fmt.Errorf("cell_local_id key %q: want <prefix><suffix>", k)
		}
		if _, ok := cellvalue.ParseNumber(v); !ok {
			return nil, fmt.Errorf("cell_local_id %s = %q: not a number", k, v)
		}
		s.cellLocalID[k] = strings.TrimSpace(v)
	}
	if strings.ContainsAny(s.tdd, s.fdd) && s.tdd != "" && s.fdd != "" {
		return nil, fmt.Errorf("cells: tdd_prefixes %q and fdd_prefixes %q overlap", s.tdd, s.fdd)
	}
	for _, o := range cfg.Nodes.Overrides {
		if strings.TrimSpace(o.Category) == "" {
			return nil, fmt.Errorf("nodes.override: empty category")
		}
		names := make([]string, 0, len(o.Names))
		for _, n := range o.Names {
			if n = strings.ToUpper(strings.TrimSpace(n)); n != "" {
				names = append(names, n)
			}
		}
		s.overrides = append(s.overrides, NodeOverride{Category: strings.TrimSpace(o.Category), Names: names})
	}
	for _, p := range cfg.Keys.StripPrefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			s.stripPrefixes = append(s.stripPrefixes, p)
		}
	}
	// longest prefix wins: "vsdata" before "vs", "parameter" before "param"
	sort.SliceStable(s.stripPrefixes, func(i, j int) bool {
		return len(s.stripPrefixes[i]) > len(s.stripPrefixes[j])
	})
	s.nodeTags = append(s.nodeTags, cfg.Patterns.NodeTags...)
	for _, k := range cfg.Patterns.PartialKeywords {
		s.partialKeywords = append(s.partialKeywords, strings.ToLower(k))
	}
	return s, nil
}

func (s *Set) Normalizer() *cellvalue.Normalizer { return s.normalizer }

// IsSkipped reports whether a parameter is never validated.
func (s *Set) IsSkipped(name string) bool {
	l := strings.ToLower(strings.TrimSpace(name))
	if _, ok := s.excluded[l]; ok {
		return true
	}
	for _, sub := range s.skipSubstrings {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

// IsReadOnly reports whether a default-value cell flags the parameter read-only.
func (s *Set) IsReadOnly(defaultValue string) bool {
	return s.readOnly != "" && strings.ToLower(strings.TrimSpace(defaultValue)) == s.readOnly
}

func (s *Set) IsCellLocalID(name string) bool {
	return s.cellLocalIDKey != "" && strings.Contains(strings.ToLower(name), s.cellLocalIDKey)
}

// CellLocalID looks up the fixed cellLocalId for a cell name.
func (s *Set) CellLocalID(cellName string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(cellName))
	if len(c) < 2 {
		return "", false
	}
	v, ok := s.cellLocalID[c[:1]+c[len(c)-1:]]
	return v, ok
}

func (s *Set) IsTDDPrefix(c byte) bool { return s.tdd != "" && strings.IndexByte(s.tdd, upper(c)) >= 0 }
func (s *Set) IsFDDPrefix(c byte) bool { return s.fdd != "" && strings.IndexByte(s.fdd, upper(c)) >= 0 }
func (s *Set) IsBYTSuffix(c byte) bool { return s.byt != "" && strings.IndexByte(s.byt, upper(c)) >= 0 }
func (s *Set) IsSFRSuffix(c byte) bool { return s.sfr != "" && strings.IndexByte(s.sfr, upper(c)) >= 0 }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// IsLegacyGeneration reports whether a Gen column value marks an exempt node.
func (s *Set) IsLegacyGeneration(gen string) bool {
	return s.legacyGen != "" && strings.Contains(strings.ToLower(gen), s.legacyGen)
}

// NodeCategoryByName classifies a node from its name alone.
func (s *Set) NodeCategoryByName(neName string) string {
	n := strings.ToUpper(strings.TrimSpace(neName))
	if n == "" {
		return ""
	}
	for _, o := range s.overrides {
		for _, pat := range o.Names {
			if strings.Contains(n, pat) {
				return o.Category
			}
		}
	}
	return s.defaultCategory
}

// StripKeyPrefix lower-cases key and removes the longest telecom prefix.
func (s *Set) StripKeyPrefix(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, p := range s.stripPrefixes {
		if strings.HasPrefix(k, p) {
			return strings.TrimSpace(k[len(p):])
		}
	}
	return k
}

func (s *Set) NodeTags() []string        { return append([]string(nil), s.nodeTags...) }
func (s *Set) PartialKeywords() []string { return append([]string(nil), s.partialKeywords...) }
