package style

// KeyFilter is a per-key predicate for deciding which tag keys survive a
// copy, as opposed to Filter's whole-feature include/exclude decision. It
// is the tag-key filter used when propagating tags onto an assembled
// area: a small, YAML-configurable exclude list rather than a hardcoded
// set of string literals.
type KeyFilter struct {
	exclude map[string]bool
}

// KeyFilterConfig is the YAML shape for a KeyFilter: just the keys to
// drop. Kept separate from FilterConfig because tag-key filtering for an
// assembled area has nothing to do with whether the feature itself is
// included — that decision was already made upstream.
type KeyFilterConfig struct {
	Exclude []string `yaml:"exclude,omitempty"`
}

// NewKeyFilter builds a KeyFilter that drops exactly the given keys.
func NewKeyFilter(keys ...string) *KeyFilter {
	f := &KeyFilter{exclude: make(map[string]bool, len(keys))}
	for _, k := range keys {
		f.exclude[k] = true
	}
	return f
}

// NewKeyFilterFromConfig builds a KeyFilter from a loaded KeyFilterConfig.
func NewKeyFilterFromConfig(cfg *KeyFilterConfig) *KeyFilter {
	if cfg == nil {
		return NewKeyFilter()
	}
	return NewKeyFilter(cfg.Exclude...)
}

// Keep reports whether key should be copied (i.e. it is not on the
// exclude list).
func (f *KeyFilter) Keep(key string) bool {
	return !f.exclude[key]
}

// DefaultMultipolygonKeyFilter is the fixed exclude set used for
// relation/way tag propagation: metadata keys that describe the OSM
// editing process rather than the feature itself.
func DefaultMultipolygonKeyFilter() *KeyFilter {
	return NewKeyFilter("type", "created_by", "source", "note", "test:id", "test:section")
}
