package area

import (
	"github.com/paulmach/osm"

	"github.com/wegman-software/osm2pgsql-go/internal/style"
)

// TagPropagator chooses which tags an assembled area carries: the
// relation's own tags (all but `type`, when any survive the filter), a
// single outer way's tags, or the tags common to every outer way.
type TagPropagator struct {
	filter *style.KeyFilter
}

// NewTagPropagator builds a TagPropagator that drops keys filter excludes.
// A nil filter keeps every key.
func NewTagPropagator(filter *style.KeyFilter) *TagPropagator {
	if filter == nil {
		filter = style.NewKeyFilter()
	}
	return &TagPropagator{filter: filter}
}

// ForWay copies every tag from a single-Way area input (no relation to
// consider), unfiltered — the filter only applies to relation-derived
// assemblies.
func (p *TagPropagator) ForWay(way *osm.Way) osm.Tags {
	out := make(osm.Tags, len(way.Tags))
	copy(out, way.Tags)
	return out
}

// ForRelation applies the three-tier propagation rule: if any relation
// tag survives the filter, the relation's tags minus only `type`; else
// the single outer way's tags; else the tags common to every outer way.
func (p *TagPropagator) ForRelation(relation *osm.Relation, outers []*ProtoRing) osm.Tags {
	filtered := p.filterTags(relation.Tags)
	if len(filtered) > 0 {
		return p.withoutKey(relation.Tags, "type")
	}

	ways := outerWays(outers)
	if len(ways) == 1 {
		out := make(osm.Tags, len(ways[0].Tags))
		copy(out, ways[0].Tags)
		return out
	}
	return p.commonTags(ways)
}

// filterTags returns the subset of tags whose key survives p.filter.
func (p *TagPropagator) filterTags(tags osm.Tags) osm.Tags {
	var out osm.Tags
	for _, t := range tags {
		if p.filter.Keep(t.Key) {
			out = append(out, t)
		}
	}
	return out
}

// withoutKey returns tags with every occurrence of key removed (used for
// the relation's own `type` tag, which is always dropped even though it's
// also in the standard exclude set).
func (p *TagPropagator) withoutKey(tags osm.Tags, key string) osm.Tags {
	var out osm.Tags
	for _, t := range tags {
		if t.Key != key {
			out = append(out, t)
		}
	}
	return out
}

// commonTags returns exactly the (key, value) pairs present, with equal
// value, in every way in ways.
func (p *TagPropagator) commonTags(ways []*osm.Way) osm.Tags {
	type kv struct{ key, value string }
	counts := make(map[kv]int)
	for _, way := range ways {
		for _, t := range way.Tags {
			counts[kv{t.Key, t.Value}]++
		}
	}

	var out osm.Tags
	for pair, n := range counts {
		if n == len(ways) {
			out = append(out, osm.Tag{Key: pair.key, Value: pair.value})
		}
	}
	return out
}

// outerWays collects the distinct set of ways contributing to any outer
// ring, de-duplicated across rings.
func outerWays(outers []*ProtoRing) []*osm.Way {
	seen := make(map[*osm.Way]bool)
	var ways []*osm.Way
	for _, ring := range outers {
		for _, w := range ring.Ways() {
			if !seen[w] {
				seen[w] = true
				ways = append(ways, w)
			}
		}
	}
	return ways
}
