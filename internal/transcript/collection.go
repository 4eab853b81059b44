package transcript

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAmbiguous is returned by Find when several graphs match a query.
var ErrAmbiguous = errors.New("more than one graph matches")

// Key identifies a graph by resource and channel.
type Key struct {
	URI     string
	Channel string
}

func (k Key) String() string {
	return k.URI + "/" + k.Channel
}

// Collection holds the graphs produced by one read, keyed by
// (uri, channel).
type Collection struct {
	graphs map[Key]*Graph
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{graphs: make(map[Key]*Graph)}
}

// Add stores a graph under its own key, replacing any previous one.
func (c *Collection) Add(g *Graph) {
	if g == nil {
		return
	}
	c.graphs[g.Key()] = g
}

// Len returns the number of graphs.
func (c *Collection) Len() int { return len(c.graphs) }

// Get returns the graph stored under (uri, channel). An absent key yields an
// empty graph for that key.
func (c *Collection) Get(uri, channel string) *Graph {
	if g, ok := c.graphs[Key{URI: uri, Channel: channel}]; ok {
		return g
	}
	return NewGraph(uri, channel)
}

// Lookup returns the graph stored under key, if any.
func (c *Collection) Lookup(key Key) (*Graph, bool) {
	g, ok := c.graphs[key]
	return g, ok
}

// Find filters graphs by uri and channel, an empty string matching
// anything. No match yields an empty graph; several matches fail with
// ErrAmbiguous.
func (c *Collection) Find(uri, channel string) (*Graph, error) {
	var matches []Key
	for key := range c.graphs {
		if uri != "" && key.URI != uri {
			continue
		}
		if channel != "" && key.Channel != channel {
			continue
		}
		matches = append(matches, key)
	}
	switch len(matches) {
	case 0:
		return NewGraph(uri, channel), nil
	case 1:
		return c.graphs[matches[0]], nil
	default:
		sortKeys(matches)
		return nil, fmt.Errorf("%w: %v", ErrAmbiguous, matches)
	}
}

// Keys returns every key, sorted by uri then channel.
func (c *Collection) Keys() []Key {
	keys := make([]Key, 0, len(c.graphs))
	for key := range c.graphs {
		keys = append(keys, key)
	}
	sortKeys(keys)
	return keys
}

// URIs returns the distinct resource identifiers, sorted.
func (c *Collection) URIs() []string {
	return distinct(c.graphs, func(k Key) string { return k.URI })
}

// Channels returns the distinct channels, sorted.
func (c *Collection) Channels() []string {
	return distinct(c.graphs, func(k Key) string { return k.Channel })
}

// Merge moves every graph of other into c. Keys present in both fail the
// merge before anything is moved.
func (c *Collection) Merge(other *Collection) error {
	if other == nil {
		return nil
	}
	for key := range other.graphs {
		if _, ok := c.graphs[key]; ok {
			return fmt.Errorf("merge collections: duplicate graph %s", key)
		}
	}
	for key, g := range other.graphs {
		c.graphs[key] = g
	}
	return nil
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].URI != keys[j].URI {
			return keys[i].URI < keys[j].URI
		}
		return keys[i].Channel < keys[j].Channel
	})
}

func distinct(graphs map[Key]*Graph, field func(Key) string) []string {
	seen := make(map[string]struct{}, len(graphs))
	out := make([]string, 0, len(graphs))
	for key := range graphs {
		value := field(key)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
