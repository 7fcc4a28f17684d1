package container

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Container is a labeled-data mapping from string keys to cty values.
type Container struct {
	entries map[string]cty.Value
}

// New creates an empty container.
func New() *Container {
	return &Container{entries: make(map[string]cty.Value)}
}

// FromMap builds a container from a plain Go map, coercing every value to
// its cty representation. The conversion is value-preserving: primitives,
// nested maps, slices and raw cty values all survive a round trip through
// the container.
func FromMap(m map[string]any) (*Container, error) {
	c := New()
	for key, val := range m {
		if err := c.Set(key, val); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
	}
	return c, nil
}

// FromValue builds a container from a cty object value, one entry per
// top-level attribute. Null and non-object values are rejected.
func FromValue(v cty.Value) (*Container, error) {
	if v.IsNull() || !v.Type().IsObjectType() {
		return nil, fmt.Errorf("cannot build container from %s value", v.Type().FriendlyName())
	}
	c := New()
	for name, val := range v.AsValueMap() {
		c.entries[name] = val
	}
	return c, nil
}

// Set stores a value under key, coercing it to a cty value first. Keys may
// not be empty and may not contain dots; nested structure belongs inside
// the value, not in the key.
func (c *Container) Set(key string, value any) error {
	if key == "" {
		return fmt.Errorf("container key must not be empty")
	}
	if strings.Contains(key, ".") {
		return fmt.Errorf("container key %q must not contain '.'", key)
	}
	val, err := ToCty(value)
	if err != nil {
		return err
	}
	c.entries[key] = val
	return nil
}

// SetValue stores an already-converted cty value under key without
// validation of the value itself.
func (c *Container) SetValue(key string, value cty.Value) {
	c.entries[key] = value
}

// Get returns the entry stored under key. The boolean reports presence;
// a present entry may still be a null value.
func (c *Container) Get(key string) (cty.Value, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Container) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Lookup resolves a dotted path against the container. The first segment
// is a container key; every further segment is an attribute of the cty
// object found at the previous step. A path that runs through an absent
// key, a null value, or a non-object value resolves as absent.
func (c *Container) Lookup(path string) (cty.Value, bool) {
	segments := strings.Split(path, ".")
	val, ok := c.entries[segments[0]]
	if !ok {
		return cty.NilVal, false
	}
	for _, seg := range segments[1:] {
		if val.IsNull() || !val.Type().IsObjectType() || !val.Type().HasAttribute(seg) {
			return cty.NilVal, false
		}
		val = val.GetAttr(seg)
	}
	return val, true
}

// Keys returns the container's keys in sorted order.
func (c *Container) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (c *Container) Len() int {
	return len(c.entries)
}

// Value renders the container as a single cty object value, which is how
// one container nests inside another.
func (c *Container) Value() cty.Value {
	if len(c.entries) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(c.entries))
	for k, v := range c.entries {
		attrs[k] = v
	}
	return cty.ObjectVal(attrs)
}

// String renders the container entries in key order, one per line.
func (c *Container) String() string {
	var b strings.Builder
	for _, k := range c.Keys() {
		fmt.Fprintf(&b, "%s = %s\n", k, valueString(c.entries[k]))
	}
	return b.String()
}

func valueString(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	switch {
	case v.Type() == cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	default:
		return v.Type().FriendlyName()
	}
}
