package params

import (
	"fmt"
	"strings"

	"github.com/wesleywu/simconfig/record"
)

// Separator divides the segments of a parameter name
const Separator = "."

// Wildcard selects every parameter, or every parameter under a prefix when
// it follows a separator
const Wildcard = "*"

// Table is an ordered collection of uniquely named parameters
type Table struct {
	params []Parameter
	index  map[string]int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{
		params: make([]Parameter, 0),
		index:  make(map[string]int),
	}
}

// Add appends a parameter. Names must be unique within the table.
func (t *Table) Add(p Parameter) error {
	if _, exists := t.index[p.Name]; exists {
		return fmt.Errorf("%w: duplicate parameter %s", ErrInvalidValue, p.Name)
	}
	t.index[p.Name] = len(t.params)
	t.params = append(t.params, p.clone())
	return nil
}

// Get returns the parameter with the given name
func (t *Table) Get(name string) (Parameter, bool) {
	i, ok := t.index[name]
	if !ok {
		return Parameter{}, false
	}
	return t.params[i].clone(), true
}

// Len returns the number of parameters
func (t *Table) Len() int {
	return len(t.params)
}

// Parameters returns a copy of the parameters in insertion order
func (t *Table) Parameters() []Parameter {
	out := make([]Parameter, len(t.params))
	for i, p := range t.params {
		out[i] = p.clone()
	}
	return out
}

// Names returns the parameter names in insertion order
func (t *Table) Names() []string {
	names := make([]string, len(t.params))
	for i, p := range t.params {
		names[i] = p.Name
	}
	return names
}

// Select returns a new table with the parameters matching query and tags.
//
// An empty query or "*" keeps every name unchanged. A query ending in ".*"
// keeps the parameters under that prefix and strips the prefix from their
// names. Any other query is an exact name and the match is renamed to its
// last segment. When tags is non-empty only parameters carrying at least
// one of them are kept.
func (t *Table) Select(query string, tags []string) *Table {
	query = strings.TrimSpace(query)
	out := NewTable()

	for _, p := range t.params {
		name, ok := matchQuery(query, p.Name)
		if !ok {
			continue
		}
		if len(tags) > 0 && !p.HasTag(tags...) {
			continue
		}
		p = p.clone()
		p.Name = name
		if _, exists := out.index[name]; exists {
			continue
		}
		out.index[name] = len(out.params)
		out.params = append(out.params, p)
	}

	return out
}

func matchQuery(query, name string) (string, bool) {
	switch {
	case query == "" || query == Wildcard:
		return name, true
	case strings.HasSuffix(query, Separator+Wildcard):
		prefix := strings.TrimSuffix(query, Wildcard)
		if !strings.HasPrefix(name, prefix) || name == prefix {
			return "", false
		}
		return name[len(prefix):], true
	case name == query:
		segments := strings.Split(name, Separator)
		return segments[len(segments)-1], true
	}
	return "", false
}

// FromRecord builds the parameter table describing the configuration record
func FromRecord(r record.Record) *Table {
	t := NewTable()
	for _, p := range []Parameter{
		{Name: "simulation.name", Type: String, Value: r.SimulationName},
		{Name: "simulation.output", Type: Bool, Value: r.SimulationOutput},
		{Name: "box.width", Type: Float32, Value: float64(r.BoxWidth), Unit: "cm", Tags: []string{"selection"}},
		{Name: "box.height", Type: Float, Value: r.BoxHeight, Unit: "cm"},
		{Name: "density", Type: FloatType(128), Value: r.Density, Unit: "g/cm3"},
		{Name: "num_cells", Type: Int, Value: int64(r.NumCells), Tags: []string{"selection"}},
		{Name: "num_groups", Type: IntType(64, true), Value: r.NumGroups},
	} {
		// names are distinct
		_ = t.Add(p)
	}
	return t
}
