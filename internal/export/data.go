package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/wesleywu/simconfig/internal/params"
	"gopkg.in/yaml.v3"
)

func joinLines(lines []string) string {
	return strings.Join(lines, newline)
}

// renderDIP renders parameters back into definition lines. Names are never renamed.
func renderDIP(ps []params.Parameter, _ Options) (string, error) {
	lines := make([]string, 0, len(ps))
	for _, p := range ps {
		value := params.FormatValue(p)
		if p.Type.Kind == params.KindString {
			value = quoteC(value)
		}
		line := fmt.Sprintf("%s %s = %s", p.Name, p.Type.Keyword(), value)
		if p.Unit != "" {
			line += " " + p.Unit
		}
		lines = append(lines, line)
	}
	return joinLines(lines), nil
}

// renderBash renders shell variable assignments. Booleans follow the shell
// exit status convention: true is 0, false is -1.
func renderBash(ps []params.Parameter, opts Options) (string, error) {
	prefix := ""
	if opts.BashExport {
		prefix = "export "
	}

	lines := make([]string, 0, len(ps))
	for _, p := range ps {
		var value string
		switch v := p.Value.(type) {
		case string:
			value = quoteShell(v)
		case bool:
			value = "-1"
			if v {
				value = "0"
			}
		default:
			value = params.FormatValue(p)
		}
		lines = append(lines, fmt.Sprintf("%s%s=%s", prefix, identifier(p.Name, opts), value))
	}
	return joinLines(lines), nil
}

// jsonString encodes s as a JSON string without HTML escaping
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// strings always encode
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func jsonScalar(p params.Parameter) string {
	if s, ok := p.Value.(string); ok {
		return jsonString(s)
	}
	return params.FormatValue(p)
}

// jsonWriter writes an ordered JSON object. A zero indent renders a single
// line with ", " and ": " separators.
type jsonWriter struct {
	indent int
}

func (w *jsonWriter) object(keys []string, values []string, depth int) string {
	if len(keys) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{")
	for i := range keys {
		if i > 0 {
			b.WriteString(",")
			if w.indent == 0 {
				b.WriteString(" ")
			}
		}
		if w.indent > 0 {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", w.indent*(depth+1)))
		}
		b.WriteString(jsonString(keys[i]))
		b.WriteString(": ")
		b.WriteString(values[i])
	}
	if w.indent > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", w.indent*depth))
	}
	b.WriteString("}")
	return b.String()
}

// renderJSON renders a JSON object in table order
func renderJSON(ps []params.Parameter, opts Options) (string, error) {
	w := &jsonWriter{indent: opts.JSONIndent}

	keys := make([]string, 0, len(ps))
	values := make([]string, 0, len(ps))
	for _, p := range ps {
		value := jsonScalar(p)
		if opts.Units && p.Unit != "" {
			value = w.object([]string{"value", "unit"}, []string{value, jsonString(p.Unit)}, 1)
		}
		keys = append(keys, p.Name)
		values = append(values, value)
	}

	return w.object(keys, values, 0), nil
}

func yamlScalar(p params.Parameter) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: params.FormatValue(p)}
	switch p.Type.Kind {
	case params.KindString:
		node.Tag = "!!str"
	case params.KindBool:
		node.Tag = "!!bool"
	case params.KindInt:
		node.Tag = "!!int"
	case params.KindFloat:
		node.Tag = "!!float"
	}
	return node
}

func yamlKey(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// renderYAML renders a YAML mapping with sorted keys
func renderYAML(ps []params.Parameter, opts Options) (string, error) {
	sorted := make([]params.Parameter, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range sorted {
		value := yamlScalar(p)
		if opts.Units && p.Unit != "" {
			value = &yaml.Node{
				Kind: yaml.MappingNode,
				Content: []*yaml.Node{
					yamlKey("unit"), yamlKey(p.Unit),
					yamlKey("value"), yamlScalar(p),
				},
			}
		}
		root.Content = append(root.Content, yamlKey(p.Name), value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

// tomlValue returns the value handed to the TOML encoder. float32 values stay
// float32 so they are formatted at their own precision.
func tomlValue(p params.Parameter) (any, error) {
	switch v := p.Value.(type) {
	case uint64:
		if v > math.MaxInt64 {
			return nil, invalidValue(FormatTOML, p.Name, fmt.Sprintf("%d exceeds the TOML integer range", v))
		}
		return int64(v), nil
	case float64:
		if p.Type.Precision == 32 {
			return float32(v), nil
		}
		return v, nil
	}
	return p.Value, nil
}

// tomlUnitTable is a value with its unit. Field order is the output order.
type tomlUnitTable struct {
	Value any    `toml:"value"`
	Unit  string `toml:"unit"`
}

// tomlEncode encodes a single-key document without indentation
func tomlEncode(doc any) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode toml: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// renderTOML renders a TOML document in table order: plain keys first, then
// one table per parameter with a unit when Units is set
func renderTOML(ps []params.Parameter, opts Options) (string, error) {
	var plain, tables []string
	for _, p := range ps {
		value, err := tomlValue(p)
		if err != nil {
			return "", err
		}

		if opts.Units && p.Unit != "" {
			text, err := tomlEncode(map[string]tomlUnitTable{p.Name: {Value: value, Unit: p.Unit}})
			if err != nil {
				return "", err
			}
			tables = append(tables, text)
			continue
		}

		text, err := tomlEncode(map[string]any{p.Name: value})
		if err != nil {
			return "", err
		}
		plain = append(plain, text)
	}

	blocks := make([]string, 0, len(tables)+1)
	if len(plain) > 0 {
		blocks = append(blocks, joinLines(plain))
	}
	blocks = append(blocks, tables...)

	return strings.Join(blocks, newline+newline), nil
}
