package config

import (
	"fmt"
	"os"

	"github.com/wesleywu/simconfig/internal/params"
	"gopkg.in/yaml.v3"
)

// DefinitionFile is the on-disk layout of a parameter definition file
type DefinitionFile struct {
	Parameters []Definition `yaml:"parameters"`
}

// Definition describes one parameter in a definition file
type Definition struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Value any      `yaml:"value"`
	Unit  string   `yaml:"unit,omitempty"`
	Tags  []string `yaml:"tags,omitempty"`
}

// parseDefinitions builds a parameter table from YAML definition data
func parseDefinitions(data []byte) (*params.Table, error) {
	var file DefinitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse definitions: %w", err)
	}

	if len(file.Parameters) == 0 {
		return nil, fmt.Errorf("no parameters defined")
	}

	table := params.NewTable()
	for i, def := range file.Parameters {
		t, err := params.ParseType(def.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid type at entry %d (%s): %w", i+1, def.Name, err)
		}

		p, err := params.New(def.Name, t, def.Value, def.Unit, def.Tags...)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter at entry %d: %w", i+1, err)
		}

		if err := table.Add(p); err != nil {
			return nil, fmt.Errorf("invalid parameter at entry %d: %w", i+1, err)
		}
	}

	return table, nil
}

// LoadDefinitions loads a parameter table from a YAML definition file
func LoadDefinitions(file string) (*params.Table, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", file, err)
	}

	table, err := parseDefinitions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return table, nil
}

// ToDefinitions converts a parameter table back to its file layout
func ToDefinitions(table *params.Table) DefinitionFile {
	out := DefinitionFile{Parameters: make([]Definition, 0, table.Len())}
	for _, p := range table.Parameters() {
		out.Parameters = append(out.Parameters, Definition{
			Name:  p.Name,
			Type:  p.Type.Keyword(),
			Value: p.Value,
			Unit:  p.Unit,
			Tags:  p.Tags,
		})
	}
	return out
}

// SaveDefinitions writes a parameter table as a YAML definition file
func SaveDefinitions(table *params.Table, file string) error {
	data, err := yaml.Marshal(ToDefinitions(table))
	if err != nil {
		return fmt.Errorf("failed to marshal definitions: %w", err)
	}

	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("failed to write definitions %s: %w", file, err)
	}

	return nil
}
