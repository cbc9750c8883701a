// Package modelfile loads declarative semantic-model definitions from YAML
// files into domain models.
package modelfile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"semql/internal/domain"
)

// File is the YAML shape of a semantic-model definition.
type File struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Tables        []tableDef        `yaml:"tables"`
	Relationships []relationshipDef `yaml:"relationships"`
	Measures      []measureDef      `yaml:"measures"`
	Dimensions    []dimensionDef    `yaml:"dimensions"`
}

type tableDef struct {
	Name    string      `yaml:"name"`
	Schema  string      `yaml:"schema"`
	Columns []columnDef `yaml:"columns"`
}

type columnDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type relationshipDef struct {
	FromTable   string `yaml:"from_table"`
	FromColumn  string `yaml:"from_column"`
	ToTable     string `yaml:"to_table"`
	ToColumn    string `yaml:"to_column"`
	Cardinality string `yaml:"cardinality"`
	JoinKind    string `yaml:"join_kind"`
}

type measureDef struct {
	Name      string `yaml:"name"`
	Table     string `yaml:"table"`
	Column    string `yaml:"column"`
	Aggregate string `yaml:"aggregate"`
}

type dimensionDef struct {
	Name      string   `yaml:"name"`
	Table     string   `yaml:"table"`
	Column    string   `yaml:"column"`
	Hierarchy []string `yaml:"hierarchy"`
}

// Load reads and validates a semantic-model definition from a YAML file.
func Load(path string) (*domain.SemanticModel, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a validated semantic model. Enum fields
// (cardinality, join kind, aggregate) are case-insensitive in the file.
func Parse(data []byte) (*domain.SemanticModel, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, domain.ErrValidation("invalid model file: %v", err)
	}

	model := &domain.SemanticModel{ID: f.ID, Name: f.Name}
	for _, t := range f.Tables {
		table := domain.Table{Name: t.Name, Schema: t.Schema}
		for _, c := range t.Columns {
			table.Columns = append(table.Columns, domain.Column{Name: c.Name, Type: c.Type})
		}
		model.Tables = append(model.Tables, table)
	}
	for _, r := range f.Relationships {
		kind := strings.ToUpper(r.JoinKind)
		if kind == "" {
			kind = domain.JoinKindInner
		}
		cardinality := strings.ToUpper(r.Cardinality)
		if cardinality == "" {
			cardinality = domain.CardinalityOneToMany
		}
		model.Relationships = append(model.Relationships, domain.Relationship{
			FromTable:   r.FromTable,
			FromColumn:  r.FromColumn,
			ToTable:     r.ToTable,
			ToColumn:    r.ToColumn,
			Cardinality: cardinality,
			JoinKind:    kind,
		})
	}
	for _, m := range f.Measures {
		model.Measures = append(model.Measures, domain.Measure{
			Name:      m.Name,
			Table:     m.Table,
			Column:    m.Column,
			Aggregate: strings.ToUpper(m.Aggregate),
		})
	}
	for _, d := range f.Dimensions {
		model.Dimensions = append(model.Dimensions, domain.Dimension{
			Name:      d.Name,
			Table:     d.Table,
			Column:    d.Column,
			Hierarchy: d.Hierarchy,
		})
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}
