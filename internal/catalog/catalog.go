// Package catalog holds the in-memory semantic model for one logical schema:
// tables, relationships, measures, and dimensions, with cascading removal and
// name resolution. It performs no I/O; persistence of model definitions is
// the host's concern.
package catalog

import (
	"sync"

	"semql/internal/domain"
)

// Catalog owns one mutable SemanticModel. Reads are concurrent; mutations are
// serialized behind a write lock.
type Catalog struct {
	mu    sync.RWMutex
	model domain.SemanticModel
}

// New creates a catalog from a validated model. The model is copied; later
// changes to the argument do not affect the catalog.
func New(model domain.SemanticModel) (*Catalog, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if model.ID == "" {
		model.ID = domain.NewID()
	}
	return &Catalog{model: cloneModel(model)}, nil
}

// ModelID returns the model's identifier.
func (c *Catalog) ModelID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model.ID
}

// Snapshot returns a deep copy of the current model.
func (c *Catalog) Snapshot() domain.SemanticModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneModel(c.model)
}

// AddTable registers a table. Fails with ConflictError when a table of the
// same name already exists.
func (c *Catalog) AddTable(t domain.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model.Table(t.Name) != nil {
		return domain.ErrConflict("table %q already exists", t.Name)
	}
	c.model.Tables = append(c.model.Tables, cloneTable(t))
	return nil
}

// RemoveTable removes a table and cascades: relationships, measures, and
// dimensions referencing it are removed as well.
func (c *Catalog) RemoveTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := -1
	for i := range c.model.Tables {
		if c.model.Tables[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound("table %q not found", name)
	}
	c.model.Tables = append(c.model.Tables[:idx], c.model.Tables[idx+1:]...)

	rels := c.model.Relationships[:0]
	for _, r := range c.model.Relationships {
		if r.FromTable != name && r.ToTable != name {
			rels = append(rels, r)
		}
	}
	c.model.Relationships = rels

	measures := c.model.Measures[:0]
	for _, m := range c.model.Measures {
		if m.Table != name {
			measures = append(measures, m)
		}
	}
	c.model.Measures = measures

	dims := c.model.Dimensions[:0]
	for _, d := range c.model.Dimensions {
		if d.Table != name {
			dims = append(dims, d)
		}
	}
	c.model.Dimensions = dims
	return nil
}

// AddRelationship registers a join edge. Both endpoints must be declared
// tables.
func (c *Catalog) AddRelationship(r domain.Relationship) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model.Table(r.FromTable) == nil {
		return domain.ErrInvalidReference("relationship references unknown table %q", r.FromTable)
	}
	if c.model.Table(r.ToTable) == nil {
		return domain.ErrInvalidReference("relationship references unknown table %q", r.ToTable)
	}
	c.model.Relationships = append(c.model.Relationships, r)
	return nil
}

// RemoveRelationship removes the first relationship matching the given
// endpoints and columns.
func (c *Catalog) RemoveRelationship(fromTable, fromColumn, toTable, toColumn string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.model.Relationships {
		if r.FromTable == fromTable && r.FromColumn == fromColumn &&
			r.ToTable == toTable && r.ToColumn == toColumn {
			c.model.Relationships = append(c.model.Relationships[:i], c.model.Relationships[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound("relationship %s.%s -> %s.%s not found", fromTable, fromColumn, toTable, toColumn)
}

// AddMeasure registers a measure over a declared table.
func (c *Catalog) AddMeasure(m domain.Measure) error {
	if err := m.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model.Table(m.Table) == nil {
		return domain.ErrInvalidReference("measure %q references unknown table %q", m.Name, m.Table)
	}
	for _, existing := range c.model.Measures {
		if existing.Name == m.Name {
			return domain.ErrConflict("measure %q already exists", m.Name)
		}
	}
	c.model.Measures = append(c.model.Measures, m)
	return nil
}

// RemoveMeasure removes a measure by name.
func (c *Catalog) RemoveMeasure(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, m := range c.model.Measures {
		if m.Name == name {
			c.model.Measures = append(c.model.Measures[:i], c.model.Measures[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound("measure %q not found", name)
}

// AddDimension registers a dimension over a declared table.
func (c *Catalog) AddDimension(d domain.Dimension) error {
	if err := d.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model.Table(d.Table) == nil {
		return domain.ErrInvalidReference("dimension %q references unknown table %q", d.Name, d.Table)
	}
	for _, existing := range c.model.Dimensions {
		if existing.Name == d.Name {
			return domain.ErrConflict("dimension %q already exists", d.Name)
		}
	}
	c.model.Dimensions = append(c.model.Dimensions, cloneDimension(d))
	return nil
}

// RemoveDimension removes a dimension by name.
func (c *Catalog) RemoveDimension(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.model.Dimensions {
		if d.Name == name {
			c.model.Dimensions = append(c.model.Dimensions[:i], c.model.Dimensions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound("dimension %q not found", name)
}

// Table returns a declared table by name.
func (c *Catalog) Table(name string) (domain.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t := c.model.Table(name)
	if t == nil {
		return domain.Table{}, domain.ErrNotFound("table %q not found", name)
	}
	return cloneTable(*t), nil
}

// ResolveMeasure returns a declared measure by name.
func (c *Catalog) ResolveMeasure(name string) (domain.Measure, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.model.Measures {
		if m.Name == name {
			return m, nil
		}
	}
	return domain.Measure{}, domain.ErrNotFound("measure %q not found", name)
}

// ResolveDimension returns a declared dimension by name.
func (c *Catalog) ResolveDimension(name string) (domain.Dimension, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.model.Dimensions {
		if d.Name == name {
			return cloneDimension(d), nil
		}
	}
	return domain.Dimension{}, domain.ErrNotFound("dimension %q not found", name)
}

// Relationships returns all join edges in declaration order.
func (c *Catalog) Relationships() []domain.Relationship {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Relationship(nil), c.model.Relationships...)
}

func cloneModel(m domain.SemanticModel) domain.SemanticModel {
	out := m
	out.Tables = make([]domain.Table, len(m.Tables))
	for i, t := range m.Tables {
		out.Tables[i] = cloneTable(t)
	}
	out.Relationships = append([]domain.Relationship(nil), m.Relationships...)
	out.Measures = append([]domain.Measure(nil), m.Measures...)
	out.Dimensions = make([]domain.Dimension, len(m.Dimensions))
	for i, d := range m.Dimensions {
		out.Dimensions[i] = cloneDimension(d)
	}
	return out
}

func cloneTable(t domain.Table) domain.Table {
	out := t
	out.Columns = append([]domain.Column(nil), t.Columns...)
	return out
}

func cloneDimension(d domain.Dimension) domain.Dimension {
	out := d
	out.Hierarchy = append([]string(nil), d.Hierarchy...)
	return out
}
