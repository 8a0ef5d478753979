/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/suparena/metastore/errors"
)

//go:generate go run ../cmd/fieldgen -schema fields.yaml -o ids.go -package schema

//go:embed fields.yaml
var embedded []byte

// CountField is the name of the derived field every indexed entity owns.
const CountField = "Count"

// FieldID identifies a metadata field as "<Entity>.<Field>".
type FieldID string

// Entity returns the entity part of the identifier.
func (id FieldID) Entity() string {
	e, _, _ := strings.Cut(string(id), ".")
	return e
}

// Name returns the field part of the identifier.
func (id FieldID) Name() string {
	_, n, _ := strings.Cut(string(id), ".")
	return n
}

func (id FieldID) String() string { return string(id) }

// Kind classifies what a field carries.
type Kind string

const (
	KindCount     Kind = "count"
	KindText      Kind = "text"
	KindRef       Kind = "ref"
	KindUUID      Kind = "uuid"
	KindEnum      Kind = "enum"
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindBool      Kind = "bool"
	KindTimestamp Kind = "timestamp"
	KindBinary    Kind = "binary"
)

var declarableKinds = []Kind{
	KindText, KindRef, KindUUID, KindEnum, KindInt,
	KindFloat, KindBool, KindTimestamp, KindBinary,
}

// Entity describes a node of the metadata tree.
type Entity struct {
	Name   string
	Parent string
	// Index is the name of the index that repeats this entity under its
	// parent. Empty for the root and for singletons.
	Index string
	// Path lists the index names addressing one instance of the entity.
	Path []string
}

// Indexed reports whether the entity repeats under its parent.
func (e Entity) Indexed() bool { return e.Index != "" }

// CountID returns the derived count field, or "" for non-indexed entities.
func (e Entity) CountID() FieldID {
	if !e.Indexed() {
		return ""
	}
	return FieldID(e.Name + "." + CountField)
}

// Field describes one accessor pair.
type Field struct {
	ID     FieldID
	Entity string
	Name   string
	Kind   Kind
	// Indices names each position of the index tuple, outermost first.
	Indices []string
	Enum    []string
}

// Arity is the number of indices addressing the field.
func (f Field) Arity() int { return len(f.Indices) }

// CheckIndices validates the arity and sign of an index tuple.
func (f Field) CheckIndices(indices []int) error {
	if len(indices) != len(f.Indices) {
		return errors.NewValidationError(string(f.ID),
			fmt.Sprintf("expected %d indices (%s), got %d", len(f.Indices), strings.Join(f.Indices, ", "), len(indices)))
	}
	for i, v := range indices {
		if v < 0 {
			return errors.NewValidationError(string(f.ID),
				fmt.Sprintf("%s must be non-negative, got %d", f.Indices[i], v))
		}
	}
	return nil
}

// AllowsEnum reports whether v is a permitted value of an enum field.
func (f Field) AllowsEnum(v string) bool {
	return slices.Contains(f.Enum, v)
}

// Registry is an immutable catalogue of entities and fields.
type Registry struct {
	entities    map[string]Entity
	entityOrder []string
	children    map[string][]string
	fields      map[FieldID]Field
	fieldOrder  []FieldID
	root        string
}

type document struct {
	Entities []entityDoc `yaml:"entities"`
}

type entityDoc struct {
	Name   string     `yaml:"name"`
	Parent string     `yaml:"parent"`
	Index  string     `yaml:"index"`
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name string   `yaml:"name"`
	Kind Kind     `yaml:"kind"`
	Enum []string `yaml:"enum"`
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded field catalogue.
// It panics if the embedded data is malformed.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(bytes.NewReader(embedded))
		if err != nil {
			panic(fmt.Sprintf("schema: embedded field catalogue: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Load parses a YAML field catalogue. Parents must be declared before their
// children, which also rules out cycles.
func Load(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode field catalogue: %w", err)
	}

	reg := &Registry{
		entities: make(map[string]Entity),
		children: make(map[string][]string),
		fields:   make(map[FieldID]Field),
	}
	for _, ed := range doc.Entities {
		if err := reg.addEntity(ed); err != nil {
			return nil, err
		}
	}
	if reg.root == "" {
		return nil, errors.NewValidationError("", "field catalogue has no root entity")
	}
	return reg, nil
}

func (r *Registry) addEntity(ed entityDoc) error {
	if ed.Name == "" || strings.Contains(ed.Name, ".") {
		return errors.NewValidationError("", fmt.Sprintf("invalid entity name %q", ed.Name))
	}
	if _, dup := r.entities[ed.Name]; dup {
		return errors.NewValidationError(ed.Name, "duplicate entity")
	}

	ent := Entity{Name: ed.Name, Parent: ed.Parent, Index: ed.Index}
	switch {
	case ed.Parent == "":
		if r.root != "" {
			return errors.NewValidationError(ed.Name, fmt.Sprintf("second root entity (root is %s)", r.root))
		}
		if ed.Index != "" {
			return errors.NewValidationError(ed.Name, "root entity cannot be indexed")
		}
		r.root = ed.Name
	default:
		parent, ok := r.entities[ed.Parent]
		if !ok {
			return errors.NewValidationError(ed.Name, fmt.Sprintf("unknown parent entity %q", ed.Parent))
		}
		ent.Path = slices.Clone(parent.Path)
		if ed.Index != "" {
			if slices.Contains(parent.Path, ed.Index) {
				return errors.NewValidationError(ed.Name, fmt.Sprintf("index %q repeats an ancestor index", ed.Index))
			}
			ent.Path = append(ent.Path, ed.Index)
		}
		r.children[ed.Parent] = append(r.children[ed.Parent], ed.Name)
	}
	r.entities[ent.Name] = ent
	r.entityOrder = append(r.entityOrder, ent.Name)

	if ent.Indexed() {
		parentPath := r.entities[ent.Parent].Path
		r.addField(Field{
			ID:      ent.CountID(),
			Entity:  ent.Name,
			Name:    CountField,
			Kind:    KindCount,
			Indices: slices.Clone(parentPath),
		})
	}

	for _, fd := range ed.Fields {
		if err := r.checkField(ent, fd); err != nil {
			return err
		}
		r.addField(Field{
			ID:      FieldID(ent.Name + "." + fd.Name),
			Entity:  ent.Name,
			Name:    fd.Name,
			Kind:    fd.Kind,
			Indices: slices.Clone(ent.Path),
			Enum:    slices.Clone(fd.Enum),
		})
	}
	return nil
}

func (r *Registry) checkField(ent Entity, fd fieldDoc) error {
	id := ent.Name + "." + fd.Name
	if fd.Name == "" || strings.Contains(fd.Name, ".") {
		return errors.NewValidationError(id, "invalid field name")
	}
	if fd.Name == CountField {
		return errors.NewValidationError(id, "Count is reserved for the derived count field")
	}
	if _, dup := r.fields[FieldID(id)]; dup {
		return errors.NewValidationError(id, "duplicate field")
	}
	if !slices.Contains(declarableKinds, fd.Kind) {
		return errors.NewValidationError(id, fmt.Sprintf("unknown kind %q", fd.Kind))
	}
	if fd.Kind == KindEnum && len(fd.Enum) == 0 {
		return errors.NewValidationError(id, "enum field declares no values")
	}
	if fd.Kind != KindEnum && len(fd.Enum) > 0 {
		return errors.NewValidationError(id, "only enum fields may declare values")
	}
	return nil
}

func (r *Registry) addField(f Field) {
	r.fields[f.ID] = f
	r.fieldOrder = append(r.fieldOrder, f.ID)
}

// Lookup returns the descriptor of a field.
func (r *Registry) Lookup(id FieldID) (Field, bool) {
	f, ok := r.fields[id]
	return f, ok
}

// Require is Lookup returning an UnknownFieldError for missing fields.
func (r *Registry) Require(id FieldID) (Field, error) {
	f, ok := r.fields[id]
	if !ok {
		return Field{}, errors.NewUnknownFieldError(string(id))
	}
	return f, nil
}

// Fields returns every field in declaration order.
func (r *Registry) Fields() []Field {
	out := make([]Field, 0, len(r.fieldOrder))
	for _, id := range r.fieldOrder {
		out = append(out, r.fields[id])
	}
	return out
}

// Entities returns every entity in declaration order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, 0, len(r.entityOrder))
	for _, name := range r.entityOrder {
		out = append(out, r.entities[name])
	}
	return out
}

// Entity returns the descriptor of a named entity.
func (r *Registry) Entity(name string) (Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Root returns the root entity.
func (r *Registry) Root() Entity {
	return r.entities[r.root]
}

// Children returns the names of the direct children of an entity.
func (r *Registry) Children(name string) []string {
	return slices.Clone(r.children[name])
}

// Subtree returns name followed by all of its descendants, depth first.
func (r *Registry) Subtree(name string) []string {
	if _, ok := r.entities[name]; !ok {
		return nil
	}
	out := []string{name}
	for _, c := range r.children[name] {
		out = append(out, r.Subtree(c)...)
	}
	return out
}

// FieldsOf returns the fields of one entity, count field first.
func (r *Registry) FieldsOf(entity string) []Field {
	var out []Field
	for _, id := range r.fieldOrder {
		if f := r.fields[id]; f.Entity == entity {
			out = append(out, f)
		}
	}
	return out
}
