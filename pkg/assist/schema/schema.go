// Package schema extracts structural data-model definitions from source
// files. Extraction sits behind the Extractor interface so the convention
// that marks a type as a model can be swapped per source language without
// touching the callers.
package schema

// Field is one declared attribute of a model.
type Field struct {
	Name string
	Type string
	Tag  string
	Line int
}

// Relationship links a model field to another named type.
type Relationship struct {
	Field  string
	Kind   string // "reference" or "collection"
	Target string
}

// Model is one extracted data-model definition.
type Model struct {
	Name          string
	File          string
	Line          int
	Embeds        []string
	Fields        []Field
	Relationships []Relationship
	Meta          map[string]string
}

// FileModels holds the extraction outcome for a single file. A parse
// failure is reported in Err and leaves Models empty.
type FileModels struct {
	Path   string
	Models []Model
	Err    string
}

// Report aggregates model extraction across every matching file.
type Report struct {
	Files []FileModels
	Count int
}

// Extractor recognizes and parses one source language's model convention.
type Extractor interface {
	// Matches reports whether path follows the convention for model files.
	Matches(path string) bool
	// Extract parses content and returns the models it defines.
	Extract(path, content string) ([]Model, error)
}
