package annotation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/guideline/pkg/geometry"
)

// Record holds the exported guide positions of one model. Each filled slot
// writes its constrained coordinate under two keys; empty slots are omitted.
type Record struct {
	Location       string   `json:"location"`
	LineLocationY3 *float64 `json:"line_locationy_3,omitempty"`
	LineLocationY4 *float64 `json:"line_locationy_4,omitempty"`
	LineLocationX1 *float64 `json:"line_locationx_1,omitempty"`
	LineLocationX3 *float64 `json:"line_locationx_3,omitempty"`
	LineLocationY1 *float64 `json:"line_locationy_1,omitempty"`
	LineLocationY2 *float64 `json:"line_locationy_2,omitempty"`
	LineLocationX2 *float64 `json:"line_locationx_2,omitempty"`
	LineLocationX4 *float64 `json:"line_locationx_4,omitempty"`
}

// Document is the export file written for a whole model list
type Document struct {
	ModelList []Record `json:"modellist"`
}

// set stores the constrained coordinate of a slot's line start point
func (r *Record) set(mode Mode, start geometry.Vector3) {
	switch mode {
	case Mode1:
		r.LineLocationY3 = floatPtr(start.Y)
		r.LineLocationY4 = floatPtr(start.Y)
	case Mode2:
		r.LineLocationX1 = floatPtr(start.X)
		r.LineLocationX3 = floatPtr(start.X)
	case Mode3:
		r.LineLocationY1 = floatPtr(start.Y)
		r.LineLocationY2 = floatPtr(start.Y)
	case Mode4:
		r.LineLocationX2 = floatPtr(start.X)
		r.LineLocationX4 = floatPtr(start.X)
	}
}

// Value returns the coordinate stored for a slot
func (r Record) Value(mode Mode) (float64, bool) {
	var p *float64
	switch mode {
	case Mode1:
		p = r.LineLocationY3
	case Mode2:
		p = r.LineLocationX1
	case Mode3:
		p = r.LineLocationY1
	case Mode4:
		p = r.LineLocationX2
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Filled returns the slots that have a value
func (r Record) Filled() []Mode {
	var modes []Mode
	for _, mode := range Modes {
		if _, ok := r.Value(mode); ok {
			modes = append(modes, mode)
		}
	}
	return modes
}

// Empty reports whether no slot has a value
func (r Record) Empty() bool {
	return len(r.Filled()) == 0
}

// Equal reports whether both records describe the same model and slots
func (r Record) Equal(other Record) bool {
	if r.Location != other.Location {
		return false
	}
	for _, mode := range Modes {
		a, okA := r.Value(mode)
		b, okB := other.Value(mode)
		if okA != okB || a != b {
			return false
		}
	}
	return true
}

func floatPtr(v float64) *float64 {
	return &v
}

// WriteDocument encodes the document as indented JSON
func WriteDocument(w io.Writer, doc Document) error {
	if doc.ModelList == nil {
		doc.ModelList = []Record{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model list: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write model list: %w", err)
	}
	return nil
}

// SaveDocument writes the document to a file
func SaveDocument(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := WriteDocument(file, doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadDocument decodes a document written by WriteDocument
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse model list: %w", err)
	}
	return doc, nil
}

// LoadDocument reads an earlier export. A missing file yields an empty
// document.
func LoadDocument(path string) (Document, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return Document{}, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	return ReadDocument(file)
}
