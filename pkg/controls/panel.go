package controls

import (
	"fmt"
	"math"
)

// Panel holds the current value of every control
type Panel struct {
	descriptors []Descriptor
	values      map[string]float64
}

// NewPanel creates a panel with each control at its initial value
func NewPanel(descriptors []Descriptor) *Panel {
	p := &Panel{
		descriptors: descriptors,
		values:      make(map[string]float64, len(descriptors)),
	}
	for _, d := range descriptors {
		p.values[d.Name] = d.Value
	}
	return p
}

// Descriptors returns the controls in display order
func (p *Panel) Descriptors() []Descriptor {
	return p.descriptors
}

// Groups returns the group names in order of first appearance
func (p *Panel) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, d := range p.descriptors {
		if !seen[d.Group] {
			seen[d.Group] = true
			groups = append(groups, d.Group)
		}
	}
	return groups
}

// Init fires every OnChange once with the current value so the target
// starts in sync with the panel
func (p *Panel) Init() {
	for _, d := range p.descriptors {
		if d.OnChange != nil {
			d.OnChange(p.values[d.Name])
		}
	}
}

// Value returns the current value of a control
func (p *Panel) Value(name string) (float64, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Set changes a control. Slider values are clamped to their range and
// snapped to the step; enum values must be one of the choices.
func (p *Panel) Set(name string, value float64) error {
	d, ok := p.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}

	switch d.Kind {
	case Slider:
		value = math.Max(d.Min, math.Min(d.Max, value))
		if d.Step > 0 {
			value = d.Min + math.Round((value-d.Min)/d.Step)*d.Step
			value = math.Min(d.Max, value)
		}
	case Enum:
		if _, ok := d.Label(value); !ok {
			return fmt.Errorf("%w: %s=%v", ErrInvalidChoice, name, value)
		}
	}

	p.values[name] = value
	if d.OnChange != nil {
		d.OnChange(value)
	}
	return nil
}

// Select changes an enum control by choice label
func (p *Panel) Select(name, label string) error {
	d, ok := p.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	for _, choice := range d.Choices {
		if choice.Label == label {
			return p.Set(name, float64(choice.Value))
		}
	}
	return fmt.Errorf("%w: %s=%s", ErrInvalidChoice, name, label)
}

// Cycle moves an enum control to its next choice, wrapping around
func (p *Panel) Cycle(name string) error {
	d, ok := p.lookup(name)
	if !ok || d.Kind != Enum || len(d.Choices) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}

	current := p.values[name]
	next := d.Choices[0].Value
	for i, choice := range d.Choices {
		if float64(choice.Value) == current {
			next = d.Choices[(i+1)%len(d.Choices)].Value
			break
		}
	}
	return p.Set(name, float64(next))
}

func (p *Panel) lookup(name string) (Descriptor, bool) {
	for _, d := range p.descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
