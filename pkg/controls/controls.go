package controls

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Kind selects the widget used for a control
type Kind int

const (
	Slider Kind = iota
	Enum
)

func (k Kind) String() string {
	switch k {
	case Slider:
		return "slider"
	case Enum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Group names used by Build
const (
	GroupPoses  = "Poses"
	GroupMorphs = "Morphs"
)

// RestPose is the enum value of the "default" pose choice
const RestPose = -1

var (
	// ErrUnknownControl is returned for a name no descriptor has
	ErrUnknownControl = errors.New("unknown control")
	// ErrInvalidChoice is returned when an enum value is not one of its choices
	ErrInvalidChoice = errors.New("invalid choice")
)

// Choice is one entry of an enum control
type Choice struct {
	Label string
	Value int
}

// Descriptor describes a single debug panel control
type Descriptor struct {
	Name     string
	Group    string
	Kind     Kind
	Min      float64
	Max      float64
	Step     float64
	Choices  []Choice
	Value    float64 // initial value
	OnChange func(value float64)
}

// Target receives control changes: morph influences by dictionary index and
// poses by index into the pose list (RestPose for the rest pose)
type Target interface {
	SetMorphInfluence(index int, value float64)
	ApplyPose(index int)
}

// Build creates the descriptors for a model: one pose enum followed by one
// slider per morph, in dictionary order
func Build(morphs []string, posePaths []string, target Target) []Descriptor {
	descriptors := make([]Descriptor, 0, len(morphs)+1)

	choices := []Choice{{Label: "default", Value: RestPose}}
	for i, path := range posePaths {
		choices = append(choices, Choice{Label: filepath.Base(path), Value: i})
	}
	descriptors = append(descriptors, Descriptor{
		Name:    "pose",
		Group:   GroupPoses,
		Kind:    Enum,
		Choices: choices,
		Value:   RestPose,
		OnChange: func(value float64) {
			target.ApplyPose(int(value))
		},
	})

	for i, name := range morphs {
		index := i
		descriptors = append(descriptors, Descriptor{
			Name:  name,
			Group: GroupMorphs,
			Kind:  Slider,
			Min:   0,
			Max:   1,
			Step:  0.01,
			OnChange: func(value float64) {
				target.SetMorphInfluence(index, value)
			},
		})
	}

	return descriptors
}

// Label returns the label of an enum choice value
func (d Descriptor) Label(value float64) (string, bool) {
	for _, choice := range d.Choices {
		if float64(choice.Value) == value {
			return choice.Label, true
		}
	}
	return "", false
}
