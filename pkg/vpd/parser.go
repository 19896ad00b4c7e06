package vpd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/philipparndt/guideline/pkg/geometry"
	"golang.org/x/text/encoding/japanese"
)

const header = "Vocaloid Pose Data file"

var (
	// ErrInvalidHeader is returned when the data does not start with the VPD signature
	ErrInvalidHeader = errors.New("vpd: invalid header")
	// ErrSyntax is returned for malformed pose data
	ErrSyntax = errors.New("vpd: syntax error")
)

// BoneTransform is the pose of a single bone
type BoneTransform struct {
	Name        string
	Translation geometry.Vector3
	Rotation    geometry.Quaternion
}

// MorphWeight is the weight of a single morph
type MorphWeight struct {
	Name   string
	Weight float64
}

// Pose is a skeletal pose snapshot
type Pose struct {
	Name      string // base name of the file the pose was read from
	ModelFile string // model the pose was authored for
	Bones     []BoneTransform
	Morphs    []MorphWeight
}

// ParseFile reads a VPD file
func ParseFile(filename string) (*Pose, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read pose file: %w", err)
	}

	pose, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	pose.Name = filepath.Base(filename)
	return pose, nil
}

// Parse reads VPD data. Shift_JIS input is decoded; UTF-8 input is used as is.
func Parse(r io.Reader) (*Pose, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pose data: %w", err)
	}

	if !utf8.Valid(data) {
		data, err = japanese.ShiftJIS.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode Shift_JIS: %w", err)
		}
	}

	lines := significantLines(data)
	if len(lines) == 0 || lines[0].text != header {
		return nil, ErrInvalidHeader
	}

	p := &parser{lines: lines, pos: 1}
	return p.parse()
}

type sourceLine struct {
	number int
	text   string
}

// significantLines strips comments and blank lines
func significantLines(data []byte) []sourceLine {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var lines []sourceLine
	scanner := bufio.NewScanner(bytes.NewReader(data))
	number := 0
	for scanner.Scan() {
		number++
		text := scanner.Text()
		if idx := strings.Index(text, "//"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, sourceLine{number: number, text: text})
	}
	return lines
}

type parser struct {
	lines []sourceLine
	pos   int
}

func (p *parser) next() (sourceLine, error) {
	if p.pos >= len(p.lines) {
		return sourceLine{}, fmt.Errorf("%w: unexpected end of data", ErrSyntax)
	}
	line := p.lines[p.pos]
	p.pos++
	return line, nil
}

func (p *parser) parse() (*Pose, error) {
	pose := &Pose{}

	modelLine, err := p.next()
	if err != nil {
		return nil, err
	}
	pose.ModelFile = strings.TrimSuffix(modelLine.text, ";")

	countLine, err := p.next()
	if err != nil {
		return nil, err
	}
	boneCount, err := strconv.Atoi(strings.TrimSuffix(countLine.text, ";"))
	if err != nil || boneCount < 0 {
		return nil, fmt.Errorf("%w: line %d: invalid bone count %q", ErrSyntax, countLine.number, countLine.text)
	}
	// A bone block spans four lines; the declared count is checked at the end
	pose.Bones = make([]BoneTransform, 0, min(boneCount, len(p.lines)/4))

	for p.pos < len(p.lines) {
		line, _ := p.next()
		kind, name, ok := blockStart(line.text)
		if !ok {
			return nil, fmt.Errorf("%w: line %d: expected block, got %q", ErrSyntax, line.number, line.text)
		}

		switch kind {
		case "Bone":
			bone, err := p.parseBone(name)
			if err != nil {
				return nil, err
			}
			pose.Bones = append(pose.Bones, bone)
		case "Morph":
			morph, err := p.parseMorph(name)
			if err != nil {
				return nil, err
			}
			pose.Morphs = append(pose.Morphs, morph)
		}
	}

	if len(pose.Bones) != boneCount {
		return nil, fmt.Errorf("%w: declared %d bones, found %d", ErrSyntax, boneCount, len(pose.Bones))
	}

	return pose, nil
}

// blockStart recognises "Bone12{name" and "Morph3{name"
func blockStart(text string) (kind, name string, ok bool) {
	brace := strings.Index(text, "{")
	if brace < 0 {
		return "", "", false
	}
	head := text[:brace]
	for _, k := range []string{"Bone", "Morph"} {
		if !strings.HasPrefix(head, k) {
			continue
		}
		if _, err := strconv.Atoi(head[len(k):]); err != nil {
			return "", "", false
		}
		return k, strings.TrimSpace(text[brace+1:]), true
	}
	return "", "", false
}

func (p *parser) parseBone(name string) (BoneTransform, error) {
	bone := BoneTransform{Name: name}

	line, err := p.next()
	if err != nil {
		return bone, err
	}
	t, err := parseFloats(line, 3)
	if err != nil {
		return bone, err
	}
	bone.Translation = geometry.NewVector3(t[0], t[1], t[2])

	line, err = p.next()
	if err != nil {
		return bone, err
	}
	q, err := parseFloats(line, 4)
	if err != nil {
		return bone, err
	}
	bone.Rotation = geometry.Quaternion{X: q[0], Y: q[1], Z: q[2], W: q[3]}

	return bone, p.blockEnd()
}

func (p *parser) parseMorph(name string) (MorphWeight, error) {
	morph := MorphWeight{Name: name}

	line, err := p.next()
	if err != nil {
		return morph, err
	}
	w, err := parseFloats(line, 1)
	if err != nil {
		return morph, err
	}
	morph.Weight = w[0]

	return morph, p.blockEnd()
}

func (p *parser) blockEnd() error {
	line, err := p.next()
	if err != nil {
		return err
	}
	if line.text != "}" {
		return fmt.Errorf("%w: line %d: expected }, got %q", ErrSyntax, line.number, line.text)
	}
	return nil
}

func parseFloats(line sourceLine, n int) ([]float64, error) {
	fields := strings.Split(strings.TrimSuffix(line.text, ";"), ",")
	if len(fields) != n {
		return nil, fmt.Errorf("%w: line %d: expected %d values, got %q", ErrSyntax, line.number, n, line.text)
	}

	values := make([]float64, n)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, line.number, err)
		}
		values[i] = v
	}
	return values, nil
}

// Bone returns the transform of a named bone
func (p *Pose) Bone(name string) (BoneTransform, bool) {
	for _, bone := range p.Bones {
		if bone.Name == name {
			return bone, true
		}
	}
	return BoneTransform{}, false
}
