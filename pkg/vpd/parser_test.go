package vpd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/guideline/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const samplePose = `Vocaloid Pose Data file

kizunaai.osm;		// parent file
2;				// bone count

Bone0{センター
  0.000000,-1.500000,0.250000;				// trans x,y,z
  0.000000,0.000000,0.000000,1.000000;		// Quaternion x,y,z,w
}

Bone1{左腕
  0.000000,0.000000,0.000000;
  0.000000,0.000000,0.382683,0.923880;
}

Morph0{まばたき
  1.000000;
}
`

func TestParse_UTF8(t *testing.T) {
	pose, err := Parse(strings.NewReader(samplePose))
	require.NoError(t, err)

	assert.Equal(t, "kizunaai.osm", pose.ModelFile)
	require.Len(t, pose.Bones, 2)
	assert.Equal(t, "センター", pose.Bones[0].Name)
	assert.Equal(t, geometry.NewVector3(0, -1.5, 0.25), pose.Bones[0].Translation)
	assert.Equal(t, geometry.IdentityQuaternion(), pose.Bones[0].Rotation)
	assert.InDelta(t, 0.382683, pose.Bones[1].Rotation.Z, 1e-9)

	require.Len(t, pose.Morphs, 1)
	assert.Equal(t, "まばたき", pose.Morphs[0].Name)
	assert.Equal(t, 1.0, pose.Morphs[0].Weight)

	arm, ok := pose.Bone("左腕")
	require.True(t, ok)
	assert.InDelta(t, 0.92388, arm.Rotation.W, 1e-9)
}

func TestParse_ShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().String(samplePose)
	require.NoError(t, err)

	pose, err := Parse(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, pose.Bones, 2)
	assert.Equal(t, "センター", pose.Bones[0].Name)
}

func TestParse_InvalidHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("Not a pose\n"))
	assert.ErrorIs(t, err, ErrInvalidHeader)

	_, err = Parse(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad count", "Vocaloid Pose Data file\nm.osm;\nmany;\n"},
		{"missing brace", "Vocaloid Pose Data file\nm.osm;\n1;\nBone0{a\n0,0,0;\n0,0,0,1;\n"},
		{"short vector", "Vocaloid Pose Data file\nm.osm;\n1;\nBone0{a\n0,0;\n0,0,0,1;\n}\n"},
		{"bad number", "Vocaloid Pose Data file\nm.osm;\n1;\nBone0{a\n0,x,0;\n0,0,0,1;\n}\n"},
		{"count mismatch", "Vocaloid Pose Data file\nm.osm;\n2;\nBone0{a\n0,0,0;\n0,0,0,1;\n}\n"},
		{"unknown block", "Vocaloid Pose Data file\nm.osm;\n0;\nCamera0{a\n}\n"},
		{"huge count", "Vocaloid Pose Data file\nm.osm;\n9223372036854775807;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestParseFile_SetsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01.vpd")
	require.NoError(t, os.WriteFile(path, []byte(samplePose), 0644))

	pose, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "01.vpd", pose.Name)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.vpd"))
	require.Error(t, err)
}
