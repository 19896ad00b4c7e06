package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	influences map[int]float64
	pose       int
	poseCalls  int
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{influences: make(map[int]float64), pose: 99}
}

func (f *fakeTarget) SetMorphInfluence(index int, value float64) {
	f.influences[index] = value
}

func (f *fakeTarget) ApplyPose(index int) {
	f.pose = index
	f.poseCalls++
}

var posePaths = []string{"assets/vpds/01.vpd", "assets/vpds/02.vpd"}

func TestBuild(t *testing.T) {
	descriptors := Build([]string{"blink", "smile"}, posePaths, newFakeTarget())
	require.Len(t, descriptors, 3)

	pose := descriptors[0]
	assert.Equal(t, "pose", pose.Name)
	assert.Equal(t, Enum, pose.Kind)
	assert.Equal(t, GroupPoses, pose.Group)
	assert.Equal(t, []Choice{{"default", -1}, {"01.vpd", 0}, {"02.vpd", 1}}, pose.Choices)
	assert.Equal(t, float64(RestPose), pose.Value)

	blink := descriptors[1]
	assert.Equal(t, "blink", blink.Name)
	assert.Equal(t, Slider, blink.Kind)
	assert.Equal(t, GroupMorphs, blink.Group)
	assert.Equal(t, 0.0, blink.Min)
	assert.Equal(t, 1.0, blink.Max)
	assert.Equal(t, 0.01, blink.Step)
	assert.Equal(t, "smile", descriptors[2].Name)
}

func TestPanel_InitSyncsTarget(t *testing.T) {
	target := newFakeTarget()
	panel := NewPanel(Build([]string{"blink", "smile"}, posePaths, target))

	panel.Init()

	assert.Equal(t, RestPose, target.pose)
	assert.Equal(t, map[int]float64{0: 0, 1: 0}, target.influences)
	assert.Equal(t, []string{GroupPoses, GroupMorphs}, panel.Groups())
}

func TestPanel_SetSlider(t *testing.T) {
	target := newFakeTarget()
	panel := NewPanel(Build([]string{"blink", "smile"}, posePaths, target))

	require.NoError(t, panel.Set("smile", 0.504))
	assert.InDelta(t, 0.5, target.influences[1], 1e-9)

	require.NoError(t, panel.Set("blink", 3))
	assert.Equal(t, 1.0, target.influences[0])

	require.NoError(t, panel.Set("blink", -1))
	v, ok := panel.Value("blink")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestPanel_SetEnum(t *testing.T) {
	target := newFakeTarget()
	panel := NewPanel(Build(nil, posePaths, target))

	require.NoError(t, panel.Set("pose", 1))
	assert.Equal(t, 1, target.pose)

	err := panel.Set("pose", 5)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Equal(t, 1, target.pose)

	require.NoError(t, panel.Select("pose", "01.vpd"))
	assert.Equal(t, 0, target.pose)

	assert.ErrorIs(t, panel.Select("pose", "03.vpd"), ErrInvalidChoice)
}

func TestPanel_Cycle(t *testing.T) {
	target := newFakeTarget()
	panel := NewPanel(Build(nil, posePaths, target))

	require.NoError(t, panel.Cycle("pose"))
	assert.Equal(t, 0, target.pose)
	require.NoError(t, panel.Cycle("pose"))
	assert.Equal(t, 1, target.pose)
	require.NoError(t, panel.Cycle("pose"))
	assert.Equal(t, RestPose, target.pose)
}

func TestPanel_UnknownControl(t *testing.T) {
	panel := NewPanel(Build([]string{"blink"}, nil, newFakeTarget()))

	assert.ErrorIs(t, panel.Set("wink", 1), ErrUnknownControl)
	assert.ErrorIs(t, panel.Select("wink", "x"), ErrUnknownControl)
	assert.ErrorIs(t, panel.Cycle("blink"), ErrUnknownControl)

	_, ok := panel.Value("wink")
	assert.False(t, ok)
}
