package session

import (
	"context"
	"errors"
	"testing"

	"github.com/philipparndt/guideline/internal/scene"
	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	loaded []string
	fail   map[string]error
}

func (l *fakeLoader) Load(_ context.Context, _ int, location string) error {
	if err := l.fail[location]; err != nil {
		return err
	}
	l.loaded = append(l.loaded, location)
	return nil
}

type fakeNotifier struct {
	notices []string
}

func (n *fakeNotifier) Notice(message string) {
	n.notices = append(n.notices, message)
}

type fakeExporter struct {
	docs []annotation.Document
	err  error
}

func (e *fakeExporter) Export(_ context.Context, doc annotation.Document) error {
	if e.err != nil {
		return e.err
	}
	e.docs = append(e.docs, doc)
	return nil
}

type fakeRecorder struct {
	records []annotation.Record
}

func (r *fakeRecorder) Save(_ context.Context, rec annotation.Record) error {
	r.records = append(r.records, rec)
	return nil
}

type fixture struct {
	session  *Session
	tool     *annotation.Tool
	overlay  *scene.Overlay
	loader   *fakeLoader
	notifier *fakeNotifier
	exporter *fakeExporter
	recorder *fakeRecorder
}

func newFixture(t *testing.T, models ...string) *fixture {
	t.Helper()
	f := &fixture{
		overlay:  scene.NewOverlay(),
		loader:   &fakeLoader{fail: map[string]error{}},
		notifier: &fakeNotifier{},
		exporter: &fakeExporter{},
		recorder: &fakeRecorder{},
	}
	f.tool = annotation.NewTool(f.overlay, annotation.DefaultOptions())

	s, err := New(models, f.tool, Deps{
		Loader:   f.loader,
		Notifier: f.notifier,
		Exporter: f.exporter,
		Recorder: f.recorder,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	f.session = s
	return f
}

func TestNew_EmptyModelList(t *testing.T) {
	_, err := New(nil, nil, Deps{})
	assert.ErrorIs(t, err, ErrNoModels)
}

func TestStart_LoadsFirstModel(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl")
	assert.Equal(t, []string{"a.stl"}, f.loader.loaded)
	assert.Equal(t, 0, f.session.Index())
	assert.Equal(t, "a.stl", f.session.Location())
	assert.Equal(t, 2, f.session.Len())
}

func TestNext_AtLastModelShowsNotice(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl")
	ctx := context.Background()

	require.NoError(t, f.session.Next(ctx))
	assert.Equal(t, 1, f.session.Index())

	f.tool.AddLine(0, 5)
	err := f.session.Next(ctx)
	assert.ErrorIs(t, err, ErrLastModel)
	assert.Equal(t, 1, f.session.Index())
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, 1, f.tool.Len())
	assert.Equal(t, []string{"a.stl", "b.stl"}, f.loader.loaded)
}

func TestPrev_AtFirstModelShowsNotice(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl")

	err := f.session.Prev(context.Background())
	assert.ErrorIs(t, err, ErrFirstModel)
	assert.Equal(t, 0, f.session.Index())
	assert.Len(t, f.notifier.notices, 1)
}

func TestNavigation_CommitsAndResets(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl")
	ctx := context.Background()

	f.tool.SetMode(annotation.Mode3)
	f.tool.AddLine(0, 5)
	f.tool.CopyLines()

	require.NoError(t, f.session.Next(ctx))
	assert.Equal(t, 0, f.tool.Len())
	assert.Equal(t, 0, f.overlay.Len())
	assert.Equal(t, annotation.Mode1, f.tool.Mode())
	assert.False(t, f.tool.Mirrored())

	rec, ok := f.session.Record(0)
	require.True(t, ok)
	assert.Equal(t, "a.stl", rec.Location)
	v, ok := rec.Value(annotation.Mode3)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
	require.Len(t, f.recorder.records, 1)
}

func TestNavigation_RevisitRestoresAndOverwrites(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl")
	ctx := context.Background()

	f.tool.AddLine(0, 5)
	require.NoError(t, f.session.Next(ctx))
	require.NoError(t, f.session.Prev(ctx))

	line, ok := f.tool.Original(annotation.Mode1)
	require.True(t, ok)
	assert.Equal(t, 5.0, line.Start.Y)

	f.tool.AddLine(0, 7)
	f.session.Commit(ctx)
	rec, _ := f.session.Record(0)
	v, _ := rec.Value(annotation.Mode1)
	assert.Equal(t, 7.0, v)
}

func TestNavigation_LoadFailureKeepsState(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl")
	f.loader.fail["b.stl"] = errors.New("broken mesh")

	f.tool.AddLine(0, 5)
	err := f.session.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken mesh")
	assert.Equal(t, 0, f.session.Index())
	assert.Equal(t, 1, f.tool.Len())
}

func TestSave_ExportsEveryModel(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl", "c.stl")
	ctx := context.Background()

	f.tool.SetMode(annotation.Mode2)
	f.tool.AddLine(3, 0)
	require.NoError(t, f.session.Next(ctx))
	require.NoError(t, f.session.Save(ctx))

	require.Len(t, f.exporter.docs, 1)
	list := f.exporter.docs[0].ModelList
	require.Len(t, list, 3)
	assert.Equal(t, "a.stl", list[0].Location)
	require.NotNil(t, list[0].LineLocationX1)
	assert.Equal(t, 3.0, *list[0].LineLocationX1)
	assert.Equal(t, annotation.Record{Location: "b.stl"}, list[1])
	assert.Equal(t, annotation.Record{Location: "c.stl"}, list[2])
}

func TestSave_PropagatesExportError(t *testing.T) {
	f := newFixture(t, "a.stl")
	f.exporter.err = context.Canceled

	err := f.session.Save(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandleKey(t *testing.T) {
	f := newFixture(t, "a.stl", "b.stl")
	ctx := context.Background()

	require.NoError(t, f.session.HandleKey(ctx, '2'))
	assert.Equal(t, annotation.Mode2, f.tool.Mode())
	f.tool.AddLine(3, 0)

	require.NoError(t, f.session.HandleKey(ctx, 'Q'))
	assert.True(t, f.tool.Mirrored())
	assert.Equal(t, 2, f.tool.Len())

	require.NoError(t, f.session.HandleKey(ctx, 'x'))

	require.NoError(t, f.session.HandleKey(ctx, 'D'))
	assert.Equal(t, 1, f.session.Index())
	assert.ErrorIs(t, f.session.HandleKey(ctx, 'd'), ErrLastModel)

	require.NoError(t, f.session.HandleKey(ctx, 'a'))
	assert.Equal(t, 0, f.session.Index())

	require.NoError(t, f.session.HandleKey(ctx, 's'))
	assert.Len(t, f.exporter.docs, 1)
}

func TestPreload_RestoresOnStart(t *testing.T) {
	y := 4.0
	doc := annotation.Document{ModelList: []annotation.Record{
		{Location: "a.stl", LineLocationY3: &y, LineLocationY4: &y},
		{Location: "unknown.stl"},
	}}

	tool := annotation.NewTool(scene.NewOverlay(), annotation.DefaultOptions())
	s, err := New([]string{"a.stl"}, tool, Deps{Loader: &fakeLoader{}, Logger: zerolog.Nop()})
	require.NoError(t, err)
	s.Preload(doc)
	require.NoError(t, s.Start(context.Background()))

	line, ok := tool.Original(annotation.Mode1)
	require.True(t, ok)
	assert.Equal(t, 4.0, line.Start.Y)
}

func TestNext_RepeatedAtLastModelRecordsOnce(t *testing.T) {
	f := newFixture(t, "a.stl")
	ctx := context.Background()

	f.tool.AddLine(0, 5)
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, f.session.HandleKey(ctx, 'd'), ErrLastModel)
	}
	require.Len(t, f.recorder.records, 1)

	f.tool.SetMode(annotation.Mode2)
	f.tool.AddLine(3, 0)
	assert.ErrorIs(t, f.session.HandleKey(ctx, 'd'), ErrLastModel)
	require.Len(t, f.recorder.records, 2)
	v, ok := f.recorder.records[1].Value(annotation.Mode2)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}
