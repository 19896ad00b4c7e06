package session

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/rs/zerolog"
)

var (
	// ErrFirstModel is returned when navigating before the first model
	ErrFirstModel = errors.New("already at the first model")
	// ErrLastModel is returned when navigating past the last model
	ErrLastModel = errors.New("already at the last model")
	// ErrNoModels is returned by New for an empty model list
	ErrNoModels = errors.New("empty model list")
	// ErrExportCancelled is returned when the user dismisses a save prompt
	ErrExportCancelled = errors.New("export cancelled")
)

// Loader switches the host scene to another model
type Loader interface {
	Load(ctx context.Context, index int, location string) error
}

// Notifier shows a blocking notice to the user
type Notifier interface {
	Notice(message string)
}

// Exporter writes the model list document to its destination. Exporters
// that prompt for a destination return ErrExportCancelled when the prompt
// is dismissed.
type Exporter interface {
	Export(ctx context.Context, doc annotation.Document) error
}

// Recorder keeps a history of committed records
type Recorder interface {
	Save(ctx context.Context, rec annotation.Record) error
}

// Deps are the collaborators of a session. Recorder is optional.
type Deps struct {
	Loader   Loader
	Notifier Notifier
	Exporter Exporter
	Recorder Recorder
	Logger   zerolog.Logger
}

// Session walks through the model list, collecting one annotation record
// per model
type Session struct {
	models   []string
	records  []*annotation.Record
	recorded []*annotation.Record // last record handed to the Recorder
	index    int
	tool     *annotation.Tool
	deps     Deps
	log      zerolog.Logger
}

// New creates a session over the given model locations
func New(models []string, tool *annotation.Tool, deps Deps) (*Session, error) {
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	return &Session{
		models:   append([]string(nil), models...),
		records:  make([]*annotation.Record, len(models)),
		recorded: make([]*annotation.Record, len(models)),
		tool:     tool,
		deps:     deps,
		log:      deps.Logger.With().Str("component", "session").Logger(),
	}, nil
}

// Index returns the position of the active model
func (s *Session) Index() int {
	return s.index
}

// Location returns the location of the active model
func (s *Session) Location() string {
	return s.models[s.index]
}

// Len returns the number of models
func (s *Session) Len() int {
	return len(s.models)
}

// Tool returns the annotation tool driven by the session
func (s *Session) Tool() *annotation.Tool {
	return s.tool
}

// Record returns the committed record of a model
func (s *Session) Record(index int) (annotation.Record, bool) {
	if index < 0 || index >= len(s.records) || s.records[index] == nil {
		return annotation.Record{}, false
	}
	return *s.records[index], true
}

// Preload seeds records from an earlier export. Records are matched to
// models by location; unknown locations are ignored.
func (s *Session) Preload(doc annotation.Document) {
	for _, rec := range doc.ModelList {
		for i, location := range s.models {
			if rec.Location == location {
				r := rec
				s.records[i] = &r
			}
		}
	}
}

// Start loads the first model
func (s *Session) Start(ctx context.Context) error {
	return s.activate(ctx, 0)
}

// Commit stores the lines of the active model as its record, replacing an
// earlier record of the same model. The Recorder only sees records that
// differ from the last one it was given for the model.
func (s *Session) Commit(ctx context.Context) annotation.Record {
	rec := s.tool.LinesData()
	rec.Location = s.models[s.index]
	s.records[s.index] = &rec

	if s.deps.Recorder != nil {
		if last := s.recorded[s.index]; last == nil || !last.Equal(rec) {
			if err := s.deps.Recorder.Save(ctx, rec); err != nil {
				s.log.Warn().Err(err).Str("model", rec.Location).Msg("Failed to record annotation history")
			} else {
				s.recorded[s.index] = &rec
			}
		}
	}

	s.log.Debug().Str("model", rec.Location).Int("slots", len(rec.Filled())).Msg("Record committed")
	return rec
}

// Next commits the active model and moves to the next one
func (s *Session) Next(ctx context.Context) error {
	s.Commit(ctx)
	if s.index >= len(s.models)-1 {
		s.notice("This is the last model.")
		return ErrLastModel
	}
	return s.activate(ctx, s.index+1)
}

// Prev commits the active model and moves to the previous one
func (s *Session) Prev(ctx context.Context) error {
	s.Commit(ctx)
	if s.index <= 0 {
		s.notice("This is the first model.")
		return ErrFirstModel
	}
	return s.activate(ctx, s.index-1)
}

// Document returns the records of every model in list order. Models that
// were never committed appear with their location only.
func (s *Session) Document() annotation.Document {
	doc := annotation.Document{ModelList: make([]annotation.Record, len(s.models))}
	for i, location := range s.models {
		if s.records[i] != nil {
			doc.ModelList[i] = *s.records[i]
			continue
		}
		doc.ModelList[i] = annotation.Record{Location: location}
	}
	return doc
}

// Save commits the active model and exports the document
func (s *Session) Save(ctx context.Context) error {
	s.Commit(ctx)
	if err := s.deps.Exporter.Export(ctx, s.Document()); err != nil {
		return fmt.Errorf("failed to export model list: %w", err)
	}
	s.log.Info().Int("models", len(s.models)).Msg("Model list exported")
	return nil
}

// HandleKey dispatches a key of the annotation keyboard surface. Letters are
// matched case-insensitively; unbound keys are ignored.
func (s *Session) HandleKey(ctx context.Context, key rune) error {
	switch unicode.ToLower(key) {
	case '1', '2', '3', '4':
		s.tool.SetMode(annotation.Mode(key - '0'))
	case 'q':
		s.tool.CopyLines()
	case 'a':
		return s.Prev(ctx)
	case 'd':
		return s.Next(ctx)
	case 's':
		return s.Save(ctx)
	}
	return nil
}

func (s *Session) activate(ctx context.Context, index int) error {
	location := s.models[index]
	if err := s.deps.Loader.Load(ctx, index, location); err != nil {
		return fmt.Errorf("failed to load %s: %w", location, err)
	}

	s.tool.Reset()
	s.index = index
	if rec := s.records[index]; rec != nil && !rec.Empty() {
		s.tool.Restore(*rec)
	}

	s.log.Info().Int("index", index).Str("model", location).Msg("Model activated")
	return nil
}

func (s *Session) notice(message string) {
	s.log.Info().Msg(message)
	if s.deps.Notifier != nil {
		s.deps.Notifier.Notice(message)
	}
}
