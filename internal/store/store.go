package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AnnotationRecord is one committed record of a model. Every commit appends a
// row, so the table is the annotation history.
type AnnotationRecord struct {
	gorm.Model
	Location string         `json:"location" gorm:"size:512;index:idx_annotation_location"`
	Payload  datatypes.JSON `json:"payload"`
}

func (*AnnotationRecord) TableName() string {
	return "annotation_records"
}

// Store keeps the annotation history in a SQLite database
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens or creates the database at path and migrates the schema. An
// empty path opens a private in-memory database.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation store: %w", err)
	}

	if err := db.AutoMigrate(&AnnotationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate annotation store: %w", err)
	}

	if path != "" {
		log.Info().Str("path", path).Msg("Using annotation store")
	}
	return &Store{db: db, log: log}, nil
}

// Save appends a record to the history
func (s *Store) Save(ctx context.Context, rec annotation.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	row := AnnotationRecord{Location: rec.Location, Payload: datatypes.JSON(payload)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store record for %s: %w", rec.Location, err)
	}

	s.log.Debug().Str("model", rec.Location).Uint("id", row.ID).Msg("Record stored")
	return nil
}

// Latest returns the newest record of a location
func (s *Store) Latest(ctx context.Context, location string) (annotation.Record, bool, error) {
	var rows []AnnotationRecord
	err := s.db.WithContext(ctx).
		Where("location = ?", location).
		Order("id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return annotation.Record{}, false, fmt.Errorf("failed to query %s: %w", location, err)
	}
	if len(rows) == 0 {
		return annotation.Record{}, false, nil
	}

	rec, err := decode(rows[0])
	if err != nil {
		return annotation.Record{}, false, err
	}
	return rec, true, nil
}

// History returns every record of a location, oldest first
func (s *Store) History(ctx context.Context, location string) ([]annotation.Record, error) {
	var rows []AnnotationRecord
	err := s.db.WithContext(ctx).
		Where("location = ?", location).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", location, err)
	}

	records := make([]annotation.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decode(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Document builds a model list from the newest record of each location.
// Locations without history appear with their location only.
func (s *Store) Document(ctx context.Context, locations []string) (annotation.Document, error) {
	doc := annotation.Document{ModelList: make([]annotation.Record, 0, len(locations))}
	for _, location := range locations {
		rec, ok, err := s.Latest(ctx, location)
		if err != nil {
			return annotation.Document{}, err
		}
		if !ok {
			rec = annotation.Record{Location: location}
		}
		doc.ModelList = append(doc.ModelList, rec)
	}
	return doc, nil
}

// Close releases the database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func decode(row AnnotationRecord) (annotation.Record, error) {
	var rec annotation.Record
	if err := json.Unmarshal(row.Payload, &rec); err != nil {
		return annotation.Record{}, fmt.Errorf("failed to decode record %d: %w", row.ID, err)
	}
	rec.Location = row.Location
	return rec, nil
}
