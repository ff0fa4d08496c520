// Package filestore serves the compiler's inputs and output from local
// YAML or JSON files, for offline runs without a database.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/filex"
	"github.com/titansafe/timetable/internal/models"
)

// ReadConfiguration loads a configuration document. event and year fill the
// document's key when the file has none.
func ReadConfiguration(path, event, year string) (*models.ConfigurationDocument, error) {
	ok, err := filex.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingConfiguration, path)
	}

	doc := &models.ConfigurationDocument{}
	if err := filex.Decode(path, doc); err != nil {
		return nil, err
	}
	if doc.Event == "" {
		doc.Event = event
	}
	if doc.Year == "" {
		doc.Year = year
	}
	return doc, nil
}

// ReadTimetable loads an existing timetable. A missing file or an empty
// path is an empty timetable.
func ReadTimetable(path, event, year string) (*models.TimetableDocument, error) {
	if path == "" {
		return models.NewTimetableDocument(event, year), nil
	}
	ok, err := filex.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.NewTimetableDocument(event, year), nil
	}

	doc := &models.TimetableDocument{}
	if err := filex.Decode(path, doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		doc.Data = map[string][]models.Vignette{}
	}
	return doc, nil
}

// WriteTimetable writes doc as indented JSON.
func WriteTimetable(path string, doc *models.TimetableDocument) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	return filex.WriteAtomic(path, append(raw, '\n'), 0o644)
}

// TodoFile is a todo.Source backed by a file holding a list of todo sets.
// An empty path is an empty catalog.
type TodoFile string

func (f TodoFile) ListTodoSets(ctx context.Context) ([]models.TodoSet, error) {
	if f == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var sets []models.TodoSet
	if err := filex.Decode(string(f), &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
