package todo

import (
	"context"
	"fmt"
	"sync"

	"github.com/titansafe/timetable/internal/models"
)

// Source lists the todo sets of the reference catalog.
type Source interface {
	ListTodoSets(ctx context.Context) ([]models.TodoSet, error)
}

// StaticSource serves a fixed list of todo sets.
type StaticSource []models.TodoSet

func (s StaticSource) ListTodoSets(context.Context) ([]models.TodoSet, error) {
	return s, nil
}

// Catalog is the todo catalog of one compiler run. It is loaded from its
// Source on first use and never reloaded; a new run gets a new Catalog.
type Catalog struct {
	source Source

	once sync.Once
	sets map[string][]string
	err  error
}

// NewCatalog returns an unloaded catalog. A nil source yields an empty one.
func NewCatalog(source Source) *Catalog {
	return &Catalog{source: source}
}

func (c *Catalog) load(ctx context.Context) {
	c.once.Do(func() {
		c.sets = map[string][]string{}
		if c.source == nil {
			return
		}
		sets, err := c.source.ListTodoSets(ctx)
		if err != nil {
			c.err = fmt.Errorf("load todo catalog: %w", err)
			return
		}
		for _, s := range sets {
			if s.Type == "" || len(s.Todos) == 0 {
				continue
			}
			c.sets[s.Type] = append(c.sets[s.Type], s.Todos...)
		}
	})
}

// Lookup returns a copy of the todos of category. The error is the load
// error, returned on every call once the load has failed.
func (c *Catalog) Lookup(ctx context.Context, category string) ([]string, bool, error) {
	c.load(ctx)
	if c.err != nil {
		return nil, false, c.err
	}
	todos, ok := c.sets[category]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), todos...), true, nil
}
