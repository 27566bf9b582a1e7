package notelist

import (
	"slices"

	"github.com/starford/scratch/internal/models"
	"github.com/starford/scratch/internal/textmatch"
)

// noteCache is the controller's local copy of the last loaded note set.
// Callers hold the controller lock.
type noteCache struct {
	notes []models.Note
}

// Get returns a copy of the cached notes.
func (c *noteCache) Get() []models.Note {
	return slices.Clone(c.notes)
}

// ReplaceAll swaps in a freshly loaded note set wholesale.
func (c *noteCache) ReplaceAll(notes []models.Note) {
	c.notes = slices.Clone(notes)
}

// ApplyFilter returns the cached notes whose content contains term.
func (c *noteCache) ApplyFilter(term string) []models.Note {
	out := make([]models.Note, 0, len(c.notes))
	for _, n := range c.notes {
		if textmatch.Matches(n.Content, term) {
			out = append(out, n)
		}
	}
	return out
}
