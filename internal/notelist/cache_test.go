package notelist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/scratch/internal/models"
)

func TestNoteCache(t *testing.T) {
	var c noteCache
	assert.Empty(t, c.Get())

	notes := []models.Note{milk, mom}
	c.ReplaceAll(notes)
	notes[0].Content = "mutated"
	assert.Equal(t, milk.Content, c.Get()[0].Content, "cache holds its own copy")

	got := c.Get()
	got[1].ID = "x"
	assert.Equal(t, "2", c.Get()[1].ID, "Get returns a copy")

	assert.Equal(t, []models.Note{milk}, c.ApplyFilter("milk"))
	assert.Equal(t, []models.Note{milk, mom}, c.ApplyFilter(""))
	assert.Empty(t, c.ApplyFilter("bread"))

	c.ReplaceAll(nil)
	assert.Empty(t, c.Get())
}
