package index

// NoteIndex is the set of index operations the service, sync and watcher
// rely on. *DB is the SQLite implementation.
type NoteIndex interface {
	UpsertNote(n NoteRow) error
	DeleteNote(id string) error
	GetChecksum(id string) (string, error)
	GetNote(id string) (*NoteRow, error)
	ListNotes(limit, offset int) ([]NoteRow, int, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ NoteIndex = (*DB)(nil)
