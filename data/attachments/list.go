// Package attachments keeps the files attached to a form and reads the CSV
// attendance sheets they carry.
package attachments

import (
	"attendance-app/data/models"

	"github.com/google/uuid"
)

// Entry is one attached file as the form renders it.
type Entry struct {
	Key     string `json:"key"`
	FileURL string `json:"fileUrl,omitempty"`
}

// URLFunc builds the preview URL for an entry key.
type URLFunc func(key string) string

// List holds the attachments of a single form. A form keeps one attachment:
// adding a file replaces the previous entry. A List is not safe for
// concurrent use; its owner serializes access.
type List struct {
	entries []Entry
	files   map[string]*models.Attachment
	urlFor  URLFunc
}

// NewList returns an empty list. urlFor may be nil, leaving FileURL empty.
func NewList(urlFor URLFunc) *List {
	return &List{
		files:  make(map[string]*models.Attachment),
		urlFor: urlFor,
	}
}

// Add attaches file under a fresh key and drops any earlier entry. The
// parsed sheet is accepted for future content checks and not kept.
func (l *List) Add(file *models.Attachment, _ *Sheet) Entry {
	key := uuid.NewString()
	e := Entry{Key: key}
	if l.urlFor != nil {
		e.FileURL = l.urlFor(key)
	}

	l.entries = []Entry{e}
	l.files = map[string]*models.Attachment{key: file}
	return e
}

// Remove drops the entry with the given key and returns the remaining
// entries. Unknown keys leave the list unchanged.
func (l *List) Remove(key string) []Entry {
	l.entries = Filter(l.entries, key)
	delete(l.files, key)
	return l.Entries()
}

// Entries returns a copy of the current entries.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// File returns the payload attached under key.
func (l *List) File(key string) (*models.Attachment, bool) {
	f, ok := l.files[key]
	return f, ok
}

// Len reports the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Clear removes every entry.
func (l *List) Clear() {
	l.entries = nil
	l.files = make(map[string]*models.Attachment)
}

// Filter returns entries without the one whose key matches. The input slice
// is not modified.
func Filter(entries []Entry, key string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}
