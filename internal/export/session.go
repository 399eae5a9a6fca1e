package export

import (
	"errors"
	"fmt"

	"github.com/wesleywu/simconfig/internal/params"
)

// Session renders a selection of a parameter table and saves the result
type Session struct {
	source   *params.Table
	selected *params.Table
	opts     Options
	format   Format
	text     string
	rendered bool
}

// NewSession creates a session over every parameter of table
func NewSession(table *params.Table, opts Options) *Session {
	return &Session{
		source:   table,
		selected: table,
		opts:     opts,
	}
}

// Select replaces the current selection with the parameters of the source
// table matching query and tags. See params.Table.Select.
func (s *Session) Select(query string, tags []string) {
	s.selected = s.source.Select(query, tags)
}

// Table returns the selected parameters
func (s *Session) Table() *params.Table {
	return s.selected
}

// Render renders the selection in format f and keeps the text for Save
func (s *Session) Render(f Format) (string, error) {
	text, err := Render(s.selected, f, s.opts)
	if err != nil {
		return "", err
	}
	s.format = f
	s.text = text
	s.rendered = true
	return text, nil
}

// Text returns the last rendered text
func (s *Session) Text() string {
	return s.text
}

// Save writes the last rendered text to path. It reports whether the file changed.
func (s *Session) Save(path string) (bool, error) {
	if !s.rendered {
		return false, fmt.Errorf("nothing rendered to save to %s", path)
	}

	changed, err := WriteFile(path, []byte(s.text))
	if err != nil {
		var ee *ExportError
		if errors.As(err, &ee) {
			ee.Format = s.format
		}
		return false, err
	}
	return changed, nil
}
