package extractor

import (
	"fmt"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
)

// scope records the transient document mutations made while one element is
// measured. release reverts them newest first; callers defer it so that
// every exit path, panics included, leaves the document as it was found.
type scope struct {
	rc   oracle.Context
	undo []func()
}

func newScope(rc oracle.Context) *scope {
	return &scope{rc: rc}
}

// setStyle overrides one inline style property until release.
func (s *scope) setStyle(el oracle.Element, prop, value string) error {
	restore, err := s.rc.SetStyle(el, prop, value)
	if err != nil {
		return fmt.Errorf("override %s on <%s>: %w", prop, el.Tag(), err)
	}
	s.push(restore)
	return nil
}

func (s *scope) push(fn func()) {
	s.undo = append(s.undo, fn)
}

func (s *scope) release() {
	for i := len(s.undo) - 1; i >= 0; i-- {
		s.undo[i]()
	}
	s.undo = nil
}
