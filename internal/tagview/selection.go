package tagview

import (
	"strconv"
	"strings"
	"sync"

	"github.com/mrlokans/highlights-web/internal/entities"
)

// Selection is the tag currently used as a highlight filter. The zero value means nothing is
// selected.
type Selection struct {
	id  int
	set bool
}

// Select returns a selection of the given tag.
func Select(tagID int) Selection {
	return Selection{id: tagID, set: true}
}

// None returns the empty selection.
func None() Selection {
	return Selection{}
}

// ID returns the selected tag ID and whether anything is selected.
func (s Selection) ID() (int, bool) {
	return s.id, s.set
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return !s.set
}

// Is reports whether the given tag is the selected one.
func (s Selection) Is(tagID int) bool {
	return s.set && s.id == tagID
}

// String encodes the selection as a query parameter value; empty when nothing is selected.
func (s Selection) String() string {
	if !s.set {
		return ""
	}
	return strconv.Itoa(s.id)
}

// ParseSelection decodes a query parameter value. Anything that is not a tag ID means no
// selection.
func ParseSelection(raw string) Selection {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return None()
	}
	return Select(id)
}

// Toggle returns the selection that results from clicking a tag: clicking the selected tag
// clears the selection, clicking any other tag selects it instead.
func Toggle(current Selection, tagID int) Selection {
	if current.Is(tagID) {
		return None()
	}
	return Select(tagID)
}

// Resolve drops a selection that points at a tag missing from tags.
func Resolve(sel Selection, tags []entities.HighlightTag) Selection {
	id, ok := sel.ID()
	if !ok || !containsTag(tags, id) {
		return None()
	}
	return sel
}

// SelectFunc receives a proposed or applied selection.
type SelectFunc func(Selection)

// Panel is the tag panel's interaction model. It does not own the selection: clicks and the
// clear action are reported to OnSelect and the owner decides what to apply.
type Panel struct {
	View     View
	Selected Selection
	OnSelect SelectFunc
}

// NewPanel builds a panel for view. A selection of a tag that is not in the view is treated as
// no selection.
func NewPanel(view View, selected Selection, onSelect SelectFunc) *Panel {
	return &Panel{
		View:     view,
		Selected: Resolve(selected, view.Sorted),
		OnSelect: onSelect,
	}
}

// Proposal is the selection a click on tagID would propose.
func (p *Panel) Proposal(tagID int) Selection {
	return Toggle(p.Selected, tagID)
}

// Click proposes toggling tagID.
func (p *Panel) Click(tagID int) {
	p.emit(p.Proposal(tagID))
}

// Clear proposes removing the filter.
func (p *Panel) Clear() {
	p.emit(None())
}

func (p *Panel) emit(sel Selection) {
	if p.OnSelect != nil {
		p.OnSelect(sel)
	}
}

// Store holds the authoritative selection and notifies subscribers whenever a selection is
// applied.
type Store struct {
	mu          sync.Mutex
	current     Selection
	subscribers map[int]SelectFunc
	nextID      int
}

// NewStore creates a store starting at initial.
func NewStore(initial Selection) *Store {
	return &Store{
		current:     initial,
		subscribers: make(map[int]SelectFunc),
	}
}

// Current returns the applied selection.
func (s *Store) Current() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply makes sel the current selection and notifies subscribers in subscription order.
func (s *Store) Apply(sel Selection) {
	s.mu.Lock()
	s.current = sel
	subscribers := make([]SelectFunc, 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(sel)
	}
}

// Subscribe registers fn for applied selections. The returned function unsubscribes.
func (s *Store) Subscribe(fn SelectFunc) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
