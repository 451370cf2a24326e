// Package view holds the state behind the skip picker screen: whether skips
// are loading, failed to load, or are listed with an optional selection.
package view

import (
	"github.com/pkg/errors"

	"github.com/Makepad-fr/skips/internal/model"
	"github.com/Makepad-fr/skips/internal/skipapi"
)

// Phase is the branch the screen renders.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// ViewModel is owned by exactly one screen. The zero value is not ready to
// use; call New.
type ViewModel struct {
	loading  bool
	errMsg   string
	skips    []model.Skip
	selected *int
}

// New returns a view model in the loading state, as on mount.
func New() ViewModel {
	return ViewModel{loading: true, skips: []model.Skip{}}
}

// BeginLoad clears the list and the selection and enters loading.
func (v *ViewModel) BeginLoad() {
	v.errMsg = ""
	v.selected = nil
	v.skips = []model.Skip{}
	v.loading = true
}

// Loaded replaces the list with skips sorted by size.
func (v *ViewModel) Loaded(skips []model.Skip) {
	sorted := make([]model.Skip, len(skips))
	copy(sorted, skips)
	model.SortBySize(sorted)

	v.skips = sorted
	v.selected = nil
	v.errMsg = ""
	v.loading = false
}

// LoadFailed handles a failure of the initial load: the error is not shown,
// the screen just lists nothing.
func (v *ViewModel) LoadFailed(error) {
	v.skips = []model.Skip{}
	v.selected = nil
	v.loading = false
}

// RetryFailed handles a failure of an explicit reload by showing the error panel.
func (v *ViewModel) RetryFailed(err error) {
	v.skips = []model.Skip{}
	v.selected = nil
	v.errMsg = Message(err)
	v.loading = false
}

// Select marks id as chosen. Unknown ids are accepted; Selected reports
// no match for them.
func (v *ViewModel) Select(id int) {
	v.selected = &id
}

// Back clears the selection.
func (v *ViewModel) Back() {
	v.selected = nil
}

func (v ViewModel) Phase() Phase {
	switch {
	case v.loading:
		return PhaseLoading
	case v.errMsg != "":
		return PhaseError
	}
	return PhaseReady
}

// Skips returns the current list, sorted by size.
func (v ViewModel) Skips() []model.Skip { return v.skips }

// Err is the message for the error panel, empty outside PhaseError.
func (v ViewModel) Err() string { return v.errMsg }

func (v ViewModel) SelectedID() (int, bool) {
	if v.selected == nil {
		return 0, false
	}
	return *v.selected, true
}

// Selected returns the selected skip if the selection matches a listed one.
func (v ViewModel) Selected() (model.Skip, bool) {
	id, ok := v.SelectedID()
	if !ok {
		return model.Skip{}, false
	}
	return model.FindByID(v.skips, id)
}

// Message turns a fetch error into text for the error panel.
func Message(err error) string {
	var se *skipapi.SchemaError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return "The skip list we received was not valid"
	default:
		return "Failed to fetch skips"
	}
}
