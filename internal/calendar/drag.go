package calendar

import (
	"creatorflow/internal/model"
)

// DragState is the state of the reschedule gesture.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// DragController tracks one press-drag-release gesture at a time. It knows
// nothing about pointer events; hosts translate their gesture source into
// Start, Drop and Cancel.
type DragController struct {
	store   *Store
	eventID string
	state   DragState
}

func NewDragController(store *Store) *DragController {
	return &DragController{store: store}
}

// Start captures id. A second Start replaces the captured id.
func (d *DragController) Start(id string) {
	d.eventID = id
	d.state = Dragging
}

// Drop reschedules the captured event to date and returns to Idle whether or
// not the store found the id. It reports whether an event moved. Dropping
// while Idle does nothing.
func (d *DragController) Drop(date model.Date) bool {
	if d.state != Dragging {
		return false
	}
	moved := d.store.Reschedule(d.eventID, date)
	d.reset()
	return moved
}

// Cancel ends the gesture without touching the store.
func (d *DragController) Cancel() { d.reset() }

func (d *DragController) State() DragState { return d.state }

// Dragged returns the captured id while Dragging.
func (d *DragController) Dragged() (string, bool) {
	return d.eventID, d.state == Dragging
}

func (d *DragController) reset() {
	d.eventID = ""
	d.state = Idle
}
