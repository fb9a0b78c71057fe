// Package events defines the user input events the viewer reacts to. The
// terminal binding translates keys, mouse and resize notifications into
// these values and hands them to the controller's dispatcher.
package events

import "time"

// EventType identifies the kind of an event.
type EventType string

const (
	// Filter events
	EventThresholdChanged EventType = "threshold.changed"
	EventThresholdInput   EventType = "threshold.input"
	EventFocusRequested   EventType = "focus.requested"
	EventFocusCleared     EventType = "focus.cleared"
	EventReset            EventType = "reset"

	// Highlight and theme events
	EventSearchChanged EventType = "search.changed"
	EventThemeToggled  EventType = "theme.toggled"

	// View events
	EventPan     EventType = "view.pan"
	EventZoom    EventType = "view.zoom"
	EventResized EventType = "view.resized"

	// Drag events
	EventDragStarted EventType = "drag.started"
	EventDragged     EventType = "drag.moved"
	EventDragEnded   EventType = "drag.ended"
)

// Source constants identify where an event came from.
const (
	SourceKeyboard = "keyboard"
	SourceMouse    = "mouse"
	SourceTerminal = "terminal"
	SourceInternal = "causalview"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// ThresholdChangedEvent sets the threshold from the slider keys.
type ThresholdChangedEvent struct {
	BaseEvent
	Value float64 `json:"value"`
}

// ThresholdInputEvent carries a typed threshold that still has to be parsed.
type ThresholdInputEvent struct {
	BaseEvent
	Raw string `json:"raw"`
}

// FocusRequestedEvent asks to focus the view on one node.
type FocusRequestedEvent struct {
	BaseEvent
	NodeID string `json:"node_id"`
}

// FocusClearedEvent returns to the overview.
type FocusClearedEvent struct {
	BaseEvent
}

// ResetEvent restores the default threshold, search, focus and view.
type ResetEvent struct {
	BaseEvent
}

// SearchChangedEvent is emitted on every edit of the search box.
type SearchChangedEvent struct {
	BaseEvent
	Term string `json:"term"`
}

// ThemeToggledEvent flips between light and dark.
type ThemeToggledEvent struct {
	BaseEvent
}

// PanEvent moves the view by a screen-space offset.
type PanEvent struct {
	BaseEvent
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ZoomEvent scales the view around a screen-space anchor.
type ZoomEvent struct {
	BaseEvent
	Factor  float64 `json:"factor"`
	AnchorX float64 `json:"anchor_x"`
	AnchorY float64 `json:"anchor_y"`
}

// ResizedEvent reports the settled canvas size in world units.
type ResizedEvent struct {
	BaseEvent
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DragEvent is a node drag step. X and Y are world coordinates.
type DragEvent struct {
	BaseEvent
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// NewEvent creates a BaseEvent with the given type and source.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewKeyEvent creates a BaseEvent with the keyboard as the source.
func NewKeyEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceKeyboard)
}

// NewMouseEvent creates a BaseEvent with the mouse as the source.
func NewMouseEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceMouse)
}

// NewInternalEvent creates a BaseEvent raised by the viewer itself.
func NewInternalEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceInternal)
}
