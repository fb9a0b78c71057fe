package events

import (
	"encoding/json"
	"testing"
	"time"
)

// TestEventInterfaceCompliance verifies all concrete event types implement Event.
func TestEventInterfaceCompliance(t *testing.T) {
	var _ Event = (*ThresholdChangedEvent)(nil)
	var _ Event = (*ThresholdInputEvent)(nil)
	var _ Event = (*FocusRequestedEvent)(nil)
	var _ Event = (*FocusClearedEvent)(nil)
	var _ Event = (*ResetEvent)(nil)
	var _ Event = (*SearchChangedEvent)(nil)
	var _ Event = (*ThemeToggledEvent)(nil)
	var _ Event = (*PanEvent)(nil)
	var _ Event = (*ZoomEvent)(nil)
	var _ Event = (*ResizedEvent)(nil)
	var _ Event = (*DragEvent)(nil)
	var _ Event = (*BaseEvent)(nil)
}

func TestBaseEventMethods(t *testing.T) {
	now := time.Now()
	event := BaseEvent{
		EventType: EventSearchChanged,
		Time:      now,
		Src:       SourceKeyboard,
	}

	if event.Type() != EventSearchChanged {
		t.Errorf("Type() = %v, want %v", event.Type(), EventSearchChanged)
	}
	if event.Timestamp() != now {
		t.Errorf("Timestamp() = %v, want %v", event.Timestamp(), now)
	}
	if event.Source() != SourceKeyboard {
		t.Errorf("Source() = %v, want %v", event.Source(), SourceKeyboard)
	}
}

func TestNewEventHelpers(t *testing.T) {
	tests := []struct {
		name   string
		event  BaseEvent
		source string
	}{
		{"key", NewKeyEvent(EventReset), SourceKeyboard},
		{"mouse", NewMouseEvent(EventZoom), SourceMouse},
		{"internal", NewInternalEvent(EventResized), SourceInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Source() != tt.source {
				t.Errorf("Source() = %q, want %q", tt.event.Source(), tt.source)
			}
			if tt.event.Timestamp().IsZero() {
				t.Error("Timestamp() should be set")
			}
		})
	}
}

func TestDragEventJSON(t *testing.T) {
	e := &DragEvent{BaseEvent: NewMouseEvent(EventDragged), NodeID: "A", X: 1.5, Y: -2}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["type"] != string(EventDragged) {
		t.Errorf("type = %v, want %v", got["type"], EventDragged)
	}
	if got["node_id"] != "A" {
		t.Errorf("node_id = %v, want A", got["node_id"])
	}
}
