package events

import (
	"fmt"
	"strings"
)

const (
	maxTermLength     = 40
	truncateIndicator = "..."
)

// Format converts an event to a short human-readable string for the status
// line and debug logs. Returns empty string for nil or unknown event types.
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *ThresholdChangedEvent:
		return fmt.Sprintf("threshold %.2f", e.Value)
	case *ThresholdInputEvent:
		return fmt.Sprintf("threshold %q", truncate(e.Raw, maxTermLength))
	case *FocusRequestedEvent:
		return fmt.Sprintf("focus %s", truncate(e.NodeID, maxTermLength))
	case *FocusClearedEvent:
		return "focus cleared"
	case *ResetEvent:
		return "reset"
	case *SearchChangedEvent:
		if e.Term == "" {
			return "search cleared"
		}
		return fmt.Sprintf("search %q", truncate(e.Term, maxTermLength))
	case *ThemeToggledEvent:
		return "theme toggled"
	case *PanEvent:
		return fmt.Sprintf("pan %+.0f,%+.0f", e.DX, e.DY)
	case *ZoomEvent:
		return fmt.Sprintf("zoom x%.2f", e.Factor)
	case *ResizedEvent:
		return fmt.Sprintf("resize %.0fx%.0f", e.Width, e.Height)
	case *DragEvent:
		return formatDrag(e)
	default:
		return ""
	}
}

func formatDrag(e *DragEvent) string {
	id := truncate(e.NodeID, maxTermLength)
	switch e.EventType {
	case EventDragStarted:
		return "drag " + id
	case EventDragEnded:
		return "drop " + id
	default:
		return fmt.Sprintf("drag %s to %.0f,%.0f", id, e.X, e.Y)
	}
}

// truncate shortens s to at most max runes, adding an indicator.
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= len(truncateIndicator) {
		return string(r[:max])
	}
	return string(r[:max-len(truncateIndicator)]) + truncateIndicator
}
