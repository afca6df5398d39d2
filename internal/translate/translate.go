// Package translate holds the per-message-kind translators that turn
// upstream snapshot diffs and discrete subsystem events into CEL event
// emissions (spec.md §4.5, §4.6).
package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// Reporter is the sink every translator calls into once it has decided
// an event fires. The engine implements this with the central
// report-event gate (spec.md §4.7); translators never touch config,
// the registry, or record construction directly.
type Reporter interface {
	ReportEvent(snapshot bus.ChannelSnapshot, kind eventkind.Kind, userDefinedName string, extras map[string]any)
}
