package translate

import (
	"log"

	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// Generic handles messages published through the Publish API (spec.md
// §4.8) or forwarded in directly as USER_DEFINED. Any other kind reaching
// here is a malformed upstream message — logged and dropped (spec.md §7
// kind 3).
type Generic struct {
	Report Reporter
}

func (g Generic) Handle(msg bus.Message) {
	gm, ok := msg.(bus.Generic)
	if !ok {
		return
	}

	if gm.EventType != eventkind.UserDefined {
		log.Printf("cel: dropping generic message with unexpected event type %s", eventkind.Name(gm.EventType))
		return
	}

	g.Report.ReportEvent(gm.Snapshot, eventkind.UserDefined, gm.EventName, gm.Extra)
}
