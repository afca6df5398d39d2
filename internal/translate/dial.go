package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/dialstatus"
	"github.com/halvard/celd/internal/eventkind"
)

// Dial handles dial-attempt outcome blobs: a non-empty forward field
// emits FORWARD directly; a non-empty dialstatus is staged for the
// eventual HANGUP to consume (spec.md §4.6).
type Dial struct {
	DialStatus *dialstatus.Store
	Report     Reporter
}

func (d Dial) Handle(msg bus.Message) {
	dial, ok := msg.(bus.Dial)
	if !ok {
		return
	}

	if dial.Forward != "" {
		d.Report.ReportEvent(dial.Caller, eventkind.Forward, "", map[string]any{
			"forward": dial.Forward,
		})
	}

	if dial.DialStatus != "" {
		d.DialStatus.Stage(dial.Caller.UniqueID, dial.DialStatus)
	}
}
