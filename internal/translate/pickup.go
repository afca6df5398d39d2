package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// Pickup handles call-pickup events (spec.md §4.6).
type Pickup struct {
	Report Reporter
}

func (p Pickup) Handle(msg bus.Message) {
	pu, ok := msg.(bus.Pickup)
	if !ok {
		return
	}
	p.Report.ReportEvent(pu.Target, eventkind.Pickup, "", map[string]any{
		"pickup_channel": pu.Channel.Name,
	})
}
