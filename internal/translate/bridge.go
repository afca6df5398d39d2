package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// Bridge handles bridge enter/exit messages (spec.md §4.6).
type Bridge struct {
	Report Reporter
}

func (b Bridge) HandleEnter(msg bus.Message) {
	be, ok := msg.(bus.BridgeEnter)
	if !ok {
		return
	}
	if be.Channel.IsInternal() {
		return
	}
	b.Report.ReportEvent(be.Channel, eventkind.BridgeEnter, "", map[string]any{
		"bridge_id": be.Bridge.UniqueID,
	})
}

func (b Bridge) HandleExit(msg bus.Message) {
	bx, ok := msg.(bus.BridgeExit)
	if !ok {
		return
	}
	if bx.Channel.IsInternal() {
		return
	}
	b.Report.ReportEvent(bx.Channel, eventkind.BridgeExit, "", map[string]any{
		"bridge_id": bx.Bridge.UniqueID,
	})
}
