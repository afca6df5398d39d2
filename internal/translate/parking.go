package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// parkEndReasons maps each terminal parking sub-kind to the fixed reason
// string CEL attaches to PARK_END (spec.md §4.6).
var parkEndReasons = map[bus.ParkEventType]string{
	bus.ParkedCallTimeout:  "ParkedCallTimeOut",
	bus.ParkedCallGiveUp:   "ParkedCallGiveUp",
	bus.ParkedCallUnparked: "ParkedCallUnparked",
	bus.ParkedCallFailed:   "ParkedCallFailed",
	bus.ParkedCallSwap:     "ParkedCallSwap",
}

// Parking handles the parking subsystem's call-parked and terminal
// sub-events (spec.md §4.6).
type Parking struct {
	Report Reporter
}

func (p Parking) Handle(msg bus.Message) {
	pk, ok := msg.(bus.Parking)
	if !ok {
		return
	}

	if pk.EventType == bus.ParkedCall {
		p.Report.ReportEvent(pk.Parkee, eventkind.ParkStart, "", map[string]any{
			"parker_dial_string": pk.ParkerDialString,
			"parking_lot":        pk.ParkingLot,
		})
		return
	}

	reason, ok := parkEndReasons[pk.EventType]
	if !ok {
		return
	}
	p.Report.ReportEvent(pk.Parkee, eventkind.ParkEnd, "", map[string]any{
		"reason": reason,
	})
}
