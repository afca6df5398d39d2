package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// Transfer handles blind and attended transfer outcomes (spec.md §4.6).
type Transfer struct {
	Report Reporter
}

// HandleBlind emits BLINDTRANSFER only on success with both exten and
// context present.
//
// The upstream payload does not always carry a bridge snapshot; the
// original only works because it dereferences the bridge unconditionally.
// Guard against that here and drop the event rather than crash
// (spec.md §9, second Open Question).
func (t Transfer) HandleBlind(msg bus.Message) {
	bt, ok := msg.(bus.BlindTransfer)
	if !ok {
		return
	}
	if bt.Result != bus.TransferSuccess {
		return
	}
	if bt.Exten == "" || bt.Context == "" {
		return
	}
	if bt.Bridge == nil {
		return
	}

	t.Report.ReportEvent(bt.Channel, eventkind.BlindTransfer, "", map[string]any{
		"extension": bt.Exten,
		"context":   bt.Context,
		"bridge_id": bt.Bridge.UniqueID,
	})
}

// HandleAttended emits ATTENDEDTRANSFER unless the destination is a
// failure. The two transfer parties are reordered so that the first
// (b1, c1) always carries a non-nil bridge when either side has one,
// matching the original's "make sure bridge1 is always non-NULL" swap.
func (t Transfer) HandleAttended(msg bus.Message) {
	at, ok := msg.(bus.AttendedTransfer)
	if !ok {
		return
	}
	if at.DestType == bus.DestFail {
		return
	}

	b1, b2, c1, c2 := orderAttendedTransferParties(at)

	var bridge1ID any
	if b1 != nil {
		bridge1ID = b1.UniqueID
	} else {
		bridge1ID = ""
	}

	var extras map[string]any
	switch at.DestType {
	case bus.DestBridgeMerge, bus.DestLink, bus.DestThreeway:
		extras = map[string]any{
			"bridge1_id":    bridge1ID,
			"channel2_name": c2.Name,
			"bridge2_id":    bridgeIDOrNil(b2),
		}
	case bus.DestApp:
		extras = map[string]any{
			"bridge1_id":    bridge1ID,
			"channel2_name": c2.Name,
			"app":           at.DestApp,
		}
	default:
		return
	}

	t.Report.ReportEvent(c1, eventkind.AttendedTransfer, "", extras)
}

func orderAttendedTransferParties(at bus.AttendedTransfer) (b1, b2 *bus.BridgeSnapshot, c1, c2 bus.ChannelSnapshot) {
	if at.ToTransferee.Bridge == nil {
		return at.ToTransferTarget.Bridge, at.ToTransferee.Bridge,
			at.ToTransferTarget.Channel, at.ToTransferee.Channel
	}
	return at.ToTransferee.Bridge, at.ToTransferTarget.Bridge,
		at.ToTransferee.Channel, at.ToTransferTarget.Channel
}

func bridgeIDOrNil(b *bus.BridgeSnapshot) any {
	if b == nil {
		return nil
	}
	return b.UniqueID
}
