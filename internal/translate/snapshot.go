package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/config"
	"github.com/halvard/celd/internal/dialstatus"
	"github.com/halvard/celd/internal/eventkind"
	"github.com/halvard/celd/internal/linkedid"
)

// SnapshotDiff runs the three snapshot-diff translators in the fixed
// order required by spec.md §9's ordering constraint: app-change, then
// state-change, then linkedid-change. APP_END must precede HANGUP, and
// linkedid tracking must see the final reference only after both prior
// translators have emitted any events that depend on the outgoing
// snapshot.
type SnapshotDiff struct {
	Config     *config.Store
	Linked     *linkedid.Tracker
	DialStatus *dialstatus.Store
	Report     Reporter
}

// Handle is a bus.Handler suitable for registering against
// bus.KindSnapshotUpdate.
func (d SnapshotDiff) Handle(msg bus.Message) {
	su, ok := msg.(bus.SnapshotUpdate)
	if !ok {
		return
	}
	if su.Old.IsInternal() || su.New.IsInternal() {
		return
	}
	d.appChange(su.Old, su.New)
	d.stateChange(su.Old, su.New)
	d.linkedIDChange(su.Old, su.New)
}

func (d SnapshotDiff) appChange(old, new *bus.ChannelSnapshot) {
	if old != nil && new != nil && old.AppName == new.AppName {
		return
	}
	if old != nil && old.AppName != "" {
		d.Report.ReportEvent(*old, eventkind.AppEnd, "", nil)
	}
	if new != nil && new.AppName != "" {
		d.Report.ReportEvent(*new, eventkind.AppStart, "", nil)
	}
}

func (d SnapshotDiff) stateChange(old, new *bus.ChannelSnapshot) {
	switch {
	case new == nil:
		if old == nil {
			return
		}
		d.Report.ReportEvent(*old, eventkind.ChannelEnd, "", nil)
		d.retireLinkedID(*old)

	case old == nil:
		d.Report.ReportEvent(*new, eventkind.ChannelStart, "", nil)

	case !old.Dead && new.Dead:
		status := d.DialStatus.Drain(new.UniqueID)
		d.Report.ReportEvent(*new, eventkind.Hangup, "", map[string]any{
			"hangupcause":  new.HangupCause,
			"hangupsource": new.HangupSource,
			"dialstatus":   status,
		})

	case old.State != new.State && new.State == bus.StateUp:
		d.Report.ReportEvent(*new, eventkind.Answer, "", nil)
	}
}

func (d SnapshotDiff) linkedIDChange(old, new *bus.ChannelSnapshot) {
	if old == nil || new == nil {
		return
	}
	if old.LinkedID == new.LinkedID {
		return
	}
	// The tracker is only active while LINKEDID_END is tracked.
	if !d.Config.Tracks(eventkind.LinkedIDEnd) {
		return
	}
	d.Linked.Ref(new.LinkedID)
	d.retireLinkedID(*old)
}

// retireLinkedID unrefs snapshot's linked-id and, if this was the last
// live channel referencing it, emits LINKEDID_END on snapshot. A no-op
// unless LINKEDID_END is currently tracked — the tracker is only active
// while that event type is tracked (spec.md §3).
func (d SnapshotDiff) retireLinkedID(snapshot bus.ChannelSnapshot) {
	if snapshot.LinkedID == "" || !d.Config.Tracks(eventkind.LinkedIDEnd) {
		return
	}
	if last := d.Linked.Unref(snapshot.LinkedID); last {
		d.Report.ReportEvent(snapshot, eventkind.LinkedIDEnd, "", nil)
	}
}
