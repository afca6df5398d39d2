// Package amisource is a reference adapter that turns a live AMI event
// stream into the bus.Message shapes internal/engine's translators
// expect. It is a demo front end, not a second authoritative source of
// CEL semantics — AMI events are flatter than the platform snapshots the
// core translators are specified against, so several mappings here are
// necessarily heuristic (noted per-handler below).
package amisource

import (
	"strconv"
	"sync"

	"github.com/halvard/celd/internal/ami"
	"github.com/halvard/celd/internal/bus"
)

// Adapter maintains a per-channel snapshot cache (keyed by AMI Uniqueid)
// so consecutive events on the same channel can be diffed into
// bus.SnapshotUpdate messages, and publishes every derived message onto
// Topic.
type Adapter struct {
	mu        sync.Mutex
	snapshots map[string]*bus.ChannelSnapshot

	Topic *bus.Topic
}

// New creates an Adapter that publishes onto topic.
func New(topic *bus.Topic) *Adapter {
	return &Adapter{
		snapshots: make(map[string]*bus.ChannelSnapshot),
		Topic:     topic,
	}
}

// Process ingests one AMI event, updates the adapter's snapshot cache,
// and publishes zero or more bus.Message values as a result.
func (a *Adapter) Process(evt ami.Event) {
	if evt.IsResponse() {
		return
	}

	switch evt.Type() {
	case "Newchannel":
		a.handleNewchannel(evt)
	case "Newstate":
		a.handleNewstate(evt)
	case "Hangup":
		a.handleHangup(evt)
	case "BridgeEnter":
		a.handleBridgeEnter(evt)
	case "BridgeLeave":
		a.handleBridgeLeave(evt)
	case "ParkedCall":
		a.handleParkedCall(evt)
	case "ParkedCallTimeOut":
		a.handleParkEnd(evt, bus.ParkedCallTimeout)
	case "ParkedCallGiveUp":
		a.handleParkEnd(evt, bus.ParkedCallGiveUp)
	case "UnParkedCall":
		a.handleParkEnd(evt, bus.ParkedCallUnparked)
	case "ParkedCallSwap":
		a.handleParkEnd(evt, bus.ParkedCallSwap)
	case "DialBegin":
		a.handleDialBegin(evt)
	case "DialEnd":
		a.handleDialEnd(evt)
	case "BlindTransfer":
		a.handleBlindTransfer(evt)
	case "AttendedTransfer":
		a.handleAttendedTransfer(evt)
	case "Pickup":
		a.handlePickup(evt)
	case "LocalBridge":
		a.handleLocalOptimize(evt)
	}
}

func snapshotFromNewchannel(evt ami.Event) *bus.ChannelSnapshot {
	return &bus.ChannelSnapshot{
		UniqueID:     evt.Get("Uniqueid"),
		LinkedID:     evt.Get("Linkedid"),
		Name:         evt.Get("Channel"),
		State:        parseState(evt.Get("ChannelStateDesc")),
		CallerIDName: evt.Get("CallerIDName"),
		CallerIDNum:  evt.Get("CallerIDNum"),
		Context:      evt.Get("Context"),
		Exten:        evt.Get("Exten"),
		AccountCode:  evt.Get("AccountCode"),
	}
}

func parseState(desc string) bus.ChannelState {
	switch desc {
	case "Down":
		return bus.StateDown
	case "Ring", "Ringing":
		return bus.StateRinging
	case "Up":
		return bus.StateUp
	case "Busy":
		return bus.StateBusy
	default:
		return bus.StateOther
	}
}

func (a *Adapter) handleNewchannel(evt ami.Event) {
	id := evt.Get("Uniqueid")
	if id == "" {
		return
	}
	next := snapshotFromNewchannel(evt)

	a.mu.Lock()
	old := a.snapshots[id]
	a.snapshots[id] = next
	a.mu.Unlock()

	a.Topic.Publish(bus.SnapshotUpdate{Old: old, New: next})
}

func (a *Adapter) handleNewstate(evt ami.Event) {
	id := evt.Get("Uniqueid")
	if id == "" {
		return
	}

	a.mu.Lock()
	old := a.snapshots[id]
	if old == nil {
		a.mu.Unlock()
		return
	}
	next := *old
	next.State = parseState(evt.Get("ChannelStateDesc"))
	next.AppName = firstNonEmpty(evt.Get("Application"), old.AppName)
	next.AppData = firstNonEmpty(evt.Get("Data"), old.AppData)
	a.snapshots[id] = &next
	a.mu.Unlock()

	a.Topic.Publish(bus.SnapshotUpdate{Old: old, New: &next})
}

func (a *Adapter) handleHangup(evt ami.Event) {
	id := evt.Get("Uniqueid")
	if id == "" {
		return
	}

	a.mu.Lock()
	old := a.snapshots[id]
	if old == nil {
		a.mu.Unlock()
		return
	}
	next := *old
	next.Dead = true
	next.HangupCause, _ = strconv.Atoi(evt.Get("Cause"))
	next.HangupSource = evt.Get("Cause-txt")
	delete(a.snapshots, id)
	a.mu.Unlock()

	a.Topic.Publish(bus.SnapshotUpdate{Old: old, New: &next})
	a.Topic.Publish(bus.SnapshotUpdate{Old: &next, New: nil})
}

func (a *Adapter) handleBridgeEnter(evt ami.Event) {
	snap := a.channelSnapshot(evt.Get("Uniqueid"))
	a.Topic.Publish(bus.BridgeEnter{
		Bridge:  bus.BridgeSnapshot{UniqueID: evt.Get("BridgeUniqueid")},
		Channel: snap,
	})
}

func (a *Adapter) handleBridgeExit(evt ami.Event) {
	snap := a.channelSnapshot(evt.Get("Uniqueid"))
	a.Topic.Publish(bus.BridgeExit{
		Bridge:  bus.BridgeSnapshot{UniqueID: evt.Get("BridgeUniqueid")},
		Channel: snap,
	})
}

func (a *Adapter) handleBridgeLeave(evt ami.Event) {
	a.handleBridgeExit(evt)
}

func (a *Adapter) handleParkedCall(evt ami.Event) {
	a.Topic.Publish(bus.Parking{
		EventType:        bus.ParkedCall,
		Parkee:           a.channelSnapshot(evt.Get("Uniqueid")),
		ParkerDialString: evt.Get("ParkerDialString"),
		ParkingLot:       evt.Get("Parkinglot"),
	})
}

func (a *Adapter) handleParkEnd(evt ami.Event, kind bus.ParkEventType) {
	a.Topic.Publish(bus.Parking{
		EventType: kind,
		Parkee:    a.channelSnapshot(evt.Get("Uniqueid")),
	})
}

func (a *Adapter) handleDialBegin(evt ami.Event) {
	caller := a.channelSnapshot(evt.Get("Uniqueid"))
	if forward := evt.Get("Forward"); forward != "" {
		a.Topic.Publish(bus.Dial{Caller: caller, Forward: forward})
	}
}

func (a *Adapter) handleDialEnd(evt ami.Event) {
	caller := a.channelSnapshot(evt.Get("Uniqueid"))
	if status := evt.Get("DialStatus"); status != "" {
		a.Topic.Publish(bus.Dial{Caller: caller, DialStatus: status})
	}
}

// handleBlindTransfer is heuristic: AMI's BlindTransfer event carries a
// single bridge uniqueid rather than the platform-level bridge snapshot
// the core translator expects, and no explicit success/fail result IE —
// presence of Extension/Context is treated as success.
func (a *Adapter) handleBlindTransfer(evt ami.Event) {
	exten := evt.Get("Extension")
	context := evt.Get("Context")
	result := bus.TransferFail
	if exten != "" && context != "" {
		result = bus.TransferSuccess
	}

	var bridge *bus.BridgeSnapshot
	if id := evt.Get("BridgeUniqueid"); id != "" {
		bridge = &bus.BridgeSnapshot{UniqueID: id}
	}

	a.Topic.Publish(bus.BlindTransfer{
		Channel: a.channelSnapshot(evt.Get("TransfererChannel")),
		Bridge:  bridge,
		Result:  result,
		Exten:   exten,
		Context: context,
	})
}

// handleAttendedTransfer is heuristic in the same way as
// handleBlindTransfer: AMI's AttendedTransfer event does not distinguish
// the BRIDGE_MERGE/LINK/THREEWAY destinations, so every successful
// attended transfer is reported as a bridge merge.
func (a *Adapter) handleAttendedTransfer(evt ami.Event) {
	var origBridge, secondBridge *bus.BridgeSnapshot
	if id := evt.Get("OrigBridgeUniqueid"); id != "" {
		origBridge = &bus.BridgeSnapshot{UniqueID: id}
	}
	if id := evt.Get("SecondBridgeUniqueid"); id != "" {
		secondBridge = &bus.BridgeSnapshot{UniqueID: id}
	}

	a.Topic.Publish(bus.AttendedTransfer{
		ToTransferee:     bus.TransferParty{Bridge: origBridge, Channel: a.channelSnapshot(evt.Get("OrigTransfererChannel"))},
		ToTransferTarget: bus.TransferParty{Bridge: secondBridge, Channel: a.channelSnapshot(evt.Get("SecondTransfererChannel"))},
		DestType:         bus.DestBridgeMerge,
	})
}

func (a *Adapter) handlePickup(evt ami.Event) {
	a.Topic.Publish(bus.Pickup{
		Channel: a.channelSnapshot(evt.Get("Channel")),
		Target:  a.channelSnapshot(evt.Get("TargetChannel")),
	})
}

func (a *Adapter) handleLocalOptimize(evt ami.Event) {
	a.Topic.Publish(bus.LocalOptimize{
		One: a.channelSnapshot(evt.Get("Channel1")),
		Two: a.channelSnapshot(evt.Get("Channel2")),
	})
}

// channelSnapshot returns the cached snapshot for uniqueID, or a bare
// snapshot carrying only the id if the channel was never seen via
// Newchannel (e.g. the adapter started mid-call).
func (a *Adapter) channelSnapshot(uniqueID string) bus.ChannelSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	if snap := a.snapshots[uniqueID]; snap != nil {
		return *snap
	}
	return bus.ChannelSnapshot{UniqueID: uniqueID}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
