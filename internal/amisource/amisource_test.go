package amisource_test

import (
	"testing"

	"github.com/halvard/celd/internal/ami"
	"github.com/halvard/celd/internal/amisource"
	"github.com/halvard/celd/internal/bus"
)

func TestIsResponseEventsAreIgnored(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Response", "Success"))

	if len(got) != 0 {
		t.Fatalf("expected no messages for a response, got %d", len(got))
	}
}

func TestNewchannelPublishesSnapshotUpdateWithNilOld(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent(
		"Event", "Newchannel",
		"Uniqueid", "1.1",
		"Linkedid", "1.1",
		"Channel", "SIP/100-00000001",
		"ChannelStateDesc", "Down",
	))

	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	su, ok := got[0].(bus.SnapshotUpdate)
	if !ok {
		t.Fatalf("expected SnapshotUpdate, got %T", got[0])
	}
	if su.Old != nil {
		t.Error("expected nil Old on first sighting of a channel")
	}
	if su.New == nil || su.New.UniqueID != "1.1" {
		t.Error("expected New to carry the channel's uniqueid")
	}
}

func TestNewstateDiffsAgainstPriorSnapshot(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent(
		"Event", "Newchannel",
		"Uniqueid", "1.1",
		"Linkedid", "1.1",
		"Channel", "SIP/100-00000001",
		"ChannelStateDesc", "Down",
	))
	a.Process(ami.NewEvent(
		"Event", "Newstate",
		"Uniqueid", "1.1",
		"ChannelStateDesc", "Up",
	))

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	su := got[1].(bus.SnapshotUpdate)
	if su.Old == nil || su.Old.State != bus.StateDown {
		t.Error("expected Old to carry the prior Down state")
	}
	if su.New == nil || su.New.State != bus.StateUp {
		t.Error("expected New to carry the Up state")
	}
}

func TestNewstateWithoutPriorNewchannelIsDropped(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Event", "Newstate", "Uniqueid", "unseen", "ChannelStateDesc", "Up"))

	if len(got) != 0 {
		t.Fatalf("expected no messages, got %d", len(got))
	}
}

func TestHangupPublishesDeadThenNilSnapshotUpdates(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Event", "Newchannel", "Uniqueid", "1.1", "Linkedid", "1.1", "Channel", "SIP/100-00000001"))
	a.Process(ami.NewEvent("Event", "Hangup", "Uniqueid", "1.1", "Cause", "16", "Cause-txt", "Normal Clearing"))

	if len(got) != 3 {
		t.Fatalf("expected 3 messages (newchannel + 2 from hangup), got %d", len(got))
	}
	deadUpdate := got[1].(bus.SnapshotUpdate)
	if deadUpdate.New == nil || !deadUpdate.New.Dead || deadUpdate.New.HangupCause != 16 {
		t.Error("expected the first hangup update to carry Dead=true and the parsed cause")
	}
	endUpdate := got[2].(bus.SnapshotUpdate)
	if endUpdate.New != nil {
		t.Error("expected the second hangup update to carry a nil New snapshot")
	}
}

func TestBridgeEnterAndLeavePublishBridgeEvents(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Event", "BridgeEnter", "Uniqueid", "1.1", "BridgeUniqueid", "b1"))
	a.Process(ami.NewEvent("Event", "BridgeLeave", "Uniqueid", "1.1", "BridgeUniqueid", "b1"))

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if _, ok := got[0].(bus.BridgeEnter); !ok {
		t.Errorf("expected BridgeEnter, got %T", got[0])
	}
	exit, ok := got[1].(bus.BridgeExit)
	if !ok {
		t.Fatalf("expected BridgeExit for BridgeLeave, got %T", got[1])
	}
	if exit.Bridge.UniqueID != "b1" {
		t.Error("expected bridge id to carry through")
	}
}

func TestParkedCallAndTimeoutMapToParkingMessages(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Event", "ParkedCall", "Uniqueid", "1.1", "ParkerDialString", "SIP/100", "Parkinglot", "default"))
	a.Process(ami.NewEvent("Event", "ParkedCallTimeOut", "Uniqueid", "1.1"))

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	start := got[0].(bus.Parking)
	if start.EventType != bus.ParkedCall || start.ParkingLot != "default" {
		t.Error("expected ParkedCall event with parking lot carried through")
	}
	end := got[1].(bus.Parking)
	if end.EventType != bus.ParkedCallTimeout {
		t.Error("expected ParkedCallTimeOut to map to bus.ParkedCallTimeout")
	}
}

func TestDialBeginWithForwardAndDialEndWithStatus(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Event", "DialBegin", "Uniqueid", "1.1", "Forward", "SIP/200"))
	a.Process(ami.NewEvent("Event", "DialEnd", "Uniqueid", "1.1", "DialStatus", "ANSWER"))

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	fwd := got[0].(bus.Dial)
	if fwd.Forward != "SIP/200" {
		t.Error("expected forward target to carry through")
	}
	end := got[1].(bus.Dial)
	if end.DialStatus != "ANSWER" {
		t.Error("expected dial status to carry through")
	}
}

func TestBlindTransferWithExtenAndContextIsSuccess(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent(
		"Event", "BlindTransfer",
		"TransfererChannel", "SIP/100-1",
		"Extension", "200",
		"Context", "from-internal",
		"BridgeUniqueid", "b1",
	))

	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	bt := got[0].(bus.BlindTransfer)
	if bt.Result != bus.TransferSuccess {
		t.Error("expected success when extension and context are present")
	}
	if bt.Bridge == nil || bt.Bridge.UniqueID != "b1" {
		t.Error("expected bridge snapshot to carry through")
	}
}

func TestBlindTransferWithoutExtenIsFail(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Event", "BlindTransfer", "TransfererChannel", "SIP/100-1"))

	bt := got[0].(bus.BlindTransfer)
	if bt.Result != bus.TransferFail {
		t.Error("expected fail when extension/context are absent")
	}
	if bt.Bridge != nil {
		t.Error("expected nil bridge when no BridgeUniqueid header is present")
	}
}

func TestPickupAndLocalOptimize(t *testing.T) {
	topic := bus.NewTopic()
	var got []bus.Message
	topic.Subscribe(func(m bus.Message) { got = append(got, m) })

	a := amisource.New(topic)
	a.Process(ami.NewEvent("Event", "Pickup", "Channel", "SIP/100-1", "TargetChannel", "SIP/200-1"))
	a.Process(ami.NewEvent("Event", "LocalBridge", "Channel1", "Local/1@x-1", "Channel2", "Local/1@x-2"))

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if _, ok := got[0].(bus.Pickup); !ok {
		t.Errorf("expected Pickup, got %T", got[0])
	}
	if _, ok := got[1].(bus.LocalOptimize); !ok {
		t.Errorf("expected LocalOptimize, got %T", got[1])
	}
}
