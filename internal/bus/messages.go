package bus

import "github.com/halvard/celd/internal/eventkind"

// Message is anything that can travel through a Topic. Kind identifies
// which translator should handle it; the router dispatches purely on
// this string rather than on a type switch over the concrete message
// types (spec.md §9, "use tagged variants... rather than runtime type
// introspection").
type Message interface {
	Kind() string
}

// Message kind tags, one per upstream producer CEL subscribes to.
const (
	KindSnapshotUpdate    = "snapshot.update"
	KindBridgeEnter       = "bridge.enter"
	KindBridgeExit        = "bridge.exit"
	KindParking           = "parking"
	KindDial              = "dial"
	KindBlindTransfer     = "transfer.blind"
	KindAttendedTransfer  = "transfer.attended"
	KindPickup            = "pickup"
	KindLocalOptimize     = "local.optimize"
	KindGeneric           = "generic"
)

// SnapshotUpdate carries a channel's old and new snapshot for a single
// state change. Either may be nil (channel creation or destruction) but
// not both.
type SnapshotUpdate struct {
	Old *ChannelSnapshot
	New *ChannelSnapshot
}

func (SnapshotUpdate) Kind() string { return KindSnapshotUpdate }

// BridgeEnter is published when a channel enters a bridge.
type BridgeEnter struct {
	Bridge  BridgeSnapshot
	Channel ChannelSnapshot
}

func (BridgeEnter) Kind() string { return KindBridgeEnter }

// BridgeExit is published when a channel leaves a bridge.
type BridgeExit struct {
	Bridge  BridgeSnapshot
	Channel ChannelSnapshot
}

func (BridgeExit) Kind() string { return KindBridgeExit }

// ParkEventType enumerates the parking subsystem's event shapes.
type ParkEventType int

const (
	ParkedCall ParkEventType = iota
	ParkedCallTimeout
	ParkedCallGiveUp
	ParkedCallUnparked
	ParkedCallFailed
	ParkedCallSwap
)

// Parking carries a parked-call event. ParkerDialString/ParkingLot are
// only meaningful when EventType == ParkedCall.
type Parking struct {
	EventType        ParkEventType
	Parkee           ChannelSnapshot
	ParkerDialString string
	ParkingLot       string
}

func (Parking) Kind() string { return KindParking }

// Dial carries a dial attempt's outcome blob.
type Dial struct {
	Caller     ChannelSnapshot
	Forward    string
	DialStatus string
}

func (Dial) Kind() string { return KindDial }

// TransferResult mirrors ast_transfer_result for blind transfers.
type TransferResult int

const (
	TransferSuccess TransferResult = iota
	TransferFail
)

// BlindTransfer carries a blind-transfer attempt. Bridge is nil when the
// upstream payload did not carry a bridge snapshot (spec.md §9, second
// Open Question) — translators must guard against that rather than
// assume it is always present.
type BlindTransfer struct {
	Channel ChannelSnapshot
	Bridge  *BridgeSnapshot
	Result  TransferResult
	Exten   string
	Context string
}

func (BlindTransfer) Kind() string { return KindBlindTransfer }

// AttendedTransferDest mirrors ast_attended_transfer_dest_type.
type AttendedTransferDest int

const (
	DestFail AttendedTransferDest = iota
	DestBridgeMerge
	DestLink
	DestThreeway
	DestApp
)

// TransferParty is one side of an attended transfer; Bridge is nil when
// that side had no bridge at the time of the transfer.
type TransferParty struct {
	Bridge  *BridgeSnapshot
	Channel ChannelSnapshot
}

// AttendedTransfer carries an attended-transfer outcome.
type AttendedTransfer struct {
	ToTransferee     TransferParty
	ToTransferTarget TransferParty
	DestType         AttendedTransferDest
	DestApp          string
}

func (AttendedTransfer) Kind() string { return KindAttendedTransfer }

// Pickup carries a call-pickup event: Channel is the picker, Target is
// the channel being picked up.
type Pickup struct {
	Channel ChannelSnapshot
	Target  ChannelSnapshot
}

func (Pickup) Kind() string { return KindPickup }

// LocalOptimize carries a local-channel optimization event.
type LocalOptimize struct {
	One ChannelSnapshot
	Two ChannelSnapshot
}

func (LocalOptimize) Kind() string { return KindLocalOptimize }

// Generic carries a CEL event published directly through the Publish API
// (spec.md §4.8), or a USER_DEFINED event forwarded from elsewhere.
type Generic struct {
	Snapshot  ChannelSnapshot
	EventType eventkind.Kind
	EventName string
	Extra     map[string]any
}

func (Generic) Kind() string { return KindGeneric }
