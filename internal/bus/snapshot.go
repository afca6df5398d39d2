package bus

// ChannelState mirrors the subset of Asterisk channel states CEL cares
// about. Only the UP transition and the dead flag are semantically
// meaningful to the translators; the rest exist so a producer can carry a
// faithful snapshot.
type ChannelState int

const (
	StateDown ChannelState = iota
	StateRinging
	StateUp
	StateBusy
	StateOther
)

// TechProperty is a bitset of technology-level flags on a channel. The
// only bit CEL inspects is TechInternal, which marks a channel that
// should be invisible to CEL entirely (spec.md §4.5).
type TechProperty uint32

const (
	TechInternal TechProperty = 1 << iota
)

// ChannelSnapshot is an immutable point-in-time view of a channel, as
// published by the channel/bridge/parking subsystems CEL subscribes to.
// CEL only ever reads a snapshot; it never mutates or retains one past
// the call that handed it in (the fields it needs are copied into a
// record.Record immediately).
type ChannelSnapshot struct {
	UniqueID string
	LinkedID string
	Name     string

	State ChannelState
	Dead  bool

	CallerIDName string
	CallerIDNum  string
	CallerIDANI  string
	CallerIDRDNIS string
	CallerIDDNID string

	Context string
	Exten   string

	AppName string
	AppData string

	AccountCode string
	PeerAccount string
	UserField   string
	AMAFlags    uint

	HangupCause  int
	HangupSource string

	TechProperties TechProperty
}

// IsInternal reports whether this channel is flagged as internal and so
// must be ignored by CEL entirely.
func (s *ChannelSnapshot) IsInternal() bool {
	return s != nil && s.TechProperties&TechInternal != 0
}

// BridgeSnapshot is an immutable view of a bridge, carried alongside a
// channel snapshot on bridge enter/exit messages.
type BridgeSnapshot struct {
	UniqueID string
}
