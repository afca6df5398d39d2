// Package eventkind defines the CEL event kinds and the bitset used to
// track which ones an operator has configured for reporting.
package eventkind

import "strings"

// Kind is a dense small integer identifying a CEL event. It doubles as a
// bit index into a Set, so the total number of kinds must stay within 64.
type Kind uint

// Kind values, matching AST_CEL_* in the original Asterisk source. Index 0
// is the ALL sentinel and is never itself reported.
const (
	KindAll Kind = iota
	ChannelStart
	ChannelEnd
	Answer
	Hangup
	AppStart
	AppEnd
	ParkStart
	ParkEnd
	UserDefined
	BridgeEnter
	BridgeExit
	BlindTransfer
	AttendedTransfer
	Pickup
	Forward
	LinkedIDEnd
	LocalOptimize

	numKinds
)

const maxEventIDs = 64

var names = [maxEventIDs]string{
	KindAll:          "ALL",
	ChannelStart:     "CHAN_START",
	ChannelEnd:       "CHAN_END",
	Answer:           "ANSWER",
	Hangup:           "HANGUP",
	AppStart:         "APP_START",
	AppEnd:           "APP_END",
	ParkStart:        "PARK_START",
	ParkEnd:          "PARK_END",
	UserDefined:      "USER_DEFINED",
	BridgeEnter:      "BRIDGE_ENTER",
	BridgeExit:       "BRIDGE_EXIT",
	BlindTransfer:    "BLINDTRANSFER",
	AttendedTransfer: "ATTENDEDTRANSFER",
	Pickup:           "PICKUP",
	Forward:          "FORWARD",
	LinkedIDEnd:      "LINKEDID_END",
	LocalOptimize:    "LOCAL_OPTIMIZE",
}

// Name returns the configuration-file name for kind, or "Unknown" if kind
// does not name a defined event.
func Name(kind Kind) string {
	if int(kind) >= len(names) || names[kind] == "" {
		return "Unknown"
	}
	return names[kind]
}

// ParseName is the inverse of Name. Matching is case-sensitive (per
// spec.md §4.1, event-name parsing is case-sensitive except for the
// literal "ALL" — which, being spelled exactly that way in the names
// table above, falls out of the same exact match). The second return value is
// false if name does not match any defined kind.
func ParseName(name string) (Kind, bool) {
	for k, n := range names {
		if n == "" {
			continue
		}
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Set is a bitset of tracked Kinds, dense enough to fit in a uint64.
type Set uint64

// All is the set with every defined kind tracked.
const All Set = Set(^uint64(0))

// With returns set with kind added.
func (set Set) With(kind Kind) Set {
	return set | (1 << uint(kind))
}

// Has reports whether kind is a member of set.
func (set Set) Has(kind Kind) bool {
	return set&(1<<uint(kind)) != 0
}

// Names returns the configuration-file names of every tracked kind
// (excluding the ALL sentinel itself), in ascending Kind order — used by
// the status CLI (spec.md §6 "CLI").
func (set Set) Names() []string {
	var out []string
	for k := ChannelStart; k < numKinds; k++ {
		if set.Has(k) {
			out = append(out, Name(k))
		}
	}
	return out
}

// ParseList parses a comma-separated, case-sensitive list of event names
// (per spec.md §6), except that the exact literal "ALL" sets every bit
// ("all" in any other case is an unknown name). Unknown names are
// reported as an error listing the offending name; the whole list is
// rejected together, matching the original's all-or-nothing reload.
func ParseList(s string) (Set, error) {
	var set Set
	for _, raw := range strings.Split(s, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if name == "ALL" {
			set = All
			continue
		}
		kind, ok := ParseName(name)
		if !ok || kind == KindAll {
			return 0, &UnknownEventError{Name: name}
		}
		set = set.With(kind)
	}
	return set, nil
}

// UnknownEventError is returned by ParseList when a name in the list does
// not correspond to any defined event kind.
type UnknownEventError struct {
	Name string
}

func (e *UnknownEventError) Error() string {
	return "unknown event name '" + e.Name + "'"
}
