// Package record builds the normalized CEL event record (spec.md §3, §4.3)
// from a channel snapshot plus extras, and implements the inverse
// "fabrication" operation used to synthesize a channel-like object from a
// previously emitted record.
package record

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// Record is the normalized, self-contained CEL event payload. Once
// constructed it retains no reference to the snapshot it was built from.
type Record struct {
	EventType      eventkind.Kind
	UserDefinedName string
	EventTimeSec   int64
	EventTimeUsec  int64

	CallerIDName  string
	CallerIDNum   string
	CallerIDANI   string
	CallerIDRDNIS string
	CallerIDDNID  string

	Context string
	Exten   string

	ChannelName string
	AppName     string
	AppData     string

	AccountCode string
	PeerAccount string
	UniqueID    string
	LinkedID    string
	AMAFlags    uint
	UserField   string
	Peer        string

	Extras string
}

// now is overridable in tests that need a deterministic event time.
var now = time.Now

// New builds a Record from snapshot, kind, an optional user-defined name
// (only meaningful for eventkind.UserDefined), and an optional extras
// bag. extras is JSON-encoded into the Extras field; a nil or empty bag
// yields the empty string, matching the original's S_OR(extra_txt, "").
func New(snapshot bus.ChannelSnapshot, kind eventkind.Kind, userDefinedName string, extras map[string]any) Record {
	eventTime := now()

	extrasText := ""
	if len(extras) > 0 {
		data, err := json.Marshal(extras)
		if err != nil {
			// Resource-exhaustion-equivalent failure (spec.md §7 kind 2):
			// abandon only the extras text, not the whole emission.
			log.Printf("cel: failed to encode extras for %s: %v", eventkind.Name(kind), err)
		} else {
			extrasText = string(data)
		}
	}

	return Record{
		EventType:       kind,
		UserDefinedName: userDefinedName,
		EventTimeSec:    eventTime.Unix(),
		EventTimeUsec:   int64(eventTime.Nanosecond() / 1000),

		CallerIDName:  snapshot.CallerIDName,
		CallerIDNum:   snapshot.CallerIDNum,
		CallerIDANI:   snapshot.CallerIDANI,
		CallerIDRDNIS: snapshot.CallerIDRDNIS,
		CallerIDDNID:  snapshot.CallerIDDNID,

		Context: snapshot.Context,
		Exten:   snapshot.Exten,

		ChannelName: snapshot.Name,
		AppName:     snapshot.AppName,
		AppData:     snapshot.AppData,

		AccountCode: snapshot.AccountCode,
		PeerAccount: snapshot.PeerAccount,
		UniqueID:    snapshot.UniqueID,
		LinkedID:    snapshot.LinkedID,
		AMAFlags:    snapshot.AMAFlags,
		UserField:   snapshot.UserField,
		Peer:        "",

		Extras: extrasText,
	}
}

// Fields returns the record as the key/value wire-form bag described in
// spec.md §6 — what a backend callback sees if it wants the bag form
// rather than the typed struct.
func (r Record) Fields() map[string]any {
	return map[string]any{
		"event-type":       uint(r.EventType),
		"event-time-sec":   uint(r.EventTimeSec),
		"event-time-usec":  uint(r.EventTimeUsec),
		"user-event-name":  r.UserDefinedName,
		"calleridname":     r.CallerIDName,
		"calleridnum":      r.CallerIDNum,
		"calleridani":      r.CallerIDANI,
		"calleridrdnis":    r.CallerIDRDNIS,
		"calleriddnid":     r.CallerIDDNID,
		"extension":        r.Exten,
		"context":          r.Context,
		"channel-name":     r.ChannelName,
		"app-name":         r.AppName,
		"app-data":         r.AppData,
		"ama-flags":        r.AMAFlags,
		"account-code":     r.AccountCode,
		"peer-account":     r.PeerAccount,
		"unique-id":        r.UniqueID,
		"linked-id":        r.LinkedID,
		"user-field":       r.UserField,
		"extras":           r.Extras,
		"peer":             r.Peer,
	}
}

// FabricatedChannel is a lightweight channel-like object synthesized
// from a previously emitted Record (spec.md §4.3 "Fabrication").
type FabricatedChannel struct {
	EventType       eventkind.Kind
	EventTypeName    string
	UserDefinedName  string
	EventTime        string

	CallerIDName  string
	CallerIDNum   string
	CallerIDANI   string
	CallerIDRDNIS string
	CallerIDDNID  string

	Exten       string
	Context     string
	ChannelName string
	UniqueID    string
	LinkedID    string

	// AccountCode and PeerAccount: see the comment on Fabricate below —
	// both are intentionally populated from the record's AccountCode.
	AccountCode string
	PeerAccount string

	UserField string
	Peer      string
	AMAFlags  uint

	AppName string
	AppData string
}

// Fabricate synthesizes a FabricatedChannel from r, formatting EventTime
// with dateFormat (a Go time layout) or as "<sec>.<usec>" when dateFormat
// is empty, matching ast_cel_fabricate_channel_from_event.
func Fabricate(r Record, dateFormat string) FabricatedChannel {
	eventTime := formatEventTime(r, dateFormat)

	return FabricatedChannel{
		EventType:       r.EventType,
		EventTypeName:   eventkind.Name(r.EventType),
		UserDefinedName: r.UserDefinedName,
		EventTime:       eventTime,

		CallerIDName:  r.CallerIDName,
		CallerIDNum:   r.CallerIDNum,
		CallerIDANI:   r.CallerIDANI,
		CallerIDRDNIS: r.CallerIDRDNIS,
		CallerIDDNID:  r.CallerIDDNID,

		Exten:       r.Exten,
		Context:     r.Context,
		ChannelName: r.ChannelName,
		UniqueID:    r.UniqueID,
		LinkedID:    r.LinkedID,

		// BUG (preserved intentionally, see original_source/main/cel.c
		// line 887, ast_cel_fill_record): PeerAccount is filled from the
		// event's account-code field, not a distinct peer-account field.
		// Flagged here for later review rather than silently fixed, per
		// spec.md §9.
		AccountCode: r.AccountCode,
		PeerAccount: r.AccountCode,

		UserField: r.UserField,
		Peer:      r.Peer,
		AMAFlags:  r.AMAFlags,

		AppName: r.AppName,
		AppData: r.AppData,
	}
}

func formatEventTime(r Record, dateFormat string) string {
	if dateFormat == "" {
		return secUsecString(r.EventTimeSec, r.EventTimeUsec)
	}
	t := time.Unix(r.EventTimeSec, r.EventTimeUsec*1000).UTC()
	return t.Format(dateFormat)
}

func secUsecString(sec, usec int64) string {
	return strconv.FormatInt(sec, 10) + "." + fmt.Sprintf("%06d", usec)
}
