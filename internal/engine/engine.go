// Package engine wires together the config store, backend registry,
// linkedid tracker, dial-status store, topic plumbing, and translators
// into the CEL engine's public programmatic surface (spec.md §6).
package engine

import (
	"context"
	"sync"

	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/config"
	"github.com/halvard/celd/internal/dialstatus"
	"github.com/halvard/celd/internal/eventkind"
	"github.com/halvard/celd/internal/linkedid"
	"github.com/halvard/celd/internal/record"
	"github.com/halvard/celd/internal/registry"
	"github.com/halvard/celd/internal/translate"
)

// Engine is a self-contained CEL pipeline: its own config store, backend
// registry, linkedid tracker, dial-status store, aggregation topic and
// router. Per spec.md §9's "global mutable state" design note, there is
// no package-level singleton — callers create one with Init and pass it
// to upstream subscribers by capture; tests instantiate independent
// engines.
type Engine struct {
	Config     *config.Store
	Backends   *registry.Registry
	Linked     *linkedid.Tracker
	DialStatus *dialstatus.Store

	aggregation *bus.Topic
	router      *bus.Router
	celTopic    *bus.Topic

	wg sync.WaitGroup
}

// Init constructs a ready-to-use Engine: builds the aggregation topic,
// registers every translator against the router, and forwards the
// engine's own publish-API topic into the aggregation topic.
func Init() *Engine {
	e := &Engine{
		Config:     config.NewStore(),
		Backends:   registry.New(),
		Linked:     linkedid.New(),
		DialStatus: dialstatus.New(),

		aggregation: bus.NewTopic(),
		router:      bus.NewRouter(),
		celTopic:    bus.NewTopic(),
	}

	e.registerTranslators()
	bus.ForwardAll(e.celTopic, e.aggregation)
	e.aggregation.Subscribe(e.router.Dispatch)

	return e
}

func (e *Engine) registerTranslators() {
	snapshotDiff := translate.SnapshotDiff{
		Config:     e.Config,
		Linked:     e.Linked,
		DialStatus: e.DialStatus,
		Report:     e,
	}
	bridge := translate.Bridge{Report: e}
	parking := translate.Parking{Report: e}
	dial := translate.Dial{DialStatus: e.DialStatus, Report: e}
	xfer := translate.Transfer{Report: e}
	pickup := translate.Pickup{Report: e}
	local := translate.Local{Report: e}
	generic := translate.Generic{Report: e}

	e.router.Add(bus.KindSnapshotUpdate, snapshotDiff.Handle)
	e.router.Add(bus.KindBridgeEnter, bridge.HandleEnter)
	e.router.Add(bus.KindBridgeExit, bridge.HandleExit)
	e.router.Add(bus.KindParking, parking.Handle)
	e.router.Add(bus.KindDial, dial.Handle)
	e.router.Add(bus.KindBlindTransfer, xfer.HandleBlind)
	e.router.Add(bus.KindAttendedTransfer, xfer.HandleAttended)
	e.router.Add(bus.KindPickup, pickup.Handle)
	e.router.Add(bus.KindLocalOptimize, local.Handle)
	e.router.Add(bus.KindGeneric, generic.Handle)
}

// Subscribe wires an upstream producer's topic into the engine's
// aggregation topic, so its messages flow through the router.
func (e *Engine) Subscribe(upstream *bus.Topic) bus.Unsubscribe {
	return bus.ForwardAll(upstream, e.aggregation)
}

// Term waits until no ReportEvent call is in flight, or returns ctx's
// error if ctx is done first. It only drains: upstream subscriptions stay
// in place, and events reported after Term returns are still delivered to
// the registered backends.
func (e *Engine) Term(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload validates src and installs it as the engine's current
// configuration, keeping the prior one on rejection (spec.md §4.1).
func (e *Engine) Reload(src config.Source) error {
	return e.Config.Load(src)
}

// GetConfig returns the engine's current configuration.
func (e *Engine) GetConfig() config.Config {
	return e.Config.Current()
}

// SetConfig installs cfg directly, after validating its invariant.
func (e *Engine) SetConfig(cfg config.Config) error {
	return e.Config.Set(cfg)
}

// CheckEnabled reports whether CEL is currently enabled.
func (e *Engine) CheckEnabled() bool {
	return e.Config.IsEnabled()
}

// BackendRegister registers a named backend callback.
func (e *Engine) BackendRegister(name string, cb registry.Callback) error {
	return e.Backends.Register(name, cb)
}

// BackendUnregister removes a previously registered backend.
func (e *Engine) BackendUnregister(name string) error {
	return e.Backends.Unregister(name)
}

// Publish implements the external Publish API (spec.md §4.8): it wraps
// the arguments in a generic carrier message and publishes it on the
// engine's own topic, so publishers go through the same routing,
// filtering, and ordering path as every other producer rather than
// calling into backends directly.
func (e *Engine) Publish(channel bus.ChannelSnapshot, kind eventkind.Kind, extras map[string]any) {
	var name string
	if kind == eventkind.UserDefined {
		if n, ok := extras["event"].(string); ok {
			name = n
		}
	}
	e.celTopic.Publish(bus.Generic{
		Snapshot:  channel,
		EventType: kind,
		EventName: name,
		Extra:     extrasPayload(extras),
	})
}

func extrasPayload(extras map[string]any) map[string]any {
	if extra, ok := extras["extra"].(map[string]any); ok {
		return extra
	}
	return extras
}

// ReportEvent is the central gate every translator calls into (spec.md
// §4.7). It implements translate.Reporter.
func (e *Engine) ReportEvent(snapshot bus.ChannelSnapshot, kind eventkind.Kind, userDefinedName string, extras map[string]any) {
	e.wg.Add(1)
	defer e.wg.Done()

	cfg := e.Config.Current()
	if !cfg.Enabled {
		return
	}

	if kind == eventkind.ChannelStart && cfg.TrackedEvents.Has(eventkind.LinkedIDEnd) {
		e.Linked.Ref(snapshot.LinkedID)
	}

	if !cfg.TrackedEvents.Has(kind) {
		return
	}

	if (kind == eventkind.AppStart || kind == eventkind.AppEnd) && !cfg.TrackedApps.Has(snapshot.AppName) {
		return
	}

	rec := record.New(snapshot, kind, userDefinedName, extras)
	e.Backends.ForEach(rec)
}

// FabricateChannelFromEvent synthesizes a lightweight channel-like object
// from rec, formatted per the engine's current date-format setting.
func (e *Engine) FabricateChannelFromEvent(rec record.Record) record.FabricatedChannel {
	return record.Fabricate(rec, e.Config.Current().DateFormat)
}

// StrToEventType is the inverse-lookup half of spec.md §6's
// str_to_event_type/get_type_name pair. ok is false for an unrecognized
// name.
func StrToEventType(name string) (eventkind.Kind, bool) {
	return eventkind.ParseName(name)
}

// GetTypeName returns kind's configuration-file name, or "Unknown".
func GetTypeName(kind eventkind.Kind) string {
	return eventkind.Name(kind)
}

// BackendNames returns the currently registered backend names, in no
// particular order.
func (e *Engine) BackendNames() []string {
	return e.Backends.Names()
}
