package gamesdk

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/dispatch"
	"github.com/opd-ai/gamesdk/envelope"
	"github.com/opd-ai/gamesdk/handle"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/model"
	"github.com/sirupsen/logrus"
)

// CreateParams configures a session.
type CreateParams struct {
	// ClientID is the application id. It must be nonzero.
	ClientID int64
	Flags    model.CreateFlags

	// Handler, if set, is registered as the first event listener.
	Handler EventHandler

	// Runtime is what native threads attach to while delivering callbacks.
	// Nil uses a bridge.GoRuntime owned by the session.
	Runtime bridge.Runtime
}

// Core is one native SDK session.
//
// Native calls are serialized by a session lock. The holder stays locked
// to its OS thread, and callbacks native code delivers on that thread run
// under the same hold. Callbacks on any other thread, such as the log hook,
// wait for the lock like any caller.
type Core struct {
	lib       interfaces.Library
	bridge    *bridge.Bridge
	envelopes *envelope.Registry
	table     *dispatch.Table
	listeners *dispatch.Listeners
	clientID  int64

	// vtables and params are read by native code for the whole session.
	vtables *dispatch.EventVTables
	params  *abi.CreateParams
	pinner  runtime.Pinner

	native  *handle.Native
	eventID uintptr

	mu             sync.Mutex
	owner          atomic.Uint64 // OS thread holding mu, 0 when free
	destroyed      atomic.Bool
	destroyPending atomic.Bool

	objMu    sync.Mutex
	managers map[abi.Iface]*handle.Native
	live     map[*handle.Native]struct{}
	logID    uintptr
}

// Create starts a session on lib. The session holds its own reference to
// lib until Destroy. A non-Ok native result is returned as *ResultError
// and everything created so far is released.
func Create(lib interfaces.Library, params CreateParams) (*Core, error) {
	if lib == nil {
		return nil, ErrNilLibrary
	}
	if params.ClientID == 0 {
		return nil, ErrInvalidClientID
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Create",
		"client_id":  params.ClientID,
		"flags":      uint64(params.Flags),
		"simulation": lib.IsSimulation(),
	}).Info("Creating native SDK session")

	lib.Acquire()
	c := &Core{
		lib:       lib,
		bridge:    bridge.New(params.Runtime),
		listeners: &dispatch.Listeners{},
		clientID:  params.ClientID,
		managers:  make(map[abi.Iface]*handle.Native),
		live:      make(map[*handle.Native]struct{}),
	}
	c.envelopes = envelope.NewRegistry(c.bridge, handle.Default)
	if params.Handler != nil {
		c.listeners.Add(params.Handler)
	}

	id, err := c.envelopes.Persist("events", dispatch.EventHandler(c.listeners))
	if err != nil {
		c.abandon()
		return nil, err
	}
	c.eventID = id

	c.table = dispatch.NewTable(lib)
	c.vtables = dispatch.NewEventVTables(c.table)
	p := abi.DefaultCreateParams()
	p.ClientID = params.ClientID
	p.Flags = uint64(params.Flags)
	c.params = &p
	c.vtables.Apply(c.params, c.eventID)
	c.pinner.Pin(c.vtables)
	c.pinner.Pin(c.params)

	var f frame
	defer f.release()
	out := new(uintptr)
	ref(&f, out)

	ret, err := lib.Create(abi.Version, c.params, out)
	if err != nil {
		c.abandon()
		return nil, fmt.Errorf("gamesdk: DiscordCreate: %w", err)
	}
	if r := codec.ResultOf(ret); !r.Ok() {
		logrus.WithFields(logrus.Fields{
			"function":  "Create",
			"client_id": params.ClientID,
			"result":    r.String(),
		}).Error("DiscordCreate failed")
		c.abandon()
		return nil, &ResultError{Op: "DiscordCreate", Result: r}
	}

	c.native = handle.NewNative("core", *out)
	if !c.native.Alive() {
		c.abandon()
		return nil, fmt.Errorf("gamesdk: DiscordCreate: %w", handle.ErrInvalidHandle)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Create",
		"client_id": params.ClientID,
	}).Info("Native SDK session created")
	return c, nil
}

// abandon undoes a Create that did not produce a native core.
func (c *Core) abandon() {
	c.destroyed.Store(true)
	c.envelopes.Reap()
	c.pinner.Unpin()
	c.vtables = nil
	c.params = nil
	if err := c.lib.Release(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Core.abandon",
			"error":    err.Error(),
		}).Warn("Failed to release library reference")
	}
}

// ClientID returns the application id the session was created with.
func (c *Core) ClientID() int64 {
	return c.clientID
}

// holding reports whether the calling thread already holds the session
// lock. Without thread ids any open delivery scope counts as the holder.
func (c *Core) holding() bool {
	if tid, ok := bridge.ThreadID(); ok {
		return c.owner.Load() == tid
	}
	return c.bridge.Depth() > 0
}

// lock takes the session lock unless the calling thread already holds it.
// The returned func releases it, first running a Destroy requested while
// it was held.
func (c *Core) lock() func() {
	if c.holding() {
		return func() {}
	}
	runtime.LockOSThread()
	c.mu.Lock()
	if tid, ok := bridge.ThreadID(); ok {
		c.owner.Store(tid)
	}
	return c.unlock
}

func (c *Core) unlock() {
	if c.destroyPending.Load() {
		c.destroy()
	}
	c.owner.Store(0)
	c.mu.Unlock()
	runtime.UnlockOSThread()
}

// invoke calls slot on the native object n under the session lock.
func (c *Core) invoke(n *handle.Native, slot abi.Slot, args ...uintptr) (uintptr, error) {
	unlock := c.lock()
	defer unlock()

	h, err := n.Ptr()
	if err != nil {
		return 0, fmt.Errorf("gamesdk: %s: %w", slot, err)
	}
	ret, err := c.lib.Call(h, slot, args...)
	if err != nil {
		return 0, fmt.Errorf("gamesdk: %s: %w", slot, err)
	}
	return ret, nil
}

// RunCallbacks lets native code deliver pending results and events on the
// calling goroutine. It is the session pump and should be called
// regularly, usually once per frame.
func (c *Core) RunCallbacks() error {
	if c.bridge.Depth() > 0 {
		return ErrReentrantPump
	}

	unlock := c.lock()
	defer unlock()

	h, err := c.native.Ptr()
	if err != nil {
		return fmt.Errorf("gamesdk: %s: %w", abi.CoreRunCallbacks, err)
	}
	ret, err := c.lib.Call(h, abi.CoreRunCallbacks)
	if err != nil {
		return fmt.Errorf("gamesdk: %s: %w", abi.CoreRunCallbacks, err)
	}
	return check(abi.CoreRunCallbacks.String(), ret)
}

// Destroy ends the session. It waits for a running pump or call and is
// safe to call more than once. Called from inside a callback delivered on
// the thread holding the session lock, it takes effect when that pump or
// call returns.
//
// Every manager and transaction handle becomes invalid, outstanding
// callbacks are dropped and the library reference is released.
func (c *Core) Destroy() {
	if c.holding() {
		c.destroyPending.Store(true)
		logrus.WithFields(logrus.Fields{
			"function":  "Core.Destroy",
			"client_id": c.clientID,
		}).Debug("Destroy requested from a callback, deferring until the native call returns")
		return
	}
	unlock := c.lock()
	defer unlock()
	c.destroy()
}

func (c *Core) destroy() {
	if !c.destroyed.CompareAndSwap(false, true) {
		return
	}

	if h, err := c.native.Ptr(); err == nil {
		if _, err := c.lib.Call(h, abi.CoreDestroy); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":  "Core.destroy",
				"client_id": c.clientID,
				"error":     err.Error(),
			}).Error("Native destroy failed")
		}
	}
	c.native.Invalidate()

	c.objMu.Lock()
	invalidated := len(c.live)
	for n := range c.live {
		n.Invalidate()
	}
	c.live = make(map[*handle.Native]struct{})
	c.managers = make(map[abi.Iface]*handle.Native)
	c.logID = 0
	c.objMu.Unlock()

	reaped := c.envelopes.Reap()

	c.pinner.Unpin()
	c.vtables = nil
	c.params = nil

	if err := c.lib.Release(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Core.destroy",
			"error":    err.Error(),
		}).Warn("Failed to release library reference")
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Core.destroy",
		"client_id": c.clientID,
		"handles":   invalidated,
		"envelopes": reaped,
		"deferred":  c.destroyPending.Load(),
	}).Info("Native SDK session destroyed")
}

// Destroyed reports whether Destroy has run.
func (c *Core) Destroyed() bool {
	return c.destroyed.Load()
}

// SetLogHook installs hook for native log messages at min severity or
// more severe. The hook may run on a native worker thread. Installing a
// new hook releases the previous one.
func (c *Core) SetLogHook(min model.LogLevel, hook func(model.LogLevel, string)) error {
	if hook == nil {
		return ErrNilCallback
	}
	level, err := codec.EncodeLogLevel(min)
	if err != nil {
		return err
	}

	id, err := c.envelopes.Persist("log_hook", dispatch.LogFunc(hook))
	if err != nil {
		return err
	}
	if _, err := c.invoke(c.native, abi.CoreSetLogHook, uintptr(level), id, c.table.LogHook); err != nil {
		c.envelopes.Release(id)
		return err
	}

	c.objMu.Lock()
	prev := c.logID
	c.logID = id
	c.objMu.Unlock()

	if prev != 0 {
		c.envelopes.Release(prev)
	}
	return nil
}

// AddListener registers h for every push event of the session.
func (c *Core) AddListener(h EventHandler) ListenerID {
	return c.listeners.Add(h)
}

// RemoveListener unregisters the listener added under id.
func (c *Core) RemoveListener(id ListenerID) bool {
	return c.listeners.Remove(id)
}

// Outstanding returns the number of callbacks and hooks still registered
// with native code.
func (c *Core) Outstanding() int {
	return c.envelopes.Outstanding()
}

// track records n so Destroy can invalidate it.
func (c *Core) track(kind string, addr uintptr) *handle.Native {
	n := handle.NewNative(kind, addr)
	c.objMu.Lock()
	defer c.objMu.Unlock()
	if c.destroyed.Load() {
		n.Invalidate()
		return n
	}
	c.live[n] = struct{}{}
	return n
}

// consume invalidates a transaction handed to native code.
func (c *Core) consume(n *handle.Native) {
	n.Invalidate()
	c.objMu.Lock()
	delete(c.live, n)
	c.objMu.Unlock()
}

// managerFor returns the native manager for slot, fetching it on first use.
// A failed fetch yields a null handle so that calls on it fail.
func (c *Core) managerFor(slot abi.Slot, iface abi.Iface) manager {
	c.objMu.Lock()
	n, ok := c.managers[iface]
	c.objMu.Unlock()
	if ok {
		return manager{core: c, native: n}
	}

	addr, err := c.invoke(c.native, slot)
	if err != nil || addr == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Core.manager",
			"manager":  iface.String(),
			"error":    fmt.Sprint(err),
		}).Warn("Manager unavailable")
		return manager{core: c, native: handle.NewNative(iface.String(), 0)}
	}

	c.objMu.Lock()
	defer c.objMu.Unlock()
	if existing, ok := c.managers[iface]; ok {
		return manager{core: c, native: existing}
	}
	n = handle.NewNative(iface.String(), addr)
	if c.destroyed.Load() {
		n.Invalidate()
		return manager{core: c, native: n}
	}
	c.managers[iface] = n
	c.live[n] = struct{}{}
	return manager{core: c, native: n}
}

// ActivityManager returns the rich presence manager. Managers are fetched
// once per session and are invalid after Destroy.
func (c *Core) ActivityManager() *ActivityManager {
	return &ActivityManager{c.managerFor(abi.CoreGetActivityManager, abi.IfaceActivity)}
}

// UserManager returns the user manager.
func (c *Core) UserManager() *UserManager {
	return &UserManager{c.managerFor(abi.CoreGetUserManager, abi.IfaceUser)}
}

// ImageManager returns the image manager.
func (c *Core) ImageManager() *ImageManager {
	return &ImageManager{c.managerFor(abi.CoreGetImageManager, abi.IfaceImage)}
}

// OverlayManager returns the overlay manager.
func (c *Core) OverlayManager() *OverlayManager {
	return &OverlayManager{c.managerFor(abi.CoreGetOverlayManager, abi.IfaceOverlay)}
}

// RelationshipManager returns the relationship manager.
func (c *Core) RelationshipManager() *RelationshipManager {
	return &RelationshipManager{c.managerFor(abi.CoreGetRelationshipManager, abi.IfaceRelationship)}
}

// LobbyManager returns the lobby manager.
func (c *Core) LobbyManager() *LobbyManager {
	return &LobbyManager{c.managerFor(abi.CoreGetLobbyManager, abi.IfaceLobby)}
}

// NetworkManager returns the peer networking manager.
func (c *Core) NetworkManager() *NetworkManager {
	return &NetworkManager{c.managerFor(abi.CoreGetNetworkManager, abi.IfaceNetwork)}
}

// VoiceManager returns the voice settings manager.
func (c *Core) VoiceManager() *VoiceManager {
	return &VoiceManager{c.managerFor(abi.CoreGetVoiceManager, abi.IfaceVoice)}
}
