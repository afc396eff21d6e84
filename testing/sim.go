package testing

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/model"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownObject is returned for a handle the simulation never issued.
	ErrUnknownObject = errors.New("simulation: unknown native object")
	// ErrWrongInterface is returned when a slot is called on an object of
	// another interface.
	ErrWrongInterface = errors.New("simulation: slot called on wrong interface")
	// ErrSessionDestroyed is returned for calls on a destroyed core.
	ErrSessionDestroyed = errors.New("simulation: session destroyed")
	// ErrUnknownSlot is returned for slots the simulation does not model.
	ErrUnknownSlot = errors.New("simulation: slot not modelled")
)

const (
	objectBase   uintptr = 0x10000
	callbackBase uintptr = 0x7f0000
)

type slotKey struct {
	iface abi.Iface
	index int
}

func keyOf(s abi.Slot) slotKey { return slotKey{s.Iface, s.Index} }

// object is a native object handed out as an opaque handle.
type object struct {
	iface abi.Iface
	sess  *session

	lobbyTxn  *lobbyTxn
	memberTxn *memberTxn
	query     *searchQuery
}

// SimulatedSDK implements interfaces.Library entirely in memory. Callbacks
// registered with NewCallback are called with uintptr arguments the way
// native code calls C function pointers, and pointer arguments reference
// real memory laid out like the C structs.
type SimulatedSDK struct {
	mu sync.Mutex

	refs int

	callbacks    map[uintptr]any
	callbackKeys map[uintptr]uintptr
	nextCallback uintptr

	objects    map[uintptr]*object
	nextObject uintptr
	sessions   []*session

	discordRunning bool
	createResult   model.Result
	failures       map[slotKey]model.Result
	calls          []string

	users         map[int64]model.User
	currentUser   model.User
	relationships []model.Relationship
	imageDims     map[int64]model.ImageDimensions
}

var _ interfaces.Library = (*SimulatedSDK)(nil)

// NewSimulatedSDK creates a simulation holding one reference owned by the
// caller. It is seeded with a current user, two other users and a
// relationship list.
func NewSimulatedSDK() *SimulatedSDK {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithFields(logrus.Fields{
		"function": "NewSimulatedSDK",
	}).Info("Creating simulated native SDK for testing")

	s := &SimulatedSDK{
		refs:           1,
		callbacks:      make(map[uintptr]any),
		callbackKeys:   make(map[uintptr]uintptr),
		nextCallback:   callbackBase,
		objects:        make(map[uintptr]*object),
		nextObject:     objectBase,
		discordRunning: true,
		failures:       make(map[slotKey]model.Result),
		users:          make(map[int64]model.User),
		imageDims:      make(map[int64]model.ImageDimensions),
	}
	s.seed()
	return s
}

func (s *SimulatedSDK) seed() {
	s.currentUser = model.User{ID: 1001, Username: "simulated", Discriminator: "0001", Avatar: "a_sim"}
	friend := model.User{ID: 2002, Username: "friend-one", Discriminator: "0002"}
	blocked := model.User{ID: 3003, Username: "friend-two", Discriminator: "0003", Bot: true}
	for _, u := range []model.User{s.currentUser, friend, blocked} {
		s.users[u.ID] = u
	}
	s.relationships = []model.Relationship{
		{
			Type: model.RelationshipFriend,
			User: friend,
			Presence: model.Presence{
				Status:   model.StatusOnline,
				Activity: model.Activity{Type: model.ActivityTypePlaying, Name: "Chess", State: "In a match"},
			},
		},
		{Type: model.RelationshipBlocked, User: blocked, Presence: model.Presence{Status: model.StatusOffline}},
	}
}

// Create implements interfaces.Library.Create.
func (s *SimulatedSDK) Create(version int32, params *abi.CreateParams, core *uintptr) (int32, error) {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithFields(logrus.Fields{
		"function":  "SimulatedSDK.Create",
		"version":   version,
		"client_id": params.ClientID,
	}).Info("Simulating session creation")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 {
		return 0, errors.New("simulation: library released")
	}
	s.calls = append(s.calls, "DiscordCreate")

	if version != abi.Version {
		return codec.NativeResult(model.ResultInvalidVersion), nil
	}
	if r := s.createResult; !r.Ok() {
		s.createResult = model.ResultOk
		return codec.NativeResult(r), nil
	}
	if params.Flags&uint64(model.CreateFlagsNoRequireDiscord) == 0 && !s.discordRunning {
		return codec.NativeResult(model.ResultNotRunning), nil
	}

	sess := newSession(s, params)
	s.sessions = append(s.sessions, sess)
	sess.core = s.newObject(abi.IfaceCore, sess)
	*core = sess.core
	return codec.NativeResult(model.ResultOk), nil
}

// Call implements interfaces.Library.Call.
func (s *SimulatedSDK) Call(h uintptr, slot abi.Slot, args ...uintptr) (uintptr, error) {
	s.mu.Lock()

	o, ok := s.objects[h]
	if !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %#x for %s", ErrUnknownObject, h, slot)
	}
	if o.iface != slot.Iface {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %s on %s object", ErrWrongInterface, slot, o.iface)
	}
	if o.sess.destroyed {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrSessionDestroyed, slot)
	}
	fn, ok := handlers[keyOf(slot)]
	if !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	s.calls = append(s.calls, slot.String())

	var (
		ret   uintptr
		after func()
	)
	if r, failed := s.failures[keyOf(slot)]; failed {
		delete(s.failures, keyOf(slot))
		ret, after = s.fail(o, slot, r, args)
	} else {
		ret, after = fn(s, o, pad(args))
	}
	s.mu.Unlock()

	if after != nil {
		after()
	}
	return ret, nil
}

// fail short-circuits a call with r. Async methods report it through their
// callback on the next pump; the rest return it.
func (s *SimulatedSDK) fail(o *object, slot abi.Slot, r model.Result, args []uintptr) (uintptr, func()) {
	logrus.WithFields(logrus.Fields{
		"function": "SimulatedSDK.Call",
		"slot":     slot.String(),
		"result":   r.String(),
	}).Info("Simulating injected failure")

	if asyncSlots[keyOf(slot)] && len(args) >= 2 {
		data, cb := args[len(args)-2], args[len(args)-1]
		o.sess.later(func() { s.invoke(cb, data, result(r), 0) })
		return 0, nil
	}
	return result(r), nil
}

// NewCallback implements interfaces.Library.NewCallback. The returned
// pointer is a token only the simulation can call.
func (s *SimulatedSDK) NewCallback(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("simulation: NewCallback of non-func %T", fn))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := v.Pointer()
	if p, ok := s.callbackKeys[key]; ok {
		return p
	}
	s.nextCallback += 0x10
	p := s.nextCallback
	s.callbacks[p] = fn
	s.callbackKeys[key] = p
	return p
}

// Acquire implements interfaces.Library.Acquire.
func (s *SimulatedSDK) Acquire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs++
}

// Release implements interfaces.Library.Release.
func (s *SimulatedSDK) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		return errors.New("simulation: library already released")
	}
	s.refs--
	return nil
}

// IsSimulation implements interfaces.Library.IsSimulation
func (s *SimulatedSDK) IsSimulation() bool {
	return true
}

func (s *SimulatedSDK) newObject(iface abi.Iface, sess *session) uintptr {
	s.nextObject += 0x10
	s.objects[s.nextObject] = &object{iface: iface, sess: sess}
	return s.nextObject
}

// invoke calls the callback behind p the way native code would. Extra
// trailing arguments are ignored, missing ones are zero.
func (s *SimulatedSDK) invoke(p uintptr, args ...uintptr) uintptr {
	if p == 0 {
		return 0
	}
	s.mu.Lock()
	fn, ok := s.callbacks[p]
	s.mu.Unlock()
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "SimulatedSDK.invoke",
			"pointer":  fmt.Sprintf("%#x", p),
		}).Error("Native code called an unknown function pointer")
		return 0
	}

	var a [6]uintptr
	copy(a[:], args)
	switch f := fn.(type) {
	case func(uintptr) uintptr:
		return f(a[0])
	case func(uintptr, uintptr) uintptr:
		return f(a[0], a[1])
	case func(uintptr, uintptr, uintptr) uintptr:
		return f(a[0], a[1], a[2])
	case func(uintptr, uintptr, uintptr, uintptr) uintptr:
		return f(a[0], a[1], a[2], a[3])
	case func(uintptr, uintptr, uintptr, uintptr, uintptr) uintptr:
		return f(a[0], a[1], a[2], a[3], a[4])
	case func(uintptr, uintptr, uintptr, uintptr, uintptr, uintptr) uintptr:
		return f(a[0], a[1], a[2], a[3], a[4], a[5])
	}
	logrus.WithFields(logrus.Fields{
		"function": "SimulatedSDK.invoke",
		"type":     fmt.Sprintf("%T", fn),
	}).Error("Callback has a shape native code cannot call")
	return 0
}

// pad lets handlers index arguments a caller left out; they read as zero.
func pad(args []uintptr) []uintptr {
	a := make([]uintptr, 8, 8+len(args))
	copy(a, args)
	if len(args) > 8 {
		a = append(a[:0], args...)
	}
	return a
}

func result(r model.Result) uintptr {
	return uintptr(codec.NativeResult(r))
}

// frame keeps memory handed to a callback in place until the callback
// returns.
type frame struct {
	pin runtime.Pinner
}

func ref[T any](f *frame, v *T) uintptr {
	f.pin.Pin(v)
	return uintptr(unsafe.Pointer(v))
}

func (f *frame) cstr(s string) uintptr {
	b := codec.CStringBytes(s)
	return ref(f, &b[0])
}

func (f *frame) bytes(b []byte) (uintptr, uintptr) {
	if len(b) == 0 {
		return 0, 0
	}
	c := append([]byte(nil), b...)
	return ref(f, &c[0]), uintptr(len(c))
}

func (f *frame) done() { f.pin.Unpin() }

// at views native memory passed in by the caller.
func at[T any](p uintptr) *T {
	if p == 0 {
		return nil
	}
	return (*T)(unsafe.Pointer(p))
}

func put[T any](p uintptr, v T) bool {
	dst := at[T](p)
	if dst == nil {
		return false
	}
	*dst = v
	return true
}

func cbool(v uintptr) bool { return v&0xff != 0 }
