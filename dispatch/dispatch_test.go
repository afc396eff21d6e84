package dispatch

import (
	"reflect"
	"runtime"
	"testing"
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/envelope"
	"github.com/opd-ai/gamesdk/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFactory struct {
	next uintptr
	fns  map[uintptr]any
}

func (f *fakeFactory) NewCallback(fn any) uintptr {
	if f.fns == nil {
		f.fns = make(map[uintptr]any)
		f.next = 0x7000
	}
	f.next += 0x10
	f.fns[f.next] = fn
	return f.next
}

type recorder struct {
	EventAdapter
	joins    []string
	requests []*model.User
	invites  []model.ActivityActionType
	messages [][]byte
	toggles  []bool
	speaking []bool
	routes   []string
}

func (r *recorder) OnActivityJoin(secret string)           { r.joins = append(r.joins, secret) }
func (r *recorder) OnActivityJoinRequest(user *model.User) { r.requests = append(r.requests, user) }
func (r *recorder) OnActivityInvite(a model.ActivityActionType, _ *model.User, _ *model.Activity) {
	r.invites = append(r.invites, a)
}
func (r *recorder) OnLobbyMessage(_, _ int64, data []byte) { r.messages = append(r.messages, data) }
func (r *recorder) OnOverlayToggle(locked bool)            { r.toggles = append(r.toggles, locked) }
func (r *recorder) OnSpeaking(_, _ int64, s bool)          { r.speaking = append(r.speaking, s) }
func (r *recorder) OnRouteUpdate(route string)             { r.routes = append(r.routes, route) }

func newRegistry(t *testing.T) *envelope.Registry {
	reg := envelope.NewRegistry(bridge.New(bridge.NewGoRuntime()), nil)
	t.Cleanup(func() { reg.Reap() })
	return reg
}

// pinned keeps test payloads on the heap so their addresses stay valid
// across stack growth inside the trampolines.
var pinned []any

func addr[T any](v T) uintptr {
	p := new(T)
	*p = v
	pinned = append(pinned, p)
	return uintptr(unsafe.Pointer(p))
}

func cstr(s string) (uintptr, []byte) {
	b := codec.CStringBytes(s)
	pinned = append(pinned, b)
	return uintptr(unsafe.Pointer(&b[0])), b
}

// TestOnResultSingleShot verifies an Ok completion is delivered exactly once
func TestOnResultSingleShot(t *testing.T) {
	reg := newRegistry(t)

	var got []model.Result
	id, err := reg.Arm("activity.update", ResultFunc(func(r model.Result) { got = append(got, r) }))
	require.NoError(t, err)

	onResult(id, 0)
	onResult(id, 0)

	assert.Equal(t, []model.Result{model.ResultOk}, got)
	assert.Equal(t, 0, reg.Outstanding())
}

// TestOnUserResultAbsentUser verifies a nil user pointer reaches the target as nil
func TestOnUserResultAbsentUser(t *testing.T) {
	reg := newRegistry(t)

	called := false
	id, _ := reg.Arm("user.get", UserResultFunc(func(r model.Result, u *model.User) {
		called = true
		assert.Equal(t, model.ResultNotFound, r)
		assert.Nil(t, u)
	}))
	onUserResult(id, uintptr(model.ResultNotFound), 0)
	assert.True(t, called)
}

// TestOnUserResultPresentUser verifies user payload decoding
func TestOnUserResultPresentUser(t *testing.T) {
	reg := newRegistry(t)

	native := codec.EncodeUser(model.User{ID: 42, Username: "someone", Discriminator: "0042"})
	var got *model.User
	id, _ := reg.Arm("user.get", UserResultFunc(func(_ model.Result, u *model.User) { got = u }))
	onUserResult(id, 0, addr(native))

	require.NotNil(t, got)
	assert.Equal(t, "someone", got.Username)
}

// TestOnLobbyResult verifies lobby payload decoding
func TestOnLobbyResult(t *testing.T) {
	reg := newRegistry(t)

	native, err := codec.EncodeLobby(model.Lobby{ID: 9, Type: model.LobbyTypePublic, Capacity: 4})
	require.NoError(t, err)
	var got *model.Lobby
	id, _ := reg.Arm("lobby.create", LobbyResultFunc(func(_ model.Result, l *model.Lobby) { got = l }))
	onLobbyResult(id, 0, addr(native))

	require.NotNil(t, got)
	assert.Equal(t, model.LobbyTypePublic, got.Type)
}

// TestOnFilterReturnsDecision verifies the filter trampoline reports the
// Go decision and the envelope survives the pass
func TestOnFilterReturnsDecision(t *testing.T) {
	reg := newRegistry(t)

	id, _ := reg.Persist("relationship.filter", FilterFunc(func(r model.Relationship) bool {
		return r.Type == model.RelationshipFriend
	}))
	friend, _ := codec.EncodeRelationship(model.Relationship{Type: model.RelationshipFriend})
	blocked, _ := codec.EncodeRelationship(model.Relationship{Type: model.RelationshipBlocked})

	assert.Equal(t, uintptr(1), onFilter(id, addr(friend)))
	assert.Equal(t, uintptr(0), onFilter(id, addr(blocked)))
	assert.Equal(t, uintptr(0), onFilter(id, 0))
	assert.Equal(t, 1, reg.Outstanding())
}

// TestOnLogDecodesLevel verifies the native 1-based level reaches Go 0-based
func TestOnLogDecodesLevel(t *testing.T) {
	reg := newRegistry(t)

	var levels []model.LogLevel
	var msgs []string
	id, _ := reg.Persist("log", LogFunc(func(l model.LogLevel, m string) {
		levels = append(levels, l)
		msgs = append(msgs, m)
	}))

	p, keep := cstr("hello from native")
	onLog(id, 1, p)
	onLog(id, 4, p)
	onLog(id, 9, p)
	runtime.KeepAlive(keep)

	assert.Equal(t, []model.LogLevel{model.LogLevelError, model.LogLevelDebug, model.LogLevelDebug}, levels)
	assert.Equal(t, "hello from native", msgs[0])
}

// TestEventTrampolines verifies event payloads are decoded and delivered
func TestEventTrampolines(t *testing.T) {
	reg := newRegistry(t)
	rec := &recorder{}
	id, err := reg.Persist("events", EventHandler(rec))
	require.NoError(t, err)

	secret, keep := cstr("abc123")
	onActivityJoin(id, secret)
	onActivityJoinRequest(id, 0)
	onActivityInvite(id, 2, 0, 0)
	onActivityInvite(id, 7, 0, 0)

	msg := addr([34]byte([]byte("lobby says hi, plus trailing bytes")))
	onLobbyMessage(id, 1, 2, msg, 14)
	onOverlayToggle(id, 0x100)
	onOverlayToggle(id, 1)
	onSpeaking(id, 1, 2, 1)
	route, keepRoute := cstr("{\"route\":1}")
	onRouteUpdate(id, route)
	runtime.KeepAlive(keep)
	runtime.KeepAlive(keepRoute)

	assert.Equal(t, []string{"abc123"}, rec.joins)
	assert.Equal(t, []*model.User{nil}, rec.requests)
	assert.Equal(t, []model.ActivityActionType{model.ActivityActionSpectate}, rec.invites)
	require.Len(t, rec.messages, 1)
	assert.Equal(t, []byte("lobby says hi,"), rec.messages[0])
	assert.Equal(t, []bool{false, true}, rec.toggles)
	assert.Equal(t, []bool{true}, rec.speaking)
	assert.Equal(t, []string{"{\"route\":1}"}, rec.routes)
	assert.Equal(t, 1, reg.Outstanding())
}

// TestWrongTargetTypeDropped verifies a mismatched target is never called
func TestWrongTargetTypeDropped(t *testing.T) {
	reg := newRegistry(t)
	called := false
	id, _ := reg.Arm("mismatch", func(model.Result) { called = true })
	onResult(id, 0)
	assert.False(t, called)
	assert.Equal(t, 0, reg.Outstanding())
}

// TestListenersFanOut verifies handlers are called in order and can be removed
func TestListenersFanOut(t *testing.T) {
	var l Listeners
	a, b := &recorder{}, &recorder{}
	idA := l.Add(a)
	l.Add(b)
	assert.Equal(t, 2, l.Len())

	l.OnActivityJoin("first")
	assert.True(t, l.Remove(idA))
	assert.False(t, l.Remove(idA))
	l.OnActivityJoin("second")

	assert.Equal(t, []string{"first"}, a.joins)
	assert.Equal(t, []string{"first", "second"}, b.joins)
}

// TestNewTableAndVTables verifies every slot gets a distinct pointer and
// the event structs point at the matching trampolines
func TestNewTableAndVTables(t *testing.T) {
	f := &fakeFactory{}
	tbl := NewTable(f)

	seen := map[uintptr]bool{}
	v := reflect.ValueOf(*tbl)
	for i := 0; i < v.NumField(); i++ {
		p := uintptr(v.Field(i).Uint())
		assert.NotZero(t, p, v.Type().Field(i).Name)
		assert.False(t, seen[p], "duplicate pointer for %s", v.Type().Field(i).Name)
		seen[p] = true
	}
	assert.Len(t, f.fns, v.NumField())

	vt := NewEventVTables(tbl)
	pinned = append(pinned, vt)
	p := abi.DefaultCreateParams()
	vt.Apply(&p, 99)

	assert.Equal(t, uintptr(99), p.EventData)
	acts := (*abi.ActivityEvents)(unsafe.Pointer(p.ActivityEvents))
	assert.Equal(t, tbl.ActivityJoin, acts.OnActivityJoin)
	lobbies := (*abi.LobbyEvents)(unsafe.Pointer(p.LobbyEvents))
	assert.Equal(t, tbl.LobbyNetworkMessage, lobbies.OnNetworkMessage)
	assert.Zero(t, p.ImageEvents)
	assert.Zero(t, p.StoreEvents)
}
