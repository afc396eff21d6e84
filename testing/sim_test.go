package testing

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// values handed to the simulation by address stay reachable from here
var kept []any

func heap[T any](v T) (*T, uintptr) {
	p := new(T)
	*p = v
	kept = append(kept, p)
	return p, uintptr(unsafe.Pointer(p))
}

type recorder struct {
	mu      sync.Mutex
	results []model.Result
	users   []*model.User
	logs    []string
	lobbies []model.Lobby
}

var rec recorder

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results, r.users, r.logs, r.lobbies = nil, nil, nil, nil
}

func (r *recorder) snapshot() ([]model.Result, []*model.User, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Result(nil), r.results...), append([]*model.User(nil), r.users...), append([]string(nil), r.logs...)
}

func onResult(_, result uintptr) uintptr {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.results = append(rec.results, codec.ResultOf(int32(result)))
	return 0
}

func onUser(_, result, user uintptr) uintptr {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.results = append(rec.results, codec.ResultOf(int32(result)))
	rec.users = append(rec.users, codec.UserAt(user))
	return 0
}

func onLobby(_, result, lobby uintptr) uintptr {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.results = append(rec.results, codec.ResultOf(int32(result)))
	if l := codec.LobbyAt(lobby); l != nil {
		rec.lobbies = append(rec.lobbies, *l)
	}
	return 0
}

func onLog(_, _, message uintptr) uintptr {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.logs = append(rec.logs, codec.CString(message))
	return 0
}

func keepFriends(_, rel uintptr) uintptr {
	r := codec.RelationshipAt(rel)
	if r != nil && r.Type == model.RelationshipFriend {
		return 1
	}
	return 0
}

func startSession(t *testing.T, sim *SimulatedSDK) uintptr {
	t.Helper()
	params := abi.DefaultCreateParams()
	params.ClientID = 123456789
	p, _ := heap(params)
	out, _ := heap(uintptr(0))

	r, err := sim.Create(abi.Version, p, out)
	require.NoError(t, err)
	require.Equal(t, codec.NativeResult(model.ResultOk), r)
	require.NotZero(t, *out)
	return *out
}

func mustManager(t *testing.T, sim *SimulatedSDK, core uintptr, slot abi.Slot) uintptr {
	t.Helper()
	h, err := sim.Call(core, slot)
	require.NoError(t, err)
	require.NotZero(t, h)
	return h
}

func pump(t *testing.T, sim *SimulatedSDK, core uintptr) {
	t.Helper()
	r, err := sim.Call(core, abi.CoreRunCallbacks)
	require.NoError(t, err)
	require.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))
}

// TestNewSimulatedSDK verifies the initial state of a simulation
func TestNewSimulatedSDK(t *testing.T) {
	sim := NewSimulatedSDK()

	assert.True(t, sim.IsSimulation())
	assert.Equal(t, 1, sim.Refs())
	assert.Equal(t, 0, sim.LiveSessions())
	assert.Equal(t, int64(1001), sim.CurrentUser().ID)
}

// TestNewCallbackDedupes verifies one pointer per function
func TestNewCallbackDedupes(t *testing.T) {
	sim := NewSimulatedSDK()

	a := sim.NewCallback(onResult)
	b := sim.NewCallback(onResult)
	c := sim.NewCallback(onUser)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Panics(t, func() { sim.NewCallback(42) })
}

// TestCreateResults verifies the creation failure modes
func TestCreateResults(t *testing.T) {
	tests := []struct {
		name    string
		version int32
		flags   model.CreateFlags
		setup   func(*SimulatedSDK)
		want    model.Result
	}{
		{name: "ok", version: abi.Version, want: model.ResultOk},
		{name: "wrong version", version: 3, want: model.ResultInvalidVersion},
		{
			name:    "injected failure",
			version: abi.Version,
			setup:   func(s *SimulatedSDK) { s.FailCreate(model.ResultInternalError) },
			want:    model.ResultInternalError,
		},
		{
			name:    "discord not running",
			version: abi.Version,
			setup:   func(s *SimulatedSDK) { s.SetDiscordRunning(false) },
			want:    model.ResultNotRunning,
		},
		{
			name:    "discord not required",
			version: abi.Version,
			flags:   model.CreateFlagsNoRequireDiscord,
			setup:   func(s *SimulatedSDK) { s.SetDiscordRunning(false) },
			want:    model.ResultOk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulatedSDK()
			if tt.setup != nil {
				tt.setup(sim)
			}
			params := abi.DefaultCreateParams()
			params.ClientID = 1
			params.Flags = uint64(tt.flags)
			p, _ := heap(params)
			out, _ := heap(uintptr(0))

			r, err := sim.Create(tt.version, p, out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codec.ResultOf(r))
			assert.Equal(t, tt.want.Ok(), *out != 0)
		})
	}
}

// TestCallValidation verifies handles are checked before dispatch
func TestCallValidation(t *testing.T) {
	sim := NewSimulatedSDK()
	core := startSession(t, sim)
	users := mustManager(t, sim, core, abi.CoreGetUserManager)

	assert.Equal(t, users, mustManager(t, sim, core, abi.CoreGetUserManager))

	_, err := sim.Call(0xbad0, abi.CoreRunCallbacks)
	assert.ErrorIs(t, err, ErrUnknownObject)

	_, err = sim.Call(users, abi.CoreRunCallbacks)
	assert.ErrorIs(t, err, ErrWrongInterface)

	_, err = sim.Call(core, abi.CoreGetApplicationManager)
	assert.ErrorIs(t, err, ErrUnknownSlot)

	_, err = sim.Call(core, abi.CoreDestroy)
	require.NoError(t, err)
	_, err = sim.Call(users, abi.UserGetCurrentUser, 0)
	assert.ErrorIs(t, err, ErrSessionDestroyed)
	assert.Equal(t, 0, sim.LiveSessions())
}

// TestAsyncDeliveredOnPump verifies async results wait for run_callbacks
func TestAsyncDeliveredOnPump(t *testing.T) {
	rec.reset()
	sim := NewSimulatedSDK()
	core := startSession(t, sim)
	users := mustManager(t, sim, core, abi.CoreGetUserManager)
	cb := sim.NewCallback(onUser)

	_, err := sim.Call(users, abi.UserGetUser, 2002, 7, cb)
	require.NoError(t, err)
	_, err = sim.Call(users, abi.UserGetUser, 9999, 8, cb)
	require.NoError(t, err)

	results, _, _ := rec.snapshot()
	assert.Empty(t, results)
	assert.Equal(t, 2, sim.Pending())

	pump(t, sim, core)

	results, got, _ := rec.snapshot()
	require.Len(t, results, 2)
	assert.Equal(t, model.ResultOk, results[0])
	require.NotNil(t, got[0])
	assert.Equal(t, "friend-one", got[0].Username)
	assert.Equal(t, model.ResultNotFound, results[1])
	assert.Nil(t, got[1])
	assert.Equal(t, 0, sim.Pending())
}

// TestFailNext verifies injected failures on sync and async slots
func TestFailNext(t *testing.T) {
	rec.reset()
	sim := NewSimulatedSDK()
	core := startSession(t, sim)
	activities := mustManager(t, sim, core, abi.CoreGetActivityManager)
	users := mustManager(t, sim, core, abi.CoreGetUserManager)

	sim.FailNext(abi.ActivityClearActivity, model.ResultRateLimited)
	_, err := sim.Call(activities, abi.ActivityClearActivity, 1, sim.NewCallback(onResult))
	require.NoError(t, err)
	pump(t, sim, core)

	results, _, _ := rec.snapshot()
	assert.Equal(t, []model.Result{model.ResultRateLimited}, results)

	sim.FailNext(abi.UserGetCurrentUser, model.ResultNotAuthenticated)
	_, out := heap(abi.User{})
	r, err := sim.Call(users, abi.UserGetCurrentUser, out)
	require.NoError(t, err)
	assert.Equal(t, model.ResultNotAuthenticated, codec.ResultOf(int32(r)))

	r, err = sim.Call(users, abi.UserGetCurrentUser, out)
	require.NoError(t, err)
	assert.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))
	assert.Equal(t, 2, sim.CallCount("user.get_current_user"))
}

// TestImageData verifies the valid prefix and the buffer size check
func TestImageData(t *testing.T) {
	sim := NewSimulatedSDK()
	core := startSession(t, sim)
	images := mustManager(t, sim, core, abi.CoreGetImageManager)
	_, h := heap(abi.ImageHandle{ID: 2002, Size: 64})

	buf := make([]byte, 2048)
	kept = append(kept, buf)
	data := uintptr(unsafe.Pointer(&buf[0]))

	r, err := sim.Call(images, abi.ImageGetData, h, data, 2048)
	require.NoError(t, err)
	assert.Equal(t, model.ResultNotFetched, codec.ResultOf(int32(r)))

	_, err = sim.Call(images, abi.ImageFetch, h, 0, 0, sim.NewCallback(onResult))
	require.NoError(t, err)

	dims, dp := heap(abi.ImageDimensions{})
	r, err = sim.Call(images, abi.ImageGetDimensions, h, dp)
	require.NoError(t, err)
	require.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))
	assert.Equal(t, uint32(16), dims.Width)
	assert.Equal(t, uint32(8), dims.Height)

	r, err = sim.Call(images, abi.ImageGetData, h, data, 100)
	require.NoError(t, err)
	assert.Equal(t, model.ResultInsufficientBuffer, codec.ResultOf(int32(r)))

	r, err = sim.Call(images, abi.ImageGetData, h, data, 2048)
	require.NoError(t, err)
	assert.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))
	assert.Equal(t, byte(10), buf[10])
	assert.Equal(t, byte(0), buf[600])
}

// TestRelationshipFilter verifies the synchronous filter pass
func TestRelationshipFilter(t *testing.T) {
	sim := NewSimulatedSDK()
	core := startSession(t, sim)
	rels := mustManager(t, sim, core, abi.CoreGetRelationshipManager)
	count, cp := heap(int32(0))

	r, err := sim.Call(rels, abi.RelationshipCount, cp)
	require.NoError(t, err)
	assert.Equal(t, model.ResultNotFiltered, codec.ResultOf(int32(r)))

	_, err = sim.Call(rels, abi.RelationshipFilter, 0, sim.NewCallback(keepFriends))
	require.NoError(t, err)

	r, err = sim.Call(rels, abi.RelationshipCount, cp)
	require.NoError(t, err)
	require.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))
	assert.Equal(t, int32(1), *count)

	out, op := heap(abi.Relationship{})
	r, err = sim.Call(rels, abi.RelationshipGetAt, 0, op)
	require.NoError(t, err)
	require.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))
	assert.Equal(t, "friend-one", codec.DecodeRelationship(out).User.Username)
}

// TestTriggerLogFiltersLevel verifies the hook sees only levels at or
// above the installed minimum
func TestTriggerLogFiltersLevel(t *testing.T) {
	rec.reset()
	sim := NewSimulatedSDK()
	core := startSession(t, sim)

	assert.False(t, sim.TriggerLog(model.LogLevelError, "no hook yet"))

	warn, err := codec.EncodeLogLevel(model.LogLevelWarn)
	require.NoError(t, err)
	_, err = sim.Call(core, abi.CoreSetLogHook, uintptr(warn), 0, sim.NewCallback(onLog))
	require.NoError(t, err)

	assert.True(t, sim.TriggerLog(model.LogLevelError, "disk on fire"))
	assert.False(t, sim.TriggerLog(model.LogLevelDebug, "chatter"))

	_, _, logs := rec.snapshot()
	assert.Equal(t, []string{"disk on fire"}, logs)
}

// TestLobbyLifecycle verifies transactions, search and loopback messages
func TestLobbyLifecycle(t *testing.T) {
	rec.reset()
	sim := NewSimulatedSDK()
	core := startSession(t, sim)
	lobbies := mustManager(t, sim, core, abi.CoreGetLobbyManager)

	txn, tp := heap(uintptr(0))
	r, err := sim.Call(lobbies, abi.LobbyGetCreateTransaction, tp)
	require.NoError(t, err)
	require.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))

	public, err := codec.EncodeLobbyType(model.LobbyTypePublic)
	require.NoError(t, err)
	_, err = sim.Call(*txn, abi.LobbyTxnSetType, uintptr(public))
	require.NoError(t, err)
	k, _ := heap(*codec.MetadataKey("mode"))
	v, _ := heap(*codec.MetadataValue("ranked"))
	_, err = sim.Call(*txn, abi.LobbyTxnSetMetadata, uintptr(unsafe.Pointer(k)), uintptr(unsafe.Pointer(v)))
	require.NoError(t, err)

	_, err = sim.Call(lobbies, abi.LobbyCreateLobby, *txn, 0, sim.NewCallback(onLobby))
	require.NoError(t, err)
	pump(t, sim, core)

	rec.mu.Lock()
	require.Len(t, rec.lobbies, 1)
	created := rec.lobbies[0]
	rec.mu.Unlock()
	assert.Equal(t, model.LobbyTypePublic, created.Type)
	assert.Equal(t, int64(1001), created.OwnerID)

	_, err = sim.Call(*txn, abi.LobbyTxnSetLocked, 1)
	assert.ErrorIs(t, err, ErrUnknownObject, "consumed transaction must be gone")

	query, qp := heap(uintptr(0))
	_, err = sim.Call(lobbies, abi.LobbyGetSearchQuery, qp)
	require.NoError(t, err)
	eq, err := codec.EncodeLobbySearchComparison(model.LobbySearchEqual)
	require.NoError(t, err)
	str, err := codec.EncodeLobbySearchCast(model.LobbySearchCastString)
	require.NoError(t, err)
	fk, _ := heap(*codec.MetadataKey("metadata.mode"))
	r, err = sim.Call(*query, abi.SearchFilter, uintptr(unsafe.Pointer(fk)), uintptr(uint32(eq)), uintptr(str), uintptr(unsafe.Pointer(v)))
	require.NoError(t, err)
	require.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))

	_, err = sim.Call(lobbies, abi.LobbySearch, *query, 0, sim.NewCallback(onResult))
	require.NoError(t, err)
	pump(t, sim, core)

	n, np := heap(int32(0))
	_, err = sim.Call(lobbies, abi.LobbyLobbyCount, np)
	require.NoError(t, err)
	assert.Equal(t, int32(1), *n)

	id, ip := heap(int64(0))
	r, err = sim.Call(lobbies, abi.LobbyGetLobbyID, 0, ip)
	require.NoError(t, err)
	require.Equal(t, model.ResultOk, codec.ResultOf(int32(r)))
	assert.Equal(t, created.ID, *id)
}

// TestReleaseRefcount verifies acquire and release balance
func TestReleaseRefcount(t *testing.T) {
	sim := NewSimulatedSDK()
	sim.Acquire()
	assert.Equal(t, 2, sim.Refs())
	require.NoError(t, sim.Release())
	require.NoError(t, sim.Release())
	assert.Error(t, sim.Release())

	out, _ := heap(uintptr(0))
	p, _ := heap(abi.DefaultCreateParams())
	_, err := sim.Create(abi.Version, p, out)
	assert.Error(t, err)
}
