package gamesdk

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/handle"
	"github.com/opd-ai/gamesdk/model"
	simtest "github.com/opd-ai/gamesdk/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = 123456789

// events records push events in delivery order.
type events struct {
	EventAdapter

	mu       sync.Mutex
	joins    []string
	messages []string
	network  []string
	toggles  []bool
	onJoin   func(secret string)
}

func (e *events) OnActivityJoin(secret string) {
	e.mu.Lock()
	e.joins = append(e.joins, secret)
	hook := e.onJoin
	e.mu.Unlock()
	if hook != nil {
		hook(secret)
	}
}

func (e *events) OnLobbyMessage(lobbyID, userID int64, data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, fmt.Sprintf("%d/%d:%s", lobbyID, userID, data))
}

func (e *events) OnNetworkMessage(peerID uint64, channel uint8, data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.network = append(e.network, fmt.Sprintf("%d/%d:%s", peerID, channel, data))
}

func (e *events) OnOverlayToggle(locked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toggles = append(e.toggles, locked)
}

func (e *events) joined() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.joins...)
}

func newTestCore(t *testing.T, h EventHandler) (*Core, *simtest.SimulatedSDK) {
	t.Helper()
	sim := simtest.NewSimulatedSDK()
	core, err := Create(sim, CreateParams{ClientID: testClientID, Handler: h})
	require.NoError(t, err)
	t.Cleanup(core.Destroy)
	return core, sim
}

// TestCreateValidation verifies arguments are checked before any native call
func TestCreateValidation(t *testing.T) {
	sim := simtest.NewSimulatedSDK()

	_, err := Create(nil, CreateParams{ClientID: 1})
	assert.ErrorIs(t, err, ErrNilLibrary)

	_, err = Create(sim, CreateParams{})
	assert.ErrorIs(t, err, ErrInvalidClientID)

	assert.Zero(t, sim.CallCount("DiscordCreate"))
	assert.Equal(t, 1, sim.Refs())
}

// TestCreateFailureReleasesEverything verifies a failed DiscordCreate
// leaves no envelopes and no library reference behind
func TestCreateFailureReleasesEverything(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*simtest.SimulatedSDK)
		want  model.Result
	}{
		{"internal error", func(s *simtest.SimulatedSDK) { s.FailCreate(model.ResultInternalError) }, model.ResultInternalError},
		{"client not running", func(s *simtest.SimulatedSDK) { s.SetDiscordRunning(false) }, model.ResultNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := simtest.NewSimulatedSDK()
			tt.setup(sim)
			before := handle.Default.Len()

			core, err := Create(sim, CreateParams{ClientID: testClientID})
			require.Error(t, err)
			assert.Nil(t, core)

			var re *ResultError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, "DiscordCreate", re.Op)
			assert.ErrorIs(t, err, tt.want)

			assert.Equal(t, before, handle.Default.Len())
			assert.Equal(t, 1, sim.Refs())
		})
	}
}

// TestCreateHoldsLibraryReference verifies the session keeps its own
// reference until Destroy
func TestCreateHoldsLibraryReference(t *testing.T) {
	sim := simtest.NewSimulatedSDK()
	core, err := Create(sim, CreateParams{ClientID: testClientID})
	require.NoError(t, err)

	assert.Equal(t, 2, sim.Refs())
	assert.Equal(t, int64(testClientID), core.ClientID())
	assert.Equal(t, 1, core.Outstanding(), "only the event envelope")

	core.Destroy()
	assert.Equal(t, 1, sim.Refs())
	assert.Equal(t, 0, core.Outstanding())
}

// TestActivityJoinDelivered verifies events arrive on the pump, once,
// and that the pump keeps working afterwards
func TestActivityJoinDelivered(t *testing.T) {
	ev := &events{}
	core, sim := newTestCore(t, ev)

	require.Equal(t, 1, sim.TriggerActivityJoin("abc123"))
	assert.Empty(t, ev.joined())

	require.NoError(t, core.RunCallbacks())
	assert.Equal(t, []string{"abc123"}, ev.joined())

	require.NoError(t, core.RunCallbacks())
	assert.Equal(t, []string{"abc123"}, ev.joined())
	assert.Equal(t, 1, core.Outstanding())
}

// TestListenersFanOut verifies every listener sees each event and removed
// listeners see nothing
func TestListenersFanOut(t *testing.T) {
	first, second := &events{}, &events{}
	core, sim := newTestCore(t, first)
	id := core.AddListener(second)

	sim.TriggerActivityJoin("one")
	require.NoError(t, core.RunCallbacks())

	assert.True(t, core.RemoveListener(id))
	assert.False(t, core.RemoveListener(id))

	sim.TriggerActivityJoin("two")
	require.NoError(t, core.RunCallbacks())

	assert.Equal(t, []string{"one", "two"}, first.joined())
	assert.Equal(t, []string{"one"}, second.joined())
}

// TestCallsFromInsideCallbacks verifies a callback can use the session
// while the pump holds the session lock
func TestCallsFromInsideCallbacks(t *testing.T) {
	ev := &events{}
	core, sim := newTestCore(t, ev)

	var (
		name    string
		callErr error
		pumpErr error
	)
	ev.onJoin = func(string) {
		u, err := core.UserManager().CurrentUser()
		callErr = err
		if u != nil {
			name = u.Username
		}
		pumpErr = core.RunCallbacks()
	}

	sim.TriggerActivityJoin("secret")
	require.NoError(t, core.RunCallbacks())

	require.NoError(t, callErr)
	assert.Equal(t, "simulated", name)
	assert.ErrorIs(t, pumpErr, ErrReentrantPump)
}

// TestUpdateActivityFiresOnce verifies a single-shot callback runs exactly
// once and its envelope is gone afterwards
func TestUpdateActivityFiresOnce(t *testing.T) {
	core, sim := newTestCore(t, nil)
	activities := core.ActivityManager()

	var results []model.Result
	err := activities.UpdateActivity(model.Activity{State: "In a match", Details: "Ranked"}, func(r model.Result) {
		results = append(results, r)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, core.Outstanding())

	require.NoError(t, core.RunCallbacks())
	require.NoError(t, core.RunCallbacks())

	assert.Equal(t, []model.Result{model.ResultOk}, results)
	assert.Equal(t, 1, core.Outstanding())
	require.NotNil(t, sim.Activity())
	assert.Equal(t, "In a match", sim.Activity().State)
}

// TestAsyncFailureResult verifies a native failure reported through the
// callback reaches the closure
func TestAsyncFailureResult(t *testing.T) {
	core, sim := newTestCore(t, nil)

	sim.FailNext(abi.ActivityClearActivity, model.ResultRateLimited)
	var got model.Result = -1
	require.NoError(t, core.ActivityManager().ClearActivity(func(r model.Result) { got = r }))
	require.NoError(t, core.RunCallbacks())

	assert.Equal(t, model.ResultRateLimited, got)
}

// failingLibrary fails one slot before it reaches native code.
type failingLibrary struct {
	*simtest.SimulatedSDK
	slot abi.Slot
}

var errInjected = errors.New("injected call failure")

func (l *failingLibrary) Call(h uintptr, slot abi.Slot, args ...uintptr) (uintptr, error) {
	if slot == l.slot {
		return 0, errInjected
	}
	return l.SimulatedSDK.Call(h, slot, args...)
}

// TestFailedCallReleasesEnvelope verifies an envelope armed for a call
// that never reached native code is released at once
func TestFailedCallReleasesEnvelope(t *testing.T) {
	lib := &failingLibrary{SimulatedSDK: simtest.NewSimulatedSDK(), slot: abi.ActivityUpdateActivity}
	core, err := Create(lib, CreateParams{ClientID: testClientID})
	require.NoError(t, err)
	defer core.Destroy()

	called := false
	err = core.ActivityManager().UpdateActivity(model.Activity{State: "x"}, func(model.Result) { called = true })
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, 1, core.Outstanding())
	require.NoError(t, core.RunCallbacks())
	assert.False(t, called)
}

// TestUserAbsent verifies a missing user is delivered as nil with the
// native result
func TestUserAbsent(t *testing.T) {
	core, _ := newTestCore(t, nil)
	users := core.UserManager()

	var (
		result model.Result = -1
		user   *model.User
		calls  int
	)
	require.NoError(t, users.User(9999, func(r model.Result, u *model.User) {
		calls++
		result, user = r, u
	}))
	require.NoError(t, core.RunCallbacks())

	assert.Equal(t, 1, calls)
	assert.Equal(t, model.ResultNotFound, result)
	assert.Nil(t, user)

	require.NoError(t, users.User(2002, func(r model.Result, u *model.User) {
		result, user = r, u
	}))
	require.NoError(t, core.RunCallbacks())
	require.NotNil(t, user)
	assert.Equal(t, "friend-one", user.Username)

	assert.ErrorIs(t, users.User(1, nil), ErrNilCallback)
}

// TestLogHookFromForeignThread verifies the hook runs when native code
// logs from a thread of its own, and only at or above the minimum level
func TestLogHookFromForeignThread(t *testing.T) {
	core, sim := newTestCore(t, nil)

	var (
		mu   sync.Mutex
		logs []string
	)
	hook := func(level model.LogLevel, msg string) {
		mu.Lock()
		defer mu.Unlock()
		logs = append(logs, level.String()+":"+msg)
	}

	require.NoError(t, core.SetLogHook(model.LogLevelWarn, hook))
	assert.Equal(t, 2, core.Outstanding())

	assert.True(t, sim.TriggerLog(model.LogLevelError, "lost connection"))
	assert.True(t, sim.TriggerLog(model.LogLevelWarn, "slow frame"))
	assert.False(t, sim.TriggerLog(model.LogLevelDebug, "noise"))

	mu.Lock()
	assert.Equal(t, []string{"error:lost connection", "warn:slow frame"}, logs)
	mu.Unlock()

	require.NoError(t, core.SetLogHook(model.LogLevelDebug, hook))
	assert.Equal(t, 2, core.Outstanding(), "replacing the hook releases the old one")
	assert.True(t, sim.TriggerLog(model.LogLevelDebug, "noise"))

	assert.ErrorIs(t, core.SetLogHook(model.LogLevelInfo, nil), ErrNilCallback)
}

// TestDestroyInvalidatesHandles verifies every handle is rejected after
// Destroy and that Destroy is idempotent
func TestDestroyInvalidatesHandles(t *testing.T) {
	sim := simtest.NewSimulatedSDK()
	core, err := Create(sim, CreateParams{ClientID: testClientID})
	require.NoError(t, err)

	activities := core.ActivityManager()
	lobbies := core.LobbyManager()
	txn, err := lobbies.CreateTransaction()
	require.NoError(t, err)

	core.Destroy()
	core.Destroy()

	assert.True(t, core.Destroyed())
	assert.Equal(t, 1, sim.CallCount("core.destroy"))
	assert.Equal(t, 0, sim.LiveSessions())

	assert.ErrorIs(t, core.RunCallbacks(), handle.ErrInvalidHandle)
	assert.ErrorIs(t, activities.RegisterSteam(42), handle.ErrInvalidHandle)
	assert.ErrorIs(t, txn.SetCapacity(4), handle.ErrInvalidHandle)
	_, err = core.UserManager().CurrentUser()
	assert.ErrorIs(t, err, handle.ErrInvalidHandle)
}

// TestDestroyReapsOutstanding verifies callbacks pending at Destroy are
// released and never run
func TestDestroyReapsOutstanding(t *testing.T) {
	sim := simtest.NewSimulatedSDK()
	core, err := Create(sim, CreateParams{ClientID: testClientID})
	require.NoError(t, err)
	before := handle.Default.Len()

	called := false
	require.NoError(t, core.ActivityManager().UpdateActivity(model.Activity{State: "x"}, func(model.Result) { called = true }))
	require.NoError(t, core.SetLogHook(model.LogLevelInfo, func(model.LogLevel, string) {}))
	assert.Equal(t, 3, core.Outstanding())

	core.Destroy()

	assert.False(t, called)
	assert.Equal(t, 0, core.Outstanding())
	assert.Equal(t, before-1, handle.Default.Len())
	assert.Equal(t, 0, sim.Pending())
}

// TestDestroyFromCallback verifies Destroy inside a callback takes effect
// once the pump returns
func TestDestroyFromCallback(t *testing.T) {
	ev := &events{}
	sim := simtest.NewSimulatedSDK()
	core, err := Create(sim, CreateParams{ClientID: testClientID, Handler: ev})
	require.NoError(t, err)

	ev.onJoin = func(string) {
		core.Destroy()
		assert.False(t, core.Destroyed())
	}
	sim.TriggerActivityJoin("bye")

	require.NoError(t, core.RunCallbacks())
	assert.True(t, core.Destroyed())
	assert.Equal(t, 1, sim.Refs())
}

// TestDestroyFromSynchronousCallback verifies Destroy inside a callback
// delivered during an ordinary call is deferred until that call returns
func TestDestroyFromSynchronousCallback(t *testing.T) {
	sim := simtest.NewSimulatedSDK()
	core, err := Create(sim, CreateParams{ClientID: testClientID})
	require.NoError(t, err)
	rels := core.RelationshipManager()

	visited := 0
	require.NoError(t, rels.Filter(func(model.Relationship) bool {
		visited++
		core.Destroy()
		assert.False(t, core.Destroyed())
		return true
	}))

	assert.Positive(t, visited)
	assert.True(t, core.Destroyed())
	assert.Equal(t, 1, sim.CallCount("core.destroy"))
	assert.Equal(t, 1, sim.Refs())
	assert.Equal(t, 0, core.Outstanding())

	_, err = rels.Count()
	assert.ErrorIs(t, err, handle.ErrInvalidHandle)
}

// TestLogHookWaitsForSessionLock verifies a hook running on a native worker
// thread blocks on the session lock while the pump holds it
func TestLogHookWaitsForSessionLock(t *testing.T) {
	if _, ok := bridge.ThreadID(); !ok {
		t.Skip("thread ids unavailable on this platform")
	}
	ev := &events{}
	core, sim := newTestCore(t, ev)
	users := core.UserManager()

	var (
		returned atomic.Bool
		hookErr  error
		entered  = make(chan struct{})
		logged   = make(chan bool, 1)
	)
	require.NoError(t, core.SetLogHook(model.LogLevelInfo, func(model.LogLevel, string) {
		close(entered)
		_, hookErr = users.CurrentUser()
		returned.Store(true)
	}))

	blocked := false
	ev.onJoin = func(string) {
		go func() { logged <- sim.TriggerLog(model.LogLevelError, "from worker") }()
		<-entered
		time.Sleep(50 * time.Millisecond)
		blocked = !returned.Load()
	}

	sim.TriggerActivityJoin("pump")
	require.NoError(t, core.RunCallbacks())

	assert.True(t, <-logged)
	assert.True(t, blocked, "hook reached native code while the pump held the lock")
	require.NoError(t, hookErr)
	assert.True(t, returned.Load())
}

// TestConcurrentCallsDuringPump verifies calls from other goroutines are
// serialized with the pump
func TestConcurrentCallsDuringPump(t *testing.T) {
	core, _ := newTestCore(t, nil)
	activities := core.ActivityManager()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				err := activities.UpdateActivity(model.Activity{State: fmt.Sprintf("%d-%d", i, j)}, func(model.Result) {
					mu.Lock()
					results++
					mu.Unlock()
				})
				assert.NoError(t, err)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for pumping := true; pumping; {
		select {
		case <-done:
			pumping = false
		default:
		}
		require.NoError(t, core.RunCallbacks())
	}
	require.NoError(t, core.RunCallbacks())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 160, results)
	assert.Equal(t, 1, core.Outstanding())
}
