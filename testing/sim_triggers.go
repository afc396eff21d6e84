package testing

import (
	"runtime"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
	"github.com/sirupsen/logrus"
)

// Trigger methods queue an event on every live session. Like the native
// SDK, the event is delivered during the next run_callbacks. They return
// the number of sessions the event was queued on.

func (s *SimulatedSDK) broadcast(name string, fn func(ss *session) func()) int {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, ss := range s.sessions {
		if ss.destroyed {
			continue
		}
		if deliver := fn(ss); deliver != nil {
			ss.later(deliver)
			n++
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedSDK." + name,
		"sessions": n,
	}).Debug("Simulated event queued")
	return n
}

func userArg(f *frame, u *model.User) uintptr {
	if u == nil {
		return 0
	}
	rec := codec.EncodeUser(*u)
	return ref(f, &rec)
}

func activityEvent(s *SimulatedSDK, ss *session, pick func(*abi.ActivityEvents) uintptr, build func(*frame) []uintptr) func() {
	return func() { emit(s, ss, ss.params.ActivityEvents, pick, build) }
}

// TriggerActivityJoin delivers a join event carrying secret.
func (s *SimulatedSDK) TriggerActivityJoin(secret string) int {
	return s.broadcast("TriggerActivityJoin", func(ss *session) func() {
		return activityEvent(s, ss, func(e *abi.ActivityEvents) uintptr { return e.OnActivityJoin }, func(f *frame) []uintptr {
			return []uintptr{f.cstr(secret)}
		})
	})
}

// TriggerActivitySpectate delivers a spectate event carrying secret.
func (s *SimulatedSDK) TriggerActivitySpectate(secret string) int {
	return s.broadcast("TriggerActivitySpectate", func(ss *session) func() {
		return activityEvent(s, ss, func(e *abi.ActivityEvents) uintptr { return e.OnActivitySpectate }, func(f *frame) []uintptr {
			return []uintptr{f.cstr(secret)}
		})
	})
}

// TriggerActivityJoinRequest delivers a join request from user. A nil user
// is delivered as a null pointer.
func (s *SimulatedSDK) TriggerActivityJoinRequest(user *model.User) int {
	return s.broadcast("TriggerActivityJoinRequest", func(ss *session) func() {
		return activityEvent(s, ss, func(e *abi.ActivityEvents) uintptr { return e.OnActivityJoinRequest }, func(f *frame) []uintptr {
			return []uintptr{userArg(f, user)}
		})
	})
}

// TriggerActivityInvite delivers an invite. The action is passed as its
// raw native value so tests can send values outside the enumeration.
func (s *SimulatedSDK) TriggerActivityInvite(nativeAction int32, user model.User, activity model.Activity) int {
	rec, err := codec.EncodeActivity(activity)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SimulatedSDK.TriggerActivityInvite",
			"error":    err.Error(),
		}).Error("Cannot encode simulated invite activity")
		return 0
	}
	return s.broadcast("TriggerActivityInvite", func(ss *session) func() {
		return activityEvent(s, ss, func(e *abi.ActivityEvents) uintptr { return e.OnActivityInvite }, func(f *frame) []uintptr {
			act := rec
			return []uintptr{uintptr(uint32(nativeAction)), userArg(f, &user), ref(f, &act)}
		})
	})
}

// TriggerCurrentUserUpdate replaces the current user and announces it.
func (s *SimulatedSDK) TriggerCurrentUserUpdate(user model.User) int {
	s.mu.Lock()
	s.currentUser = user
	s.users[user.ID] = user
	s.mu.Unlock()
	return s.broadcast("TriggerCurrentUserUpdate", func(ss *session) func() {
		return func() {
			emit(s, ss, ss.params.UserEvents, func(e *abi.UserEvents) uintptr { return e.OnCurrentUserUpdate }, nil)
		}
	})
}

// TriggerRelationshipRefresh announces that the relationship list changed.
func (s *SimulatedSDK) TriggerRelationshipRefresh() int {
	return s.broadcast("TriggerRelationshipRefresh", func(ss *session) func() {
		return func() {
			emit(s, ss, ss.params.RelationshipEvents, func(e *abi.RelationshipEvents) uintptr { return e.OnRefresh }, nil)
		}
	})
}

// TriggerRelationshipUpdate stores r and announces the change.
func (s *SimulatedSDK) TriggerRelationshipUpdate(r model.Relationship) int {
	rec, err := codec.EncodeRelationship(r)
	if err != nil {
		return 0
	}
	s.mu.Lock()
	replaced := false
	for i := range s.relationships {
		if s.relationships[i].User.ID == r.User.ID {
			s.relationships[i] = r
			replaced = true
		}
	}
	if !replaced {
		s.relationships = append(s.relationships, r)
	}
	s.users[r.User.ID] = r.User
	s.mu.Unlock()

	return s.broadcast("TriggerRelationshipUpdate", func(ss *session) func() {
		return func() {
			emit(s, ss, ss.params.RelationshipEvents, func(e *abi.RelationshipEvents) uintptr { return e.OnRelationshipUpdate }, func(f *frame) []uintptr {
				c := rec
				return []uintptr{ref(f, &c)}
			})
		}
	})
}

func lobbyEventFor(s *SimulatedSDK, ss *session, pick func(*abi.LobbyEvents) uintptr, build func(*frame) []uintptr) func() {
	return func() { emit(s, ss, ss.params.LobbyEvents, pick, build) }
}

// TriggerMemberConnect adds user to a lobby the session knows and
// announces it.
func (s *SimulatedSDK) TriggerMemberConnect(lobbyID int64, user model.User) int {
	return s.broadcast("TriggerMemberConnect", func(ss *session) func() {
		l, found := ss.lobby(lobbyID)
		if !found {
			return nil
		}
		l.addMember(user.ID)
		s.users[user.ID] = user
		return lobbyEventFor(s, ss, func(e *abi.LobbyEvents) uintptr { return e.OnMemberConnect }, func(*frame) []uintptr {
			return []uintptr{uintptr(lobbyID), uintptr(user.ID)}
		})
	})
}

// TriggerMemberDisconnect removes a member and announces it.
func (s *SimulatedSDK) TriggerMemberDisconnect(lobbyID, userID int64) int {
	return s.broadcast("TriggerMemberDisconnect", func(ss *session) func() {
		l, found := ss.lobby(lobbyID)
		if !found || !l.isMember(userID) {
			return nil
		}
		l.removeMember(userID)
		return lobbyEventFor(s, ss, func(e *abi.LobbyEvents) uintptr { return e.OnMemberDisconnect }, func(*frame) []uintptr {
			return []uintptr{uintptr(lobbyID), uintptr(userID)}
		})
	})
}

// TriggerLobbyMessage delivers a lobby message from userID.
func (s *SimulatedSDK) TriggerLobbyMessage(lobbyID, userID int64, data []byte) int {
	payload := append([]byte(nil), data...)
	return s.broadcast("TriggerLobbyMessage", func(ss *session) func() {
		if _, found := ss.lobby(lobbyID); !found {
			return nil
		}
		return lobbyEventFor(s, ss, func(e *abi.LobbyEvents) uintptr { return e.OnLobbyMessage }, func(f *frame) []uintptr {
			p, n := f.bytes(payload)
			return []uintptr{uintptr(lobbyID), uintptr(userID), p, n}
		})
	})
}

// TriggerSpeaking reports a member starting or stopping to speak.
func (s *SimulatedSDK) TriggerSpeaking(lobbyID, userID int64, speaking bool) int {
	return s.broadcast("TriggerSpeaking", func(ss *session) func() {
		if _, found := ss.lobby(lobbyID); !found {
			return nil
		}
		return lobbyEventFor(s, ss, func(e *abi.LobbyEvents) uintptr { return e.OnSpeaking }, func(*frame) []uintptr {
			// only the low byte carries a C bool; the rest is junk on purpose
			v := uintptr(0xab00)
			if speaking {
				v |= 1
			}
			return []uintptr{uintptr(lobbyID), uintptr(userID), v}
		})
	})
}

// TriggerNetworkMessage delivers a peer to peer message.
func (s *SimulatedSDK) TriggerNetworkMessage(peerID uint64, channel uint8, data []byte) int {
	payload := append([]byte(nil), data...)
	return s.broadcast("TriggerNetworkMessage", func(ss *session) func() {
		return func() {
			emit(s, ss, ss.params.NetworkEvents, func(e *abi.NetworkEvents) uintptr { return e.OnMessage }, func(f *frame) []uintptr {
				p, n := f.bytes(payload)
				return []uintptr{uintptr(peerID), uintptr(channel), p, n}
			})
		}
	})
}

// TriggerRouteUpdate announces a new route for the local peer.
func (s *SimulatedSDK) TriggerRouteUpdate(route string) int {
	return s.broadcast("TriggerRouteUpdate", func(ss *session) func() {
		return func() {
			emit(s, ss, ss.params.NetworkEvents, func(e *abi.NetworkEvents) uintptr { return e.OnRouteUpdate }, func(f *frame) []uintptr {
				return []uintptr{f.cstr(route)}
			})
		}
	})
}

// TriggerLog calls the installed log hook from a goroutine locked to its
// own OS thread, the way the native SDK logs from its worker threads. It
// waits for the hook to return and reports whether a hook accepted the
// level.
func (s *SimulatedSDK) TriggerLog(level model.LogLevel, message string) bool {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")

	native, err := codec.EncodeLogLevel(level)
	if err != nil {
		return false
	}
	return s.TriggerRawLog(native, message)
}

// TriggerRawLog is TriggerLog with the native level value.
func (s *SimulatedSDK) TriggerRawLog(native int32, message string) bool {
	type hook struct{ data, fn uintptr }
	var hooks []hook

	s.mu.Lock()
	for _, ss := range s.sessions {
		if ss.destroyed || ss.logFn == 0 || native > ss.logMin {
			continue
		}
		hooks = append(hooks, hook{ss.logData, ss.logFn})
	}
	s.mu.Unlock()

	if len(hooks) == 0 {
		return false
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		for _, h := range hooks {
			var f frame
			s.invoke(h.fn, h.data, uintptr(uint32(native)), f.cstr(message))
			f.done()
		}
	}()
	<-done
	return true
}

// Test controls

// SetDiscordRunning controls whether creation without
// CreateFlagsNoRequireDiscord succeeds.
func (s *SimulatedSDK) SetDiscordRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discordRunning = running
}

// FailCreate makes the next DiscordCreate return r.
func (s *SimulatedSDK) FailCreate(r model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createResult = r
}

// FailNext makes the next call of slot report r instead of running.
func (s *SimulatedSDK) FailNext(slot abi.Slot, r model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[keyOf(slot)] = r
}

// AddUser makes a user known to get_user and image fetches.
func (s *SimulatedSDK) AddUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// CurrentUser returns the simulated current user.
func (s *SimulatedSDK) CurrentUser() model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser
}

// SetImageDimensions sets the size reported for the avatar of user id.
func (s *SimulatedSDK) SetImageDimensions(id int64, d model.ImageDimensions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageDims[id] = d
}

// Calls returns the slots called so far, as iface.method names.
func (s *SimulatedSDK) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount returns how often name appears in Calls.
func (s *SimulatedSDK) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

// Pending returns the number of deliveries queued across live sessions.
func (s *SimulatedSDK) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ss := range s.sessions {
		if !ss.destroyed {
			n += len(ss.pending)
		}
	}
	return n
}

// LiveSessions returns the number of sessions not yet destroyed.
func (s *SimulatedSDK) LiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ss := range s.sessions {
		if !ss.destroyed {
			n++
		}
	}
	return n
}

// Refs returns the current reference count.
func (s *SimulatedSDK) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

// Activity returns the activity last set on the most recent live session.
func (s *SimulatedSDK) Activity() *model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if ss := s.sessions[i]; !ss.destroyed {
			if ss.activity == nil {
				return nil
			}
			a := *ss.activity
			return &a
		}
	}
	return nil
}

// PeerID returns the network peer id of the most recent live session.
func (s *SimulatedSDK) PeerID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if ss := s.sessions[i]; !ss.destroyed {
			return ss.peerID
		}
	}
	return 0
}
