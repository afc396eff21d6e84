package dispatch

import (
	"sync"

	"github.com/opd-ai/gamesdk/model"
)

// EventHandler receives the push events of a session. Methods run on the
// thread that pumps RunCallbacks.
type EventHandler interface {
	// Activity invites. The secrets are the ones set in the inviting
	// user's activity.
	OnActivityJoin(secret string)
	OnActivitySpectate(secret string)
	OnActivityJoinRequest(user *model.User)
	OnActivityInvite(action model.ActivityActionType, user *model.User, activity *model.Activity)

	// OnCurrentUserUpdate means CurrentUser is available or changed.
	OnCurrentUserUpdate()

	// OnRelationshipRefresh means the list changed and needs a new Filter.
	OnRelationshipRefresh()
	OnRelationshipUpdate(rel model.Relationship)

	// Lobby events for lobbies the current user is connected to.
	OnLobbyUpdate(lobbyID int64)
	OnLobbyDelete(lobbyID int64, reason uint32)
	OnMemberConnect(lobbyID, userID int64)
	OnMemberUpdate(lobbyID, userID int64)
	OnMemberDisconnect(lobbyID, userID int64)
	OnLobbyMessage(lobbyID, userID int64, data []byte)
	OnSpeaking(lobbyID, userID int64, speaking bool)
	OnLobbyNetworkMessage(lobbyID, userID int64, channel uint8, data []byte)

	// OnNetworkMessage delivers a message from a peer. OnRouteUpdate
	// carries this client's new route, to be published to peers.
	OnNetworkMessage(peerID uint64, channel uint8, data []byte)
	OnRouteUpdate(route string)

	// OnOverlayToggle reports the overlay being locked or unlocked.
	OnOverlayToggle(locked bool)

	OnVoiceSettingsUpdate()
}

// EventAdapter implements EventHandler with no-ops. Embed it to handle a
// subset of events.
type EventAdapter struct{}

func (EventAdapter) OnActivityJoin(string)                                                   {}
func (EventAdapter) OnActivitySpectate(string)                                               {}
func (EventAdapter) OnActivityJoinRequest(*model.User)                                       {}
func (EventAdapter) OnActivityInvite(model.ActivityActionType, *model.User, *model.Activity) {}
func (EventAdapter) OnCurrentUserUpdate()                                                    {}
func (EventAdapter) OnRelationshipRefresh()                                                  {}
func (EventAdapter) OnRelationshipUpdate(model.Relationship)                                 {}
func (EventAdapter) OnLobbyUpdate(int64)                                                     {}
func (EventAdapter) OnLobbyDelete(int64, uint32)                                             {}
func (EventAdapter) OnMemberConnect(int64, int64)                                            {}
func (EventAdapter) OnMemberUpdate(int64, int64)                                             {}
func (EventAdapter) OnMemberDisconnect(int64, int64)                                         {}
func (EventAdapter) OnLobbyMessage(int64, int64, []byte)                                     {}
func (EventAdapter) OnSpeaking(int64, int64, bool)                                           {}
func (EventAdapter) OnLobbyNetworkMessage(int64, int64, uint8, []byte)                       {}
func (EventAdapter) OnNetworkMessage(uint64, uint8, []byte)                                  {}
func (EventAdapter) OnRouteUpdate(string)                                                    {}
func (EventAdapter) OnOverlayToggle(bool)                                                    {}
func (EventAdapter) OnVoiceSettingsUpdate()                                                  {}

// ListenerID identifies a handler added to Listeners.
type ListenerID uint64

type listener struct {
	id ListenerID
	h  EventHandler
}

// Listeners fans every event out to the registered handlers in the order
// they were added. It is itself an EventHandler.
type Listeners struct {
	mu       sync.RWMutex
	handlers []listener
	nextID   ListenerID
}

// Add registers h and returns an id for Remove.
func (l *Listeners) Add(h EventHandler) ListenerID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.handlers = append(l.handlers, listener{id: l.nextID, h: h})
	return l.nextID
}

// Remove unregisters the handler added under id.
func (l *Listeners) Remove(id ListenerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.handlers {
		if e.id == id {
			l.handlers = append(l.handlers[:i:i], l.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered handlers.
func (l *Listeners) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.handlers)
}

// each calls fn for a snapshot of the handlers, so a handler may add or
// remove listeners while an event is being delivered.
func (l *Listeners) each(fn func(EventHandler)) {
	l.mu.RLock()
	snapshot := make([]listener, len(l.handlers))
	copy(snapshot, l.handlers)
	l.mu.RUnlock()
	for _, e := range snapshot {
		fn(e.h)
	}
}

// OnActivityJoin fans the event out to every listener.
func (l *Listeners) OnActivityJoin(secret string) {
	l.each(func(h EventHandler) { h.OnActivityJoin(secret) })
}

// OnActivitySpectate fans the event out to every listener.
func (l *Listeners) OnActivitySpectate(secret string) {
	l.each(func(h EventHandler) { h.OnActivitySpectate(secret) })
}

// OnActivityJoinRequest fans the event out to every listener.
func (l *Listeners) OnActivityJoinRequest(user *model.User) {
	l.each(func(h EventHandler) { h.OnActivityJoinRequest(user) })
}

// OnActivityInvite fans the event out to every listener.
func (l *Listeners) OnActivityInvite(action model.ActivityActionType, user *model.User, activity *model.Activity) {
	l.each(func(h EventHandler) { h.OnActivityInvite(action, user, activity) })
}

// OnCurrentUserUpdate fans the event out to every listener.
func (l *Listeners) OnCurrentUserUpdate() {
	l.each(func(h EventHandler) { h.OnCurrentUserUpdate() })
}

// OnRelationshipRefresh fans the event out to every listener.
func (l *Listeners) OnRelationshipRefresh() {
	l.each(func(h EventHandler) { h.OnRelationshipRefresh() })
}

// OnRelationshipUpdate fans the event out to every listener.
func (l *Listeners) OnRelationshipUpdate(rel model.Relationship) {
	l.each(func(h EventHandler) { h.OnRelationshipUpdate(rel) })
}

// OnLobbyUpdate fans the event out to every listener.
func (l *Listeners) OnLobbyUpdate(lobbyID int64) {
	l.each(func(h EventHandler) { h.OnLobbyUpdate(lobbyID) })
}

// OnLobbyDelete fans the event out to every listener.
func (l *Listeners) OnLobbyDelete(lobbyID int64, reason uint32) {
	l.each(func(h EventHandler) { h.OnLobbyDelete(lobbyID, reason) })
}

// OnMemberConnect fans the event out to every listener.
func (l *Listeners) OnMemberConnect(lobbyID, userID int64) {
	l.each(func(h EventHandler) { h.OnMemberConnect(lobbyID, userID) })
}

// OnMemberUpdate fans the event out to every listener.
func (l *Listeners) OnMemberUpdate(lobbyID, userID int64) {
	l.each(func(h EventHandler) { h.OnMemberUpdate(lobbyID, userID) })
}

// OnMemberDisconnect fans the event out to every listener.
func (l *Listeners) OnMemberDisconnect(lobbyID, userID int64) {
	l.each(func(h EventHandler) { h.OnMemberDisconnect(lobbyID, userID) })
}

// OnLobbyMessage fans the event out to every listener.
func (l *Listeners) OnLobbyMessage(lobbyID, userID int64, data []byte) {
	l.each(func(h EventHandler) { h.OnLobbyMessage(lobbyID, userID, data) })
}

// OnSpeaking fans the event out to every listener.
func (l *Listeners) OnSpeaking(lobbyID, userID int64, speaking bool) {
	l.each(func(h EventHandler) { h.OnSpeaking(lobbyID, userID, speaking) })
}

// OnLobbyNetworkMessage fans the event out to every listener.
func (l *Listeners) OnLobbyNetworkMessage(lobbyID, userID int64, channel uint8, data []byte) {
	l.each(func(h EventHandler) { h.OnLobbyNetworkMessage(lobbyID, userID, channel, data) })
}

// OnNetworkMessage fans the event out to every listener.
func (l *Listeners) OnNetworkMessage(peerID uint64, channel uint8, data []byte) {
	l.each(func(h EventHandler) { h.OnNetworkMessage(peerID, channel, data) })
}

// OnRouteUpdate fans the event out to every listener.
func (l *Listeners) OnRouteUpdate(route string) {
	l.each(func(h EventHandler) { h.OnRouteUpdate(route) })
}

// OnOverlayToggle fans the event out to every listener.
func (l *Listeners) OnOverlayToggle(locked bool) {
	l.each(func(h EventHandler) { h.OnOverlayToggle(locked) })
}

// OnVoiceSettingsUpdate fans the event out to every listener.
func (l *Listeners) OnVoiceSettingsUpdate() {
	l.each(func(h EventHandler) { h.OnVoiceSettingsUpdate() })
}
