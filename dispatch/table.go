// Package dispatch holds the trampolines registered with the native SDK.
//
// A trampoline is the only code shaped like a C function pointer. It takes
// the envelope id native code passes back as user data, fires the envelope
// through its session's bridge, decodes the native arguments with package
// codec and calls the Go closure or EventHandler held by the envelope.
package dispatch

import (
	"fmt"
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
)

// CallbackFactory turns a Go function into a C function pointer.
type CallbackFactory interface {
	NewCallback(fn any) uintptr
}

// Table holds one function pointer per trampoline.
type Table struct {
	Result      uintptr
	UserResult  uintptr
	LobbyResult uintptr
	ImageResult uintptr
	Filter      uintptr
	LogHook     uintptr

	ActivityJoin        uintptr
	ActivitySpectate    uintptr
	ActivityJoinRequest uintptr
	ActivityInvite      uintptr
	CurrentUserUpdate   uintptr
	RelationshipRefresh uintptr
	RelationshipUpdate  uintptr
	LobbyUpdate         uintptr
	LobbyDelete         uintptr
	MemberConnect       uintptr
	MemberUpdate        uintptr
	MemberDisconnect    uintptr
	LobbyMessage        uintptr
	Speaking            uintptr
	LobbyNetworkMessage uintptr
	NetworkMessage      uintptr
	RouteUpdate         uintptr
	OverlayToggle       uintptr
	VoiceSettingsUpdate uintptr
}

// NewTable creates the function pointers for every trampoline. Backends
// that cannot free callbacks are expected to return the same pointer for
// the same function on repeated calls.
func NewTable(f CallbackFactory) *Table {
	return &Table{
		Result:      f.NewCallback(onResult),
		UserResult:  f.NewCallback(onUserResult),
		LobbyResult: f.NewCallback(onLobbyResult),
		ImageResult: f.NewCallback(onImageResult),
		Filter:      f.NewCallback(onFilter),
		LogHook:     f.NewCallback(onLog),

		ActivityJoin:        f.NewCallback(onActivityJoin),
		ActivitySpectate:    f.NewCallback(onActivitySpectate),
		ActivityJoinRequest: f.NewCallback(onActivityJoinRequest),
		ActivityInvite:      f.NewCallback(onActivityInvite),
		CurrentUserUpdate:   f.NewCallback(onCurrentUserUpdate),
		RelationshipRefresh: f.NewCallback(onRelationshipRefresh),
		RelationshipUpdate:  f.NewCallback(onRelationshipUpdate),
		LobbyUpdate:         f.NewCallback(onLobbyUpdate),
		LobbyDelete:         f.NewCallback(onLobbyDelete),
		MemberConnect:       f.NewCallback(onMemberConnect),
		MemberUpdate:        f.NewCallback(onMemberUpdate),
		MemberDisconnect:    f.NewCallback(onMemberDisconnect),
		LobbyMessage:        f.NewCallback(onLobbyMessage),
		Speaking:            f.NewCallback(onSpeaking),
		LobbyNetworkMessage: f.NewCallback(onLobbyNetworkMessage),
		NetworkMessage:      f.NewCallback(onNetworkMessage),
		RouteUpdate:         f.NewCallback(onRouteUpdate),
		OverlayToggle:       f.NewCallback(onOverlayToggle),
		VoiceSettingsUpdate: f.NewCallback(onVoiceSettingsUpdate),
	}
}

// EventVTables are the event structs handed to DiscordCreate. The session
// that builds them owns them and must keep them pinned until it is
// destroyed.
type EventVTables struct {
	User         abi.UserEvents
	Activity     abi.ActivityEvents
	Relationship abi.RelationshipEvents
	Lobby        abi.LobbyEvents
	Network      abi.NetworkEvents
	Overlay      abi.OverlayEvents
	Voice        abi.VoiceEvents
}

// NewEventVTables fills the event structs from t.
func NewEventVTables(t *Table) *EventVTables {
	return &EventVTables{
		User: abi.UserEvents{OnCurrentUserUpdate: t.CurrentUserUpdate},
		Activity: abi.ActivityEvents{
			OnActivityJoin:        t.ActivityJoin,
			OnActivitySpectate:    t.ActivitySpectate,
			OnActivityJoinRequest: t.ActivityJoinRequest,
			OnActivityInvite:      t.ActivityInvite,
		},
		Relationship: abi.RelationshipEvents{
			OnRefresh:            t.RelationshipRefresh,
			OnRelationshipUpdate: t.RelationshipUpdate,
		},
		Lobby: abi.LobbyEvents{
			OnLobbyUpdate:      t.LobbyUpdate,
			OnLobbyDelete:      t.LobbyDelete,
			OnMemberConnect:    t.MemberConnect,
			OnMemberUpdate:     t.MemberUpdate,
			OnMemberDisconnect: t.MemberDisconnect,
			OnLobbyMessage:     t.LobbyMessage,
			OnSpeaking:         t.Speaking,
			OnNetworkMessage:   t.LobbyNetworkMessage,
		},
		Network: abi.NetworkEvents{
			OnMessage:     t.NetworkMessage,
			OnRouteUpdate: t.RouteUpdate,
		},
		Overlay: abi.OverlayEvents{OnToggle: t.OverlayToggle},
		Voice:   abi.VoiceEvents{OnSettingsUpdate: t.VoiceSettingsUpdate},
	}
}

// Apply points the event fields of p at v and sets the event data id.
// Managers without events in this binding are left at zero.
func (v *EventVTables) Apply(p *abi.CreateParams, eventData uintptr) {
	p.EventData = eventData
	p.UserEvents = uintptr(unsafe.Pointer(&v.User))
	p.ActivityEvents = uintptr(unsafe.Pointer(&v.Activity))
	p.RelationshipEvents = uintptr(unsafe.Pointer(&v.Relationship))
	p.LobbyEvents = uintptr(unsafe.Pointer(&v.Lobby))
	p.NetworkEvents = uintptr(unsafe.Pointer(&v.Network))
	p.OverlayEvents = uintptr(unsafe.Pointer(&v.Overlay))
	p.VoiceEvents = uintptr(unsafe.Pointer(&v.Voice))
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
