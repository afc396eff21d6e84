package abi

// Event tables. Each field is a C function pointer whose first argument is
// CreateParams.EventData.

// UserEvents mirrors IDiscordUserEvents.
type UserEvents struct {
	OnCurrentUserUpdate uintptr
}

// ActivityEvents mirrors IDiscordActivityEvents.
type ActivityEvents struct {
	OnActivityJoin        uintptr // (data, const char* secret)
	OnActivitySpectate    uintptr // (data, const char* secret)
	OnActivityJoinRequest uintptr // (data, User*)
	OnActivityInvite      uintptr // (data, action type, User*, Activity*)
}

// RelationshipEvents mirrors IDiscordRelationshipEvents.
type RelationshipEvents struct {
	OnRefresh            uintptr // (data)
	OnRelationshipUpdate uintptr // (data, Relationship*)
}

// LobbyEvents mirrors IDiscordLobbyEvents.
type LobbyEvents struct {
	OnLobbyUpdate      uintptr // (data, lobby)
	OnLobbyDelete      uintptr // (data, lobby, reason)
	OnMemberConnect    uintptr // (data, lobby, user)
	OnMemberUpdate     uintptr // (data, lobby, user)
	OnMemberDisconnect uintptr // (data, lobby, user)
	OnLobbyMessage     uintptr // (data, lobby, user, uint8_t*, len)
	OnSpeaking         uintptr // (data, lobby, user, bool)
	OnNetworkMessage   uintptr // (data, lobby, user, channel, uint8_t*, len)
}

// NetworkEvents mirrors IDiscordNetworkEvents.
type NetworkEvents struct {
	OnMessage     uintptr // (data, peer, channel, uint8_t*, len)
	OnRouteUpdate uintptr // (data, const char* route)
}

// OverlayEvents mirrors IDiscordOverlayEvents.
type OverlayEvents struct {
	OnToggle uintptr // (data, bool locked)
}

// VoiceEvents mirrors IDiscordVoiceEvents.
type VoiceEvents struct {
	OnSettingsUpdate uintptr // (data)
}
