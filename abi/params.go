package abi

// CreateParams mirrors struct DiscordCreateParams. Event table fields hold
// addresses of the event structs in events.go, or zero for managers without
// events.
type CreateParams struct {
	ClientID            int64
	Flags               uint64
	Events              uintptr
	EventData           uintptr
	ApplicationEvents   uintptr
	ApplicationVersion  int32
	UserEvents          uintptr
	UserVersion         int32
	ImageEvents         uintptr
	ImageVersion        int32
	ActivityEvents      uintptr
	ActivityVersion     int32
	RelationshipEvents  uintptr
	RelationshipVersion int32
	LobbyEvents         uintptr
	LobbyVersion        int32
	NetworkEvents       uintptr
	NetworkVersion      int32
	OverlayEvents       uintptr
	OverlayVersion      int32
	StorageEvents       uintptr
	StorageVersion      int32
	StoreEvents         uintptr
	StoreVersion        int32
	VoiceEvents         uintptr
	VoiceVersion        int32
	AchievementEvents   uintptr
	AchievementVersion  int32
}

// DefaultCreateParams returns parameters with every manager version set,
// as DiscordCreateParamsSetDefault does in the C header.
func DefaultCreateParams() CreateParams {
	return CreateParams{
		ApplicationVersion:  ApplicationManagerVersion,
		UserVersion:         UserManagerVersion,
		ImageVersion:        ImageManagerVersion,
		ActivityVersion:     ActivityManagerVersion,
		RelationshipVersion: RelationshipManagerVersion,
		LobbyVersion:        LobbyManagerVersion,
		NetworkVersion:      NetworkManagerVersion,
		OverlayVersion:      OverlayManagerVersion,
		StorageVersion:      StorageManagerVersion,
		StoreVersion:        StoreManagerVersion,
		VoiceVersion:        VoiceManagerVersion,
		AchievementVersion:  AchievementManagerVersion,
	}
}
