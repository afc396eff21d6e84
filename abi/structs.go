// Package abi mirrors the C declarations of the native SDK: record layouts,
// interface vtable slots, event tables and creation parameters.
//
// The structs in this package must match the C layout byte for byte. Field
// order and types follow the C headers; Go inserts the same alignment padding
// a C compiler does for these field types on 64-bit targets.
package abi

import "github.com/opd-ai/gamesdk/limits"

// Version is the ABI version passed to DiscordCreate.
const Version int32 = 2

// Manager interface versions expected by this binding.
const (
	ApplicationManagerVersion  int32 = 1
	UserManagerVersion         int32 = 1
	ImageManagerVersion        int32 = 1
	ActivityManagerVersion     int32 = 1
	RelationshipManagerVersion int32 = 1
	LobbyManagerVersion        int32 = 1
	NetworkManagerVersion      int32 = 1
	OverlayManagerVersion      int32 = 1
	StorageManagerVersion      int32 = 1
	StoreManagerVersion        int32 = 1
	VoiceManagerVersion        int32 = 1
	AchievementManagerVersion  int32 = 1
)

// User mirrors DiscordUser.
type User struct {
	ID            int64
	Username      [limits.MaxUsername]byte
	Discriminator [limits.MaxDiscriminator]byte
	Avatar        [limits.MaxShortString]byte
	Bot           bool
}

// ActivityTimestamps mirrors DiscordActivityTimestamps.
type ActivityTimestamps struct {
	Start int64
	End   int64
}

// ActivityAssets mirrors DiscordActivityAssets.
type ActivityAssets struct {
	LargeImage [limits.MaxShortString]byte
	LargeText  [limits.MaxShortString]byte
	SmallImage [limits.MaxShortString]byte
	SmallText  [limits.MaxShortString]byte
}

// PartySize mirrors DiscordPartySize.
type PartySize struct {
	CurrentSize int32
	MaxSize     int32
}

// ActivityParty mirrors DiscordActivityParty.
type ActivityParty struct {
	ID   [limits.MaxShortString]byte
	Size PartySize
}

// ActivitySecrets mirrors DiscordActivitySecrets.
type ActivitySecrets struct {
	Match    [limits.MaxShortString]byte
	Join     [limits.MaxShortString]byte
	Spectate [limits.MaxShortString]byte
}

// Activity mirrors DiscordActivity.
type Activity struct {
	Type          int32
	ApplicationID int64
	Name          [limits.MaxShortString]byte
	State         [limits.MaxShortString]byte
	Details       [limits.MaxShortString]byte
	Timestamps    ActivityTimestamps
	Assets        ActivityAssets
	Party         ActivityParty
	Secrets       ActivitySecrets
	Instance      bool
}

// Presence mirrors DiscordPresence.
type Presence struct {
	Status   int32
	Activity Activity
}

// Relationship mirrors DiscordRelationship.
type Relationship struct {
	Type     int32
	User     User
	Presence Presence
}

// Lobby mirrors DiscordLobby.
type Lobby struct {
	ID       int64
	Type     int32
	OwnerID  int64
	Secret   [limits.MaxShortString]byte
	Capacity uint32
	Locked   bool
}

// ImageHandle mirrors DiscordImageHandle.
type ImageHandle struct {
	Type int32
	ID   int64
	Size uint32
}

// ImageDimensions mirrors DiscordImageDimensions.
type ImageDimensions struct {
	Width  uint32
	Height uint32
}

// InputMode mirrors DiscordInputMode.
type InputMode struct {
	Type     int32
	Shortcut [limits.MaxShortcut]byte
}

// LobbySecret is the C DiscordLobbySecret array type.
type LobbySecret [limits.MaxShortString]byte

// MetadataKey is the C DiscordMetadataKey array type.
type MetadataKey [limits.MaxMetadataKey]byte

// MetadataValue is the C DiscordMetadataValue array type.
type MetadataValue [limits.MaxMetadataValue]byte
