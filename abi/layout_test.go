package abi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// TestRecordLayout verifies the mirror structs match the C header layout
func TestRecordLayout(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"User size", unsafe.Sizeof(User{}), 408},
		{"User.Username", unsafe.Offsetof(User{}.Username), 8},
		{"User.Discriminator", unsafe.Offsetof(User{}.Discriminator), 264},
		{"User.Avatar", unsafe.Offsetof(User{}.Avatar), 272},
		{"User.Bot", unsafe.Offsetof(User{}.Bot), 400},
		{"ImageHandle size", unsafe.Sizeof(ImageHandle{}), 24},
		{"ImageHandle.ID", unsafe.Offsetof(ImageHandle{}.ID), 8},
		{"ImageHandle.Size", unsafe.Offsetof(ImageHandle{}.Size), 16},
		{"ImageDimensions size", unsafe.Sizeof(ImageDimensions{}), 8},
		{"Lobby size", unsafe.Sizeof(Lobby{}), 160},
		{"Lobby.Type", unsafe.Offsetof(Lobby{}.Type), 8},
		{"Lobby.OwnerID", unsafe.Offsetof(Lobby{}.OwnerID), 16},
		{"Lobby.Secret", unsafe.Offsetof(Lobby{}.Secret), 24},
		{"Lobby.Capacity", unsafe.Offsetof(Lobby{}.Capacity), 152},
		{"Lobby.Locked", unsafe.Offsetof(Lobby{}.Locked), 156},
		{"Activity.ApplicationID", unsafe.Offsetof(Activity{}.ApplicationID), 8},
		{"Activity.Timestamps", unsafe.Offsetof(Activity{}.Timestamps), 400},
		{"Activity.Assets", unsafe.Offsetof(Activity{}.Assets), 416},
		{"Activity.Party", unsafe.Offsetof(Activity{}.Party), 928},
		{"Activity.Secrets", unsafe.Offsetof(Activity{}.Secrets), 1064},
		{"Activity.Instance", unsafe.Offsetof(Activity{}.Instance), 1448},
		{"Activity size", unsafe.Sizeof(Activity{}), 1456},
		{"Presence size", unsafe.Sizeof(Presence{}), 1464},
		{"Relationship.User", unsafe.Offsetof(Relationship{}.User), 8},
		{"Relationship.Presence", unsafe.Offsetof(Relationship{}.Presence), 416},
		{"Relationship size", unsafe.Sizeof(Relationship{}), 1880},
		{"InputMode size", unsafe.Sizeof(InputMode{}), 260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

// TestCreateParamsLayout verifies the interleaved pointer/version pairs
func TestCreateParamsLayout(t *testing.T) {
	var p CreateParams
	assert.Equal(t, uintptr(16), unsafe.Offsetof(p.Events))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(p.EventData))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(p.ApplicationEvents))
	assert.Equal(t, uintptr(40), unsafe.Offsetof(p.ApplicationVersion))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(p.UserEvents))
	assert.Equal(t, uintptr(208), unsafe.Offsetof(p.AchievementEvents))
	assert.Equal(t, uintptr(224), unsafe.Sizeof(p))
}

// TestDefaultCreateParams verifies every manager version is populated
func TestDefaultCreateParams(t *testing.T) {
	p := DefaultCreateParams()
	for name, v := range map[string]int32{
		"application":  p.ApplicationVersion,
		"user":         p.UserVersion,
		"image":        p.ImageVersion,
		"activity":     p.ActivityVersion,
		"relationship": p.RelationshipVersion,
		"lobby":        p.LobbyVersion,
		"network":      p.NetworkVersion,
		"overlay":      p.OverlayVersion,
		"storage":      p.StorageVersion,
		"store":        p.StoreVersion,
		"voice":        p.VoiceVersion,
		"achievement":  p.AchievementVersion,
	} {
		assert.Equal(t, int32(1), v, name)
	}
	assert.Zero(t, p.ClientID)
	assert.Zero(t, p.Events)
}

// TestSlotNames verifies slot naming and by-value marking
func TestSlotNames(t *testing.T) {
	assert.Equal(t, "core.run_callbacks", CoreRunCallbacks.String())
	assert.Equal(t, "lobby.send_network_message", LobbySendNetworkMessage.String())
	assert.Equal(t, 32, LobbySendNetworkMessage.Index)
	assert.True(t, ImageFetch.ByValue)
	assert.True(t, VoiceSetInputMode.ByValue)
	assert.False(t, VoiceGetInputMode.ByValue)
	assert.Equal(t, "unknown", Iface(200).String())
}
