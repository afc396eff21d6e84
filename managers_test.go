package gamesdk

import (
	"fmt"
	"testing"

	"github.com/opd-ai/gamesdk/handle"
	"github.com/opd-ai/gamesdk/limits"
	"github.com/opd-ai/gamesdk/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImageFetchAndData verifies the fetch, dimensions and data sequence
// and that data is trimmed to the image size
func TestImageFetchAndData(t *testing.T) {
	core, _ := newTestCore(t, nil)
	images := core.ImageManager()
	avatar := model.ImageHandle{Type: model.ImageTypeUser, ID: 1001, Size: 64}

	_, err := images.Dimensions(avatar)
	assert.ErrorIs(t, err, model.ResultNotFetched)

	var fetched model.ImageHandle
	require.NoError(t, images.Fetch(avatar, false, func(r model.Result, h model.ImageHandle) {
		require.Equal(t, model.ResultOk, r)
		fetched = h
	}))
	require.NoError(t, core.RunCallbacks())
	assert.Equal(t, avatar, fetched)

	dims, err := images.Dimensions(fetched)
	require.NoError(t, err)
	assert.Equal(t, model.ImageDimensions{Width: 16, Height: 8}, dims)

	data, err := images.Data(fetched, 2048)
	require.NoError(t, err)
	assert.Len(t, data, 512)
	assert.Equal(t, byte(10), data[10])

	_, err = images.Data(fetched, 100)
	assert.ErrorIs(t, err, model.ResultInsufficientBuffer)

	_, err = images.Data(fetched, 0)
	assert.ErrorIs(t, err, limits.ErrBufferEmpty)
}

// TestCurrentUserQueries verifies the synchronous user calls
func TestCurrentUserQueries(t *testing.T) {
	core, _ := newTestCore(t, nil)
	users := core.UserManager()

	u, err := users.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, int64(1001), u.ID)

	premium, err := users.CurrentUserPremiumType()
	require.NoError(t, err)
	assert.Equal(t, model.PremiumTier1, premium)

	has, err := users.CurrentUserHasFlag(model.UserFlagHypeSquadEvents)
	require.NoError(t, err)
	assert.True(t, has)
}

// TestRelationshipFilterAndRead verifies filtering runs before Filter
// returns and the filtered list reads back in order
func TestRelationshipFilterAndRead(t *testing.T) {
	core, _ := newTestCore(t, nil)
	rels := core.RelationshipManager()

	var seen []int64
	require.NoError(t, rels.Filter(func(r model.Relationship) bool {
		seen = append(seen, r.User.ID)
		return r.Type == model.RelationshipFriend
	}))
	assert.Equal(t, []int64{2002, 3003}, seen)
	assert.Equal(t, 1, core.Outstanding(), "filter envelope is released")

	all, err := rels.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "friend-one", all[0].User.Username)
	assert.Equal(t, "Chess", all[0].Presence.Activity.Name)

	blocked, err := rels.Get(3003)
	require.NoError(t, err)
	assert.Equal(t, model.RelationshipBlocked, blocked.Type)
	assert.True(t, blocked.User.Bot)

	assert.ErrorIs(t, rels.Filter(nil), ErrNilCallback)
}

// TestLobbyFlow verifies transactions, metadata, search and lobby
// messages end to end
func TestLobbyFlow(t *testing.T) {
	ev := &events{}
	core, _ := newTestCore(t, ev)
	lobbies := core.LobbyManager()

	txn, err := lobbies.CreateTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.SetType(model.LobbyTypePublic))
	require.NoError(t, txn.SetCapacity(8))
	require.NoError(t, txn.SetMetadata("mode", "ranked"))

	var created *model.Lobby
	require.NoError(t, lobbies.CreateLobby(txn, func(r model.Result, l *model.Lobby) {
		require.Equal(t, model.ResultOk, r)
		created = l
	}))
	assert.ErrorIs(t, txn.SetLocked(true), handle.ErrInvalidHandle)
	assert.ErrorIs(t, lobbies.CreateLobby(nil, nil), ErrNilTransaction)

	require.NoError(t, core.RunCallbacks())
	require.NotNil(t, created)
	assert.Equal(t, int64(1001), created.OwnerID)
	assert.Equal(t, uint32(8), created.Capacity)

	md, err := lobbies.Metadata(created.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mode": "ranked"}, md)

	members, err := lobbies.MemberCount(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), members)

	query, err := lobbies.SearchQuery()
	require.NoError(t, err)
	require.NoError(t, query.Filter("metadata.mode", model.LobbySearchEqual, model.LobbySearchCastString, "ranked"))
	require.NoError(t, query.Limit(5))

	searched := false
	require.NoError(t, lobbies.Search(query, func(r model.Result) {
		searched = r == model.ResultOk
	}))
	require.NoError(t, core.RunCallbacks())
	require.True(t, searched)

	count, err := lobbies.LobbyCount()
	require.NoError(t, err)
	require.Equal(t, int32(1), count)
	id, err := lobbies.LobbyIDAt(0)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	require.NoError(t, lobbies.SendLobbyMessage(created.ID, []byte("hello"), nil))
	require.NoError(t, core.RunCallbacks())
	assert.Equal(t, []string{fmt.Sprintf("%d/1001:hello", created.ID)}, ev.messages)

	assert.ErrorIs(t, lobbies.SendLobbyMessage(created.ID, nil, nil), limits.ErrBufferEmpty)
	assert.Equal(t, 1, core.Outstanding())
}

// TestNetworkLoopback verifies a message to the local peer comes back as
// an event on the next pump
func TestNetworkLoopback(t *testing.T) {
	ev := &events{}
	core, _ := newTestCore(t, ev)
	network := core.NetworkManager()

	peer, err := network.PeerID()
	require.NoError(t, err)
	require.NotZero(t, peer)

	assert.ErrorIs(t, network.SendMessage(peer, 0, []byte("early")), model.ResultNotFound)

	require.NoError(t, network.OpenPeer(peer, "route-a"))
	require.NoError(t, network.OpenChannel(peer, 0, true))
	require.NoError(t, network.SendMessage(peer, 0, []byte("ping")))
	require.NoError(t, network.Flush())
	require.NoError(t, core.RunCallbacks())

	assert.Equal(t, []string{fmt.Sprintf("%d/0:ping", peer)}, ev.network)

	require.NoError(t, network.ClosePeer(peer))
	assert.ErrorIs(t, network.ClosePeer(peer), model.ResultNotFound)
}

// TestOverlayToggle verifies locking the overlay reports the result and a
// toggle event
func TestOverlayToggle(t *testing.T) {
	ev := &events{}
	core, _ := newTestCore(t, ev)
	overlay := core.OverlayManager()

	enabled, err := overlay.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	var got model.Result = -1
	require.NoError(t, overlay.SetLocked(true, func(r model.Result) { got = r }))
	require.NoError(t, core.RunCallbacks())

	assert.Equal(t, model.ResultOk, got)
	assert.Equal(t, []bool{true}, ev.toggles)

	locked, err := overlay.IsLocked()
	require.NoError(t, err)
	assert.True(t, locked)
}

// TestVoiceSettings verifies voice getters, setters and native rejections
func TestVoiceSettings(t *testing.T) {
	core, _ := newTestCore(t, nil)
	voice := core.VoiceManager()

	mode, err := voice.InputMode()
	require.NoError(t, err)
	assert.Equal(t, model.InputModeVoiceActivity, mode.Type)

	var got model.Result = -1
	require.NoError(t, voice.SetInputMode(model.InputMode{Type: model.InputModePushToTalk}, func(r model.Result) { got = r }))
	require.NoError(t, core.RunCallbacks())
	assert.Equal(t, model.ResultInvalidPayload, got)

	require.NoError(t, voice.SetSelfMute(true))
	muted, err := voice.IsSelfMute()
	require.NoError(t, err)
	assert.True(t, muted)

	require.NoError(t, voice.SetLocalMute(2002, true))
	localMuted, err := voice.IsLocalMute(2002)
	require.NoError(t, err)
	assert.True(t, localMuted)

	vol, err := voice.LocalVolume(2002)
	require.NoError(t, err)
	assert.Equal(t, uint8(100), vol)

	err = voice.SetLocalVolume(2002, 250)
	var re *ResultError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, model.ResultInvalidPayload, re.Result)
}
