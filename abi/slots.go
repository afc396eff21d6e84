package abi

// Iface identifies a native interface struct. Every native object handle
// points at a struct of function pointers; a method is called by loading
// the pointer at its slot index and passing the handle as first argument.
type Iface uint8

const (
	IfaceCore Iface = iota
	IfaceUser
	IfaceImage
	IfaceActivity
	IfaceRelationship
	IfaceLobby
	IfaceLobbyTransaction
	IfaceMemberTransaction
	IfaceSearchQuery
	IfaceNetwork
	IfaceOverlay
	IfaceVoice
)

var ifaceNames = [...]string{
	"core", "user", "image", "activity", "relationship", "lobby",
	"lobby_transaction", "member_transaction", "search_query",
	"network", "overlay", "voice",
}

// String implements fmt.Stringer.
func (i Iface) String() string {
	if int(i) < len(ifaceNames) {
		return ifaceNames[i]
	}
	return "unknown"
}

// Slot is one method of a native interface.
type Slot struct {
	Iface Iface
	Index int
	Name  string
	// ByValue marks methods taking a record larger than two registers by
	// value. Those can only be called where the platform ABI passes such
	// records by reference.
	ByValue bool
}

// String returns iface.name.
func (s Slot) String() string {
	return s.Iface.String() + "." + s.Name
}

func slot(i Iface, index int, name string) Slot {
	return Slot{Iface: i, Index: index, Name: name}
}

func byValue(i Iface, index int, name string) Slot {
	return Slot{Iface: i, Index: index, Name: name, ByValue: true}
}

// IDiscordCore
var (
	CoreDestroy                = slot(IfaceCore, 0, "destroy")
	CoreRunCallbacks           = slot(IfaceCore, 1, "run_callbacks")
	CoreSetLogHook             = slot(IfaceCore, 2, "set_log_hook")
	CoreGetApplicationManager  = slot(IfaceCore, 3, "get_application_manager")
	CoreGetUserManager         = slot(IfaceCore, 4, "get_user_manager")
	CoreGetImageManager        = slot(IfaceCore, 5, "get_image_manager")
	CoreGetActivityManager     = slot(IfaceCore, 6, "get_activity_manager")
	CoreGetRelationshipManager = slot(IfaceCore, 7, "get_relationship_manager")
	CoreGetLobbyManager        = slot(IfaceCore, 8, "get_lobby_manager")
	CoreGetNetworkManager      = slot(IfaceCore, 9, "get_network_manager")
	CoreGetOverlayManager      = slot(IfaceCore, 10, "get_overlay_manager")
	CoreGetStorageManager      = slot(IfaceCore, 11, "get_storage_manager")
	CoreGetStoreManager        = slot(IfaceCore, 12, "get_store_manager")
	CoreGetVoiceManager        = slot(IfaceCore, 13, "get_voice_manager")
	CoreGetAchievementManager  = slot(IfaceCore, 14, "get_achievement_manager")
)

// IDiscordUserManager
var (
	UserGetCurrentUser            = slot(IfaceUser, 0, "get_current_user")
	UserGetUser                   = slot(IfaceUser, 1, "get_user")
	UserGetCurrentUserPremiumType = slot(IfaceUser, 2, "get_current_user_premium_type")
	UserCurrentUserHasFlag        = slot(IfaceUser, 3, "current_user_has_flag")
)

// IDiscordImageManager
var (
	ImageFetch         = byValue(IfaceImage, 0, "fetch")
	ImageGetDimensions = byValue(IfaceImage, 1, "get_dimensions")
	ImageGetData       = byValue(IfaceImage, 2, "get_data")
)

// IDiscordActivityManager
var (
	ActivityRegisterCommand  = slot(IfaceActivity, 0, "register_command")
	ActivityRegisterSteam    = slot(IfaceActivity, 1, "register_steam")
	ActivityUpdateActivity   = slot(IfaceActivity, 2, "update_activity")
	ActivityClearActivity    = slot(IfaceActivity, 3, "clear_activity")
	ActivitySendRequestReply = slot(IfaceActivity, 4, "send_request_reply")
	ActivitySendInvite       = slot(IfaceActivity, 5, "send_invite")
	ActivityAcceptInvite     = slot(IfaceActivity, 6, "accept_invite")
)

// IDiscordRelationshipManager
var (
	RelationshipFilter = slot(IfaceRelationship, 0, "filter")
	RelationshipCount  = slot(IfaceRelationship, 1, "count")
	RelationshipGet    = slot(IfaceRelationship, 2, "get")
	RelationshipGetAt  = slot(IfaceRelationship, 3, "get_at")
)

// IDiscordLobbyManager
var (
	LobbyGetCreateTransaction           = slot(IfaceLobby, 0, "get_lobby_create_transaction")
	LobbyGetUpdateTransaction           = slot(IfaceLobby, 1, "get_lobby_update_transaction")
	LobbyGetMemberUpdateTransaction     = slot(IfaceLobby, 2, "get_member_update_transaction")
	LobbyCreateLobby                    = slot(IfaceLobby, 3, "create_lobby")
	LobbyUpdateLobby                    = slot(IfaceLobby, 4, "update_lobby")
	LobbyDeleteLobby                    = slot(IfaceLobby, 5, "delete_lobby")
	LobbyConnectLobby                   = slot(IfaceLobby, 6, "connect_lobby")
	LobbyConnectLobbyWithActivitySecret = slot(IfaceLobby, 7, "connect_lobby_with_activity_secret")
	LobbyDisconnectLobby                = slot(IfaceLobby, 8, "disconnect_lobby")
	LobbyGetLobby                       = slot(IfaceLobby, 9, "get_lobby")
	LobbyGetLobbyActivitySecret         = slot(IfaceLobby, 10, "get_lobby_activity_secret")
	LobbyGetLobbyMetadataValue          = slot(IfaceLobby, 11, "get_lobby_metadata_value")
	LobbyGetLobbyMetadataKey            = slot(IfaceLobby, 12, "get_lobby_metadata_key")
	LobbyLobbyMetadataCount             = slot(IfaceLobby, 13, "lobby_metadata_count")
	LobbyMemberCount                    = slot(IfaceLobby, 14, "member_count")
	LobbyGetMemberUserID                = slot(IfaceLobby, 15, "get_member_user_id")
	LobbyGetMemberUser                  = slot(IfaceLobby, 16, "get_member_user")
	LobbyGetMemberMetadataValue         = slot(IfaceLobby, 17, "get_member_metadata_value")
	LobbyGetMemberMetadataKey           = slot(IfaceLobby, 18, "get_member_metadata_key")
	LobbyMemberMetadataCount            = slot(IfaceLobby, 19, "member_metadata_count")
	LobbyUpdateMember                   = slot(IfaceLobby, 20, "update_member")
	LobbySendLobbyMessage               = slot(IfaceLobby, 21, "send_lobby_message")
	LobbyGetSearchQuery                 = slot(IfaceLobby, 22, "get_search_query")
	LobbySearch                         = slot(IfaceLobby, 23, "search")
	LobbyLobbyCount                     = slot(IfaceLobby, 24, "lobby_count")
	LobbyGetLobbyID                     = slot(IfaceLobby, 25, "get_lobby_id")
	LobbyConnectVoice                   = slot(IfaceLobby, 26, "connect_voice")
	LobbyDisconnectVoice                = slot(IfaceLobby, 27, "disconnect_voice")
	LobbyConnectNetwork                 = slot(IfaceLobby, 28, "connect_network")
	LobbyDisconnectNetwork              = slot(IfaceLobby, 29, "disconnect_network")
	LobbyFlushNetwork                   = slot(IfaceLobby, 30, "flush_network")
	LobbyOpenNetworkChannel             = slot(IfaceLobby, 31, "open_network_channel")
	LobbySendNetworkMessage             = slot(IfaceLobby, 32, "send_network_message")
)

// IDiscordLobbyTransaction
var (
	LobbyTxnSetType        = slot(IfaceLobbyTransaction, 0, "set_type")
	LobbyTxnSetOwner       = slot(IfaceLobbyTransaction, 1, "set_owner")
	LobbyTxnSetCapacity    = slot(IfaceLobbyTransaction, 2, "set_capacity")
	LobbyTxnSetMetadata    = slot(IfaceLobbyTransaction, 3, "set_metadata")
	LobbyTxnDeleteMetadata = slot(IfaceLobbyTransaction, 4, "delete_metadata")
	LobbyTxnSetLocked      = slot(IfaceLobbyTransaction, 5, "set_locked")
)

// IDiscordLobbyMemberTransaction
var (
	MemberTxnSetMetadata    = slot(IfaceMemberTransaction, 0, "set_metadata")
	MemberTxnDeleteMetadata = slot(IfaceMemberTransaction, 1, "delete_metadata")
)

// IDiscordLobbySearchQuery
var (
	SearchFilter   = slot(IfaceSearchQuery, 0, "filter")
	SearchSort     = slot(IfaceSearchQuery, 1, "sort")
	SearchLimit    = slot(IfaceSearchQuery, 2, "limit")
	SearchDistance = slot(IfaceSearchQuery, 3, "distance")
)

// IDiscordNetworkManager
var (
	NetworkGetPeerID    = slot(IfaceNetwork, 0, "get_peer_id")
	NetworkFlush        = slot(IfaceNetwork, 1, "flush")
	NetworkOpenPeer     = slot(IfaceNetwork, 2, "open_peer")
	NetworkUpdatePeer   = slot(IfaceNetwork, 3, "update_peer")
	NetworkClosePeer    = slot(IfaceNetwork, 4, "close_peer")
	NetworkOpenChannel  = slot(IfaceNetwork, 5, "open_channel")
	NetworkCloseChannel = slot(IfaceNetwork, 6, "close_channel")
	NetworkSendMessage  = slot(IfaceNetwork, 7, "send_message")
)

// IDiscordOverlayManager
var (
	OverlayIsEnabled          = slot(IfaceOverlay, 0, "is_enabled")
	OverlayIsLocked           = slot(IfaceOverlay, 1, "is_locked")
	OverlaySetLocked          = slot(IfaceOverlay, 2, "set_locked")
	OverlayOpenActivityInvite = slot(IfaceOverlay, 3, "open_activity_invite")
	OverlayOpenGuildInvite    = slot(IfaceOverlay, 4, "open_guild_invite")
	OverlayOpenVoiceSettings  = slot(IfaceOverlay, 5, "open_voice_settings")
)

// IDiscordVoiceManager
var (
	VoiceGetInputMode   = slot(IfaceVoice, 0, "get_input_mode")
	VoiceSetInputMode   = byValue(IfaceVoice, 1, "set_input_mode")
	VoiceIsSelfMute     = slot(IfaceVoice, 2, "is_self_mute")
	VoiceSetSelfMute    = slot(IfaceVoice, 3, "set_self_mute")
	VoiceIsSelfDeaf     = slot(IfaceVoice, 4, "is_self_deaf")
	VoiceSetSelfDeaf    = slot(IfaceVoice, 5, "set_self_deaf")
	VoiceIsLocalMute    = slot(IfaceVoice, 6, "is_local_mute")
	VoiceSetLocalMute   = slot(IfaceVoice, 7, "set_local_mute")
	VoiceGetLocalVolume = slot(IfaceVoice, 8, "get_local_volume")
	VoiceSetLocalVolume = slot(IfaceVoice, 9, "set_local_volume")
)
