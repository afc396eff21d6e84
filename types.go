package gamesdk

import (
	"github.com/opd-ai/gamesdk/dispatch"
	"github.com/opd-ai/gamesdk/model"
)

// Records and enumerations, re-exported so most programs only import this
// package.
type (
	Result                = model.Result
	LogLevel              = model.LogLevel
	CreateFlags           = model.CreateFlags
	User                  = model.User
	Activity              = model.Activity
	ActivityTimestamps    = model.ActivityTimestamps
	ActivityAssets        = model.ActivityAssets
	ActivityParty         = model.ActivityParty
	ActivitySecrets       = model.ActivitySecrets
	PartySize             = model.PartySize
	ActivityType          = model.ActivityType
	ActivityActionType    = model.ActivityActionType
	JoinRequestReply      = model.JoinRequestReply
	Presence              = model.Presence
	Status                = model.Status
	Relationship          = model.Relationship
	RelationshipType      = model.RelationshipType
	PremiumType           = model.PremiumType
	UserFlag              = model.UserFlag
	Lobby                 = model.Lobby
	LobbyType             = model.LobbyType
	LobbySearchComparison = model.LobbySearchComparison
	LobbySearchCast       = model.LobbySearchCast
	LobbySearchDistance   = model.LobbySearchDistance
	ImageHandle           = model.ImageHandle
	ImageType             = model.ImageType
	ImageDimensions       = model.ImageDimensions
	InputMode             = model.InputMode
	InputModeType         = model.InputModeType

	// EventHandler receives push events; see dispatch.EventHandler.
	EventHandler = dispatch.EventHandler
	// EventAdapter is a no-op EventHandler to embed.
	EventAdapter = dispatch.EventAdapter
	// ListenerID identifies a handler added with Core.AddListener.
	ListenerID = dispatch.ListenerID
)

const (
	ResultOk                              = model.ResultOk
	ResultServiceUnavailable              = model.ResultServiceUnavailable
	ResultInvalidVersion                  = model.ResultInvalidVersion
	ResultLockFailed                      = model.ResultLockFailed
	ResultInternalError                   = model.ResultInternalError
	ResultInvalidPayload                  = model.ResultInvalidPayload
	ResultInvalidCommand                  = model.ResultInvalidCommand
	ResultInvalidPermissions              = model.ResultInvalidPermissions
	ResultNotFetched                      = model.ResultNotFetched
	ResultNotFound                        = model.ResultNotFound
	ResultConflict                        = model.ResultConflict
	ResultInvalidSecret                   = model.ResultInvalidSecret
	ResultInvalidJoinSecret               = model.ResultInvalidJoinSecret
	ResultNoEligibleActivity              = model.ResultNoEligibleActivity
	ResultInvalidInvite                   = model.ResultInvalidInvite
	ResultNotAuthenticated                = model.ResultNotAuthenticated
	ResultInvalidAccessToken              = model.ResultInvalidAccessToken
	ResultApplicationMismatch             = model.ResultApplicationMismatch
	ResultInvalidDataURL                  = model.ResultInvalidDataURL
	ResultInvalidBase64                   = model.ResultInvalidBase64
	ResultNotFiltered                     = model.ResultNotFiltered
	ResultLobbyFull                       = model.ResultLobbyFull
	ResultInvalidLobbySecret              = model.ResultInvalidLobbySecret
	ResultInvalidFilename                 = model.ResultInvalidFilename
	ResultInvalidFileSize                 = model.ResultInvalidFileSize
	ResultInvalidEntitlement              = model.ResultInvalidEntitlement
	ResultNotInstalled                    = model.ResultNotInstalled
	ResultNotRunning                      = model.ResultNotRunning
	ResultInsufficientBuffer              = model.ResultInsufficientBuffer
	ResultPurchaseCanceled                = model.ResultPurchaseCanceled
	ResultInvalidGuild                    = model.ResultInvalidGuild
	ResultInvalidEvent                    = model.ResultInvalidEvent
	ResultInvalidChannel                  = model.ResultInvalidChannel
	ResultInvalidOrigin                   = model.ResultInvalidOrigin
	ResultRateLimited                     = model.ResultRateLimited
	ResultOAuth2Error                     = model.ResultOAuth2Error
	ResultSelectChannelTimeout            = model.ResultSelectChannelTimeout
	ResultGetGuildTimeout                 = model.ResultGetGuildTimeout
	ResultSelectVoiceForceRequired        = model.ResultSelectVoiceForceRequired
	ResultCaptureShortcutAlreadyListening = model.ResultCaptureShortcutAlreadyListening
	ResultUnauthorizedForAchievement      = model.ResultUnauthorizedForAchievement
	ResultInvalidGiftCode                 = model.ResultInvalidGiftCode
	ResultPurchaseError                   = model.ResultPurchaseError
	ResultTransactionAborted              = model.ResultTransactionAborted
	ResultDrawingInitFailed               = model.ResultDrawingInitFailed
)

const (
	LogLevelError = model.LogLevelError
	LogLevelWarn  = model.LogLevelWarn
	LogLevelInfo  = model.LogLevelInfo
	LogLevelDebug = model.LogLevelDebug

	CreateFlagsDefault          = model.CreateFlagsDefault
	CreateFlagsNoRequireDiscord = model.CreateFlagsNoRequireDiscord
)
