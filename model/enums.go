package model

import "fmt"

// LogLevel is the severity of a message from the native log hook.
// Managed ordinals start at 0; the native numbering starts at 1.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String implements fmt.Stringer.
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ParseLogLevel maps a level name to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch s {
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// CreateFlags controls how the native core connects to the client.
type CreateFlags uint64

const (
	// CreateFlagsDefault requires a running client and restarts the game
	// through it when missing.
	CreateFlagsDefault CreateFlags = 0
	// CreateFlagsNoRequireDiscord lets creation fail instead of restarting.
	CreateFlagsNoRequireDiscord CreateFlags = 1
)

// ActivityType is the verb shown with an activity.
type ActivityType int

const (
	ActivityTypePlaying ActivityType = iota
	ActivityTypeStreaming
	ActivityTypeListening
	ActivityTypeWatching
)

// ActivityActionType is the kind of invite sent for an activity.
// Native numbering starts at 1.
type ActivityActionType int

const (
	ActivityActionJoin ActivityActionType = iota
	ActivityActionSpectate
)

// String implements fmt.Stringer.
func (a ActivityActionType) String() string {
	switch a {
	case ActivityActionJoin:
		return "join"
	case ActivityActionSpectate:
		return "spectate"
	}
	return fmt.Sprintf("ActivityActionType(%d)", int(a))
}

// JoinRequestReply answers an incoming ask-to-join.
type JoinRequestReply int

const (
	JoinRequestReplyNo JoinRequestReply = iota
	JoinRequestReplyYes
	JoinRequestReplyIgnore
)

// Status is the online status carried in a presence.
type Status int

const (
	StatusOffline Status = iota
	StatusOnline
	StatusIdle
	StatusDoNotDisturb
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOffline:
		return "offline"
	case StatusOnline:
		return "online"
	case StatusIdle:
		return "idle"
	case StatusDoNotDisturb:
		return "dnd"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// RelationshipType classifies a relationship record.
type RelationshipType int

const (
	RelationshipNone RelationshipType = iota
	RelationshipFriend
	RelationshipBlocked
	RelationshipPendingIncoming
	RelationshipPendingOutgoing
	RelationshipImplicit
)

// PremiumType is the subscription tier of the current user.
type PremiumType int

const (
	PremiumNone PremiumType = iota
	PremiumTier1
	PremiumTier2
)

// UserFlag is a bit in the current user's public flags.
type UserFlag int32

const (
	UserFlagPartner         UserFlag = 2
	UserFlagHypeSquadEvents UserFlag = 4
	UserFlagHypeSquadHouse1 UserFlag = 64
	UserFlagHypeSquadHouse2 UserFlag = 128
	UserFlagHypeSquadHouse3 UserFlag = 256
)

// ImageType identifies the source of an image handle.
type ImageType int

const (
	ImageTypeUser ImageType = iota
)

// InputModeType selects voice activation or push to talk.
type InputModeType int

const (
	InputModeVoiceActivity InputModeType = iota
	InputModePushToTalk
)

// LobbyType is the visibility of a lobby. Native numbering starts at 1.
type LobbyType int

const (
	LobbyTypePrivate LobbyType = iota
	LobbyTypePublic
)

// LobbySearchComparison is the operator of a search filter. The native
// numbering runs from -2 to 3.
type LobbySearchComparison int

const (
	LobbySearchLessThanOrEqual LobbySearchComparison = iota
	LobbySearchLessThan
	LobbySearchEqual
	LobbySearchGreaterThan
	LobbySearchGreaterThanOrEqual
	LobbySearchNotEqual
)

// LobbySearchCast selects how a metadata value is compared.
// Native numbering starts at 1.
type LobbySearchCast int

const (
	LobbySearchCastString LobbySearchCast = iota
	LobbySearchCastNumber
)

// LobbySearchDistance limits a search by region.
type LobbySearchDistance int

const (
	LobbySearchDistanceLocal LobbySearchDistance = iota
	LobbySearchDistanceDefault
	LobbySearchDistanceExtended
	LobbySearchDistanceGlobal
)
