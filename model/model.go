// Package model holds the Go-side representations of the records and
// enumerations exchanged with the native SDK.
//
// Values here own their memory. Nothing in this package points into native
// memory, so a record decoded inside a callback stays valid after the
// callback returns.
package model

// User is a user record. A nil *User is the absent sentinel used when the
// native side reports no user.
type User struct {
	ID            int64
	Username      string
	Discriminator string
	Avatar        string
	Bot           bool
}

// ActivityTimestamps are unix seconds; zero means unset.
type ActivityTimestamps struct {
	Start int64
	End   int64
}

// ActivityAssets are asset keys and hover texts.
type ActivityAssets struct {
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
}

// PartySize is the current and maximum party size.
type PartySize struct {
	CurrentSize int32
	MaxSize     int32
}

// ActivityParty identifies the party shown with an activity.
type ActivityParty struct {
	ID   string
	Size PartySize
}

// ActivitySecrets are the opaque secrets used for joining and spectating.
type ActivitySecrets struct {
	Match    string
	Join     string
	Spectate string
}

// Activity is a rich presence activity.
type Activity struct {
	Type          ActivityType
	ApplicationID int64
	Name          string
	State         string
	Details       string
	Timestamps    ActivityTimestamps
	Assets        ActivityAssets
	Party         ActivityParty
	Secrets       ActivitySecrets
	Instance      bool
}

// Presence is a status plus the activity being shown.
type Presence struct {
	Status   Status
	Activity Activity
}

// Relationship is an entry of the current user's relationship list.
type Relationship struct {
	Type     RelationshipType
	User     User
	Presence Presence
}

// Lobby is a lobby record.
type Lobby struct {
	ID       int64
	Type     LobbyType
	OwnerID  int64
	Secret   string
	Capacity uint32
	Locked   bool
}

// ImageHandle names an image to fetch.
type ImageHandle struct {
	Type ImageType
	ID   int64
	Size uint32
}

// ImageDimensions are the pixel dimensions of a fetched image.
type ImageDimensions struct {
	Width  uint32
	Height uint32
}

// ByteSize is the size of the RGBA data of an image with these dimensions.
func (d ImageDimensions) ByteSize() uint64 {
	return uint64(d.Width) * uint64(d.Height) * 4
}

// InputMode is the voice input configuration.
type InputMode struct {
	Type     InputModeType
	Shortcut string
}
