package codec

import (
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/model"
)

// User

// EncodeUser fills a native user record. Strings longer than their field
// are truncated.
func EncodeUser(u model.User) abi.User {
	var n abi.User
	n.ID = u.ID
	PutString(n.Username[:], u.Username)
	PutString(n.Discriminator[:], u.Discriminator)
	PutString(n.Avatar[:], u.Avatar)
	n.Bot = u.Bot
	return n
}

// DecodeUser copies a native user record into Go memory.
func DecodeUser(n *abi.User) model.User {
	return model.User{
		ID:            n.ID,
		Username:      String(n.Username[:]),
		Discriminator: String(n.Discriminator[:]),
		Avatar:        String(n.Avatar[:]),
		Bot:           n.Bot,
	}
}

// UserAt decodes the user record at p. A zero p means the native side had
// no user to report and yields nil.
func UserAt(p uintptr) *model.User {
	if p == 0 {
		return nil
	}
	u := DecodeUser((*abi.User)(unsafe.Pointer(p)))
	return &u
}

// Activity

// EncodeActivity fills a native activity record. Text fields longer than
// their caps are truncated.
func EncodeActivity(a model.Activity) (abi.Activity, error) {
	var n abi.Activity
	t, err := encodeAs(ActivityTypeEnum, a.Type)
	if err != nil {
		return n, err
	}
	n.Type = t
	n.ApplicationID = a.ApplicationID
	PutString(n.Name[:], a.Name)
	PutString(n.State[:], a.State)
	PutString(n.Details[:], a.Details)
	n.Timestamps = abi.ActivityTimestamps{Start: a.Timestamps.Start, End: a.Timestamps.End}
	PutString(n.Assets.LargeImage[:], a.Assets.LargeImage)
	PutString(n.Assets.LargeText[:], a.Assets.LargeText)
	PutString(n.Assets.SmallImage[:], a.Assets.SmallImage)
	PutString(n.Assets.SmallText[:], a.Assets.SmallText)
	PutString(n.Party.ID[:], a.Party.ID)
	n.Party.Size = abi.PartySize{CurrentSize: a.Party.Size.CurrentSize, MaxSize: a.Party.Size.MaxSize}
	PutString(n.Secrets.Match[:], a.Secrets.Match)
	PutString(n.Secrets.Join[:], a.Secrets.Join)
	PutString(n.Secrets.Spectate[:], a.Secrets.Spectate)
	n.Instance = a.Instance
	return n, nil
}

// DecodeActivity copies a native activity record. Enum fields the binding
// does not know pass through as their raw ordinal.
func DecodeActivity(n *abi.Activity) model.Activity {
	return model.Activity{
		Type:          model.ActivityType(ActivityTypeEnum.ordinal(n.Type)),
		ApplicationID: n.ApplicationID,
		Name:          String(n.Name[:]),
		State:         String(n.State[:]),
		Details:       String(n.Details[:]),
		Timestamps:    model.ActivityTimestamps{Start: n.Timestamps.Start, End: n.Timestamps.End},
		Assets: model.ActivityAssets{
			LargeImage: String(n.Assets.LargeImage[:]),
			LargeText:  String(n.Assets.LargeText[:]),
			SmallImage: String(n.Assets.SmallImage[:]),
			SmallText:  String(n.Assets.SmallText[:]),
		},
		Party: model.ActivityParty{
			ID:   String(n.Party.ID[:]),
			Size: model.PartySize{CurrentSize: n.Party.Size.CurrentSize, MaxSize: n.Party.Size.MaxSize},
		},
		Secrets: model.ActivitySecrets{
			Match:    String(n.Secrets.Match[:]),
			Join:     String(n.Secrets.Join[:]),
			Spectate: String(n.Secrets.Spectate[:]),
		},
		Instance: n.Instance,
	}
}

// ActivityAt decodes the activity record at p, or returns nil for zero.
func ActivityAt(p uintptr) *model.Activity {
	if p == 0 {
		return nil
	}
	a := DecodeActivity((*abi.Activity)(unsafe.Pointer(p)))
	return &a
}

// Presence and relationship

// EncodePresence fills a native presence record.
func EncodePresence(p model.Presence) (abi.Presence, error) {
	act, err := EncodeActivity(p.Activity)
	if err != nil {
		return abi.Presence{}, err
	}
	return abi.Presence{Status: StatusEnum.native(int(p.Status)), Activity: act}, nil
}

// DecodePresence copies a native presence record.
func DecodePresence(n *abi.Presence) model.Presence {
	return model.Presence{
		Status:   model.Status(StatusEnum.ordinal(n.Status)),
		Activity: DecodeActivity(&n.Activity),
	}
}

// EncodeRelationship fills a native relationship record.
func EncodeRelationship(r model.Relationship) (abi.Relationship, error) {
	p, err := EncodePresence(r.Presence)
	if err != nil {
		return abi.Relationship{}, err
	}
	return abi.Relationship{
		Type:     RelationshipTypeEnum.native(int(r.Type)),
		User:     EncodeUser(r.User),
		Presence: p,
	}, nil
}

// DecodeRelationship copies a native relationship record.
func DecodeRelationship(n *abi.Relationship) model.Relationship {
	return model.Relationship{
		Type:     model.RelationshipType(RelationshipTypeEnum.ordinal(n.Type)),
		User:     DecodeUser(&n.User),
		Presence: DecodePresence(&n.Presence),
	}
}

// RelationshipAt decodes the relationship record at p, or returns nil for zero.
func RelationshipAt(p uintptr) *model.Relationship {
	if p == 0 {
		return nil
	}
	r := DecodeRelationship((*abi.Relationship)(unsafe.Pointer(p)))
	return &r
}

// Lobby

// EncodeLobby fills a native lobby record.
func EncodeLobby(l model.Lobby) (abi.Lobby, error) {
	var n abi.Lobby
	t, err := EncodeLobbyType(l.Type)
	if err != nil {
		return n, err
	}
	n.ID = l.ID
	n.Type = t
	n.OwnerID = l.OwnerID
	PutString(n.Secret[:], l.Secret)
	n.Capacity = l.Capacity
	n.Locked = l.Locked
	return n, nil
}

// DecodeLobby copies a native lobby record.
func DecodeLobby(n *abi.Lobby) model.Lobby {
	return model.Lobby{
		ID:       n.ID,
		Type:     model.LobbyType(LobbyTypeEnum.ordinal(n.Type)),
		OwnerID:  n.OwnerID,
		Secret:   String(n.Secret[:]),
		Capacity: n.Capacity,
		Locked:   n.Locked,
	}
}

// LobbyAt decodes the lobby record at p, or returns nil for zero.
func LobbyAt(p uintptr) *model.Lobby {
	if p == 0 {
		return nil
	}
	l := DecodeLobby((*abi.Lobby)(unsafe.Pointer(p)))
	return &l
}

// Images

// EncodeImageHandle fills a native image handle.
func EncodeImageHandle(h model.ImageHandle) abi.ImageHandle {
	return abi.ImageHandle{Type: ImageTypeEnum.native(int(h.Type)), ID: h.ID, Size: h.Size}
}

// DecodeImageHandle copies a native image handle.
func DecodeImageHandle(n *abi.ImageHandle) model.ImageHandle {
	return model.ImageHandle{Type: model.ImageType(ImageTypeEnum.ordinal(n.Type)), ID: n.ID, Size: n.Size}
}

// ImageHandleAt decodes an image handle delivered by reference. The second
// result is false for a zero pointer.
func ImageHandleAt(p uintptr) (model.ImageHandle, bool) {
	if p == 0 {
		return model.ImageHandle{}, false
	}
	return DecodeImageHandle((*abi.ImageHandle)(unsafe.Pointer(p))), true
}

// DecodeImageDimensions copies native image dimensions.
func DecodeImageDimensions(n *abi.ImageDimensions) model.ImageDimensions {
	return model.ImageDimensions{Width: n.Width, Height: n.Height}
}

// Voice

// EncodeInputMode fills a native input mode record.
func EncodeInputMode(m model.InputMode) (abi.InputMode, error) {
	var n abi.InputMode
	t, err := EncodeInputModeType(m.Type)
	if err != nil {
		return n, err
	}
	n.Type = t
	PutString(n.Shortcut[:], m.Shortcut)
	return n, nil
}

// DecodeInputMode copies a native input mode record.
func DecodeInputMode(n *abi.InputMode) model.InputMode {
	return model.InputMode{
		Type:     model.InputModeType(InputModeTypeEnum.ordinal(n.Type)),
		Shortcut: String(n.Shortcut[:]),
	}
}

// Fixed string arrays

// MetadataKey returns s in a metadata key array, truncated to fit.
func MetadataKey(s string) *abi.MetadataKey {
	k := new(abi.MetadataKey)
	PutString(k[:], s)
	return k
}

// MetadataValue returns s in a metadata value array, truncated to fit.
func MetadataValue(s string) *abi.MetadataValue {
	v := new(abi.MetadataValue)
	PutString(v[:], s)
	return v
}

// LobbySecret returns s in a lobby secret array, truncated to fit.
func LobbySecret(s string) *abi.LobbySecret {
	v := new(abi.LobbySecret)
	PutString(v[:], s)
	return v
}
