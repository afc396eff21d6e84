package gamesdk

import (
	"errors"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/limits"
	"github.com/opd-ai/gamesdk/model"
)

// ErrNilTransaction is returned when a nil transaction or query is passed.
var ErrNilTransaction = errors.New("gamesdk: nil transaction")

// LobbyManager creates, joins and searches lobbies and carries lobby
// messages, voice and networking.
type LobbyManager struct {
	manager
}

// LobbyTransaction collects changes to a lobby. It is consumed by
// CreateLobby or UpdateLobby and invalid afterwards.
type LobbyTransaction struct {
	manager
}

// MemberTransaction collects metadata changes of one lobby member. It is
// consumed by UpdateMember.
type MemberTransaction struct {
	manager
}

// SearchQuery collects lobby search criteria. It is consumed by Search.
type SearchQuery struct {
	manager
}

// newObject calls a native getter that stores a new object handle through
// its last argument.
func (l *LobbyManager) newObject(slot abi.Slot, kind string, args ...uintptr) (manager, error) {
	var f frame
	defer f.release()
	out := new(uintptr)
	if err := l.check(slot, append(args, ref(&f, out))...); err != nil {
		return manager{}, err
	}
	return manager{core: l.core, native: l.core.track(kind, *out)}, nil
}

// CreateTransaction starts the transaction for a new lobby.
func (l *LobbyManager) CreateTransaction() (*LobbyTransaction, error) {
	m, err := l.newObject(abi.LobbyGetCreateTransaction, "lobby_transaction")
	if err != nil {
		return nil, err
	}
	return &LobbyTransaction{m}, nil
}

// UpdateTransaction starts a transaction that changes lobby lobbyID.
func (l *LobbyManager) UpdateTransaction(lobbyID int64) (*LobbyTransaction, error) {
	m, err := l.newObject(abi.LobbyGetUpdateTransaction, "lobby_transaction", uintptr(lobbyID))
	if err != nil {
		return nil, err
	}
	return &LobbyTransaction{m}, nil
}

// MemberUpdateTransaction starts a metadata transaction for one lobby
// member.
func (l *LobbyManager) MemberUpdateTransaction(lobbyID, userID int64) (*MemberTransaction, error) {
	m, err := l.newObject(abi.LobbyGetMemberUpdateTransaction, "member_transaction", uintptr(lobbyID), uintptr(userID))
	if err != nil {
		return nil, err
	}
	return &MemberTransaction{m}, nil
}

// consuming runs an async call that hands txn to native code and
// invalidates txn once the call went through.
func (l *LobbyManager) consuming(txn manager, slot abi.Slot, fn uintptr, target any, build func(h uintptr) []uintptr) error {
	if txn.native == nil {
		return ErrNilTransaction
	}
	h, err := txn.native.Ptr()
	if err != nil {
		return err
	}
	if err := l.async(slot, fn, target, build(h)...); err != nil {
		return err
	}
	l.core.consume(txn.native)
	return nil
}

// CreateLobby creates a lobby from txn. The current user becomes its
// owner and first member.
func (l *LobbyManager) CreateLobby(txn *LobbyTransaction, cb func(model.Result, *model.Lobby)) error {
	if txn == nil {
		return ErrNilTransaction
	}
	return l.consuming(txn.manager, abi.LobbyCreateLobby, l.core.table.LobbyResult, lobbyResultFunc(cb), func(h uintptr) []uintptr {
		return []uintptr{h}
	})
}

// UpdateLobby applies txn to lobbyID. Only the owner may update a lobby.
func (l *LobbyManager) UpdateLobby(lobbyID int64, txn *LobbyTransaction, cb func(model.Result)) error {
	if txn == nil {
		return ErrNilTransaction
	}
	return l.consuming(txn.manager, abi.LobbyUpdateLobby, l.core.table.Result, resultFunc(cb), func(h uintptr) []uintptr {
		return []uintptr{uintptr(lobbyID), h}
	})
}

// DeleteLobby deletes a lobby the current user owns.
func (l *LobbyManager) DeleteLobby(lobbyID int64, cb func(model.Result)) error {
	return l.async(abi.LobbyDeleteLobby, l.core.table.Result, resultFunc(cb), uintptr(lobbyID))
}

// ConnectLobby joins lobbyID using its secret.
func (l *LobbyManager) ConnectLobby(lobbyID int64, secret string, cb func(model.Result, *model.Lobby)) error {
	var f frame
	defer f.release()
	return l.async(abi.LobbyConnectLobby, l.core.table.LobbyResult, lobbyResultFunc(cb), uintptr(lobbyID), ref(&f, codec.LobbySecret(secret)))
}

// ConnectLobbyWithActivitySecret joins the lobby behind an activity join
// secret, as received by OnActivityJoin.
func (l *LobbyManager) ConnectLobbyWithActivitySecret(secret string, cb func(model.Result, *model.Lobby)) error {
	var f frame
	defer f.release()
	return l.async(abi.LobbyConnectLobbyWithActivitySecret, l.core.table.LobbyResult, lobbyResultFunc(cb), ref(&f, codec.LobbySecret(secret)))
}

// DisconnectLobby leaves lobbyID.
func (l *LobbyManager) DisconnectLobby(lobbyID int64, cb func(model.Result)) error {
	return l.async(abi.LobbyDisconnectLobby, l.core.table.Result, resultFunc(cb), uintptr(lobbyID))
}

// Lobby returns a lobby the current user is connected to or found by
// Search.
func (l *LobbyManager) Lobby(lobbyID int64) (model.Lobby, error) {
	var f frame
	defer f.release()
	rec := new(abi.Lobby)
	if err := l.check(abi.LobbyGetLobby, uintptr(lobbyID), ref(&f, rec)); err != nil {
		return model.Lobby{}, err
	}
	return codec.DecodeLobby(rec), nil
}

// ActivitySecret returns the secret to put in an activity so that others
// can join the lobby through it.
func (l *LobbyManager) ActivitySecret(lobbyID int64) (string, error) {
	var f frame
	defer f.release()
	secret := new(abi.LobbySecret)
	if err := l.check(abi.LobbyGetLobbyActivitySecret, uintptr(lobbyID), ref(&f, secret)); err != nil {
		return "", err
	}
	return codec.String(secret[:]), nil
}

// MetadataValue returns the lobby metadata value under key.
func (l *LobbyManager) MetadataValue(lobbyID int64, key string) (string, error) {
	var f frame
	defer f.release()
	v := new(abi.MetadataValue)
	if err := l.check(abi.LobbyGetLobbyMetadataValue, uintptr(lobbyID), ref(&f, codec.MetadataKey(key)), ref(&f, v)); err != nil {
		return "", err
	}
	return codec.String(v[:]), nil
}

// MetadataKey returns the lobby metadata key at index.
func (l *LobbyManager) MetadataKey(lobbyID int64, index int32) (string, error) {
	var f frame
	defer f.release()
	k := new(abi.MetadataKey)
	if err := l.check(abi.LobbyGetLobbyMetadataKey, uintptr(lobbyID), uintptr(index), ref(&f, k)); err != nil {
		return "", err
	}
	return codec.String(k[:]), nil
}

// MetadataCount returns the number of lobby metadata entries.
func (l *LobbyManager) MetadataCount(lobbyID int64) (int32, error) {
	return l.count(abi.LobbyLobbyMetadataCount, uintptr(lobbyID))
}

// Metadata returns all lobby metadata.
func (l *LobbyManager) Metadata(lobbyID int64) (map[string]string, error) {
	n, err := l.MetadataCount(lobbyID)
	if err != nil {
		return nil, err
	}
	md := make(map[string]string, n)
	for i := int32(0); i < n; i++ {
		k, err := l.MetadataKey(lobbyID, i)
		if err != nil {
			return nil, err
		}
		if md[k], err = l.MetadataValue(lobbyID, k); err != nil {
			return nil, err
		}
	}
	return md, nil
}

// MemberCount returns the number of members of lobbyID.
func (l *LobbyManager) MemberCount(lobbyID int64) (int32, error) {
	return l.count(abi.LobbyMemberCount, uintptr(lobbyID))
}

// MemberUserID returns the user id of the member at index.
func (l *LobbyManager) MemberUserID(lobbyID int64, index int32) (int64, error) {
	var f frame
	defer f.release()
	id := new(int64)
	if err := l.check(abi.LobbyGetMemberUserID, uintptr(lobbyID), uintptr(index), ref(&f, id)); err != nil {
		return 0, err
	}
	return *id, nil
}

// MemberUser returns the user record of a member.
func (l *LobbyManager) MemberUser(lobbyID, userID int64) (model.User, error) {
	var f frame
	defer f.release()
	rec := new(abi.User)
	if err := l.check(abi.LobbyGetMemberUser, uintptr(lobbyID), uintptr(userID), ref(&f, rec)); err != nil {
		return model.User{}, err
	}
	return codec.DecodeUser(rec), nil
}

// MemberMetadataValue returns the member metadata value under key.
func (l *LobbyManager) MemberMetadataValue(lobbyID, userID int64, key string) (string, error) {
	var f frame
	defer f.release()
	v := new(abi.MetadataValue)
	if err := l.check(abi.LobbyGetMemberMetadataValue, uintptr(lobbyID), uintptr(userID), ref(&f, codec.MetadataKey(key)), ref(&f, v)); err != nil {
		return "", err
	}
	return codec.String(v[:]), nil
}

// MemberMetadataKey returns the member metadata key at index.
func (l *LobbyManager) MemberMetadataKey(lobbyID, userID int64, index int32) (string, error) {
	var f frame
	defer f.release()
	k := new(abi.MetadataKey)
	if err := l.check(abi.LobbyGetMemberMetadataKey, uintptr(lobbyID), uintptr(userID), uintptr(index), ref(&f, k)); err != nil {
		return "", err
	}
	return codec.String(k[:]), nil
}

// MemberMetadataCount returns the number of metadata entries of a member.
func (l *LobbyManager) MemberMetadataCount(lobbyID, userID int64) (int32, error) {
	return l.count(abi.LobbyMemberMetadataCount, uintptr(lobbyID), uintptr(userID))
}

func (l *LobbyManager) count(slot abi.Slot, args ...uintptr) (int32, error) {
	var f frame
	defer f.release()
	n := new(int32)
	if err := l.check(slot, append(args, ref(&f, n))...); err != nil {
		return 0, err
	}
	return *n, nil
}

// UpdateMember applies txn to the metadata of member userID.
func (l *LobbyManager) UpdateMember(lobbyID, userID int64, txn *MemberTransaction, cb func(model.Result)) error {
	if txn == nil {
		return ErrNilTransaction
	}
	return l.consuming(txn.manager, abi.LobbyUpdateMember, l.core.table.Result, resultFunc(cb), func(h uintptr) []uintptr {
		return []uintptr{uintptr(lobbyID), uintptr(userID), h}
	})
}

// SendLobbyMessage sends data to every member. Members receive it through
// OnLobbyMessage.
func (l *LobbyManager) SendLobbyMessage(lobbyID int64, data []byte, cb func(model.Result)) error {
	if err := limits.ValidateMessage(data); err != nil {
		return err
	}
	var f frame
	defer f.release()
	p, n := f.bytes(data)
	return l.async(abi.LobbySendLobbyMessage, l.core.table.Result, resultFunc(cb), uintptr(lobbyID), p, n)
}

// SearchQuery starts a lobby search. Pass it to Search once the criteria
// are set.
func (l *LobbyManager) SearchQuery() (*SearchQuery, error) {
	m, err := l.newObject(abi.LobbyGetSearchQuery, "search_query")
	if err != nil {
		return nil, err
	}
	return &SearchQuery{m}, nil
}

// Search runs query. On success LobbyCount and LobbyIDAt return the
// matching lobbies.
func (l *LobbyManager) Search(query *SearchQuery, cb func(model.Result)) error {
	if query == nil {
		return ErrNilTransaction
	}
	return l.consuming(query.manager, abi.LobbySearch, l.core.table.Result, resultFunc(cb), func(h uintptr) []uintptr {
		return []uintptr{h}
	})
}

// LobbyCount returns the number of lobbies found by the last Search.
func (l *LobbyManager) LobbyCount() (int32, error) {
	var f frame
	defer f.release()
	n := new(int32)
	if _, err := l.call(abi.LobbyLobbyCount, ref(&f, n)); err != nil {
		return 0, err
	}
	return *n, nil
}

// LobbyIDAt returns the id of the found lobby at index.
func (l *LobbyManager) LobbyIDAt(index int32) (int64, error) {
	var f frame
	defer f.release()
	id := new(int64)
	if err := l.check(abi.LobbyGetLobbyID, uintptr(index), ref(&f, id)); err != nil {
		return 0, err
	}
	return *id, nil
}

// ConnectVoice joins the voice channel of lobbyID.
func (l *LobbyManager) ConnectVoice(lobbyID int64, cb func(model.Result)) error {
	return l.async(abi.LobbyConnectVoice, l.core.table.Result, resultFunc(cb), uintptr(lobbyID))
}

// DisconnectVoice leaves the voice channel of lobbyID.
func (l *LobbyManager) DisconnectVoice(lobbyID int64, cb func(model.Result)) error {
	return l.async(abi.LobbyDisconnectVoice, l.core.table.Result, resultFunc(cb), uintptr(lobbyID))
}

// ConnectNetwork joins the lobby's peer network. Messages arrive through
// OnLobbyNetworkMessage.
func (l *LobbyManager) ConnectNetwork(lobbyID int64) error {
	return l.check(abi.LobbyConnectNetwork, uintptr(lobbyID))
}

// DisconnectNetwork leaves the lobby's peer network.
func (l *LobbyManager) DisconnectNetwork(lobbyID int64) error {
	return l.check(abi.LobbyDisconnectNetwork, uintptr(lobbyID))
}

// FlushNetwork sends queued lobby network messages.
func (l *LobbyManager) FlushNetwork() error {
	return l.check(abi.LobbyFlushNetwork)
}

// OpenNetworkChannel opens channel on the lobby network.
func (l *LobbyManager) OpenNetworkChannel(lobbyID int64, channel uint8, reliable bool) error {
	return l.check(abi.LobbyOpenNetworkChannel, uintptr(lobbyID), uintptr(channel), cbool(reliable))
}

// SendNetworkMessage sends data to one member over an open channel.
func (l *LobbyManager) SendNetworkMessage(lobbyID, userID int64, channel uint8, data []byte) error {
	if err := limits.ValidateMessage(data); err != nil {
		return err
	}
	var f frame
	defer f.release()
	p, n := f.bytes(data)
	return l.check(abi.LobbySendNetworkMessage, uintptr(lobbyID), uintptr(userID), uintptr(channel), p, n)
}

// Lobby transaction

// SetType makes the lobby public or private.
func (t *LobbyTransaction) SetType(typ model.LobbyType) error {
	native, err := codec.EncodeLobbyType(typ)
	if err != nil {
		return err
	}
	return t.check(abi.LobbyTxnSetType, uintptr(native))
}

// SetOwner hands the lobby to another member.
func (t *LobbyTransaction) SetOwner(userID int64) error {
	return t.check(abi.LobbyTxnSetOwner, uintptr(userID))
}

// SetCapacity sets the maximum number of members.
func (t *LobbyTransaction) SetCapacity(capacity uint32) error {
	return t.check(abi.LobbyTxnSetCapacity, uintptr(capacity))
}

// SetMetadata sets lobby metadata key to value.
func (t *LobbyTransaction) SetMetadata(key, value string) error {
	var f frame
	defer f.release()
	return t.check(abi.LobbyTxnSetMetadata, ref(&f, codec.MetadataKey(key)), ref(&f, codec.MetadataValue(value)))
}

// DeleteMetadata removes lobby metadata key.
func (t *LobbyTransaction) DeleteMetadata(key string) error {
	var f frame
	defer f.release()
	return t.check(abi.LobbyTxnDeleteMetadata, ref(&f, codec.MetadataKey(key)))
}

// SetLocked stops or allows new members joining.
func (t *LobbyTransaction) SetLocked(locked bool) error {
	return t.check(abi.LobbyTxnSetLocked, cbool(locked))
}

// Member transaction

// SetMetadata sets member metadata key to value.
func (t *MemberTransaction) SetMetadata(key, value string) error {
	var f frame
	defer f.release()
	return t.check(abi.MemberTxnSetMetadata, ref(&f, codec.MetadataKey(key)), ref(&f, codec.MetadataValue(value)))
}

// DeleteMetadata removes member metadata key.
func (t *MemberTransaction) DeleteMetadata(key string) error {
	var f frame
	defer f.release()
	return t.check(abi.MemberTxnDeleteMetadata, ref(&f, codec.MetadataKey(key)))
}

// Search query

// Filter keeps lobbies whose metadata key compares to value with cmp.
// Lobby fields other than metadata are not searchable; keys may carry the
// "metadata." prefix used by the client.
func (q *SearchQuery) Filter(key string, cmp model.LobbySearchComparison, cast model.LobbySearchCast, value string) error {
	nativeCmp, err := codec.EncodeLobbySearchComparison(cmp)
	if err != nil {
		return err
	}
	nativeCast, err := codec.EncodeLobbySearchCast(cast)
	if err != nil {
		return err
	}
	var f frame
	defer f.release()
	return q.check(abi.SearchFilter, ref(&f, codec.MetadataKey(key)), uintptr(nativeCmp), uintptr(nativeCast), ref(&f, codec.MetadataValue(value)))
}

// Sort orders results by how near metadata key is to value.
func (q *SearchQuery) Sort(key string, cast model.LobbySearchCast, value string) error {
	nativeCast, err := codec.EncodeLobbySearchCast(cast)
	if err != nil {
		return err
	}
	var f frame
	defer f.release()
	return q.check(abi.SearchSort, ref(&f, codec.MetadataKey(key)), uintptr(nativeCast), ref(&f, codec.MetadataValue(value)))
}

// Limit caps the number of results.
func (q *SearchQuery) Limit(limit uint32) error {
	return q.check(abi.SearchLimit, uintptr(limit))
}

// Distance limits results to lobbies in the given region range.
func (q *SearchQuery) Distance(distance model.LobbySearchDistance) error {
	native, err := codec.EncodeLobbySearchDistance(distance)
	if err != nil {
		return err
	}
	return q.check(abi.SearchDistance, uintptr(native))
}
