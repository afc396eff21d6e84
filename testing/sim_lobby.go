package testing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
)

const defaultLobbyCapacity = 16

var lobbyHandlers = map[slotKey]handler{
	keyOf(abi.LobbyGetCreateTransaction):           (*SimulatedSDK).lobbyCreateTxn,
	keyOf(abi.LobbyGetUpdateTransaction):           (*SimulatedSDK).lobbyUpdateTxn,
	keyOf(abi.LobbyGetMemberUpdateTransaction):     (*SimulatedSDK).lobbyMemberTxn,
	keyOf(abi.LobbyCreateLobby):                    (*SimulatedSDK).lobbyCreate,
	keyOf(abi.LobbyUpdateLobby):                    (*SimulatedSDK).lobbyUpdate,
	keyOf(abi.LobbyDeleteLobby):                    (*SimulatedSDK).lobbyDelete,
	keyOf(abi.LobbyConnectLobby):                   (*SimulatedSDK).lobbyConnect,
	keyOf(abi.LobbyConnectLobbyWithActivitySecret): (*SimulatedSDK).lobbyConnectActivitySecret,
	keyOf(abi.LobbyDisconnectLobby):                (*SimulatedSDK).lobbyDisconnect,
	keyOf(abi.LobbyGetLobby):                       (*SimulatedSDK).lobbyGet,
	keyOf(abi.LobbyGetLobbyActivitySecret):         (*SimulatedSDK).lobbyActivitySecret,
	keyOf(abi.LobbyGetLobbyMetadataValue):          (*SimulatedSDK).lobbyMetadataValue,
	keyOf(abi.LobbyGetLobbyMetadataKey):            (*SimulatedSDK).lobbyMetadataKey,
	keyOf(abi.LobbyLobbyMetadataCount):             (*SimulatedSDK).lobbyMetadataCount,
	keyOf(abi.LobbyMemberCount):                    (*SimulatedSDK).lobbyMemberCount,
	keyOf(abi.LobbyGetMemberUserID):                (*SimulatedSDK).lobbyMemberUserID,
	keyOf(abi.LobbyGetMemberUser):                  (*SimulatedSDK).lobbyMemberUser,
	keyOf(abi.LobbyGetMemberMetadataValue):         (*SimulatedSDK).lobbyMemberMetadataValue,
	keyOf(abi.LobbyGetMemberMetadataKey):           (*SimulatedSDK).lobbyMemberMetadataKey,
	keyOf(abi.LobbyMemberMetadataCount):            (*SimulatedSDK).lobbyMemberMetadataCount,
	keyOf(abi.LobbyUpdateMember):                   (*SimulatedSDK).lobbyUpdateMember,
	keyOf(abi.LobbySendLobbyMessage):               (*SimulatedSDK).lobbySendMessage,
	keyOf(abi.LobbyGetSearchQuery):                 (*SimulatedSDK).lobbySearchQuery,
	keyOf(abi.LobbySearch):                         (*SimulatedSDK).lobbySearch,
	keyOf(abi.LobbyLobbyCount):                     (*SimulatedSDK).lobbyCount,
	keyOf(abi.LobbyGetLobbyID):                     (*SimulatedSDK).lobbyIDAt,
	keyOf(abi.LobbyConnectVoice):                   (*SimulatedSDK).lobbyConnectVoice,
	keyOf(abi.LobbyDisconnectVoice):                (*SimulatedSDK).lobbyDisconnectVoice,
	keyOf(abi.LobbyConnectNetwork):                 (*SimulatedSDK).lobbyConnectNetwork,
	keyOf(abi.LobbyDisconnectNetwork):              (*SimulatedSDK).lobbyDisconnectNetwork,
	keyOf(abi.LobbyFlushNetwork):                   (*SimulatedSDK).lobbyFlushNetwork,
	keyOf(abi.LobbyOpenNetworkChannel):             (*SimulatedSDK).lobbyOpenChannel,
	keyOf(abi.LobbySendNetworkMessage):             (*SimulatedSDK).lobbySendNetworkMessage,

	keyOf(abi.LobbyTxnSetType):        (*SimulatedSDK).txnSetType,
	keyOf(abi.LobbyTxnSetOwner):       (*SimulatedSDK).txnSetOwner,
	keyOf(abi.LobbyTxnSetCapacity):    (*SimulatedSDK).txnSetCapacity,
	keyOf(abi.LobbyTxnSetMetadata):    (*SimulatedSDK).txnSetMetadata,
	keyOf(abi.LobbyTxnDeleteMetadata): (*SimulatedSDK).txnDeleteMetadata,
	keyOf(abi.LobbyTxnSetLocked):      (*SimulatedSDK).txnSetLocked,

	keyOf(abi.MemberTxnSetMetadata):    (*SimulatedSDK).memberTxnSetMetadata,
	keyOf(abi.MemberTxnDeleteMetadata): (*SimulatedSDK).memberTxnDeleteMetadata,

	keyOf(abi.SearchFilter):   (*SimulatedSDK).searchFilter,
	keyOf(abi.SearchSort):     (*SimulatedSDK).searchSort,
	keyOf(abi.SearchLimit):    (*SimulatedSDK).searchLimit,
	keyOf(abi.SearchDistance): (*SimulatedSDK).searchDistance,
}

func resultOk() uintptr { return result(model.ResultOk) }

func key(p uintptr) (string, bool) {
	k := at[abi.MetadataKey](p)
	if k == nil {
		return "", false
	}
	return codec.String(k[:]), true
}

func value(p uintptr) (string, bool) {
	v := at[abi.MetadataValue](p)
	if v == nil {
		return "", false
	}
	return codec.String(v[:]), true
}

func activitySecret(l model.Lobby) string {
	return fmt.Sprintf("%d:%s", l.ID, l.Secret)
}

// lobbyCallback schedules cb(data, r, Lobby*) with a snapshot of l, or a
// null lobby when l is nil.
func (s *SimulatedSDK) lobbyCallback(o *object, data, cb uintptr, r model.Result, l *model.Lobby) {
	var snap *model.Lobby
	if l != nil {
		c := *l
		snap = &c
	}
	o.sess.later(func() {
		if snap == nil {
			s.invoke(cb, data, result(r), 0)
			return
		}
		rec, err := codec.EncodeLobby(*snap)
		if err != nil {
			s.invoke(cb, data, result(model.ResultInternalError), 0)
			return
		}
		var f frame
		defer f.done()
		s.invoke(cb, data, result(r), ref(&f, &rec))
	})
}

func (s *SimulatedSDK) lobbyEvent(ss *session, pick func(*abi.LobbyEvents) uintptr, build func(*frame) []uintptr) {
	ss.later(func() { emit(s, ss, ss.params.LobbyEvents, pick, build) })
}

// takeObject removes a transaction or query handle. Consumed handles are
// gone for good.
func (s *SimulatedSDK) takeObject(o *object, h uintptr, iface abi.Iface) (*object, bool) {
	t, found := s.objects[h]
	if !found || t.iface != iface || t.sess != o.sess {
		return nil, false
	}
	delete(s.objects, h)
	return t, true
}

// Transactions

func (s *SimulatedSDK) newTxnObject(o *object, out uintptr, t *object) uintptr {
	s.nextObject += 0x10
	s.objects[s.nextObject] = t
	if !put(out, s.nextObject) {
		delete(s.objects, s.nextObject)
		return result(model.ResultInvalidPayload)
	}
	return resultOk()
}

func (s *SimulatedSDK) lobbyCreateTxn(o *object, a []uintptr) (uintptr, func()) {
	t := &object{iface: abi.IfaceLobbyTransaction, sess: o.sess, lobbyTxn: newLobbyTxn(0)}
	return s.newTxnObject(o, a[0], t), nil
}

func (s *SimulatedSDK) lobbyUpdateTxn(o *object, a []uintptr) (uintptr, func()) {
	id := int64(a[0])
	if _, found := o.sess.lobby(id); !found {
		return result(model.ResultNotFound), nil
	}
	t := &object{iface: abi.IfaceLobbyTransaction, sess: o.sess, lobbyTxn: newLobbyTxn(id)}
	return s.newTxnObject(o, a[1], t), nil
}

func (s *SimulatedSDK) lobbyMemberTxn(o *object, a []uintptr) (uintptr, func()) {
	id, user := int64(a[0]), int64(a[1])
	l, found := o.sess.lobby(id)
	if !found || !l.isMember(user) {
		return result(model.ResultNotFound), nil
	}
	t := &object{
		iface:     abi.IfaceMemberTransaction,
		sess:      o.sess,
		memberTxn: &memberTxn{lobbyID: id, userID: user, set: make(map[string]string)},
	}
	return s.newTxnObject(o, a[2], t), nil
}

func (s *SimulatedSDK) txnSetType(o *object, a []uintptr) (uintptr, func()) {
	t, err := codec.DecodeLobbyType(int32(a[0]))
	if err != nil {
		return result(model.ResultInvalidPayload), nil
	}
	o.lobbyTxn.typ = &t
	return resultOk(), nil
}

func (s *SimulatedSDK) txnSetOwner(o *object, a []uintptr) (uintptr, func()) {
	owner := int64(a[0])
	o.lobbyTxn.owner = &owner
	return resultOk(), nil
}

func (s *SimulatedSDK) txnSetCapacity(o *object, a []uintptr) (uintptr, func()) {
	c := uint32(a[0])
	o.lobbyTxn.capacity = &c
	return resultOk(), nil
}

func (s *SimulatedSDK) txnSetMetadata(o *object, a []uintptr) (uintptr, func()) {
	k, kok := key(a[0])
	v, vok := value(a[1])
	if !kok || !vok || k == "" {
		return result(model.ResultInvalidPayload), nil
	}
	o.lobbyTxn.set[k] = v
	return resultOk(), nil
}

func (s *SimulatedSDK) txnDeleteMetadata(o *object, a []uintptr) (uintptr, func()) {
	k, kok := key(a[0])
	if !kok {
		return result(model.ResultInvalidPayload), nil
	}
	delete(o.lobbyTxn.set, k)
	o.lobbyTxn.deleted = append(o.lobbyTxn.deleted, k)
	return resultOk(), nil
}

func (s *SimulatedSDK) txnSetLocked(o *object, a []uintptr) (uintptr, func()) {
	locked := cbool(a[0])
	o.lobbyTxn.locked = &locked
	return resultOk(), nil
}

func (s *SimulatedSDK) memberTxnSetMetadata(o *object, a []uintptr) (uintptr, func()) {
	k, kok := key(a[0])
	v, vok := value(a[1])
	if !kok || !vok || k == "" {
		return result(model.ResultInvalidPayload), nil
	}
	o.memberTxn.set[k] = v
	return resultOk(), nil
}

func (s *SimulatedSDK) memberTxnDeleteMetadata(o *object, a []uintptr) (uintptr, func()) {
	k, kok := key(a[0])
	if !kok {
		return result(model.ResultInvalidPayload), nil
	}
	delete(o.memberTxn.set, k)
	o.memberTxn.deleted = append(o.memberTxn.deleted, k)
	return resultOk(), nil
}

// Lobby lifecycle

func (s *SimulatedSDK) lobbyCreate(o *object, a []uintptr) (uintptr, func()) {
	data, cb := a[1], a[2]
	t, found := s.takeObject(o, a[0], abi.IfaceLobbyTransaction)
	if !found || t.lobbyTxn.lobbyID != 0 {
		s.lobbyCallback(o, data, cb, model.ResultInvalidPayload, nil)
		return 0, nil
	}
	ss := o.sess
	id := ss.nextLobby
	ss.nextLobby++
	l := &simLobby{
		lobby: model.Lobby{
			ID:       id,
			Type:     model.LobbyTypePrivate,
			OwnerID:  s.currentUser.ID,
			Secret:   fmt.Sprintf("sim%06d", id%1000000),
			Capacity: defaultLobbyCapacity,
		},
		metadata:  newOrderedMap(),
		memberMD:  make(map[int64]*orderedMap),
		connected: true,
		channels:  make(map[uint8]bool),
	}
	t.lobbyTxn.apply(l)
	l.addMember(s.currentUser.ID)
	ss.lobbies[id] = l
	ss.lobbyOrder = append(ss.lobbyOrder, id)
	s.lobbyCallback(o, data, cb, model.ResultOk, &l.lobby)
	return 0, nil
}

func (s *SimulatedSDK) lobbyUpdate(o *object, a []uintptr) (uintptr, func()) {
	id, data, cb := int64(a[0]), a[2], a[3]
	t, found := s.takeObject(o, a[1], abi.IfaceLobbyTransaction)
	l, exists := o.sess.lobby(id)
	switch {
	case !found || t.lobbyTxn.lobbyID != id:
		s.later(o, data, cb, model.ResultInvalidPayload)
	case !exists:
		s.later(o, data, cb, model.ResultNotFound)
	case l.lobby.OwnerID != s.currentUser.ID:
		s.later(o, data, cb, model.ResultInvalidPermissions)
	default:
		t.lobbyTxn.apply(l)
		s.later(o, data, cb, model.ResultOk)
		s.lobbyEvent(o.sess, func(e *abi.LobbyEvents) uintptr { return e.OnLobbyUpdate }, func(*frame) []uintptr {
			return []uintptr{uintptr(id)}
		})
	}
	return 0, nil
}

func (s *SimulatedSDK) lobbyDelete(o *object, a []uintptr) (uintptr, func()) {
	id, data, cb := int64(a[0]), a[1], a[2]
	ss := o.sess
	l, exists := ss.lobby(id)
	switch {
	case !exists:
		s.later(o, data, cb, model.ResultNotFound)
	case l.lobby.OwnerID != s.currentUser.ID:
		s.later(o, data, cb, model.ResultInvalidPermissions)
	default:
		ss.dropLobby(id)
		s.later(o, data, cb, model.ResultOk)
		s.lobbyEvent(ss, func(e *abi.LobbyEvents) uintptr { return e.OnLobbyDelete }, func(*frame) []uintptr {
			return []uintptr{uintptr(id), 0}
		})
	}
	return 0, nil
}

func (ss *session) dropLobby(id int64) {
	delete(ss.lobbies, id)
	delete(ss.voice, id)
	for i, l := range ss.lobbyOrder {
		if l == id {
			ss.lobbyOrder = append(ss.lobbyOrder[:i], ss.lobbyOrder[i+1:]...)
			break
		}
	}
}

func (s *SimulatedSDK) join(o *object, l *simLobby, data, cb uintptr) {
	if len(l.members) >= int(l.lobby.Capacity) && !l.isMember(s.currentUser.ID) {
		s.lobbyCallback(o, data, cb, model.ResultLobbyFull, nil)
		return
	}
	l.addMember(s.currentUser.ID)
	l.connected = true
	s.lobbyCallback(o, data, cb, model.ResultOk, &l.lobby)
}

func (s *SimulatedSDK) lobbyConnect(o *object, a []uintptr) (uintptr, func()) {
	id, data, cb := int64(a[0]), a[2], a[3]
	secret := at[abi.LobbySecret](a[1])
	l, exists := o.sess.lobby(id)
	switch {
	case !exists:
		s.lobbyCallback(o, data, cb, model.ResultNotFound, nil)
	case secret == nil || codec.String(secret[:]) != l.lobby.Secret:
		s.lobbyCallback(o, data, cb, model.ResultInvalidLobbySecret, nil)
	default:
		s.join(o, l, data, cb)
	}
	return 0, nil
}

func (s *SimulatedSDK) lobbyConnectActivitySecret(o *object, a []uintptr) (uintptr, func()) {
	data, cb := a[1], a[2]
	secret := at[abi.LobbySecret](a[0])
	if secret == nil {
		s.lobbyCallback(o, data, cb, model.ResultInvalidSecret, nil)
		return 0, nil
	}
	want := codec.String(secret[:])
	for _, id := range o.sess.lobbyOrder {
		l := o.sess.lobbies[id]
		if activitySecret(l.lobby) == want {
			s.join(o, l, data, cb)
			return 0, nil
		}
	}
	s.lobbyCallback(o, data, cb, model.ResultInvalidSecret, nil)
	return 0, nil
}

func (s *SimulatedSDK) lobbyDisconnect(o *object, a []uintptr) (uintptr, func()) {
	id, data, cb := int64(a[0]), a[1], a[2]
	l, exists := o.sess.lobby(id)
	if !exists || !l.isMember(s.currentUser.ID) {
		s.later(o, data, cb, model.ResultNotFound)
		return 0, nil
	}
	l.removeMember(s.currentUser.ID)
	l.connected = false
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

// Lobby reads

func (s *SimulatedSDK) lobbyGet(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists {
		return result(model.ResultNotFound), nil
	}
	rec, err := codec.EncodeLobby(l.lobby)
	if err != nil || !put(a[1], rec) {
		return result(model.ResultInternalError), nil
	}
	return resultOk(), nil
}

func (s *SimulatedSDK) lobbyActivitySecret(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists {
		return result(model.ResultNotFound), nil
	}
	if !put(a[1], *codec.LobbySecret(activitySecret(l.lobby))) {
		return result(model.ResultInvalidPayload), nil
	}
	return resultOk(), nil
}

func metadataValue(m *orderedMap, kp, out uintptr) uintptr {
	k, kok := key(kp)
	if !kok {
		return result(model.ResultInvalidPayload)
	}
	v, found := m.get(k)
	if !found {
		return result(model.ResultNotFound)
	}
	if !put(out, *codec.MetadataValue(v)) {
		return result(model.ResultInvalidPayload)
	}
	return resultOk()
}

func metadataKey(m *orderedMap, index int32, out uintptr) uintptr {
	k, found := m.keyAt(int(index))
	if !found {
		return result(model.ResultNotFound)
	}
	if !put(out, *codec.MetadataKey(k)) {
		return result(model.ResultInvalidPayload)
	}
	return resultOk()
}

func count(n int, out uintptr) uintptr {
	if !put(out, int32(n)) {
		return result(model.ResultInvalidPayload)
	}
	return resultOk()
}

func (s *SimulatedSDK) lobbyMetadataValue(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists {
		return result(model.ResultNotFound), nil
	}
	return metadataValue(l.metadata, a[1], a[2]), nil
}

func (s *SimulatedSDK) lobbyMetadataKey(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists {
		return result(model.ResultNotFound), nil
	}
	return metadataKey(l.metadata, int32(a[1]), a[2]), nil
}

func (s *SimulatedSDK) lobbyMetadataCount(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists {
		return result(model.ResultNotFound), nil
	}
	return count(l.metadata.len(), a[1]), nil
}

func (s *SimulatedSDK) lobbyMemberCount(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists {
		return result(model.ResultNotFound), nil
	}
	return count(len(l.members), a[1]), nil
}

func (s *SimulatedSDK) lobbyMemberUserID(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	i := int(int32(a[1]))
	if !exists || i < 0 || i >= len(l.members) {
		return result(model.ResultNotFound), nil
	}
	if !put(a[2], l.members[i]) {
		return result(model.ResultInvalidPayload), nil
	}
	return resultOk(), nil
}

func (s *SimulatedSDK) member(o *object, lobby, user uintptr) (*simLobby, *orderedMap, bool) {
	l, exists := o.sess.lobby(int64(lobby))
	if !exists || !l.isMember(int64(user)) {
		return nil, nil, false
	}
	return l, l.memberMD[int64(user)], true
}

func (s *SimulatedSDK) lobbyMemberUser(o *object, a []uintptr) (uintptr, func()) {
	if _, _, found := s.member(o, a[0], a[1]); !found {
		return result(model.ResultNotFound), nil
	}
	u, known := s.users[int64(a[1])]
	if !known {
		u = model.User{ID: int64(a[1]), Username: "member-" + strconv.FormatInt(int64(a[1]), 10)}
	}
	if !put(a[2], codec.EncodeUser(u)) {
		return result(model.ResultInvalidPayload), nil
	}
	return resultOk(), nil
}

func (s *SimulatedSDK) lobbyMemberMetadataValue(o *object, a []uintptr) (uintptr, func()) {
	_, md, found := s.member(o, a[0], a[1])
	if !found {
		return result(model.ResultNotFound), nil
	}
	return metadataValue(md, a[2], a[3]), nil
}

func (s *SimulatedSDK) lobbyMemberMetadataKey(o *object, a []uintptr) (uintptr, func()) {
	_, md, found := s.member(o, a[0], a[1])
	if !found {
		return result(model.ResultNotFound), nil
	}
	return metadataKey(md, int32(a[2]), a[3]), nil
}

func (s *SimulatedSDK) lobbyMemberMetadataCount(o *object, a []uintptr) (uintptr, func()) {
	_, md, found := s.member(o, a[0], a[1])
	if !found {
		return result(model.ResultNotFound), nil
	}
	return count(md.len(), a[2]), nil
}

func (s *SimulatedSDK) lobbyUpdateMember(o *object, a []uintptr) (uintptr, func()) {
	lobby, user, data, cb := int64(a[0]), int64(a[1]), a[3], a[4]
	t, found := s.takeObject(o, a[2], abi.IfaceMemberTransaction)
	_, md, member := s.member(o, a[0], a[1])
	switch {
	case !found || t.memberTxn.lobbyID != lobby || t.memberTxn.userID != user:
		s.later(o, data, cb, model.ResultInvalidPayload)
	case !member:
		s.later(o, data, cb, model.ResultNotFound)
	default:
		for k, v := range t.memberTxn.set {
			md.set(k, v)
		}
		for _, k := range t.memberTxn.deleted {
			md.del(k)
		}
		s.later(o, data, cb, model.ResultOk)
		s.lobbyEvent(o.sess, func(e *abi.LobbyEvents) uintptr { return e.OnMemberUpdate }, func(*frame) []uintptr {
			return []uintptr{uintptr(lobby), uintptr(user)}
		})
	}
	return 0, nil
}

func (s *SimulatedSDK) lobbySendMessage(o *object, a []uintptr) (uintptr, func()) {
	lobby, data, cb := int64(a[0]), a[3], a[4]
	payload, err := codec.Bytes(a[1], uint32(a[2]))
	l, exists := o.sess.lobby(lobby)
	switch {
	case err != nil:
		s.later(o, data, cb, model.ResultInvalidPayload)
	case !exists || !l.isMember(s.currentUser.ID):
		s.later(o, data, cb, model.ResultNotFound)
	default:
		from := s.currentUser.ID
		s.later(o, data, cb, model.ResultOk)
		s.lobbyEvent(o.sess, func(e *abi.LobbyEvents) uintptr { return e.OnLobbyMessage }, func(f *frame) []uintptr {
			p, n := f.bytes(payload)
			return []uintptr{uintptr(lobby), uintptr(from), p, n}
		})
	}
	return 0, nil
}

// Search

func (s *SimulatedSDK) lobbySearchQuery(o *object, a []uintptr) (uintptr, func()) {
	t := &object{iface: abi.IfaceSearchQuery, sess: o.sess, query: &searchQuery{distance: model.LobbySearchDistanceDefault}}
	return s.newTxnObject(o, a[0], t), nil
}

func (s *SimulatedSDK) searchFilter(o *object, a []uintptr) (uintptr, func()) {
	k, kok := key(a[0])
	cmp, cerr := codec.DecodeLobbySearchComparison(int32(a[1]))
	cast, terr := codec.DecodeLobbySearchCast(int32(a[2]))
	v, vok := value(a[3])
	if !kok || !vok || cerr != nil || terr != nil {
		return result(model.ResultInvalidPayload), nil
	}
	o.query.filters = append(o.query.filters, searchFilter{key: k, cmp: cmp, cast: cast, value: v})
	return resultOk(), nil
}

// searchSort is accepted but does not reorder results; lobbies are
// returned in creation order.
func (s *SimulatedSDK) searchSort(o *object, a []uintptr) (uintptr, func()) {
	_, kok := key(a[0])
	_, terr := codec.DecodeLobbySearchCast(int32(a[1]))
	if !kok || terr != nil {
		return result(model.ResultInvalidPayload), nil
	}
	return resultOk(), nil
}

func (s *SimulatedSDK) searchLimit(o *object, a []uintptr) (uintptr, func()) {
	o.query.limit = uint32(a[0])
	return resultOk(), nil
}

func (s *SimulatedSDK) searchDistance(o *object, a []uintptr) (uintptr, func()) {
	if a[0] > uintptr(model.LobbySearchDistanceGlobal) {
		return result(model.ResultInvalidPayload), nil
	}
	o.query.distance = model.LobbySearchDistance(a[0])
	return resultOk(), nil
}

func (f searchFilter) match(m *orderedMap) bool {
	v, found := m.get(strings.TrimPrefix(f.key, "metadata."))
	if !found {
		return false
	}
	c := strings.Compare(v, f.value)
	if f.cast == model.LobbySearchCastNumber {
		a, aerr := strconv.ParseFloat(v, 64)
		b, berr := strconv.ParseFloat(f.value, 64)
		if aerr != nil || berr != nil {
			return false
		}
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		default:
			c = 0
		}
	}
	switch f.cmp {
	case model.LobbySearchLessThanOrEqual:
		return c <= 0
	case model.LobbySearchLessThan:
		return c < 0
	case model.LobbySearchEqual:
		return c == 0
	case model.LobbySearchGreaterThan:
		return c > 0
	case model.LobbySearchGreaterThanOrEqual:
		return c >= 0
	case model.LobbySearchNotEqual:
		return c != 0
	}
	return false
}

func (s *SimulatedSDK) lobbySearch(o *object, a []uintptr) (uintptr, func()) {
	data, cb := a[1], a[2]
	t, found := s.takeObject(o, a[0], abi.IfaceSearchQuery)
	if !found {
		s.later(o, data, cb, model.ResultInvalidPayload)
		return 0, nil
	}
	ss := o.sess
	ss.results = ss.results[:0]
	for _, id := range ss.lobbyOrder {
		l := ss.lobbies[id]
		if l.lobby.Type != model.LobbyTypePublic {
			continue
		}
		matched := true
		for _, f := range t.query.filters {
			if !f.match(l.metadata) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		ss.results = append(ss.results, id)
		if t.query.limit > 0 && uint32(len(ss.results)) >= t.query.limit {
			break
		}
	}
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

func (s *SimulatedSDK) lobbyCount(o *object, a []uintptr) (uintptr, func()) {
	put(a[0], int32(len(o.sess.results)))
	return 0, nil
}

func (s *SimulatedSDK) lobbyIDAt(o *object, a []uintptr) (uintptr, func()) {
	i := int(int32(a[0]))
	if i < 0 || i >= len(o.sess.results) {
		return result(model.ResultNotFound), nil
	}
	if !put(a[1], o.sess.results[i]) {
		return result(model.ResultInvalidPayload), nil
	}
	return resultOk(), nil
}

// Voice and networking inside a lobby

func (s *SimulatedSDK) lobbyConnectVoice(o *object, a []uintptr) (uintptr, func()) {
	id, data, cb := int64(a[0]), a[1], a[2]
	l, exists := o.sess.lobby(id)
	if !exists || !l.isMember(s.currentUser.ID) {
		s.later(o, data, cb, model.ResultNotFound)
		return 0, nil
	}
	o.sess.voice[id] = true
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

func (s *SimulatedSDK) lobbyDisconnectVoice(o *object, a []uintptr) (uintptr, func()) {
	id, data, cb := int64(a[0]), a[1], a[2]
	if !o.sess.voice[id] {
		s.later(o, data, cb, model.ResultNotFound)
		return 0, nil
	}
	delete(o.sess.voice, id)
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

func (s *SimulatedSDK) lobbyConnectNetwork(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists || !l.isMember(s.currentUser.ID) {
		return result(model.ResultNotFound), nil
	}
	l.connected = true
	return resultOk(), nil
}

func (s *SimulatedSDK) lobbyDisconnectNetwork(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists {
		return result(model.ResultNotFound), nil
	}
	l.channels = make(map[uint8]bool)
	return resultOk(), nil
}

func (s *SimulatedSDK) lobbyFlushNetwork(*object, []uintptr) (uintptr, func()) {
	return resultOk(), nil
}

func (s *SimulatedSDK) lobbyOpenChannel(o *object, a []uintptr) (uintptr, func()) {
	l, exists := o.sess.lobby(int64(a[0]))
	if !exists || !l.connected {
		return result(model.ResultNotFound), nil
	}
	l.channels[uint8(a[1])] = cbool(a[2])
	return resultOk(), nil
}

// lobbySendNetworkMessage loops messages addressed to the current user
// back as lobby network events.
func (s *SimulatedSDK) lobbySendNetworkMessage(o *object, a []uintptr) (uintptr, func()) {
	lobby, user, channel := int64(a[0]), int64(a[1]), uint8(a[2])
	l, exists := o.sess.lobby(lobby)
	if !exists || !l.isMember(user) {
		return result(model.ResultNotFound), nil
	}
	if _, open := l.channels[channel]; !open {
		return result(model.ResultInvalidChannel), nil
	}
	payload, err := codec.Bytes(a[3], uint32(a[4]))
	if err != nil {
		return result(model.ResultInvalidPayload), nil
	}
	if user == s.currentUser.ID {
		from := s.currentUser.ID
		s.lobbyEvent(o.sess, func(e *abi.LobbyEvents) uintptr { return e.OnNetworkMessage }, func(f *frame) []uintptr {
			p, n := f.bytes(payload)
			return []uintptr{uintptr(lobby), uintptr(from), uintptr(channel), p, n}
		})
	}
	return resultOk(), nil
}
