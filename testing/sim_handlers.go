package testing

import (
	"unsafe"

	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
	"github.com/sirupsen/logrus"
)

type handler func(s *SimulatedSDK, o *object, a []uintptr) (uintptr, func())

// handlers maps every modelled slot to its implementation. Handlers run
// with the simulation locked; the returned func runs after unlocking and
// is where synchronous callbacks happen.
var handlers = map[slotKey]handler{
	keyOf(abi.CoreDestroy):                (*SimulatedSDK).coreDestroy,
	keyOf(abi.CoreRunCallbacks):           (*SimulatedSDK).coreRunCallbacks,
	keyOf(abi.CoreSetLogHook):             (*SimulatedSDK).coreSetLogHook,
	keyOf(abi.CoreGetUserManager):         manager(abi.IfaceUser),
	keyOf(abi.CoreGetImageManager):        manager(abi.IfaceImage),
	keyOf(abi.CoreGetActivityManager):     manager(abi.IfaceActivity),
	keyOf(abi.CoreGetRelationshipManager): manager(abi.IfaceRelationship),
	keyOf(abi.CoreGetLobbyManager):        manager(abi.IfaceLobby),
	keyOf(abi.CoreGetNetworkManager):      manager(abi.IfaceNetwork),
	keyOf(abi.CoreGetOverlayManager):      manager(abi.IfaceOverlay),
	keyOf(abi.CoreGetVoiceManager):        manager(abi.IfaceVoice),

	keyOf(abi.UserGetCurrentUser):            (*SimulatedSDK).userGetCurrentUser,
	keyOf(abi.UserGetUser):                   (*SimulatedSDK).userGetUser,
	keyOf(abi.UserGetCurrentUserPremiumType): (*SimulatedSDK).userPremiumType,
	keyOf(abi.UserCurrentUserHasFlag):        (*SimulatedSDK).userHasFlag,

	keyOf(abi.ImageFetch):         (*SimulatedSDK).imageFetch,
	keyOf(abi.ImageGetDimensions): (*SimulatedSDK).imageDimensions,
	keyOf(abi.ImageGetData):       (*SimulatedSDK).imageData,

	keyOf(abi.ActivityRegisterCommand):  (*SimulatedSDK).activityRegisterCommand,
	keyOf(abi.ActivityRegisterSteam):    (*SimulatedSDK).activityRegisterSteam,
	keyOf(abi.ActivityUpdateActivity):   (*SimulatedSDK).activityUpdate,
	keyOf(abi.ActivityClearActivity):    (*SimulatedSDK).activityClear,
	keyOf(abi.ActivitySendRequestReply): (*SimulatedSDK).activitySendRequestReply,
	keyOf(abi.ActivitySendInvite):       (*SimulatedSDK).activitySendInvite,
	keyOf(abi.ActivityAcceptInvite):     (*SimulatedSDK).activityAcceptInvite,

	keyOf(abi.RelationshipFilter): (*SimulatedSDK).relationshipFilter,
	keyOf(abi.RelationshipCount):  (*SimulatedSDK).relationshipCount,
	keyOf(abi.RelationshipGet):    (*SimulatedSDK).relationshipGet,
	keyOf(abi.RelationshipGetAt):  (*SimulatedSDK).relationshipGetAt,
}

// asyncSlots report their result through a callback whose data and
// function pointer are the last two arguments.
var asyncSlots = map[slotKey]bool{
	keyOf(abi.UserGetUser):                         true,
	keyOf(abi.ImageFetch):                          true,
	keyOf(abi.ActivityUpdateActivity):              true,
	keyOf(abi.ActivityClearActivity):               true,
	keyOf(abi.ActivitySendRequestReply):            true,
	keyOf(abi.ActivitySendInvite):                  true,
	keyOf(abi.ActivityAcceptInvite):                true,
	keyOf(abi.LobbyCreateLobby):                    true,
	keyOf(abi.LobbyUpdateLobby):                    true,
	keyOf(abi.LobbyDeleteLobby):                    true,
	keyOf(abi.LobbyConnectLobby):                   true,
	keyOf(abi.LobbyConnectLobbyWithActivitySecret): true,
	keyOf(abi.LobbyDisconnectLobby):                true,
	keyOf(abi.LobbyUpdateMember):                   true,
	keyOf(abi.LobbySendLobbyMessage):               true,
	keyOf(abi.LobbySearch):                         true,
	keyOf(abi.LobbyConnectVoice):                   true,
	keyOf(abi.LobbyDisconnectVoice):                true,
	keyOf(abi.OverlaySetLocked):                    true,
	keyOf(abi.OverlayOpenActivityInvite):           true,
	keyOf(abi.OverlayOpenGuildInvite):              true,
	keyOf(abi.OverlayOpenVoiceSettings):            true,
	keyOf(abi.VoiceSetInputMode):                   true,
}

func init() {
	for k, h := range lobbyHandlers {
		handlers[k] = h
	}
	for k, h := range peripheralHandlers {
		handlers[k] = h
	}
}

// later schedules cb(data, r) for the next pump.
func (s *SimulatedSDK) later(o *object, data, cb uintptr, r model.Result) {
	o.sess.later(func() { s.invoke(cb, data, result(r)) })
}

// Core

func (s *SimulatedSDK) coreDestroy(o *object, _ []uintptr) (uintptr, func()) {
	ss := o.sess
	dropped := len(ss.pending)
	ss.destroyed = true
	ss.pending = nil
	ss.logFn = 0

	logrus.WithFields(logrus.Fields{
		"function":        "SimulatedSDK.coreDestroy",
		"client_id":       ss.clientID,
		"dropped_pending": dropped,
	}).Info("Simulated session destroyed")
	return 0, nil
}

func (s *SimulatedSDK) coreRunCallbacks(o *object, _ []uintptr) (uintptr, func()) {
	ss := o.sess
	pending := ss.pending
	ss.pending = nil
	if len(pending) == 0 {
		return result(model.ResultOk), nil
	}
	return result(model.ResultOk), func() {
		for _, fn := range pending {
			s.mu.Lock()
			dead := ss.destroyed
			s.mu.Unlock()
			if dead {
				return
			}
			fn()
		}
	}
}

func (s *SimulatedSDK) coreSetLogHook(o *object, a []uintptr) (uintptr, func()) {
	ss := o.sess
	ss.logMin = int32(a[0])
	ss.logData = a[1]
	ss.logFn = a[2]
	return 0, nil
}

func manager(iface abi.Iface) handler {
	return func(s *SimulatedSDK, o *object, _ []uintptr) (uintptr, func()) {
		ss := o.sess
		if h, ok := ss.managers[iface]; ok {
			return h, nil
		}
		h := s.newObject(iface, ss)
		ss.managers[iface] = h
		return h, nil
	}
}

// Users

func (s *SimulatedSDK) userGetCurrentUser(_ *object, a []uintptr) (uintptr, func()) {
	if !put(a[0], codec.EncodeUser(s.currentUser)) {
		return result(model.ResultInvalidPayload), nil
	}
	return result(model.ResultOk), nil
}

func (s *SimulatedSDK) userGetUser(o *object, a []uintptr) (uintptr, func()) {
	id, data, cb := int64(a[0]), a[1], a[2]
	u, ok := s.users[id]
	o.sess.later(func() {
		if !ok {
			s.invoke(cb, data, result(model.ResultNotFound), 0)
			return
		}
		var f frame
		defer f.done()
		rec := codec.EncodeUser(u)
		s.invoke(cb, data, result(model.ResultOk), ref(&f, &rec))
	})
	return 0, nil
}

func (s *SimulatedSDK) userPremiumType(o *object, a []uintptr) (uintptr, func()) {
	native, err := codec.EncodePremiumType(o.sess.premium)
	if err != nil || !put(a[0], native) {
		return result(model.ResultInternalError), nil
	}
	return result(model.ResultOk), nil
}

func (s *SimulatedSDK) userHasFlag(o *object, a []uintptr) (uintptr, func()) {
	if !put(a[1], o.sess.flags&int32(a[0]) != 0) {
		return result(model.ResultInvalidPayload), nil
	}
	return result(model.ResultOk), nil
}

// Images

const (
	defaultImageWidth  = 16
	defaultImageHeight = 8
)

func (s *SimulatedSDK) dimensionsFor(id int64) model.ImageDimensions {
	if d, ok := s.imageDims[id]; ok {
		return d
	}
	return model.ImageDimensions{Width: defaultImageWidth, Height: defaultImageHeight}
}

func (s *SimulatedSDK) imageFetch(o *object, a []uintptr) (uintptr, func()) {
	data, cb := a[2], a[3]
	h := at[abi.ImageHandle](a[0])
	if h == nil {
		s.later(o, data, cb, model.ResultInvalidPayload)
		return 0, nil
	}
	handle := *h
	r := model.ResultOk
	switch _, known := s.users[handle.ID]; {
	case handle.Type != 0:
		r = model.ResultInvalidPayload
	case !known:
		r = model.ResultNotFound
	default:
		o.sess.fetched[handle.ID] = s.dimensionsFor(handle.ID)
	}
	o.sess.later(func() {
		var f frame
		defer f.done()
		s.invoke(cb, data, result(r), ref(&f, &handle))
	})
	return 0, nil
}

func (s *SimulatedSDK) fetchedImage(o *object, p uintptr) (model.ImageDimensions, model.Result) {
	h := at[abi.ImageHandle](p)
	if h == nil {
		return model.ImageDimensions{}, model.ResultInvalidPayload
	}
	d, ok := o.sess.fetched[h.ID]
	if !ok {
		return model.ImageDimensions{}, model.ResultNotFetched
	}
	return d, model.ResultOk
}

func (s *SimulatedSDK) imageDimensions(o *object, a []uintptr) (uintptr, func()) {
	d, r := s.fetchedImage(o, a[0])
	if !r.Ok() {
		return result(r), nil
	}
	if !put(a[1], abi.ImageDimensions{Width: d.Width, Height: d.Height}) {
		return result(model.ResultInvalidPayload), nil
	}
	return result(model.ResultOk), nil
}

// imageData fills the valid prefix of the caller's buffer with a
// deterministic pattern. Bytes past the image size are left untouched.
func (s *SimulatedSDK) imageData(o *object, a []uintptr) (uintptr, func()) {
	d, r := s.fetchedImage(o, a[0])
	if !r.Ok() {
		return result(r), nil
	}
	buf, n := a[1], uint32(a[2])
	valid := d.ByteSize()
	if buf == 0 || uint64(n) < valid {
		return result(model.ResultInsufficientBuffer), nil
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), valid)
	for i := range dst {
		dst[i] = byte(i % 251)
	}
	return result(model.ResultOk), nil
}

// Activities

func (s *SimulatedSDK) activityRegisterCommand(o *object, a []uintptr) (uintptr, func()) {
	o.sess.command = codec.CString(a[0])
	if o.sess.command == "" {
		return result(model.ResultInvalidCommand), nil
	}
	return result(model.ResultOk), nil
}

func (s *SimulatedSDK) activityRegisterSteam(o *object, a []uintptr) (uintptr, func()) {
	o.sess.steamID = uint32(a[0])
	return result(model.ResultOk), nil
}

func (s *SimulatedSDK) activityUpdate(o *object, a []uintptr) (uintptr, func()) {
	data, cb := a[1], a[2]
	rec := at[abi.Activity](a[0])
	if rec == nil {
		s.later(o, data, cb, model.ResultInvalidPayload)
		return 0, nil
	}
	act := codec.DecodeActivity(rec)
	o.sess.activity = &act
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

func (s *SimulatedSDK) activityClear(o *object, a []uintptr) (uintptr, func()) {
	o.sess.activity = nil
	s.later(o, a[0], a[1], model.ResultOk)
	return 0, nil
}

func (s *SimulatedSDK) activitySendRequestReply(o *object, a []uintptr) (uintptr, func()) {
	user, data, cb := int64(a[0]), a[2], a[3]
	reply, err := codec.DecodeJoinRequestReply(int32(a[1]))
	switch _, known := s.users[user]; {
	case err != nil:
		s.later(o, data, cb, model.ResultInvalidPayload)
	case !known:
		s.later(o, data, cb, model.ResultNotFound)
	default:
		o.sess.replies[user] = reply
		s.later(o, data, cb, model.ResultOk)
	}
	return 0, nil
}

func (s *SimulatedSDK) activitySendInvite(o *object, a []uintptr) (uintptr, func()) {
	user, data, cb := int64(a[0]), a[3], a[4]
	_, err := codec.DecodeActivityActionType(int32(a[1]))
	switch _, known := s.users[user]; {
	case err != nil:
		s.later(o, data, cb, model.ResultInvalidPayload)
	case !known:
		s.later(o, data, cb, model.ResultNotFound)
	case o.sess.activity == nil:
		s.later(o, data, cb, model.ResultNoEligibleActivity)
	default:
		s.later(o, data, cb, model.ResultOk)
	}
	return 0, nil
}

func (s *SimulatedSDK) activityAcceptInvite(o *object, a []uintptr) (uintptr, func()) {
	user, data, cb := int64(a[0]), a[1], a[2]
	if _, known := s.users[user]; !known {
		s.later(o, data, cb, model.ResultInvalidInvite)
		return 0, nil
	}
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

// Relationships

// relationshipFilter runs the filter synchronously, as the native SDK
// does, and keeps the accepted entries for count and get_at.
func (s *SimulatedSDK) relationshipFilter(o *object, a []uintptr) (uintptr, func()) {
	data, fn := a[0], a[1]
	ss := o.sess
	rels := append([]model.Relationship(nil), s.relationships...)
	return 0, func() {
		kept := make([]model.Relationship, 0, len(rels))
		for _, r := range rels {
			rec, err := codec.EncodeRelationship(r)
			if err != nil {
				continue
			}
			var f frame
			keep := cbool(s.invoke(fn, data, ref(&f, &rec)))
			f.done()
			if keep {
				kept = append(kept, r)
			}
		}
		s.mu.Lock()
		ss.filtered = kept
		s.mu.Unlock()
	}
}

func (s *SimulatedSDK) relationshipCount(o *object, a []uintptr) (uintptr, func()) {
	if o.sess.filtered == nil {
		return result(model.ResultNotFiltered), nil
	}
	if !put(a[0], int32(len(o.sess.filtered))) {
		return result(model.ResultInvalidPayload), nil
	}
	return result(model.ResultOk), nil
}

func (s *SimulatedSDK) relationshipGet(_ *object, a []uintptr) (uintptr, func()) {
	for _, r := range s.relationships {
		if r.User.ID != int64(a[0]) {
			continue
		}
		rec, err := codec.EncodeRelationship(r)
		if err != nil || !put(a[1], rec) {
			return result(model.ResultInternalError), nil
		}
		return result(model.ResultOk), nil
	}
	return result(model.ResultNotFound), nil
}

func (s *SimulatedSDK) relationshipGetAt(o *object, a []uintptr) (uintptr, func()) {
	rels := o.sess.filtered
	if rels == nil {
		return result(model.ResultNotFiltered), nil
	}
	i := uint32(a[0])
	if int(i) >= len(rels) {
		return result(model.ResultNotFound), nil
	}
	rec, err := codec.EncodeRelationship(rels[i])
	if err != nil || !put(a[1], rec) {
		return result(model.ResultInternalError), nil
	}
	return result(model.ResultOk), nil
}
