package testing

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
)

const (
	defaultLocalVolume = 100
	maxLocalVolume     = 200
)

var peripheralHandlers = map[slotKey]handler{
	keyOf(abi.NetworkGetPeerID):    (*SimulatedSDK).networkPeerID,
	keyOf(abi.NetworkFlush):        (*SimulatedSDK).networkFlush,
	keyOf(abi.NetworkOpenPeer):     (*SimulatedSDK).networkOpenPeer,
	keyOf(abi.NetworkUpdatePeer):   (*SimulatedSDK).networkUpdatePeer,
	keyOf(abi.NetworkClosePeer):    (*SimulatedSDK).networkClosePeer,
	keyOf(abi.NetworkOpenChannel):  (*SimulatedSDK).networkOpenChannel,
	keyOf(abi.NetworkCloseChannel): (*SimulatedSDK).networkCloseChannel,
	keyOf(abi.NetworkSendMessage):  (*SimulatedSDK).networkSendMessage,

	keyOf(abi.OverlayIsEnabled):          (*SimulatedSDK).overlayIsEnabled,
	keyOf(abi.OverlayIsLocked):           (*SimulatedSDK).overlayIsLocked,
	keyOf(abi.OverlaySetLocked):          (*SimulatedSDK).overlaySetLocked,
	keyOf(abi.OverlayOpenActivityInvite): (*SimulatedSDK).overlayOpenActivityInvite,
	keyOf(abi.OverlayOpenGuildInvite):    (*SimulatedSDK).overlayOpenGuildInvite,
	keyOf(abi.OverlayOpenVoiceSettings):  (*SimulatedSDK).overlayOpenVoiceSettings,

	keyOf(abi.VoiceGetInputMode):   (*SimulatedSDK).voiceGetInputMode,
	keyOf(abi.VoiceSetInputMode):   (*SimulatedSDK).voiceSetInputMode,
	keyOf(abi.VoiceIsSelfMute):     (*SimulatedSDK).voiceIsSelfMute,
	keyOf(abi.VoiceSetSelfMute):    (*SimulatedSDK).voiceSetSelfMute,
	keyOf(abi.VoiceIsSelfDeaf):     (*SimulatedSDK).voiceIsSelfDeaf,
	keyOf(abi.VoiceSetSelfDeaf):    (*SimulatedSDK).voiceSetSelfDeaf,
	keyOf(abi.VoiceIsLocalMute):    (*SimulatedSDK).voiceIsLocalMute,
	keyOf(abi.VoiceSetLocalMute):   (*SimulatedSDK).voiceSetLocalMute,
	keyOf(abi.VoiceGetLocalVolume): (*SimulatedSDK).voiceGetLocalVolume,
	keyOf(abi.VoiceSetLocalVolume): (*SimulatedSDK).voiceSetLocalVolume,
}

// emit calls one entry of an event table the session was created with.
// The table is read at delivery time, so it must still be live.
func emit[E any](s *SimulatedSDK, ss *session, table uintptr, pick func(*E) uintptr, build func(*frame) []uintptr) {
	ev := at[E](table)
	if ev == nil {
		return
	}
	var f frame
	defer f.done()
	args := []uintptr{ss.params.EventData}
	if build != nil {
		args = append(args, build(&f)...)
	}
	s.invoke(pick(ev), args...)
}

func boolResult(out uintptr, v bool) uintptr {
	if !put(out, v) {
		return result(model.ResultInvalidPayload)
	}
	return resultOk()
}

// Network

func (s *SimulatedSDK) networkPeerID(o *object, a []uintptr) (uintptr, func()) {
	put(a[0], o.sess.peerID)
	return 0, nil
}

func (s *SimulatedSDK) networkFlush(*object, []uintptr) (uintptr, func()) {
	return resultOk(), nil
}

func (s *SimulatedSDK) networkOpenPeer(o *object, a []uintptr) (uintptr, func()) {
	peer := uint64(a[0])
	route := codec.CString(a[1])
	if route == "" {
		return result(model.ResultInvalidPayload), nil
	}
	o.sess.peers[peer] = route
	if o.sess.channels[peer] == nil {
		o.sess.channels[peer] = make(map[uint8]bool)
	}
	return resultOk(), nil
}

func (s *SimulatedSDK) networkUpdatePeer(o *object, a []uintptr) (uintptr, func()) {
	peer := uint64(a[0])
	if _, open := o.sess.peers[peer]; !open {
		return result(model.ResultNotFound), nil
	}
	o.sess.peers[peer] = codec.CString(a[1])
	return resultOk(), nil
}

func (s *SimulatedSDK) networkClosePeer(o *object, a []uintptr) (uintptr, func()) {
	peer := uint64(a[0])
	if _, open := o.sess.peers[peer]; !open {
		return result(model.ResultNotFound), nil
	}
	delete(o.sess.peers, peer)
	delete(o.sess.channels, peer)
	return resultOk(), nil
}

func (s *SimulatedSDK) networkOpenChannel(o *object, a []uintptr) (uintptr, func()) {
	chans, open := o.sess.channels[uint64(a[0])]
	if !open {
		return result(model.ResultNotFound), nil
	}
	chans[uint8(a[1])] = cbool(a[2])
	return resultOk(), nil
}

func (s *SimulatedSDK) networkCloseChannel(o *object, a []uintptr) (uintptr, func()) {
	chans, open := o.sess.channels[uint64(a[0])]
	if !open {
		return result(model.ResultNotFound), nil
	}
	if _, exists := chans[uint8(a[1])]; !exists {
		return result(model.ResultInvalidChannel), nil
	}
	delete(chans, uint8(a[1]))
	return resultOk(), nil
}

// networkSendMessage loops messages sent to the session's own peer id back
// as network message events.
func (s *SimulatedSDK) networkSendMessage(o *object, a []uintptr) (uintptr, func()) {
	ss := o.sess
	peer, channel := uint64(a[0]), uint8(a[1])
	chans, open := ss.channels[peer]
	if !open {
		return result(model.ResultNotFound), nil
	}
	if _, exists := chans[channel]; !exists {
		return result(model.ResultInvalidChannel), nil
	}
	payload, err := codec.Bytes(a[2], uint32(a[3]))
	if err != nil {
		return result(model.ResultInvalidPayload), nil
	}
	if peer == ss.peerID {
		ss.later(func() {
			emit(s, ss, ss.params.NetworkEvents, func(e *abi.NetworkEvents) uintptr { return e.OnMessage }, func(f *frame) []uintptr {
				p, n := f.bytes(payload)
				return []uintptr{uintptr(peer), uintptr(channel), p, n}
			})
		})
	}
	return resultOk(), nil
}

// Overlay

func (s *SimulatedSDK) overlayIsEnabled(o *object, a []uintptr) (uintptr, func()) {
	put(a[0], o.sess.overlayEnabled)
	return 0, nil
}

func (s *SimulatedSDK) overlayIsLocked(o *object, a []uintptr) (uintptr, func()) {
	put(a[0], o.sess.overlayLocked)
	return 0, nil
}

func (s *SimulatedSDK) overlaySetLocked(o *object, a []uintptr) (uintptr, func()) {
	ss := o.sess
	locked, data, cb := cbool(a[0]), a[1], a[2]
	if !ss.overlayEnabled {
		s.later(o, data, cb, model.ResultNotRunning)
		return 0, nil
	}
	ss.overlayLocked = locked
	s.later(o, data, cb, model.ResultOk)
	ss.later(func() {
		emit(s, ss, ss.params.OverlayEvents, func(e *abi.OverlayEvents) uintptr { return e.OnToggle }, func(*frame) []uintptr {
			var v uintptr
			if locked {
				v = 1
			}
			return []uintptr{v}
		})
	})
	return 0, nil
}

func (s *SimulatedSDK) overlayOpenActivityInvite(o *object, a []uintptr) (uintptr, func()) {
	data, cb := a[1], a[2]
	if _, err := codec.DecodeActivityActionType(int32(a[0])); err != nil {
		s.later(o, data, cb, model.ResultInvalidPayload)
		return 0, nil
	}
	if o.sess.activity == nil {
		s.later(o, data, cb, model.ResultNoEligibleActivity)
		return 0, nil
	}
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

func (s *SimulatedSDK) overlayOpenGuildInvite(o *object, a []uintptr) (uintptr, func()) {
	data, cb := a[1], a[2]
	if codec.CString(a[0]) == "" {
		s.later(o, data, cb, model.ResultInvalidInvite)
		return 0, nil
	}
	s.later(o, data, cb, model.ResultOk)
	return 0, nil
}

func (s *SimulatedSDK) overlayOpenVoiceSettings(o *object, a []uintptr) (uintptr, func()) {
	s.later(o, a[0], a[1], model.ResultOk)
	return 0, nil
}

// Voice

func (s *SimulatedSDK) voiceGetInputMode(o *object, a []uintptr) (uintptr, func()) {
	rec, err := codec.EncodeInputMode(o.sess.inputMode)
	if err != nil || !put(a[0], rec) {
		return result(model.ResultInternalError), nil
	}
	return resultOk(), nil
}

func (s *SimulatedSDK) voiceSetInputMode(o *object, a []uintptr) (uintptr, func()) {
	ss := o.sess
	data, cb := a[1], a[2]
	rec := at[abi.InputMode](a[0])
	if rec == nil {
		s.later(o, data, cb, model.ResultInvalidPayload)
		return 0, nil
	}
	mode := codec.DecodeInputMode(rec)
	if mode.Type == model.InputModePushToTalk && mode.Shortcut == "" {
		s.later(o, data, cb, model.ResultInvalidPayload)
		return 0, nil
	}
	ss.inputMode = mode
	s.later(o, data, cb, model.ResultOk)
	ss.later(func() {
		emit(s, ss, ss.params.VoiceEvents, func(e *abi.VoiceEvents) uintptr { return e.OnSettingsUpdate }, nil)
	})
	return 0, nil
}

func (s *SimulatedSDK) voiceIsSelfMute(o *object, a []uintptr) (uintptr, func()) {
	return boolResult(a[0], o.sess.selfMute), nil
}

func (s *SimulatedSDK) voiceSetSelfMute(o *object, a []uintptr) (uintptr, func()) {
	o.sess.selfMute = cbool(a[0])
	return resultOk(), nil
}

func (s *SimulatedSDK) voiceIsSelfDeaf(o *object, a []uintptr) (uintptr, func()) {
	return boolResult(a[0], o.sess.selfDeaf), nil
}

func (s *SimulatedSDK) voiceSetSelfDeaf(o *object, a []uintptr) (uintptr, func()) {
	o.sess.selfDeaf = cbool(a[0])
	return resultOk(), nil
}

func (s *SimulatedSDK) voiceIsLocalMute(o *object, a []uintptr) (uintptr, func()) {
	return boolResult(a[1], o.sess.localMute[int64(a[0])]), nil
}

func (s *SimulatedSDK) voiceSetLocalMute(o *object, a []uintptr) (uintptr, func()) {
	o.sess.localMute[int64(a[0])] = cbool(a[1])
	return resultOk(), nil
}

func (s *SimulatedSDK) voiceGetLocalVolume(o *object, a []uintptr) (uintptr, func()) {
	v, set := o.sess.volume[int64(a[0])]
	if !set {
		v = defaultLocalVolume
	}
	if !put(a[1], v) {
		return result(model.ResultInvalidPayload), nil
	}
	return resultOk(), nil
}

func (s *SimulatedSDK) voiceSetLocalVolume(o *object, a []uintptr) (uintptr, func()) {
	v := uint8(a[1])
	if v > maxLocalVolume {
		return result(model.ResultInvalidPayload), nil
	}
	o.sess.volume[int64(a[0])] = v
	return resultOk(), nil
}
