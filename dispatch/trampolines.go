package dispatch

import (
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/envelope"
	"github.com/opd-ai/gamesdk/handle"
	"github.com/opd-ai/gamesdk/model"
	"github.com/sirupsen/logrus"
)

// Callback targets stored in envelopes. Trampolines assert these exact types.
type (
	ResultFunc      func(model.Result)
	UserResultFunc  func(model.Result, *model.User)
	LobbyResultFunc func(model.Result, *model.Lobby)
	ImageResultFunc func(model.Result, model.ImageHandle)
	FilterFunc      func(model.Relationship) bool
	LogFunc         func(model.LogLevel, string)
)

// Every trampoline below has only uintptr parameters and one uintptr
// result so that it can be turned into a C function pointer on all
// supported platforms. The first parameter is always the envelope id.

func deliver(data uintptr, fn func(target any)) {
	_ = envelope.Fire(handle.Default, data, fn)
}

func mismatch(slot string, target any) {
	logrus.WithFields(logrus.Fields{
		"function": "dispatch." + slot,
		"target":   typeName(target),
	}).Error("Envelope target has unexpected type, dropping callback")
}

func cbool(v uintptr) bool {
	return v&0xff != 0
}

func onResult(data, result uintptr) uintptr {
	deliver(data, func(target any) {
		cb, ok := target.(ResultFunc)
		if !ok {
			mismatch("onResult", target)
			return
		}
		cb(codec.ResultOf(int32(result)))
	})
	return 0
}

func onUserResult(data, result, user uintptr) uintptr {
	deliver(data, func(target any) {
		cb, ok := target.(UserResultFunc)
		if !ok {
			mismatch("onUserResult", target)
			return
		}
		cb(codec.ResultOf(int32(result)), codec.UserAt(user))
	})
	return 0
}

func onLobbyResult(data, result, lobby uintptr) uintptr {
	deliver(data, func(target any) {
		cb, ok := target.(LobbyResultFunc)
		if !ok {
			mismatch("onLobbyResult", target)
			return
		}
		cb(codec.ResultOf(int32(result)), codec.LobbyAt(lobby))
	})
	return 0
}

// onImageResult receives the image handle by reference; see
// abi.AggregatesByReference.
func onImageResult(data, result, img uintptr) uintptr {
	deliver(data, func(target any) {
		cb, ok := target.(ImageResultFunc)
		if !ok {
			mismatch("onImageResult", target)
			return
		}
		h, _ := codec.ImageHandleAt(img)
		cb(codec.ResultOf(int32(result)), h)
	})
	return 0
}

func onFilter(data, rel uintptr) uintptr {
	keep := false
	deliver(data, func(target any) {
		cb, ok := target.(FilterFunc)
		if !ok {
			mismatch("onFilter", target)
			return
		}
		r := codec.RelationshipAt(rel)
		if r == nil {
			return
		}
		keep = cb(*r)
	})
	if keep {
		return 1
	}
	return 0
}

func onLog(data, level, message uintptr) uintptr {
	deliver(data, func(target any) {
		cb, ok := target.(LogFunc)
		if !ok {
			mismatch("onLog", target)
			return
		}
		l, err := codec.DecodeLogLevel(int32(level))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "dispatch.onLog",
				"error":    err.Error(),
			}).Warn("Log hook received unknown level, reporting as debug")
			l = model.LogLevelDebug
		}
		cb(l, codec.CString(message))
	})
	return 0
}

func event(data uintptr, name string, fn func(h EventHandler)) {
	deliver(data, func(target any) {
		h, ok := target.(EventHandler)
		if !ok {
			mismatch(name, target)
			return
		}
		fn(h)
	})
}

func payload(name string, p, n uintptr) ([]byte, bool) {
	b, err := codec.Bytes(p, uint32(n))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "dispatch." + name,
			"length":   uint32(n),
			"error":    err.Error(),
		}).Error("Dropping event with unreadable payload")
		return nil, false
	}
	return b, true
}

func onActivityJoin(data, secret uintptr) uintptr {
	event(data, "onActivityJoin", func(h EventHandler) { h.OnActivityJoin(codec.CString(secret)) })
	return 0
}

func onActivitySpectate(data, secret uintptr) uintptr {
	event(data, "onActivitySpectate", func(h EventHandler) { h.OnActivitySpectate(codec.CString(secret)) })
	return 0
}

func onActivityJoinRequest(data, user uintptr) uintptr {
	event(data, "onActivityJoinRequest", func(h EventHandler) { h.OnActivityJoinRequest(codec.UserAt(user)) })
	return 0
}

func onActivityInvite(data, kind, user, activity uintptr) uintptr {
	event(data, "onActivityInvite", func(h EventHandler) {
		action, err := codec.DecodeActivityActionType(int32(kind))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "dispatch.onActivityInvite",
				"error":    err.Error(),
			}).Error("Dropping invite with unknown action type")
			return
		}
		h.OnActivityInvite(action, codec.UserAt(user), codec.ActivityAt(activity))
	})
	return 0
}

func onCurrentUserUpdate(data uintptr) uintptr {
	event(data, "onCurrentUserUpdate", func(h EventHandler) { h.OnCurrentUserUpdate() })
	return 0
}

func onRelationshipRefresh(data uintptr) uintptr {
	event(data, "onRelationshipRefresh", func(h EventHandler) { h.OnRelationshipRefresh() })
	return 0
}

func onRelationshipUpdate(data, rel uintptr) uintptr {
	event(data, "onRelationshipUpdate", func(h EventHandler) {
		if r := codec.RelationshipAt(rel); r != nil {
			h.OnRelationshipUpdate(*r)
		}
	})
	return 0
}

func onLobbyUpdate(data, lobby uintptr) uintptr {
	event(data, "onLobbyUpdate", func(h EventHandler) { h.OnLobbyUpdate(int64(lobby)) })
	return 0
}

func onLobbyDelete(data, lobby, reason uintptr) uintptr {
	event(data, "onLobbyDelete", func(h EventHandler) { h.OnLobbyDelete(int64(lobby), uint32(reason)) })
	return 0
}

func onMemberConnect(data, lobby, user uintptr) uintptr {
	event(data, "onMemberConnect", func(h EventHandler) { h.OnMemberConnect(int64(lobby), int64(user)) })
	return 0
}

func onMemberUpdate(data, lobby, user uintptr) uintptr {
	event(data, "onMemberUpdate", func(h EventHandler) { h.OnMemberUpdate(int64(lobby), int64(user)) })
	return 0
}

func onMemberDisconnect(data, lobby, user uintptr) uintptr {
	event(data, "onMemberDisconnect", func(h EventHandler) { h.OnMemberDisconnect(int64(lobby), int64(user)) })
	return 0
}

func onLobbyMessage(data, lobby, user, p, n uintptr) uintptr {
	event(data, "onLobbyMessage", func(h EventHandler) {
		if b, ok := payload("onLobbyMessage", p, n); ok {
			h.OnLobbyMessage(int64(lobby), int64(user), b)
		}
	})
	return 0
}

func onSpeaking(data, lobby, user, speaking uintptr) uintptr {
	event(data, "onSpeaking", func(h EventHandler) { h.OnSpeaking(int64(lobby), int64(user), cbool(speaking)) })
	return 0
}

func onLobbyNetworkMessage(data, lobby, user, channel, p, n uintptr) uintptr {
	event(data, "onLobbyNetworkMessage", func(h EventHandler) {
		if b, ok := payload("onLobbyNetworkMessage", p, n); ok {
			h.OnLobbyNetworkMessage(int64(lobby), int64(user), uint8(channel), b)
		}
	})
	return 0
}

func onNetworkMessage(data, peer, channel, p, n uintptr) uintptr {
	event(data, "onNetworkMessage", func(h EventHandler) {
		if b, ok := payload("onNetworkMessage", p, n); ok {
			h.OnNetworkMessage(uint64(peer), uint8(channel), b)
		}
	})
	return 0
}

func onRouteUpdate(data, route uintptr) uintptr {
	event(data, "onRouteUpdate", func(h EventHandler) { h.OnRouteUpdate(codec.CString(route)) })
	return 0
}

func onOverlayToggle(data, locked uintptr) uintptr {
	event(data, "onOverlayToggle", func(h EventHandler) { h.OnOverlayToggle(cbool(locked)) })
	return 0
}

func onVoiceSettingsUpdate(data uintptr) uintptr {
	event(data, "onVoiceSettingsUpdate", func(h EventHandler) { h.OnVoiceSettingsUpdate() })
	return 0
}
