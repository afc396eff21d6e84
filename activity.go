package gamesdk

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
)

// ActivityManager controls the rich presence of the current user.
type ActivityManager struct {
	manager
}

// RegisterCommand registers the command the client runs to launch the
// game, for example from a join invite.
func (a *ActivityManager) RegisterCommand(command string) error {
	var f frame
	defer f.release()
	return a.check(abi.ActivityRegisterCommand, f.cstr(command))
}

// RegisterSteam registers a Steam application id as the launch target.
func (a *ActivityManager) RegisterSteam(steamID uint32) error {
	return a.check(abi.ActivityRegisterSteam, uintptr(steamID))
}

// UpdateActivity replaces the current activity. cb runs once from
// RunCallbacks.
func (a *ActivityManager) UpdateActivity(activity model.Activity, cb func(model.Result)) error {
	rec, err := codec.EncodeActivity(activity)
	if err != nil {
		return err
	}
	var f frame
	defer f.release()
	return a.async(abi.ActivityUpdateActivity, a.core.table.Result, resultFunc(cb), ref(&f, &rec))
}

// ClearActivity removes the current activity.
func (a *ActivityManager) ClearActivity(cb func(model.Result)) error {
	return a.async(abi.ActivityClearActivity, a.core.table.Result, resultFunc(cb))
}

// SendRequestReply answers an ask-to-join request from userID.
func (a *ActivityManager) SendRequestReply(userID int64, reply model.JoinRequestReply, cb func(model.Result)) error {
	native, err := codec.EncodeJoinRequestReply(reply)
	if err != nil {
		return err
	}
	return a.async(abi.ActivitySendRequestReply, a.core.table.Result, resultFunc(cb), uintptr(userID), uintptr(native))
}

// SendInvite invites userID to join or spectate the current activity with
// an optional message.
func (a *ActivityManager) SendInvite(userID int64, action model.ActivityActionType, content string, cb func(model.Result)) error {
	native, err := codec.EncodeActivityActionType(action)
	if err != nil {
		return err
	}
	var f frame
	defer f.release()
	return a.async(abi.ActivitySendInvite, a.core.table.Result, resultFunc(cb), uintptr(userID), uintptr(native), f.cstr(content))
}

// AcceptInvite accepts the pending invite from userID.
func (a *ActivityManager) AcceptInvite(userID int64, cb func(model.Result)) error {
	return a.async(abi.ActivityAcceptInvite, a.core.table.Result, resultFunc(cb), uintptr(userID))
}
