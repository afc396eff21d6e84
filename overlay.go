package gamesdk

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
)

// OverlayManager controls the in-game overlay.
type OverlayManager struct {
	manager
}

// IsEnabled reports whether the user has the overlay turned on.
func (o *OverlayManager) IsEnabled() (bool, error) {
	return o.flag(abi.OverlayIsEnabled)
}

// IsLocked reports whether the overlay is locked, taking no input.
func (o *OverlayManager) IsLocked() (bool, error) {
	return o.flag(abi.OverlayIsLocked)
}

// flag reads a bool from a native getter that returns nothing.
func (o *OverlayManager) flag(slot abi.Slot) (bool, error) {
	var f frame
	defer f.release()
	v := new(bool)
	if _, err := o.call(slot, ref(&f, v)); err != nil {
		return false, err
	}
	return *v, nil
}

// SetLocked locks or unlocks input to the overlay. OnOverlayToggle reports
// the change.
func (o *OverlayManager) SetLocked(locked bool, cb func(model.Result)) error {
	return o.async(abi.OverlaySetLocked, o.core.table.Result, resultFunc(cb), cbool(locked))
}

// OpenActivityInvite opens the overlay to invite others to join or
// spectate.
func (o *OverlayManager) OpenActivityInvite(action model.ActivityActionType, cb func(model.Result)) error {
	native, err := codec.EncodeActivityActionType(action)
	if err != nil {
		return err
	}
	return o.async(abi.OverlayOpenActivityInvite, o.core.table.Result, resultFunc(cb), uintptr(native))
}

// OpenGuildInvite opens the overlay at a guild invite code.
func (o *OverlayManager) OpenGuildInvite(code string, cb func(model.Result)) error {
	var f frame
	defer f.release()
	return o.async(abi.OverlayOpenGuildInvite, o.core.table.Result, resultFunc(cb), f.cstr(code))
}

// OpenVoiceSettings opens the voice settings in the overlay.
func (o *OverlayManager) OpenVoiceSettings(cb func(model.Result)) error {
	return o.async(abi.OverlayOpenVoiceSettings, o.core.table.Result, resultFunc(cb))
}
