package gamesdk

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/model"
)

// VoiceManager reads and changes the voice settings of the current user.
type VoiceManager struct {
	manager
}

// InputMode returns the current voice input mode.
func (v *VoiceManager) InputMode() (model.InputMode, error) {
	var f frame
	defer f.release()
	rec := new(abi.InputMode)
	if err := v.check(abi.VoiceGetInputMode, ref(&f, rec)); err != nil {
		return model.InputMode{}, err
	}
	return codec.DecodeInputMode(rec), nil
}

// SetInputMode switches between voice activity and push to talk. Push to
// talk needs a shortcut. Like the image calls, it takes a record by value.
func (v *VoiceManager) SetInputMode(mode model.InputMode, cb func(model.Result)) error {
	rec, err := codec.EncodeInputMode(mode)
	if err != nil {
		return err
	}
	var f frame
	defer f.release()
	return v.async(abi.VoiceSetInputMode, v.core.table.Result, resultFunc(cb), ref(&f, &rec))
}

// IsSelfMute reports whether the current user's microphone is muted.
func (v *VoiceManager) IsSelfMute() (bool, error) {
	return v.flag(abi.VoiceIsSelfMute)
}

// SetSelfMute mutes or unmutes the current user's microphone.
func (v *VoiceManager) SetSelfMute(mute bool) error {
	return v.check(abi.VoiceSetSelfMute, cbool(mute))
}

// IsSelfDeaf reports whether the current user is deafened.
func (v *VoiceManager) IsSelfDeaf() (bool, error) {
	return v.flag(abi.VoiceIsSelfDeaf)
}

// SetSelfDeaf deafens or undeafens the current user.
func (v *VoiceManager) SetSelfDeaf(deaf bool) error {
	return v.check(abi.VoiceSetSelfDeaf, cbool(deaf))
}

// IsLocalMute reports whether userID is muted for the current user.
func (v *VoiceManager) IsLocalMute(userID int64) (bool, error) {
	return v.flag(abi.VoiceIsLocalMute, uintptr(userID))
}

// SetLocalMute mutes userID for the current user only.
func (v *VoiceManager) SetLocalMute(userID int64, mute bool) error {
	return v.check(abi.VoiceSetLocalMute, uintptr(userID), cbool(mute))
}

// LocalVolume returns the volume of userID for the current user, 0 to
// 200 with 100 as default.
func (v *VoiceManager) LocalVolume(userID int64) (uint8, error) {
	var f frame
	defer f.release()
	vol := new(uint8)
	if err := v.check(abi.VoiceGetLocalVolume, uintptr(userID), ref(&f, vol)); err != nil {
		return 0, err
	}
	return *vol, nil
}

// SetLocalVolume sets the volume of userID for the current user. Values
// above 200 are rejected by the client.
func (v *VoiceManager) SetLocalVolume(userID int64, volume uint8) error {
	return v.check(abi.VoiceSetLocalVolume, uintptr(userID), uintptr(volume))
}

func (v *VoiceManager) flag(slot abi.Slot, args ...uintptr) (bool, error) {
	var f frame
	defer f.release()
	b := new(bool)
	if err := v.check(slot, append(args, ref(&f, b))...); err != nil {
		return false, err
	}
	return *b, nil
}
