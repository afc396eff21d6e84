package gamesdk

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/dispatch"
	"github.com/opd-ai/gamesdk/model"
)

// UserManager reads user records.
type UserManager struct {
	manager
}

// CurrentUser returns the logged in user. It fails with ResultNotFound
// until the client has reported the user, which is signalled by
// OnCurrentUserUpdate.
func (u *UserManager) CurrentUser() (*model.User, error) {
	var f frame
	defer f.release()
	rec := new(abi.User)
	if err := u.check(abi.UserGetCurrentUser, ref(&f, rec)); err != nil {
		return nil, err
	}
	user := codec.DecodeUser(rec)
	return &user, nil
}

// User looks up userID. cb receives nil when no such user exists.
func (u *UserManager) User(userID int64, cb func(model.Result, *model.User)) error {
	if cb == nil {
		return ErrNilCallback
	}
	return u.async(abi.UserGetUser, u.core.table.UserResult, dispatch.UserResultFunc(cb), uintptr(userID))
}

// CurrentUserPremiumType returns the Nitro tier of the current user.
func (u *UserManager) CurrentUserPremiumType() (model.PremiumType, error) {
	var f frame
	defer f.release()
	native := new(int32)
	if err := u.check(abi.UserGetCurrentUserPremiumType, ref(&f, native)); err != nil {
		return model.PremiumNone, err
	}
	return codec.DecodePremiumType(*native)
}

// CurrentUserHasFlag reports whether the current user carries flag.
func (u *UserManager) CurrentUserHasFlag(flag model.UserFlag) (bool, error) {
	var f frame
	defer f.release()
	has := new(bool)
	if err := u.check(abi.UserCurrentUserHasFlag, uintptr(flag), ref(&f, has)); err != nil {
		return false, err
	}
	return *has, nil
}
