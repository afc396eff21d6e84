package model

import "fmt"

// Result is the outcome code of a native SDK operation. The ordinal matches
// the native numbering one to one.
type Result int

const (
	ResultOk Result = iota
	ResultServiceUnavailable
	ResultInvalidVersion
	ResultLockFailed
	ResultInternalError
	ResultInvalidPayload
	ResultInvalidCommand
	ResultInvalidPermissions
	ResultNotFetched
	ResultNotFound
	ResultConflict
	ResultInvalidSecret
	ResultInvalidJoinSecret
	ResultNoEligibleActivity
	ResultInvalidInvite
	ResultNotAuthenticated
	ResultInvalidAccessToken
	ResultApplicationMismatch
	ResultInvalidDataURL
	ResultInvalidBase64
	ResultNotFiltered
	ResultLobbyFull
	ResultInvalidLobbySecret
	ResultInvalidFilename
	ResultInvalidFileSize
	ResultInvalidEntitlement
	ResultNotInstalled
	ResultNotRunning
	ResultInsufficientBuffer
	ResultPurchaseCanceled
	ResultInvalidGuild
	ResultInvalidEvent
	ResultInvalidChannel
	ResultInvalidOrigin
	ResultRateLimited
	ResultOAuth2Error
	ResultSelectChannelTimeout
	ResultGetGuildTimeout
	ResultSelectVoiceForceRequired
	ResultCaptureShortcutAlreadyListening
	ResultUnauthorizedForAchievement
	ResultInvalidGiftCode
	ResultPurchaseError
	ResultTransactionAborted
	ResultDrawingInitFailed

	resultCount
)

// ResultCount is the number of result codes the binding knows by name.
const ResultCount = int(resultCount)

var resultNames = [...]string{
	"Ok",
	"ServiceUnavailable",
	"InvalidVersion",
	"LockFailed",
	"InternalError",
	"InvalidPayload",
	"InvalidCommand",
	"InvalidPermissions",
	"NotFetched",
	"NotFound",
	"Conflict",
	"InvalidSecret",
	"InvalidJoinSecret",
	"NoEligibleActivity",
	"InvalidInvite",
	"NotAuthenticated",
	"InvalidAccessToken",
	"ApplicationMismatch",
	"InvalidDataUrl",
	"InvalidBase64",
	"NotFiltered",
	"LobbyFull",
	"InvalidLobbySecret",
	"InvalidFilename",
	"InvalidFileSize",
	"InvalidEntitlement",
	"NotInstalled",
	"NotRunning",
	"InsufficientBuffer",
	"PurchaseCanceled",
	"InvalidGuild",
	"InvalidEvent",
	"InvalidChannel",
	"InvalidOrigin",
	"RateLimited",
	"OAuth2Error",
	"SelectChannelTimeout",
	"GetGuildTimeout",
	"SelectVoiceForceRequired",
	"CaptureShortcutAlreadyListening",
	"UnauthorizedForAchievement",
	"InvalidGiftCode",
	"PurchaseError",
	"TransactionAborted",
	"DrawingInitFailed",
}

// String returns the result name, or Result(n) for codes a newer SDK added.
func (r Result) String() string {
	if r >= 0 && int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Error makes a Result usable as a sentinel with errors.Is.
func (r Result) Error() string {
	return "native result " + r.String()
}

// Ok reports whether r is ResultOk.
func (r Result) Ok() bool {
	return r == ResultOk
}

// Known reports whether r has a name in this binding.
func (r Result) Known() bool {
	return r >= 0 && r < resultCount
}
