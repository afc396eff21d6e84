package codec

import (
	"errors"
	"fmt"

	"github.com/opd-ai/gamesdk/model"
)

var (
	// ErrEnumRange indicates a value outside the known range of an enumeration.
	ErrEnumRange = errors.New("enum value out of range")

	// ErrNullPointer indicates a required native pointer was nil.
	ErrNullPointer = errors.New("nil native pointer")
)

// Enum describes how one enumeration is numbered on the native side.
// The Go ordinal is native - Base; each enumeration has its own Base.
type Enum struct {
	Name  string
	Base  int32
	Count int
}

// Decode converts a native value to a Go ordinal.
func (e Enum) Decode(native int32) (int, error) {
	o := int(native) - int(e.Base)
	if o < 0 || o >= e.Count {
		return 0, fmt.Errorf("%w: %s native value %d", ErrEnumRange, e.Name, native)
	}
	return o, nil
}

// Encode converts a Go ordinal to the native value.
func (e Enum) Encode(ordinal int) (int32, error) {
	if ordinal < 0 || ordinal >= e.Count {
		return 0, fmt.Errorf("%w: %s ordinal %d", ErrEnumRange, e.Name, ordinal)
	}
	return int32(ordinal) + e.Base, nil
}

// ordinal applies the offset without a range check, for record fields
// where an unknown value must pass through untouched.
func (e Enum) ordinal(native int32) int {
	return int(native) - int(e.Base)
}

func (e Enum) native(ordinal int) int32 {
	return int32(ordinal) + e.Base
}

// Enumeration descriptors. Only LogLevel, ActivityActionType, LobbyType,
// LobbySearchCast and LobbySearchComparison are offset.
var (
	LogLevelEnum              = Enum{Name: "LogLevel", Base: 1, Count: 4}
	ActivityActionTypeEnum    = Enum{Name: "ActivityActionType", Base: 1, Count: 2}
	LobbyTypeEnum             = Enum{Name: "LobbyType", Base: 1, Count: 2}
	LobbySearchCastEnum       = Enum{Name: "LobbySearchCast", Base: 1, Count: 2}
	LobbySearchComparisonEnum = Enum{Name: "LobbySearchComparison", Base: -2, Count: 6}
	ResultEnum                = Enum{Name: "Result", Base: 0, Count: model.ResultCount}
	PremiumTypeEnum           = Enum{Name: "PremiumType", Base: 0, Count: 3}
	ImageTypeEnum             = Enum{Name: "ImageType", Base: 0, Count: 1}
	InputModeTypeEnum         = Enum{Name: "InputModeType", Base: 0, Count: 2}
	RelationshipTypeEnum      = Enum{Name: "RelationshipType", Base: 0, Count: 6}
	StatusEnum                = Enum{Name: "Status", Base: 0, Count: 4}
	ActivityTypeEnum          = Enum{Name: "ActivityType", Base: 0, Count: 4}
	JoinRequestReplyEnum      = Enum{Name: "JoinRequestReply", Base: 0, Count: 3}
	LobbySearchDistanceEnum   = Enum{Name: "LobbySearchDistance", Base: 0, Count: 4}
)

func decodeAs[T ~int](e Enum, native int32) (T, error) {
	o, err := e.Decode(native)
	return T(o), err
}

func encodeAs[T ~int](e Enum, v T) (int32, error) {
	return e.Encode(int(v))
}

// ResultOf converts a native result code. Codes this binding has no name
// for are kept as-is rather than rejected.
func ResultOf(native int32) model.Result {
	return model.Result(ResultEnum.ordinal(native))
}

// NativeResult is the inverse of ResultOf.
func NativeResult(r model.Result) int32 {
	return ResultEnum.native(int(r))
}

// DecodeLogLevel converts a native LogLevel, failing with ErrEnumRange
// for values it does not know.
func DecodeLogLevel(native int32) (model.LogLevel, error) {
	return decodeAs[model.LogLevel](LogLevelEnum, native)
}

// EncodeLogLevel returns the native value of a LogLevel.
func EncodeLogLevel(l model.LogLevel) (int32, error) {
	return encodeAs(LogLevelEnum, l)
}

// DecodeActivityActionType converts a native ActivityActionType, failing with ErrEnumRange
// for values it does not know.
func DecodeActivityActionType(native int32) (model.ActivityActionType, error) {
	return decodeAs[model.ActivityActionType](ActivityActionTypeEnum, native)
}

// EncodeActivityActionType returns the native value of a ActivityActionType.
func EncodeActivityActionType(a model.ActivityActionType) (int32, error) {
	return encodeAs(ActivityActionTypeEnum, a)
}

// EncodeLobbyType returns the native value of a LobbyType.
func EncodeLobbyType(t model.LobbyType) (int32, error) {
	return encodeAs(LobbyTypeEnum, t)
}

// DecodeLobbyType converts a native LobbyType, failing with ErrEnumRange
// for values it does not know.
func DecodeLobbyType(native int32) (model.LobbyType, error) {
	return decodeAs[model.LobbyType](LobbyTypeEnum, native)
}

// EncodeLobbySearchCast returns the native value of a LobbySearchCast.
func EncodeLobbySearchCast(c model.LobbySearchCast) (int32, error) {
	return encodeAs(LobbySearchCastEnum, c)
}

// DecodeLobbySearchCast converts a native LobbySearchCast, failing with ErrEnumRange
// for values it does not know.
func DecodeLobbySearchCast(native int32) (model.LobbySearchCast, error) {
	return decodeAs[model.LobbySearchCast](LobbySearchCastEnum, native)
}

// EncodeLobbySearchComparison returns the native value of a LobbySearchComparison.
func EncodeLobbySearchComparison(c model.LobbySearchComparison) (int32, error) {
	return encodeAs(LobbySearchComparisonEnum, c)
}

// DecodeLobbySearchComparison converts a native LobbySearchComparison, failing with ErrEnumRange
// for values it does not know.
func DecodeLobbySearchComparison(native int32) (model.LobbySearchComparison, error) {
	return decodeAs[model.LobbySearchComparison](LobbySearchComparisonEnum, native)
}

// EncodeLobbySearchDistance returns the native value of a LobbySearchDistance.
func EncodeLobbySearchDistance(d model.LobbySearchDistance) (int32, error) {
	return encodeAs(LobbySearchDistanceEnum, d)
}

// EncodeJoinRequestReply returns the native value of a JoinRequestReply.
func EncodeJoinRequestReply(r model.JoinRequestReply) (int32, error) {
	return encodeAs(JoinRequestReplyEnum, r)
}

// DecodeJoinRequestReply converts a native JoinRequestReply, failing with ErrEnumRange
// for values it does not know.
func DecodeJoinRequestReply(native int32) (model.JoinRequestReply, error) {
	return decodeAs[model.JoinRequestReply](JoinRequestReplyEnum, native)
}

// EncodeInputModeType returns the native value of a InputModeType.
func EncodeInputModeType(t model.InputModeType) (int32, error) {
	return encodeAs(InputModeTypeEnum, t)
}

// DecodePremiumType converts a native PremiumType, failing with ErrEnumRange
// for values it does not know.
func DecodePremiumType(native int32) (model.PremiumType, error) {
	return decodeAs[model.PremiumType](PremiumTypeEnum, native)
}

// EncodePremiumType returns the native value of a PremiumType.
func EncodePremiumType(p model.PremiumType) (int32, error) {
	return encodeAs(PremiumTypeEnum, p)
}
