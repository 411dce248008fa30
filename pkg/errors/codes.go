package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeMessagingError     ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
)

// Listing Module Error Codes
const (
	ErrCodeListingNotFound      ErrorCode = "LST_001"
	ErrCodeMissingRequiredField ErrorCode = "LST_002"
	ErrCodeMalformedInput       ErrorCode = "LST_003"
	ErrCodeListingInactive      ErrorCode = "LST_004"
)

// Valuation Module Error Codes
const (
	ErrCodeInsufficientComparables ErrorCode = "VAL_001"
	ErrCodeEstimateUnavailable     ErrorCode = "VAL_002"
	ErrCodeTierTableMiss           ErrorCode = "VAL_003"
	ErrCodeZeroDenominator         ErrorCode = "VAL_004"
)

// Tracking Module Error Codes
const (
	ErrCodeHistoryNotFound ErrorCode = "TRK_001"
	ErrCodeHistoryClosed   ErrorCode = "TRK_002"
	ErrCodeObservationSkew ErrorCode = "TRK_003"
)

// Dedup / Fraud Module Error Codes
const (
	ErrCodeIdentityUnavailable ErrorCode = "DUP_001"
	ErrCodeIdentityCollision   ErrorCode = "DUP_002"
)

// Aliases kept for call-site readability.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTimeout:            "operation timed out",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "message broker error",
	ErrCodeServiceUnavailable: "service unavailable",

	ErrCodeListingNotFound:      "listing not found",
	ErrCodeMissingRequiredField: "listing is missing a required field",
	ErrCodeMalformedInput:       "listing field is malformed",
	ErrCodeListingInactive:      "listing is no longer active",

	ErrCodeInsufficientComparables: "not enough comparable listings",
	ErrCodeEstimateUnavailable:     "no estimate can be produced",
	ErrCodeTierTableMiss:           "location not covered by the tier table",
	ErrCodeZeroDenominator:         "division by zero or undefined denominator",

	ErrCodeHistoryNotFound: "price history not found",
	ErrCodeHistoryClosed:   "price history is closed",
	ErrCodeObservationSkew: "observation timestamp precedes last seen",

	ErrCodeIdentityUnavailable: "property identity cannot be computed",
	ErrCodeIdentityCollision:   "identity key collides across distinct properties",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
