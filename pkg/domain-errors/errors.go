// Package domainerrors provides code-carrying domain errors. Services return
// these so transports can translate failures without string matching, and
// callers always learn the specific rule that rejected the transition.
// Conventionally imported as dErrors.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a category of domain failure. The set is closed: every
// transition either commits or reports exactly one of these.
type Code string

const (
	CodeAlreadyExists           Code = "already_exists"
	CodeNotFound                Code = "not_found"
	CodeUnauthorized            Code = "unauthorized"
	CodeResearcherNotVerified   Code = "researcher_not_verified"
	CodeInvalidStudyParameters  Code = "invalid_study_parameters"
	CodeStudyAtCapacity         Code = "study_at_capacity"
	CodeStudyInactive           Code = "study_inactive"
	CodeInvalidProgress         Code = "invalid_progress"
	CodeInvalidRating           Code = "invalid_rating"
	CodeFeedbackTooLong         Code = "feedback_too_long"
	CodeInvalidEligibilityProof Code = "invalid_eligibility_proof"
	CodeInvalidWalletAddress    Code = "invalid_wallet_address"
	CodeUnauthorizedConsent     Code = "unauthorized_consent_issuance"
	CodeNoActiveConsent         Code = "no_active_consent"
	CodeInsufficientFunds       Code = "insufficient_funds"
	CodeStudyNotCompleted       Code = "study_not_completed"
	CodeNotAParticipant         Code = "not_a_participant"
	CodeConflict                Code = "conflict"
	CodeBadRequest              Code = "bad_request"
	CodeInternal                Code = "internal"
)

// Error pairs a Code with a human-readable message. Messages should name the
// record or field that failed so callers can correct their input.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the domain code from err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to the HTTP status transports respond with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeResearcherNotVerified, CodeUnauthorizedConsent, CodeNotAParticipant:
		return http.StatusForbidden
	case CodeInvalidStudyParameters, CodeInvalidProgress, CodeInvalidRating,
		CodeFeedbackTooLong, CodeInvalidEligibilityProof, CodeInvalidWalletAddress,
		CodeBadRequest:
		return http.StatusBadRequest
	case CodeStudyAtCapacity, CodeStudyInactive, CodeNoActiveConsent,
		CodeStudyNotCompleted:
		return http.StatusUnprocessableEntity
	case CodeInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
