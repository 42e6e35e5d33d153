package errors

import (
	"errors"
	"fmt"
)

// LedgerErrorKind classifies theft report ledger failures.
type LedgerErrorKind string

const (
	LedgerInvalid        LedgerErrorKind = "LEDGER_INVALID"
	LedgerPartialFailure LedgerErrorKind = "LEDGER_PARTIAL_FAILURE"
)

// LedgerError is a business error of the theft report ledger. A PartialFailure
// means the report was stored and only the follow-up bookkeeping failed.
type LedgerError struct {
	Kind     LedgerErrorKind
	Message  string
	IMEI     string
	ReportID string
	Cause    error
}

func (e *LedgerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (imei: %s) - %v", e.Kind, e.Message, e.IMEI, e.Cause)
	}
	return fmt.Sprintf("%s: %s (imei: %s)", e.Kind, e.Message, e.IMEI)
}

func (e *LedgerError) Unwrap() error {
	return e.Cause
}

// NewLedgerInvalidError reports a malformed theft report.
func NewLedgerInvalidError(imei, message string) *LedgerError {
	return &LedgerError{Kind: LedgerInvalid, Message: message, IMEI: imei}
}

// NewPartialFailureError reports a stored report whose status sync failed.
func NewPartialFailureError(imei, reportID string, cause error) *LedgerError {
	return &LedgerError{
		Kind:     LedgerPartialFailure,
		Message:  "report recorded but device status sync is pending",
		IMEI:     imei,
		ReportID: reportID,
		Cause:    cause,
	}
}

// IsLedgerError reports whether err is a LedgerError of kind.
func IsLedgerError(err error, kind LedgerErrorKind) bool {
	var ledgerErr *LedgerError
	return errors.As(err, &ledgerErr) && ledgerErr.Kind == kind
}
