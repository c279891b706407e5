package errors

// Helpers for mapping the preparation core's typed errors to project
// ErrorCode so handlers and runners never inspect core types themselves

import (
	stderrs "errors"

	"timegrid/internal/core/frame"
	"timegrid/internal/core/grid"
	"timegrid/internal/core/interval"
	"timegrid/internal/core/reshape"
)

// CoreErrorCode maps a core error to an ErrorCode with an ok flag
// !ok means err carried none of the core's typed errors; caller may fall
// back to generic handling
func CoreErrorCode(err error) (ErrorCode, bool) {
	var (
		badToken   *interval.UnrecognizedIntervalError
		tooFew     *interval.InsufficientDataError
		ambiguous  *frame.AmbiguousColumnError
		noDatetime *frame.NoDatetimeColumnError
		emptyRange *grid.EmptyRangeError
		badDate    *grid.InvalidCalendarDateError
		offGrid    *reshape.NonAlignedTimestampError
	)
	switch {
	case stderrs.As(err, &badToken):
		return ErrorCodeUnrecognizedInterval, true
	case stderrs.As(err, &tooFew):
		return ErrorCodeInsufficientData, true
	case stderrs.As(err, &ambiguous):
		return ErrorCodeAmbiguousColumn, true
	case stderrs.As(err, &noDatetime):
		return ErrorCodeNoDatetimeColumn, true
	case stderrs.As(err, &emptyRange):
		return ErrorCodeEmptyRange, true
	case stderrs.As(err, &badDate):
		return ErrorCodeInvalidDate, true
	case stderrs.As(err, &offGrid):
		return ErrorCodeNonAligned, true
	}
	return ErrorCodeUnknown, false
}

// FromCore wraps an error returned by the core packages with its mapped
// ErrorCode, keeping the core's message on the wire so failures still
// name the offending column and value. Untyped core errors classify as
// invalid input since the core only fails on caller data.
// If err is nil, returns nil
func FromCore(err error) error {
	if err == nil {
		return nil
	}
	code, ok := CoreErrorCode(err)
	if !ok {
		code = ErrorCodeInvalidArgument
	}
	out := &Error{code: code, msg: err.Error(), orig: err}

	var offGrid *reshape.NonAlignedTimestampError
	if stderrs.As(err, &offGrid) && offGrid.Column != "" {
		out.field = offGrid.Column
	}
	return out
}
