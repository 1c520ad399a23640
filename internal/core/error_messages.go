// Error codes reference
//
// Errors shown to users carry a short code that support staff can look up.
// MapError first checks the error chain for known sentinel and typed errors,
// then falls back to case-insensitive substring patterns on the message.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Unsupported format: The file type cannot be analyzed
//	          Action: Upload a .csv, .xlsx, .xls or .txt file
//	          Matches: loader.ErrUnsupportedFormat, "unsupported file format"
//
//	FILE002 - Invalid delimited file: The file could not be parsed as CSV/TXT
//	          Action: Check that every row has the same number of fields as the header
//	          Matches: *loader.LoadError for csv/txt, "invalid csv"
//
//	FILE003 - Encoding error: The file contains characters that could not be decoded
//	          Action: Save the file as UTF-8 and upload it again
//	          Matches: charset.ErrUnknownEncoding, "encoding error"
//
//	FILE004 - No file: No file was selected
//	          Action: Choose one or more files to analyze
//	          Matches: "no file provided"
//
//	FILE005 - Empty file: The file has no header row
//	          Action: Upload a file whose first row names the columns
//	          Matches: loader.ErrNoColumns
//
//	FILE006 - Invalid workbook: The Excel file could not be opened
//	          Action: Re-save the workbook in Excel and upload it again
//	          Matches: *loader.LoadError for xlsx/xls
//
//	FILE007 - File too large: The upload exceeds the configured size limit
//	          Action: Split the file or upload fewer files at once
//	          Matches: "request body too large", "file too large"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many analyses in progress
//	         Action: Please wait a moment and try again
//	         Matches: ErrBusy
//
//	UPL004 - Request cancelled: The request was cancelled
//	         Action: Please try again
//	         Matches: context.Canceled
//
//	UPL005 - Request timeout: The request timed out
//	         Action: Try a smaller file or check your connection
//	         Matches: context.DeadlineExceeded
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Matches: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application log for the original
// error when a user reports ERR000.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/reportmap/internal/charset"
	"github.com/JonMunkholm/reportmap/internal/loader"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgUnsupported = UserMessage{
		Message: "This file type cannot be analyzed",
		Action:  "Upload a .csv, .xlsx, .xls or .txt file",
		Code:    "FILE001",
	}
	msgInvalidDelimited = UserMessage{
		Message: "The file could not be parsed as delimited text",
		Action:  "Check that every row has the same number of fields as the header",
		Code:    "FILE002",
	}
	msgEncoding = UserMessage{
		Message: "The file contains characters that could not be decoded",
		Action:  "Save the file as UTF-8 and upload it again",
		Code:    "FILE003",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Choose one or more files to analyze",
		Code:    "FILE004",
	}
	msgEmpty = UserMessage{
		Message: "The file has no header row",
		Action:  "Upload a file whose first row names the columns",
		Code:    "FILE005",
	}
	msgInvalidWorkbook = UserMessage{
		Message: "The Excel file could not be opened",
		Action:  "Re-save the workbook in Excel and upload it again",
		Code:    "FILE006",
	}
	msgTooLarge = UserMessage{
		Message: "The upload exceeds the size limit",
		Action:  "Split the file or upload fewer files at once",
		Code:    "FILE007",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing other analyses",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// errorKind matches errors by identity or type anywhere in the chain.
type errorKind struct {
	match func(error) bool
	msg   UserMessage
}

func isErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func isLoadFormat(formats ...string) func(error) bool {
	return func(err error) bool {
		var le *loader.LoadError
		if !errors.As(err, &le) {
			return false
		}
		for _, f := range formats {
			if le.Format == f {
				return true
			}
		}
		return false
	}
}

// errorKinds is checked in order before any message pattern. More specific
// kinds come first: an empty workbook is FILE005, not FILE006.
var errorKinds = []errorKind{
	{isErr(loader.ErrUnsupportedFormat), msgUnsupported},
	{isErr(loader.ErrNoColumns), msgEmpty},
	{isErr(charset.ErrUnknownEncoding), msgEncoding},
	{isLoadFormat("xlsx", "xls"), msgInvalidWorkbook},
	{isLoadFormat("csv", "txt"), msgInvalidDelimited},
	{isErr(ErrBusy), msgBusy},
	{isErr(context.Canceled), msgCancelled},
	{isErr(context.DeadlineExceeded), msgTimeout},
}

// errorPattern maps a lowercase message substring to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches errors that arrive only as text, such as those
// produced by net/http or by the web layer itself. First match wins.
var errorPatterns = []errorPattern{
	{"unsupported file format", msgUnsupported},
	{"invalid csv", msgInvalidDelimited},
	{"encoding error", msgEncoding},
	{"no file provided", msgNoFile},
	{"request body too large", msgTooLarge},
	{"file too large", msgTooLarge},
	{"too many uploads", msgBusy},
	{"context canceled", msgCancelled},
	{"context deadline exceeded", msgTimeout},
	{"rate limit", msgRateLimited},
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to the generic ERR000 message; nil maps to the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, k := range errorKinds {
		if k.match(err) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
