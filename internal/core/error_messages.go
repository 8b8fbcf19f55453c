package core

// Error codes let editors quote a failure to whoever runs the server.
//
//	DB001  duplicate value for a unique column     (pg 23505, "duplicate key")
//	DB002  required column left empty              (pg 23502, "not-null")
//	DB003  value has the wrong type for its column (pg 22P02, ErrInvalidValue, "invalid input syntax")
//	DB004  database unreachable                    ("connection refused")
//	DB005  database busy                           (pg 40P01, "deadlock")
//	DB006  operation timed out                     (context.DeadlineExceeded, "timeout")
//	REQ001 request cancelled                       (context.Canceled)
//	REQ002 request body is not valid JSON          ("invalid json")
//	TBL001 unknown table                           (ErrUnknownTable)
//	RATE001 too many requests                      ("rate limit")
//	ERR000 anything else
//
// Typed errors are matched first; the substring patterns catch errors that
// lost their type on the way up.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgDuplicate = UserMessage{
		Message: "Another row already has this value",
		Action:  "Change the value so it is unique",
		Code:    "DB001",
	}
	msgNotNull = UserMessage{
		Message: "A required column is empty",
		Action:  "Fill in every required column",
		Code:    "DB002",
	}
	msgBadValue = UserMessage{
		Message: "A value does not match its column type",
		Action:  "Check numbers and yes/no columns",
		Code:    "DB003",
	}
	msgUnreachable = UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}
	msgBusy = UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB005",
	}
	msgTimeout = UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}
	msgBadJSON = UserMessage{
		Message: "Request body is not valid JSON",
		Action:  "Send the row as a JSON object",
		Code:    "REQ002",
	}
	msgUnknownTable = UserMessage{
		Message: "Unknown table",
		Action:  "Verify the table name is correct",
		Code:    "TBL001",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// pgCodes maps Postgres SQLSTATE codes to messages.
var pgCodes = map[string]UserMessage{
	"23505": msgDuplicate,
	"23502": msgNotNull,
	"22P02": msgBadValue,
	"40P01": msgBusy,
	"57014": msgTimeout,
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively in order; the first hit wins.
var errorPatterns = []errorPattern{
	{"duplicate key", msgDuplicate},
	{"not-null", msgNotNull},
	{"invalid input syntax", msgBadValue},
	{"connection refused", msgUnreachable},
	{"deadlock", msgBusy},
	{"timeout", msgTimeout},
	{"invalid json", msgBadJSON},
	{"unknown table", msgUnknownTable},
	{"rate limit", msgRateLimited},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgCodes[pgErr.Code]; ok {
			return msg
		}
	}

	switch {
	case errors.Is(err, ErrUnknownTable):
		return msgUnknownTable
	case errors.Is(err, ErrInvalidValue):
		return msgBadValue
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, context.Canceled):
		return msgCancelled
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders MapError(err) as a single line.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
