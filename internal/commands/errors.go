package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by command failures so hosts can branch on them without
// matching message strings.
const (
	codeMessageRejected = "PUBLISH_COMMAND_REJECTED"
	codeContextClosed   = "PUBLISH_COMMAND_CONTEXT_CLOSED"
	codeExecuteFailed   = "PUBLISH_COMMAND_FAILED"
)

// tag assigns a category and text code to err. Errors already wrapped by an
// inner layer pass through untouched so the innermost classification wins.
func tag(err error, category goerrors.Category, code, msg string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return tag(err, goerrors.CategoryValidation, codeMessageRejected, "command message rejected")
}

func wrapContextError(err error) error {
	msg := "command context closed"
	switch {
	case errors.Is(err, context.Canceled):
		msg = "command cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		msg = "command timed out"
	}
	return tag(err, goerrors.CategoryCommand, codeContextClosed, msg)
}

func wrapExecuteError(err error) error {
	return tag(err, goerrors.CategoryCommand, codeExecuteFailed, "command execution failed")
}
