// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBudgetExhausted = errors.New("sponsor budget exhausted")
	ErrInvalidOption   = errors.New("invalid option")
	ErrDuplicateVote   = errors.New("already voted on this question")
	ErrForbidden       = errors.New("forbidden")
	ErrSurveyClosed    = errors.New("survey is closed")
	ErrProfileNotFound = errors.New("public profile not found")
)

// DuplicateVoteError names the question that already holds a vote from the user
type DuplicateVoteError struct {
	QuestionID string
}

func (e *DuplicateVoteError) Error() string {
	return fmt.Sprintf("already voted on question %s", e.QuestionID)
}

func (e *DuplicateVoteError) Is(target error) bool {
	return target == ErrDuplicateVote
}

// InvalidOptionError describes a malformed answer
type InvalidOptionError struct {
	QuestionID string
	OptionID   string
	Reason     string
}

func (e *InvalidOptionError) Error() string {
	if e.OptionID == "" {
		return "invalid answer: " + e.Reason
	}
	return fmt.Sprintf("invalid option %s for question %s: %s", e.OptionID, e.QuestionID, e.Reason)
}

func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	QuestionID string `json:"question_id,omitempty"`
}
