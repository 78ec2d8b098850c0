package board

import (
	"errors"

	"github.com/acikkaynak/needs-board-go/needs"
)

var (
	// ErrValidation means a submission is missing a required field.
	ErrValidation = needs.ErrValidation
	// ErrForbidden means the caller lacks the role an operation needs.
	ErrForbidden = errors.New("admin privileges required")
	// ErrInvalidCredentials means a login attempt did not match any account.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
