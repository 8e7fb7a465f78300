// Package domain holds the typed outcomes shared by the access and
// analytics cores. Handlers translate them to transport status codes;
// nothing below the handler layer knows about HTTP.
package domain

import "errors"

var (
	// ErrUnauthorized means no identity was resolved for the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the identity lacks the required membership or
	// role for the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the resource does not exist. Cross-tenant
	// lookups also surface as ErrNotFound so that one tenant can never
	// probe another tenant's ids.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest means the input is malformed or violates a domain
	// rule (e.g. removing the last owner of a project).
	ErrBadRequest = errors.New("bad request")
)
