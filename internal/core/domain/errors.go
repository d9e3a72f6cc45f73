package domain

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrInvalidProjectID = errors.New("invalid project id")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidDirection = errors.New("invalid vote direction")
	ErrInvalidEntityID  = errors.New("invalid entity id")
	ErrDuplicateVote    = errors.New("duplicate vote")
	ErrUnauthenticated  = errors.New("user is not authenticated")
	ErrEngineClosed     = errors.New("vote engine is closed")
	ErrInternal         = errors.New("internal server error")
)
