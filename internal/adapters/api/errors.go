package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
)

// StatusError is a non-2xx answer from the vote API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vote api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("vote api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Unwrap maps the response onto the domain error the caller reacts to.
func (e *StatusError) Unwrap() error {
	msg := strings.ToLower(e.Message)
	switch {
	case e.Status == http.StatusConflict,
		strings.Contains(msg, "duplicate"),
		strings.Contains(msg, "unique constraint"):
		return domain.ErrDuplicateVote
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case e.Status == http.StatusNotFound:
		return domain.ErrProjectNotFound
	case e.Status == http.StatusBadRequest && strings.Contains(msg, "direction"):
		return domain.ErrInvalidDirection
	case e.Status == http.StatusBadRequest:
		return domain.ErrInvalidEntityID
	}
	return nil
}

func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
