package ports

import "github.com/google/uuid"

type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}
