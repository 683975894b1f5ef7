package services

import (
	"context"

	"alfredoptarigan/interview-prep/internal/models"
)

// SessionStore is the registry of live interview sessions. Get returns a copy;
// changes become visible to other requests only through Update.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

// SessionLocker is implemented by stores shared between API replicas. The lock
// spans one SubmitAnswer turn so two replicas never interleave writes to the
// same session.
type SessionLocker interface {
	Lock(ctx context.Context, id string) (unlock func(), err error)
}
