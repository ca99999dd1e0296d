package memory

import (
	"context"
	"sync"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/repository"

	"github.com/google/uuid"
)

// FailRecipient makes Save fail, so tests can exercise the
// sent-but-not-saved path.
const FailRecipient = "fail@example.com"

type EmailRepository struct {
	mu     sync.Mutex
	clock  clock.Clock
	nextID int32
	sent   []*domain.Email
}

func NewEmailRepository(clk clock.Clock) *EmailRepository {
	return &EmailRepository{clock: clk, nextID: 1}
}

func (r *EmailRepository) Save(_ context.Context, email repository.EmailForInsert) (*domain.Email, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if email.To == FailRecipient {
		return nil, fault.ErrInsertFailed
	}
	saved := &domain.Email{
		ID:         r.nextID,
		Ref:        uuid.NewString(),
		ExternalID: email.ExternalID,
		To:         email.To,
		From:       email.From,
		Sender:     email.Sender,
		CreatedAt:  r.clock.Now(),
	}
	r.nextID++
	r.sent = append(r.sent, saved)
	cp := *saved
	return &cp, nil
}

func (r *EmailRepository) Find(_ context.Context, ref string) (*domain.Email, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.sent {
		if e.Ref == ref {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fault.ErrNotFound
}

// All returns every saved record, for assertions.
func (r *EmailRepository) All() []*domain.Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Email, len(r.sent))
	copy(out, r.sent)
	return out
}
