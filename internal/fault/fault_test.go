package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnKind(t *testing.T) {
	wrapped := fmt.Errorf("while revoking: %w", ErrInvitationAlreadyRevoked)

	assert.ErrorIs(t, wrapped, ErrInvitationAlreadyRevoked)
	assert.NotErrorIs(t, wrapped, ErrNotInProgress)

	// Same kind matches regardless of message.
	assert.ErrorIs(t, New(KindEmailNotSent, "smtp refused"), EmailNotSent("other message"))
}

func TestUnknownWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Unknown(cause)

	assert.Equal(t, "unknown error", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTokenExpired, KindOf(ErrTokenExpired))
	assert.Equal(t, KindTokenExpired, KindOf(fmt.Errorf("verify: %w", ErrTokenExpired)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("foreign")))
}
