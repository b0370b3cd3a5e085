package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sassynary-shop/internal/domain/cart"
)

func TestResponseHandoff(t *testing.T) {
	h := NewResponseHandoff()
	ctx := context.Background()

	require.NoError(t, h.Copy(ctx, "summary"))
	require.NoError(t, h.Open(ctx, DefaultDMLink))

	clip, link := h.Deliver()
	assert.Equal(t, "summary", clip)
	assert.Equal(t, DefaultDMLink, link)

	assert.ErrorIs(t, h.Copy(ctx, "again"), ErrHandoffClosed)
	assert.ErrorIs(t, h.Open(ctx, DefaultDMLink), ErrHandoffClosed)
}

func TestService_ForSession(t *testing.T) {
	svc := NewService(DefaultConfig(), cart.NewService(), &recordingWriter{}, nil, nil)

	a := svc.ForSession("u1", Profile{UserID: "u1", DisplayName: "Asha Rao"})
	b := svc.ForSession("u1", Profile{})

	assert.Same(t, a, b)
	assert.Equal(t, "Asha", a.Shipping().FirstName)
	assert.NotSame(t, a, svc.ForSession("u2", Profile{}))
}
