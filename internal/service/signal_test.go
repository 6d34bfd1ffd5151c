package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/totegamma/rdmc-registry/internal/domain"
)

func TestSignalServiceDisabled(t *testing.T) {
	s := NewSignalService(nil, nil)
	assert.False(t, s.Enabled())

	event := domain.NewIngestEvent(domain.Rdmc{ExternalID: "X-1", UpdatedAt: time.Now()}, true)
	assert.NoError(t, s.PublishIngest(context.Background(), event))

	err := s.Subscribe(context.Background(), func([]byte) error { return nil })
	assert.ErrorIs(t, err, ErrSignalDisabled)
}
