package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/lead-tracker/internal/testhelpers"
)

func TestNewPublisher_NilClient(t *testing.T) {
	assert.Nil(t, NewPublisher(nil, testhelpers.NewTestLogger()))
}

func TestPublisher_NilReceiverIsNoOp(t *testing.T) {
	var p *Publisher

	err := p.Publish(context.Background(), RecordEvent{
		EventType:  RecordCreated,
		RecordKind: KindLead,
		RecordID:   "lead-1",
	})
	assert.NoError(t, err)

	// Must not panic.
	p.PublishAsync(RecordEvent{EventType: StatusChanged, RecordKind: KindJob, RecordID: "job-1"})
}
