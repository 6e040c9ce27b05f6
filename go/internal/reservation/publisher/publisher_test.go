package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mcdev12/matchday/go/internal/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJetStream struct {
	msgs []*nats.Msg
	opts int
	err  error
}

func (f *fakeJetStream) PublishMsg(_ context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.msgs = append(f.msgs, msg)
	f.opts = len(opts)
	return &jetstream.PubAck{Stream: "RESERVATION_EVENTS", Sequence: uint64(len(f.msgs))}, nil
}

func TestObservePublishesEnvelope(t *testing.T) {
	js := &fakeJetStream{}
	p := &JetStreamPublisher{js: js, config: DefaultJetStreamConfig()}

	env, err := events.NewEnvelope(events.EventTypeSlotReserved, "m1", "me", events.SlotReservedPayload{SlotID: "s1", Cost: 8}, time.Now())
	require.NoError(t, err)

	require.NoError(t, p.Observe(context.Background(), env))
	require.Len(t, js.msgs, 1)
	assert.Equal(t, 2, js.opts)

	msg := js.msgs[0]
	assert.Equal(t, "matchday.reservations.SlotReserved", msg.Subject)
	assert.Equal(t, "m1", msg.Header.Get("Match-ID"))
	assert.Equal(t, env.ID.String(), msg.Header.Get("Event-ID"))

	var got events.Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, env.ID, got.ID)
	payload, err := events.ParsePayload(got)
	require.NoError(t, err)
	assert.Equal(t, 8, payload.(events.SlotReservedPayload).Cost)
}

func TestObservePublishFailure(t *testing.T) {
	p := &JetStreamPublisher{js: &fakeJetStream{err: errors.New("no responders")}, config: DefaultJetStreamConfig()}
	env, err := events.NewEnvelope(events.EventTypeSlotReleased, "m1", "me", events.SlotReleasedPayload{}, time.Now())
	require.NoError(t, err)

	assert.ErrorContains(t, p.Observe(context.Background(), env), "publish to JetStream")
}

func TestSubject(t *testing.T) {
	cfg := DefaultJetStreamConfig()
	cfg.SubjectPrefix = "club.bookings"
	p := &JetStreamPublisher{config: cfg}
	assert.Equal(t, "club.bookings.SlotReleased", p.Subject(events.EventTypeSlotReleased))
	assert.NoError(t, p.Close())
}
