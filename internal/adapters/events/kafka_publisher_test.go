package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishRatesRefreshed(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, "rates")
	now := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	err := p.PublishRatesRefreshed(context.Background(), domain.RefreshResult{
		BaseCurrencyCode: "USD",
		Success:          true,
		RatesStored:      160,
		Source:           domain.SourceExchangeRateAPIv6,
		DateEffective:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("USD"), w.msgs[0].Key)

	var event RatesRefreshedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &event))
	assert.Equal(t, "exchange_rates.refreshed", event.Type)
	assert.Equal(t, 160, event.RatesStored)
	assert.Equal(t, "2024-05-01", event.DateEffective)
	assert.Equal(t, now, event.Timestamp)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishRatesRefreshed_WriteError(t *testing.T) {
	brokerErr := errors.New("leader not available")
	p := newKafkaPublisher(&recordingWriter{err: brokerErr}, "rates")

	err := p.PublishRatesRefreshed(context.Background(), domain.RefreshResult{BaseCurrencyCode: "EUR"})
	assert.ErrorIs(t, err, brokerErr)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.PublishRatesRefreshed(context.Background(), domain.RefreshResult{}))
}
