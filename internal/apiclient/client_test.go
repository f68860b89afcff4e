package apiclient

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	svc := server.New(server.Config{
		SessionTTL: time.Hour,
		Now:        func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) },
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestNewNormalizesAddress(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8787", New("127.0.0.1:8787").baseURL)
	assert.Equal(t, "https://example.test", New(" https://example.test/ ").baseURL)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.Health(ctx))

	sess, err := c.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "2026-41", sess.CurrentWeek)

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Sessions)

	require.NoError(t, c.SetWeeklyTarget(ctx, sess.ID, sess.CurrentWeek, 80000))
	require.NoError(t, c.SetActual(ctx, sess.ID, sess.CurrentWeek, model.MetaAds, model.FieldAmountSpent, 2000))
	require.NoError(t, c.SetActual(ctx, sess.ID, sess.CurrentWeek, model.MetaAds, model.FieldActualSales, 5000))

	m, err := c.Metrics(ctx, sess.ID, sess.CurrentWeek)
	require.NoError(t, err)
	meta := m.Channels[model.MetaAds]
	assert.InDelta(t, 10000, meta.WeeklyTarget, 1e-9)
	assert.True(t, meta.ROIDefined)
	assert.InDelta(t, 1.5, meta.ROI, 1e-9)
	assert.InDelta(t, 5000, m.TotalActualSales, 1e-9)
	assert.Empty(t, m.Warning)

	history, err := c.History(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.InDelta(t, 80000, history[0].Target, 1e-9)

	require.NoError(t, c.CloseSession(ctx, sess.ID))
	_, err = c.Metrics(ctx, sess.ID, sess.CurrentWeek)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownWeekIsNotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	sess, err := c.CreateSession(ctx)
	require.NoError(t, err)

	_, err = c.Metrics(ctx, sess.ID, "1999-01")
	require.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Contains(t, apiErr.Message, "unknown week")
}

func TestUnreachableServer(t *testing.T) {
	c := New("127.0.0.1:1")
	err := c.Health(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
