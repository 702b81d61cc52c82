package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"bidmart/internal/services/penalty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockExpirer struct {
	mock.Mock
	calls atomic.Int32
}

func (m *mockExpirer) ExpireRecords(ctx context.Context) (*penalty.ExpiryResult, error) {
	m.calls.Add(1)
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*penalty.ExpiryResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(&mockExpirer{}, "every now and then", nil)
	assert.Error(t, err)
}

func TestNew_PanicsWithoutExpirer(t *testing.T) {
	assert.Panics(t, func() { _, _ = New(nil, "", nil) })
}

func TestRunExpiry_LogsResult(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	exp := &mockExpirer{}
	exp.On("ExpireRecords", mock.Anything).Return(&penalty.ExpiryResult{PenaltySellers: 2, CooldownSellers: 1}, nil)

	s, err := New(exp, "", zap.New(core))
	require.NoError(t, err)

	res, err := s.RunExpiry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.PenaltySellers)

	completed := logs.FilterMessage("job completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, ExpiryJobName, completed[0].ContextMap()["job"])
	exp.AssertExpectations(t)
}

func TestRunExpiry_PropagatesError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	exp := &mockExpirer{}
	exp.On("ExpireRecords", mock.Anything).Return(nil, errors.New("db down"))

	s, err := New(exp, "", zap.New(core))
	require.NoError(t, err)

	_, err = s.RunExpiry(context.Background())
	assert.EqualError(t, err, "db down")
	assert.Equal(t, 1, logs.FilterMessage("job failed").Len())
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	exp := &mockExpirer{}
	exp.On("ExpireRecords", mock.Anything).Return(&penalty.ExpiryResult{}, nil)

	s, err := New(exp, "* * * * * *", nil)
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return exp.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
