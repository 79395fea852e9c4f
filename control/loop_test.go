package control

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/igknighters/stemsolver/logging"
)

type countingTicker struct {
	mu    sync.Mutex
	count int
	err   error
}

func (ct *countingTicker) Tick(ctx context.Context) error {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.count++
	return ct.err
}

func (ct *countingTicker) Count() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.count
}

func TestLoopConfig(t *testing.T) {
	for _, freq := range []float64{0, -5, 200.5, 1e6} {
		test.That(t, LoopConfig{Frequency: freq}.Validate(), test.ShouldNotBeNil)
	}
	test.That(t, LoopConfig{Frequency: 200}.Validate(), test.ShouldBeNil)
	test.That(t, LoopConfig{Frequency: 50}.Period(), test.ShouldEqual, 20*time.Millisecond)

	_, err := NewLoop(logging.NewTestLogger(t), LoopConfig{Frequency: 0}, &countingTicker{}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewLoop(logging.NewTestLogger(t), LoopConfig{Frequency: 10}, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoopTicks(t *testing.T) {
	mock := clock.NewMock()
	ticker := &countingTicker{}
	loop, err := NewLoop(logging.NewTestLogger(t), LoopConfig{Frequency: 50}, ticker, mock)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, loop.Start(), test.ShouldBeNil)
	test.That(t, loop.Running(), test.ShouldBeTrue)
	test.That(t, loop.Start(), test.ShouldNotBeNil)

	for i := 1; i <= 3; i++ {
		mock.Add(loop.Config().Period())
		expected := i
		testutils.WaitForAssertion(t, func(tb testing.TB) {
			tb.Helper()
			test.That(tb, ticker.Count(), test.ShouldEqual, expected)
		})
	}

	loop.Stop()
	test.That(t, loop.Running(), test.ShouldBeFalse)
	mock.Add(time.Second)
	test.That(t, ticker.Count(), test.ShouldEqual, 3)
	loop.Stop()
}

func TestLoopLogsTickErrors(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	mock := clock.NewMock()
	ticker := &countingTicker{err: errors.New("stem unplugged")}
	loop, err := NewLoop(logger, LoopConfig{Frequency: 10}, ticker, mock)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loop.Start(), test.ShouldBeNil)
	defer loop.Stop()

	mock.Add(loop.Config().Period())
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, logs.FilterMessage("tick failed").Len(), test.ShouldEqual, 1)
	})

	mock.Add(loop.Config().Period())
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, ticker.Count(), test.ShouldEqual, 2)
	})
}
