package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout_Default(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{})
	if timeout.Config().Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", timeout.Config().Timeout, DefaultTimeout)
	}
}

func TestTimeout_Execute(t *testing.T) {
	testErr := errors.New("vendor rejected")

	tests := []struct {
		name    string
		timeout time.Duration
		op      func(ctx context.Context) error
		wantErr error
	}{
		{"success", time.Second, func(ctx context.Context) error { return nil }, nil},
		{"error passes through", time.Second, func(ctx context.Context) error { return testErr }, testErr},
		{"deadline", 10 * time.Millisecond, func(ctx context.Context) error {
			time.Sleep(100 * time.Millisecond)
			return nil
		}, ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTimeout(TimeoutConfig{Timeout: tt.timeout}).Execute(context.Background(), tt.op)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeout_ExecuteContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := NewTimeout(TimeoutConfig{Timeout: time.Second}).Execute(ctx, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestTimeout_OperationSeesDeadline(t *testing.T) {
	seen := make(chan bool, 1)
	err := NewTimeout(TimeoutConfig{Timeout: 20 * time.Millisecond}).Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			seen <- true
			return ctx.Err()
		case <-time.After(time.Second):
			seen <- false
			return nil
		}
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
	select {
	case ok := <-seen:
		if !ok {
			t.Error("operation context was not cancelled")
		}
	case <-time.After(200 * time.Millisecond):
		t.Error("operation goroutine did not complete")
	}
}

func TestTimeout_Await(t *testing.T) {
	t.Run("already done", func(t *testing.T) {
		done := make(chan struct{})
		close(done)
		if err := AwaitWithTimeout(context.Background(), time.Nanosecond, done); err != nil {
			t.Errorf("Await() error = %v, want nil", err)
		}
	})

	t.Run("completes in time", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			time.Sleep(5 * time.Millisecond)
			close(done)
		}()
		if err := AwaitWithTimeout(context.Background(), time.Second, done); err != nil {
			t.Errorf("Await() error = %v, want nil", err)
		}
	})

	t.Run("times out", func(t *testing.T) {
		start := time.Now()
		err := AwaitWithTimeout(context.Background(), 20*time.Millisecond, make(chan struct{}))
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("Await() error = %v, want ErrTimeout", err)
		}
		if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
			t.Errorf("Await() took %v", elapsed)
		}
	})

	t.Run("caller cancels", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := AwaitWithTimeout(ctx, time.Second, make(chan struct{}))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Await() error = %v, want context.Canceled", err)
		}
	})
}
