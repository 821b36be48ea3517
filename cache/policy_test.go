package cache

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.TTL != 60*time.Minute {
		t.Errorf("TTL = %v, want 60m", p.TTL)
	}
	if p.MaxSize != 10000 {
		t.Errorf("MaxSize = %d, want 10000", p.MaxSize)
	}
	if p.StaleWindow() != p.TTL {
		t.Errorf("StaleWindow() = %v, want TTL %v", p.StaleWindow(), p.TTL)
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"default", DefaultPolicy(), false},
		{"zero ttl", Policy{MaxSize: 1}, true},
		{"zero size", Policy{TTL: time.Second}, true},
		{"negative stale", Policy{TTL: time.Second, MaxSize: 1, MaxStale: -time.Second}, true},
		{"explicit stale", Policy{TTL: time.Second, MaxSize: 1, MaxStale: time.Minute}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPolicy) {
				t.Errorf("Validate() error = %v, want ErrInvalidPolicy", err)
			}
		})
	}
}

func TestPolicy_Classify(t *testing.T) {
	p := Policy{TTL: time.Minute, MaxStale: 30 * time.Second, MaxSize: 1}
	written := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		after time.Duration
		want  age
	}{
		{"just written", 0, ageFresh},
		{"before ttl", 59 * time.Second, ageFresh},
		{"at ttl", time.Minute, ageStale},
		{"inside stale window", 80 * time.Second, ageStale},
		{"past stale window", 90 * time.Second, ageExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.classify(written, written.Add(tt.after)); got != tt.want {
				t.Errorf("classify(+%v) = %v, want %v", tt.after, got, tt.want)
			}
		})
	}
}

func TestPolicy_QueueSize(t *testing.T) {
	if got := (Policy{MaxSize: 10}).queueSize(); got != 16 {
		t.Errorf("queueSize() = %d, want 16", got)
	}
	if got := (Policy{MaxSize: 10_000_000}).queueSize(); got != 1024 {
		t.Errorf("queueSize() = %d, want 1024", got)
	}
	if got := (Policy{MaxSize: 10, RefreshQueue: 3}).queueSize(); got != 3 {
		t.Errorf("queueSize() = %d, want 3", got)
	}
}
