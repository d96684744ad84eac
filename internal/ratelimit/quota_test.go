package ratelimit

import (
	"context"
	"testing"
)

func TestQuotaTracker_NilRedis_FailOpen(t *testing.T) {
	q := NewQuotaTracker(nil)
	result, err := q.CheckDailyRequests(context.Background(), "user-1", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("expected allowed when Redis is nil")
	}
	if result.Limit != 500 {
		t.Errorf("expected limit=500, got %d", result.Limit)
	}
}

func TestQuotaTracker_NilRedis_RecordRequest(t *testing.T) {
	q := NewQuotaTracker(nil)
	// RecordRequest should be a no-op with nil Redis
	if err := q.RecordRequest(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
