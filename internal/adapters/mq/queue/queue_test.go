package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chemarena/arena/internal/domain/model"
	"github.com/chemarena/arena/internal/domain/types"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	job1 := model.VoteJob{BattleID: "battle-1", Outcome: types.OutcomeModelA, ReceivedAt: time.Now()}
	if !q.Enqueue(ctx, job1) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	jobChan := q.Dequeue(ctx)
	job := <-jobChan
	if job.BattleID != "battle-1" {
		t.Errorf("expected battle-1, got %v", job.BattleID)
	}
	if job.Outcome != types.OutcomeModelA {
		t.Errorf("expected outcome %s, got %s", types.OutcomeModelA, job.Outcome)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Fill the queue
	job1 := model.VoteJob{BattleID: "battle-1", Outcome: types.OutcomeModelA}
	job2 := model.VoteJob{BattleID: "battle-2", Outcome: types.OutcomeModelB}
	job3 := model.VoteJob{BattleID: "battle-3", Outcome: types.OutcomeTie}

	if !q.Enqueue(ctx, job1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, job2) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, job3) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numJobs := 100

	// Start producer goroutines
	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numJobs; j++ {
				job := model.VoteJob{
					BattleID:   fmt.Sprintf("battle%d_%d", id, j),
					Outcome:    types.OutcomeTie,
					ReceivedAt: time.Now(),
				}
				for !q.Enqueue(ctx, job) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	// Start consumer goroutines
	consumed := make(chan string, numGoroutines*numJobs)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			jobChan := q.Dequeue(ctx)
			for job := range jobChan {
				consumed <- job.BattleID
			}
		}()
	}

	// Wait for producers to finish
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Wait a bit for consumers to process
	time.Sleep(100 * time.Millisecond)

	// Check final queue length
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	// Enqueue some jobs
	job1 := model.VoteJob{BattleID: "battle-1", Outcome: types.OutcomeModelA}
	job2 := model.VoteJob{BattleID: "battle-2", Outcome: types.OutcomeModelB}

	if !q.Enqueue(ctx, job1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, job2) {
		t.Error("expected enqueue to succeed")
	}

	// Check initial state
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	// Close the queue
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	// Check closed state
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, job1) {
		t.Error("expected enqueue to fail after closing")
	}

	// Closing twice is safe
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}

	// Dequeue drains the remaining jobs, then the channel closes
	jobChan := q.Dequeue(ctx)

	var drained []string
	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case job, ok := <-jobChan:
			if !ok {
				if len(drained) != 2 {
					t.Errorf("expected 2 drained jobs, got %d", len(drained))
				}
				return
			}
			drained = append(drained, job.BattleID)
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
}
