package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zaikahq/zaika/pkg/queue"
)

var processed atomic.Int32

type echoJob struct {
	Val string `json:"val"`
}

func (j *echoJob) Handle() error {
	processed.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	return errors.New("always fails")
}

func init() {
	queue.StartWorkers(context.Background(), 2)
	queue.Register("*queue_test.echoJob", func() queue.Job { return &echoJob{} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{} })
}

func TestDispatchAndProcess(t *testing.T) {
	before := processed.Load()

	if err := queue.Dispatch(&echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for processed.Load() == before {
		if time.Now().After(deadline) {
			t.Fatal("job was never processed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFailedJobRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for len(queue.FailedJobs()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected at least one failed job")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
