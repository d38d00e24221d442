package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type schedulerConfig struct {
	redisURL    string
	queue       string
	concurrency int
	interval    time.Duration
}

func (c schedulerConfig) GetRedisURL() string                      { return c.redisURL }
func (c schedulerConfig) GetRedisTLSInsecure() bool                { return false }
func (c schedulerConfig) GetAsynqQueueName() string                { return c.queue }
func (c schedulerConfig) GetAsynqConcurrency() int                 { return c.concurrency }
func (c schedulerConfig) GetChecklistRepairInterval() time.Duration { return c.interval }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(schedulerConfig{}); err == nil {
		t.Fatal("NewClient with empty redis url did not fail")
	}
}

func TestNewClientRejectsBadRedisURL(t *testing.T) {
	if _, err := NewClient(schedulerConfig{redisURL: "not-a-url"}); err == nil {
		t.Fatal("NewClient with malformed redis url did not fail")
	}
}

func TestEnqueueChecklistReconcile(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewClient(schedulerConfig{redisURL: "redis://" + server.Addr(), queue: "montagehub"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueChecklistReconcile(context.Background()); err != nil {
		t.Fatalf("EnqueueChecklistReconcile: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: server.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("montagehub")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Type != TaskReconcileChecklists {
		t.Errorf("task type = %q, want %q", tasks[0].Type, TaskReconcileChecklists)
	}

	payload, err := ParseReconcileChecklistsPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("ParseReconcileChecklistsPayload: %v", err)
	}
	if payload.RequestedAt.IsZero() {
		t.Error("payload requestedAt is zero")
	}
}

func TestRedisClientOpt(t *testing.T) {
	t.Run("plain url", func(t *testing.T) {
		opt, err := redisClientOpt("redis://:secret@localhost:6380/2", false)
		if err != nil {
			t.Fatalf("redisClientOpt: %v", err)
		}
		if opt.Addr != "localhost:6380" || opt.Password != "secret" || opt.DB != 2 {
			t.Errorf("opt = %+v", opt)
		}
		if opt.TLSConfig != nil {
			t.Error("plain url produced a TLS config")
		}
	})

	t.Run("tls url with insecure override", func(t *testing.T) {
		opt, err := redisClientOpt("rediss://localhost:6379", true)
		if err != nil {
			t.Fatalf("redisClientOpt: %v", err)
		}
		if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
			t.Errorf("TLS config = %+v, want insecure skip verify", opt.TLSConfig)
		}
	})
}
