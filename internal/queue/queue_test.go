package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/pyjuan91/Limira/internal/config"
)

func TestScheduleDraftingEnqueues(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewClient(config.RedisConfig{Addr: mr.Addr()})
	defer c.Close()

	id := uuid.New()
	if err := c.ScheduleDrafting(context.Background(), id); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	insp := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer insp.Close()
	tasks, err := insp.ListPendingTasks("default")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Type != TypeDraftGenerate || tasks[0].MaxRetry != 5 {
		t.Fatalf("tasks = %+v", tasks)
	}
	var p DraftGeneratePayload
	if err := json.Unmarshal(tasks[0].Payload, &p); err != nil || p.DisclosureID != id.String() {
		t.Fatalf("payload = %s, err = %v", tasks[0].Payload, err)
	}
}

func TestRegistryDispatches(t *testing.T) {
	r := NewHandlersRegistry()
	var got string
	r.Register(TypeDraftGenerate, asynq.HandlerFunc(func(_ context.Context, t *asynq.Task) error {
		got = string(t.Payload())
		return nil
	}))

	if err := r.Mux().ProcessTask(context.Background(), asynq.NewTask(TypeDraftGenerate, []byte("x"))); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got != "x" {
		t.Fatalf("payload = %q", got)
	}

	boom := errors.New("boom")
	r.Register("other", asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return boom }))
	if err := r.Mux().ProcessTask(context.Background(), asynq.NewTask("other", nil)); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if err := r.Mux().ProcessTask(context.Background(), asynq.NewTask("unknown", nil)); err == nil {
		t.Fatalf("unknown task type should fail")
	}
}
