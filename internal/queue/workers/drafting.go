package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/pyjuan91/Limira/internal/cache"
	"github.com/pyjuan91/Limira/internal/queue"
)

// Runner executes the drafting job for one disclosure.
type Runner interface {
	Run(ctx context.Context, disclosureID uuid.UUID) error
}

type DraftingWorker struct {
	runner Runner
}

func NewDraftingWorker(r Runner) *DraftingWorker {
	return &DraftingWorker{runner: r}
}

func (w *DraftingWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DraftGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(payload.DisclosureID)
	if err != nil {
		return fmt.Errorf("parse disclosure ID: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.runner.Run(ctx, id); err != nil {
		if errors.Is(err, cache.ErrLocked) {
			slog.Info("drafting already running, retrying later", "disclosure_id", id)
		}
		return err
	}
	return nil
}
