package disclosure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/cache"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/notification"
	"github.com/pyjuan91/Limira/internal/patentai"
	"github.com/pyjuan91/Limira/internal/store"
)

const (
	draftingLockTTL = 10 * time.Minute
	// maxDraftPasses bounds redrafting when the content keeps changing
	// while the model is working.
	maxDraftPasses = 3
)

// Generator produces draft sections from disclosure content.
type Generator interface {
	GenerateDraft(ctx context.Context, content models.Content) (*patentai.DraftResult, error)
}

// Drafter runs the drafting job for one disclosure: AI_PROCESSING, then
// READY_FOR_REVIEW with fresh sections, or back to DRAFT with the failure
// recorded on the draft.
type Drafter struct {
	store  store.Store
	ai     Generator
	locks  *cache.Cache
	notify *notification.Service
}

// NewDrafter builds a Drafter. locks may be nil, in which case overlapping
// runs for one disclosure are not serialized.
func NewDrafter(st store.Store, ai Generator, locks *cache.Cache, notify *notification.Service) *Drafter {
	return &Drafter{store: st, ai: ai, locks: locks, notify: notify}
}

// Run drafts the disclosure. AI failures are recorded and swallowed; an error
// is returned only when the job should be retried: the drafting lock is held
// elsewhere or the store is unreachable.
func (d *Drafter) Run(ctx context.Context, disclosureID uuid.UUID) error {
	log := slog.With("disclosure_id", disclosureID)

	if d.locks != nil {
		lock, err := d.locks.Acquire(ctx, "drafting:"+disclosureID.String(), draftingLockTTL)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("release drafting lock", "error", err)
			}
		}()
	}

	disc, err := d.store.GetDisclosure(ctx, disclosureID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("drafting skipped, disclosure gone")
			return nil
		}
		return fmt.Errorf("load disclosure: %w", err)
	}

	if _, err := d.store.BeginDrafting(ctx, disclosureID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("begin drafting: %w", err)
	}

	start := time.Now()
	var res *patentai.DraftResult
	for pass := 1; ; pass++ {
		res, err = d.ai.GenerateDraft(ctx, disc.Content)
		if err != nil {
			log.Error("drafting failed", "error", err)
			// The job context may already be cancelled; the failure must still land.
			if ferr := d.store.FailDrafting(context.WithoutCancel(ctx), disclosureID, err.Error()); ferr != nil {
				return fmt.Errorf("record drafting failure: %w", ferr)
			}
			return nil
		}

		// An edit made during generation is drafted here: its own job may
		// have given up on the lock this run holds.
		latest, err := d.store.GetDisclosure(ctx, disclosureID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return d.fail(ctx, disclosureID, fmt.Errorf("reload disclosure: %w", err))
		}
		changed := !latest.Content.Equal(disc.Content)
		disc = latest
		if !changed || pass >= maxDraftPasses {
			break
		}
		log.Info("content changed during drafting, redrafting", "pass", pass)
	}

	if err := d.store.CompleteDrafting(ctx, disclosureID, res.Sections, res.Model); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return d.fail(ctx, disclosureID, fmt.Errorf("complete drafting: %w", err))
	}
	log.Info("draft generated", "model", res.Model, "sections", res.Sections.Len(), "duration_ms", time.Since(start).Milliseconds())

	notice := notification.Notice{
		Type:         models.NotifyDraftReady,
		Title:        "Patent draft ready",
		Message:      fmt.Sprintf("The AI draft for %q is ready for review.", disc.Title),
		DisclosureID: &disc.ID,
	}
	d.notify.Send(ctx, disc.InventorID, notice)
	if disc.AssignedLawyerID != nil {
		d.notify.Send(ctx, *disc.AssignedLawyerID, notice)
	}
	return nil
}

// fail records err on the draft so the disclosure leaves AI_PROCESSING even
// when no retry succeeds, and returns err for the retry.
func (d *Drafter) fail(ctx context.Context, disclosureID uuid.UUID, err error) error {
	if ferr := d.store.FailDrafting(context.WithoutCancel(ctx), disclosureID, err.Error()); ferr != nil {
		slog.Error("record drafting failure", "disclosure_id", disclosureID, "error", ferr)
	}
	return err
}
