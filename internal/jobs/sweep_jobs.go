package jobs

import (
	"context"
	"errors"
	"time"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/logger"
)

// SweepOrphanedIdentities reconciles the identity provider against the users
// table. An identity with no matching user record is an orphan: a compensating
// deletion that failed mid-approval. Identities younger than the grace period
// are skipped so an approval still in flight is not swept out from under its
// provisioner.
func (jr *JobRunner) SweepOrphanedIdentities() {
	jr.runWithRecovery("SweepOrphanedIdentities", func() {
		ctx := context.Background()

		records, err := jr.provider.ListIdentities(ctx)
		if err != nil {
			logger.Error("Failed to list identities", "error", err)
			return
		}

		grace := time.Duration(jr.config.Sweep.GraceMinutes) * time.Minute
		cutoff := time.Now().Add(-grace)

		orphans := 0
		deleted := 0
		for _, rec := range records {
			if rec.CreatedAt.After(cutoff) {
				continue
			}

			_, err := jr.store.UserRepository.GetByID(ctx, rec.UID)
			if err == nil {
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Error("Failed to look up user for identity",
					"uid", rec.UID, "error", err)
				continue
			}

			orphans++
			logger.Warn("Orphaned identity detected",
				"uid", rec.UID, "email", rec.Email, "created_at", rec.CreatedAt)

			if !jr.config.Sweep.DeleteOrphans {
				continue
			}
			if err := jr.provider.DeleteIdentity(ctx, rec.UID); err != nil {
				logger.Error("Failed to delete orphaned identity",
					"uid", rec.UID, "error", err)
				continue
			}
			deleted++
		}

		jr.metrics.SetOrphanedIdentities(orphans - deleted)
		logger.Info("Orphan sweep completed",
			"identities_checked", len(records),
			"orphans_found", orphans,
			"orphans_deleted", deleted)
	})
}
