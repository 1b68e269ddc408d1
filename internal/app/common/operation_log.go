package common

import (
	"context"
	"time"

	"renamer/internal/domain/model"
	"renamer/internal/infra/logging"
)

// LogSkip records an entry that took no part in a transaction.
func LogSkip(ctx context.Context, logger logging.Logger, planID, command, result string, entry *model.FileRenameEntry) error {
	if result == "" {
		result = "skipped"
	}
	return logger.Log(ctx, model.OperationLogEntry{
		Timestamp: time.Now().UTC(),
		PlanID:    planID,
		Command:   command,
		Action:    "skip",
		Path:      entry.OriginalPath,
		Target:    entry.CandidateName,
		Result:    result,
		Error:     entry.Error,
	})
}
