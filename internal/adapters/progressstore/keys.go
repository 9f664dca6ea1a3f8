package progressstore

import (
	"fmt"

	"github.com/fairwaylabs/teeline/internal/domain"
)

const keyPrefix = "teeline"

func snapshotKey(userID string) string {
	return fmt.Sprintf("%s:ledger:%s:snapshot", keyPrefix, userID)
}

func historyKey(userID string) string {
	return fmt.Sprintf("%s:ledger:%s:history", keyPrefix, userID)
}

func ranksKey(metric domain.Metric, window domain.TimeWindow) string {
	return fmt.Sprintf("%s:ranks:%s:%s", keyPrefix, metric, window)
}
