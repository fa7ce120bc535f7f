package export

import (
	"encoding/json"
	"fmt"

	"insightly/internal/core"
)

// ToJSON returns an indented dump of the whole batch.
func ToJSON(batch core.InsightBatch) ([]byte, error) {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch %s: %w", batch.ID, err)
	}
	return data, nil
}
