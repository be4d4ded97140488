package hypnosis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrewowest/Hypnosis/internal/model"
)

// resolvePriority maps a priority input to a normalized score. The input is
// either a symbolic level name ("critical", "high", "medium", "low") or a
// decimal score in [0, 1]. Empty input yields the configured default.
// Out-of-range scores are rejected, never clamped.
func resolvePriority(input string, def float64) (float64, error) {
	if input == "" {
		return def, nil
	}
	if v, ok := model.PriorityLevels[strings.ToLower(input)]; ok {
		return v, nil
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown level %q", ErrInvalidPriority, input)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("%w: %v outside [0, 1]", ErrInvalidPriority, v)
	}
	return v, nil
}
