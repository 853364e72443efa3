package drill

import (
	"context"
	"fmt"
	"sort"

	"github.com/mergington/rollcall/pkg/logger"
)

// fetchCatalog retrieves the full activity registry from the service.
func fetchCatalog(ctx context.Context, config *Config, stats *Stats) (Registry, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/activities"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var registry Registry
	if err := unmarshalJSON(body, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.ActivitiesSeen = len(registry)
	logger.Get().Info(ctx, "fetched activity catalog", logger.Int("activities", len(registry)))

	return registry, nil
}

// activityNames returns the catalog's names sorted for deterministic
// round-robin assignment.
func activityNames(registry Registry) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rosterCounts maps every activity to its current roster size.
func rosterCounts(registry Registry) map[string]int {
	counts := make(map[string]int, len(registry))
	for name, activity := range registry {
		counts[name] = len(activity.Participants)
	}
	return counts
}
