package drill

import (
	"context"
	"fmt"
	"time"

	"github.com/mergington/rollcall/pkg/logger"
)

// Run executes the complete signup drill workflow.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting signup drill",
		logger.String("baseURL", config.BaseURL),
		logger.Int("students", config.Students),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Any("unregister", config.Unregister),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the catalog and remember the baseline rosters
	baseline, err := fetchCatalog(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}

	// Step 3: Generate synthetic students
	students, err := generateStudents(ctx, config, activityNames(baseline), stats)
	if err != nil {
		return fmt.Errorf("student generation failed: %w", err)
	}

	// Step 4: Submit signups concurrently
	accepted, err := submitSignups(ctx, config, students, stats)
	if err != nil {
		return fmt.Errorf("signup submission failed: %w", err)
	}

	// Step 5: Let in-flight responses settle before reading rosters back
	logger.Get().Info(ctx, "waiting before verification", logger.Duration("delay", SettleDelay))
	time.Sleep(SettleDelay)

	// Step 6: Verify every accepted signup is on its roster exactly once
	after, err := fetchCatalog(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}
	if err := verifySignups(after, accepted); err != nil {
		return err
	}

	// Step 7: Optionally remove the synthetic students and verify the
	// rosters match the baseline again
	if config.Unregister {
		if err := removeStudents(ctx, config, accepted, stats); err != nil {
			return fmt.Errorf("student removal failed: %w", err)
		}

		restored, err := fetchCatalog(ctx, config, stats)
		if err != nil {
			return fmt.Errorf("catalog fetch failed: %w", err)
		}
		if err := verifyRestoration(baseline, restored); err != nil {
			return err
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "drill completed successfully")
	return nil
}

// checkServiceHealth verifies the service is up before generating load.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health", logger.String("baseURL", config.BaseURL))

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final drill statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, signupsPerSecond float64

	if stats.SignupsSubmitted > 0 {
		successRate = float64(stats.SignupsSuccessful) / float64(stats.SignupsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		signupsPerSecond = float64(stats.SignupsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("studentsGenerated", stats.StudentsGenerated),
		logger.Int("signupsSubmitted", stats.SignupsSubmitted),
		logger.Int("signupsSuccessful", stats.SignupsSuccessful),
		logger.Int("signupsConflicted", stats.SignupsConflicted),
		logger.Int("signupsFailed", stats.SignupsFailed),
		logger.Int("removalsSubmitted", stats.RemovalsSubmitted),
		logger.Int("removalsSuccessful", stats.RemovalsSuccessful),
		logger.Int("removalsFailed", stats.RemovalsFailed),
		logger.Int("activitiesSeen", stats.ActivitiesSeen),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("signupsPerSecond", signupsPerSecond))
}
