package drill

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mergington/rollcall/pkg/logger"
)

// generateStudents creates synthetic students assigned round-robin across
// the given activity names. Emails are unique per run so repeated drills
// never collide with earlier signups left on the rosters.
func generateStudents(ctx context.Context, config *Config, activities []string, stats *Stats) ([]Student, error) {
	if len(activities) == 0 {
		return nil, fmt.Errorf("no activities to sign up for")
	}

	logger.Get().Info(ctx, "generating synthetic students",
		logger.Int("students", config.Students),
		logger.Int("activities", len(activities)))

	students := make([]Student, config.Students)
	for i := 0; i < config.Students; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during student generation: %w", ctx.Err())
		default:
		}

		students[i] = Student{
			Email:    "drill-" + uuid.New().String() + "@mergington.edu",
			Activity: activities[i%len(activities)],
		}
	}

	stats.StudentsGenerated = len(students)
	logger.Get().Info(ctx, "generated students successfully", logger.Int("count", len(students)))

	return students, nil
}
