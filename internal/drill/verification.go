package drill

import (
	"fmt"
	"log"
	"strings"
)

// drillEmailPrefix marks emails minted by generateStudents.
const drillEmailPrefix = "drill-"

// verifySignups checks that every accepted signup landed on its target
// roster exactly once.
func verifySignups(registry Registry, students []Student) error {
	log.Printf("🔍 Verifying %d signups against the rosters...", len(students))

	missing := 0
	duplicated := 0
	for _, student := range students {
		activity, ok := registry[student.Activity]
		if !ok {
			log.Printf("⚠️  Activity %q missing from the catalog", student.Activity)
			missing++
			continue
		}

		count := 0
		for _, participant := range activity.Participants {
			if participant == student.Email {
				count++
			}
		}
		switch {
		case count == 0:
			log.Printf("⚠️  %s not found on the %q roster", student.Email, student.Activity)
			missing++
		case count > 1:
			log.Printf("⚠️  %s appears %d times on the %q roster", student.Email, count, student.Activity)
			duplicated++
		}
	}

	if missing > 0 || duplicated > 0 {
		return fmt.Errorf("roster verification failed: %d missing, %d duplicated", missing, duplicated)
	}

	log.Printf("✅ All %d signups present exactly once", len(students))
	return nil
}

// verifyRestoration checks that no synthetic students remain on any roster
// and that every roster is back to its baseline size.
func verifyRestoration(baseline, after Registry) error {
	log.Println("🔍 Verifying roster restoration...")

	leftover := 0
	for name, activity := range after {
		for _, participant := range activity.Participants {
			if strings.HasPrefix(participant, drillEmailPrefix) {
				log.Printf("⚠️  Synthetic student %s still on the %q roster", participant, name)
				leftover++
			}
		}
	}

	mismatched := 0
	for name, want := range rosterCounts(baseline) {
		if got := len(after[name].Participants); got != want {
			log.Printf("⚠️  Roster %q has %d participants, expected %d", name, got, want)
			mismatched++
		}
	}

	if leftover > 0 || mismatched > 0 {
		return fmt.Errorf("restoration verification failed: %d synthetic students left, %d rosters differ from baseline", leftover, mismatched)
	}

	log.Println("✅ Rosters restored to baseline")
	return nil
}
