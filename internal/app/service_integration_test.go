package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	repository "github.com/mergington/rollcall/internal/adapters/repository"
	service "github.com/mergington/rollcall/internal/app"
	roster "github.com/mergington/rollcall/internal/domain/roster"
	"github.com/mergington/rollcall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := service.New()
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the service should be running", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When running a signup flow end-to-end", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("And a student signs up, is listed, and unregisters", func() {
				email := "flow@mergington.edu"

				before := svc.Activities(ctx)["Programming Class"].Participants
				So(svc.SignUp(ctx, "Programming Class", email), ShouldBeNil)

				listed := svc.Activities(ctx)["Programming Class"].Participants
				So(listed, ShouldContain, email)
				So(len(listed), ShouldEqual, len(before)+1)

				So(svc.Unregister(ctx, "Programming Class", email), ShouldBeNil)

				Convey("Then the roster is exactly what it was before", func() {
					after := svc.Activities(ctx)["Programming Class"].Participants
					So(after, ShouldResemble, before)
				})
			})

			Convey("And several students churn through one activity", func() {
				emails := []string{
					"student1@mergington.edu",
					"student2@mergington.edu",
					"student3@mergington.edu",
				}
				for _, email := range emails {
					So(svc.SignUp(ctx, "Soccer Team", email), ShouldBeNil)
				}

				participants := svc.Activities(ctx)["Soccer Team"].Participants
				for _, email := range emails {
					So(participants, ShouldContain, email)
				}

				// Remove two of the three again
				So(svc.Unregister(ctx, "Soccer Team", emails[0]), ShouldBeNil)
				So(svc.Unregister(ctx, "Soccer Team", emails[1]), ShouldBeNil)

				Convey("Then only the remaining student is still listed", func() {
					participants := svc.Activities(ctx)["Soccer Team"].Participants
					So(participants, ShouldNotContain, emails[0])
					So(participants, ShouldNotContain, emails[1])
					So(participants, ShouldContain, emails[2])
				})
			})
		})

		Convey("When handling service lifecycle", func() {
			Convey("And starting and stopping multiple times", func() {
				err := svc.Start(ctx)
				So(err, ShouldBeNil)

				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)

				err = svc.Start(ctx)
				So(err, ShouldBeNil)
				stats = svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And a restart discards all signups", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.SignUp(ctx, "Drama Club", "volatile@mergington.edu"), ShouldBeNil)
				So(svc.Activities(ctx)["Drama Club"].Participants, ShouldContain, "volatile@mergington.edu")

				svc.Stop()
				So(svc.Start(ctx), ShouldBeNil)

				Convey("Then the registry is back to the seed catalog", func() {
					participants := svc.Activities(ctx)["Drama Club"].Participants
					So(participants, ShouldNotContain, "volatile@mergington.edu")
					So(len(participants), ShouldEqual, 2)
				})
			})
		})

		Convey("When handling edge cases", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("And signing up with an unusually long email", func() {
				longEmail := fmt.Sprintf("%0200d@mergington.edu", 7)

				So(svc.SignUp(ctx, "Gym Class", longEmail), ShouldBeNil)

				Convey("Then it is stored and removable like any other", func() {
					So(svc.Activities(ctx)["Gym Class"].Participants, ShouldContain, longEmail)
					So(svc.Unregister(ctx, "Gym Class", longEmail), ShouldBeNil)
				})
			})

			Convey("And filling an activity far past its capacity", func() {
				// max_participants is informational only; nothing caps the roster
				for i := 0; i < 30; i++ {
					email := fmt.Sprintf("overflow%d@mergington.edu", i)
					So(svc.SignUp(ctx, "Math Club", email), ShouldBeNil)
				}

				Convey("Then all signups are on the roster", func() {
					activity := svc.Activities(ctx)["Math Club"]
					So(len(activity.Participants), ShouldEqual, 32)
					So(activity.MaxParticipants, ShouldEqual, 10)
				})
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service with concurrent operations", t, func() {
		svc := service.New()
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When multiple goroutines sign up distinct students concurrently", func() {
			numGoroutines := 10
			signupsPerGoroutine := 20
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for j := 0; j < signupsPerGoroutine; j++ {
						email := fmt.Sprintf("concurrent%d_%d@mergington.edu", id, j)
						_ = svc.SignUp(ctx, "Basketball Team", email)
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every signup landed exactly once", func() {
				participants := svc.Activities(ctx)["Basketball Team"].Participants
				So(len(participants), ShouldEqual, 2+numGoroutines*signupsPerGoroutine)

				seen := make(map[string]int)
				for _, p := range participants {
					seen[p]++
				}
				for _, count := range seen {
					So(count, ShouldEqual, 1)
				}
			})
		})

		Convey("When goroutines race signup and unregister on the same email", func() {
			email := "contested@mergington.edu"
			numGoroutines := 20
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					if id%2 == 0 {
						_ = svc.SignUp(ctx, "Debate Team", email)
					} else {
						_ = svc.Unregister(ctx, "Debate Team", email)
					}
				}(i)
			}
			wg.Wait()

			Convey("Then membership is last-write-wins, never duplicated", func() {
				count := 0
				for _, p := range svc.Activities(ctx)["Debate Team"].Participants {
					if p == email {
						count++
					}
				}
				So(count, ShouldBeIn, []int{0, 1})
			})
		})

		Convey("When multiple goroutines list activities concurrently", func() {
			numGoroutines := 20
			errs := make(chan error, numGoroutines*10)
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 10; j++ {
						reg := svc.Activities(ctx)
						if len(reg) != 9 {
							errs <- fmt.Errorf("expected 9 activities, got %d", len(reg))
							continue
						}
						if _, ok := reg["Chess Club"]; !ok {
							errs <- errors.New("Chess Club missing from listing")
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then all listings should be complete", func() {
				select {
				case err := <-errs:
					So(err, ShouldBeNil)
				default:
					So(true, ShouldBeTrue)
				}
			})
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a service with error conditions", t, func() {
		svc := service.New()
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When operating on activities that do not exist", func() {
			Convey("Then signups are rejected with not found", func() {
				err := svc.SignUp(ctx, "Nonexistent Activity", "test@mergington.edu")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And unregisters are rejected with not found", func() {
				err := svc.Unregister(ctx, "Nonexistent Activity", "test@mergington.edu")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When violating membership state", func() {
			Convey("Then a duplicate signup is rejected and state kept", func() {
				So(svc.SignUp(ctx, "Art Club", "dup@mergington.edu"), ShouldBeNil)
				err := svc.SignUp(ctx, "Art Club", "dup@mergington.edu")
				So(errors.Is(err, roster.ErrDuplicateMember), ShouldBeTrue)
				So(len(svc.Activities(ctx)["Art Club"].Participants), ShouldEqual, 3)
			})

			Convey("And unregistering a stranger is rejected and state kept", func() {
				err := svc.Unregister(ctx, "Art Club", "stranger@mergington.edu")
				So(errors.Is(err, roster.ErrNotMember), ShouldBeTrue)
				So(len(svc.Activities(ctx)["Art Club"].Participants), ShouldEqual, 2)
			})
		})
	})
}
