package roster_test

import (
	"testing"

	roster "github.com/mergington/rollcall/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoster(t *testing.T) {
	Convey("Given a new roster", t, func() {
		Convey("When it is empty", func() {
			r := roster.New()

			Convey("Then it has no members", func() {
				So(r.Len(), ShouldEqual, 0)
				So(r.Emails(), ShouldBeEmpty)
				So(r.Has("michael@mergington.edu"), ShouldBeFalse)
			})
		})

		Convey("When adding members", func() {
			r := roster.New()

			Convey("And the email is new", func() {
				err := r.Add("michael@mergington.edu")

				Convey("Then it is recorded", func() {
					So(err, ShouldBeNil)
					So(r.Len(), ShouldEqual, 1)
					So(r.Has("michael@mergington.edu"), ShouldBeTrue)
				})
			})

			Convey("And the email is already on the roster", func() {
				So(r.Add("michael@mergington.edu"), ShouldBeNil)

				err := r.Add("michael@mergington.edu")

				Convey("Then it is rejected and the roster is unchanged", func() {
					So(err, ShouldEqual, roster.ErrDuplicateMember)
					So(r.Len(), ShouldEqual, 1)
					So(r.Emails(), ShouldResemble, []string{"michael@mergington.edu"})
				})
			})
		})

		Convey("When removing members", func() {
			r := roster.NewFrom([]string{"michael@mergington.edu", "daniel@mergington.edu"})

			Convey("And the email is on the roster", func() {
				err := r.Remove("michael@mergington.edu")

				Convey("Then it is removed and order is kept for the rest", func() {
					So(err, ShouldBeNil)
					So(r.Len(), ShouldEqual, 1)
					So(r.Has("michael@mergington.edu"), ShouldBeFalse)
					So(r.Emails(), ShouldResemble, []string{"daniel@mergington.edu"})
				})
			})

			Convey("And the email is not on the roster", func() {
				err := r.Remove("nobody@mergington.edu")

				Convey("Then it is rejected and the roster is unchanged", func() {
					So(err, ShouldEqual, roster.ErrNotMember)
					So(r.Len(), ShouldEqual, 2)
				})
			})
		})

		Convey("When seeding from a list", func() {
			Convey("And the list has duplicates", func() {
				r := roster.NewFrom([]string{"a@mergington.edu", "a@mergington.edu", "b@mergington.edu"})

				Convey("Then duplicates are dropped", func() {
					So(r.Len(), ShouldEqual, 2)
					So(r.Emails(), ShouldResemble, []string{"a@mergington.edu", "b@mergington.edu"})
				})
			})
		})

		Convey("When reading emails", func() {
			r := roster.NewFrom([]string{"a@mergington.edu", "b@mergington.edu"})

			Convey("Then insertion order is preserved", func() {
				So(r.Emails(), ShouldResemble, []string{"a@mergington.edu", "b@mergington.edu"})
			})

			Convey("Then the returned slice is a copy", func() {
				emails := r.Emails()
				emails[0] = "tampered@mergington.edu"

				So(r.Emails()[0], ShouldEqual, "a@mergington.edu")
				So(r.Has("tampered@mergington.edu"), ShouldBeFalse)
			})
		})

		Convey("When a member leaves and rejoins", func() {
			r := roster.NewFrom([]string{"a@mergington.edu", "b@mergington.edu"})

			So(r.Remove("a@mergington.edu"), ShouldBeNil)
			So(r.Add("a@mergington.edu"), ShouldBeNil)

			Convey("Then they move to the end of the roster", func() {
				So(r.Emails(), ShouldResemble, []string{"b@mergington.edu", "a@mergington.edu"})
			})
		})
	})
}
