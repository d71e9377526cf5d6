package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/adapters/repository"
	service "github.com/fidalgok/tilt-challenge-tracking-sub000/internal/app"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/calendar"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/leaderboard"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func march(d int) datenorm.Date { return datenorm.NewDate(2024, time.March, d) }

// newService returns a service over the March 1-3 scenario with the clock
// fixed at noon UTC on now.
func newService(now time.Time, opts ...service.Option) (*service.Service, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	store.PutChallenge(model.Challenge{ID: "steps", Title: "Steps", StartDate: march(1), EndDate: march(3), Published: true})
	store.PutChallenge(model.Challenge{ID: "draft", Title: "Draft", StartDate: march(1), EndDate: march(31)})
	store.PutUser(model.User{ID: "A", FirstName: "Ann", LastName: "Lee"})
	store.PutUser(model.User{ID: "B", LastName: "Ray"})
	store.PutEntry(model.Entry{ID: "a1", UserID: "A", ChallengeID: "steps", Date: march(1), Amount: 100})
	store.PutEntry(model.Entry{ID: "b2", UserID: "B", ChallengeID: "steps", Date: march(2), Amount: 30})
	store.PutEntry(model.Entry{ID: "a3", UserID: "A", ChallengeID: "steps", Date: march(3), Amount: 50})

	opts = append([]service.Option{
		service.WithStore(store),
		service.WithClock(func() time.Time { return now }),
	}, opts...)
	return service.New(opts...), store
}

func noon(d datenorm.Date) time.Time { return d.In(time.UTC).Add(12 * time.Hour) }

func TestService_Challenges(t *testing.T) {
	Convey("Given published and draft challenges", t, func() {
		svc, _ := newService(noon(march(2)))

		Convey("Then only published challenges are listed", func() {
			list, err := svc.Challenges(context.Background())
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].ID, ShouldEqual, "steps")
		})
	})
}

func TestService_Calendar(t *testing.T) {
	ctx := context.Background()

	Convey("Given the March 1-3 challenge viewed on March 2", t, func() {
		svc, _ := newService(noon(march(2)))

		Convey("When requesting the default view for user A", func() {
			view, err := svc.Calendar(ctx, "steps", service.CalendarQuery{UserID: "A"})
			So(err, ShouldBeNil)

			Convey("Then the month grid is anchored on today", func() {
				So(view.View, ShouldEqual, calendar.ViewMonth)
				So(view.Anchor, ShouldResemble, march(2))
				So(view.Weeks, ShouldHaveLength, 6)
				So(view.HasPrevious, ShouldBeFalse)
				So(view.HasNext, ShouldBeFalse)
			})

			Convey("Then only A's days are marked", func() {
				var marked []string
				for _, w := range view.Weeks {
					for _, d := range w {
						if d.HasEntry {
							marked = append(marked, d.Date.String())
						}
					}
				}
				So(marked, ShouldResemble, []string{"2024-03-01", "2024-03-03"})
			})
		})

		Convey("When requesting the calendar without a user", func() {
			view, err := svc.Calendar(ctx, "steps", service.CalendarQuery{})
			So(err, ShouldBeNil)

			Convey("Then no day carries an entry", func() {
				for _, w := range view.Weeks {
					for _, d := range w {
						So(d.HasEntry, ShouldBeFalse)
						So(d.Entry, ShouldBeNil)
					}
				}
			})
		})

		Convey("When stepping the week view forward", func() {
			view, err := svc.Calendar(ctx, "steps", service.CalendarQuery{View: "week", Anchor: "2024-03-01", Nav: "next"})
			So(err, ShouldBeNil)
			So(view.View, ShouldEqual, calendar.ViewWeek)
			So(view.Anchor, ShouldResemble, march(8))
			So(view.HasPrevious, ShouldBeTrue)
			So(view.HasNext, ShouldBeFalse)
		})

		Convey("When the query is malformed", func() {
			_, err := svc.Calendar(ctx, "steps", service.CalendarQuery{View: "year"})
			So(errors.Is(err, calendar.ErrInvalidViewMode), ShouldBeTrue)

			_, err = svc.Calendar(ctx, "steps", service.CalendarQuery{Anchor: "03/01/2024"})
			So(errors.Is(err, datenorm.ErrParse), ShouldBeTrue)

			_, err = svc.Calendar(ctx, "steps", service.CalendarQuery{Timezone: "Mars/Olympus"})
			So(errors.Is(err, service.ErrInvalidTimezone), ShouldBeTrue)

			_, err = svc.Calendar(ctx, "steps", service.CalendarQuery{Nav: "up"})
			So(errors.Is(err, calendar.ErrInvalidDirection), ShouldBeTrue)
		})

		Convey("When the challenge does not exist", func() {
			_, err := svc.Calendar(ctx, "nope", service.CalendarQuery{})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a viewer west of UTC late on March 1", t, func() {
		// 2024-03-02 03:00 UTC is still March 1 in Los Angeles.
		svc, _ := newService(time.Date(2024, time.March, 2, 3, 0, 0, 0, time.UTC))

		Convey("Then today follows the viewer's zone", func() {
			view, err := svc.Calendar(ctx, "steps", service.CalendarQuery{Timezone: "America/Los_Angeles"})
			So(err, ShouldBeNil)
			So(view.Today, ShouldResemble, march(1))

			view, err = svc.Calendar(ctx, "steps", service.CalendarQuery{})
			So(err, ShouldBeNil)
			So(view.Today, ShouldResemble, march(2))
		})
	})
}

func TestService_Days(t *testing.T) {
	ctx := context.Background()

	Convey("Given the March 1-3 challenge", t, func() {
		svc, _ := newService(noon(march(2)))

		Convey("When expanding user A's days", func() {
			table, err := svc.Days(ctx, "steps", "A")
			So(err, ShouldBeNil)

			Convey("Then every day is numbered and matched", func() {
				So(table.Days, ShouldHaveLength, 3)
				So(table.Days[0].Number, ShouldEqual, 1)
				So(table.Days[0].Entry.ID, ShouldEqual, "a1")
				So(table.Days[1].Entry, ShouldBeNil)
				So(table.Days[2].Number, ShouldEqual, 3)
				So(table.Total, ShouldEqual, 150)
			})
		})

		Convey("When no user is given", func() {
			_, err := svc.Days(ctx, "steps", "")
			So(errors.Is(err, service.ErrUserRequired), ShouldBeTrue)
		})
	})
}

func TestService_Leaderboard(t *testing.T) {
	ctx := context.Background()

	Convey("Given the March 1-3 challenge", t, func() {
		svc, _ := newService(noon(march(2)), service.WithMaxLeaderboard(10))

		Convey("When ranking participants", func() {
			board, err := svc.Leaderboard(ctx, "steps", 0)
			So(err, ShouldBeNil)

			Convey("Then A leads with 150 and B follows with 30", func() {
				So(board.Participants, ShouldEqual, 2)
				So(board.Rows, ShouldHaveLength, 2)
				So(board.Rows[0].UserID, ShouldEqual, "A")
				So(board.Rows[0].Amount, ShouldEqual, 150)
				So(board.Rows[0].DisplayName, ShouldEqual, "Ann Lee")
				So(board.Rows[1].DisplayName, ShouldEqual, "anonymous Ray")
				So(board.Complete, ShouldBeFalse)
			})
		})

		Convey("When limiting to one row", func() {
			board, err := svc.Leaderboard(ctx, "steps", 1)
			So(err, ShouldBeNil)
			So(board.Rows, ShouldHaveLength, 1)
			So(board.Participants, ShouldEqual, 2)
		})

		Convey("When an entry is logged the next read reflects it", func() {
			_, err := svc.LogEntry(ctx, "steps", service.EntryInput{UserID: "B", Date: "2024-03-03", Amount: 200})
			So(err, ShouldBeNil)

			board, err := svc.Leaderboard(ctx, "steps", 0)
			So(err, ShouldBeNil)
			So(board.Rows[0].UserID, ShouldEqual, "B")
			So(board.Rows[0].Amount, ShouldEqual, 230)
		})
	})
}

func TestService_Rank(t *testing.T) {
	ctx := context.Background()

	Convey("Given a finished challenge", t, func() {
		svc, _ := newService(noon(march(10)))

		Convey("Then the viewer's standing is reported as complete", func() {
			st, err := svc.Rank(ctx, "steps", "B")
			So(err, ShouldBeNil)
			So(st.Rank, ShouldEqual, 2)
			So(st.Amount, ShouldEqual, 30)
			So(st.Participants, ShouldEqual, 2)
			So(st.Complete, ShouldBeTrue)
		})

		Convey("Then a user without entries is not ranked", func() {
			_, err := svc.Rank(ctx, "steps", "C")
			So(errors.Is(err, leaderboard.ErrNotRanked), ShouldBeTrue)
		})
	})

	Convey("Given the last challenge evening in Los Angeles", t, func() {
		// 2024-03-04 03:00 UTC is still March 3 in Los Angeles.
		now := time.Date(2024, time.March, 4, 3, 0, 0, 0, time.UTC)
		la, err := time.LoadLocation("America/Los_Angeles")
		So(err, ShouldBeNil)

		Convey("Then the challenge is still running in the configured location", func() {
			svc, _ := newService(now, service.WithLocation(la))
			st, err := svc.Rank(ctx, "steps", "A")
			So(err, ShouldBeNil)
			So(st.Complete, ShouldBeFalse)
		})

		Convey("Then it is over in UTC", func() {
			svc, _ := newService(now)
			st, err := svc.Rank(ctx, "steps", "A")
			So(err, ShouldBeNil)
			So(st.Complete, ShouldBeTrue)
		})
	})
}

func TestService_LogEntry(t *testing.T) {
	ctx := context.Background()

	Convey("Given the March 1-3 challenge", t, func() {
		svc, store := newService(noon(march(2)))

		Convey("When logging with an unpadded picker date", func() {
			e, err := svc.LogEntry(ctx, "steps", service.EntryInput{UserID: "B", Date: "2024-3-3", Amount: 12.5})

			Convey("Then the entry lands on the picked day", func() {
				So(err, ShouldBeNil)
				So(e.ID, ShouldNotBeEmpty)
				So(e.Date, ShouldResemble, march(3))

				entries, _ := store.Entries(ctx, "steps")
				So(entries, ShouldHaveLength, 4)
			})
		})

		Convey("When the day already has an entry", func() {
			_, err := svc.LogEntry(ctx, "steps", service.EntryInput{UserID: "A", Date: "2024-03-01", Amount: 1})
			So(errors.Is(err, repository.ErrDuplicateEntry), ShouldBeTrue)
		})

		Convey("When the day is outside the challenge", func() {
			_, err := svc.LogEntry(ctx, "steps", service.EntryInput{UserID: "A", Date: "2024-03-04", Amount: 1})
			So(errors.Is(err, service.ErrOutsideChallenge), ShouldBeTrue)
		})

		Convey("When the picker date is impossible", func() {
			_, err := svc.LogEntry(ctx, "steps", service.EntryInput{UserID: "A", Date: "2024-02-30", Amount: 1})
			So(errors.Is(err, datenorm.ErrParse), ShouldBeTrue)
		})

		Convey("When the input fails validation", func() {
			_, err := svc.LogEntry(ctx, "steps", service.EntryInput{UserID: "A", Date: "2024-03-02", Amount: -5})
			So(errors.Is(err, service.ErrInvalidEntryInput), ShouldBeTrue)

			_, err = svc.LogEntry(ctx, "steps", service.EntryInput{Date: "2024-03-02"})
			So(errors.Is(err, service.ErrInvalidEntryInput), ShouldBeTrue)
		})
	})
}

func TestService_Close(t *testing.T) {
	Convey("Given a service on its default store", t, func() {
		svc := service.New()

		Convey("When closed, reads fail", func() {
			So(svc.Close(), ShouldBeNil)
			_, err := svc.Challenges(context.Background())
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})
}
