package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/adapters/http/api"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/adapters/repository"
	service "github.com/fidalgok/tilt-challenge-tracking-sub000/internal/app"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func march(d int) datenorm.Date { return datenorm.NewDate(2024, time.March, d) }

func newMux() *http.ServeMux {
	store := repository.NewMemoryStore()
	store.PutChallenge(model.Challenge{ID: "steps", Title: "Steps", StartDate: march(1), EndDate: march(3), Published: true})
	store.PutUser(model.User{ID: "A", FirstName: "Ann", LastName: "Lee"})
	store.PutUser(model.User{ID: "B", FirstName: "Bob", LastName: "Ray"})
	store.PutEntry(model.Entry{ID: "a1", UserID: "A", ChallengeID: "steps", Date: march(1), Amount: 100})
	store.PutEntry(model.Entry{ID: "b2", UserID: "B", ChallengeID: "steps", Date: march(2), Amount: 30})
	store.PutEntry(model.Entry{ID: "a3", UserID: "A", ChallengeID: "steps", Date: march(3), Amount: 50})

	now := march(2).In(time.UTC).Add(12 * time.Hour)
	svc := service.New(
		service.WithStore(store),
		service.WithClock(func() time.Time { return now }),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, 50).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then unknown paths are not found", func() {
			w := do(mux, http.MethodGet, "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then wrong methods are rejected", func() {
			w := do(mux, http.MethodDelete, "/challenges", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then published challenges are listed", func() {
			w := do(mux, http.MethodGet, "/challenges", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var list []model.Challenge
			So(json.Unmarshal(w.Body.Bytes(), &list), ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].StartDate.String(), ShouldEqual, "2024-03-01")
		})
	})
}

func TestCalendarRoute(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("When requesting the week calendar", func() {
			w := do(mux, http.MethodGet, "/challenges/steps/calendar?view=week&anchor=2024-03-01&user=A", "")

			Convey("Then one week of days is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var view service.CalendarView
				So(json.Unmarshal(w.Body.Bytes(), &view), ShouldBeNil)
				So(view.Weeks, ShouldHaveLength, 1)
				So(view.Weeks[0][0].Date.String(), ShouldEqual, "2024-02-25")
				So(view.Weeks[0][5].HasEntry, ShouldBeTrue)
				So(view.Weeks[0][6].HasEntry, ShouldBeFalse)
			})
		})

		Convey("When the query is malformed", func() {
			w := do(mux, http.MethodGet, "/challenges/steps/calendar?view=year", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "invalid_view")

			w = do(mux, http.MethodGet, "/challenges/steps/calendar?anchor=tomorrow", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "invalid_date")
		})

		Convey("When the challenge is unknown", func() {
			w := do(mux, http.MethodGet, "/challenges/nope/calendar", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w)["code"], ShouldEqual, "not_found")
		})
	})
}

func TestDaysRoute(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("Then the day table lists numbered days", func() {
			w := do(mux, http.MethodGet, "/challenges/steps/days?user=B", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"day_number":3`)
			So(w.Body.String(), ShouldContainSubstring, `"total":30`)
		})

		Convey("Then a missing user is a bad request", func() {
			w := do(mux, http.MethodGet, "/challenges/steps/days", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLeaderboardRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("When fetching the leaderboard", func() {
			w := do(mux, http.MethodGet, "/challenges/steps/leaderboard", "")

			Convey("Then rows are ranked by total", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var board service.Board
				So(json.Unmarshal(w.Body.Bytes(), &board), ShouldBeNil)
				So(board.Rows, ShouldHaveLength, 2)
				So(board.Rows[0].DisplayName, ShouldEqual, "Ann Lee")
				So(board.Rows[0].Amount, ShouldEqual, 150)
				So(board.Rows[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When the limit is invalid or too large", func() {
			So(do(mux, http.MethodGet, "/challenges/steps/leaderboard?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/challenges/steps/leaderboard?limit=x", "").Code, ShouldEqual, http.StatusBadRequest)
			w := do(mux, http.MethodGet, "/challenges/steps/leaderboard?limit=51", "")
			So(decodeError(w)["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When fetching a rank", func() {
			w := do(mux, http.MethodGet, "/challenges/steps/rank/B", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var st service.Standing
			So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
			So(st.Rank, ShouldEqual, 2)
			So(st.Participants, ShouldEqual, 2)

			w = do(mux, http.MethodGet, "/challenges/steps/rank/nobody", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestEntriesRoute(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("When posting a new entry", func() {
			w := do(mux, http.MethodPost, "/challenges/steps/entries", `{"user_id":"B","date":"2024-3-3","amount":12}`)

			Convey("Then it is created on the picked day", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var e model.Entry
				So(json.Unmarshal(w.Body.Bytes(), &e), ShouldBeNil)
				So(e.Date.String(), ShouldEqual, "2024-03-03")
				So(e.ID, ShouldNotBeEmpty)
			})

			Convey("Then a second post for the same day conflicts", func() {
				w := do(mux, http.MethodPost, "/challenges/steps/entries", `{"user_id":"B","date":"2024-03-03","amount":1}`)
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decodeError(w)["code"], ShouldEqual, "duplicate_entry")

				scrape := do(mux, http.MethodGet, "/healthz", "").Body.String()
				So(scrape, ShouldContainSubstring, `{endpoint="entries",error_type="conflict",method="POST"}`)
				So(scrape, ShouldContainSubstring, `{error_type="conflict",severity="medium"}`)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/challenges/steps/entries", `{`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the date is outside the challenge", func() {
			w := do(mux, http.MethodPost, "/challenges/steps/entries", `{"user_id":"B","date":"2024-04-01","amount":1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "outside_challenge")
		})

		Convey("When the date is impossible", func() {
			w := do(mux, http.MethodPost, "/challenges/steps/entries", `{"user_id":"B","date":"2024-02-30","amount":1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "invalid_date")
		})
	})
}

type failingDeps struct{}

func (failingDeps) Challenges(context.Context) ([]model.Challenge, error) {
	return nil, errors.New("connection reset")
}

func (failingDeps) Calendar(context.Context, string, service.CalendarQuery) (service.CalendarView, error) {
	return service.CalendarView{}, errors.New("connection reset")
}

func (failingDeps) Days(context.Context, string, string) (service.DayTable, error) {
	return service.DayTable{}, errors.New("connection reset")
}

func (failingDeps) Leaderboard(context.Context, string, int) (service.Board, error) {
	return service.Board{}, errors.New("connection reset")
}

func (failingDeps) Rank(context.Context, string, string) (service.Standing, error) {
	return service.Standing{}, errors.New("connection reset")
}

func (failingDeps) LogEntry(context.Context, string, service.EntryInput) (model.Entry, error) {
	return model.Entry{}, errors.New("connection reset")
}

func TestServer_InternalErrors(t *testing.T) {
	Convey("Given dependencies that fail unexpectedly", t, func() {
		mux := http.NewServeMux()
		api.NewServer(failingDeps{}, 10).Register(context.Background(), mux)

		Convey("Then every route answers 500 with a JSON body", func() {
			for _, target := range []string{
				"/challenges",
				"/challenges/x/calendar",
				"/challenges/x/days?user=A",
				"/challenges/x/leaderboard",
				"/challenges/x/rank/A",
			} {
				w := do(mux, http.MethodGet, target, "")
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, "internal_error")
			}
			w := do(mux, http.MethodPost, "/challenges/x/entries", `{}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestErrorWrapping(t *testing.T) {
	Convey("Given op-tagged errors", t, func() {
		cause := errors.New("boom")

		Convey("Then kind and cause both match", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then Wrap of nil is nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(api.NewKind("api.op", api.ErrBadRequest).Error(), ShouldEqual, "api.op: bad request")
		})
	})
}
