package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		day := datenorm.NewDate(2024, time.March, 1)
		key := dedupe.EntryKey("u1", "c1", day)

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a key is new", func() {
			seen := d.SeenAndRecord(ctx, key)

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key repeats", func() {
			d.SeenAndRecord(ctx, key)
			seen := d.SeenAndRecord(ctx, key)

			Convey("Then it is reported as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When keys differ by user, challenge or day", func() {
			So(d.SeenAndRecord(ctx, key), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.EntryKey("u2", "c1", day)), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.EntryKey("u1", "c2", day)), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.EntryKey("u1", "c1", day.AddDays(1))), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 4)
		})

		Convey("When many goroutines race on the same keys", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, fmt.Sprintf("k%d", i%10)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}(i)
			}
			wg.Wait()

			Convey("Then each key is recorded exactly once", func() {
				So(fresh, ShouldEqual, 10)
				So(d.Size(), ShouldEqual, 10)
			})
		})
	})
}
