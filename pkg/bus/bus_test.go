package bus_test

import (
	"testing"

	"github.com/okian/formguide/pkg/bus"
	"github.com/okian/formguide/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPublishSubscribe(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given a bus with several subscribers", t, func() {
		b := bus.New[int]()
		var order []string

		b.Subscribe(func(e bus.Event[int]) { order = append(order, "first") })
		b.Subscribe(func(e bus.Event[int]) { order = append(order, "second") })
		b.Subscribe(func(e bus.Event[int]) { order = append(order, "third") })

		Convey("When publishing an event", func() {
			b.Publish("tick", 1)

			Convey("Then every handler runs once, in subscription order", func() {
				So(order, ShouldResemble, []string{"first", "second", "third"})
			})
		})

		Convey("When publishing twice", func() {
			b.Publish("tick", 1)
			b.Publish("tick", 2)
			So(len(order), ShouldEqual, 6)
		})
	})

	Convey("Given a subscriber interested in the payload", t, func() {
		b := bus.New[string]()
		var gotType, gotData string
		b.Subscribe(func(e bus.Event[string]) {
			gotType = e.Type
			gotData = e.Data
		})

		Convey("When publishing", func() {
			b.Publish("rating.updated", "team-7")

			Convey("Then the event carries type and data", func() {
				So(gotType, ShouldEqual, "rating.updated")
				So(gotData, ShouldEqual, "team-7")
			})
		})
	})
}

func TestUnsubscribe(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given a bus with two subscribers", t, func() {
		b := bus.New[int]()
		var first, second int
		sub := b.Subscribe(func(e bus.Event[int]) { first++ })
		b.Subscribe(func(e bus.Event[int]) { second++ })

		Convey("When the first unsubscribes", func() {
			b.Unsubscribe(sub)
			b.Publish("tick", 0)

			Convey("Then only the remaining handler is invoked", func() {
				So(first, ShouldEqual, 0)
				So(second, ShouldEqual, 1)
				So(b.SubscriberCount(), ShouldEqual, 1)
			})
		})

		Convey("When unsubscribing an unknown token", func() {
			So(func() { b.Unsubscribe(9999) }, ShouldNotPanic)
			So(b.SubscriberCount(), ShouldEqual, 2)
		})
	})
}

func TestHandlerFaultIsolation(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given a subscriber that panics", t, func() {
		b := bus.New[int]()
		var before, after bool
		b.Subscribe(func(e bus.Event[int]) { before = true })
		b.Subscribe(func(e bus.Event[int]) { panic("boom") })
		b.Subscribe(func(e bus.Event[int]) { after = true })

		Convey("When publishing", func() {
			So(func() { b.Publish("tick", 0) }, ShouldNotPanic)

			Convey("Then the fault is isolated and later handlers still run", func() {
				So(before, ShouldBeTrue)
				So(after, ShouldBeTrue)
			})
		})
	})
}
