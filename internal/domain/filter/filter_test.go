package filter_test

import (
	"math"
	"testing"

	"github.com/okian/formguide/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFilterUpdate(t *testing.T) {
	Convey("Given a default filter", t, func() {
		f := filter.New()

		Convey("Then it starts at the configured prior", func() {
			st := f.State()
			So(st.Estimate, ShouldEqual, filter.DefaultInitialEstimate)
			So(st.Uncertainty, ShouldEqual, filter.DefaultInitialCovariance)
		})

		Convey("When fed a constant measurement repeatedly", func() {
			const target = 90.0
			prev := f.State().Estimate

			Convey("Then the estimate converges monotonically without overshoot", func() {
				for i := 0; i < 50; i++ {
					f.Predict()
					est := f.Update(target)
					So(est, ShouldBeGreaterThanOrEqualTo, prev)
					So(est, ShouldBeLessThanOrEqualTo, target)
					prev = est
				}
				So(prev, ShouldAlmostEqual, target, 0.5)
			})
		})

		Convey("When updating", func() {
			Convey("Then the implied gain stays in [0,1]", func() {
				for i := 0; i < 100; i++ {
					before := f.State()
					f.Predict()
					after := f.Update(float64(i % 7 * 20))
					// gain = movement / innovation; guard the exact-hit case
					innovation := float64(i%7*20) - before.Estimate
					if math.Abs(innovation) > 1e-12 {
						gain := (after - before.Estimate) / innovation
						So(gain, ShouldBeGreaterThanOrEqualTo, 0)
						So(gain, ShouldBeLessThanOrEqualTo, 1)
					}
					So(f.State().Uncertainty, ShouldBeGreaterThanOrEqualTo, 0)
				}
			})
		})

		Convey("When predicting without measurements", func() {
			st0 := f.State()
			est := f.Predict()

			Convey("Then the estimate holds and uncertainty grows", func() {
				So(est, ShouldEqual, st0.Estimate)
				So(f.State().Uncertainty, ShouldAlmostEqual, st0.Uncertainty+filter.DefaultProcessNoise, 1e-12)
			})
		})
	})

	Convey("Given a filter with custom options", t, func() {
		f := filter.New(
			filter.WithInitialState(50, 1),
			filter.WithProcessNoise(0.5),
			filter.WithMeasurementNoise(2),
		)

		st := f.State()
		So(st.Estimate, ShouldEqual, 50)
		So(st.Uncertainty, ShouldEqual, 1)

		Convey("Then the first update applies the configured gain", func() {
			f.Predict() // P = 1.5
			est := f.Update(60)
			// gain = 1.5/(1.5+2); estimate = 50 + gain*10
			So(est, ShouldAlmostEqual, 50+10*1.5/3.5, 1e-12)
		})
	})
}

func TestTracker(t *testing.T) {
	Convey("Given a tracker", t, func() {
		tr := filter.NewTracker()

		Convey("When observing two entities", func() {
			estA := tr.Observe("A", 90)
			estB := tr.Observe("B", 40)

			Convey("Then filters are independent", func() {
				So(estA, ShouldBeGreaterThan, filter.DefaultInitialEstimate)
				So(estB, ShouldBeLessThan, filter.DefaultInitialEstimate)
				So(tr.Count(), ShouldEqual, 2)

				stA, err := tr.State("A")
				So(err, ShouldBeNil)
				stB, err := tr.State("B")
				So(err, ShouldBeNil)
				So(stA.Estimate, ShouldNotAlmostEqual, stB.Estimate, 1e-9)
			})
		})

		Convey("When querying an unobserved entity", func() {
			_, err := tr.State("ghost")

			Convey("Then it reports not found without creating a filter", func() {
				So(err, ShouldWrap, filter.ErrNotFound)
				So(tr.Count(), ShouldEqual, 0)
			})
		})

		Convey("When reset", func() {
			tr.Observe("A", 80)
			tr.Reset()
			So(tr.Count(), ShouldEqual, 0)
		})
	})
}
