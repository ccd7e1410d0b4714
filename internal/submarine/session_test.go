package submarine_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/submarine"
)

const frame = 1.0 / 60

func typeInto(s *submarine.Session, text string) {
	for range s.Snapshot().Buffer {
		s.Backspace()
	}
	for _, r := range text {
		s.AppendChar(r)
	}
}

var _ = Describe("Session", func() {
	var session *submarine.Session

	BeforeEach(func() {
		session = submarine.NewSession(submarine.NewDefault(), control.NewTuner(control.DefaultGains()), nil)
		session.Lower()
		session.Lower()
		for i := 0; i < 120; i++ {
			session.Step(frame)
		}
		Expect(session.Snapshot().Integral).NotTo(BeZero())
	})

	Describe("committing a gain edit", func() {
		DescribeTable("valid text sets the gain exactly and clears the integral",
			func(field control.GainField, text string, want float64) {
				session.BeginEdit(field)
				typeInto(session, text)

				Expect(session.Commit()).To(Succeed())

				snap := session.Snapshot()
				Expect(snap.Gains.Get(field)).To(Equal(want))
				Expect(snap.Integral).To(BeZero())
				Expect(snap.Active).To(Equal(control.GainNone))
				Expect(snap.Buffer).To(BeEmpty())
			},
			Entry("kp", control.GainKp, "1.5", 1.5),
			Entry("ki", control.GainKi, "0.01", 0.01),
			Entry("kd", control.GainKd, "-2", -2.0),
		)

		DescribeTable("invalid text leaves gains and integral untouched",
			func(text string) {
				integral := session.Snapshot().Integral
				session.BeginEdit(control.GainKp)
				typeInto(session, text)

				err := session.Commit()
				Expect(errors.Is(err, control.ErrInvalidGain)).To(BeTrue())

				var pe *control.ParseError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.Field).To(Equal(control.GainKp))

				snap := session.Snapshot()
				Expect(snap.Gains).To(Equal(control.DefaultGains()))
				Expect(snap.Integral).To(Equal(integral))
				Expect(snap.Active).To(Equal(control.GainNone))
				Expect(snap.Buffer).To(BeEmpty())
			},
			Entry("letters", "abc"),
			Entry("double minus", "--1"),
			Entry("empty", ""),
		)

		It("rejects a commit with no edit in progress", func() {
			Expect(session.Commit()).To(MatchError(control.ErrNotEditing))
		})
	})

	Describe("editing", func() {
		It("shows the pending buffer in the snapshot", func() {
			session.BeginEdit(control.GainKd)
			session.AppendChar('5')
			snap := session.Snapshot()
			Expect(snap.Active).To(Equal(control.GainKd))
			Expect(snap.Buffer).To(Equal("0.85"))
		})

		It("cancels without touching the gains", func() {
			session.BeginEdit(control.GainKi)
			typeInto(session, "9")
			session.Cancel()
			Expect(session.Snapshot().Gains).To(Equal(control.DefaultGains()))
			Expect(session.Snapshot().Active).To(Equal(control.GainNone))
		})
	})

	Describe("target depth", func() {
		It("moves in steps of ten without bound", func() {
			start := session.Snapshot().TargetDepth
			for i := 0; i < 1000; i++ {
				session.Raise()
			}
			Expect(session.Snapshot().TargetDepth).To(BeNumerically("~", start+10000, 1e-9))
			session.Lower()
			Expect(session.Snapshot().TargetDepth).To(BeNumerically("~", start+9990, 1e-9))
		})
	})

	Describe("stepping", func() {
		It("advances with the tuner's current gains", func() {
			twin := submarine.NewDefault()
			twin.AdjustTarget(-20)
			for i := 0; i < 120; i++ {
				twin.Advance(frame, control.DefaultGains())
			}

			session.BeginEdit(control.GainKp)
			typeInto(session, "2")
			Expect(session.Commit()).To(Succeed())
			twin.ResetIntegral()

			gains := control.DefaultGains().With(control.GainKp, 2)
			for i := 0; i < 60; i++ {
				session.Step(frame)
				twin.Advance(frame, gains)
			}
			Expect(session.Snapshot().State).To(Equal(twin.State()))
		})
	})

	Describe("reset", func() {
		It("restores the starting state but keeps gains and pending edits", func() {
			session.BeginEdit(control.GainKi)
			session.Reset()

			snap := session.Snapshot()
			Expect(snap.Position).To(Equal(300.0))
			Expect(snap.TargetDepth).To(Equal(snap.Depth))
			Expect(snap.AirLevel).To(Equal(50.0))
			Expect(snap.Velocity).To(BeZero())
			Expect(snap.Integral).To(BeZero())
			Expect(snap.Active).To(Equal(control.GainKi))
			Expect(snap.Gains).To(Equal(control.DefaultGains()))
		})

		It("is idempotent", func() {
			session.Reset()
			once := session.Snapshot()
			session.Reset()
			Expect(session.Snapshot()).To(Equal(once))
		})
	})
})
