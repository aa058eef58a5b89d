package spring_test

import (
	"math"

	"github.com/charmbracelet/harmonica"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/spring"
)

func matrix64(c spring.Coefficients[float64]) [4]float64 {
	pp, pv, vp, vv := c.Matrix()
	return [4]float64{pp, pv, vp, vv}
}

func matrix32(c spring.Coefficients[float32]) [4]float64 {
	pp, pv, vp, vv := c.Matrix()
	return [4]float64{float64(pp), float64(pv), float64(vp), float64(vv)}
}

// within compares relative to max(1, |want|) so that near-zero entries are
// judged absolutely.
func within(got, want [4]float64, tol float64) bool {
	for i := range got {
		scale := math.Max(1, math.Abs(want[i]))
		if math.Abs(got[i]-want[i]) > tol*scale {
			return false
		}
	}
	return true
}

var _ = Describe("Coefficients", func() {
	Describe("no stiffness", func() {
		DescribeTable("is the identity regardless of damping and dt",
			func(dt, omega, zeta float64) {
				Expect(matrix64(spring.New(dt, omega, zeta))).To(Equal([4]float64{1, 0, 0, 1}))
				Expect(matrix32(spring.New(float32(dt), float32(omega), float32(zeta)))).To(Equal([4]float64{1, 0, 0, 1}))
			},
			Entry("zero frequency", 0.016, 0.0, 0.5),
			Entry("negative frequency clamps to zero", 0.1, -5.0, 1.0),
			Entry("sub-epsilon frequency", 1.0, 1e-17, 3.0),
			Entry("large dt", 100.0, 0.0, 0.0),
			Entry("zero dt", 0.0, 0.0, 2.0),
		)

		It("leaves position and velocity untouched", func() {
			c := spring.New(0.5, 0.0, 0.3)
			pos, vel := 3.0, -2.0
			c.Update(&pos, &vel, 100)
			Expect(pos).To(Equal(3.0))
			Expect(vel).To(Equal(-2.0))
		})
	})

	Describe("classification", func() {
		DescribeTable("selects the regime",
			func(omega, zeta float64, want spring.Regime) {
				Expect(spring.Classify(omega, zeta)).To(Equal(want))
			},
			Entry(nil, 0.0, 1.0, spring.NoStiffness),
			Entry(nil, 5.0, 2.0, spring.OverDamped),
			Entry(nil, 5.0, 0.5, spring.UnderDamped),
			Entry(nil, 5.0, 0.0, spring.UnderDamped),
			Entry(nil, 5.0, -1.0, spring.UnderDamped),
			Entry(nil, 5.0, 1.0, spring.CriticallyDamped),
			Entry(nil, 5.0, 1.0+1e-17, spring.CriticallyDamped),
		)

		It("uses the epsilon of the chosen precision", func() {
			zeta := 1 + 1e-9
			Expect(spring.Classify(5.0, zeta)).To(Equal(spring.OverDamped))
			Expect(spring.Classify(float32(5), float32(zeta))).To(Equal(spring.CriticallyDamped))
		})

		It("reports machine epsilon per type", func() {
			Expect(spring.Epsilon[float64]()).To(Equal(math.Pow(2, -52)))
			Expect(spring.Epsilon[float32]()).To(Equal(float32(math.Pow(2, -23))))
		})
	})

	Describe("negative damping", func() {
		It("clamps to an undamped oscillation", func() {
			Expect(matrix64(spring.New(0.1, 4.0, -3.0))).To(Equal(matrix64(spring.New(0.1, 4.0, 0.0))))
		})
	})

	Describe("continuity at critical damping", func() {
		DescribeTable("converges from both sides",
			func(dt, omega float64) {
				critical := matrix64(spring.New(dt, omega, 1.0))
				for _, delta := range []float64{1e-5, 1e-6} {
					Expect(within(matrix64(spring.New(dt, omega, 1-delta)), critical, 1e-4)).To(BeTrue(), "under-damped at 1-%g", delta)
					Expect(within(matrix64(spring.New(dt, omega, 1+delta)), critical, 1e-4)).To(BeTrue(), "over-damped at 1+%g", delta)
				}
			},
			Entry("60fps", 1.0/60, 6.0),
			Entry("coarse step", 0.1, 5.0),
			Entry("one second", 1.0, 2.0),
		)
	})

	Describe("precision parity", func() {
		DescribeTable("float32 agrees with float64",
			func(dt, omega, zeta float64) {
				c64 := matrix64(spring.New(dt, omega, zeta))
				c32 := matrix32(spring.New(float32(dt), float32(omega), float32(zeta)))
				Expect(within(c32, c64, 1e-5)).To(BeTrue(), "float32=%v float64=%v", c32, c64)
			},
			Entry("under-damped", 1.0/60, 6.0, 0.2),
			Entry("critical", 1.0/60, 6.0, 1.0),
			Entry("over-damped", 1.0/60, 6.0, 3.0),
			Entry("coarse under-damped", 0.1, 10.0, 0.5),
			Entry("coarse over-damped", 0.1, 10.0, 2.0),
			Entry("undamped", 0.05, 2.0, 0.0),
			Entry("very stiff", 1.0, 10.0, 10.0),
		)
	})

	Describe("parity with harmonica", func() {
		DescribeTable("steps like an independent float64 implementation",
			func(dt, omega, zeta float64) {
				c := spring.New(dt, omega, zeta)
				h := harmonica.NewSpring(dt, omega, zeta)

				pos, vel := 0.0, 0.0
				hPos, hVel := 0.0, 0.0
				for i := 0; i < 120; i++ {
					target := 50 * math.Sin(float64(i)*0.1)
					c.Update(&pos, &vel, target)
					hPos, hVel = h.Update(hPos, hVel, target)
					Expect(pos).To(BeNumerically("~", hPos, 1e-9))
					Expect(vel).To(BeNumerically("~", hVel, 1e-9))
				}
			},
			Entry("under-damped", harmonica.FPS(60), 6.0, 0.3),
			Entry("critical", harmonica.FPS(60), 8.0, 1.0),
			Entry("over-damped", harmonica.FPS(30), 4.0, 2.5),
		)
	})
})

var _ = Describe("Update", func() {
	DescribeTable("keeps a spring at rest on its target",
		func(dt, omega, zeta float64) {
			c := spring.New(dt, omega, zeta)
			pos, vel := 42.0, 0.0
			for i := 0; i < 50; i++ {
				c.Update(&pos, &vel, 42.0)
			}
			Expect(pos).To(Equal(42.0))
			Expect(vel).To(Equal(0.0))
		},
		Entry("no stiffness", 0.1, 0.0, 1.0),
		Entry("over-damped", 0.1, 5.0, 3.0),
		Entry("under-damped", 0.1, 5.0, 0.3),
		Entry("critical", 0.1, 5.0, 1.0),
		Entry("zero dt", 0.0, 5.0, 0.3),
	)

	DescribeTable("converges to the target",
		func(dt, omega, zeta float64) {
			c := spring.New(dt, omega, zeta)
			pos, vel := -20.0, 15.0
			for i := 0; i < 5000; i++ {
				c.Update(&pos, &vel, 7.5)
			}
			Expect(pos).To(BeNumerically("~", 7.5, 1e-6))
			Expect(vel).To(BeNumerically("~", 0, 1e-6))
		},
		Entry("over-damped", 1.0/60, 6.0, 2.0),
		Entry("under-damped", 1.0/60, 6.0, 0.3),
		Entry("critical", 1.0/60, 6.0, 1.0),
		Entry("huge step", 10.0, 3.0, 0.7),
	)

	It("never moves a spring without stiffness", func() {
		c := spring.New(0.1, 0.0, 0.5)
		pos, vel := 1.0, 0.0
		for i := 0; i < 100; i++ {
			c.Update(&pos, &vel, 10.0)
		}
		Expect(pos).To(Equal(1.0))
	})

	It("matches the reference sequence of the over-damped demo", func() {
		want := []float64{
			39.270496329702034,
			63.211939565699026,
			77.71492752739732,
			86.50039036452968,
			91.82235280885315,
			95.04623352906738,
			96.99916104535505,
			98.18218430671818,
			98.89882331418461,
			99.33294112386378,
		}

		c := spring.New(1.0, 10.0, 10.0)
		pos, vel := 0.0, 0.0
		prev := pos
		for _, w := range want {
			c.Update(&pos, &vel, 100.0)
			Expect(pos).To(BeNumerically("~", w, 1e-9))
			Expect(pos).To(BeNumerically(">", prev))
			Expect(pos).To(BeNumerically("<", 100.0))
			prev = pos
		}
	})

	It("agrees with Step", func() {
		c := spring.New(0.05, 9.0, 0.4)
		pos, vel := 1.0, 2.0
		p, v := c.Step(pos, vel, -3.0)
		c.Update(&pos, &vel, -3.0)
		Expect(pos).To(Equal(p))
		Expect(vel).To(Equal(v))
	})

	It("propagates NaN without panicking", func() {
		c := spring.New(0.1, 5.0, 0.5)
		pos, vel := math.NaN(), 0.0
		c.Update(&pos, &vel, 1.0)
		Expect(math.IsNaN(pos)).To(BeTrue())
	})
})
