package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/gravity"
	"github.com/kossner/accrete/internal/metrics"
	"github.com/kossner/accrete/internal/scenario"
	"github.com/kossner/accrete/internal/sim"
)

var _ = Describe("Runner", func() {
	var consts gravity.Constants

	BeforeEach(func() {
		consts = gravity.DefaultConstants()
	})

	directRunner := func(dim int) *sim.Runner {
		return sim.New(gravity.NewStep(consts, gravity.Direct{}, dim))
	}

	Describe("two bodies released at rest", func() {
		It("accelerates them toward each other without net momentum", func() {
			b := scenario.TwoBody(scenario.Params{Dim: 3, Consts: consts})
			r := directRunner(3)
			r.AddMetric(metrics.NewMomentum())

			result, err := r.Run(context.Background(), b, sim.Config{Dt: 1, Duration: 60})
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Len()).To(Equal(2), "bodies start too far apart to merge")
			Expect(b.Vel[0]).To(BeNumerically(">", 0), "left body drifts right")
			Expect(b.Vel[3]).To(BeNumerically("<", 0), "right body drifts left")
			Expect(result.Metrics["momentum"]).To(BeNumerically("~", 0, 1e-3))
		})
	})

	Describe("a head-on collision", func() {
		It("merges into a single heated body at rest", func() {
			b := scenario.CollisionCourse(scenario.Params{Dim: 3, Consts: consts})
			r := directRunner(3)

			result, err := r.Run(context.Background(), b, sim.Config{Dt: 1, Duration: 200})
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Len()).To(Equal(1))
			Expect(result.Removed).To(HaveLen(1))

			i := b.Live(nil)[0]
			Expect(b.Mass[i]).To(Equal(2e14), "mass sums exactly")
			Expect(b.Vel[i*3]).To(BeNumerically("~", 0, 1e-9), "momenta cancel")
			Expect(b.Temp[i]).To(BeNumerically(">", 300), "impact heats the survivor")
			Expect(b.Radius[i]).To(BeNumerically("~", consts.RadiusForMass(2e14), 1e-9))
		})
	})

	Describe("an isolated hot body", func() {
		It("cools radiatively toward the floor without moving", func() {
			b := scenario.TwoBody(scenario.Params{Dim: 3, Consts: consts})
			b.Remove(b.IDOf(1))
			i := b.Live(nil)[0]
			b.Temp[i] = 50000

			prev := b.Temp[i]
			err := directRunner(3).RunWithCallback(context.Background(), b, sim.Config{Dt: 60, Duration: 3600},
				func(bb *body.Batch, t float64) bool {
					Expect(bb.Temp[i]).To(BeNumerically("<=", prev), "temperature never rises")
					Expect(bb.Temp[i]).To(BeNumerically(">=", consts.MinTemperature))
					prev = bb.Temp[i]
					return true
				})
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Temp[i]).To(BeNumerically("<", 50000))
			Expect(b.Pos[i*3]).To(Equal(0.0), "no forces act on a lone body")
			Expect(b.Vel[i*3]).To(Equal(0.0))
		})
	})

	Describe("a ring orbit", func() {
		params := scenario.Params{Bodies: 32, Dim: 3, Consts: gravity.DefaultConstants()}

		It("conserves energy under direct summation", func() {
			b := scenario.Ring(params)
			result, err := directRunner(3).Run(context.Background(), b, sim.Config{Dt: 1, Duration: 600})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EnergyDrift).To(BeNumerically("<", 1e-6))
		})

		It("evolves the same way under the tree solver", func() {
			direct := scenario.Ring(params)
			_, err := directRunner(3).Run(context.Background(), direct, sim.Config{Dt: 1, Duration: 60})
			Expect(err).NotTo(HaveOccurred())

			tree := scenario.Ring(params)
			treeStep := gravity.NewStep(consts, gravity.NewBarnesHut(3), 3)
			_, err = sim.New(treeStep).Run(context.Background(), tree, sim.Config{Dt: 1, Duration: 60})
			Expect(err).NotTo(HaveOccurred())

			Expect(tree.Len()).To(Equal(direct.Len()))
			for _, i := range direct.Live(nil) {
				for d := 0; d < 3; d++ {
					Expect(tree.Pos[i*3+d]).To(BeNumerically("~", direct.Pos[i*3+d], 100),
						"positions agree to within the opening-angle error")
				}
			}
		})
	})
})
