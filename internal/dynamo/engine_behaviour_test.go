package dynamo_test

import (
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

var _ = Describe("Engine", func() {
	var (
		cfg *config.Config
		eng *dynamo.Engine
	)

	build := func() {
		store, err := config.NewStore(cfg)
		Expect(err).NotTo(HaveOccurred())
		eng, err = dynamo.New(store, rand.New(rand.NewSource(5)))
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	Context("with the default constants", func() {
		BeforeEach(build)

		It("places the first body on a circular orbit at 180", func() {
			id, ok := eng.Spawn(nil)
			Expect(ok).To(BeTrue())

			b, _ := eng.Registry().Get(id)
			Expect(b.Pos).To(Equal(r3.Vec{X: 180}))
			Expect(b.Vel.Z).To(BeNumerically("~", 52.70, 0.01))
			Expect(b.Orbit).NotTo(BeNil())
			Expect(b.Orbit.Eccentricity).To(BeNumerically("<", 1e-9))
		})

		It("stacks later spawns outward", func() {
			eng.Seed(3)
			var dists []float64
			for _, b := range eng.Registry().Bodies() {
				dists = append(dists, b.Distance())
			}
			Expect(dists).To(HaveLen(3))
			Expect(dists[1]).To(BeNumerically("~", 300, 1e-9))
			Expect(dists[2]).To(BeNumerically("~", 420, 1e-9))
		})

		It("leaves the registry alone when full", func() {
			Expect(eng.Seed(20)).To(Equal(config.DefaultMaxBodies))
			_, ok := eng.Spawn(nil)
			Expect(ok).To(BeFalse())
			Expect(eng.Registry().Len()).To(Equal(config.DefaultMaxBodies))
		})

		It("treats delete on an empty registry as a no-op", func() {
			_, ok := eng.DeleteOutermost()
			Expect(ok).To(BeFalse())
			Expect(eng.Registry().Len()).To(BeZero())
		})

		It("removes a body inside the crash radius in the same frame", func() {
			id, _ := eng.Spawn(nil)
			b, _ := eng.Registry().Get(id)
			b.Pos = r3.Vec{X: 10}

			f := eng.Frame(16 * time.Millisecond)
			Expect(f.Bodies).To(BeEmpty())
			Expect(f.Removed).To(ConsistOf(HaveField("Reason", body.Crash)))

			f = eng.Frame(16 * time.Millisecond)
			Expect(f.Bodies).To(BeEmpty())
		})

		It("despawns a body that leaves the system", func() {
			id, _ := eng.Spawn(nil)
			b, _ := eng.Registry().Get(id)
			b.Pos = r3.Vec{X: 4999.9}
			b.Vel = r3.Vec{X: 1e5}

			f := eng.Frame(50 * time.Millisecond)
			Expect(f.Removed).To(ConsistOf(HaveField("Reason", body.Despawn)))
			_, alive := eng.Registry().Get(id)
			Expect(alive).To(BeFalse())
		})

		It("keeps the selected body's orbit fresh every frame", func() {
			eng.Seed(8)
			target := eng.Registry().Bodies()[6].ID
			Expect(eng.Select(target)).To(Succeed())

			for i := 0; i < 5; i++ {
				f := eng.Frame(16 * time.Millisecond)
				Expect(f.Selected).NotTo(BeNil())
				Expect(f.Selected.ID).To(Equal(target))
				var view *dynamo.BodyView
				for j := range f.Bodies {
					if f.Bodies[j].ID == target {
						view = &f.Bodies[j]
					}
				}
				Expect(view).NotTo(BeNil())
				Expect(view.Orbit).NotTo(BeNil())
			}
		})

		It("clamps warp at both ends", func() {
			for eng.WarpUp() {
			}
			Expect(eng.WarpLabel()).To(Equal("WARP: 1.0 YEAR/S"))
			for eng.WarpDown() {
			}
			Expect(eng.WarpLabel()).To(Equal("WARP: 32.0 MIN/S"))
		})
	})

	Context("with the direct warp variant", func() {
		BeforeEach(func() {
			cfg.Warp.Calibrated = false
			cfg.Warp.Table = []float64{1}
			cfg.Warp.Index = 0
			build()
		})

		It("returns to its start after one period", func() {
			id, _ := eng.Spawn(nil)
			b, _ := eng.Registry().Get(id)
			period := 2 * math.Pi * math.Sqrt(180*180*180/cfg.Mu())

			frame := 50 * time.Millisecond
			frames := int(math.Floor(period / frame.Seconds()))
			for i := 0; i < frames; i++ {
				eng.Frame(frame)
			}
			rest := period - float64(frames)*frame.Seconds()
			if rest > 0 {
				eng.Frame(time.Duration(rest * float64(time.Second)))
			}

			Expect(eng.SimTime()).To(BeNumerically("~", period, 1e-6))
			Expect(b.Pos.X).To(BeNumerically("~", 180, 0.5))
			Expect(b.Pos.Z).To(BeNumerically("~", 0, 0.5))
			Expect(b.Vel.Z).To(BeNumerically("~", 52.70, 0.2))
		})
	})

	Context("with a corrupted body", func() {
		BeforeEach(build)

		It("crashes it instead of propagating NaN", func() {
			eng.Seed(4)
			eng.Registry().Bodies()[0].Pos = r3.Vec{X: math.NaN()}

			f := eng.Frame(16 * time.Millisecond)
			Expect(f.Removed).To(ContainElement(HaveField("Reason", body.Crash)))
			Expect(eng.Registry().Len()).To(Equal(3))
		})
	})
})
