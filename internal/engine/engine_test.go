package engine_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/integrate"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

func newParticle(pos, vel vec.Vec3, mass, damping float64) *particle.Particle {
	p, err := particle.New(pos, vel, vec.Zero(), mass, damping, 0)
	Expect(err).NotTo(HaveOccurred())
	return p
}

type frameCounter struct {
	frames int
}

func (c *frameCounter) Name() string { return "frames" }

func (c *frameCounter) Observe(ps []*particle.Particle, t float64) { c.frames++ }

func (c *frameCounter) Value() float64 { return float64(c.frames) }

func (c *frameCounter) Reset() { c.frames = 0 }

var _ = Describe("World", func() {
	var w *engine.World

	BeforeEach(func() {
		w = engine.New(integrate.NewEuler())
	})

	Describe("Add", func() {
		It("rejects nil particles", func() {
			Expect(w.Add(nil)).To(MatchError(particle.ErrInvalidParam))
		})

		It("keeps added particles", func() {
			p := newParticle(vec.Zero(), vec.Zero(), 1, 1)
			Expect(w.Add(p)).To(Succeed())
			Expect(w.Particles()).To(HaveLen(1))
		})
	})

	Describe("Step", func() {
		It("rejects non-positive durations", func() {
			Expect(w.Step(0, 1)).To(MatchError(integrate.ErrInvalidDuration))
		})

		It("is a no-op on an empty world", func() {
			Expect(w.Step(0.016, 4)).To(Succeed())
		})

		It("integrates every particle", func() {
			for i := 0; i < 10; i++ {
				p := newParticle(vec.Zero(), vec.New(1, 0, 0), 1, 1)
				Expect(w.Add(p)).To(Succeed())
			}

			Expect(w.Step(1.0, 4)).To(Succeed())

			for _, p := range w.Particles() {
				Expect(p.Position.X).To(BeNumerically("~", 1.0, 1e-9))
				Expect(p.Clock()).To(BeNumerically("~", 1.0, 1e-9))
			}
		})
	})

	Describe("Run", func() {
		It("validates the config", func() {
			_, err := w.Run(context.Background(), engine.Config{FrameRate: 0, Duration: 1})
			Expect(err).To(MatchError(engine.ErrInvalidFrameRate))

			_, err = w.Run(context.Background(), engine.Config{FrameRate: 60, Duration: 0})
			Expect(err).To(MatchError(integrate.ErrInvalidDuration))
		})

		It("records one snapshot per frame plus the initial state", func() {
			p := newParticle(vec.Zero(), vec.Zero(), 1, 1)
			Expect(w.Add(p)).To(Succeed())

			result, err := w.Run(context.Background(), engine.Config{FrameRate: 50, Duration: 1, Workers: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FramesTaken).To(Equal(50))
			Expect(result.Times).To(HaveLen(51))
			Expect(result.Positions).To(HaveLen(51))
			Expect(result.Positions[0]).To(HaveLen(1))
		})

		It("reproduces free fall through the frame loop", func() {
			p := newParticle(vec.Zero(), vec.Zero(), 1, 1)
			Expect(p.AddGravity()).To(Succeed())
			Expect(w.Add(p)).To(Succeed())

			_, err := w.Run(context.Background(), engine.Config{FrameRate: 100, Duration: 1, Workers: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Velocity.Y).To(BeNumerically("~", -9.81, 0.05))
		})

		It("stops on a canceled context and returns the partial result", func() {
			p := newParticle(vec.Zero(), vec.Zero(), 1, 1)
			Expect(w.Add(p)).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := w.Run(ctx, engine.Config{FrameRate: 60, Duration: 10})
			Expect(err).To(MatchError(context.Canceled))
			Expect(result).NotTo(BeNil())
			Expect(result.FramesTaken).To(Equal(0))
		})

		It("observes metrics once per frame", func() {
			p := newParticle(vec.Zero(), vec.Zero(), 1, 1)
			Expect(w.Add(p)).To(Succeed())

			counter := &frameCounter{}
			w.AddMetric(counter)

			result, err := w.Run(context.Background(), engine.Config{FrameRate: 20, Duration: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("frames", 20.0))
		})
	})

	Describe("spring pairs under parallel stepping", func() {
		It("keeps linked particles converging with many workers", func() {
			a := newParticle(vec.Zero(), vec.Zero(), 1, 0.995)
			b := newParticle(vec.New(4, 0, 0), vec.Zero(), 1, 0.995)
			Expect(w.Add(a)).To(Succeed())
			Expect(w.Add(b)).To(Succeed())

			// Unlinked bystanders to give the workers real islands.
			for i := 0; i < 6; i++ {
				Expect(w.Add(newParticle(vec.New(0, float64(10+i), 0), vec.Zero(), 1, 1))).To(Succeed())
			}

			s, err := particle.NewSpring(a, b, 20, 2, 1.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(particle.AddSpring(s, 0, math.Inf(1))).To(Succeed())

			_, err = w.Run(context.Background(), engine.Config{FrameRate: 100, Duration: 4, Workers: 4})
			Expect(err).NotTo(HaveOccurred())

			separation := b.Position.Sub(a.Position).Magnitude()
			Expect(separation).To(BeNumerically("~", 2.0, 0.5))
		})
	})

	Describe("RunRealtime", func() {
		It("paces frames and honors the stop callback", func() {
			p := newParticle(vec.Zero(), vec.Zero(), 1, 1)
			Expect(w.Add(p)).To(Succeed())

			frames := 0
			err := w.RunRealtime(context.Background(), engine.Config{FrameRate: 200, Duration: 0.05}, func(frame int, t float64) bool {
				frames++
				return frames < 5
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(BeNumerically("<=", 10))
			Expect(frames).To(BeNumerically(">", 0))
		})
	})
})
