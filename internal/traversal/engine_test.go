package traversal_test

import (
	"errors"
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/transitviz/internal/geo"
	"github.com/san-kum/transitviz/internal/traversal"
)

func ids(items []traversal.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func randomPoints(n int, seed int64) map[string]geo.Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make(map[string]geo.Point, n)
	for i := 0; i < n; i++ {
		pts[fmt.Sprintf("s%04d", i)] = geo.Point{Lng: 19 + rng.Float64()*0.3, Lat: 47.35 + rng.Float64()*0.25}
	}
	return pts
}

var _ = Describe("Engine", func() {
	var triangle map[string]geo.Point

	BeforeEach(func() {
		triangle = map[string]geo.Point{
			"A": {Lng: 0, Lat: 0},
			"B": {Lng: 1, Lat: 1},
			"C": {Lng: 1, Lat: 0},
		}
	})

	Describe("New", func() {
		It("visits only the start", func() {
			e, err := traversal.New(triangle, "A")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Visited()).To(Equal(1))
			Expect(e.IsVisited("A")).To(BeTrue())
			Expect(e.Frontier()).To(BeEmpty())
			Expect(e.Start().ID).To(Equal("A"))
			Expect(e.Len()).To(Equal(3))
		})

		It("fails for an unknown start", func() {
			_, err := traversal.New(triangle, "Z")
			Expect(errors.Is(err, traversal.ErrNotFound)).To(BeTrue())

			var nf *traversal.NotFoundError
			Expect(errors.As(err, &nf)).To(BeTrue())
			Expect(nf.ID).To(Equal("Z"))
		})
	})

	Describe("Step", func() {
		It("picks the closest point to the start first", func() {
			e, _ := traversal.New(triangle, "A")

			batch, err := e.Step(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(batch)).To(Equal([]string{"C"}))
			Expect(batch[0].Distance).To(BeNumerically("~", 1.0, 1e-12))

			batch, err = e.Step(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(batch)).To(Equal([]string{"B"}))
		})

		It("measures from the anchor, not the previous pick", func() {
			pts := map[string]geo.Point{
				"start": {Lng: 0, Lat: 0},
				"near":  {Lng: 1, Lat: 0},
				"mid":   {Lng: -1.5, Lat: 0},
				"chain": {Lng: 1.6, Lat: 0},
			}
			e, _ := traversal.New(pts, "start")

			batch, err := e.Step(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(batch)).To(Equal([]string{"near", "mid", "chain"}))
		})

		It("breaks ties by the smallest identity", func() {
			pts := map[string]geo.Point{
				"o": {Lng: 0, Lat: 0},
				"d": {Lng: 0, Lat: 1},
				"b": {Lng: 1, Lat: 0},
				"c": {Lng: -1, Lat: 0},
			}
			e, _ := traversal.New(pts, "o")

			batch, _ := e.Step(3)
			Expect(ids(batch)).To(Equal([]string{"b", "c", "d"}))
		})

		It("still selects points beyond the distance seed", func() {
			pts := map[string]geo.Point{
				"home": {Lng: 0, Lat: 0},
				"far":  {Lng: 30, Lat: 0},
				"away": {Lng: 0, Lat: 8},
			}
			e, _ := traversal.New(pts, "home")

			batch, err := e.Step(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(batch)).To(Equal([]string{"away", "far"}))
			Expect(batch[0].Distance).To(BeNumerically(">", traversal.DistanceSeed))
		})

		It("replaces the frontier with each batch", func() {
			e, _ := traversal.New(randomPoints(30, 1), "s0000")

			first, _ := e.Step(5)
			Expect(e.Frontier()).To(Equal(first))

			second, _ := e.Step(5)
			Expect(e.Frontier()).To(Equal(second))
			Expect(e.Frontier()).To(HaveLen(5))
			Expect(e.Visited()).To(Equal(11))
		})

		It("returns a short final batch and then ErrExhausted", func() {
			e, _ := traversal.New(triangle, "A")

			batch, err := e.Step(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(batch).To(HaveLen(2))
			Expect(e.Done()).To(BeTrue())

			batch, err = e.Step(5)
			Expect(err).To(MatchError(traversal.ErrExhausted))
			Expect(batch).To(BeEmpty())
			Expect(e.Frontier()).To(BeEmpty())
		})

		It("is exhausted immediately for a lone start", func() {
			e, _ := traversal.New(map[string]geo.Point{"solo": {Lng: 1, Lat: 1}}, "solo")
			Expect(e.Done()).To(BeTrue())

			_, err := e.Step(1)
			Expect(err).To(MatchError(traversal.ErrExhausted))
		})

		It("rejects a non-positive batch", func() {
			e, _ := traversal.New(triangle, "A")
			_, err := e.Step(0)
			Expect(errors.Is(err, traversal.ErrInvalidBatch)).To(BeTrue())
			Expect(e.Visited()).To(Equal(1))
		})

		DescribeTable("terminates after ceil((N-1)/B) steps and covers every point once",
			func(n, b int) {
				pts := randomPoints(n, int64(n*31+b))
				e, err := traversal.New(pts, "s0000")
				Expect(err).NotTo(HaveOccurred())

				seen := map[string]int{"s0000": 1}
				calls := 0
				for !e.Done() {
					batch, err := e.Step(b)
					Expect(err).NotTo(HaveOccurred())
					calls++
					for _, it := range batch {
						seen[it.ID]++
					}
				}

				Expect(calls).To(Equal((n - 1 + b - 1) / b))
				Expect(e.Steps()).To(Equal(calls))
				Expect(seen).To(HaveLen(n))
				for id, count := range seen {
					Expect(count).To(Equal(1), "duplicate %s", id)
				}

				_, err = e.Step(b)
				Expect(err).To(MatchError(traversal.ErrExhausted))
			},
			Entry("single batch", 10, 20),
			Entry("exact multiple", 21, 20),
			Entry("remainder", 100, 20),
			Entry("batch of one", 17, 1),
			Entry("two points", 2, 3),
		)

		It("yields non-decreasing distances from the start", func() {
			e, _ := traversal.New(randomPoints(200, 9), "s0000")

			last := -1.0
			for !e.Done() {
				batch, _ := e.Step(7)
				for _, it := range batch {
					Expect(it.Distance).To(BeNumerically(">=", last))
					last = it.Distance
				}
			}
		})
	})

	Describe("Reset", func() {
		It("restores the initial state and replays the same order", func() {
			e, _ := traversal.New(randomPoints(40, 3), "s0007")

			first, _ := e.Step(10)
			_, _ = e.Step(10)

			e.Reset()
			Expect(e.Visited()).To(Equal(1))
			Expect(e.Remaining()).To(Equal(39))
			Expect(e.Frontier()).To(BeEmpty())
			Expect(e.Steps()).To(BeZero())

			again, _ := e.Step(10)
			Expect(again).To(Equal(first))
		})
	})

	It("does not observe changes to the source map", func() {
		e, _ := traversal.New(triangle, "A")
		triangle["D"] = geo.Point{Lng: 0.1, Lat: 0}

		batch, _ := e.Step(1)
		Expect(batch[0].ID).To(Equal("C"))
		Expect(e.Len()).To(Equal(3))
	})
})
