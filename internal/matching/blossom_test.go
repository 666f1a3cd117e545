package matching

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("maxWeightMatching", func() {
	Context("with trivial inputs", func() {
		It("returns an empty mate array for no edges", func() {
			Expect(maxWeightMatching(nil)).To(BeEmpty())
		})

		It("matches a single edge", func() {
			mate := maxWeightMatching([]weightedEdge{{i: 0, j: 1, w: 1}})
			Expect(mate).To(Equal([]int{1, 0}))
		})

		It("picks the heavier edge on a two-edge path", func() {
			mate := maxWeightMatching([]weightedEdge{
				{i: 0, j: 1, w: 2},
				{i: 1, j: 2, w: 3},
			})
			Expect(mate).To(Equal([]int{-1, 2, 1}))
		})
	})

	Context("when a greedy strategy would be suboptimal", func() {
		It("prefers two lighter edges over one heavy middle edge", func() {
			// greedy takes (1,2)=10 for a total of 10; the optimum is
			// (0,1)+(2,3) for a total of 12
			mate := maxWeightMatching([]weightedEdge{
				{i: 0, j: 1, w: 6},
				{i: 1, j: 2, w: 10},
				{i: 2, j: 3, w: 6},
			})
			Expect(mate).To(Equal([]int{1, 0, 3, 2}))
		})

		It("keeps the heavy middle edge when the ends are too light", func() {
			mate := maxWeightMatching([]weightedEdge{
				{i: 0, j: 1, w: 5},
				{i: 1, j: 2, w: 11},
				{i: 2, j: 3, w: 5},
			})
			Expect(mate).To(Equal([]int{-1, 2, 1, -1}))
		})
	})

	Context("with odd cycles", func() {
		It("solves a triangle plus pendant vertex via blossom shrinking", func() {
			mate := maxWeightMatching([]weightedEdge{
				{i: 0, j: 1, w: 8},
				{i: 0, j: 2, w: 9},
				{i: 1, j: 2, w: 10},
				{i: 2, j: 3, w: 7},
			})
			Expect(mate).To(Equal([]int{1, 0, 3, 2}))
		})

		It("solves nested blossoms", func() {
			mate := maxWeightMatching([]weightedEdge{
				{i: 0, j: 1, w: 9},
				{i: 0, j: 2, w: 9},
				{i: 1, j: 2, w: 10},
				{i: 1, j: 3, w: 8},
				{i: 2, j: 4, w: 8},
				{i: 3, j: 4, w: 10},
				{i: 4, j: 5, w: 6},
			})
			Expect(mate).To(Equal([]int{2, 3, 0, 1, 5, 4}))
		})
	})

	It("produces a symmetric matching", func() {
		mate := maxWeightMatching([]weightedEdge{
			{i: 0, j: 1, w: 3},
			{i: 1, j: 2, w: 4},
			{i: 2, j: 3, w: 5},
			{i: 3, j: 0, w: 4},
		})
		for v, w := range mate {
			if w >= 0 {
				Expect(mate[w]).To(Equal(v))
			}
		}
	})
})
