package matching

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/peerconnect/pairing-service/internal"
	"github.com/peerconnect/pairing-service/internal/directory"
)

var _ = Describe("languageDistance", func() {
	It("treats two users without recorded languages as maximally similar", func() {
		Expect(languageDistance(nil, nil)).To(Equal(0.0))
	})

	It("treats users with disjoint languages as maximally similar too", func() {
		// zero-intersection quirk: similarity 1, not 0
		Expect(languageDistance([]string{"en"}, []string{"fr"})).To(Equal(0.0))
	})

	It("is zero for identical language sets", func() {
		Expect(languageDistance([]string{"en"}, []string{"en"})).To(Equal(0.0))
	})

	It("scales with the shared fraction of languages", func() {
		Expect(languageDistance([]string{"en", "de"}, []string{"en"})).To(Equal(0.5))
	})

	It("ignores duplicate entries in either list", func() {
		Expect(jaccard([]string{"en"}, []string{"en", "en"})).To(Equal(0.5))
	})
})

var _ = Describe("MeetingWeights", func() {
	newRoster := func() *directory.Roster {
		return directory.NewRoster([]directory.EmployeeProfile{
			{EmployeeID: 1, ManagerID: 100, Location: "Berlin, Germany", DaysSinceStart: 100, Languages: []string{"en", "de"}},
			{EmployeeID: 2, ManagerID: 100, Location: "Berlin, Germany", DaysSinceStart: 300, Languages: []string{"en"}},
			{EmployeeID: 3, ManagerID: 101, Location: "London, UK", DaysSinceStart: 300, Languages: []string{"en"}},
			{EmployeeID: 100, ManagerID: 101, Location: "Berlin, Germany", DaysSinceStart: 2000, Languages: []string{"en"}},
			{EmployeeID: 101, ManagerID: 101, Location: "London, UK", DaysSinceStart: 3000, Languages: []string{"en"}},
		})
	}

	It("combines the four normalized attribute distances", func() {
		pairs := make(PairSet)
		pairs.Add(NewPair(1, 2))

		weights, err := MeetingWeights(pairs, newRoster())
		Expect(err).ToNot(HaveOccurred())

		// two hops via the shared manager, same location, 200 of 3000
		// tenure days apart, half the languages shared
		expected := 2.0/10 + 0.0/2 + 200.0/3000 + 0.5
		Expect(weights[NewPair(1, 2)]).To(BeNumerically("~", expected, 1e-9))
	})

	It("scores cross-location pairs as more distant", func() {
		pairs := make(PairSet)
		pairs.Add(NewPair(1, 2))
		pairs.Add(NewPair(1, 3))

		weights, err := MeetingWeights(pairs, newRoster())
		Expect(err).ToNot(HaveOccurred())
		Expect(weights[NewPair(1, 3)]).To(BeNumerically(">", weights[NewPair(1, 2)]))
	})

	It("derives the tenure ceiling from the given snapshot", func() {
		shallow := directory.NewRoster([]directory.EmployeeProfile{
			{EmployeeID: 1, ManagerID: 2, Location: "Berlin, Germany", DaysSinceStart: 100, Languages: []string{"en"}},
			{EmployeeID: 2, ManagerID: 1, Location: "Berlin, Germany", DaysSinceStart: 300, Languages: []string{"en"}},
		})
		pairs := make(PairSet)
		pairs.Add(NewPair(1, 2))

		weights, err := MeetingWeights(pairs, shallow)
		Expect(err).ToNot(HaveOccurred())

		// ceiling is 300 here, not an inherited constant
		expected := 1.0/10 + 0 + 200.0/300 + 0
		Expect(weights[NewPair(1, 2)]).To(BeNumerically("~", expected, 1e-9))
	})

	It("propagates a connectivity error for split reporting lines", func() {
		split := directory.NewRoster([]directory.EmployeeProfile{
			{EmployeeID: 1, ManagerID: 50, Location: "Berlin, Germany", DaysSinceStart: 100, Languages: []string{"en"}},
			{EmployeeID: 2, ManagerID: 60, Location: "Berlin, Germany", DaysSinceStart: 300, Languages: []string{"en"}},
		})
		pairs := make(PairSet)
		pairs.Add(NewPair(1, 2))

		_, err := MeetingWeights(pairs, split)
		Expect(err).To(HaveOccurred())

		var appErr *apperrors.AppError
		Expect(errors.As(err, &appErr)).To(BeTrue())
		Expect(appErr.Code).To(Equal(apperrors.ErrCodeOrgGraphDisconnected))
	})

	It("fails when a pair member is absent from the snapshot", func() {
		pairs := make(PairSet)
		pairs.Add(NewPair(1, 999))

		_, err := MeetingWeights(pairs, newRoster())
		Expect(err).To(HaveOccurred())
	})
})
