package matching

import (
	"fmt"
	"math"

	"github.com/peerconnect/pairing-service/internal/directory"
)

// PairWeights maps candidate pairs to their affinity distance. Higher
// distance means a more desirable (more diverse) pairing, so the distance
// is used directly as the matching edge weight.
type PairWeights map[Pair]float64

// MeetingWeights scores every allowed pair against a directory snapshot.
// The org graph and tenure ceiling are derived from the given roster, never
// from an earlier one.
func MeetingWeights(pairs PairSet, roster *directory.Roster) (PairWeights, error) {
	graph := roster.OrgGraph()
	maxTenure := roster.MaxTenureDays()

	weights := make(PairWeights, len(pairs))
	for pair := range pairs {
		d, err := pairwiseDistance(pair, roster, graph, maxTenure)
		if err != nil {
			return nil, err
		}
		weights[pair] = d
	}
	return weights, nil
}

// pairwiseDistance is a linear combination of four normalized attribute
// distances, each weighted equally:
//
//  1. distance in the org chart
//  2. location (country, city)
//  3. tenure
//  4. spoken languages
func pairwiseDistance(pair Pair, roster *directory.Roster, graph *directory.OrgGraph, maxTenure int) (float64, error) {
	profileA, ok := roster.Profile(pair.A)
	if !ok {
		return 0, fmt.Errorf("employee %d absent from directory snapshot", pair.A)
	}
	profileB, ok := roster.Profile(pair.B)
	if !ok {
		return 0, fmt.Errorf("employee %d absent from directory snapshot", pair.B)
	}

	var distance float64

	// org chart distance, approx. min-max scaled for typical org depths
	hops, err := graph.ShortestPath(pair.A, pair.B)
	if err != nil {
		return 0, err
	}
	distance += float64(hops) / 10

	cityA, countryA, err := profileA.SplitLocation()
	if err != nil {
		return 0, err
	}
	cityB, countryB, err := profileB.SplitLocation()
	if err != nil {
		return 0, err
	}
	locationDist := 0.0
	if countryA != countryB {
		locationDist++
	}
	if cityA != cityB {
		locationDist++
	}
	distance += locationDist / 2

	if maxTenure > 0 {
		tenureDiff := math.Abs(float64(profileA.DaysSinceStart - profileB.DaysSinceStart))
		distance += tenureDiff / float64(maxTenure)
	}

	distance += languageDistance(profileA.Languages, profileB.Languages)

	return distance, nil
}

func languageDistance(a, b []string) float64 {
	return 1 - jaccard(a, b)
}

// jaccard similarity with one quirk carried over from the production
// matcher: an empty intersection yields similarity 1, so users who share no
// recorded languages count as maximally similar on this axis.
func jaccard(a, b []string) float64 {
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	intersection := 0
	counted := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := counted[s]; dup {
			continue
		}
		counted[s] = struct{}{}
		if _, ok := seen[s]; ok {
			intersection++
		}
	}
	if intersection == 0 {
		return 1
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
