package rdf

import (
	"slices"
	"sort"
	"strings"
)

// AreGraphsIsomorphic checks if two sets of triples are isomorphic,
// accounting for blank node label differences.
// Two graphs are isomorphic if there exists a bijection between their
// blank nodes such that when applied, the graphs are identical.
func AreGraphsIsomorphic(expected, actual []*Triple) bool {
	if len(expected) != len(actual) {
		return false
	}

	expectedBlanks := extractBlankNodeLabels(expected)
	actualBlanks := extractBlankNodeLabels(actual)
	if len(expectedBlanks) != len(actualBlanks) {
		return false
	}

	if len(expectedBlanks) == 0 {
		return simpleCompare(expected, actual)
	}

	// match high-degree nodes first
	expectedBlanks = sortByDegree(expectedBlanks, expected)
	actualBlanks = sortByDegree(actualBlanks, actual)

	actualSet := make(map[string]bool, len(actual))
	for _, triple := range actual {
		actualSet[isoKey(triple, nil)] = true
	}

	mapping := make(map[string]string)
	usedTargets := make(map[string]bool)
	return backtrack(expected, actualSet, expectedBlanks, actualBlanks, mapping, usedTargets, 0)
}

// IsomorphicTo reports whether g and other contain the same triples up to
// blank node relabeling.
func (g *Graph) IsomorphicTo(other *Graph) bool {
	return AreGraphsIsomorphic(slices.Collect(g.Triples()), slices.Collect(other.Triples()))
}

// extractBlankNodeLabels extracts all unique blank node labels from a set of triples
func extractBlankNodeLabels(triples []*Triple) []string {
	blanks := make(map[string]bool)
	for _, triple := range triples {
		if b, ok := triple.Subject.(*BlankNode); ok {
			blanks[b.ID] = true
		}
		if b, ok := triple.Object.(*BlankNode); ok {
			blanks[b.ID] = true
		}
	}

	result := make([]string, 0, len(blanks))
	for label := range blanks {
		result = append(result, label)
	}
	sort.Strings(result)
	return result
}

// sortByDegree sorts blank nodes by the number of triples they appear in
func sortByDegree(blanks []string, triples []*Triple) []string {
	degrees := make(map[string]int)
	for _, triple := range triples {
		if b, ok := triple.Subject.(*BlankNode); ok {
			degrees[b.ID]++
		}
		if b, ok := triple.Object.(*BlankNode); ok {
			degrees[b.ID]++
		}
	}

	sort.SliceStable(blanks, func(i, j int) bool {
		return degrees[blanks[i]] > degrees[blanks[j]]
	})
	return blanks
}

// simpleCompare compares two triple sets without considering blank node isomorphism
func simpleCompare(expected, actual []*Triple) bool {
	expectedMap := make(map[string]bool)
	for _, triple := range expected {
		expectedMap[isoKey(triple, nil)] = true
	}

	for _, triple := range actual {
		if !expectedMap[isoKey(triple, nil)] {
			return false
		}
	}
	return true
}

// backtrack recursively tries to find a valid mapping between blank nodes
func backtrack(expected []*Triple, actualSet map[string]bool, expectedBlanks, actualBlanks []string,
	mapping map[string]string, usedTargets map[string]bool, index int) bool {

	if index == len(expectedBlanks) {
		return verifyMapping(expected, actualSet, mapping)
	}

	currentBlank := expectedBlanks[index]
	for _, candidateBlank := range actualBlanks {
		if usedTargets[candidateBlank] {
			continue
		}

		mapping[currentBlank] = candidateBlank
		usedTargets[candidateBlank] = true

		if isConsistentSoFar(expected, actualSet, mapping) {
			if backtrack(expected, actualSet, expectedBlanks, actualBlanks, mapping, usedTargets, index+1) {
				return true
			}
		}

		delete(mapping, currentBlank)
		delete(usedTargets, candidateBlank)
	}
	return false
}

func isMapped(n Node, mapping map[string]string) bool {
	if b, ok := n.(*BlankNode); ok {
		_, exists := mapping[b.ID]
		return exists
	}
	return true
}

// isConsistentSoFar checks that every expected triple whose blank nodes are
// all mapped has a counterpart in actual.
func isConsistentSoFar(expected []*Triple, actualSet map[string]bool, mapping map[string]string) bool {
	for _, triple := range expected {
		if isMapped(triple.Subject, mapping) && isMapped(triple.Object, mapping) {
			if !actualSet[isoKey(triple, mapping)] {
				return false
			}
		}
	}
	return true
}

// verifyMapping checks if the given mapping makes the graphs identical
func verifyMapping(expected []*Triple, actualSet map[string]bool, mapping map[string]string) bool {
	expectedMapped := make(map[string]bool)
	for _, triple := range expected {
		expectedMapped[isoKey(triple, mapping)] = true
	}

	if len(expectedMapped) != len(actualSet) {
		return false
	}
	for key := range expectedMapped {
		if !actualSet[key] {
			return false
		}
	}
	return true
}

// isoKey creates a string key for a triple, applying blank node mapping if provided
func isoKey(triple *Triple, mapping map[string]string) string {
	var b strings.Builder
	b.WriteString(termString(triple.Subject, mapping))
	b.WriteByte('|')
	b.WriteString(termString(triple.Predicate, mapping))
	b.WriteByte('|')
	b.WriteString(termString(triple.Object, mapping))
	return b.String()
}

// termString converts a node to string, applying blank node mapping if applicable
func termString(n Node, mapping map[string]string) string {
	if b, ok := n.(*BlankNode); ok && mapping != nil {
		if mapped, exists := mapping[b.ID]; exists {
			return "_:" + mapped
		}
	}
	return nodeString(n)
}
