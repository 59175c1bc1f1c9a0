package topics

import "strings"

// englishStopwords is the stopword list applied by the TF-IDF vectorizer.
// Modeling runs on the English statement variant, so only English terms
// are filtered.
var englishStopwords = buildStopwords(`
a about above after again against all am an and any are aren as at be
because been before being below between both but by can cannot could
couldn did didn do does doesn doing don down during each few for from
further had hadn has hasn have haven having he her here hers herself him
himself his how i if in into is isn it its itself just let me might
mightn more most must mustn my myself needn no nor not now of off on
once only or other our ours ourselves out over own same shall shan she
should shouldn so some such than that the their theirs them themselves
then there these they this those through to too under until up very was
wasn we were weren what when where which while who whom why will with
won would wouldn you your yours yourself yourselves
`)

func buildStopwords(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

func isStopword(word string) bool {
	_, ok := englishStopwords[word]
	return ok
}
