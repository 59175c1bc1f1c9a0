package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// labelMetrics holds per-class precision/recall/F1 with support.
type labelMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Accuracy is the fraction of exact matches.
func Accuracy(yTrue, yPred []string) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// UnionLabels returns the sorted union of true and predicted labels.
func UnionLabels(yTrue, yPred []string) []string {
	set := make(map[string]struct{})
	for _, l := range yTrue {
		set[l] = struct{}{}
	}
	for _, l := range yPred {
		set[l] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// ConfusionMatrix computes the labels×labels matrix: rows are true
// labels, columns predicted, both in the given order.
func ConfusionMatrix(yTrue, yPred, labels []string) [][]int {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	matrix := make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		matrix[index[yTrue[i]]][index[yPred[i]]]++
	}
	return matrix
}

// F1Scores computes macro and support-weighted F1. Classes with zero
// predicted or true instances contribute 0, never NaN.
func F1Scores(yTrue, yPred, labels []string) (macro, weighted float64) {
	per := perLabelMetrics(yTrue, yPred, labels)

	total := 0
	for _, m := range per {
		macro += m.F1
		weighted += m.F1 * float64(m.Support)
		total += m.Support
	}
	if len(per) > 0 {
		macro /= float64(len(per))
	}
	if total > 0 {
		weighted /= float64(total)
	}
	return macro, weighted
}

// ClassificationReport renders per-class precision/recall/F1/support in
// a fixed-width table, plus accuracy and macro/weighted averages.
func ClassificationReport(yTrue, yPred, labels []string) string {
	per := perLabelMetrics(yTrue, yPred, labels)

	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	b.WriteString("\n")

	total := 0
	for _, label := range labels {
		m := per[label]
		fmt.Fprintf(&b, "%-12s %9.2f %9.2f %9.2f %9d\n", label, m.Precision, m.Recall, m.F1, m.Support)
		total += m.Support
	}

	macro, weighted := F1Scores(yTrue, yPred, labels)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-12s %9s %9s %9.2f %9d\n", "accuracy", "", "", Accuracy(yTrue, yPred), total)
	fmt.Fprintf(&b, "%-12s %29.2f %9d\n", "macro f1", macro, total)
	fmt.Fprintf(&b, "%-12s %29.2f %9d\n", "weighted f1", weighted, total)
	return b.String()
}

func perLabelMetrics(yTrue, yPred, labels []string) map[string]labelMetrics {
	out := make(map[string]labelMetrics, len(labels))
	for _, label := range labels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yTrue[i] == label && yPred[i] == label:
				tp++
			case yTrue[i] != label && yPred[i] == label:
				fp++
			case yTrue[i] == label && yPred[i] != label:
				fn++
			}
		}

		var precision, recall, f1 float64
		if tp+fp > 0 {
			precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			recall = float64(tp) / float64(tp+fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		out[label] = labelMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   tp + fn,
		}
	}
	return out
}
