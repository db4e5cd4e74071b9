package evaluation

import "github.com/zatekoja/recipemigration/pkg/utils"

func foldSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if f := utils.Fold(item); f != "" {
			set[f] = struct{}{}
		}
	}
	return set
}

// Recall computes the fraction of expected names found among the extracted names.
// Names are compared case- and diacritic-insensitively. Returns 0.0 if expected is empty.
func Recall(expected, extracted []string) float64 {
	want := foldSet(expected)
	if len(want) == 0 {
		return 0.0
	}

	got := foldSet(extracted)
	found := 0
	for name := range want {
		if _, ok := got[name]; ok {
			found++
		}
	}
	return float64(found) / float64(len(want))
}

// Precision computes the fraction of extracted names that were expected.
// Returns 0.0 if nothing was extracted.
func Precision(expected, extracted []string) float64 {
	got := foldSet(extracted)
	if len(got) == 0 {
		return 0.0
	}

	want := foldSet(expected)
	correct := 0
	for name := range got {
		if _, ok := want[name]; ok {
			correct++
		}
	}
	return float64(correct) / float64(len(got))
}
