package evaluation

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestRecall_AllExpectedFound(t *testing.T) {
	got := Recall([]string{"havuç", "patates"}, []string{"Havuç", "Patates", "Su"})
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestRecall_SomeMissing(t *testing.T) {
	got := Recall([]string{"havuç", "patates", "kabak", "su"}, []string{"Havuç", "Su"})
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestRecall_FoldsTurkishCharacters(t *testing.T) {
	got := Recall([]string{"Kırmızı mercimek"}, []string{"KIRMIZI MERCİMEK"})
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestRecall_NoExpected(t *testing.T) {
	got := Recall(nil, []string{"a"})
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestPrecision_ExtraNames(t *testing.T) {
	got := Precision([]string{"havuç"}, []string{"Havuç", "Afiyet olsun"})
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestPrecision_NothingExtracted(t *testing.T) {
	got := Precision([]string{"havuç"}, nil)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestPrecision_DuplicatesCountOnce(t *testing.T) {
	got := Precision([]string{"su"}, []string{"Su", "su", "SU"})
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}
