package entities

// AgeGroup is the target-age bucket of a recipe. The zero value means unclassified.
type AgeGroup string

const (
	AgeGroupUnclassified      AgeGroup = ""
	AgeGroupEarlyIntroduction AgeGroup = "early-introduction"
	AgeGroupExploration       AgeGroup = "exploration"
	AgeGroupTransition        AgeGroup = "transition"
	AgeGroupToddlerPlus       AgeGroup = "toddler-plus"
)

var ageGroupLabels = map[AgeGroup]string{
	AgeGroupEarlyIntroduction: "6-8 Ay",
	AgeGroupExploration:       "9-11 Ay",
	AgeGroupTransition:        "12-24 Ay",
	AgeGroupToddlerPlus:       "2 Yaş ve Üzeri",
}

// Label returns the display name used for the age-group taxonomy term
func (a AgeGroup) Label() string {
	return ageGroupLabels[a]
}

// IsValid reports whether a is one of the known buckets
func (a AgeGroup) IsValid() bool {
	_, ok := ageGroupLabels[a]
	return ok
}

// AllAgeGroups lists the known buckets from youngest to oldest
func AllAgeGroups() []AgeGroup {
	return []AgeGroup{
		AgeGroupEarlyIntroduction,
		AgeGroupExploration,
		AgeGroupTransition,
		AgeGroupToddlerPlus,
	}
}
