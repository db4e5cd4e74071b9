package extraction

import (
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/pkg/utils"
)

// AgeGroupClassifier labels a post with the first age rule its text matches.
type AgeGroupClassifier struct {
	rules []AgeRule
}

// NewAgeGroupClassifier uses the age rules of rules, in order.
func NewAgeGroupClassifier(rules *Rules) *AgeGroupClassifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &AgeGroupClassifier{rules: rules.AgeRules}
}

// Classify returns the age group for title and body, or AgeGroupUnclassified when no rule matches.
func (c *AgeGroupClassifier) Classify(title, body string) entities.AgeGroup {
	text := utils.TurkishLower(title + "\n" + StripTags(body))
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(text) {
			return rule.Group
		}
	}
	return entities.AgeGroupUnclassified
}
