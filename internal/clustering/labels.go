package clustering

import "strings"

// labelRule pairs a keyword family with the human-readable role label it
// implies.
type labelRule struct {
	label    string
	keywords map[string]bool
}

// labelRules is an ordered first-match chain. The priority (ML, then
// frontend, then data, then backend) is deliberate: the families overlap
// ("sql" is both a data and a backend keyword), so reordering changes labels.
var labelRules = []labelRule{
	{
		label: "AI / ML Engineer",
		keywords: keywordSet("tensorflow", "pytorch", "deep learning", "nlp",
			"computer vision", "keras", "scikit-learn", "ml"),
	},
	{
		label:    "Frontend Engineer",
		keywords: keywordSet("react", "angular", "vue", "javascript", "typescript", "frontend"),
	},
	{
		label:    "Data Scientist",
		keywords: keywordSet("pandas", "spark", "hadoop", "sql", "nosql", "bigquery", "dataframe"),
	},
	{
		label: "Backend Engineer",
		keywords: keywordSet("flask", "django", "rest_api", "rest", "api", "docker",
			"kubernetes", "sql", "postgresql", "mysql"),
	},
}

// fallbackLabel is used when no keyword family matches.
const fallbackLabel = "Other"

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// InferRoleLabel maps a cluster's top skills to a role label via the ordered
// keyword families above. Matching is case-insensitive on whole skill ids.
func InferRoleLabel(topSkills []string) string {
	lowered := make(map[string]bool, len(topSkills))
	for _, s := range topSkills {
		lowered[strings.ToLower(s)] = true
	}

	for _, rule := range labelRules {
		for skill := range lowered {
			if rule.keywords[skill] {
				return rule.label
			}
		}
	}
	return fallbackLabel
}
