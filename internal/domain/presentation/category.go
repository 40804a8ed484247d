package presentation

// CategoryBlurb describes a job role category on the dashboard.
type CategoryBlurb struct {
	Category string
	Summary  string
	Fallback bool
}

const fallbackSummary = "Explore the roles available in this area."

var categorySummaries = map[string]string{
	"Cloud Computing":      "Roles in cloud architecture, DevOps, and infrastructure.",
	"AIML":                 "Careers in machine learning, data science, and AI.",
	"Data Analytics":       "Positions in data analysis, visualization, and BI.",
	"Aerospace":            "Jobs in aerospace engineering and design.",
	"Business":             "Roles in product and project management.",
	"Software Development": "Roles building web frontends, backends, and APIs.",
	"Design":               "Roles crafting user research, flows, and interfaces.",
	"Operations":           "Roles running deployment pipelines and infrastructure.",
	"Security":             "Roles protecting systems, networks, and data.",
}

// DescribeCategory never returns an empty summary: unmapped categories get
// the fallback text with Fallback set.
func DescribeCategory(category string) CategoryBlurb {
	if s, ok := categorySummaries[category]; ok {
		return CategoryBlurb{Category: category, Summary: s}
	}
	return CategoryBlurb{Category: category, Summary: fallbackSummary, Fallback: true}
}
