package search

// Weights scale each ranking factor in the total score.
type Weights struct {
	Recency           float64 `yaml:"recency" json:"recency"`
	Relevance         float64 `yaml:"relevance" json:"relevance"`
	Richness          float64 `yaml:"richness" json:"richness"`
	Structure         float64 `yaml:"structure" json:"structure"`
	HierarchicalBonus float64 `yaml:"hierarchical_bonus" json:"hierarchical_bonus"`
	History           float64 `yaml:"history" json:"history"`
	Section           float64 `yaml:"section" json:"section"`
}

// Multipliers weigh where a token matched. Prefix applies on top of the field
// multiplier when the token matches at the very start of the field.
type Multipliers struct {
	Article float64 `yaml:"article" json:"article"`
	Header  float64 `yaml:"header" json:"header"`
	Tag     float64 `yaml:"tag" json:"tag"`
	Content float64 `yaml:"content" json:"content"`
	Prefix  float64 `yaml:"prefix" json:"prefix"`
}

// Config describes ranking behavior.
type Config struct {
	Weights     Weights     `yaml:"weights" json:"weights"`
	Multipliers Multipliers `yaml:"multipliers" json:"multipliers"`
	// Floor is the score of an entry none of whose fields matched a token.
	Floor float64 `yaml:"floor" json:"floor"`
	// MaxResults caps the result list; zero means unlimited.
	MaxResults          int    `yaml:"max_results" json:"max_results"`
	BreadcrumbSeparator string `yaml:"breadcrumb_separator" json:"breadcrumb_separator"`
}

// DefaultConfig returns the stock ranking tuning.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Recency:           5.0,
			Relevance:         5.0,
			Richness:          1.0,
			Structure:         1.0,
			HierarchicalBonus: 10.0,
			History:           3.0,
			Section:           2.0,
		},
		Multipliers: Multipliers{
			Article: 3.0,
			Header:  2.0,
			Tag:     1.5,
			Content: 1.0,
			Prefix:  1.5,
		},
		Floor:               0.01,
		BreadcrumbSeparator: ">",
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Weights == (Weights{}) {
		c.Weights = def.Weights
	}
	if c.Multipliers == (Multipliers{}) {
		c.Multipliers = def.Multipliers
	}
	if c.Multipliers.Prefix < 1 {
		c.Multipliers.Prefix = 1
	}
	if c.Floor <= 0 {
		c.Floor = def.Floor
	}
	if c.BreadcrumbSeparator == "" {
		c.BreadcrumbSeparator = def.BreadcrumbSeparator
	}
	return c
}
