package search

import (
	"math"
	"time"

	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/section"
)

// Factors are the per-entry ranking inputs, each in [0, 1] before weighting.
type Factors struct {
	Recency      float64 `json:"recency"`
	Relevance    float64 `json:"relevance"`
	Richness     float64 `json:"richness"`
	Structure    float64 `json:"structure"`
	Hierarchical float64 `json:"hierarchical"`
	History      float64 `json:"history"`
	Section      float64 `json:"section"`
}

// total combines factors. Entries with tokens but no matching field get the
// floor score.
func (c Config) total(f Factors, tokens int, matched bool) float64 {
	if tokens > 0 && !matched {
		return c.Floor
	}
	w := c.Weights
	if tokens == 0 {
		return w.Recency*f.Recency + w.History*f.History
	}
	return w.Recency*f.Recency +
		w.Relevance*f.Relevance +
		w.Richness*f.Richness +
		w.Structure*f.Structure +
		w.HierarchicalBonus*f.Hierarchical +
		w.History*f.History +
		w.Section*f.Section
}

// recency blends the file's age with how often it was picked.
func recency(doc *index.Document, frequency float64, now time.Time) float64 {
	age := now.Sub(doc.ModifiedAt).Hours() / 24
	if age < 0 {
		age = 0
	}
	return 0.5*math.Exp(-age/30) + 0.5*(1-math.Exp(-frequency))
}

// relevance weighs where each token matched, normalised so that every token
// matching an article name at its start scores 1. The boolean reports whether
// any token matched any field.
func (c Config) relevance(doc *index.Document, path []section.Ref, text string, tokens []string) (float64, bool) {
	if len(tokens) == 0 {
		return 0, false
	}
	m := c.Multipliers

	sum := 0.0
	matched := false
	for _, token := range tokens {
		best := 0.0
		consider := func(field string, mult float64) {
			ok, start := wordPrefix(field, token)
			if !ok {
				return
			}
			if start {
				mult *= m.Prefix
			}
			best = math.Max(best, mult)
		}

		for _, name := range doc.ArticleNames {
			consider(name, m.Article)
		}
		for _, ref := range path {
			if ref.Kind.Structural() {
				consider(ref.Text, m.Header)
			}
		}
		for _, tag := range doc.Tags {
			consider(tag, m.Tag)
		}
		consider(text, m.Content)

		if best > 0 {
			matched = true
		}
		sum += best
	}

	top := math.Max(math.Max(m.Article, m.Header), math.Max(m.Tag, m.Content)) * m.Prefix
	if top <= 0 {
		return 0, matched
	}
	return math.Min(sum/(float64(len(tokens))*top), 1), matched
}

// richness rewards tagged, substantial documents with code and links.
func richness(doc *index.Document) float64 {
	meta := doc.Meta
	tags := math.Min(float64(len(doc.Tags)), 5) / 5
	words := math.Min(math.Log10(float64(meta.WordCount)+1)/4, 1)
	return (tags + words + boolFactor(meta.HasCode) + boolFactor(meta.HasLinks)) / 4
}

// structure rewards readable line lengths and outlined content.
func structure(doc *index.Document) float64 {
	meta := doc.Meta
	lines := float64(len(doc.Lines))
	if lines == 0 {
		return 0
	}

	share := 0.0
	if nonBlank := meta.ShortLines + meta.MediumLines + meta.LongLines; nonBlank > 0 {
		share = float64(meta.MediumLines) / float64(nonBlank)
	}
	headings := math.Min(float64(len(meta.Headers))/lines*10, 1)
	lists := math.Min(float64(meta.ListItems)/lines*5, 1)
	return (share + headings + lists) / 3
}

// sectionFactor ranks coarse sections above fine ones.
func sectionFactor(priority int) float64 {
	return 1 - float64(priority)/1000
}

func boolFactor(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
