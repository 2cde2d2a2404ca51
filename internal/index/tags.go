package index

import (
	"sort"
	"strings"
)

// TagCount is the number of documents carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagCounts tallies tags across docs, merging case variants under the first
// spelling seen. The result is sorted by count descending, then tag.
func TagCounts(docs []*Document) []TagCount {
	counts := make(map[string]*TagCount)
	var order []string
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			key := strings.ToLower(tag)
			tc, ok := counts[key]
			if !ok {
				tc = &TagCount{Tag: tag}
				counts[key] = tc
				order = append(order, key)
			}
			tc.Count++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, key := range order {
		out = append(out, *counts[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Tag) < strings.ToLower(out[j].Tag)
	})
	return out
}

// Excerpt returns the lines of the section opened at line, or the line alone
// when it opens none.
func (d *Document) Excerpt(line int) []string {
	idx, ok := d.Tree.At(line)
	if !ok {
		if text := d.Line(line); text != "" {
			return []string{text}
		}
		return nil
	}
	s := d.Tree.Sections[idx]
	end := s.End
	if end > len(d.Lines) {
		end = len(d.Lines)
	}
	return d.Lines[s.Start-1 : end]
}
