// Package dialect annotates colloquial Arabic terms with their Modern
// Standard Arabic (fusha) equivalents.
//
// The mapping is an ordered list loaded from configuration, empty by
// default; deployments extend it without code changes. Annotation keeps
// the dialect term and appends the fusha form in parentheses, e.g.
// "كتير" with mapping كتير→كثير becomes "كتير (كثير)".
package dialect

import "strings"

// Entry maps one dialect term to its fusha form.
type Entry struct {
	Dialect string `json:"dialect" yaml:"dialect" mapstructure:"dialect"`
	Fusha   string `json:"fusha" yaml:"fusha" mapstructure:"fusha"`
}

// Annotator applies an ordered dialect mapping to text. It is read-only
// after construction and safe for concurrent use.
type Annotator struct {
	entries []Entry
}

// New creates an Annotator over the given entries. Entry order is
// substitution order.
func New(entries []Entry) *Annotator {
	return &Annotator{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of mapping entries.
func (a *Annotator) Len() int { return len(a.entries) }

// Annotate rewrites text, replacing every occurrence of each dialect term
// with "term (fusha)". Entries are applied in order against the already
// rewritten string, so a fusha form containing a later dialect term is
// annotated again. That compounding is intentional contract behavior;
// do not reorder or deduplicate here.
func (a *Annotator) Annotate(text string) string {
	processed := text
	for _, e := range a.entries {
		if strings.Contains(processed, e.Dialect) {
			processed = strings.ReplaceAll(processed, e.Dialect, e.Dialect+" ("+e.Fusha+")")
		}
	}
	return processed
}
