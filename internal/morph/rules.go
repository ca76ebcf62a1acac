package morph

import (
	"sort"

	"github.com/kailas-cloud/glyphdex/internal/domain"
)

// Rule attempts a morphological decomposition of a normalized form.
// Rules are tried in registration order; the first match wins. A rule that
// does not recognize the form returns ok=false so later rules get a chance.
type Rule interface {
	Apply(form string) (domain.MorphSignature, bool)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(form string) (domain.MorphSignature, bool)

// Apply implements Rule.
func (f RuleFunc) Apply(form string) (domain.MorphSignature, bool) { return f(form) }

// minRootLen is the smallest residue accepted after stripping affixes.
// Shorter residues mean the "affix" ate the root.
const minRootLen = 3

// defaultPrefixes lists the recognized prefixes. Matching is longest-first.
var defaultPrefixes = []string{
	"in", "ex", "at", "ob", "op", "ad", "ab", "im", "il", "ir", "un",
	"re", "be", "de", "bi", "en", "em", "non", "mis", "mal", "dis",
	"con", "com", "sub", "sup", "pre", "pro", "per", "mid", "for",
	"out", "up", "down", "fore", "post", "anti", "counter", "super",
	"inter", "trans", "circum", "extra", "intra", "with", "after",
	"under", "over", "hyper", "hypo", "meta", "para", "proto",
	"syn", "sym", "neo", "paleo", "auto", "mono", "uni", "multi",
	"poly", "semi", "omni", "dia", "epi", "amphi", "peri",
}

// defaultSuffixes lists the recognized suffixes. Matching is longest-first.
var defaultSuffixes = []string{
	"ment", "hood", "ship", "dom", "ness", "able", "ible", "ful", "less",
	"ish", "ist", "ism",
	"er", "ing", "ed", "tion", "ion", "sion", "al", "ly",
	"es", "s", "est", "age", "ance", "ence", "ant", "ent",
	"ary", "ory", "ate", "ee", "ette", "ure", "th", "try",
	"ic", "ical", "ile", "ine", "oid", "ose", "ous", "ward",
	"en", "fy", "ify", "ize", "ise", "ation", "ative", "ition", "y",
}

// greekRoots and greekSuffixes drive the Greek-compound rule.
var greekRoots = []string{
	"bio", "psych", "geo", "theo", "photo", "demo", "mono",
	"aristo", "bureau", "tele", "phon",
}

var greekSuffixes = []string{
	"ology", "graphy", "archy", "cracy", "logy",
}

// AffixRule strips one known prefix and one known suffix, longest-first,
// from a normalized form.
type AffixRule struct {
	prefixes []string
	suffixes []string
}

// NewAffixRule creates an affix rule. Both lists are copied and ordered
// longest-first so a longer affix always beats its own prefix/suffix.
func NewAffixRule(prefixes, suffixes []string) *AffixRule {
	r := &AffixRule{
		prefixes: append([]string(nil), prefixes...),
		suffixes: append([]string(nil), suffixes...),
	}
	byLen := func(xs []string) func(i, j int) bool {
		return func(i, j int) bool {
			if len(xs[i]) != len(xs[j]) {
				return len(xs[i]) > len(xs[j])
			}
			return xs[i] < xs[j]
		}
	}
	sort.Slice(r.prefixes, byLen(r.prefixes))
	sort.Slice(r.suffixes, byLen(r.suffixes))
	return r
}

// Apply strips affixes from form. It reports ok=false when no affix matched.
func (r *AffixRule) Apply(form string) (domain.MorphSignature, bool) {
	root := form
	var affixes []string

	for _, p := range r.prefixes {
		if len(root) >= len(p)+minRootLen && root[:len(p)] == p {
			affixes = append(affixes, p)
			root = root[len(p):]
			break
		}
	}
	for _, s := range r.suffixes {
		if len(root) >= len(s)+minRootLen && root[len(root)-len(s):] == s {
			affixes = append(affixes, s)
			root = root[:len(root)-len(s)]
			break
		}
	}

	if len(affixes) == 0 {
		return domain.MorphSignature{}, false
	}
	return domain.MorphSignature{Root: root, Affixes: affixes, Family: Stem(root)}, true
}

// GreekCompoundRule matches forms built from a Greek root plus a Greek
// suffix (biology, democracy). The root identifies the family.
type GreekCompoundRule struct{}

// Apply implements Rule.
func (GreekCompoundRule) Apply(form string) (domain.MorphSignature, bool) {
	for _, root := range greekRoots {
		if len(form) <= len(root) || form[:len(root)] != root {
			continue
		}
		rest := form[len(root):]
		for _, suf := range greekSuffixes {
			if rest == suf {
				return domain.MorphSignature{Root: root, Affixes: []string{suf}, Family: root}, true
			}
		}
	}
	return domain.MorphSignature{}, false
}

// DefaultRules returns the standard rule chain: Greek compounds first, then
// general affix stripping. Callers may register additional rules; new rules
// extend the chain without touching the pipeline.
func DefaultRules() []Rule {
	return []Rule{
		GreekCompoundRule{},
		NewAffixRule(defaultPrefixes, defaultSuffixes),
	}
}

// Stem reduces a root to its lexical family key: trailing plural "s"
// (but not "ss"), trailing silent "e", and a doubled final consonant are
// trimmed. Purely mechanical so equal roots always land in the same family.
func Stem(root string) string {
	r := root
	if n := len(r); n > minRootLen && r[n-1] == 's' && r[n-2] != 's' {
		r = r[:n-1]
	}
	if n := len(r); n > minRootLen && r[n-1] == 'e' {
		r = r[:n-1]
	}
	if n := len(r); n > minRootLen && r[n-1] == r[n-2] && !isVowel(r[n-1]) && r[n-1] != 's' {
		r = r[:n-1]
	}
	return r
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
