package morph

import "strings"

// diacriticReplacer folds the Latin-1 and common extended diacritics the
// default tokenizer can emit. Forms are already case-folded before this runs.
var diacriticReplacer = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ã", "a", "ä", "a", "å", "a", "ā", "a", "ă", "a",
	"è", "e", "é", "e", "ê", "e", "ë", "e", "ē", "e", "ĕ", "e", "ę", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i", "ī", "i", "ĭ", "i",
	"ò", "o", "ó", "o", "ô", "o", "õ", "o", "ö", "o", "ō", "o", "ŏ", "o", "ø", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u", "ū", "u", "ŭ", "u",
	"ý", "y", "ÿ", "y",
	"ç", "c", "ñ", "n", "š", "s", "ž", "z",
	"æ", "ae", "œ", "oe", "ß", "ss",
)

// Normalize case-folds s and strips diacritics. It is the canonical form used
// as the signature cache key and as the input to all affix rules.
func Normalize(s string) string {
	return diacriticReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}
