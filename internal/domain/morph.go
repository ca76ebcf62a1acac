package domain

// MorphSignature is the morphological decomposition of a token form.
// Derived deterministically from the normalized form, so it is safe to cache
// per unique form.
type MorphSignature struct {
	Root    string
	Affixes []string
	Family  string
}

// NullSignature is the sentinel signature for malformed (empty) input.
// Downstream stages always receive a signature, never an error.
func NullSignature() MorphSignature {
	return MorphSignature{}
}

// IsNull reports whether the signature is the malformed-input sentinel.
func (m MorphSignature) IsNull() bool {
	return m.Root == "" && m.Family == "" && len(m.Affixes) == 0
}

// SelfFamily builds the signature for a form with no matching affix rule:
// the form is its own root and family.
func SelfFamily(form string) MorphSignature {
	return MorphSignature{Root: form, Family: form}
}
