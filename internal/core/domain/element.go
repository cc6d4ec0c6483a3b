package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ElementKind identifies the kind of text element in a document structure.
type ElementKind int

// Available element kinds.
const (
	KindTitle ElementKind = iota + 1
	KindMeta
	KindH1
	KindH2
	KindH3
)

// String returns the key prefix of the kind.
func (k ElementKind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindMeta:
		return "meta"
	case KindH1:
		return "h1"
	case KindH2:
		return "h2"
	case KindH3:
		return "h3"
	default:
		return "unknown"
	}
}

// IsCore returns true for the top-level triad: title, meta and H1.
func (k ElementKind) IsCore() bool {
	return k == KindTitle || k == KindMeta || k == KindH1
}

// IsIndexed returns true for kinds that occur more than once (H2, H3).
func (k ElementKind) IsIndexed() bool {
	return k == KindH2 || k == KindH3
}

// ElementKey identifies one text element of a document.
// Index is only meaningful for H2 and H3 elements.
type ElementKey struct {
	Kind  ElementKind
	Index int
}

// Well-known keys of the core elements.
var (
	KeyTitle = ElementKey{Kind: KindTitle}
	KeyMeta  = ElementKey{Kind: KindMeta}
	KeyH1    = ElementKey{Kind: KindH1}
)

// H2Key returns the key of the i-th H2 heading.
func H2Key(i int) ElementKey {
	return ElementKey{Kind: KindH2, Index: i}
}

// H3Key returns the key of the i-th H3 heading.
func H3Key(i int) ElementKey {
	return ElementKey{Kind: KindH3, Index: i}
}

// String renders the stable external key: "title", "meta", "h1", "h2_{i}" or "h3_{i}".
func (k ElementKey) String() string {
	if k.Kind.IsIndexed() {
		return k.Kind.String() + "_" + strconv.Itoa(k.Index)
	}
	return k.Kind.String()
}

// IsZero reports whether the key is unset.
func (k ElementKey) IsZero() bool {
	return k.Kind == 0
}

// MarshalText implements encoding.TextMarshaler so keys serialise as their
// external string form in JSON output. The zero key serialises as "".
func (k ElementKey) MarshalText() ([]byte, error) {
	if k.IsZero() {
		return []byte{}, nil
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ElementKey) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = ElementKey{}
		return nil
	}
	parsed, err := ParseElementKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseElementKey parses an external key back into an ElementKey.
func ParseElementKey(s string) (ElementKey, error) {
	switch s {
	case "title":
		return KeyTitle, nil
	case "meta":
		return KeyMeta, nil
	case "h1":
		return KeyH1, nil
	}

	prefix, idx, ok := strings.Cut(s, "_")
	if !ok {
		return ElementKey{}, fmt.Errorf("%w: element key %q", ErrInvalidInput, s)
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return ElementKey{}, fmt.Errorf("%w: element key %q", ErrInvalidInput, s)
	}
	switch prefix {
	case "h2":
		return H2Key(i), nil
	case "h3":
		return H3Key(i), nil
	default:
		return ElementKey{}, fmt.Errorf("%w: element key %q", ErrInvalidInput, s)
	}
}

// TextElement is one named text fragment submitted for embedding.
type TextElement struct {
	Key  ElementKey
	Text string
}

// ContextPreference is the ordered list of element kinds that may serve as
// the primary context of a document. The first kind present wins.
var ContextPreference = []ElementKind{KindH1, KindTitle}

// ResolveContext picks the primary context key from an embedding map by
// walking ContextPreference. It returns false when no candidate is present.
func ResolveContext(m *EmbeddingMap) (ElementKey, bool) {
	for _, kind := range ContextPreference {
		key := ElementKey{Kind: kind}
		if m.Has(key) {
			return key, true
		}
	}
	return ElementKey{}, false
}
