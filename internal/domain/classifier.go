package domain

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// ErrInvalidKindEntry is returned for malformed `ext=kind` classification entries.
var ErrInvalidKindEntry = errors.New("invalid classification entry")

// DefaultKindEntries is the classification table used when none is configured.
var DefaultKindEntries = []string{
	"gd=" + string(m.KindScript),
	"tres=" + string(m.KindResourceInstance),
	"res=" + string(m.KindResourceInstance),
	"tscn=" + string(m.KindResourceInstance),
	"scn=" + string(m.KindResourceInstance),
}

// DefaultRemovableKinds lists the kinds a fix removes by default.
var DefaultRemovableKinds = []string{string(m.KindScript)}

// Classifier maps loaded-path extensions to artifact kinds and decides which
// kinds are redundant with a global binding.
type Classifier struct {
	kinds     map[string]m.ArtifactKind
	removable map[m.ArtifactKind]struct{}
}

// DefaultClassifier returns the classifier built from the default tables.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultKindEntries, DefaultRemovableKinds)
	if err != nil {
		panic(err)
	}

	return c
}

// NewClassifier builds a classifier from `ext=kind` entries and a list of
// removable kinds. An empty entry list selects DefaultKindEntries; an empty
// removable list removes nothing.
func NewClassifier(entries []string, removable []string) (*Classifier, error) {
	if len(entries) == 0 {
		entries = DefaultKindEntries
	}

	c := &Classifier{
		kinds:     make(map[string]m.ArtifactKind, len(entries)),
		removable: make(map[m.ArtifactKind]struct{}, len(removable)),
	}

	for _, entry := range entries {
		ext, kind, err := ParseKindEntry(entry)
		if err != nil {
			return nil, err
		}

		c.kinds[ext] = kind
	}

	for _, kind := range removable {
		kind = strings.TrimSpace(kind)
		if kind == "" {
			continue
		}

		c.removable[m.ArtifactKind(kind)] = struct{}{}
	}

	return c, nil
}

// ParseKindEntry parses `ext=kind`. The extension may carry a leading dot and
// is matched case-insensitively.
func ParseKindEntry(entry string) (string, m.ArtifactKind, error) {
	ext, kind, ok := strings.Cut(entry, "=")
	if !ok {
		return "", "", fmt.Errorf("%w %q: want ext=kind", ErrInvalidKindEntry, entry)
	}

	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	kind = strings.TrimSpace(kind)

	if ext == "" || kind == "" || strings.ContainsAny(ext, "./\\") {
		return "", "", fmt.Errorf("%w %q: want ext=kind", ErrInvalidKindEntry, entry)
	}

	return ext, m.ArtifactKind(kind), nil
}

// Classify returns the artifact kind of a loaded path by its extension.
func (c *Classifier) Classify(loadedPath string) m.ArtifactKind {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(loadedPath), "."))
	if kind, ok := c.kinds[ext]; ok {
		return kind
	}

	return m.KindOther
}

// IsRemovable reports whether matches of kind may be deleted.
func (c *Classifier) IsRemovable(kind m.ArtifactKind) bool {
	_, ok := c.removable[kind]
	return ok
}

// RemovableKinds returns the removable kinds in lexical order.
func (c *Classifier) RemovableKinds() []m.ArtifactKind {
	kinds := make([]m.ArtifactKind, 0, len(c.removable))
	for kind := range c.removable {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}
