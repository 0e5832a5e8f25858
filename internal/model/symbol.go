package model

import "sort"

// GlobalSymbol is a name bound by a top-level declaration.
type GlobalSymbol struct {
	Name string
	// Origin is the file that declared the name. Seeded names have no origin.
	Origin Path
}

// Seeded reports whether the symbol came from configuration rather than a scan.
func (s GlobalSymbol) Seeded() bool {
	return s.Origin == ""
}

// SymbolCollision records a second file declaring an already indexed name.
type SymbolCollision struct {
	Name    string `yaml:"name"`
	Kept    Path   `yaml:"kept"`
	Ignored Path   `yaml:"ignored"`
}

// SymbolIndex is the immutable set of global names for one run.
type SymbolIndex struct {
	symbols    map[string]GlobalSymbol
	collisions []SymbolCollision
}

// NewSymbolIndex builds an index from symbols in discovery order. When a name
// appears more than once the first occurrence wins and the others are
// recorded as collisions.
func NewSymbolIndex(symbols []GlobalSymbol) SymbolIndex {
	idx := SymbolIndex{symbols: make(map[string]GlobalSymbol, len(symbols))}

	for _, symbol := range symbols {
		existing, ok := idx.symbols[symbol.Name]
		if !ok {
			idx.symbols[symbol.Name] = symbol
			continue
		}

		if symbol.Seeded() || existing.Origin == symbol.Origin {
			continue
		}

		if existing.Seeded() {
			idx.symbols[symbol.Name] = symbol
			continue
		}

		idx.collisions = append(idx.collisions, SymbolCollision{
			Name:    symbol.Name,
			Kept:    existing.Origin,
			Ignored: symbol.Origin,
		})
	}

	return idx
}

// Lookup returns the symbol bound to name.
func (idx SymbolIndex) Lookup(name string) (GlobalSymbol, bool) {
	symbol, ok := idx.symbols[name]
	return symbol, ok
}

// Len returns the number of distinct names.
func (idx SymbolIndex) Len() int {
	return len(idx.symbols)
}

// SeededCount returns how many names are only known from configuration.
func (idx SymbolIndex) SeededCount() int {
	count := 0

	for _, symbol := range idx.symbols {
		if symbol.Seeded() {
			count++
		}
	}

	return count
}

// Names returns all names in lexical order.
func (idx SymbolIndex) Names() []string {
	names := make([]string, 0, len(idx.symbols))
	for name := range idx.symbols {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Collisions returns duplicate declarations in discovery order.
func (idx SymbolIndex) Collisions() []SymbolCollision {
	out := make([]SymbolCollision, len(idx.collisions))
	copy(out, idx.collisions)

	return out
}
