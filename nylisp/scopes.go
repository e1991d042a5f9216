package nylisp

import (
	"bytes"
	"fmt"
	"sort"
)

// Scopes map names to values. Every closure call and every scoped-let
// block gets its own scope whose Parent is the scope it was entered
// from; the chain always ends at the single global scope. Children
// only read through Parent, they never write into it.
type Scope struct {
	Map      map[string]Sexp
	Name     string
	Parent   *Scope
	IsGlobal bool
}

func NewScope(name string, parent *Scope) *Scope {
	return &Scope{
		Map:    make(map[string]Sexp),
		Name:   name,
		Parent: parent,
	}
}

func NewGlobalScope() *Scope {
	s := NewScope("global", nil)
	s.IsGlobal = true
	return s
}

// LookupSymbol checks this scope, then each ancestor in turn.
func (s *Scope) LookupSymbol(name string) (Sexp, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if expr, ok := scope.Map[name]; ok {
			return expr, true
		}
	}
	return nil, false
}

// Bind always writes into s itself, shadowing any ancestor binding.
func (s *Scope) Bind(name string, value Sexp) {
	s.Map[name] = value
}

// IsBound reports whether name is bound locally, ignoring ancestors.
func (s *Scope) IsBound(name string) bool {
	_, ok := s.Map[name]
	return ok
}

func (s *Scope) Depth() int {
	d := 0
	for scope := s.Parent; scope != nil; scope = scope.Parent {
		d++
	}
	return d
}

// CloneScope copies the local bindings; the parent link is shared.
func (s *Scope) CloneScope() *Scope {
	n := NewScope(s.Name, s.Parent)
	n.IsGlobal = s.IsGlobal
	for k, v := range s.Map {
		n.Map[k] = v
	}
	return n
}

// Names returns the local names, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.Map))
	for k := range s.Map {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// VisibleNames returns every name resolvable from s, sorted.
func (s *Scope) VisibleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for scope := s; scope != nil; scope = scope.Parent {
		for k := range scope.Map {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (s *Scope) Show(v *Vocabulary, label string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s scope %s", label, s.Name)
	if s.IsGlobal {
		buf.WriteString(" (global)")
	}
	buf.WriteString(":\n")
	for _, name := range s.Names() {
		fmt.Fprintf(&buf, "   %s -> %s\n", name, v.Sprint(s.Map[name]))
	}
	return buf.String()
}
