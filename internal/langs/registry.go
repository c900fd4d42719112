package langs

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var ErrNotFound = errors.New("language not found")

// Registry maps language identifiers to adapters. It is read-only once
// built and safe for concurrent use.
type Registry struct {
	adapters map[string]Adapter
	aliases  map[string]string
	ids      mapset.Set[string]
}

// NewRegistry validates the adapters and indexes them by id. Aliases map an
// alternative identifier onto an adapter id.
func NewRegistry(adapters []Adapter, aliases map[string]string) (*Registry, error) {
	r := &Registry{
		adapters: make(map[string]Adapter, len(adapters)),
		aliases:  make(map[string]string, len(aliases)),
		ids:      mapset.NewThreadUnsafeSet[string](),
	}
	for _, a := range adapters {
		a.ID = normalize(a.ID)
		if err := a.validate(); err != nil {
			return nil, err
		}
		if !r.ids.Add(a.ID) {
			return nil, fmt.Errorf("duplicate language id %q", a.ID)
		}
		r.adapters[a.ID] = a.clone()
	}
	for alias, target := range aliases {
		alias, target = normalize(alias), normalize(target)
		if !r.ids.Contains(target) {
			return nil, fmt.Errorf("alias %q points to unknown language %q", alias, target)
		}
		if r.ids.Contains(alias) {
			continue
		}
		r.aliases[alias] = target
	}
	return r, nil
}

// Resolve returns a copy of the adapter registered for language.
func (r *Registry) Resolve(language string) (Adapter, error) {
	id := normalize(language)
	if target, ok := r.aliases[id]; ok {
		id = target
	}
	a, ok := r.adapters[id]
	if !ok {
		return Adapter{}, fmt.Errorf("%w: %q", ErrNotFound, language)
	}
	return a.clone(), nil
}

// IDs lists the registered language ids in sorted order.
func (r *Registry) IDs() []string {
	ids := r.ids.ToSlice()
	slices.Sort(ids)
	return ids
}

func (r *Registry) Supports(language string) bool {
	_, err := r.Resolve(language)
	return err == nil
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
