package langs

import (
	"fmt"
	"os"
	"time"

	"github.com/google/shlex"
	"github.com/pelletier/go-toml/v2"
)

type fileLanguage struct {
	ID          string            `toml:"id"`
	Aliases     []string          `toml:"aliases"`
	Name        string            `toml:"name"`
	SourceFname string            `toml:"source_fname"`
	CompileCmd  string            `toml:"compile_cmd"`
	CompileSecs float64           `toml:"compile_timeout_seconds"`
	RunCmd      string            `toml:"run_cmd"`
	HeapOverMb  int               `toml:"heap_overhead_mb"`
	MinHeapMb   int               `toml:"min_heap_mb"`
	HeadroomMb  int               `toml:"address_space_headroom_mb"`
	Env         map[string]string `toml:"env"`
}

type fileRoot struct {
	// Replace drops the builtin table instead of overlaying it.
	Replace   bool           `toml:"replace"`
	Languages []fileLanguage `toml:"languages"`
}

const defaultCompileTimeout = 10 * time.Second

// LoadFile builds a registry from the builtin table overlaid with the
// languages described in a TOML file. An entry whose id matches a builtin
// language replaces it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read language file: %w", err)
	}
	return Parse(data)
}

// Parse is LoadFile on already read TOML content.
func Parse(data []byte) (*Registry, error) {
	var root fileRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse language TOML: %w", err)
	}

	var adapters []Adapter
	aliases := map[string]string{}
	if !root.Replace {
		adapters = Builtin()
		aliases = BuiltinAliases()
	}

	for _, fl := range root.Languages {
		a, err := fl.toAdapter()
		if err != nil {
			return nil, err
		}
		adapters = overlay(adapters, a)
		for _, alias := range fl.Aliases {
			aliases[alias] = a.ID
		}
	}

	// aliases of builtins that were dropped or shadowed must not dangle
	ids := make(map[string]bool, len(adapters))
	for _, a := range adapters {
		ids[normalize(a.ID)] = true
	}
	for alias, target := range aliases {
		if !ids[normalize(target)] {
			delete(aliases, alias)
		}
	}

	return NewRegistry(adapters, aliases)
}

func (fl fileLanguage) toAdapter() (Adapter, error) {
	a := Adapter{
		ID:                     normalize(fl.ID),
		Name:                   fl.Name,
		SourceFname:            fl.SourceFname,
		HeapOverheadMb:         fl.HeapOverMb,
		MinHeapMb:              fl.MinHeapMb,
		AddressSpaceHeadroomMb: fl.HeadroomMb,
		Env:                    fl.Env,
	}
	if a.Name == "" {
		a.Name = a.ID
	}

	var err error
	a.RunCmd, err = shlex.Split(fl.RunCmd)
	if err != nil {
		return Adapter{}, fmt.Errorf("language %s: failed to split run_cmd: %w", fl.ID, err)
	}
	if fl.CompileCmd != "" {
		a.CompileCmd, err = shlex.Split(fl.CompileCmd)
		if err != nil {
			return Adapter{}, fmt.Errorf("language %s: failed to split compile_cmd: %w", fl.ID, err)
		}
		a.CompileTimeout = defaultCompileTimeout
		if fl.CompileSecs > 0 {
			a.CompileTimeout = time.Duration(fl.CompileSecs * float64(time.Second))
		}
	}
	if err := a.validate(); err != nil {
		return Adapter{}, err
	}
	return a, nil
}

func overlay(adapters []Adapter, a Adapter) []Adapter {
	for i := range adapters {
		if normalize(adapters[i].ID) == a.ID {
			adapters[i] = a
			return adapters
		}
	}
	return append(adapters, a)
}
