package langs

import "time"

// Builtin returns the default language table.
func Builtin() []Adapter {
	return []Adapter{
		{
			ID:             "cpp",
			Name:           "C++17 (GCC)",
			SourceFname:    "solution.cpp",
			CompileCmd:     []string{"g++", "-O2", "-std=c++17", "solution.cpp", "-o", "solution"},
			CompileTimeout: 10 * time.Second,
			RunCmd:         []string{"./solution"},
		},
		{
			ID:          "python",
			Name:        "Python 3",
			SourceFname: "solution.py",
			RunCmd:      []string{"python3", "solution.py"},
		},
		{
			ID:             "java",
			Name:           "Java",
			SourceFname:    "Solution.java",
			CompileCmd:     []string{"javac", "Solution.java"},
			CompileTimeout: 10 * time.Second,
			RunCmd: []string{
				"java", "-Xmx" + HeapPlaceholder + "m", "-Xss64m", "-XX:+UseSerialGC",
				"-XX:CompressedClassSpaceSize=64m", "-XX:ReservedCodeCacheSize=64m", "Solution",
			},
			HeapOverheadMb:         64,
			MinHeapMb:              32,
			AddressSpaceHeadroomMb: 2048,
			Env:                    map[string]string{"MALLOC_ARENA_MAX": "2"},
		},
		{
			ID:                     "javascript",
			Name:                   "JavaScript (Node.js)",
			SourceFname:            "solution.js",
			RunCmd:                 []string{"node", "--max-old-space-size=" + HeapPlaceholder, "solution.js"},
			HeapOverheadMb:         32,
			MinHeapMb:              32,
			AddressSpaceHeadroomMb: 2048,
		},
		{
			ID:             "go",
			Name:           "Go",
			SourceFname:    "main.go",
			CompileCmd:     []string{"go", "build", "-o", "solution", "main.go"},
			CompileTimeout: 20 * time.Second,
			RunCmd:         []string{"./solution"},
			// The runtime reserves several hundred MiB of address space at start.
			AddressSpaceHeadroomMb: 1024,
			Env: map[string]string{
				"GOCACHE":     WorkspacePlaceholder + "/.cache",
				"GOMODCACHE":  WorkspacePlaceholder + "/.modcache",
				"GOPATH":      WorkspacePlaceholder + "/.gopath",
				"HOME":        WorkspacePlaceholder,
				"CGO_ENABLED": "0",
			},
		},
	}
}

// BuiltinAliases maps common alternative identifiers onto builtin ids.
func BuiltinAliases() map[string]string {
	return map[string]string{
		"py":      "python",
		"python3": "python",
		"c++":     "cpp",
		"cc":      "cpp",
		"js":      "javascript",
		"node":    "javascript",
		"golang":  "go",
	}
}

// Default is the registry built from the builtin table.
func Default() *Registry {
	r, err := NewRegistry(Builtin(), BuiltinAliases())
	if err != nil {
		panic(err)
	}
	return r
}
