package engine_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/engine"
	"github.com/programme-lv/judge/internal/executor"
	"github.com/programme-lv/judge/internal/gatherer/respbuilder"
	"github.com/programme-lv/judge/internal/langs"
	"github.com/programme-lv/judge/internal/statusstore"
	"github.com/programme-lv/judge/internal/workspace"
	"github.com/programme-lv/judge/pkg/messaging/statuses"
	"github.com/stretchr/testify/require"
)

type languageCase struct {
	lang      string
	tools     []string
	sumSrc    string
	hungrySrc string
}

var languageCases = []languageCase{
	{
		lang:  "cpp",
		tools: []string{"g++"},
		sumSrc: `#include <iostream>
int main() { long long a, b; std::cin >> a >> b; std::cout << a + b << std::endl; }
`,
		hungrySrc: `#include <vector>
#include <iostream>
int main() { std::vector<char> v(1ull << 34, 1); std::cout << v[12345] << std::endl; }
`,
	},
	{
		lang:      "python",
		tools:     []string{"python3"},
		sumSrc:    "a, b = map(int, input().split())\nprint(a + b)\n",
		hungrySrc: "x = bytearray(4 * 1024 * 1024 * 1024)\nprint(len(x))\n",
	},
	{
		lang:  "java",
		tools: []string{"javac", "java"},
		sumSrc: `import java.util.Scanner;
public class Solution {
    public static void main(String[] args) {
        Scanner in = new Scanner(System.in);
        long a = in.nextLong(), b = in.nextLong();
        System.out.println(a + b);
    }
}
`,
		hungrySrc: `public class Solution {
    public static void main(String[] args) {
        long[][] blocks = new long[4096][];
        for (int i = 0; i < blocks.length; i++) blocks[i] = new long[1 << 20];
        System.out.println(blocks.length);
    }
}
`,
	},
	{
		lang:      "javascript",
		tools:     []string{"node"},
		sumSrc:    "const [a, b] = require('fs').readFileSync(0, 'utf8').trim().split(/\\s+/).map(Number);\nconsole.log(a + b);\n",
		hungrySrc: "const blocks = [];\nwhile (true) blocks.push(new Array(1 << 20).fill(7));\n",
	},
	{
		lang:  "go",
		tools: []string{"go"},
		sumSrc: `package main

import "fmt"

func main() {
	var a, b int64
	fmt.Scan(&a, &b)
	fmt.Println(a + b)
}
`,
		hungrySrc: `package main

import "fmt"

func main() {
	blocks := make([][]byte, 0)
	for i := 0; i < 4096; i++ {
		b := make([]byte, 1<<20)
		for j := range b {
			b[j] = byte(i)
		}
		blocks = append(blocks, b)
	}
	fmt.Println(len(blocks))
}
`,
	},
}

// toolchainPath is the sandbox PATH extended with the host PATH so toolchains
// installed outside the default directories, such as /usr/local/go/bin, are
// visible to children.
func toolchainPath() string {
	return executor.DefaultSandboxPath + string(os.PathListSeparator) + os.Getenv("PATH")
}

// toolchainEngine judges with the builtin languages but relaxed timeouts,
// since a cold toolchain cache can make the first compile slow.
func toolchainEngine(t *testing.T) (*engine.Engine, *statusstore.Memory) {
	t.Helper()
	adapters := langs.Builtin()
	for i := range adapters {
		if adapters[i].Compiled() {
			adapters[i].CompileTimeout = 3 * time.Minute
		}
	}
	registry, err := langs.NewRegistry(adapters, langs.BuiltinAliases())
	require.NoError(t, err)

	wm, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)
	store := statusstore.NewMemory()
	e, err := engine.New(engine.Config{
		Languages:   registry,
		Workspaces:  wm,
		Runner:      executor.NewLocal(),
		Status:      store,
		Sink:        respbuilder.New(),
		SandboxPath: toolchainPath(),
	})
	require.NoError(t, err)
	return e, store
}

func requireTools(t *testing.T, tools []string) {
	t.Helper()
	for _, tool := range tools {
		if _, err := executor.LookPath(tool, toolchainPath()); err != nil {
			t.Skipf("%s not available", tool)
		}
	}
}

func TestBuiltinLanguagesAccept(t *testing.T) {
	for _, lc := range languageCases {
		t.Run(lc.lang, func(t *testing.T) {
			requireTools(t, lc.tools)
			e, store := toolchainEngine(t)
			ctx := context.Background()
			require.NoError(t, store.SetStatus(ctx, lc.lang, statuses.Pending))

			res := e.Judge(ctx, api.Submission{
				SubmissionId:     lc.lang,
				Language:         lc.lang,
				SourceCode:       lc.sumSrc,
				Stdin:            "40 2\n",
				ExpectedOutput:   "42\n",
				TimeLimitSeconds: 10,
			})
			require.Equal(t, api.Accepted, res.Verdict, res.Output)
			require.Equal(t, "42", res.Output)

			entry, ok, err := store.Get(ctx, lc.lang)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, []statuses.Status{statuses.Pending, statuses.Processing, statuses.Accepted}, entry.History)
		})
	}
}

func TestBuiltinLanguagesMemoryLimit(t *testing.T) {
	for _, lc := range languageCases {
		if lc.hungrySrc == "" {
			continue
		}
		t.Run(lc.lang, func(t *testing.T) {
			requireTools(t, lc.tools)
			e, _ := toolchainEngine(t)
			res := e.Judge(context.Background(), api.Submission{
				SubmissionId:     lc.lang,
				Language:         lc.lang,
				SourceCode:       lc.hungrySrc,
				TimeLimitSeconds: 20,
				MemoryLimitMb:    128,
			})
			require.Equal(t, api.MemoryLimitExceeded, res.Verdict, res.Output)
		})
	}
}

func TestBuiltinCompileErrorReportsCompilerOutput(t *testing.T) {
	requireTools(t, []string{"g++"})
	e, _ := toolchainEngine(t)
	res := e.Judge(context.Background(), api.Submission{
		SubmissionId: "ce",
		Language:     "c++",
		SourceCode:   "int main() { return undefined_name; }\n",
	})
	require.Equal(t, api.CompilationError, res.Verdict)
	require.Contains(t, res.Output, "undefined_name")
}
