package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced code block kinds run by TestCodeBlocks.
const (
	bashSetup    = "bash setup"    // starts a scenario in a fresh directory
	bashRun      = "bash run"      // output is kept for the next check
	consoleCheck = "console check" // expected output of the last run
	bashCheck    = "bash check"    // must exit 0
)

// TestTopics checks that the overview lists exactly the embedded topics.
func TestTopics(t *testing.T) {
	overview, err := GetTopic(Overview)
	if err != nil {
		t.Fatalf("GetTopic(%q) error = %v", Overview, err)
	}
	var listed []string
	for _, m := range regexp.MustCompile(`(?m)^\*\s+([^:]+):`).FindAllStringSubmatch(overview, -1) {
		listed = append(listed, strings.TrimSpace(m[1]))
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	if diff := cmp.Diff(all, listed); diff != "" {
		t.Errorf("topics listed in readme.md mismatch (-embedded +listed):\n%s", diff)
	}
}

func TestGetAllTopics(t *testing.T) {
	got, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	want := []string{"categories", "configuration", "keys"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetAllTopics() mismatch (-want +got):\n%s", diff)
	}

	if _, err := GetTopic("missing"); err == nil {
		t.Errorf("GetTopic(missing) succeeded")
	}
	content, err := GetTopics(All)
	if err != nil {
		t.Fatalf("GetTopics(*) error = %v", err)
	}
	if !strings.Contains(content, "# Keys") || strings.Contains(content, "Topics, read them") {
		t.Errorf("GetTopics(*) does not cover exactly the topics")
	}
}

func TestTitle(t *testing.T) {
	if got := Title("keys"); got != "Keys" {
		t.Errorf("Title(keys) = %q, want Keys", got)
	}
	if got := Title("missing"); got != "missing" {
		t.Errorf("Title(missing) = %q, want missing", got)
	}
}

// TestCodeBlocks runs the scenarios written in the manual against a freshly
// built pfd.
func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	var pfd string
	for _, file := range files {
		blocks := parseBlocks(t, file)
		if len(blocks) == 0 {
			continue
		}
		if pfd == "" {
			pfd = buildPfd(t)
		}
		t.Run(file, func(t *testing.T) {
			r := runner{
				env: append(os.Environ(),
					fmt.Sprintf("PATH=%s%c%s", filepath.Dir(pfd), os.PathListSeparator, os.Getenv("PATH")),
					// the scenarios must not depend on the user's configuration.
					"PORTFOLIO_CONFIG=",
				),
				dir: t.TempDir(),
			}
			for _, b := range blocks {
				r.run(t, b)
			}
		})
	}
}

// block is a fenced code block of the manual.
type block struct {
	kind    string
	content string
	file    string
	line    int
}

func (b *block) String() string { return fmt.Sprintf("%s:%d: %s", b.file, b.line, b.kind) }

// buildPfd compiles pfd into a temporary directory and returns its path.
func buildPfd(t *testing.T) string {
	t.Helper()
	output := filepath.Join(t.TempDir(), "pfd")
	if out, err := exec.Command("go", "build", "-o", output, "../pfd/").CombinedOutput(); err != nil {
		t.Fatalf("failed to build pfd: %v\n%s", err, out)
	}
	return output
}

// parseBlocks returns the runnable fenced code blocks of a markdown file.
func parseBlocks(t *testing.T, file string) []*block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	var blocks []*block
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(content))
		switch kind {
		case bashSetup, bashRun, consoleCheck, bashCheck:
		default:
			return ast.WalkContinue, nil
		}
		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			body.Write(line.Value(content))
		}
		// goldmark does not track lines, count them up to the info string.
		line := bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1
		blocks = append(blocks, &block{kind: kind, content: body.String(), file: file, line: line})
		return ast.WalkContinue, nil
	})
	return blocks
}

// runner executes the blocks of one file in sequence.
type runner struct {
	env  []string
	dir  string
	last string // output of the last bash run
}

func (r *runner) run(t *testing.T, b *block) {
	t.Helper()

	if b.kind == consoleCheck {
		got := strings.ReplaceAll(strings.TrimSpace(r.last), "\t", "        ")
		if want := strings.TrimSpace(b.content); got != want {
			t.Errorf("%v: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q", b, got, want, got, want)
		}
		return
	}
	if b.kind == bashSetup {
		r.dir = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+b.content)
	cmd.Dir = r.dir
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if b.kind == bashRun {
		r.last = string(output)
	}
	switch {
	case err == nil:
	case b.kind == bashCheck:
		t.Errorf("%v failed: %v with output:\n%s", b, err, output)
	default:
		t.Fatalf("%v failed: %v with output:\n%s", b, err, output)
	}
}
