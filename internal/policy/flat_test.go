package policy

import (
	"testing"

	"github.com/normanking/shellgate/internal/shell"
)

func classifyLine(t *testing.T, line string) Decision {
	t.Helper()
	toks, err := shell.Tokenize(line)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", line, err)
	}
	chain, err := shell.Segment(toks)
	if err != nil {
		t.Fatalf("Segment(%q): %v", line, err)
	}
	if len(chain.Commands) != 1 {
		t.Fatalf("expected a single command, got %d", len(chain.Commands))
	}
	return Classify(chain.Commands[0])
}

func TestClassifySed(t *testing.T) {
	if d := classifyLine(t, "sed 's/foo/bar/' file.txt"); !d.Allow {
		t.Errorf("sed without -i should be allowed, got deny: %s", d.Reason)
	}
	if d := classifyLine(t, "sed -i 's/foo/bar/' file.txt"); d.Allow {
		t.Error("sed -i should be denied")
	}
	if d := classifyLine(t, "sed -i.bak 's/foo/bar/' file.txt"); d.Allow {
		t.Error("sed -i.bak should be denied")
	}
}

func TestClassifyTee(t *testing.T) {
	if d := classifyLine(t, "tee"); !d.Allow {
		t.Errorf("bare tee should be allowed, got deny: %s", d.Reason)
	}
	if d := classifyLine(t, "tee -a /dev/null"); !d.Allow {
		t.Errorf("tee -a /dev/null should be allowed, got deny: %s", d.Reason)
	}
	if d := classifyLine(t, "tee /etc/passwd"); d.Allow {
		t.Error("tee to a real file should be denied")
	}
}

func TestClassifyUnknownUtilityDefaultDenies(t *testing.T) {
	if d := classifyLine(t, "dd if=/dev/zero of=/dev/sda"); d.Allow {
		t.Error("unregistered utility dd should default-deny")
	}
}

func TestClassifyFlatSafeMinimumSet(t *testing.T) {
	lines := []string{
		"rg foo",
		"less file.txt",
		"more file.txt",
		"yq '.foo' file.yaml",
		"hexdump -C file.bin",
		"ps aux",
		"type git",
		"command -v git",
	}
	for _, line := range lines {
		if d := classifyLine(t, line); !d.Allow {
			t.Errorf("%q should be allowed, got deny: %s", line, d.Reason)
		}
	}
}
