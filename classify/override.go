package classify

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadOverrides reads a KDL document describing additions to the SAFE and
// UNSAFE tables for a single Scanner instance. The package-level SAFE/UNSAFE
// maps are never mutated — spec.md §6 treats them as normative, so an
// override document can only grow a Tables value handed to one Scanner, not
// change what Classify (the package-level function) reports.
//
// Document shape:
//
//	safe {
//	    collections "OrderedDict" "defaultdict"
//	    mypkg "*"
//	}
//	unsafe {
//	    mypkg.dangerous "*"
//	}
//
// A missing file is not an error: LoadOverrides returns Default() unchanged,
// mirroring the KDL config loader's "no file found" convention.
func LoadOverrides(path string) (*Tables, error) {
	t := &Tables{
		safe:   cloneTable(SAFE),
		unsafe: cloneTable(UNSAFE),
	}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("classify: reading override file: %w", err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("classify: parsing override KDL: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "safe":
			applyOverrideBlock(n, t.safe)
		case "unsafe":
			applyOverrideBlock(n, t.unsafe)
		}
	}

	return t, nil
}

func applyOverrideBlock(block *document.Node, table map[string]NameSet) {
	for _, cn := range block.Children {
		module := nodeName(cn)
		if module == "" {
			continue
		}
		args := stringArgs(cn)
		if len(args) == 1 && args[0] == "*" {
			table[module] = Wildcard{}
			continue
		}
		existing, _ := table[module].(Names)
		if existing == nil {
			existing = Names{}
		}
		for _, a := range args {
			existing[a] = struct{}{}
		}
		table[module] = existing
	}
}

func stringArgs(n *document.Node) []string {
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func cloneTable(src map[string]NameSet) map[string]NameSet {
	dst := make(map[string]NameSet, len(src))
	for k, v := range src {
		if names, ok := v.(Names); ok {
			cp := make(Names, len(names))
			for name := range names {
				cp[name] = struct{}{}
			}
			dst[k] = cp
			continue
		}
		dst[k] = v
	}
	return dst
}
