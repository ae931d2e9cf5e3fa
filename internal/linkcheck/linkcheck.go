// Package linkcheck verifies relative links in a generated Markdown tree.
//
// It parses each page with goldmark, extracts link destinations, and checks
// that every relative target resolves to a file under the tree. External
// URLs and pure fragment links are out of scope; the generator's linker
// never emits a broken link by construction, so findings here usually point
// at malformed input names rather than linker bugs.
package linkcheck

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// BrokenLink is one unresolvable relative link.
type BrokenLink struct {
	File        string // page containing the link, relative to the tree root
	Destination string // the raw link destination
}

// VerifyTree checks every .md file under root.
func VerifyTree(root string) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		body, err := os.ReadFile(filepath.Clean(p))
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			rel = p
		}
		for _, dest := range extractDestinations(body) {
			if !isRelative(dest) {
				continue
			}
			if !targetExists(filepath.Dir(p), dest) {
				broken = append(broken, BrokenLink{File: rel, Destination: dest})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

// extractDestinations parses a Markdown body and collects link and image
// destinations from the goldmark AST.
func extractDestinations(body []byte) []string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var dests []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			dests = append(dests, string(node.Destination))
		case *gmast.Image:
			dests = append(dests, string(node.Destination))
		case *gmast.AutoLink:
			dests = append(dests, string(node.URL(body)))
		}
		return gmast.WalkContinue, nil
	})
	return dests
}

func isRelative(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return false
	}
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return false
	}
	return true
}

// targetExists resolves dest against dir, ignoring any fragment. Links
// emitted in bare mode carry no extension, so a .md sibling also counts.
func targetExists(dir, dest string) bool {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return true
	}
	target := filepath.Join(dir, filepath.FromSlash(dest))
	if _, err := os.Stat(target); err == nil {
		return true
	}
	if filepath.Ext(target) == "" {
		if _, err := os.Stat(target + ".md"); err == nil {
			return true
		}
	}
	return false
}
