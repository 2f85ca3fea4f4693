package inline_test

import (
	"testing"

	"github.com/yaklabco/inlinemark/pkg/ext"
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// FuzzParse checks that any input yields a well-formed tree with merged
// text runs.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"*a* **b** ***c***",
		"_a_b_ __c__",
		"`code` ``a`b`` ```",
		"||x|| >!y!< |||z|||",
		"^(a ^(b) c) ^word ^",
		"~a~ ~~b~~ ~~~c~~~",
		"*a ||b* c|| ~~d *e~~ f*",
		"a  \nb\\\nc\r\nd",
		"\\*\\_\\`\\|\\^\\~",
		"€*a*€  _b_ ",
	}

	for _, seed := range seeds {
		f.Add(seed, false)
		f.Add(seed, true)
	}

	host, err := ext.NewHost(nil)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, src string, reddit bool) {
		var opts inline.Options
		if reddit {
			opts |= inline.OptSpoilerRedditStyle
		}

		tree := mdast.NewTree()
		para := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
		p := inline.NewParser(host, tree, opts)

		if err := p.Parse(para, inline.ChunkFromString(src)); err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if err := tree.Check(para); err != nil {
			t.Fatalf("Check() error = %v", err)
		}

		for child := tree.Node(para).FirstChild; child != mdast.NilNode; child = tree.Node(child).Next {
			next := tree.Node(child).Next
			if tree.Kind(child) == mdast.NodeText && tree.Kind(next) == mdast.NodeText {
				t.Errorf("adjacent text nodes %d and %d were not merged", child, next)
			}
		}
	})
}
