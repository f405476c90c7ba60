package tree_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/mind/pkg/encoding"
	"github.com/vanderheijden86/mind/pkg/testutil"
	"github.com/vanderheijden86/mind/pkg/tree"
)

// describe flattens a tree into comparable lines: path, icon, expansion and
// data for every node in pre-order.
func describe(tr *tree.Tree) []string {
	var out []string
	tr.Walk(func(info tree.NodeInfo) bool {
		line := info.Path + "|" + info.Name + "|" + info.Icon
		if info.Expanded {
			line += "|+"
		} else {
			line += "|-"
		}
		if info.Data != nil {
			line += "|" + info.Data.String()
		}
		out = append(out, line)
		return true
	})
	return out
}

func TestEncodingRoundTrip(t *testing.T) {
	tr := testutil.New(testutil.GeneratorConfig{Seed: 3, DataRatio: 0.4}).Random(50)
	testutil.Find(tr, "/").SetIcon("🌳 ")
	for i, c := range tr.Root().Children() {
		if i%3 == 0 {
			c.SetExpanded(false)
		}
	}

	back := tree.FromEncoding(tr.Encoding())
	testutil.AssertInvariants(t, back)
	testutil.AssertPaths(t, describe(back), describe(tr)...)
	if back.Version() != tr.Version() || back.Type() != tr.Type() {
		t.Errorf("header = (%d, %v), want (%d, %v)", back.Version(), back.Type(), tr.Version(), tr.Type())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tr := testutil.Build(`
x
  a
y
`)
	if err := testutil.Find(tr, "/x/a").SetData(tree.File("/tmp/a.md")); err != nil {
		t.Fatal(err)
	}
	if err := testutil.Find(tr, "/y").SetData(tree.Link("https://example.com")); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"data":"/tmp/a.md"`, `"url":"https://example.com"`, `"type":0`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("document missing %s: %s", want, data)
		}
	}

	back := tree.NewTree("placeholder", "")
	stale := back.Root()
	if err := json.Unmarshal(data, back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	testutil.AssertInvariants(t, back)
	testutil.AssertPaths(t, describe(back), describe(tr)...)
	if stale.Valid() {
		t.Error("handles taken before UnmarshalJSON should be stale")
	}
}

func TestFromEncodingTakesLastContents(t *testing.T) {
	child := encoding.NewNode("first")
	child.Contents = append(child.Contents, encoding.Text{Text: "second"}, encoding.Text{Text: "third"})
	root := encoding.NewNode("root")
	root.IsExpanded = true
	root.Children = []encoding.Node{child}

	tr := tree.FromEncoding(encoding.Tree{Version: 1, Type: encoding.TreeTypeLocal, Node: root})
	testutil.AssertChildNames(t, tr.Root(), "third")
	if tr.Type() != tree.TypeLocal {
		t.Errorf("Type() = %v, want local", tr.Type())
	}

	// Encoding writes a single contents entry back.
	enc := tr.Encoding()
	if got := enc.Children[0].Contents; len(got) != 1 || got[0].Text != "third" {
		t.Errorf("re-encoded contents = %v", got)
	}
}

func TestFromEncodingPrefersFileOverLink(t *testing.T) {
	file, url := "/f", "https://u"
	root := encoding.NewNode("root")
	root.Data = &file
	root.URL = &url

	tr := tree.FromEncoding(encoding.Tree{Version: 1, Node: root})
	d, ok := tr.Root().Data()
	if !ok || d != tree.File("/f") {
		t.Errorf("Data() = %v, %v; want file /f", d, ok)
	}
}

func TestEncodingEmitsEmptyChildrenList(t *testing.T) {
	data, err := json.Marshal(tree.NewTree("solo", ""))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"children":[]`) {
		t.Errorf("leaf should encode an empty children list: %s", data)
	}
}
