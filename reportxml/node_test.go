package reportxml

import (
	"testing"
)

func buildSampleDoc() *Document {
	doc := New("report.xml")
	report := doc.AddNode("variation_report", Attributes{"assembly": "GRCh38"})
	gene1 := report.AddNode("gene", Attributes{"id": "ENSG01", "name": "BRCA2"})
	gene1.AddEmptyNode("transcript", Attributes{"id": "ENST01"})
	gene1.AddEmptyNode("variant", Attributes{"id": "1", "name": "rs100"})
	gene2 := report.AddNode("gene", Attributes{"id": "ENSG02", "name": "TP53"})
	gene2.AddEmptyNode("variant", Attributes{"id": "2", "name": "rs200"})
	return doc
}

func TestFindNode(t *testing.T) {
	doc := buildSampleDoc()

	t.Run("single segment searches the whole subtree", func(t *testing.T) {
		variant := doc.FindNode("variant", Attributes{"id": "2"})
		if variant == nil {
			t.Fatal("expected a match for variant id=2")
		}
		if variant.Attr("name") != "rs200" {
			t.Fatalf("expected rs200, got %s", variant.Attr("name"))
		}
	})

	t.Run("single segment prefers direct children over deeper matches", func(t *testing.T) {
		root := New("")
		top := root.AddNode("root", nil)
		branch := top.AddNode("branch", nil)
		branch.AddNode("target", Attributes{"where": "deep"})
		shallow := top.AddNode("target", Attributes{"where": "shallow"})

		if got := top.FindNode("target", nil); got != shallow {
			t.Fatalf("expected the direct child, got %+v", got)
		}
	})

	t.Run("path walks direct children level by level", func(t *testing.T) {
		variant := doc.FindNode("variation_report/gene/variant", Attributes{"id": "2"})
		if variant == nil {
			t.Fatal("expected a match for the path query")
		}
		if variant.Attr("name") != "rs200" {
			t.Fatalf("expected rs200, got %s", variant.Attr("name"))
		}
	})

	t.Run("filter applies to the final segment only", func(t *testing.T) {
		gene := doc.FindNode("variation_report/gene", Attributes{"id": "ENSG02"})
		if gene == nil {
			t.Fatal("expected the second gene to match")
		}
		if gene.Attr("name") != "TP53" {
			t.Fatalf("expected TP53, got %s", gene.Attr("name"))
		}
	})

	t.Run("path does not skip levels", func(t *testing.T) {
		if got := doc.FindNode("variation_report/variant", nil); got != nil {
			t.Fatalf("variant is not a direct child of the report, got %v", got.Attributes)
		}
	})

	t.Run("no match returns nil", func(t *testing.T) {
		if got := doc.FindNode("exon", nil); got != nil {
			t.Fatal("expected nil for an absent element")
		}
		if got := doc.FindNode("gene", Attributes{"id": "ENSG99"}); got != nil {
			t.Fatal("expected nil for an unmatched filter")
		}
		if got := doc.FindNode("", nil); got != nil {
			t.Fatal("expected nil for an empty path")
		}
	})
}

func TestFindNodes(t *testing.T) {
	doc := buildSampleDoc()

	variants := doc.FindNodes("variant", nil)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	if variants[0].Attr("name") != "rs100" || variants[1].Attr("name") != "rs200" {
		t.Fatalf("expected document order, got %s then %s", variants[0].Attr("name"), variants[1].Attr("name"))
	}

	genes := doc.FindNodes("variation_report/gene", nil)
	if len(genes) != 2 {
		t.Fatalf("expected 2 genes, got %d", len(genes))
	}

	if got := doc.FindNodes("variation_report/gene", Attributes{"id": "ENSG01"}); len(got) != 1 {
		t.Fatalf("expected the filter to keep a single gene, got %d", len(got))
	}
}

func TestPosition(t *testing.T) {
	doc := New("")
	parent := doc.AddNode("parent", nil)
	first := parent.AddNode("item", Attributes{"kind": "x"})
	second := parent.AddNode("item", Attributes{"kind": "x"})

	if got := first.Position(); got != 0 {
		t.Fatalf("expected position 0, got %d", got)
	}
	if got := second.Position(); got != 1 {
		t.Fatalf("expected identical siblings to keep distinct positions, got %d", got)
	}

	detached := &Node{Name: "loose"}
	if got := detached.Position(); got != -1 {
		t.Fatalf("expected -1 for a detached node, got %d", got)
	}
}

func TestMoveTo(t *testing.T) {
	names := func(parent *Node) []string {
		order := make([]string, 0, len(parent.Children))
		for _, child := range parent.Children {
			order = append(order, child.Name)
		}
		return order
	}
	equal := func(got, want []string) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	doc := New("")
	parent := doc.AddNode("parent", nil)
	a := parent.AddNode("a", nil)
	b := parent.AddNode("b", nil)
	parent.AddNode("c", nil)

	if err := b.MoveTo(0); err != nil {
		t.Fatalf("MoveTo(0) returned error: %v", err)
	}
	if got := names(parent); !equal(got, []string{"b", "a", "c"}) {
		t.Fatalf("expected [b a c], got %v", got)
	}

	if err := a.MoveTo(2); err != nil {
		t.Fatalf("MoveTo(2) returned error: %v", err)
	}
	if got := names(parent); !equal(got, []string{"b", "c", "a"}) {
		t.Fatalf("expected [b c a], got %v", got)
	}

	if err := a.MoveTo(3); err == nil {
		t.Fatal("expected an error for an index past the remaining siblings")
	}
	if err := a.MoveTo(-1); err == nil {
		t.Fatal("expected an error for a negative index")
	}

	detached := &Node{Name: "loose"}
	if err := detached.MoveTo(0); err == nil {
		t.Fatal("expected an error for a detached node")
	}
}

func TestRemoveChild(t *testing.T) {
	doc := New("")
	parent := doc.AddNode("parent", nil)
	first := parent.AddNode("item", nil)
	second := parent.AddNode("item", nil)

	if !parent.RemoveChild(first) {
		t.Fatal("expected the child to be found and removed")
	}
	if len(parent.Children) != 1 || parent.Children[0] != second {
		t.Fatalf("expected only the second child to remain, got %d children", len(parent.Children))
	}
	if first.Parent() != nil {
		t.Fatal("expected the removed child to be detached")
	}
	if first.Position() != -1 {
		t.Fatalf("expected position -1 after removal, got %d", first.Position())
	}

	if parent.RemoveChild(first) {
		t.Fatal("expected a second removal to report false")
	}

	grandchild := second.AddNode("inner", nil)
	if parent.RemoveChild(grandchild) {
		t.Fatal("expected RemoveChild to ignore non-direct descendants")
	}
}

func TestAddEmptyNode(t *testing.T) {
	doc := New("")
	parent := doc.AddNode("parent", nil)
	leaf := parent.AddEmptyNode("leaf", Attributes{"x": "5"})

	if !leaf.SelfClosed {
		t.Fatal("expected the leaf to be self-closing")
	}
	if leaf.Parent() != parent {
		t.Fatal("expected the leaf to be attached to its parent")
	}

	leaf.AddNode("inner", nil)
	if leaf.SelfClosed {
		t.Fatal("expected adding a child to clear the self-closing flag")
	}
}

func TestAttrCopyAndSet(t *testing.T) {
	doc := New("")
	attrs := Attributes{"id": "1"}
	node := doc.AddNode("item", attrs)
	attrs["id"] = "changed"

	if node.Attr("id") != "1" {
		t.Fatalf("expected the attribute map to be copied, got %s", node.Attr("id"))
	}

	bare := &Node{Name: "bare"}
	bare.SetAttr("added", "yes")
	if bare.Attr("added") != "yes" {
		t.Fatal("expected SetAttr to allocate the map and store the value")
	}
	if bare.Attr("missing") != "" {
		t.Fatal("expected an empty string for an absent attribute")
	}
}
