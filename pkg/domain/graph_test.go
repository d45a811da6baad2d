package domain

import (
	"encoding/json"
	"testing"
)

func TestGraphCanonical_SortsAndDeduplicates(t *testing.T) {
	x := &Artifact{Kind: KindVariable, Name: "X"}
	y := &Artifact{Kind: KindVariable, Name: "Y"}

	a := &Node{UID: 0, Function: &Function{Name: "A"}}
	b := &Node{UID: 1, Function: &Function{Name: "B"}}
	c := &Node{UID: 2, Function: &Function{Name: "C"}}

	g := Graph{
		Nodes: []*Node{a, b, c},
		Edges: []Edge{
			{Origin: 1, Destination: 2, Token: Token{ID: 3, Artifact: y}, Relation: DataFlow},
			{Origin: 0, Destination: 1, Token: Token{ID: 1, Artifact: x}, Relation: DataFlow},
			// Duplicate of the first edge under a different token id.
			{Origin: 1, Destination: 2, Token: Token{ID: 4, Artifact: y}, Relation: DataFlow},
			{Origin: 1, Destination: 2, Token: Token{ID: 5, Artifact: x}, Relation: DataFlow},
		},
	}

	got := g.Canonical()
	if len(got.Edges) != 3 {
		t.Fatalf("expected 3 canonical edges, got %d", len(got.Edges))
	}

	// Sorted by (origin name, destination name, artifact name).
	wantOrder := []struct {
		origin   int
		artifact string
	}{
		{0, "X"},
		{1, "X"},
		{1, "Y"},
	}
	for i, want := range wantOrder {
		e := got.Edges[i]
		if e.Origin != want.origin || e.Token.Artifact.Name != want.artifact {
			t.Errorf("edge %d: got (%d, %s), want (%d, %s)",
				i, e.Origin, e.Token.Artifact.Name, want.origin, want.artifact)
		}
	}

	// The raw graph must be untouched.
	if len(g.Edges) != 4 {
		t.Error("Canonical mutated the receiver")
	}
}

func TestGraphCanonical_DistinctArtifactsSameNameKept(t *testing.T) {
	// Two distinct canonical artifacts can share a display name across
	// registries; identity, not name, decides duplication.
	x1 := &Artifact{Kind: KindVariable, Name: "X"}
	x2 := &Artifact{Kind: KindVariable, Name: "X"}

	a := &Node{UID: 0, Function: &Function{Name: "A"}}
	b := &Node{UID: 1, Function: &Function{Name: "B"}}

	g := Graph{
		Nodes: []*Node{a, b},
		Edges: []Edge{
			{Origin: 0, Destination: 1, Token: Token{ID: 1, Artifact: x1}},
			{Origin: 0, Destination: 1, Token: Token{ID: 2, Artifact: x2}},
		},
	}

	if got := g.Canonical(); len(got.Edges) != 2 {
		t.Errorf("expected both edges kept, got %d", len(got.Edges))
	}
}

func TestNodeMarshalJSON_Shape(t *testing.T) {
	core := &Group{Name: "core"}
	settings := &Artifact{Kind: KindVariable, Name: "Settings"}

	n := Node{
		UID: 1,
		Function: &Function{
			Name:     "Scan",
			Docs:     "Walks the tree.",
			Group:    core,
			Consumes: []Token{{ID: 1, Artifact: settings, Cardinality: Unitary}},
			Produces: [][]Token{},
		},
	}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded["uid"] != float64(1) {
		t.Errorf("uid = %v", decoded["uid"])
	}
	if decoded["functionName"] != "Scan" {
		t.Errorf("functionName = %v", decoded["functionName"])
	}
	if decoded["group"] != "core" {
		t.Errorf("group = %v", decoded["group"])
	}
	if decoded["isStart"] != false {
		t.Errorf("isStart = %v", decoded["isStart"])
	}
	consumes, ok := decoded["consumes"].([]any)
	if !ok || len(consumes) != 1 {
		t.Fatalf("consumes = %v", decoded["consumes"])
	}
}

func TestNodeMarshalJSON_SyntheticNodeEmptySlices(t *testing.T) {
	n := Node{UID: 0, Function: &Function{Name: "Start"}, IsStart: true}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	// Consumers rely on arrays, never null.
	if _, ok := decoded["consumes"].([]any); !ok {
		t.Errorf("consumes not an array: %v", decoded["consumes"])
	}
	if _, ok := decoded["produces"].([]any); !ok {
		t.Errorf("produces not an array: %v", decoded["produces"])
	}
	if decoded["isStart"] != true {
		t.Error("isStart lost in serialization")
	}
	if _, present := decoded["group"]; present {
		t.Error("empty group should be omitted")
	}
}

func TestTokenMatches_IdentityNotName(t *testing.T) {
	shared := &Artifact{Kind: KindVariable, Name: "X"}
	other := &Artifact{Kind: KindVariable, Name: "X"}

	a := Token{ID: 1, Artifact: shared}
	b := Token{ID: 2, Artifact: shared, Cardinality: Collection}
	c := Token{ID: 3, Artifact: other}

	if !a.Matches(b) {
		t.Error("tokens over the same artifact must match regardless of cardinality")
	}
	if a.Matches(c) {
		t.Error("distinct artifacts must not match even with equal names")
	}
}

func TestGraphNodeByUID(t *testing.T) {
	n := &Node{UID: 7, Function: &Function{Name: "N"}}
	g := Graph{Nodes: []*Node{n}}

	if got := g.NodeByUID(7); got != n {
		t.Error("lookup failed")
	}
	if got := g.NodeByUID(99); got != nil {
		t.Error("expected nil for absent uid")
	}
}
