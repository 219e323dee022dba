package render

import (
	"strings"
	"testing"

	"github.com/openrdm/dvmeta/pkg/crawl"
)

func sampleResult() *crawl.Result {
	return &crawl.Result{
		RootID:    1,
		RootAlias: "root",
		Flat: map[int]crawl.FlatCollection{
			2: {ID: 2, Name: "C1", Alias: "c1", Path: "C1", PathIDs: []int{2}},
			3: {ID: 3, Name: "C2", Alias: "c2", Path: "C1/C2", PathIDs: []int{2, 3}},
		},
		Refs: map[int]crawl.DatasetRef{
			42: {DatasetID: 42, PathIDs: []int{2, 3}},
		},
	}
}

func TestTreeToDOT(t *testing.T) {
	dot := TreeToDOT(sampleResult(), Options{})

	if !strings.HasPrefix(dot, "digraph collections {") {
		t.Fatalf("unexpected DOT prefix: %q", dot[:40])
	}
	for _, want := range []string{
		`1 [label="root", fillcolor=lightblue];`,
		`2 [label="C1"];`,
		`3 [label="C2"];`,
		"1 -> 2;",
		"2 -> 3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestTreeToDOTDetailed(t *testing.T) {
	dot := TreeToDOT(sampleResult(), Options{Detailed: true})

	for _, want := range []string{
		"alias: c1",
		"datasets: 1",
		"id: 3",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestTreeToDOTDeterministic(t *testing.T) {
	res := sampleResult()
	first := TreeToDOT(res, Options{Detailed: true})
	for range 10 {
		if got := TreeToDOT(res, Options{Detailed: true}); got != first {
			t.Fatal("DOT output varies between runs over identical input")
		}
	}
}
