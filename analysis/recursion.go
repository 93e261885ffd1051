package analysis

import (
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/TFMV/codescope/types"
)

var callPattern = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*\(`)

// CallGraph builds a lexical call graph among the given units: a unit calls
// another when the callee's name followed by "(" appears in its body below
// the declaration line. Units sharing a name share a node.
func CallGraph(units []types.SourceUnit) map[string][]string {
	graph := make(map[string][]string, len(units))
	for _, u := range units {
		if _, ok := graph[u.Name]; !ok {
			graph[u.Name] = nil
		}
	}

	for _, u := range units {
		_, body, _ := strings.Cut(u.Body, "\n")
		seen := make(map[string]bool)
		for _, callee := range graph[u.Name] {
			seen[callee] = true
		}
		for _, m := range callPattern.FindAllStringSubmatch(body, -1) {
			callee := m[1]
			if _, known := graph[callee]; !known || seen[callee] {
				continue
			}
			seen[callee] = true
			graph[u.Name] = append(graph[u.Name], callee)
		}
	}
	return graph
}

// DetectRecursion returns the set of functions that call themselves or sit
// on a call cycle.
func DetectRecursion(graph map[string][]string) map[string]bool {
	names := make([]string, 0, len(graph))
	for caller := range graph {
		names = append(names, caller)
	}
	sort.Strings(names)

	ids := make(map[string]int64, len(names))
	g := simple.NewDirectedGraph()
	for i, name := range names {
		ids[name] = int64(i)
		g.AddNode(simple.Node(i))
	}

	recursive := map[string]bool{}
	for _, caller := range names {
		for _, callee := range graph[caller] {
			if callee == caller {
				// simple graphs reject self edges
				recursive[caller] = true
				continue
			}
			to, ok := ids[callee]
			if !ok {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(ids[caller]), T: simple.Node(to)})
		}
	}

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		for _, n := range scc {
			recursive[names[n.ID()]] = true
		}
	}
	return recursive
}
