package resolve

import "github.com/transport-telemetry/simtelemetry/host"

// refFields is the ordered list of candidate reference fields probed
// when chasing an indirect identifier to its canonical entity. The
// order is load-bearing: it encodes observed host schema behavior and
// ambiguous references resolve deterministically to the first match.
var refFields = []string{
	"station",
	"stationGroup",
	"terminal",
	"owner",
	"parent",
	"group",
}

// maxSearchDepth bounds reference chasing. Alias chains in practice are
// terminal -> group -> station; anything deeper is a malformed graph.
const maxSearchDepth = 4

// walkRefs runs a bounded depth-first traversal over the entity
// reference graph, starting at id. visit is called for every reachable
// entity (the root first) and stops the walk by returning true. The
// visited set makes cyclic reference graphs terminate.
func walkRefs(acc *host.Accessor, id int64, visit func(*host.Entity) bool) {
	visited := map[int64]bool{}
	walkRefsBounded(acc, id, 0, visited, visit)
}

func walkRefsBounded(acc *host.Accessor, id int64, depth int, visited map[int64]bool, visit func(*host.Entity) bool) bool {
	if depth > maxSearchDepth || visited[id] {
		return false
	}
	visited[id] = true
	e, ok := acc.GetEntity(id)
	if !ok {
		return false
	}
	if visit(e) {
		return true
	}
	for _, field := range refFields {
		ref, ok := e.FieldID(field)
		if !ok {
			continue
		}
		if walkRefsBounded(acc, ref, depth+1, visited, visit) {
			return true
		}
	}
	return false
}
