package neostore

import (
	"fmt"
	"strings"

	"github.com/fieldlens/fieldlens/graph"
)

// impactQuery renders a traversal pattern into Cypher. The text is a
// pure function of the pattern: one MATCH of exactly the pattern's
// alternating hops, an OPTIONAL MATCH for the reached unit's output
// field, and the pattern limit. Relationship uniqueness within a MATCH
// lets cyclic graphs resurface a unit at deeper levels without looping.
func impactQuery(pattern graph.Pattern) (string, map[string]any) {
	produces, consumes := "PRODUCES", "CONSUMES"
	if pattern.Direction == graph.Backward {
		produces, consumes = consumes, produces
	}

	var match strings.Builder
	match.WriteString("MATCH ")
	first := 1
	if pattern.OriginKind == graph.FieldNode {
		fmt.Fprintf(&match, "(f1:Field {name: $origin})<-[:%s]-(u1:Unit)", consumes)
		first = 2
	} else {
		match.WriteString("(src:Unit {name: $origin})")
	}
	for i := first; i <= pattern.Depth; i++ {
		fmt.Fprintf(&match, "-[:%s]->(f%d:Field)<-[:%s]-(u%d:Unit)", produces, i, consumes, i)
	}

	crossed := make([]string, 0, pattern.Depth)
	for i := 1; i <= pattern.Depth; i++ {
		crossed = append(crossed, fmt.Sprintf("f%d.name", i))
	}
	sourceUnit := "src.name"
	sourceField := "f1.name"
	if pattern.OriginKind == graph.FieldNode {
		sourceUnit = "''"
	}

	query := fmt.Sprintf(`%s
OPTIONAL MATCH (u%d)-[:PRODUCES]->(end:Field)
RETURN %s AS sourceUnit,
       %s AS sourceField,
       u%d.name AS endUnit,
       coalesce(end.name, '') AS endField,
       [%s] AS fields
LIMIT $limit`,
		match.String(), pattern.Depth, sourceUnit, sourceField, pattern.Depth,
		strings.Join(crossed, ", "))

	return query, map[string]any{
		"origin": pattern.Origin,
		"limit":  pattern.Limit,
	}
}

const resolveUnitQuery = `
MATCH (u:Unit {name: $name})
RETURN u.id AS id, u.name AS name,
       coalesce(u.outputGroup, '') AS outputGroup,
       coalesce(u.outputName, '') AS outputName,
       coalesce(u.passthrough, false) AS passthrough,
       coalesce(u.module, '') AS module
LIMIT 1`

const resolveFieldQuery = `
MATCH (f:Field {name: $name})
RETURN f.id AS id, f.name AS name,
       coalesce(f.dataType, '') AS dataType,
       coalesce(f.kind, 'ELEMENTAL') AS kind,
       coalesce(f.parent, '') AS parent
LIMIT 1`

const unitNeighborsQuery = `
MATCH (u:Unit {name: $name})-[:PRODUCES]->(f:Field)<-[:CONSUMES]-(o:Unit)
WHERE o <> u
RETURN DISTINCT o.name AS unit, f.name AS field
UNION
MATCH (u:Unit {name: $name})-[:CONSUMES]->(f:Field)<-[:PRODUCES]-(o:Unit)
WHERE o <> u
RETURN DISTINCT o.name AS unit, f.name AS field`

const fieldDegreesQuery = `
MATCH (f:Field)
OPTIONAL MATCH (p:Unit)-[:PRODUCES]->(f)
WITH f, count(p) AS producers
OPTIONAL MATCH (c:Unit)-[:CONSUMES]->(f)
WITH f, producers, count(c) AS consumers
WHERE producers >= 1 AND consumers >= $min
RETURN f.name AS name, producers, consumers`

const statsQuery = `
CALL { MATCH (u:Unit) RETURN count(u) AS units }
CALL { MATCH (f:Field) RETURN count(f) AS fields }
CALL { MATCH ()-[e]->() RETURN count(e) AS edges }
CALL {
  MATCH (u:Unit)
  OPTIONAL MATCH (u)-[:CONSUMES]->(f:Field)
  WITH u, count(f) AS inputs
  RETURN coalesce(avg(inputs), 0.0) AS avgInputs, coalesce(max(inputs), 0) AS maxInputs
}
CALL {
  MATCH (u:Unit)
  OPTIONAL MATCH (u)-[:PRODUCES]->(f:Field)
  WITH u, count(f) AS outputs
  RETURN coalesce(avg(outputs), 0.0) AS avgOutputs, coalesce(max(outputs), 0) AS maxOutputs
}
RETURN units, fields, edges, avgInputs, maxInputs, avgOutputs, maxOutputs`

const topConnectedQuery = `
MATCH (u:Unit)-[:PRODUCES|CONSUMES]->(f:Field)
WITH u, count(DISTINCT f) AS fields
RETURN u.name AS unit, fields
ORDER BY fields DESC
LIMIT $n`
