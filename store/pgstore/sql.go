package pgstore

import (
	"fmt"
	"strings"

	"github.com/fieldlens/fieldlens/graph"
)

// fieldSep joins the crossed field names into one scannable column;
// chr(30) is the ASCII record separator and cannot occur in field
// names.
const fieldSep = "\x1e"

// impactSQL renders a traversal pattern into one bounded SELECT. Like
// the Cypher twin it is a pure function of the pattern: depth-many
// join pairs alternating the edge tables, a LEFT JOIN for the reached
// unit's output field, and the pattern limit. Arguments are origin name
// then limit.
func impactSQL(pattern graph.Pattern) (string, []any) {
	outEdge, inEdge := "produces", "consumes"
	if pattern.Direction == graph.Backward {
		outEdge, inEdge = inEdge, outEdge
	}

	var from strings.Builder
	sourceUnit := "src.name"
	if pattern.OriginKind == graph.FieldNode {
		from.WriteString("FROM graph_fields f1\n")
		fmt.Fprintf(&from, "JOIN %s e1 ON e1.field_id = f1.id\n", inEdge)
		from.WriteString("JOIN graph_units u1 ON u1.id = e1.unit_id\n")
		sourceUnit = "''"
	} else {
		from.WriteString("FROM graph_units src\n")
		fmt.Fprintf(&from, "JOIN %s e0 ON e0.unit_id = src.id\n", outEdge)
		from.WriteString("JOIN graph_fields f1 ON f1.id = e0.field_id\n")
		fmt.Fprintf(&from, "JOIN %s e1 ON e1.field_id = f1.id\n", inEdge)
		from.WriteString("JOIN graph_units u1 ON u1.id = e1.unit_id\n")
	}
	for i := 2; i <= pattern.Depth; i++ {
		fmt.Fprintf(&from, "JOIN %s x%d ON x%d.unit_id = u%d.id\n", outEdge, i, i, i-1)
		fmt.Fprintf(&from, "JOIN graph_fields f%d ON f%d.id = x%d.field_id\n", i, i, i)
		fmt.Fprintf(&from, "JOIN %s e%d ON e%d.field_id = f%d.id\n", inEdge, i, i, i)
		fmt.Fprintf(&from, "JOIN graph_units u%d ON u%d.id = e%d.unit_id\n", i, i, i)
	}
	fmt.Fprintf(&from, "LEFT JOIN produces pe ON pe.unit_id = u%d.id\n", pattern.Depth)
	from.WriteString("LEFT JOIN graph_fields fe ON fe.id = pe.field_id\n")

	crossed := make([]string, 0, pattern.Depth)
	for i := 1; i <= pattern.Depth; i++ {
		crossed = append(crossed, fmt.Sprintf("f%d.name", i))
	}
	origin := "src.name"
	if pattern.OriginKind == graph.FieldNode {
		origin = "f1.name"
	}

	query := fmt.Sprintf(`SELECT %s AS source_unit,
       f1.name AS source_field,
       u%d.name AS end_unit,
       COALESCE(fe.name, '') AS end_field,
       array_to_string(ARRAY[%s], chr(30)) AS fields
%sWHERE %s = $1
LIMIT $2`,
		sourceUnit, pattern.Depth, strings.Join(crossed, ", "),
		from.String(), origin)

	return query, []any{pattern.Origin, pattern.Limit}
}

const resolveUnitSQL = `
SELECT id, name, output_group, output_name, passthrough, COALESCE(module, '')
FROM graph_units
WHERE name = $1`

const resolveFieldSQL = `
SELECT id, name, COALESCE(data_type, ''), kind, COALESCE(parent, '')
FROM graph_fields
WHERE name = $1`

const unitNeighborsSQL = `
SELECT o.name, f.name
FROM graph_units u
JOIN produces p ON p.unit_id = u.id
JOIN graph_fields f ON f.id = p.field_id
JOIN consumes c ON c.field_id = f.id
JOIN graph_units o ON o.id = c.unit_id AND o.id <> u.id
WHERE u.name = $1
UNION
SELECT o.name, f.name
FROM graph_units u
JOIN consumes c ON c.unit_id = u.id
JOIN graph_fields f ON f.id = c.field_id
JOIN produces p ON p.field_id = f.id
JOIN graph_units o ON o.id = p.unit_id AND o.id <> u.id
WHERE u.name = $1`

const fieldDegreesSQL = `
SELECT name, producers, consumers
FROM (
  SELECT f.name AS name,
         (SELECT count(*) FROM produces p WHERE p.field_id = f.id) AS producers,
         (SELECT count(*) FROM consumes c WHERE c.field_id = f.id) AS consumers
  FROM graph_fields f
) degrees
WHERE producers >= 1 AND consumers >= $1`

const statsSQL = `
SELECT
  (SELECT count(*) FROM graph_units),
  (SELECT count(*) FROM graph_fields),
  (SELECT count(*) FROM consumes)
    + (SELECT count(*) FROM produces)
    + (SELECT count(*) FROM contains)
    + (SELECT count(*) FROM runs_in),
  COALESCE((SELECT avg(n) FROM (
    SELECT count(c.field_id) AS n FROM graph_units u
    LEFT JOIN consumes c ON c.unit_id = u.id GROUP BY u.id) inputs), 0),
  COALESCE((SELECT max(n) FROM (
    SELECT count(c.field_id) AS n FROM graph_units u
    LEFT JOIN consumes c ON c.unit_id = u.id GROUP BY u.id) inputs), 0),
  COALESCE((SELECT avg(n) FROM (
    SELECT count(p.field_id) AS n FROM graph_units u
    LEFT JOIN produces p ON p.unit_id = u.id GROUP BY u.id) outputs), 0),
  COALESCE((SELECT max(n) FROM (
    SELECT count(p.field_id) AS n FROM graph_units u
    LEFT JOIN produces p ON p.unit_id = u.id GROUP BY u.id) outputs), 0)`

const topConnectedSQL = `
SELECT u.name, count(DISTINCT touch.field_id) AS fields
FROM graph_units u
JOIN (
  SELECT unit_id, field_id FROM consumes
  UNION
  SELECT unit_id, field_id FROM produces
) touch ON touch.unit_id = u.id
GROUP BY u.id, u.name
ORDER BY fields DESC
LIMIT $1`
