package driver

const (
	SaveTermNodesQuery = `
		UNWIND $nodes AS node
		MERGE (n:Term {run_id: $run_id, id: node.id})
		SET n.label = node.label,
			n.score = node.score,
			n.position = node.position,
			n.community = node.community,
			n.created_at = $created_at
		RETURN count(n) AS saved
	`

	SaveSentenceNodesQuery = `
		UNWIND $nodes AS node
		MERGE (n:Sentence {run_id: $run_id, id: node.id})
		SET n.text = node.label,
			n.score = node.score,
			n.position = node.position,
			n.community = node.community,
			n.created_at = $created_at
		RETURN count(n) AS saved
	`

	SaveCoOccursEdgesQuery = `
		UNWIND $edges AS edge
		MATCH (source:Term {run_id: $run_id, id: edge.source})
		MATCH (target:Term {run_id: $run_id, id: edge.target})
		MERGE (source)-[e:CO_OCCURS {run_id: $run_id}]->(target)
		SET e.weight = edge.weight
		RETURN count(e) AS saved
	`

	SaveSimilarEdgesQuery = `
		UNWIND $edges AS edge
		MATCH (source:Sentence {run_id: $run_id, id: edge.source})
		MATCH (target:Sentence {run_id: $run_id, id: edge.target})
		MERGE (source)-[e:SIMILAR {run_id: $run_id}]->(target)
		SET e.weight = edge.weight
		RETURN count(e) AS saved
	`

	SaveRunQuery = `
		MERGE (r:Run {run_id: $run_id})
		SET r.mode = $mode,
			r.iterations = $iterations,
			r.converged = $converged,
			r.max_delta = $max_delta,
			r.created_at = $created_at
		RETURN r.run_id AS run_id
	`
)
