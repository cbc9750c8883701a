package compiler

import "semql/internal/domain"

// ResolveJoinPath finds a join tree connecting the required tables using the
// model's relationships as undirected edges.
//
// The root is the first required table in caller order. The frontier then
// expands breadth-first: each round scans relationships in declaration order
// and attaches any not-yet-joined required table adjacent to an already
// joined one. Declaration order doubles as the tie-break when several
// relationships connect the same pair, so resolution is deterministic.
// Only required tables join the path; no intermediate hops are inserted.
func ResolveJoinPath(model *domain.SemanticModel, required []string) (*domain.JoinPath, error) {
	if len(required) == 0 {
		return nil, domain.ErrValidation("at least one table is required")
	}

	// Dedupe while preserving caller order.
	need := make([]string, 0, len(required))
	seen := map[string]bool{}
	for _, name := range required {
		if model.Table(name) == nil {
			return nil, domain.ErrNotFound("table %q not found in model %q", name, model.Name)
		}
		if !seen[name] {
			seen[name] = true
			need = append(need, name)
		}
	}

	path := &domain.JoinPath{Root: need[0]}
	joined := map[string]bool{need[0]: true}
	remaining := len(need) - 1

	for remaining > 0 {
		progress := false
		for _, rel := range model.Relationships {
			var next string
			switch {
			case joined[rel.FromTable] && !joined[rel.ToTable]:
				next = rel.ToTable
			case joined[rel.ToTable] && !joined[rel.FromTable]:
				next = rel.FromTable
			default:
				continue
			}
			if !seen[next] {
				continue // not requested; never widen the path
			}
			joined[next] = true
			path.Steps = append(path.Steps, domain.JoinStep{Table: next, Relationship: rel})
			remaining--
			progress = true
		}
		if !progress {
			var unreachable []string
			for _, name := range need {
				if !joined[name] {
					unreachable = append(unreachable, name)
				}
			}
			return nil, &domain.UnreachableJoinError{Tables: unreachable}
		}
	}

	return path, nil
}
