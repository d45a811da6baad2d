package flow

import "github.com/aretw0/lattice/pkg/domain"

// Pool is a snapshot of the artifacts available along one simulated
// execution path. Tokens live in three disjoint buckets keyed by artifact
// kind; buckets never mix kinds and preserve insertion order, which is the
// tie-break order for matching.
//
// Pools are only ever mutated through their owner. At a branch point the
// engine clones a pool once per produced branch; Clone performs a full value
// copy, so mutating one successor can never affect a sibling.
type Pool struct {
	variables []domain.Token
	errors    []domain.Token
	constants []domain.Token

	// origins maps token id to the node that produced it.
	origins map[int]*domain.Node
	// fannedOut holds uids of nodes flagged as implicitly fanning out.
	// Everything such a node later produces is promoted to Collection.
	fannedOut map[int]bool
	// usedConstants holds ids of constant tokens consumed at least once.
	// Constants are never removed from their bucket, only marked.
	usedConstants map[int]bool
}

// NewPool seeds a pool with the given tokens, all attributed to origin.
// Used exactly once per simulation, seeding from the first contract's
// consumes with the synthetic start node as provenance.
func NewPool(seed []domain.Token, origin *domain.Node) *Pool {
	p := &Pool{
		origins:       make(map[int]*domain.Node, len(seed)),
		fannedOut:     make(map[int]bool),
		usedConstants: make(map[int]bool),
	}
	p.insert(seed, origin, false)
	return p
}

// Clone returns a fully independent copy of the pool.
func (p *Pool) Clone() *Pool {
	c := &Pool{
		variables:     append([]domain.Token(nil), p.variables...),
		errors:        append([]domain.Token(nil), p.errors...),
		constants:     append([]domain.Token(nil), p.constants...),
		origins:       make(map[int]*domain.Node, len(p.origins)),
		fannedOut:     make(map[int]bool, len(p.fannedOut)),
		usedConstants: make(map[int]bool, len(p.usedConstants)),
	}
	for id, n := range p.origins {
		c.origins[id] = n
	}
	for uid := range p.fannedOut {
		c.fannedOut[uid] = true
	}
	for id := range p.usedConstants {
		c.usedConstants[id] = true
	}
	return c
}

// Produce inserts tokens attributed to origin. If origin is flagged as
// fanning out, every inserted token is promoted to Collection first: fan-out
// propagates to everything a fanned-out node subsequently produces.
func (p *Pool) Produce(tokens []domain.Token, origin *domain.Node) {
	p.insert(tokens, origin, p.fannedOut[origin.UID])
}

func (p *Pool) insert(tokens []domain.Token, origin *domain.Node, promote bool) {
	for _, t := range tokens {
		if promote {
			t.Cardinality = domain.Collection
		}
		p.origins[t.ID] = origin
		switch t.Artifact.Kind {
		case domain.KindVariable:
			p.variables = append(p.variables, t)
		case domain.KindError:
			p.errors = append(p.errors, t)
		case domain.KindConstant:
			p.constants = append(p.constants, t)
		}
	}
}

// TryConsume attempts to satisfy every requirement at once.
//
// Requirements are walked in declaration order; each one takes the first
// still-available token of its bucket in insertion order, matching on
// artifact identity only. No backtracking.
//
// If every requirement finds a distinct match, the consumption is committed:
// one data_flow edge per requirement is returned (provenance node →
// destination, carrying the matched token), matched variables and errors are
// removed, matched constants are marked used, and the destination is flagged
// as fanning out if any Unitary requirement matched a Collection token.
//
// If any requirement finds no match, the pool is left completely untouched
// and the unmatched requirements are returned as missing. Partial
// consumption is never applied.
func (p *Pool) TryConsume(requirements []domain.Token, destination *domain.Node) (edges []domain.Edge, missing []domain.Token) {
	matched := make([]domain.Token, 0, len(requirements))
	taken := make(map[int]bool, len(requirements))
	triggerFanOut := false

	for _, req := range requirements {
		bucket := p.bucketFor(req.Artifact.Kind)
		found := false
		for _, t := range bucket {
			if taken[t.ID] || !t.Matches(req) {
				continue
			}
			if req.Cardinality == domain.Unitary && t.Cardinality == domain.Collection {
				triggerFanOut = true
			}
			matched = append(matched, t)
			taken[t.ID] = true
			found = true
			break
		}
		if !found {
			missing = append(missing, req)
		}
	}

	if len(missing) > 0 {
		return nil, missing
	}

	// Commit. Edge order follows requirement order.
	for _, t := range matched {
		edges = append(edges, domain.Edge{
			Origin:      p.origins[t.ID].UID,
			Destination: destination.UID,
			Token:       t,
			Relation:    domain.DataFlow,
		})
	}
	if triggerFanOut {
		p.fannedOut[destination.UID] = true
	}
	for _, t := range matched {
		if t.Artifact.Kind == domain.KindConstant {
			p.usedConstants[t.ID] = true
		}
	}
	p.variables = removeTaken(p.variables, taken)
	p.errors = removeTaken(p.errors, taken)
	return edges, nil
}

// Leftovers returns remaining variables and errors, plus only the constants
// never marked used.
func (p *Pool) Leftovers() (variables, errors, constants []domain.Token) {
	variables = append([]domain.Token(nil), p.variables...)
	errors = append([]domain.Token(nil), p.errors...)
	for _, c := range p.constants {
		if !p.usedConstants[c.ID] {
			constants = append(constants, c)
		}
	}
	return variables, errors, constants
}

// Origin returns the provenance node of a pooled token.
func (p *Pool) Origin(token domain.Token) *domain.Node {
	return p.origins[token.ID]
}

// FannedOut reports whether a node uid is flagged as fanning out in this pool.
func (p *Pool) FannedOut(uid int) bool {
	return p.fannedOut[uid]
}

func (p *Pool) bucketFor(kind string) []domain.Token {
	switch kind {
	case domain.KindVariable:
		return p.variables
	case domain.KindError:
		return p.errors
	default:
		return p.constants
	}
}

func removeTaken(bucket []domain.Token, taken map[int]bool) []domain.Token {
	out := bucket[:0]
	for _, t := range bucket {
		if !taken[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
