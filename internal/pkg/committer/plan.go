package committer

import "cloud.google.com/go/spanner"

// Plan collects the mutations of one logical unit of work. Nil mutations
// are ignored so repos can return nil for no-op writes.
type Plan struct {
	mutations []*spanner.Mutation
}

func NewPlan() *Plan {
	return &Plan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

func (p *Plan) Add(m *spanner.Mutation) {
	if m == nil {
		return
	}
	p.mutations = append(p.mutations, m)
}

func (p *Plan) IsEmpty() bool {
	return len(p.mutations) == 0
}

func (p *Plan) Len() int {
	return len(p.mutations)
}

func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}
