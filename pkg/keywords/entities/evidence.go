package entities

import (
	"sort"
)

// Span is a half-open token index range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Context is one observation of two terms in the same sentence.
type Context struct {
	Sentence      string `json:"sentence"`
	SentenceIndex int    `json:"sentence_index"`
	SpanA         Span   `json:"span_a"`
	SpanB         Span   `json:"span_b"`
	// HeadA and HeadB describe each term's syntactic head as "dep:text".
	HeadA string `json:"head_a"`
	HeadB string `json:"head_b"`
}

// Heads returns the head-to-head descriptor of the context.
func (c Context) Heads() string {
	return c.HeadA + "->" + c.HeadB
}

func (c Context) swapped() Context {
	c.SpanA, c.SpanB = c.SpanB, c.SpanA
	c.HeadA, c.HeadB = c.HeadB, c.HeadA
	return c
}

// RelationshipEvidence accumulates contexts for an unordered pair of terms.
// TermA <= TermB always holds.
type RelationshipEvidence struct {
	TermA      string    `json:"term_a"`
	TermB      string    `json:"term_b"`
	Contexts   []Context `json:"contexts"`
	Confidence float64   `json:"confidence"`
}

// contextWeight is the share of the remaining doubt each new context removes.
const contextWeight = 0.1

// AddContext records ctx and raises the confidence with diminishing returns.
// Confidence stays in [0, 1) and never decreases.
func (r *RelationshipEvidence) AddContext(ctx Context) {
	r.Contexts = append(r.Contexts, ctx)
	r.Confidence += (1 - r.Confidence) * contextWeight
}

// CanonicalPair orders a and b lexicographically.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey returns the direction-independent key of a and b.
func PairKey(a, b string) string {
	a, b = CanonicalPair(a, b)
	return a + "\x00" + b
}

// Accumulator collects relationship evidence for one extraction call.
type Accumulator struct {
	evidence map[string]*RelationshipEvidence
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{evidence: make(map[string]*RelationshipEvidence)}
}

// Add records ctx as evidence relating a and b. ctx describes a in SpanA and
// HeadA; it is flipped when the pair is stored in the opposite order.
func (a *Accumulator) Add(termA, termB string, ctx Context) *RelationshipEvidence {
	if termB < termA {
		termA, termB = termB, termA
		ctx = ctx.swapped()
	}
	key := PairKey(termA, termB)
	ev, ok := a.evidence[key]
	if !ok {
		ev = &RelationshipEvidence{TermA: termA, TermB: termB}
		a.evidence[key] = ev
	}
	ev.AddContext(ctx)
	return ev
}

// Get returns the evidence for a and b in either order.
func (a *Accumulator) Get(termA, termB string) (*RelationshipEvidence, bool) {
	ev, ok := a.evidence[PairKey(termA, termB)]
	return ev, ok
}

// All returns the evidence ordered by TermA then TermB.
func (a *Accumulator) All() []*RelationshipEvidence {
	out := make([]*RelationshipEvidence, 0, len(a.evidence))
	for _, ev := range a.evidence {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TermA != out[j].TermA {
			return out[i].TermA < out[j].TermA
		}
		return out[i].TermB < out[j].TermB
	})
	return out
}

// Len returns the number of term pairs.
func (a *Accumulator) Len() int {
	return len(a.evidence)
}
