package property

// Kind is the tag of a Node in a folded property Tree. Every richer CTL
// combinator is expanded into these eight during parsing.
type Kind int

const (
	KindConst Kind = iota
	KindAtomic
	KindNot
	KindAnd
	KindOr
	KindEX
	KindEG
	KindEU
)

// Node is one entry of a Tree's arena. Child fields are indices into the
// same Tree.Nodes slice, -1 when unused: Const and Atomic have none; Not,
// EX and EG use A; And, Or and EU (A=hold, B=until) use both.
type Node struct {
	Kind      Kind
	BoolValue bool
	Atomic    AtomicProperty
	A, B      int
}

// Tree is a complete folded property: an arena of Nodes plus the index of
// the root formula.
type Tree struct {
	Nodes []Node
	Root  int
}

// RootNode is a shorthand for t.Nodes[t.Root].
func (t *Tree) RootNode() Node {
	return t.Nodes[t.Root]
}

// builder accumulates Nodes while parsing (or while hand-constructing a
// property programmatically) and folds CTL sugar into the primitive Kinds
// via the standard duality identities.
type builder struct {
	nodes []Node
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) push(n Node) int {
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

func (b *builder) constB(v bool) int {
	return b.push(Node{Kind: KindConst, BoolValue: v, A: -1, B: -1})
}

func (b *builder) atomic(a AtomicProperty) int {
	return b.push(Node{Kind: KindAtomic, Atomic: a, A: -1, B: -1})
}

func (b *builder) not(x int) int { return b.push(Node{Kind: KindNot, A: x, B: -1}) }
func (b *builder) and(x, y int) int { return b.push(Node{Kind: KindAnd, A: x, B: y}) }
func (b *builder) or(x, y int) int  { return b.push(Node{Kind: KindOr, A: x, B: y}) }
func (b *builder) ex(x int) int     { return b.push(Node{Kind: KindEX, A: x, B: -1}) }
func (b *builder) eg(x int) int     { return b.push(Node{Kind: KindEG, A: x, B: -1}) }
func (b *builder) eu(hold, until int) int {
	return b.push(Node{Kind: KindEU, A: hold, B: until})
}

// ax: AX phi == !EX(!phi).
func (b *builder) ax(x int) int { return b.not(b.ex(b.not(x))) }

// ef: EF phi == E[true U phi].
func (b *builder) ef(x int) int { return b.eu(b.constB(true), x) }

// ag: AG phi == !EF(!phi).
func (b *builder) ag(x int) int { return b.not(b.ef(b.not(x))) }

// af: AF phi == !EG(!phi).
func (b *builder) af(x int) int { return b.not(b.eg(b.not(x))) }

// er: E[f R g] == EG(g) || E[g U (f && g)].
func (b *builder) er(releaser, releasee int) int {
	return b.or(b.eg(releasee), b.eu(releasee, b.and(releaser, releasee)))
}

// au: A[f U g] == !(EG(!g) || E[!g U (!f && !g)]).
func (b *builder) au(hold, until int) int {
	notUntil := b.not(until)
	notHold := b.not(hold)
	return b.not(b.or(b.eg(notUntil), b.eu(notUntil, b.and(notHold, notUntil))))
}

// ar: A[f R g] == !E[!f U !g].
func (b *builder) ar(releaser, releasee int) int {
	return b.not(b.eu(b.not(releaser), b.not(releasee)))
}

func (b *builder) tree(root int) *Tree {
	return &Tree{Nodes: b.nodes, Root: root}
}
