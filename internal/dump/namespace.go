package dump

import "sync"

// Namespace is one `(short-name, URI)` XML namespace declaration.
type Namespace struct {
	Prefix string
	URI    string
}

// Namespaces is the core's ordered namespace registry: declarations are
// emitted on the dump root in registration order, matching the
// configured-order requirement (§6).
type Namespaces struct {
	mu    sync.Mutex
	order []Namespace
}

// NewNamespaces creates an empty namespace registry.
func NewNamespaces() *Namespaces {
	return &Namespaces{}
}

// Add registers prefix -> uri, appending to the declaration order. Adding
// an already-registered prefix with the same URI is a no-op; a different
// URI for an existing prefix replaces it in place (keeping its position).
func (n *Namespaces) Add(prefix, uri string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, ns := range n.order {
		if ns.Prefix == prefix {
			n.order[i].URI = uri
			return
		}
	}
	n.order = append(n.order, Namespace{Prefix: prefix, URI: uri})
}

// Ordered returns the registered namespaces in declaration order.
func (n *Namespaces) Ordered() []Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Namespace(nil), n.order...)
}

// Default returns the namespace registry the core ships with: nocc,
// chook and fetrans, exactly as named in §6's worked example.
func Default() *Namespaces {
	ns := NewNamespaces()
	ns.Add("nocc", "http://www.cs.kent.ac.uk/projects/ofa/nocc/NAMESPACES/nocc")
	ns.Add("chook", "http://www.cs.kent.ac.uk/projects/ofa/nocc/NAMESPACES/chook")
	ns.Add("fetrans", "http://www.cs.kent.ac.uk/projects/ofa/nocc/NAMESPACES/fetrans")
	return ns
}
