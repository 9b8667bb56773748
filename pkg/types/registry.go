package types

// Registry is the fixed, ordered set of monitored service names. Membership
// is case-sensitive. A Registry is read-only after construction and safe for
// concurrent use.
type Registry struct {
	names []string
	set   map[string]struct{}
}

// NewRegistry builds a Registry from the given names, preserving order and
// dropping duplicates.
func NewRegistry(names ...string) *Registry {
	r := &Registry{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if _, ok := r.set[n]; ok {
			continue
		}
		r.set[n] = struct{}{}
		r.names = append(r.names, n)
	}
	return r
}

// DefaultRegistry returns the stock registry of monitored services.
func DefaultRegistry() *Registry {
	return NewRegistry("httpd", "rabbitmq", "postgresql")
}

// Contains reports whether name is a registered service.
func (r *Registry) Contains(name string) bool {
	_, ok := r.set[name]
	return ok
}

// Names returns the registered service names in registration order.
// The returned slice is a copy.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	return len(r.names)
}
