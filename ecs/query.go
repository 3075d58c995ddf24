package ecs

// Typed iteration helpers over EntityManager.Query. The callback receives the
// components already asserted to their concrete types.

// Each calls fn for every entity matching A.
func Each[A Component](m *EntityManager, fn func(e *Entity, a A)) {
	ta := TypeOf[A]()
	for e := range m.Query(ta) {
		fn(e, e.components[ta].(A))
	}
}

// Each2 calls fn for every entity matching A and B.
func Each2[A, B Component](m *EntityManager, fn func(e *Entity, a A, b B)) {
	ta, tb := TypeOf[A](), TypeOf[B]()
	for e := range m.Query(ta, tb) {
		fn(e, e.components[ta].(A), e.components[tb].(B))
	}
}

// Each3 calls fn for every entity matching A, B and C.
func Each3[A, B, C Component](m *EntityManager, fn func(e *Entity, a A, b B, c C)) {
	ta, tb, tc := TypeOf[A](), TypeOf[B](), TypeOf[C]()
	for e := range m.Query(ta, tb, tc) {
		fn(e, e.components[ta].(A), e.components[tb].(B), e.components[tc].(C))
	}
}
