package kernel

// GroupVertices assigns a group id to every selected vertex so that two
// selected vertices share an id exactly when a path of triangle edges with
// selected endpoints joins them. Ids are numbered from 1 in order of each
// group's lowest vertex index. Unselected vertices get 0. It returns the
// number of groups.
func GroupVertices(m *Mesh) int {
	m.ensureSelection()
	n := m.VertexCount()

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		if !m.Selected[a] || !m.Selected[b] {
			return
		}
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Keep the lower index as root so ids follow vertex order.
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	for f := 0; f < m.TriangleCount(); f++ {
		t := m.TriangleIndices(f)
		if t[0] >= n || t[1] >= n || t[2] >= n {
			continue
		}
		union(t[0], t[1])
		union(t[1], t[2])
		union(t[2], t[0])
	}

	ids := make(map[int]int)
	for i := 0; i < n; i++ {
		if !m.Selected[i] {
			m.Groups[i] = 0
			continue
		}
		root := find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids) + 1
			ids[root] = id
		}
		m.Groups[i] = id
	}
	return len(ids)
}
