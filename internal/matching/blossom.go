package matching

// Exact maximum-weight matching on general (non-bipartite) graphs.
//
// This is a port of Galil's blossom algorithm in the formulation published
// by Joris van Rantwijk, the same implementation networkx carries. Vertices
// are 0..n-1; blossoms are numbered n..2n-1. Runs in O(n^3), which is exact
// and comfortably fast for cohort-sized graphs.

type weightedEdge struct {
	i int
	j int
	w float64
}

const noVertex = -1

type blossomMatcher struct {
	edges   []weightedEdge
	nvertex int
	nedge   int

	// endpoint[p] is the vertex at endpoint p; edge k has endpoints 2k, 2k+1.
	endpoint []int
	// neighbend[v] lists the remote endpoints of edges incident to v.
	neighbend [][]int

	mate     []int
	label    []int
	labelend []int

	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int
	unusedblossoms   []int
	dualvar          []float64
	allowedge        []bool
	queue            []int
}

// maxWeightMatching returns mate[v] for every vertex: the matched partner
// or -1. The matching maximizes total edge weight and need not be perfect.
func maxWeightMatching(edges []weightedEdge) []int {
	if len(edges) == 0 {
		return nil
	}

	m := &blossomMatcher{edges: edges, nedge: len(edges)}
	for _, e := range edges {
		if e.i >= m.nvertex {
			m.nvertex = e.i + 1
		}
		if e.j >= m.nvertex {
			m.nvertex = e.j + 1
		}
	}
	m.init()
	m.run()

	for v := 0; v < m.nvertex; v++ {
		if m.mate[v] >= 0 {
			m.mate[v] = m.endpoint[m.mate[v]]
		}
	}
	return m.mate
}

func (m *blossomMatcher) init() {
	n := m.nvertex

	maxweight := 0.0
	for _, e := range m.edges {
		if e.w > maxweight {
			maxweight = e.w
		}
	}

	m.endpoint = make([]int, 2*m.nedge)
	for p := range m.endpoint {
		if p%2 == 0 {
			m.endpoint[p] = m.edges[p/2].i
		} else {
			m.endpoint[p] = m.edges[p/2].j
		}
	}

	m.neighbend = make([][]int, n)
	for k, e := range m.edges {
		m.neighbend[e.i] = append(m.neighbend[e.i], 2*k+1)
		m.neighbend[e.j] = append(m.neighbend[e.j], 2*k)
	}

	m.mate = filled(n, noVertex)
	m.label = make([]int, 2*n)
	m.labelend = filled(2*n, noVertex)

	m.inblossom = make([]int, n)
	for v := range m.inblossom {
		m.inblossom[v] = v
	}

	m.blossomparent = filled(2*n, noVertex)
	m.blossomchilds = make([][]int, 2*n)
	m.blossombase = make([]int, 2*n)
	for b := range m.blossombase {
		if b < n {
			m.blossombase[b] = b
		} else {
			m.blossombase[b] = noVertex
		}
	}
	m.blossomendps = make([][]int, 2*n)
	m.bestedge = filled(2*n, noVertex)
	m.blossombestedges = make([][]int, 2*n)

	m.unusedblossoms = make([]int, 0, n)
	for b := n; b < 2*n; b++ {
		m.unusedblossoms = append(m.unusedblossoms, b)
	}

	m.dualvar = make([]float64, 2*n)
	for v := 0; v < n; v++ {
		m.dualvar[v] = maxweight
	}

	m.allowedge = make([]bool, m.nedge)
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// slack is the dual slack of edge k; an edge is tight when its slack is 0.
func (m *blossomMatcher) slack(k int) float64 {
	e := m.edges[k]
	return m.dualvar[e.i] + m.dualvar[e.j] - 2*e.w
}

func (m *blossomMatcher) blossomLeaves(b int, out []int) []int {
	if b < m.nvertex {
		return append(out, b)
	}
	for _, t := range m.blossomchilds[b] {
		out = m.blossomLeaves(t, out)
	}
	return out
}

// assignLabel marks the blossom containing w with an S (1) or T (2) label
// reached through endpoint p.
func (m *blossomMatcher) assignLabel(w, t, p int) {
	b := m.inblossom[w]
	m.label[w] = t
	m.label[b] = t
	m.labelend[w] = p
	m.labelend[b] = p
	m.bestedge[w] = noVertex
	m.bestedge[b] = noVertex
	if t == 1 {
		m.queue = m.blossomLeaves(b, m.queue)
	} else if t == 2 {
		base := m.blossombase[b]
		m.assignLabel(m.endpoint[m.mate[base]], 1, m.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find either a common ancestor
// (returning its base, which closes a new blossom) or an augmenting path
// (returning -1).
func (m *blossomMatcher) scanBlossom(v, w int) int {
	var path []int
	base := noVertex
	for v != noVertex || w != noVertex {
		b := m.inblossom[v]
		if m.label[b]&4 != 0 {
			base = m.blossombase[b]
			break
		}
		path = append(path, b)
		m.label[b] = 5
		if m.labelend[b] == noVertex {
			v = noVertex
		} else {
			v = m.endpoint[m.labelend[b]]
			b = m.inblossom[v]
			v = m.endpoint[m.labelend[b]]
		}
		if w != noVertex {
			v, w = w, v
		}
	}
	for _, b := range path {
		m.label[b] = 1
	}
	return base
}

// addBlossom folds the odd cycle through edge k with the given base vertex
// into a new blossom.
func (m *blossomMatcher) addBlossom(base, k int) {
	v := m.edges[k].i
	w := m.edges[k].j
	bb := m.inblossom[base]
	bv := m.inblossom[v]
	bw := m.inblossom[w]

	b := m.unusedblossoms[len(m.unusedblossoms)-1]
	m.unusedblossoms = m.unusedblossoms[:len(m.unusedblossoms)-1]

	m.blossombase[b] = base
	m.blossomparent[b] = noVertex
	m.blossomparent[bb] = b

	var path []int
	var endps []int

	for bv != bb {
		m.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, m.labelend[bv])
		v = m.endpoint[m.labelend[bv]]
		bv = m.inblossom[v]
	}
	path = append(path, bb)
	reverseInts(path)
	reverseInts(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		m.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, m.labelend[bw]^1)
		w = m.endpoint[m.labelend[bw]]
		bw = m.inblossom[w]
	}
	m.blossomchilds[b] = path
	m.blossomendps[b] = endps

	m.label[b] = 1
	m.labelend[b] = m.labelend[bb]
	m.dualvar[b] = 0

	for _, leaf := range m.blossomLeaves(b, nil) {
		if m.label[m.inblossom[leaf]] == 2 {
			m.queue = append(m.queue, leaf)
		}
		m.inblossom[leaf] = b
	}

	// recompute best edges into the new blossom
	bestedgeto := filled(2*m.nvertex, noVertex)
	for _, bc := range path {
		var nblists [][]int
		if m.blossombestedges[bc] == nil {
			for _, leaf := range m.blossomLeaves(bc, nil) {
				list := make([]int, 0, len(m.neighbend[leaf]))
				for _, p := range m.neighbend[leaf] {
					list = append(list, p/2)
				}
				nblists = append(nblists, list)
			}
		} else {
			nblists = [][]int{m.blossombestedges[bc]}
		}
		for _, nblist := range nblists {
			for _, ek := range nblist {
				j := m.edges[ek].j
				if m.inblossom[j] == b {
					j = m.edges[ek].i
				}
				bj := m.inblossom[j]
				if bj != b && m.label[bj] == 1 &&
					(bestedgeto[bj] == noVertex || m.slack(ek) < m.slack(bestedgeto[bj])) {
					bestedgeto[bj] = ek
				}
			}
		}
		m.blossombestedges[bc] = nil
		m.bestedge[bc] = noVertex
	}

	var best []int
	for _, ek := range bestedgeto {
		if ek != noVertex {
			best = append(best, ek)
		}
	}
	m.blossombestedges[b] = best
	m.bestedge[b] = noVertex
	for _, ek := range best {
		if m.bestedge[b] == noVertex || m.slack(ek) < m.slack(m.bestedge[b]) {
			m.bestedge[b] = ek
		}
	}
}

// expandBlossom dissolves blossom b, relabelling its children. During a
// stage (endstage false) a T-blossom with zero dual must be expanded and
// its sub-blossoms relabelled to keep the alternating trees consistent.
func (m *blossomMatcher) expandBlossom(b int, endstage bool) {
	for _, s := range m.blossomchilds[b] {
		m.blossomparent[s] = noVertex
		if s < m.nvertex {
			m.inblossom[s] = s
		} else if endstage && m.dualvar[s] == 0 {
			m.expandBlossom(s, endstage)
		} else {
			for _, leaf := range m.blossomLeaves(s, nil) {
				m.inblossom[leaf] = s
			}
		}
	}

	if !endstage && m.label[b] == 2 {
		entrychild := m.inblossom[m.endpoint[m.labelend[b]^1]]
		j := indexOf(m.blossomchilds[b], entrychild)
		var jstep, endptrick int
		if j%2 == 1 {
			j -= len(m.blossomchilds[b])
			jstep = 1
			endptrick = 0
		} else {
			jstep = -1
			endptrick = 1
		}
		p := m.labelend[b]
		for j != 0 {
			m.label[m.endpoint[p^1]] = 0
			m.label[m.endpoint[m.childEndp(b, j-endptrick)^endptrick^1]] = 0
			m.assignLabel(m.endpoint[p^1], 2, p)
			m.allowedge[m.childEndp(b, j-endptrick)/2] = true
			j += jstep
			p = m.childEndp(b, j-endptrick) ^ endptrick
			m.allowedge[p/2] = true
			j += jstep
		}
		bv := m.childAt(b, j)
		m.label[m.endpoint[p^1]] = 2
		m.label[bv] = 2
		m.labelend[m.endpoint[p^1]] = p
		m.labelend[bv] = p
		m.bestedge[bv] = noVertex
		j += jstep
		for m.childAt(b, j) != entrychild {
			bv = m.childAt(b, j)
			if m.label[bv] == 1 {
				j += jstep
				continue
			}
			var reached int = noVertex
			for _, leaf := range m.blossomLeaves(bv, nil) {
				if m.label[leaf] != 0 {
					reached = leaf
					break
				}
			}
			if reached != noVertex {
				m.label[reached] = 0
				m.label[m.endpoint[m.mate[m.blossombase[bv]]]] = 0
				m.assignLabel(reached, 2, m.labelend[reached])
			}
			j += jstep
		}
	}

	m.label[b] = noVertex
	m.labelend[b] = noVertex
	m.blossomchilds[b] = nil
	m.blossomendps[b] = nil
	m.blossombase[b] = noVertex
	m.blossombestedges[b] = nil
	m.bestedge[b] = noVertex
	m.unusedblossoms = append(m.unusedblossoms, b)
}

// childAt indexes blossomchilds[b] allowing the negative wrap-around
// indices the traversal uses.
func (m *blossomMatcher) childAt(b, j int) int {
	childs := m.blossomchilds[b]
	if j < 0 {
		j += len(childs)
	}
	return childs[j]
}

func (m *blossomMatcher) childEndp(b, j int) int {
	endps := m.blossomendps[b]
	if j < 0 {
		j += len(endps)
	}
	return endps[j]
}

// augmentBlossom swaps matched and unmatched edges inside blossom b so that
// vertex v becomes the blossom's base.
func (m *blossomMatcher) augmentBlossom(b, v int) {
	t := v
	for m.blossomparent[t] != b {
		t = m.blossomparent[t]
	}
	if t >= m.nvertex {
		m.augmentBlossom(t, v)
	}
	i := indexOf(m.blossomchilds[b], t)
	j := i
	var jstep, endptrick int
	if i%2 == 1 {
		j -= len(m.blossomchilds[b])
		jstep = 1
		endptrick = 0
	} else {
		jstep = -1
		endptrick = 1
	}
	for j != 0 {
		j += jstep
		t = m.childAt(b, j)
		p := m.childEndp(b, j-endptrick) ^ endptrick
		if t >= m.nvertex {
			m.augmentBlossom(t, m.endpoint[p])
		}
		j += jstep
		t = m.childAt(b, j)
		if t >= m.nvertex {
			m.augmentBlossom(t, m.endpoint[p^1])
		}
		m.mate[m.endpoint[p]] = p ^ 1
		m.mate[m.endpoint[p^1]] = p
	}
	m.blossomchilds[b] = rotate(m.blossomchilds[b], i)
	m.blossomendps[b] = rotate(m.blossomendps[b], i)
	m.blossombase[b] = m.blossombase[m.blossomchilds[b][0]]
}

// augmentMatching flips the matching along the augmenting path through
// tight edge k.
func (m *blossomMatcher) augmentMatching(k int) {
	starts := [2][2]int{
		{m.edges[k].i, 2*k + 1},
		{m.edges[k].j, 2 * k},
	}
	for _, sp := range starts {
		s, p := sp[0], sp[1]
		for {
			bs := m.inblossom[s]
			if bs >= m.nvertex {
				m.augmentBlossom(bs, s)
			}
			m.mate[s] = p
			if m.labelend[bs] == noVertex {
				break
			}
			t := m.endpoint[m.labelend[bs]]
			bt := m.inblossom[t]
			s = m.endpoint[m.labelend[bt]]
			j := m.endpoint[m.labelend[bt]^1]
			if bt >= m.nvertex {
				m.augmentBlossom(bt, j)
			}
			m.mate[j] = m.labelend[bt]
			p = m.labelend[bt] ^ 1
		}
	}
}

func (m *blossomMatcher) run() {
	n := m.nvertex

	for stage := 0; stage < n; stage++ {
		for i := range m.label {
			m.label[i] = 0
		}
		for i := range m.bestedge {
			m.bestedge[i] = noVertex
		}
		for b := n; b < 2*n; b++ {
			m.blossombestedges[b] = nil
		}
		for i := range m.allowedge {
			m.allowedge[i] = false
		}
		m.queue = m.queue[:0]

		for v := 0; v < n; v++ {
			if m.mate[v] == noVertex && m.label[m.inblossom[v]] == 0 {
				m.assignLabel(v, 1, noVertex)
			}
		}

		augmented := false
		for {
			for len(m.queue) > 0 && !augmented {
				v := m.queue[len(m.queue)-1]
				m.queue = m.queue[:len(m.queue)-1]

				for _, p := range m.neighbend[v] {
					k := p / 2
					w := m.endpoint[p]
					if m.inblossom[v] == m.inblossom[w] {
						continue
					}
					var kslack float64
					if !m.allowedge[k] {
						kslack = m.slack(k)
						if kslack <= 0 {
							m.allowedge[k] = true
						}
					}
					if m.allowedge[k] {
						if m.label[m.inblossom[w]] == 0 {
							m.assignLabel(w, 2, p^1)
						} else if m.label[m.inblossom[w]] == 1 {
							base := m.scanBlossom(v, w)
							if base >= 0 {
								m.addBlossom(base, k)
							} else {
								m.augmentMatching(k)
								augmented = true
								break
							}
						} else if m.label[w] == 0 {
							m.label[w] = 2
							m.labelend[w] = p ^ 1
						}
					} else if m.label[m.inblossom[w]] == 1 {
						b := m.inblossom[v]
						if m.bestedge[b] == noVertex || kslack < m.slack(m.bestedge[b]) {
							m.bestedge[b] = k
						}
					} else if m.label[w] == 0 {
						if m.bestedge[w] == noVertex || kslack < m.slack(m.bestedge[w]) {
							m.bestedge[w] = k
						}
					}
				}
			}
			if augmented {
				break
			}

			// no augmenting path under the current duals; compute the
			// minimum delta over the four update types
			deltatype := 1
			delta := m.dualvar[0]
			for v := 1; v < n; v++ {
				if m.dualvar[v] < delta {
					delta = m.dualvar[v]
				}
			}
			deltaedge := noVertex
			deltablossom := noVertex

			for v := 0; v < n; v++ {
				if m.label[m.inblossom[v]] == 0 && m.bestedge[v] != noVertex {
					d := m.slack(m.bestedge[v])
					if d < delta {
						delta = d
						deltatype = 2
						deltaedge = m.bestedge[v]
					}
				}
			}
			for b := 0; b < 2*n; b++ {
				if m.blossomparent[b] == noVertex && m.label[b] == 1 && m.bestedge[b] != noVertex {
					d := m.slack(m.bestedge[b]) / 2
					if d < delta {
						delta = d
						deltatype = 3
						deltaedge = m.bestedge[b]
					}
				}
			}
			for b := n; b < 2*n; b++ {
				if m.blossombase[b] >= 0 && m.blossomparent[b] == noVertex &&
					m.label[b] == 2 && m.dualvar[b] < delta {
					delta = m.dualvar[b]
					deltatype = 4
					deltablossom = b
				}
			}

			for v := 0; v < n; v++ {
				switch m.label[m.inblossom[v]] {
				case 1:
					m.dualvar[v] -= delta
				case 2:
					m.dualvar[v] += delta
				}
			}
			for b := n; b < 2*n; b++ {
				if m.blossombase[b] >= 0 && m.blossomparent[b] == noVertex {
					switch m.label[b] {
					case 1:
						m.dualvar[b] += delta
					case 2:
						m.dualvar[b] -= delta
					}
				}
			}

			switch deltatype {
			case 1:
				// optimum reached
			case 2:
				m.allowedge[deltaedge] = true
				i := m.edges[deltaedge].i
				if m.label[m.inblossom[i]] == 0 {
					i = m.edges[deltaedge].j
				}
				m.queue = append(m.queue, i)
			case 3:
				m.allowedge[deltaedge] = true
				m.queue = append(m.queue, m.edges[deltaedge].i)
			case 4:
				m.expandBlossom(deltablossom, false)
			}
			if deltatype == 1 {
				break
			}
		}

		if !augmented {
			break
		}

		for b := n; b < 2*n; b++ {
			if m.blossomparent[b] == noVertex && m.blossombase[b] >= 0 &&
				m.label[b] == 1 && m.dualvar[b] == 0 {
				m.expandBlossom(b, true)
			}
		}
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func rotate(s []int, i int) []int {
	out := make([]int, 0, len(s))
	out = append(out, s[i:]...)
	out = append(out, s[:i]...)
	return out
}
