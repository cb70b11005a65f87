package engine

import "sync"

// buildIslands groups particles connected by two-body forces with a
// union-find pass. Every island is integrated by a single worker so a
// spring's two ends never move under each other concurrently.
func (w *World) buildIslands() [][]int {
	n := len(w.particles)

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	index := make(map[uint64]int, n)
	for i, p := range w.particles {
		index[p.ID()] = i
	}

	for i, p := range w.particles {
		for _, q := range p.Partners() {
			if j, ok := index[q.ID()]; ok {
				union(i, j)
			}
			// A partner outside the world is stepped by nobody; its
			// state is frozen, so reading it is race-free.
		}
	}

	groups := make(map[int][]int, n)
	for i := range w.particles {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	islands := make([][]int, 0, len(groups))
	for i := range w.particles {
		if find(i) == i {
			islands = append(islands, groups[i])
		}
	}
	return islands
}

// parallelIslands fans islands out across workers in contiguous
// chunks, one goroutine per chunk. Returns the per-worker first
// errors.
func parallelIslands(islands [][]int, workers int, fn func(island []int) error) []error {
	if workers < 1 {
		workers = defaultWorkers
	}
	if workers > len(islands) {
		workers = len(islands)
	}
	if workers <= 1 {
		return []error{runIslands(islands, fn)}
	}

	chunkSize := (len(islands) + workers - 1) / workers
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for wk := 0; wk < workers; wk++ {
		start := wk * chunkSize
		end := start + chunkSize
		if end > len(islands) {
			end = len(islands)
		}

		go func(wk int, chunk [][]int) {
			defer wg.Done()
			errs[wk] = runIslands(chunk, fn)
		}(wk, islands[start:end])
	}

	wg.Wait()
	return errs
}

func runIslands(islands [][]int, fn func(island []int) error) error {
	for _, island := range islands {
		if err := fn(island); err != nil {
			return err
		}
	}
	return nil
}
