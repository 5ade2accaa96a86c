package extension

// Sort orders extensions so every declared dependency completes setup before
// its dependents, using Kahn's algorithm. Edges to names outside the set are
// dropped. Ties preserve declaration order: the ready queue is FIFO and
// seeded in input order.
func Sort(configs []*Config) ([]*Config, error) {
	present := make(map[string]*Config, len(configs))
	for _, cfg := range configs {
		present[cfg.Name] = cfg
	}

	inDegree := make(map[string]int, len(configs))
	dependents := make(map[string][]string)

	for _, cfg := range configs {
		inDegree[cfg.Name] = 0
	}

	for _, cfg := range configs {
		for _, dep := range cfg.Dependencies {
			if _, ok := present[dep]; !ok {
				continue
			}

			inDegree[cfg.Name]++
			dependents[dep] = append(dependents[dep], cfg.Name)
		}
	}

	var queue []string
	for _, cfg := range configs {
		if inDegree[cfg.Name] == 0 {
			queue = append(queue, cfg.Name)
		}
	}

	sorted := make([]*Config, 0, len(configs))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		sorted = append(sorted, present[name])

		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) < len(configs) {
		emitted := make(map[string]bool, len(sorted))
		for _, cfg := range sorted {
			emitted[cfg.Name] = true
		}

		var cycle []string
		for _, cfg := range configs {
			if !emitted[cfg.Name] {
				cycle = append(cycle, cfg.Name)
			}
		}

		return nil, &CycleError{Names: cycle}
	}

	return sorted, nil
}
