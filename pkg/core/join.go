package core

// ContainerIndex maps container ids to containers.
type ContainerIndex map[int64]Container

// IndexContainers builds a lookup from container id to container.
// Duplicate ids are tolerated: the last one wins.
func IndexContainers(containers []Container) ContainerIndex {
	idx := make(ContainerIndex, len(containers))
	for _, c := range containers {
		idx[c.ID] = c
	}
	return idx
}

// Resolve returns the container an item references, or nil when the item is
// unassigned or the reference dangles.
func (idx ContainerIndex) Resolve(item Item) *Container {
	if item.ContainerID == nil {
		return nil
	}
	c, ok := idx[*item.ContainerID]
	if !ok {
		return nil
	}
	return &c
}

// Enrich resolves a single item against the index.
func (idx ContainerIndex) Enrich(item Item) EnrichedItem {
	return EnrichedItem{
		ID:          item.ID,
		Name:        item.Name,
		Type:        item.Type,
		Description: item.Description,
		Container:   idx.Resolve(item),
	}
}

// JoinContainers maps each item to an EnrichedItem carrying its resolved
// container. Resolution is best-effort: dangling references yield nil.
// The result is never nil, so an empty join encodes as [] rather than null.
func JoinContainers(items []Item, containers []Container) []EnrichedItem {
	idx := IndexContainers(containers)
	out := make([]EnrichedItem, 0, len(items))
	for _, item := range items {
		out = append(out, idx.Enrich(item))
	}
	return out
}
