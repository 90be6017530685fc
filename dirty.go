package vellum

// DirtyRecord is one changed component as returned by [Engine.TakeDirty].
type DirtyRecord struct {
	Component  Component
	Properties []Property

	// Generation is the take that produced this record. It advances by
	// one per take, so hosts can tell stale captures apart.
	Generation uint64
}

// dirtyRegistry harvests changed components from the tree. Because the dirty
// bit rides up the parent chain, a take only descends into subtrees that
// actually contain changes; everything visited is cleaned on the way. The
// record slice is generation-tagged and reused across takes, so a take
// allocates nothing once the slice has grown to its working size.
type dirtyRegistry struct {
	gen     uint64
	records []DirtyRecord
}

// take returns the components dirtied since the previous take, in tree
// order, and marks them clean. The returned slice is only valid until the
// next take.
func (d *dirtyRegistry) take(root Component) []DirtyRecord {
	d.gen++
	d.records = d.records[:0]
	d.walk(root)
	return d.records
}

func (d *dirtyRegistry) walk(c Component) {
	if c == nil || !c.IsDirty() {
		return
	}
	if c.base().selfDirty {
		d.records = append(d.records, DirtyRecord{
			Component:  c,
			Properties: c.DirtyProperties(),
			Generation: d.gen,
		})
	}
	c.MarkClean()
	for i := 0; i < c.ChildCount(); i++ {
		d.walk(c.ChildAt(i))
	}
}

// generation returns the tag of the most recent take.
func (d *dirtyRegistry) generation() uint64 {
	return d.gen
}
