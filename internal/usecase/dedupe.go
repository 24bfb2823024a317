package usecase

import "MediaMonitor/internal/domain"

// DedupIndex answers whether a candidate mention already exists in the
// store. It is built once per run: a set of non-empty links (the strongest
// identity signal) and a set of (title, published) signatures catching
// re-scrapes of the same article under a different or missing URL.
type DedupIndex struct {
	links map[string]struct{}
	sigs  map[domain.Signature]struct{}
}

// NewDedupIndex builds the two lookup sets from all existing mentions.
func NewDedupIndex(existing []domain.Mention) *DedupIndex {
	idx := &DedupIndex{
		links: make(map[string]struct{}, len(existing)),
		sigs:  make(map[domain.Signature]struct{}, len(existing)),
	}
	for _, m := range existing {
		idx.Add(m)
	}
	return idx
}

// Seen reports whether the candidate duplicates a known mention, by link
// when it has one, falling back to the (title, published) signature.
func (idx *DedupIndex) Seen(m domain.Mention) bool {
	if m.Link != "" {
		if _, ok := idx.links[m.Link]; ok {
			return true
		}
	}
	_, ok := idx.sigs[m.Signature()]
	return ok
}

// Add registers a mention so later candidates in the same batch cannot
// duplicate it.
func (idx *DedupIndex) Add(m domain.Mention) {
	if m.Link != "" {
		idx.links[m.Link] = struct{}{}
	}
	idx.sigs[m.Signature()] = struct{}{}
}

// Len returns the number of distinct signatures indexed.
func (idx *DedupIndex) Len() int {
	return len(idx.sigs)
}
