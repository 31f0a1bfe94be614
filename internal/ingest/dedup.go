package ingest

import "github.com/medha-kiot/command-center/internal/model"

// Deduplicator keeps the first record seen for every team key, in insertion
// order. It is scoped to one ingestion run and is not safe for concurrent use.
type Deduplicator struct {
	order []string
	byKey map[string]*model.TeamRecord
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{byKey: make(map[string]*model.TeamRecord)}
}

// Add stores rec unless its key is already present. On a duplicate the stored
// record is left untouched and the returned DuplicateTeam describes the skip.
func (d *Deduplicator) Add(rec model.TeamRecord, row int) (model.DuplicateTeam, bool) {
	if first, ok := d.byKey[rec.TeamKey]; ok {
		return model.DuplicateTeam{
			TeamName:    rec.TeamName,
			TeamKey:     rec.TeamKey,
			Source:      rec.Provenance.Source,
			Row:         row,
			FirstSource: first.Provenance.Source,
		}, false
	}
	d.byKey[rec.TeamKey] = &rec
	d.order = append(d.order, rec.TeamKey)
	return model.DuplicateTeam{}, true
}

func (d *Deduplicator) Len() int {
	return len(d.order)
}

// Records returns copies of the stored records in insertion order.
func (d *Deduplicator) Records() []model.TeamRecord {
	out := make([]model.TeamRecord, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, *d.byKey[key])
	}
	return out
}
