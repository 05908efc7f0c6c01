package rubric

// Candidate pairs a linked instance row with its resolved template row and a
// computed changed flag.
type Candidate struct {
	Index       int         `json:"index"` // position in the instance row sequence
	Row         Row         `json:"row"`
	TemplateRow TemplateRow `json:"templateRow"`
	Changed     bool        `json:"changed"`
}

// Diff computes the ordered diff candidates for an instance against a
// template snapshot: one candidate per instance row whose TemplateRowID
// resolves in the snapshot, in instance row order.
//
// Rows without a template link are excluded entirely, not emitted as
// unchanged. Rows whose link does not resolve (orphaned) are skipped; a
// missing lookup means "no update available for this row", never an error.
// An empty result is a valid outcome meaning there is no update surface;
// callers distinguish it from "no update available" by also checking
// Instance.UpdateAvailable, since a template can gain a version with zero
// row-level diffs.
func Diff(in *Instance, snap *Snapshot) []Candidate {
	out := make([]Candidate, 0)
	for i, row := range in.Rows {
		if !row.Linked() {
			continue
		}
		tr, ok := snap.RowByID(row.TemplateRowID)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Index:       i,
			Row:         row,
			TemplateRow: tr,
			Changed:     !row.Fields.Equal(tr.Fields),
		})
	}
	return out
}
