package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rubricware/rubrichub/internal/db"
	"github.com/rubricware/rubrichub/internal/models"
	"github.com/rubricware/rubrichub/internal/rubric"
)

// InstanceSummary is a list-view projection of a rubric instance. The
// update-availability flag is recomputed from the latest template version on
// every listing, never stored.
type InstanceSummary struct {
	ID              string    `json:"id"`
	OwnerID         uint64    `json:"ownerId"`
	Name            string    `json:"name"`
	SubjectCode     string    `json:"subjectCode"`
	Version         int       `json:"version"`
	Shared          bool      `json:"shared"`
	RowCount        int       `json:"rowCount"`
	TemplateID      string    `json:"templateId,omitempty"`
	TemplateVersion int       `json:"templateVersion,omitempty"`
	UpdateAvailable bool      `json:"updateAvailable"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateFromScratch creates an unlinked rubric with n blank rows and persists
// it for the given owner.
func (s *Store) CreateFromScratch(ctx context.Context, ownerID uint64, name, subjectCode string, n int) (*rubric.Instance, error) {
	in := rubric.NewFromScratch(uuid.NewString(), name, subjectCode, n)
	if errCreate := s.insertInstance(ctx, ownerID, in); errCreate != nil {
		return nil, errCreate
	}
	return in, nil
}

// CreateFromTemplate creates a rubric seeded from the current version of a
// template. With linkForUpdates false the copy is fully disconnected: no
// template provenance is recorded at all.
func (s *Store) CreateFromTemplate(ctx context.Context, ownerID uint64, name, subjectCode, templateID string, linkForUpdates bool) (*rubric.Instance, error) {
	snap, errSnap := s.FetchSnapshot(ctx, templateID)
	if errSnap != nil {
		return nil, errSnap
	}
	in := rubric.NewFromTemplate(uuid.NewString(), name, subjectCode, snap, linkForUpdates)
	if errCreate := s.insertInstance(ctx, ownerID, in); errCreate != nil {
		return nil, errCreate
	}
	return in, nil
}

func (s *Store) insertInstance(ctx context.Context, ownerID uint64, in *rubric.Instance) error {
	record := models.Rubric{
		ID:          in.ID,
		OwnerID:     ownerID,
		Name:        in.Name,
		SubjectCode: in.SubjectCode,
		Version:     in.Version,
	}
	if in.TemplateID != "" {
		tid := in.TemplateID
		tver := in.TemplateVer
		record.TemplateID = &tid
		record.TemplateVersion = &tver
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&record).Error; errCreate != nil {
			return errCreate
		}
		rows := rowsToModel(in.ID, in.Rows)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// FetchInstance loads a rubric visible to the user: their own, or one another
// user has shared. Rows come back in position order.
func (s *Store) FetchInstance(ctx context.Context, userID uint64, id string) (*rubric.Instance, error) {
	record, errFind := s.findVisible(ctx, userID, id)
	if errFind != nil {
		return nil, errFind
	}
	return instanceFromModel(record), nil
}

// FetchOwnedInstance loads a rubric only if the user owns it. Mutating
// operations go through this path; shared visibility never grants edit access.
func (s *Store) FetchOwnedInstance(ctx context.Context, userID uint64, id string) (*rubric.Instance, error) {
	record, errFind := findOwned(s.db.WithContext(ctx), userID, id)
	if errFind != nil {
		return nil, errFind
	}
	return instanceFromModel(record), nil
}

func (s *Store) findVisible(ctx context.Context, userID uint64, id string) (*models.Rubric, error) {
	var record models.Rubric
	errFind := s.db.WithContext(ctx).
		Preload("Rows", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("id = ? AND (owner_id = ? OR shared = ?)", id, userID, true).
		First(&record).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errFind
	}
	return &record, nil
}

func findOwned(tx *gorm.DB, userID uint64, id string) (*models.Rubric, error) {
	var record models.Rubric
	errFind := tx.
		Preload("Rows", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Where("id = ? AND owner_id = ?", id, userID).
		First(&record).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errFind
	}
	return &record, nil
}

// UpdateMeta updates a rubric's name, subject code and shared flag without
// touching its rows or version counter.
func (s *Store) UpdateMeta(ctx context.Context, userID uint64, id, name, subjectCode string, shared bool) error {
	result := s.db.WithContext(ctx).Model(&models.Rubric{}).
		Where("id = ? AND owner_id = ?", id, userID).
		Updates(map[string]any{
			"name":         name,
			"subject_code": subjectCode,
			"shared":       shared,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveRows replaces a rubric's full row sequence in one transaction. An empty
// row list is rejected with ErrValidation; deleting every row is not a save.
// When bumpVersion is true the instance version advances by exactly one; the
// bump happens in the same transaction as the row write, so a failed save
// never advances the version.
func (s *Store) SaveRows(ctx context.Context, userID uint64, id string, rows []rubric.Row, bumpVersion bool) (*rubric.Instance, error) {
	if len(rows) == 0 {
		return nil, ErrValidation
	}
	var saved *rubric.Instance
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, errFind := findOwned(tx, userID, id)
		if errFind != nil {
			return errFind
		}

		ws := rubric.NewStore()
		ws.Load(instanceFromModel(record))
		ws.SetRows(rows)

		if errReplace := replaceRows(tx, id, ws.Instance().Rows); errReplace != nil {
			return errReplace
		}

		if bumpVersion {
			ws.Commit()
		}
		in := ws.Instance()
		if errUpdate := tx.Model(&models.Rubric{}).Where("id = ?", id).
			Updates(map[string]any{
				"version":    in.Version,
				"updated_at": in.UpdatedAt,
			}).Error; errUpdate != nil {
			return errUpdate
		}
		saved = in
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return saved, nil
}

func replaceRows(tx *gorm.DB, rubricID string, rows []rubric.Row) error {
	if errDelete := tx.Where("rubric_id = ?", rubricID).Delete(&models.RubricRow{}).Error; errDelete != nil {
		return errDelete
	}
	records := rowsToModel(rubricID, rows)
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}

// TemplateUpdates computes the pending diff candidates for a template-linked
// rubric against its template's current row set. It returns the candidates
// plus the template's latest version so callers can report availability even
// when the row-level diff is empty.
func (s *Store) TemplateUpdates(ctx context.Context, userID uint64, id string) ([]rubric.Candidate, int, error) {
	in, errFetch := s.FetchOwnedInstance(ctx, userID, id)
	if errFetch != nil {
		return nil, 0, errFetch
	}
	if !in.Derived() {
		return nil, 0, ErrValidation
	}
	snap, errSnap := s.FetchSnapshot(ctx, in.TemplateID)
	if errSnap != nil {
		return nil, 0, errSnap
	}
	return rubric.Diff(in, snap), snap.Version(), nil
}

// ApplyTemplateUpdates overwrites the selected rows with their template
// counterparts and records the template's current version on the instance,
// all in one transaction. Row selection is by instance row id; unknown,
// unlinked and orphaned ids are ignored. The write counts as a save, so the
// instance version advances by one.
func (s *Store) ApplyTemplateUpdates(ctx context.Context, userID uint64, id string, acceptRowIDs []string) (*rubric.Instance, error) {
	var saved *rubric.Instance
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, errFind := findOwned(tx, userID, id)
		if errFind != nil {
			return errFind
		}
		in := instanceFromModel(record)
		if !in.Derived() {
			return ErrValidation
		}
		snap, errSnap := s.fetchSnapshot(tx, in.TemplateID)
		if errSnap != nil {
			return errSnap
		}

		ws := rubric.NewStore()
		ws.Load(in)
		rubric.Apply(ws, rowIndices(ws.Instance(), acceptRowIDs), snap, snap.Version())

		if errReplace := replaceRows(tx, id, ws.Instance().Rows); errReplace != nil {
			return errReplace
		}
		ws.Commit()
		out := ws.Instance()
		if errUpdate := tx.Model(&models.Rubric{}).Where("id = ?", id).
			Updates(map[string]any{
				"version":          out.Version,
				"template_version": out.TemplateVer,
				"updated_at":       out.UpdatedAt,
			}).Error; errUpdate != nil {
			return errUpdate
		}
		saved = out
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return saved, nil
}

// rowIndices translates instance row ids to sequence indices. Ids that do not
// name a current row are dropped.
func rowIndices(in *rubric.Instance, rowIDs []string) []int {
	byID := make(map[string]int, len(in.Rows))
	for i, row := range in.Rows {
		byID[row.ID] = i
	}
	out := make([]int, 0, len(rowIDs))
	for _, id := range rowIDs {
		if idx, ok := byID[id]; ok {
			out = append(out, idx)
		}
	}
	return out
}

// DeleteInstance removes a rubric and its rows. Deleting an already-deleted
// rubric is a no-op, not an error.
func (s *Store) DeleteInstance(ctx context.Context, userID uint64, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, userID).Delete(&models.Rubric{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("rubric_id = ?", id).Delete(&models.RubricRow{}).Error
	})
}

// ListInstances returns the user's rubrics, newest first, optionally filtered
// by a case-insensitive name or subject-code search.
func (s *Store) ListInstances(ctx context.Context, ownerID uint64, search string) ([]InstanceSummary, error) {
	query := s.db.WithContext(ctx).Model(&models.Rubric{}).Where("owner_id = ?", ownerID)
	return s.listSummaries(ctx, query, search)
}

// ListShared returns rubrics other users have shared, newest first.
func (s *Store) ListShared(ctx context.Context, excludeOwnerID uint64, search string) ([]InstanceSummary, error) {
	query := s.db.WithContext(ctx).Model(&models.Rubric{}).
		Where("shared = ? AND owner_id <> ?", true, excludeOwnerID)
	return s.listSummaries(ctx, query, search)
}

func (s *Store) listSummaries(ctx context.Context, query *gorm.DB, search string) ([]InstanceSummary, error) {
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		pattern := db.NormalizeLikePattern(s.db, "%"+trimmed+"%")
		query = query.Where(
			s.db.Where(db.CaseInsensitiveLikeExpr(s.db, "name"), pattern).
				Or(db.CaseInsensitiveLikeExpr(s.db, "subject_code"), pattern),
		)
	}

	var records []models.Rubric
	if errFind := query.Order("updated_at DESC").Find(&records).Error; errFind != nil {
		return nil, errFind
	}

	counts, errCounts := s.rowCounts(ctx, records)
	if errCounts != nil {
		return nil, errCounts
	}
	versions, errVersions := s.latestTemplateVersions(ctx, records)
	if errVersions != nil {
		return nil, errVersions
	}

	out := make([]InstanceSummary, 0, len(records))
	for _, r := range records {
		summary := InstanceSummary{
			ID:          r.ID,
			OwnerID:     r.OwnerID,
			Name:        r.Name,
			SubjectCode: r.SubjectCode,
			Version:     r.Version,
			Shared:      r.Shared,
			RowCount:    counts[r.ID],
			UpdatedAt:   r.UpdatedAt,
		}
		if r.TemplateID != nil {
			summary.TemplateID = *r.TemplateID
			if r.TemplateVersion != nil {
				summary.TemplateVersion = *r.TemplateVersion
			}
			if latest, ok := versions[*r.TemplateID]; ok {
				summary.UpdateAvailable = latest > summary.TemplateVersion
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Store) rowCounts(ctx context.Context, records []models.Rubric) (map[string]int, error) {
	if len(records) == 0 {
		return map[string]int{}, nil
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	var rows []struct {
		RubricID string
		N        int
	}
	errCount := s.db.WithContext(ctx).Model(&models.RubricRow{}).
		Select("rubric_id, COUNT(*) AS n").
		Where("rubric_id IN ?", ids).
		Group("rubric_id").
		Scan(&rows).Error
	if errCount != nil {
		return nil, errCount
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.RubricID] = row.N
	}
	return out, nil
}

func (s *Store) latestTemplateVersions(ctx context.Context, records []models.Rubric) (map[string]int, error) {
	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if r.TemplateID == nil || seen[*r.TemplateID] {
			continue
		}
		seen[*r.TemplateID] = true
		ids = append(ids, *r.TemplateID)
	}
	if len(ids) == 0 {
		return map[string]int{}, nil
	}
	var rows []struct {
		ID      string
		Version int
	}
	errFind := s.db.WithContext(ctx).Model(&models.RubricTemplate{}).
		Select("id, version").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if errFind != nil {
		return nil, errFind
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Version
	}
	return out, nil
}
