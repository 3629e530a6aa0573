package data

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DateLayout is the format of Assessment.AssessedOn.
	DateLayout = "2006-01-02"

	// DefaultListLimit caps ListAssessments when no limit is given.
	DefaultListLimit = 50

	upsertAssessmentSQL = `INSERT INTO assessment (
			id, candidate, assessed_on, source, answers_csv, model_ref, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			candidate = excluded.candidate,
			assessed_on = excluded.assessed_on,
			source = excluded.source,
			answers_csv = excluded.answers_csv,
			model_ref = excluded.model_ref`

	deleteScoresSQL = `DELETE FROM label_score WHERE assessment_id = $1`

	insertScoreSQL = `INSERT INTO label_score (assessment_id, section, label, value)
		VALUES ($1, $2, $3, $4)`

	selectAssessmentSQL = `SELECT id, candidate, assessed_on, source, answers_csv, model_ref, created_at
		FROM assessment WHERE id = $1`

	selectScoresSQL = `SELECT section, label, value
		FROM label_score WHERE assessment_id = $1
		ORDER BY section, value DESC, label`

	listAssessmentsSQL = `SELECT a.id, a.candidate, a.assessed_on, a.source, a.model_ref, a.created_at,
			(SELECT COUNT(*) FROM label_score s WHERE s.assessment_id = a.id) AS labels
		FROM assessment a
		WHERE LOWER(a.candidate) LIKE $1
		ORDER BY a.assessed_on DESC, a.created_at DESC
		LIMIT $2`

	deleteAssessmentSQL = `DELETE FROM assessment WHERE id = $1`

	labelHistorySQL = `SELECT a.id, a.assessed_on, s.section, s.label, s.value
		FROM label_score s
		JOIN assessment a ON a.id = s.assessment_id
		WHERE a.candidate = $1
		ORDER BY s.label, a.assessed_on, a.created_at`
)

// LabelScore is one stored label value.
type LabelScore struct {
	Section string  `json:"section" yaml:"section"`
	Label   string  `json:"label" yaml:"label"`
	Value   float64 `json:"value" yaml:"value"`
}

// Assessment is one scored questionnaire of a candidate.
type Assessment struct {
	ID         string       `json:"id" yaml:"id"`
	Candidate  string       `json:"candidate" yaml:"candidate"`
	AssessedOn string       `json:"assessed_on" yaml:"assessedOn"`
	Source     string       `json:"source,omitempty" yaml:"source,omitempty"`
	AnswersCSV string       `json:"answers_csv,omitempty" yaml:"answersCsv,omitempty"`
	ModelRef   string       `json:"model_ref,omitempty" yaml:"modelRef,omitempty"`
	CreatedAt  time.Time    `json:"created_at" yaml:"createdAt"`
	LabelCount int          `json:"label_count" yaml:"labelCount"`
	Scores     []LabelScore `json:"scores,omitempty" yaml:"scores,omitempty"`
}

// LabelPoint is the value of one label in one assessment.
type LabelPoint struct {
	AssessmentID string  `json:"assessment_id" yaml:"assessmentId"`
	AssessedOn   string  `json:"assessed_on" yaml:"assessedOn"`
	Section      string  `json:"section" yaml:"section"`
	Label        string  `json:"label" yaml:"label"`
	Value        float64 `json:"value" yaml:"value"`
}

// SaveAssessment inserts or replaces a and its scores in one transaction.
// Empty ID, AssessedOn and CreatedAt are filled in.
func SaveAssessment(ctx context.Context, db *sql.DB, a *Assessment) error {
	if db == nil {
		return errDBNotInitialized
	}
	if a == nil {
		return errors.New("assessment required")
	}

	a.Candidate = strings.TrimSpace(a.Candidate)
	if a.Candidate == "" {
		return errors.New("candidate required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.AssessedOn == "" {
		a.AssessedOn = a.CreatedAt.Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, a.AssessedOn); err != nil {
		return errors.Wrapf(err, "invalid assessment date %q, expected YYYY-MM-DD", a.AssessedOn)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, upsertAssessmentSQL,
		a.ID, a.Candidate, a.AssessedOn, a.Source, a.AnswersCSV, a.ModelRef,
		a.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return errors.Wrapf(err, "failed to save assessment %s", a.ID)
	}

	if _, err := tx.ExecContext(ctx, deleteScoresSQL, a.ID); err != nil {
		return errors.Wrapf(err, "failed to clear scores of %s", a.ID)
	}

	stmt, err := tx.PrepareContext(ctx, insertScoreSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare score insert statement")
	}
	defer stmt.Close()

	for _, s := range a.Scores {
		if _, err := stmt.ExecContext(ctx, a.ID, s.Section, s.Label, s.Value); err != nil {
			return errors.Wrapf(err, "failed to insert score %s/%s", s.Section, s.Label)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit assessment")
	}

	a.LabelCount = len(a.Scores)
	return nil
}

// GetAssessment returns the assessment with its answers and scores.
func GetAssessment(ctx context.Context, db *sql.DB, id string) (*Assessment, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	a := &Assessment{}
	var created string
	err := db.QueryRowContext(ctx, selectAssessmentSQL, id).Scan(
		&a.ID, &a.Candidate, &a.AssessedOn, &a.Source, &a.AnswersCSV, &a.ModelRef, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "assessment %s", id)
		}
		return nil, errors.Wrapf(err, "failed to get assessment %s", id)
	}
	a.CreatedAt = parseTime(created)

	rows, err := db.QueryContext(ctx, selectScoresSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query scores of %s", id)
	}
	defer rows.Close()

	a.Scores = make([]LabelScore, 0)
	for rows.Next() {
		var s LabelScore
		if err := rows.Scan(&s.Section, &s.Label, &s.Value); err != nil {
			return nil, errors.Wrap(err, "failed to scan score")
		}
		a.Scores = append(a.Scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate scores")
	}
	a.LabelCount = len(a.Scores)

	return a, nil
}

// ListAssessments returns assessments whose candidate contains like, newest
// first, without answers or scores.
func ListAssessments(ctx context.Context, db *sql.DB, like string, limit int) ([]*Assessment, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(like)) + "%"
	rows, err := db.QueryContext(ctx, listAssessmentsSQL, pattern, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assessments")
	}
	defer rows.Close()

	list := make([]*Assessment, 0)
	for rows.Next() {
		a := &Assessment{}
		var created string
		if err := rows.Scan(&a.ID, &a.Candidate, &a.AssessedOn, &a.Source, &a.ModelRef, &created, &a.LabelCount); err != nil {
			return nil, errors.Wrap(err, "failed to scan assessment")
		}
		a.CreatedAt = parseTime(created)
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate assessments")
	}

	return list, nil
}

// DeleteAssessment removes an assessment and its scores.
func DeleteAssessment(ctx context.Context, db *sql.DB, id string) error {
	if db == nil {
		return errDBNotInitialized
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, deleteScoresSQL, id); err != nil {
		return errors.Wrapf(err, "failed to delete scores of %s", id)
	}

	res, err := tx.ExecContext(ctx, deleteAssessmentSQL, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete assessment %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "assessment %s", id)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit delete")
	}
	return nil
}

// GetLabelHistory returns every stored label value of a candidate, grouped
// by label and ordered by assessment date.
func GetLabelHistory(ctx context.Context, db *sql.DB, candidate string) ([]*LabelPoint, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.QueryContext(ctx, labelHistorySQL, strings.TrimSpace(candidate))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query history of %s", candidate)
	}
	defer rows.Close()

	list := make([]*LabelPoint, 0)
	for rows.Next() {
		p := &LabelPoint{}
		if err := rows.Scan(&p.AssessmentID, &p.AssessedOn, &p.Section, &p.Label, &p.Value); err != nil {
			return nil, errors.Wrap(err, "failed to scan label point")
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate label history")
	}

	return list, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
