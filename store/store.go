package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/drydock-io/refit"
)

// ErrNotFound indicates the requested workflow does not exist.
var ErrNotFound = errors.New("workflow not found")

const schema = `
CREATE TABLE IF NOT EXISTS workflows (
	id           TEXT PRIMARY KEY,
	repo_id      TEXT NOT NULL,
	status       TEXT NOT NULL,
	pr_url       TEXT,
	pipeline_url TEXT,
	created_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS workflow_steps (
	id          TEXT PRIMARY KEY,
	workflow_id TEXT NOT NULL REFERENCES workflows(id),
	position    INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	status      TEXT NOT NULL,
	detail      TEXT,
	created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workflows_repo_id ON workflows(repo_id);
CREATE INDEX IF NOT EXISTS idx_workflow_steps_workflow_id ON workflow_steps(workflow_id);
`

// Record is one persisted workflow row, without its step ledger.
type Record struct {
	WorkflowID  string
	RepoID      string
	Status      refit.WorkflowStatus
	PRURL       string
	PipelineURL string
	CreatedAt   time.Time
}

// Store persists workflow results in sqlite. It implements
// refit.ResultStore.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the sqlite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult writes one workflow row and its step rows in a single
// transaction, keyed by the workflow id and the owning repository id.
func (s *Store) SaveResult(ctx context.Context, repoID string, res *refit.WorkflowResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO workflows (id, repo_id, status, pr_url, pipeline_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.WorkflowID, repoID, string(res.Status), nullable(res.PRURL), nullable(res.PipelineURL), now,
	); err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}

	for i, step := range res.Steps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workflow_steps (id, workflow_id, position, kind, status, detail, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), res.WorkflowID, i, string(step.Kind), string(step.Status), nullable(step.Detail), now,
		); err != nil {
			return fmt.Errorf("insert workflow step %s: %w", step.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetResult loads a workflow and its ordered step ledger by workflow id.
func (s *Store) GetResult(ctx context.Context, workflowID string) (*refit.WorkflowResult, error) {
	res := &refit.WorkflowResult{WorkflowID: workflowID}
	var status, prURL, pipelineURL sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT status, pr_url, pipeline_url FROM workflows WHERE id = ?`, workflowID,
	).Scan(&status, &prURL, &pipelineURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query workflow: %w", err)
	}
	res.Status = refit.WorkflowStatus(status.String)
	res.PRURL = prURL.String
	res.PipelineURL = pipelineURL.String

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, status, detail FROM workflow_steps
		 WHERE workflow_id = ? ORDER BY position`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("query workflow steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, stepStatus string
		var detail sql.NullString
		if err := rows.Scan(&kind, &stepStatus, &detail); err != nil {
			return nil, fmt.Errorf("scan workflow step: %w", err)
		}
		res.Steps = append(res.Steps, refit.WorkflowStep{
			Kind:   refit.WorkflowStepKind(kind),
			Status: refit.WorkflowStatus(stepStatus),
			Detail: detail.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflow steps: %w", err)
	}
	return res, nil
}

// ListByRepo returns the workflow records for one owning repository id,
// newest first.
func (s *Store) ListByRepo(ctx context.Context, repoID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, repo_id, status, pr_url, pipeline_url, created_at
		 FROM workflows WHERE repo_id = ? ORDER BY created_at DESC, id`, repoID)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var status string
		var prURL, pipelineURL sql.NullString
		if err := rows.Scan(&rec.WorkflowID, &rec.RepoID, &status, &prURL, &pipelineURL, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		rec.Status = refit.WorkflowStatus(status)
		rec.PRURL = prURL.String
		rec.PipelineURL = pipelineURL.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
	}
	return records, nil
}

// nullable maps empty strings to NULL so optional columns stay NULL rather
// than empty text.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
