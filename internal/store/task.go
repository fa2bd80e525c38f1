package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mfigueira/nossoapp/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var frequency sql.NullString
	var completed int
	var completedAt sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.CoupleID, &t.AssignedTo, &t.CreatedBy, &t.Title,
		&t.Description, &t.Points, &frequency, &completed, &t.PhotoPath,
		&t.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if frequency.Valid {
		f := model.Frequency(frequency.String)
		t.Frequency = &f
	}
	t.Completed = completed != 0
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

const taskCols = `id, couple_id, assigned_to, created_by, title, description, points, frequency, completed, photo_path, created_at, completed_at`

func (s *TaskStore) Create(coupleID, assignedTo, createdBy int64, title, description string, points int, frequency *model.Frequency) (*model.Task, error) {
	var freq sql.NullString
	if frequency != nil {
		freq = sql.NullString{String: string(*frequency), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (couple_id, assigned_to, created_by, title, description, points, frequency) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		coupleID, assignedTo, createdBy, title, description, points, freq,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// GetForCouple returns the task only if it belongs to the given couple.
func (s *TaskStore) GetForCouple(id, coupleID int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ? AND couple_id = ?`, id, coupleID)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task for couple: %w", err)
	}
	return t, nil
}

// ListPendingForAssignee returns open tasks assigned to the user, newest first.
func (s *TaskStore) ListPendingForAssignee(coupleID, userID int64) ([]model.Task, error) {
	return s.list(
		`SELECT `+taskCols+` FROM tasks WHERE couple_id = ? AND assigned_to = ? AND completed = 0 ORDER BY created_at DESC, id DESC`,
		coupleID, userID,
	)
}

// ListPendingByCreator returns open tasks the user created for their partner, newest first.
func (s *TaskStore) ListPendingByCreator(coupleID, userID int64) ([]model.Task, error) {
	return s.list(
		`SELECT `+taskCols+` FROM tasks WHERE couple_id = ? AND created_by = ? AND completed = 0 ORDER BY created_at DESC, id DESC`,
		coupleID, userID,
	)
}

// ListCompleted returns the couple's completion history, newest first.
func (s *TaskStore) ListCompleted(coupleID int64) ([]model.Task, error) {
	return s.list(
		`SELECT `+taskCols+` FROM tasks WHERE couple_id = ? AND completed = 1 ORDER BY completed_at DESC, id DESC`,
		coupleID,
	)
}

func (s *TaskStore) list(query string, args ...any) ([]model.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Complete marks the task completed and, when it is recurring, inserts
// an identical open clone in the same transaction. Returns the
// completed task and the clone (nil for one-shot tasks).
func (s *TaskStore) Complete(id int64, photoPath string, completedAt time.Time) (*model.Task, *model.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get task: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE tasks SET completed = 1, completed_at = ?, photo_path = ? WHERE id = ?`,
		completedAt, photoPath, id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("complete task: %w", err)
	}

	var cloneID int64
	if t.Recurring() {
		result, err := tx.Exec(
			`INSERT INTO tasks (couple_id, assigned_to, created_by, title, description, points, frequency) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.CoupleID, t.AssignedTo, t.CreatedBy, t.Title, t.Description, t.Points, string(*t.Frequency),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("insert recurring clone: %w", err)
		}
		cloneID, err = result.LastInsertId()
		if err != nil {
			return nil, nil, fmt.Errorf("last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	completed, err := s.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	var clone *model.Task
	if cloneID != 0 {
		clone, err = s.GetByID(cloneID)
		if err != nil {
			return nil, nil, err
		}
	}
	return completed, clone, nil
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
