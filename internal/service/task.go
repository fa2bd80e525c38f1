package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/model"
	"github.com/mfigueira/nossoapp/internal/store"
)

// Tasks runs the chore workflow: creation for the partner, completion
// with clone-on-complete recurrence, and creator-only deletion.
type Tasks struct {
	tasks  *store.TaskStore
	users  *store.UserStore
	logger *slog.Logger
}

func NewTasks(ts *store.TaskStore, us *store.UserStore, logger *slog.Logger) *Tasks {
	return &Tasks{tasks: ts, users: us, logger: logger}
}

// Create adds an open task for the actor's partner. Tasks are always
// assigned to the partner, never to the creator.
func (s *Tasks) Create(ac auth.AuthContext, title, description string, points int, frequency *model.Frequency) (*model.Task, error) {
	if ac.CoupleID == 0 {
		return nil, authf("you need a couple before creating tasks")
	}

	partner, err := s.users.GetPartner(ac.CoupleID, ac.UserID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, authf("you need a linked partner before creating tasks")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if points <= 0 {
		return nil, validationf("points must be positive")
	}
	if frequency != nil && !frequency.Valid() {
		return nil, validationf("unknown frequency %q", *frequency)
	}

	task, err := s.tasks.Create(ac.CoupleID, partner.ID, ac.UserID, title, description, points, frequency)
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created", "task_id", task.ID, "couple_id", ac.CoupleID, "assigned_to", partner.ID)
	return task, nil
}

// Complete marks the actor's task done, attaching the optional proof
// photo. A recurring task spawns exactly one identical open clone in
// the same transaction; the clone is returned alongside the completed
// task (nil for one-shot tasks).
func (s *Tasks) Complete(ac auth.AuthContext, taskID int64, photoPath string) (*model.Task, *model.Task, error) {
	task, err := s.tasks.GetForCouple(taskID, ac.CoupleID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, notFoundf("task not found")
	}
	if task.AssignedTo != ac.UserID {
		return nil, nil, authf("this task is not yours to complete")
	}
	if task.Completed {
		return nil, nil, statef("task is already completed")
	}

	completed, clone, err := s.tasks.Complete(taskID, photoPath, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}
	if completed == nil {
		return nil, nil, notFoundf("task not found")
	}

	if clone != nil {
		s.logger.Info("recurring task cloned", "task_id", completed.ID, "clone_id", clone.ID)
	}
	return completed, clone, nil
}

// Delete removes the task. Only its creator may delete it. The deleted
// task is returned so the caller can clean up its proof photo.
func (s *Tasks) Delete(ac auth.AuthContext, taskID int64) (*model.Task, error) {
	task, err := s.tasks.GetForCouple(taskID, ac.CoupleID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, notFoundf("task not found")
	}
	if task.CreatedBy != ac.UserID {
		return nil, authf("only the creator can delete this task")
	}

	if err := s.tasks.Delete(taskID); err != nil {
		return nil, err
	}
	return task, nil
}

// Pending returns the actor's open tasks, newest first.
func (s *Tasks) Pending(ac auth.AuthContext) ([]model.Task, error) {
	return s.tasks.ListPendingForAssignee(ac.CoupleID, ac.UserID)
}

// CreatedPending returns open tasks the actor created for their partner.
func (s *Tasks) CreatedPending(ac auth.AuthContext) ([]model.Task, error) {
	return s.tasks.ListPendingByCreator(ac.CoupleID, ac.UserID)
}

// History returns the couple's completed tasks, newest first.
func (s *Tasks) History(ac auth.AuthContext) ([]model.Task, error) {
	return s.tasks.ListCompleted(ac.CoupleID)
}
