package service

import (
	"errors"
	"testing"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/model"
)

func TestTaskCreateRequiresPartner(t *testing.T) {
	e := setup(t)

	ana := e.register(t, "Ana", "ana")

	var authErr *AuthError

	// Unpaired
	_, err := e.tasks.Create(ana, "Wash dishes", "", 10, nil)
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError for unpaired user, got %v", err)
	}

	// Paired but waiting for partner
	couple, err := e.identity.CreateCouple(ana.UserID)
	if err != nil {
		t.Fatalf("create couple: %v", err)
	}
	ana.CoupleID = couple.ID
	_, err = e.tasks.Create(ana, "Wash dishes", "", 10, nil)
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError while waiting for partner, got %v", err)
	}
}

func TestTaskCreateAssignsPartner(t *testing.T) {
	e := setup(t)

	ana := e.register(t, "Ana", "ana")
	bruno := e.register(t, "Bruno", "bruno")
	e.pair(t, &ana, &bruno)

	task, err := e.tasks.Create(ana, "Wash dishes", "all of them", 10, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.AssignedTo != bruno.UserID {
		t.Fatalf("assigned_to = %d, want partner %d", task.AssignedTo, bruno.UserID)
	}
	if task.CreatedBy != ana.UserID {
		t.Fatalf("created_by = %d, want %d", task.CreatedBy, ana.UserID)
	}
}

func TestTaskCreateValidation(t *testing.T) {
	e := setup(t)

	ana := e.register(t, "Ana", "ana")
	bruno := e.register(t, "Bruno", "bruno")
	e.pair(t, &ana, &bruno)

	var validationErr *ValidationError

	if _, err := e.tasks.Create(ana, "   ", "", 10, nil); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for empty title, got %v", err)
	}
	if _, err := e.tasks.Create(ana, "Wash dishes", "", 0, nil); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for zero points, got %v", err)
	}
	bad := model.Frequency("yearly")
	if _, err := e.tasks.Create(ana, "Wash dishes", "", 10, &bad); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for bad frequency, got %v", err)
	}
}

func TestTaskCompleteRules(t *testing.T) {
	e := setup(t)

	ana := e.register(t, "Ana", "ana")
	bruno := e.register(t, "Bruno", "bruno")
	e.pair(t, &ana, &bruno)

	task, err := e.tasks.Create(ana, "Wash dishes", "", 10, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// The creator is not the assignee
	var authErr *AuthError
	if _, _, err := e.tasks.Complete(ana, task.ID, ""); !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError for non-assignee, got %v", err)
	}

	completed, clone, err := e.tasks.Complete(bruno, task.ID, "")
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if !completed.Completed || clone != nil {
		t.Fatalf("completed=%v clone=%v", completed.Completed, clone)
	}

	// Completing twice is a state error
	var stateErr *StateError
	if _, _, err := e.tasks.Complete(bruno, task.ID, ""); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError for double completion, got %v", err)
	}
}

func TestTaskCompleteRecurring(t *testing.T) {
	e := setup(t)

	ana := e.register(t, "Ana", "ana")
	bruno := e.register(t, "Bruno", "bruno")
	e.pair(t, &ana, &bruno)

	daily := model.FrequencyDaily
	task, err := e.tasks.Create(ana, "Make coffee", "", 2, &daily)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	_, clone, err := e.tasks.Complete(bruno, task.ID, "")
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if clone == nil {
		t.Fatal("expected a clone for recurring task")
	}

	pending, err := e.tasks.Pending(bruno)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != clone.ID {
		t.Fatalf("pending = %+v, want only the clone", pending)
	}
}

func TestTaskCrossCoupleInvisible(t *testing.T) {
	e := setup(t)

	ana := e.register(t, "Ana", "ana")
	bruno := e.register(t, "Bruno", "bruno")
	e.pair(t, &ana, &bruno)

	carla := e.register(t, "Carla", "carla")
	dani := e.register(t, "Dani", "dani")
	e.pair(t, &carla, &dani)

	task, err := e.tasks.Create(ana, "Wash dishes", "", 10, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Another couple sees NotFound, not Forbidden: existence is not leaked
	var notFoundErr *NotFoundError
	if _, _, err := e.tasks.Complete(dani, task.ID, ""); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError across couples, got %v", err)
	}
	if _, err := e.tasks.Delete(carla, task.ID); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError across couples, got %v", err)
	}
}

func TestTaskDeleteCreatorOnly(t *testing.T) {
	e := setup(t)

	ana := e.register(t, "Ana", "ana")
	bruno := e.register(t, "Bruno", "bruno")
	e.pair(t, &ana, &bruno)

	task, err := e.tasks.Create(ana, "Wash dishes", "", 10, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	var authErr *AuthError
	if _, err := e.tasks.Delete(bruno, task.ID); !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError for non-creator, got %v", err)
	}

	deleted, err := e.tasks.Delete(ana, task.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if deleted.ID != task.ID {
		t.Fatalf("deleted %d, want %d", deleted.ID, task.ID)
	}
}

// completeTask is a helper for balance-building in reward tests.
func completeTask(t *testing.T, e *env, creator, assignee auth.AuthContext, points int) {
	t.Helper()

	task, err := e.tasks.Create(creator, "Chore", "", points, nil)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, _, err := e.tasks.Complete(assignee, task.ID, ""); err != nil {
		t.Fatalf("complete task: %v", err)
	}
}
