package queue

import (
	"errors"
	"testing"
)

func TestNewSeededOrderAndPending(t *testing.T) {
	q := NewSeeded()

	all := q.List("")
	if len(all) != 3 {
		t.Fatalf("expected 3 seeded conversations, got %d", len(all))
	}
	// Insertion order is the contract; no priority re-sorting.
	wantPatients := []string{"Ana Silva", "Carlos Santos", "Maria Oliveira"}
	for i, c := range all {
		if c.Patient != wantPatients[i] {
			t.Fatalf("position %d: expected %s, got %s", i, wantPatients[i], c.Patient)
		}
	}

	if got := q.CountPending(); got != 2 {
		t.Fatalf("expected 2 pending conversations, got %d", got)
	}
}

func TestListFilterByStatus(t *testing.T) {
	q := NewSeeded()

	waiting := q.List(StatusWaiting)
	if len(waiting) != 2 {
		t.Fatalf("expected 2 waiting conversations, got %d", len(waiting))
	}
	finalized := q.List(StatusFinalized)
	if len(finalized) != 1 || finalized[0].Patient != "Maria Oliveira" {
		t.Fatalf("unexpected finalized list: %+v", finalized)
	}
}

func TestGetUnknownConversation(t *testing.T) {
	q := NewSeeded()
	if _, err := q.Get(99); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestSetStatusForwardOnly(t *testing.T) {
	q := NewSeeded()

	if err := q.SetStatus(1, StatusInService); err != nil {
		t.Fatalf("aguardando -> em_atendimento should succeed: %v", err)
	}
	if err := q.SetStatus(1, StatusFinalized); err != nil {
		t.Fatalf("em_atendimento -> finalizado should succeed: %v", err)
	}

	// Reopening a finalized conversation is rejected.
	if err := q.SetStatus(1, StatusWaiting); !errors.Is(err, ErrStatusRegression) {
		t.Fatalf("expected ErrStatusRegression, got %v", err)
	}
	if err := q.SetStatus(3, StatusInService); !errors.Is(err, ErrStatusRegression) {
		t.Fatalf("expected ErrStatusRegression for seeded finalizado, got %v", err)
	}

	c, err := q.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if c.Status != StatusFinalized {
		t.Fatalf("rejected transition must not mutate status, got %s", c.Status)
	}
}

func TestSetStatusValidation(t *testing.T) {
	q := NewSeeded()
	if err := q.SetStatus(1, Status("cancelado")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := q.SetStatus(42, StatusInService); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestAppendDuplicateID(t *testing.T) {
	q := NewSeeded()
	err := q.Append(Conversation{ID: 1, Patient: "Duplicada", Channel: ChannelWhatsApp, Status: StatusWaiting})
	if err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
	if q.Len() != 3 {
		t.Fatalf("failed append must not grow the queue, got %d", q.Len())
	}
}

func TestListReturnsCopies(t *testing.T) {
	q := NewSeeded()
	all := q.List("")
	all[0].Status = StatusFinalized

	fresh, err := q.Get(all[0].ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fresh.Status != StatusWaiting {
		t.Fatal("List must return copies, not aliases into the queue")
	}
}
