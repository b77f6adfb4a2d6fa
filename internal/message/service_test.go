package message

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/store"
)

type loader struct{ st *store.Memory }

func (l loader) Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error) {
	d, err := l.st.GetDisclosure(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("Disclosure not found")
	}
	if err := authz.Authorize(c, authz.OwnershipOf(d)); err != nil {
		return nil, err
	}
	return d, nil
}

func setup(t *testing.T) (*Service, map[string]authz.Caller, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	callers := map[string]authz.Caller{}
	for name, role := range map[string]models.Role{
		"inventor": models.RoleInventor,
		"lawyer":   models.RoleLawyer,
		"lawyer2":  models.RoleLawyer,
		"admin":    models.RoleAdmin,
	} {
		u := &models.User{Email: name + "@x.co", Role: role}
		if err := st.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		callers[name] = authz.CallerOf(u)
	}
	lawyerID := callers["lawyer"].ID
	d := &models.Disclosure{
		Title:            "Widget",
		Status:           models.StatusInReview,
		DisclosureType:   models.TypeNewDisclosure,
		InventorID:       callers["inventor"].ID,
		AssignedLawyerID: &lawyerID,
		Content:          models.NewContent(),
	}
	if err := st.CreateDisclosure(ctx, d); err != nil {
		t.Fatalf("create disclosure: %v", err)
	}
	return NewService(st, loader{st}), callers, d.ID
}

func TestConversation(t *testing.T) {
	svc, callers, id := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, callers["inventor"], id, CreateRequest{Content: "Hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.IsRead || first.SenderRole != models.RoleInventor {
		t.Fatalf("message = %+v", first)
	}
	if _, err := svc.Create(ctx, callers["lawyer"], id, CreateRequest{Content: "Hi"}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if _, err := svc.Create(ctx, callers["lawyer2"], id, CreateRequest{Content: "Hi"}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("unassigned lawyer: %v", err)
	}

	list, err := svc.List(ctx, callers["lawyer"], id)
	if err != nil || len(list) != 2 || list[0].ID != first.ID {
		t.Fatalf("list = %+v, err = %v", list, err)
	}
}

func TestUpdate(t *testing.T) {
	svc, callers, id := setup(t)
	ctx := context.Background()
	m, _ := svc.Create(ctx, callers["inventor"], id, CreateRequest{Content: "Hello"})

	read := true
	got, err := svc.Update(ctx, callers["lawyer"], m.ID, UpdateRequest{IsRead: &read})
	if err != nil || !got.IsRead {
		t.Fatalf("mark read = %+v, err = %v", got, err)
	}

	text := "changed"
	if _, err := svc.Update(ctx, callers["lawyer"], m.ID, UpdateRequest{Content: &text}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-sender edit: %v", err)
	}
	got, err = svc.Update(ctx, callers["inventor"], m.ID, UpdateRequest{Content: &text})
	if err != nil || got.Content != "changed" || !got.IsRead {
		t.Fatalf("edit = %+v, err = %v", got, err)
	}

	if _, err := svc.Update(ctx, callers["inventor"], uuid.New(), UpdateRequest{IsRead: &read}); apperr.Message(err) != "Message not found" {
		t.Fatalf("missing: %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, callers, id := setup(t)
	ctx := context.Background()
	m, _ := svc.Create(ctx, callers["inventor"], id, CreateRequest{Content: "Hello"})

	if err := svc.Delete(ctx, callers["lawyer"], m.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-sender delete: %v", err)
	}
	if err := svc.Delete(ctx, callers["inventor"], m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := svc.List(ctx, callers["inventor"], id); len(list) != 0 {
		t.Fatalf("list after delete = %+v", list)
	}
}
