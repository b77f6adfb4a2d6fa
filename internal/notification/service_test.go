package notification

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

func TestSendListMarkRead(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewService(st)

	alice := authz.Caller{ID: uuid.New(), Role: models.RoleInventor}
	bob := authz.Caller{ID: uuid.New(), Role: models.RoleLawyer}

	svc.Send(ctx, alice.ID, Notice{Type: models.NotifyLawyerAssigned, Title: "Assigned", Message: "first"})
	svc.Send(ctx, alice.ID, Notice{Type: models.NotifyDraftReady, Title: "Draft", Message: "second"})

	all, err := svc.List(ctx, alice, false)
	if err != nil || len(all) != 2 {
		t.Fatalf("list = %+v, err = %v", all, err)
	}
	if all[0].Message != "second" {
		t.Fatalf("want newest first, got %q", all[0].Message)
	}

	if _, err := svc.MarkRead(ctx, bob, all[0].ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("foreign mark read: %v", err)
	}
	n, err := svc.MarkRead(ctx, alice, all[0].ID)
	if err != nil || !n.Read {
		t.Fatalf("mark read = %+v, err = %v", n, err)
	}

	unread, _ := svc.List(ctx, alice, true)
	if len(unread) != 1 || unread[0].Message != "first" {
		t.Fatalf("unread = %+v", unread)
	}
	if _, err := svc.MarkRead(ctx, alice, uuid.New()); apperr.Message(err) != "Notification not found" {
		t.Fatalf("missing: %v", err)
	}
}
