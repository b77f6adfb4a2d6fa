package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/models"
)

func seedUser(t *testing.T, s *Memory, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, HashedPassword: "x", Role: role, FullName: email}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedDisclosure(t *testing.T, s *Memory, inventor uuid.UUID) *models.Disclosure {
	t.Helper()
	content := models.NewContent()
	content.Set("problem", models.Text("slow widgets"))
	d := &models.Disclosure{
		Title:          "Widget",
		Status:         models.StatusDraft,
		DisclosureType: models.TypeNewDisclosure,
		InventorID:     inventor,
		Content:        content,
	}
	if err := s.CreateDisclosure(context.Background(), d); err != nil {
		t.Fatalf("create disclosure: %v", err)
	}
	return d
}

func TestMemoryDuplicateEmail(t *testing.T) {
	s := NewMemory()
	seedUser(t, s, "a@example.com", models.RoleInventor)
	err := s.CreateUser(context.Background(), &models.User{Email: "A@example.com", Role: models.RoleLawyer})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestMemoryVersionsAreContiguous(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	inv := seedUser(t, s, "inv@example.com", models.RoleInventor)
	d := seedDisclosure(t, s, inv.ID)

	for i := 0; i < 3; i++ {
		c := models.NewContent()
		c.Set("problem", models.Text("edit"))
		v, err := s.ReviseContent(ctx, d.ID, c, inv.ID)
		if err != nil {
			t.Fatalf("revise: %v", err)
		}
		if v.VersionNumber != i+2 {
			t.Fatalf("version = %d, want %d", v.VersionNumber, i+2)
		}
	}

	versions, err := s.ListVersions(ctx, d.ID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != 4 {
		t.Fatalf("len(versions) = %d, want 4", len(versions))
	}
	for i, v := range versions {
		if v.VersionNumber != 4-i {
			t.Fatalf("versions[%d] = %d, want %d", i, v.VersionNumber, 4-i)
		}
	}
}

func TestMemoryUpdateDisclosureKeepsContent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	inv := seedUser(t, s, "inv@example.com", models.RoleInventor)
	d := seedDisclosure(t, s, inv.ID)

	d.Title = "Renamed"
	d.Content = models.NewContent()
	if err := s.UpdateDisclosure(ctx, d); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetDisclosure(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Renamed" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Content.Empty() {
		t.Fatalf("UpdateDisclosure must not touch content")
	}
}

func TestMemoryDraftingTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	inv := seedUser(t, s, "inv@example.com", models.RoleInventor)
	d := seedDisclosure(t, s, inv.ID)

	draft, err := s.BeginDrafting(ctx, d.ID)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if draft.AIProcessingStatus != models.AIProcessing {
		t.Fatalf("draft status = %s", draft.AIProcessingStatus)
	}
	got, _ := s.GetDisclosure(ctx, d.ID)
	if got.Status != models.StatusAIProcessing {
		t.Fatalf("disclosure status = %s", got.Status)
	}

	if err := s.FailDrafting(ctx, d.ID, "provider down"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	got, _ = s.GetDisclosure(ctx, d.ID)
	failed, _ := s.GetDraftByDisclosure(ctx, d.ID)
	if got.Status != models.StatusDraft || failed.AIProcessingStatus != models.AIFailed {
		t.Fatalf("after failure: disclosure=%s draft=%s", got.Status, failed.AIProcessingStatus)
	}
	if failed.ProcessingError == nil || *failed.ProcessingError != "provider down" {
		t.Fatalf("processing error = %v", failed.ProcessingError)
	}

	sections := models.NewContent()
	sections.Set("background", models.Text("bg"))
	if _, err := s.BeginDrafting(ctx, d.ID); err != nil {
		t.Fatalf("begin again: %v", err)
	}
	if err := s.CompleteDrafting(ctx, d.ID, sections, "gpt-4-turbo-preview"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, _ = s.GetDisclosure(ctx, d.ID)
	done, _ := s.GetDraftByDisclosure(ctx, d.ID)
	if got.Status != models.StatusReadyForReview || done.AIProcessingStatus != models.AICompleted {
		t.Fatalf("after success: disclosure=%s draft=%s", got.Status, done.AIProcessingStatus)
	}
	if done.ProcessingError != nil {
		t.Fatalf("processing error should be cleared")
	}
	if done.ID != failed.ID {
		t.Fatalf("drafting must reuse the disclosure's single draft")
	}
}

func TestMemoryDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	inv := seedUser(t, s, "inv@example.com", models.RoleInventor)
	d := seedDisclosure(t, s, inv.ID)

	if _, err := s.EnsureDraft(ctx, d.ID); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	f := &models.File{DisclosureID: d.ID, StorageKey: "uploads/x.pdf", FileType: models.FileDrawing}
	if err := s.CreateFile(ctx, f); err != nil {
		t.Fatalf("create file: %v", err)
	}
	c := &models.Comment{DisclosureID: d.ID, AuthorID: inv.ID, Content: "hi"}
	if err := s.CreateComment(ctx, c); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	msg := &models.Message{DisclosureID: d.ID, SenderID: inv.ID, Content: "hello"}
	if err := s.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("create message: %v", err)
	}
	vs := &models.VideoSession{DisclosureID: d.ID, Participants: []uuid.UUID{inv.ID}}
	if err := s.CreateVideoSession(ctx, vs); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := s.DeleteDisclosure(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.GetDisclosure(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("disclosure still present: %v", err)
	}
	if v, _ := s.ListVersions(ctx, d.ID); len(v) != 0 {
		t.Fatalf("versions survived delete")
	}
	if _, err := s.GetDraftByDisclosure(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft survived delete")
	}
	if _, err := s.GetFile(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("file survived delete")
	}
	if _, err := s.GetComment(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("comment survived delete")
	}
	if _, err := s.GetMessage(ctx, msg.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("message survived delete")
	}
	if _, err := s.GetVideoSession(ctx, vs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("video session survived delete")
	}
}

func TestMemoryListsAreOrdered(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	inv := seedUser(t, s, "inv@example.com", models.RoleInventor)
	d := seedDisclosure(t, s, inv.ID)

	var ids []uuid.UUID
	for _, text := range []string{"first", "second", "third"} {
		c := &models.Comment{DisclosureID: d.ID, AuthorID: inv.ID, Content: text}
		if err := s.CreateComment(ctx, c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
		ids = append(ids, c.ID)
	}
	comments, _ := s.ListComments(ctx, d.ID)
	for i, c := range comments {
		if c.ID != ids[i] {
			t.Fatalf("comments[%d] out of order", i)
		}
		if c.AuthorName != "inv@example.com" || c.AuthorRole != models.RoleInventor {
			t.Fatalf("comment author = %q/%s", c.AuthorName, c.AuthorRole)
		}
	}

	second := seedDisclosure(t, s, inv.ID)
	list, _ := s.ListDisclosures(ctx, DisclosureFilter{InventorID: &inv.ID})
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("disclosures should be newest first")
	}

	lawyer := uuid.New()
	list, _ = s.ListDisclosures(ctx, DisclosureFilter{LawyerID: &lawyer})
	if len(list) != 0 {
		t.Fatalf("lawyer filter returned %d disclosures", len(list))
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	inv := seedUser(t, s, "inv@example.com", models.RoleInventor)
	d := seedDisclosure(t, s, inv.ID)

	got, _ := s.GetDisclosure(ctx, d.ID)
	got.Content.Set("problem", models.Text("mutated"))

	again, _ := s.GetDisclosure(ctx, d.ID)
	if v, _ := again.Content.Get("problem"); v.Text != "slow widgets" {
		t.Fatalf("stored content changed through a returned copy: %q", v.Text)
	}
}
