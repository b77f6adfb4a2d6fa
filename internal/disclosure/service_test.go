package disclosure

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/notification"
	"github.com/pyjuan91/Limira/internal/storage"
	"github.com/pyjuan91/Limira/internal/store"
)

type recordingScheduler struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingScheduler) ScheduleDrafting(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return nil
}

func (r *recordingScheduler) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

type fakeAnalyzer struct {
	calls int
}

func (f *fakeAnalyzer) AnalyzePatent(_ context.Context, text, number string) (map[string]any, error) {
	f.calls++
	return map[string]any{
		"summary":              "rotor patent " + number,
		"technical_assessment": map[string]any{},
		"commercial_value":     map[string]any{},
		"prior_art_landscape":  map[string]any{},
		"strategic_insights":   map[string]any{},
		"claims_analysis":      map[string]any{},
		"risk_assessment":      map[string]any{},
	}, nil
}

type fixture struct {
	store    *store.Memory
	sched    *recordingScheduler
	objects  storage.Storage
	analyzer *fakeAnalyzer
	svc      *Service

	admin, inventor, other, lawyer, lawyer2 authz.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	objects, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	f := &fixture{store: st, sched: &recordingScheduler{}, objects: objects, analyzer: &fakeAnalyzer{}}
	f.svc = NewService(st, f.sched, notification.NewService(st), objects, f.analyzer)

	mk := func(email string, role models.Role) authz.Caller {
		u := &models.User{Email: email, HashedPassword: "x", Role: role}
		if err := st.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		return authz.CallerOf(u)
	}
	f.admin = mk("admin@x.co", models.RoleAdmin)
	f.inventor = mk("inv@x.co", models.RoleInventor)
	f.other = mk("other@x.co", models.RoleInventor)
	f.lawyer = mk("law@x.co", models.RoleLawyer)
	f.lawyer2 = mk("law2@x.co", models.RoleLawyer)
	return f
}

func content(kv ...string) models.Content {
	c := models.NewContent()
	for i := 0; i+1 < len(kv); i += 2 {
		c.Set(kv[i], models.Text(kv[i+1]))
	}
	return c
}

func (f *fixture) create(t *testing.T, req CreateRequest) *models.Disclosure {
	t.Helper()
	d, err := f.svc.Create(context.Background(), f.inventor, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return d
}

func TestCreateInitialStatus(t *testing.T) {
	f := newFixture(t)

	plain := f.create(t, CreateRequest{Title: "Widget", Content: content("problem", "slow")})
	if plain.Status != models.StatusDraft || plain.DisclosureType != models.TypeNewDisclosure {
		t.Fatalf("without lawyer: status=%s type=%s", plain.Status, plain.DisclosureType)
	}

	assigned := f.create(t, CreateRequest{Title: "Gadget", Content: content("problem", "slow"), AssignedLawyerID: &f.lawyer.ID})
	if assigned.Status != models.StatusInReview {
		t.Fatalf("with lawyer: status=%s", assigned.Status)
	}
	notes, _ := f.store.ListNotifications(context.Background(), f.lawyer.ID, true)
	if len(notes) != 1 || notes[0].Type != models.NotifyLawyerAssigned {
		t.Fatalf("lawyer notifications = %+v", notes)
	}

	versions, _ := f.store.ListVersions(context.Background(), plain.ID)
	if len(versions) != 1 || versions[0].VersionNumber != 1 {
		t.Fatalf("versions = %+v", versions)
	}
	if f.sched.count() != 2 {
		t.Fatalf("scheduled = %d, want 2", f.sched.count())
	}
}

func TestCreateEmptyContentDoesNotSchedule(t *testing.T) {
	f := newFixture(t)
	d := f.create(t, CreateRequest{Title: "Empty"})
	if f.sched.count() != 0 {
		t.Fatalf("empty content scheduled drafting")
	}
	if versions, _ := f.store.ListVersions(context.Background(), d.ID); len(versions) != 1 {
		t.Fatalf("version 1 must exist even for empty content")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller authz.Caller
		req    CreateRequest
		kind   error
		msg    string
	}{
		{"lawyer cannot create", f.lawyer, CreateRequest{Title: "x"}, apperr.ErrForbidden, ""},
		{"empty title", f.inventor, CreateRequest{Title: "  "}, apperr.ErrInvalid, ""},
		{"long title", f.inventor, CreateRequest{Title: strings.Repeat("t", 201)}, apperr.ErrInvalid, ""},
		{"lawyer id names inventor", f.inventor, CreateRequest{Title: "x", AssignedLawyerID: &f.other.ID}, apperr.ErrInvalid, "Invalid lawyer ID or user is not a lawyer"},
		{"unknown lawyer", f.inventor, CreateRequest{Title: "x", AssignedLawyerID: ptr(uuid.New())}, apperr.ErrInvalid, "Invalid lawyer ID or user is not a lawyer"},
		{"bad type", f.inventor, CreateRequest{Title: "x", DisclosureType: "OTHER"}, apperr.ErrInvalid, ""},
	}
	for _, tt := range tests {
		_, err := f.svc.Create(ctx, tt.caller, tt.req)
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.kind)
			continue
		}
		if tt.msg != "" && apperr.Message(err) != tt.msg {
			t.Errorf("%s: message = %q", tt.name, apperr.Message(err))
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestVersionsAreContiguous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, CreateRequest{Title: "Widget", Content: content("problem", "v1")})

	edits := 4
	for i := 0; i < edits; i++ {
		c := content("problem", "edit")
		if _, err := f.svc.Update(ctx, f.inventor, d.ID, UpdateRequest{Content: &c}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	title := "Renamed"
	if _, err := f.svc.Update(ctx, f.admin, d.ID, UpdateRequest{Title: &title}); err != nil {
		t.Fatalf("title update: %v", err)
	}

	versions, err := f.svc.Versions(ctx, f.inventor, d.ID)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != edits+1 {
		t.Fatalf("len(versions) = %d, want %d", len(versions), edits+1)
	}
	for i, v := range versions {
		if v.VersionNumber != edits+1-i {
			t.Fatalf("versions[%d] = %d", i, v.VersionNumber)
		}
	}
}

func TestUpdatePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, CreateRequest{Title: "Widget", AssignedLawyerID: &f.lawyer.ID})
	c := content("problem", "x")

	for _, caller := range []authz.Caller{f.other, f.lawyer} {
		_, err := f.svc.Update(ctx, caller, d.ID, UpdateRequest{Content: &c})
		if !errors.Is(err, apperr.ErrForbidden) || apperr.Message(err) != "Only inventor can edit disclosure" {
			t.Fatalf("%s update: %v", caller.Role, err)
		}
	}
	if _, err := f.svc.Update(ctx, f.inventor, uuid.New(), UpdateRequest{Content: &c}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing disclosure: %v", err)
	}
}

func TestApprovedEditDoesNotSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, CreateRequest{Title: "Widget", AssignedLawyerID: &f.lawyer.ID})

	if _, err := f.svc.Approve(ctx, f.lawyer, d.ID, ApproveRequest{}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	before := f.sched.count()

	c := content("problem", "late edit")
	got, err := f.svc.Update(ctx, f.inventor, d.ID, UpdateRequest{Content: &c})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", got.Status)
	}
	if f.sched.count() != before {
		t.Fatalf("editing an approved disclosure scheduled drafting")
	}
	if _, err := f.store.GetDraftByDisclosure(ctx, d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("no draft should exist: %v", err)
	}
}

func TestAccessByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, CreateRequest{Title: "Widget", AssignedLawyerID: &f.lawyer.ID})

	tests := []struct {
		name   string
		caller authz.Caller
		ok     bool
	}{
		{"owner", f.inventor, true},
		{"other inventor", f.other, false},
		{"assigned lawyer", f.lawyer, true},
		{"other lawyer", f.lawyer2, false},
		{"admin", f.admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, getErr := f.svc.Get(ctx, tt.caller, d.ID)
			_, verErr := f.svc.Versions(ctx, tt.caller, d.ID)
			for _, err := range []error{getErr, verErr} {
				if tt.ok && err != nil {
					t.Fatalf("err = %v", err)
				}
				if !tt.ok && !errors.Is(err, apperr.ErrForbidden) {
					t.Fatalf("err = %v, want forbidden", err)
				}
			}
		})
	}

	if _, err := f.svc.Get(ctx, f.other, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing disclosure should be NotFound before access: %v", err)
	}

	list, _ := f.svc.List(ctx, f.lawyer2)
	if len(list) != 0 {
		t.Fatalf("unassigned lawyer lists %d disclosures", len(list))
	}
	list, _ = f.svc.List(ctx, f.admin)
	if len(list) != 1 {
		t.Fatalf("admin lists %d disclosures", len(list))
	}
}

func TestStatusAndAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, CreateRequest{Title: "Widget"})

	if _, err := f.svc.UpdateStatus(ctx, f.inventor, d.ID, models.StatusApproved); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("inventor status change: %v", err)
	}
	// The status graph is not enforced: DRAFT may jump straight to APPROVED.
	got, err := f.svc.UpdateStatus(ctx, f.admin, d.ID, models.StatusApproved)
	if err != nil || got.Status != models.StatusApproved {
		t.Fatalf("admin status change: %v %v", got, err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.admin, d.ID, "DONE"); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("invalid status: %v", err)
	}

	if _, err := f.svc.AssignLawyer(ctx, f.admin, d.ID, f.other.ID); apperr.Message(err) != "Invalid lawyer ID" {
		t.Fatalf("assign inventor as lawyer: %v", err)
	}
	if _, err := f.svc.AssignLawyer(ctx, f.lawyer, d.ID, f.lawyer.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("lawyer self-assign: %v", err)
	}
	got, err = f.svc.AssignLawyer(ctx, f.admin, d.ID, f.lawyer.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got.Status != models.StatusInReview || *got.AssignedLawyerID != f.lawyer.ID {
		t.Fatalf("after assign: %+v", got)
	}
}

func TestReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, CreateRequest{Title: "Widget", AssignedLawyerID: &f.lawyer.ID})

	if _, err := f.svc.RequestRevision(ctx, f.lawyer2, d.ID, RevisionRequest{Feedback: "more"}); apperr.Message(err) != "Not assigned to this disclosure" {
		t.Fatalf("unassigned lawyer: %v", err)
	}
	if _, err := f.svc.Approve(ctx, f.inventor, d.ID, ApproveRequest{}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("inventor approve: %v", err)
	}

	res, err := f.svc.RequestRevision(ctx, f.lawyer, d.ID, RevisionRequest{Feedback: "add figures"})
	if err != nil {
		t.Fatalf("request revision: %v", err)
	}
	if res.Feedback != "add figures" {
		t.Fatalf("feedback not echoed: %+v", res)
	}
	got, _ := f.store.GetDisclosure(ctx, d.ID)
	if got.Status != models.StatusRevisionRequested {
		t.Fatalf("status = %s", got.Status)
	}
	comments, _ := f.store.ListComments(ctx, d.ID)
	if len(comments) != 0 {
		t.Fatalf("revision feedback must not become a comment")
	}

	if _, err := f.svc.Approve(ctx, f.admin, d.ID, ApproveRequest{Notes: "ship it"}); err != nil {
		t.Fatalf("admin approve: %v", err)
	}
	got, _ = f.store.GetDisclosure(ctx, d.ID)
	if got.Status != models.StatusApproved {
		t.Fatalf("status = %s", got.Status)
	}
	notes, _ := f.store.ListNotifications(ctx, f.inventor.ID, false)
	if len(notes) != 2 || notes[0].Type != models.NotifyApproved || notes[1].Type != models.NotifyRevisionRequested {
		t.Fatalf("inventor notifications = %+v", notes)
	}
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, CreateRequest{Title: "Widget", AssignedLawyerID: &f.lawyer.ID})

	key := "uploads/" + d.ID.String() + "/a.pdf"
	body := []byte("%PDF-1.4 fake")
	if err := f.objects.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}
	file := &models.File{DisclosureID: d.ID, StorageKey: key, FileExtension: ".pdf", FileType: models.FileDrawing}
	f.store.CreateFile(ctx, file)
	f.store.CreateComment(ctx, &models.Comment{DisclosureID: d.ID, AuthorID: f.inventor.ID, Content: "c"})
	f.store.EnsureDraft(ctx, d.ID)

	if err := f.svc.Delete(ctx, f.lawyer, d.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("lawyer delete: %v", err)
	}
	if err := f.svc.Delete(ctx, f.admin, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.svc.Get(ctx, f.admin, d.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("disclosure survived: %v", err)
	}
	if _, err := f.store.GetFile(ctx, file.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("file row survived")
	}
	if _, err := f.objects.Get(ctx, key); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("stored object survived: %v", err)
	}
	if _, err := f.store.GetDraftByDisclosure(ctx, d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("draft survived")
	}
}

func TestPatentReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.extract = func(data []byte) (string, error) { return strings.Repeat("claim text ", 20), nil }

	plain := f.create(t, CreateRequest{Title: "Widget"})
	if _, err := f.svc.AnalyzePatent(ctx, f.inventor, plain.ID); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("analyze on NEW_DISCLOSURE: %v", err)
	}

	number := "US1234567"
	d := f.create(t, CreateRequest{Title: "Review", DisclosureType: models.TypePatentReview, PatentNumber: &number})
	_, err := f.svc.AnalyzePatent(ctx, f.inventor, d.ID)
	if !errors.Is(err, apperr.ErrInvalid) || apperr.Message(err) != "No patent file set for this disclosure" {
		t.Fatalf("analyze without file: %v", err)
	}

	key := "uploads/" + d.ID.String() + "/p.pdf"
	f.objects.Put(ctx, key, strings.NewReader("pdf"), 3, "application/pdf")
	pdf := &models.File{DisclosureID: d.ID, StorageKey: key, FileExtension: ".pdf", FileType: models.FileDrawing}
	f.store.CreateFile(ctx, pdf)
	png := &models.File{DisclosureID: d.ID, StorageKey: key + ".png", FileExtension: ".png", FileType: models.FileImage}
	f.store.CreateFile(ctx, png)

	if _, err := f.svc.SetPatentFile(ctx, f.inventor, d.ID, png.ID); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("png as patent file: %v", err)
	}
	if _, err := f.svc.SetPatentFile(ctx, f.inventor, d.ID, pdf.ID); err != nil {
		t.Fatalf("set patent file: %v", err)
	}

	got, err := f.svc.AnalyzePatent(ctx, f.inventor, d.ID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, key := range []string{"summary", "technical_assessment", "commercial_value", "prior_art_landscape", "strategic_insights", "claims_analysis", "risk_assessment"} {
		if _, ok := got.AIAnalysis[key]; !ok {
			t.Errorf("analysis missing %q", key)
		}
	}
	stored, _ := f.store.GetDisclosure(ctx, d.ID)
	if stored.AIAnalysis["summary"] != "rotor patent US1234567" {
		t.Fatalf("analysis not stored: %v", stored.AIAnalysis)
	}

	f.svc.extract = func([]byte) (string, error) { return "too short", nil }
	if _, err := f.svc.AnalyzePatent(ctx, f.inventor, d.ID); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("short text: %v", err)
	}
}
