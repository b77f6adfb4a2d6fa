package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/models"
)

// Memory is an in-process Store. Rows are copied on the way in and out so
// callers never share state with the store.
type Memory struct {
	mu sync.RWMutex

	seq int64

	users         map[uuid.UUID]models.User
	emails        map[string]uuid.UUID
	disclosures   map[uuid.UUID]models.Disclosure
	versions      map[uuid.UUID][]models.DisclosureVersion
	drafts        map[uuid.UUID]models.PatentDraft
	draftByDisc   map[uuid.UUID]uuid.UUID
	files         map[uuid.UUID]models.File
	storageKeys   map[string]uuid.UUID
	comments      map[uuid.UUID]models.Comment
	messages      map[uuid.UUID]models.Message
	notifications map[uuid.UUID]models.Notification
	sessions      map[uuid.UUID]models.VideoSession

	// order records insertion sequence so equal timestamps sort stably.
	order map[uuid.UUID]int64
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[uuid.UUID]models.User),
		emails:        make(map[string]uuid.UUID),
		disclosures:   make(map[uuid.UUID]models.Disclosure),
		versions:      make(map[uuid.UUID][]models.DisclosureVersion),
		drafts:        make(map[uuid.UUID]models.PatentDraft),
		draftByDisc:   make(map[uuid.UUID]uuid.UUID),
		files:         make(map[uuid.UUID]models.File),
		storageKeys:   make(map[string]uuid.UUID),
		comments:      make(map[uuid.UUID]models.Comment),
		messages:      make(map[uuid.UUID]models.Message),
		notifications: make(map[uuid.UUID]models.Notification),
		sessions:      make(map[uuid.UUID]models.VideoSession),
		order:         make(map[uuid.UUID]int64),
	}
}

func now() time.Time { return time.Now().UTC() }

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) track(id uuid.UUID) {
	m.seq++
	m.order[id] = m.seq
}

func (m *Memory) before(a, b uuid.UUID) bool { return m.order[a] < m.order[b] }

// --- users ---

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := m.emails[key]; ok {
		return fmt.Errorf("insert user: %w: users_email_key", ErrDuplicate)
	}
	u.ID = uuid.New()
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	m.emails[key] = u.ID
	m.track(u.ID)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", ErrNotFound)
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emails[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", ErrNotFound)
	}
	u := m.users[id]
	return &u, nil
}

func (m *Memory) UpdateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[u.ID]
	if !ok {
		return fmt.Errorf("update user: %w", ErrNotFound)
	}
	cur.FullName = u.FullName
	cur.Company = u.Company
	cur.UpdatedAt = now()
	m.users[u.ID] = cur
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (m *Memory) ListUsersByRole(_ context.Context, role models.Role) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.before(out[i].ID, out[j].ID) })
	return out, nil
}

// --- disclosures ---

func cloneDisclosure(d models.Disclosure) models.Disclosure {
	d.Content = d.Content.Clone()
	if d.AIAnalysis != nil {
		analysis := make(map[string]any, len(d.AIAnalysis))
		for k, v := range d.AIAnalysis {
			analysis[k] = v
		}
		d.AIAnalysis = analysis
	}
	return d
}

func (m *Memory) CreateDisclosure(_ context.Context, d *models.Disclosure) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[d.InventorID]; !ok {
		return fmt.Errorf("insert disclosure: %w: inventor", ErrNotFound)
	}
	d.ID = uuid.New()
	d.CreatedAt = now()
	d.UpdatedAt = d.CreatedAt
	m.disclosures[d.ID] = cloneDisclosure(*d)
	m.track(d.ID)

	v := models.DisclosureVersion{
		ID:              uuid.New(),
		DisclosureID:    d.ID,
		VersionNumber:   1,
		ContentSnapshot: d.Content.Clone(),
		EditedBy:        d.InventorID,
		EditedAt:        d.CreatedAt,
	}
	m.versions[d.ID] = []models.DisclosureVersion{v}
	return nil
}

func (m *Memory) GetDisclosure(_ context.Context, id uuid.UUID) (*models.Disclosure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disclosures[id]
	if !ok {
		return nil, fmt.Errorf("get disclosure: %w", ErrNotFound)
	}
	d = cloneDisclosure(d)
	return &d, nil
}

func (m *Memory) ListDisclosures(_ context.Context, f DisclosureFilter) ([]models.Disclosure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Disclosure
	for _, d := range m.disclosures {
		if f.InventorID != nil && d.InventorID != *f.InventorID {
			continue
		}
		if f.LawyerID != nil && (d.AssignedLawyerID == nil || *d.AssignedLawyerID != *f.LawyerID) {
			continue
		}
		out = append(out, cloneDisclosure(d))
	}
	sort.Slice(out, func(i, j int) bool { return m.before(out[j].ID, out[i].ID) })
	return out, nil
}

func (m *Memory) UpdateDisclosure(_ context.Context, d *models.Disclosure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.disclosures[d.ID]
	if !ok {
		return fmt.Errorf("update disclosure: %w", ErrNotFound)
	}
	content := cur.Content
	cur = cloneDisclosure(*d)
	cur.Content = content
	cur.UpdatedAt = now()
	m.disclosures[d.ID] = cur
	d.UpdatedAt = cur.UpdatedAt
	return nil
}

func (m *Memory) ReviseContent(_ context.Context, id uuid.UUID, content models.Content, editedBy uuid.UUID) (*models.DisclosureVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.disclosures[id]
	if !ok {
		return nil, fmt.Errorf("lock disclosure: %w", ErrNotFound)
	}
	cur.Content = content.Clone()
	cur.UpdatedAt = now()
	m.disclosures[id] = cur

	history := m.versions[id]
	next := 1
	for _, v := range history {
		if v.VersionNumber >= next {
			next = v.VersionNumber + 1
		}
	}
	v := models.DisclosureVersion{
		ID:              uuid.New(),
		DisclosureID:    id,
		VersionNumber:   next,
		ContentSnapshot: content.Clone(),
		EditedBy:        editedBy,
		EditedAt:        cur.UpdatedAt,
	}
	m.versions[id] = append(history, v)
	out := v
	out.ContentSnapshot = v.ContentSnapshot.Clone()
	return &out, nil
}

func (m *Memory) DeleteDisclosure(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disclosures[id]; !ok {
		return ErrNotFound
	}
	delete(m.disclosures, id)
	delete(m.versions, id)
	if draftID, ok := m.draftByDisc[id]; ok {
		delete(m.drafts, draftID)
		delete(m.draftByDisc, id)
	}
	for fid, f := range m.files {
		if f.DisclosureID == id {
			delete(m.storageKeys, f.StorageKey)
			delete(m.files, fid)
		}
	}
	for cid, c := range m.comments {
		if c.DisclosureID == id {
			delete(m.comments, cid)
		}
	}
	for mid, msg := range m.messages {
		if msg.DisclosureID == id {
			delete(m.messages, mid)
		}
	}
	for nid, n := range m.notifications {
		if n.DisclosureID != nil && *n.DisclosureID == id {
			delete(m.notifications, nid)
		}
	}
	for sid, s := range m.sessions {
		if s.DisclosureID == id {
			delete(m.sessions, sid)
		}
	}
	return nil
}

func (m *Memory) ListVersions(_ context.Context, disclosureID uuid.UUID) ([]models.DisclosureVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := m.versions[disclosureID]
	out := make([]models.DisclosureVersion, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		v := history[i]
		v.ContentSnapshot = v.ContentSnapshot.Clone()
		out = append(out, v)
	}
	return out, nil
}

// --- drafts ---

func cloneDraft(d models.PatentDraft) models.PatentDraft {
	d.Sections = d.Sections.Clone()
	figures := make(map[string]models.FigureRef, len(d.FigureIndex))
	for k, v := range d.FigureIndex {
		figures[k] = v
	}
	d.FigureIndex = figures
	return d
}

func (m *Memory) GetDraft(_ context.Context, id uuid.UUID) (*models.PatentDraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, fmt.Errorf("get draft: %w", ErrNotFound)
	}
	d = cloneDraft(d)
	return &d, nil
}

func (m *Memory) GetDraftByDisclosure(_ context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.draftByDisc[disclosureID]
	if !ok {
		return nil, fmt.Errorf("get draft by disclosure: %w", ErrNotFound)
	}
	d := cloneDraft(m.drafts[id])
	return &d, nil
}

// ensureDraftLocked expects m.mu to be held for writing.
func (m *Memory) ensureDraftLocked(disclosureID uuid.UUID) (models.PatentDraft, error) {
	if _, ok := m.disclosures[disclosureID]; !ok {
		return models.PatentDraft{}, fmt.Errorf("ensure draft: %w", ErrNotFound)
	}
	if id, ok := m.draftByDisc[disclosureID]; ok {
		return m.drafts[id], nil
	}
	d := models.PatentDraft{
		ID:                 uuid.New(),
		DisclosureID:       disclosureID,
		AIProcessingStatus: models.AIPending,
		Sections:           models.NewContent(),
		FigureIndex:        map[string]models.FigureRef{},
		GeneratedAt:        now(),
	}
	d.UpdatedAt = d.GeneratedAt
	m.drafts[d.ID] = d
	m.draftByDisc[disclosureID] = d.ID
	return d, nil
}

func (m *Memory) EnsureDraft(_ context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.ensureDraftLocked(disclosureID)
	if err != nil {
		return nil, err
	}
	d = cloneDraft(d)
	return &d, nil
}

func (m *Memory) UpdateDraft(_ context.Context, d *models.PatentDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[d.ID]; !ok {
		return fmt.Errorf("update draft: %w", ErrNotFound)
	}
	d.UpdatedAt = now()
	m.drafts[d.ID] = cloneDraft(*d)
	return nil
}

func (m *Memory) setStatusLocked(id uuid.UUID, status models.DisclosureStatus) error {
	d, ok := m.disclosures[id]
	if !ok {
		return fmt.Errorf("set disclosure status: %w", ErrNotFound)
	}
	d.Status = status
	d.UpdatedAt = now()
	m.disclosures[id] = d
	return nil
}

func (m *Memory) BeginDrafting(_ context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.setStatusLocked(disclosureID, models.StatusAIProcessing); err != nil {
		return nil, err
	}
	d, err := m.ensureDraftLocked(disclosureID)
	if err != nil {
		return nil, err
	}
	d.AIProcessingStatus = models.AIProcessing
	d.ProcessingError = nil
	d.UpdatedAt = now()
	m.drafts[d.ID] = d
	d = cloneDraft(d)
	return &d, nil
}

func (m *Memory) CompleteDrafting(_ context.Context, disclosureID uuid.UUID, sections models.Content, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.ensureDraftLocked(disclosureID)
	if err != nil {
		return err
	}
	d.AIProcessingStatus = models.AICompleted
	d.Sections = sections.Clone()
	d.AIModelUsed = &model
	d.ProcessingError = nil
	d.GeneratedAt = now()
	d.UpdatedAt = d.GeneratedAt
	m.drafts[d.ID] = d
	return m.setStatusLocked(disclosureID, models.StatusReadyForReview)
}

func (m *Memory) FailDrafting(_ context.Context, disclosureID uuid.UUID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.ensureDraftLocked(disclosureID)
	if err != nil {
		return err
	}
	d.AIProcessingStatus = models.AIFailed
	d.ProcessingError = &reason
	d.UpdatedAt = now()
	m.drafts[d.ID] = d
	return m.setStatusLocked(disclosureID, models.StatusDraft)
}

// --- files ---

func (m *Memory) CreateFile(_ context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disclosures[f.DisclosureID]; !ok {
		return fmt.Errorf("insert file: %w: disclosure", ErrNotFound)
	}
	if _, ok := m.storageKeys[f.StorageKey]; ok {
		return fmt.Errorf("insert file: %w: files_storage_key_key", ErrDuplicate)
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.UploadedAt = now()
	m.files[f.ID] = *f
	m.storageKeys[f.StorageKey] = f.ID
	m.track(f.ID)
	return nil
}

func (m *Memory) GetFile(_ context.Context, id uuid.UUID) (*models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("get file: %w", ErrNotFound)
	}
	return &f, nil
}

func (m *Memory) ListFiles(_ context.Context, disclosureID uuid.UUID) ([]models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.File
	for _, f := range m.files {
		if f.DisclosureID == disclosureID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.before(out[i].ID, out[j].ID) })
	return out, nil
}

func (m *Memory) DeleteFile(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.storageKeys, f.StorageKey)
	delete(m.files, id)
	if d, ok := m.disclosures[f.DisclosureID]; ok && d.PatentFileID != nil && *d.PatentFileID == id {
		d.PatentFileID = nil
		m.disclosures[d.ID] = d
	}
	return nil
}

// --- comments ---

func (m *Memory) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disclosures[c.DisclosureID]; !ok {
		return fmt.Errorf("insert comment: %w: disclosure", ErrNotFound)
	}
	c.ID = uuid.New()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	m.comments[c.ID] = *c
	m.track(c.ID)
	return nil
}

func (m *Memory) GetComment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, fmt.Errorf("get comment: %w", ErrNotFound)
	}
	return &c, nil
}

func (m *Memory) ListComments(_ context.Context, disclosureID uuid.UUID) ([]models.CommentView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.CommentView
	for _, c := range m.comments {
		if c.DisclosureID != disclosureID {
			continue
		}
		view := models.CommentView{Comment: c}
		if u, ok := m.users[c.AuthorID]; ok {
			view.AuthorName = u.DisplayName()
			view.AuthorRole = u.Role
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return m.before(out[i].ID, out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.comments[c.ID]
	if !ok {
		return fmt.Errorf("update comment: %w", ErrNotFound)
	}
	cur.Content = c.Content
	cur.UpdatedAt = now()
	m.comments[c.ID] = cur
	c.UpdatedAt = cur.UpdatedAt
	return nil
}

func (m *Memory) DeleteComment(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	m.deleteCommentLocked(id)
	return nil
}

// deleteCommentLocked removes a comment with its replies and notifications.
func (m *Memory) deleteCommentLocked(id uuid.UUID) {
	delete(m.comments, id)
	for cid, c := range m.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == id {
			m.deleteCommentLocked(cid)
		}
	}
	for nid, n := range m.notifications {
		if n.CommentID != nil && *n.CommentID == id {
			delete(m.notifications, nid)
		}
	}
}

// --- messages ---

func (m *Memory) CreateMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disclosures[msg.DisclosureID]; !ok {
		return fmt.Errorf("insert message: %w: disclosure", ErrNotFound)
	}
	msg.ID = uuid.New()
	msg.IsRead = false
	msg.CreatedAt = now()
	msg.UpdatedAt = msg.CreatedAt
	m.messages[msg.ID] = *msg
	m.track(msg.ID)
	return nil
}

func (m *Memory) GetMessage(_ context.Context, id uuid.UUID) (*models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, fmt.Errorf("get message: %w", ErrNotFound)
	}
	return &msg, nil
}

func (m *Memory) ListMessages(_ context.Context, disclosureID uuid.UUID) ([]models.MessageView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.MessageView
	for _, msg := range m.messages {
		if msg.DisclosureID != disclosureID {
			continue
		}
		view := models.MessageView{Message: msg}
		if u, ok := m.users[msg.SenderID]; ok {
			view.SenderName = u.DisplayName()
			view.SenderRole = u.Role
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return m.before(out[i].ID, out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.messages[msg.ID]
	if !ok {
		return fmt.Errorf("update message: %w", ErrNotFound)
	}
	cur.Content = msg.Content
	cur.IsRead = msg.IsRead
	cur.UpdatedAt = now()
	m.messages[msg.ID] = cur
	msg.UpdatedAt = cur.UpdatedAt
	return nil
}

func (m *Memory) DeleteMessage(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[id]; !ok {
		return ErrNotFound
	}
	delete(m.messages, id)
	return nil
}

// --- notifications ---

func (m *Memory) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[n.UserID]; !ok {
		return fmt.Errorf("insert notification: %w: user", ErrNotFound)
	}
	n.ID = uuid.New()
	n.Read = false
	n.CreatedAt = now()
	m.notifications[n.ID] = *n
	m.track(n.ID)
	return nil
}

func (m *Memory) GetNotification(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, fmt.Errorf("get notification: %w", ErrNotFound)
	}
	return &n, nil
}

func (m *Memory) ListNotifications(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return m.before(out[j].ID, out[i].ID) })
	return out, nil
}

func (m *Memory) MarkNotificationRead(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}

// --- video sessions ---

func cloneSession(s models.VideoSession) models.VideoSession {
	s.Participants = append([]uuid.UUID(nil), s.Participants...)
	if s.Metadata != nil {
		meta := make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			meta[k] = v
		}
		s.Metadata = meta
	}
	return s
}

func (m *Memory) CreateVideoSession(_ context.Context, s *models.VideoSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disclosures[s.DisclosureID]; !ok {
		return fmt.Errorf("insert video session: %w: disclosure", ErrNotFound)
	}
	if s.Participants == nil {
		s.Participants = []uuid.UUID{}
	}
	s.ID = uuid.New()
	s.StartedAt = now()
	m.sessions[s.ID] = cloneSession(*s)
	m.track(s.ID)
	return nil
}

func (m *Memory) GetVideoSession(_ context.Context, id uuid.UUID) (*models.VideoSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get video session: %w", ErrNotFound)
	}
	s = cloneSession(s)
	return &s, nil
}

func (m *Memory) ListVideoSessions(_ context.Context, disclosureID uuid.UUID) ([]models.VideoSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.VideoSession
	for _, s := range m.sessions {
		if s.DisclosureID == disclosureID {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.before(out[j].ID, out[i].ID) })
	return out, nil
}

func (m *Memory) UpdateVideoSession(_ context.Context, s *models.VideoSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[s.ID]
	if !ok {
		return ErrNotFound
	}
	cur.TranscriptText = s.TranscriptText
	cur.AISummary = s.AISummary
	cur.Metadata = s.Metadata
	cur.EndedAt = s.EndedAt
	m.sessions[s.ID] = cloneSession(cur)
	return nil
}

func (m *Memory) DeleteVideoSession(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}
