package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/models"
)

// --- comments ---

const commentColumns = `c.id, c.disclosure_id, c.author_id, c.content, c.parent_comment_id, c.selected_text,
	c.selection_start, c.selection_end, c.created_at, c.updated_at`

func scanComment(row scanner, extra ...any) (*models.Comment, error) {
	var c models.Comment
	dest := []any{&c.ID, &c.DisclosureID, &c.AuthorID, &c.Content, &c.ParentCommentID, &c.SelectedText,
		&c.SelectionStart, &c.SelectionEnd, &c.CreatedAt, &c.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *Postgres) CreateComment(ctx context.Context, c *models.Comment) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO comments (disclosure_id, author_id, content, parent_comment_id, selected_text, selection_start, selection_end)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		c.DisclosureID, c.AuthorID, c.Content, c.ParentCommentID, c.SelectedText, c.SelectionStart, c.SelectionEnd,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", translate(err))
	}
	return nil
}

func (p *Postgres) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(p.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", translate(err))
	}
	return c, nil
}

func (p *Postgres) ListComments(ctx context.Context, disclosureID uuid.UUID) ([]models.CommentView, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+commentColumns+`, COALESCE(u.full_name, u.email), u.role
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.disclosure_id = $1 ORDER BY c.created_at ASC`,
		disclosureID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []models.CommentView
	for rows.Next() {
		var view models.CommentView
		c, err := scanComment(rows, &view.AuthorName, &view.AuthorRole)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		view.Comment = *c
		out = append(out, view)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateComment(ctx context.Context, c *models.Comment) error {
	err := p.pool.QueryRow(ctx,
		`UPDATE comments SET content = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`,
		c.ID, c.Content,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update comment: %w", translate(err))
	}
	return nil
}

func (p *Postgres) DeleteComment(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- messages ---

const messageColumns = `m.id, m.disclosure_id, m.sender_id, m.content, m.is_read, m.created_at, m.updated_at`

func scanMessage(row scanner, extra ...any) (*models.Message, error) {
	var m models.Message
	dest := []any{&m.ID, &m.DisclosureID, &m.SenderID, &m.Content, &m.IsRead, &m.CreatedAt, &m.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (p *Postgres) CreateMessage(ctx context.Context, m *models.Message) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO messages (disclosure_id, sender_id, content) VALUES ($1, $2, $3)
		 RETURNING id, is_read, created_at, updated_at`,
		m.DisclosureID, m.SenderID, m.Content,
	).Scan(&m.ID, &m.IsRead, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", translate(err))
	}
	return nil
}

func (p *Postgres) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	m, err := scanMessage(p.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages m WHERE m.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get message: %w", translate(err))
	}
	return m, nil
}

func (p *Postgres) ListMessages(ctx context.Context, disclosureID uuid.UUID) ([]models.MessageView, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+messageColumns+`, COALESCE(u.full_name, u.email), u.role
		 FROM messages m JOIN users u ON u.id = m.sender_id
		 WHERE m.disclosure_id = $1 ORDER BY m.created_at ASC`,
		disclosureID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []models.MessageView
	for rows.Next() {
		var view models.MessageView
		m, err := scanMessage(rows, &view.SenderName, &view.SenderRole)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		view.Message = *m
		out = append(out, view)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateMessage(ctx context.Context, m *models.Message) error {
	err := p.pool.QueryRow(ctx,
		`UPDATE messages SET content = $2, is_read = $3, updated_at = now() WHERE id = $1 RETURNING updated_at`,
		m.ID, m.Content, m.IsRead,
	).Scan(&m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update message: %w", translate(err))
	}
	return nil
}

func (p *Postgres) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- notifications ---

const notificationColumns = `id, user_id, type, title, message, disclosure_id, comment_id, read, created_at`

func scanNotification(row scanner) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.DisclosureID, &n.CommentID, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (p *Postgres) CreateNotification(ctx context.Context, n *models.Notification) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, type, title, message, disclosure_id, comment_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, read, created_at`,
		n.UserID, n.Type, n.Title, n.Message, n.DisclosureID, n.CommentID,
	).Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", translate(err))
	}
	return nil
}

func (p *Postgres) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, err := scanNotification(p.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", translate(err))
	}
	return n, nil
}

func (p *Postgres) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = $1 AND (NOT $2 OR read = false)
		 ORDER BY created_at DESC`,
		userID, unreadOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- video sessions ---

const videoColumns = `id, disclosure_id, participants, transcript_text, ai_summary, session_metadata, started_at, ended_at`

func scanVideoSession(row scanner) (*models.VideoSession, error) {
	var s models.VideoSession
	err := row.Scan(&s.ID, &s.DisclosureID, &s.Participants, &s.TranscriptText, &s.AISummary, &s.Metadata, &s.StartedAt, &s.EndedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *Postgres) CreateVideoSession(ctx context.Context, s *models.VideoSession) error {
	if s.Participants == nil {
		s.Participants = []uuid.UUID{}
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO video_sessions (disclosure_id, participants, session_metadata)
		 VALUES ($1, $2, $3)
		 RETURNING id, started_at`,
		s.DisclosureID, s.Participants, s.Metadata,
	).Scan(&s.ID, &s.StartedAt)
	if err != nil {
		return fmt.Errorf("insert video session: %w", translate(err))
	}
	return nil
}

func (p *Postgres) GetVideoSession(ctx context.Context, id uuid.UUID) (*models.VideoSession, error) {
	s, err := scanVideoSession(p.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM video_sessions WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get video session: %w", translate(err))
	}
	return s, nil
}

func (p *Postgres) ListVideoSessions(ctx context.Context, disclosureID uuid.UUID) ([]models.VideoSession, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM video_sessions WHERE disclosure_id = $1 ORDER BY started_at DESC`,
		disclosureID,
	)
	if err != nil {
		return nil, fmt.Errorf("list video sessions: %w", err)
	}
	defer rows.Close()

	var out []models.VideoSession
	for rows.Next() {
		s, err := scanVideoSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video session: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateVideoSession(ctx context.Context, s *models.VideoSession) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE video_sessions SET transcript_text = $2, ai_summary = $3, session_metadata = $4, ended_at = $5
		 WHERE id = $1`,
		s.ID, s.TranscriptText, s.AISummary, s.Metadata, s.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("update video session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteVideoSession(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM video_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
