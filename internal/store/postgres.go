package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pyjuan91/Limira/internal/models"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

var _ Store = (*Postgres)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

// --- users ---

const userColumns = `id, email, hashed_password, role, COALESCE(full_name, ''), COALESCE(company, ''), created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Role, &u.FullName, &u.Company, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	row := p.pool.QueryRow(ctx,
		`INSERT INTO users (email, hashed_password, role, full_name, company)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		 RETURNING id, created_at, updated_at`,
		u.Email, u.HashedPassword, u.Role, u.FullName, u.Company,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	return nil
}

func (p *Postgres) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", translate(err))
	}
	return u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", translate(err))
	}
	return u, nil
}

func (p *Postgres) UpdateUser(ctx context.Context, u *models.User) error {
	err := p.pool.QueryRow(ctx,
		`UPDATE users SET full_name = NULLIF($2, ''), company = NULLIF($3, ''), updated_at = now()
		 WHERE id = $1 RETURNING updated_at`,
		u.ID, u.FullName, u.Company,
	).Scan(&u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", translate(err))
	}
	return nil
}

func (p *Postgres) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at`, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// --- disclosures ---

const disclosureColumns = `id, title, status, disclosure_type, inventor_id, assigned_lawyer_id, content,
	patent_number, patent_file_id, ai_analysis, created_at, updated_at`

func scanDisclosure(row scanner) (*models.Disclosure, error) {
	var d models.Disclosure
	err := row.Scan(&d.ID, &d.Title, &d.Status, &d.DisclosureType, &d.InventorID, &d.AssignedLawyerID,
		&d.Content, &d.PatentNumber, &d.PatentFileID, &d.AIAnalysis, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *Postgres) CreateDisclosure(ctx context.Context, d *models.Disclosure) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO disclosures (title, status, disclosure_type, inventor_id, assigned_lawyer_id, content, patent_number)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at, updated_at`,
			d.Title, d.Status, d.DisclosureType, d.InventorID, d.AssignedLawyerID, d.Content, d.PatentNumber,
		).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert disclosure: %w", translate(err))
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO disclosure_versions (disclosure_id, version_number, content_snapshot, edited_by)
			 VALUES ($1, 1, $2, $3)`,
			d.ID, d.Content, d.InventorID,
		)
		if err != nil {
			return fmt.Errorf("insert first version: %w", translate(err))
		}
		return nil
	})
}

func (p *Postgres) GetDisclosure(ctx context.Context, id uuid.UUID) (*models.Disclosure, error) {
	d, err := scanDisclosure(p.pool.QueryRow(ctx, `SELECT `+disclosureColumns+` FROM disclosures WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get disclosure: %w", translate(err))
	}
	return d, nil
}

func (p *Postgres) ListDisclosures(ctx context.Context, f DisclosureFilter) ([]models.Disclosure, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+disclosureColumns+` FROM disclosures
		 WHERE ($1::uuid IS NULL OR inventor_id = $1)
		   AND ($2::uuid IS NULL OR assigned_lawyer_id = $2)
		 ORDER BY created_at DESC`,
		f.InventorID, f.LawyerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list disclosures: %w", err)
	}
	defer rows.Close()

	var out []models.Disclosure
	for rows.Next() {
		d, err := scanDisclosure(rows)
		if err != nil {
			return nil, fmt.Errorf("scan disclosure: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateDisclosure(ctx context.Context, d *models.Disclosure) error {
	err := p.pool.QueryRow(ctx,
		`UPDATE disclosures SET title = $2, status = $3, disclosure_type = $4, assigned_lawyer_id = $5,
		        patent_number = $6, patent_file_id = $7, ai_analysis = $8, updated_at = now()
		 WHERE id = $1 RETURNING updated_at`,
		d.ID, d.Title, d.Status, d.DisclosureType, d.AssignedLawyerID, d.PatentNumber, d.PatentFileID, d.AIAnalysis,
	).Scan(&d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update disclosure: %w", translate(err))
	}
	return nil
}

func (p *Postgres) ReviseContent(ctx context.Context, id uuid.UUID, content models.Content, editedBy uuid.UUID) (*models.DisclosureVersion, error) {
	var v models.DisclosureVersion
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM disclosures WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			return fmt.Errorf("lock disclosure: %w", translate(err))
		}

		if _, err := tx.Exec(ctx, `UPDATE disclosures SET content = $2, updated_at = now() WHERE id = $1`, id, content); err != nil {
			return fmt.Errorf("update content: %w", err)
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO disclosure_versions (disclosure_id, version_number, content_snapshot, edited_by)
			 SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2, $3
			 FROM disclosure_versions WHERE disclosure_id = $1
			 RETURNING id, disclosure_id, version_number, content_snapshot, edited_by, edited_at`,
			id, content, editedBy,
		).Scan(&v.ID, &v.DisclosureID, &v.VersionNumber, &v.ContentSnapshot, &v.EditedBy, &v.EditedAt)
		if err != nil {
			return fmt.Errorf("insert version: %w", translate(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *Postgres) DeleteDisclosure(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM disclosures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete disclosure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListVersions(ctx context.Context, disclosureID uuid.UUID) ([]models.DisclosureVersion, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, disclosure_id, version_number, content_snapshot, edited_by, edited_at
		 FROM disclosure_versions WHERE disclosure_id = $1 ORDER BY version_number DESC`,
		disclosureID,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []models.DisclosureVersion
	for rows.Next() {
		var v models.DisclosureVersion
		if err := rows.Scan(&v.ID, &v.DisclosureID, &v.VersionNumber, &v.ContentSnapshot, &v.EditedBy, &v.EditedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// --- drafts ---

const draftColumns = `id, disclosure_id, ai_processing_status, sections, full_text, figure_index,
	ai_model_used, processing_error, generated_at, updated_at`

func scanDraft(row scanner) (*models.PatentDraft, error) {
	var d models.PatentDraft
	err := row.Scan(&d.ID, &d.DisclosureID, &d.AIProcessingStatus, &d.Sections, &d.FullText, &d.FigureIndex,
		&d.AIModelUsed, &d.ProcessingError, &d.GeneratedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if d.FigureIndex == nil {
		d.FigureIndex = map[string]models.FigureRef{}
	}
	return &d, nil
}

func (p *Postgres) GetDraft(ctx context.Context, id uuid.UUID) (*models.PatentDraft, error) {
	d, err := scanDraft(p.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM patent_drafts WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", translate(err))
	}
	return d, nil
}

func (p *Postgres) GetDraftByDisclosure(ctx context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	d, err := scanDraft(p.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM patent_drafts WHERE disclosure_id = $1`, disclosureID))
	if err != nil {
		return nil, fmt.Errorf("get draft by disclosure: %w", translate(err))
	}
	return d, nil
}

func ensureDraft(ctx context.Context, q interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	_, err := q.Exec(ctx,
		`INSERT INTO patent_drafts (disclosure_id) VALUES ($1) ON CONFLICT (disclosure_id) DO NOTHING`,
		disclosureID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure draft: %w", translate(err))
	}
	d, err := scanDraft(q.QueryRow(ctx, `SELECT `+draftColumns+` FROM patent_drafts WHERE disclosure_id = $1`, disclosureID))
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", translate(err))
	}
	return d, nil
}

func (p *Postgres) EnsureDraft(ctx context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	return ensureDraft(ctx, p.pool, disclosureID)
}

func (p *Postgres) UpdateDraft(ctx context.Context, d *models.PatentDraft) error {
	if d.FigureIndex == nil {
		d.FigureIndex = map[string]models.FigureRef{}
	}
	err := p.pool.QueryRow(ctx,
		`UPDATE patent_drafts SET ai_processing_status = $2, sections = $3, full_text = $4, figure_index = $5,
		        ai_model_used = $6, processing_error = $7, updated_at = now()
		 WHERE id = $1 RETURNING updated_at`,
		d.ID, d.AIProcessingStatus, d.Sections, d.FullText, d.FigureIndex, d.AIModelUsed, d.ProcessingError,
	).Scan(&d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update draft: %w", translate(err))
	}
	return nil
}

func setDisclosureStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.DisclosureStatus) error {
	tag, err := tx.Exec(ctx, `UPDATE disclosures SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set disclosure status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set disclosure status: %w", ErrNotFound)
	}
	return nil
}

func (p *Postgres) BeginDrafting(ctx context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	var draft *models.PatentDraft
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if err := setDisclosureStatus(ctx, tx, disclosureID, models.StatusAIProcessing); err != nil {
			return err
		}
		d, err := ensureDraft(ctx, tx, disclosureID)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx,
			`UPDATE patent_drafts SET ai_processing_status = $2, processing_error = NULL, updated_at = now()
			 WHERE id = $1 RETURNING updated_at`,
			d.ID, models.AIProcessing,
		).Scan(&d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("mark draft processing: %w", err)
		}
		d.AIProcessingStatus = models.AIProcessing
		d.ProcessingError = nil
		draft = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (p *Postgres) CompleteDrafting(ctx context.Context, disclosureID uuid.UUID, sections models.Content, model string) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		d, err := ensureDraft(ctx, tx, disclosureID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE patent_drafts SET ai_processing_status = $2, sections = $3, ai_model_used = $4,
			        processing_error = NULL, generated_at = now(), updated_at = now()
			 WHERE id = $1`,
			d.ID, models.AICompleted, sections, model,
		)
		if err != nil {
			return fmt.Errorf("complete draft: %w", err)
		}
		return setDisclosureStatus(ctx, tx, disclosureID, models.StatusReadyForReview)
	})
}

func (p *Postgres) FailDrafting(ctx context.Context, disclosureID uuid.UUID, reason string) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		d, err := ensureDraft(ctx, tx, disclosureID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE patent_drafts SET ai_processing_status = $2, processing_error = $3, updated_at = now()
			 WHERE id = $1`,
			d.ID, models.AIFailed, reason,
		)
		if err != nil {
			return fmt.Errorf("fail draft: %w", err)
		}
		return setDisclosureStatus(ctx, tx, disclosureID, models.StatusDraft)
	})
}

// --- files ---

const fileColumns = `id, disclosure_id, file_type, original_filename, file_extension, file_size,
	storage_key, bucket, file_metadata, uploaded_at`

func scanFile(row scanner) (*models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.DisclosureID, &f.FileType, &f.OriginalFilename, &f.FileExtension, &f.FileSize,
		&f.StorageKey, &f.Bucket, &f.Metadata, &f.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (p *Postgres) CreateFile(ctx context.Context, f *models.File) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO files (id, disclosure_id, file_type, original_filename, file_extension, file_size, storage_key, bucket, file_metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING uploaded_at`,
		f.ID, f.DisclosureID, f.FileType, f.OriginalFilename, f.FileExtension, f.FileSize, f.StorageKey, f.Bucket, f.Metadata,
	).Scan(&f.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert file: %w", translate(err))
	}
	return nil
}

func (p *Postgres) GetFile(ctx context.Context, id uuid.UUID) (*models.File, error) {
	f, err := scanFile(p.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get file: %w", translate(err))
	}
	return f, nil
}

func (p *Postgres) ListFiles(ctx context.Context, disclosureID uuid.UUID) ([]models.File, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+fileColumns+` FROM files WHERE disclosure_id = $1 ORDER BY uploaded_at`, disclosureID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var out []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (p *Postgres) DeleteFile(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
