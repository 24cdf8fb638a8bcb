// Package seed populates the LMS database with the "Prompt Engineering"
// course content tree and the superadmin principal needed to manage it.
// Schema migrations are embedded and applied with goose before any
// insert runs; all inserts are idempotent so the seeder can be re-run.
package seed

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenlms/sessionkit/core/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Seeder inserts content trees and principals via a pgx pool.
type Seeder struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// Option is a functional option for configuring the Seeder.
type Option func(*Seeder)

// WithLogger configures structured logging. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Seeder) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Seeder over the given pool.
func New(pool *pgxpool.Pool, opts ...Option) *Seeder {
	s := &Seeder{
		pool: pool,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run inserts the whole course tree in one transaction. Courses, modules
// and lessons upsert by natural key; section content is replaced per
// lesson so edits to seed data propagate on re-run.
func (s *Seeder) Run(ctx context.Context, course Course) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var courseID string
	err = tx.QueryRow(ctx, `
		INSERT INTO courses (slug, title, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description
		RETURNING id`,
		course.Slug, course.Title, course.Description,
	).Scan(&courseID)
	if err != nil {
		return fmt.Errorf("upsert course %q: %w", course.Slug, err)
	}

	sections := 0
	for mi, module := range course.Modules {
		var moduleID string
		err = tx.QueryRow(ctx, `
			INSERT INTO course_modules (course_id, slug, title, position)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (course_id, slug) DO UPDATE SET title = EXCLUDED.title, position = EXCLUDED.position
			RETURNING id`,
			courseID, module.Slug, module.Title, mi+1,
		).Scan(&moduleID)
		if err != nil {
			return fmt.Errorf("upsert module %q: %w", module.Slug, err)
		}

		for li, lesson := range module.Lessons {
			var lessonID string
			err = tx.QueryRow(ctx, `
				INSERT INTO lessons (module_id, slug, title, position)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (module_id, slug) DO UPDATE SET title = EXCLUDED.title, position = EXCLUDED.position
				RETURNING id`,
				moduleID, lesson.Slug, lesson.Title, li+1,
			).Scan(&lessonID)
			if err != nil {
				return fmt.Errorf("upsert lesson %q: %w", lesson.Slug, err)
			}

			if _, err := tx.Exec(ctx, `DELETE FROM lesson_sections WHERE lesson_id = $1`, lessonID); err != nil {
				return fmt.Errorf("reset sections for %q: %w", lesson.Slug, err)
			}
			for si, section := range lesson.Sections {
				_, err := tx.Exec(ctx, `
					INSERT INTO lesson_sections (lesson_id, heading, body, position)
					VALUES ($1, $2, $3, $4)`,
					lessonID, section.Heading, section.Body, si+1,
				)
				if err != nil {
					return fmt.Errorf("insert section %d of %q: %w", si+1, lesson.Slug, err)
				}
				sections++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.InfoContext(ctx, "course tree seeded",
		logger.Component("seed"),
		logger.Key("course", course.Slug),
		logger.Count("modules", len(course.Modules)),
		logger.Count("sections", sections),
	)
	return nil
}

// EnsureSuperAdmin creates the superadmin principal if it does not exist.
// The password is stored as a bcrypt hash. Existing users are left
// untouched so a re-run never rotates credentials silently.
func (s *Seeder) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, 'SuperAdmin')
		ON CONFLICT (email) DO NOTHING`,
		email, string(hash),
	)
	if err != nil {
		return fmt.Errorf("insert superadmin: %w", err)
	}

	if tag.RowsAffected() == 0 {
		s.log.InfoContext(ctx, "superadmin already exists",
			logger.Component("seed"), logger.Key("email", email))
	} else {
		s.log.InfoContext(ctx, "superadmin created",
			logger.Component("seed"), logger.Key("email", email))
	}
	return nil
}
