package cli

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/spf13/cobra"

	"github.com/lumenlms/sessionkit/core/config"
	"github.com/lumenlms/sessionkit/seed"
)

type seedConfig struct {
	DatabaseURL   string        `env:"DATABASE_URL,required"`
	JWTSecret     string        `env:"LMS_JWT_SECRET,required"`
	AdminEmail    string        `env:"LMS_ADMIN_EMAIL" envDefault:"admin@lumenlms.dev"`
	AdminPassword string        `env:"LMS_ADMIN_PASSWORD,required"`
	TokenTTL      time.Duration `env:"LMS_SEED_TOKEN_TTL" envDefault:"1h"`
}

func newSeedCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate the schema and seed the Prompt Engineering course",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			ctx := cmd.Context()

			var cfg seedConfig
			if err := config.Load(&cfg); err != nil {
				return err
			}

			// goose drives migrations over database/sql; the seeder
			// itself uses a pgx pool.
			db, err := sql.Open("pgx", cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close() //nolint:errcheck

			if err := seed.Migrate(ctx, db); err != nil {
				return err
			}

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect pool: %w", err)
			}
			defer pool.Close()

			seeder := seed.New(pool, seed.WithLogger(log))
			if err := seeder.EnsureSuperAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
				return err
			}
			if err := seeder.Run(ctx, seed.PromptEngineeringCourse()); err != nil {
				return err
			}

			token, err := seed.MintAdminToken(cfg.JWTSecret, cfg.AdminEmail, cfg.TokenTTL)
			if err != nil {
				return err
			}

			cmd.Println("seeded prompt-engineering course")
			cmd.Printf("admin token (valid %s):\n%s\n", cfg.TokenTTL, token)
			return nil
		},
	}
}
