package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/tair/pharmacy-backend/internal/config"
	notificationRepo "github.com/tair/pharmacy-backend/internal/notification/repository"
	userRepo "github.com/tair/pharmacy-backend/internal/user/repository"
	"github.com/tair/pharmacy-backend/internal/user/usecase/command"
	"github.com/tair/pharmacy-backend/pkg/database"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func dbConfig(c *cli.Context) database.Config {
	dsn := c.String("db-url")
	if dsn == "" {
		dsn = config.Load().Database.DSN()
	}
	return database.Config{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1}
}

func runUp(c *cli.Context) error {
	db, err := database.NewPostgresConnection(dbConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(c.Context, db); err != nil {
		return err
	}
	logger.Logger.Info().Msg("Schema applied")
	return nil
}

func runSeed(c *cli.Context) error {
	db, err := database.NewGormConnection(dbConfig(c))
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	users := userRepo.NewGormUserRepository(db)
	s := seeder{
		roles:     users,
		users:     command.NewCreateUserHandler(users),
		templates: notificationRepo.NewGormTemplateRepository(db),
	}
	return s.run(c.Context, c.String("admin-username"), c.String("admin-password"))
}

func main() {
	_ = godotenv.Load()
	logger.Init("pharmacy-migrate", true)

	app := &cli.App{
		Name:  "migrate",
		Usage: "Apply the schema and seed reference data",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply the embedded schema (idempotent)",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runUp,
			},
			{
				Name:  "seed",
				Usage: "Create roles, the admin account and default SMS templates",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "admin-username",
						Usage:   "Username of the seeded admin",
						Value:   "admin",
						EnvVars: []string{"ADMIN_USERNAME"},
					},
					&cli.StringFlag{
						Name:    "admin-password",
						Usage:   "Password of the seeded admin",
						Value:   "admin123",
						EnvVars: []string{"ADMIN_PASSWORD"},
					},
				},
				Action: runSeed,
			},
			{
				Name:  "all",
				Usage: "Run up then seed",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "admin-username", Value: "admin", EnvVars: []string{"ADMIN_USERNAME"}},
					&cli.StringFlag{Name: "admin-password", Value: "admin123", EnvVars: []string{"ADMIN_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					if err := runUp(c); err != nil {
						return err
					}
					return runSeed(c)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Migration failed")
	}
}
