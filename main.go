package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/config"
	adminController "github.com/junaidrashid-git/storefront/controllers/admin"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/routes"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront and back-office API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd(), newReportCmd())
	return root
}

// -------- serve --------

func newServeCmd() *cobra.Command {
	var (
		port          string
		memory        bool
		adminUser     string
		adminPassword string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Println("✅ Starting application...")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var st store.Store
			if memory {
				mem := store.NewMemoryStore()
				if adminUser != "" {
					if _, err := mem.CreateUser(cmd.Context(), adminUser, adminUser+"@localhost", adminPassword, models.RoleAdmin); err != nil {
						return fmt.Errorf("seed admin: %w", err)
					}
				}
				log.Println("⚠️ Using the in-memory store; data is lost on exit")
				st = mem
			} else {
				gs, err := initDatabase(cfg)
				if err != nil {
					return err
				}
				if err := gs.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				st = gs
			}

			return serve(cmd.Context(), cfg, st)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&memory, "memory", false, "keep all data in memory instead of PostgreSQL")
	cmd.Flags().StringVar(&adminUser, "admin", "", "with --memory: create this administrator at startup")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for --admin")
	return cmd
}

func newEngine(cfg *config.Config, deps routes.Deps) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.Default()

	// Excel uploads
	r.MaxMultipartMemory = 32 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, deps)
	return r
}

// cors rejects credentials together with a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func serve(ctx context.Context, cfg *config.Config, st store.Store) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(cfg.SessionTTL)
	go startSessionSweeper(ctx, sessions, cfg.SweepEvery)

	r := newEngine(cfg, routes.Deps{
		Store:    st,
		Sessions: sessions,
		Secret:   []byte(cfg.JWTSecret),
		Hub:      orderControllers.NewHub(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server running on port %s...", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		log.Printf("❌ Failed to start server: %v", err)
		return err
	case <-ctx.Done():
	}

	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) (*store.GormStore, error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}

	gormLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: gormLogger})
	if err != nil {
		log.Printf("❌ Failed to connect DB: %v", err)
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("✅ Connected to database")
	return store.NewGormStore(db), nil
}

// startSessionSweeper drops expired sessions every interval until ctx ends.
func startSessionSweeper(ctx context.Context, sessions *session.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.Printf("🗑️ Removed %d expired sessions", n)
			}
		}
	}
}

// -------- migrate --------

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables, the order view, the summary function and the import procedure",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gs, err := initDatabase(cfg)
			if err != nil {
				return err
			}
			if err := gs.Migrate(cmd.Context()); err != nil {
				log.Printf("❌ Migration failed: %v", err)
				return err
			}
			log.Println("✅ Migration complete")
			return nil
		},
	}
}

// -------- create-admin --------

func newCreateAdminCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" || password == "" {
				return errors.New("--username, --email and --password are required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gs, err := initDatabase(cfg)
			if err != nil {
				return err
			}
			user, err := gs.CreateUser(cmd.Context(), username, email, password, models.RoleAdmin)
			if err != nil {
				return err
			}
			log.Printf("👤 Created administrator %s (id %d)", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

// -------- report --------

func newReportCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the per-customer order summary for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := adminController.ParseRange(from, to)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gs, err := initDatabase(cfg)
			if err != nil {
				return err
			}
			operator := models.Identity{Username: "cli", Role: models.RoleAdmin}
			report, err := adminController.OrdersSummary(cmd.Context(), gs, operator, start, end)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	today := time.Now().Format(time.DateOnly)
	cmd.Flags().StringVar(&from, "from", today, "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", today, "last day (YYYY-MM-DD)")
	return cmd
}
