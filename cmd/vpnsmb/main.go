package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/auth"
	"github.com/quin-vannatter/vpn-smb-manager/internal/command"
	"github.com/quin-vannatter/vpn-smb-manager/internal/config"
	httpx "github.com/quin-vannatter/vpn-smb-manager/internal/http"
	"github.com/quin-vannatter/vpn-smb-manager/internal/invite"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
	"github.com/quin-vannatter/vpn-smb-manager/internal/rate"
	"github.com/quin-vannatter/vpn-smb-manager/internal/smb"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/memory"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/pg"
	"github.com/quin-vannatter/vpn-smb-manager/internal/vpn"
	migrations "github.com/quin-vannatter/vpn-smb-manager/migrations/postgres"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "vpnsmb",
		Short: "Servidor de certificados VPN y shares SMB",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path al config YAML (opcional, env VSM_* pisa valores)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newSweepCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP y el reconciler de invitados",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, cleanup, err := buildContainer(ctx, *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			log := logger.L()

			// Sin admin no hay forma de entrar: acuñamos el invite inicial y lo
			// dejamos en el log, igual que el flujo de /api/users/init.
			ok, err := c.Store.AdminExists(ctx)
			if err != nil {
				log.Warn("admin check", logger.Err(err))
			} else if !ok {
				code, err := c.Invites.IssueMember("", true)
				if err != nil {
					log.Warn("bootstrap invite", logger.Err(err))
				} else {
					log.Info("no admin user yet, bootstrap invite issued",
						logger.String("inviteCode", code))
				}
			}

			go c.Reconciler.Run(ctx)

			log.Info("listening",
				logger.String("addr", c.Cfg.Server.Addr),
				logger.String("driver", c.Cfg.Storage.Driver))
			return httpx.Start(ctx, c.Cfg.Server.Addr, httpx.NewRouter(c))
		},
	}
}

func newSweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Corre una pasada del reconciler de invitados y termina",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, cleanup, err := buildContainer(ctx, *configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			survivors, err := c.Reconciler.Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("sweep done, %d guest certificate(s) still alive\n", survivors)
			return nil
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas de postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{})
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			defer store.Close()
			pool := store.Pool()

			entries, err := migrations.FS.ReadDir(".")
			if err != nil {
				return err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			sort.Strings(names)
			for _, name := range names {
				sql, err := migrations.FS.ReadFile(name)
				if err != nil {
					return err
				}
				if _, err := pool.Exec(ctx, string(sql)); err != nil {
					return fmt.Errorf("exec %s: %w", name, err)
				}
				fmt.Printf("applied %s\n", name)
			}
			return nil
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	// .env es opcional, se ignora si no existe
	_ = godotenv.Load()
	return config.Load(path)
}

func buildContainer(ctx context.Context, configPath string) (*app.Container, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger.Init(logger.Config{
		Env:         cfg.Log.Env,
		Level:       cfg.Log.Level,
		ServiceName: "vpnsmb",
	})
	log := logger.L()

	var store core.Repository
	switch cfg.Storage.Driver {
	case "memory":
		store = memory.New()
	default:
		pgStore, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			MinConns:        cfg.Storage.Postgres.MinConns,
			ConnMaxLifetime: cfg.PGConnMaxLifetime(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		store = pgStore
	}

	runner := command.NewExec(cfg.Scripts.Dir, cfg.Scripts.Timeout)
	ledger := vpn.NewLedger(store, runner, cfg.Server.Domain)
	invites := invite.NewRegistry(cfg.Lifecycle.InviteTTL, cfg.Lifecycle.GuestGracePeriod, ledger)
	reconciler := vpn.NewReconciler(ledger, invites.Protected, cfg.Lifecycle.ReconcileInterval)

	var limiter rate.Limiter
	if cfg.Redis.Addr != "" {
		client := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = rate.NewRedisLimiter(client, "login", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		log.Info("rate limiter backed by redis", logger.String("addr", cfg.Redis.Addr))
	} else {
		limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
	}

	c := &app.Container{
		Cfg:          cfg,
		Store:        store,
		Auth:         auth.NewAuthority(store, cfg.Lifecycle.TokenLifespan),
		Invites:      invites,
		Ledger:       ledger,
		Reconciler:   reconciler,
		Shares:       smb.NewService(runner),
		LoginLimiter: limiter,
	}

	cleanup := func() {
		store.Close()
		_ = log.Sync()
	}
	return c, cleanup, nil
}
