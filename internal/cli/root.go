package cli

import (
	"fmt"
	"log/slog"

	"github.com/mwestin/accountd/internal/core/repository"
	"github.com/mwestin/accountd/internal/core/service"
	"github.com/mwestin/accountd/internal/infrastructure/sqlite"
	"github.com/mwestin/accountd/pkg/config"
	"github.com/mwestin/accountd/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "accountd",
	Short: "Accountd - account registration and login service",
	Long: `Accountd is a minimal account registration and login API.

It provides:
- Account registration with schema validation and bcrypt password hashing
- Login issuing signed JWT access tokens
- A REST API with bearer-token protected account endpoints
- CLI account management`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logging.Setup(cfg.LogLevel)

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/accountd/config.yml)")
}

// initServices initializes the database, repository and auth service
func initServices() (*Services, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	accountRepo := sqlite.NewAccountRepository(db)

	authService, err := service.NewAuthService(accountRepo, service.TokenConfig{
		Algorithm:      cfg.JWTAlgorithm,
		SecretKey:      cfg.JWTSecretKey,
		PrivateKeyPath: cfg.JWTPrivateKey,
		Lifetime:       cfg.TokenLifetime,
	}, slog.Default())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	return &Services{
		DB:          db,
		AccountRepo: accountRepo,
		AuthService: authService,
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB          *sqlite.DB
	AccountRepo repository.AccountRepository
	AuthService *service.AuthService
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
