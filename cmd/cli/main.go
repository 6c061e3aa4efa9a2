package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// apiClient talks to the gobank HTTP API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return data, resp.StatusCode, nil
}

// apiError turns a non-2xx reply into an error naming its kind.
func apiError(status int, body []byte) error {
	var e dto.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fmt.Errorf("request failed with status %d: %s", status, strings.TrimSpace(string(body)))
	}

	msg := e.Error
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Kind != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Kind)
	}

	return fmt.Errorf("%s (status %d)", msg, status)
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}
	var timeout time.Duration

	rootCmd := &cobra.Command{
		Use:           "gobank-cli",
		Short:         "GoBank CLI tool",
		Long:          `A command line interface for the GoBank ledger API and its maintenance tasks.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.http = &http.Client{Timeout: timeout}
		},
	}

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the GoBank API")
	rootCmd.PersistentFlags().StringVar(&client.token, "token", os.Getenv("GOBANK_TOKEN"), "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		postCmd(client, domain.TransactionTypeDeposit),
		postCmd(client, domain.TransactionTypeWithdraw),
		accountCmd(client),
		transactionCmd(client),
		reconcileCmd(client),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func postCmd(client *apiClient, txnType domain.TransactionType) *cobra.Command {
	var reference, idempotencyKey string

	name := strings.ToLower(string(txnType))
	cmd := &cobra.Command{
		Use:   name + " ACCOUNT_ID AMOUNT",
		Short: fmt.Sprintf("Post a %s to an account", name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			if reference == "" {
				reference = "CLI-" + ulid.Make().String()
			}

			headers := map[string]string{}
			if idempotencyKey != "" {
				headers[middleware.IdempotencyKeyHeader] = idempotencyKey
			}

			body, status, err := client.do(http.MethodPost, "/api/v1/transactions", dto.SubmitTransactionRequest{
				AccountID: args[0],
				Type:      string(txnType),
				Amount:    amount,
				Reference: reference,
			}, headers)
			if err != nil {
				return err
			}
			if status != http.StatusCreated {
				return apiError(status, body)
			}

			var resp dto.SubmitTransactionResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s posted to %s\n", txnType, amount.StringFixed(domain.AmountScale), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Transaction: %s\n", resp.TransactionID)
			fmt.Fprintf(cmd.OutOrStdout(), "New balance: %s\n", resp.NewBalance.StringFixed(domain.AmountScale))
			return nil
		},
	}

	cmd.Flags().StringVar(&reference, "reference", "", "Unique transaction reference (generated when empty)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	return cmd
}

// getJSON fetches path and pretty-prints the reply.
func getJSON(cmd *cobra.Command, client *apiClient, path string) error {
	body, status, err := client.do(http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(status, body)
	}

	return printJSON(cmd.OutOrStdout(), json.RawMessage(body))
}

func accountCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(cmd, client, "/api/v1/accounts/"+args[0])
		},
	})

	return cmd
}

func transactionCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get TRANSACTION_ID",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(cmd, client, "/api/v1/transactions/"+args[0])
		},
	})

	return cmd
}

func reconcileCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [ACCOUNT_ID]",
		Short: "Reconcile one account, or show the last scheduled report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return getJSON(cmd, client, "/api/v1/reconciliation")
			}

			body, status, err := client.do(http.MethodGet, "/api/v1/accounts/"+args[0]+"/reconciliation", nil, nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return apiError(status, body)
			}

			var result struct {
				RecordedBalance   decimal.Decimal `json:"recorded_balance"`
				CalculatedBalance decimal.Decimal `json:"calculated_balance"`
				Difference        decimal.Decimal `json:"difference"`
				IsReconciled      bool            `json:"is_reconciled"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if result.IsReconciled {
				fmt.Fprintf(out, "Reconciliation PASSED\n")
			} else {
				fmt.Fprintf(out, "Reconciliation FAILED\n")
			}
			fmt.Fprintf(out, "Recorded:   %s\n", result.RecordedBalance.StringFixed(domain.AmountScale))
			fmt.Fprintf(out, "Calculated: %s\n", result.CalculatedBalance.StringFixed(domain.AmountScale))

			if !result.IsReconciled {
				return fmt.Errorf("account %s is off by %s", args[0], result.Difference.StringFixed(domain.AmountScale))
			}
			return nil
		},
	}
}

// newMigrator is replaced in tests.
var newMigrator = func(databaseURL, path string, log zerolog.Logger) migrator {
	return postgres.NewMigrator(databaseURL, path, log)
}

type migrator interface {
	Up() error
	Down() error
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if databaseURL == "" {
				databaseURL = cfg.DatabaseURL
			}
			if path == "" {
				path = cfg.MigrationsPath
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL (defaults to DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (defaults to MIGRATIONS_PATH)")

	run := func(name string, step func(migrator) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Run %s migrations", name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				log := logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, cmd.ErrOrStderr())
				if err := step(newMigrator(databaseURL, path, log)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", name)
				return nil
			},
		}
	}

	cmd.AddCommand(
		run("up", migrator.Up),
		run("down", migrator.Down),
	)

	return cmd
}

func tokenCmd() *cobra.Command {
	var secret string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token OPERATOR",
		Short: "Issue an API token for an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
