package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"simulador/internal/logger"
	"simulador/pkg/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token pair",
	Long: `Sign in with email and password. The access and refresh tokens returned by
the API are stored in the session store (SESSION_STORE) and used by every
other command until "simulador logout".

When --password is omitted the password is read from the terminal without
echo, or from the first line of stdin when it is not a terminal.`,
	Example: `  # Prompt for the password
  simulador login --email ana@example.com

  # Non-interactive
  echo "$PASSWORD" | simulador login --email ana@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:     "register",
	Short:   "Create a user account",
	Example: `  simulador register --name "Ana Souza" --email ana@example.com --document 12345678901`,
	Args:    cobra.NoArgs,
	RunE:    runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)

	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")

	registerCmd.Flags().String("name", "", "Full name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	registerCmd.Flags().String("document", "", "CPF or CNPJ")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("document")
}

func runLogin(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("login")

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	if password == "" {
		if password, err = readPassword(cmd); err != nil {
			return err
		}
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	login, err := client.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return handleAPIError(err, log)
	}

	userLog := logger.WithUser(login.User.Email)
	userLog.Info().
		Str("store", cfg.SessionStore).
		Msg("Session stored")

	fmt.Fprintf(cmd.OutOrStdout(), "Bem-vindo, %s!\n", login.User.Name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("logout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	if err := client.Session().Logout(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("register")

	reg := models.Registration{}
	reg.Name, _ = cmd.Flags().GetString("name")
	reg.Email, _ = cmd.Flags().GetString("email")
	reg.Password, _ = cmd.Flags().GetString("password")
	reg.Document, _ = cmd.Flags().GetString("document")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	if reg.Password == "" {
		if reg.Password, err = readPassword(cmd); err != nil {
			return err
		}
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	user, err := client.Register(ctx, reg)
	if err != nil {
		return handleAPIError(err, log)
	}

	log.Info().
		Str("user_id", user.ID).
		Msg("User registered")

	return writeOutput(cmd, user, func(w io.Writer) error {
		fmt.Fprintf(w, "Conta criada para %s (%s).\n", user.Name, user.Email)
		fmt.Fprintln(w, "Use \"simulador login\" para entrar.")
		return nil
	}, log)
}

type whoamiOutput struct {
	LoggedIn       bool         `json:"logged_in"`
	User           *models.User `json:"user,omitempty"`
	TokenExpiresAt *time.Time   `json:"token_expires_at,omitempty"`
}

func runWhoami(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("whoami")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	session := client.Session()
	out := whoamiOutput{LoggedIn: session.LoggedIn()}
	if user, ok := session.User(); ok && out.LoggedIn {
		out.User = &user
	}
	if exp, ok := session.AccessTokenExpiry(); ok {
		out.TokenExpiresAt = &exp
	}

	return writeOutput(cmd, out, func(w io.Writer) error {
		if out.User == nil {
			fmt.Fprintln(w, "Nenhum usuário conectado.")
			return nil
		}
		fmt.Fprintf(w, "Usuário:\t%s\n", out.User.Name)
		fmt.Fprintf(w, "Email:\t%s\n", out.User.Email)
		if out.TokenExpiresAt != nil {
			fmt.Fprintf(w, "Token expira em:\t%s\n", out.TokenExpiresAt.Local().Format("02/01/2006 15:04"))
		}
		return nil
	}, log)
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}
