package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/postboard/internal/client/client"
	"github.com/dmitrijs2005/postboard/internal/client/config"
	"github.com/dmitrijs2005/postboard/internal/common"
)

// AuthClient is the subset of the gRPC client the commands use.
type AuthClient interface {
	Login(ctx context.Context, email string, password []byte) (*client.Session, error)
	WhoAmI(ctx context.Context) (*client.Identity, error)
	Ping(ctx context.Context) error
	SetAccessToken(token string)
	Close() error
}

var ErrUsage = errors.New("usage error")

// globalFlags take a value and belong to the config package.
var globalFlags = map[string]bool{"-a": true, "-t": true, "-c": true, "-config": true, "--config": true}

type App struct {
	config *config.Config
	client AuthClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewAuthClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, ac AuthClient, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: ac, reader: bufio.NewReader(in), out: out}
}

// Run executes the command found in args (os.Args[1:] style).
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.client.Close()

	cmd, rest := splitCommand(args)

	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	switch cmd {
	case "login":
		return a.Login(ctx, rest)
	case "whoami":
		return a.WhoAmI(ctx, rest)
	case "ping":
		return a.Ping(ctx)
	case "", "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: postboard-cli [-a addr] [-t seconds] [-c file] <command> [flags]")
	fmt.Fprintln(a.out, "Commands: login [-email e], whoami -token t, ping")
}

// splitCommand skips global flags and returns the command and its arguments.
func splitCommand(args []string) (string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return arg, args[i+1:]
		}
		if globalFlags[arg] && i+1 < len(args) {
			i++
		}
	}
	return "", nil
}

func (a *App) Login(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if *email == "" {
		v, err := GetSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		*email = v
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.client.Login(ctx, *email, password)
	if err != nil {
		return fmt.Errorf("login unsuccessful: %w", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s (id %d)\n", sess.User.Email, sess.User.ID)
	fmt.Fprintf(a.out, "Token: %s\n", sess.Token)
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Expires: %s\n", sess.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(a.out)
	token := fs.String("token", "", "session token")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *token == "" {
		return fmt.Errorf("%w: -token is required", ErrUsage)
	}

	a.client.SetAccessToken(*token)
	me, err := a.client.WhoAmI(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "id=%d name=%s email=%s\n", me.ID, me.Name, me.Email)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}
