package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/pkg/models"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNotInstalled is returned when the install check of the fetch source fails.
var ErrNotInstalled = errors.New("the fetch source does not seem to be installed, skipping fetch")

const (
	commandTest       = "test"
	commandUpdate     = "update"
	commandVersion    = "version"
	commandAccounts   = "accounts"
	commandOperations = "transactions"

	installedKey = "installed"
)

// WeboobConfig configures the external fetch process.
type WeboobConfig struct {
	Executable string        // Interpreter to run, e.g. python2
	Script     string        // Path of the helper script
	Dir        string        // Passed to the process as WEBOOB_DIR
	Debug      bool          // Prefix fetch commands with "debug-"
	InstallTTL time.Duration // How long a successful install check is remembered
}

// Weboob fetches data by running an external helper process.
//
// The process reads a command and its arguments on stdin, one per line, and
// writes a JSON document on stdout.
type Weboob struct {
	config   WeboobConfig
	installs *cache.Cache
	logger   zerolog.Logger

	// run is replaced in tests
	run func(ctx context.Context, stdin string) (stdout, stderr []byte, err error)
}

// NewWeboob creates a Weboob source.
func NewWeboob(config WeboobConfig) *Weboob {
	if config.InstallTTL == 0 {
		config.InstallTTL = 5 * time.Minute
	}

	w := &Weboob{
		config:   config,
		installs: cache.New(config.InstallTTL, 2*config.InstallTTL),
		logger:   log.With().Str("component", "fetch").Str("source", "weboob").Logger(),
	}
	w.run = w.exec
	return w
}

// output is the JSON document written by the helper process.
type output struct {
	Values       json.RawMessage `json:"values"`
	ErrorCode    *string         `json:"error_code"`
	ErrorShort   string          `json:"error_short"`
	ErrorMessage string          `json:"error_message"`
	ErrorContent string          `json:"error_content"`
}

func (w *Weboob) exec(ctx context.Context, stdin string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, w.config.Executable, w.config.Script)
	cmd.Env = processEnv(os.Environ(), w.config.Dir)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// processEnv builds the environment of the helper process. KRESUS_WEBOOB_DIR
// is not forwarded, the configured directory is passed as WEBOOB_DIR instead.
// EXECJS_RUNTIME defaults to Node.
func processEnv(environ []string, dir string) []string {
	env := make([]string, 0, len(environ)+2)
	hasRuntime := false

	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		switch {
		case key == "KRESUS_WEBOOB_DIR":
			continue
		case key == "WEBOOB_DIR" && dir != "":
			continue
		case key == "EXECJS_RUNTIME":
			hasRuntime = true
		}
		env = append(env, kv)
	}

	if dir != "" {
		env = append(env, "WEBOOB_DIR="+dir)
	}

	if !hasRuntime {
		env = append(env, "EXECJS_RUNTIME=Node")
	}

	return env
}

// call runs a command and returns the raw "values" of its output.
func (w *Weboob) call(ctx context.Context, command string, access *models.Access) (json.RawMessage, error) {
	w.logger.Info().Str("command", command).Msg("Calling fetch source")

	lines := []string{command}
	if access != nil {
		lines = append(lines, access.Bank, access.Login, access.Password)
		if access.CustomFields != "" {
			lines = append(lines, access.CustomFields)
		}
	}

	stdout, stderr, err := w.run(ctx, strings.Join(lines, "\n")+"\n")
	if len(bytes.TrimSpace(stderr)) > 0 {
		w.logger.Info().Str("command", command).Msgf("stderr: %s", stderr)
	}

	if err != nil {
		return nil, errcodes.New(errcodes.Generic, "fetch source failure: %v: %s", err, stderr)
	}

	// These commands only report through their exit code
	if command == commandTest || command == commandUpdate {
		return nil, nil
	}

	return parseOutput(stdout, stderr)
}

// parseOutput decodes the helper's output into its values or a coded error.
func parseOutput(stdout, stderr []byte) (json.RawMessage, error) {
	var out output
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, &errcodes.Error{
			Code:    errcodes.Generic,
			Message: fmt.Sprintf("invalid JSON from fetch source: %v\n- stdout: %s\n- stderr: %s", err, stdout, stderr),
		}
	}

	if out.ErrorCode != nil {
		e := &errcodes.Error{
			Code:    errcodes.ParseCode(*out.ErrorCode),
			Message: fmt.Sprintf("error when calling into the fetch source: %s (%s)", *out.ErrorCode, out.ErrorMessage),
			Content: out.ErrorContent,
		}
		if out.ErrorShort != "" {
			e.ShortMessage = out.ErrorShort
		}
		return nil, e
	}

	return out.Values, nil
}

// Installed checks the helper with the "test" command. Successful checks
// are remembered for the configured TTL.
func (w *Weboob) Installed(ctx context.Context) bool {
	if _, ok := w.installs.Get(installedKey); ok {
		return true
	}

	if _, err := w.call(ctx, commandTest, nil); err != nil {
		w.logger.Error().Err(err).Msg("When testing install")
		return false
	}

	w.installs.SetDefault(installedKey, true)
	return true
}

// Update updates the bank modules of the helper. The install check is
// forgotten so that the next fetch checks the installation again.
func (w *Weboob) Update(ctx context.Context) error {
	if _, err := w.call(ctx, commandUpdate, nil); err != nil {
		w.logger.Error().Err(err).Msg("When updating modules")
		return err
	}

	w.installs.Flush()
	return nil
}

// Version returns the version of the fetch source, "?" if it cannot be determined.
func (w *Weboob) Version(ctx context.Context) string {
	values, err := w.call(ctx, commandVersion, nil)
	if err != nil {
		w.logger.Error().Err(err).Msg("When getting the version")
		return "?"
	}

	var version string
	if err := json.Unmarshal(values, &version); err != nil {
		return "?"
	}
	return version
}

func (w *Weboob) fetch(ctx context.Context, command string, access models.Access, target any) error {
	if err := access.Validate(); err != nil {
		return errcodes.New(errcodes.NoPassword, "%v", err)
	}

	if !w.Installed(ctx) {
		return ErrNotInstalled
	}

	if w.config.Debug {
		command = fmt.Sprintf("debug-%s", command)
	}

	values, err := w.call(ctx, command, &access)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(values, target); err != nil {
		return errcodes.New(errcodes.Generic, "could not decode %s: %v", command, err)
	}

	return nil
}

// FetchAccounts implements Source.
func (w *Weboob) FetchAccounts(ctx context.Context, access models.Access) ([]RawAccount, error) {
	var accounts []RawAccount
	err := w.fetch(ctx, commandAccounts, access, &accounts)
	return accounts, err
}

// FetchOperations implements Source.
func (w *Weboob) FetchOperations(ctx context.Context, access models.Access) ([]RawOperation, error) {
	var operations []RawOperation
	err := w.fetch(ctx, commandOperations, access, &operations)
	return operations, err
}
