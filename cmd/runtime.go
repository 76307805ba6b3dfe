package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	appcommon "github.com/TypeDummying/AIuminum/common"
	"github.com/TypeDummying/AIuminum/internal/config"
	"github.com/TypeDummying/AIuminum/pkg/credman"
	"github.com/TypeDummying/AIuminum/pkg/credman/encryption"
	"github.com/TypeDummying/AIuminum/pkg/credman/keyring"
	"github.com/TypeDummying/AIuminum/pkg/jar"
	"github.com/TypeDummying/AIuminum/pkg/logger"
	"github.com/urfave/cli"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	newEventLog = openEventLog

	newKeyChain = func() keyring.Chain {
		return keyring.Chain{
			keyring.NewKeyring(),
			keyring.NewFileKeyStore(config.ConfigDir()),
		}
	}
)

// runtimeEnv is the configuration and log sink shared by one command run.
type runtimeEnv struct {
	cfg     *config.File
	log     logger.Logger
	logFile *os.File
}

func loadRuntime(ctx *cli.Context) (*runtimeEnv, error) {
	cfg, err := config.Load(config.FindConfigFile(ctx.GlobalString("config")))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	debug := ctx.GlobalBool("debug") || cfg.Debug
	env := &runtimeEnv{cfg: cfg}
	console := logger.NewStandardLogger(log.New(stderr, "aluminum: ", log.LstdFlags), debug)
	sinks := []logger.Logger{console}
	if p := ctx.GlobalString("log-file"); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		env.logFile = f
		sinks = append(sinks, logger.NewStandardLogger(log.New(f, "", log.LstdFlags), debug))
	}
	if ctx.GlobalBool("event-log") || cfg.EventLog {
		el, err := newEventLog()
		if err != nil {
			console.Warning("event log disabled: %v", err)
		} else {
			sinks = append(sinks, el)
		}
	}
	env.log = logger.NewMultiLogger(sinks...)
	return env, nil
}

func (e *runtimeEnv) close() {
	_ = e.log.Close()
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// jarKey returns the key of the persistent jar: $ALUMINUM_COOKIE_KEY when
// set, otherwise the key held by the keyring chain.
func jarKey() ([]byte, error) {
	if s := strings.TrimSpace(os.Getenv(appcommon.CookieKeyEnv)); s != "" {
		key, err := hex.DecodeString(s)
		if err != nil || len(key) != encryption.KeySize {
			return nil, fmt.Errorf("%s must hold %d hex-encoded bytes", appcommon.CookieKeyEnv, encryption.KeySize)
		}
		return key, nil
	}
	return newKeyChain().LoadOrCreate()
}

// jarHandle is an opened persistent jar.
type jarHandle struct {
	*runtimeEnv
	jar  *jar.Jar
	file *credman.JarFile
}

func openJar(ctx *cli.Context) (*jarHandle, error) {
	env, err := loadRuntime(ctx)
	if err != nil {
		return nil, err
	}
	path := ctx.String("jar")
	if path == "" {
		path = env.cfg.Jar.Path
	}
	key, err := jarKey()
	if err != nil {
		env.close()
		return nil, fmt.Errorf("jar key: %w", err)
	}
	file, err := credman.NewJarFile(path, key, &credman.JarFileOpts{Logger: env.log})
	encryption.Zero(key)
	if err != nil {
		env.close()
		return nil, err
	}
	h := &jarHandle{
		runtimeEnv: env,
		jar:        jar.New(env.cfg.JarOptions(env.log)),
		file:       file,
	}
	if err := file.Load(h.jar); err != nil {
		h.close()
		return nil, err
	}
	return h, nil
}

func (h *jarHandle) save() error {
	return h.file.Save(h.jar)
}

func (h *jarHandle) close() {
	_ = h.file.Close()
	h.runtimeEnv.close()
}
