package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/TypeDummying/AIuminum/cmd/common"
	"github.com/TypeDummying/AIuminum/pkg/incognito"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

var (
	errNoFileName    = errors.New("file name is required")
	errUnsafeURL     = errors.New("url failed the private session screen")
	errPurgeFailed   = errors.New("some scratch directories were not fully erased")
	errSelftestState = errors.New("session state did not survive the export round trip")

	scratchFs afero.Fs = afero.NewOsFs()
)

func privateCheckURL(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoURL)
	}
	if !incognito.IsURLSafe(url) {
		fmt.Fprintln(stdout, "unsafe")
		return errUnsafeURL
	}
	fmt.Fprintln(stdout, "safe")
	return nil
}

func privateSanitize(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoFileName)
	}
	fmt.Fprintln(stdout, incognito.SanitizeDownloadFilename(name))
	return nil
}

// scratchLocation resolves the scratch parent and label from the flags and
// the config file.
func scratchLocation(ctx *cli.Context, env *runtimeEnv) (parent, label string) {
	parent = ctx.String("dir")
	if parent == "" {
		parent = env.cfg.Private.ScratchParent
	}
	if parent == "" {
		parent = os.TempDir()
	}
	label = ctx.String("label")
	if label == "" {
		label = env.cfg.Private.Label
	}
	if label == "" {
		label = incognito.DefaultLabel
	}
	return parent, label
}

// leftoverScratchDirs lists the scratch directories of label directly
// inside parent whose modification time is at least minAge before now.
func leftoverScratchDirs(fsys afero.Fs, parent, label string, minAge time.Duration, now time.Time) ([]string, error) {
	matches, err := afero.Glob(fsys, filepath.Join(parent, incognito.ScratchGlob(label)))
	if err != nil {
		return nil, err
	}
	dirs := matches[:0]
	for _, m := range matches {
		fi, err := fsys.Stat(m)
		if err != nil || !fi.IsDir() {
			continue
		}
		if now.Sub(fi.ModTime()) < minAge {
			continue
		}
		dirs = append(dirs, m)
	}
	return dirs, nil
}

// eraseBarHandlers draws one progress bar per erased directory on p.
func eraseBarHandlers(p *mpb.Progress, prefix string) *incognito.EraseHandlers {
	var bar *mpb.Bar
	return &incognito.EraseHandlers{
		StartHandler: func(_ int, total int64) {
			bar = common.InitEraseBar(p, prefix, total)
		},
		ProgressHandler: func(n int) {
			bar.IncrBy(n)
		},
		CompleteHandler: func(err error) {
			if err != nil {
				bar.Abort(false)
				return
			}
			bar.SetTotal(-1, true)
		},
	}
}

func privatePurge(ctx *cli.Context) error {
	env, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	parent, label := scratchLocation(ctx, env)
	dirs, err := leftoverScratchDirs(scratchFs, parent, label, ctx.Duration("older-than"), time.Now())
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		fmt.Fprintln(stdout, "no leftover session directories")
		return nil
	}

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var p *mpb.Progress
	if !ctx.Bool("quiet") {
		p = mpb.New(mpb.WithOutput(stdout), mpb.WithWidth(64))
	}
	failed := 0
	for i, dir := range dirs {
		var h *incognito.EraseHandlers
		if p != nil {
			h = eraseBarHandlers(p, fmt.Sprintf("[%d/%d] ", i+1, len(dirs)))
		}
		if err := incognito.SecureErase(sctx, scratchFs, dir, h); err != nil {
			failed++
			env.log.Warning("scratch directory %d of %d not fully erased", i+1, len(dirs))
			if sctx.Err() != nil {
				break
			}
		}
	}
	if p != nil {
		p.Wait()
	}
	if err := sctx.Err(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "purged %d of %d leftover session directories\n", len(dirs)-failed, len(dirs))
	if failed > 0 {
		return errPurgeFailed
	}
	return nil
}

func privateSelftest(ctx *cli.Context) error {
	env, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	parent, label := scratchLocation(ctx, env)
	sess, err := incognito.New(label, &incognito.Options{
		Fs:      scratchFs,
		TempDir: parent,
		Logger:  env.log,
	})
	if err != nil {
		return err
	}
	defer func() { _ = sess.EndSession(sctx) }()

	if err := selftestSession(sctx, sess, ctx.Int("visits")); err != nil {
		common.PrintRuntimeErr(ctx, "private", "selftest", err)
		return err
	}
	fmt.Fprintln(stdout, sess.Report())

	scratch := sess.ScratchDir()
	if err := sess.EndSession(sctx); err != nil {
		return err
	}
	if ok, _ := afero.Exists(scratchFs, scratch); ok {
		return errors.New("scratch directory survived the session")
	}
	fmt.Fprintln(stdout, "selftest passed")
	return nil
}

func selftestSession(ctx context.Context, sess *incognito.Session, visits int) error {
	if err := sess.AddToHistory("https://example.com/"); err != nil {
		return err
	}
	if err := sess.SetCookie("example.com", "selftest", "ok"); err != nil {
		return err
	}
	if err := sess.SetSessionData("visits", visits); err != nil {
		return err
	}
	if err := sess.AddDecoyActivity(visits); err != nil {
		return err
	}
	history, err := sess.History()
	if err != nil {
		return err
	}

	blob := filepath.Join(sess.ScratchDir(), "session.export")
	if err := sess.ExportSessionData(ctx, blob); err != nil {
		return err
	}
	sess.ClearHistory()
	sess.ClearCookies()
	sess.ClearSessionData()
	if err := sess.ImportSessionData(ctx, blob); err != nil {
		return err
	}

	restored, err := sess.History()
	if err != nil {
		return err
	}
	v, ok, err := sess.GetCookie("example.com", "selftest")
	if err != nil {
		return err
	}
	var n int
	found, err := sess.GetSessionData("visits", &n)
	if err != nil {
		return err
	}
	if len(restored) != len(history) || !ok || v != "ok" || !found || n != visits {
		return errSelftestState
	}
	return nil
}
