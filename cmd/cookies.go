package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/TypeDummying/AIuminum/cmd/common"
	"github.com/TypeDummying/AIuminum/internal/cookies"
	"github.com/TypeDummying/AIuminum/pkg/jar"
	"github.com/urfave/cli"
)

var (
	errNoDomain     = errors.New("--domain is required")
	errNoName       = errors.New("cookie name is required")
	errNoURL        = errors.New("url is required")
	errNoHeader     = errors.New("a Set-Cookie value is required")
	errBadHeader    = errors.New("a Set-Cookie value must start with name=value")
	errNoOutput     = errors.New("--out is required")
	errNoSource     = errors.New("--from is required")
	errNotFound     = errors.New("cookie not found")
	errManyPolicies = errors.New("only one of --accept-all, --block-third-party and --block-all may be set")
)

// withJar opens the jar, runs fn and saves the jar when fn reports a change.
func withJar(ctx *cli.Context, fn func(h *jarHandle) (bool, error)) error {
	h, err := openJar(ctx)
	if err != nil {
		return err
	}
	defer h.close()
	changed, err := fn(h)
	if err != nil {
		return err
	}
	if changed {
		return h.save()
	}
	return nil
}

func cookiesSet(ctx *cli.Context) error {
	header := ctx.Args().First()
	if header == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoHeader)
	}
	name, ok := setCookieName(header)
	if !ok {
		return common.PrintErrWithCmdHelp(ctx, errBadHeader)
	}
	domain := ctx.String("domain")
	if domain == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoDomain)
	}
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		if err := h.jar.HandleSetCookieHeader(header, domain); err != nil {
			return false, err
		}
		fmt.Fprintf(stdout, "cookie %q stored\n", name)
		return true, nil
	})
}

// setCookieName returns the cookie name of a Set-Cookie value, or false
// when the jar would ignore the header.
func setCookieName(header string) (string, bool) {
	first, _, _ := strings.Cut(header, ";")
	name, _, found := strings.Cut(strings.TrimSpace(first), "=")
	return strings.TrimSpace(name), found
}

func cookiesGet(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoName)
	}
	domain := ctx.String("domain")
	if domain == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoDomain)
	}
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		before := h.jar.Len()
		v, ok, err := h.jar.GetCookie(name, domain)
		if err != nil {
			return false, err
		}
		if !ok {
			if h.jar.Len() < before {
				// expired and removed by the lookup
				return false, errors.Join(errNotFound, h.save())
			}
			return false, errNotFound
		}
		fmt.Fprintln(stdout, v)
		return false, nil
	})
}

func cookiesDelete(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoName)
	}
	domain := ctx.String("domain")
	if domain == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoDomain)
	}
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		h.jar.DeleteCookie(name, domain)
		return true, nil
	})
}

func cookiesClear(ctx *cli.Context) error {
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		h.jar.ClearCookies(ctx.String("domain"))
		return true, nil
	})
}

func cookiesHeader(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoURL)
	}
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		header, err := h.jar.CookieHeaderFor(url)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(stdout, header)
		return false, nil
	})
}

func cookiesCleanup(ctx *cli.Context) error {
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		n := h.jar.CleanupExpiredCookies()
		fmt.Fprintf(stdout, "removed %d expired cookies\n", n)
		return n > 0, nil
	})
}

func cookiesStats(ctx *cli.Context) error {
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		st := h.jar.Stats()
		fmt.Fprintf(stdout, "|%s|%s|%s|\n", common.Beaut("Cookies", 10), common.Beaut("Domains", 10), common.Beaut("Per Domain", 12))
		fmt.Fprintf(stdout, "|%s|%s|%s|\n", strings.Repeat("-", 10), strings.Repeat("-", 10), strings.Repeat("-", 12))
		fmt.Fprintf(stdout, "|%s|%s|%s|\n",
			common.Beaut(fmt.Sprint(st.TotalCookies), 10),
			common.Beaut(fmt.Sprint(st.TotalDomains), 10),
			common.Beaut(fmt.Sprint(st.AvgCookiesPerDomain), 12),
		)
		return false, nil
	})
}

// policyFromFlags returns the policy named on the command line, or false
// when no policy flag is set.
func policyFromFlags(ctx *cli.Context) (jar.Policy, bool, error) {
	p := jar.Policy{
		AcceptAll:       ctx.Bool("accept-all"),
		BlockThirdParty: ctx.Bool("block-third-party"),
		BlockAll:        ctx.Bool("block-all"),
	}
	set := 0
	for _, b := range []bool{p.AcceptAll, p.BlockThirdParty, p.BlockAll} {
		if b {
			set++
		}
	}
	if set > 1 {
		return p, false, errManyPolicies
	}
	return p, set == 1, nil
}

func cookiesPolicy(ctx *cli.Context) error {
	p, ok, err := policyFromFlags(ctx)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		if !ok {
			p = h.cfg.Jar.Policy
		}
		before := h.jar.Len()
		h.jar.ApplyPolicy(p)
		fmt.Fprintf(stdout, "policy applied, %d cookies removed\n", before-h.jar.Len())
		return true, nil
	})
}

func cookiesExport(ctx *cli.Context) error {
	out := ctx.String("out")
	if out == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoOutput)
	}
	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		if err := h.jar.ExportNetscape(sctx, out); err != nil {
			return false, err
		}
		fmt.Fprintf(stdout, "exported %d cookies\n", h.jar.Len())
		return false, nil
	})
}

func cookiesImport(ctx *cli.Context) error {
	from := ctx.String("from")
	if from == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoSource)
	}
	records, src, err := cookies.ImportCookies(from, ctx.String("domain"))
	if err != nil {
		return err
	}
	return withJar(ctx, func(h *jarHandle) (bool, error) {
		n, err := h.jar.Import(records)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(stdout, "imported %d of %d cookies from %s store\n", n, len(records), src.Format)
		return n > 0, nil
	})
}
