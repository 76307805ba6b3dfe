// Package cmd implements the aluminum command line.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/TypeDummying/AIuminum/cmd/common"
	appcommon "github.com/TypeDummying/AIuminum/common"
	"github.com/urfave/cli"
)

// BuildArgs carries the values stamped in at link time.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path of the YAML configuration file",
		EnvVar: appcommon.ConfigEnv,
	}
	debugFlag = cli.BoolFlag{
		Name:   "debug, d",
		Usage:  "enable debug logging",
		EnvVar: appcommon.DebugEnv,
	}
	logFileFlag = cli.StringFlag{
		Name:  "log-file",
		Usage: "also append log output to this file",
	}
	eventLogFlag = cli.BoolFlag{
		Name:  "event-log",
		Usage: "also send log output to the Windows Event Log",
	}
	jarFlag = cli.StringFlag{
		Name:  "jar",
		Usage: "cookie jar file (default: from config or the XDG data dir)",
	}
	domainFlag = cli.StringFlag{
		Name:  "domain",
		Usage: "cookie domain",
	}
	labelFlag = cli.StringFlag{
		Name:  "label",
		Usage: "private session label (default: from config)",
	}
	dirFlag = cli.StringFlag{
		Name:  "dir",
		Usage: "scratch parent directory (default: from config or the system temp dir)",
	}
)

// Execute runs the CLI with args.
func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "aluminum",
		HelpName:              "aluminum",
		Usage:                 "Encrypted cookie jar and private session tooling.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags: []cli.Flag{
			configFlag,
			debugFlag,
			logFileFlag,
			eventLogFlag,
		},
		Commands: []cli.Command{
			cookiesCommand(),
			privateCommand(),
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:   "version",
				Usage:  "prints installed version of aluminum",
				Action: common.GetVersion,
			},
		},
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name, bArgs.Version, runtime.GOOS, runtime.GOARCH, bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}

func cookiesCommand() cli.Command {
	jarFlags := []cli.Flag{jarFlag}
	withDomain := []cli.Flag{jarFlag, domainFlag}
	return cli.Command{
		Name:               "cookies",
		Aliases:            []string{"c"},
		Usage:              "manage the encrypted cookie jar",
		Description:        COOKIES_DESCRIPTION,
		CustomHelpTemplate: SUBCMD_HELP_TEMPL,
		OnUsageError:       common.UsageErrorCallback,
		Subcommands: []cli.Command{
			{
				Name:               "set",
				Usage:              "store a cookie from a Set-Cookie value",
				UsageText:          `--domain D "<Set-Cookie value>"`,
				Description:        COOKIES_SET_DESCRIPTION,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags:              withDomain,
				Action:             cookiesSet,
			},
			{
				Name:               "get",
				Usage:              "print the value of a cookie",
				UsageText:          "--domain D NAME",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags:              withDomain,
				Action:             cookiesGet,
			},
			{
				Name:               "delete",
				Aliases:            []string{"rm"},
				Usage:              "delete a cookie",
				UsageText:          "--domain D NAME",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags:              withDomain,
				Action:             cookiesDelete,
			},
			{
				Name:               "clear",
				Usage:              "delete the cookies of one domain, or all cookies",
				UsageText:          "[--domain D]",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags:              withDomain,
				Action:             cookiesClear,
			},
			{
				Name:               "header",
				Usage:              "print the Cookie header sent to a url",
				UsageText:          "URL",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags:              jarFlags,
				Action:             cookiesHeader,
			},
			{
				Name:               "cleanup",
				Usage:              "remove expired cookies",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags:              jarFlags,
				Action:             cookiesCleanup,
			},
			{
				Name:               "stats",
				Usage:              "print jar statistics",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags:              jarFlags,
				Action:             cookiesStats,
			},
			{
				Name:               "policy",
				Usage:              "apply a cookie policy to the jar",
				UsageText:          "[--accept-all|--block-third-party|--block-all]",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags: []cli.Flag{
					jarFlag,
					cli.BoolFlag{Name: "accept-all", Usage: "keep every cookie"},
					cli.BoolFlag{Name: "block-third-party", Usage: "drop third-party cookies"},
					cli.BoolFlag{Name: "block-all", Usage: "drop every cookie"},
				},
				Action: cookiesPolicy,
			},
			{
				Name:               "export",
				Usage:              "write the jar as a Netscape cookies.txt file",
				UsageText:          "--out FILE",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags: []cli.Flag{
					jarFlag,
					cli.StringFlag{Name: "out, o", Usage: "output file"},
				},
				Action: cookiesExport,
			},
			{
				Name:               "import",
				Usage:              "import cookies from a browser cookie store",
				UsageText:          "--from PATH [--domain D]",
				Description:        COOKIES_IMPORT_DESCRIPTION,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags: []cli.Flag{
					jarFlag,
					domainFlag,
					cli.StringFlag{Name: "from, f", Usage: "browser cookie store path"},
				},
				Action: cookiesImport,
			},
		},
	}
}

func privateCommand() cli.Command {
	return cli.Command{
		Name:               "private",
		Aliases:            []string{"p"},
		Usage:              "private session utilities",
		Description:        PRIVATE_DESCRIPTION,
		CustomHelpTemplate: SUBCMD_HELP_TEMPL,
		OnUsageError:       common.UsageErrorCallback,
		Subcommands: []cli.Command{
			{
				Name:               "check-url",
				Usage:              "report whether a url passes the private session screen",
				UsageText:          "URL",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             privateCheckURL,
			},
			{
				Name:               "sanitize",
				Usage:              "print the sanitized form of a download file name",
				UsageText:          "NAME",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             privateSanitize,
			},
			{
				Name:               "purge",
				Usage:              "securely erase leftover session scratch directories",
				UsageText:          "[--dir PARENT] [--label L] [--older-than D]",
				Description:        PURGE_DESCRIPTION,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags: []cli.Flag{
					dirFlag,
					labelFlag,
					cli.DurationFlag{Name: "older-than", Usage: "skip directories modified more recently than this"},
					cli.BoolFlag{Name: "quiet, q", Usage: "do not draw progress bars"},
				},
				Action: privatePurge,
			},
			{
				Name:               "selftest",
				Usage:              "run a throwaway private session end to end",
				UsageText:          "[--dir PARENT] [--label L] [--visits N]",
				Description:        SELFTEST_DESCRIPTION,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Flags: []cli.Flag{
					dirFlag,
					labelFlag,
					cli.IntFlag{Name: "visits", Value: 5, Usage: "decoy visits to generate"},
				},
				Action: privateSelftest,
			},
		},
	}
}
