package cmd

const (
	DESCRIPTION = `
Aluminum keeps a browser cookie jar encrypted at rest and provides
the tooling around private browsing sessions: url screening, download
name sanitizing and secure removal of leftover session scratch data.
`
	COOKIES_DESCRIPTION = `The cookies command manages the persistent cookie jar.

The jar file is encrypted with a key taken from $ALUMINUM_COOKIE_KEY
(hex), the OS keyring, or a key file in the config directory, in that
order. A new key is generated and stored when none exists.
`
	COOKIES_SET_DESCRIPTION = `Stores the cookie described by a Set-Cookie header value
for the domain given with --domain.

Example:
        aluminum cookies set --domain example.com "sid=abc; Path=/; Max-Age=3600"
`
	COOKIES_IMPORT_DESCRIPTION = `Imports cookies from a browser cookie store. Firefox and
Chrome SQLite databases and Netscape cookies.txt files are recognised.
The browser's database is copied aside first and never modified.

Example:
        aluminum cookies import --from ~/.mozilla/firefox/x.default/cookies.sqlite --domain example.com
`
	PRIVATE_DESCRIPTION = `The private command holds the private session utilities.
`
	PURGE_DESCRIPTION = `Overwrites and removes scratch directories left behind by
private sessions that did not end cleanly.

Only directories named <label>_incognito_* directly inside the scratch
parent are touched. A session still running in another process matches
the same pattern and would be wiped; stop running sessions first, or use
--older-than to skip recently modified directories.
`
	SELFTEST_DESCRIPTION = `Runs a throwaway private session end to end: values are
encrypted, decoy activity is generated, the session is exported and
imported again, and the scratch directory is securely erased.
`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const SUBCMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} command [command options]

Commands:{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}

`
