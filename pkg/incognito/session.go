package incognito

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/TypeDummying/AIuminum/pkg/credman/encryption"
	"github.com/TypeDummying/AIuminum/pkg/jar"
	"github.com/TypeDummying/AIuminum/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DefaultLabel names sessions created without a label.
const DefaultLabel = "Aluminum"

// Options configures a Session. A nil *Options selects every default.
type Options struct {
	// Fs holds the scratch directory. Defaults to the OS filesystem.
	Fs afero.Fs
	// TempDir is the parent of the scratch directory. Defaults to the
	// system temp directory.
	TempDir string
	Logger  logger.Logger
	Now     func() time.Time
	// Erase receives progress from the scratch wipe in EndSession.
	Erase *EraseHandlers
	// Jar overrides the limits of the session cookie jar. Codec, Logger
	// and Now are always taken from the session.
	Jar *jar.Options
}

// HistoryEntry is a decrypted history record.
type HistoryEntry struct {
	Time time.Time
	URL  string
}

// Download is a decrypted download record.
type Download struct {
	URL  string
	Path string
}

type historyRecord struct {
	Time time.Time      `json:"time"`
	URL  EncryptedValue `json:"url"`
}

type downloadRecord struct {
	URL  EncryptedValue `json:"url"`
	Path EncryptedValue `json:"path"`
}

// Session is a private browsing session. All methods are safe for
// concurrent use. The session lock is always taken before the lock of its
// cookie jar.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	label     string
	fs        afero.Fs
	scratch   string
	key       []byte
	unlockKey func()
	createdAt time.Time
	endedAt   time.Time
	ended     bool

	history   []historyRecord
	cookies   *jar.Jar
	jarOpts   jar.Options
	downloads []downloadRecord
	data      map[string]EncryptedValue

	now   func() time.Time
	log   logger.Logger
	erase *EraseHandlers
}

// New starts a session: it creates an exclusive scratch directory named
// after label and derives a fresh session key.
func New(label string, opts *Options) (*Session, error) {
	if opts == nil {
		opts = &Options{}
	}
	if label == "" {
		label = DefaultLabel
	}
	s := &Session{
		id:    uuid.New(),
		label: label,
		fs:    opts.Fs,
		now:   opts.Now,
		log:   logger.OrNop(opts.Logger),
		erase: opts.Erase,
		data:  make(map[string]EncryptedValue),
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Jar != nil {
		s.jarOpts = *opts.Jar
	}
	parent := opts.TempDir
	if parent == "" {
		parent = os.TempDir()
	}
	if err := s.fs.MkdirAll(parent, 0700); err != nil {
		return nil, fmt.Errorf("create scratch parent: %w", err)
	}
	scratch, err := afero.TempDir(s.fs, parent, scratchPrefix(label))
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	s.scratch = scratch

	key, err := newSessionKey()
	if err != nil {
		s.fs.RemoveAll(scratch)
		return nil, &CryptoError{Op: "derive key", Err: err}
	}
	s.key = key
	var locked bool
	s.unlockKey, locked = lockMemory(s.key)
	if !locked {
		s.log.Debug("session %s: key memory could not be locked", s.id)
	}
	s.cookies = s.newJar()
	s.createdAt = s.now()
	s.log.Info("private session %s started", s.id)
	return s, nil
}

// scratchPrefix builds the scratch directory prefix. Path separators in the
// label are replaced so the directory stays directly under its parent.
func scratchPrefix(label string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(label) + "_incognito_"
}

// ScratchGlob returns the filepath.Match pattern matching the scratch
// directory names of sessions created with label.
func ScratchGlob(label string) string {
	if label == "" {
		label = DefaultLabel
	}
	return scratchPrefix(label) + "*"
}

func (s *Session) newJar() *jar.Jar {
	o := s.jarOpts
	o.Codec = sealCodec{s: s}
	o.Logger = s.log
	o.Now = s.now
	return jar.New(&o)
}

func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) Label() string {
	return s.label
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Duration is the time since the session started, or its total length once
// ended.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return s.endedAt.Sub(s.createdAt)
	}
	return s.now().Sub(s.createdAt)
}

// ScratchDir returns the session's scratch directory, for files that must
// not outlive the session. It is empty after EndSession.
func (s *Session) ScratchDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ""
	}
	return s.scratch
}

// Fs returns the filesystem holding the scratch directory.
func (s *Session) Fs() afero.Fs {
	return s.fs
}

// Ended reports whether EndSession has run.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// EndSession clears every table, removes downloaded files, securely erases
// the scratch directory and zeroes the key. Filesystem failures are logged,
// not returned. When ctx is canceled the remaining overwrites are skipped
// but the directory is still removed and ctx.Err() is returned. Calling
// EndSession again is a no-op.
func (s *Session) EndSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil
	}

	s.history = nil
	s.cookies.ClearCookies("")
	if n := s.removeDownloadFiles(); n > 0 {
		s.log.Warning("session %s: %d downloaded files could not be removed", s.id, n)
	}
	s.downloads = nil
	s.data = make(map[string]EncryptedValue)

	if err := SecureErase(ctx, s.fs, s.scratch, s.erase); err != nil && ctx.Err() == nil {
		s.log.Warning("session %s: scratch erase incomplete: %d problems", s.id, countErrors(err))
	}

	encryption.Zero(s.key)
	s.unlockKey()
	s.key = nil
	s.scratch = ""
	s.ended = true
	s.endedAt = s.now()
	s.log.Info("private session %s ended and all data cleared", s.id)
	return ctx.Err()
}

// removeDownloadFiles deletes every recorded download whose path still
// decrypts, skipping files that are already gone. It returns the number of
// failures.
func (s *Session) removeDownloadFiles() int {
	failed := 0
	for _, d := range s.downloads {
		p, err := open(s.key, d.Path)
		if err != nil {
			failed++
			continue
		}
		if err := s.fs.Remove(string(p)); err != nil && !os.IsNotExist(err) {
			failed++
		}
	}
	return failed
}

// Report summarises the session. It never includes the scratch directory.
func (s *Session) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	end := s.now()
	if s.ended {
		end = s.endedAt
	}
	lines := []string{
		fmt.Sprintf("=== %s Incognito Session Report ===", s.label),
		fmt.Sprintf("Session ID: %s", s.id),
		fmt.Sprintf("Session Start: %s", s.createdAt.Format(time.RFC3339)),
		fmt.Sprintf("Session Duration: %s", end.Sub(s.createdAt).Round(time.Second)),
		fmt.Sprintf("Number of Visited Sites: %d", len(s.history)),
		fmt.Sprintf("Number of Cookies: %d", s.cookies.Len()),
		fmt.Sprintf("Number of Downloads: %d", len(s.downloads)),
		"==========================================",
	}
	return strings.Join(lines, "\n")
}
