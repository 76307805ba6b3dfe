package incognito

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/TypeDummying/AIuminum/pkg/jar"
)

// AddToHistory records a visit to url.
func (s *Session) AddToHistory(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	ct, err := seal(s.key, []byte(url))
	if err != nil {
		return err
	}
	s.history = append(s.history, historyRecord{Time: s.now(), URL: ct})
	return nil
}

// History returns the decrypted history in visit order.
func (s *Session) History() ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, ErrSessionEnded
	}
	out := make([]HistoryEntry, 0, len(s.history))
	for _, h := range s.history {
		u, err := open(s.key, h.URL)
		if err != nil {
			return nil, err
		}
		out = append(out, HistoryEntry{Time: h.Time, URL: string(u)})
	}
	return out, nil
}

func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.log.Info("session %s: history cleared", s.id)
}

// SetCookie stores an encrypted cookie. The session jar applies the usual
// size and count limits and returns jar.ErrCookieRejected past them.
func (s *Session) SetCookie(domain, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	return s.cookies.SetCookie(name, value, domain, nil)
}

// GetCookie returns the decrypted cookie value. A missing cookie is
// reported absent without any decryption.
func (s *Session) GetCookie(domain, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return "", false, ErrSessionEnded
	}
	return s.cookies.GetCookie(name, domain)
}

// HandleSetCookieHeader stores a Set-Cookie header received from domain.
func (s *Session) HandleSetCookieHeader(header, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	return s.cookies.HandleSetCookieHeader(header, domain)
}

// CookieHeaderFor builds the Cookie request header for rawURL.
func (s *Session) CookieHeaderFor(rawURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return "", ErrSessionEnded
	}
	return s.cookies.CookieHeaderFor(rawURL)
}

func (s *Session) ClearCookies() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies.ClearCookies("")
}

// AddDownload records a finished download of url saved at path.
func (s *Session) AddDownload(url, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	u, err := seal(s.key, []byte(url))
	if err != nil {
		return err
	}
	p, err := seal(s.key, []byte(path))
	if err != nil {
		return err
	}
	s.downloads = append(s.downloads, downloadRecord{URL: u, Path: p})
	return nil
}

// Downloads returns the decrypted download records in order.
func (s *Session) Downloads() ([]Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, ErrSessionEnded
	}
	out := make([]Download, 0, len(s.downloads))
	for _, d := range s.downloads {
		u, err := open(s.key, d.URL)
		if err != nil {
			return nil, err
		}
		p, err := open(s.key, d.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, Download{URL: string(u), Path: string(p)})
	}
	return out, nil
}

// ClearDownloads deletes every downloaded file and then the records. All
// paths are decrypted first; if any fails the *CryptoError is returned and
// nothing is removed. A file that cannot be removed is logged and the rest
// are still processed.
func (s *Session) ClearDownloads() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	paths := make([]string, 0, len(s.downloads))
	for _, d := range s.downloads {
		p, err := open(s.key, d.Path)
		if err != nil {
			return err
		}
		paths = append(paths, string(p))
	}
	for i, p := range paths {
		if err := s.fs.Remove(p); err != nil && !os.IsNotExist(err) {
			s.log.Warning("session %s: could not remove download %d: %v", s.id, i, withoutPath(err))
		}
	}
	s.downloads = nil
	s.log.Info("session %s: downloads cleared", s.id)
	return nil
}

// SetSessionData stores v, encoded as JSON, under key.
func (s *Session) SetSessionData(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session data %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	ct, err := seal(s.key, raw)
	if err != nil {
		return err
	}
	s.data[key] = ct
	return nil
}

// GetSessionData decodes the value stored under key into out. It reports
// false, without decrypting anything, when key is absent.
func (s *Session) GetSessionData(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return false, ErrSessionEnded
	}
	ct, ok := s.data[key]
	if !ok {
		return false, nil
	}
	raw, err := open(s.key, ct)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode session data %q: %w", key, err)
	}
	return true, nil
}

func (s *Session) ClearSessionData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]EncryptedValue)
	s.log.Info("session %s: session data cleared", s.id)
}

// CookieStats summarises the session cookie jar.
func (s *Session) CookieStats() jar.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookies.Stats()
}
