package incognito

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

const exportFileMode = 0600

// snapshot is the plaintext layout of an exported session. Every value in
// it is still individually encrypted; the whole document is then sealed
// once more.
type snapshot struct {
	History     []historyRecord           `json:"history"`
	Cookies     json.RawMessage           `json:"cookies"`
	Downloads   []downloadRecord          `json:"downloads"`
	SessionData map[string]EncryptedValue `json:"session_data"`
}

// ExportSessionData writes the four tables to path on the session
// filesystem, encrypted under the session key. Only this session can read
// the file back.
func (s *Session) ExportSessionData(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}

	cookies, err := s.cookies.Serialize()
	if err != nil {
		return fmt.Errorf("serialize session cookies: %w", err)
	}
	raw, err := json.Marshal(snapshot{
		History:     s.history,
		Cookies:     cookies,
		Downloads:   s.downloads,
		SessionData: s.data,
	})
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	blob, err := seal(s.key, raw)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, path, blob, exportFileMode); err != nil {
		return fmt.Errorf("write session export: %w", err)
	}
	s.log.Info("session %s: encrypted session data exported", s.id)
	return nil
}

// ImportSessionData replaces the session tables with those exported to
// path. A blob that does not decrypt under this session's key fails with a
// *CryptoError. State is only replaced once the whole blob has been
// decrypted and decoded.
func (s *Session) ImportSessionData(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}

	blob, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("read session export: %w", err)
	}
	raw, err := open(s.key, blob)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode session snapshot: %w", err)
	}
	cookies := s.newJar()
	if len(snap.Cookies) > 0 {
		if err := cookies.Deserialize(snap.Cookies); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.history = snap.History
	s.cookies = cookies
	s.downloads = snap.Downloads
	s.data = snap.SessionData
	if s.data == nil {
		s.data = make(map[string]EncryptedValue)
	}
	s.log.Info("session %s: session data imported", s.id)
	return nil
}
