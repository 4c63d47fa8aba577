// Package chat persists conversation transcripts across runs. Each session
// is one JSON file; the newest sessions win when the store is pruned.
package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dongnecli/dongne/internal/config"
	"github.com/dongnecli/dongne/internal/log"
	"github.com/dongnecli/dongne/internal/session"
)

const (
	DefaultMaxSessions = 100
	sessionDir         = "chat/sessions"
	currentSessionFile = "chat/current.json"
)

// Session is one persisted transcript.
type Session struct {
	ID        string            `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []session.Message `json:"messages"`
}

// Store reads and writes sessions under the config directory.
type Store struct {
	baseDir     string
	maxSessions int
	saveEnabled bool
	currentID   string
}

// NewStore builds a store rooted in the config directory.
func NewStore(maxSessions int, saveEnabled bool) (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(dir, maxSessions, saveEnabled), nil
}

// NewStoreAt roots the store at an explicit directory, for tests.
func NewStoreAt(dir string, maxSessions int, saveEnabled bool) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Store{
		baseDir:     dir,
		maxSessions: maxSessions,
		saveEnabled: saveEnabled,
	}
}

func (s *Store) sessionsDir() string {
	return filepath.Join(s.baseDir, sessionDir)
}

func (s *Store) currentPath() string {
	return filepath.Join(s.baseDir, currentSessionFile)
}

// NewSession starts a fresh transcript and makes it current.
func (s *Store) NewSession() *Session {
	now := time.Now()
	sess := &Session{
		ID:        generateSessionID(now),
		StartedAt: now,
		UpdatedAt: now,
		Messages:  []session.Message{},
	}
	s.currentID = sess.ID
	return sess
}

// CurrentSession loads the most recently used session, or nil when none
// exists yet.
func (s *Store) CurrentSession() (*Session, error) {
	if s.currentID == "" {
		data, err := os.ReadFile(s.currentPath())
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}

		var current struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &current); err != nil {
			log.Warn("discarding corrupt current-session pointer", "error", err)
			return nil, nil
		}
		s.currentID = current.ID
	}

	if s.currentID == "" {
		return nil, nil
	}
	return s.LoadSession(s.currentID)
}

// LoadSession reads one session by id.
func (s *Store) LoadSession(id string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(s.sessionsDir(), id+".json"))
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Append adds a message to the session and persists it. The first message of
// a session triggers a prune check so the store stays bounded.
func (s *Store) Append(sess *Session, msg session.Message) error {
	sess.Messages = append(sess.Messages, msg)
	if err := s.save(sess); err != nil {
		return err
	}

	if len(sess.Messages) == 1 {
		if err := s.pruneOldSessions(); err != nil {
			log.Debug("failed to prune old chat sessions", "error", err)
		}
	}
	return nil
}

// Save persists the session as-is, bumping its update time.
func (s *Store) Save(sess *Session) error {
	return s.save(sess)
}

// ListSessions returns every stored session, newest first.
func (s *Store) ListSessions() ([]Session, error) {
	entries, err := os.ReadDir(s.sessionsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-5]
		sess, err := s.LoadSession(id)
		if err != nil {
			log.Debug("failed to load chat session", "id", id, "error", err)
			continue
		}
		sessions = append(sessions, *sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (s *Store) save(sess *Session) error {
	if !s.saveEnabled {
		return nil
	}
	sess.UpdatedAt = time.Now()

	dir := s.sessionsDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, sess.ID+".json"), data, 0600); err != nil {
		return err
	}
	return s.saveCurrentID(sess.ID)
}

func (s *Store) saveCurrentID(id string) error {
	path := s.currentPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, _ := json.Marshal(struct {
		ID string `json:"id"`
	}{ID: id})
	return os.WriteFile(path, data, 0600)
}

func (s *Store) pruneOldSessions() error {
	dir := s.sessionsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	type sessionFile struct {
		name    string
		modTime time.Time
	}
	var files []sessionFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, sessionFile{name: entry.Name(), modTime: info.ModTime()})
	}

	if len(files) <= s.maxSessions {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	for i := 0; i < len(files)-s.maxSessions; i++ {
		_ = os.Remove(filepath.Join(dir, files[i].name))
	}
	return nil
}

func generateSessionID(now time.Time) string {
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), uuid.New().String()[:8])
}
