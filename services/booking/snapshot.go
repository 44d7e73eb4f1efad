package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"domik/models"
)

const dateLayout = "2006-01-02"

type sessionSnapshot struct {
	ResourceID    uint   `json:"res_id"`
	CheckIn       string `json:"check_in,omitempty"`
	CheckOut      string `json:"check_out,omitempty"`
	CalendarYear  int    `json:"calendar_year"`
	CalendarMonth int    `json:"calendar_month"`
	Created       string `json:"created"`
}

// SaveStateFile writes every live session to path as JSON, keyed by
// user id. Called once during shutdown.
func (s *SessionStore) SaveStateFile(path string) error {
	snap := s.Snapshot()
	out := make(map[string]sessionSnapshot, len(snap))
	for id, sess := range snap {
		entry := sessionSnapshot{
			ResourceID:    sess.ResourceID,
			CalendarYear:  sess.CalendarYear,
			CalendarMonth: sess.CalendarMonth,
			Created:       sess.Created.UTC().Format(time.RFC3339),
		}
		if sess.CheckIn != nil {
			entry.CheckIn = sess.CheckIn.Format(dateLayout)
		}
		if sess.CheckOut != nil {
			entry.CheckOut = sess.CheckOut.Format(dateLayout)
		}
		out[strconv.FormatInt(id, 10)] = entry
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session state file: %w", err)
	}
	return nil
}

// LoadStateFile restores sessions saved by a previous shutdown and
// deletes the file so a later crash cannot resurrect stale state. A
// missing file is not an error.
func (s *SessionStore) LoadStateFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session state file: %w", err)
	}

	var raw map[string]sessionSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode session state file: %w", err)
	}

	restored := make(map[int64]models.BookingSession, len(raw))
	for key, entry := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("bad user id %q in session state file: %w", key, err)
		}
		sess := models.BookingSession{
			ResourceID:    entry.ResourceID,
			CalendarYear:  entry.CalendarYear,
			CalendarMonth: entry.CalendarMonth,
		}
		if entry.Created != "" {
			created, err := time.Parse(time.RFC3339, entry.Created)
			if err != nil {
				return fmt.Errorf("bad created time for user %s: %w", key, err)
			}
			sess.Created = created
		}
		if entry.CheckIn != "" {
			day, err := time.ParseInLocation(dateLayout, entry.CheckIn, time.UTC)
			if err != nil {
				return fmt.Errorf("bad check-in for user %s: %w", key, err)
			}
			sess.CheckIn = &day
		}
		if entry.CheckOut != "" {
			day, err := time.ParseInLocation(dateLayout, entry.CheckOut, time.UTC)
			if err != nil {
				return fmt.Errorf("bad check-out for user %s: %w", key, err)
			}
			sess.CheckOut = &day
		}
		restored[id] = sess
	}

	s.Restore(restored)

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove consumed session state file: %w", err)
	}
	return nil
}
