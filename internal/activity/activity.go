// Package activity keeps an append-only CSV trail of every write made to the books.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Actor     string
	Action    string
	Kind      string
	RecordID  string
	Details   string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,actor,action,kind,record_id,details"

// Actions written by the books service.
const (
	ActionInit           = "init"
	ActionAdd            = "add"
	ActionDelete         = "delete"
	ActionImport         = "import"
	ActionSaveOpening    = "save_opening"
	ActionAddYear        = "add_year"
	ActionUpsertAccount  = "upsert_account"
	ActionAccountOpening = "account_opening"
)

const (
	numFields   = 6
	logDir      = "logs"
	logFile     = "logs/activity.csv"
	colTime     = 0
	colActor    = 1
	colAction   = 2
	colKind     = 3
	colRecordID = 4
	colDetails  = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colActor] = e.Actor
	row[colAction] = e.Action
	row[colKind] = e.Kind
	row[colRecordID] = e.RecordID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	return Entry{
		Timestamp: ts,
		Actor:     record[colActor],
		Action:    record[colAction],
		Kind:      record[colKind],
		RecordID:  record[colRecordID],
		Details:   record[colDetails],
	}, nil
}

// Log appends to <root>/logs/activity.csv.
type Log struct {
	Root  string
	Actor string
	Now   func() time.Time
}

// NewLog creates a Log rooted at root that stamps entries with actor.
func NewLog(root, actor string) *Log {
	return &Log{Root: root, Actor: actor, Now: time.Now}
}

// Record appends a single entry, filling in the timestamp and actor when unset.
func (l *Log) Record(e Entry) error {
	if e.Timestamp.IsZero() {
		now := time.Now
		if l.Now != nil {
			now = l.Now
		}
		e.Timestamp = now().UTC().Truncate(time.Second)
	}
	if e.Actor == "" {
		e.Actor = l.Actor
	}
	return Append(l.Root, []Entry{e})
}

// Entries reads the whole log.
func (l *Log) Entries() ([]Entry, error) {
	return Read(l.Root)
}

// Append writes entries to <root>/logs/activity.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/activity.csv, or nil when the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range rows[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
