package history

import (
	"database/sql"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Journal records every externally executed command together with where it
// ran, how long it took and how it exited. It complements Store, which only
// keeps command text.
type Journal struct {
	db        *gorm.DB
	sessionID string
}

type JournalEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	SessionID  string `gorm:"index"`
	Command    string
	Directory  string
	ExitCode   sql.NullInt32
	DurationMs int64
}

// OpenJournal opens (creating if needed) the journal database at dbFilePath.
// Each Journal value gets its own session id.
func OpenJournal(dbFilePath string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := db.AutoMigrate(&JournalEntry{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}

	return &Journal{
		db:        db,
		sessionID: uuid.NewString(),
	}, nil
}

func (j *Journal) SessionID() string {
	return j.sessionID
}

// StartCommand inserts a row for command before it runs.
func (j *Journal) StartCommand(command string, directory string) (*JournalEntry, error) {
	entry := JournalEntry{
		SessionID: j.sessionID,
		Command:   command,
		Directory: directory,
	}

	result := j.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// FinishCommand stores the exit code and duration of a started command.
func (j *Journal) FinishCommand(entry *JournalEntry, exitCode int, duration time.Duration) (*JournalEntry, error) {
	entry.ExitCode = sql.NullInt32{Int32: int32(exitCode), Valid: true}
	entry.DurationMs = duration.Milliseconds()

	result := j.db.Save(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// GetRecentEntries returns up to limit entries, oldest first. An empty
// directory matches every directory.
func (j *Journal) GetRecentEntries(directory string, limit int) ([]JournalEntry, error) {
	var entries []JournalEntry
	db := j.db
	if directory != "" {
		db = db.Where("directory = ?", directory)
	}
	result := db.Order("created_at desc").Order("id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	slices.Reverse(entries)
	return entries, nil
}

// Reset deletes every entry from every session.
func (j *Journal) Reset() error {
	return j.db.Exec("DELETE FROM journal_entries").Error
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PrintJournal lists entries with humanized start times, e.g.
//
//	   3  2 minutes ago   [0]    12ms  make test
func PrintJournal(w io.Writer, entries []JournalEntry, now time.Time) error {
	for _, entry := range entries {
		status := "[?]"
		if entry.ExitCode.Valid {
			status = fmt.Sprintf("[%d]", entry.ExitCode.Int32)
		}
		when := humanize.RelTime(entry.CreatedAt, now, "ago", "from now")
		duration := time.Duration(entry.DurationMs) * time.Millisecond
		if _, err := fmt.Fprintf(w, " %4d  %-15s %-5s %7s  %s\n", entry.ID, when, status, duration.String(), entry.Command); err != nil {
			return err
		}
	}
	return nil
}
