package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"wargame/game"
)

// JournalRecord is one delta of a journaled change, flattened for CSV.
type JournalRecord struct {
	Seq    int
	Log    string
	Delta  game.Delta
	HasRow bool // false for a change without deltas
}

type Writer struct {
	baseDir string
}

func NewWriter(baseDir string) (*Writer, error) {
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

// Records flattens changes into one record per delta.
func Records(changes []game.Change) []JournalRecord {
	records := []JournalRecord{}
	for i, c := range changes {
		if len(c.Deltas) == 0 {
			records = append(records, JournalRecord{Seq: i + 1, Log: c.Log})
			continue
		}
		for _, d := range c.Deltas {
			records = append(records, JournalRecord{Seq: i + 1, Log: c.Log, Delta: d, HasRow: true})
		}
	}
	return records
}

func (w *Writer) WriteJournal(name string, changes []game.Change) (string, error) {
	// Create a file
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create journal file: %w", err)
	}
	defer f.Close()

	if err := WriteJournalCSV(f, changes); err != nil {
		return "", err
	}
	return path, nil
}

func WriteJournalCSV(out io.Writer, changes []game.Change) error {
	writer := csv.NewWriter(out)

	// Write header
	header := []string{"seq", "log", "kind", "piece", "key", "before", "after", "from_x", "from_y", "to_x", "to_y"}
	err := writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write journal header: %w", err)
	}

	// Write each row
	for _, record := range Records(changes) {
		row := []string{strconv.Itoa(record.Seq), record.Log, "", "", "", "", "", "", "", "", ""}
		if record.HasRow {
			d := record.Delta
			row = []string{
				strconv.Itoa(record.Seq),
				record.Log,
				kindName(d.Kind),
				d.PieceID,
				d.Key,
				d.Before,
				d.After,
				strconv.Itoa(d.From.X),
				strconv.Itoa(d.From.Y),
				strconv.Itoa(d.To.X),
				strconv.Itoa(d.To.Y),
			}
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write journal row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func kindName(k game.DeltaKind) string {
	switch k {
	case game.DeltaState:
		return "state"
	case game.DeltaMove:
		return "move"
	case game.DeltaProperty:
		return "property"
	case game.DeltaRemove:
		return "remove"
	case game.DeltaRestore:
		return "restore"
	default:
		return "unknown"
	}
}
