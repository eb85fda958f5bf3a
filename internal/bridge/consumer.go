package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/enrollmate/enrollmate/internal/logger"
	"github.com/enrollmate/enrollmate/internal/storage"
)

// DefaultConsumerURL is the page that receives the extracted courses.
const DefaultConsumerURL = "https://enroll-mate.vercel.app/home#from-extension"

// LocalStateFile is the consumer's local state file name.
const LocalStateFile = "localstate.json"

// ErrNotOpen is returned when a batch is transferred before Open.
var ErrNotOpen = errors.New("consumer not open")

// Consumer is the app that receives a stored batch.
type Consumer interface {
	// Open makes the consumer page available at url.
	Open(url string) error
	// Transfer copies the batch into the consumer's local state.
	Transfer(batch *storage.Batch) error
}

// LocalStateConsumer keeps the consumer's local state as a key/value file.
// Values are stored as strings, the way browser local storage holds them.
type LocalStateConsumer struct {
	dir    string
	opened string
}

// NewLocalStateConsumer creates a consumer writing below dir.
func NewLocalStateConsumer(dir string) *LocalStateConsumer {
	return &LocalStateConsumer{dir: dir}
}

// Open records the consumer URL.
func (c *LocalStateConsumer) Open(url string) error {
	if url == "" {
		return errors.New("consumer url is empty")
	}
	c.opened = url
	logger.Info("Opened consumer", logger.Fields{"url": url})
	return nil
}

// Transfer writes the batch into the consumer's local state.
func (c *LocalStateConsumer) Transfer(batch *storage.Batch) error {
	if c.opened == "" {
		return ErrNotOpen
	}

	state, err := storage.NewFile(c.dir, LocalStateFile)
	if err != nil {
		return fmt.Errorf("opening local state: %w", err)
	}

	courses, err := json.Marshal(batch.Courses)
	if err != nil {
		return fmt.Errorf("encoding courses: %w", err)
	}
	if err := state.Set(map[string]interface{}{
		storage.CoursesKey:   string(courses),
		storage.TimestampKey: batch.Timestamp,
	}); err != nil {
		return fmt.Errorf("writing local state: %w", err)
	}

	logger.Info("Transferred courses to consumer", logger.Fields{
		"count": len(batch.Courses),
		"path":  state.Path(),
	})
	return nil
}

// DryRunConsumer prints what would be handed to the consumer
type DryRunConsumer struct {
	w io.Writer
}

// NewDryRunConsumer creates a dry-run consumer writing to w.
func NewDryRunConsumer(w io.Writer) *DryRunConsumer {
	return &DryRunConsumer{w: w}
}

// Open prints the URL that would be opened
func (c *DryRunConsumer) Open(url string) error {
	fmt.Fprintf(c.w, "--- Open %s ---\n", url)
	return nil
}

// Transfer prints the batch that would be transferred
func (c *DryRunConsumer) Transfer(batch *storage.Batch) error {
	fmt.Fprintf(c.w, "Would transfer %d courses (stored %s)\n", len(batch.Courses), batch.Timestamp)
	for i, rec := range batch.Courses {
		fmt.Fprintf(c.w, "  %d. %s\n", i+1, rec.String())
	}
	return nil
}
