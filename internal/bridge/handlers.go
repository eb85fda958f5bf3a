package bridge

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/enrollmate/enrollmate/internal/course"
	"github.com/enrollmate/enrollmate/internal/extractor"
	"github.com/enrollmate/enrollmate/internal/logger"
	"github.com/enrollmate/enrollmate/internal/storage"
)

// Store persists a batch of records.
type Store interface {
	SaveCourses(records []course.Record) (*storage.Batch, error)
}

// Page is a content handler bound to one page.
type Page interface {
	Handler
	URL() string
}

// Content handles START_EXTRACTION for a single page.
type Content struct {
	url        string
	root       *goquery.Selection
	extractor  *extractor.Extractor
	store      Store
	background Handler
}

// NewContent creates the content handler for the page at url. background
// receives OPEN_REACT_APP after a successful run and may be nil.
func NewContent(url string, root *goquery.Selection, ex *extractor.Extractor, store Store, background Handler) *Content {
	if IsEnrollmentPage(url) {
		logger.Debug("Detected enrollment page, ready for extraction", logger.Fields{"url": url})
	}
	return &Content{
		url:        url,
		root:       root,
		extractor:  ex,
		store:      store,
		background: background,
	}
}

// URL returns the page URL.
func (c *Content) URL() string {
	return c.url
}

// Handle runs an extraction on START_EXTRACTION.
func (c *Content) Handle(msg Message) Response {
	if msg.Type != StartExtraction {
		return failed(fmt.Sprintf("unsupported message type: %s", msg.Type))
	}

	result := c.extractor.Extract(c.root)
	if !result.Success {
		return fromResult(result)
	}

	if _, err := c.store.SaveCourses(result.Courses); err != nil {
		logger.Error("Failed to store courses", nil, err)
		return failed(fmt.Sprintf("storage failed: %v", err))
	}

	// The handoff outcome does not change the extraction result.
	if c.background != nil {
		resp := c.background.Handle(Message{Type: OpenConsumer, Data: result.Courses})
		if !resp.Success {
			logger.Warn("Handoff to background failed", logger.Fields{"error": resp.Error})
		}
	}

	return fromResult(result)
}

// Background receives finished batches and hands them to the consumer.
type Background struct {
	store       Store
	consumer    Consumer
	consumerURL string
	allow       AllowList
	page        Page
}

// NewBackground creates the background handler.
func NewBackground(store Store, consumer Consumer, consumerURL string, allow AllowList) *Background {
	if consumerURL == "" {
		consumerURL = DefaultConsumerURL
	}
	return &Background{
		store:       store,
		consumer:    consumer,
		consumerURL: consumerURL,
		allow:       allow,
	}
}

// Attach sets the active page.
func (b *Background) Attach(page Page) {
	b.page = page
}

// Handle answers OPEN_REACT_APP and EXTRACT_COURSES.
func (b *Background) Handle(msg Message) Response {
	switch msg.Type {
	case OpenConsumer:
		return b.open(msg.Data)
	case ExtractCourses:
		if b.page == nil {
			return failed("no active page")
		}
		return b.page.Handle(Message{Type: StartExtraction})
	default:
		return failed(fmt.Sprintf("unsupported message type: %s", msg.Type))
	}
}

func (b *Background) open(records []course.Record) Response {
	if len(records) == 0 {
		logger.Warn("No course data received", nil)
		return failed("no course data")
	}

	batch, err := b.store.SaveCourses(records)
	if err != nil {
		logger.Error("Failed to store courses", nil, err)
		return failed(fmt.Sprintf("storage failed: %v", err))
	}

	if err := b.consumer.Open(b.consumerURL); err != nil {
		logger.Error("Failed to open consumer", logger.Fields{"url": b.consumerURL}, err)
		return failed(err.Error())
	}

	if err := b.consumer.Transfer(batch); err != nil {
		logger.Error("Failed to transfer courses", nil, err)
		return failed(fmt.Sprintf("transfer failed: %v", err))
	}

	logger.IncrCounter("bridge.handoffs")
	return Response{Success: true, Count: len(records)}
}

// Trigger starts an extraction on the active page if its URL is allowed.
func (b *Background) Trigger() Response {
	if b.page == nil {
		return failed("content handler not loaded, refresh the page and try again")
	}
	if !b.allow.Allows(b.page.URL()) {
		logger.Warn("Extraction only works on the enrollment portal or a local test site", logger.Fields{
			"url": b.page.URL(),
		})
		return failed(NavigationHint)
	}

	logger.Info("Triggering course extraction", logger.Fields{"url": b.page.URL()})
	return b.page.Handle(Message{Type: StartExtraction})
}
