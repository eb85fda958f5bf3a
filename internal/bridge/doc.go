// Package bridge connects an extraction run to the consumer app.
//
// It models the two message handlers of the enrollment helper. The content
// side owns a page: on START_EXTRACTION it runs the extractor, stores the
// records and forwards them with OPEN_REACT_APP. The background side accepts
// OPEN_REACT_APP, stores the batch again, opens the consumer and transfers
// the stored batch into the consumer's local state. EXTRACT_COURSES is
// relayed to the active page as START_EXTRACTION.
//
// Triggers are only accepted for allow-listed page URLs.
package bridge
