package events

import (
	"encoding/json"
	"io"
	"time"
)

// Event types emitted during an export or validation run.
const (
	TypeExportStart    = "export-start"
	TypeRuleParsed     = "rule-parsed"
	TypeCellTruncated  = "cell-truncated"
	TypeReportWritten  = "report-written"
	TypeSummaryWritten = "summary-written"
	TypeExportFinished = "export-finished"
)

// Event represents a single NDJSON progress record.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Message   string                 `json:"message,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Emitter writes NDJSON events to an io.Writer. Runs are sequential, so it
// does no locking of its own.
type Emitter struct {
	writer io.Writer
	clock  func() time.Time
}

// NewEmitter returns a new NDJSON emitter. A nil writer discards events.
func NewEmitter(w io.Writer) *Emitter {
	if w == nil {
		w = io.Discard
	}
	return &Emitter{writer: w, clock: func() time.Time { return time.Now().UTC() }}
}

// Emit serializes the event to JSON and appends a newline.
func (e *Emitter) Emit(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.clock()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	_, err = e.writer.Write(append(payload, '\n'))
	return err
}

// RuleParsed records one normalized rule.
func (e *Emitter) RuleParsed(path, name string) error {
	return e.Emit(Event{Type: TypeRuleParsed, Fields: map[string]interface{}{"path": path, "name": name}})
}
