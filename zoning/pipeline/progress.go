package pipeline

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// ProgressEmitter receives batch progress events. Implementations must be
// safe for concurrent use; workers report progress as they finish rows.
type ProgressEmitter interface {
	// EmitStage announces a pipeline stage transition.
	EmitStage(stage, message string)

	// EmitProgress reports done out of total rows.
	EmitProgress(done, total int)

	// EmitComplete reports batch completion with summary data.
	EmitComplete(summary map[string]interface{})

	// EmitError reports a non-fatal error in a stage.
	EmitError(stage string, err error)
}

// CLIEmitter renders progress to the terminal with pterm.
type CLIEmitter struct {
	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

// NewCLIEmitter creates a terminal progress emitter.
func NewCLIEmitter() *CLIEmitter {
	return &CLIEmitter{}
}

// EmitStage prints a stage announcement.
func (e *CLIEmitter) EmitStage(stage, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pterm.Printf("%s %s\n", pterm.LightCyan(stage+":"), message)
}

// EmitProgress advances a progress bar, creating it on first use.
func (e *CLIEmitter) EmitProgress(done, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bar == nil {
		bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle("parcels").Start()
		if err != nil {
			return
		}
		e.bar = bar
	}
	e.bar.Increment()
}

// EmitComplete stops the bar and prints the summary.
func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bar != nil {
		_, _ = e.bar.Stop()
		e.bar = nil
	}
	pterm.Success.Println("analysis complete")
	for key, value := range summary {
		pterm.Printf("  %s: %v\n", key, value)
	}
}

// EmitError prints a stage error.
func (e *CLIEmitter) EmitError(stage string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pterm.Error.Printf("error in %s: %v\n", stage, err)
}

// ProgressEvent is one line of JSON progress output.
type ProgressEvent struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// JSONEmitter writes progress as JSON lines, for driving ozfs from other
// programs.
type JSONEmitter struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONEmitter creates a JSON-lines progress emitter on stdout.
func NewJSONEmitter() *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(os.Stdout)}
}

func (e *JSONEmitter) emit(typ string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.encoder.Encode(ProgressEvent{Type: typ, Timestamp: time.Now(), Data: data})
}

// EmitStage emits a stage event.
func (e *JSONEmitter) EmitStage(stage, message string) {
	e.emit("stage", map[string]interface{}{"stage": stage, "message": message})
}

// EmitProgress emits a progress event.
func (e *JSONEmitter) EmitProgress(done, total int) {
	e.emit("progress", map[string]interface{}{"done": done, "total": total})
}

// EmitComplete emits a completion event.
func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

// EmitError emits an error event.
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{"stage": stage, "error": err.Error()})
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) EmitStage(string, string)            {}
func (NopEmitter) EmitProgress(int, int)               {}
func (NopEmitter) EmitComplete(map[string]interface{}) {}
func (NopEmitter) EmitError(string, error)             {}
