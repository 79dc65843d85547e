package host

import (
	"bytes"
	"context"
	"log"
	"sync"
	"time"

	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/storage"
)

// Dispatcher runs print jobs in the background. Trigger never blocks the
// caller and never reports back; failures are logged.
type Dispatcher struct {
	Printer Printer
	Store   storage.Store
	Logger  *log.Logger
	Timeout time.Duration
	// OnStored is called after a document was stored
	OnStored func(*storage.Object)

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher with a two minute job timeout
func NewDispatcher(p Printer, s storage.Store, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{Printer: p, Store: s, Logger: logger, Timeout: 2 * time.Minute}
}

// Trigger prints html on the medium of g and stores the result
func (d *Dispatcher) Trigger(html string, g geometry.Geometry) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(html, g)
	}()
}

// Wait blocks until every triggered job has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(html string, g geometry.Geometry) {
	ctx := context.Background()
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	data, err := d.Printer.Print(ctx, html, g)
	if err != nil {
		d.Logger.Printf("print failed: %v", err)
		return
	}

	if d.Store == nil {
		d.Logger.Printf("printed %d bytes, no store configured", len(data))
		return
	}

	obj, err := d.Store.Put(ctx, storage.PrintKey(), bytes.NewReader(data), "application/pdf", int64(len(data)))
	if err != nil {
		d.Logger.Printf("failed to store printed document: %v", err)
		return
	}

	d.Logger.Printf("printed document stored at %s (%d bytes)", obj.Key, obj.Size)
	if d.OnStored != nil {
		d.OnStored(obj)
	}
}
