// Package reminder nags owners about upcoming confirmed appointments.
// A Ledger keyed by appointment+date deduplicates sends; it is passed in
// explicitly so the checker never touches ambient global state.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/model"
)

const keyPrefix = "reminder:"

// Ledger records which reminder keys were already sent.
type Ledger interface {
	HasSent(ctx context.Context, key string) (bool, error)
	MarkSent(ctx context.Context, key string) error
	// ClearBefore drops entries for dates before the cutoff. Maintenance
	// only; correctness never depends on it.
	ClearBefore(ctx context.Context, cutoff model.CalendarDate) error
}

// Key builds the dedup key for one appointment on its date. The date is
// embedded so ClearBefore can expire old entries by inspection.
func Key(appointmentID uuid.UUID, date model.CalendarDate) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, date, appointmentID)
}

func dateFromKey(key string) (model.CalendarDate, bool) {
	rest, found := strings.CutPrefix(key, keyPrefix)
	if !found {
		return model.CalendarDate{}, false
	}
	datePart, _, found := strings.Cut(rest, ":")
	if !found {
		return model.CalendarDate{}, false
	}
	date, err := model.ParseCalendarDate(datePart)
	if err != nil {
		return model.CalendarDate{}, false
	}
	return date, true
}

// MemoryLedger is the in-process fallback used when Redis is not
// configured, and in tests. Entries survive only as long as the process.
type MemoryLedger struct {
	mu   sync.Mutex
	sent map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{sent: make(map[string]struct{})}
}

func (l *MemoryLedger) HasSent(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.sent[key]
	return ok, nil
}

func (l *MemoryLedger) MarkSent(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent[key] = struct{}{}
	return nil
}

func (l *MemoryLedger) ClearBefore(_ context.Context, cutoff model.CalendarDate) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.sent {
		if date, ok := dateFromKey(key); ok && date.Before(cutoff) {
			delete(l.sent, key)
		}
	}
	return nil
}

var _ Ledger = (*MemoryLedger)(nil)
