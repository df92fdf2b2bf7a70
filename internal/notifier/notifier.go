package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Notifier delivers a rendered message about a pair.
type Notifier interface {
	Notify(ctx context.Context, pair, text string) error
	Name() string
}

// StdoutNotifier prints messages. It is used when Telegram is not configured.
type StdoutNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStdoutNotifier creates a notifier writing to w, or os.Stdout when w is nil.
func NewStdoutNotifier(w io.Writer) *StdoutNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &StdoutNotifier{out: w}
}

func (s *StdoutNotifier) Name() string { return "stdout" }

func (s *StdoutNotifier) Notify(_ context.Context, pair, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out, "[%s]\n%s\n\n", pair, text)
	return err
}
