// Package inbox watches a directory for coaching replies saved as files.
// Each new reply is added to a chat as an assistant message and upvoted,
// so its plan lands on the todo list without a client.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
	"github.com/custodia-labs/habitplan/internal/logger"
)

var (
	// ErrNoDir is returned when no inbox directory is configured.
	ErrNoDir = errors.New("inbox: directory is required")

	// ErrMissingService is returned when the message or vote service is nil.
	ErrMissingService = errors.New("inbox: message and vote services are required")
)

// supportedExtensions lists the file types read as replies.
var supportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Config configures a Watcher.
type Config struct {
	// Dir is the watched directory.
	Dir string

	// ChatID receives every reply. Empty starts a new chat per file.
	ChatID string

	// UserID owns the chats and votes.
	UserID string

	// Rate caps the files ingested per second.
	Rate float64

	// Debounce is the quiet period a file needs after its last create or
	// write event before Run ingests it. Zero means DefaultDebounce.
	Debounce time.Duration
}

// Result describes one ingested file.
type Result struct {
	Path    string
	Message *domain.Message
	Upvote  *domain.UpvoteResult
}

// Watcher ingests reply files from a directory.
type Watcher struct {
	cfg      Config
	messages driving.MessageService
	votes    driving.VoteService
	limiter  *rate.Limiter

	// OnIngest, when set, is called after every ingested file.
	OnIngest func(Result)

	mu   sync.Mutex
	seen map[string]uint64
}

// New creates a watcher.
func New(cfg Config, messages driving.MessageService, votes driving.VoteService) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, ErrNoDir
	}
	if messages == nil || votes == nil {
		return nil, ErrMissingService
	}
	if cfg.Rate <= 0 {
		cfg.Rate = domain.DefaultInboxRate
	}
	if cfg.UserID == "" {
		cfg.UserID = domain.DefaultUserID
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	return &Watcher{
		cfg:      cfg,
		messages: messages,
		votes:    votes,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		seen:     make(map[string]uint64),
	}, nil
}

// Scan ingests the reply files already in the directory, in name order.
func (w *Watcher) Scan(ctx context.Context) ([]Result, error) {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isReply(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var results []Result
	for _, name := range names {
		res, err := w.Ingest(ctx, filepath.Join(w.cfg.Dir, name))
		if err != nil {
			return results, err
		}
		if res != nil {
			results = append(results, *res)
		}
	}
	return results, nil
}

// Run watches the directory until ctx is cancelled. A file is ingested once
// it has seen no events for Config.Debounce, so a reply that is still being
// written is read in full. Files that fail to ingest are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	logger.Info("inbox: watching %s", w.cfg.Dir)

	pending := newDebouncer(ctx, w.cfg.Debounce)
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				pending.touch(path)
			}
		case path := <-pending.ready:
			if _, err := w.Ingest(ctx, path); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("inbox: %s: %v", path, err)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox: watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the path to ingest for create and write events on
// reply files.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !isReply(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// Ingest adds the file as an assistant message and upvotes it. It returns
// nil when the file is empty or its content was already ingested.
func (w *Watcher) Ingest(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	sum := fingerprint(data)
	w.mu.Lock()
	if w.seen[path] == sum {
		w.mu.Unlock()
		return nil, nil
	}
	w.seen[path] = sum
	w.mu.Unlock()

	if err := w.limiter.Wait(ctx); err != nil {
		w.forget(path)
		return nil, err
	}

	msg, err := w.messages.Add(ctx, w.cfg.UserID, w.cfg.ChatID, domain.RoleAssistant, content)
	if err != nil {
		w.forget(path)
		return nil, fmt.Errorf("add message: %w", err)
	}
	up, err := w.votes.Upvote(ctx, w.cfg.UserID, msg.ChatID, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("upvote: %w", err)
	}

	logger.Info("inbox: %s -> chat %s, appended %d plan(s)",
		filepath.Base(path), msg.ChatID, up.Merge.AppendedCount)
	res := Result{Path: path, Message: msg, Upvote: up}
	if w.OnIngest != nil {
		w.OnIngest(res)
	}
	return &res, nil
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.seen, path)
	w.mu.Unlock()
}

func isReply(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

func fingerprint(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
