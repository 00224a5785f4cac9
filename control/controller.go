package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"NagaGUI/config"
	"NagaGUI/i18n"
	"NagaGUI/keymap"
	"NagaGUI/session"
)

const enqueueTimeout = 150 * time.Millisecond

// Notifier is told about successful session transitions.
type Notifier interface {
	SessionStarted()
	SessionStopped()
}

// View is an immutable snapshot of what the UI shows.
type View struct {
	Entries    []keymap.Entry
	LoadedPath string
	Status     string
	Active     bool
	Session    session.Info
}

// Key returns the key assigned to button in the view.
func (v View) Key(button int) (string, bool) {
	for _, e := range v.Entries {
		if e.Button == button {
			return e.Key, true
		}
	}
	return "", false
}

// Controller runs the command loop. Fields below "owned by Run" are only
// touched from the loop goroutine (and from Bootstrap before it starts).
type Controller struct {
	store    *config.Store
	coord    *session.Coordinator
	notifier Notifier
	watch    bool
	onChange func(View)

	cmdCh chan Command

	// owned by Run
	mapping     keymap.Mapping
	loadedPath  string
	status      string
	watchCancel context.CancelFunc
	runCtx      context.Context
	running     bool

	viewMu sync.RWMutex
	view   View
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the session transition notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithFileWatch reloads the loaded config when it changes on disk.
func WithFileWatch(enabled bool) Option {
	return func(c *Controller) { c.watch = enabled }
}

// WithOnChange registers a callback invoked from the loop goroutine after
// every handled command.
func WithOnChange(fn func(View)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller and subscribes it to worker exits.
func New(store *config.Store, coord *session.Coordinator, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		coord:  coord,
		cmdCh:  make(chan Command, 256),
		runCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	coord.OnExit(func(e session.Exit) {
		c.Enqueue(Command{Type: CmdWorkerExited, Exit: e})
	})
	return c
}

// Bootstrap restores the last used config. It must be called before Run.
// A missing or vanished pointer is not an error: the mapping stays empty and
// the engine defaults will be used.
func (c *Controller) Bootstrap() {
	c.status = i18n.T("Ready - No config loaded (will use default)")
	if p, ok := c.store.RecallExisting(); ok {
		if err := c.load(p); err != nil {
			slog.Debug("last config not restored", "path", p, "error", err)
		}
	}
	c.publish()
}

// Enqueue posts a command without blocking the caller for long. If the queue
// stays full for a short timeout the command is dropped and logged.
func (c *Controller) Enqueue(cmd Command) {
	select {
	case c.cmdCh <- cmd:
	case <-time.After(enqueueTimeout):
		slog.Warn("command queue full, dropping command", "command", cmd.Type)
	}
}

// Do posts cmd and waits for its outcome.
func (c *Controller) Do(ctx context.Context, cmd Command) error {
	cmd.Reply = make(chan error, 1)
	select {
	case c.cmdCh <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.Reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View returns the most recently published view.
func (c *Controller) View() View {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.view
}

// Run handles commands until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.runCtx = ctx
	c.running = true
	if c.watch && c.loadedPath != "" {
		c.watchFile(c.loadedPath)
	}
	defer c.stopWatch()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.cmdCh:
			err := c.handle(cmd)
			c.publish()
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

func (c *Controller) handle(cmd Command) error {
	switch cmd.Type {
	case CmdStart:
		return c.start()
	case CmdStop:
		return c.stop()
	case CmdLoad:
		return c.load(cmd.Path)
	case CmdSave:
		return c.save(cmd.Path)
	case CmdClear:
		c.clear()
	case CmdSetKey:
		return c.setKey(cmd.Button, cmd.Key)
	case CmdUnsetKey:
		c.mapping.Remove(cmd.Button)
		c.noteEdit()
	case CmdReload:
		return c.reload(cmd.Path)
	case CmdWorkerExited:
		c.workerExited(cmd.Exit)
	case CmdStatus:
		c.status = cmd.Message
	default:
		return fmt.Errorf("unknown command %d", cmd.Type)
	}
	return nil
}

func (c *Controller) start() error {
	if _, err := c.coord.Start(c.mapping); err != nil {
		if errors.Is(err, session.ErrAlreadyRunning) {
			c.status = i18n.T("Already running - click Stop first")
		} else {
			c.status = err.Error()
		}
		return err
	}
	c.status = i18n.T("Remapping started")
	if c.notifier != nil {
		c.notifier.SessionStarted()
	}
	return nil
}

func (c *Controller) stop() error {
	if err := c.coord.Stop(); err != nil {
		c.status = i18n.T("Not running")
		return err
	}
	c.status = i18n.T("Stopping... (press any Naga button to complete)")
	if c.notifier != nil {
		c.notifier.SessionStopped()
	}
	return nil
}

// load replaces the mapping only when path parses cleanly; on failure the
// previous mapping and loaded path are kept.
func (c *Controller) load(path string) error {
	m, err := config.Load(path)
	if err != nil {
		slog.Warn("config load failed", "path", path, "error", err)
		if errors.Is(err, config.ErrInvalid) {
			c.status = i18n.T("Error parsing config file")
		} else {
			c.status = fmt.Sprintf(i18n.T("Error loading config: %v"), unwrapCause(err))
		}
		return err
	}

	c.mapping = m
	c.status = fmt.Sprintf(i18n.T("Loaded config from %s"), path)
	c.store.RememberLastPath(path)
	c.setLoadedPath(path)
	slog.Info("config loaded", "path", path, "buttons", m.Len())
	return nil
}

func (c *Controller) save(path string) error {
	if err := config.Save(path, c.mapping); err != nil {
		slog.Warn("config save failed", "path", path, "error", err)
		c.status = fmt.Sprintf(i18n.T("Error saving config: %v"), unwrapCause(err))
		return err
	}
	c.status = fmt.Sprintf(i18n.T("Config saved to %s"), path)
	c.store.RememberLastPath(path)
	c.setLoadedPath(path)
	slog.Info("config saved", "path", path, "buttons", c.mapping.Len())
	return nil
}

func (c *Controller) clear() {
	c.mapping = keymap.Mapping{}
	c.setLoadedPath("")
	c.status = i18n.T("Cleared config - will use default")
}

func (c *Controller) setKey(button int, key string) error {
	if err := c.mapping.Set(button, key); err != nil {
		c.status = err.Error()
		return err
	}
	c.noteEdit()
	return nil
}

func (c *Controller) noteEdit() {
	if c.coord.IsActive() {
		c.status = i18n.T("Mapping changed - restart remapping to apply")
	}
}

// reload picks up an external edit of the loaded file. Our own saves also
// trigger it, so an identical mapping is ignored.
func (c *Controller) reload(path string) error {
	if path != c.loadedPath {
		return nil
	}
	m, err := config.Load(path)
	if err != nil {
		slog.Warn("ignoring unreadable config change", "path", path, "error", err)
		return err
	}
	if m.Equal(c.mapping) {
		return nil
	}
	c.mapping = m
	c.status = fmt.Sprintf(i18n.T("Reloaded config from %s"), path)
	if c.coord.IsActive() {
		c.status += " - " + i18n.T("Mapping changed - restart remapping to apply")
	}
	return nil
}

func (c *Controller) workerExited(e session.Exit) {
	switch {
	case e.Unexpected && e.Err != nil:
		c.status = i18n.T("Remapping backend failed - see log")
	case e.Unexpected:
		c.status = i18n.T("Remapping stopped")
	case !c.coord.IsActive() && c.status == i18n.T("Stopping... (press any Naga button to complete)"):
		c.status = i18n.T("Remapping stopped")
	}
	if e.Unexpected && c.notifier != nil {
		c.notifier.SessionStopped()
	}
}

func (c *Controller) setLoadedPath(path string) {
	if path == c.loadedPath {
		return
	}
	c.loadedPath = path
	if c.watch && c.running {
		c.stopWatch()
		if path != "" {
			c.watchFile(path)
		}
	}
}

func (c *Controller) watchFile(path string) {
	ctx, cancel := context.WithCancel(c.runCtx)
	c.watchCancel = cancel
	go func() {
		err := config.Watch(ctx, path, func() {
			c.Enqueue(Command{Type: CmdReload, Path: path})
		})
		if err != nil {
			slog.Warn("config watch stopped", "path", path, "error", err)
		}
	}()
}

func (c *Controller) stopWatch() {
	if c.watchCancel != nil {
		c.watchCancel()
		c.watchCancel = nil
	}
}

func (c *Controller) publish() {
	v := View{
		Entries:    c.mapping.Entries(),
		LoadedPath: c.loadedPath,
		Status:     c.status,
		Active:     c.coord.IsActive(),
	}
	if info, ok := c.coord.Current(); ok {
		v.Session = info
	}

	c.viewMu.Lock()
	c.view = v
	c.viewMu.Unlock()

	if c.onChange != nil {
		c.onChange(v)
	}
}

// unwrapCause strips the config.Error envelope so status messages show the
// filesystem error itself.
func unwrapCause(err error) error {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) && cfgErr.Err != nil {
		return cfgErr.Err
	}
	return err
}
