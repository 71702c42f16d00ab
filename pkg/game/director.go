package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-player/pkg/assets"
	"github.com/jwebster45206/story-player/pkg/outcome"
	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/storage"
	"github.com/jwebster45206/story-player/pkg/story"
)

// DefaultEndingsKey is the store key of the EndingRecord.
const DefaultEndingsKey = "endings"

const defaultInputBuffer = 16

// DirectorConfig wires a Director to its collaborators. Story, Renderer and
// Store are required.
type DirectorConfig struct {
	Story       GraphSource
	Rules       []outcome.Rule
	Manifest    *assets.Manifest
	Renderer    Renderer
	Store       storage.Store
	EndingsKey  string
	Notifier    Notifier
	Logger      *slog.Logger
	InputBuffer int
}

type switchRequest struct {
	id     SceneID
	params Params
}

// Director owns the scenes, the single active scene and the input channel.
// Scene bodies run on whichever goroutine calls Start, Run or Dispatch; the
// design expects that to be one goroutine.
type Director struct {
	session    uuid.UUID
	story      GraphSource
	manifest   *assets.Manifest
	renderer   Renderer
	store      storage.Store
	endingsKey string
	notifier   Notifier
	logger     *slog.Logger
	classifier *outcome.Classifier

	scenes map[SceneID]Scene
	order  []SceneID
	inputs chan InputEvent

	mu            sync.Mutex
	active        Scene
	subscriber    Scene
	transitioning bool
	pending       []switchRequest
}

// NewDirector registers the four scenes, Splash first.
func NewDirector(cfg DirectorConfig) (*Director, error) {
	if cfg.Story == nil {
		return nil, errors.New("director requires a story source")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("director requires a renderer")
	}
	if cfg.Store == nil {
		return nil, errors.New("director requires a store")
	}
	if cfg.EndingsKey == "" {
		cfg.EndingsKey = DefaultEndingsKey
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.InputBuffer <= 0 {
		cfg.InputBuffer = defaultInputBuffer
	}

	session := uuid.New()
	d := &Director{
		session:    session,
		story:      cfg.Story,
		manifest:   cfg.Manifest,
		renderer:   cfg.Renderer,
		store:      cfg.Store,
		endingsKey: cfg.EndingsKey,
		notifier:   cfg.Notifier,
		logger:     cfg.Logger.With("session_id", session.String()),
		classifier: outcome.NewClassifier(cfg.Rules),
		scenes:     make(map[SceneID]Scene),
		inputs:     make(chan InputEvent, cfg.InputBuffer),
	}

	d.register(&splashScene{d: d})
	d.register(&choicesScene{d: d})
	d.register(&gameOverScene{d: d})
	d.register(&achievementsScene{d: d})

	return d, nil
}

func (d *Director) register(s Scene) {
	d.scenes[s.ID()] = s
	d.order = append(d.order, s.ID())
}

// Session identifies this playthrough in logs and events.
func (d *Director) Session() uuid.UUID { return d.session }

// Logger returns the session-scoped logger.
func (d *Director) Logger() *slog.Logger { return d.logger }

// Inputs is the channel front ends send user input on.
func (d *Director) Inputs() chan<- InputEvent { return d.inputs }

// Active returns the active scene id, or "" before Start.
func (d *Director) Active() SceneID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return ""
	}
	return d.active.ID()
}

// Counts returns the outcome counters of the current playthrough.
func (d *Director) Counts() map[outcome.Label]int {
	return d.classifier.Counts()
}

// Start initializes the renderer and enters the first registered scene.
func (d *Director) Start(ctx context.Context) error {
	if err := d.renderer.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	d.logger.Info("Session started", "story", d.storyName())
	return d.SwitchScene(ctx, d.order[0], Params{})
}

// Run is the event loop. It delivers queued input to the subscribed scene
// until ctx is done or the input channel is closed. A scene error ends the
// loop; a LookupError means the story document is broken.
func (d *Director) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-d.inputs:
			if !ok {
				return nil
			}
			if err := d.Dispatch(ctx, ev); err != nil {
				d.logger.Error("Input handling failed", "error", err, "scene", d.Active())
				return err
			}
		}
	}
}

// Dispatch hands ev to the subscribed scene, if any.
func (d *Director) Dispatch(ctx context.Context, ev InputEvent) error {
	d.mu.Lock()
	sub := d.subscriber
	d.mu.Unlock()

	if sub == nil {
		d.logger.Debug("Dropping input with no subscriber", "event", ev)
		return nil
	}
	return sub.HandleInput(ctx, ev)
}

// Subscribe makes s the only receiver of input. Only the active scene may
// subscribe.
func (d *Director) Subscribe(s Scene) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != s {
		d.logger.Warn("Ignoring subscribe from inactive scene", "scene", s.ID())
		return
	}
	d.subscriber = s
}

// Unsubscribe removes s as the input receiver. It is safe to call twice.
func (d *Director) Unsubscribe(s Scene) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subscriber == s {
		d.subscriber = nil
	}
}

// Subscribed returns the scene currently receiving input, or "".
func (d *Director) Subscribed() SceneID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subscriber == nil {
		return ""
	}
	return d.subscriber.ID()
}

// SwitchScene exits the active scene and enters id. Switching to the active
// scene is a no-op. A request made while another switch is in flight is
// queued and applied, in order, once that switch settles.
func (d *Director) SwitchScene(ctx context.Context, id SceneID, params Params) error {
	next, ok := d.scenes[id]
	if !ok {
		return &UnknownSceneError{ID: id}
	}

	d.mu.Lock()
	if d.transitioning {
		d.pending = append(d.pending, switchRequest{id: id, params: params})
		d.mu.Unlock()
		d.logger.Debug("Queued scene switch", "scene", id)
		return nil
	}
	if d.active == next {
		d.mu.Unlock()
		return nil
	}
	d.transitioning = true
	d.mu.Unlock()

	err := d.transition(ctx, next, params)

	for {
		d.mu.Lock()
		if err != nil || len(d.pending) == 0 {
			if dropped := len(d.pending); dropped > 0 {
				d.logger.Warn("Dropping queued scene switches after failure", "count", dropped)
			}
			d.pending = nil
			d.transitioning = false
			d.mu.Unlock()
			return err
		}
		req := d.pending[0]
		d.pending = d.pending[1:]
		queued := d.scenes[req.id]
		same := d.active == queued
		d.mu.Unlock()

		if !same {
			err = d.transition(ctx, queued, req.params)
		}
	}
}

func (d *Director) transition(ctx context.Context, next Scene, params Params) error {
	d.mu.Lock()
	prev := d.active
	d.mu.Unlock()

	var from SceneID
	if prev != nil {
		from = prev.ID()
		if err := prev.Exit(ctx); err != nil {
			return fmt.Errorf("failed to exit scene %s: %w", from, err)
		}
	}

	d.mu.Lock()
	d.active = next
	d.mu.Unlock()

	d.logger.Info("Scene switch", "from", from, "to", next.ID())
	if err := d.notifier.SceneChanged(ctx, d.session, from, next.ID()); err != nil {
		d.logger.Warn("Failed to publish scene change", "error", err)
	}

	if err := next.Enter(ctx, params); err != nil {
		return fmt.Errorf("failed to enter scene %s: %w", next.ID(), err)
	}
	return nil
}

// SaveToLocal writes record to the store under key.
func (d *Director) SaveToLocal(ctx context.Context, record state.EndingRecord, key string) error {
	return SaveEndings(ctx, d.store, key, record)
}

// RetrieveFromLocal reads the record under key. An absent key, an unreadable
// store or a malformed value all yield an empty record.
func (d *Director) RetrieveFromLocal(ctx context.Context, key string) state.EndingRecord {
	return LoadEndings(ctx, d.store, key, d.logger)
}

// SeedEndings seeds the stored record from the current story. The session
// counters are left untouched.
func (d *Director) SeedEndings(ctx context.Context) (int, error) {
	return SeedEndings(ctx, d.store, d.endingsKey, d.story.Current(), d.classifier.Rules(), d.logger)
}

// SaveEndings encodes record and stores it under key.
func SaveEndings(ctx context.Context, store storage.Store, key string, record state.EndingRecord) error {
	data, err := record.Encode()
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// LoadEndings never fails: problems are logged and an empty record returned.
func LoadEndings(ctx context.Context, store storage.Store, key string, logger *slog.Logger) state.EndingRecord {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("Failed to read save, using empty record", "key", key, "error", err)
		return state.NewEndingRecord()
	}
	if !ok {
		return state.NewEndingRecord()
	}
	rec, err := state.DecodeEndingRecord(data)
	if err != nil {
		logger.Warn("Malformed save, using empty record", "key", key, "error", err)
		return state.NewEndingRecord()
	}
	return rec
}

// UpdateEndings applies fn to the stored record as one atomic store update,
// so sessions sharing a store never overwrite each other's unlocked endings.
// A malformed stored value is treated as an empty record. fn reports whether
// it changed the record; an unchanged record is not written. It returns the
// record as stored.
func UpdateEndings(ctx context.Context, store storage.Store, key string, logger *slog.Logger, fn func(state.EndingRecord) bool) (state.EndingRecord, error) {
	var result state.EndingRecord
	err := store.Update(ctx, key, func(current string, ok bool) (string, bool, error) {
		rec := state.NewEndingRecord()
		if ok {
			decoded, err := state.DecodeEndingRecord(current)
			if err != nil {
				logger.Warn("Malformed save, using empty record", "key", key, "error", err)
			} else {
				rec = decoded
			}
		}
		result = rec
		if !fn(rec) {
			return "", false, nil
		}
		data, err := rec.Encode()
		if err != nil {
			return "", false, err
		}
		return data, true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SeedEndings adds every passage of g that rules classify as an Ending to the
// stored record with got=false, keeping existing flags. It returns how many
// endings were added.
func SeedEndings(ctx context.Context, store storage.Store, key string, g *story.Graph, rules []outcome.Rule, logger *slog.Logger) (int, error) {
	if g == nil {
		return 0, errors.New("no story loaded")
	}

	c := outcome.NewClassifier(rules)
	var names []string
	g.Passages(func(p *story.Passage) bool {
		if c.Classify(p.Tags).IsEnding() {
			names = append(names, p.Name)
		}
		return true
	})

	added := 0
	rec, err := UpdateEndings(ctx, store, key, logger, func(rec state.EndingRecord) bool {
		added = rec.Track(names...)
		return added > 0
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed %s: %w", key, err)
	}
	if added > 0 {
		logger.Info("Seeded ending record", "added", added, "tracked", len(rec))
	}
	return added, nil
}

func (d *Director) storyName() string {
	if g := d.story.Current(); g != nil {
		return g.Name()
	}
	return ""
}
