// Package ledger keeps the in-memory mirror of the item store.
//
// The Controller validates raw user input, drives the store and only
// touches its mirror once the store has confirmed the unit of work. The
// mirror is what screens render and what the total is computed from.
//
// A Controller is not safe for concurrent use; the UI calls it from its
// single update loop.
package ledger

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/idilsaglam/equipt/internal/model"
)

// Store is the durable side of the ledger.
type Store interface {
	Insert(ctx context.Context, name string, cost float64) (int64, error)
	SelectAll(ctx context.Context) ([]model.Item, error)
	DeleteAll(ctx context.Context) error
}

// State of the controller's mirror.
type State int

const (
	Uninitialized State = iota
	Loaded
	Halted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loaded:
		return "loaded"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ChangeKind says what happened to the mirror.
type ChangeKind int

const (
	ChangeLoaded ChangeKind = iota
	ChangeAdded
	ChangeCleared
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeLoaded:
		return "loaded"
	case ChangeAdded:
		return "added"
	case ChangeCleared:
		return "cleared"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is delivered to subscribers after every mirror update.
type Change struct {
	Kind  ChangeKind
	Item  model.Item // set for ChangeAdded
	Count int        // mirror size after the change
}

// Controller is the authoritative view-model over a Store.
type Controller struct {
	store  Store
	log    *zap.Logger
	state  State
	items  []model.Item
	errMsg string

	subs   map[int]func(Change)
	nextID int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New wires a controller to its store. Call Load before using the mirror.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		log:   zap.NewNop(),
		subs:  map[int]func(Change){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the mirror wholesale with the store contents.
func (c *Controller) Load(ctx context.Context) error {
	if c.state == Halted {
		return ErrHalted
	}
	items, err := c.store.SelectAll(ctx)
	if err != nil {
		return c.fail("load", err)
	}
	c.items = items
	c.state = Loaded
	c.log.Info("ledger loaded", zap.Int("items", len(items)))
	c.notify(Change{Kind: ChangeLoaded, Count: len(c.items)})
	return nil
}

// AddItem validates the raw input, persists it and appends the stored
// record to the mirror. Invalid input returns ErrInvalidInput and sets
// ErrorMessage; a successful add clears it.
func (c *Controller) AddItem(ctx context.Context, rawName, rawCost string) (model.Item, error) {
	if err := c.ready(); err != nil {
		return model.Item{}, err
	}
	name, cost, err := ParseInput(rawName, rawCost)
	if err != nil {
		c.errMsg = invalidInputMessage
		c.log.Debug("item rejected", zap.Error(err))
		return model.Item{}, err
	}

	id, err := c.store.Insert(ctx, name, cost)
	if err != nil {
		return model.Item{}, c.fail("add item", err)
	}
	it := model.Item{ID: id, Name: name, Cost: cost}
	c.items = append(c.items, it)
	c.errMsg = ""
	c.log.Info("item added", zap.Int64("id", id), zap.String("name", name), zap.Float64("cost", cost))
	c.notify(Change{Kind: ChangeAdded, Item: it, Count: len(c.items)})
	return it, nil
}

// ClearAll empties the store, then re-reads it into the mirror rather than
// assuming the result is empty.
func (c *Controller) ClearAll(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.store.DeleteAll(ctx); err != nil {
		return c.fail("clear", err)
	}
	items, err := c.store.SelectAll(ctx)
	if err != nil {
		return c.fail("reload after clear", err)
	}
	c.items = items
	c.log.Info("ledger cleared", zap.Int("remaining", len(items)))
	c.notify(Change{Kind: ChangeCleared, Count: len(c.items)})
	return nil
}

// Items returns a copy of the mirror in store order.
func (c *Controller) Items() []model.Item {
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of records in the mirror.
func (c *Controller) Len() int { return len(c.items) }

// TotalCost sums cost over the mirror. Recomputed on every call.
func (c *Controller) TotalCost() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Cost
	}
	return total
}

// ErrorMessage is the current user-visible error, or "".
func (c *Controller) ErrorMessage() string { return c.errMsg }

// State reports the controller state.
func (c *Controller) State() State { return c.state }

// Subscribe registers fn for mirror changes. Events are delivered
// synchronously, after the mirror has been updated. The returned func
// removes the subscription.
func (c *Controller) Subscribe(fn func(Change)) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Controller) notify(ch Change) {
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.subs[i]; ok {
			fn(ch)
		}
	}
}

func (c *Controller) ready() error {
	switch c.state {
	case Halted:
		return ErrHalted
	case Uninitialized:
		return ErrNotLoaded
	}
	return nil
}

// fail halts the ledger; every later operation reports ErrHalted.
func (c *Controller) fail(op string, err error) error {
	c.state = Halted
	c.errMsg = storageFailureMessage
	c.log.Error("storage failure, ledger halted", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
}

// ParseInput trims and validates a raw name and cost.
func ParseInput(rawName, rawCost string) (string, float64, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return "", 0, fmt.Errorf("%w: empty item name", ErrInvalidInput)
	}
	costText := strings.TrimSpace(rawCost)
	if costText == "" {
		return "", 0, fmt.Errorf("%w: empty cost", ErrInvalidInput)
	}
	d, err := decimal.NewFromString(costText)
	if err != nil {
		return "", 0, fmt.Errorf("%w: cost %q is not a number", ErrInvalidInput, rawCost)
	}
	cost, _ := d.Float64()
	if math.IsInf(cost, 0) || math.IsNaN(cost) {
		return "", 0, fmt.Errorf("%w: cost %q is not finite", ErrInvalidInput, rawCost)
	}
	return name, cost, nil
}

// FormatTotal renders a total with exactly two decimal places.
func FormatTotal(total float64) string {
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return strconv.FormatFloat(total, 'f', 2, 64)
	}
	return decimal.NewFromFloat(total).StringFixed(2)
}
