package statemachine

import (
	"errors"
	"fmt"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/errs"
)

// Rule is one entry of the transition table: an Event received in Source moves the machine to Target.
type Rule struct {
	Source order.Status
	Event  order.Event
	Target order.Status
}

func (r Rule) String() string {
	return fmt.Sprintf("%v---%v--->%v", r.Source, r.Event, r.Target)
}

// Config is the static declaration a Table is built from. It is read once at start-up.
type Config struct {
	Initial order.Status
	States  []order.Status
	Rules   []Rule
}

// DefaultConfig is the order lifecycle:
//
//	WAIT_PAYMENT ──PAYED──> WAIT_DELIVER ──DELIVERY──> WAIT_RECEIVE ──RECEIVED──> FINISH
func DefaultConfig() Config {
	return Config{
		Initial: order.WaitPayment,
		States:  order.AllStatuses(),
		Rules: []Rule{
			{Source: order.WaitPayment, Event: order.Payed, Target: order.WaitDeliver},
			{Source: order.WaitDeliver, Event: order.Delivery, Target: order.WaitReceive},
			{Source: order.WaitReceive, Event: order.Received, Target: order.Finish},
		},
	}
}

type ruleKey struct {
	source order.Status
	event  order.Event
}

// Table is an immutable, validated transition table: a deterministic partial
// function from (status, event) to status.
type Table struct {
	initial order.Status
	states  map[order.Status]struct{}
	index   map[ruleKey]Rule
	rules   []Rule
}

// NewTable validates cfg and indexes its rules.
//
// Every problem found is reported, joined, as an errs.ConfigurationIsInvalidError:
// an empty state set, an undeclared initial status, rules that reference
// undeclared statuses or invalid events, and two rules sharing a (source, event) pair.
func NewTable(cfg Config) (*Table, error) {
	t := &Table{
		initial: cfg.Initial,
		states:  make(map[order.Status]struct{}, len(cfg.States)),
		index:   make(map[ruleKey]Rule, len(cfg.Rules)),
		rules:   make([]Rule, 0, len(cfg.Rules)),
	}

	var problems []error
	if len(cfg.States) == 0 {
		problems = append(problems, errs.NewConfigurationIsInvalidError("no states declared"))
	}
	for _, s := range cfg.States {
		if err := s.Validate(); err != nil {
			problems = append(problems, errs.NewConfigurationIsInvalidErrorWithCause("state is not in the enumeration", err))
			continue
		}
		t.states[s] = struct{}{}
	}
	if !t.Declares(cfg.Initial) {
		problems = append(problems, errs.NewConfigurationIsInvalidError(
			fmt.Sprintf("initial state %v is not declared", cfg.Initial)))
	}

	for _, r := range cfg.Rules {
		if err := t.checkRule(r); err != nil {
			problems = append(problems, err)
			continue
		}
		k := ruleKey{source: r.Source, event: r.Event}
		if existing, ok := t.index[k]; ok {
			problems = append(problems, errs.NewConfigurationIsInvalidError(
				fmt.Sprintf("rule %s collides with %s", r, existing)))
			continue
		}
		t.index[k] = r
		t.rules = append(t.rules, r)
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNewTable is NewTable for static configuration known to be valid. It panics on error.
func MustNewTable(cfg Config) *Table {
	t, err := NewTable(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) checkRule(r Rule) error {
	if !t.Declares(r.Source) {
		return errs.NewConfigurationIsInvalidError(fmt.Sprintf("rule %s: source is not declared", r))
	}
	if !t.Declares(r.Target) {
		return errs.NewConfigurationIsInvalidError(fmt.Sprintf("rule %s: target is not declared", r))
	}
	if err := r.Event.Validate(); err != nil {
		return errs.NewConfigurationIsInvalidErrorWithCause(fmt.Sprintf("rule %s: event is not in the enumeration", r), err)
	}
	return nil
}

// Target returns the status reached from source on event, or false when no rule exists.
func (t *Table) Target(source order.Status, event order.Event) (order.Status, bool) {
	r, ok := t.index[ruleKey{source: source, event: event}]
	if !ok {
		return order.Unknown, false
	}
	return r.Target, true
}

// Declares reports whether status is one of the table's states.
func (t *Table) Declares(status order.Status) bool {
	_, ok := t.states[status]
	return ok
}

// Initial returns the configured initial status.
func (t *Table) Initial() order.Status {
	return t.initial
}

// Rules returns the rules in declaration order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}
