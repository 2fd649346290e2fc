// Package transitionconfig reads transition tables from YAML.
//
// A document declares the primary region and, optionally, additional regions:
//
//	initial: WAIT_PAYMENT
//	states: [WAIT_PAYMENT, WAIT_DELIVER, WAIT_RECEIVE, FINISH]
//	transitions:
//	  - { source: WAIT_PAYMENT, event: PAYED, target: WAIT_DELIVER }
//	regions:
//	  - initial: WAIT_PAYMENT
//	    states: [...]
//	    transitions: [...]
//
// Every problem is reported as errs.ConfigurationIsInvalidError.
package transitionconfig

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/domain/statemachine"
	"orderstate/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

//go:embed transitions.yaml
var defaultDocument []byte

type transitionDoc struct {
	Source string `yaml:"source"`
	Event  string `yaml:"event"`
	Target string `yaml:"target"`
}

type regionDoc struct {
	Initial     string          `yaml:"initial"`
	States      []string        `yaml:"states"`
	Transitions []transitionDoc `yaml:"transitions"`
}

type document struct {
	regionDoc `yaml:",inline"`
	Regions   []regionDoc `yaml:"regions"`
}

// Definition is a parsed document: one config per region, primary first.
type Definition struct {
	Regions []statemachine.Config
}

// Tables validates every region and returns the primary table and the additional ones.
func (d Definition) Tables() (*statemachine.Table, []*statemachine.Table, error) {
	if len(d.Regions) == 0 {
		return nil, nil, errs.NewConfigurationIsInvalidError("no regions defined")
	}

	tables := make([]*statemachine.Table, 0, len(d.Regions))
	for i, cfg := range d.Regions {
		t, err := statemachine.NewTable(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("region %d: %w", i, err)
		}
		tables = append(tables, t)
	}
	return tables[0], tables[1:], nil
}

// Default returns the built-in order lifecycle.
func Default() (Definition, error) {
	return Load(bytes.NewReader(defaultDocument))
}

// LoadFile reads a definition from path.
func LoadFile(path string) (Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, errs.NewConfigurationIsInvalidErrorWithCause("cannot open transitions file", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses a YAML document. Unknown fields are rejected.
func Load(r io.Reader) (Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Definition{}, errs.NewConfigurationIsInvalidError("transitions document is empty")
		}
		return Definition{}, errs.NewConfigurationIsInvalidErrorWithCause("malformed transitions document", err)
	}

	docs := append([]regionDoc{doc.regionDoc}, doc.Regions...)
	def := Definition{Regions: make([]statemachine.Config, 0, len(docs))}
	var problems []error
	for i, rd := range docs {
		cfg, err := rd.config()
		if err != nil {
			problems = append(problems, fmt.Errorf("region %d: %w", i, err))
			continue
		}
		def.Regions = append(def.Regions, cfg)
	}

	if err := errors.Join(problems...); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func (rd regionDoc) config() (statemachine.Config, error) {
	var problems []error
	status := func(code string) order.Status {
		s, err := order.ParseStatus(code)
		if err != nil {
			problems = append(problems, errs.NewConfigurationIsInvalidErrorWithCause("unknown status code", err))
		}
		return s
	}

	cfg := statemachine.Config{Initial: status(rd.Initial)}
	for _, code := range rd.States {
		cfg.States = append(cfg.States, status(code))
	}
	for _, t := range rd.Transitions {
		event, err := order.ParseEvent(t.Event)
		if err != nil {
			problems = append(problems, errs.NewConfigurationIsInvalidErrorWithCause("unknown event code", err))
		}
		cfg.Rules = append(cfg.Rules, statemachine.Rule{
			Source: status(t.Source),
			Event:  event,
			Target: status(t.Target),
		})
	}

	return cfg, errors.Join(problems...)
}
