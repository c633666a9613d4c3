package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/statekit"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// MemberState is the lifecycle state of one factory in a batch.
type MemberState string

const (
	// StateUnseen means the resolver has not looked at the member yet.
	StateUnseen MemberState = "unseen"
	// StateTrying means the member's dependencies are being resolved.
	StateTrying MemberState = "trying"
	// StateConfirmed means the member has a place in the install order.
	StateConfirmed MemberState = "confirmed"
	// StateInstalled means the member was installed.
	StateInstalled MemberState = "installed"
	// StateFailed means resolving or installing the member failed.
	StateFailed MemberState = "failed"
)

// Events driving the member state machine.
const (
	eventTry     = "TRY"
	eventConfirm = "CONFIRM"
	eventInstall = "INSTALL"
	eventFail    = "FAIL"
)

// MemberStatus reports the final state of one batch member.
type MemberStatus struct {
	Name  string
	State MemberState
}

// BatchReport describes the outcome of InstallBatch.
type BatchReport struct {
	// ID correlates the batch's log entries.
	ID string
	// Order is the install order that was computed, dependencies first.
	Order []string
	// Members lists each submitted factory's final state, in submission order.
	Members []MemberStatus
}

// State returns the final state of the named member.
func (r *BatchReport) State(name string) (MemberState, bool) {
	for _, m := range r.Members {
		if m.Name == name {
			return m.State, true
		}
	}
	return "", false
}

// memberContext is the statekit context of a member machine.
type memberContext struct {
	Name string
}

// batch is the ephemeral state of one resolution: the candidates, the
// install order assembled so far and each member's lifecycle machine.
type batch struct {
	system     *System
	candidates []*Factory
	toInstall  []*Factory
	confirmed  map[*Factory]bool
	machines   map[*Factory]*statekit.Interpreter[memberContext]
}

func (s *System) newBatch(candidates []*Factory) (*batch, error) {
	b := &batch{
		system:     s,
		candidates: candidates,
		confirmed:  make(map[*Factory]bool, len(candidates)),
		machines:   make(map[*Factory]*statekit.Interpreter[memberContext], len(candidates)),
	}

	for _, f := range candidates {
		if _, seen := b.machines[f]; seen {
			continue
		}
		interp, err := buildMemberMachine(f.Name)
		if err != nil {
			return nil, fmt.Errorf("building state machine for %s: %w", f.Name, err)
		}
		interp.Start()
		b.machines[f] = interp
	}

	return b, nil
}

// buildMemberMachine constructs the lifecycle machine of one batch member.
func buildMemberMachine(name string) (*statekit.Interpreter[memberContext], error) {
	machine, err := statekit.NewMachine[memberContext]("batch-member-" + name).
		WithInitial("unseen").
		WithContext(memberContext{Name: name}).
		State("unseen").
		On(eventTry).Target("trying").
		On(eventFail).Target("failed").Done().
		State("trying").
		On(eventConfirm).Target("confirmed").
		On(eventFail).Target("failed").Done().
		State("confirmed").
		On(eventInstall).Target("installed").
		On(eventFail).Target("failed").Done().
		State("installed").Done().
		State("failed").Done().
		Build()
	if err != nil {
		return nil, err
	}

	return statekit.NewInterpreter(machine), nil
}

func (b *batch) send(f *Factory, event string) {
	if interp, ok := b.machines[f]; ok {
		interp.Send(statekit.Event{Type: statekit.EventType(event)})
	}
}

func (b *batch) state(f *Factory) MemberState {
	interp, ok := b.machines[f]
	if !ok {
		return StateUnseen
	}
	return MemberState(interp.State().Value)
}

func (b *batch) report(id string) *BatchReport {
	r := &BatchReport{
		ID:      id,
		Order:   factoryNames(b.toInstall),
		Members: make([]MemberStatus, 0, len(b.candidates)),
	}
	for _, f := range b.candidates {
		r.Members = append(r.Members, MemberStatus{Name: f.Name, State: b.state(f)})
	}
	return r
}

// resolve confirms every candidate in submission order. The first failure
// aborts the batch.
func (b *batch) resolve() error {
	for _, f := range b.candidates {
		if err := b.tryAddToInstall(f, nil); err != nil {
			return err
		}
	}
	return nil
}

// tryAddToInstall confirms f for installation, first confirming whichever
// batch members provide its missing dependencies. alreadyTrying is the
// chain of members whose resolution is in progress above f.
func (b *batch) tryAddToInstall(f *Factory, alreadyTrying []*Factory) error {
	if b.confirmed[f] {
		return nil
	}
	if b.state(f) == StateUnseen {
		b.send(f, eventTry)
	}

	err := b.system.CanInstallWith(f, b.toInstall)
	if err == nil {
		b.toInstall = append(b.toInstall, f)
		b.confirmed[f] = true
		b.send(f, eventConfirm)
		return nil
	}

	failure, _ := AsFailure(err)
	switch failure.Type {
	case UnfulfilledPluginDependencies:
		err = b.tryAddDependenciesAndSelf(f, alreadyTrying, ByName, failure.Unfulfilled)
	case UnfulfilledRoleDependencies:
		err = b.tryAddDependenciesAndSelf(f, alreadyTrying, ByRole, failure.Unfulfilled)
	default:
		err = cannotInstall(f, failure)
	}

	if err != nil {
		b.send(f, eventFail)
	}
	return err
}

func (b *batch) tryAddDependenciesAndSelf(f *Factory, alreadyTrying []*Factory, depType DependencyType, missing []string) error {
	chain := make([]*Factory, len(alreadyTrying), len(alreadyTrying)+1)
	copy(chain, alreadyTrying)
	chain = append(chain, f)

	for _, name := range missing {
		provider, err := b.find(name, depType, chain)
		if err != nil {
			return err
		}
		if err := b.tryAddToInstall(provider, chain); err != nil {
			return err
		}
	}

	return b.tryAddToInstall(f, alreadyTrying)
}

// find returns the first batch member providing name, by plugin name or by
// role. A provider that is already on the resolution chain closes a cycle.
func (b *batch) find(name string, depType DependencyType, chain []*Factory) (*Factory, error) {
	for _, candidate := range b.candidates {
		provides := candidate.Name == name
		if depType == ByRole {
			provides = candidate.Role != "" && candidate.Role == name
		}
		if !provides {
			continue
		}

		for _, trying := range chain {
			if trying == candidate {
				cycle := append(factoryNames(chain), candidate.Name)
				return nil, &Failure{
					Type:           CyclicDependency,
					Message:        fmt.Sprintf("two or more plugins depend on each other cyclically: %s", strings.Join(cycle, " -> ")),
					Name:           chain[len(chain)-1].Name,
					Chain:          cycle,
					DependencyType: depType,
					DependencyName: name,
					Factory:        chain[len(chain)-1],
				}
			}
		}

		return candidate, nil
	}

	return nil, &Failure{
		Type:           UnmetDependency,
		Message:        fmt.Sprintf("plugin with %s of '%s' required but neither installed nor in the to be installed list", depType, name),
		Name:           chain[len(chain)-1].Name,
		DependencyType: depType,
		DependencyName: name,
		Factory:        chain[len(chain)-1],
	}
}

// Resolve computes the order in which candidates can be installed together,
// dependencies first and otherwise in submission order. Nothing is installed.
func (s *System) Resolve(candidates []*Factory) ([]*Factory, error) {
	b, err := s.newBatch(candidates)
	if err != nil {
		return nil, err
	}
	if err := b.resolve(); err != nil {
		return nil, err
	}

	order := make([]*Factory, len(b.toInstall))
	copy(order, b.toInstall)
	return order, nil
}

// InstallBatch resolves candidates and, if every member can be placed,
// installs them in dependency order. A resolution failure installs nothing.
// An install failure stops the batch; members installed before it stay
// installed because the registries never shrink.
//
// The report is returned even when err is non-nil.
func (s *System) InstallBatch(candidates []*Factory) (*BatchReport, error) {
	ctx := context.Background()
	id := uuid.New().String()
	logger := s.logger.With(ports.F("batch", id))

	b, err := s.newBatch(candidates)
	if err != nil {
		return &BatchReport{ID: id}, err
	}

	if err := b.resolve(); err != nil {
		logger.Warn(ctx, "batch rejected", ports.F("reason", TypeOf(err)), ports.F("error", err.Error()))
		return b.report(id), err
	}

	logger.Debug(ctx, "batch resolved", ports.F("order", strings.Join(factoryNames(b.toInstall), ",")))

	for _, f := range b.toInstall {
		if _, err := s.Install(f); err != nil {
			b.send(f, eventFail)
			failure := &Failure{
				Type:    InstallFailed,
				Message: fmt.Sprintf("installing the plugin '%s' failed", f.Name),
				Name:    f.Name,
				Factory: f,
				Inner:   err,
			}
			logger.Error(ctx, "batch install failed", ports.F("plugin", f.Name), ports.F("error", err.Error()))
			return b.report(id), failure
		}
		b.send(f, eventInstall)
	}

	logger.Info(ctx, "batch installed", ports.F("count", len(b.toInstall)))
	return b.report(id), nil
}

func factoryNames(factories []*Factory) []string {
	names := make([]string, len(factories))
	for i, f := range factories {
		names[i] = f.Name
	}
	return names
}
