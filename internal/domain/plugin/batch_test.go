package plugin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/plugwire/internal/adapters/logging"
	"github.com/felixgeelhaar/plugwire/internal/ports"
)

func TestSystem_InstallBatchOrdersDependenciesFirst(t *testing.T) {
	t.Parallel()

	var calls []string
	second := newFactory("second", withRequires("first"), recordingInit(&calls, "second"))
	first := newFactory("first", recordingInit(&calls, "first"))

	s := NewSystem(nil)
	report, err := s.InstallBatch([]*Factory{second, first})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, []string{"first", "second"}, report.Order)
	assert.Equal(t, []string{"first", "second"}, s.LoadedNames())
	assert.NotEmpty(t, report.ID)

	state, ok := report.State("second")
	require.True(t, ok)
	assert.Equal(t, StateInstalled, state)
}

func TestSystem_ResolveOrdering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []*Factory
		want       []string
	}{
		{
			name:       "empty batch",
			candidates: nil,
			want:       []string{},
		},
		{
			name: "independent plugins keep submission order",
			candidates: []*Factory{
				newFactory("tango"), newFactory("bare"), newFactory("waltz"),
			},
			want: []string{"tango", "bare", "waltz"},
		},
		{
			name: "role dependency pulled forward",
			candidates: []*Factory{
				newFactory("ballroom", withRequiresRoles("dancer")),
				newFactory("waltz", withRole("dancer")),
			},
			want: []string{"waltz", "ballroom"},
		},
		{
			name: "chain of three",
			candidates: []*Factory{
				newFactory("c", withRequires("b")),
				newFactory("b", withRequires("a")),
				newFactory("a"),
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "shared dependency placed once",
			candidates: []*Factory{
				newFactory("x", withRequires("base")),
				newFactory("y", withRequires("base")),
				newFactory("base"),
			},
			want: []string{"base", "x", "y"},
		},
		{
			name: "name and role dependencies together",
			candidates: []*Factory{
				newFactory("app", withRequires("bare"), withRequiresRoles("dancer")),
				newFactory("tango", withRole("dancer")),
				newFactory("bare"),
			},
			want: []string{"bare", "tango", "app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSystem(nil)
			order, err := s.Resolve(tt.candidates)
			require.NoError(t, err)

			assert.Equal(t, tt.want, factoryNames(order))
			assert.Empty(t, s.LoadedNames(), "Resolve must not install")
		})
	}
}

func TestSystem_ResolveUsesInstalledPlugins(t *testing.T) {
	t.Parallel()

	s := NewSystem(nil)
	_, err := s.Install(newFactory("waltz", withRole("dancer")))
	require.NoError(t, err)

	order, err := s.Resolve([]*Factory{newFactory("ballroom", withRequiresRoles("dancer"))})
	require.NoError(t, err)
	assert.Equal(t, []string{"ballroom"}, factoryNames(order))
}

func TestSystem_InstallBatchCycle(t *testing.T) {
	t.Parallel()

	var calls []string
	a := newFactory("a", withRequires("b"), recordingInit(&calls, "a"))
	b := newFactory("b", withRequires("a"), recordingInit(&calls, "b"))

	s := NewSystem(nil)
	report, err := s.InstallBatch([]*Factory{a, b})
	require.Error(t, err)

	assert.True(t, IsCyclicDependency(err))
	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, CyclicDependency, failure.Type)
	assert.Equal(t, []string{"a", "b", "a"}, failure.Chain)
	assert.Equal(t, ByName, failure.DependencyType)
	assert.Equal(t, "a", failure.DependencyName)

	assert.Empty(t, calls)
	assert.False(t, s.HasPlugin("a"))
	assert.False(t, s.HasPlugin("b"))

	stateA, _ := report.State("a")
	assert.Equal(t, StateFailed, stateA)
	assert.Empty(t, report.Order)
}

func TestSystem_ResolveRoleCycle(t *testing.T) {
	t.Parallel()

	s := NewSystem(nil)
	_, err := s.Resolve([]*Factory{
		newFactory("waltz", withRole("dancer"), withRequiresRoles("band")),
		newFactory("quartet", withRole("band"), withRequiresRoles("dancer")),
	})

	require.Error(t, err)
	failure, _ := AsFailure(err)
	assert.Equal(t, CyclicDependency, failure.Type)
	assert.Equal(t, ByRole, failure.DependencyType)
	assert.Equal(t, []string{"waltz", "quartet", "waltz"}, failure.Chain)
}

func TestSystem_InstallBatchUnmetDependency(t *testing.T) {
	t.Parallel()

	s := NewSystem(nil)
	_, err := s.InstallBatch([]*Factory{
		newFactory("bare"),
		newFactory("requires-nonexistent", withRequires("does-not-exist")),
	})
	require.Error(t, err)

	assert.True(t, IsUnmetDependency(err))
	failure, _ := AsFailure(err)
	assert.Equal(t, ByName, failure.DependencyType)
	assert.Equal(t, "does-not-exist", failure.DependencyName)
	assert.Equal(t, "plugin with name of 'does-not-exist' required but neither installed nor in the to be installed list", failure.Message)

	assert.Empty(t, s.LoadedNames(), "resolution failures install nothing")
}

func TestSystem_InstallBatchRoleConflict(t *testing.T) {
	t.Parallel()

	s := NewSystem(nil)
	_, err := s.InstallBatch([]*Factory{
		newFactory("waltz", withRole("dancer")),
		newFactory("tango", withRole("dancer")),
	})
	require.Error(t, err)

	assert.Equal(t, CanInstallFailed, TypeOf(err))
	assert.ErrorIs(t, err, RoleAlreadyInstalled)
	assert.False(t, s.HasRole("dancer"))
}

func TestSystem_InstallBatchInstallFailureKeepsEarlierMembers(t *testing.T) {
	t.Parallel()

	s := NewSystem(nil)
	report, err := s.InstallBatch([]*Factory{
		newFactory("bare"),
		newFactory("broken", withInit(func(_ any, _ Deps) (*Instance, error) { return nil, errBoom })),
		newFactory("waltz"),
	})
	require.Error(t, err)

	assert.Equal(t, InstallFailed, TypeOf(err))
	assert.ErrorIs(t, err, InitFailed)
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, []string{"bare"}, s.LoadedNames())

	states := map[string]MemberState{}
	for _, m := range report.Members {
		states[m.Name] = m.State
	}
	assert.Equal(t, map[string]MemberState{
		"bare":   StateInstalled,
		"broken": StateFailed,
		"waltz":  StateConfirmed,
	}, states)
}

func TestSystem_InstallBatchRoleUniquenessAfterSuccess(t *testing.T) {
	t.Parallel()

	s := NewSystem(nil)
	_, err := s.InstallBatch([]*Factory{
		newFactory("ballroom", withRequiresRoles("dancer")),
		newFactory("waltz", withRole("dancer")),
		newFactory("bare"),
	})
	require.NoError(t, err)

	providers := 0
	for _, name := range s.LoadedNames() {
		if name == "waltz" {
			providers++
		}
	}
	assert.Equal(t, 1, providers)
	assert.True(t, s.HasRole("dancer"))
}

func TestSystem_InstallBatchLogsBatchID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewConsoleLogger(
		logging.WithOutput(&buf),
		logging.WithTimestamp(false),
		logging.WithLevel(ports.LevelDebug),
	)
	s := NewSystem(nil, WithLogger(logger))

	report, err := s.InstallBatch([]*Factory{newFactory("bare")})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "batch resolved")
	assert.Contains(t, buf.String(), "batch installed")
	assert.Contains(t, buf.String(), "batch="+report.ID)
}

func TestBatchReport_StateUnknownMember(t *testing.T) {
	t.Parallel()

	report := &BatchReport{Members: []MemberStatus{{Name: "bare", State: StateInstalled}}}

	_, ok := report.State("waltz")
	assert.False(t, ok)
}
