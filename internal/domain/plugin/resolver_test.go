package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_CanInstall(t *testing.T) {
	t.Parallel()

	installed := []*Factory{
		newFactory("waltz", withRole("dancer")),
		newFactory("bare"),
	}

	tests := []struct {
		name            string
		factory         *Factory
		wantType        FailureType
		wantUnfulfilled []string
	}{
		{
			name:    "no dependencies",
			factory: newFactory("exports-true"),
		},
		{
			name:    "dependencies present",
			factory: newFactory("ballroom", withRequires("bare"), withRequiresRoles("dancer")),
		},
		{
			name:     "name taken",
			factory:  newFactory("bare"),
			wantType: PluginAlreadyInstalled,
		},
		{
			name:     "role taken",
			factory:  newFactory("tango", withRole("dancer")),
			wantType: RoleAlreadyInstalled,
		},
		{
			name:     "name checked before role",
			factory:  newFactory("waltz", withRole("dancer")),
			wantType: PluginAlreadyInstalled,
		},
		{
			name:            "missing plugins",
			factory:         newFactory("p", withRequires("bare", "first", "second")),
			wantType:        UnfulfilledPluginDependencies,
			wantUnfulfilled: []string{"first", "second"},
		},
		{
			name:            "missing roles",
			factory:         newFactory("p", withRequiresRoles("dancer", "band")),
			wantType:        UnfulfilledRoleDependencies,
			wantUnfulfilled: []string{"band"},
		},
		{
			name:            "names checked before roles",
			factory:         newFactory("p", withRequires("first"), withRequiresRoles("band")),
			wantType:        UnfulfilledPluginDependencies,
			wantUnfulfilled: []string{"first"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSystem(nil)
			for _, f := range installed {
				_, err := s.Install(f)
				require.NoError(t, err)
			}

			err := s.CanInstall(tt.factory)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}

			failure, ok := AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, failure.Type)
			assert.Equal(t, tt.wantUnfulfilled, failure.Unfulfilled)
		})
	}
}

func TestSystem_CanInstallIsPure(t *testing.T) {
	t.Parallel()

	s := NewSystem(nil)
	f := newFactory("waltz", withRole("dancer"))

	require.NoError(t, s.CanInstall(f))
	require.NoError(t, s.CanInstall(f))

	assert.False(t, s.HasPlugin("waltz"))
	assert.False(t, s.HasRole("dancer"))
	assert.Empty(t, s.LoadedNames())
}

func TestSystem_CanInstallWith(t *testing.T) {
	t.Parallel()

	waltz := newFactory("waltz", withRole("dancer"))
	first := newFactory("first")

	tests := []struct {
		name     string
		factory  *Factory
		assumed  []*Factory
		wantType FailureType
		wantMsg  string
	}{
		{
			name:    "dependency assumed by name",
			factory: newFactory("second", withRequires("first")),
			assumed: []*Factory{first},
		},
		{
			name:    "dependency assumed by role",
			factory: newFactory("ballroom", withRequiresRoles("dancer")),
			assumed: []*Factory{waltz},
		},
		{
			name:     "name collides with assumed",
			factory:  newFactory("first"),
			assumed:  []*Factory{first},
			wantType: PluginAlreadyInstalled,
		},
		{
			name:     "role collides with assumed",
			factory:  newFactory("tango", withRole("dancer")),
			assumed:  []*Factory{waltz},
			wantType: RoleAlreadyInstalled,
			wantMsg:  "the plugins 'tango' and 'waltz' both want to install the role 'dancer'",
		},
		{
			name:     "assumed does not satisfy other names",
			factory:  newFactory("second", withRequires("zeroth")),
			assumed:  []*Factory{first},
			wantType: UnfulfilledPluginDependencies,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSystem(nil)
			err := s.CanInstallWith(tt.factory, tt.assumed)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}

			assert.Equal(t, tt.wantType, TypeOf(err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
			assert.Empty(t, s.LoadedNames())
		})
	}
}
