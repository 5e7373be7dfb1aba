package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "user", want: RoleUser},
		{in: "U", want: RoleUser},
		{in: " Assistant ", want: RoleAssistant},
		{in: "a", want: RoleAssistant},
		{in: "system", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTargetRole(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMatchMode(t *testing.T) {
	m, err := ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	m, err = ParseMatchMode("PREFIX")
	require.NoError(t, err)
	assert.Equal(t, MatchPrefix, m)

	_, err = ParseMatchMode("fuzzy")
	assert.Error(t, err)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("user").Valid())
	assert.Equal(t, "assistant", RoleAssistant.Class())

	r, ok := MatchRole("ASSISTANT", MatchExact)
	assert.True(t, ok)
	assert.Equal(t, RoleAssistant, r)

	_, ok = MatchRole("", MatchPrefix)
	assert.False(t, ok)
}
