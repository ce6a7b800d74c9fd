package activities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleMap_Promote(t *testing.T) {
	m := NewRoleMap()
	m.ByEmail["guest@example.com"] = RoleAssisting

	require.True(t, m.Promote("Guest@Example.com ", "u-guest"), "promote should report a change")
	assert.Equal(t, RoleAssisting, m.ByUID["u-guest"])
	assert.NotContains(t, m.ByEmail, "guest@example.com")

	// segunda vez: ya no hay entrada pendiente
	assert.False(t, m.Promote("guest@example.com", "u-guest"))
}

func TestRoleMap_Promote_KeepsExistingUIDRole(t *testing.T) {
	// si el uid ya tiene rol propio, la promoción solo limpia el email
	m := NewRoleMap()
	m.ByUID["u-guest"] = RoleEditor
	m.ByEmail["guest@example.com"] = RoleViewer

	require.True(t, m.Promote("guest@example.com", "u-guest"))
	assert.Equal(t, RoleEditor, m.ByUID["u-guest"])
	assert.Empty(t, m.ByEmail)
}

func TestRoleMap_EditorCount_IgnoresPending(t *testing.T) {
	m := NewRoleMap()
	m.ByUID["u1"] = RoleViewer
	m.ByEmail["x@example.com"] = RoleActivityLeader

	assert.Equal(t, 0, m.EditorCount(), "pending entries never count as editing accounts")

	m.ByUID["u2"] = RoleAssisting
	assert.Equal(t, 1, m.EditorCount())
}

func TestRoleMap_HasActivityLeader_ChecksBothMaps(t *testing.T) {
	m := NewRoleMap()
	assert.False(t, m.HasActivityLeader())

	m.ByEmail["x@example.com"] = RoleActivityLeader
	assert.True(t, m.HasActivityLeader(), "a pending leader still counts")

	delete(m.ByEmail, "x@example.com")
	m.ByUID["u1"] = RoleActivityLeader
	assert.True(t, m.HasActivityLeader())
}

func TestRoleMap_Clone_IsIndependent(t *testing.T) {
	m := NewRoleMap()
	m.ByUID["u1"] = RoleEditor
	m.ByEmail["x@example.com"] = RoleViewer

	c := m.Clone()
	c.ByUID["u1"] = RoleViewer
	c.Delete(RefEmail("x@example.com"))

	assert.Equal(t, RoleEditor, m.ByUID["u1"])
	assert.Contains(t, m.ByEmail, "x@example.com")
}

func TestRole_CanEdit(t *testing.T) {
	cases := map[Role]bool{
		RoleActivityLeader: true,
		RoleEditor:         true,
		RoleAssisting:      true,
		RoleViewer:         false,
		Role("Owner"):      false,
	}
	for role, want := range cases {
		assert.Equal(t, want, role.CanEdit(), "role %q", role)
	}
}
