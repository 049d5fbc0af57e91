package auth

import (
	"testing"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
)

func TestCapabilityMatrix(t *testing.T) {
	tests := []struct {
		capability Capability
		allowed    []domain.RoleTag
	}{
		{CapEditComputationRules, []domain.RoleTag{1, 2, 4}},
		{CapSubmitProgress, []domain.RoleTag{1, 3}},
		{CapManageProjectProgress, []domain.RoleTag{1, 3}},
		{CapCreateProjects, []domain.RoleTag{1, 2}},
		{CapManageCatalog, []domain.RoleTag{1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.capability), func(t *testing.T) {
			for role := domain.RoleTag(0); role <= 5; role++ {
				want := Allowed(role, tt.allowed...)
				assert.Equal(t, want, Can(&domain.Session{UserID: 1, RoleID: role}, tt.capability), "role %d", role)
			}
			assert.False(t, Can(nil, tt.capability))
		})
	}
}

func TestAuthorize(t *testing.T) {
	assert.ErrorIs(t, Authorize(nil, CapSubmitProgress), constants.ErrUnauthorized)
	assert.ErrorIs(t, Authorize(&domain.Session{RoleID: domain.RoleFormulaEditor}, CapSubmitProgress), constants.ErrForbidden)
	assert.NoError(t, Authorize(&domain.Session{RoleID: domain.RoleFormulaEditor}, CapEditComputationRules))
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t,
		[]Capability{CapSubmitProgress, CapManageProjectProgress},
		Capabilities(&domain.Session{RoleID: domain.RoleDataOfficer}),
	)
	assert.Empty(t, Capabilities(nil))
}
