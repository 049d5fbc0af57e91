package auth

import (
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
)

// Capability names a gated action. Every gate goes through Can or Authorize.
type Capability string

const (
	CapEditComputationRules  Capability = "edit_computation_rules"
	CapSubmitProgress        Capability = "submit_progress"
	CapManageProjectProgress Capability = "manage_project_progress"
	CapCreateProjects        Capability = "create_projects"
	CapManageCatalog         Capability = "manage_catalog"
)

var capabilityRoles = map[Capability][]domain.RoleTag{
	CapEditComputationRules:  {domain.RoleAdministrator, domain.RoleGoalManager, domain.RoleFormulaEditor},
	CapSubmitProgress:        {domain.RoleAdministrator, domain.RoleDataOfficer},
	CapManageProjectProgress: {domain.RoleAdministrator, domain.RoleDataOfficer},
	CapCreateProjects:        {domain.RoleAdministrator, domain.RoleGoalManager},
	CapManageCatalog:         {domain.RoleAdministrator},
}

func Allowed(role domain.RoleTag, required ...domain.RoleTag) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}

// Can reports whether the session holds c. A nil session holds nothing.
func Can(session *domain.Session, c Capability) bool {
	if session == nil {
		return false
	}
	return Allowed(session.RoleID, capabilityRoles[c]...)
}

// Authorize is Can as an error: ErrUnauthorized without a session, ErrForbidden without the role.
func Authorize(session *domain.Session, c Capability) error {
	if session == nil {
		return constants.ErrUnauthorized
	}
	if !Can(session, c) {
		return constants.ErrForbidden
	}
	return nil
}

// Capabilities lists what the session may do, in a fixed order.
func Capabilities(session *domain.Session) []Capability {
	all := []Capability{
		CapEditComputationRules,
		CapSubmitProgress,
		CapManageProjectProgress,
		CapCreateProjects,
		CapManageCatalog,
	}

	res := make([]Capability, 0, len(all))
	for _, c := range all {
		if Can(session, c) {
			res = append(res, c)
		}
	}
	return res
}
