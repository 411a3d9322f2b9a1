package access

import (
	"fmt"

	"github.com/sunpack/boxline/internal/models"
	"gorm.io/gorm"
)

// ResolveUserMachineIDs looks up the active machine assignments for a user
// and returns them as a MachineSet, or the bypass marker when the role set
// contains a bypass role. A non-bypass user with no active assignments gets
// an empty set, which filters everything out.
func ResolveUserMachineIDs(db *gorm.DB, userID string, roles RoleSet) (MachineSet, error) {
	if roles.HasBypass() {
		return Bypass(), nil
	}

	var rows []models.UserMachine
	if err := db.Where("user_id = ? AND active = ?", userID, true).Find(&rows).Error; err != nil {
		return MachineSet{}, fmt.Errorf("access: machine assignments for %s: %w", userID, err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.MachineID)
	}
	return NewMachineSet(ids...), nil
}
