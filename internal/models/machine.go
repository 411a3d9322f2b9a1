package models

// Machine is a shop-floor machine. Type and Code are display metadata.
type Machine struct {
	ID     string `gorm:"primaryKey;size:64"`
	Code   string `gorm:"size:32"`
	Type   string `gorm:"size:32"`
	Active bool   `gorm:"default:true"`
}

// UserMachine links a user to a machine they operate. Only active rows
// count toward visibility. Active carries no column default: a deactivated
// row written through GORM must stay false.
type UserMachine struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"size:64;not null;index:idx_user_machine"`
	MachineID string `gorm:"size:64;not null;index:idx_user_machine"`
	Active    bool   `gorm:"index"`
}
