package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
)

// Poderes (capacidades) que se asignan a los usuarios.
const (
	PowerProductBuy  = "PRODUCT_BUY"
	PowerInventory   = "INVENTORY"
	PowerProductSell = "PRODUCT_SELL"
)

// AllPowers lista de poderes sembrados al arrancar.
var AllPowers = []string{PowerProductBuy, PowerInventory, PowerProductSell}

// User representa un usuario del sistema (empleado, admin o super admin).
// Los pedidos lo referencian como encargado (incharge) y como creador.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt
	Name         string
	ContactNo    string
	Role         string
	Verified     bool
	Active       bool
	Powers       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
