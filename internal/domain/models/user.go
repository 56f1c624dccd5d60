package models

// Роли пользователей
const (
	RoleCustomer         = "customer"
	RoleMerchantEmployee = "merchant_employee"
)

// User представляет пользователя: покупателя или сотрудника магазина
type User struct {
	ID       int64
	Name     string
	Address  string
	City     string
	State    string
	Zip      string
	Email    string
	PassHash []byte
	Role     string
	// MerchantID заполнен только для сотрудников магазина
	MerchantID *int64
}

// IsMerchantEmployee сообщает, привязан ли пользователь к магазину
func (u *User) IsMerchantEmployee() bool {
	return u.Role == RoleMerchantEmployee && u.MerchantID != nil
}
