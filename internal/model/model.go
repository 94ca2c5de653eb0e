package model

// AllModels lists every table for migration, in dependency order.
func AllModels() []any {
	return []any{
		&User{},
		&Organization{},
		&Service{},
		&Appointment{},
	}
}
