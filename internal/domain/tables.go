package domain

var Tables = []interface{}{
	// System
	&User{},
	&AuditLog{},
	// Catalog
	&Category{},
	&Product{},
	&Banner{},
	// Orders
	&Order{},
}
