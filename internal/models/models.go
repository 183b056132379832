package models

// All returns every model of the canonical schema, in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Room{},
		&Issue{},
		&Upload{},
		&IfcFile{},
		&Delivery{},
	}
}
