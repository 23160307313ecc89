package model

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Group{},
		&GroupMember{},
		&Course{},
		&Post{},
		&Comment{},
		&AuditEvent{},
	}
}
