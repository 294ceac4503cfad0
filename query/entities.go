package query

// Filter registries per entity. Column lists here are scanned positionally by
// database/queries and must stay in sync with it.

var Clients = Spec{
	Alias:       "c",
	From:        "clients c JOIN users a ON a.id = c.agent_id",
	OwnerColumn: "c.agent_id",
	Select: `c.id, c.first_name, c.last_name, c.email, c.phone, c.address, c.preferences,
		c.agent_id, c.created_at, c.updated_at, a.name, a.email,
		(SELECT COUNT(*) FROM transactions t WHERE t.client_id = c.id) AS transaction_count`,
	Fields: map[string]Field{
		"search":  Search("c.first_name", "c.last_name", "c.email", "c.phone"),
		"email":   Exact("c.email"),
		"agentId": UUID("c.agent_id"),
	},
}

var Properties = Spec{
	Alias:       "p",
	From:        "properties p JOIN users o ON o.id = p.owner_id",
	OwnerColumn: "p.owner_id",
	Select: `p.id, p.title, p.description, p.type, p.status, p.price, p.address, p.city,
		p.state, p.zip_code, p.bedrooms, p.bathrooms, p.area, p.year_built, p.features,
		p.images, p.owner_id, p.created_at, p.updated_at, o.name, o.email,
		(SELECT COUNT(*) FROM transactions t WHERE t.property_id = p.id) AS transaction_count`,
	Fields: map[string]Field{
		"search":    Search("p.title", "p.description", "p.address", "p.city"),
		"type":      Enum("p.type"),
		"status":    Enum("p.status"),
		"city":      Search("p.city"),
		"minPrice":  Min("p.price"),
		"maxPrice":  Max("p.price"),
		"bedrooms":  Min("p.bedrooms"),
		"bathrooms": Min("p.bathrooms"),
		"ownerId":   UUID("p.owner_id"),
	},
}

var Transactions = Spec{
	Alias: "t",
	From: `transactions t
		JOIN properties p ON p.id = t.property_id
		JOIN clients c ON c.id = t.client_id
		JOIN users a ON a.id = t.agent_id`,
	OwnerColumn: "t.agent_id",
	Select: `t.id, t.type, t.status, t.amount, t.commission, t.notes, t.property_id,
		t.client_id, t.agent_id, t.created_at, t.updated_at,
		p.title, p.address, p.price, c.first_name, c.last_name, c.email, a.name, a.email`,
	Fields: map[string]Field{
		"search":     Search("t.notes", "p.title", "c.first_name", "c.last_name"),
		"type":       Enum("t.type"),
		"status":     Enum("t.status"),
		"propertyId": UUID("t.property_id"),
		"clientId":   UUID("t.client_id"),
		"agentId":    UUID("t.agent_id"),
		"minAmount":  Min("t.amount"),
		"maxAmount":  Max("t.amount"),
	},
}

// Users scopes on the row id itself: an agent only ever sees their own account.
var Users = Spec{
	Alias:       "u",
	From:        "users u",
	OwnerColumn: "u.id",
	Select: `u.id, u.email, u.name, u.role, u.created_at, u.updated_at,
		(SELECT COUNT(*) FROM properties p WHERE p.owner_id = u.id) AS property_count,
		(SELECT COUNT(*) FROM clients c WHERE c.agent_id = u.id) AS client_count,
		(SELECT COUNT(*) FROM transactions t WHERE t.agent_id = u.id) AS transaction_count`,
	Fields: map[string]Field{
		"search": Search("u.name", "u.email"),
		"role":   Enum("u.role"),
	},
}
