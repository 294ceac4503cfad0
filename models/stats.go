package models

// PropertyStats aggregates properties inside a scope.
type PropertyStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	ByType       map[string]int `json:"byType"`
	TotalValue   float64        `json:"totalValue"`
	AveragePrice float64        `json:"averagePrice"`
}

// ClientStats aggregates clients inside a scope.
type ClientStats struct {
	Total              int `json:"total"`
	NewLast30Days      int `json:"newLast30Days"`
	WithActiveDeals    int `json:"withActiveDeals"`
	WithoutTransaction int `json:"withoutTransactions"`
}

// TransactionStats aggregates transactions inside a scope.
type TransactionStats struct {
	Total           int                `json:"total"`
	ByStatus        map[string]int     `json:"byStatus"`
	ByType          map[string]int     `json:"byType"`
	TotalAmount     float64            `json:"totalAmount"`
	TotalCommission float64            `json:"totalCommission"`
	AmountByStatus  map[string]float64 `json:"amountByStatus"`
}

// UserStats counts accounts by role.
type UserStats struct {
	Total  int            `json:"total"`
	ByRole map[string]int `json:"byRole"`
}

// DashboardStats is the global overview. It is never scoped.
type DashboardStats struct {
	Properties   PropertyStats    `json:"properties"`
	Clients      ClientStats      `json:"clients"`
	Transactions TransactionStats `json:"transactions"`
}

func EmptyPropertyStats() PropertyStats {
	return PropertyStats{ByStatus: map[string]int{}, ByType: map[string]int{}}
}

func EmptyTransactionStats() TransactionStats {
	return TransactionStats{ByStatus: map[string]int{}, ByType: map[string]int{}, AmountByStatus: map[string]float64{}}
}

func EmptyUserStats() UserStats {
	return UserStats{ByRole: map[string]int{}}
}

func EmptyDashboardStats() DashboardStats {
	return DashboardStats{Properties: EmptyPropertyStats(), Transactions: EmptyTransactionStats()}
}
