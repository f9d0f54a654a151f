package domain

// WeeklyStats aggregates the trailing window of workouts.
// TotalDuration is nil when no workout in the window recorded a duration.
type WeeklyStats struct {
	TotalDuration *int `json:"total_duration"`
	TotalWorkouts int  `json:"total_workouts"`
}

// PersonalRecord is the heaviest weight logged for one exercise name.
type PersonalRecord struct {
	Name      string  `bson:"_id" json:"name"`
	MaxWeight float64 `bson:"maxWeight" json:"max_weight"`
}

// DashboardStats is the per-user summary returned by the dashboard.
type DashboardStats struct {
	RecentWorkouts  []WorkoutSummary
	WeeklyStats     WeeklyStats
	PersonalRecords []PersonalRecord
}
