package core

// DailyTotal is the summed amount for one calendar day, keyed YYYY-MM-DD.
type DailyTotal struct {
	Day   string
	Total Money
}

// CategoryTotal is the summed amount for one category within a window.
type CategoryTotal struct {
	Category string
	Total    Money
}
