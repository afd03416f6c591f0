package models

import "time"

// BusRouteStatus is the operating state of a route.
type BusRouteStatus string

const (
	BusRouteStatusActive    BusRouteStatus = "ACTIVE"
	BusRouteStatusInactive  BusRouteStatus = "INACTIVE"
	BusRouteStatusSuspended BusRouteStatus = "SUSPENDED"
)

var busRouteStatusDisplay = newDisplayTable(
	entry(BusRouteStatusActive, "Active", "green"),
	entry(BusRouteStatusInactive, "Inactive", "gray"),
	entry(BusRouteStatusSuspended, "Suspended", "red"),
)

func (s BusRouteStatus) Label() string { return busRouteStatusDisplay.lookup(s).Label }
func (s BusRouteStatus) Valid() bool   { return busRouteStatusDisplay.valid(s) }

// BusRoute is a transportation route with rider capacity.
type BusRoute struct {
	ID             int64          `db:"id" json:"id"`
	RouteNumber    string         `db:"route_number" json:"route_number"`
	Name           string         `db:"name" json:"name"`
	DriverID       *int64         `db:"driver_id" json:"driver_id,omitempty"`
	Capacity       int            `db:"capacity" json:"capacity"`
	AssignedRiders int            `db:"assigned_riders" json:"assigned_riders"`
	DepartureTime  *string        `db:"departure_time" json:"departure_time,omitempty"`
	EffectiveDate  *time.Time     `db:"effective_date" json:"effective_date,omitempty"`
	EndDate        *time.Time     `db:"end_date" json:"end_date,omitempty"`
	Status         BusRouteStatus `db:"status" json:"status"`
	AuditFields
}

// OccupancyPercentage returns riders/capacity as 0..100+, 0 for a route without capacity.
func (b *BusRoute) OccupancyPercentage() float64 {
	if b.Capacity <= 0 {
		return 0
	}
	return float64(b.AssignedRiders) * 100 / float64(b.Capacity)
}

// AvailableSeats never goes below zero.
func (b *BusRoute) AvailableSeats() int {
	if s := b.Capacity - b.AssignedRiders; s > 0 {
		return s
	}
	return 0
}

// IsFull is true when no seats remain.
func (b *BusRoute) IsFull() bool {
	return b.AvailableSeats() == 0
}

// IsOperating is true for an active route inside its effective window.
func (b *BusRoute) IsOperating(now time.Time) bool {
	return IsValidOn(b.Status == BusRouteStatusActive, Window{Start: b.EffectiveDate, End: b.EndDate}, now)
}
