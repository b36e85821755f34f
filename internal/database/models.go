package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// FlightClass is the fare tier of a seat.
type FlightClass string

const (
	ClassEconomy  FlightClass = "ECONOMY"
	ClassBusiness FlightClass = "BUSINESS"
	ClassFirst    FlightClass = "FIRST"
)

// Normalize upper-cases and trims a raw class value.
func (c FlightClass) Normalize() FlightClass {
	return FlightClass(strings.ToUpper(strings.TrimSpace(string(c))))
}

// Valid reports whether the class is one of the three known tiers.
func (c FlightClass) Valid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirst:
		return true
	}
	return false
}

// Channel is the purchase channel of a passenger.
type Channel string

const (
	ChannelCounter Channel = "COUNTER"
	ChannelOnline  Channel = "ONLINE"
)

// Valid reports whether the channel is a known purchase channel.
func (ch Channel) Valid() bool {
	return ch == ChannelCounter || ch == ChannelOnline
}

// Date is a calendar date without a time component, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner so pgx can read DATE columns.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = Date{v}
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// Value implements driver.Valuer for DATE parameters.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Flight represents a flight row. SeatsAvailable is an informational
// aggregate; the passenger manifest is authoritative for seat assignment.
type Flight struct {
	ID               int64     `json:"id"`
	FlightNumber     string    `json:"flightNumber"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	DepartureDate    Date      `json:"departureDate"`
	DepartureTime    string    `json:"departureTime"`
	ArrivalDate      Date      `json:"arrivalDate"`
	ArrivalTime      string    `json:"arrivalTime"`
	Price            float64   `json:"price"`
	SeatsAvailable   int       `json:"seatsAvailable"`
	EconomySeats     int       `json:"economySeats"`
	BusinessSeats    int       `json:"businessSeats"`
	FirstSeats       int       `json:"firstSeats"`
	Airline          string    `json:"airline"`
	AircraftType     string    `json:"aircraftType"`
	FlightStatus     string    `json:"flightStatus"`
	ImageURLs        []string  `json:"imageUrls"`
	Description      string    `json:"description"`
	RecommendationID *int64    `json:"recommendationId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Capacity returns the total seat capacity across all classes.
func (f *Flight) Capacity() int {
	return f.EconomySeats + f.BusinessSeats + f.FirstSeats
}

// Normalize trims free-text fields and upper-cases the flight number.
func (f *Flight) Normalize() {
	f.FlightNumber = strings.ToUpper(strings.TrimSpace(f.FlightNumber))
	f.Origin = strings.TrimSpace(f.Origin)
	f.Destination = strings.TrimSpace(f.Destination)
	f.Airline = strings.TrimSpace(f.Airline)
	f.AircraftType = strings.TrimSpace(f.AircraftType)
	f.FlightStatus = strings.TrimSpace(f.FlightStatus)
	f.Description = strings.TrimSpace(f.Description)
}

// Passenger represents a booked passenger. Created only through the
// booking service so seat validation cannot be bypassed.
type Passenger struct {
	ID             int64       `json:"id"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	DocumentNumber string      `json:"documentNumber"`
	Channel        Channel     `json:"channel"`
	FlightClass    FlightClass `json:"flightClass"`
	SeatNumber     string      `json:"seatNumber"`
	PurchasedAt    *time.Time  `json:"purchasedAt,omitempty"`
	FlightID       *int64      `json:"flightId,omitempty"`
}

// Recommendation is the promotion a flight may belong to. The booking
// core only reads it; writes happen in the promotions admin service.
type Recommendation struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"imageUrls"`
}
