package domain

import "time"

// Customer owns accounts and loans.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name of the customer.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Branch is the bank branch an account is opened at.
type Branch struct {
	ID        string
	Name      string
	Code      string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
