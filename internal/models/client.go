package models

// Bike is a bicycle owned by a client. Bikes live in the externally-owned
// master data store; the register core only reads them.
type Bike struct {
	ID    string `json:"id"`
	Model string `json:"model"`
	Brand string `json:"brand"`
	Color string `json:"color"`
}

// Snapshot captures the bike's descriptive fields for denormalized storage
// on an entry.
func (b Bike) Snapshot() BikeSnapshot {
	return BikeSnapshot{Model: b.Model, Brand: b.Brand, Color: b.Color}
}

// Client is a registered lot client with their bikes. Like Bike it is owned
// by the master data collaborator and is read-only for the core.
type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Category string `json:"category"`
	Bikes    []Bike `json:"bikes"`
}

// BikeByID returns the client's bike with the given id, if any.
func (c *Client) BikeByID(id string) (Bike, bool) {
	for _, b := range c.Bikes {
		if b.ID == id {
			return b, true
		}
	}
	return Bike{}, false
}
