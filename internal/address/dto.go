package address

import (
	"github.com/google/uuid"

	"github.com/zestcart/zestcart-backend/pkg/db/models"
)

// View is one saved address as returned to clients.
type View struct {
	ID      uuid.UUID `json:"id"`
	Label   string    `json:"label"`
	Line1   string    `json:"line1"`
	Line2   *string   `json:"line2,omitempty"`
	City    string    `json:"city"`
	Pincode string    `json:"pincode"`
	Lat     float64   `json:"lat"`
	Lng     float64   `json:"lng"`
}

// CreateInput carries a new address for the authenticated customer.
type CreateInput struct {
	CustomerID uuid.UUID
	Label      string
	Line1      string
	Line2      *string
	City       string
	Pincode    string
	Lat        float64
	Lng        float64
}

func toView(row *models.Address) *View {
	return &View{
		ID:      row.ID,
		Label:   row.Label,
		Line1:   row.Line1,
		Line2:   row.Line2,
		City:    row.City,
		Pincode: row.Pincode,
		Lat:     row.Lat,
		Lng:     row.Lng,
	}
}
