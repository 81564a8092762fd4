package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadType distinguishes mortgage and insurance enquiries
type LeadType string

const (
	LeadMortgage  LeadType = "mortgage"
	LeadInsurance LeadType = "insurance"
)

// CalculationClassic marks a calculation coming from the desired-loan calculator
const CalculationClassic = "classic"

// Contact holds the visitor's contact details
type Contact struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	WantAgentOffers bool   `json:"wantAgentOffers,omitempty"`
}

// Calculation holds the inputs the visitor entered. Wizard leads fill the
// location fields, classic leads fill DesiredLoan.
type Calculation struct {
	Type         string  `json:"type,omitempty"`
	Region       string  `json:"region,omitempty"`
	Location     string  `json:"location,omitempty"`
	PropertyType string  `json:"propertyType,omitempty"`
	AreaSize     float64 `json:"areaSize,omitempty"`
	Income       float64 `json:"income"`
	Cash         float64 `json:"cash"`
	DesiredLoan  float64 `json:"desiredLoan,omitempty"`
	IsPossible   *bool   `json:"isPossible,omitempty"`
}

// IsClassic reports whether the calculation came from the desired-loan calculator
func (c *Calculation) IsClassic() bool {
	return c != nil && c.Type == CalculationClassic
}

// ResultSummary is the verdict shown to the visitor
type ResultSummary struct {
	IsSuccess       bool    `json:"isSuccess"`
	Status          string  `json:"status,omitempty"`
	MaxLoan         float64 `json:"maxLoan"`
	FailReason      string  `json:"failReason,omitempty"`
	MaxAffordableM2 *int    `json:"maxAffordableM2,omitempty"`
}

// LeadRequest is the payload of a lead submission
type LeadRequest struct {
	Contact     Contact        `json:"contact"`
	Calculation *Calculation   `json:"calculation,omitempty"`
	Result      *ResultSummary `json:"result,omitempty"`
	Type        LeadType       `json:"type"`
	Topic       string         `json:"topic,omitempty"`
	Note        string         `json:"note,omitempty"`
}

// Lead is an accepted submission ready for notification
type Lead struct {
	ID         uuid.UUID
	ReceivedAt time.Time
	LeadRequest
}
