package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/hypo-service/internal/calculator"
	"github.com/Dan9191/hypo-service/internal/models"
	"github.com/Dan9191/hypo-service/internal/utils"
	"github.com/google/uuid"
)

// SubmitLead validates a lead and sends the owner notification.
// Nothing is retried; a delivery failure is returned to the caller.
func (s *Service) SubmitLead(ctx context.Context, req models.LeadRequest) (*models.Lead, error) {
	req.Contact.Name = strings.TrimSpace(req.Contact.Name)
	req.Contact.Email = strings.TrimSpace(req.Contact.Email)
	req.Contact.Phone = strings.TrimSpace(req.Contact.Phone)

	if req.Contact.Name == "" || req.Contact.Email == "" {
		return nil, ErrMissingContact
	}
	if err := utils.ValidateEmail(req.Contact.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}
	if req.Type != models.LeadMortgage && req.Type != models.LeadInsurance {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLeadType, req.Type)
	}

	if req.Type == models.LeadMortgage && req.Result == nil {
		summary, err := s.summarize(req.Calculation)
		if err != nil {
			return nil, err
		}
		req.Result = summary
	}

	lead := &models.Lead{
		ID:          uuid.New(),
		ReceivedAt:  s.now(),
		LeadRequest: req,
	}

	if err := s.notifier.SendLead(ctx, lead); err != nil {
		s.log.WithField("lead_id", lead.ID.String()).Errorf("Lead notification failed: %v", err)
		return nil, fmt.Errorf("failed to deliver lead: %w", err)
	}

	s.log.WithField("lead_id", lead.ID.String()).Infof("Lead accepted: %s (%s)", lead.Contact.Email, lead.Type)
	return lead, nil
}

// summarize computes the verdict for a wizard calculation the client sent
// without a result. Classic calculations and missing ones yield nil.
func (s *Service) summarize(calc *models.Calculation) (*models.ResultSummary, error) {
	if calc == nil || calc.IsClassic() || calc.Location == "" || calc.PropertyType == "" {
		return nil, nil
	}

	res, err := affordability(s.store.Current(), AffordabilityRequest{
		Income:       calc.Income,
		Cash:         calc.Cash,
		Location:     calc.Location,
		PropertyType: calc.PropertyType,
		AreaSize:     calc.AreaSize,
	})
	if err != nil {
		return nil, err
	}
	if calc.AreaSize == 0 {
		calc.AreaSize = res.AreaM2
	}

	return &models.ResultSummary{
		IsSuccess:       res.Status == calculator.StatusYes,
		Status:          string(res.Status),
		MaxLoan:         res.MaxLoan,
		FailReason:      string(res.FailReason),
		MaxAffordableM2: res.MaxAffordableM2,
	}, nil
}
