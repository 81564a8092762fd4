package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/hypo-service/internal/config"
	"github.com/Dan9191/hypo-service/internal/models"
	"github.com/google/uuid"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mortgageLead() *models.Lead {
	m2 := 55
	return &models.Lead{
		ID:         uuid.MustParse("7f1c2a9e-3b5d-4e6f-8a9b-0c1d2e3f4a5b"),
		ReceivedAt: time.Now(),
		LeadRequest: models.LeadRequest{
			Type:    models.LeadMortgage,
			Contact: models.Contact{Name: "Jan Novák", Email: "jan@example.com", Phone: "+420777111222", WantAgentOffers: true},
			Calculation: &models.Calculation{
				Region:       "Rožnovsko",
				Location:     "Rožnov p.R.",
				PropertyType: "flat_renovated",
				AreaSize:     70,
				Income:       45000,
				Cash:         500000,
			},
			Result: &models.ResultSummary{
				IsSuccess:       false,
				Status:          "NO",
				MaxLoan:         3859590,
				FailReason:      "LTV",
				MaxAffordableM2: &m2,
			},
		},
	}
}

func TestBuildMortgageEmail(t *testing.T) {
	e, err := BuildLeadEmail("noreply@example.com", "owner@example.com", mortgageLead())
	require.NoError(t, err)

	assert.Equal(t, "noreply@example.com", e.From)
	assert.Equal(t, []string{"owner@example.com"}, e.To)
	assert.Equal(t, []string{"jan@example.com"}, e.ReplyTo)
	assert.Equal(t, "Hypo Poptávka: Jan Novák (Rožnov p.R.)", e.Subject)

	body := string(e.HTML)
	assert.Contains(t, body, "Nová Hypo Poptávka")
	assert.Contains(t, body, "Rožnov p.R. (Rožnovsko)")
	assert.Contains(t, body, "Byt (rekonstruovaný)")
	assert.Contains(t, body, "45 000 Kč")
	assert.Contains(t, body, "500 000 Kč")
	assert.Contains(t, body, "3 859 590 Kč")
	assert.Contains(t, body, "ZAMÍTNUTO")
	assert.Contains(t, body, "LTV")
	assert.Contains(t, body, "55 m²")
	assert.Contains(t, body, "ANO")
	assert.Contains(t, body, "7f1c2a9e-3b5d-4e6f-8a9b-0c1d2e3f4a5b")
}

func TestBuildMortgageEmailHidesZeroArea(t *testing.T) {
	lead := mortgageLead()
	zero := 0
	lead.Result.MaxAffordableM2 = &zero

	e, err := BuildLeadEmail("noreply@example.com", "owner@example.com", lead)
	require.NoError(t, err)
	assert.NotContains(t, string(e.HTML), "Max dostupná plocha")

	lead.Result.MaxAffordableM2 = nil
	e, err = BuildLeadEmail("noreply@example.com", "owner@example.com", lead)
	require.NoError(t, err)
	assert.NotContains(t, string(e.HTML), "Max dostupná plocha")
}

func TestBuildClassicEmail(t *testing.T) {
	possible := true
	lead := &models.Lead{
		ID: uuid.New(),
		LeadRequest: models.LeadRequest{
			Type:    models.LeadMortgage,
			Contact: models.Contact{Name: "Eva", Email: "eva@example.com"},
			Calculation: &models.Calculation{
				Type:        models.CalculationClassic,
				Income:      35000,
				Cash:        200000,
				DesiredLoan: 2000000,
				IsPossible:  &possible,
			},
		},
	}

	e, err := BuildLeadEmail("from@example.com", "owner@example.com", lead)
	require.NoError(t, err)
	assert.Equal(t, "Hypo Poptávka: Eva (Klasická kalkulačka)", e.Subject)

	body := string(e.HTML)
	assert.Contains(t, body, "2 000 000 Kč")
	assert.Contains(t, body, "Neuveden")
	assert.NotContains(t, body, "Lokalita")
	assert.NotContains(t, body, "Výsledek kalkulace")
}

func TestBuildInsuranceEmailEscapes(t *testing.T) {
	lead := &models.Lead{
		ID: uuid.New(),
		LeadRequest: models.LeadRequest{
			Type:    models.LeadInsurance,
			Contact: models.Contact{Name: "<b>Mallory</b>", Email: "m@example.com"},
			Note:    `<script>alert("x")</script>`,
		},
	}

	e, err := BuildLeadEmail("from@example.com", "owner@example.com", lead)
	require.NoError(t, err)
	assert.Equal(t, "Poptávka Pojištění: <b>Mallory</b> (Obecný dotaz)", e.Subject)

	body := string(e.HTML)
	assert.Contains(t, body, "Nová Poptávka Pojištění")
	assert.Contains(t, body, "Obecný dotaz")
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<b>Mallory</b>")
	assert.Contains(t, body, "&lt;b&gt;Mallory&lt;/b&gt;")
	assert.NotContains(t, body, "Chci nabídky")
}

func newTestSender(send func(*email.Email) error) (*Sender, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	s := NewSender(&config.Config{SenderEmail: "from@example.com", OwnerEmail: "owner@example.com"}, logger)
	s.send = send
	return s, hook
}

func TestSendLead(t *testing.T) {
	var sent *email.Email
	s, hook := newTestSender(func(e *email.Email) error {
		sent = e
		return nil
	})

	require.NoError(t, s.SendLead(context.Background(), mortgageLead()))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"owner@example.com"}, sent.To)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "7f1c2a9e-3b5d-4e6f-8a9b-0c1d2e3f4a5b", hook.LastEntry().Data["lead_id"])
}

func TestSendLeadFailure(t *testing.T) {
	s, hook := newTestSender(func(*email.Email) error {
		return errors.New("connection refused")
	})

	err := s.SendLead(context.Background(), mortgageLead())
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestSendLeadCancelled(t *testing.T) {
	called := false
	s, _ := newTestSender(func(*email.Email) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.SendLead(ctx, mortgageLead()), context.Canceled)
	assert.False(t, called)
}
