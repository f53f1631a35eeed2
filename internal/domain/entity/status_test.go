package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadStatus(t *testing.T) {
	for _, s := range LeadStatuses {
		got, err := ParseLeadStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseLeadStatus("won")
	assert.Error(t, err)
	assert.True(t, LeadClosedWon.IsClosed())
	assert.False(t, LeadNegotiation.IsClosed())
}

func TestQuotationStatus_Transiciones(t *testing.T) {
	assert.True(t, QuotationDraft.CanTransitionTo(QuotationSent))
	assert.True(t, QuotationRejected.CanTransitionTo(QuotationDraft))
	assert.False(t, QuotationDraft.CanTransitionTo(QuotationConverted), "converted solo se alcanza convirtiendo")
	assert.False(t, QuotationConverted.CanTransitionTo(QuotationDraft), "converted es terminal")

	assert.True(t, QuotationAccepted.CanConvert())
	assert.False(t, QuotationRejected.CanConvert())
	assert.False(t, QuotationConverted.CanConvert())
}

func TestInvoiceStatus_CanMarkPaid(t *testing.T) {
	assert.True(t, InvoiceSent.CanMarkPaid())
	assert.True(t, InvoiceOverdue.CanMarkPaid())
	assert.False(t, InvoicePaid.CanMarkPaid())
	assert.False(t, InvoiceCancelled.CanMarkPaid())
}

func TestPlan_LimitesYRank(t *testing.T) {
	assert.Equal(t, PlanLimits{MaxUsers: 5, MaxStorageGB: 10}, PlanStarter.Limits())
	assert.Equal(t, PlanLimits{MaxUsers: 20, MaxStorageGB: 100}, PlanPro.Limits())
	assert.Equal(t, Unlimited, PlanEnterprise.Limits().MaxUsers)
	assert.Less(t, PlanStarter.Rank(), PlanPro.Rank())
	assert.Less(t, PlanPro.Rank(), PlanEnterprise.Rank())

	_, err := ParsePlan("gold")
	assert.Error(t, err)
}

func TestCompany_CanAddUser(t *testing.T) {
	c := &Company{}
	c.ApplyPlan(PlanStarter)
	assert.True(t, c.CanAddUser(4))
	assert.False(t, c.CanAddUser(5))

	c.ApplyPlan(PlanEnterprise)
	assert.True(t, c.CanAddUser(10_000))
}

func TestParseLeadSource_VacioEsOther(t *testing.T) {
	src, err := ParseLeadSource("")
	require.NoError(t, err)
	assert.Equal(t, SourceOther, src)
	_, err = ParseLeadSource("tv")
	assert.Error(t, err)
}
