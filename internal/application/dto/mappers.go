package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// Conversión entidad -> respuesta. Compartidas por los casos de uso y el dashboard.

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

func ToCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		Subdomain:    c.Subdomain,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		Plan:         string(c.Plan),
		MaxUsers:     c.MaxUsers,
		MaxStorageGB: c.MaxStorageGB,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}

func ToLeadResponse(l *entity.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		FirstName:      l.FirstName,
		LastName:       l.LastName,
		FullName:       l.FullName(),
		Email:          l.Email,
		Phone:          l.Phone,
		CompanyName:    l.CompanyName,
		JobTitle:       l.JobTitle,
		Source:         string(l.Source),
		Status:         string(l.Status),
		AssignedTo:     l.AssignedTo,
		EstimatedValue: l.EstimatedValue,
		Notes:          l.Notes,
		NextFollowUp:   l.NextFollowUp,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func ToCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		LeadID:      c.LeadID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    c.FullName(),
		Email:       c.Email,
		Phone:       c.Phone,
		CompanyName: c.CompanyName,
		TaxID:       c.TaxID,
		Address:     c.Address,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
	}
}

func ToProductResponse(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		TaxRate:     p.TaxRate,
		Unit:        p.Unit,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
	if p.CostPrice.Valid {
		cost := p.CostPrice.Decimal
		out.CostPrice = &cost
	}
	return out
}

func ToActivityResponse(a *entity.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Type:        string(a.Type),
		Subject:     a.Subject,
		Description: a.Description,
		UserID:      a.UserID,
		LeadID:      a.LeadID,
		CustomerID:  a.CustomerID,
		CreatedAt:   a.CreatedAt,
	}
}

func ToTaskResponse(t *entity.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		AssignedTo:  t.AssignedTo,
		LeadID:      t.LeadID,
		CustomerID:  t.CustomerID,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
	}
}

func toTotals(t entity.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:       t.Subtotal,
		DiscountAmount: t.DiscountAmount,
		TaxAmount:      t.TaxAmount,
		Total:          t.Total,
	}
}

func toItems(items []entity.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
			LineTotal:       it.LineTotal,
		})
	}
	return out
}

func ToQuotationResponse(q *entity.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:                 q.ID,
		Number:             q.Number,
		CustomerID:         q.CustomerID,
		Subject:            q.Subject,
		Status:             string(q.Status),
		ValidUntil:         q.ValidUntil,
		Totals:             toTotals(q.Totals),
		Notes:              q.Notes,
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		Items:              toItems(q.Items),
		CreatedAt:          q.CreatedAt,
	}
}

func ToInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		CustomerID:  inv.CustomerID,
		QuotationID: inv.QuotationID,
		Subject:     inv.Subject,
		Status:      string(inv.Status),
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		PaidAt:      inv.PaidAt,
		Totals:      toTotals(inv.Totals),
		Notes:       inv.Notes,
		Items:       toItems(inv.Items),
		CreatedAt:   inv.CreatedAt,
	}
}

func ToSubscriptionResponse(s *entity.Subscription) SubscriptionResponse {
	limits := s.Plan.Limits()
	return SubscriptionResponse{
		ID:                 s.ID,
		Plan:               string(s.Plan),
		Status:             string(s.Status),
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
		MaxUsers:           limits.MaxUsers,
		MaxStorageGB:       limits.MaxStorageGB,
	}
}

// NullDecimal convierte un puntero opcional de la request.
func NullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
