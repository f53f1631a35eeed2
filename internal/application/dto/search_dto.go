package dto

// SearchResponse resultados de la búsqueda global, hasta SearchLimit por tipo.
type SearchResponse struct {
	Query      string              `json:"query"`
	Leads      []LeadResponse      `json:"leads"`
	Customers  []CustomerResponse  `json:"customers"`
	Products   []ProductResponse   `json:"products"`
	Quotations []QuotationResponse `json:"quotations"`
	Invoices   []InvoiceResponse   `json:"invoices"`
}
