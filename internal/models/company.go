package models

import "time"

// Company is a registered company as published by the business register,
// together with its related records. The Normalized* columns hold
// diacritic-folded lowercase copies of the searchable fields, precomputed
// at write time so search never has to scan and fold the whole table.
type Company struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	TaxNumber          string    `json:"tax_number"`
	Address            string    `json:"address,omitempty"`
	Founded            time.Time `json:"founded,omitempty"`

	NormalizedName    string `json:"-"`
	NormalizedRegNum  string `json:"-"`
	NormalizedTaxNum  string `json:"-"`

	Owners           []Owner           `json:"owners,omitempty"`
	BoardMembers     []BoardMember     `json:"board_members,omitempty"`
	BeneficialOwners []BeneficialOwner `json:"beneficial_owners,omitempty"`
	TaxPayments      []TaxPayment      `json:"tax_payments,omitempty"`
	FinancialRatios  []FinancialRatio  `json:"financial_ratios,omitempty"`
}

// Owner is a shareholder entry. Historical entries are kept for audit but
// excluded from the detail and comparison views.
type Owner struct {
	Name            string  `json:"name"`
	SharePercentage float64 `json:"share_percentage"`
	IsHistorical    bool    `json:"is_historical,omitempty"`

	NormalizedName string `json:"-"`
}

type BoardMember struct {
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	AppointedDate time.Time `json:"appointed_date"`
	IsHistorical  bool      `json:"is_historical,omitempty"`
}

type BeneficialOwner struct {
	Name     string    `json:"name"`
	DateFrom time.Time `json:"date_from"`
}

type TaxPayment struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

type FinancialRatio struct {
	Year      int     `json:"year"`
	Turnover  float64 `json:"turnover"`
	Profit    float64 `json:"profit"`
	Liquidity float64 `json:"liquidity"`
	Employees int     `json:"employees"`
}
