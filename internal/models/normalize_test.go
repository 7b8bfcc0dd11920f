package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain ascii", input: "Baltic Trade", expected: "baltic trade"},
		{name: "latvian macrons", input: "Rīgas Piena Kombināts", expected: "rigas piena kombinats"},
		{name: "cedillas and carons", input: "Ķēniņš Žagars Čaks", expected: "kenins zagars caks"},
		{name: "digits untouched", input: "SIA 40003021807", expected: "sia 40003021807"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSearch(tt.input))
		})
	}
}

func TestCompany_ComputeNormalized(t *testing.T) {
	company := &Company{
		Name:               "Lāčplēša Alus",
		RegistrationNumber: "40003021807",
		TaxNumber:          "LV40003021807",
		Owners: []Owner{
			{Name: "Pēteris Ozoliņš"},
			{Name: "Anna Liepiņa", IsHistorical: true},
		},
	}

	company.ComputeNormalized()

	assert.Equal(t, "lacplesa alus", company.NormalizedName)
	assert.Equal(t, "40003021807", company.NormalizedRegNum)
	assert.Equal(t, "lv40003021807", company.NormalizedTaxNum)
	assert.Equal(t, "peteris ozolins", company.Owners[0].NormalizedName)
	assert.Equal(t, "anna liepina", company.Owners[1].NormalizedName)
}

func TestCompany_MatchesSearch(t *testing.T) {
	company := &Company{
		Name:               "Lāčplēša Alus",
		RegistrationNumber: "40003021807",
		TaxNumber:          "LV40003021807",
		Owners: []Owner{
			{Name: "Pēteris Ozoliņš"},
			{Name: "Vecais Īpašnieks", IsHistorical: true},
		},
	}
	company.ComputeNormalized()

	tests := []struct {
		name    string
		term    string
		matches bool
	}{
		{name: "name substring", term: "lacplesa", matches: true},
		{name: "registration number", term: "40003021807", matches: true},
		{name: "tax number prefix", term: "lv4000", matches: true},
		{name: "current owner", term: "ozolins", matches: true},
		{name: "historical owner excluded", term: "ipasnieks", matches: false},
		{name: "no match", term: "daugava", matches: false},
		{name: "empty term", term: "", matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, company.MatchesSearch(tt.term))
		})
	}
}
