package company

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regportal/internal/models"
	"regportal/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	seed := []*models.Company{
		{
			ID:                 "c-1",
			Name:               "Rīgas Piena Kombināts",
			RegistrationNumber: "40003456789",
			TaxNumber:          "LV40003456789",
			Owners: []models.Owner{
				{Name: "Jānis Bērziņš", SharePercentage: 70},
				{Name: "Bijušais Īpašnieks", SharePercentage: 30, IsHistorical: true},
			},
		},
		{
			ID:                 "c-2",
			Name:               "Liepājas Papīrs",
			RegistrationNumber: "40009876543",
			TaxNumber:          "LV40009876543",
		},
		{
			ID:                 "c-3",
			Name:               "Rīgas Satiksme",
			RegistrationNumber: "40001111111",
			TaxNumber:          "LV40001111111",
		},
	}
	for _, c := range seed {
		require.NoError(t, store.SaveCompany(ctx, c))
	}
	return NewService(store)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("unaccented query matches accented names", func(t *testing.T) {
		results, err := svc.Search(ctx, "rigas")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("matches current owner names", func(t *testing.T) {
		results, err := svc.Search(ctx, "berzins")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "c-1", results[0].ID)
	})

	t.Run("historical owners are not searchable", func(t *testing.T) {
		results, err := svc.Search(ctx, "bijusais")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("short query returns empty result", func(t *testing.T) {
		results, err := svc.Search(ctx, "r")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("whitespace-only query returns empty result", func(t *testing.T) {
		results, err := svc.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("overlong query rejected", func(t *testing.T) {
		_, err := svc.Search(ctx, strings.Repeat("a", MaxQueryLength+1))
		assert.ErrorIs(t, err, ErrQueryTooLong)
	})

	t.Run("no matches", func(t *testing.T) {
		results, err := svc.Search(ctx, "nekas tāds nepastāv")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	company, err := svc.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Rīgas Piena Kombināts", company.Name)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompare(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("resolves all requested companies in order", func(t *testing.T) {
		companies, err := svc.Compare(ctx, []string{"c-2", "c-1"})
		require.NoError(t, err)
		require.Len(t, companies, 2)
		assert.Equal(t, "c-2", companies[0].ID)
		assert.Equal(t, "c-1", companies[1].ID)
	})

	t.Run("missing ids fail the whole request", func(t *testing.T) {
		_, err := svc.Compare(ctx, []string{"c-1", "ghost-1", "ghost-2"})
		var missingErr *MissingError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []string{"ghost-1", "ghost-2"}, missingErr.MissingIDs)
	})
}

func TestBatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("skips unknown ids", func(t *testing.T) {
		companies, err := svc.Batch(ctx, []string{"c-1", "ghost", "c-3"})
		require.NoError(t, err)
		assert.Len(t, companies, 2)
	})

	t.Run("empty request", func(t *testing.T) {
		companies, err := svc.Batch(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, companies)
	})

	t.Run("over the cap rejected", func(t *testing.T) {
		ids := make([]string, BatchLimit+1)
		for i := range ids {
			ids[i] = "c-1"
		}
		_, err := svc.Batch(ctx, ids)
		assert.ErrorIs(t, err, ErrBatchTooBig)
	})
}

func TestSearch_CountsCharactersNotBytes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Each "ā" is two bytes in UTF-8; the cap is on characters, so a
	// maximum-length Latvian query must still be accepted.
	query := strings.Repeat("ā", MaxQueryLength)
	_, err := svc.Search(ctx, query)
	require.NoError(t, err)

	_, err = svc.Search(ctx, query+"ā")
	assert.ErrorIs(t, err, ErrQueryTooLong)
}

func TestGet_ShapesRelationsForDisplay(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	year := func(y int) time.Time {
		return time.Date(y, 1, 10, 0, 0, 0, 0, time.UTC)
	}
	seed := []*models.Company{
		{
			ID:                 "c-hist",
			Name:               "Daugavas Būve",
			RegistrationNumber: "40005555555",
			Owners: []models.Owner{
				{Name: "Mazais Dalībnieks", SharePercentage: 30},
				{Name: "Bijušais Īpašnieks", SharePercentage: 100, IsHistorical: true},
				{Name: "Lielais Dalībnieks", SharePercentage: 70},
			},
			BoardMembers: []models.BoardMember{
				{Name: "Vecā Priekšsēdētāja", Role: "Chair", AppointedDate: year(2015), IsHistorical: true},
				{Name: "Valdes Loceklis", Role: "Member", AppointedDate: year(2019)},
				{Name: "Valdes Priekšsēdētājs", Role: "Chair", AppointedDate: year(2022)},
			},
			BeneficialOwners: []models.BeneficialOwner{
				{Name: "Agrais Labuma Guvējs", DateFrom: year(2018)},
				{Name: "Jaunais Labuma Guvējs", DateFrom: year(2021)},
			},
			TaxPayments: []models.TaxPayment{
				{Year: 2022, Amount: 100}, {Year: 2024, Amount: 300}, {Year: 2023, Amount: 200},
			},
			FinancialRatios: []models.FinancialRatio{
				{Year: 2023, Turnover: 1000}, {Year: 2024, Turnover: 2000},
			},
		},
		{
			ID:                 "c-plain",
			Name:               "Ventas Tirdzniecība",
			RegistrationNumber: "40006666666",
		},
	}
	for _, c := range seed {
		require.NoError(t, store.SaveCompany(ctx, c))
	}
	svc := NewService(store)

	t.Run("detail excludes historical entries and orders relations", func(t *testing.T) {
		got, err := svc.Get(ctx, "c-hist")
		require.NoError(t, err)

		require.Len(t, got.Owners, 2)
		assert.Equal(t, "Lielais Dalībnieks", got.Owners[0].Name)
		assert.Equal(t, "Mazais Dalībnieks", got.Owners[1].Name)

		require.Len(t, got.BoardMembers, 2)
		assert.Equal(t, "Valdes Priekšsēdētājs", got.BoardMembers[0].Name)
		assert.Equal(t, "Valdes Loceklis", got.BoardMembers[1].Name)

		require.Len(t, got.BeneficialOwners, 2)
		assert.Equal(t, "Jaunais Labuma Guvējs", got.BeneficialOwners[0].Name)

		var taxYears []int
		for _, tp := range got.TaxPayments {
			taxYears = append(taxYears, tp.Year)
		}
		assert.Equal(t, []int{2024, 2023, 2022}, taxYears)
		assert.Equal(t, 2024, got.FinancialRatios[0].Year)
	})

	t.Run("comparison applies the same shaping", func(t *testing.T) {
		companies, err := svc.Compare(ctx, []string{"c-hist", "c-plain"})
		require.NoError(t, err)
		require.Len(t, companies, 2)

		require.Len(t, companies[0].Owners, 2)
		for _, o := range companies[0].Owners {
			assert.False(t, o.IsHistorical)
		}
		require.Len(t, companies[0].BoardMembers, 2)
		for _, m := range companies[0].BoardMembers {
			assert.False(t, m.IsHistorical)
		}
	})
}
