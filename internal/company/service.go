// Package company serves the public company register read model: search,
// detail lookup, side-by-side comparison and batch resolution.
package company

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"regportal/internal/models"
	"regportal/internal/storage"
)

// Search constraints. Queries shorter than the minimum return no results
// rather than an error; longer ones are rejected.
const (
	MinQueryLength = 2
	MaxQueryLength = 100
	SearchLimit    = 10
	BatchLimit     = 10
)

var (
	ErrQueryTooLong = errors.New("search query too long")
	ErrNotFound     = errors.New("company not found")
	ErrBatchTooBig  = errors.New("too many companies requested")
)

// MissingError reports comparison requests naming companies that do not
// exist, carrying the missing IDs for the client.
type MissingError struct {
	MissingIDs []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("companies not found: %s", strings.Join(e.MissingIDs, ", "))
}

// Service answers company register queries from storage.
type Service struct {
	store storage.Storage
}

// NewService creates a company service.
func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// Search returns up to SearchLimit companies matching the query against
// name, registration number, tax number and current owner names, with
// diacritics folded on both sides.
func (s *Service) Search(ctx context.Context, query string) ([]*models.Company, error) {
	query = strings.TrimSpace(query)
	// Length limits count characters, not bytes; Latvian letters are
	// multibyte in UTF-8.
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, ErrQueryTooLong
	}
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []*models.Company{}, nil
	}

	companies, err := s.store.SearchCompanies(ctx, models.NormalizeSearch(query), SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	return companies, nil
}

// Get returns a company with its related records, shaped for display:
// historical owners and board members are excluded.
func (s *Service) Get(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.store.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return presentCompany(company), nil
}

// Compare resolves 2 to 5 companies for side-by-side comparison. If any
// requested ID does not exist the whole request fails with a MissingError
// naming the absent IDs, so the client never renders a partial comparison.
func (s *Service) Compare(ctx context.Context, ids []string) ([]*models.Company, error) {
	companies, err := s.store.GetCompaniesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}

	if len(companies) < len(ids) {
		found := make(map[string]bool, len(companies))
		for _, c := range companies {
			found[c.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, &MissingError{MissingIDs: missing}
	}
	for _, c := range companies {
		presentCompany(c)
	}
	return companies, nil
}

// Batch resolves up to BatchLimit company IDs to their minimal summaries.
// Unknown IDs are skipped silently; the endpoint backs client-side lists
// where stale references are routine.
func (s *Service) Batch(ctx context.Context, ids []string) ([]*models.Company, error) {
	if len(ids) > BatchLimit {
		return nil, ErrBatchTooBig
	}
	if len(ids) == 0 {
		return []*models.Company{}, nil
	}

	companies, err := s.store.GetCompaniesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	return companies, nil
}

// presentCompany shapes a stored company for the detail and comparison
// views: historical owner and board entries are dropped and every relation
// is ordered the way the register publishes it, largest share and most
// recent records first. Storage keeps the historical rows; only the
// presented views hide them.
func presentCompany(c *models.Company) *models.Company {
	owners := c.Owners[:0:0]
	for _, o := range c.Owners {
		if !o.IsHistorical {
			owners = append(owners, o)
		}
	}
	sort.SliceStable(owners, func(i, j int) bool {
		return owners[i].SharePercentage > owners[j].SharePercentage
	})
	c.Owners = owners

	board := c.BoardMembers[:0:0]
	for _, m := range c.BoardMembers {
		if !m.IsHistorical {
			board = append(board, m)
		}
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].AppointedDate.After(board[j].AppointedDate)
	})
	c.BoardMembers = board

	sort.SliceStable(c.BeneficialOwners, func(i, j int) bool {
		return c.BeneficialOwners[i].DateFrom.After(c.BeneficialOwners[j].DateFrom)
	})
	sort.SliceStable(c.TaxPayments, func(i, j int) bool {
		return c.TaxPayments[i].Year > c.TaxPayments[j].Year
	})
	sort.SliceStable(c.FinancialRatios, func(i, j int) bool {
		return c.FinancialRatios[i].Year > c.FinancialRatios[j].Year
	})
	return c
}
