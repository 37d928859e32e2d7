package recommendation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/repository/unitofwork"
)

var ErrMissingAddressColumn = errors.New("catalog has no 'Property Address' column")

// catalog column headers, matched case-insensitively
const (
	colAddress   = "property address"
	colFloor     = "floor"
	colSuite     = "suite"
	colSize      = "size (sf)"
	colRentSf    = "rent/sf/year"
	colAnnual    = "annual rent"
	colMonthly   = "monthly rent"
	colAssociate = "associate 1"
)

// ParseCatalog reads the property listing export. Money columns may carry
// "$" and thousands separators. Rows without an address are skipped.
func ParseCatalog(r io.Reader) ([]*entity.Property, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := index[colAddress]; !ok {
		return nil, ErrMissingAddressColumn
	}

	var properties []*entity.Property
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		address := get(colAddress)
		if address == "" {
			continue
		}
		p := &entity.Property{
			Address:           address,
			Floor:             get(colFloor),
			Suite:             get(colSuite),
			SizeSf:            int(parseAmount(get(colSize))),
			RentPerSfYear:     parseAmount(get(colRentSf)),
			AnnualRent:        parseAmount(get(colAnnual)),
			MonthlyRent:       parseAmount(get(colMonthly)),
			AssignedAssociate: get(colAssociate),
		}
		if p.MonthlyRent == 0 && p.AnnualRent > 0 {
			p.MonthlyRent = p.AnnualRent / 12
		}
		p.Description = fmt.Sprintf("A commercial suite located at %s with a size of %d square feet.", p.Address, p.SizeSf)
		properties = append(properties, p)
	}
	return properties, nil
}

// ImportCatalog replaces the stored catalog with properties in one transaction.
func ImportCatalog(ctx context.Context, uowFactory unitofwork.RepositoryFactory, properties []*entity.Property) error {
	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	repo := uow.PropertyRepository()
	if err := repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	if err := repo.CreateBulk(ctx, properties); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	return uow.Commit()
}

func parseAmount(raw string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
