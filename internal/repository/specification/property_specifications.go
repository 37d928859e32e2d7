package specification

import (
	"strings"

	"gorm.io/gorm"
)

type RentBelow struct {
	Amount float64
}

func (s RentBelow) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("monthly_rent < ?", s.Amount)
}

type RentAbove struct {
	Amount float64
}

func (s RentAbove) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("monthly_rent > ?", s.Amount)
}

type RentBetween struct {
	Min float64
	Max float64
}

func (s RentBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("monthly_rent BETWEEN ? AND ?", s.Min, s.Max)
}

// AddressContainsAny matches properties whose address contains at least one
// of the keywords, case-insensitively.
type AddressContainsAny struct {
	Keywords []string
}

func (s AddressContainsAny) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Keywords) == 0 {
		return db
	}
	clauses := make([]string, len(s.Keywords))
	args := make([]interface{}, len(s.Keywords))
	for i, k := range s.Keywords {
		clauses[i] = "LOWER(address) LIKE ?"
		args[i] = "%" + strings.ToLower(k) + "%"
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}
