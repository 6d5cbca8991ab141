package domain

import (
	"fmt"
	"strings"
	"time"
)

// StalenessThreshold — возраст справочника, после которого ему нельзя доверять.
const StalenessThreshold = 72 * time.Hour

// Category — категория справочных данных в локальном кэше.
type Category string

const (
	CategoryCustomers Category = "customers"
	CategoryProducts  Category = "products"
	CategoryPrices    Category = "prices"
)

// Categories — все отслеживаемые категории в фиксированном порядке.
var Categories = []Category{CategoryCustomers, CategoryProducts, CategoryPrices}

// categoryAliases — имена выгрузок легаси-ERP.
var categoryAliases = map[string]Category{
	"customers": CategoryCustomers,
	"clienti":   CategoryCustomers,
	"products":  CategoryProducts,
	"prodotti":  CategoryProducts,
	"prices":    CategoryPrices,
	"prezzi":    CategoryPrices,
}

// ParseCategory — нормализует имя категории (регистр, пробелы, псевдонимы).
func ParseCategory(s string) (Category, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// CacheFreshnessRecord — отметка последнего успешного обновления категории.
type CacheFreshnessRecord struct {
	Category    Category  `json:"category"`
	LastSynced  time.Time `json:"lastSynced"`
	RecordCount int       `json:"recordCount"`
}

// ConflictReport — производный отчёт о свежести кэша; не сохраняется.
// CacheAge хранит lastSynced по категориям; nil — категория ни разу не обновлялась.
type ConflictReport struct {
	HasConflicts    bool                    `json:"hasConflicts"`
	StaleCategories []Category              `json:"staleCategories"`
	CacheAge        map[Category]*time.Time `json:"cacheAge"`
}

// LatestSync — самая поздняя отметка среди категорий, у которых она есть.
func (r ConflictReport) LatestSync() (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, ts := range r.CacheAge {
		if ts == nil {
			continue
		}
		if !found || ts.After(latest) {
			latest = *ts
			found = true
		}
	}
	return latest, found
}
