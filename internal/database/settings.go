package database

import (
	"strconv"

	"gym-backoffice/internal/models"

	"gorm.io/gorm"
)

// ChargeRates holds the checkout-relevant business settings.
type ChargeRates struct {
	TaxEnabled     bool
	TaxRate        float64 // percentage, e.g. 10 for 10%
	ServiceEnabled bool
	ServiceRate    float64
}

// GetChargeRates reads the tax / service charge settings. Missing keys mean
// the charge is disabled.
func GetChargeRates(db *gorm.DB) (ChargeRates, error) {
	var rows []models.Setting
	keys := []string{"tax_enabled", "tax_percentage", "service_charge_enabled", "service_charge_percentage"}
	if err := db.Where("`key` IN ?", keys).Find(&rows).Error; err != nil {
		return ChargeRates{}, err
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	rates := ChargeRates{
		TaxEnabled:     settings["tax_enabled"] == "true",
		ServiceEnabled: settings["service_charge_enabled"] == "true",
	}
	rates.TaxRate, _ = strconv.ParseFloat(settings["tax_percentage"], 64)
	rates.ServiceRate, _ = strconv.ParseFloat(settings["service_charge_percentage"], 64)
	return rates, nil
}
