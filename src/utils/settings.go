package utils

import (
	"errors"
	"log"
	"vbs/src/models"

	"gorm.io/gorm"
)

// Runtime knobs live in the settings table so operators can tune them without
// a redeploy. Missing rows fall back to the compiled defaults.
const (
	SETTING_COOLING_BREAK_MINUTES = "booking.cooling_break_minutes"
	SETTING_DEPOSIT_THRESHOLD     = "billing.deposit_threshold"
	SETTING_DEPOSIT_PERCENTAGE    = "billing.deposit_percentage"
	SETTING_VENUE_ISSUER_ID       = "billing.venue_issuer_id"
	SETTING_CURRENCY              = "billing.currency"
	SETTING_INVOICE_DUE_DAYS      = "billing.invoice_due_days"
	SETTING_MAINTENANCE_MODE      = "platform.maintenance_mode"
)

const (
	DEFAULT_COOLING_BREAK_MINUTES = 60
	DEFAULT_DEPOSIT_THRESHOLD     = 1000
	DEFAULT_DEPOSIT_PERCENTAGE    = 0.2
	DEFAULT_CURRENCY              = "USD"
	DEFAULT_INVOICE_DUE_DAYS      = 7
)

func getSettingValue(tx *gorm.DB, key string) (any, error) {
	var setting models.Setting
	if err := tx.Model(&models.Setting{}).Where(&models.Setting{SettingKey: key}).First(&setting).Error; err != nil {
		return nil, err
	}
	return setting.SettingValue.Inner, nil
}

func GetSettingInt64(tx *gorm.DB, key string, fallback int64) int64 {
	v, err := getSettingValue(tx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Settings] Error reading %s: %s\n", key, err.Error())
		}
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	default:
		return fallback
	}
}

func GetSettingFloat64(tx *gorm.DB, key string, fallback float64) float64 {
	v, err := getSettingValue(tx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Settings] Error reading %s: %s\n", key, err.Error())
		}
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return fallback
	}
}

func GetSettingString(tx *gorm.DB, key string, fallback string) string {
	v, err := getSettingValue(tx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Settings] Error reading %s: %s\n", key, err.Error())
		}
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func GetSettingBool(tx *gorm.DB, key string, fallback bool) bool {
	v, err := getSettingValue(tx, key)
	if err != nil {
		return fallback
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}
