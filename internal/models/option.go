package models

const (
	OptionPeriodLength       = "period_length"
	OptionLutealLength       = "luteal_length"
	OptionMaxCycleLength     = "maxcycle_length"
	OptionStartOfWeek        = "startofweek"
	OptionAccessPasswordHash = "access_password_hash"
)

type Option struct {
	Name  string `gorm:"primaryKey"`
	Value string `gorm:"not null;default:''"`
}
