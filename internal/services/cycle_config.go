package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/arnowelzel/periodical/internal/models"
)

var (
	ErrConfigValueNotNumeric          = errors.New("config value is not a number")
	ErrConfigOptionUnknown            = errors.New("unknown option")
	ErrConfigPeriodLengthOutOfRange   = errors.New("period length out of range")
	ErrConfigLutealLengthOutOfRange   = errors.New("luteal length out of range")
	ErrConfigMaxCycleLengthOutOfRange = errors.New("max cycle length out of range")
	ErrConfigStartOfWeekOutOfRange    = errors.New("start of week out of range")
)

type ConfigValidationError struct {
	Field string
	Value string
	Err   error
}

func (err *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", err.Field, err.Value, err.Err)
}

func (err *ConfigValidationError) Unwrap() error {
	return err.Err
}

type CycleConfig struct {
	PeriodLength   int `json:"period_length"`
	LutealLength   int `json:"luteal_length"`
	MaxCycleLength int `json:"max_cycle_length"`
	StartOfWeek    int `json:"start_of_week"`
}

func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		PeriodLength:   models.DefaultPeriodLength,
		LutealLength:   models.DefaultLutealLength,
		MaxCycleLength: models.DefaultMaxCycleLength,
		StartOfWeek:    models.DefaultStartOfWeek,
	}
}

func (config CycleConfig) Validate() error {
	if config.PeriodLength < models.MinPeriodLength || config.PeriodLength > models.MaxPeriodLength {
		return invalidConfigValue(models.OptionPeriodLength, config.PeriodLength, ErrConfigPeriodLengthOutOfRange)
	}
	if config.LutealLength < models.MinLutealLength {
		return invalidConfigValue(models.OptionLutealLength, config.LutealLength, ErrConfigLutealLengthOutOfRange)
	}
	if config.MaxCycleLength < models.MinMaxCycleLength {
		return invalidConfigValue(models.OptionMaxCycleLength, config.MaxCycleLength, ErrConfigMaxCycleLengthOutOfRange)
	}
	if config.StartOfWeek < 0 || config.StartOfWeek > 6 {
		return invalidConfigValue(models.OptionStartOfWeek, config.StartOfWeek, ErrConfigStartOfWeekOutOfRange)
	}
	return nil
}

func (config CycleConfig) optionValues() map[string]string {
	return map[string]string{
		models.OptionPeriodLength:   strconv.Itoa(config.PeriodLength),
		models.OptionLutealLength:   strconv.Itoa(config.LutealLength),
		models.OptionMaxCycleLength: strconv.Itoa(config.MaxCycleLength),
		models.OptionStartOfWeek:    strconv.Itoa(config.StartOfWeek),
	}
}

func invalidConfigValue(field string, value int, err error) error {
	return &ConfigValidationError{Field: field, Value: strconv.Itoa(value), Err: err}
}

type OptionRepository interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name string, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, name string) error
}

type CycleConfigService struct {
	options OptionRepository
}

func NewCycleConfigService(options OptionRepository) *CycleConfigService {
	return &CycleConfigService{options: options}
}

func (service *CycleConfigService) GetOption(ctx context.Context, name string, fallback string) (string, error) {
	value, found, err := service.options.Get(ctx, name)
	if err != nil {
		return fallback, &StorageError{Op: "get option " + name, Err: err}
	}
	if !found {
		return fallback, nil
	}
	return value, nil
}

func (service *CycleConfigService) SetOption(ctx context.Context, name string, value string) error {
	if err := service.options.Set(ctx, name, value); err != nil {
		return &StorageError{Op: "set option " + name, Err: err}
	}
	return nil
}

// Load reads the cycle parameters from the option store. A stored value that
// no longer validates is replaced by its default so the engine always gets a
// usable config.
func (service *CycleConfigService) Load(ctx context.Context) (CycleConfig, error) {
	defaults := DefaultCycleConfig()
	config := defaults

	fields := []struct {
		name     string
		target   *int
		fallback int
	}{
		{models.OptionPeriodLength, &config.PeriodLength, defaults.PeriodLength},
		{models.OptionLutealLength, &config.LutealLength, defaults.LutealLength},
		{models.OptionMaxCycleLength, &config.MaxCycleLength, defaults.MaxCycleLength},
		{models.OptionStartOfWeek, &config.StartOfWeek, defaults.StartOfWeek},
	}
	for _, field := range fields {
		raw, err := service.GetOption(ctx, field.name, strconv.Itoa(field.fallback))
		if err != nil {
			return CycleConfig{}, err
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			log.Printf("options: %s=%q is not a number, using %d", field.name, raw, field.fallback)
			value = field.fallback
		}
		*field.target = value
	}

	if err := config.Validate(); err != nil {
		var validationErr *ConfigValidationError
		if errors.As(err, &validationErr) {
			log.Printf("options: %v, falling back to default", validationErr)
		}
		return repairCycleConfig(config), nil
	}
	return config, nil
}

func (service *CycleConfigService) Save(ctx context.Context, config CycleConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := service.options.SetMany(ctx, config.optionValues()); err != nil {
		return &StorageError{Op: "save cycle config", Err: err}
	}
	return nil
}

var cycleOptionAliases = map[string]string{
	"max_cycle_length": models.OptionMaxCycleLength,
	"start_of_week":    models.OptionStartOfWeek,
}

// CycleOptionName maps the JSON field names of CycleConfig onto the stored
// option names. Stored names pass through unchanged.
func CycleOptionName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := cycleOptionAliases[name]; ok {
		return alias
	}
	return name
}

// ParseCycleConfigInput applies raw option strings on top of base. Every name
// must be a cycle option.
func ParseCycleConfigInput(base CycleConfig, raw map[string]string) (CycleConfig, error) {
	config := base
	targets := map[string]*int{
		models.OptionPeriodLength:   &config.PeriodLength,
		models.OptionLutealLength:   &config.LutealLength,
		models.OptionMaxCycleLength: &config.MaxCycleLength,
		models.OptionStartOfWeek:    &config.StartOfWeek,
	}
	for name, value := range raw {
		target, ok := targets[CycleOptionName(name)]
		if !ok {
			return CycleConfig{}, &ConfigValidationError{Field: name, Value: value, Err: ErrConfigOptionUnknown}
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return CycleConfig{}, &ConfigValidationError{Field: name, Value: value, Err: ErrConfigValueNotNumeric}
		}
		*target = parsed
	}
	if err := config.Validate(); err != nil {
		return CycleConfig{}, err
	}
	return config, nil
}

func repairCycleConfig(config CycleConfig) CycleConfig {
	defaults := DefaultCycleConfig()
	if config.PeriodLength < models.MinPeriodLength || config.PeriodLength > models.MaxPeriodLength {
		config.PeriodLength = defaults.PeriodLength
	}
	if config.LutealLength < models.MinLutealLength {
		config.LutealLength = defaults.LutealLength
	}
	if config.MaxCycleLength < models.MinMaxCycleLength {
		config.MaxCycleLength = defaults.MaxCycleLength
	}
	if config.StartOfWeek < 0 || config.StartOfWeek > 6 {
		config.StartOfWeek = defaults.StartOfWeek
	}
	return config
}
