package internal

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFrequencyToDays maps the installment frequency tags the API is known
// to serve onto their period in days.
var DefaultFrequencyToDays = map[string]int{
	"WEEKLY":    7,
	"BI_WEEKLY": 14,
}

// Config mirrors the recognized options of the deployed debt_config files.
// The files are YAML; since YAML is a superset of JSON, configs written for
// the legacy client load unchanged.
type Config struct {
	// RetryConnection is the number of fetch attempts on transient network
	// failure before giving up.
	RetryConnection int `yaml:"RetryConnection"`

	// URL maps resource names (Debts, PaymentPlans, Payments) to endpoints.
	URL map[string]string `yaml:"URL"`

	// DateFormats is the ordered list of accepted date layouts. Legacy
	// strptime patterns (%Y-%m-%d) are translated to Go layouts on load.
	DateFormats []string `yaml:"DateFormats"`

	Tables Tables `yaml:"Tables"`
}

type Tables struct {
	PaymentPlans PaymentPlanTable `yaml:"PaymentPlans"`
}

type PaymentPlanTable struct {
	// FrequencyToDays maps an installment frequency tag to its period in days.
	FrequencyToDays map[string]int `yaml:"FrequencyToDays"`
}

// strptimeToLayout translates the directives used by legacy config files.
var strptimeToLayout = strings.NewReplacer(
	"%Y", "2006",
	"%m", "01",
	"%d", "02",
	"%H", "15",
	"%M", "04",
	"%S", "05",
)

func normalizeLayout(format string) string {
	if !strings.Contains(format, "%") {
		return format
	}
	return strptimeToLayout.Replace(format)
}

// LoadConfig reads and validates a config file. A missing or unparseable
// file is a fatal startup error for the caller.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.RetryConnection <= 0 {
		cfg.RetryConnection = 3
	}
	if len(cfg.DateFormats) == 0 {
		cfg.DateFormats = append(cfg.DateFormats, DefaultDateFormats...)
	} else {
		for i, f := range cfg.DateFormats {
			cfg.DateFormats[i] = normalizeLayout(f)
		}
	}
	if len(cfg.Tables.PaymentPlans.FrequencyToDays) == 0 {
		cfg.Tables.PaymentPlans.FrequencyToDays = DefaultFrequencyToDays
	}

	for _, resource := range []string{ResourceDebts, ResourcePaymentPlans, ResourcePayments} {
		if cfg.URL[resource] == "" {
			return nil, fmt.Errorf("config missing URL for resource %s", resource)
		}
	}

	return &cfg, nil
}
