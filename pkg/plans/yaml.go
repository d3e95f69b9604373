package plans

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlCatalog struct {
	Version string     `yaml:"version"`
	Plans   []yamlPlan `yaml:"plans"`
}

type yamlPlan struct {
	Application string               `yaml:"application"`
	Tier        string               `yaml:"tier"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Price       yamlPrice            `yaml:"price"`
	Features    []string             `yaml:"features"`
	Limits      map[string]yamlLimit `yaml:"limits"`
}

// yamlLimit accepts either an integer or the literal "unlimited".
type yamlLimit int64

func (l *yamlLimit) UnmarshalYAML(value *yaml.Node) error {
	raw := strings.TrimSpace(value.Value)
	if strings.EqualFold(raw, "unlimited") {
		*l = yamlLimit(Unlimited)
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("line %d: limit must be an integer or \"unlimited\": %w", value.Line, err)
	}
	*l = yamlLimit(n)
	return nil
}

// yamlPrice accepts either {amount, currency} or the literal "custom".
type yamlPrice Money

func (p *yamlPrice) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if strings.EqualFold(strings.TrimSpace(value.Value), "custom") {
			*p = yamlPrice(CustomPrice())
			return nil
		}
		return fmt.Errorf("line %d: price must be a mapping or \"custom\"", value.Line)
	}

	var m struct {
		Amount   int64  `yaml:"amount"`
		Currency string `yaml:"currency"`
	}
	if err := value.Decode(&m); err != nil {
		return err
	}
	*p = yamlPrice(Money{Amount: m.Amount, Currency: m.Currency})
	return nil
}

// ParseYAML builds a validated catalog from YAML bytes.
func ParseYAML(data []byte) (*Catalog, error) {
	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	if doc.Version == "" {
		return nil, errors.Join(ErrInvalidPlanConfiguration, errors.New("catalog version is required"))
	}

	list := make([]Plan, 0, len(doc.Plans))
	for _, yp := range doc.Plans {
		p := Plan{
			Application: Application(yp.Application),
			Tier:        Tier(yp.Tier),
			Name:        yp.Name,
			Description: yp.Description,
			Price:       Money(yp.Price),
			Features:    make([]Feature, 0, len(yp.Features)),
			Limits:      make(map[Resource]int64, len(yp.Limits)),
		}
		for _, f := range yp.Features {
			p.Features = append(p.Features, Feature(f))
		}
		for res, limit := range yp.Limits {
			p.Limits[Resource(res)] = int64(limit)
		}
		list = append(list, p)
	}

	return NewCatalog(doc.Version, list...)
}

// LoadYAMLFile reads and parses a catalog file.
func LoadYAMLFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	return ParseYAML(data)
}
