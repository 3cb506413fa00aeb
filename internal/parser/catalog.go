package parser

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog lists the workbook layouts the extractor understands.
type Catalog struct {
	Version        int      `yaml:"version" json:"version"`
	SuffixContract int      `yaml:"suffix_contract" json:"suffixContract"`
	Layouts        []Layout `yaml:"layouts" json:"layouts"`
}

// Layout is one known workbook arrangement. Rules inherit Sheet and Skip
// from the layout when they leave them unset.
type Layout struct {
	Name   string   `yaml:"name" json:"name"`
	Detect []string `yaml:"detect" json:"detect"`
	Sheet  string   `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Skip   int      `yaml:"skip" json:"skip"`
	Rules  []Rule   `yaml:"rules" json:"rules"`
}

// Rule maps a cell window of one sheet to a logical table.
type Rule struct {
	Table   string   `yaml:"table" json:"table"`
	Sheet   string   `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Skip    *int     `yaml:"skip,omitempty" json:"skip,omitempty"`
	Columns string   `yaml:"columns" json:"columns"`
	Rows    int      `yaml:"rows,omitempty" json:"rows,omitempty"`
	Numeric []string `yaml:"numeric,omitempty" json:"numeric,omitempty"`
	Outlet  bool     `yaml:"outlet,omitempty" json:"outlet,omitempty"`
}

// resolvedRule is a Rule with inherited values filled in and its range parsed.
type resolvedRule struct {
	Rule
	sheet string
	skip  int
	cols  columnRange
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	c, err := parseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCatalogFromReader(file)
}

// LoadCatalogFromReader parses a catalog from an io.Reader.
func LoadCatalogFromReader(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every rule has a table, a sheet and a usable range,
// and that rules sharing a header row do not overlap.
func (c *Catalog) Validate() error {
	if len(c.Layouts) == 0 {
		return errors.New("catalog has no layouts")
	}
	for _, layout := range c.Layouts {
		if layout.Name == "" {
			return errors.New("catalog layout without a name")
		}
		if len(layout.Detect) == 0 {
			return fmt.Errorf("layout %s: no detect sheets", layout.Name)
		}
		rules, err := layout.resolve()
		if err != nil {
			return err
		}
		outlets := 0
		for i, r := range rules {
			if r.Outlet {
				outlets++
			}
			for _, o := range rules[i+1:] {
				if r.sheet == o.sheet && r.skip == o.skip && r.cols.overlaps(o.cols) {
					return fmt.Errorf("layout %s: rules %q and %q overlap", layout.Name, r.Table, o.Table)
				}
			}
		}
		if outlets > 1 {
			return fmt.Errorf("layout %s: more than one outlet rule", layout.Name)
		}
	}
	return nil
}

func (l Layout) resolve() ([]resolvedRule, error) {
	out := make([]resolvedRule, 0, len(l.Rules))
	for _, r := range l.Rules {
		if r.Table == "" {
			return nil, fmt.Errorf("layout %s: rule without a table name", l.Name)
		}
		rr := resolvedRule{Rule: r, sheet: r.Sheet, skip: l.Skip}
		if rr.sheet == "" {
			rr.sheet = l.Sheet
		}
		if rr.sheet == "" {
			return nil, fmt.Errorf("layout %s: table %q has no sheet", l.Name, r.Table)
		}
		if r.Skip != nil {
			rr.skip = *r.Skip
		}
		if rr.skip < 0 || r.Rows < 0 {
			return nil, fmt.Errorf("layout %s: table %q has a negative window", l.Name, r.Table)
		}
		cols, err := parseColumnRange(r.Columns)
		if err != nil {
			return nil, fmt.Errorf("layout %s: table %q: %w", l.Name, r.Table, err)
		}
		rr.cols = cols
		out = append(out, rr)
	}
	return out, nil
}

// Match returns the first layout whose detect sheets all exist.
func (c *Catalog) Match(sheets []string) (*Layout, bool) {
	present := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		present[s] = true
	}
	for i := range c.Layouts {
		ok := true
		for _, want := range c.Layouts[i].Detect {
			if !present[want] {
				ok = false
				break
			}
		}
		if ok {
			return &c.Layouts[i], true
		}
	}
	return nil, false
}
