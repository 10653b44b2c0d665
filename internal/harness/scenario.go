package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one cart session,
// executed step by step against fresh in-memory state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Token is an optional credential present before the session starts.
	// Empty means the session begins signed out.
	Token string `yaml:"token,omitempty"`

	// Remote is the remote cart content before the session starts.
	Remote []ItemSpec `yaml:"remote,omitempty"`

	// Steps is the sequence of cart operations to execute.
	Steps []Step `yaml:"steps"`

	// Expect validates the final state after all steps ran.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// ItemSpec describes a line item in scenario YAML. Prices are strings
// so scenario files stay exact about decimals.
type ItemSpec struct {
	ProductID string `yaml:"product_id"`
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
	SalePrice string `yaml:"sale_price,omitempty"`
	Qty       int    `yaml:"qty"`
}

// Step is a single cart operation.
type Step struct {
	// Op names the operation: add, remove, set_qty, clear, flush,
	// pull, login, logout.
	Op string `yaml:"op"`

	// Fields for add / remove / set_qty.
	ProductID string `yaml:"product_id,omitempty"`
	Name      string `yaml:"name,omitempty"`
	Price     string `yaml:"price,omitempty"`
	SalePrice string `yaml:"sale_price,omitempty"`
	Qty       int    `yaml:"qty,omitempty"`

	// Token is the credential stored by a login step.
	Token string `yaml:"token,omitempty"`
}

// Expectation validates the final state of a scenario run.
// Nil fields are not checked.
type Expectation struct {
	Count       *int   `yaml:"count,omitempty"`
	Total       string `yaml:"total,omitempty"`
	Pushes      *int   `yaml:"pushes,omitempty"`
	RemoteItems *int   `yaml:"remote_items,omitempty"`
}

// Step operation constants.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpSetQty = "set_qty"
	OpClear  = "clear"
	OpFlush  = "flush"
	OpPull   = "pull"
	OpLogin  = "login"
	OpLogout = "logout"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, item := range s.Remote {
		if err := validateItemSpec(&item); err != nil {
			return fmt.Errorf("remote[%d]: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(&step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	return nil
}

func validateItemSpec(it *ItemSpec) error {
	if it.ProductID == "" {
		return fmt.Errorf("product_id is required")
	}
	if it.Price == "" {
		return fmt.Errorf("price is required")
	}
	return nil
}

// validateStep validates a single step based on its operation.
func validateStep(step *Step) error {
	switch step.Op {
	case OpAdd:
		if step.ProductID == "" {
			return fmt.Errorf("product_id is required for add")
		}
		if step.Price == "" {
			return fmt.Errorf("price is required for add")
		}
	case OpRemove:
		if step.ProductID == "" {
			return fmt.Errorf("product_id is required for remove")
		}
	case OpSetQty:
		if step.ProductID == "" {
			return fmt.Errorf("product_id is required for set_qty")
		}
	case OpLogin:
		if step.Token == "" {
			return fmt.Errorf("token is required for login")
		}
	case OpClear, OpFlush, OpPull, OpLogout:
		// No extra fields.
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}
