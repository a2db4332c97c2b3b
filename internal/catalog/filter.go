package catalog

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/mitchellh/mapstructure"
)

// NewCareerEnv returns the CEL environment that career filter expressions are checked against.
func NewCareerEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("min_gpa", cel.DoubleType),
		cel.Variable("skills", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("interests", cel.MapType(cel.StringType, cel.IntType)),
	)
}

// Predicate is a compiled career filter expression, for example
// `category == "Technology" && skills["programming"] >= 4`.
type Predicate struct {
	expr    string
	program cel.Program
}

// Compile checks expr against env and prepares it for evaluation.
// The expression must produce a boolean.
func Compile(env *cel.Env, expr string) (*Predicate, error) {
	ast, iss := env.Parse(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return nil, iss.Err()
	}

	if checked.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter %q must evaluate to bool, got %s", expr, checked.OutputType())
	}

	program, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	return &Predicate{expr: expr, program: program}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate against a career.
// Evaluation errors, such as a missing map key, count as no match.
func (p *Predicate) Match(def *CareerDefinition) bool {
	activation, err := activationOf(def)
	if err != nil {
		return false
	}

	result, _, err := p.program.Eval(activation)
	if err != nil {
		return false
	}
	return result.Value() == true
}

// careerView is the flat shape a career takes inside filter expressions.
type careerView struct {
	ID          string           `mapstructure:"id"`
	Name        string           `mapstructure:"name"`
	Category    string           `mapstructure:"category"`
	Description string           `mapstructure:"description"`
	MinGPA      float64          `mapstructure:"min_gpa"`
	Skills      map[string]int64 `mapstructure:"skills"`
	Interests   map[string]int64 `mapstructure:"interests"`
}

func activationOf(def *CareerDefinition) (map[string]any, error) {
	view := careerView{
		ID:          def.ID,
		Name:        def.Name,
		Category:    def.Category,
		Description: def.Description,
		MinGPA:      def.MinGPA,
		Skills:      levels(def.RequiredSkills),
		Interests:   levels(def.RequiredInterests),
	}

	activation := make(map[string]any)
	if err := mapstructure.Decode(view, &activation); err != nil {
		return nil, err
	}
	return activation, nil
}

func levels(reqs Requirements) map[string]int64 {
	m := make(map[string]int64, len(reqs))
	for _, req := range reqs {
		m[req.Name] = int64(req.Level)
	}
	return m
}

// Filter returns the careers in catalog order that belong to category (when non-empty)
// and satisfy expr (when non-empty).
func (c *Catalog) Filter(category, expr string) ([]Summary, error) {
	var predicate *Predicate
	if expr != "" {
		env, err := NewCareerEnv()
		if err != nil {
			return nil, err
		}
		predicate, err = Compile(env, expr)
		if err != nil {
			return nil, fmt.Errorf("compile filter: %w", err)
		}
	}

	matched := make([]*CareerDefinition, 0, len(c.order))
	for _, def := range c.All() {
		if category != "" && !strings.EqualFold(def.Category, category) {
			continue
		}
		if predicate != nil && !predicate.Match(def) {
			continue
		}
		matched = append(matched, def)
	}

	return summarize(matched), nil
}
