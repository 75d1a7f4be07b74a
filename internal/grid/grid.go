// Package grid expands hyperparameter specifications into the concrete
// parameter assignments of a benchmark suite.
package grid

// Spec is a single parameter specification, either a fixed value or a
// numeric range.
type Spec interface {
	Values() []interface{}
}

// ValueParameter is a parameter fixed to a single value.
type ValueParameter struct {
	Value interface{}
}

func (p ValueParameter) Values() []interface{} {
	return []interface{}{p.Value}
}

// RangeParameter is a numeric parameter swept from Start to End in Step
// increments. Start, End and Step are all int or all float64, with
// End >= Start. The sweep includes every accumulated point up to End;
// ranges that do not divide evenly are implementation defined.
type RangeParameter struct {
	Start interface{}
	End   interface{}
	Step  interface{}
}

func (p RangeParameter) Values() []interface{} {
	values := make([]interface{}, 0)
	switch start := p.Start.(type) {
	case int:
		end := p.End.(int)
		step := p.Step.(int)
		for v := start; v < end+step; v += step {
			values = append(values, v)
		}
	case float64:
		end := p.End.(float64)
		step := p.Step.(float64)
		for v := start; v < end+step; v += step {
			values = append(values, v)
		}
	}
	return values
}

var _ Spec = ValueParameter{}
var _ Spec = RangeParameter{}

// Parameter is a named specification. Grid order is the encounter order
// of the parameter file, which fixes the assignment serialization order.
type Parameter struct {
	Name string
	Spec Spec
}

type Grid []Parameter

func (g Grid) Names() []string {
	names := make([]string, len(g))
	for i, parameter := range g {
		names[i] = parameter.Name
	}
	return names
}

// Combinations returns the cross-product of all parameter value sets, in
// grid order with the last parameter varying fastest.
func (g Grid) Combinations() [][]interface{} {
	combinations := [][]interface{}{{}}
	for _, parameter := range g {
		next := make([][]interface{}, 0)
		for _, combination := range combinations {
			for _, value := range parameter.Spec.Values() {
				extended := make([]interface{}, len(combination), len(combination)+1)
				copy(extended, combination)
				next = append(next, append(extended, value))
			}
		}
		combinations = next
	}
	return combinations
}

// Setting is one concrete unit of work: a dataset paired with a serialized
// parameter assignment.
type Setting struct {
	DatasetName string
	Parameters  string
}

// Settings generates one Setting per dataset and parameter combination.
// The total count is len(datasets) times the product of the value-set
// cardinalities of g.
func Settings(datasets []string, g Grid) []Setting {
	parameterStrings := make([]string, 0)
	names := g.Names()
	for _, combination := range g.Combinations() {
		parameterStrings = append(parameterStrings, ParameterString(names, combination))
	}

	settings := make([]Setting, 0, len(datasets)*len(parameterStrings))
	for _, dataset := range datasets {
		for _, parameters := range parameterStrings {
			settings = append(settings, Setting{
				DatasetName: dataset,
				Parameters:  parameters,
			})
		}
	}
	return settings
}
