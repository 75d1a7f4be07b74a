package grid

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var fieldSplitter = regexp.MustCompile(`\s+`)

var ErrInvalidParameter = errors.New("invalid parameter specification")

// ParseParameterFields parses one parameter specification. Two fields
// describe a fixed value, four fields a range.
func ParseParameterFields(fields []string) (Parameter, error) {
	switch len(fields) {
	case 2:
		return Parameter{
			Name: fields[0],
			Spec: ValueParameter{Value: CastValue(fields[1])},
		}, nil
	case 4:
		spec, err := parseRangeFields(fields)
		if err != nil {
			return Parameter{}, err
		}
		return Parameter{Name: fields[0], Spec: spec}, nil
	default:
		return Parameter{}, errors.Wrapf(ErrInvalidParameter, "%q", strings.Join(fields, " "))
	}
}

// parseRangeFields validates a range at parse time, before any experiment
// is generated. Start, end and step must share a numeric type and the
// range must not be inverted.
func parseRangeFields(fields []string) (Spec, error) {
	name := fields[0]
	start := CastValue(fields[1])
	end := CastValue(fields[2])
	step := CastValue(fields[3])

	switch startValue := start.(type) {
	case int:
		endValue, endOk := end.(int)
		stepValue, stepOk := step.(int)
		if endOk && stepOk && endValue >= startValue {
			return RangeParameter{Start: startValue, End: endValue, Step: stepValue}, nil
		}
	case float64:
		endValue, endOk := end.(float64)
		stepValue, stepOk := step.(float64)
		if endOk && stepOk && endValue >= startValue {
			return RangeParameter{Start: startValue, End: endValue, Step: stepValue}, nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidParameter, "range for %s: <%v, %v, %v>", name, start, end, step)
}

// ParseParameterFile parses a parameter file. Each non-empty line holds one
// whitespace-separated parameter specification; text after '#' is a comment.
func ParseParameterFile(content string) (Grid, error) {
	g := make(Grid, 0)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.SplitN(line, "#", 2)[0])
		if line == "" {
			continue
		}
		parameter, err := ParseParameterFields(fieldSplitter.Split(line, -1))
		if err != nil {
			return nil, err
		}
		g = append(g, parameter)
	}
	return g, nil
}

// ParameterString serializes an assignment as "key1=val1;key2=val2;..."
// with keys in grid order.
func ParameterString(names []string, values []interface{}) string {
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + "=" + FormatValue(values[i])
	}
	return strings.Join(pairs, ";")
}

// ParseParameterString parses a serialized assignment back into a map of
// raw string values.
func ParseParameterString(parameters string) (map[string]string, error) {
	parsed := make(map[string]string)
	if parameters == "" {
		return parsed, nil
	}
	for _, pair := range strings.Split(parameters, ";") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.Wrapf(ErrInvalidParameter, "%q", pair)
		}
		parsed[key] = value
	}
	return parsed, nil
}

// SortedNames returns the parameter names of a parsed assignment in
// lexicographic order, the order used for report columns.
func SortedNames(parameters map[string]string) []string {
	names := make([]string, 0, len(parameters))
	for name := range parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
