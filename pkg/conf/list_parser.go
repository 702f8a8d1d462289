package conf

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
)

const listDelimiter = ","

// StringListValue is a custom kingpin parser which resolves flag's parameters which consists of
// string slice delimited by `listDelimiter`.
// For instance for flag defined like this:
// `flag = StringList(kingpin.Flag("flag_name", "help").Short("f"))`
//
// When user would specify options: `-f=A,B,C -f=D,E,F` our `flag` variable would be a slice with
// A,B,C,D,E,F items.
type StringListValue []string

// Set parses the input string and appends it to the slice. Implements kingpin.Value.
func (s *StringListValue) Set(value string) error {
	*s = append(*s, strings.Split(value, listDelimiter)...)
	return nil
}

// String returns string value from StringListValue. Implements kingpin.Value.
func (s *StringListValue) String() string {
	return strings.Join(*s, listDelimiter)
}

// Get returns the accumulated slice. Implements kingpin.Getter.
func (s *StringListValue) Get() interface{} {
	return []string(*s)
}

// IsCumulative implements optional interface (kingpin.repeatableFlag) for flags that can be repeated.
func (s *StringListValue) IsCumulative() bool {
	return true
}

// StringList is a helper for defining kingpin flags.
func StringList(s kingpin.Settings) (target *[]string) {
	target = new([]string)
	s.SetValue((*StringListValue)(target))
	return
}

// FloatListValue is the float64 counterpart of StringListValue, used for
// numeric sweep flags like the candidate measurement-noise levels.
type FloatListValue []float64

// Set parses the input string and appends the values. Implements kingpin.Value.
func (f *FloatListValue) Set(value string) error {
	for _, field := range strings.Split(value, listDelimiter) {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as float list element: %v", field, err)
		}
		*f = append(*f, parsed)
	}
	return nil
}

// String returns string value from FloatListValue. Implements kingpin.Value.
func (f *FloatListValue) String() string {
	fields := make([]string, len(*f))
	for i, value := range *f {
		fields[i] = strconv.FormatFloat(value, 'g', -1, 64)
	}
	return strings.Join(fields, listDelimiter)
}

// Get returns the accumulated slice. Implements kingpin.Getter.
func (f *FloatListValue) Get() interface{} {
	return []float64(*f)
}

// IsCumulative implements optional interface (kingpin.repeatableFlag) for flags that can be repeated.
func (f *FloatListValue) IsCumulative() bool {
	return true
}

// FloatList is a helper for defining kingpin flags.
func FloatList(s kingpin.Settings) (target *[]float64) {
	target = new([]float64)
	s.SetValue((*FloatListValue)(target))
	return
}
