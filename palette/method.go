package palette

import (
	"fmt"
	"strings"
)

// Method selects the palette construction algorithm.
type Method int

// Palette construction methods.
const (
	Frequency Method = iota
	KMeans
	CIELab
	MedianCut
)

var methodNames = map[Method]string{
	Frequency: "freq",
	KMeans:    "kmeans",
	CIELab:    "cielab",
	MedianCut: "mediancut",
}

// Methods lists the names accepted by ParseMethod.
func Methods() []string {
	return []string{"freq", "kmeans", "cielab", "mediancut"}
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod returns the Method with the given name.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown method %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if _, ok := methodNames[m]; !ok {
		return nil, fmt.Errorf("palette: unknown method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
