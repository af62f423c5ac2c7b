package bench

import (
	"crypto/rand"
	"fmt"
	"strconv"
)

func MillisecondToNanosecond(millis int64) int64 {
	return millis * 1000 * 1000
}

func MillisecondToSecond(millis int64) int64 {
	return millis / 1000
}

func SecondToNanosecond(seconds int64) int64 {
	return seconds * 1000 * 1000 * 1000
}

func NanosecondToMicrosecond(nanos int64) int64 {
	return nanos / 1000
}

func NanosecondToMillisecond(nanos int64) int64 {
	return nanos / 1000 / 1000
}

// RandomBytes returns length cryptographically random bytes, used by
// callers that need an opaque unique payload (e.g. synthetic record
// values) without caring about its distribution.
func RandomBytes(length int64) []byte {
	b := make([]byte, length)
	rand.Read(b)
	return b
}

// Properties is a flat string-keyed configuration bag, overlaid on top of
// a parsed RunConfig so that key=value overrides merged in by
// LoadRunConfig keep working the way they did before the config grew a
// typed shape.
type Properties map[string]string

func NewProperties() Properties {
	return make(Properties)
}

func (self Properties) Get(key string) string {
	v, _ := self[key]
	return v
}

func (self Properties) GetDefault(key string, defaultValue string) string {
	if v, ok := self[key]; ok {
		return v
	}
	return defaultValue
}

// GetIntDefault parses key as an int, or returns defaultValue if key is
// absent. A present but unparseable value is an error, not a silent
// fallback to defaultValue.
func (self Properties) GetIntDefault(key string, defaultValue int) (int, error) {
	v, ok := self[key]
	if !ok {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("property %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}

func (self Properties) Add(key, value string) {
	self[key] = value
}

// Merge copies every entry of other into self, overwriting existing keys.
func (self Properties) Merge(other Properties) {
	for k, v := range other {
		self[k] = v
	}
}

func Output(format string, args ...interface{}) {
	fmt.Printf(format, args...)
	fmt.Println("")
}

func OutputProperties(p Properties) {
	Output("***************** properties *****************")
	if p != nil {
		for k, v := range p {
			Output("\"%s\"=\"%s\"", k, v)
		}
	}
	Output("**********************************************")
}
