// Package filters turns user-supplied search criteria into predicates over
// close approaches.
//
// Each criterion becomes one Filter. A record matches a set of filters when
// every filter matches; evaluation stops at the first filter that fails.
// Criteria on the parent object (diameter, hazardous) never match an
// approach whose designation was not linked to a catalog entry.
package filters

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/star/neoscope/internal/neo"
)

// Filter is a single predicate over a close approach.
type Filter interface {
	Match(a *neo.CloseApproach) bool
	String() string
}

// Op is the comparison applied between an attribute and the reference value.
type Op int

const (
	// Eq matches when the attribute equals the reference value.
	Eq Op = iota
	// Ge matches when the attribute is at least the reference value.
	Ge
	// Le matches when the attribute is at most the reference value.
	Le
)

func (op Op) String() string {
	switch op {
	case Eq:
		return "=="
	case Ge:
		return ">="
	case Le:
		return "<="
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// holds reports whether c, the result of comparing attribute to reference
// value, satisfies op.
func (op Op) holds(c int) bool {
	switch op {
	case Eq:
		return c == 0
	case Ge:
		return c >= 0
	case Le:
		return c <= 0
	default:
		return false
	}
}

// AttributeFilter compares one attribute of an approach, or of its parent
// object, against a reference value.
type AttributeFilter[T any] struct {
	Name  string
	Op    Op
	Value T

	// get returns false when the attribute cannot be judged for a.
	get     func(a *neo.CloseApproach) (T, bool)
	compare func(x, y T) int
}

// Match implements Filter.
func (f *AttributeFilter[T]) Match(a *neo.CloseApproach) bool {
	v, ok := f.get(a)
	if !ok {
		return false
	}
	return f.Op.holds(f.compare(v, f.Value))
}

func (f *AttributeFilter[T]) String() string {
	return fmt.Sprintf("%s %s %v", f.Name, f.Op, f.Value)
}

// Date filters on the calendar date of the approach; time of day is ignored.
// Only the date component of value is used.
func Date(op Op, value time.Time) Filter {
	return &AttributeFilter[civilDate]{
		Name:    "date",
		Op:      op,
		Value:   dateOf(value),
		get:     func(a *neo.CloseApproach) (civilDate, bool) { return dateOf(a.Time), true },
		compare: compareDates,
	}
}

// Distance filters on the nominal approach distance in au.
func Distance(op Op, value float64) Filter {
	return floatFilter("distance", op, value, func(a *neo.CloseApproach) (float64, bool) {
		return a.Distance, true
	})
}

// Velocity filters on the relative velocity in km/s.
func Velocity(op Op, value float64) Filter {
	return floatFilter("velocity", op, value, func(a *neo.CloseApproach) (float64, bool) {
		return a.Velocity, true
	})
}

// Diameter filters on the parent object's diameter in km. Unknown diameters
// never match.
func Diameter(op Op, value float64) Filter {
	return floatFilter("diameter", op, value, func(a *neo.CloseApproach) (float64, bool) {
		if a.NEO == nil {
			return 0, false
		}
		return a.NEO.Diameter, true
	})
}

// floatFilter compares a float attribute. NaN is unordered: a NaN attribute
// or reference value never matches, whatever the op.
func floatFilter(name string, op Op, value float64, get func(a *neo.CloseApproach) (float64, bool)) Filter {
	return &AttributeFilter[float64]{
		Name:  name,
		Op:    op,
		Value: value,
		get: func(a *neo.CloseApproach) (float64, bool) {
			if math.IsNaN(value) {
				return 0, false
			}
			v, ok := get(a)
			if !ok || math.IsNaN(v) {
				return 0, false
			}
			return v, true
		},
		compare: cmp.Compare[float64],
	}
}

// Hazardous filters on the parent object's hazard flag.
func Hazardous(value bool) Filter {
	return &AttributeFilter[bool]{
		Name:  "hazardous",
		Op:    Eq,
		Value: value,
		get: func(a *neo.CloseApproach) (bool, bool) {
			if a.NEO == nil {
				return false, false
			}
			return a.NEO.Hazardous, true
		},
		compare: compareBools,
	}
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func (d civilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

func compareDates(x, y civilDate) int {
	if c := cmp.Compare(x.year, y.year); c != 0 {
		return c
	}
	if c := cmp.Compare(x.month, y.month); c != 0 {
		return c
	}
	return cmp.Compare(x.day, y.day)
}

func compareBools(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	default:
		return 1
	}
}

// All reports whether a satisfies every filter, checked in order.
func All(fs []Filter, a *neo.CloseApproach) bool {
	for _, f := range fs {
		if !f.Match(a) {
			return false
		}
	}
	return true
}

// Criteria holds the optional search criteria. A nil field imposes no
// constraint. Bounds are inclusive.
type Criteria struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time

	DistanceMin *float64
	DistanceMax *float64

	VelocityMin *float64
	VelocityMax *float64

	DiameterMin *float64
	DiameterMax *float64

	Hazardous *bool
}

// Create builds the filters for the supplied criteria. Conflicting bounds are
// kept as given; they simply match nothing.
func Create(c Criteria) []Filter {
	var fs []Filter
	if c.Date != nil {
		fs = append(fs, Date(Eq, *c.Date))
	}
	if c.StartDate != nil {
		fs = append(fs, Date(Ge, *c.StartDate))
	}
	if c.EndDate != nil {
		fs = append(fs, Date(Le, *c.EndDate))
	}
	if c.DistanceMin != nil {
		fs = append(fs, Distance(Ge, *c.DistanceMin))
	}
	if c.DistanceMax != nil {
		fs = append(fs, Distance(Le, *c.DistanceMax))
	}
	if c.VelocityMin != nil {
		fs = append(fs, Velocity(Ge, *c.VelocityMin))
	}
	if c.VelocityMax != nil {
		fs = append(fs, Velocity(Le, *c.VelocityMax))
	}
	if c.DiameterMin != nil {
		fs = append(fs, Diameter(Ge, *c.DiameterMin))
	}
	if c.DiameterMax != nil {
		fs = append(fs, Diameter(Le, *c.DiameterMax))
	}
	if c.Hazardous != nil {
		fs = append(fs, Hazardous(*c.Hazardous))
	}
	return fs
}

// Limit yields at most n elements of seq. n <= 0 leaves seq unchanged.
func Limit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T) bool) {
		count := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}
