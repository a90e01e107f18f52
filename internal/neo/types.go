package neo

import (
	"fmt"
	"math"
	"time"
)

// TimeLayout is the display format for approach times.
const TimeLayout = "2006-01-02 15:04"

// NearEarthObject is a single catalog entry for a near-Earth object.
type NearEarthObject struct {
	Designation string  `validate:"required"`
	Name        *string `validate:"-"` // nil when the catalog has no name
	Diameter    float64 `validate:"-"` // kilometers, NaN when unknown
	Hazardous   bool

	// Approaches is populated by the database linker, in ingestion order.
	Approaches []*CloseApproach `validate:"-"`
}

// NewNearEarthObject builds an object with no linked approaches.
// An empty name is stored as no name.
func NewNearEarthObject(designation, name string, diameter float64, hazardous bool) *NearEarthObject {
	o := &NearEarthObject{
		Designation: designation,
		Diameter:    diameter,
		Hazardous:   hazardous,
	}
	if name != "" {
		o.Name = &name
	}
	return o
}

// Fullname combines the designation with the name, if any: "433 (Eros)".
func (o *NearEarthObject) Fullname() string {
	if o.Name != nil {
		return fmt.Sprintf("%s (%s)", o.Designation, *o.Name)
	}
	return o.Designation
}

// HasDiameter reports whether the diameter is known.
func (o *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(o.Diameter)
}

func (o *NearEarthObject) String() string {
	hazard := "is not"
	if o.Hazardous {
		hazard = "is"
	}
	if !o.HasDiameter() {
		return fmt.Sprintf("NEO %s has an unknown diameter and %s potentially hazardous.", o.Fullname(), hazard)
	}
	return fmt.Sprintf("NEO %s has a diameter of %.3f km and %s potentially hazardous.", o.Fullname(), o.Diameter, hazard)
}

// CloseApproach is one recorded pass of a NEO near Earth.
type CloseApproach struct {
	Designation string    `validate:"required"`
	Time        time.Time `validate:"required"`
	Distance    float64   `validate:"gte=0"` // astronomical units
	Velocity    float64   `validate:"gte=0"` // km/s relative to Earth

	// NEO is set once by the database linker and stays nil for
	// designations that match no catalog entry.
	NEO *NearEarthObject `validate:"-"`
}

// TimeString formats the approach time for display and output files.
func (a *CloseApproach) TimeString() string {
	return a.Time.Format(TimeLayout)
}

func (a *CloseApproach) String() string {
	name := a.Designation
	if a.NEO != nil {
		name = a.NEO.Fullname()
	}
	return fmt.Sprintf("On %s, '%s' approaches Earth at a distance of %.2f au and a velocity of %.2f km/s.",
		a.TimeString(), name, a.Distance, a.Velocity)
}
