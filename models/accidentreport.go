package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity is the reported severity of an accident
type Severity string

// Severity values accepted by the report form
const (
	SeverityCritical Severity = "Critical"
	SeverityModerate Severity = "Moderate"
	SeverityMinor    Severity = "Minor"
)

// AccidentType is the category of vehicle involved in an accident
type AccidentType string

// AccidentType values accepted by the report form
const (
	AccidentTypeBus            AccidentType = "Bus"
	AccidentTypeCar            AccidentType = "Car"
	AccidentTypeBike           AccidentType = "Bike"
	AccidentTypeHeavyTransport AccidentType = "Transport Heavy Vehicle"
)

var severities = map[Severity]bool{
	SeverityCritical: true,
	SeverityModerate: true,
	SeverityMinor:    true,
}

var accidentTypes = map[AccidentType]bool{
	AccidentTypeBus:            true,
	AccidentTypeCar:            true,
	AccidentTypeBike:           true,
	AccidentTypeHeavyTransport: true,
}

var vehiclesInvolvedChoices = map[string]bool{
	"1": true, "2": true, "3": true, "4": true, "More than 4": true,
}

var casualtiesChoices = map[string]bool{
	"1": true, "2": true, "More than 2": true, "More than 5": true,
	"More than 10": true, "More than 20": true,
}

// GeoPoint is a latitude/longitude pair in floating-point degrees
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// AccidentReport holds the structure for the accidentReports collection in
// mongo. Location is optional; a report with no coordinates is a valid
// document and is delivered to feed subscribers with a nil location.
type AccidentReport struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Location         *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	Severity         Severity           `json:"severity" bson:"severity"`
	AccidentType     AccidentType       `json:"accidentType" bson:"accidentType"`
	VehiclesInvolved string             `json:"vehiclesInvolved" bson:"vehiclesInvolved"`
	Casualties       string             `json:"casualties" bson:"casualties"`
	Timestamp        string             `json:"timestamp" bson:"timestamp"`
	PhotoURL         string             `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	ReportedBy       string             `json:"reportedBy,omitempty" bson:"reportedBy,omitempty"`
}

// AccidentReportDraft is the unpersisted form input for a new report. The
// mobile pickers only offer the enumerated values, but an HTTP body is not a
// picker widget, so membership is re-checked in Validate.
type AccidentReportDraft struct {
	Location         *GeoPoint    `json:"location,omitempty"`
	Severity         Severity     `json:"severity"`
	AccidentType     AccidentType `json:"accidentType"`
	VehiclesInvolved string       `json:"vehiclesInvolved"`
	Casualties       string       `json:"casualties"`
}

// Validate checks every draft field against its closed enumeration
func (d AccidentReportDraft) Validate() error {
	if !severities[d.Severity] {
		return fmt.Errorf("invalid severity %q", d.Severity)
	}
	if !accidentTypes[d.AccidentType] {
		return fmt.Errorf("invalid accidentType %q", d.AccidentType)
	}
	if !vehiclesInvolvedChoices[d.VehiclesInvolved] {
		return fmt.Errorf("invalid vehiclesInvolved %q", d.VehiclesInvolved)
	}
	if !casualtiesChoices[d.Casualties] {
		return fmt.Errorf("invalid casualties %q", d.Casualties)
	}
	return nil
}

// ComposeReport turns a draft into a report stamped with an ISO-8601 instant.
// The caller supplies the clock so submission time is testable.
func ComposeReport(d AccidentReportDraft, now time.Time) AccidentReport {
	return AccidentReport{
		Location:         d.Location,
		Severity:         d.Severity,
		AccidentType:     d.AccidentType,
		VehiclesInvolved: d.VehiclesInvolved,
		Casualties:       d.Casualties,
		Timestamp:        now.UTC().Format(time.RFC3339),
	}
}
