package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/api"
	"github.com/roadwatch/accident-tracker-api/config"
	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/location"
	"github.com/roadwatch/accident-tracker-api/models"
	"github.com/roadwatch/accident-tracker-api/session"
	"github.com/roadwatch/accident-tracker-api/validation"
)

// Driver exported for testing purposes
type Driver struct {
	DB databases.DriverDatabase
}

// OnlineStatusRequest is the online-status toggle payload
type OnlineStatusRequest struct {
	DriverID string `json:"driverId"`
	IsOnline bool   `json:"isOnline"`
}

// LocationUpdateRequest is the location update payload
type LocationUpdateRequest struct {
	DriverID string          `json:"driverId"`
	Location models.GeoPoint `json:"location"`
}

// RegisterDriverHandler validates the registration form and creates a driver.
// Validation failures return the full field-to-message map so the client can
// render every error at once.
func (d Driver) RegisterDriverHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var reg models.DriverRegistration
	err := json.NewDecoder(r.Body).Decode(&reg)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	values := map[string]string{
		"name":    reg.Name,
		"address": reg.Address,
		"phone":   reg.Phone,
		"aadhaar": reg.Aadhaar,
		"license": reg.License,
		"vehicle": reg.Vehicle,
	}
	if errs := validation.Validate(values, validation.DriverRegistrationRules()); len(errs) > 0 {
		b, err := json.Marshal(models.ValidationErrorResponse{Errors: errs})
		if err != nil {
			config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(b)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// check if the driver already exists
	existingDriver, _ := d.DB.FindOne(ctx, bson.M{"phone": reg.Phone})
	if existingDriver != nil {
		config.ErrorStatus("phone number already registered", http.StatusConflict, w, fmt.Errorf("duplicate phone number"))
		return
	}

	driver := models.Driver{
		ID:        primitive.NewObjectID(),
		Name:      reg.Name,
		Address:   reg.Address,
		Phone:     reg.Phone,
		Aadhaar:   reg.Aadhaar,
		License:   reg.License,
		Vehicle:   reg.Vehicle,
		IsOnline:  false,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	_, err = d.DB.InsertOne(ctx, driver)
	if err != nil {
		config.ErrorStatus("failed to insert driver", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Debugf("registered driver: %v", driver.ID.Hex())

	b, err := json.Marshal(driver)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// DriverByIDHandler returns a driver given a driverID
func (d Driver) DriverByIDHandler(w http.ResponseWriter, r *http.Request) {
	driverID := mux.Vars(r)["driver_id"]

	zap.S().Debugf("driver_id: %v", driverID)

	dID, err := primitive.ObjectIDFromHex(driverID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := d.DB.FindOne(ctx, bson.M{"_id": dID})
	if err != nil {
		config.ErrorStatus("failed to get driver by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SetOnlineStatusHandler toggles a driver between online and offline. Going
// online without a stored location is rejected and the stored state is left
// untouched.
func (d Driver) SetOnlineStatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req OnlineStatusRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	dID, err := primitive.ObjectIDFromHex(req.DriverID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	driver, err := d.DB.FindOne(ctx, bson.M{"_id": dID})
	if err != nil {
		config.ErrorStatus("failed to get driver by ID", http.StatusNotFound, w, err)
		return
	}

	state := session.State{IsOnline: driver.IsOnline, Location: driver.Location}
	next, err := session.Toggle(state)
	if err != nil {
		config.ErrorStatus("Please enable location services to go online", http.StatusConflict, w, err)
		return
	}

	_, err = d.DB.UpdateOne(ctx,
		bson.M{"_id": dID},
		bson.M{"$set": bson.M{"isOnline": next.IsOnline, "lastSeen": time.Now()}},
	)
	if err != nil {
		config.ErrorStatus("failed to update online status", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.OnlineStatusResponse{
		DriverID:       req.DriverID,
		IsOnline:       next.IsOnline,
		RecordsVisible: next.RecordsVisible(),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateLocationHandler stores a driver's latest position and returns a map
// region centered on it
func (d Driver) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req LocationUpdateRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	dID, err := primitive.ObjectIDFromHex(req.DriverID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err = d.DB.UpdateOne(ctx,
		bson.M{"_id": dID},
		bson.M{"$set": bson.M{"location": req.Location, "lastSeen": time.Now()}},
	)
	if err != nil {
		config.ErrorStatus("failed to update location", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(location.RegionAround(req.Location))
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
