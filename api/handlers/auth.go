package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gauth "github.com/shaj13/go-guardian/auth"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/api"
	"github.com/roadwatch/accident-tracker-api/auth"
	"github.com/roadwatch/accident-tracker-api/config"
	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/models"
	"github.com/roadwatch/accident-tracker-api/validation"
)

// Auth exported for testing purposes
type Auth struct {
	DDB      databases.DriverDatabase
	OtpDB    databases.OtpDatabase
	Verifier auth.Verifier
	Sender   auth.Sender
}

// OtpRequest is the request-otp payload
type OtpRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// OtpVerification is the verify-otp payload
type OtpVerification struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// RequestOtpHandler issues a one-time code for a phone number. When the
// static verifier is active the code is fixed and nothing is stored, so we
// only acknowledge the request.
func (a Auth) RequestOtpHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req OtpRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if !validation.LoosePhone(req.Phone) {
		config.ErrorStatus("invalid phone number", http.StatusBadRequest, w, fmt.Errorf("phone must have at least 10 digits"))
		return
	}
	phone := req.Phone

	// stored challenges only exist in challenge mode
	if _, isChallenge := a.Verifier.(auth.ChallengeVerifier); isChallenge {
		ctx, cancel := api.WithQueryTimeout(r.Context())
		defer cancel()

		code, err := auth.IssueChallenge(ctx, a.OtpDB, phone)
		if err != nil {
			config.ErrorStatus("failed to issue otp challenge", http.StatusInternalServerError, w, err)
			return
		}

		name := "Driver"
		destination := req.Email
		if driver, err := a.DDB.FindOne(ctx, bson.M{"phone": phone}); err == nil {
			name = driver.Name
		}
		if destination == "" {
			destination = phone
		}
		if err := a.Sender.Send(ctx, name, destination, code); err != nil {
			zap.S().With(err).Error("failed to deliver otp code")
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "otp sent"}`))
}

// VerifyOtpHandler checks the submitted code and mints a bearer token plus a
// signed JWT on success
func (a Auth) VerifyOtpHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req OtpVerification
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	if !validation.LoosePhone(req.Phone) {
		config.ErrorStatus("invalid phone number", http.StatusBadRequest, w, fmt.Errorf("phone must have at least 10 digits"))
		return
	}
	phone := req.Phone

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.Verifier.Verify(ctx, phone, req.Code); err != nil {
		config.ErrorStatus("failed to verify otp code", http.StatusUnauthorized, w, err)
		return
	}

	resp := models.AuthResponse{Name: "Driver"}
	driver, err := a.DDB.FindOne(ctx, bson.M{"phone": phone})
	if err == nil {
		resp.DriverID = driver.ID.Hex()
		resp.Name = driver.Name
	}

	token := uuid.New().String()
	user := gauth.NewDefaultUser(phone, resp.DriverID, nil, nil)
	api.AppendToken(token, user, r)
	resp.Token = token

	if signed, err := signJWT(phone, resp.DriverID); err != nil {
		zap.S().With(err).Error("failed to sign jwt")
	} else {
		resp.JWT = signed
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func signJWT(phone, driverID string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"sub":      phone,
		"driverId": driverID,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
